package contact

import (
	"context"

	"github.com/eudaura/telehealth-api/internal/email"
	"github.com/eudaura/telehealth-api/internal/model"
	"github.com/eudaura/telehealth-api/internal/service/notification"
)

// Service forwards contact-form messages to the admin inbox. Delivery is
// best-effort; the submitter always gets an acknowledgement.
type Service struct {
	dispatcher *notification.Dispatcher
	adminEmail string
}

func NewService(dispatcher *notification.Dispatcher, adminEmail string) *Service {
	return &Service{dispatcher: dispatcher, adminEmail: adminEmail}
}

func (s *Service) Submit(_ context.Context, req *model.ContactRequest) {
	s.dispatcher.Dispatch(notification.KindContact,
		email.ContactMessage(s.adminEmail, req.Name, req.Email, req.Role, req.Message))
}
