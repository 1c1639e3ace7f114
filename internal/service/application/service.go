package application

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/eudaura/telehealth-api/internal/apperror"
	"github.com/eudaura/telehealth-api/internal/email"
	"github.com/eudaura/telehealth-api/internal/model"
	"github.com/eudaura/telehealth-api/internal/repository"
	"github.com/eudaura/telehealth-api/internal/service/audit"
	"github.com/eudaura/telehealth-api/internal/service/notification"
	"github.com/eudaura/telehealth-api/pkg/metrics"
)

type Service struct {
	repo       repository.ApplicationRepository
	auditor    *audit.Service
	dispatcher *notification.Dispatcher
	metrics    *metrics.Metrics
	validate   *validator.Validate

	adminEmail string
	siteURL    string
}

func NewService(repo repository.ApplicationRepository, auditor *audit.Service,
	dispatcher *notification.Dispatcher, m *metrics.Metrics, adminEmail, siteURL string) *Service {
	validate := validator.New()
	// Report field names as they appear on the wire.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Service{
		repo:       repo,
		auditor:    auditor,
		dispatcher: dispatcher,
		metrics:    m,
		validate:   validate,
		adminEmail: adminEmail,
		siteURL:    siteURL,
	}
}

// Submit validates and persists a new application. Nothing is written when
// validation fails; the returned error names the offending field.
func (s *Service) Submit(ctx context.Context, req *model.SubmitApplicationRequest) (uuid.UUID, error) {
	if err := s.validateSubmission(req); err != nil {
		return uuid.Nil, err
	}

	now := time.Now()
	app := &model.ClinicianApplication{
		ID:          uuid.New(),
		Status:      model.ApplicationStatusSubmitted,
		FullName:    req.FullName,
		Email:       req.Email,
		Phone:       req.Phone,
		NPI:         req.NPI,
		Licenses:    req.Licenses,
		Documents:   req.Documents,
		Specialties: req.Specialties,
		Flags:       req.Flags,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, app); err != nil {
		return uuid.Nil, fmt.Errorf("failed to submit application: %w", err)
	}

	if s.metrics != nil {
		s.metrics.ApplicationsSubmitted.Inc()
	}

	s.auditor.Record(ctx, model.AuditActorSystem, model.AuditActorSystem,
		model.AuditActionApplicationSubmitted, model.AuditTargetClinicianApp, map[string]interface{}{
			"appId":          app.ID.String(),
			"clinicianName":  app.FullName,
			"clinicianEmail": app.Email,
		})

	s.dispatcher.Dispatch(notification.KindAdminAlert, email.AdminApplicationAlert(
		s.adminEmail, app.FullName, app.Email, app.NPI,
		app.AllowedStates(), app.Specialties, app.ID.String(), s.siteURL, now))

	return app.ID, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.ClinicianApplication, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) ListByStatus(ctx context.Context, status string) ([]*model.ClinicianApplication, error) {
	switch status {
	case model.ApplicationStatusSubmitted, model.ApplicationStatusApproved, model.ApplicationStatusDenied:
	default:
		return nil, apperror.Validation("status", "unknown application status")
	}
	return s.repo.ListByStatus(ctx, status)
}

func (s *Service) validateSubmission(req *model.SubmitApplicationRequest) error {
	if err := s.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			field := verrs[0].Field()
			return apperror.Validation(field, fmt.Sprintf("%s failed %s validation", field, verrs[0].Tag()))
		}
		return apperror.Validation("payload", err.Error())
	}

	if !validNPI(req.NPI) {
		return apperror.Validation("npi", "NPI must be exactly 10 digits")
	}

	if !req.Consent {
		return apperror.Validation("consent", "consent is required")
	}

	return nil
}

func validNPI(npi string) bool {
	if len(npi) != 10 {
		return false
	}
	for _, r := range npi {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
