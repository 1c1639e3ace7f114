package review

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/eudaura/telehealth-api/internal/apperror"
	"github.com/eudaura/telehealth-api/internal/email"
	"github.com/eudaura/telehealth-api/internal/model"
	"github.com/eudaura/telehealth-api/internal/repository"
	"github.com/eudaura/telehealth-api/internal/service/audit"
	"github.com/eudaura/telehealth-api/internal/service/notification"
	"github.com/eudaura/telehealth-api/pkg/metrics"
)

// Service executes the terminal approve/deny transition on submitted
// applications. The flip itself is a conditional write, so of two
// concurrent reviews exactly one commits and the other sees InvalidState.
type Service struct {
	appRepo     repository.ApplicationRepository
	accountRepo repository.AccountRepository
	auditor     *audit.Service
	dispatcher  *notification.Dispatcher
	metrics     *metrics.Metrics
	siteURL     string
}

func NewService(appRepo repository.ApplicationRepository, accountRepo repository.AccountRepository,
	auditor *audit.Service, dispatcher *notification.Dispatcher, m *metrics.Metrics, siteURL string) *Service {
	return &Service{
		appRepo:     appRepo,
		accountRepo: accountRepo,
		auditor:     auditor,
		dispatcher:  dispatcher,
		metrics:     m,
		siteURL:     siteURL,
	}
}

// Approve flips a SUBMITTED application to APPROVED and provisions the
// clinician account in INVITED state, carrying the allowed practice states
// derived from the licenses.
func (s *Service) Approve(ctx context.Context, appID uuid.UUID) (*model.ReviewResult, error) {
	app, err := s.appRepo.Get(ctx, appID)
	if err != nil {
		return nil, err
	}

	if err := s.appRepo.TransitionStatus(ctx, appID, model.ApplicationStatusSubmitted, model.ApplicationStatusApproved, ""); err != nil {
		return nil, err
	}

	allowedStates := app.AllowedStates()
	firstName, lastName := splitName(app.FullName)
	now := time.Now()

	account := &model.Account{
		ID:            uuid.New(),
		Role:          model.RoleClinician,
		State:         model.ClinicianStateInvited,
		FirstName:     firstName,
		LastName:      lastName,
		Email:         app.Email,
		Phone:         app.Phone,
		NPI:           app.NPI,
		AllowedStates: allowedStates,
		Profile: model.JSONMap{
			"specialties": app.Specialties,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.accountRepo.Create(ctx, account); err != nil {
		// The status already flipped; the caller must not see success
		// without the account record existing.
		return nil, fmt.Errorf("application approved but account creation failed: %w", err)
	}

	if s.metrics != nil {
		s.metrics.ApplicationsReviewed.WithLabelValues("approved").Inc()
	}

	s.auditor.Record(ctx, model.AuditActorAdmin, model.RoleAdmin,
		model.AuditActionApplicationApproved, model.AuditTargetClinicianApp, map[string]interface{}{
			"appId":          appID.String(),
			"userId":         account.ID.String(),
			"clinicianName":  app.FullName,
			"clinicianEmail": app.Email,
			"allowedStates":  allowedStates,
		})

	s.dispatcher.Dispatch(notification.KindApproval, email.ApprovalMessage(app.Email, app.FullName, s.siteURL))

	return &model.ReviewResult{AccountID: account.ID, AllowedStates: allowedStates}, nil
}

// Deny flips a SUBMITTED application to DENIED. A non-empty reason is
// required and recorded in the audit trail. No account is created.
func (s *Service) Deny(ctx context.Context, appID uuid.UUID, reason string) error {
	if strings.TrimSpace(reason) == "" {
		return apperror.Validation("reason", "denial reason is required")
	}

	app, err := s.appRepo.Get(ctx, appID)
	if err != nil {
		return err
	}

	if err := s.appRepo.TransitionStatus(ctx, appID, model.ApplicationStatusSubmitted, model.ApplicationStatusDenied, reason); err != nil {
		return err
	}

	if s.metrics != nil {
		s.metrics.ApplicationsReviewed.WithLabelValues("denied").Inc()
	}

	s.auditor.Record(ctx, model.AuditActorAdmin, model.RoleAdmin,
		model.AuditActionApplicationDenied, model.AuditTargetClinicianApp, map[string]interface{}{
			"appId":          appID.String(),
			"clinicianEmail": app.Email,
			"reason":         reason,
		})

	s.dispatcher.Dispatch(notification.KindDenial, email.DenialMessage(app.Email, app.FullName, reason))

	return nil
}

func splitName(full string) (first, last string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "", ""
	}
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
