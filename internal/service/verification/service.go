package verification

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/eudaura/telehealth-api/internal/apperror"
	"github.com/eudaura/telehealth-api/internal/config"
	"github.com/eudaura/telehealth-api/internal/email"
	"github.com/eudaura/telehealth-api/internal/model"
	"github.com/eudaura/telehealth-api/internal/repository"
	"github.com/eudaura/telehealth-api/internal/service/audit"
	"github.com/eudaura/telehealth-api/internal/service/notification"
	"github.com/eudaura/telehealth-api/pkg/metrics"
	"github.com/eudaura/telehealth-api/pkg/ratelimit"
)

// OnboardingPath is where a verified patient continues.
const OnboardingPath = "/onboarding/patient"

type Service struct {
	repo       repository.AccountRepository
	auditor    *audit.Service
	dispatcher *notification.Dispatcher
	limiter    ratelimit.Limiter
	metrics    *metrics.Metrics
	cfg        config.OTPConfig
}

func NewService(repo repository.AccountRepository, auditor *audit.Service,
	dispatcher *notification.Dispatcher, limiter ratelimit.Limiter,
	m *metrics.Metrics, cfg config.OTPConfig) *Service {
	return &Service{
		repo:       repo,
		auditor:    auditor,
		dispatcher: dispatcher,
		limiter:    limiter,
		metrics:    m,
		cfg:        cfg,
	}
}

// SignupResult is returned to the signup caller. The plaintext code is
// never part of it.
type SignupResult struct {
	RequestID uuid.UUID `json:"requestId"`
	Contact   string    `json:"contact"`
}

// Signup validates the patient payload, creates the provisional account,
// and issues the first verification code.
func (s *Service) Signup(ctx context.Context, req *model.PatientSignupRequest) (*SignupResult, error) {
	if err := validateSignup(req); err != nil {
		return nil, err
	}

	now := time.Now()
	account := &model.Account{
		ID:          uuid.New(),
		Role:        model.RolePatient,
		State:       model.PatientStatePendingVerification,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Phone:       req.Phone,
		DateOfBirth: req.DOB,
		Profile: model.JSONMap{
			"address":          req.Address,
			"insurance":        req.Insurance,
			"preferredContact": req.PreferredContact,
			"consent":          req.Consent,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	code, digest, expiresAt, err := s.generateCode(account.ID)
	if err != nil {
		return nil, err
	}
	account.OTPDigest = &digest
	account.OTPExpiresAt = &expiresAt

	if err := s.repo.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to create provisional account: %w", err)
	}

	s.auditor.Record(ctx, account.ID.String(), model.RolePatient,
		model.AuditActionPatientSignup, model.AuditTargetUser, map[string]interface{}{
			"userId":  account.ID.String(),
			"contact": account.Email,
		})

	if s.metrics != nil {
		s.metrics.OTPIssued.Inc()
	}
	s.dispatcher.Dispatch(notification.KindOTP, email.OTPMessage(account.Email, account.FirstName, code))

	return &SignupResult{RequestID: account.ID, Contact: account.Email}, nil
}

// Verify checks a submitted code against the stored digest. Each failure
// mode is a distinct error kind so the caller can correct the right thing.
// Success clears the code fields and advances the account to PROVISIONED.
func (s *Service) Verify(ctx context.Context, accountID uuid.UUID, code string) (string, error) {
	account, err := s.repo.Get(ctx, accountID)
	if err != nil {
		s.countVerify("not_found")
		return "", err
	}

	if !account.AwaitingVerification() {
		s.countVerify("invalid_state")
		return "", apperror.InvalidState("account is not awaiting verification")
	}

	if account.OTPDigest == nil || account.OTPExpiresAt == nil {
		s.countVerify("not_found")
		return "", apperror.NotFound("no verification code on file")
	}

	if time.Now().After(*account.OTPExpiresAt) {
		s.countVerify("expired")
		return "", apperror.Expired("verification code has expired")
	}

	if !hmac.Equal([]byte(s.digest(accountID, code)), []byte(*account.OTPDigest)) {
		s.countVerify("mismatch")
		return "", apperror.Mismatch("verification code does not match")
	}

	if err := s.repo.CompleteVerification(ctx, accountID); err != nil {
		s.countVerify("invalid_state")
		return "", err
	}

	s.countVerify("success")
	s.auditor.Record(ctx, accountID.String(), model.RolePatient,
		model.AuditActionPatientVerified, model.AuditTargetUser, map[string]interface{}{
			"contact": account.Email,
		})

	return OnboardingPath, nil
}

// Resend reissues a fresh code for the account matching the contact,
// overwriting any prior one. Resends are rate limited per contact.
func (s *Service) Resend(ctx context.Context, contact string) error {
	if contact == "" {
		return apperror.Validation("contact", "contact is required")
	}

	allowed, err := s.limiter.Allow(ctx, "otp-resend:"+contact, s.cfg.ResendLimit, s.cfg.ResendWindow)
	if err != nil {
		return apperror.Dependency("failed to check resend limit", err)
	}
	if !allowed {
		return apperror.Validation("contact", "too many resend attempts, try again later")
	}

	account, err := s.repo.GetByContact(ctx, contact)
	if err != nil {
		return err
	}

	if !account.AwaitingVerification() {
		return apperror.InvalidState("account is not awaiting verification")
	}

	code, digest, expiresAt, err := s.generateCode(account.ID)
	if err != nil {
		return err
	}

	if err := s.repo.SetOTP(ctx, account.ID, digest, expiresAt); err != nil {
		return err
	}

	if s.metrics != nil {
		s.metrics.OTPIssued.Inc()
	}
	s.dispatcher.Dispatch(notification.KindOTP, email.OTPMessage(account.Email, account.FirstName, code))

	return nil
}

// generateCode draws a 6-digit code from crypto/rand and returns it with
// its keyed digest and expiry.
func (s *Service) generateCode(accountID uuid.UUID) (code, digest string, expiresAt time.Time, err error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", "", time.Time{}, apperror.Dependency("failed to generate verification code", err)
	}

	code = fmt.Sprintf("%06d", n.Int64()+100000)
	return code, s.digest(accountID, code), time.Now().Add(s.cfg.TTL), nil
}

// digest is a keyed one-way digest of the code, bound to the account so a
// code issued for one account cannot verify another.
func (s *Service) digest(accountID uuid.UUID, code string) string {
	mac := hmac.New(sha256.New, []byte(s.cfg.Secret))
	mac.Write([]byte(accountID.String() + ":" + code))
	return hex.EncodeToString(mac.Sum(nil))
}

func (s *Service) countVerify(outcome string) {
	if s.metrics != nil {
		s.metrics.OTPVerified.WithLabelValues(outcome).Inc()
	}
}

func validateSignup(req *model.PatientSignupRequest) error {
	switch {
	case req.FirstName == "":
		return apperror.Validation("firstName", "first name is required")
	case req.LastName == "":
		return apperror.Validation("lastName", "last name is required")
	case req.DOB == "":
		return apperror.Validation("dob", "date of birth is required")
	case req.Email == "":
		return apperror.Validation("email", "email is required")
	case req.Address == nil || req.Address.Address1 == "" || req.Address.City == "" ||
		req.Address.State == "" || req.Address.PostalCode == "":
		return apperror.Validation("address", "address is incomplete")
	}

	if req.PreferredContact == "sms" && req.Phone == "" {
		return apperror.Validation("phone", "phone number required for SMS verification")
	}

	if ins := req.Insurance; ins != nil && ins.HasInsurance {
		switch ins.Type {
		case "":
			return apperror.Validation("insurance.type", "insurance type required when hasInsurance is true")
		case "Medicare":
			if ins.Medicare == nil || ins.Medicare.ID == "" {
				return apperror.Validation("insurance.medicare.id", "Medicare ID required for Medicare insurance")
			}
		case "Medicaid":
			if ins.Medicaid == nil || ins.Medicaid.ID == "" || ins.Medicaid.State == "" {
				return apperror.Validation("insurance.medicaid", "Medicaid ID and state required for Medicaid insurance")
			}
		case "Commercial":
			if ins.Commercial == nil || ins.Commercial.MemberID == "" || ins.Commercial.Carrier == "" {
				return apperror.Validation("insurance.commercial", "member ID and carrier required for commercial insurance")
			}
		}
	}

	return nil
}
