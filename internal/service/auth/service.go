package auth

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/eudaura/telehealth-api/internal/model"
	"github.com/eudaura/telehealth-api/internal/repository"
	"github.com/eudaura/telehealth-api/internal/service/audit"
	"github.com/eudaura/telehealth-api/pkg/auth"
)

type Service struct {
	repo    repository.AccountRepository
	jwtSvc  auth.JWTService
	auditor *audit.Service
}

func NewService(repo repository.AccountRepository, jwtSvc auth.JWTService, auditor *audit.Service) *Service {
	return &Service{repo: repo, jwtSvc: jwtSvc, auditor: auditor}
}

// Login checks credentials and issues a session token carrying the role
// claim the admin routes are gated on. The error is deliberately the same
// for unknown email and wrong password.
func (s *Service) Login(ctx context.Context, email, password string) (*model.TokenResponse, error) {
	account, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}

	token, expiresAt, err := s.jwtSvc.GenerateToken(&auth.Claims{
		AccountID: account.ID,
		Email:     account.Email,
		Role:      account.Role,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	if account.Role == model.RoleAdmin {
		s.auditor.Record(ctx, account.ID.String(), account.Role,
			model.AuditActionAdminLogin, model.AuditTargetUser, map[string]interface{}{
				"email": account.Email,
			})
	}

	return &model.TokenResponse{Token: token, Role: account.Role, ExpiresAt: expiresAt}, nil
}

// ValidateToken parses and verifies a session token.
func (s *Service) ValidateToken(_ context.Context, token string) (*auth.Claims, error) {
	return s.jwtSvc.ValidateToken(token)
}

// HashPassword is used when seeding the admin account.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
