package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/eudaura/telehealth-api/internal/apperror"
	"github.com/eudaura/telehealth-api/internal/model"
	"github.com/eudaura/telehealth-api/internal/repository"
)

type accountRepository struct {
	db *sqlx.DB
}

func NewAccountRepository(db *sqlx.DB) repository.AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Create(ctx context.Context, account *model.Account) error {
	if account.Profile != nil {
		data, err := json.Marshal(account.Profile)
		if err != nil {
			return fmt.Errorf("failed to marshal profile: %w", err)
		}
		account.ProfileJSON = string(data)
	}

	query := `
        INSERT INTO accounts (
            id, role, state, first_name, last_name, email, phone,
            date_of_birth, npi, allowed_states, password_hash, profile,
            otp_digest, otp_expires_at, created_at, updated_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
    `

	_, err := r.db.ExecContext(ctx, query,
		account.ID,
		account.Role,
		account.State,
		account.FirstName,
		account.LastName,
		account.Email,
		account.Phone,
		account.DateOfBirth,
		account.NPI,
		pq.Array(account.AllowedStates),
		account.PasswordHash,
		account.ProfileJSON,
		account.OTPDigest,
		account.OTPExpiresAt,
		account.CreatedAt,
		account.UpdatedAt,
	)
	if err != nil {
		return apperror.Dependency("failed to create account", err)
	}

	return nil
}

func (r *accountRepository) Get(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	query := `
        SELECT id, role, state, first_name, last_name, email, phone,
               date_of_birth, npi, allowed_states, password_hash, profile,
               otp_digest, otp_expires_at, created_at, updated_at
        FROM accounts WHERE id = $1
    `
	return r.scanOne(ctx, query, id)
}

func (r *accountRepository) GetByContact(ctx context.Context, contact string) (*model.Account, error) {
	query := `
        SELECT id, role, state, first_name, last_name, email, phone,
               date_of_birth, npi, allowed_states, password_hash, profile,
               otp_digest, otp_expires_at, created_at, updated_at
        FROM accounts WHERE email = $1 OR phone = $1
        ORDER BY created_at DESC LIMIT 1
    `
	return r.scanOne(ctx, query, contact)
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	query := `
        SELECT id, role, state, first_name, last_name, email, phone,
               date_of_birth, npi, allowed_states, password_hash, profile,
               otp_digest, otp_expires_at, created_at, updated_at
        FROM accounts WHERE email = $1
    `
	return r.scanOne(ctx, query, email)
}

func (r *accountRepository) scanOne(ctx context.Context, query string, arg interface{}) (*model.Account, error) {
	var account model.Account
	var allowedStates pq.StringArray

	row := r.db.QueryRowxContext(ctx, query, arg)
	err := row.Scan(
		&account.ID,
		&account.Role,
		&account.State,
		&account.FirstName,
		&account.LastName,
		&account.Email,
		&account.Phone,
		&account.DateOfBirth,
		&account.NPI,
		&allowedStates,
		&account.PasswordHash,
		&account.ProfileJSON,
		&account.OTPDigest,
		&account.OTPExpiresAt,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NotFound("account not found")
	}
	if err != nil {
		return nil, apperror.Dependency("failed to get account", err)
	}

	account.AllowedStates = allowedStates
	if account.ProfileJSON != "" {
		if err := json.Unmarshal([]byte(account.ProfileJSON), &account.Profile); err != nil {
			return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
		}
	}

	return &account, nil
}

func (r *accountRepository) SetOTP(ctx context.Context, id uuid.UUID, digest string, expiresAt time.Time) error {
	query := `
        UPDATE accounts
        SET otp_digest = $2, otp_expires_at = $3, updated_at = $4
        WHERE id = $1 AND state = $5
    `

	result, err := r.db.ExecContext(ctx, query, id, digest, expiresAt, time.Now(), model.PatientStatePendingVerification)
	if err != nil {
		return apperror.Dependency("failed to set verification code", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperror.Dependency("failed to set verification code", err)
	}
	if rows == 0 {
		return apperror.InvalidState("account is not awaiting verification")
	}

	return nil
}

func (r *accountRepository) CompleteVerification(ctx context.Context, id uuid.UUID) error {
	// Conditional write: only one verify call can win the transition.
	query := `
        UPDATE accounts
        SET state = $2, otp_digest = NULL, otp_expires_at = NULL, updated_at = $3
        WHERE id = $1 AND state = $4
    `

	result, err := r.db.ExecContext(ctx, query, id, model.PatientStateProvisioned, time.Now(), model.PatientStatePendingVerification)
	if err != nil {
		return apperror.Dependency("failed to complete verification", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperror.Dependency("failed to complete verification", err)
	}
	if rows == 0 {
		return apperror.InvalidState("account is not awaiting verification")
	}

	return nil
}
