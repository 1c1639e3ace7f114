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

type applicationRepository struct {
	db *sqlx.DB
}

func NewApplicationRepository(db *sqlx.DB) repository.ApplicationRepository {
	return &applicationRepository{db: db}
}

func (r *applicationRepository) Create(ctx context.Context, app *model.ClinicianApplication) error {
	if err := marshalApplicationJSON(app); err != nil {
		return err
	}

	query := `
        INSERT INTO clinician_applications (
            id, status, full_name, email, phone, npi, licenses, documents,
            specialties, flags, denial_reason, created_at, updated_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
    `

	_, err := r.db.ExecContext(ctx, query,
		app.ID,
		app.Status,
		app.FullName,
		app.Email,
		app.Phone,
		app.NPI,
		app.LicensesJSON,
		app.DocumentsJSON,
		pq.Array(app.Specialties),
		app.FlagsJSON,
		app.DenialReason,
		app.CreatedAt,
		app.UpdatedAt,
	)
	if err != nil {
		return apperror.Dependency("failed to create application", err)
	}

	return nil
}

func (r *applicationRepository) Get(ctx context.Context, id uuid.UUID) (*model.ClinicianApplication, error) {
	query := `
        SELECT id, status, full_name, email, phone, npi, licenses, documents,
               specialties, flags, denial_reason, created_at, updated_at
        FROM clinician_applications WHERE id = $1
    `

	app, err := r.scanOne(r.db.QueryRowxContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NotFound("application not found")
	}
	if err != nil {
		return nil, err
	}

	return app, nil
}

func (r *applicationRepository) ListByStatus(ctx context.Context, status string) ([]*model.ClinicianApplication, error) {
	query := `
        SELECT id, status, full_name, email, phone, npi, licenses, documents,
               specialties, flags, denial_reason, created_at, updated_at
        FROM clinician_applications WHERE status = $1
        ORDER BY created_at DESC
    `

	rows, err := r.db.QueryxContext(ctx, query, status)
	if err != nil {
		return nil, apperror.Dependency("failed to list applications", err)
	}
	defer rows.Close()

	var apps []*model.ClinicianApplication
	for rows.Next() {
		app, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.Dependency("failed to list applications", err)
	}

	return apps, nil
}

// TransitionStatus is the compare-and-swap on the application lifecycle. The
// status flip commits only if the stored status still matches `from`, so of
// two concurrent approve/deny calls exactly one succeeds.
func (r *applicationRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to, reason string) error {
	query := `
        UPDATE clinician_applications
        SET status = $3, denial_reason = $4, updated_at = $5
        WHERE id = $1 AND status = $2
    `

	result, err := r.db.ExecContext(ctx, query, id, from, to, reason, time.Now())
	if err != nil {
		return apperror.Dependency("failed to update application status", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperror.Dependency("failed to update application status", err)
	}
	if rows == 0 {
		return apperror.InvalidState(fmt.Sprintf("application is not in %s status", from))
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *applicationRepository) scanOne(row rowScanner) (*model.ClinicianApplication, error) {
	var app model.ClinicianApplication
	var specialties pq.StringArray

	err := row.Scan(
		&app.ID,
		&app.Status,
		&app.FullName,
		&app.Email,
		&app.Phone,
		&app.NPI,
		&app.LicensesJSON,
		&app.DocumentsJSON,
		&specialties,
		&app.FlagsJSON,
		&app.DenialReason,
		&app.CreatedAt,
		&app.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, apperror.Dependency("failed to scan application", err)
	}

	app.Specialties = specialties
	if err := unmarshalApplicationJSON(&app); err != nil {
		return nil, err
	}

	return &app, nil
}

func marshalApplicationJSON(app *model.ClinicianApplication) error {
	data, err := json.Marshal(app.Licenses)
	if err != nil {
		return fmt.Errorf("failed to marshal licenses: %w", err)
	}
	app.LicensesJSON = string(data)

	if app.Documents != nil {
		data, err = json.Marshal(app.Documents)
		if err != nil {
			return fmt.Errorf("failed to marshal documents: %w", err)
		}
		app.DocumentsJSON = string(data)
	}

	if app.Flags != nil {
		data, err = json.Marshal(app.Flags)
		if err != nil {
			return fmt.Errorf("failed to marshal flags: %w", err)
		}
		app.FlagsJSON = string(data)
	}

	return nil
}

func unmarshalApplicationJSON(app *model.ClinicianApplication) error {
	if app.LicensesJSON != "" {
		if err := json.Unmarshal([]byte(app.LicensesJSON), &app.Licenses); err != nil {
			return fmt.Errorf("failed to unmarshal licenses: %w", err)
		}
	}

	if app.DocumentsJSON != "" {
		var docs model.DocumentRefs
		if err := json.Unmarshal([]byte(app.DocumentsJSON), &docs); err != nil {
			return fmt.Errorf("failed to unmarshal documents: %w", err)
		}
		app.Documents = &docs
	}

	if app.FlagsJSON != "" {
		var flags model.Flags
		if err := json.Unmarshal([]byte(app.FlagsJSON), &flags); err != nil {
			return fmt.Errorf("failed to unmarshal flags: %w", err)
		}
		app.Flags = &flags
	}

	return nil
}
