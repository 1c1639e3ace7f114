package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/eudaura/telehealth-api/internal/apperror"
	"github.com/eudaura/telehealth-api/internal/model"
	"github.com/eudaura/telehealth-api/internal/repository"
)

type auditRepository struct {
	db *sqlx.DB
}

func NewAuditRepository(db *sqlx.DB) repository.AuditRepository {
	return &auditRepository{db: db}
}

// Create appends an entry. There is no update or delete path on this table.
func (r *auditRepository) Create(ctx context.Context, entry *model.AuditEntry) error {
	query := `
        INSERT INTO audit_entries (
            id, actor_id, actor_role, action, target_type, metadata, created_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7)
    `

	_, err := r.db.ExecContext(ctx, query,
		entry.ID,
		entry.ActorID,
		entry.ActorRole,
		entry.Action,
		entry.TargetType,
		entry.Metadata,
		entry.CreatedAt,
	)
	if err != nil {
		return apperror.Dependency("failed to write audit entry", err)
	}

	return nil
}

func (r *auditRepository) List(ctx context.Context, limit int) ([]*model.AuditEntry, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `
        SELECT id, actor_id, actor_role, action, target_type, metadata, created_at
        FROM audit_entries
        ORDER BY created_at DESC
        LIMIT $1
    `

	var entries []*model.AuditEntry
	if err := r.db.SelectContext(ctx, &entries, query, limit); err != nil {
		return nil, apperror.Dependency("failed to list audit entries", err)
	}

	return entries, nil
}
