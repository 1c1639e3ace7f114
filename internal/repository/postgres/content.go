package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/eudaura/telehealth-api/internal/apperror"
	"github.com/eudaura/telehealth-api/internal/model"
	"github.com/eudaura/telehealth-api/internal/repository"
)

type contentRepository struct {
	db *sqlx.DB
}

func NewContentRepository(db *sqlx.DB) repository.ContentRepository {
	return &contentRepository{db: db}
}

func (r *contentRepository) GetDocument(ctx context.Context, name string) (*model.ContentDocument, error) {
	query := `
        SELECT name, body, updated_by, updated_at
        FROM content_documents WHERE name = $1
    `

	var doc model.ContentDocument
	err := r.db.GetContext(ctx, &doc, query, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NotFound("content document not found")
	}
	if err != nil {
		return nil, apperror.Dependency("failed to get content document", err)
	}

	return &doc, nil
}

func (r *contentRepository) PutDocument(ctx context.Context, doc *model.ContentDocument) error {
	query := `
        INSERT INTO content_documents (name, body, updated_by, updated_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (name) DO UPDATE
        SET body = EXCLUDED.body, updated_by = EXCLUDED.updated_by, updated_at = EXCLUDED.updated_at
    `

	_, err := r.db.ExecContext(ctx, query, doc.Name, doc.Body, doc.UpdatedBy, doc.UpdatedAt)
	if err != nil {
		return apperror.Dependency("failed to save content document", err)
	}

	return nil
}

func (r *contentRepository) ListImages(ctx context.Context) ([]*model.SiteImage, error) {
	query := `
        SELECT name, key, url, size_bytes, uploaded_at
        FROM site_images
        ORDER BY uploaded_at DESC
    `

	var images []*model.SiteImage
	if err := r.db.SelectContext(ctx, &images, query); err != nil {
		return nil, apperror.Dependency("failed to list images", err)
	}

	return images, nil
}

func (r *contentRepository) CreateImage(ctx context.Context, img *model.SiteImage) error {
	query := `
        INSERT INTO site_images (name, key, url, size_bytes, uploaded_at)
        VALUES ($1, $2, $3, $4, $5)
    `

	_, err := r.db.ExecContext(ctx, query, img.Name, img.Key, img.URL, img.SizeBytes, img.UploadedAt)
	if err != nil {
		return apperror.Dependency("failed to record image", err)
	}

	return nil
}

func (r *contentRepository) DeleteImage(ctx context.Context, name string) error {
	query := `DELETE FROM site_images WHERE name = $1`

	result, err := r.db.ExecContext(ctx, query, name)
	if err != nil {
		return apperror.Dependency("failed to delete image", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperror.Dependency("failed to delete image", err)
	}
	if rows == 0 {
		return apperror.NotFound("image not found")
	}

	return nil
}
