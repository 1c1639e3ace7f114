package content

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/eudaura/telehealth-api/internal/apperror"
	"github.com/eudaura/telehealth-api/internal/model"
	"github.com/eudaura/telehealth-api/internal/repository"
	"github.com/eudaura/telehealth-api/internal/service/audit"
)

const (
	cacheTTL     = 5 * time.Minute
	cacheCleanup = 10 * time.Minute
)

// Service manages the admin-editable JSON documents behind the marketing
// pages and the site-image catalog. Reads are cached; the admin panel's
// writes invalidate.
type Service struct {
	repo    repository.ContentRepository
	auditor *audit.Service
	cache   *cache.Cache
}

func NewService(repo repository.ContentRepository, auditor *audit.Service) *Service {
	return &Service{
		repo:    repo,
		auditor: auditor,
		cache:   cache.New(cacheTTL, cacheCleanup),
	}
}

func (s *Service) GetDocument(ctx context.Context, name string) (*model.ContentDocument, error) {
	if cached, ok := s.cache.Get(name); ok {
		return cached.(*model.ContentDocument), nil
	}

	doc, err := s.repo.GetDocument(ctx, name)
	if err != nil {
		return nil, err
	}

	s.cache.Set(name, doc, cache.DefaultExpiration)
	return doc, nil
}

func (s *Service) PutDocument(ctx context.Context, name, updatedBy string, body json.RawMessage) error {
	if !json.Valid(body) {
		return apperror.Validation("body", "document body must be valid JSON")
	}

	doc := &model.ContentDocument{
		Name:      name,
		Body:      body,
		UpdatedBy: updatedBy,
		UpdatedAt: time.Now(),
	}

	if err := s.repo.PutDocument(ctx, doc); err != nil {
		return fmt.Errorf("failed to save content document: %w", err)
	}

	s.cache.Delete(name)

	s.auditor.Record(ctx, updatedBy, model.RoleAdmin,
		model.AuditActionContentUpdated, model.AuditTargetContent, map[string]interface{}{
			"document": name,
		})

	return nil
}

func (s *Service) ListImages(ctx context.Context) ([]*model.SiteImage, error) {
	return s.repo.ListImages(ctx)
}

// RegisterImage records metadata after the presigned upload completed.
func (s *Service) RegisterImage(ctx context.Context, updatedBy string, req *model.RegisterImageRequest) (*model.SiteImage, error) {
	img := &model.SiteImage{
		Name:       req.Name,
		Key:        req.Key,
		URL:        "/images/" + req.Name,
		SizeBytes:  req.SizeBytes,
		UploadedAt: time.Now(),
	}

	if err := s.repo.CreateImage(ctx, img); err != nil {
		return nil, fmt.Errorf("failed to register image: %w", err)
	}

	s.auditor.Record(ctx, updatedBy, model.RoleAdmin,
		model.AuditActionImageUploaded, model.AuditTargetImage, map[string]interface{}{
			"name": img.Name,
			"key":  img.Key,
		})

	return img, nil
}

func (s *Service) DeleteImage(ctx context.Context, name string) error {
	return s.repo.DeleteImage(ctx, name)
}
