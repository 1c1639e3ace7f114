package storage

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/eudaura/telehealth-api/internal/apperror"
	"github.com/eudaura/telehealth-api/internal/config"
	"github.com/eudaura/telehealth-api/internal/model"
)

// Key prefixes by upload purpose.
const (
	PrefixClinicianDocuments = "clinician-documents"
	PrefixSiteImages         = "site-images"
)

var allowedContentTypes = map[string]bool{
	"application/pdf": true,
	"image/png":       true,
	"image/jpeg":      true,
	"image/jpg":       true,
	"image/webp":      true,
	"image/svg+xml":   true,
}

// UploadService validates upload requests and hands out presigned URLs.
type UploadService struct {
	presigner Presigner
	maxBytes  int64
}

func NewUploadService(presigner Presigner, cfg config.StorageConfig) *UploadService {
	return &UploadService{
		presigner: presigner,
		maxBytes:  cfg.MaxUploadBytes,
	}
}

func (s *UploadService) MaxUploadBytes() int64 { return s.maxBytes }

// CreateUploadURL checks the content type against the allow list and the
// declared size against the cap, builds a collision-resistant object key
// under the given prefix, and returns the signed URL alongside the key the
// caller should reference later.
func (s *UploadService) CreateUploadURL(ctx context.Context, prefix, filename, contentType string, size int64) (*model.PresignResponse, error) {
	if filename == "" {
		return nil, apperror.Validation("filename", "filename is required")
	}
	if !allowedContentTypes[contentType] {
		return nil, apperror.Validation("contentType", fmt.Sprintf("content type %s not allowed", contentType))
	}
	if s.maxBytes > 0 && size > s.maxBytes {
		return nil, apperror.Validation("size", fmt.Sprintf("file exceeds the %d byte limit", s.maxBytes))
	}

	suffix := make([]byte, 6)
	if _, err := rand.Read(suffix); err != nil {
		return nil, apperror.Dependency("failed to generate upload key", err)
	}
	key := fmt.Sprintf("%s/%d-%s-%s", prefix, time.Now().UnixMilli(), hex.EncodeToString(suffix), filename)

	url, err := s.presigner.PresignUpload(ctx, key, contentType)
	if err != nil {
		return nil, apperror.Dependency("failed to generate upload URL", err)
	}

	return &model.PresignResponse{URL: url, Key: key}, nil
}
