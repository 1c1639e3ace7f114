package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eudaura/telehealth-api/internal/apperror"
	"github.com/eudaura/telehealth-api/internal/config"
)

type fakePresigner struct {
	lastKey         string
	lastContentType string
}

func (f *fakePresigner) PresignUpload(_ context.Context, key, contentType string) (string, error) {
	f.lastKey = key
	f.lastContentType = contentType
	return "https://bucket.example.com/" + key + "?signed", nil
}

func TestCreateUploadURL(t *testing.T) {
	presigner := &fakePresigner{}
	svc := NewUploadService(presigner, config.StorageConfig{MaxUploadBytes: 10 << 20})

	resp, err := svc.CreateUploadURL(context.Background(), PrefixClinicianDocuments, "license.pdf", "application/pdf", 1024)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(resp.Key, PrefixClinicianDocuments+"/"))
	assert.True(t, strings.HasSuffix(resp.Key, "-license.pdf"))
	assert.Equal(t, resp.Key, presigner.lastKey)
	assert.Equal(t, "application/pdf", presigner.lastContentType)
	assert.Contains(t, resp.URL, "?signed")
}

func TestCreateUploadURLKeysAreUnique(t *testing.T) {
	svc := NewUploadService(&fakePresigner{}, config.StorageConfig{})

	first, err := svc.CreateUploadURL(context.Background(), PrefixSiteImages, "hero.png", "image/png", 0)
	require.NoError(t, err)
	second, err := svc.CreateUploadURL(context.Background(), PrefixSiteImages, "hero.png", "image/png", 0)
	require.NoError(t, err)

	assert.NotEqual(t, first.Key, second.Key)
}

func TestCreateUploadURLRejectsContentType(t *testing.T) {
	svc := NewUploadService(&fakePresigner{}, config.StorageConfig{})

	_, err := svc.CreateUploadURL(context.Background(), PrefixClinicianDocuments, "malware.exe", "application/octet-stream", 0)
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindValidation))
	assert.Equal(t, "contentType", apperror.FieldOf(err))
}

func TestCreateUploadURLRejectsOversizedFile(t *testing.T) {
	svc := NewUploadService(&fakePresigner{}, config.StorageConfig{MaxUploadBytes: 1024})

	_, err := svc.CreateUploadURL(context.Background(), PrefixClinicianDocuments, "scan.pdf", "application/pdf", 2048)
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindValidation))
	assert.Equal(t, "size", apperror.FieldOf(err))
}

func TestCreateUploadURLRequiresFilename(t *testing.T) {
	svc := NewUploadService(&fakePresigner{}, config.StorageConfig{})

	_, err := svc.CreateUploadURL(context.Background(), PrefixClinicianDocuments, "", "application/pdf", 0)
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindValidation))
	assert.Equal(t, "filename", apperror.FieldOf(err))
}
