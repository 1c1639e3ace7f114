package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eudaura/telehealth-api/internal/apperror"
	"github.com/eudaura/telehealth-api/internal/config"
	"github.com/eudaura/telehealth-api/internal/email"
	"github.com/eudaura/telehealth-api/internal/model"
	applicationService "github.com/eudaura/telehealth-api/internal/service/application"
	auditService "github.com/eudaura/telehealth-api/internal/service/audit"
	contentService "github.com/eudaura/telehealth-api/internal/service/content"
	"github.com/eudaura/telehealth-api/internal/service/notification"
	reviewService "github.com/eudaura/telehealth-api/internal/service/review"
	"github.com/eudaura/telehealth-api/internal/storage"
)

type fakeApplicationRepo struct {
	mu   sync.Mutex
	apps map[uuid.UUID]*model.ClinicianApplication
}

func (r *fakeApplicationRepo) Create(_ context.Context, app *model.ClinicianApplication) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *app
	r.apps[app.ID] = &cp
	return nil
}

func (r *fakeApplicationRepo) Get(_ context.Context, id uuid.UUID) (*model.ClinicianApplication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.apps[id]
	if !ok {
		return nil, apperror.NotFound("application not found")
	}
	cp := *app
	return &cp, nil
}

func (r *fakeApplicationRepo) ListByStatus(_ context.Context, status string) ([]*model.ClinicianApplication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.ClinicianApplication
	for _, app := range r.apps {
		if app.Status == status {
			cp := *app
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeApplicationRepo) TransitionStatus(_ context.Context, id uuid.UUID, from, to, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.apps[id]
	if !ok || app.Status != from {
		return apperror.InvalidState("application is not in " + from + " status")
	}
	app.Status = to
	app.DenialReason = reason
	return nil
}

type fakeAccountRepo struct{}

func (fakeAccountRepo) Create(_ context.Context, _ *model.Account) error { return nil }
func (fakeAccountRepo) Get(_ context.Context, _ uuid.UUID) (*model.Account, error) {
	return nil, apperror.NotFound("account not found")
}
func (fakeAccountRepo) GetByContact(_ context.Context, _ string) (*model.Account, error) {
	return nil, apperror.NotFound("account not found")
}
func (fakeAccountRepo) GetByEmail(_ context.Context, _ string) (*model.Account, error) {
	return nil, apperror.NotFound("account not found")
}
func (fakeAccountRepo) SetOTP(_ context.Context, _ uuid.UUID, _ string, _ time.Time) error {
	return nil
}
func (fakeAccountRepo) CompleteVerification(_ context.Context, _ uuid.UUID) error { return nil }

type fakeAuditRepo struct {
	mu      sync.Mutex
	entries []*model.AuditEntry
}

func (r *fakeAuditRepo) Create(_ context.Context, entry *model.AuditEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	return nil
}

func (r *fakeAuditRepo) List(_ context.Context, limit int) ([]*model.AuditEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if limit > 0 && limit < len(r.entries) {
		return r.entries[:limit], nil
	}
	return r.entries, nil
}

type fakeContentRepo struct {
	mu   sync.Mutex
	docs map[string]*model.ContentDocument
}

func (r *fakeContentRepo) GetDocument(_ context.Context, name string) (*model.ContentDocument, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[name]
	if !ok {
		return nil, apperror.NotFound("content document not found")
	}
	return doc, nil
}

func (r *fakeContentRepo) PutDocument(_ context.Context, doc *model.ContentDocument) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[doc.Name] = doc
	return nil
}

func (r *fakeContentRepo) ListImages(_ context.Context) ([]*model.SiteImage, error) {
	return nil, nil
}

func (r *fakeContentRepo) CreateImage(_ context.Context, _ *model.SiteImage) error { return nil }

func (r *fakeContentRepo) DeleteImage(_ context.Context, _ string) error {
	return apperror.NotFound("image not found")
}

type dropEmail struct{}

func (dropEmail) Send(_ context.Context, _ *email.Message) error { return nil }

type fakePresigner struct{}

func (fakePresigner) PresignUpload(_ context.Context, key, _ string) (string, error) {
	return "https://bucket.example.com/" + key + "?signed", nil
}

func newTestRouter() (*gin.Engine, *fakeApplicationRepo) {
	gin.SetMode(gin.TestMode)

	appRepo := &fakeApplicationRepo{apps: make(map[uuid.UUID]*model.ClinicianApplication)}
	auditor := auditService.NewService(&fakeAuditRepo{})
	dispatcher := notification.NewDispatcher(dropEmail{}, nil)

	appSvc := applicationService.NewService(appRepo, auditor, dispatcher, nil, "admin@example.com", "https://example.com")
	reviewSvc := reviewService.NewService(appRepo, fakeAccountRepo{}, auditor, dispatcher, nil, "https://example.com")
	contentSvc := contentService.NewService(&fakeContentRepo{docs: make(map[string]*model.ContentDocument)}, auditor)
	uploadSvc := storage.NewUploadService(fakePresigner{}, config.StorageConfig{MaxUploadBytes: 10 << 20})

	engine := gin.New()
	NewHandler(appSvc, reviewSvc, contentSvc, auditor, uploadSvc).RegisterRoutes(engine.Group("/api/v1/admin"))
	return engine, appRepo
}

func seedApplication(t *testing.T, repo *fakeApplicationRepo) uuid.UUID {
	t.Helper()
	now := time.Now()
	app := &model.ClinicianApplication{
		ID:          uuid.New(),
		Status:      model.ApplicationStatusSubmitted,
		FullName:    "Grace Hopper",
		Email:       "grace@example.com",
		NPI:         "1234567890",
		Licenses:    []model.License{{State: "TX", LicenseNumber: "TX-1"}},
		Specialties: []string{"Family Medicine"},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, repo.Create(context.Background(), app))
	return app.ID
}

func doRequest(engine *gin.Engine, method, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestApproveEndpoint(t *testing.T) {
	engine, repo := newTestRouter()
	appID := seedApplication(t, repo)

	w := doRequest(engine, http.MethodPost, "/api/v1/admin/clinician/"+appID.String()+"/approve", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Status string             `json:"status"`
		Data   model.ReviewResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, []string{"TX"}, resp.Data.AllowedStates)
	assert.NotEqual(t, uuid.Nil, resp.Data.AccountID)

	// A second approve conflicts.
	w = doRequest(engine, http.MethodPost, "/api/v1/admin/clinician/"+appID.String()+"/approve", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestDenyEndpointRequiresReason(t *testing.T) {
	engine, repo := newTestRouter()
	appID := seedApplication(t, repo)

	w := doRequest(engine, http.MethodPost, "/api/v1/admin/clinician/"+appID.String()+"/deny", []byte(`{"reason":""}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(engine, http.MethodPost, "/api/v1/admin/clinician/"+appID.String()+"/deny", []byte(`{"reason":"license expired"}`))
	require.Equal(t, http.StatusOK, w.Code)

	app, err := repo.Get(context.Background(), appID)
	require.NoError(t, err)
	assert.Equal(t, model.ApplicationStatusDenied, app.Status)
}

func TestApproveBadID(t *testing.T) {
	engine, _ := newTestRouter()

	w := doRequest(engine, http.MethodPost, "/api/v1/admin/clinician/not-a-uuid/approve", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListApplicationsDefaultsToSubmitted(t *testing.T) {
	engine, repo := newTestRouter()
	seedApplication(t, repo)

	w := doRequest(engine, http.MethodGet, "/api/v1/admin/clinician/apps", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []model.ClinicianApplication `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, model.ApplicationStatusSubmitted, resp.Data[0].Status)
}

func TestContentRoundTrip(t *testing.T) {
	engine, _ := newTestRouter()

	w := doRequest(engine, http.MethodPut, "/api/v1/admin/content", []byte(`{"hero":{"title":"Welcome"}}`))
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(engine, http.MethodGet, "/api/v1/admin/content", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"hero":{"title":"Welcome"}}`, w.Body.String())
}

func TestPresignImage(t *testing.T) {
	engine, _ := newTestRouter()

	w := doRequest(engine, http.MethodPost, "/api/v1/admin/images/presign",
		[]byte(`{"filename":"hero.png","contentType":"image/png","size":2048}`))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data model.PresignResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Data.Key, "site-images/")
	assert.Contains(t, resp.Data.URL, "?signed")
}

func TestPresignImageRejectsContentType(t *testing.T) {
	engine, _ := newTestRouter()

	w := doRequest(engine, http.MethodPost, "/api/v1/admin/images/presign",
		[]byte(`{"filename":"hero.exe","contentType":"application/octet-stream"}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPutContentRejectsInvalidJSON(t *testing.T) {
	engine, _ := newTestRouter()

	w := doRequest(engine, http.MethodPut, "/api/v1/admin/content", []byte(`{not json`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
