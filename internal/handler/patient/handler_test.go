package patient

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
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
	auditService "github.com/eudaura/telehealth-api/internal/service/audit"
	"github.com/eudaura/telehealth-api/internal/service/notification"
	"github.com/eudaura/telehealth-api/internal/service/verification"
	"github.com/eudaura/telehealth-api/pkg/ratelimit"
)

type fakeAccountRepo struct {
	mu       sync.Mutex
	accounts map[uuid.UUID]*model.Account
}

func (r *fakeAccountRepo) Create(_ context.Context, account *model.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *account
	r.accounts[account.ID] = &cp
	return nil
}

func (r *fakeAccountRepo) Get(_ context.Context, id uuid.UUID) (*model.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.accounts[id]
	if !ok {
		return nil, apperror.NotFound("account not found")
	}
	cp := *account
	return &cp, nil
}

func (r *fakeAccountRepo) GetByContact(_ context.Context, contact string) (*model.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, account := range r.accounts {
		if account.Email == contact || account.Phone == contact {
			cp := *account
			return &cp, nil
		}
	}
	return nil, apperror.NotFound("account not found")
}

func (r *fakeAccountRepo) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	return r.GetByContact(ctx, email)
}

func (r *fakeAccountRepo) SetOTP(_ context.Context, id uuid.UUID, digest string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.accounts[id]
	if !ok || account.State != model.PatientStatePendingVerification {
		return apperror.InvalidState("account is not awaiting verification")
	}
	account.OTPDigest = &digest
	account.OTPExpiresAt = &expiresAt
	return nil
}

func (r *fakeAccountRepo) CompleteVerification(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.accounts[id]
	if !ok || account.State != model.PatientStatePendingVerification {
		return apperror.InvalidState("account is not awaiting verification")
	}
	account.State = model.PatientStateProvisioned
	account.OTPDigest = nil
	account.OTPExpiresAt = nil
	return nil
}

type fakeAuditRepo struct{}

func (fakeAuditRepo) Create(_ context.Context, _ *model.AuditEntry) error { return nil }
func (fakeAuditRepo) List(_ context.Context, _ int) ([]*model.AuditEntry, error) {
	return nil, nil
}

type fakeEmail struct {
	sent chan *email.Message
}

func (f *fakeEmail) Send(_ context.Context, msg *email.Message) error {
	f.sent <- msg
	return nil
}

var codePattern = regexp.MustCompile(`\b\d{6}\b`)

func newTestRouter() (*gin.Engine, *fakeEmail) {
	gin.SetMode(gin.TestMode)

	sender := &fakeEmail{sent: make(chan *email.Message, 10)}
	svc := verification.NewService(
		&fakeAccountRepo{accounts: make(map[uuid.UUID]*model.Account)},
		auditService.NewService(fakeAuditRepo{}),
		notification.NewDispatcher(sender, nil),
		ratelimit.NewMemoryLimiter(),
		nil,
		config.OTPConfig{Secret: "test-secret", TTL: 5 * time.Minute, ResendLimit: 3, ResendWindow: time.Minute},
	)

	engine := gin.New()
	NewHandler(svc).RegisterRoutes(engine.Group("/api/v1"))
	return engine, sender
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(method, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed))
	return w, parsed
}

func signupPayload() map[string]interface{} {
	return map[string]interface{}{
		"firstName": "Ada",
		"lastName":  "Lovelace",
		"dob":       "1990-01-01",
		"email":     "ada@example.com",
		"phone":     "+15555550100",
		"address": map[string]interface{}{
			"address1":   "1 Main St",
			"city":       "Austin",
			"state":      "TX",
			"postalCode": "78701",
		},
		"preferredContact": "email",
		"consent":          true,
	}
}

func waitForCode(t *testing.T, sender *fakeEmail) string {
	t.Helper()
	select {
	case msg := <-sender.sent:
		code := codePattern.FindString(msg.TextBody)
		require.NotEmpty(t, code)
		return code
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for verification email")
		return ""
	}
}

func TestSignupVerifyFlow(t *testing.T) {
	engine, sender := newTestRouter()

	w, resp := doJSON(t, engine, http.MethodPost, "/api/v1/patient/signup", signupPayload())
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "success", resp["status"])

	data := resp["data"].(map[string]interface{})
	requestID := data["requestId"].(string)
	require.NotEmpty(t, requestID)
	assert.Equal(t, "ada@example.com", data["contact"])

	code := waitForCode(t, sender)

	w, resp = doJSON(t, engine, http.MethodPost, "/api/v1/patient/verify", map[string]interface{}{
		"requestId": requestID,
		"code":      code,
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/onboarding/patient", resp["data"].(map[string]interface{})["next"])

	// Replaying the same code conflicts.
	w, resp = doJSON(t, engine, http.MethodPost, "/api/v1/patient/verify", map[string]interface{}{
		"requestId": requestID,
		"code":      code,
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "invalid_state", resp["kind"])
}

func TestSignupValidationEnvelope(t *testing.T) {
	engine, _ := newTestRouter()

	payload := signupPayload()
	payload["preferredContact"] = "sms"
	payload["phone"] = ""

	w, resp := doJSON(t, engine, http.MethodPost, "/api/v1/patient/signup", payload)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "error", resp["status"])
	assert.Equal(t, "validation_error", resp["kind"])
	assert.Equal(t, "phone", resp["field"])
}

func TestVerifyUnknownRequestID(t *testing.T) {
	engine, _ := newTestRouter()

	w, resp := doJSON(t, engine, http.MethodPost, "/api/v1/patient/verify", map[string]interface{}{
		"requestId": uuid.New().String(),
		"code":      "123456",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not_found", resp["kind"])
}

func TestVerifyMalformedRequestID(t *testing.T) {
	engine, _ := newTestRouter()

	w, _ := doJSON(t, engine, http.MethodPost, "/api/v1/patient/verify", map[string]interface{}{
		"requestId": "not-a-uuid",
		"code":      "123456",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestResendOTPEndpoint(t *testing.T) {
	engine, sender := newTestRouter()

	w, _ := doJSON(t, engine, http.MethodPost, "/api/v1/patient/signup", signupPayload())
	require.Equal(t, http.StatusCreated, w.Code)
	waitForCode(t, sender)

	w, resp := doJSON(t, engine, http.MethodPost, "/api/v1/patient/resend-otp", map[string]interface{}{
		"contact": "ada@example.com",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "success", resp["status"])
	waitForCode(t, sender)
}
