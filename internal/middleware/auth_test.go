package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/eudaura/telehealth-api/pkg/auth"
)

type fakeValidator struct {
	claims *auth.Claims
}

func (f *fakeValidator) ValidateToken(_ context.Context, token string) (*auth.Claims, error) {
	if token != "good-token" {
		return nil, errors.New("invalid token")
	}
	return f.claims, nil
}

func newGuardedRouter(role string) *gin.Engine {
	gin.SetMode(gin.TestMode)

	m := NewAuthMiddleware(&fakeValidator{claims: &auth.Claims{
		AccountID: uuid.New(),
		Email:     "admin@example.com",
		Role:      "ADMIN",
	}})

	engine := gin.New()
	engine.GET("/guarded", m.Authenticate(), m.RequireRole(role), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"email": c.GetString(ContextEmail)})
	})
	return engine
}

func TestAuthenticateMissingToken(t *testing.T) {
	engine := newGuardedRouter("ADMIN")

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/guarded", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticateBadToken(t *testing.T) {
	engine := newGuardedRouter("ADMIN")

	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticateBearerToken(t *testing.T) {
	engine := newGuardedRouter("ADMIN")

	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "admin@example.com")
}

func TestAuthenticateCookie(t *testing.T) {
	engine := newGuardedRouter("ADMIN")

	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	req.AddCookie(&http.Cookie{Name: "auth", Value: "good-token"})
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRoleRejectsWrongRole(t *testing.T) {
	engine := newGuardedRouter("CLINICIAN")

	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
