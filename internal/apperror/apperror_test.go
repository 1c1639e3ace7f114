package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCodes(t *testing.T) {
	tests := []struct {
		err    *Error
		status int
	}{
		{Validation("email", "email is required"), http.StatusBadRequest},
		{Expired("code expired"), http.StatusBadRequest},
		{Mismatch("wrong code"), http.StatusBadRequest},
		{NotFound("no such account"), http.StatusNotFound},
		{InvalidState("already approved"), http.StatusConflict},
		{Dependency("db down", errors.New("conn refused")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.status, tt.err.StatusCode(), tt.err.Error())
	}
}

func TestKindOfUnwraps(t *testing.T) {
	wrapped := fmt.Errorf("submit failed: %w", NotFound("application not found"))
	assert.Equal(t, KindNotFound, KindOf(wrapped))
	assert.True(t, Is(wrapped, KindNotFound))
}

func TestKindOfForeignError(t *testing.T) {
	assert.Equal(t, KindDependency, KindOf(errors.New("something else")))
}

func TestFieldOf(t *testing.T) {
	assert.Equal(t, "npi", FieldOf(Validation("npi", "bad npi")))
	assert.Equal(t, "", FieldOf(NotFound("nope")))
	assert.Equal(t, "", FieldOf(errors.New("plain")))
}

func TestErrorMessageIncludesField(t *testing.T) {
	assert.Equal(t, "email: email is required", Validation("email", "email is required").Error())
	assert.Equal(t, "gone", NotFound("gone").Error())
}

func TestDependencyUnwrap(t *testing.T) {
	cause := errors.New("conn refused")
	err := Dependency("db down", cause)
	assert.True(t, errors.Is(err, cause))
}
