package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/eudaura/telehealth-api/internal/apperror"
)

type Response struct {
	Status string      `json:"status"`
	Error  string      `json:"error,omitempty"`
	Kind   string      `json:"kind,omitempty"`
	Field  string      `json:"field,omitempty"`
	Data   interface{} `json:"data,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Status: "error",
		Error:  message,
	}
}

// RespondError maps an application error onto the JSON envelope and the
// right HTTP status. Non-application errors are treated as dependency
// failures: logged in full, surfaced as a generic 500.
func RespondError(c *gin.Context, err error) {
	var appErr *apperror.Error
	if !errors.As(err, &appErr) {
		appErr = apperror.Dependency("internal error", err)
	}

	if appErr.Kind == apperror.KindDependency {
		log.Error().Err(err).
			Str("path", c.Request.URL.Path).
			Str("method", c.Request.Method).
			Msg("request failed")
		c.JSON(appErr.StatusCode(), &Response{
			Status: "error",
			Error:  "internal error",
			Kind:   appErr.Kind.String(),
		})
		return
	}

	c.JSON(appErr.StatusCode(), &Response{
		Status: "error",
		Error:  appErr.Error(),
		Kind:   appErr.Kind.String(),
		Field:  appErr.Field,
	})
}
