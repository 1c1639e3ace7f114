package auth

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/eudaura/telehealth-api/internal/handler"
	"github.com/eudaura/telehealth-api/internal/model"
	authService "github.com/eudaura/telehealth-api/internal/service/auth"
)

type Handler struct {
	service *authService.Service
}

func NewHandler(service *authService.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/auth/login", h.Login)
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	tokens, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid credentials"))
		return
	}

	// The admin panel authenticates with this cookie; API clients can use
	// the bearer token from the body instead.
	maxAge := int(time.Until(tokens.ExpiresAt).Seconds())
	c.SetCookie("auth", tokens.Token, maxAge, "/", "", true, true)

	c.JSON(http.StatusOK, handler.NewSuccessResponse(tokens))
}
