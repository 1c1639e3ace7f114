package contact

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eudaura/telehealth-api/internal/handler"
	"github.com/eudaura/telehealth-api/internal/model"
	contactService "github.com/eudaura/telehealth-api/internal/service/contact"
)

type Handler struct {
	service *contactService.Service
}

func NewHandler(service *contactService.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/contact", h.Submit)
}

// Submit acknowledges receipt even if the admin email later fails; the
// dispatch is fire-and-forget.
func (h *Handler) Submit(c *gin.Context) {
	var req model.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	h.service.Submit(c.Request.Context(), &req)

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"received": true}))
}
