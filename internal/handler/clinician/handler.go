package clinician

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eudaura/telehealth-api/internal/handler"
	"github.com/eudaura/telehealth-api/internal/model"
	"github.com/eudaura/telehealth-api/internal/service/application"
)

type Handler struct {
	service *application.Service
}

func NewHandler(service *application.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/clinician/apply", h.Apply)
}

func (h *Handler) Apply(c *gin.Context) {
	var req model.SubmitApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	appID, err := h.service.Submit(c.Request.Context(), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(gin.H{"appId": appID}))
}
