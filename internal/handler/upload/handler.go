package upload

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eudaura/telehealth-api/internal/handler"
	"github.com/eudaura/telehealth-api/internal/model"
	"github.com/eudaura/telehealth-api/internal/storage"
)

type Handler struct {
	uploads *storage.UploadService
}

func NewHandler(uploads *storage.UploadService) *Handler {
	return &Handler{uploads: uploads}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/uploads/presign", h.Presign)
}

func (h *Handler) Presign(c *gin.Context) {
	var req model.PresignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	resp, err := h.uploads.CreateUploadURL(c.Request.Context(), storage.PrefixClinicianDocuments, req.Filename, req.ContentType, req.SizeBytes)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(resp))
}
