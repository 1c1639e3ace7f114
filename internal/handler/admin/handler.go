package admin

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/eudaura/telehealth-api/internal/handler"
	"github.com/eudaura/telehealth-api/internal/middleware"
	"github.com/eudaura/telehealth-api/internal/model"
	"github.com/eudaura/telehealth-api/internal/service/application"
	"github.com/eudaura/telehealth-api/internal/service/audit"
	"github.com/eudaura/telehealth-api/internal/service/content"
	"github.com/eudaura/telehealth-api/internal/service/review"
	"github.com/eudaura/telehealth-api/internal/storage"
)

type Handler struct {
	appSvc     *application.Service
	reviewSvc  *review.Service
	contentSvc *content.Service
	auditSvc   *audit.Service
	uploads    *storage.UploadService
}

func NewHandler(appSvc *application.Service, reviewSvc *review.Service,
	contentSvc *content.Service, auditSvc *audit.Service, uploads *storage.UploadService) *Handler {
	return &Handler{
		appSvc:     appSvc,
		reviewSvc:  reviewSvc,
		contentSvc: contentSvc,
		auditSvc:   auditSvc,
		uploads:    uploads,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	clinician := r.Group("/clinician")
	{
		clinician.GET("/apps", h.ListApplications)
		clinician.POST("/:id/approve", h.Approve)
		clinician.POST("/:id/deny", h.Deny)
	}

	r.GET("/content", h.GetContent)
	r.PUT("/content", h.PutContent)
	r.GET("/mappings", h.GetMappings)
	r.PUT("/mappings", h.PutMappings)

	images := r.Group("/images")
	{
		images.GET("", h.ListImages)
		images.POST("", h.RegisterImage)
		images.POST("/presign", h.PresignImage)
		images.DELETE("/:name", h.DeleteImage)
	}

	r.GET("/audit", h.ListAudit)
}

func (h *Handler) ListApplications(c *gin.Context) {
	status := c.DefaultQuery("status", model.ApplicationStatusSubmitted)

	apps, err := h.appSvc.ListByStatus(c.Request.Context(), status)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(apps))
}

func (h *Handler) Approve(c *gin.Context) {
	appID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid application ID"))
		return
	}

	result, err := h.reviewSvc.Approve(c.Request.Context(), appID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(result))
}

func (h *Handler) Deny(c *gin.Context) {
	appID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid application ID"))
		return
	}

	var req model.DenyApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	if err := h.reviewSvc.Deny(c.Request.Context(), appID, req.Reason); err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"appId": appID, "status": model.ApplicationStatusDenied}))
}

func (h *Handler) GetContent(c *gin.Context) {
	h.getDocument(c, model.ContentDocSite)
}

func (h *Handler) PutContent(c *gin.Context) {
	h.putDocument(c, model.ContentDocSite)
}

func (h *Handler) GetMappings(c *gin.Context) {
	h.getDocument(c, model.ContentDocMappings)
}

func (h *Handler) PutMappings(c *gin.Context) {
	h.putDocument(c, model.ContentDocMappings)
}

func (h *Handler) getDocument(c *gin.Context, name string) {
	doc, err := h.contentSvc.GetDocument(c.Request.Context(), name)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.Data(http.StatusOK, "application/json", doc.Body)
}

func (h *Handler) putDocument(c *gin.Context, name string) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("failed to read body"))
		return
	}

	if err := h.contentSvc.PutDocument(c.Request.Context(), name, c.GetString(middleware.ContextEmail), json.RawMessage(body)); err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"document": name}))
}

func (h *Handler) ListImages(c *gin.Context) {
	images, err := h.contentSvc.ListImages(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(images))
}

func (h *Handler) RegisterImage(c *gin.Context) {
	var req model.RegisterImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	img, err := h.contentSvc.RegisterImage(c.Request.Context(), c.GetString(middleware.ContextEmail), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(img))
}

// PresignImage hands out a signed upload URL for a site image. The caller
// registers the metadata with RegisterImage once the upload completes.
func (h *Handler) PresignImage(c *gin.Context) {
	var req model.PresignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	resp, err := h.uploads.CreateUploadURL(c.Request.Context(), storage.PrefixSiteImages, req.Filename, req.ContentType, req.SizeBytes)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(resp))
}

func (h *Handler) DeleteImage(c *gin.Context) {
	if err := h.contentSvc.DeleteImage(c.Request.Context(), c.Param("name")); err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"deleted": c.Param("name")}))
}

func (h *Handler) ListAudit(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	entries, err := h.auditSvc.List(c.Request.Context(), limit)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(entries))
}
