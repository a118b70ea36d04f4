package handlers

import (
	"net/http"

	"portfolio_backend/internal/services"
	"portfolio_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type UploadHandler struct {
	*BaseHandler
	uploadService services.UploadService
	maxFileSize   int64
}

func NewUploadHandler(base *BaseHandler, uploadService services.UploadService, maxFileSize int64) *UploadHandler {
	return &UploadHandler{
		BaseHandler:   base,
		uploadService: uploadService,
		maxFileSize:   maxFileSize,
	}
}

func (h *UploadHandler) RegisterRoutes(rg *gin.RouterGroup, guard ...gin.HandlerFunc) {
	uploads := rg.Group("/uploads")
	uploads.Use(guard...)
	{
		uploads.POST("", h.UploadImage)
	}
}

// UploadImage godoc
// @Summary      Upload an image
// @Description  Downscales the image and returns its public URL
// @Tags         uploads
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file formData file true "Image"
// @Param        folder formData string false "projects | services | misc"
// @Success      201 {object} SuccessResponse{data=dto.UploadResponse}
// @Failure      400 {object} apperrors.ErrorResponse
// @Router       /uploads [post]
func (h *UploadHandler) UploadImage(c *gin.Context) {
	// запас на поля формы сверх самого файла
	if h.maxFileSize > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxFileSize+1<<20)
	}

	file, err := c.FormFile("file")
	if err != nil {
		apperrors.HandleError(c, apperrors.ValidationError(map[string]string{"file": "File is required"}))
		return
	}

	result, err := h.uploadService.UploadImage(c.Request.Context(), file, c.PostForm("folder"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.Respond(c, http.StatusCreated, "File uploaded successfully", result)
}
