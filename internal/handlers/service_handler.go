package handlers

import (
	"net/http"

	"portfolio_backend/internal/services"
	"portfolio_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ServiceHandler struct {
	*BaseHandler
	offeringService services.OfferingService
}

func NewServiceHandler(base *BaseHandler, offeringService services.OfferingService) *ServiceHandler {
	return &ServiceHandler{
		BaseHandler:     base,
		offeringService: offeringService,
	}
}

// RegisterRoutes: чтение публичное, изменения - через guard (auth + admin)
func (h *ServiceHandler) RegisterRoutes(rg *gin.RouterGroup, guard ...gin.HandlerFunc) {
	group := rg.Group("/services")
	{
		group.GET("", h.ListServices)
		group.GET("/:id", h.GetService)
	}

	admin := group.Group("")
	admin.Use(guard...)
	{
		admin.POST("", h.CreateService)
		admin.PUT("/:id", h.UpdateService)
		admin.PATCH("/:id/status", h.UpdateServiceStatus)
		admin.DELETE("/:id", h.DeleteService)
	}
}

// ListServices godoc
// @Summary      List services
// @Description  Newest first; optional status filter
// @Tags         services
// @Produce      json
// @Param        status query string false "active | draft | archived"
// @Success      200 {array} models.Service
// @Failure      400 {object} apperrors.ErrorResponse
// @Router       /services [get]
func (h *ServiceHandler) ListServices(c *gin.Context) {
	list, err := h.offeringService.ListServices(c.Request.Context(), h.GetDB(c), c.Query("status"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetService godoc
// @Summary      Get a service
// @Tags         services
// @Produce      json
// @Param        id path string true "Service ID"
// @Success      200 {object} models.Service
// @Failure      404 {object} apperrors.ErrorResponse
// @Router       /services/{id} [get]
func (h *ServiceHandler) GetService(c *gin.Context) {
	service, err := h.offeringService.GetService(c.Request.Context(), h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, service)
}

// CreateService godoc
// @Summary      Create a service
// @Tags         services
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateServiceRequest true "Service"
// @Success      201 {object} SuccessResponse{data=models.Service}
// @Failure      400 {object} apperrors.ErrorResponse
// @Router       /services [post]
func (h *ServiceHandler) CreateService(c *gin.Context) {
	var req dto.CreateServiceRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	service, err := h.offeringService.CreateService(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.Respond(c, http.StatusCreated, "Service created successfully", service)
}

// UpdateService godoc
// @Summary      Update a service
// @Description  Partial update; send version to reject stale writes
// @Tags         services
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Service ID"
// @Param        request body dto.UpdateServiceRequest true "Changed fields"
// @Success      200 {object} SuccessResponse{data=models.Service}
// @Failure      400 {object} apperrors.ErrorResponse
// @Failure      404 {object} apperrors.ErrorResponse
// @Failure      409 {object} apperrors.ErrorResponse
// @Router       /services/{id} [put]
func (h *ServiceHandler) UpdateService(c *gin.Context) {
	var req dto.UpdateServiceRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	service, err := h.offeringService.UpdateService(c.Request.Context(), h.GetDB(c), c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.Respond(c, http.StatusOK, "Service updated successfully", service)
}

// UpdateServiceStatus godoc
// @Summary      Change service status
// @Tags         services
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Service ID"
// @Param        request body dto.UpdateStatusRequest true "Status"
// @Success      200 {object} SuccessResponse{data=models.Service}
// @Failure      400 {object} apperrors.ErrorResponse
// @Router       /services/{id}/status [patch]
func (h *ServiceHandler) UpdateServiceStatus(c *gin.Context) {
	var req dto.UpdateStatusRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	service, err := h.offeringService.UpdateServiceStatus(c.Request.Context(), h.GetDB(c), c.Param("id"), req.Status)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.Respond(c, http.StatusOK, "Service status updated successfully", service)
}

// DeleteService godoc
// @Summary      Delete a service
// @Tags         services
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Service ID"
// @Success      200 {object} SuccessResponse{data=models.Service}
// @Failure      404 {object} apperrors.ErrorResponse
// @Router       /services/{id} [delete]
func (h *ServiceHandler) DeleteService(c *gin.Context) {
	service, err := h.offeringService.DeleteService(c.Request.Context(), h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.Respond(c, http.StatusOK, "Service deleted successfully", service)
}
