package dto

import "portfolio_backend/internal/models"

// CreateProjectRequest - создание проекта
type CreateProjectRequest struct {
	Title       string                `json:"title" validate:"required"`
	Category    string                `json:"category" validate:"required"`
	Description string                `json:"description" validate:"required"`
	Tags        []string              `json:"tags"`
	Status      models.ResourceStatus `json:"status" validate:"is-resource-status"`
	Image       string                `json:"image"`
	Link        string                `json:"link"`
}

// UpdateProjectRequest - частичное обновление: nil означает "не менять"
type UpdateProjectRequest struct {
	Title       *string                `json:"title"`
	Category    *string                `json:"category"`
	Description *string                `json:"description"`
	Tags        *[]string              `json:"tags"`
	Status      *models.ResourceStatus `json:"status"`
	Image       *string                `json:"image"`
	Link        *string                `json:"link"`
	Version     *int                   `json:"version"`
}

// CreateServiceRequest - создание услуги
type CreateServiceRequest struct {
	Title       string                `json:"title" validate:"required"`
	Category    string                `json:"category"`
	Description string                `json:"description" validate:"required"`
	Tags        []string              `json:"tags"`
	Features    []string              `json:"features"`
	Price       string                `json:"price"`
	Status      models.ResourceStatus `json:"status" validate:"is-resource-status"`
	Image       string                `json:"image"`
	Link        string                `json:"link"`
}

// UpdateServiceRequest - частичное обновление услуги
type UpdateServiceRequest struct {
	Title       *string                `json:"title"`
	Category    *string                `json:"category"`
	Description *string                `json:"description"`
	Tags        *[]string              `json:"tags"`
	Features    *[]string              `json:"features"`
	Price       *string                `json:"price"`
	Status      *models.ResourceStatus `json:"status"`
	Image       *string                `json:"image"`
	Link        *string                `json:"link"`
	Version     *int                   `json:"version"`
}

// UpdateStatusRequest - PATCH /:id/status
type UpdateStatusRequest struct {
	Status models.ResourceStatus `json:"status" validate:"required,is-resource-status"`
}
