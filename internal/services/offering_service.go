package services

import (
	"context"
	"strings"

	"portfolio_backend/internal/events"
	"portfolio_backend/internal/logger"
	"portfolio_backend/internal/models"
	"portfolio_backend/internal/repositories"
	"portfolio_backend/internal/services/dto"
	"portfolio_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// OfferingService - бизнес-логика для models.Service (услуги в портфолио).
// Называется иначе, чтобы не путать со слоем сервисов.
type OfferingService interface {
	ListServices(ctx context.Context, db *gorm.DB, status string) ([]models.Service, error)
	GetService(ctx context.Context, db *gorm.DB, id string) (*models.Service, error)
	CreateService(ctx context.Context, db *gorm.DB, req *dto.CreateServiceRequest) (*models.Service, error)
	UpdateService(ctx context.Context, db *gorm.DB, id string, req *dto.UpdateServiceRequest) (*models.Service, error)
	UpdateServiceStatus(ctx context.Context, db *gorm.DB, id string, status models.ResourceStatus) (*models.Service, error)
	DeleteService(ctx context.Context, db *gorm.DB, id string) (*models.Service, error)
}

type offeringService struct {
	serviceRepo repositories.ServiceRepository
	publisher   events.Publisher
}

func NewOfferingService(serviceRepo repositories.ServiceRepository, publisher events.Publisher) OfferingService {
	return &offeringService{
		serviceRepo: serviceRepo,
		publisher:   publisher,
	}
}

func (s *offeringService) ListServices(ctx context.Context, db *gorm.DB, status string) ([]models.Service, error) {
	filter, err := parseStatusFilter(status)
	if err != nil {
		return nil, err
	}

	services, err := s.serviceRepo.FindAll(db.WithContext(ctx), filter)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return services, nil
}

func (s *offeringService) GetService(ctx context.Context, db *gorm.DB, id string) (*models.Service, error) {
	service, err := s.serviceRepo.FindByID(db.WithContext(ctx), id)
	if err != nil {
		return nil, mapRepoError(err, repositories.ErrServiceNotFound, "Service")
	}
	return service, nil
}

func (s *offeringService) CreateService(ctx context.Context, db *gorm.DB, req *dto.CreateServiceRequest) (*models.Service, error) {
	content, err := newContent(req.Title, req.Category, req.Description, req.Tags, req.Status, req.Image, req.Link, true)
	if err != nil {
		return nil, err
	}

	service := &models.Service{
		Content:  content,
		Features: models.CleanList(req.Features),
		Price:    strings.TrimSpace(req.Price),
	}
	if err := s.serviceRepo.Create(db.WithContext(ctx), service); err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Service created", "service_id", service.ID)
	publish(s.publisher, events.ResourceServices, events.ActionCreated, service.ID, service.Version, service)
	return service, nil
}

func (s *offeringService) UpdateService(ctx context.Context, db *gorm.DB, id string, req *dto.UpdateServiceRequest) (*models.Service, error) {
	patch := contentPatch{
		Title:            req.Title,
		Category:         req.Category,
		Description:      req.Description,
		Tags:             req.Tags,
		Status:           req.Status,
		Image:            req.Image,
		Link:             req.Link,
		categoryOptional: true,
	}

	updates, err := patch.updates()
	if err != nil {
		return nil, err
	}
	if req.Features != nil {
		updates["features"] = models.CleanList(*req.Features)
	}
	if req.Price != nil {
		updates["price"] = strings.TrimSpace(*req.Price)
	}
	if len(updates) == 0 {
		return nil, apperrors.ErrNoFieldsProvided
	}

	return s.applyUpdates(ctx, db, id, req.Version, updates)
}

func (s *offeringService) UpdateServiceStatus(ctx context.Context, db *gorm.DB, id string, status models.ResourceStatus) (*models.Service, error) {
	if !status.IsValid() {
		return nil, apperrors.ErrInvalidStatus
	}
	return s.applyUpdates(ctx, db, id, nil, map[string]interface{}{"status": status})
}

func (s *offeringService) applyUpdates(ctx context.Context, db *gorm.DB, id string, version *int, updates map[string]interface{}) (*models.Service, error) {
	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if err := s.serviceRepo.Update(tx, id, version, updates); err != nil {
		return nil, mapRepoError(err, repositories.ErrServiceNotFound, "Service")
	}

	service, err := s.serviceRepo.FindByID(tx, id)
	if err != nil {
		return nil, mapRepoError(err, repositories.ErrServiceNotFound, "Service")
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Service updated", "service_id", id, "version", service.Version)
	publish(s.publisher, events.ResourceServices, events.ActionUpdated, service.ID, service.Version, service)
	return service, nil
}

func (s *offeringService) DeleteService(ctx context.Context, db *gorm.DB, id string) (*models.Service, error) {
	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	service, err := s.serviceRepo.FindByID(tx, id)
	if err != nil {
		return nil, mapRepoError(err, repositories.ErrServiceNotFound, "Service")
	}

	if err := s.serviceRepo.Delete(tx, id); err != nil {
		return nil, mapRepoError(err, repositories.ErrServiceNotFound, "Service")
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Service deleted", "service_id", id)
	publish(s.publisher, events.ResourceServices, events.ActionDeleted, service.ID, service.Version, nil)
	return service, nil
}
