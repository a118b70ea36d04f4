package services

import (
	"context"

	"portfolio_backend/internal/events"
	"portfolio_backend/internal/logger"
	"portfolio_backend/internal/models"
	"portfolio_backend/internal/repositories"
	"portfolio_backend/internal/services/dto"
	"portfolio_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type ProjectService interface {
	ListProjects(ctx context.Context, db *gorm.DB, status string) ([]models.Project, error)
	GetProject(ctx context.Context, db *gorm.DB, id string) (*models.Project, error)
	CreateProject(ctx context.Context, db *gorm.DB, req *dto.CreateProjectRequest) (*models.Project, error)
	UpdateProject(ctx context.Context, db *gorm.DB, id string, req *dto.UpdateProjectRequest) (*models.Project, error)
	UpdateProjectStatus(ctx context.Context, db *gorm.DB, id string, status models.ResourceStatus) (*models.Project, error)
	DeleteProject(ctx context.Context, db *gorm.DB, id string) (*models.Project, error)
}

type projectService struct {
	projectRepo repositories.ProjectRepository
	publisher   events.Publisher
}

func NewProjectService(projectRepo repositories.ProjectRepository, publisher events.Publisher) ProjectService {
	return &projectService{
		projectRepo: projectRepo,
		publisher:   publisher,
	}
}

// ListProjects - новые сверху, опционально по статусу
func (s *projectService) ListProjects(ctx context.Context, db *gorm.DB, status string) ([]models.Project, error) {
	filter, err := parseStatusFilter(status)
	if err != nil {
		return nil, err
	}

	projects, err := s.projectRepo.FindAll(db.WithContext(ctx), filter)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return projects, nil
}

func (s *projectService) GetProject(ctx context.Context, db *gorm.DB, id string) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(db.WithContext(ctx), id)
	if err != nil {
		return nil, mapRepoError(err, repositories.ErrProjectNotFound, "Project")
	}
	return project, nil
}

func (s *projectService) CreateProject(ctx context.Context, db *gorm.DB, req *dto.CreateProjectRequest) (*models.Project, error) {
	content, err := newContent(req.Title, req.Category, req.Description, req.Tags, req.Status, req.Image, req.Link, false)
	if err != nil {
		return nil, err
	}

	project := &models.Project{Content: content}
	if err := s.projectRepo.Create(db.WithContext(ctx), project); err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Project created", "project_id", project.ID)
	publish(s.publisher, events.ResourceProjects, events.ActionCreated, project.ID, project.Version, project)
	return project, nil
}

// UpdateProject - частичное обновление; пустой запрос отклоняется
func (s *projectService) UpdateProject(ctx context.Context, db *gorm.DB, id string, req *dto.UpdateProjectRequest) (*models.Project, error) {
	patch := contentPatch{
		Title:       req.Title,
		Category:    req.Category,
		Description: req.Description,
		Tags:        req.Tags,
		Status:      req.Status,
		Image:       req.Image,
		Link:        req.Link,
	}

	updates, err := patch.updates()
	if err != nil {
		return nil, err
	}
	if len(updates) == 0 {
		return nil, apperrors.ErrNoFieldsProvided
	}

	return s.applyUpdates(ctx, db, id, req.Version, updates)
}

func (s *projectService) UpdateProjectStatus(ctx context.Context, db *gorm.DB, id string, status models.ResourceStatus) (*models.Project, error) {
	if !status.IsValid() {
		return nil, apperrors.ErrInvalidStatus
	}
	return s.applyUpdates(ctx, db, id, nil, map[string]interface{}{"status": status})
}

func (s *projectService) applyUpdates(ctx context.Context, db *gorm.DB, id string, version *int, updates map[string]interface{}) (*models.Project, error) {
	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if err := s.projectRepo.Update(tx, id, version, updates); err != nil {
		return nil, mapRepoError(err, repositories.ErrProjectNotFound, "Project")
	}

	project, err := s.projectRepo.FindByID(tx, id)
	if err != nil {
		return nil, mapRepoError(err, repositories.ErrProjectNotFound, "Project")
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Project updated", "project_id", id, "version", project.Version)
	publish(s.publisher, events.ResourceProjects, events.ActionUpdated, project.ID, project.Version, project)
	return project, nil
}

// DeleteProject удаляет безвозвратно и возвращает удаленный документ
func (s *projectService) DeleteProject(ctx context.Context, db *gorm.DB, id string) (*models.Project, error) {
	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	project, err := s.projectRepo.FindByID(tx, id)
	if err != nil {
		return nil, mapRepoError(err, repositories.ErrProjectNotFound, "Project")
	}

	if err := s.projectRepo.Delete(tx, id); err != nil {
		return nil, mapRepoError(err, repositories.ErrProjectNotFound, "Project")
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Project deleted", "project_id", id)
	publish(s.publisher, events.ResourceProjects, events.ActionDeleted, project.ID, project.Version, nil)
	return project, nil
}
