package services

import (
	"strings"
	"time"

	"portfolio_backend/internal/events"
	"portfolio_backend/internal/models"
	"portfolio_backend/internal/repositories"
	"portfolio_backend/pkg/apperrors"
)

// contentPatch - общие поля частичного обновления проекта и услуги
type contentPatch struct {
	Title       *string
	Category    *string
	Description *string
	Tags        *[]string
	Status      *models.ResourceStatus
	Image       *string
	Link        *string

	categoryOptional bool
}

// updates собирает map для gorm; nil-поля пропускаются
func (p contentPatch) updates() (map[string]interface{}, error) {
	updates := make(map[string]interface{})
	fieldErrors := make(map[string]string)

	setRequired := func(column, field string, value *string, optional bool) {
		if value == nil {
			return
		}
		v := strings.TrimSpace(*value)
		if v == "" && !optional {
			fieldErrors[column] = field + " cannot be empty"
			return
		}
		updates[column] = v
	}

	setRequired("title", "Title", p.Title, false)
	setRequired("category", "Category", p.Category, p.categoryOptional)
	setRequired("description", "Description", p.Description, false)

	if p.Tags != nil {
		updates["tags"] = models.CleanList(*p.Tags)
	}
	if p.Status != nil {
		if !p.Status.IsValid() {
			return nil, apperrors.ErrInvalidStatus
		}
		updates["status"] = *p.Status
	}
	if p.Image != nil {
		updates["image"] = strings.TrimSpace(*p.Image)
	}
	if p.Link != nil {
		updates["link"] = strings.TrimSpace(*p.Link)
	}

	if len(fieldErrors) > 0 {
		return nil, apperrors.ValidationError(fieldErrors)
	}
	return updates, nil
}

// newContent нормализует поля при создании
func newContent(title, category, description string, tags []string, status models.ResourceStatus, image, link string, categoryOptional bool) (models.Content, error) {
	c := models.Content{
		Title:       strings.TrimSpace(title),
		Category:    strings.TrimSpace(category),
		Description: strings.TrimSpace(description),
		Tags:        models.CleanList(tags),
		Status:      status,
		Image:       strings.TrimSpace(image),
		Link:        strings.TrimSpace(link),
	}

	fieldErrors := make(map[string]string)
	if c.Title == "" {
		fieldErrors["title"] = "Title is required"
	}
	if c.Category == "" && !categoryOptional {
		fieldErrors["category"] = "Category is required"
	}
	if c.Description == "" {
		fieldErrors["description"] = "Description is required"
	}
	if len(fieldErrors) > 0 {
		return c, apperrors.ValidationError(fieldErrors)
	}

	if c.Status == "" {
		c.Status = models.ResourceStatusActive
	}
	if !c.Status.IsValid() {
		return c, apperrors.ErrInvalidStatus
	}
	return c, nil
}

// parseStatusFilter: пустая строка - без фильтра
func parseStatusFilter(status string) (models.ResourceStatus, error) {
	if status == "" {
		return "", nil
	}
	s := models.ResourceStatus(status)
	if !s.IsValid() {
		return "", apperrors.ErrInvalidStatus
	}
	return s, nil
}

// mapRepoError переводит ошибки репозитория в ошибки API
func mapRepoError(err error, notFound error, resource string) error {
	switch {
	case err == nil:
		return nil
	case apperrors.Is(err, notFound):
		return apperrors.NotFound(resource)
	case apperrors.Is(err, repositories.ErrVersionConflict):
		return apperrors.ErrConflict
	default:
		if _, ok := apperrors.AsAppError(err); ok {
			return err
		}
		return apperrors.InternalError(err)
	}
}

func publish(publisher events.Publisher, resource string, action events.Action, id string, version int, data interface{}) {
	if publisher == nil {
		return
	}
	publisher.Publish(events.ResourceEvent{
		Resource: resource,
		Action:   action,
		ID:       id,
		Version:  version,
		Data:     data,
		At:       time.Now().UTC(),
	})
}
