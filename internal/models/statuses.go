package models

type UserRole string
type ResourceStatus string

const (
	UserRoleAdmin UserRole = "admin"
	UserRoleUser  UserRole = "user"

	ResourceStatusActive   ResourceStatus = "active"
	ResourceStatusDraft    ResourceStatus = "draft"
	ResourceStatusArchived ResourceStatus = "archived"
)

// IsValid проверяет, что статус входит в перечисление
func (s ResourceStatus) IsValid() bool {
	switch s {
	case ResourceStatusActive, ResourceStatusDraft, ResourceStatusArchived:
		return true
	default:
		return false
	}
}

func (r UserRole) IsValid() bool {
	return r == UserRoleAdmin || r == UserRoleUser
}
