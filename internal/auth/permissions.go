package auth

import "portfolio_backend/internal/models"

// IsAdmin проверяет является ли пользователь администратором
func IsAdmin(claims *Claims) bool {
	return claims != nil && models.UserRole(claims.Role) == models.UserRoleAdmin
}
