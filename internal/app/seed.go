package app

import (
	"context"
	"fmt"

	"portfolio_backend/internal/auth"
	"portfolio_backend/internal/config"
	"portfolio_backend/internal/logger"
	"portfolio_backend/internal/models"
	"portfolio_backend/internal/repositories"
	"portfolio_backend/internal/validator"
	"portfolio_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// adminSeed - учетные данные первого администратора из конфига
type adminSeed struct {
	Email    string          `json:"email" validate:"required,email"`
	Password string          `json:"password" validate:"required,min=6"`
	Name     string          `json:"name"`
	Role     models.UserRole `json:"role" validate:"required,is-user-role"`
}

// seedFirstAdmin создает администратора, если его еще нет. Регистрации нет,
// поэтому это единственный способ завести пользователя.
func seedFirstAdmin(ctx context.Context, db *gorm.DB, cfg *config.Config, v *validator.Validator) error {
	seed := adminSeed{
		Email:    models.NormalizeEmail(cfg.Admin.Email),
		Password: cfg.Admin.Password,
		Name:     cfg.Admin.Name,
		Role:     models.UserRoleAdmin,
	}

	if seed.Email == "" || seed.Password == "" {
		logger.Warn("FIRST_ADMIN_EMAIL or FIRST_ADMIN_PASSWORD is not set. Skipping admin seeding.")
		return nil
	}
	if err := v.Validate(&seed); err != nil {
		return fmt.Errorf("invalid first admin config: %w", err)
	}

	userRepo := repositories.NewUserRepository()

	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}
	defer tx.Rollback()

	_, err := userRepo.FindByEmail(tx, seed.Email)
	if err == nil {
		logger.Info("Admin user already exists. Skipping creation.", "email", seed.Email)
		return nil
	}
	if !apperrors.Is(err, repositories.ErrUserNotFound) {
		return fmt.Errorf("failed to check for admin user: %w", err)
	}

	hash, err := auth.HashPassword(seed.Password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &models.User{
		Email:        seed.Email,
		PasswordHash: hash,
		Name:         seed.Name,
		Role:         seed.Role,
		IsActive:     true,
	}
	if err := userRepo.Create(tx, admin); err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	logger.Info("Created first admin user", "email", seed.Email)
	return tx.Commit().Error
}
