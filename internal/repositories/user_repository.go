package repositories

import (
	"errors"
	"time"

	"portfolio_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
)

type UserRepository interface {
	FindByID(db *gorm.DB, id string) (*models.User, error)
	FindByEmail(db *gorm.DB, email string) (*models.User, error)
	Create(db *gorm.DB, user *models.User) error

	// Reset-токены
	SetResetToken(db *gorm.DB, userID, tokenHash string, expiry time.Time) error
	FindByResetToken(db *gorm.DB, tokenHash string, now time.Time) (*models.User, error)
	ResetPassword(db *gorm.DB, userID, tokenHash string, now time.Time, passwordHash string) error

	UpdateLastLogin(db *gorm.DB, userID string, at time.Time) error
}

type UserRepositoryImpl struct{}

func NewUserRepository() UserRepository {
	return &UserRepositoryImpl{}
}

func (r *UserRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.User, error) {
	var user models.User
	if err := db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByEmail(db *gorm.DB, email string) (*models.User, error) {
	var user models.User
	if err := db.First(&user, "email = ?", models.NormalizeEmail(email)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) Create(db *gorm.DB, user *models.User) error {
	user.Email = models.NormalizeEmail(user.Email)
	if user.Name == "" {
		user.Name = models.DefaultName(user.Email)
	}

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", user.Email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrUserAlreadyExists
	}
	return db.Create(user).Error
}

// SetResetToken сохраняет хеш токена и срок его действия одной записью
func (r *UserRepositoryImpl) SetResetToken(db *gorm.DB, userID, tokenHash string, expiry time.Time) error {
	result := db.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"reset_password_token":  tokenHash,
		"reset_password_expiry": expiry,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// FindByResetToken ищет пользователя по хешу токена; просроченный токен считается отсутствующим
func (r *UserRepositoryImpl) FindByResetToken(db *gorm.DB, tokenHash string, now time.Time) (*models.User, error) {
	var user models.User
	err := db.Where("reset_password_token = ? AND reset_password_expiry > ?", tokenHash, now).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// ResetPassword гасит токен и меняет пароль одним условным UPDATE.
// Если токен уже использован или истек, возвращает ErrUserNotFound
func (r *UserRepositoryImpl) ResetPassword(db *gorm.DB, userID, tokenHash string, now time.Time, passwordHash string) error {
	result := db.Model(&models.User{}).
		Where("id = ? AND reset_password_token = ? AND reset_password_expiry > ?", userID, tokenHash, now).
		Updates(map[string]interface{}{
			"password_hash":         passwordHash,
			"reset_password_token":  nil,
			"reset_password_expiry": nil,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepositoryImpl) UpdateLastLogin(db *gorm.DB, userID string, at time.Time) error {
	return db.Model(&models.User{}).Where("id = ?", userID).Update("last_login", at).Error
}
