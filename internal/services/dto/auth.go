package dto

import "portfolio_backend/internal/models"

// LoginRequest - запрос входа
type LoginRequest struct {
	Email      string `json:"email" validate:"required"`
	Password   string `json:"password" validate:"required"`
	RememberMe bool   `json:"rememberMe"`
}

// LoginResponse - ответ на успешный вход; ExpiresIn в секундах
type LoginResponse struct {
	Message   string            `json:"message"`
	Token     string            `json:"token"`
	User      models.PublicUser `json:"user"`
	ExpiresIn int64             `json:"expiresIn"`
}

// ForgotPasswordRequest - запрос ссылки для сброса
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest - смена пароля по токену из письма
type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

// VerifyResponse - ответ на проверку токена
type VerifyResponse struct {
	Message string            `json:"message"`
	User    models.PublicUser `json:"user"`
}

// MessageResponse - ответ из одного сообщения
type MessageResponse struct {
	Message string `json:"message"`
}
