package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"portfolio_backend/internal/auth"
	"portfolio_backend/internal/logger"
	"portfolio_backend/internal/repositories"
	"portfolio_backend/internal/services/dto"
	"portfolio_backend/pkg/apperrors"

	"gorm.io/gorm"
)

const (
	msgLoginSuccess   = "Login successful"
	msgResetLinkSent  = "If that email exists, a password reset link has been sent"
	msgPasswordReset  = "Password has been reset successfully"
	msgTokenValid     = "Token is valid"
	msgLoggedOut      = "Logged out successfully"
	resetExpiresLabel = "10 minutes"
)

type AuthService interface {
	Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest) (*dto.LoginResponse, error)
	ForgotPassword(ctx context.Context, db *gorm.DB, req *dto.ForgotPasswordRequest) *dto.MessageResponse
	ResetPassword(ctx context.Context, db *gorm.DB, req *dto.ResetPasswordRequest) (*dto.MessageResponse, error)
	Verify(ctx context.Context, db *gorm.DB, token string) (*dto.VerifyResponse, *auth.Claims, error)
	Logout(ctx context.Context) *dto.MessageResponse
}

type authService struct {
	userRepo     repositories.UserRepository
	tokens       *auth.TokenManager
	emailService *EmailService
	frontendURL  string
	now          func() time.Time
}

func NewAuthService(
	userRepo repositories.UserRepository,
	tokens *auth.TokenManager,
	emailService *EmailService,
	frontendURL string,
) AuthService {
	return &authService{
		userRepo:     userRepo,
		tokens:       tokens,
		emailService: emailService,
		frontendURL:  frontendURL,
		now:          time.Now,
	}
}

// Login - аутентификация; любая неудача дает одну и ту же ошибку
func (s *authService) Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(db.WithContext(ctx), req.Email)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) || !user.IsActive {
		return nil, apperrors.ErrInvalidCredentials
	}

	ttl := auth.TTL(req.RememberMe)
	token, err := s.tokens.Generate(user.ID, user.Email, string(user.Role), ttl)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := s.userRepo.UpdateLastLogin(db.WithContext(ctx), user.ID, s.now()); err != nil {
		// вход уже состоялся, lastLogin не критичен
		logger.CtxWarn(ctx, "Failed to update last login", "user_id", user.ID, "error", err)
	}

	return &dto.LoginResponse{
		Message:   msgLoginSuccess,
		Token:     token,
		User:      user.Public(),
		ExpiresIn: int64(ttl / time.Second),
	}, nil
}

// ForgotPassword всегда отвечает одинаково, чтобы нельзя было перебрать адреса
func (s *authService) ForgotPassword(ctx context.Context, db *gorm.DB, req *dto.ForgotPasswordRequest) *dto.MessageResponse {
	resp := &dto.MessageResponse{Message: msgResetLinkSent}
	if strings.TrimSpace(req.Email) == "" {
		return resp
	}

	user, err := s.userRepo.FindByEmail(db.WithContext(ctx), req.Email)
	if err != nil {
		if !apperrors.Is(err, repositories.ErrUserNotFound) {
			logger.CtxWithError(ctx, "Forgot password lookup failed", err)
		}
		return resp
	}

	raw, hash, err := auth.NewResetToken()
	if err != nil {
		logger.CtxWithError(ctx, "Failed to generate reset token", err)
		return resp
	}

	expiry := s.now().Add(auth.ResetTokenTTL)
	if err := s.userRepo.SetResetToken(db.WithContext(ctx), user.ID, hash, expiry); err != nil {
		logger.CtxWithError(ctx, "Failed to store reset token", err, "user_id", user.ID)
		return resp
	}

	if err := s.emailService.SendPasswordResetEmail(ctx, user.Email, user.Name, s.resetURL(raw), resetExpiresLabel); err != nil {
		logger.CtxWithError(ctx, "Failed to send password reset email", err, "user_id", user.ID)
		return resp
	}

	logger.CtxInfo(ctx, "Password reset email sent", "user_id", user.ID)
	return resp
}

// ResetPassword меняет пароль по одноразовому токену
func (s *authService) ResetPassword(ctx context.Context, db *gorm.DB, req *dto.ResetPasswordRequest) (*dto.MessageResponse, error) {
	if req.Token == "" {
		return nil, apperrors.ErrInvalidOrExpiredToken
	}

	tokenHash := auth.HashResetToken(req.Token)
	user, err := s.userRepo.FindByResetToken(db.WithContext(ctx), tokenHash, s.now())
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidOrExpiredToken
		}
		return nil, apperrors.InternalError(err)
	}

	if !auth.IsStrongEnough(req.NewPassword) {
		return nil, apperrors.ErrWeakPassword
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	// пароль и оба поля токена меняются одним UPDATE
	if err := s.userRepo.ResetPassword(db.WithContext(ctx), user.ID, tokenHash, s.now(), hash); err != nil {
		// токен уже использован параллельным запросом
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidOrExpiredToken
		}
		return nil, apperrors.InternalError(err)
	}

	if err := s.emailService.SendPasswordChangedEmail(ctx, user.Email, user.Name); err != nil {
		logger.CtxWithError(ctx, "Failed to send password changed email", err, "user_id", user.ID)
	}

	logger.CtxInfo(ctx, "Password reset completed", "user_id", user.ID)
	return &dto.MessageResponse{Message: msgPasswordReset}, nil
}

// Verify проверяет JWT и что пользователь еще существует и активен
func (s *authService) Verify(ctx context.Context, db *gorm.DB, token string) (*dto.VerifyResponse, *auth.Claims, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, nil, apperrors.ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(db.WithContext(ctx), claims.UserID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, nil, apperrors.ErrInvalidToken
		}
		return nil, nil, apperrors.InternalError(err)
	}
	if !user.IsActive {
		return nil, nil, apperrors.ErrInvalidToken
	}

	// роль берем из БД, а не из токена
	claims.Role = string(user.Role)

	return &dto.VerifyResponse{
		Message: msgTokenValid,
		User:    user.Public(),
	}, claims, nil
}

// Logout - токены не хранятся, клиент просто забывает свой
func (s *authService) Logout(ctx context.Context) *dto.MessageResponse {
	logger.CtxDebug(ctx, "Logout")
	return &dto.MessageResponse{Message: msgLoggedOut}
}

func (s *authService) resetURL(rawToken string) string {
	return fmt.Sprintf("%s/reset-password?token=%s", s.frontendURL, url.QueryEscape(rawToken))
}
