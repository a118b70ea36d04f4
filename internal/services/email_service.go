package services

import (
	"context"
	"fmt"

	"portfolio_backend/internal/email"
)

// EmailService - письма, которые отправляет приложение
type EmailService struct {
	provider email.Provider
	renderer email.TemplateRenderer
}

func NewEmailService(provider email.Provider, renderer email.TemplateRenderer) *EmailService {
	return &EmailService{
		provider: provider,
		renderer: renderer,
	}
}

// SendTemplatedEmail рендерит шаблон и отправляет письмо
func (s *EmailService) SendTemplatedEmail(ctx context.Context, to []string, subject, templateName, textBody string, data email.TemplateData) error {
	htmlBody, err := s.renderer.Render(templateName, data)
	if err != nil {
		return fmt.Errorf("render %s: %w", templateName, err)
	}

	return s.provider.Send(ctx, &email.Email{
		To:       to,
		Subject:  subject,
		Body:     textBody,
		HTMLBody: htmlBody,
	})
}

// SendPasswordResetEmail отправляет ссылку для сброса пароля
func (s *EmailService) SendPasswordResetEmail(ctx context.Context, to, name, resetURL, expiresIn string) error {
	data := email.TemplateData{
		"Name":      name,
		"ResetURL":  resetURL,
		"ExpiresIn": expiresIn,
	}
	text := fmt.Sprintf("Reset your password: %s (expires in %s)", resetURL, expiresIn)

	return s.SendTemplatedEmail(ctx, []string{to}, "Password Reset Request", email.TemplatePasswordReset, text, data)
}

// SendPasswordChangedEmail подтверждает смену пароля
func (s *EmailService) SendPasswordChangedEmail(ctx context.Context, to, name string) error {
	data := email.TemplateData{
		"Name": name,
	}
	text := "Your password was changed successfully."

	return s.SendTemplatedEmail(ctx, []string{to}, "Password Changed", email.TemplatePasswordChanged, text, data)
}

// Close закрывает соединения провайдера
func (s *EmailService) Close() error {
	return s.provider.Close()
}

// EmailServiceConfig конфигурация для EmailService
type EmailServiceConfig struct {
	Provider     string // smtp, log
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromEmail    string
	FromName     string
	TemplatesDir string
}

// NewEmailServiceWithConfig собирает провайдер и шаблоны по конфигу
func NewEmailServiceWithConfig(config EmailServiceConfig) (*EmailService, error) {
	templateManager, err := email.NewTemplateManager()
	if err != nil {
		return nil, err
	}

	if config.TemplatesDir != "" {
		if err := templateManager.LoadTemplates(config.TemplatesDir); err != nil {
			return nil, fmt.Errorf("failed to load email templates: %w", err)
		}
	}

	var provider email.Provider
	switch config.Provider {
	case "smtp":
		smtpProvider := email.NewSMTPProvider(&email.SMTPConfig{
			Host:      config.SMTPHost,
			Port:      config.SMTPPort,
			Username:  config.SMTPUsername,
			Password:  config.SMTPPassword,
			FromEmail: config.FromEmail,
			FromName:  config.FromName,
		})
		if err := smtpProvider.Validate(); err != nil {
			return nil, fmt.Errorf("invalid smtp config: %w", err)
		}
		provider = smtpProvider
	case "log", "":
		provider = email.NewLogProvider(nil)
	default:
		return nil, fmt.Errorf("unknown email provider %q", config.Provider)
	}

	return NewEmailService(provider, templateManager), nil
}
