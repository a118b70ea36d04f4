package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"portfolio_backend/internal/auth"
	"portfolio_backend/internal/email"
	"portfolio_backend/internal/models"
	"portfolio_backend/internal/repositories"
	"portfolio_backend/internal/testutil"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// recordingProvider запоминает письма вместо отправки
type recordingProvider struct {
	mu   sync.Mutex
	sent []*email.Email
	err  error
}

func (p *recordingProvider) Send(_ context.Context, e *email.Email) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.sent = append(p.sent, e)
	return nil
}

func (p *recordingProvider) Validate() error { return nil }
func (p *recordingProvider) Close() error    { return nil }

func (p *recordingProvider) last() *email.Email {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.sent) == 0 {
		return nil
	}
	return p.sent[len(p.sent)-1]
}

var errSMTPDown = errors.New("smtp down")

func newTestEmailService(t *testing.T, provider email.Provider) *EmailService {
	t.Helper()
	tm, err := email.NewTemplateManager()
	require.NoError(t, err)
	return NewEmailService(provider, tm)
}

func seedUser(t *testing.T, db *gorm.DB, addr, password string, active bool) *models.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)

	user := &models.User{Email: addr, PasswordHash: hash, Role: models.UserRoleAdmin, IsActive: true}
	require.NoError(t, repositories.NewUserRepository().Create(db, user))
	if !active {
		require.NoError(t, db.Model(user).Update("is_active", false).Error)
	}
	return user
}

func newDB(t *testing.T) *gorm.DB {
	return testutil.NewDB(t)
}
