package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// SessionState - то, что Store сохраняет между запусками
type SessionState struct {
	Token     string    `json:"token"`
	User      User      `json:"user"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Store хранит сессию; Load возвращает (nil, nil), если ничего не сохранено
type Store interface {
	Load() (*SessionState, error)
	Save(state *SessionState) error
	Clear() error
}

// FileStore - JSON файл с правами 0600
type FileStore struct {
	Path string
}

func (s FileStore) Load() (*SessionState, error) {
	raw, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var state SessionState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (s FileStore) Save(state *SessionState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(s.Path, raw, 0o600)
}

func (s FileStore) Clear() error {
	if err := os.Remove(s.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

type loginResponse struct {
	Message   string `json:"message"`
	Token     string `json:"token"`
	User      User   `json:"user"`
	ExpiresIn int64  `json:"expiresIn"`
}

type messageResponse struct {
	Message string `json:"message"`
	User    *User  `json:"user,omitempty"`
}

// Session держит вошедшего админа и синхронизирует токен Client
type Session struct {
	client *Client
	store  Store
	now    func() time.Time

	mu    sync.RWMutex
	state *SessionState
}

// NewSession восстанавливает сохраненную сессию; store может быть nil
func NewSession(c *Client, store Store) (*Session, error) {
	s := &Session{client: c, store: store, now: time.Now}
	if store == nil {
		return s, nil
	}

	state, err := store.Load()
	if err != nil {
		return nil, err
	}
	if state != nil && s.now().Before(state.ExpiresAt) {
		s.state = state
		c.SetToken(state.Token)
	}
	return s, nil
}

// Login; rememberMe запрашивает токен на 7 дней
func (s *Session) Login(ctx context.Context, email, password string, rememberMe bool) (*User, error) {
	var resp loginResponse
	err := s.client.do(ctx, http.MethodPost, "/auth/login", map[string]any{
		"email":      email,
		"password":   password,
		"rememberMe": rememberMe,
	}, &resp)
	if err != nil {
		return nil, err
	}

	state := &SessionState{
		Token:     resp.Token,
		User:      resp.User,
		ExpiresAt: s.now().Add(time.Duration(resp.ExpiresIn) * time.Second),
	}
	s.set(state)
	if s.store != nil {
		if err := s.store.Save(state); err != nil {
			return &state.User, err
		}
	}
	return &state.User, nil
}

// Verify проверяет токен на сервере; отклоненный токен очищает сессию
func (s *Session) Verify(ctx context.Context) (*User, error) {
	if !s.IsAuthenticated() {
		return nil, &APIError{Status: http.StatusUnauthorized, Code: "UNAUTHORIZED", Message: "Authentication required"}
	}

	var resp messageResponse
	if err := s.client.do(ctx, http.MethodPost, "/auth/verify", nil, &resp); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
			s.clear()
		}
		return nil, err
	}
	return resp.User, nil
}

// Logout очищает локальную сессию даже при ошибке сервера
func (s *Session) Logout(ctx context.Context) error {
	err := s.client.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
	s.clear()
	return err
}

func (s *Session) ForgotPassword(ctx context.Context, email string) (string, error) {
	var resp messageResponse
	if err := s.client.do(ctx, http.MethodPost, "/auth/forgot-password", map[string]string{"email": email}, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

func (s *Session) ResetPassword(ctx context.Context, token, newPassword string) (string, error) {
	var resp messageResponse
	err := s.client.do(ctx, http.MethodPost, "/auth/reset-password", map[string]string{
		"token":       token,
		"newPassword": newPassword,
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Message, nil
}

// Token возвращает "", если сессии нет или она истекла
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.validLocked() {
		return ""
	}
	return s.state.Token
}

func (s *Session) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.validLocked() {
		return nil
	}
	u := s.state.User
	return &u
}

func (s *Session) ExpiresAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state == nil {
		return time.Time{}
	}
	return s.state.ExpiresAt
}

func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.validLocked()
}

func (s *Session) validLocked() bool {
	return s.state != nil && s.state.Token != "" && s.now().Before(s.state.ExpiresAt)
}

func (s *Session) set(state *SessionState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
	s.client.SetToken(state.Token)
}

func (s *Session) clear() {
	s.mu.Lock()
	s.state = nil
	s.mu.Unlock()
	s.client.SetToken("")
	if s.store != nil {
		_ = s.store.Clear()
	}
}
