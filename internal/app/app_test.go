package app

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"portfolio_backend/internal/auth"
	"portfolio_backend/internal/config"
	"portfolio_backend/internal/email"
	"portfolio_backend/internal/events"
	"portfolio_backend/internal/models"
	"portfolio_backend/internal/repositories"
	"portfolio_backend/internal/testutil"
	"portfolio_backend/internal/validator"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	adminEmail    = "admin@example.com"
	adminPassword = "secret-pass"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type mailbox struct {
	mu   sync.Mutex
	sent []*email.Email
}

func (m *mailbox) Send(_ context.Context, e *email.Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, e)
	return nil
}

func (m *mailbox) Validate() error { return nil }
func (m *mailbox) Close() error    { return nil }

func (m *mailbox) last() *email.Email {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return nil
	}
	return m.sent[len(m.sent)-1]
}

type testEnv struct {
	srv  *Server
	db   *gorm.DB
	mail *mailbox
	cfg  *config.Config
}

func loadTestConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("SERVER_ENV", "test")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("FRONTEND_URL", "https://portfolio.example.com")
	t.Setenv("FIRST_ADMIN_EMAIL", adminEmail)
	t.Setenv("FIRST_ADMIN_PASSWORD", adminPassword)
	t.Setenv("STORAGE_TYPE", "local")
	t.Setenv("STORAGE_BASE_PATH", t.TempDir())
	t.Setenv("CORS_ORIGINS", "http://localhost:3000")

	cfg, err := config.Load()
	require.NoError(t, err)
	return cfg
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cfg := loadTestConfig(t)
	db := testutil.NewDB(t)
	require.NoError(t, seedFirstAdmin(context.Background(), db, cfg, validator.New()))

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	mail := &mailbox{}
	srv, err := Build(ctx, cfg, db, WithEmailProvider(mail))
	require.NoError(t, err)

	return &testEnv{srv: srv, db: db, mail: mail, cfg: cfg}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.srv.Router.ServeHTTP(w, req)

	var out map[string]any
	if w.Body.Len() > 0 && strings.HasPrefix(strings.TrimSpace(w.Body.String()), "{") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	}
	return w.Code, out
}

func (e *testEnv) login(t *testing.T, addr, password string) string {
	t.Helper()
	code, body := e.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{"email": addr, "password": password})
	require.Equal(t, http.StatusOK, code, body)
	return body["token"].(string)
}

func errorCode(body map[string]any) string {
	errObj, _ := body["error"].(map[string]any)
	code, _ := errObj["code"].(string)
	return code
}

func TestHealth_MountedTwice(t *testing.T) {
	env := newTestEnv(t)
	for _, path := range []string{"/health", "/api/health"} {
		code, body := env.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "ok", body["status"])
	}
}

func TestSeedFirstAdmin(t *testing.T) {
	cfg := loadTestConfig(t)
	db := testutil.NewDB(t)
	v := validator.New()
	ctx := context.Background()

	require.NoError(t, seedFirstAdmin(ctx, db, cfg, v))
	require.NoError(t, seedFirstAdmin(ctx, db, cfg, v))

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	user, err := repositories.NewUserRepository().FindByEmail(db, adminEmail)
	require.NoError(t, err)
	assert.Equal(t, models.UserRoleAdmin, user.Role)
	assert.Equal(t, "Admin", user.Name)

	cfg.Admin.Email = "not-an-email"
	assert.Error(t, seedFirstAdmin(ctx, testutil.NewDB(t), cfg, v))
}

func TestAuthFlow(t *testing.T) {
	env := newTestEnv(t)

	code, body := env.do(t, http.MethodPost, "/auth/login", "", map[string]any{"email": "ADMIN@example.com ", "password": adminPassword, "rememberMe": true})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Login successful", body["message"])
	assert.EqualValues(t, 7*24*3600, body["expiresIn"])
	user := body["user"].(map[string]any)
	assert.Equal(t, adminEmail, user["email"])
	assert.NotContains(t, user, "passwordHash")
	token := body["token"].(string)

	code, body = env.do(t, http.MethodPost, "/auth/verify", token, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Token is valid", body["message"])

	code, body = env.do(t, http.MethodPost, "/auth/verify", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "INVALID_TOKEN", errorCode(body))

	code, body = env.do(t, http.MethodPost, "/auth/login", "", map[string]any{"email": adminEmail, "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Invalid email or password", body["message"])
	assert.Equal(t, "INVALID_CREDENTIALS", errorCode(body))

	code, body = env.do(t, http.MethodPost, "/auth/logout", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Logged out successfully", body["message"])
}

var resetTokenRe = regexp.MustCompile(`token=([0-9a-f]{64})`)

func TestPasswordResetFlow(t *testing.T) {
	env := newTestEnv(t)

	code, body := env.do(t, http.MethodPost, "/api/auth/forgot-password", "", map[string]any{"email": "nobody@example.com"})
	assert.Equal(t, http.StatusOK, code)
	generic := body["message"]
	assert.Nil(t, env.mail.last())

	code, body = env.do(t, http.MethodPost, "/api/auth/forgot-password", "", map[string]any{"email": adminEmail})
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, generic, body["message"])

	sent := env.mail.last()
	require.NotNil(t, sent)
	assert.Contains(t, sent.Body, "https://portfolio.example.com/reset-password?token=")

	// пустое тело получает тот же ответ
	code, body = env.do(t, http.MethodPost, "/api/auth/forgot-password", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, generic, body["message"])
	code, body = env.do(t, http.MethodPost, "/api/auth/forgot-password", "", map[string]any{})
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, generic, body["message"])
	assert.Same(t, sent, env.mail.last())
	match := resetTokenRe.FindStringSubmatch(sent.Body)
	require.Len(t, match, 2)

	code, body = env.do(t, http.MethodPost, "/api/auth/reset-password", "", map[string]any{"token": match[1], "newPassword": "12345"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "WEAK_PASSWORD", errorCode(body))

	code, _ = env.do(t, http.MethodPost, "/api/auth/reset-password", "", map[string]any{"token": match[1], "newPassword": "123456"})
	assert.Equal(t, http.StatusOK, code)

	code, body = env.do(t, http.MethodPost, "/api/auth/reset-password", "", map[string]any{"token": match[1], "newPassword": "another"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "INVALID_OR_EXPIRED_TOKEN", errorCode(body))

	env.login(t, adminEmail, "123456")
}

func TestProjects_AccessControl(t *testing.T) {
	env := newTestEnv(t)

	code, body := env.do(t, http.MethodPost, "/projects", "", map[string]any{"title": "x"})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "UNAUTHORIZED", errorCode(body))

	hash, err := auth.HashPassword("user-pass")
	require.NoError(t, err)
	require.NoError(t, repositories.NewUserRepository().Create(env.db, &models.User{
		Email: "user@example.com", PasswordHash: hash, Role: models.UserRoleUser, IsActive: true,
	}))
	userToken := env.login(t, "user@example.com", "user-pass")

	code, body = env.do(t, http.MethodPost, "/projects", userToken, map[string]any{"title": "x"})
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "FORBIDDEN", errorCode(body))

	code, _ = env.do(t, http.MethodGet, "/projects", "", nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestProjects_CRUD(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, adminEmail, adminPassword)

	code, body := env.do(t, http.MethodPost, "/api/projects", token, map[string]any{"title": "Site"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(body))
	details := body["error"].(map[string]any)["details"].(map[string]any)
	assert.Contains(t, details, "category")
	assert.Contains(t, details, "description")

	code, body = env.do(t, http.MethodPost, "/api/projects", token, map[string]any{
		"title": "Site", "category": "web", "description": "d", "status": "published",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "INVALID_STATUS", errorCode(body))

	code, body = env.do(t, http.MethodPost, "/api/projects", token, map[string]any{
		"title": "Site", "category": "web", "description": "d", "tags": []string{" go ", ""},
	})
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Project created successfully", body["message"])
	created := body["data"].(map[string]any)
	id := created["id"].(string)
	assert.Equal(t, "active", created["status"])
	assert.Equal(t, []any{"go"}, created["tags"])

	w := httptest.NewRecorder()
	env.srv.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/projects", nil))
	var list []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, id, list[0]["id"])

	code, body = env.do(t, http.MethodGet, "/projects/"+id, "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Site", body["title"])

	code, body = env.do(t, http.MethodPut, "/projects/"+id, token, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "NO_FIELDS_PROVIDED", errorCode(body))

	code, body = env.do(t, http.MethodPut, "/projects/"+id, token, map[string]any{"title": "Renamed", "version": 1})
	assert.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 2, body["data"].(map[string]any)["version"])

	code, body = env.do(t, http.MethodPut, "/projects/"+id, token, map[string]any{"title": "Stale", "version": 1})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "CONFLICT", errorCode(body))

	for _, payload := range []map[string]any{{"status": "published"}, {}} {
		code, body = env.do(t, http.MethodPatch, "/projects/"+id+"/status", token, payload)
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "INVALID_STATUS", errorCode(body))
	}

	code, body = env.do(t, http.MethodPatch, "/projects/"+id+"/status", token, map[string]any{"status": "draft"})
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "draft", body["data"].(map[string]any)["status"])

	code, body = env.do(t, http.MethodGet, "/projects?status=bogus", "", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "INVALID_STATUS", errorCode(body))

	code, body = env.do(t, http.MethodDelete, "/projects/"+id, token, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, id, body["data"].(map[string]any)["id"])

	code, body = env.do(t, http.MethodDelete, "/projects/"+id, token, nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "NOT_FOUND", errorCode(body))
}

func TestServices_SharedContract(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, adminEmail, adminPassword)

	code, body := env.do(t, http.MethodPost, "/services", token, map[string]any{
		"title": "Branding", "description": "Logos", "features": []string{"Logo", " "}, "price": "from $500",
	})
	require.Equal(t, http.StatusCreated, code)
	id := body["data"].(map[string]any)["id"].(string)
	assert.Equal(t, []any{"Logo"}, body["data"].(map[string]any)["features"])

	code, body = env.do(t, http.MethodGet, "/api/services/"+id, "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "from $500", body["price"])
}

func TestUpload_ServedFromLocalStorage(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, adminEmail, adminPassword)

	var img bytes.Buffer
	require.NoError(t, png.Encode(&img, image.NewRGBA(image.Rect(0, 0, 4, 4))))

	var form bytes.Buffer
	mw := multipart.NewWriter(&form)
	part, err := mw.CreateFormFile("file", "dot.png")
	require.NoError(t, err)
	_, err = part.Write(img.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("folder", "projects"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/uploads", &form)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	env.srv.Router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Data struct {
			URL         string `json:"url"`
			ContentType string `json:"content_type"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "image/png", resp.Data.ContentType)
	require.True(t, strings.HasPrefix(resp.Data.URL, "/uploads/projects/"))

	w = httptest.NewRecorder()
	env.srv.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, resp.Data.URL, nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestChangeFeed_ReceivesMutations(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, adminEmail, adminPassword)

	ts := httptest.NewServer(env.srv.Router)
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return env.srv.WSManager.GetClientCount() == 1 }, time.Second, 10*time.Millisecond)

	code, _ := env.do(t, http.MethodPost, "/projects", token, map[string]any{"title": "Live", "category": "web", "description": "d"})
	require.Equal(t, http.StatusCreated, code)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var event events.ResourceEvent
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, events.ResourceProjects, event.Resource)
	assert.Equal(t, events.ActionCreated, event.Action)
}

func TestMetricsAndDocs(t *testing.T) {
	env := newTestEnv(t)

	w := httptest.NewRecorder()
	env.srv.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	env.srv.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/docs/doc.json", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Portfolio API")
}
