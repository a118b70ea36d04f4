package client_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"portfolio_backend/internal/app"
	"portfolio_backend/internal/auth"
	"portfolio_backend/internal/config"
	"portfolio_backend/internal/models"
	"portfolio_backend/internal/repositories"
	"portfolio_backend/internal/testutil"
	"portfolio_backend/pkg/client"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	adminEmail    = "admin@example.com"
	adminPassword = "secret-pass"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type backend struct {
	apiURL string
	wsURL  string
}

func startBackend(t *testing.T) backend {
	t.Helper()
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("SERVER_ENV", "test")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("EMAIL_PROVIDER", "log")
	t.Setenv("STORAGE_TYPE", "local")
	t.Setenv("STORAGE_BASE_PATH", t.TempDir())
	t.Setenv("CORS_ORIGINS", "*")

	cfg, err := config.Load()
	require.NoError(t, err)

	db := testutil.NewDB(t)
	hash, err := auth.HashPassword(adminPassword)
	require.NoError(t, err)
	require.NoError(t, repositories.NewUserRepository().Create(db, &models.User{
		Email: adminEmail, PasswordHash: hash, Role: models.UserRoleAdmin, IsActive: true,
	}))

	ctx, cancel := context.WithCancel(context.Background())
	srv, err := app.Build(ctx, cfg, db)
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Router)
	t.Cleanup(func() {
		cancel()
		ts.Close()
	})

	return backend{
		apiURL: ts.URL + "/api",
		wsURL:  "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws",
	}
}

func signedIn(t *testing.T, b backend) *client.Client {
	t.Helper()
	c := client.New(b.apiURL)
	s, err := client.NewSession(c, nil)
	require.NoError(t, err)
	_, err = s.Login(context.Background(), adminEmail, adminPassword, false)
	require.NoError(t, err)
	return c
}

func strPtr(s string) *string { return &s }

func TestCollection_MutationsUpdateSnapshot(t *testing.T) {
	b := startBackend(t)
	ctx := context.Background()
	projects := client.Projects(signedIn(t, b))

	var mu sync.Mutex
	var notified [][]client.Project
	unsubscribe := projects.Subscribe(func(items []client.Project) {
		mu.Lock()
		notified = append(notified, items)
		mu.Unlock()
	})

	first, err := projects.Add(ctx, client.Project{Content: client.Content{
		ID: "client-made", Title: "Site", Category: "web", Description: "Landing", Tags: []string{"Go"},
	}})
	require.NoError(t, err)
	assert.NotEqual(t, "client-made", first.ID)
	assert.Equal(t, client.StatusActive, first.Status)

	second, err := projects.Add(ctx, client.Project{Content: client.Content{
		Title: "Shop", Category: "ecommerce", Description: "Store",
	}})
	require.NoError(t, err)

	all := projects.All()
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID)

	updated, err := projects.Update(ctx, first.ID, client.Patch{Title: strPtr("Renamed")})
	require.NoError(t, err)
	got, ok := projects.Find(first.ID)
	require.True(t, ok)
	assert.Equal(t, "Renamed", got.Title)
	assert.Equal(t, updated.Version, got.Version)

	_, err = projects.SetStatus(ctx, second.ID, client.StatusDraft)
	require.NoError(t, err)
	assert.Len(t, projects.Drafts(), 1)
	assert.Len(t, projects.Active(), 1)

	require.NoError(t, projects.Delete(ctx, second.ID))
	_, ok = projects.Find(second.ID)
	assert.False(t, ok)

	mu.Lock()
	assert.Len(t, notified, 5)
	mu.Unlock()

	unsubscribe()
	require.NoError(t, projects.Load(ctx))
	mu.Lock()
	assert.Len(t, notified, 5)
	mu.Unlock()
}

func TestCollection_FailedMutationLeavesSnapshot(t *testing.T) {
	b := startBackend(t)
	ctx := context.Background()

	admin := client.Projects(signedIn(t, b))
	p, err := admin.Add(ctx, client.Project{Content: client.Content{Title: "Site", Category: "web", Description: "d"}})
	require.NoError(t, err)

	anonymous := client.Projects(client.New(b.apiURL))
	require.NoError(t, anonymous.Load(ctx))

	calls := 0
	anonymous.Subscribe(func([]client.Project) { calls++ })

	_, err = anonymous.Update(ctx, p.ID, client.Patch{Title: strPtr("Hijack")})
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "UNAUTHORIZED", apiErr.Code)

	err = anonymous.Delete(ctx, p.ID)
	require.Error(t, err)

	got, ok := anonymous.Find(p.ID)
	require.True(t, ok)
	assert.Equal(t, "Site", got.Title)
	assert.Zero(t, calls)
}

func TestCollection_StaleVersionConflicts(t *testing.T) {
	b := startBackend(t)
	ctx := context.Background()
	projects := client.Projects(signedIn(t, b))

	p, err := projects.Add(ctx, client.Project{Content: client.Content{Title: "Site", Category: "web", Description: "d"}})
	require.NoError(t, err)

	version := p.Version
	_, err = projects.Update(ctx, p.ID, client.Patch{Title: strPtr("A"), Version: &version})
	require.NoError(t, err)

	_, err = projects.Update(ctx, p.ID, client.Patch{Title: strPtr("B"), Version: &version})
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, "CONFLICT", apiErr.Code)

	got, _ := projects.Find(p.ID)
	assert.Equal(t, "A", got.Title)
}

func TestCollection_ValidationDetails(t *testing.T) {
	b := startBackend(t)
	services := client.Services(signedIn(t, b))

	_, err := services.Add(context.Background(), client.Service{Content: client.Content{Title: "Branding"}})
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "VALIDATION_FAILED", apiErr.Code)
	assert.Contains(t, apiErr.Details, "description")
	assert.Empty(t, services.All())
}

func TestCollection_Views(t *testing.T) {
	b := startBackend(t)
	ctx := context.Background()
	services := client.Services(signedIn(t, b))

	for _, s := range []client.Service{
		{Content: client.Content{Title: "Logo", Category: "branding", Description: "Marks", Tags: []string{"Identity"}}, Price: "from $500"},
		{Content: client.Content{Title: "Website", Category: "web", Description: "Sites"}},
		{Content: client.Content{Title: "Guide", Category: "branding", Description: "Brand book"}},
	} {
		_, err := services.Add(ctx, s)
		require.NoError(t, err)
	}

	assert.Equal(t, []string{"branding", "web"}, services.Categories())

	found := services.Search("IDENTITY")
	require.Len(t, found, 1)
	assert.Equal(t, "Logo", found[0].Title)
	assert.Equal(t, "from $500", found[0].Price)

	assert.Len(t, services.Search("brand"), 1)
	assert.Len(t, services.Search(""), 3)
	assert.Empty(t, services.Archived())
}

func TestCollection_WatchReloadsOnChange(t *testing.T) {
	b := startBackend(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	watcher := client.Projects(client.New(b.apiURL))
	done := make(chan error, 1)
	go func() { done <- watcher.Watch(ctx, b.wsURL) }()

	writer := client.Projects(signedIn(t, b))
	// watcher может подключиться после первой записи, пишем до первого события
	require.Eventually(t, func() bool {
		if _, err := writer.Add(ctx, client.Project{Content: client.Content{Title: "Live", Category: "web", Description: "d"}}); err != nil {
			return false
		}
		time.Sleep(50 * time.Millisecond)
		return len(watcher.All()) > 0
	}, 3*time.Second, 100*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

func TestClient_NetworkError(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	err := client.Projects(client.New(url)).Load(context.Background())
	assert.True(t, errors.Is(err, client.ErrNetwork))
	assert.Equal(t, "Network error, please try again", client.ErrNetwork.Error())
}
