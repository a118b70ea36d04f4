package storage

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanPath(t *testing.T) {
	got, err := CleanPath("projects//2024/a.jpg")
	require.NoError(t, err)
	assert.Equal(t, "projects/2024/a.jpg", got)

	for _, bad := range []string{"", "../etc/passwd", "a/../../b", "/"} {
		_, err := CleanPath(bad)
		assert.ErrorIs(t, err, ErrInvalidPath, bad)
	}
}

func TestLocalStorage_Lifecycle(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStorage(Config{BasePath: dir, BaseURL: "/uploads/"})
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "projects/a.png", strings.NewReader("data"), "image/png"))

	content, err := os.ReadFile(filepath.Join(dir, "projects", "a.png"))
	require.NoError(t, err)
	assert.Equal(t, "data", string(content))

	ok, err := s.Exists(ctx, "projects/a.png")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "/uploads/projects/a.png", s.GetURL("projects/a.png"))

	require.NoError(t, s.Delete(ctx, "projects/a.png"))
	require.NoError(t, s.Delete(ctx, "projects/a.png"))
	ok, err = s.Exists(ctx, "projects/a.png")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.ErrorIs(t, s.Save(ctx, "../escape.txt", strings.NewReader("x"), "text/plain"), ErrInvalidPath)
}

// fakeS3 understands just enough path-style requests for the storage calls.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch r.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.objects[r.URL.Path] = body
		w.WriteHeader(http.StatusOK)
	case http.MethodHead:
		if _, ok := f.objects[r.URL.Path]; !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	case http.MethodDelete:
		delete(f.objects, r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func TestS3Storage_AgainstFakeEndpoint(t *testing.T) {
	fake := &fakeS3{objects: map[string][]byte{}}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	ctx := context.Background()
	s, err := NewS3Storage(ctx, Config{
		Bucket:    "portfolio",
		Region:    "us-east-1",
		AccessKey: "key",
		SecretKey: "secret",
		Endpoint:  srv.URL,
	})
	require.NoError(t, err)

	require.NoError(t, s.Save(ctx, "projects/a.jpg", bytes.NewBufferString("jpeg"), "image/jpeg"))

	fake.mu.Lock()
	_, stored := fake.objects["/portfolio/projects/a.jpg"]
	fake.mu.Unlock()
	assert.True(t, stored)

	ok, err := s.Exists(ctx, "projects/a.jpg")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, s.Delete(ctx, "projects/a.jpg"))
	ok, err = s.Exists(ctx, "projects/a.jpg")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, srv.URL+"/portfolio/projects/a.jpg", s.GetURL("projects/a.jpg"))
}

func TestNewStorage_UnknownType(t *testing.T) {
	_, err := NewStorage(context.Background(), Config{Type: "ftp"})
	assert.Error(t, err)
}
