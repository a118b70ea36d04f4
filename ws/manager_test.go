package ws

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"portfolio_backend/internal/events"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startFeed(t *testing.T, origins []string) (*WebSocketManager, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctx, cancel := context.WithCancel(context.Background())
	manager := NewWebSocketManager()
	go manager.Run(ctx)

	r := gin.New()
	r.GET("/ws", NewWebSocketHandler(manager, origins).ServeWS)
	srv := httptest.NewServer(r)

	t.Cleanup(func() {
		cancel()
		srv.Close()
	})
	return manager, "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func TestManager_BroadcastsEvents(t *testing.T) {
	manager, url := startFeed(t, nil)

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return manager.GetClientCount() == 1 }, time.Second, 10*time.Millisecond)

	manager.Publish(events.ResourceEvent{Resource: events.ResourceProjects, Action: events.ActionCreated, ID: "p1", Version: 1})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got events.ResourceEvent
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, "projects", got.Resource)
	assert.Equal(t, events.ActionCreated, got.Action)
	assert.Equal(t, "p1", got.ID)
}

func TestManager_UnregistersOnClose(t *testing.T) {
	manager, url := startFeed(t, nil)

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return manager.GetClientCount() == 1 }, time.Second, 10*time.Millisecond)

	conn.Close()
	assert.Eventually(t, func() bool { return manager.GetClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHandler_RejectsUnknownOrigin(t *testing.T) {
	_, url := startFeed(t, []string{"https://portfolio.example.com"})

	header := http.Header{"Origin": []string{"https://evil.example.com"}}
	_, resp, err := websocket.DefaultDialer.Dial(url, header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestHandler_WildcardAllowsAnyOrigin(t *testing.T) {
	manager, url := startFeed(t, []string{"*"})

	header := http.Header{"Origin": []string{"https://any.example.com"}}
	conn, resp, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)

	require.Eventually(t, func() bool { return manager.GetClientCount() == 1 }, time.Second, 10*time.Millisecond)
}

func TestPublish_AfterStopDoesNotBlock(t *testing.T) {
	manager := NewWebSocketManager()
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		manager.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			manager.Publish(events.ResourceEvent{ID: "x"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked after manager stopped")
	}
}
