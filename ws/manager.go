package ws

import (
	"context"
	"log/slog"
	"sync"

	"portfolio_backend/internal/events"
)

// WebSocketManager рассылает события изменений всем подписчикам
type WebSocketManager struct {
	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan events.ResourceEvent
	done       chan struct{}
	mu         sync.RWMutex
}

func NewWebSocketManager() *WebSocketManager {
	return &WebSocketManager{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan events.ResourceEvent, 64),
		done:       make(chan struct{}),
	}
}

// Run обслуживает регистрацию и рассылку до отмены ctx
func (manager *WebSocketManager) Run(ctx context.Context) {
	defer close(manager.done)

	for {
		select {
		case <-ctx.Done():
			manager.mu.Lock()
			for client := range manager.clients {
				close(client.send)
				delete(manager.clients, client)
			}
			manager.mu.Unlock()
			return

		case client := <-manager.register:
			manager.mu.Lock()
			manager.clients[client] = struct{}{}
			total := len(manager.clients)
			manager.mu.Unlock()
			slog.Debug("ws client registered", "remote", client.remote, "total", total)

		case client := <-manager.unregister:
			manager.remove(client)

		case event := <-manager.broadcast:
			manager.broadcastEvent(event)
		}
	}
}

// Publish реализует events.Publisher; после остановки менеджера события отбрасываются
func (manager *WebSocketManager) Publish(event events.ResourceEvent) {
	select {
	case manager.broadcast <- event:
	case <-manager.done:
	}
}

func (manager *WebSocketManager) remove(client *Client) {
	manager.mu.Lock()
	defer manager.mu.Unlock()

	if _, ok := manager.clients[client]; ok {
		close(client.send)
		delete(manager.clients, client)
		slog.Debug("ws client unregistered", "remote", client.remote, "total", len(manager.clients))
	}
}

func (manager *WebSocketManager) broadcastEvent(event events.ResourceEvent) {
	var slow []*Client

	manager.mu.RLock()
	for client := range manager.clients {
		select {
		case client.send <- event:
		default:
			// Канал заполнен, клиент отключается
			slow = append(slow, client)
		}
	}
	manager.mu.RUnlock()

	for _, client := range slow {
		slog.Warn("ws client dropped: send buffer full", "remote", client.remote)
		manager.remove(client)
	}
}

// GetClientCount возвращает количество подключенных клиентов
func (manager *WebSocketManager) GetClientCount() int {
	manager.mu.RLock()
	defer manager.mu.RUnlock()
	return len(manager.clients)
}
