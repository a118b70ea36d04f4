package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/gorilla/websocket"
)

// Event - событие из /ws
type Event struct {
	Resource string `json:"resource"`
	Action   string `json:"action"`
	ID       string `json:"id"`
	Version  int    `json:"version,omitempty"`
}

// Watch слушает ленту wsURL ("ws://host/ws") и перезагружает коллекцию на события своего ресурса.
// Блокирует до отмены ctx или обрыва соединения
func (col *Collection[T]) Watch(ctx context.Context, wsURL string) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	for {
		var ev Event
		if err := conn.ReadJSON(&ev); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			var closeErr *websocket.CloseError
			if errors.As(err, &closeErr) && closeErr.Code == websocket.CloseNormalClosure {
				return nil
			}
			return err
		}
		if ev.Resource != col.resource {
			continue
		}
		if err := col.Load(ctx); err != nil {
			return err
		}
	}
}
