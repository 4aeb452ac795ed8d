package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

var (
	upgrader = websocket.Upgrader{
		CheckOrigin: checkOrigin,
	}
)

func checkOrigin(r *http.Request) bool {
	return true
}

// watch streams blocklist changes as they are recorded.
func (a *APIService) watch(c echo.Context) error {
	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	defer ws.Close()

	// The client never sends anything; reading only detects the close.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ch := a.history.Broadcaster.Subscribe()
	defer a.history.Broadcaster.Unsubscribe(ch)
	slog.Debug("watch client connected", "subscribers", a.history.Broadcaster.Subscribers())
	for {
		select {
		case event := <-ch:
			if err := ws.WriteJSON(event); err != nil {
				return nil
			}
		case <-closed:
			return nil
		}
	}
}
