package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/tasklane/tasklane/pkg/hub"
)

const (
	wsWriteWait = 10 * time.Second
	wsPongWait  = 60 * time.Second
	wsPingEvery = 45 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,

	// Credentials are token-based, so cross-origin browsers are fine.
	CheckOrigin: func(*http.Request) bool { return true },
}

// EventStreamHandler upgrades the connection to a websocket and relays
// every event published on the hub until the client goes away.
//
// Inbound messages are discarded; the channel is broadcast-only.
func EventStreamHandler(h *hub.Hub) echo.HandlerFunc {
	return func(c echo.Context) error {
		ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
		if err != nil {
			// Upgrade has already replied to the client.
			return nil
		}
		defer ws.Close()

		ch, unsubscribe := h.Subscribe()
		defer unsubscribe()

		// Reader side: discard inbound frames, notice disconnects.
		gone := make(chan struct{})
		go func() {
			defer close(gone)
			ws.SetReadDeadline(time.Now().Add(wsPongWait))
			ws.SetPongHandler(func(string) error {
				return ws.SetReadDeadline(time.Now().Add(wsPongWait))
			})
			for {
				if _, _, err := ws.ReadMessage(); err != nil {
					return
				}
			}
		}()

		ping := time.NewTicker(wsPingEvery)
		defer ping.Stop()

		for {
			select {
			case ev, ok := <-ch:
				if !ok {
					ws.SetWriteDeadline(time.Now().Add(wsWriteWait))
					ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(
						websocket.CloseGoingAway, "server is shutting down",
					))
					return nil
				}
				ws.SetWriteDeadline(time.Now().Add(wsWriteWait))
				if err := ws.WriteJSON(ev); err != nil {
					return nil
				}
			case <-ping.C:
				ws.SetWriteDeadline(time.Now().Add(wsWriteWait))
				if err := ws.WriteMessage(websocket.PingMessage, nil); err != nil {
					return nil
				}
			case <-gone:
				return nil
			}
		}
	}
}
