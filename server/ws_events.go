package server

import (
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/zachgliebs/VinylRecorder/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// The API is open to the static frontend from any origin.
		return true
	},
}

// EventsHandler upgrades the connection and streams session transition
// events until the client goes away. The feed is one-way; inbound frames
// are read only to detect the close.
func (h *APIHandler) EventsHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", logger.ErrorField(err))
		return
	}

	h.hub.Register(conn)

	go func() {
		defer h.hub.Unregister(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
