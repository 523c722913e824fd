package events

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/zachgliebs/VinylRecorder/logger"
)

// EventType names a session transition broadcast to websocket subscribers.
type EventType string

const (
	EventSessionStarted  EventType = "session_started"
	EventSessionFinished EventType = "session_finished"
	EventSessionLogged   EventType = "session_logged"
)

// Event is one session transition.
type Event struct {
	Type      EventType `json:"type"`
	AlbumID   int64     `json:"album_id"`
	PlayID    int64     `json:"play_id"`
	Timestamp int64     `json:"timestamp"`
}

const writeWait = 10 * time.Second

// Hub fans session transitions out to connected websocket clients.
type Hub struct {
	mu      sync.RWMutex
	clients map[*websocket.Conn]bool
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]bool),
	}
}

// Register adds a client connection.
func (h *Hub) Register(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = true
	logger.Debug("websocket client registered", logger.Int("clients", len(h.clients)))
}

// Unregister removes a client connection and closes it.
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		conn.Close()
	}
}

// Broadcast sends the event to every connected client. Clients that fail
// the write are dropped.
func (h *Hub) Broadcast(evt Event) {
	if h == nil {
		return
	}
	if evt.Timestamp == 0 {
		evt.Timestamp = time.Now().Unix()
	}

	payload, err := json.Marshal(evt)
	if err != nil {
		logger.Error("failed to marshal event", logger.ErrorField(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			logger.Warn("dropping websocket client", logger.ErrorField(err))
			delete(h.clients, conn)
			conn.Close()
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
