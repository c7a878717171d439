package notifyhub

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/mikanbox/droplink/types"
)

// Hub fans notifications out to every connected GUI websocket. A nil *Hub
// is valid and drops everything, so wiring stays optional.
type Hub struct {
	mu    sync.RWMutex
	conns map[*websocket.Conn]struct{}
}

func New() *Hub {
	return &Hub{
		conns: make(map[*websocket.Conn]struct{}),
	}
}

// Register adds a websocket connection to the hub.
func (h *Hub) Register(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[conn] = struct{}{}
}

// Unregister removes a websocket connection from the hub.
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, conn)
}

// Publish builds a notification and broadcasts it.
func (h *Hub) Publish(eventType, title, message string, data map[string]any) {
	h.Broadcast(&types.Notification{
		Type:    eventType,
		Title:   title,
		Message: message,
		Data:    data,
	})
}

// Broadcast sends the notification as JSON to all registered connections.
func (h *Hub) Broadcast(notification *types.Notification) {
	if h == nil || notification == nil {
		return
	}
	payload, err := json.Marshal(notification)
	if err != nil {
		return
	}

	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.conns))
	for c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	for _, conn := range conns {
		_ = conn.WriteMessage(websocket.TextMessage, payload)
	}
}
