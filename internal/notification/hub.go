package notification

import (
	"sync"

	"github.com/gorilla/websocket"
)

// Event is a live dashboard message.
type Event struct {
	Type         string `json:"type"`
	InspectionID int64  `json:"inspection_id,omitempty"`
	InspectorID  int64  `json:"inspector_id,omitempty"`
	Date         string `json:"date,omitempty"`
	Time         int    `json:"time,omitempty"`
}

type connection struct {
	conn      *websocket.Conn
	accountID int64
}

// Hub tracks one websocket connection per signed-in inspector and
// broadcasts events account-wide.
type Hub struct {
	connections map[int64]connection
	mutex       sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		connections: make(map[int64]connection),
	}
}

// Register replaces any previous connection for the inspector.
func (h *Hub) Register(inspectorID, accountID int64, conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if old, exists := h.connections[inspectorID]; exists && old.conn != nil {
		_ = old.conn.Close()
	}
	h.connections[inspectorID] = connection{conn: conn, accountID: accountID}
}

func (h *Hub) Unregister(inspectorID int64) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if c, exists := h.connections[inspectorID]; exists {
		if c.conn != nil {
			_ = c.conn.Close()
		}
		delete(h.connections, inspectorID)
	}
}

// BroadcastAccount sends the event to every connected inspector of the
// account. Write failures drop the connection.
func (h *Hub) BroadcastAccount(accountID int64, event Event) {
	h.mutex.RLock()
	targets := make(map[int64]*websocket.Conn)
	for inspectorID, c := range h.connections {
		if c.accountID == accountID && c.conn != nil {
			targets[inspectorID] = c.conn
		}
	}
	h.mutex.RUnlock()

	for inspectorID, conn := range targets {
		if err := conn.WriteJSON(event); err != nil {
			h.Unregister(inspectorID)
		}
	}
}

func (h *Hub) OnlineCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	return len(h.connections)
}

func (h *Hub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for inspectorID, c := range h.connections {
		if c.conn != nil {
			_ = c.conn.Close()
		}
		delete(h.connections, inspectorID)
	}
}
