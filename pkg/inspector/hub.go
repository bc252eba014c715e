package inspector

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// MessageType is the type of a hub message.
type MessageType string

const (
	MessageSnapshot MessageType = "snapshot"
)

// Message is sent to websocket clients.
type Message struct {
	Type     MessageType `json:"type"`
	Snapshot *Snapshot   `json:"snapshot,omitempty"`
}

type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub streams snapshots to websocket clients. A snapshot whose fingerprint
// equals the last one sent is dropped.
type Hub struct {
	clients  map[*client]bool
	mu       sync.RWMutex
	upgrader websocket.Upgrader
	logger   *slog.Logger

	last   uint64
	latest []byte
}

// NewHub creates a hub.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		clients: make(map[*client]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				return true // inspector is a local dev tool
			},
		},
		logger: logger,
	}
}

// HandleWebSocket upgrades the connection, sends the latest snapshot and
// keeps the client registered until it disconnects.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, req *http.Request) {
	conn, err := h.upgrader.Upgrade(w, req, nil)
	if err != nil {
		h.logger.Debug("inspector: upgrade failed", "error", err)
		return
	}
	c := &client{conn: conn}

	h.mu.Lock()
	h.clients[c] = true
	latest := h.latest
	h.mu.Unlock()

	if latest != nil {
		if err := c.write(latest); err != nil {
			h.remove(c)
			return
		}
	}

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.remove(c)
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	c.conn.Close()
}

// Broadcast sends s to every client. It reports whether s was sent, which is
// false for a snapshot identical to the previous one.
func (h *Hub) Broadcast(s *Snapshot) bool {
	data, err := json.Marshal(Message{Type: MessageSnapshot, Snapshot: s})
	if err != nil {
		h.logger.Error("inspector: encode snapshot", "error", err)
		return false
	}

	h.mu.Lock()
	if h.latest != nil && s.Fingerprint == h.last {
		h.mu.Unlock()
		return false
	}
	h.last = s.Fingerprint
	h.latest = data
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		if err := c.write(data); err != nil {
			h.remove(c)
		}
	}
	return true
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close closes all client connections.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		c.conn.Close()
		delete(h.clients, c)
	}
}
