package web

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hashicorp/go-hclog"

	"streamflix/internal/catalog"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

const (
	writeWait = 5 * time.Second
	// sendBuffer is how many events a client may fall behind before it is dropped.
	sendBuffer = 16
)

// Hub pushes catalog events to connected websocket clients so views can
// re-query after an upload.
type Hub struct {
	mu          sync.Mutex
	connections map[*client]struct{}
	logger      hclog.Logger
}

// client is written to only by its own writer goroutine.
type client struct {
	conn *websocket.Conn
	send chan []byte
}

func NewHub(logger hclog.Logger) *Hub {
	return &Hub{
		connections: make(map[*client]struct{}),
		logger:      logger,
	}
}

func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	h.register(c)
	go h.writeLoop(c)

	// Keep connection alive and handle disconnect
	go func() {
		defer h.unregister(c)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.connections[c] = struct{}{}
	h.logger.Debug("websocket connected", "remote", c.conn.RemoteAddr(), "total", len(h.connections))
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.drop(c)
}

// drop must be called with h.mu held. Closing send stops the writer, which
// then closes the connection.
func (h *Hub) drop(c *client) {
	if _, ok := h.connections[c]; !ok {
		return
	}
	delete(h.connections, c)
	close(c.send)
	h.logger.Debug("websocket disconnected", "remote", c.conn.RemoteAddr())
}

func (h *Hub) writeLoop(c *client) {
	defer c.conn.Close()
	for data := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.logger.Debug("websocket write failed", "remote", c.conn.RemoteAddr(), "error", err)
			h.unregister(c)
			return
		}
	}
	c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(writeWait))
}

// Count is the number of connected clients.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.connections)
}

// Notify is a catalog.Observer. It never waits on a client.
func (h *Hub) Notify(e catalog.Event) {
	data, err := json.Marshal(e)
	if err != nil {
		h.logger.Error("encode event", "error", err)
		return
	}
	h.broadcast(data)
}

func (h *Hub) broadcast(data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.connections {
		select {
		case c.send <- data:
		default:
			h.logger.Warn("websocket client too slow, dropping", "remote", c.conn.RemoteAddr())
			h.drop(c)
		}
	}
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.connections {
		h.drop(c)
	}
}
