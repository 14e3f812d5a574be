package stream

import (
	"net/http"
	"sync"
	"time"

	"codeberg.org/mutker/biofeedback/internal/logger"
	"github.com/gorilla/websocket"
)

const writeTimeout = 200 * time.Millisecond

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub fans messages out to every connected websocket client. Clients that
// fail a write are dropped.
type Hub struct {
	mu    sync.Mutex
	conns map[*websocket.Conn]bool
	log   logger.Logger

	// a websocket connection supports one concurrent writer
	writeMu sync.Mutex
}

func NewHub(log logger.Logger) *Hub {
	return &Hub{conns: make(map[*websocket.Conn]bool), log: log}
}

func (h *Hub) add(c *websocket.Conn) {
	h.mu.Lock()
	h.conns[c] = true
	h.mu.Unlock()
}

func (h *Hub) remove(c *websocket.Conn) {
	h.mu.Lock()
	delete(h.conns, c)
	h.mu.Unlock()
}

func (h *Hub) snapshot() []*websocket.Conn {
	h.mu.Lock()
	clients := make([]*websocket.Conn, 0, len(h.conns))
	for c := range h.conns {
		clients = append(clients, c)
	}
	h.mu.Unlock()
	return clients
}

// Len is the number of connected clients.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.conns)
}

// Broadcast sends b as a text message to all clients.
func (h *Hub) Broadcast(b []byte) {
	h.writeMu.Lock()
	defer h.writeMu.Unlock()

	for _, c := range h.snapshot() {
		_ = c.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.WriteMessage(websocket.TextMessage, b); err != nil {
			h.log.Debug().Err(err).Str("remote", c.RemoteAddr().String()).Msg("Dropping websocket client")
			_ = c.Close()
			h.remove(c)
		}
	}
}

// ServeHTTP upgrades the request and holds the connection until the client
// goes away. Incoming messages are discarded.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Debug().Err(err).Msg("Websocket upgrade failed")
		return
	}
	h.add(conn)
	h.log.Debug().Str("remote", conn.RemoteAddr().String()).Msg("Websocket client connected")
	defer func() {
		h.remove(conn)
		conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// Close disconnects all clients.
func (h *Hub) Close() {
	h.writeMu.Lock()
	defer h.writeMu.Unlock()

	for _, c := range h.snapshot() {
		_ = c.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
			time.Now().Add(writeTimeout))
		_ = c.Close()
		h.remove(c)
	}
}
