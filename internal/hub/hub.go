// Package hub reparte el trazo a los navegadores conectados por websocket.
package hub

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type client struct {
	id   string
	conn *websocket.Conn
	mu   sync.Mutex // gorilla admite un solo escritor
}

// Hub mantiene los clientes conectados y hace broadcast.
type Hub struct {
	mu           sync.Mutex
	conns        map[*websocket.Conn]*client
	writeTimeout time.Duration
	logger       *zap.Logger

	messages atomic.Int64
	dropped  atomic.Int64
}

func New(writeTimeout time.Duration, logger *zap.Logger) *Hub {
	return &Hub{
		conns:        make(map[*websocket.Conn]*client),
		writeTimeout: writeTimeout,
		logger:       logger,
	}
}

func (h *Hub) add(c *websocket.Conn) *client {
	cl := &client{id: uuid.NewString(), conn: c}
	h.mu.Lock()
	h.conns[c] = cl
	h.mu.Unlock()
	return cl
}

func (h *Hub) remove(c *websocket.Conn) {
	h.mu.Lock()
	delete(h.conns, c)
	h.mu.Unlock()
}

func (h *Hub) snapshot() []*client {
	h.mu.Lock()
	clients := make([]*client, 0, len(h.conns))
	for _, c := range h.conns {
		clients = append(clients, c)
	}
	h.mu.Unlock()
	return clients
}

// Len devuelve la cantidad de clientes conectados.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// Messages cuenta los mensajes recibidos para broadcast.
func (h *Hub) Messages() int64 { return h.messages.Load() }

// Dropped cuenta los clientes descartados por error de escritura.
func (h *Hub) Dropped() int64 { return h.dropped.Load() }

func (h *Hub) BroadcastBinary(b []byte) { h.broadcast(websocket.BinaryMessage, b) }

func (h *Hub) BroadcastText(b []byte) { h.broadcast(websocket.TextMessage, b) }

func (h *Hub) broadcast(kind int, b []byte) {
	h.messages.Add(1)
	for _, c := range h.snapshot() {
		c.mu.Lock()
		_ = c.conn.SetWriteDeadline(time.Now().Add(h.writeTimeout))
		err := c.conn.WriteMessage(kind, b)
		c.mu.Unlock()
		if err != nil {
			h.logger.Debug("dropping client", zap.String("client", c.id), zap.Error(err))
			_ = c.conn.Close()
			h.remove(c.conn)
			h.dropped.Add(1)
		}
	}
}

// ServeHTTP hace upgrade a websocket y mantiene al cliente hasta que cierre.
// Solo se leen mensajes para detectar el cierre.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	cl := h.add(conn)
	h.logger.Info("client connected", zap.String("client", cl.id), zap.String("remote", r.RemoteAddr))
	defer func() {
		h.remove(conn)
		conn.Close()
		h.logger.Info("client disconnected", zap.String("client", cl.id))
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// Close cierra todas las conexiones.
func (h *Hub) Close() {
	for _, c := range h.snapshot() {
		c.mu.Lock()
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutdown"),
			time.Now().Add(h.writeTimeout))
		c.mu.Unlock()
		_ = c.conn.Close()
		h.remove(c.conn)
	}
}
