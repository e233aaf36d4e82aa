// server/srv/hub.go
package srv

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"costumeshop/server/account"
	"costumeshop/server/metrics"
	"costumeshop/server/shop"
	"costumeshop/shared/protocol"
)

const maxNonces = 1000

type client struct {
	id     string
	conn   *websocket.Conn
	send   chan []byte
	name   string
	player *account.Player
	// selection exists only while the shop view is open
	selection *shop.Selection
	// nonces of completed purchases, oldest first in nonceOrder
	nonces     map[string]struct{}
	nonceOrder []string
}

func newClient(conn *websocket.Conn, name string, p *account.Player) *client {
	return &client{
		id:     uuid.NewString(),
		conn:   conn,
		send:   make(chan []byte, 64),
		name:   name,
		player: p,
		nonces: make(map[string]struct{}),
	}
}

// seenNonce reports whether nonce belongs to an earlier successful purchase.
func (c *client) seenNonce(nonce string) bool {
	if nonce == "" {
		return false
	}
	_, ok := c.nonces[nonce]
	return ok
}

// rememberNonce records a completed purchase's nonce, evicting the oldest
// once maxNonces are held.
func (c *client) rememberNonce(nonce string) {
	if nonce == "" || c.seenNonce(nonce) {
		return
	}
	if len(c.nonceOrder) >= maxNonces {
		delete(c.nonces, c.nonceOrder[0])
		c.nonceOrder = c.nonceOrder[1:]
	}
	c.nonces[nonce] = struct{}{}
	c.nonceOrder = append(c.nonceOrder, nonce)
}

// Hub serves shop sessions over websockets. Each connection is handled by
// its own reader goroutine; player state is guarded by the player's lock.
type Hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}

	accounts *account.Service
	engine   *shop.Engine
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// Option configures a Hub.
type Option func(h *Hub)

// WithLogger sets the logger; slog.Default() is used otherwise.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Hub) {
		h.logger = logger
	}
}

// WithMetrics records activity on m. Without it nothing is recorded.
func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Hub) {
		h.metrics = m
	}
}

func NewHub(accounts *account.Service, engine *shop.Engine, opts ...Option) *Hub {
	h := &Hub{
		clients:  make(map[*client]struct{}),
		accounts: accounts,
		engine:   engine,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Sessions returns the number of connected clients.
func (h *Hub) Sessions() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// HandleWSAuth serves an upgraded connection already authenticated as username.
// It blocks until the connection closes.
func (h *Hub) HandleWSAuth(conn *websocket.Conn, username string) {
	ctx := context.Background()
	p, err := h.accounts.Open(ctx, username)
	if err != nil {
		h.logger.Error("HUB: open player failed", "user", username, "error", err)
		msg := websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "account unavailable")
		_ = conn.WriteMessage(websocket.CloseMessage, msg)
		conn.Close()
		return
	}

	c := newClient(conn, username, p)
	h.register(c)
	go c.writer()

	h.sendProfile(c)
	c.reader(h)
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	h.metrics.SessionOpened()
	h.logger.Info("HUB: session opened", "user", c.name, "session", c.id)
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	h.accounts.Release(c.name)
	h.metrics.SessionClosed()
	h.logger.Info("HUB: session closed", "user", c.name, "session", c.id)
}

func (c *client) reader(h *Hub) {
	defer func() {
		h.unregister(c)
		close(c.send)
		c.conn.Close()
	}()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Warn("HUB: read error", "user", c.name, "error", err)
			}
			return
		}

		var env protocol.MsgEnvelope
		if err := json.Unmarshal(data, &env); err != nil {
			h.logger.Warn("HUB: bad envelope", "user", c.name, "error", err)
			sendJSON(c, "Error", protocol.Error{Code: protocol.CodeBadRequest, Message: "malformed message"})
			continue
		}
		h.logger.Debug("HUB: msg", "user", c.name, "type", env.Type)
		h.dispatch(c, env)
	}
}

func (c *client) writer() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

func sendJSON(c *client, typ string, v interface{}) {
	b, _ := json.Marshal(v)
	env := protocol.MsgEnvelope{Type: typ, Data: b}
	out, _ := json.Marshal(env)
	select {
	case c.send <- out:
	default:
	}
}
