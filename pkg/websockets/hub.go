package websockets

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/chris/allowance-ledger/pkg/handlers/respond"
	"github.com/chris/allowance-ledger/pkg/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const writeWait = 5 * time.Second

type hubConn struct {
	mu     sync.Mutex
	conn   *websocket.Conn
	userID string
}

func (c *hubConn) write(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

// Hub serves websocket clients directly for the local development server and publishes to them.
type Hub struct {
	Logger   *slog.Logger
	upgrader websocket.Upgrader

	mu    sync.RWMutex
	conns map[string]*hubConn
}

// NewHub creates an empty Hub. It accepts connections from any origin.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		Logger: logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		conns: make(map[string]*hubConn),
	}
}

var _ Publisher = (*Hub)(nil)

// ServeHTTP upgrades the request and keeps the connection registered for the request's user
// until the client leaves. The user comes from middleware.RequireUser.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	if userID == "" {
		respond.Message(w, http.StatusBadRequest, "userId is required", nil)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.Logger.Error("failed to upgrade connection", "error", err)
		return
	}
	defer conn.Close()

	connectionID := uuid.New().String()
	h.add(connectionID, userID, conn)
	h.Logger.Info("client connected locally", "connection_id", connectionID, "user_id", userID)
	defer func() {
		h.remove(connectionID)
		h.Logger.Info("client disconnected locally", "connection_id", connectionID)
	}()

	// Clients never send anything we act on; reading detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.Logger.Error("unexpected close error", "connection_id", connectionID, "error", err)
			}
			return
		}
	}
}

func (h *Hub) add(id, userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[id] = &hubConn{conn: conn, userID: userID}
}

func (h *Hub) remove(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, id)
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// Publish writes message to every client of message.UserID. A client that cannot be written to
// is dropped.
func (h *Hub) Publish(_ context.Context, message Message) error {
	if message.UserID == "" {
		return errNoRecipient
	}
	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	h.mu.RLock()
	targets := make(map[string]*hubConn, len(h.conns))
	for id, c := range h.conns {
		if c.userID == message.UserID {
			targets[id] = c
		}
	}
	h.mu.RUnlock()

	for id, c := range targets {
		if err := c.write(payload); err != nil {
			h.Logger.Info("dropping unreachable connection", "connection_id", id, "error", err)
			h.remove(id)
			c.conn.Close()
		}
	}
	return nil
}
