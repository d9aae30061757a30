package services

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ornithedex/server/internal/observability"
)

// Event types pushed to connected clients
const (
	EventDiscoveriesUpdated = "discoveries_updated"
)

// EventMessage is one server-to-client push message
type EventMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// EventClient is one connected browser tab
type EventClient struct {
	UserID string
	Conn   *websocket.Conn
	Send   chan []byte

	hub        *EventHub
	closedOnce sync.Once
}

// EventHub pushes live-update events to a user's open connections so
// other tabs refresh after a sync. Delivery is best-effort.
type EventHub struct {
	mu        sync.RWMutex
	userConns map[string]map[*EventClient]bool
}

// NewEventHub creates a new EventHub
func NewEventHub() *EventHub {
	return &EventHub{
		userConns: make(map[string]map[*EventClient]bool),
	}
}

// Register attaches an authenticated connection for a user
func (h *EventHub) Register(userID string, conn *websocket.Conn) *EventClient {
	client := &EventClient{
		UserID: userID,
		Conn:   conn,
		Send:   make(chan []byte, 16),
		hub:    h,
	}

	h.mu.Lock()
	if h.userConns[userID] == nil {
		h.userConns[userID] = make(map[*EventClient]bool)
	}
	h.userConns[userID][client] = true
	h.mu.Unlock()

	return client
}

func (h *EventHub) unregister(client *EventClient) {
	h.mu.Lock()
	if clients, ok := h.userConns[client.UserID]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.userConns, client.UserID)
		}
	}
	h.mu.Unlock()
}

// SendToUser pushes a message to every open connection of a user.
// Slow clients are dropped rather than blocked on.
func (h *EventHub) SendToUser(userID string, msg EventMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		observability.Warnf("marshal event message: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.userConns[userID] {
		select {
		case client.Send <- data:
		default:
			go client.Close()
		}
	}
}

// ConnectionCount returns the number of open connections for a user
func (h *EventHub) ConnectionCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.userConns[userID])
}

// Close tears down every open connection
func (h *EventHub) Close() {
	h.mu.Lock()
	clients := make([]*EventClient, 0)
	for _, conns := range h.userConns {
		for client := range conns {
			clients = append(clients, client)
		}
	}
	h.mu.Unlock()

	for _, client := range clients {
		client.Close()
	}
}

// Close unregisters the client and closes its connection
func (c *EventClient) Close() {
	c.closedOnce.Do(func() {
		c.hub.unregister(c)
		c.Conn.Close()
	})
}

// WritePump pumps hub messages to the websocket connection, pinging to
// keep it alive
func (c *EventClient) WritePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ReadPump drains client messages (only pongs are expected) and tears
// the connection down on error
func (c *EventClient) ReadPump() {
	defer c.Close()

	c.Conn.SetReadLimit(4 * 1024)
	c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				observability.Debugf("websocket closed: %v", err)
			}
			return
		}
	}
}
