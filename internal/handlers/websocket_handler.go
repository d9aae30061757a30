package handlers

import (
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/ornithedex/server/internal/middleware"
	"github.com/ornithedex/server/internal/observability"
	"github.com/ornithedex/server/internal/services"
)

// WebSocketHandler upgrades authenticated connections into the event hub
type WebSocketHandler struct {
	hub      *services.EventHub
	upgrader websocket.Upgrader
}

// NewWebSocketHandler creates a new WebSocketHandler
func NewWebSocketHandler(hub *services.EventHub) *WebSocketHandler {
	return &WebSocketHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Session cookie auth already gates this endpoint
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Connect upgrades the request and starts the client pumps
func (h *WebSocketHandler) Connect(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		observability.Warnf("websocket upgrade for %s: %v", user.ID, err)
		return
	}

	client := h.hub.Register(user.ID, conn)
	go client.WritePump()
	go client.ReadPump()
}
