package handlers

import (
	"net/http"

	ws "github.com/agentstation/edforge/internal/server/websocket"
	"github.com/agentstation/edforge/pkg/events"
)

// HandleWebSocket handles WebSocket connections at /api/v1/updates/ws.
// The new client first receives a client-connected event.
// @Summary WebSocket updates
// @Tags updates
// @Success 101 "Switching Protocols"
// @Router /api/v1/updates/ws [get].
func (h *Handlers) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	now := h.now()
	client := ws.NewClient(events.NewID(now), h.wsHub, conn)
	h.wsHub.Register(client)
	client.Send(events.New(events.ClientConnected, map[string]any{
		"clientId":  client.ID(),
		"transport": "websocket",
	}, now))

	go client.WritePump()
	go client.ReadPump()
}

// HandleSSE handles Server-Sent Events at /api/v1/updates/stream.
// @Summary SSE updates stream
// @Tags updates
// @Produce text/event-stream
// @Success 200 "Event stream"
// @Router /api/v1/updates/stream [get].
func (h *Handlers) HandleSSE(w http.ResponseWriter, r *http.Request) {
	h.sseBroadcaster.ServeHTTP(w, r)
}
