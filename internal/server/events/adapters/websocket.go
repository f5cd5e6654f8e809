// Package adapters connects the event broker to the realtime transports.
package adapters

import (
	ws "github.com/agentstation/edforge/internal/server/websocket"
	"github.com/agentstation/edforge/pkg/events"
)

// WebSocketSubscriber adapts the WebSocket hub to events.Subscriber.
type WebSocketSubscriber struct {
	hub *ws.Hub
}

// NewWebSocketSubscriber creates a new WebSocket subscriber.
func NewWebSocketSubscriber(hub *ws.Hub) *WebSocketSubscriber {
	return &WebSocketSubscriber{hub: hub}
}

// Send queues an event for all WebSocket clients.
func (w *WebSocketSubscriber) Send(event events.Event) error {
	w.hub.Broadcast(event)
	return nil
}

// Close is a no-op; the hub shuts down with the server context.
func (w *WebSocketSubscriber) Close() error {
	return nil
}

var _ events.Subscriber = (*WebSocketSubscriber)(nil)
