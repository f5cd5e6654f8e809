package adapters

import (
	"github.com/agentstation/edforge/internal/server/sse"
	"github.com/agentstation/edforge/pkg/events"
)

// SSESubscriber adapts the SSE broadcaster to events.Subscriber.
type SSESubscriber struct {
	broadcaster *sse.Broadcaster
}

// NewSSESubscriber creates a new SSE subscriber.
func NewSSESubscriber(broadcaster *sse.Broadcaster) *SSESubscriber {
	return &SSESubscriber{broadcaster: broadcaster}
}

// Send queues an event for all SSE clients.
func (s *SSESubscriber) Send(event events.Event) error {
	s.broadcaster.Broadcast(event)
	return nil
}

// Close is a no-op; the broadcaster shuts down with the server context.
func (s *SSESubscriber) Close() error {
	return nil
}

var _ events.Subscriber = (*SSESubscriber)(nil)
