// Package sse provides Server-Sent Events support for real-time updates.
package sse

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/edforge/pkg/constants"
	"github.com/agentstation/edforge/pkg/events"
)

// Broadcaster manages Server-Sent Events connections.
type Broadcaster struct {
	mu       sync.RWMutex
	clients  map[chan events.Event]string
	events   chan events.Event
	logger   *zerolog.Logger
	onChange func(int)
	now      func() time.Time
}

// NewBroadcaster creates a new SSE broadcaster.
func NewBroadcaster(logger *zerolog.Logger) *Broadcaster {
	return &Broadcaster{
		clients: make(map[chan events.Event]string),
		events:  make(chan events.Event, constants.EventQueueSize),
		logger:  logger,
		now:     time.Now,
	}
}

// OnClientsChanged registers a callback receiving the client count after
// every connect and disconnect. Call it before serving.
func (b *Broadcaster) OnClientsChanged(fn func(int)) {
	b.onChange = fn
}

// Run fans out broadcast events until ctx is cancelled, then closes every
// client stream. Should be called in a goroutine.
func (b *Broadcaster) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			b.mu.Lock()
			for client := range b.clients {
				close(client)
				delete(b.clients, client)
			}
			b.mu.Unlock()
			b.changed(0)
			b.logger.Info().Msg("SSE broadcaster shut down")
			return

		case event := <-b.events:
			b.mu.RLock()
			for client, id := range b.clients {
				select {
				case client <- event:
				default:
					b.logger.Warn().Str("client_id", id).Msg("SSE client buffer full, event skipped")
				}
			}
			b.mu.RUnlock()
		}
	}
}

// Broadcast queues an event for all connected SSE clients.
func (b *Broadcaster) Broadcast(event events.Event) {
	select {
	case b.events <- event:
	default:
		b.logger.Warn().Str("event_type", event.Type.String()).Msg("SSE broadcast channel full, event dropped")
	}
}

// ClientCount returns the number of connected SSE clients.
func (b *Broadcaster) ClientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}

func (b *Broadcaster) register(id string) chan events.Event {
	client := make(chan events.Event, constants.SubscriberBufferSize)
	b.mu.Lock()
	b.clients[client] = id
	n := len(b.clients)
	b.mu.Unlock()

	b.logger.Info().Str("client_id", id).Int("total_clients", n).Msg("SSE client connected")
	b.changed(n)
	return client
}

func (b *Broadcaster) unregister(client chan events.Event) {
	b.mu.Lock()
	id, ok := b.clients[client]
	if ok {
		delete(b.clients, client)
		close(client)
	}
	n := len(b.clients)
	b.mu.Unlock()

	if ok {
		b.logger.Info().Str("client_id", id).Int("total_clients", n).Msg("SSE client disconnected")
		b.changed(n)
	}
}

func (b *Broadcaster) changed(n int) {
	if b.onChange != nil {
		b.onChange(n)
	}
}

// ServeHTTP streams events to one client until it disconnects or the
// broadcaster shuts down.
func (b *Broadcaster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	now := b.now()
	id := events.NewID(now)
	client := b.register(id)
	defer b.unregister(client)

	b.writeEvent(w, flusher, events.New(events.ClientConnected, map[string]any{
		"clientId":  id,
		"transport": "sse",
	}, now))

	for {
		select {
		case event, open := <-client:
			if !open {
				return
			}
			b.writeEvent(w, flusher, event)

		case <-r.Context().Done():
			return
		}
	}
}

// writeEvent writes one event in the text/event-stream framing. The data
// line carries the whole event as JSON.
func (b *Broadcaster) writeEvent(w http.ResponseWriter, flusher http.Flusher, event events.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		b.logger.Error().Err(err).Str("event_type", event.Type.String()).Msg("Failed to marshal SSE event")
		return
	}

	_, _ = fmt.Fprintf(w, "event: %s\nid: %s\ndata: %s\n\n", event.Type, event.ID, data)
	flusher.Flush()
}
