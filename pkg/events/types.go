// Package events carries state-change notifications from the edforge client
// to the UI layer.
//
// The client reports mutations through a Notifier. The Broker is the
// Notifier used by the server: it queues events and fans them out to
// transport subscribers (WebSocket, SSE) from its own goroutine.
package events

import (
	"time"

	"github.com/agentstation/utc"
)

// EventType names a kind of state change.
type EventType string

// String returns the string representation of an EventType.
func (t EventType) String() string {
	return string(t)
}

// Event types.
const (
	// CatalogRefreshed fires after a rebuilt catalog snapshot is swapped in.
	CatalogRefreshed EventType = "catalog-refreshed"

	// LibraryUpdated fires after a save that created, a launch, or a removal.
	LibraryUpdated EventType = "library-updated"

	// ClientConnected is sent to a transport client when it attaches.
	ClientConnected EventType = "client-connected"
)

// Event is a single notification.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp utc.Time  `json:"timestamp"`
	Data      any       `json:"data,omitempty"`
}

// New creates an event stamped with a fresh id and the given time.
func New(eventType EventType, data any, at time.Time) Event {
	return Event{
		ID:        NewID(at),
		Type:      eventType,
		Timestamp: utc.New(at),
		Data:      data,
	}
}
