package events

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/agentstation/edforge/pkg/constants"
	"github.com/agentstation/edforge/pkg/errors"
)

// Errors reported by Notify, wrapped in a *errors.NotificationError.
var (
	ErrBrokerStopped = errors.New("event broker not running")
	ErrQueueFull     = errors.New("event queue full")
)

// Broker queues events and fans them out to subscribers. It implements
// Notifier; Notify fails when the broker is not running or its queue is full.
type Broker struct {
	mu          sync.RWMutex
	subscribers []Subscriber
	events      chan Event
	running     atomic.Bool
	logger      *zerolog.Logger
}

// NewBroker creates a new event broker.
func NewBroker(logger *zerolog.Logger) *Broker {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Broker{
		subscribers: make([]Subscriber, 0),
		events:      make(chan Event, constants.EventQueueSize),
		logger:      logger,
	}
}

// Run distributes queued events until ctx is cancelled, then closes every
// subscriber. Call it in its own goroutine.
func (b *Broker) Run(ctx context.Context) {
	b.running.Store(true)
	defer b.running.Store(false)

	for {
		select {
		case <-ctx.Done():
			b.running.Store(false)
			b.mu.Lock()
			for _, sub := range b.subscribers {
				_ = sub.Close()
			}
			b.subscribers = nil
			b.mu.Unlock()
			b.logger.Info().Msg("Event broker shut down")
			return

		case event := <-b.events:
			b.broadcast(event)
		}
	}
}

func (b *Broker) broadcast(event Event) {
	b.mu.RLock()
	subs := make([]Subscriber, len(b.subscribers))
	copy(subs, b.subscribers)
	b.mu.RUnlock()

	for _, sub := range subs {
		go func(s Subscriber, e Event) {
			if err := s.Send(e); err != nil {
				b.logger.Warn().
					Err(err).
					Str("event_type", e.Type.String()).
					Msg("Failed to send event to subscriber")
			}
		}(sub, event)
	}

	b.logger.Debug().
		Str("event_type", event.Type.String()).
		Str("event_id", event.ID).
		Int("subscribers", len(subs)).
		Msg("Event broadcasted")
}

// Notify queues an event without blocking.
func (b *Broker) Notify(_ context.Context, event Event) error {
	if !b.running.Load() {
		return errors.NewNotificationError(event.Type.String(), ErrBrokerStopped)
	}

	select {
	case b.events <- event:
		return nil
	default:
		b.logger.Warn().
			Str("event_type", event.Type.String()).
			Msg("Event channel full, event dropped")
		return errors.NewNotificationError(event.Type.String(), ErrQueueFull)
	}
}

// Running reports whether Run is active.
func (b *Broker) Running() bool {
	return b.running.Load()
}

// Subscribe registers a subscriber. It may be called before Run.
func (b *Broker) Subscribe(sub Subscriber) {
	b.mu.Lock()
	b.subscribers = append(b.subscribers, sub)
	n := len(b.subscribers)
	b.mu.Unlock()

	b.logger.Debug().Int("total_subscribers", n).Msg("Subscriber registered")
}

// Unsubscribe removes and closes a subscriber.
func (b *Broker) Unsubscribe(sub Subscriber) {
	b.mu.Lock()
	for i, s := range b.subscribers {
		if s == sub {
			b.subscribers = append(b.subscribers[:i], b.subscribers[i+1:]...)
			_ = s.Close()
			break
		}
	}
	n := len(b.subscribers)
	b.mu.Unlock()

	b.logger.Debug().Int("total_subscribers", n).Msg("Subscriber unregistered")
}

// SubscriberCount returns the current number of subscribers.
func (b *Broker) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

var _ Notifier = (*Broker)(nil)
