package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/edforge/pkg/errors"
)

// mockSubscriber records delivered events.
type mockSubscriber struct {
	mu     sync.Mutex
	events []Event
	closed bool
}

func (m *mockSubscriber) Send(event Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *mockSubscriber) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockSubscriber) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.events)
}

func (m *mockSubscriber) isClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

func startBroker(t *testing.T) (*Broker, context.CancelFunc) {
	t.Helper()
	logger := zerolog.Nop()
	b := NewBroker(&logger)
	ctx, cancel := context.WithCancel(context.Background())
	go b.Run(ctx)
	require.Eventually(t, b.Running, time.Second, 5*time.Millisecond)
	return b, cancel
}

func TestBrokerFanOut(t *testing.T) {
	b, cancel := startBroker(t)
	defer cancel()

	s1, s2 := &mockSubscriber{}, &mockSubscriber{}
	b.Subscribe(s1)
	b.Subscribe(s2)
	assert.Equal(t, 2, b.SubscriberCount())

	require.NoError(t, b.Notify(context.Background(), New(LibraryUpdated, nil, time.Now())))

	assert.Eventually(t, func() bool { return s1.count() == 1 && s2.count() == 1 }, time.Second, 5*time.Millisecond)
}

func TestBrokerNotifyWhenStopped(t *testing.T) {
	b := NewBroker(nil)

	err := b.Notify(context.Background(), New(CatalogRefreshed, nil, time.Now()))
	require.Error(t, err)
	assert.True(t, errors.IsNotificationFailure(err))
	assert.ErrorIs(t, err, ErrBrokerStopped)
}

func TestBrokerShutdownClosesSubscribers(t *testing.T) {
	b, cancel := startBroker(t)
	sub := &mockSubscriber{}
	b.Subscribe(sub)

	cancel()
	assert.Eventually(t, func() bool { return !b.Running() && sub.isClosed() }, time.Second, 5*time.Millisecond)

	err := b.Notify(context.Background(), New(LibraryUpdated, nil, time.Now()))
	assert.ErrorIs(t, err, ErrBrokerStopped)
}

func TestBrokerUnsubscribe(t *testing.T) {
	b := NewBroker(nil)
	sub := &mockSubscriber{}
	b.Subscribe(sub)
	b.Unsubscribe(sub)

	assert.Equal(t, 0, b.SubscriberCount())
	assert.True(t, sub.isClosed())
}

func TestBrokerQueueFull(t *testing.T) {
	b := NewBroker(nil)
	// Mark running without draining the queue.
	b.running.Store(true)

	ev := New(LibraryUpdated, nil, time.Now())
	for i := 0; i < cap(b.events); i++ {
		require.NoError(t, b.Notify(context.Background(), ev))
	}

	err := b.Notify(context.Background(), ev)
	assert.ErrorIs(t, err, ErrQueueFull)
	assert.True(t, errors.IsNotificationFailure(err))
}

func TestNewIDsAreOrdered(t *testing.T) {
	at := time.Now()
	a, b := NewID(at), NewID(at)
	assert.Len(t, a, 26)
	assert.Less(t, a, b)
}

func TestNotifierFunc(t *testing.T) {
	var got Event
	n := NotifierFunc(func(_ context.Context, e Event) error {
		got = e
		return nil
	})
	require.NoError(t, n.Notify(context.Background(), New(ClientConnected, "x", time.Now())))
	assert.Equal(t, ClientConnected, got.Type)
	assert.NoError(t, Nop.Notify(context.Background(), got))
}
