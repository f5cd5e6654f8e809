package websocket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/edforge/pkg/events"
)

func newHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()
	logger := zerolog.Nop()
	hub := NewHub(&logger)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)
	return hub, cancel
}

func TestHub_Broadcast(t *testing.T) {
	hub, _ := newHub(t)

	a := NewClient("a", hub, nil)
	b := NewClient("b", hub, nil)
	hub.Register(a)
	hub.Register(b)
	require.Equal(t, 2, hub.ClientCount())

	hub.Broadcast(events.New(events.CatalogRefreshed, map[string]int{"items": 6}, time.Now()))

	for _, c := range []*Client{a, b} {
		select {
		case got := <-c.send:
			assert.Equal(t, events.CatalogRefreshed, got.Type)
		case <-time.After(time.Second):
			t.Fatalf("client %s did not receive event", c.ID())
		}
	}
}

func TestHub_ClientSendIsPrivate(t *testing.T) {
	hub, _ := newHub(t)
	a := NewClient("a", hub, nil)
	b := NewClient("b", hub, nil)
	hub.Register(a)
	hub.Register(b)

	require.True(t, a.Send(events.New(events.ClientConnected, nil, time.Now())))
	assert.Len(t, a.send, 1)
	assert.Empty(t, b.send)

	hub.Unregister(a)
	assert.False(t, a.Send(events.Event{}))
}

func TestHub_SlowClientDisconnected(t *testing.T) {
	hub, _ := newHub(t)
	slow := NewClient("slow", hub, nil)
	hub.Register(slow)

	for len(slow.send) < cap(slow.send) {
		slow.send <- events.Event{}
	}

	hub.Broadcast(events.New(events.LibraryUpdated, nil, time.Now()))
	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 10*time.Millisecond)
}

func TestHub_ShutdownClosesClients(t *testing.T) {
	hub, stop := newHub(t)

	var mu sync.Mutex
	var last = -1
	hub.OnClientsChanged(func(n int) {
		mu.Lock()
		last = n
		mu.Unlock()
	})

	c := NewClient("c", hub, nil)
	hub.Register(c)
	stop()

	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 10*time.Millisecond)
	_, open := <-c.send
	assert.False(t, open)
	assert.NotPanics(t, func() { hub.Unregister(c) })

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return last == 0
	}, time.Second, 10*time.Millisecond)
}

func TestHub_Pumps(t *testing.T) {
	hub, _ := newHub(t)
	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := NewClient("pump", hub, conn)
		hub.Register(client)
		go client.WritePump()
		go client.ReadPump()
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)
	hub.Broadcast(events.New(events.LibraryUpdated, map[string]string{"itemId": "x"}, time.Now()))

	var got events.Event
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, events.LibraryUpdated, got.Type)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}
