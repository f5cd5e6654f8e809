package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/edforge"
	"github.com/agentstation/edforge/internal/server/cache"
	"github.com/agentstation/edforge/internal/server/sse"
	ws "github.com/agentstation/edforge/internal/server/websocket"
	"github.com/agentstation/edforge/pkg/catalogs"
	pkgerrors "github.com/agentstation/edforge/pkg/errors"
	"github.com/agentstation/edforge/pkg/library"
	"github.com/agentstation/edforge/pkg/runtimeconfig"
)

// failingClient answers every call with a fixed error. Unused methods fall
// through to the nil embedded interface and panic.
type failingClient struct {
	edforge.Client
	err   error
	calls int
}

func (c *failingClient) ListItems(context.Context, string, string) ([]catalogs.Item, error) {
	c.calls++
	return nil, c.err
}

func (c *failingClient) RefreshCatalog(context.Context) (edforge.RefreshResult, error) {
	c.calls++
	return edforge.RefreshResult{}, c.err
}

func (c *failingClient) Snapshot(context.Context) (catalogs.Snapshot, error) {
	c.calls++
	return catalogs.Snapshot{}, c.err
}

func (c *failingClient) UpdateRuntimeConfig(context.Context, runtimeconfig.Update) (runtimeconfig.Overview, error) {
	c.calls++
	return runtimeconfig.Overview{}, c.err
}

// racingClient commits a save and invalidates the library cell while a
// library read is in flight, the way the server's library hook does.
type racingClient struct {
	edforge.Client
	cache *cache.Cache
	raced bool
}

func (c *racingClient) ListLibrary(ctx context.Context) ([]library.Entry, error) {
	entries, err := c.Client.ListLibrary(ctx)
	if !c.raced {
		c.raced = true
		if _, saveErr := c.Client.SaveItem(ctx, "tftmeta-comp-scout"); saveErr != nil {
			return nil, saveErr
		}
		c.cache.InvalidateLibrary()
	}
	return entries, err
}

func newHandlers(client edforge.Client) *Handlers {
	logger := zerolog.Nop()
	return New(
		client,
		cache.New(time.Minute, time.Minute),
		ws.NewHub(&logger),
		sse.NewBroadcaster(&logger),
		websocket.Upgrader{},
		&logger,
	)
}

func TestHandlers_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		handler func(*Handlers) http.HandlerFunc
		status  int
	}{
		{
			name:    "poisoned catalog",
			err:     pkgerrors.NewLockError("store catalog", errors.New("panic")),
			handler: func(h *Handlers) http.HandlerFunc { return h.HandleListItems },
			status:  http.StatusServiceUnavailable,
		},
		{
			name:    "provider down on refresh",
			err:     pkgerrors.WrapResource("build", "catalog", "", pkgerrors.NewSyncError("tftmeta", errors.New("timeout"))),
			handler: func(h *Handlers) http.HandlerFunc { return h.HandleRefreshCatalog },
			status:  http.StatusBadGateway,
		},
		{
			name:    "not ready",
			err:     pkgerrors.NewLockError("store catalog", nil),
			handler: func(h *Handlers) http.HandlerFunc { return h.HandleReady },
			status:  http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHandlers(&failingClient{err: tt.err})
			w := httptest.NewRecorder()
			tt.handler(h)(w, httptest.NewRequest(http.MethodGet, "/", nil))
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestHandlers_FailuresAreNotCached(t *testing.T) {
	client := &failingClient{err: pkgerrors.NewLockError("store catalog", nil)}
	h := newHandlers(client)

	for range 2 {
		h.HandleListItems(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items?q=x", nil))
	}
	assert.Equal(t, 2, client.calls)
	assert.Equal(t, 0, h.cache.ItemCount())
}

func TestHandleListLibrary_StaleReadIsNotCached(t *testing.T) {
	logger := zerolog.Nop()
	inner, err := edforge.New(edforge.WithLogger(&logger))
	require.NoError(t, err)

	client := &racingClient{Client: inner}
	h := newHandlers(client)
	client.cache = h.cache

	count := func() int {
		w := httptest.NewRecorder()
		h.HandleListLibrary(w, httptest.NewRequest(http.MethodGet, "/library", nil))
		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Data struct {
				Count int `json:"count"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		return body.Data.Count
	}

	assert.Equal(t, 0, count())
	assert.Equal(t, 0, h.cache.ItemCount())
	assert.Equal(t, 1, count())
}

func TestHandleListItems_MatchesProviderName(t *testing.T) {
	logger := zerolog.Nop()
	client, err := edforge.New(edforge.WithLogger(&logger))
	require.NoError(t, err)
	h := newHandlers(client)

	w := httptest.NewRecorder()
	h.HandleListItems(w, httptest.NewRequest(http.MethodGet, "/items?q=PORO", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data struct {
			Items []catalogs.Item `json:"items"`
			Count int             `json:"count"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 3, body.Data.Count)
	for _, item := range body.Data.Items {
		assert.Equal(t, "Porofessor", item.ProviderName)
	}
}

func TestHandleUpdateRuntime_BodyLimit(t *testing.T) {
	client := &failingClient{}
	h := newHandlers(client)

	body := `{"lowResourceMode":true,"ingestionEnabled":true,"syncIntervalSec":` + strings.Repeat("1", 2<<20) + `}`
	w := httptest.NewRecorder()
	h.HandleUpdateRuntime(w, httptest.NewRequest(http.MethodPut, "/runtime", strings.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, client.calls)
}

func TestRuntimePayload(t *testing.T) {
	yes, n := true, 42
	update, err := runtimePayload{LowResourceMode: &yes, IngestionEnabled: &yes, SyncIntervalSec: &n}.update()
	require.NoError(t, err)
	assert.Equal(t, runtimeconfig.Update{LowResourceMode: true, IngestionEnabled: true, SyncIntervalSec: 42}, update)

	_, err = runtimePayload{LowResourceMode: &yes, SyncIntervalSec: &n}.update()
	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidationError(err))
	assert.Contains(t, err.Error(), "ingestionEnabled")
}
