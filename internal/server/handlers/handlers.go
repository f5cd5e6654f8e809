// Package handlers provides HTTP request handlers for the edforge API.
package handlers

import (
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/agentstation/edforge"
	"github.com/agentstation/edforge/internal/server/cache"
	"github.com/agentstation/edforge/internal/server/sse"
	ws "github.com/agentstation/edforge/internal/server/websocket"
)

// Handlers provides access to all HTTP handlers.
type Handlers struct {
	client         edforge.Client
	cache          *cache.Cache
	wsHub          *ws.Hub
	sseBroadcaster *sse.Broadcaster
	upgrader       websocket.Upgrader
	logger         *zerolog.Logger
	now            func() time.Time
}

// New creates a new Handlers instance.
func New(
	client edforge.Client,
	cache *cache.Cache,
	wsHub *ws.Hub,
	sseBroadcaster *sse.Broadcaster,
	upgrader websocket.Upgrader,
	logger *zerolog.Logger,
) *Handlers {
	return &Handlers{
		client:         client,
		cache:          cache,
		wsHub:          wsHub,
		sseBroadcaster: sseBroadcaster,
		upgrader:       upgrader,
		logger:         logger,
		now:            time.Now,
	}
}
