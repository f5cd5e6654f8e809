// Package server provides the HTTP server for the edforge API.
package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/agentstation/edforge"
	"github.com/agentstation/edforge/cmd/application"
	"github.com/agentstation/edforge/internal/server/cache"
	"github.com/agentstation/edforge/internal/server/events/adapters"
	"github.com/agentstation/edforge/internal/server/metrics"
	"github.com/agentstation/edforge/internal/server/sse"
	ws "github.com/agentstation/edforge/internal/server/websocket"
	"github.com/agentstation/edforge/pkg/events"
)

// Server holds the HTTP server state and dependencies.
type Server struct {
	app            application.Application
	client         edforge.Client
	cache          *cache.Cache
	broker         *events.Broker
	wsHub          *ws.Hub
	sseBroadcaster *sse.Broadcaster
	metrics        *metrics.Metrics
	upgrader       websocket.Upgrader
	logger         *zerolog.Logger
	config         Config
	ctx            context.Context
	cancel         context.CancelFunc
	wg             sync.WaitGroup
	startTime      time.Time
}

// New creates a new server instance with the given configuration.
func New(app application.Application, cfg Config) (*Server, error) {
	logger := app.Logger()

	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if cfg.PathPrefix == "" {
		cfg.PathPrefix = DefaultConfig().PathPrefix
	}

	client, err := app.Client()
	if err != nil {
		return nil, err
	}

	broker := app.Broker()
	wsHub := ws.NewHub(logger)
	sseBroadcaster := sse.NewBroadcaster(logger)

	// Subscribing before Run is safe; the broker registers under its mutex.
	broker.Subscribe(adapters.NewWebSocketSubscriber(wsHub))
	broker.Subscribe(adapters.NewSSESubscriber(sseBroadcaster))
	logger.Debug().Int("subscribers", broker.SubscriberCount()).Msg("Realtime transports subscribed")

	ctx, cancel := context.WithCancel(context.Background())

	s := &Server{
		app:            app,
		client:         client,
		cache:          cache.New(cfg.CacheTTL, cfg.CacheTTL*2),
		broker:         broker,
		wsHub:          wsHub,
		sseBroadcaster: sseBroadcaster,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(_ *http.Request) bool {
				return true // The desktop UI connects from a custom scheme
			},
		},
		logger:    logger,
		config:    cfg,
		ctx:       ctx,
		cancel:    cancel,
		startTime: time.Now(),
	}

	if cfg.MetricsEnabled {
		s.metrics = metrics.New()
		wsHub.OnClientsChanged(func(n int) { s.metrics.ObserveClients("websocket", n) })
		sseBroadcaster.OnClientsChanged(func(n int) { s.metrics.ObserveClients("sse", n) })
		s.observeState(ctx)
	}

	s.connectHooks()
	return s, nil
}

// connectHooks keeps the response cache and metrics in step with committed
// state changes. Events reach the transports through the broker, which the
// client notifies directly.
func (s *Server) connectHooks() {
	s.client.OnCatalogRefreshed(func(result edforge.RefreshResult) {
		dropped := s.cache.InvalidateCatalog()
		if s.metrics != nil {
			s.metrics.CatalogRefreshed(result.Items)
		}
		s.logger.Debug().
			Int("items", result.Items).
			Int("cache_dropped", dropped).
			Msg("Catalog refreshed")
	})

	s.client.OnLibraryUpdated(func(change edforge.LibraryChange) {
		dropped := s.cache.InvalidateLibrary()
		if s.metrics != nil {
			s.metrics.LibraryChanged(string(change.Action))
			s.observeLibrary(s.ctx)
		}
		s.logger.Debug().
			Str("action", string(change.Action)).
			Str("item_id", change.ItemID).
			Int("cache_dropped", dropped).
			Msg("Library updated")
	})
}

func (s *Server) observeState(ctx context.Context) {
	if snap, err := s.client.Snapshot(ctx); err == nil {
		s.metrics.ObserveCatalog(snap.Len(), snap.Version)
	}
	s.observeLibrary(ctx)
}

func (s *Server) observeLibrary(ctx context.Context) {
	overview, err := s.client.RuntimeOverview(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Library metrics not updated")
		return
	}
	s.metrics.ObserveLibrary(overview.LibraryCount, overview.RunningCount)
}

// Start starts background services (broker, WebSocket hub, SSE broadcaster,
// and the periodic catalog refresh when enabled).
func (s *Server) Start() {
	s.goRun(func() { s.broker.Run(s.ctx) })
	s.goRun(func() { s.wsHub.Run(s.ctx) })
	s.goRun(func() { s.sseBroadcaster.Run(s.ctx) })

	if s.config.AutoRefresh {
		s.goRun(func() { s.autoRefresh(s.ctx) })
	}

	s.logger.Debug().Bool("auto_refresh", s.config.AutoRefresh).Msg("Background services started")
}

func (s *Server) goRun(fn func()) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		fn()
	}()
}

// Handler returns the configured http.Handler with middleware chain applied.
func (s *Server) Handler() http.Handler {
	return s.setupRouter()
}

// Shutdown stops background services and waits for them until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("Shutting down server background services")
	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info().Msg("Background services shut down successfully")
		return nil
	case <-ctx.Done():
		s.logger.Warn().Msg("Background services shutdown timed out")
		return ctx.Err()
	}
}

// Cache returns the server's cache instance.
func (s *Server) Cache() *cache.Cache {
	return s.cache
}

// Broker returns the event broker.
func (s *Server) Broker() *events.Broker {
	return s.broker
}

// Metrics returns the metrics, or nil when disabled.
func (s *Server) Metrics() *metrics.Metrics {
	return s.metrics
}

// StartTime returns the server start time for uptime calculations.
func (s *Server) StartTime() time.Time {
	return s.startTime
}
