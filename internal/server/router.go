package server

import (
	"net/http"

	"github.com/agentstation/edforge/internal/server/handlers"
	"github.com/agentstation/edforge/internal/server/middleware"
)

// setupRouter creates the HTTP handler with routes and middleware.
func (s *Server) setupRouter() http.Handler {
	mux := http.NewServeMux()

	h := handlers.New(
		s.client,
		s.cache,
		s.wsHub,
		s.sseBroadcaster,
		s.upgrader,
		s.logger,
	)

	s.registerRoutes(mux, h)

	return s.applyMiddleware(mux)
}

// withID adapts a handler taking the {id} path value.
func withID(fn func(http.ResponseWriter, *http.Request, string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fn(w, r, r.PathValue("id"))
	}
}

// registerRoutes registers all HTTP routes.
func (s *Server) registerRoutes(mux *http.ServeMux, h *handlers.Handlers) {
	prefix := s.config.PathPrefix

	handle := func(method, route string, fn http.HandlerFunc) {
		if s.metrics != nil {
			fn = s.metrics.Instrument(route, fn)
		}
		mux.HandleFunc(method+" "+prefix+route, fn)
	}

	mux.HandleFunc("/favicon.ico", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// Health
	mux.HandleFunc("GET /health", h.HandleHealth)
	handle(http.MethodGet, "/health", h.HandleHealth)
	handle(http.MethodGet, "/ready", h.HandleReady)

	// Catalog
	handle(http.MethodGet, "/providers", h.HandleListProviders)
	handle(http.MethodGet, "/items", h.HandleListItems)
	handle(http.MethodGet, "/items/{id}", withID(h.HandleGetItem))
	handle(http.MethodPost, "/catalog/refresh", h.HandleRefreshCatalog)

	// Library
	handle(http.MethodGet, "/library", h.HandleListLibrary)
	handle(http.MethodPost, "/library/{id}", withID(h.HandleSaveItem))
	handle(http.MethodPost, "/library/{id}/launch", withID(h.HandleLaunchItem))
	handle(http.MethodDelete, "/library/{id}", withID(h.HandleRemoveItem))

	// Runtime
	handle(http.MethodGet, "/runtime", h.HandleGetRuntime)
	handle(http.MethodPut, "/runtime", h.HandleUpdateRuntime)

	// Real-time endpoints
	mux.HandleFunc("GET "+prefix+"/updates/ws", h.HandleWebSocket)
	mux.HandleFunc("GET "+prefix+"/updates/stream", h.HandleSSE)

	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}
}

// applyMiddleware wraps handler with middleware chain.
func (s *Server) applyMiddleware(handler http.Handler) http.Handler {
	cfg := s.config
	var chain []func(http.Handler) http.Handler

	// Outermost first. Recovery runs inside Logger so panics are logged
	// with the request id and counted as 500s.
	chain = append(chain, middleware.Logger(s.logger), middleware.Recovery(s.logger))

	if cfg.CORSEnabled {
		corsConfig := middleware.DefaultCORSConfig()
		if len(cfg.CORSOrigins) > 0 {
			corsConfig.AllowedOrigins = cfg.CORSOrigins
		} else {
			corsConfig.AllowAll = true
		}
		chain = append(chain, middleware.CORS(corsConfig))
	}

	if cfg.RateLimit > 0 {
		chain = append(chain, middleware.RateLimit(middleware.NewRateLimiter(cfg.RateLimit, s.logger)))
	}

	return middleware.Chain(chain...)(handler)
}
