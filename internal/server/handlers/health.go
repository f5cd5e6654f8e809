package handlers

import (
	"net/http"

	"github.com/agentstation/edforge/internal/server/response"
)

// HandleHealth handles GET /api/v1/health.
// @Summary Health check
// @Description Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} response.Response{data=object}
// @Router /api/v1/health [get].
func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, map[string]any{
		"status":  "healthy",
		"service": "edforge-api",
		"version": "v1",
	})
}

// HandleReady handles GET /api/v1/ready. The server is ready while the
// catalog snapshot can be read.
// @Summary Readiness check
// @Tags health
// @Produce json
// @Success 200 {object} response.Response{data=object}
// @Failure 503 {object} response.Response{error=response.Error}
// @Router /api/v1/ready [get].
func (h *Handlers) HandleReady(w http.ResponseWriter, r *http.Request) {
	snap, err := h.client.Snapshot(r.Context())
	if err != nil {
		response.ServiceUnavailable(w, "Catalog not available")
		return
	}

	response.OK(w, map[string]any{
		"status": "ready",
		"catalog": map[string]any{
			"version": snap.Version,
			"items":   snap.Len(),
			"builtAt": snap.BuiltAt,
		},
		"cache":            h.cache.GetStats(),
		"websocketClients": h.wsHub.ClientCount(),
		"sseClients":       h.sseBroadcaster.ClientCount(),
	})
}
