package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/agentstation/edforge/internal/server/cache"
	"github.com/agentstation/edforge/internal/server/response"
	"github.com/agentstation/edforge/pkg/constants"
	"github.com/agentstation/edforge/pkg/errors"
	"github.com/agentstation/edforge/pkg/runtimeconfig"
)

// runtimePayload is the body of PUT /runtime. Every field is required.
type runtimePayload struct {
	LowResourceMode  *bool `json:"lowResourceMode"`
	IngestionEnabled *bool `json:"ingestionEnabled"`
	SyncIntervalSec  *int  `json:"syncIntervalSec"`
}

func (p runtimePayload) update() (runtimeconfig.Update, error) {
	switch {
	case p.LowResourceMode == nil:
		return runtimeconfig.Update{}, errors.NewValidationError("lowResourceMode", nil, "is required")
	case p.IngestionEnabled == nil:
		return runtimeconfig.Update{}, errors.NewValidationError("ingestionEnabled", nil, "is required")
	case p.SyncIntervalSec == nil:
		return runtimeconfig.Update{}, errors.NewValidationError("syncIntervalSec", nil, "is required")
	}
	return runtimeconfig.Update{
		LowResourceMode:  *p.LowResourceMode,
		IngestionEnabled: *p.IngestionEnabled,
		SyncIntervalSec:  *p.SyncIntervalSec,
	}, nil
}

// HandleGetRuntime handles GET /api/v1/runtime.
// @Summary Runtime overview
// @Description Runtime configuration joined with library and running counts
// @Tags runtime
// @Produce json
// @Success 200 {object} response.Response{data=runtimeconfig.Overview}
// @Router /api/v1/runtime [get].
func (h *Handlers) HandleGetRuntime(w http.ResponseWriter, r *http.Request) {
	if cached, found := h.cache.Get(cache.RuntimeKey()); found {
		response.OK(w, cached)
		return
	}

	gen := h.cache.Generation(cache.RuntimeKey())
	overview, err := h.client.RuntimeOverview(r.Context())
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	h.cache.SetIfCurrent(cache.RuntimeKey(), overview, gen)
	response.OK(w, overview)
}

// HandleUpdateRuntime handles PUT /api/v1/runtime. The sync interval is
// clamped into range rather than rejected.
// @Summary Update runtime configuration
// @Tags runtime
// @Accept json
// @Produce json
// @Success 200 {object} response.Response{data=runtimeconfig.Overview}
// @Failure 400 {object} response.Response{error=response.Error}
// @Router /api/v1/runtime [put].
func (h *Handlers) HandleUpdateRuntime(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, constants.MaxRequestBodyBytes)

	var payload runtimePayload
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&payload); err != nil {
		response.ErrorFromType(w, errors.WrapValidation("body", err))
		return
	}

	update, err := payload.update()
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	overview, err := h.client.UpdateRuntimeConfig(r.Context(), update)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	h.cache.InvalidateRuntime()
	response.OK(w, overview)
}
