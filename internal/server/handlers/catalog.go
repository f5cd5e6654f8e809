package handlers

import (
	"net/http"

	"github.com/agentstation/edforge/internal/server/cache"
	"github.com/agentstation/edforge/internal/server/response"
	"github.com/agentstation/edforge/pkg/catalogs"
	"github.com/agentstation/edforge/pkg/errors"
	"github.com/agentstation/edforge/pkg/logging"
)

// ProviderList is the body of GET /providers.
type ProviderList struct {
	Providers []catalogs.Provider `json:"providers"`
	Count     int                 `json:"count"`
}

// ItemList is the body of GET /items.
type ItemList struct {
	Items []catalogs.Item `json:"items"`
	Count int             `json:"count"`
}

// HandleListProviders handles GET /api/v1/providers.
// @Summary List providers
// @Tags catalog
// @Produce json
// @Success 200 {object} response.Response{data=ProviderList}
// @Router /api/v1/providers [get].
func (h *Handlers) HandleListProviders(w http.ResponseWriter, r *http.Request) {
	if cached, found := h.cache.Get(cache.ProvidersKey()); found {
		response.OK(w, cached)
		return
	}

	gen := h.cache.Generation(cache.ProvidersKey())
	providers := h.client.ListProviders(r.Context())
	result := ProviderList{Providers: providers, Count: len(providers)}

	h.cache.SetIfCurrent(cache.ProvidersKey(), result, gen)
	response.OK(w, result)
}

// HandleListItems handles GET /api/v1/items?q=&provider=.
// @Summary Search catalog items
// @Description Case-insensitive substring search over name, category and provider name, best rated first
// @Tags catalog
// @Produce json
// @Param q query string false "Search text"
// @Param provider query string false "Provider id"
// @Success 200 {object} response.Response{data=ItemList}
// @Failure 503 {object} response.Response{error=response.Error}
// @Router /api/v1/items [get].
func (h *Handlers) HandleListItems(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	provider := r.URL.Query().Get("provider")

	key := cache.ItemsKey(query, provider)
	if cached, found := h.cache.Get(key); found {
		response.OK(w, cached)
		return
	}

	gen := h.cache.Generation(key)
	items, err := h.client.ListItems(r.Context(), query, provider)
	if err != nil {
		logging.FromContext(r.Context()).Error().Err(err).Msg("List items failed")
		response.ErrorFromType(w, err)
		return
	}

	result := ItemList{Items: items, Count: len(items)}
	h.cache.SetIfCurrent(key, result, gen)
	response.OK(w, result)
}

// HandleGetItem handles GET /api/v1/items/{id}.
// @Summary Get catalog item
// @Tags catalog
// @Produce json
// @Param id path string true "Item id"
// @Success 200 {object} response.Response{data=catalogs.Item}
// @Failure 404 {object} response.Response{error=response.Error}
// @Router /api/v1/items/{id} [get].
func (h *Handlers) HandleGetItem(w http.ResponseWriter, r *http.Request, id string) {
	key := cache.ItemKey(id)
	if cached, found := h.cache.Get(key); found {
		response.OK(w, cached)
		return
	}

	gen := h.cache.Generation(key)
	item, err := h.client.GetItem(r.Context(), id)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	if item == nil {
		response.ErrorFromType(w, errors.NewNotFoundError("item", id))
		return
	}

	h.cache.SetIfCurrent(key, item, gen)
	response.OK(w, item)
}

// HandleRefreshCatalog handles POST /api/v1/catalog/refresh.
// @Summary Rebuild the catalog
// @Description Fetches every provider and swaps in a new snapshot. The library is untouched.
// @Tags catalog
// @Produce json
// @Success 200 {object} response.Response{data=edforge.RefreshResult}
// @Failure 502 {object} response.Response{error=response.Error}
// @Router /api/v1/catalog/refresh [post].
func (h *Handlers) HandleRefreshCatalog(w http.ResponseWriter, r *http.Request) {
	result, err := h.client.RefreshCatalog(r.Context())
	if err != nil && !errors.IsNotificationFailure(err) {
		logging.FromContext(r.Context()).Error().Err(err).Msg("Catalog refresh failed")
		response.ErrorFromType(w, err)
		return
	}
	response.Committed(w, http.StatusOK, result, err)
}
