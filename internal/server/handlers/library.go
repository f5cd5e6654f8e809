package handlers

import (
	"net/http"

	"github.com/agentstation/edforge/internal/server/cache"
	"github.com/agentstation/edforge/internal/server/response"
	"github.com/agentstation/edforge/pkg/errors"
	"github.com/agentstation/edforge/pkg/library"
)

// LibraryList is the body of GET /library.
type LibraryList struct {
	Entries []library.Entry `json:"entries"`
	Count   int             `json:"count"`
}

// RemoveResult is the body of DELETE /library/{id}.
type RemoveResult struct {
	ID      string `json:"id"`
	Removed bool   `json:"removed"`
}

// HandleListLibrary handles GET /api/v1/library.
// @Summary List saved items
// @Tags library
// @Produce json
// @Success 200 {object} response.Response{data=LibraryList}
// @Router /api/v1/library [get].
func (h *Handlers) HandleListLibrary(w http.ResponseWriter, r *http.Request) {
	if cached, found := h.cache.Get(cache.LibraryKey()); found {
		response.OK(w, cached)
		return
	}

	gen := h.cache.Generation(cache.LibraryKey())
	entries, err := h.client.ListLibrary(r.Context())
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	result := LibraryList{Entries: entries, Count: len(entries)}
	h.cache.SetIfCurrent(cache.LibraryKey(), result, gen)
	response.OK(w, result)
}

// HandleSaveItem handles POST /api/v1/library/{id}. Saving an item that is
// already in the library returns the existing entry.
// @Summary Save a catalog item
// @Tags library
// @Produce json
// @Param id path string true "Catalog item id"
// @Success 200 {object} response.Response{data=library.Entry}
// @Failure 404 {object} response.Response{error=response.Error}
// @Router /api/v1/library/{id} [post].
func (h *Handlers) HandleSaveItem(w http.ResponseWriter, r *http.Request, id string) {
	entry, err := h.client.SaveItem(r.Context(), id)
	h.writeEntry(w, entry, err, "source item", id)
}

// HandleLaunchItem handles POST /api/v1/library/{id}/launch.
// @Summary Launch a saved item
// @Tags library
// @Produce json
// @Param id path string true "Library entry id"
// @Success 200 {object} response.Response{data=library.Entry}
// @Failure 404 {object} response.Response{error=response.Error}
// @Router /api/v1/library/{id}/launch [post].
func (h *Handlers) HandleLaunchItem(w http.ResponseWriter, r *http.Request, id string) {
	entry, err := h.client.LaunchItem(r.Context(), id)
	h.writeEntry(w, entry, err, "library entry", id)
}

// HandleRemoveItem handles DELETE /api/v1/library/{id}. Removing an absent
// entry is not an error; the body reports removed=false.
// @Summary Remove a saved item
// @Tags library
// @Produce json
// @Param id path string true "Library entry id"
// @Success 200 {object} response.Response{data=RemoveResult}
// @Router /api/v1/library/{id} [delete].
func (h *Handlers) HandleRemoveItem(w http.ResponseWriter, r *http.Request, id string) {
	removed, err := h.client.RemoveItem(r.Context(), id)
	if err != nil && !errors.IsNotificationFailure(err) {
		response.ErrorFromType(w, err)
		return
	}
	response.Committed(w, http.StatusOK, RemoveResult{ID: id, Removed: removed}, err)
}

// writeEntry maps a library mutation result: nil entry without error is a
// missing resource.
func (h *Handlers) writeEntry(w http.ResponseWriter, entry *library.Entry, err error, resource, id string) {
	if entry == nil {
		if err == nil {
			err = errors.NewNotFoundError(resource, id)
		}
		response.ErrorFromType(w, err)
		return
	}
	response.Committed(w, http.StatusOK, entry, err)
}
