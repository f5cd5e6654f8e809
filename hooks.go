package edforge

import (
	"sync"

	"github.com/rs/zerolog"
)

// LibraryAction names the library mutation behind a LibraryChange.
type LibraryAction string

// Library actions.
const (
	LibrarySaved    LibraryAction = "saved"
	LibraryLaunched LibraryAction = "launched"
	LibraryRemoved  LibraryAction = "removed"
)

// LibraryChange describes a committed library mutation.
type LibraryChange struct {
	Action LibraryAction `json:"action"`
	ItemID string        `json:"itemId"`
}

// Hook function types for state changes
type (
	// CatalogRefreshedHook is called after a rebuilt catalog is swapped in.
	CatalogRefreshedHook func(result RefreshResult)

	// LibraryUpdatedHook is called after a library mutation is committed.
	LibraryUpdatedHook func(change LibraryChange)
)

// Hooks registers in-process callbacks for committed state changes.
// Callbacks run synchronously on the calling goroutine with no guard held.
// A panicking callback is recovered and logged; the remaining callbacks
// still run and the committed operation returns normally.
type Hooks interface {
	OnCatalogRefreshed(fn CatalogRefreshedHook)
	OnLibraryUpdated(fn LibraryUpdatedHook)
}

// hooks manages event callbacks for state changes
type hooks struct {
	logger *zerolog.Logger

	mu                 sync.RWMutex
	onCatalogRefreshed []CatalogRefreshedHook
	onLibraryUpdated   []LibraryUpdatedHook
}

// newHooks creates a new hooks instance
func newHooks(logger *zerolog.Logger) *hooks {
	return &hooks{logger: logger}
}

// OnCatalogRefreshed registers a callback for catalog rebuilds
func (h *hooks) OnCatalogRefreshed(fn CatalogRefreshedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onCatalogRefreshed = append(h.onCatalogRefreshed, fn)
}

// OnLibraryUpdated registers a callback for library mutations
func (h *hooks) OnLibraryUpdated(fn LibraryUpdatedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onLibraryUpdated = append(h.onLibraryUpdated, fn)
}

func (h *hooks) catalogRefreshed(result RefreshResult) {
	h.mu.RLock()
	fns := h.onCatalogRefreshed
	h.mu.RUnlock()
	for _, fn := range fns {
		h.run("catalog_refreshed", func() { fn(result) })
	}
}

func (h *hooks) libraryUpdated(change LibraryChange) {
	h.mu.RLock()
	fns := h.onLibraryUpdated
	h.mu.RUnlock()
	for _, fn := range fns {
		h.run("library_updated", func() { fn(change) })
	}
}

// run calls fn and logs a panic instead of propagating it.
func (h *hooks) run(hook string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error().
				Interface("panic", r).
				Str("hook", hook).
				Msg("Hook panicked")
		}
	}()
	fn()
}

// OnCatalogRefreshed registers a callback for catalog rebuilds.
func (c *client) OnCatalogRefreshed(fn CatalogRefreshedHook) {
	c.hooks.OnCatalogRefreshed(fn)
}

// OnLibraryUpdated registers a callback for library mutations.
func (c *client) OnLibraryUpdated(fn LibraryUpdatedHook) {
	c.hooks.OnLibraryUpdated(fn)
}
