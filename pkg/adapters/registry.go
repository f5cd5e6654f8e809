package adapters

import (
	"context"
	"slices"

	"github.com/agentstation/edforge/pkg/catalogs"
	"github.com/agentstation/edforge/pkg/constants"
	"github.com/agentstation/edforge/pkg/errors"
	"github.com/agentstation/edforge/pkg/logging"
)

// Registry is a fixed, ordered list of adapters. It is immutable after
// construction and safe for concurrent use.
type Registry struct {
	adapters []Adapter
}

// NewRegistry creates a registry over the given adapters. Order is preserved
// and decides merge precedence.
func NewRegistry(adapters ...Adapter) *Registry {
	return &Registry{adapters: slices.Clone(adapters)}
}

// Len returns the number of configured adapters.
func (r *Registry) Len() int {
	return len(r.adapters)
}

// Adapters returns the configured adapters in order.
func (r *Registry) Adapters() []Adapter {
	return slices.Clone(r.adapters)
}

// Adapter returns the first adapter serving the given provider id.
func (r *Registry) Adapter(id catalogs.ProviderID) (Adapter, bool) {
	for _, a := range r.adapters {
		if a.Provider().ID == id {
			return a, true
		}
	}
	return nil, false
}

// Providers returns one provider per adapter in configured order.
// Duplicate providers are not collapsed.
func (r *Registry) Providers() []catalogs.Provider {
	providers := make([]catalogs.Provider, 0, len(r.adapters))
	for _, a := range r.adapters {
		providers = append(providers, a.Provider())
	}
	return providers
}

// MergedCatalog fetches every adapter's catalog in order and keeps the first
// item seen for each id. A failing adapter aborts the merge.
func (r *Registry) MergedCatalog(ctx context.Context) ([]catalogs.Item, error) {
	logger := logging.FromContext(ctx)

	seen := make(map[string]struct{})
	var merged []catalogs.Item
	for _, a := range r.adapters {
		provider := a.Provider()

		fetchCtx, cancel := context.WithTimeout(ctx, constants.ProviderFetchTimeout)
		items, err := FetchCatalog(logging.WithProvider(fetchCtx, provider.ID.String()), a)
		cancel()
		if err != nil {
			return nil, errors.WrapSync(provider.ID.String(), err)
		}

		added := 0
		for _, item := range items {
			if _, dup := seen[item.ID]; dup {
				continue
			}
			seen[item.ID] = struct{}{}
			merged = append(merged, item)
			added++
		}

		logger.Debug().
			Str("provider_id", provider.ID.String()).
			Int("fetched", len(items)).
			Int("added", added).
			Msg("Merged provider catalog")
	}

	if merged == nil {
		merged = []catalogs.Item{}
	}
	return merged, nil
}
