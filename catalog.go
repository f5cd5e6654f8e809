package edforge

import (
	"context"

	"github.com/agentstation/edforge/internal/guard"
	"github.com/agentstation/edforge/pkg/catalogs"
	"github.com/agentstation/edforge/pkg/errors"
	"github.com/agentstation/edforge/pkg/events"
)

// ListProviders returns one provider per configured adapter.
func (c *client) ListProviders(_ context.Context) []catalogs.Provider {
	return c.registry().Providers()
}

// Snapshot returns the current catalog snapshot. Snapshot items are never
// modified after the snapshot is built, so the result may be read freely.
func (c *client) Snapshot(_ context.Context) (catalogs.Snapshot, error) {
	return guard.View(c.catalog, func(s catalogs.Snapshot) catalogs.Snapshot { return s })
}

// ListItems filters and sorts the current catalog.
func (c *client) ListItems(ctx context.Context, query, provider string) ([]catalogs.Item, error) {
	snap, err := c.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return catalogs.FilterAndSort(snap.Items, query, provider), nil
}

// GetItem returns a copy of the item with the given id, or nil.
func (c *client) GetItem(ctx context.Context, id string) (*catalogs.Item, error) {
	snap, err := c.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	item, ok := snap.Find(id)
	if !ok {
		return nil, nil
	}
	return &item, nil
}

// RefreshCatalog rebuilds the catalog outside the guard and swaps it in.
func (c *client) RefreshCatalog(ctx context.Context) (RefreshResult, error) {
	log := c.log(ctx, "refresh_catalog")

	items, err := c.registry().MergedCatalog(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Catalog rebuild failed")
		return RefreshResult{}, errors.WrapResource("build", "catalog", "", err)
	}

	snap, err := c.swapCatalog(items)
	if err != nil {
		return RefreshResult{}, err
	}

	result := RefreshResult{Items: snap.Len(), Providers: c.registry().Len()}
	log.Info().
		Uint64("version", snap.Version).
		Int("items", result.Items).
		Int("providers", result.Providers).
		Msg("Catalog refreshed")

	c.hooks.catalogRefreshed(result)
	return result, c.notify(ctx, events.CatalogRefreshed, result)
}

// swapCatalog replaces the snapshot under the catalog guard.
func (c *client) swapCatalog(items []catalogs.Item) (catalogs.Snapshot, error) {
	at := c.now()
	return guard.Update(c.catalog, func(s *catalogs.Snapshot) catalogs.Snapshot {
		*s = catalogs.NewSnapshot(*s, items, at)
		return *s
	})
}
