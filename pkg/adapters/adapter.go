// Package adapters defines how catalog items are pulled from external
// providers and merged into a single catalog.
//
// Every provider is wrapped in an Adapter. FetchCatalog runs an adapter's
// pipeline in a fixed order: fetch raw records, normalize them, then drop the
// records that fail validation. A Registry holds the configured adapters and
// merges their catalogs with first-writer-wins deduplication by item id.
//
// Example usage:
//
//	reg := adapters.NewRegistry(tftmeta.New(), porofessor.New())
//	items, err := reg.MergedCatalog(ctx)
//	if err != nil {
//	    return err
//	}
package adapters

import (
	"context"

	"github.com/agentstation/edforge/pkg/catalogs"
	"github.com/agentstation/edforge/pkg/logging"
)

// Adapter retrieves and cleans the catalog of a single provider.
// Implementations must be stateless and safe for concurrent use.
type Adapter interface {
	// Provider returns the identity of the provider behind this adapter.
	Provider() catalogs.Provider

	// FetchRaw returns the provider's records as delivered by the source.
	FetchRaw(ctx context.Context) ([]catalogs.Item, error)

	// Normalize repairs raw records before validation.
	Normalize(items []catalogs.Item) []catalogs.Item

	// Validate reports whether a normalized record may enter the catalog.
	Validate(item catalogs.Item) bool
}

// Base supplies the default Normalize and Validate behavior.
// Embed it in adapters that only need to provide Provider and FetchRaw.
type Base struct{}

// Normalize returns items unchanged.
func (Base) Normalize(items []catalogs.Item) []catalogs.Item {
	return items
}

// Validate admits items with a non-empty id, name and provider id.
func (Base) Validate(item catalogs.Item) bool {
	return item.Valid()
}

// FetchCatalog returns the validated, normalized items of an adapter.
// Rejected records are dropped and logged at debug level.
func FetchCatalog(ctx context.Context, a Adapter) ([]catalogs.Item, error) {
	raw, err := a.FetchRaw(ctx)
	if err != nil {
		return nil, err
	}

	normalized := a.Normalize(raw)
	items := make([]catalogs.Item, 0, len(normalized))
	for _, item := range normalized {
		if !a.Validate(item) {
			logging.FromContext(ctx).Debug().
				Str("item_id", item.ID).
				Str("item_name", item.Name).
				Msg("Dropping item that failed validation")
			continue
		}
		items = append(items, item)
	}
	return items, nil
}
