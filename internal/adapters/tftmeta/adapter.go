// Package tftmeta adapts the TFTMeta add-on catalog.
package tftmeta

import (
	"context"
	_ "embed"

	"github.com/agentstation/edforge/pkg/adapters"
	"github.com/agentstation/edforge/pkg/catalogs"
)

// ProviderID is the slug of the TFTMeta provider.
const ProviderID catalogs.ProviderID = "tftmeta"

//go:embed items.yaml
var fixture []byte

// Adapter serves the TFTMeta catalog from an embedded fixture until a live
// fetch exists.
type Adapter struct {
	adapters.Base
}

// New creates a TFTMeta adapter.
func New() *Adapter {
	return &Adapter{}
}

// Provider returns the TFTMeta provider identity.
func (a *Adapter) Provider() catalogs.Provider {
	return catalogs.Provider{
		ID:        ProviderID,
		Name:      "TFTMeta",
		Region:    "Global",
		SourceURL: "https://tftmeta.gg",
	}
}

// FetchRaw decodes the embedded fixture.
func (a *Adapter) FetchRaw(ctx context.Context) ([]catalogs.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return adapters.DecodeFixture("tftmeta/items.yaml", fixture)
}

var _ adapters.Adapter = (*Adapter)(nil)
