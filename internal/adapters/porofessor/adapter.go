// Package porofessor adapts the Porofessor add-on catalog. Its records are
// repaired during normalization: whitespace is trimmed, missing provider
// fields are filled from the adapter's identity and categories are
// title-cased.
package porofessor

import (
	"context"
	_ "embed"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/agentstation/edforge/pkg/adapters"
	"github.com/agentstation/edforge/pkg/catalogs"
)

// ProviderID is the slug of the Porofessor provider.
const ProviderID catalogs.ProviderID = "porofessor"

//go:embed items.yaml
var fixture []byte

// Adapter serves the Porofessor catalog from an embedded fixture.
type Adapter struct {
	adapters.Base
}

// New creates a Porofessor adapter.
func New() *Adapter {
	return &Adapter{}
}

// Provider returns the Porofessor provider identity.
func (a *Adapter) Provider() catalogs.Provider {
	return catalogs.Provider{
		ID:        ProviderID,
		Name:      "Porofessor",
		Region:    "Global",
		SourceURL: "https://porofessor.gg",
	}
}

// FetchRaw decodes the embedded fixture.
func (a *Adapter) FetchRaw(ctx context.Context) ([]catalogs.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return adapters.DecodeFixture("porofessor/items.yaml", fixture)
}

// Normalize repairs records before validation.
func (a *Adapter) Normalize(items []catalogs.Item) []catalogs.Item {
	p := a.Provider()
	// cases.Caser is stateful; one per call keeps the adapter safe to share.
	title := cases.Title(language.English)

	out := make([]catalogs.Item, len(items))
	for i, item := range items {
		item.ID = strings.TrimSpace(item.ID)
		item.Name = strings.TrimSpace(item.Name)
		item.Category = title.String(strings.TrimSpace(item.Category))
		if item.ProviderID == "" {
			item.ProviderID = p.ID
		}
		if strings.TrimSpace(item.ProviderName) == "" {
			item.ProviderName = p.Name
		}
		if strings.TrimSpace(item.SourceURL) == "" {
			item.SourceURL = p.SourceURL
		}
		out[i] = item
	}
	return out
}

var _ adapters.Adapter = (*Adapter)(nil)
