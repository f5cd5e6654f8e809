package porofessor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/edforge/pkg/adapters"
	"github.com/agentstation/edforge/pkg/catalogs"
)

func TestFetchCatalog(t *testing.T) {
	items, err := adapters.FetchCatalog(context.Background(), New())
	require.NoError(t, err)
	require.Len(t, items, 3)

	got := make([]string, len(items))
	for i, item := range items {
		got[i] = item.ID
	}
	assert.Equal(t, []string{"porofessor-match-insight", "porofessor-rune-assist", "porofessor-session-recap"}, got)
	assert.Equal(t, "Rune Assist Module", items[1].Name)
	assert.Equal(t, "Assistant", items[1].Category)
}

func TestNormalizeRepairsRecords(t *testing.T) {
	a := New()
	raw := []catalogs.Item{
		{ID: "  porofessor-x ", Name: " Draft Helper ", Category: "draft assistant"},
		{ID: "porofessor-y", Name: "Kept", ProviderID: "porofessor", ProviderName: "Porofessor", SourceURL: "https://porofessor.gg/y", Category: "Analysis"},
		{ID: "porofessor-z", Name: ""},
	}

	out := a.Normalize(raw)
	require.Len(t, out, 3)

	assert.Equal(t, "porofessor-x", out[0].ID)
	assert.Equal(t, "Draft Helper", out[0].Name)
	assert.Equal(t, "Draft Assistant", out[0].Category)
	assert.Equal(t, ProviderID, out[0].ProviderID)
	assert.Equal(t, "Porofessor", out[0].ProviderName)
	assert.Equal(t, "https://porofessor.gg", out[0].SourceURL)

	assert.Equal(t, "https://porofessor.gg/y", out[1].SourceURL)

	assert.True(t, a.Validate(out[0]))
	assert.False(t, a.Validate(out[2]), "empty name is still rejected after repair")

	assert.Equal(t, "  porofessor-x ", raw[0].ID, "input must not be modified")
}
