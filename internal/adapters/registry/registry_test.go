package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/edforge/pkg/catalogs"
)

func TestConfiguredProviders(t *testing.T) {
	providers := Configured().Providers()
	require.Len(t, providers, 2)
	assert.Equal(t, catalogs.ProviderID("tftmeta"), providers[0].ID)
	assert.Equal(t, catalogs.ProviderID("porofessor"), providers[1].ID)
}

func TestConfiguredMergedCatalog(t *testing.T) {
	items, err := Configured().MergedCatalog(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 6)

	seen := make(map[string]bool)
	for _, item := range items {
		assert.False(t, seen[item.ID], "duplicate id %s", item.ID)
		seen[item.ID] = true
		assert.True(t, item.Valid())
	}
	assert.Equal(t, "tftmeta-comp-scout", items[0].ID)
	assert.Equal(t, "porofessor-match-insight", items[3].ID)
}
