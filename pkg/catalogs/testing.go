package catalogs

import "testing"

// TestProvider creates a test provider with sensible defaults.
func TestProvider(t testing.TB) Provider {
	t.Helper()
	return Provider{
		ID:        "test-provider",
		Name:      "Test Provider",
		Region:    "Global",
		SourceURL: "https://provider.test",
	}
}

// TestItem creates a valid test item owned by the test provider.
func TestItem(t testing.TB, id string, rating float64) Item {
	t.Helper()
	p := TestProvider(t)
	return Item{
		ID:           id,
		Name:         "Item " + id,
		Category:     "Widget",
		ProviderID:   p.ID,
		ProviderName: p.Name,
		SourceURL:    p.SourceURL,
		PriceUSD:     1.99,
		Rating:       rating,
		Stock:        10,
	}
}
