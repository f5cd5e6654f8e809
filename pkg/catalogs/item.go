package catalogs

import "strings"

// Item is a single add-on offered by a provider. Items are values; a catalog
// changes only by replacing the whole collection.
type Item struct {
	ID           string     `json:"id" yaml:"id"`
	Name         string     `json:"name" yaml:"name"`
	Category     string     `json:"category" yaml:"category"`
	ProviderID   ProviderID `json:"providerId" yaml:"providerId"`
	ProviderName string     `json:"providerName" yaml:"providerName"`
	SourceURL    string     `json:"sourceUrl" yaml:"sourceUrl"`
	PriceUSD     float64    `json:"priceUsd" yaml:"priceUsd"`
	Rating       float64    `json:"rating" yaml:"rating"`
	Stock        uint32     `json:"stock" yaml:"stock"`
}

// Valid reports whether the item carries the identity fields required to be
// admitted into a catalog.
func (i Item) Valid() bool {
	return i.ID != "" && i.Name != "" && i.ProviderID != ""
}

// Matches reports whether a lower-cased query is a substring of the item's
// name, category or provider name. An empty query matches everything.
func (i Item) Matches(lowerQuery string) bool {
	if lowerQuery == "" {
		return true
	}
	return strings.Contains(strings.ToLower(i.Name), lowerQuery) ||
		strings.Contains(strings.ToLower(i.Category), lowerQuery) ||
		strings.Contains(strings.ToLower(i.ProviderName), lowerQuery)
}
