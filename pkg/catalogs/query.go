package catalogs

import (
	"cmp"
	"math"
	"slices"
	"strings"
)

// FilterAndSort returns the items matching provider and query, ordered by
// rating from highest to lowest. Ties keep catalog order and NaN ratings sort
// last. An empty provider or query disables that filter. The provider is
// compared case-insensitively against the lowercase provider slug.
func FilterAndSort(items []Item, query, provider string) []Item {
	provider = strings.ToLower(strings.TrimSpace(provider))
	query = strings.ToLower(query)

	out := make([]Item, 0, len(items))
	for _, item := range items {
		if provider != "" && string(item.ProviderID) != provider {
			continue
		}
		if !item.Matches(query) {
			continue
		}
		out = append(out, item)
	}

	slices.SortStableFunc(out, func(a, b Item) int {
		return compareRatingDesc(a.Rating, b.Rating)
	})
	return out
}

// compareRatingDesc orders ratings descending with NaN after every number.
func compareRatingDesc(a, b float64) int {
	aNaN, bNaN := math.IsNaN(a), math.IsNaN(b)
	switch {
	case aNaN && bNaN:
		return 0
	case aNaN:
		return 1
	case bNaN:
		return -1
	}
	return cmp.Compare(b, a)
}
