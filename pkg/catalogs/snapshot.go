package catalogs

import (
	"slices"
	"time"

	"github.com/agentstation/utc"
)

// Snapshot is an immutable, versioned catalog. Refreshing the catalog builds
// a new Snapshot and swaps it in whole.
type Snapshot struct {
	Version uint64   `json:"version" yaml:"version"`
	Items   []Item   `json:"items" yaml:"items"`
	BuiltAt utc.Time `json:"builtAt" yaml:"builtAt"`
}

// NewSnapshot returns the snapshot that follows prev with the given items.
// The items slice is copied.
func NewSnapshot(prev Snapshot, items []Item, at time.Time) Snapshot {
	return Snapshot{
		Version: prev.Version + 1,
		Items:   slices.Clone(items),
		BuiltAt: utc.New(at),
	}
}

// IsZero reports whether the snapshot has never been built.
func (s Snapshot) IsZero() bool {
	return s.Version == 0
}

// Len returns the number of items in the snapshot.
func (s Snapshot) Len() int {
	return len(s.Items)
}

// Find returns the item with the given id.
func (s Snapshot) Find(id string) (Item, bool) {
	for _, item := range s.Items {
		if item.ID == id {
			return item, true
		}
	}
	return Item{}, false
}
