// Package library manages the user's saved items and their launch state.
//
// Entries moves through two states: an entry is created ready, becomes
// running on its first launch and stays running on later launches. Removal
// deletes it. Entries is not safe for concurrent use; callers hold the
// library guard around every call.
package library

import (
	"slices"
	"time"

	"github.com/agentstation/utc"

	"github.com/agentstation/edforge/pkg/catalogs"
	"github.com/agentstation/edforge/pkg/constants"
)

// State is the lifecycle state of a library entry.
type State string

// Library entry states.
const (
	StateReady   State = "ready"
	StateRunning State = "running"
)

// String returns the string representation of a State.
func (s State) String() string {
	return string(s)
}

// Entry is a saved item in the user's library.
type Entry struct {
	ID           string    `json:"id" yaml:"id"` // Originating catalog item id
	Name         string    `json:"name" yaml:"name"`
	Category     string    `json:"category" yaml:"category"`
	ProviderName string    `json:"providerName" yaml:"providerName"`
	Version      string    `json:"version" yaml:"version"`
	State        State     `json:"state" yaml:"state"`
	LastLaunched *utc.Time `json:"lastLaunched" yaml:"lastLaunched"` // nil until the first launch
}

// NewEntry creates a ready entry from a catalog item.
func NewEntry(item catalogs.Item) Entry {
	return Entry{
		ID:           item.ID,
		Name:         item.Name,
		Category:     item.Category,
		ProviderName: item.ProviderName,
		Version:      constants.LibraryEntryVersion,
		State:        StateReady,
	}
}

// IsRunning reports whether the entry has been launched.
func (e Entry) IsRunning() bool {
	return e.State == StateRunning
}

// Entries is the ordered list of saved items, in save order.
type Entries []Entry

// Find returns the entry with the given id.
func (l Entries) Find(id string) (Entry, bool) {
	if i := l.index(id); i >= 0 {
		return l[i], true
	}
	return Entry{}, false
}

// Save adds a ready entry for item unless one already exists. It returns the
// stored entry and whether it was created. An existing entry is returned
// unchanged.
func (l *Entries) Save(item catalogs.Item) (Entry, bool) {
	if existing, ok := l.Find(item.ID); ok {
		return existing, false
	}
	entry := NewEntry(item)
	*l = append(*l, entry)
	return entry, true
}

// Launch marks the entry running and stamps its launch time.
// It reports false and changes nothing when the id is unknown.
func (l Entries) Launch(id string, at time.Time) (Entry, bool) {
	i := l.index(id)
	if i < 0 {
		return Entry{}, false
	}
	stamp := utc.New(at)
	l[i].State = StateRunning
	l[i].LastLaunched = &stamp
	return l[i], true
}

// Remove deletes the entry with the given id and reports whether it existed.
func (l *Entries) Remove(id string) bool {
	i := l.index(id)
	if i < 0 {
		return false
	}
	*l = slices.Delete(*l, i, i+1)
	return true
}

// Running returns the number of running entries.
func (l Entries) Running() int {
	n := 0
	for _, e := range l {
		if e.IsRunning() {
			n++
		}
	}
	return n
}

// Clone returns a copy safe to hand out after the guard is released.
// LastLaunched pointers are shared; launches replace them rather than
// writing through them.
func (l Entries) Clone() Entries {
	out := make(Entries, len(l))
	copy(out, l)
	return out
}

func (l Entries) index(id string) int {
	return slices.IndexFunc(l, func(e Entry) bool { return e.ID == id })
}
