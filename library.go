package edforge

import (
	"context"

	"github.com/agentstation/edforge/internal/guard"
	"github.com/agentstation/edforge/pkg/events"
	"github.com/agentstation/edforge/pkg/library"
	"github.com/agentstation/edforge/pkg/logging"
)

// ListLibrary returns a copy of the saved entries.
func (c *client) ListLibrary(_ context.Context) ([]library.Entry, error) {
	entries, err := guard.View(c.library, func(l library.Entries) library.Entries { return l.Clone() })
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// SaveItem looks the item up in the catalog, releases the catalog guard and
// then saves it under the library guard. Saving an id twice returns the
// existing entry and does not notify.
func (c *client) SaveItem(ctx context.Context, id string) (*library.Entry, error) {
	item, err := c.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		c.log(logging.WithItem(ctx, id), "save_item").Debug().Msg("Source item not found")
		return nil, nil
	}

	type saved struct {
		entry   library.Entry
		created bool
	}
	res, err := guard.Update(c.library, func(l *library.Entries) saved {
		entry, created := l.Save(*item)
		return saved{entry, created}
	})
	if err != nil {
		return nil, err
	}
	if !res.created {
		return &res.entry, nil
	}

	c.log(logging.WithItem(ctx, id), "save_item").Info().Msg("Item saved to library")
	return &res.entry, c.libraryUpdated(ctx, LibrarySaved, id)
}

// LaunchItem marks a saved entry running and stamps the launch time.
func (c *client) LaunchItem(ctx context.Context, id string) (*library.Entry, error) {
	at := c.now()

	type launched struct {
		entry library.Entry
		ok    bool
	}
	res, err := guard.Update(c.library, func(l *library.Entries) launched {
		entry, ok := l.Launch(id, at)
		return launched{entry, ok}
	})
	if err != nil {
		return nil, err
	}
	if !res.ok {
		c.log(logging.WithItem(ctx, id), "launch_item").Debug().Msg("Library entry not found")
		return nil, nil
	}

	c.log(logging.WithItem(ctx, id), "launch_item").Info().Msg("Library entry launched")
	return &res.entry, c.libraryUpdated(ctx, LibraryLaunched, id)
}

// RemoveItem deletes a saved entry. Removing an absent id is a no-op.
func (c *client) RemoveItem(ctx context.Context, id string) (bool, error) {
	removed, err := guard.Update(c.library, func(l *library.Entries) bool {
		return l.Remove(id)
	})
	if err != nil {
		return false, err
	}
	if !removed {
		return false, nil
	}

	c.log(logging.WithItem(ctx, id), "remove_item").Info().Msg("Library entry removed")
	return true, c.libraryUpdated(ctx, LibraryRemoved, id)
}

func (c *client) libraryUpdated(ctx context.Context, action LibraryAction, id string) error {
	change := LibraryChange{Action: action, ItemID: id}
	c.hooks.libraryUpdated(change)
	return c.notify(ctx, events.LibraryUpdated, change)
}
