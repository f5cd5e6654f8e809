package edforge_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/edforge"
	"github.com/agentstation/edforge/pkg/adapters"
	"github.com/agentstation/edforge/pkg/catalogs"
	"github.com/agentstation/edforge/pkg/errors"
	"github.com/agentstation/edforge/pkg/events"
	"github.com/agentstation/edforge/pkg/library"
	"github.com/agentstation/edforge/pkg/logging"
	"github.com/agentstation/edforge/pkg/runtimeconfig"
)

// recorder is a Notifier that records events and can be told to fail.
type recorder struct {
	mu     sync.Mutex
	events []events.Event
	fail   error
}

func (r *recorder) Notify(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) types() []events.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.EventType, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newClient(t *testing.T, opts ...edforge.Option) (edforge.Client, *recorder) {
	t.Helper()
	rec := &recorder{}
	logger := zerolog.Nop()
	base := []edforge.Option{
		edforge.WithNotifier(rec),
		edforge.WithClock(func() time.Time { return fixedNow }),
		edforge.WithLogger(&logger),
	}
	c, err := edforge.New(append(base, opts...)...)
	require.NoError(t, err)
	return c, rec
}

func TestEndToEnd(t *testing.T) {
	ctx := context.Background()
	c, rec := newClient(t)

	providers := c.ListProviders(ctx)
	require.Len(t, providers, 2)
	assert.Equal(t, catalogs.ProviderID("tftmeta"), providers[0].ID)
	assert.Equal(t, catalogs.ProviderID("porofessor"), providers[1].ID)

	entry, err := c.SaveItem(ctx, "tftmeta-comp-scout")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, library.StateReady, entry.State)
	assert.Equal(t, "1.0.0", entry.Version)
	assert.Nil(t, entry.LastLaunched)

	launched, err := c.LaunchItem(ctx, "tftmeta-comp-scout")
	require.NoError(t, err)
	require.NotNil(t, launched)
	assert.Equal(t, library.StateRunning, launched.State)
	require.NotNil(t, launched.LastLaunched)
	assert.True(t, launched.LastLaunched.Time.Equal(fixedNow))

	ov, err := c.RuntimeOverview(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, ov.LibraryCount)
	assert.Equal(t, 1, ov.RunningCount)
	assert.True(t, ov.LowResourceMode)
	assert.False(t, ov.IngestionEnabled)
	assert.Equal(t, 30, ov.SyncIntervalSec)

	assert.Equal(t, []events.EventType{events.LibraryUpdated, events.LibraryUpdated}, rec.types())
}

func TestListItems(t *testing.T) {
	ctx := context.Background()
	c, _ := newClient(t)

	all, err := c.ListItems(ctx, "", "")
	require.NoError(t, err)
	require.Len(t, all, 6)
	for i := 1; i < len(all); i++ {
		assert.GreaterOrEqual(t, all[i-1].Rating, all[i].Rating)
	}

	got, err := c.ListItems(ctx, "module", "porofessor")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "porofessor-rune-assist", got[0].ID)
}

func TestGetItem(t *testing.T) {
	ctx := context.Background()
	c, _ := newClient(t)

	item, err := c.GetItem(ctx, "porofessor-match-insight")
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, "Match Insight Panel", item.Name)

	missing, err := c.GetItem(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSaveItem(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown item", func(t *testing.T) {
		c, rec := newClient(t)
		entry, err := c.SaveItem(ctx, "nope")
		require.NoError(t, err)
		assert.Nil(t, entry)
		assert.Empty(t, rec.types())
	})

	t.Run("idempotent", func(t *testing.T) {
		c, rec := newClient(t)
		first, err := c.SaveItem(ctx, "porofessor-rune-assist")
		require.NoError(t, err)
		second, err := c.SaveItem(ctx, "porofessor-rune-assist")
		require.NoError(t, err)

		assert.Equal(t, *first, *second)
		lib, err := c.ListLibrary(ctx)
		require.NoError(t, err)
		assert.Len(t, lib, 1)
		assert.Equal(t, []events.EventType{events.LibraryUpdated}, rec.types())
	})
}

func TestLaunchUnknown(t *testing.T) {
	ctx := context.Background()
	c, rec := newClient(t)
	_, err := c.SaveItem(ctx, "tftmeta-level-timer")
	require.NoError(t, err)
	before, err := c.ListLibrary(ctx)
	require.NoError(t, err)

	entry, err := c.LaunchItem(ctx, "tftmeta-comp-scout")
	require.NoError(t, err)
	assert.Nil(t, entry)

	after, err := c.ListLibrary(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Len(t, rec.types(), 1)
}

func TestRemoveItem(t *testing.T) {
	ctx := context.Background()
	c, rec := newClient(t)
	_, err := c.SaveItem(ctx, "tftmeta-level-timer")
	require.NoError(t, err)

	removed, err := c.RemoveItem(ctx, "tftmeta-level-timer")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = c.RemoveItem(ctx, "tftmeta-level-timer")
	require.NoError(t, err)
	assert.False(t, removed)

	assert.Equal(t, []events.EventType{events.LibraryUpdated, events.LibraryUpdated}, rec.types())
}

func TestListLibraryReturnsCopy(t *testing.T) {
	ctx := context.Background()
	c, _ := newClient(t)
	_, err := c.SaveItem(ctx, "tftmeta-level-timer")
	require.NoError(t, err)

	lib, err := c.ListLibrary(ctx)
	require.NoError(t, err)
	lib[0].State = library.StateRunning

	again, err := c.ListLibrary(ctx)
	require.NoError(t, err)
	assert.Equal(t, library.StateReady, again[0].State)
}

func TestLibrarySurvivesRefresh(t *testing.T) {
	ctx := context.Background()
	c, rec := newClient(t)
	_, err := c.SaveItem(ctx, "tftmeta-comp-scout")
	require.NoError(t, err)

	res, err := c.RefreshCatalog(ctx)
	require.NoError(t, err)
	assert.Equal(t, edforge.RefreshResult{Items: 6, Providers: 2}, res)

	snap, err := c.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), snap.Version)

	lib, err := c.ListLibrary(ctx)
	require.NoError(t, err)
	assert.Len(t, lib, 1)
	assert.Equal(t, []events.EventType{events.LibraryUpdated, events.CatalogRefreshed}, rec.types())
}

func TestUpdateRuntimeConfigClamps(t *testing.T) {
	ctx := context.Background()
	c, _ := newClient(t)

	for in, want := range map[int]int{1: 5, 1000: 300, 42: 42} {
		ov, err := c.UpdateRuntimeConfig(ctx, runtimeconfig.Update{IngestionEnabled: true, SyncIntervalSec: in})
		require.NoError(t, err)
		assert.Equal(t, want, ov.SyncIntervalSec)
		assert.True(t, ov.IngestionEnabled)
		assert.False(t, ov.LowResourceMode)
	}

	cfg, err := c.RuntimeConfig(ctx)
	require.NoError(t, err)
	assert.True(t, cfg.IngestionEnabled)
}

func TestWithRuntimeConfigIsClamped(t *testing.T) {
	c, _ := newClient(t, edforge.WithRuntimeConfig(runtimeconfig.Config{SyncIntervalSec: 2}))
	cfg, err := c.RuntimeConfig(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.SyncIntervalSec)
}

func TestNotificationFailureKeepsMutation(t *testing.T) {
	ctx := context.Background()
	c, rec := newClient(t)
	rec.fail = errors.New("window closed")

	entry, err := c.SaveItem(ctx, "tftmeta-comp-scout")
	require.Error(t, err)
	assert.True(t, errors.IsNotificationFailure(err))
	require.NotNil(t, entry, "committed entry is still returned")

	var nerr *errors.NotificationError
	require.ErrorAs(t, err, &nerr)
	assert.Equal(t, string(events.LibraryUpdated), nerr.Event)

	lib, err := c.ListLibrary(ctx)
	require.NoError(t, err)
	assert.Len(t, lib, 1)

	res, err := c.RefreshCatalog(ctx)
	assert.True(t, errors.IsNotificationFailure(err))
	assert.Equal(t, 6, res.Items)
}

func TestHooks(t *testing.T) {
	ctx := context.Background()
	c, _ := newClient(t)

	var changes []edforge.LibraryChange
	var refreshes []edforge.RefreshResult
	c.OnLibraryUpdated(func(ch edforge.LibraryChange) { changes = append(changes, ch) })
	c.OnCatalogRefreshed(func(r edforge.RefreshResult) { refreshes = append(refreshes, r) })

	_, _ = c.SaveItem(ctx, "tftmeta-comp-scout")
	_, _ = c.SaveItem(ctx, "tftmeta-comp-scout")
	_, _ = c.LaunchItem(ctx, "tftmeta-comp-scout")
	_, _ = c.RemoveItem(ctx, "tftmeta-comp-scout")
	_, _ = c.RefreshCatalog(ctx)

	assert.Equal(t, []edforge.LibraryChange{
		{Action: edforge.LibrarySaved, ItemID: "tftmeta-comp-scout"},
		{Action: edforge.LibraryLaunched, ItemID: "tftmeta-comp-scout"},
		{Action: edforge.LibraryRemoved, ItemID: "tftmeta-comp-scout"},
	}, changes)
	assert.Len(t, refreshes, 1)
}

// failingAdapter reports a fetch failure.
type failingAdapter struct {
	adapters.Base
}

func (failingAdapter) Provider() catalogs.Provider {
	return catalogs.Provider{ID: "broken", Name: "Broken"}
}

func (failingAdapter) FetchRaw(context.Context) ([]catalogs.Item, error) {
	return nil, errors.New("connection refused")
}

func TestNewFailsWhenAdapterFails(t *testing.T) {
	_, err := edforge.New(edforge.WithRegistry(adapters.NewRegistry(failingAdapter{})))
	require.Error(t, err)
	assert.True(t, errors.IsProviderUnavailable(err))
}

func TestOptionValidation(t *testing.T) {
	_, err := edforge.New(edforge.WithRegistry(nil))
	assert.True(t, errors.IsValidationError(err))

	_, err = edforge.New(edforge.WithClock(nil))
	assert.True(t, errors.IsValidationError(err))
}

func TestConcurrentOperations(t *testing.T) {
	ctx := context.Background()
	c, _ := newClient(t)
	ids := []string{"tftmeta-comp-scout", "tftmeta-level-timer", "porofessor-rune-assist"}

	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := ids[i%len(ids)]
			_, _ = c.SaveItem(ctx, id)
			_, _ = c.LaunchItem(ctx, id)
			_, _ = c.ListItems(ctx, "", "")
			_, _ = c.RuntimeOverview(ctx)
		}(i)
	}
	wg.Wait()

	lib, err := c.ListLibrary(ctx)
	require.NoError(t, err)
	assert.Len(t, lib, len(ids))
}

// partialAdapter delivers one record that fails validation.
type partialAdapter struct {
	adapters.Base
}

func (partialAdapter) Provider() catalogs.Provider {
	return catalogs.Provider{ID: "partial", Name: "Partial"}
}

func (partialAdapter) FetchRaw(context.Context) ([]catalogs.Item, error) {
	return []catalogs.Item{
		{ID: "partial-kept", Name: "Kept", ProviderID: "partial"},
		{ID: "partial-nameless", ProviderID: "partial"},
	}, nil
}

func TestNewLogsThroughClientLogger(t *testing.T) {
	tl := logging.NewTestLogger(t)
	c, err := edforge.New(
		edforge.WithRegistry(adapters.NewRegistry(partialAdapter{})),
		edforge.WithLogger(tl.Logger),
	)
	require.NoError(t, err)

	items, err := c.ListItems(context.Background(), "", "")
	require.NoError(t, err)
	require.Len(t, items, 1)

	tl.AssertContains(t, "Dropping item that failed validation")
	tl.AssertContains(t, `"item_id":"partial-nameless"`)
	tl.AssertContains(t, `"provider_id":"partial"`)
}

func TestOperationLogsUseContextLogger(t *testing.T) {
	clientLog := logging.NewTestLogger(t)
	requestLog := logging.NewTestLogger(t)
	c, _ := newClient(t, edforge.WithLogger(clientLog.Logger))

	ctx := logging.WithRequestID(logging.WithLogger(context.Background(), requestLog.Logger), "req-42")
	_, err := c.SaveItem(ctx, "tftmeta-comp-scout")
	require.NoError(t, err)

	requestLog.AssertContains(t, "Item saved to library")
	requestLog.AssertContains(t, `"request_id":"req-42"`)
	requestLog.AssertContains(t, `"operation":"save_item"`)
	requestLog.AssertContains(t, `"item_id":"tftmeta-comp-scout"`)
	clientLog.AssertNotContains(t, "Item saved to library")

	_, err = c.RemoveItem(context.Background(), "tftmeta-comp-scout")
	require.NoError(t, err)
	clientLog.AssertContains(t, "Library entry removed")
}

func TestPanickingHookDoesNotEscape(t *testing.T) {
	ctx := context.Background()
	tl := logging.NewTestLogger(t)
	c, rec := newClient(t, edforge.WithLogger(tl.Logger))

	var after []edforge.LibraryChange
	c.OnLibraryUpdated(func(edforge.LibraryChange) { panic("subscriber exploded") })
	c.OnLibraryUpdated(func(change edforge.LibraryChange) { after = append(after, change) })
	c.OnCatalogRefreshed(func(edforge.RefreshResult) { panic("subscriber exploded") })

	var entry *library.Entry
	require.NotPanics(t, func() {
		var err error
		entry, err = c.SaveItem(ctx, "tftmeta-comp-scout")
		require.NoError(t, err)
	})
	require.NotNil(t, entry)
	assert.Equal(t, "tftmeta-comp-scout", entry.ID)
	assert.Len(t, after, 1)

	require.NotPanics(t, func() {
		_, err := c.RefreshCatalog(ctx)
		require.NoError(t, err)
	})

	assert.Equal(t, []events.EventType{events.LibraryUpdated, events.CatalogRefreshed}, rec.types())
	tl.AssertContains(t, "Hook panicked")
	tl.AssertContains(t, `"hook":"library_updated"`)
	tl.AssertContains(t, `"hook":"catalog_refreshed"`)
}
