// Package edforge provides the catalog and library backend of the edforge
// add-on store.
//
// A Client aggregates add-on catalogs from the configured provider adapters,
// answers catalog queries, manages the user's library of saved items and
// holds the runtime configuration. State lives in memory for the lifetime of
// the process, split into three independently guarded cells: the catalog
// snapshot, the library entries and the runtime configuration.
//
// Example usage:
//
//	client, err := edforge.New(
//	    edforge.WithNotifier(broker),
//	    edforge.WithRuntimeConfig(runtimeconfig.Config{SyncIntervalSec: 60}),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	items, err := client.ListItems(ctx, "widget", "tftmeta")
//	entry, err := client.SaveItem(ctx, items[0].ID)
//	if errors.IsNotificationFailure(err) {
//	    // entry is saved; only the UI notification was lost
//	}
package edforge

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/edforge/internal/guard"
	"github.com/agentstation/edforge/pkg/adapters"
	"github.com/agentstation/edforge/pkg/catalogs"
	"github.com/agentstation/edforge/pkg/errors"
	"github.com/agentstation/edforge/pkg/events"
	"github.com/agentstation/edforge/pkg/library"
	"github.com/agentstation/edforge/pkg/logging"
	"github.com/agentstation/edforge/pkg/runtimeconfig"
)

// Cell names reported in lock errors.
const (
	catalogCell = "store catalog"
	libraryCell = "library"
	runtimeCell = "runtime config"
)

// Compile-time interface check to ensure proper implementation.
var _ Client = (*client)(nil)

// Catalog answers catalog queries and rebuilds the catalog.
type Catalog interface {
	// ListProviders returns the configured providers in order.
	ListProviders(ctx context.Context) []catalogs.Provider

	// ListItems filters the catalog by query and provider, best rated first.
	ListItems(ctx context.Context, query, provider string) ([]catalogs.Item, error)

	// GetItem returns the item with the given id, or nil if there is none.
	GetItem(ctx context.Context, id string) (*catalogs.Item, error)

	// RefreshCatalog rebuilds the catalog from the adapters and swaps it in.
	RefreshCatalog(ctx context.Context) (RefreshResult, error)

	// Snapshot returns the current catalog snapshot.
	Snapshot(ctx context.Context) (catalogs.Snapshot, error)
}

// Library manages saved items.
type Library interface {
	// ListLibrary returns the saved entries in save order.
	ListLibrary(ctx context.Context) ([]library.Entry, error)

	// SaveItem saves a catalog item. It returns nil if the item is unknown.
	SaveItem(ctx context.Context, id string) (*library.Entry, error)

	// LaunchItem marks a saved entry running. It returns nil if the entry is unknown.
	LaunchItem(ctx context.Context, id string) (*library.Entry, error)

	// RemoveItem deletes a saved entry and reports whether it existed.
	RemoveItem(ctx context.Context, id string) (bool, error)
}

// Runtime reads and updates the runtime configuration.
type Runtime interface {
	// RuntimeConfig returns the current runtime configuration.
	RuntimeConfig(ctx context.Context) (runtimeconfig.Config, error)

	// RuntimeOverview returns the configuration joined with library counts.
	RuntimeOverview(ctx context.Context) (runtimeconfig.Overview, error)

	// UpdateRuntimeConfig applies an update and returns the resulting overview.
	UpdateRuntimeConfig(ctx context.Context, update runtimeconfig.Update) (runtimeconfig.Overview, error)
}

// Client is the edforge backend.
//
// Mutations that notify the UI layer may return a non-nil result together
// with an error for which errors.IsNotificationFailure is true. The mutation
// has been committed in that case; only the notification was lost.
type Client interface {
	Catalog
	Library
	Runtime
	Hooks
}

// RefreshResult summarizes a catalog rebuild.
type RefreshResult struct {
	Items     int `json:"items" yaml:"items"`
	Providers int `json:"providers" yaml:"providers"`
}

// client is the internal implementation of the Client interface.
type client struct {
	options *options
	logger  *zerolog.Logger

	catalog *guard.Cell[catalogs.Snapshot]
	library *guard.Cell[library.Entries]
	runtime *guard.Cell[runtimeconfig.Config]

	hooks *hooks
}

// New creates a Client and builds the initial catalog from the configured
// adapters.
func New(opts ...Option) (Client, error) {
	o, err := defaults().apply(opts...)
	if err != nil {
		return nil, err
	}

	c := &client{
		options: o,
		logger:  o.logger,
		catalog: guard.New(catalogCell, catalogs.Snapshot{}),
		library: guard.New(libraryCell, library.Entries{}),
		runtime: guard.New(runtimeCell, o.runtimeConfig),
		hooks:   newHooks(o.logger),
	}

	ctx := logging.WithLogger(context.Background(), o.logger)
	items, err := o.registry.MergedCatalog(ctx)
	if err != nil {
		return nil, errors.WrapResource("build", "catalog", "", err)
	}
	snap, err := c.swapCatalog(items)
	if err != nil {
		return nil, err
	}

	c.logger.Debug().
		Int("providers", o.registry.Len()).
		Int("items", snap.Len()).
		Int("sync_interval_sec", o.runtimeConfig.SyncIntervalSec).
		Msg("Client initialized")

	return c, nil
}

// now returns the client clock reading.
func (c *client) now() time.Time {
	return c.options.clock()
}

// log returns the context logger tagged with an operation name. Contexts
// without a logger fall back to the client logger.
func (c *client) log(ctx context.Context, operation string) *zerolog.Logger {
	if logging.FromContext(ctx) == logging.Default() {
		ctx = logging.WithLogger(ctx, c.logger)
	}
	return logging.FromContext(logging.WithOperation(ctx, operation))
}

// notify hands an event to the notifier. Failures are returned as
// *errors.NotificationError.
func (c *client) notify(ctx context.Context, eventType events.EventType, data any) error {
	err := c.options.notifier.Notify(ctx, events.New(eventType, data, c.now()))
	if err == nil {
		return nil
	}
	if !errors.IsNotificationFailure(err) {
		err = errors.NewNotificationError(eventType.String(), err)
	}
	c.log(ctx, "notify").Warn().Err(err).Str("event_type", eventType.String()).Msg("Notification failed after commit")
	return err
}

// registry returns the adapter registry.
func (c *client) registry() *adapters.Registry {
	return c.options.registry
}
