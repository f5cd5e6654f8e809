package edforge

import (
	"context"

	"github.com/agentstation/edforge/internal/guard"
	"github.com/agentstation/edforge/pkg/library"
	"github.com/agentstation/edforge/pkg/runtimeconfig"
)

// RuntimeConfig returns the current runtime configuration.
func (c *client) RuntimeConfig(_ context.Context) (runtimeconfig.Config, error) {
	return guard.View(c.runtime, func(cfg runtimeconfig.Config) runtimeconfig.Config { return cfg })
}

// RuntimeOverview reads the configuration, releases that guard, then counts
// the library under its own guard.
func (c *client) RuntimeOverview(ctx context.Context) (runtimeconfig.Overview, error) {
	cfg, err := c.RuntimeConfig(ctx)
	if err != nil {
		return runtimeconfig.Overview{}, err
	}

	type counts struct{ total, running int }
	n, err := guard.View(c.library, func(l library.Entries) counts {
		return counts{len(l), l.Running()}
	})
	if err != nil {
		return runtimeconfig.Overview{}, err
	}
	return runtimeconfig.NewOverview(cfg, n.total, n.running), nil
}

// UpdateRuntimeConfig overwrites the flags, clamps the sync interval and
// returns the overview after the update.
func (c *client) UpdateRuntimeConfig(ctx context.Context, update runtimeconfig.Update) (runtimeconfig.Overview, error) {
	next := update.Apply()
	if err := c.runtime.Mutate(func(cfg *runtimeconfig.Config) { *cfg = next }); err != nil {
		return runtimeconfig.Overview{}, err
	}

	c.log(ctx, "update_runtime_config").Info().
		Bool("low_resource_mode", next.LowResourceMode).
		Bool("ingestion_enabled", next.IngestionEnabled).
		Int("sync_interval_sec", next.SyncIntervalSec).
		Msg("Runtime config updated")

	return c.RuntimeOverview(ctx)
}
