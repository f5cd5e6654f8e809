package server

import (
	"context"
	"time"

	"github.com/agentstation/edforge/pkg/errors"
)

// autoRefresh rebuilds the catalog on the live sync interval while ingestion
// is enabled. The interval and the flag are re-read before every wait, so a
// runtime update takes effect on the next cycle.
func (s *Server) autoRefresh(ctx context.Context) {
	for {
		cfg, err := s.client.RuntimeConfig(ctx)
		if err != nil {
			s.logger.Error().Err(err).Msg("Auto refresh stopped: runtime config unavailable")
			return
		}

		timer := time.NewTimer(cfg.SyncInterval())
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		if _, err := s.refreshOnce(ctx); err != nil && errors.IsLockUnavailable(err) {
			s.logger.Error().Err(err).Msg("Auto refresh stopped")
			return
		}
	}
}

// refreshOnce rebuilds the catalog if ingestion is enabled and reports
// whether it ran. Notification failures are logged, not returned.
func (s *Server) refreshOnce(ctx context.Context) (bool, error) {
	cfg, err := s.client.RuntimeConfig(ctx)
	if err != nil {
		return false, err
	}
	if !cfg.IngestionEnabled {
		s.logger.Debug().Msg("Auto refresh skipped: ingestion disabled")
		return false, nil
	}

	result, err := s.client.RefreshCatalog(ctx)
	switch {
	case err == nil:
	case errors.IsNotificationFailure(err):
		s.logger.Warn().Err(err).Msg("Catalog refreshed without notification")
	case errors.IsCanceled(err):
		s.logger.Debug().Err(err).Msg("Auto refresh canceled")
		return false, err
	default:
		s.logger.Error().Err(err).Msg("Auto refresh failed")
		return false, err
	}

	s.logger.Info().
		Int("items", result.Items).
		Int("providers", result.Providers).
		Msg("Catalog auto refreshed")
	return true, nil
}
