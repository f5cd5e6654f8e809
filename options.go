package edforge

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/edforge/internal/adapters/registry"
	"github.com/agentstation/edforge/pkg/adapters"
	"github.com/agentstation/edforge/pkg/errors"
	"github.com/agentstation/edforge/pkg/events"
	"github.com/agentstation/edforge/pkg/logging"
	"github.com/agentstation/edforge/pkg/runtimeconfig"
)

// Option is a function that configures a Client.
type Option func(*options) error

// options holds the Client configuration.
type options struct {
	registry      *adapters.Registry
	notifier      events.Notifier
	clock         func() time.Time
	runtimeConfig runtimeconfig.Config
	logger        *zerolog.Logger
}

// defaults returns the process defaults.
func defaults() *options {
	return &options{
		registry:      registry.Configured(),
		notifier:      events.Nop,
		clock:         time.Now,
		runtimeConfig: runtimeconfig.Default(),
		logger:        logging.Default(),
	}
}

// apply applies the given options in order.
func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// WithRegistry configures the adapters the catalog is built from.
func WithRegistry(reg *adapters.Registry) Option {
	return func(o *options) error {
		if reg == nil {
			return errors.NewValidationError("registry", nil, "registry is required")
		}
		o.registry = reg
		return nil
	}
}

// WithNotifier configures where state-change events are sent.
func WithNotifier(n events.Notifier) Option {
	return func(o *options) error {
		if n == nil {
			n = events.Nop
		}
		o.notifier = n
		return nil
	}
}

// WithClock configures the time source used for launch stamps and events.
func WithClock(clock func() time.Time) Option {
	return func(o *options) error {
		if clock == nil {
			return errors.NewValidationError("clock", nil, "clock is required")
		}
		o.clock = clock
		return nil
	}
}

// WithRuntimeConfig seeds the initial runtime configuration. The sync
// interval is clamped like any other update.
func WithRuntimeConfig(cfg runtimeconfig.Config) Option {
	return func(o *options) error {
		o.runtimeConfig = runtimeconfig.UpdateFrom(cfg).Apply()
		return nil
	}
}

// WithLogger configures the client logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(o *options) error {
		if logger != nil {
			o.logger = logger
		}
		return nil
	}
}
