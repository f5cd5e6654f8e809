// Package app provides the application context and dependency management
// for the edforge CLI. It centralizes configuration, logging, the event
// broker and the lazily built client.
package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/edforge"
	"github.com/agentstation/edforge/cmd/application"
	"github.com/agentstation/edforge/pkg/errors"
	"github.com/agentstation/edforge/pkg/events"
)

var _ application.Application = (*App)(nil)

// App represents the edforge application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	// broker is created with the app so the client can notify it before
	// anything subscribes.
	broker *events.Broker

	// Client instance (lazy-initialized, singleton)
	mu     sync.RWMutex
	client edforge.Client
}

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	if app.broker == nil {
		app.broker = events.NewBroker(app.logger)
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// Broker returns the event broker the client notifies.
func (a *App) Broker() *events.Broker {
	return a.broker
}

// Client returns the edforge client, creating it lazily if needed.
// Only one instance is ever created.
func (a *App) Client() (edforge.Client, error) {
	a.mu.RLock()
	if a.client != nil {
		c := a.client
		a.mu.RUnlock()
		return c, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.client != nil {
		return a.client, nil
	}

	c, err := edforge.New(
		edforge.WithNotifier(a.broker),
		edforge.WithRuntimeConfig(a.config.Runtime),
		edforge.WithLogger(a.logger),
	)
	if err != nil {
		return nil, errors.WrapResource("create", "client", "", err)
	}

	a.client = c
	return c, nil
}

// Shutdown performs graceful shutdown of the application.
func (a *App) Shutdown(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if n := a.broker.SubscriberCount(); n > 0 {
		a.logger.Debug().Int("subscribers", n).Msg("Broker still has subscribers at shutdown")
	}
	return nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithClient sets a custom client (useful for testing).
func WithClient(c edforge.Client) Option {
	return func(a *App) error {
		a.client = c
		return nil
	}
}
