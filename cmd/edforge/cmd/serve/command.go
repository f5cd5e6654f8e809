// Package serve provides the HTTP server command for the edforge CLI.
package serve

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/agentstation/edforge/cmd/application"
	"github.com/agentstation/edforge/internal/cmd/emoji"
	"github.com/agentstation/edforge/internal/server"
	"github.com/agentstation/edforge/pkg/constants"
)

// NewCommand creates the serve command using app context.
func NewCommand(app application.Application) *cobra.Command {
	defaults := server.DefaultConfig()

	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"server"},
		GroupID: "core",
		Short:   "Start the store backend API with WebSocket and SSE updates",
		Long: `Start the HTTP API that backs the desktop store.

Features:
  - Catalog, library and runtime endpoints
  - WebSocket updates (/api/v1/updates/ws)
  - Server-Sent Events (/api/v1/updates/stream)
  - In-memory response caching with configurable TTL
  - Rate limiting (requests per minute per IP)
  - CORS support for web views
  - Prometheus metrics (/metrics)
  - Optional periodic catalog refresh while ingestion is enabled
  - Graceful shutdown with connection draining`,
		Example: `  # Start on default port 8080
  edforge serve

  # Start on a custom port and refresh the catalog on the sync interval
  edforge serve --port 3000 --auto-refresh

  # Allow a specific web view origin
  edforge serve --cors-origins "app://edforge"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd, app)
		},
	}

	registerFlags(cmd.Flags(), defaults)

	return cmd
}

// registerFlags adds the server flags to fs with defaults taken from cfg.
func registerFlags(fs *pflag.FlagSet, cfg server.Config) {
	fs.Int("port", cfg.Port, "Server port")
	fs.String("host", cfg.Host, "Bind address")

	fs.Bool("cors", cfg.CORSEnabled, "Enable CORS for all origins")
	fs.StringSlice("cors-origins", cfg.CORSOrigins, "Allowed CORS origins (comma-separated)")

	fs.Int("rate-limit", cfg.RateLimit, "Requests per minute per IP (0 to disable)")
	fs.Int("cache-ttl", int(cfg.CacheTTL/time.Second), "Cache TTL in seconds")

	fs.Duration("read-timeout", cfg.ReadTimeout, "HTTP read timeout")
	fs.Duration("write-timeout", cfg.WriteTimeout, "HTTP write timeout")
	fs.Duration("idle-timeout", cfg.IdleTimeout, "HTTP idle timeout")

	fs.Bool("metrics", cfg.MetricsEnabled, "Enable metrics endpoint")
	fs.String("prefix", cfg.PathPrefix, "API path prefix")
	fs.Bool("auto-refresh", cfg.AutoRefresh, "Rebuild the catalog on the runtime sync interval while ingestion is enabled")
}

// runServer starts the API server.
func runServer(cmd *cobra.Command, app application.Application) error {
	cfg := parseConfig(cmd.Flags())
	logger := app.Logger()

	logger.Info().
		Int("port", cfg.Port).
		Str("host", cfg.Host).
		Str("prefix", cfg.PathPrefix).
		Bool("cors", cfg.CORSEnabled).
		Int("rate_limit", cfg.RateLimit).
		Dur("cache_ttl", cfg.CacheTTL).
		Bool("auto_refresh", cfg.AutoRefresh).
		Msg("Starting API server")

	srv, err := server.New(app, cfg)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	srv.Start()

	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      srv.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return startWithGracefulShutdown(cmd, httpServer, srv, logger)
}

// parseConfig parses command flags into server configuration.
func parseConfig(fs *pflag.FlagSet) server.Config {
	port := mustGetInt(fs, "port")
	host := mustGetString(fs, "host")

	if envPort := os.Getenv("HTTP_PORT"); envPort != "" {
		if p, err := parsePort(envPort); err == nil {
			port = p
		}
	}
	if envHost := os.Getenv("HTTP_HOST"); envHost != "" {
		host = envHost
	}

	return server.Config{
		Host:           host,
		Port:           port,
		PathPrefix:     mustGetString(fs, "prefix"),
		CORSEnabled:    mustGetBool(fs, "cors"),
		CORSOrigins:    mustGetStringSlice(fs, "cors-origins"),
		RateLimit:      mustGetInt(fs, "rate-limit"),
		CacheTTL:       time.Duration(mustGetInt(fs, "cache-ttl")) * time.Second,
		ReadTimeout:    mustGetDuration(fs, "read-timeout"),
		WriteTimeout:   mustGetDuration(fs, "write-timeout"),
		IdleTimeout:    mustGetDuration(fs, "idle-timeout"),
		MetricsEnabled: mustGetBool(fs, "metrics"),
		AutoRefresh:    mustGetBool(fs, "auto-refresh"),
	}
}

// parsePort safely parses a port string to integer.
func parsePort(portStr string) (int, error) {
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return 0, fmt.Errorf("invalid port number: %s", portStr)
	}
	if port < 1 || port > 65535 {
		return 0, fmt.Errorf("port out of range: %d", port)
	}
	return port, nil
}

// startWithGracefulShutdown serves until the command context is cancelled,
// then drains HTTP connections and stops the background services.
func startWithGracefulShutdown(cmd *cobra.Command, httpServer *http.Server, srv *server.Server, logger *zerolog.Logger) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	serverErr := make(chan error, 1)

	logger.Info().Str("addr", httpServer.Addr).Msg("HTTP server listening")
	fmt.Fprintf(out, "%s API server listening on %s\n", emoji.Rocket, httpServer.Addr)
	fmt.Fprintln(out, "   Press Ctrl+C to stop")

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- fmt.Errorf("server failed: %w", err)
		}
	}()

	select {
	case err := <-serverErr:
		shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
		defer cancel()
		if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
			logger.Warn().Err(shutdownErr).Msg("Background services shutdown had issues")
		}
		return err
	case <-ctx.Done():
		logger.Info().Msg("Shutdown signal received")
		fmt.Fprintf(out, "\n%s Shutting down API server...\n", emoji.Stop)

		// The parent context is already cancelled.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn().Err(err).Msg("Background services shutdown had issues")
		}

		logger.Info().Msg("Server stopped gracefully")
		fmt.Fprintf(out, "%s API server stopped gracefully\n", emoji.Success)
		return nil
	}
}

func mustGetInt(fs *pflag.FlagSet, name string) int {
	val, err := fs.GetInt(name)
	if err != nil {
		panic(fmt.Sprintf("programming error: failed to get flag %q: %v", name, err))
	}
	return val
}

func mustGetString(fs *pflag.FlagSet, name string) string {
	val, err := fs.GetString(name)
	if err != nil {
		panic(fmt.Sprintf("programming error: failed to get flag %q: %v", name, err))
	}
	return val
}

func mustGetBool(fs *pflag.FlagSet, name string) bool {
	val, err := fs.GetBool(name)
	if err != nil {
		panic(fmt.Sprintf("programming error: failed to get flag %q: %v", name, err))
	}
	return val
}

func mustGetStringSlice(fs *pflag.FlagSet, name string) []string {
	val, err := fs.GetStringSlice(name)
	if err != nil {
		panic(fmt.Sprintf("programming error: failed to get flag %q: %v", name, err))
	}
	return val
}

func mustGetDuration(fs *pflag.FlagSet, name string) time.Duration {
	val, err := fs.GetDuration(name)
	if err != nil {
		panic(fmt.Sprintf("programming error: failed to get flag %q: %v", name, err))
	}
	return val
}
