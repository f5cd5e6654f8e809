// Package application provides the application interface for edforge commands.
//
// Commands and the HTTP server accept this interface rather than the concrete
// App type so they can be tested with Mock.
//
//	func NewCommand(app application.Application) *cobra.Command {
//	    return &cobra.Command{
//	        RunE: func(cmd *cobra.Command, args []string) error {
//	            client, err := app.Client()
//	            if err != nil {
//	                return err
//	            }
//	            providers := client.ListProviders(cmd.Context())
//	            // ...
//	            return nil
//	        },
//	    }
//	}
package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/edforge"
	"github.com/agentstation/edforge/pkg/events"
)

// Application provides what commands need from the running process.
// All methods must be safe for concurrent access.
type Application interface {
	// Client returns the process client, creating it on first use.
	Client() (edforge.Client, error)

	// Broker returns the event broker the client notifies.
	Broker() *events.Broker

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (table, json, yaml, wide).
	OutputFormat() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
