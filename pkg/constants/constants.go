// Package constants provides shared constants used throughout the edforge
// codebase: runtime bounds, library defaults, timeouts and limits.
package constants

import "time"

// Runtime configuration bounds and process defaults
const (
	// MinSyncIntervalSec is the lowest accepted sync interval
	MinSyncIntervalSec = 5

	// MaxSyncIntervalSec is the highest accepted sync interval
	MaxSyncIntervalSec = 300

	// DefaultSyncIntervalSec is the sync interval a fresh process starts with
	DefaultSyncIntervalSec = 30

	// DefaultLowResourceMode is the low resource mode a fresh process starts with
	DefaultLowResourceMode = true

	// DefaultIngestionEnabled is the ingestion flag a fresh process starts with
	DefaultIngestionEnabled = false
)

// Library defaults
const (
	// LibraryEntryVersion is the version stamped on every saved entry
	LibraryEntryVersion = "1.0.0"
)

// Timeout constants
const (
	// ProviderFetchTimeout bounds a single adapter fetch
	ProviderFetchTimeout = 30 * time.Second

	// DefaultTimeout is the standard timeout for general operations
	DefaultTimeout = 10 * time.Second

	// ShutdownTimeout bounds graceful server shutdown
	ShutdownTimeout = 30 * time.Second

	// CommandTimeout is the default timeout for CLI commands
	CommandTimeout = 2 * time.Minute
)

// File permission constants
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Limit constants
const (
	// EventQueueSize is the buffer of the event broker's inbound queue
	EventQueueSize = 256

	// SubscriberBufferSize is the per-subscriber outbound buffer
	SubscriberBufferSize = 256

	// MaxRequestBodyBytes caps JSON request bodies on the HTTP API
	MaxRequestBodyBytes = 1 << 20
)
