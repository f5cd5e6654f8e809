// Package runtimeconfig holds the tunable runtime settings and the overview
// derived from them.
package runtimeconfig

import (
	"time"

	"github.com/agentstation/edforge/pkg/constants"
)

// Config is the process-wide runtime configuration.
type Config struct {
	LowResourceMode  bool `json:"lowResourceMode" yaml:"lowResourceMode"`
	IngestionEnabled bool `json:"ingestionEnabled" yaml:"ingestionEnabled"`
	SyncIntervalSec  int  `json:"syncIntervalSec" yaml:"syncIntervalSec"`
}

// Default returns the configuration a fresh process starts with.
func Default() Config {
	return Config{
		LowResourceMode:  constants.DefaultLowResourceMode,
		IngestionEnabled: constants.DefaultIngestionEnabled,
		SyncIntervalSec:  constants.DefaultSyncIntervalSec,
	}
}

// SyncInterval returns the sync interval as a duration.
func (c Config) SyncInterval() time.Duration {
	return time.Duration(c.SyncIntervalSec) * time.Second
}

// Update is a requested configuration change. Both flags are overwritten;
// the interval is clamped on apply.
type Update struct {
	LowResourceMode  bool `json:"lowResourceMode" yaml:"lowResourceMode"`
	IngestionEnabled bool `json:"ingestionEnabled" yaml:"ingestionEnabled"`
	SyncIntervalSec  int  `json:"syncIntervalSec" yaml:"syncIntervalSec"`
}

// Apply returns the configuration produced by u.
func (u Update) Apply() Config {
	return Config{
		LowResourceMode:  u.LowResourceMode,
		IngestionEnabled: u.IngestionEnabled,
		SyncIntervalSec:  ClampSyncInterval(u.SyncIntervalSec),
	}
}

// UpdateFrom returns an update that reproduces c.
func UpdateFrom(c Config) Update {
	return Update(c)
}

// ClampSyncInterval bounds sec to the accepted interval range.
func ClampSyncInterval(sec int) int {
	return min(max(sec, constants.MinSyncIntervalSec), constants.MaxSyncIntervalSec)
}

// Overview is the configuration joined with live library counts.
// It is computed on demand and never stored.
type Overview struct {
	Config       `yaml:",inline"`
	LibraryCount int `json:"libraryCount" yaml:"libraryCount"`
	RunningCount int `json:"runningCount" yaml:"runningCount"`
}

// NewOverview builds an overview from a configuration and library counts.
func NewOverview(c Config, libraryCount, runningCount int) Overview {
	return Overview{Config: c, LibraryCount: libraryCount, RunningCount: runningCount}
}
