package app

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/edforge/pkg/constants"
	"github.com/agentstation/edforge/pkg/errors"
	"github.com/agentstation/edforge/pkg/runtimeconfig"
)

// Config holds the application configuration loaded from config files,
// environment variables and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Runtime settings the client starts with
	Runtime runtimeconfig.Config

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// Configuration keys. Environment variables use the upper-cased key with
// dots replaced by underscores, e.g. RUNTIME_SYNC_INTERVAL_SEC.
const (
	keyLowResourceMode  = "runtime.low_resource_mode"
	keyIngestionEnabled = "runtime.ingestion_enabled"
	keySyncIntervalSec  = "runtime.sync_interval_sec"
)

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables
// 3. .env files
// 4. Config file (~/.edforge.yaml)
// 5. Defaults
func LoadConfig() (*Config, error) {
	return LoadConfigFrom("")
}

// LoadConfigFrom loads configuration like LoadConfig, reading the given
// config file instead of searching the standard locations when path is set.
// A missing file is an error only when path is set explicitly.
func LoadConfigFrom(path string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	v.SetDefault(keyLowResourceMode, constants.DefaultLowResourceMode)
	v.SetDefault(keyIngestionEnabled, constants.DefaultIngestionEnabled)
	v.SetDefault(keySyncIntervalSec, constants.DefaultSyncIntervalSec)

	if path == "" {
		path = v.GetString("config")
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigType("yaml")
		v.SetConfigName(".edforge")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, errors.NewConfigError("config file", err.Error(), err)
		}
	}

	config := &Config{
		Verbose:    v.GetBool("verbose"),
		Quiet:      v.GetBool("quiet"),
		NoColor:    v.GetBool("no-color"),
		Format:     v.GetString("format"),
		ConfigFile: v.ConfigFileUsed(),

		Runtime: runtimeconfig.Config{
			LowResourceMode:  v.GetBool(keyLowResourceMode),
			IngestionEnabled: v.GetBool(keyIngestionEnabled),
			SyncIntervalSec:  runtimeconfig.ClampSyncInterval(v.GetInt(keySyncIntervalSec)),
		},

		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", "stderr"),
		LogLevel:  os.Getenv("LOG_LEVEL"),
	}

	return config, nil
}

// UpdateFromFlags updates config values from parsed command flags so flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// loadEnvFiles loads environment variables from .env files.
// .env.local is loaded first so it wins; godotenv never overrides.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
