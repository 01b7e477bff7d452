// Package config provides configuration loading and validation for NBCM.
// It supports TOML configuration files with environment variable expansion,
// default values, and comprehensive validation.
//
// Configuration structure:
//   - [cleanup]: retention target directory, retention threshold, schedule
//   - [staging]: import staging directories, filename pattern, lookback window
//   - [logging]: logging level, format, and output
//   - [metrics]: Prometheus metrics settings
//
// Environment variables can be referenced using ${VAR} or ${VAR:default}
// syntax. For example: base_dir = "${NBCM_DATA_DIR:/app/data}/processed"
package config

// Config represents the main application configuration.
type Config struct {
	Cleanup CleanupConfig `toml:"cleanup"`
	Staging StagingConfig `toml:"staging"`
	Logging LoggingConfig `toml:"logging"`
	Metrics MetricsConfig `toml:"metrics"`
}

// CleanupConfig holds the retention cleanup settings.
type CleanupConfig struct {
	BaseDir        string `toml:"base_dir"`        // directory purged by the janitor
	RetentionHours int    `toml:"retention_hours"` // files strictly older than this are purged
	Schedule       string `toml:"schedule"`        // cron expression for the daily run
}

// StagingConfig holds the import staging settings.
type StagingConfig struct {
	SourceDir       string `toml:"source_dir"`       // processed outputs produced externally
	DestDir         string `toml:"dest_dir"`         // staging directory, created on demand
	Pattern         string `toml:"pattern"`          // glob selecting candidate files
	LookbackMinutes int    `toml:"lookback_minutes"` // modification-time window
	Schedule        string `toml:"schedule"`         // cron expression for periodic staging
}

// LoggingConfig holds the logging settings.
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	Output string `toml:"output"`
}

// MetricsConfig holds the Prometheus metrics settings.
type MetricsConfig struct {
	Enabled   bool   `toml:"enabled"`
	Namespace string `toml:"namespace"`
	Listen    string `toml:"listen"` // address for the /metrics endpoint
}
