package config

// Defaults mirror the production deployment: processed imports are purged
// after 48 hours by a daily 03:00 run, staging scans the last 10 minutes.
const (
	defaultBaseDir         = "/app/data/altaview_auto_import/processed"
	defaultRetentionHours  = 48
	defaultCleanupSchedule = "0 3 * * *"
	defaultStagingPattern  = "*.csv"
	defaultLookbackMinutes = 10
	defaultStagingSchedule = "*/5 * * * *"
)

// applyDefaults fills in default values for unset fields.
func applyDefaults(c *Config) {
	if c.Cleanup.BaseDir == "" {
		c.Cleanup.BaseDir = defaultBaseDir
	}
	if c.Cleanup.RetentionHours == 0 {
		c.Cleanup.RetentionHours = defaultRetentionHours
	}
	if c.Cleanup.Schedule == "" {
		c.Cleanup.Schedule = defaultCleanupSchedule
	}

	if c.Staging.Pattern == "" {
		c.Staging.Pattern = defaultStagingPattern
	}
	if c.Staging.LookbackMinutes == 0 {
		c.Staging.LookbackMinutes = defaultLookbackMinutes
	}
	if c.Staging.Schedule == "" {
		c.Staging.Schedule = defaultStagingSchedule
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stdout"
	}

	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = "nbcm"
	}
	if c.Metrics.Listen == "" {
		c.Metrics.Listen = ":9090"
	}
}
