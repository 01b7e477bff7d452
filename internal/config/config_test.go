package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfigDefaults(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	tests := []struct {
		name  string
		field string
		want  string
		got   string
	}{
		{"cleanup base dir", "cleanup.base_dir", "/app/data/altaview_auto_import/processed", cfg.Cleanup.BaseDir},
		{"cleanup schedule", "cleanup.schedule", "0 3 * * *", cfg.Cleanup.Schedule},
		{"staging pattern", "staging.pattern", "*.csv", cfg.Staging.Pattern},
		{"staging schedule", "staging.schedule", "*/5 * * * *", cfg.Staging.Schedule},
		{"logging level", "logging.level", "info", cfg.Logging.Level},
		{"logging format", "logging.format", "json", cfg.Logging.Format},
		{"logging output", "logging.output", "stdout", cfg.Logging.Output},
		{"metrics namespace", "metrics.namespace", "nbcm", cfg.Metrics.Namespace},
		{"metrics listen", "metrics.listen", ":9090", cfg.Metrics.Listen},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("Expected %s = %s, got %s", tt.field, tt.want, tt.got)
			}
		})
	}

	if cfg.Cleanup.RetentionHours != 48 {
		t.Errorf("Expected cleanup.retention_hours = 48, got %d", cfg.Cleanup.RetentionHours)
	}
	if cfg.Staging.LookbackMinutes != 10 {
		t.Errorf("Expected staging.lookback_minutes = 10, got %d", cfg.Staging.LookbackMinutes)
	}
}

func TestConfigValidation(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{
			Cleanup: CleanupConfig{
				BaseDir:        "/data/processed",
				RetentionHours: 48,
				Schedule:       "0 3 * * *",
			},
			Logging: LoggingConfig{
				Level:  "info",
				Format: "json",
				Output: "stdout",
			},
		}
		applyDefaults(cfg)
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid config with minimal fields",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "missing base dir",
			mutate:  func(c *Config) { c.Cleanup.BaseDir = "" },
			wantErr: true,
		},
		{
			name:    "zero retention hours",
			mutate:  func(c *Config) { c.Cleanup.RetentionHours = 0 },
			wantErr: true,
		},
		{
			name:    "negative retention hours",
			mutate:  func(c *Config) { c.Cleanup.RetentionHours = -1 },
			wantErr: true,
		},
		{
			name:    "invalid cron schedule",
			mutate:  func(c *Config) { c.Cleanup.Schedule = "every day at 3" },
			wantErr: true,
		},
		{
			name:    "invalid logging level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: true,
		},
		{
			name:    "path traversal in base dir",
			mutate:  func(c *Config) { c.Cleanup.BaseDir = "/data/../etc" },
			wantErr: true,
		},
		{
			name: "staging without dest dir",
			mutate: func(c *Config) {
				c.Staging.SourceDir = "/data/processed"
				c.Staging.DestDir = ""
			},
			wantErr: true,
		},
		{
			name: "staging with zero lookback",
			mutate: func(c *Config) {
				c.Staging.SourceDir = "/data/processed"
				c.Staging.DestDir = "/data/import"
				c.Staging.LookbackMinutes = 0
			},
			wantErr: true,
		},
		{
			name: "valid staging section",
			mutate: func(c *Config) {
				c.Staging.SourceDir = "/data/processed"
				c.Staging.DestDir = "/data/import"
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			errs := cfg.Validate()
			if (len(errs) > 0) != tt.wantErr {
				t.Errorf("Validate() errors = %v, wantErr %v", errs, tt.wantErr)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	content := `
[cleanup]
base_dir = "/data/processed"
retention_hours = 72
schedule = "0 4 * * *"

[staging]
source_dir = "/data/processed"
dest_dir = "/data/import"
pattern = "*.csv"
lookback_minutes = 15

[logging]
level = "debug"
format = "text"
output = "stderr"
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Cleanup.RetentionHours != 72 {
		t.Errorf("retention_hours = %d, want 72", cfg.Cleanup.RetentionHours)
	}
	if cfg.Cleanup.Schedule != "0 4 * * *" {
		t.Errorf("schedule = %q, want '0 4 * * *'", cfg.Cleanup.Schedule)
	}
	if cfg.Staging.LookbackMinutes != 15 {
		t.Errorf("lookback_minutes = %d, want 15", cfg.Staging.LookbackMinutes)
	}
	// Defaults still applied for unset fields
	if cfg.Staging.Schedule != "*/5 * * * *" {
		t.Errorf("staging schedule default = %q", cfg.Staging.Schedule)
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		t.Errorf("Validate() on loaded config returned errors: %v", errs)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.toml"); err == nil {
		t.Error("Load() on missing file should fail")
	}
}

func TestExpandEnv(t *testing.T) {
	os.Setenv("NBCM_TEST_DIR", "/srv/data")
	defer os.Unsetenv("NBCM_TEST_DIR")

	tests := []struct {
		input string
		want  string
	}{
		{"${NBCM_TEST_DIR}/processed", "/srv/data/processed"},
		{"${NBCM_MISSING:/fallback}/processed", "/fallback/processed"},
		{"/plain/path", "/plain/path"},
	}

	for _, tt := range tests {
		if got := expandEnv(tt.input); got != tt.want {
			t.Errorf("expandEnv(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
