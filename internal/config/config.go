package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/robfig/cron/v3"
)

// Load reads configuration from a TOML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)
	expandVars(&cfg)

	return &cfg, nil
}

// Validate checks the configuration and returns every problem found.
// Any returned error is fatal at startup and at reconfiguration.
func (c *Config) Validate() []error {
	var errors []error

	if c.Cleanup.BaseDir == "" {
		errors = append(errors, fmt.Errorf("cleanup.base_dir is required"))
	} else if err := validatePath(c.Cleanup.BaseDir, "cleanup.base_dir"); err != nil {
		errors = append(errors, err)
	}

	if c.Cleanup.RetentionHours <= 0 {
		errors = append(errors, fmt.Errorf("cleanup.retention_hours must be positive (got %d)", c.Cleanup.RetentionHours))
	}

	if err := validateCronExpr(c.Cleanup.Schedule, "cleanup.schedule"); err != nil {
		errors = append(errors, err)
	}

	if c.Staging.SourceDir != "" {
		if err := validatePath(c.Staging.SourceDir, "staging.source_dir"); err != nil {
			errors = append(errors, err)
		}
		if c.Staging.DestDir == "" {
			errors = append(errors, fmt.Errorf("staging.dest_dir is required when staging.source_dir is set"))
		} else if err := validatePath(c.Staging.DestDir, "staging.dest_dir"); err != nil {
			errors = append(errors, err)
		}
		if c.Staging.LookbackMinutes <= 0 {
			errors = append(errors, fmt.Errorf("staging.lookback_minutes must be positive (got %d)", c.Staging.LookbackMinutes))
		}
		if _, err := filepath.Match(c.Staging.Pattern, "probe"); err != nil {
			errors = append(errors, fmt.Errorf("invalid staging.pattern: %s", c.Staging.Pattern))
		}
		if err := validateCronExpr(c.Staging.Schedule, "staging.schedule"); err != nil {
			errors = append(errors, err)
		}
	}

	if c.Logging.Level == "" {
		errors = append(errors, fmt.Errorf("logging.level is required"))
	} else {
		validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
		if !validLevels[strings.ToLower(c.Logging.Level)] {
			errors = append(errors, fmt.Errorf("invalid logging.level: %s (expected: debug, info, warn, error)", c.Logging.Level))
		}
	}

	if c.Logging.Format == "" {
		errors = append(errors, fmt.Errorf("logging.format is required"))
	} else {
		validFormats := map[string]bool{"json": true, "text": true}
		if !validFormats[strings.ToLower(c.Logging.Format)] {
			errors = append(errors, fmt.Errorf("invalid logging.format: %s (expected: json, text)", c.Logging.Format))
		}
	}

	if c.Logging.Output == "" {
		errors = append(errors, fmt.Errorf("logging.output is required"))
	}

	return errors
}

func validateCronExpr(expr, fieldName string) error {
	if expr == "" {
		return fmt.Errorf("%s is required", fieldName)
	}
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	if _, err := parser.Parse(expr); err != nil {
		return fmt.Errorf("invalid %s: %w", fieldName, err)
	}
	return nil
}

func validatePath(path, fieldName string) error {
	if path == "" {
		return fmt.Errorf("%s cannot be empty", fieldName)
	}

	if strings.HasPrefix(path, "~") {
		return nil
	}

	if strings.Contains(path, "..") {
		return fmt.Errorf("%s contains potentially dangerous path traversal sequence", fieldName)
	}

	return nil
}

// expandVars expands environment variables and ~ in path-valued fields.
func expandVars(c *Config) {
	c.Cleanup.BaseDir = expandHome(expandEnv(c.Cleanup.BaseDir))
	c.Staging.SourceDir = expandHome(expandEnv(c.Staging.SourceDir))
	c.Staging.DestDir = expandHome(expandEnv(c.Staging.DestDir))
	c.Logging.Output = expandEnv(c.Logging.Output)
}

// expandEnv expands a ${VAR} or ${VAR:default} reference.
func expandEnv(s string) string {
	if !strings.HasPrefix(s, "${") {
		return s
	}

	end := strings.Index(s, "}")
	if end == -1 {
		return s
	}

	rest := s[end+1:]
	content := s[2:end]
	if parts := strings.SplitN(content, ":", 2); len(parts) == 2 {
		key := parts[0]
		defaultVal := parts[1]
		if val := os.Getenv(key); val != "" {
			return val + rest
		}
		return defaultVal + rest
	}

	return os.Getenv(content) + rest
}

// expandHome expands a leading ~ in a path.
func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
