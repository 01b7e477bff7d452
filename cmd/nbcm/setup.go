package main

import (
	"fmt"
	"os"

	"github.com/nesta38/NBCM/internal/config"
	"github.com/nesta38/NBCM/internal/logger"
)

// loadRuntime loads and validates the configuration and builds the logger.
// Any configuration error is fatal: the process exits rather than running
// with a partial or defaulted-over setup.
func loadRuntime(configPath, logLevel string) (*config.Config, *logger.Logger) {
	if configPath == "" {
		configPath = defaultConfigPath
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("❌ Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}

	if errors := cfg.Validate(); len(errors) > 0 {
		fmt.Printf("❌ Configuration validation failed:\n")
		for _, e := range errors {
			fmt.Printf("  - %v\n", e)
		}
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		fmt.Printf("❌ Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger.SetDefault(log)

	return cfg, log
}
