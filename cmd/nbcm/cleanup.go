package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/nesta38/NBCM/internal/admin"
	"github.com/nesta38/NBCM/internal/janitor"
	"github.com/nesta38/NBCM/internal/metrics"
	"github.com/nesta38/NBCM/internal/retention"
)

var cleanupConfigPath string

// cleanupCmd represents the cleanup command
var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Run one retention cleanup pass",
	Long: `Run a single retention cleanup pass against the configured directory
and print the run report as JSON. Per-file deletion failures are reported
in the output and do not abort the run.`,
	Run: cleanupHandler,
}

func cleanupHandler(cmd *cobra.Command, args []string) {
	cfg, log := loadRuntime(cleanupConfigPath, "")

	m := metrics.InitPrometheusMetrics(cfg.Metrics.Namespace, prometheus.NewRegistry())

	runner, err := janitor.NewRunner(retention.Config{
		BaseDir:        cfg.Cleanup.BaseDir,
		RetentionHours: cfg.Cleanup.RetentionHours,
	}, log, m)
	if err != nil {
		log.Error("Failed to create cleanup runner", err)
		os.Exit(1)
	}

	report, err := runner.Run(context.Background())
	if err != nil {
		log.Error("Cleanup run failed", err)
		os.Exit(1)
	}

	out, err := json.MarshalIndent(admin.NewReportView(report), "", "  ")
	if err != nil {
		log.Error("Failed to encode report", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}

func init() {
	cleanupCmd.Flags().StringVarP(&cleanupConfigPath, "config", "c", "", "Path to configuration file (default: ./config.toml)")
}
