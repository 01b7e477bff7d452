package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/nesta38/NBCM/internal/metrics"
	"github.com/nesta38/NBCM/internal/stager"
)

var stageConfigPath string

// stageCmd represents the stage command
var stageCmd = &cobra.Command{
	Use:   "stage",
	Short: "Run one import staging pass",
	Long: `Copy recently modified processed files into the staging directory
under their rewritten names and print the outcome as JSON. Files that
cannot be staged are reported as skips and do not abort the pass.`,
	Run: stageHandler,
}

func stageHandler(cmd *cobra.Command, args []string) {
	cfg, log := loadRuntime(stageConfigPath, "")

	if cfg.Staging.SourceDir == "" {
		fmt.Fprintln(os.Stderr, "staging.source_dir is not configured")
		os.Exit(1)
	}

	m := metrics.InitPrometheusMetrics(cfg.Metrics.Namespace, prometheus.NewRegistry())

	stg := stager.New(log, m)
	result, err := stg.StageRecent(context.Background(), stager.Task{
		SourceDir:       cfg.Staging.SourceDir,
		DestDir:         cfg.Staging.DestDir,
		Pattern:         cfg.Staging.Pattern,
		LookbackMinutes: cfg.Staging.LookbackMinutes,
	})
	if err != nil {
		log.Error("Staging pass failed", err)
		os.Exit(1)
	}

	view := struct {
		Staged  []string      `json:"staged"`
		Skipped []stager.Skip `json:"skipped"`
	}{
		Staged:  result.Staged,
		Skipped: result.Skipped,
	}
	if view.Staged == nil {
		view.Staged = []string{}
	}
	if view.Skipped == nil {
		view.Skipped = []stager.Skip{}
	}

	out, err := json.MarshalIndent(view, "", "  ")
	if err != nil {
		log.Error("Failed to encode staging result", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}

func init() {
	stageCmd.Flags().StringVarP(&stageConfigPath, "config", "c", "", "Path to configuration file (default: ./config.toml)")
}
