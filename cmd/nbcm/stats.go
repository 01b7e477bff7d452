package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nesta38/NBCM/internal/admin"
	"github.com/nesta38/NBCM/internal/stats"
)

var statsConfigPath string

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Report directory statistics",
	Long: `Compute file counts, sizes and the share of files past the retention
window for the configured directory, and print the result as JSON.
Statistics are computed fresh on every invocation.`,
	Run: statsHandler,
}

func statsHandler(cmd *cobra.Command, args []string) {
	cfg, log := loadRuntime(statsConfigPath, "")

	current := stats.Current(cfg.Cleanup.BaseDir, cfg.Cleanup.RetentionHours)

	out, err := json.MarshalIndent(admin.NewStatsView(current), "", "  ")
	if err != nil {
		log.Error("Failed to encode statistics", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}

func init() {
	statsCmd.Flags().StringVarP(&statsConfigPath, "config", "c", "", "Path to configuration file (default: ./config.toml)")
}
