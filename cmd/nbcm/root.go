package main

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "nbcm",
	Short: "NBCM - processed-import lifecycle manager",
	Long: `NBCM manages the lifecycle of processed import files: it stages fresh
outputs into the import directory, purges files past their retention
window on a schedule, and reports directory statistics.`,
	Version: Version,
}

func init() {
	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(cleanupCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(stageCmd)
}
