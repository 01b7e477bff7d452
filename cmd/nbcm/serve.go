package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/nesta38/NBCM/internal/janitor"
	"github.com/nesta38/NBCM/internal/logger"
	"github.com/nesta38/NBCM/internal/metrics"
	"github.com/nesta38/NBCM/internal/retention"
	"github.com/nesta38/NBCM/internal/sched"
	"github.com/nesta38/NBCM/internal/stager"
)

var (
	serveConfigPath string
	serveLogLevel   string
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the NBCM service (main command)",
	Long: `Start the NBCM service with the specified configuration.
This schedules the retention cleanup and import staging jobs, optionally
exposes Prometheus metrics, and handles graceful shutdown.

The serve command is the main entry point for running NBCM.`,
	Run: serveHandler,
}

func serveHandler(cmd *cobra.Command, args []string) {
	cfg, log := loadRuntime(serveConfigPath, serveLogLevel)

	log.Info("🚀 Starting NBCM",
		logger.Field{Key: "version", Value: Version},
		logger.Field{Key: "git_commit", Value: GitCommit},
		logger.Field{Key: "base_dir", Value: cfg.Cleanup.BaseDir},
		logger.Field{Key: "retention_hours", Value: cfg.Cleanup.RetentionHours},
		logger.Field{Key: "cleanup_schedule", Value: cfg.Cleanup.Schedule})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	m := metrics.InitPrometheusMetrics(cfg.Metrics.Namespace, prometheus.DefaultRegisterer)

	var metricsSrv *http.Server
	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsSrv = &http.Server{Addr: cfg.Metrics.Listen, Handler: mux}
		go func() {
			log.Info("📊 Metrics endpoint listening",
				logger.Field{Key: "addr", Value: cfg.Metrics.Listen})
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("Metrics server failed", err)
			}
		}()
	}

	runner, err := janitor.NewRunner(retention.Config{
		BaseDir:        cfg.Cleanup.BaseDir,
		RetentionHours: cfg.Cleanup.RetentionHours,
	}, log, m)
	if err != nil {
		log.Error("Failed to create cleanup runner", err)
		os.Exit(1)
	}

	scheduler := sched.NewScheduler(log)

	if err := scheduler.Register(sched.JobDescriptor{
		Name:           "retention-cleanup",
		CronExpression: cfg.Cleanup.Schedule,
		Handler: func(ctx context.Context) {
			if _, err := runner.Run(ctx); err != nil && !errors.Is(err, janitor.ErrAlreadyRunning) {
				log.Error("Cleanup run failed", err)
			}
		},
	}); err != nil {
		log.Error("Failed to register cleanup job", err)
		os.Exit(1)
	}

	if cfg.Staging.SourceDir != "" {
		stg := stager.New(log, m)
		task := stager.Task{
			SourceDir:       cfg.Staging.SourceDir,
			DestDir:         cfg.Staging.DestDir,
			Pattern:         cfg.Staging.Pattern,
			LookbackMinutes: cfg.Staging.LookbackMinutes,
		}
		if err := scheduler.Register(sched.JobDescriptor{
			Name:           "import-staging",
			CronExpression: cfg.Staging.Schedule,
			Handler: func(ctx context.Context) {
				if _, err := stg.StageRecent(ctx, task); err != nil {
					log.Error("Staging pass failed", err)
				}
			},
		}); err != nil {
			log.Error("Failed to register staging job", err)
			os.Exit(1)
		}
	} else {
		log.Warn("Import staging is disabled (staging.source_dir not set)")
	}

	if err := scheduler.Start(ctx); err != nil {
		log.Error("Failed to start scheduler", err)
		os.Exit(1)
	}

	log.Info("✅ NBCM is running",
		logger.Field{Key: "jobs", Value: scheduler.Jobs()})

	sig := <-sigChan
	log.Info("⏳ Received shutdown signal",
		logger.Field{Key: "signal", Value: sig.String()})

	log.Info("🛑 Shutting down NBCM...")
	cancel()

	if err := scheduler.Stop(); err != nil {
		log.Error("Failed to stop scheduler", err)
	}

	if metricsSrv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			log.Error("Failed to stop metrics server", err)
		}
	}

	log.Info("👋 NBCM stopped gracefully")
}

func init() {
	serveCmd.Flags().StringVarP(&serveConfigPath, "config", "c", "", "Path to configuration file (default: ./config.toml)")
	serveCmd.Flags().StringVarP(&serveLogLevel, "log-level", "l", "", "Log level override (debug, info, warn, error)")
}
