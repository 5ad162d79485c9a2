package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/thep200/daily-git-brief/api"
	"github.com/thep200/daily-git-brief/cfg"
	"github.com/thep200/daily-git-brief/internal/schedule"
	"github.com/thep200/daily-git-brief/internal/server"
	"github.com/thep200/daily-git-brief/pkg/log"
)

var (
	servePort       int
	serveNoSchedule bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the daily collection schedule.",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "port for the HTTP server (overrides server.port)")
	serveCmd.Flags().BoolVar(&serveNoSchedule, "no-schedule", false, "disable the daily cron job")
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if servePort > 0 {
		config.Server.Port = servePort
	}

	app, err := api.Initialize(ctx, config, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error(context.Background(), "Failed to close resources: %v", err)
		}
	}()

	loader.RegisterConfigChangeCallback(func(updated *cfg.Config) {
		logger.Info(context.Background(), "Configuration reloaded, log level %s", log.ParseLevel(updated.Log.Level))
	})

	handler := server.NewHandler(logger, config, app.Store, app.CollectorAPI, server.WithDatabaseStatus(app.DatabaseStatus))
	srv, err := server.NewServer(logger, config, handler)
	if err != nil {
		return err
	}

	if config.Schedule.Enabled && !serveNoSchedule {
		scheduler, err := schedule.NewScheduler(logger, config, app.CollectorAPI)
		if err != nil {
			return err
		}
		scheduler.Start()
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = scheduler.Stop(stopCtx)
		}()
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Start()
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error(shutdownCtx, "Error during server shutdown: %v", err)
	}
	logger.Info(shutdownCtx, "Server shut down gracefully")
	return nil
}
