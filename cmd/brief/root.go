package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/thep200/daily-git-brief/cfg"
	"github.com/thep200/daily-git-brief/internal/model"
	"github.com/thep200/daily-git-brief/pkg/db"
	"github.com/thep200/daily-git-brief/pkg/log"
)

var version = "dev"

// Được gán trong PersistentPreRunE
var (
	loader *cfg.ViperLoader
	config *cfg.Config
	logger log.Logger
)

var (
	configFile  string
	logLevel    string
	dbDriver    string
	watchConfig bool
)

var rootCmd = &cobra.Command{
	Use:               "brief",
	Short:             "Collect and query daily trending GitHub repositories.",
	Long:              `brief fetches today's trending repositories, summarizes their READMEs and tracks language trends day by day.`,
	Version:           version,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file (default cfg/yaml/mode.yaml)")
	flags.StringVar(&logLevel, "log-level", "", "minimum log level (debug, info, warn, error)")
	flags.StringVar(&dbDriver, "db-driver", "", "database driver (sqlite, mysql, postgres)")
	flags.BoolVar(&watchConfig, "watch-config", false, "reload the config file when it changes")

	rootCmd.AddCommand(serveCmd, collectCmd, trendsCmd, languagesCmd, tailCmd)
}

// setup đọc cấu hình theo thứ tự flag > env (BRIEF_*) > file > default
func setup(cmd *cobra.Command, _ []string) error {
	var err error
	loader, err = cfg.NewViperLoader(cfg.WithConfigFile(configFile), cfg.WithWatch(watchConfig))
	if err != nil {
		return err
	}

	v := loader.Viper()
	if err := v.BindPFlag("log.level", cmd.Flags().Lookup("log-level")); err != nil {
		return err
	}
	if err := v.BindPFlag("database.driver", cmd.Flags().Lookup("db-driver")); err != nil {
		return err
	}

	config, err = loader.Load()
	if err != nil {
		return err
	}

	logger, err = log.NewCslLogger(log.WithLevel(log.ParseLevel(config.Log.Level)), log.WithWriter(os.Stderr))
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	return nil
}

// openStore mở database cho các lệnh chỉ đọc
func openStore(ctx context.Context) (*model.Store, func(), error) {
	database, err := db.New(config)
	if err != nil {
		return nil, nil, err
	}

	store, err := model.NewStore(config, logger, database)
	if err != nil {
		_ = database.Close()
		return nil, nil, err
	}
	if err := store.Migrate(); err != nil {
		_ = database.Close()
		return nil, nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	closeFn := func() {
		if err := database.Close(); err != nil {
			logger.Warn(ctx, "Failed to close database: %v", err)
		}
	}
	return store, closeFn, nil
}
