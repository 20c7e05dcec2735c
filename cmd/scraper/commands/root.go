package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/user/deals-scraper/pkg/config"
	"github.com/user/deals-scraper/pkg/logger"
)

var (
	envFile  *string
	logLevel *string
)

var rootCmd = &cobra.Command{
	Use:   "scraper",
	Short: "scraper collects retail deals for a shopping list and writes an xlsx report.",
}

func init() {
	envFile = rootCmd.PersistentFlags().String("env", ".env", "Path to an optional .env file.")
	logLevel = rootCmd.PersistentFlags().String("log-level", "", "Overrides LOG_LEVEL (debug, info, warn, error).")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads configuration and builds the logger shared by all commands.
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(*envFile)
	if err != nil {
		return nil, nil, err
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("build logger: %w", err)
	}
	return cfg, log, nil
}
