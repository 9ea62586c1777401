package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/astrocoach/insight/internal/config"
	"github.com/astrocoach/insight/internal/logging"
	"github.com/astrocoach/insight/internal/report"
	"github.com/astrocoach/insight/internal/store"
)

var (
	version = "0.1.0-dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "insight",
		Short: "Insight - premium growth analytics and what-if simulation",
		Long: `insight analyzes the astrology app's premium business: demand trends,
conversion and churn drivers, campaign targeting, and what-if impact
simulations over the trained model coefficients.

It reads the processed model exports (CSV or an imported SQLite warehouse)
and serves the same analysis through the CLI, a local dashboard, and MCP.`,
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON (for scripts and agents)")
	rootCmd.PersistentFlags().String("config", "", "Config file path (default ~/.insight/config.yaml)")
	rootCmd.PersistentFlags().String("data", "", "Data directory override")

	rootCmd.AddCommand(
		newVersionCmd(),
		newOverviewCmd(),
		newTrendCmd(),
		newDriversCmd(),
		newTargetsCmd(),
		newChurnCmd(),
		newSimulateCmd(),
		newImportCmd(),
		newServeCmd(),
		newMCPServerCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig resolves configuration for a command: the --config file if
// given, otherwise the default chain, with the --data override applied last.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")

	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadFromFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if dataDir, _ := cmd.Flags().GetString("data"); dataDir != "" {
		cfg.Data.Dir = dataDir
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// openStore opens the warehouse when one is configured, the CSV directory
// otherwise.
func openStore(cfg *config.Config) (store.Store, error) {
	if cfg.Data.Warehouse != "" {
		return store.NewSQLiteStore(cfg.Data.Warehouse)
	}
	return store.NewCSVStore(cfg.Data.Dir), nil
}

// newService wires config, store, and run logging into a report service.
// The caller owns the returned store and must Close it.
func newService(cmd *cobra.Command) (*report.Service, store.Store, *config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, nil, err
	}

	st, err := openStore(cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	runs := logging.NewRunLogger(".insight", cfg.Logging.Level)
	return report.NewService(st, cfg, runs), st, cfg, nil
}
