package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"globalsouth/internal/config"
	"globalsouth/internal/dataset"
	"globalsouth/internal/logging"
)

var (
	// Global flags
	configPath string
	dataPath   string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
	cache  *dataset.Cache
)

var rootCmd = &cobra.Command{
	Use:   "gsdash",
	Short: "Global South GDP share dashboard",
	Long: `gsdash loads the Global South GDP share table (one row per year), validates it
and renders the share trend, regional contributions and downloads.

Run without a subcommand to start the dashboard.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load .env: %w", err)
		}

		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if dataPath != "" {
			cfg.DataPath = dataPath
		}

		logger, err = logging.New(cfg.Logging, verbose)
		if err != nil {
			return err
		}
		cache = dataset.NewCache(cfg.Schema())
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "gsdash.yaml", "config file (optional)")
	rootCmd.PersistentFlags().StringVarP(&dataPath, "data", "d", "", "CSV data file (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(serveCmd, exportCmd, chartsCmd, reportCmd, tableCmd)
}

// loadSnapshot loads the configured data file. Fatal errors are printed in
// the user-facing wording and returned, which stops the command.
func loadSnapshot() (*dataset.Snapshot, error) {
	snap, err := cache.Get(cfg.DataPath)
	if err != nil {
		color.Red("❌ %s", dataset.Describe(err))
		color.Red("Cannot continue: data loading failed. Check the CSV path and format.")
		logger.Error("data unavailable", zap.String("path", cfg.DataPath), zap.Error(err))
		return nil, err
	}

	fmt.Printf("📊 Data loaded: %s (%d years)\n", cfg.DataPath, snap.Data.Len())
	for _, w := range snap.Warnings {
		color.Yellow("⚠️  %s", w.String())
	}
	return snap, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
