// Command chessperf imports PGN archives into a Store and computes
// chess performance numbers over them, wiring the config, logging,
// store, importer, selector, population, and calculator packages
// together behind a Cobra command tree.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rmarsh/chessperf/internal/config"
	"github.com/rmarsh/chessperf/internal/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgPath string

	root := &cobra.Command{
		Use:   "chessperf",
		Short: "Chess performance-number calculator",
		Long: "chessperf imports PGN game archives, manages player/event/time-control\n" +
			"identities, and computes chess performance numbers over a selected\n" +
			"set of games.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cfgPath)
			if err != nil {
				return err
			}
			logging.Init(logging.Config{
				Level:  cfg.Logging.Level,
				Format: cfg.Logging.Format,
				Caller: cfg.Logging.Caller,
			})
			cmd.SetContext(withConfig(cmd.Context(), cfg))
			return nil
		},
	}

	root.PersistentFlags().StringVar(&cfgPath, "config", "", "path to chessperf.yaml (overrides "+config.ConfigPathEnvVar+")")

	root.AddCommand(
		newImportCmd(),
		newIdentifyCmd(),
		newCalculateCmd(),
		newExportCmd(),
		newImportIdentitiesCmd(),
	)
	return root
}

func loadConfig(explicitPath string) (*config.Config, error) {
	if explicitPath != "" {
		if err := os.Setenv(config.ConfigPathEnvVar, explicitPath); err != nil {
			return nil, fmt.Errorf("chessperf: set %s: %w", config.ConfigPathEnvVar, err)
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("chessperf: load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("chessperf: invalid config: %w", err)
	}
	return cfg, nil
}
