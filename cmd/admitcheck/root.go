package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/admitcheck/internal/config"
	"github.com/aretw0/admitcheck/internal/logging"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "admitcheck",
	Short: "Admitcheck is a conversational admission eligibility assistant",
	Long: `Admitcheck interviews applicants one question at a time and checks their
answers against the admission rules of the university's programs.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML configuration file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error); overrides the configuration")
	rootCmd.PersistentFlags().String("rules", "", "Rule source (.xlsx or .yaml); overrides the configuration")
}

// loadConfig resolves the configuration for a command: defaults, the
// --config file, ADMITCHECK_* variables, then command-line flags.
func loadConfig(cmd *cobra.Command) (config.Config, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, nil, err
	}

	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Log.Level = level
	}
	if rules, _ := cmd.Flags().GetString("rules"); rules != "" {
		cfg.Rules = rules
	}

	logger := logging.NewWithFormat(logging.ParseLevel(cfg.Log.Level), cfg.Log.Format)
	slog.SetDefault(logger)
	return cfg, logger, nil
}
