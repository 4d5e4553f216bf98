package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/nvandessel/signloop/internal/config"
	"github.com/nvandessel/signloop/internal/logging"
)

// Build-time variables set via ldflags
var (
	version = "0.1.0-dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "signloop",
		Short: "Signloop - a semiotic agent simulation engine",
		Long: `signloop simulates agents that express, project, and interpret signs
over a shared activation substrate with decaying memory.

It runs narrative scripts, evaluates field-language programs, and offers
an interactive shell over recursive category objects.`,
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON where supported")
	rootCmd.PersistentFlags().String("config", "", "Path to a config file (default ~/.signloop/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: info, debug, or trace")

	rootCmd.AddCommand(
		newVersionCmd(),
		newRunCmd(),
		newEvalCmd(),
		newReplCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig resolves configuration for a command invocation: an explicit
// --config path wins over the default lookup, and --log-level overrides the
// configured level.
func loadConfig(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")

	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, err = config.LoadFromFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Logging.Level = level
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	return cfg, logging.NewLogger(cfg.Logging.Level, os.Stderr), nil
}
