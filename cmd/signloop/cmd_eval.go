package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nvandessel/signloop/internal/fieldlang"
)

func newEvalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval <file>",
		Short: "Evaluate a field-language program",
		Long: `Evaluate a field-language program: declare vector fields and
interpretations, project interpretations into fields, and measure trace
distances and meanings.

Example:
  signloop eval fields/convergence.field`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, logger, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			src, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}
			program, err := fieldlang.Parse(string(src))
			if err != nil {
				return fmt.Errorf("parsing %s: %w", args[0], err)
			}

			e := fieldlang.NewExecutor(logger, os.Stdout)
			if seed, _ := cmd.Flags().GetUint64("seed"); seed > 0 {
				e.SeedRNG(seed, seed)
			}
			return e.Execute(program)
		},
	}

	cmd.Flags().Uint64("seed", 0, "Seed the noise source for reproducible runs")
	return cmd
}
