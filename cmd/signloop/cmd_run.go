package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/nvandessel/signloop/internal/launch"
	"github.com/nvandessel/signloop/internal/logging"
	"github.com/nvandessel/signloop/internal/script"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [scripts...]",
		Short: "Run narrative simulation scripts",
		Long: `Run one or more narrative scripts, each in its own simulation world.

Scripts run concurrently in-process by default. With --procs N, N child
interpreter processes are launched instead, with scripts assigned
round-robin.

Example:
  signloop run stories/emergence.story
  signloop run --procs 4 a.story b.story`,
		RunE: func(cmd *cobra.Command, args []string) error {
			extra, _ := cmd.Flags().GetStringSlice("script")
			scripts := append(args, extra...)
			if len(scripts) == 0 {
				return fmt.Errorf("no scripts given (pass paths or --script)")
			}

			cfg, logger, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			procs, _ := cmd.Flags().GetInt("procs")
			if procs > 1 {
				l := &launch.Launcher{Log: logger}
				cmds, err := l.Simulations(cmd.Context(), procs, scripts)
				if err != nil {
					return err
				}
				return launch.Wait(cmds)
			}

			var g errgroup.Group
			for _, path := range scripts {
				g.Go(func() error {
					src, err := os.ReadFile(path)
					if err != nil {
						return fmt.Errorf("reading %s: %w", path, err)
					}
					blocks, err := script.Parse(string(src))
					if err != nil {
						return fmt.Errorf("parsing %s: %w", path, err)
					}

					events := logging.NewEventLogger(cfg.Logging.EventDir, cfg.Logging.Level)
					defer events.Close()

					r := script.NewRunner(cfg.Simulation, logger.With("script", path), events)
					logger.Info("running script", "script", path, "run_id", r.RunID())
					if err := r.Run(blocks); err != nil {
						return fmt.Errorf("%s: %w", path, err)
					}
					logger.Info("script finished", "script", path, "tau", r.Tau())
					return nil
				})
			}
			return g.Wait()
		},
	}

	cmd.Flags().StringSlice("script", nil, "Script path to run (repeatable)")
	cmd.Flags().Int("procs", 1, "Number of child processes to fan scripts out to")
	return cmd
}
