package main

import (
	"fmt"
	"io"
	"os"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/nvandessel/signloop/internal/shell"
)

func newReplCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive shell",
		Long: `Start an interactive shell over category objects and agents.

Type "help" inside the shell for the command list.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			rl, err := readline.NewEx(&readline.Config{
				Prompt:          "signloop> ",
				InterruptPrompt: "^C",
			})
			if err != nil {
				return fmt.Errorf("starting readline: %w", err)
			}
			defer rl.Close()

			s := shell.New(cfg.Simulation, logger, os.Stdout)
			for {
				line, err := rl.Readline()
				if err == readline.ErrInterrupt {
					continue
				}
				if err == io.EOF {
					return nil
				}
				if err != nil {
					return err
				}

				quit, execErr := s.Execute(line)
				if execErr != nil {
					fmt.Fprintf(os.Stdout, "error: %v\n", execErr)
				}
				if quit {
					return nil
				}
			}
		},
	}
}
