// Package launch starts child interpreter processes so independent script
// runs can execute in separate address spaces.
package launch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
)

// Launcher spawns copies of an interpreter executable, one per simulation.
type Launcher struct {
	Log *slog.Logger

	// Exe is the interpreter binary to spawn. Empty means the current
	// executable.
	Exe string

	// Env is extra environment appended to the parent's for each child.
	Env []string
}

// Simulations starts n child processes, assigning script paths round-robin.
// Each child runs `<exe> run --script <path>`. Started commands are
// returned so the caller can wait on them.
func (l *Launcher) Simulations(ctx context.Context, n int, scripts []string) ([]*exec.Cmd, error) {
	if n <= 0 {
		return nil, fmt.Errorf("launch: process count %d must be positive", n)
	}
	if len(scripts) == 0 {
		return nil, errors.New("launch: no scripts to run")
	}

	exe := l.Exe
	if exe == "" {
		path, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("launch: resolving executable: %w", err)
		}
		exe = path
	}

	cmds := make([]*exec.Cmd, 0, n)
	for i := 0; i < n; i++ {
		script := scripts[i%len(scripts)]
		cmd := exec.CommandContext(ctx, exe, "run", "--script", script)
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		if len(l.Env) > 0 {
			cmd.Env = append(os.Environ(), l.Env...)
		}
		if err := cmd.Start(); err != nil {
			Wait(cmds)
			return nil, fmt.Errorf("launch: starting process %d: %w", i, err)
		}
		l.Log.Info("launched simulation process",
			"index", i, "pid", cmd.Process.Pid, "script", script)
		cmds = append(cmds, cmd)
	}
	return cmds, nil
}

// Wait blocks until every command exits, joining any failures.
func Wait(cmds []*exec.Cmd) error {
	var errs []error
	for _, cmd := range cmds {
		if err := cmd.Wait(); err != nil {
			errs = append(errs, fmt.Errorf("pid %d: %w", cmd.Process.Pid, err))
		}
	}
	return errors.Join(errs...)
}
