// Package simulation provides a scenario-driven harness for multi-step
// sign-cycle experiments: declare agents and a sequence of steps, run them
// against real agents and a real substrate, and assert on the collected
// per-step snapshots.
package simulation
