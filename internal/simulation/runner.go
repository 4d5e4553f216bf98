package simulation

import (
	"testing"

	"github.com/nvandessel/signloop/internal/agent"
	"github.com/nvandessel/signloop/internal/config"
	"github.com/nvandessel/signloop/internal/sign"
	"github.com/nvandessel/signloop/internal/substrate"
)

// Runner orchestrates multi-step simulation experiments against real
// agents and a real substrate.
type Runner struct {
	t   *testing.T
	cfg config.SimulationConfig

	agents map[string]*agent.Agent
	sub    *substrate.Substrate
	tau    uint64
}

// NewRunner creates a simulation runner with default configuration.
func NewRunner(t *testing.T) *Runner {
	t.Helper()
	return &Runner{
		t:      t,
		cfg:    config.Default().Simulation,
		agents: make(map[string]*agent.Agent),
		sub:    substrate.New(),
	}
}

// Run executes the scenario and returns the collected results.
func (r *Runner) Run(scenario Scenario) SimulationResult {
	r.t.Helper()

	for _, spec := range scenario.Agents {
		capacity := spec.MemoryCapacity
		if capacity == 0 {
			capacity = r.cfg.MemoryCapacity
		}
		threshold := spec.CoherenceThreshold
		if threshold == 0 {
			threshold = r.cfg.CoherenceThreshold
		}
		r.agents[spec.ID] = agent.New(spec.ID, capacity, threshold)
	}

	rate := scenario.DecayRate
	if rate == 0 {
		rate = r.cfg.TickDecayRate
	}

	steps := make([]StepResult, len(scenario.Steps))
	for i, step := range scenario.Steps {
		if scenario.BeforeStep != nil {
			scenario.BeforeStep(i, r.agents)
		}
		steps[i] = r.runStep(i, step, rate, scenario.AttractorWindow)
	}

	return SimulationResult{
		Steps:     steps,
		Agents:    r.agents,
		Substrate: r.sub,
	}
}

// runStep executes a single step and snapshots the resulting state.
func (r *Runner) runStep(index int, step Step, rate float64, window int) StepResult {
	r.t.Helper()

	for _, u := range step.Say {
		r.agentFor(u.Agent).ExpressSymbol(u.Token, u.Pattern, r.tau)
	}
	for _, u := range step.Project {
		sym := sign.Symbol{Token: u.Token, Pattern: u.Pattern}
		r.agentFor(u.Agent).ProjectSymbol(sym, r.sub)
	}
	for _, u := range step.Hear {
		sym := sign.Symbol{Token: u.Token, Pattern: u.Pattern}
		r.agentFor(u.Agent).InterpretSymbol(sym, r.tau)
	}
	for t := 0; t < step.Ticks; t++ {
		for _, a := range r.agents {
			a.DecayMemory(rate)
		}
		r.sub.Decay(rate)
		r.tau++
	}

	return r.snapshot(index, step.Label, window)
}

func (r *Runner) snapshot(index int, label string, window int) StepResult {
	sr := StepResult{
		Index:           index,
		Label:           label,
		Tau:             r.tau,
		Stability:       make(map[string]float64),
		Interpretants:   make(map[string]int),
		SubstrateEnergy: r.sub.TotalEnergy(),
		ActivePatterns:  r.sub.ActiveCount(),
	}
	if window > 0 {
		sr.Attractor = make(map[string]bool)
		sr.Differentiation = make(map[string]bool)
	}

	for id, a := range r.agents {
		for _, tr := range a.Memory.Traces() {
			key := TraceKey(id, tr.Symbol.Token)
			sr.Stability[key] = tr.Stability
			sr.Interpretants[key] = len(tr.Interpretants)
		}
		if window > 0 {
			sr.Attractor[id] = a.IsAttractorState(window)
			sr.Differentiation[id] = a.IsDifferentiating(window)
		}
	}
	return sr
}

func (r *Runner) agentFor(id string) *agent.Agent {
	r.t.Helper()
	a, ok := r.agents[id]
	if !ok {
		r.t.Fatalf("scenario references undeclared agent %q", id)
	}
	return a
}
