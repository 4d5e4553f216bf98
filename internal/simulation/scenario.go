package simulation

import (
	"github.com/nvandessel/signloop/internal/agent"
	"github.com/nvandessel/signloop/internal/sign"
	"github.com/nvandessel/signloop/internal/substrate"
)

// Scenario defines a complete simulation experiment.
type Scenario struct {
	Name   string
	Agents []AgentSpec
	Steps  []Step

	// DecayRate applies per tick to agent memory and the substrate.
	// 0 means the configured default.
	DecayRate float64

	// AttractorWindow, when positive, captures per-agent attractor and
	// differentiation state in every step snapshot.
	AttractorWindow int

	// BeforeStep, when non-nil, is called before each step executes.
	// Use this to manipulate agents between steps (e.g., forcing memory
	// decay for eviction testing).
	BeforeStep func(stepIndex int, agents map[string]*agent.Agent)
}

// AgentSpec is a flat builder for constructing agents in tests. Zero
// capacity and threshold fall back to the runner's configured defaults.
type AgentSpec struct {
	ID                 string
	MemoryCapacity     int
	CoherenceThreshold float64
}

// Utterance names one agent/symbol pairing used by step events.
type Utterance struct {
	Agent   string
	Token   string
	Pattern sign.Pattern
}

// Step is one scenario step: expressions, projections, and interpretations
// happen at the step's τ, then Ticks decay cycles advance the clock.
type Step struct {
	// Label is an optional human-readable tag for debugging output.
	Label string

	Say     []Utterance
	Project []Utterance
	Hear    []Utterance
	Ticks   int
}

// StepResult captures the world state after one step.
type StepResult struct {
	Index int
	Label string
	Tau   uint64

	// Stability maps "agent:token" to the trace's stability, for every
	// trace alive at the end of the step.
	Stability map[string]float64

	// Interpretants maps "agent:token" to the trace's interpretant count.
	Interpretants map[string]int

	SubstrateEnergy float64
	ActivePatterns  int

	// Attractor and Differentiation are populated per agent when the
	// scenario sets AttractorWindow.
	Attractor       map[string]bool
	Differentiation map[string]bool
}

// SimulationResult captures all step snapshots and the final world state.
type SimulationResult struct {
	Steps     []StepResult
	Agents    map[string]*agent.Agent
	Substrate *substrate.Substrate
}

// TraceKey builds the canonical map key for an agent's trace.
func TraceKey(agentID, token string) string {
	return agentID + ":" + token
}
