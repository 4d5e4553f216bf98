package simulation_test

import (
	"testing"

	"github.com/nvandessel/signloop/internal/agent"
	"github.com/nvandessel/signloop/internal/simulation"
)

// A full memory field evicts its oldest trace on admission, even when that
// trace is the most stable one held.
func TestOldestTraceEvictedAtCapacity(t *testing.T) {
	var lenBefore []int

	r := simulation.NewRunner(t)
	result := r.Run(simulation.Scenario{
		Name:   "fifo-eviction",
		Agents: []simulation.AgentSpec{{ID: "solo", MemoryCapacity: 2}},
		BeforeStep: func(_ int, agents map[string]*agent.Agent) {
			lenBefore = append(lenBefore, agents["solo"].Memory.Len())
		},
		Steps: []simulation.Step{
			// fire is reinforced to maximum stability before anything
			// else arrives.
			{Say: []simulation.Utterance{{Agent: "solo", Token: "fire", Pattern: "101"}},
				Hear: []simulation.Utterance{{Agent: "solo", Token: "fire", Pattern: "101"}}},
			{Say: []simulation.Utterance{{Agent: "solo", Token: "water", Pattern: "010"}}},
			{Say: []simulation.Utterance{{Agent: "solo", Token: "earth", Pattern: "110"}}},
		},
	})

	want := []int{0, 1, 2}
	for i, n := range lenBefore {
		if n != want[i] {
			t.Errorf("memory length before step %d = %d, want %d", i, n, want[i])
		}
	}

	// fire was at full stability and still went first.
	if got := result.Steps[1].Stability[simulation.TraceKey("solo", "fire")]; got != 1.0 {
		t.Errorf("fire stability before eviction = %v, want 1.0", got)
	}
	simulation.AssertTraceGone(t, result, simulation.TraceKey("solo", "fire"), 2)

	final := result.Steps[2].Stability
	for _, token := range []string{"water", "earth"} {
		if _, ok := final[simulation.TraceKey("solo", token)]; !ok {
			t.Errorf("trace %s missing after eviction", token)
		}
	}
}

// Interpreting a never-expressed symbol admits a provisional trace: the
// novel encounter is remembered, and its single interpretant keeps the
// agent out of the attractor state.
func TestColdInterpretationAdmitsProvisionalTrace(t *testing.T) {
	r := simulation.NewRunner(t)
	result := r.Run(simulation.Scenario{
		Name:            "cold-start",
		Agents:          []simulation.AgentSpec{{ID: "solo"}},
		AttractorWindow: 3,
		Steps: []simulation.Step{
			{Hear: []simulation.Utterance{{Agent: "solo", Token: "ghost", Pattern: "111"}}},
		},
	})

	key := simulation.TraceKey("solo", "ghost")
	if _, ok := result.Steps[0].Stability[key]; !ok {
		t.Error("cold interpretation should leave a trace")
	}
	if got := result.Steps[0].Interpretants[key]; got != 1 {
		t.Errorf("provisional trace interpretants = %d, want 1", got)
	}

	// The under-matured trace vetoes the symmetry check.
	simulation.AssertAttractor(t, result, "solo", 0, false)
}
