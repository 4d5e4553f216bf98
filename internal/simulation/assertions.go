package simulation

import (
	"testing"
)

// AssertStabilityConverges asserts that a trace's stability settles within
// [min, max] from a given step onward.
func AssertStabilityConverges(t *testing.T, result SimulationResult, key string, min, max float64, afterStep int) {
	t.Helper()
	for i := afterStep; i < len(result.Steps); i++ {
		s, ok := result.Steps[i].Stability[key]
		if !ok {
			t.Errorf("AssertStabilityConverges: step %d: trace %s not found", i, key)
			continue
		}
		if s < min || s > max {
			t.Errorf("AssertStabilityConverges: step %d: trace %s stability %.6f not in [%.4f, %.4f]", i, key, s, min, max)
		}
	}
}

// AssertNoStabilityExplosion asserts that no trace stability leaves [0, 1]
// in any step.
func AssertNoStabilityExplosion(t *testing.T, result SimulationResult) {
	t.Helper()
	for _, sr := range result.Steps {
		for key, s := range sr.Stability {
			if s < 0 || s > 1 {
				t.Errorf("AssertNoStabilityExplosion: step %d: trace %s stability %.6f outside [0, 1]", sr.Index, key, s)
			}
		}
	}
}

// AssertTraceGone asserts that a trace no longer exists at the given step.
func AssertTraceGone(t *testing.T, result SimulationResult, key string, atStep int) {
	t.Helper()
	if atStep >= len(result.Steps) {
		t.Fatalf("AssertTraceGone: step %d out of range (%d steps)", atStep, len(result.Steps))
	}
	if s, ok := result.Steps[atStep].Stability[key]; ok {
		t.Errorf("AssertTraceGone: step %d: trace %s still alive with stability %.6f", atStep, key, s)
	}
}

// AssertSubstrateEmpty asserts that the substrate holds no activations at
// the given step.
func AssertSubstrateEmpty(t *testing.T, result SimulationResult, atStep int) {
	t.Helper()
	if atStep >= len(result.Steps) {
		t.Fatalf("AssertSubstrateEmpty: step %d out of range (%d steps)", atStep, len(result.Steps))
	}
	sr := result.Steps[atStep]
	if sr.ActivePatterns != 0 || sr.SubstrateEnergy != 0 {
		t.Errorf("AssertSubstrateEmpty: step %d: %d patterns with energy %.6f remain", atStep, sr.ActivePatterns, sr.SubstrateEnergy)
	}
}

// AssertAttractor asserts an agent's attractor state at the given step.
// The scenario must set AttractorWindow.
func AssertAttractor(t *testing.T, result SimulationResult, agentID string, atStep int, want bool) {
	t.Helper()
	if atStep >= len(result.Steps) {
		t.Fatalf("AssertAttractor: step %d out of range (%d steps)", atStep, len(result.Steps))
	}
	got, ok := result.Steps[atStep].Attractor[agentID]
	if !ok {
		t.Fatalf("AssertAttractor: step %d: no attractor capture for %s (AttractorWindow unset?)", atStep, agentID)
	}
	if got != want {
		t.Errorf("AssertAttractor: step %d: %s attractor = %t, want %t", atStep, agentID, got, want)
	}
}
