package agent

import "github.com/nvandessel/signloop/internal/memory"

// Symmetry analysis: pure, read-only checks over an agent's interpretive
// history. An agent whose recent interpretants have stopped changing sits in
// an attractor state; one whose recent interpretants still vary is
// differentiating.

// DetectSymmetry reports whether every trace's interpretant history has
// stabilized over the last window entries.
//
// A trace with fewer than window+1 interpretants vetoes the whole check: an
// under-matured sign means the agent as a whole has not stabilized. An agent
// with zero traces is trivially symmetric.
func DetectSymmetry(a *Agent, window int) bool {
	for _, tr := range a.Memory.Traces() {
		meanings := tr.Interpretants
		if len(meanings) < window+1 {
			return false
		}
		last := meanings[len(meanings)-window:]
		first := last[0].Description
		for _, m := range last[1:] {
			if m.Description != first {
				return false
			}
		}
	}
	return true
}

// DetectDifferentiation reports whether any trace shows recent change in its
// interpretant descriptions. Traces with fewer than window+1 interpretants
// are skipped rather than vetoing.
func DetectDifferentiation(a *Agent, window int) bool {
	for _, tr := range a.Memory.Traces() {
		if differentiates(tr, window) {
			return true
		}
	}
	return false
}

func differentiates(tr *memory.Trace, window int) bool {
	meanings := tr.Interpretants
	if len(meanings) < window+1 {
		return false
	}
	last := meanings[len(meanings)-window:]
	for i := 1; i < len(last); i++ {
		if last[i].Description != last[i-1].Description {
			return true
		}
	}
	return false
}

// DetectAttractor is an alias for DetectSymmetry.
func DetectAttractor(a *Agent, window int) bool {
	return DetectSymmetry(a, window)
}

// IsAttractorState reports whether all of the agent's memory traces have
// stabilized their interpretants over the last window entries.
func (a *Agent) IsAttractorState(window int) bool {
	return DetectAttractor(a, window)
}

// IsDifferentiating reports whether any of the agent's memory traces shows
// recent interpretive change.
func (a *Agent) IsDifferentiating(window int) bool {
	return DetectDifferentiation(a, window)
}
