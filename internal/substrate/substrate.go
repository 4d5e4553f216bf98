// Package substrate implements the shared activation field that agents
// project signs into. Each pattern carries a scalar activation level that
// grows with projection and shrinks with multiplicative decay; entries that
// fall below the pruning threshold are removed entirely.
package substrate

import "github.com/nvandessel/signloop/internal/sign"

// PruneEpsilon is the activation level at or below which an entry is removed
// after decay. Pruning keeps the substrate bounded by the set of patterns
// that are actually alive.
const PruneEpsilon = 0.01

// Substrate maps patterns to activation levels.
// A Substrate is exclusively owned by one category object (or one agent-less
// driver context) and is not safe for unsynchronized concurrent mutation.
type Substrate struct {
	activations map[sign.Pattern]float64
}

// New creates an empty substrate.
func New() *Substrate {
	return &Substrate{activations: make(map[sign.Pattern]float64)}
}

// Project increments the activation of the symbol's pattern by exactly 1.0,
// inserting a zero entry first if the pattern is absent. Accumulation is
// unbounded: activation represents cumulative projection pressure.
func (s *Substrate) Project(sym sign.Symbol) {
	s.activations[sym.Pattern] += 1.0
}

// Decay multiplies every activation by (1 - rate), flooring at 0, then
// prunes every entry at or below PruneEpsilon. Rates outside [0, 1] are not
// validated; that is the caller's responsibility.
func (s *Substrate) Decay(rate float64) {
	for p, v := range s.activations {
		v *= 1.0 - rate
		if v < 0 {
			v = 0
		}
		if v <= PruneEpsilon {
			delete(s.activations, p)
			continue
		}
		s.activations[p] = v
	}
}

// Activation returns the current activation level for a pattern, or 0 if
// the pattern is not active.
func (s *Substrate) Activation(p sign.Pattern) float64 {
	return s.activations[p]
}

// ActiveCount returns the number of distinct patterns with a live entry.
func (s *Substrate) ActiveCount() int {
	return len(s.activations)
}

// TotalEnergy returns the sum of all activation levels.
func (s *Substrate) TotalEnergy() float64 {
	var total float64
	for _, v := range s.activations {
		total += v
	}
	return total
}
