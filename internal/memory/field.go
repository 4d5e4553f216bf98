// Package memory implements the capacity-bounded trace store owned by each
// agent. Traces carry a stability score in [0, 1] that reinforcement raises
// and decay lowers; a trace that decays to zero is evicted from its field.
package memory

import "github.com/nvandessel/signloop/internal/sign"

// Trace is a memory record of an expressed symbol: a decaying stability
// score and an append-only history of interpretive events.
type Trace struct {
	// Symbol is the expressed sign this trace records.
	Symbol sign.Symbol
	// TauIndex is the recursion index at which the trace was created.
	TauIndex uint64
	// Stability is the trace's admission/retention score, clamped to [0, 1].
	Stability float64
	// Interpretants is the append-only sequence of meanings produced by
	// interpreting this trace's symbol.
	Interpretants []sign.Meaning
}

// NewTrace creates a trace for a freshly expressed symbol with full
// stability and no interpretants.
func NewTrace(sym sign.Symbol, tau uint64) *Trace {
	return &Trace{Symbol: sym, TauIndex: tau, Stability: 1.0}
}

// Field is an insertion-ordered, capacity-bounded store of traces.
// A Field is exclusively owned by one agent.
type Field struct {
	traces    []*Trace
	maxTraces int
}

// NewField creates an empty field holding at most maxTraces traces.
func NewField(maxTraces int) *Field {
	return &Field{maxTraces: maxTraces}
}

// Admit inserts the trace iff its stability meets the admission threshold
// eta. When the field is at capacity, the oldest trace is evicted
// unconditionally to make room: eviction is strictly FIFO and ignores the
// relative stabilities of the evictee and the newcomer. A field with
// non-positive capacity admits nothing.
// Returns whether the trace was admitted.
func (f *Field) Admit(trace *Trace, eta float64) bool {
	if f.maxTraces <= 0 {
		return false
	}
	if trace.Stability < eta {
		return false
	}
	if len(f.traces) >= f.maxTraces {
		f.traces = f.traces[1:]
	}
	f.traces = append(f.traces, trace)
	return true
}

// ReinforceSymbol raises the stability of every trace whose symbol equals
// sym by full equality (token and pattern), clamping to [0, 1]. A negative
// delta weakens instead.
func (f *Field) ReinforceSymbol(sym sign.Symbol, delta float64) {
	for _, tr := range f.traces {
		if tr.Symbol != sym {
			continue
		}
		tr.Stability = clamp01(tr.Stability + delta)
	}
}

// DecayAll lowers every trace's stability by rate, flooring at 0, then
// removes every trace whose stability reached exactly 0.
func (f *Field) DecayAll(rate float64) {
	kept := f.traces[:0]
	for _, tr := range f.traces {
		tr.Stability -= rate
		if tr.Stability <= 0 {
			tr.Stability = 0
			continue
		}
		kept = append(kept, tr)
	}
	// Clear the tail so evicted traces do not linger in the backing array.
	for i := len(kept); i < len(f.traces); i++ {
		f.traces[i] = nil
	}
	f.traces = kept
}

// Find returns the first trace whose symbol equals sym by full equality,
// or nil if none exists.
func (f *Field) Find(sym sign.Symbol) *Trace {
	for _, tr := range f.traces {
		if tr.Symbol == sym {
			return tr
		}
	}
	return nil
}

// Len returns the number of traces currently held.
func (f *Field) Len() int {
	return len(f.traces)
}

// Traces returns the traces in insertion order (oldest first). The returned
// slice is the field's backing store; callers must not modify it.
func (f *Field) Traces() []*Trace {
	return f.traces
}

// StabilitySum returns the sum of all trace stabilities.
func (f *Field) StabilitySum() float64 {
	var total float64
	for _, tr := range f.traces {
		total += tr.Stability
	}
	return total
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
