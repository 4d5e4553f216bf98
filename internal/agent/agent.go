// Package agent implements the sign-cycle actor: an identity enacted through
// recursive cycles of expression, projection, interpretation, and decay.
// An agent owns a symbol table (its current token→pattern bindings) and a
// bounded memory field of decaying traces.
package agent

import (
	"github.com/nvandessel/signloop/internal/memory"
	"github.com/nvandessel/signloop/internal/sign"
	"github.com/nvandessel/signloop/internal/substrate"
)

// reinforceDelta is the fixed stability boost applied to matching traces on
// each successful interpretation.
const reinforceDelta = 0.1

// Agent expresses, projects, and interprets symbolic signs. The cycle
// express → project → interpret → decay repeats indefinitely; there is no
// terminal state.
//
// An Agent is exclusively owned (by a category object or a driver) and is
// not safe for unsynchronized concurrent mutation.
type Agent struct {
	// ID identifies the agent.
	ID string
	// SymbolTable holds the agent's current bindings, token → pattern.
	// Rebinding overwrites; no history is kept at the table level.
	SymbolTable map[string]sign.Pattern
	// Memory is the agent's bounded trace store.
	Memory *memory.Field
	// CoherenceThreshold is the minimum stability required for memory
	// admission.
	CoherenceThreshold float64
}

// New creates an agent with an empty symbol table and an empty memory field
// bounded at memoryCapacity traces.
func New(id string, memoryCapacity int, coherenceThreshold float64) *Agent {
	return &Agent{
		ID:                 id,
		SymbolTable:        make(map[string]sign.Pattern),
		Memory:             memory.NewField(memoryCapacity),
		CoherenceThreshold: coherenceThreshold,
	}
}

// ExpressSymbol binds token to pattern (overwriting any prior binding) and
// attempts to admit a fresh full-stability trace into memory at the agent's
// coherence threshold. Expression and admission are decoupled: the table is
// updated even when the trace is silently dropped.
// Returns the expressed symbol.
func (a *Agent) ExpressSymbol(token string, pattern sign.Pattern, tau uint64) sign.Symbol {
	a.SymbolTable[token] = pattern
	sym := sign.NewSymbol(token, pattern)
	a.Memory.Admit(memory.NewTrace(sym, tau), a.CoherenceThreshold)
	return sym
}

// ProjectSymbol projects the symbol into the given substrate. The agent
// keeps no local record of projections.
func (a *Agent) ProjectSymbol(sym sign.Symbol, sub *substrate.Substrate) {
	sub.Project(sym)
}

// InterpretSymbol attempts to interpret sym at recursion index tau.
//
// A token bound to a different pattern is a stale or foreign sign: the call
// yields nil with no mutation. A token with no binding at all is a novel
// sign: the encounter is remembered as a fresh trace carrying the meaning
// (admitted at the agent's coherence threshold) and the meaning is
// returned. Interpreting a novel sign therefore breaks any attractor state,
// since the new trace is under-matured. On a matching binding every
// matching trace is reinforced, a meaning is constructed, appended to the
// first trace matching the full symbol, and returned.
//
// A meaning recorded in memory is anchored at the trace's creation index
// rather than the call's tau, so repeated interpretation of a stable sign
// produces textually identical interpretants. The caller's tau is used only
// when no trace survives in memory (admission dropped it or decay evicted
// it); such a meaning is returned but not recorded.
func (a *Agent) InterpretSymbol(sym sign.Symbol, tau uint64) *sign.Meaning {
	bound, ok := a.SymbolTable[sym.Token]
	if ok && bound != sym.Pattern {
		return nil
	}
	if !ok {
		tr := memory.NewTrace(sym, tau)
		m := sign.MeaningOf(sym, tau)
		tr.Interpretants = append(tr.Interpretants, m)
		a.Memory.Admit(tr, a.CoherenceThreshold)
		return &m
	}

	a.Memory.ReinforceSymbol(sym, reinforceDelta)

	if tr := a.Memory.Find(sym); tr != nil {
		m := sign.MeaningOf(sym, tr.TauIndex)
		tr.Interpretants = append(tr.Interpretants, m)
		return &m
	}
	m := sign.MeaningOf(sym, tau)
	return &m
}

// MutateSymbol returns a drifted copy of sym. Agent state is untouched.
func (a *Agent) MutateSymbol(sym sign.Symbol) sign.Symbol {
	return sym.Mutate()
}

// DecayMemory lowers every trace's stability by rate and evicts traces that
// reach zero.
func (a *Agent) DecayMemory(rate float64) {
	a.Memory.DecayAll(rate)
}
