package agent

import (
	"testing"

	"github.com/nvandessel/signloop/internal/sign"
	"github.com/nvandessel/signloop/internal/substrate"
)

func TestExpressSymbolBindsAndAdmits(t *testing.T) {
	a := New("a", 16, 0.1)

	sym := a.ExpressSymbol("foo", sign.Pattern("101"), 3)

	if sym.Token != "foo" || sym.Pattern != sign.Pattern("101") {
		t.Errorf("expressed symbol = %v", sym)
	}
	if a.SymbolTable["foo"] != sign.Pattern("101") {
		t.Errorf("symbol table binding = %q, want %q", a.SymbolTable["foo"], "101")
	}
	tr := a.Memory.Find(sym)
	if tr == nil {
		t.Fatal("expected admitted trace")
	}
	if tr.Stability != 1.0 {
		t.Errorf("new trace stability = %v, want 1.0", tr.Stability)
	}
	if tr.TauIndex != 3 {
		t.Errorf("new trace tau index = %d, want 3", tr.TauIndex)
	}
	if len(tr.Interpretants) != 0 {
		t.Errorf("new trace has %d interpretants, want 0", len(tr.Interpretants))
	}
}

func TestExpressSymbolRebindOverwrites(t *testing.T) {
	a := New("a", 16, 0.1)
	a.ExpressSymbol("foo", sign.Pattern("101"), 0)
	a.ExpressSymbol("foo", sign.Pattern("110"), 1)

	if got := a.SymbolTable["foo"]; got != sign.Pattern("110") {
		t.Errorf("binding after rebind = %q, want %q (last write wins)", got, "110")
	}
	if len(a.SymbolTable) != 1 {
		t.Errorf("table size = %d, want 1 (no binding history)", len(a.SymbolTable))
	}
}

func TestExpressAndAdmissionAreDecoupled(t *testing.T) {
	// Threshold above 1.0 means no trace can ever be admitted, but the
	// table must still be updated.
	a := New("a", 16, 1.1)

	sym := a.ExpressSymbol("foo", sign.Pattern("101"), 0)

	if a.SymbolTable["foo"] != sign.Pattern("101") {
		t.Error("symbol table should be updated even when admission fails")
	}
	if a.Memory.Find(sym) != nil {
		t.Error("trace below threshold should be dropped silently")
	}
}

func TestInterpretStalePatternIsNoOp(t *testing.T) {
	a := New("a", 16, 0.1)
	sym := a.ExpressSymbol("foo", sign.Pattern("101"), 0)

	// Stale pattern: the token has been rebound since.
	a.ExpressSymbol("foo", sign.Pattern("110"), 1)
	if m := a.InterpretSymbol(sym, 2); m != nil {
		t.Errorf("interpreting stale pattern returned %v, want nil", m)
	}

	// The failed attempt must not have mutated the original trace.
	tr := a.Memory.Find(sym)
	if tr == nil {
		t.Fatal("original trace missing")
	}
	if len(tr.Interpretants) != 0 {
		t.Errorf("failed interpretation appended %d interpretants", len(tr.Interpretants))
	}
	if tr.Stability != 1.0 {
		t.Errorf("failed interpretation changed stability to %v", tr.Stability)
	}
}

func TestInterpretNovelSignLeavesProvisionalTrace(t *testing.T) {
	a := New("a", 16, 0.1)
	a.ExpressSymbol("foo", sign.Pattern("101"), 0)

	// A token with no binding at all is a novel sign, not a foreign one:
	// the encounter is remembered as a fresh trace carrying the meaning.
	novel := sign.NewSymbol("bar", sign.Pattern("011"))
	m := a.InterpretSymbol(novel, 2)
	if m == nil {
		t.Fatal("interpreting a novel sign should yield a meaning")
	}
	if m.Tau != 2 {
		t.Errorf("novel meaning tau = %d, want caller's 2", m.Tau)
	}

	tr := a.Memory.Find(novel)
	if tr == nil {
		t.Fatal("novel interpretation should admit a trace")
	}
	if len(tr.Interpretants) != 1 {
		t.Errorf("provisional trace interpretants = %d, want 1", len(tr.Interpretants))
	}
	if tr.TauIndex != 2 {
		t.Errorf("provisional trace tau index = %d, want 2", tr.TauIndex)
	}

	// The table is untouched; only expression binds.
	if _, bound := a.SymbolTable["bar"]; bound {
		t.Error("novel interpretation must not bind the token")
	}
}

func TestInterpretSymbolReinforcesAndRecords(t *testing.T) {
	a := New("a", 16, 0.1)
	sym := a.ExpressSymbol("foo", sign.Pattern("101"), 0)
	a.DecayMemory(0.5)

	m := a.InterpretSymbol(sym, 4)
	if m == nil {
		t.Fatal("expected a meaning")
	}
	if m.Description != "Interpretation of 'foo' at τ=0" {
		t.Errorf("description = %q", m.Description)
	}

	tr := a.Memory.Find(sym)
	if tr == nil {
		t.Fatal("trace missing")
	}
	if got := tr.Stability; got < 0.599 || got > 0.601 {
		t.Errorf("stability after reinforcement = %v, want 0.6", got)
	}
	if len(tr.Interpretants) != 1 {
		t.Fatalf("interpretants = %d, want 1", len(tr.Interpretants))
	}
	if tr.Interpretants[0].Description != m.Description {
		t.Error("recorded interpretant differs from returned meaning")
	}
}

func TestInterpretSymbolWithoutTraceStillYieldsMeaning(t *testing.T) {
	// Admission threshold too high for the trace, so interpretation finds
	// the binding but no trace to record into.
	a := New("a", 16, 1.1)
	sym := a.ExpressSymbol("foo", sign.Pattern("101"), 0)

	m := a.InterpretSymbol(sym, 9)
	if m == nil {
		t.Fatal("expected a meaning despite missing trace")
	}
	if m.Tau != 9 {
		t.Errorf("untraced meaning tau = %d, want caller's 9", m.Tau)
	}
}

func TestProjectSymbolDelegates(t *testing.T) {
	a := New("a", 16, 0.1)
	sub := substrate.New()
	sym := a.ExpressSymbol("foo", sign.Pattern("101"), 0)

	a.ProjectSymbol(sym, sub)
	a.ProjectSymbol(sym, sub)

	if got := sub.Activation(sym.Pattern); got != 2.0 {
		t.Errorf("substrate activation = %v, want 2.0", got)
	}
}

func TestMutateSymbolIsPure(t *testing.T) {
	a := New("a", 16, 0.1)
	sym := a.ExpressSymbol("foo", sign.Pattern("101"), 0)

	m := a.MutateSymbol(sym)

	if m.Token != "foo*" || m.Pattern != sym.Pattern {
		t.Errorf("mutated symbol = %v", m)
	}
	if _, bound := a.SymbolTable["foo*"]; bound {
		t.Error("mutation must not bind the mutated token")
	}
	if a.Memory.Len() != 1 {
		t.Errorf("mutation changed memory, len = %d", a.Memory.Len())
	}
}
