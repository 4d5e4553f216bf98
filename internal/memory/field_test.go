package memory

import (
	"fmt"
	"math"
	"testing"

	"github.com/nvandessel/signloop/internal/sign"
)

// traceWithStability builds a trace for token with the given stability.
func traceWithStability(token string, stability float64) *Trace {
	tr := NewTrace(sign.NewSymbol(token, sign.Pattern("p")), 0)
	tr.Stability = stability
	return tr
}

func TestAdmitThreshold(t *testing.T) {
	f := NewField(4)

	if f.Admit(traceWithStability("weak", 0.05), 0.1) {
		t.Error("trace below eta should be rejected")
	}
	if f.Len() != 0 {
		t.Errorf("len after rejection = %d, want 0", f.Len())
	}

	if !f.Admit(traceWithStability("exact", 0.1), 0.1) {
		t.Error("trace at exactly eta should be admitted")
	}
	if f.Len() != 1 {
		t.Errorf("len after admission = %d, want 1", f.Len())
	}
}

func TestAdmitZeroCapacityRejects(t *testing.T) {
	f := NewField(0)

	if f.Admit(traceWithStability("t", 1.0), 0.0) {
		t.Error("zero-capacity field should admit nothing")
	}
	if f.Len() != 0 {
		t.Errorf("len = %d, want 0", f.Len())
	}

	neg := NewField(-1)
	if neg.Admit(traceWithStability("t", 1.0), 0.0) {
		t.Error("negative-capacity field should admit nothing")
	}
}

func TestAdmitCapacityEvictsOldest(t *testing.T) {
	f := NewField(3)
	for i := 0; i < 3; i++ {
		f.Admit(traceWithStability(fmt.Sprintf("t%d", i), 1.0), 0.1)
	}

	// The incoming trace is weaker than every resident, but eviction is
	// strictly FIFO: t0 goes regardless.
	f.Admit(traceWithStability("new", 0.2), 0.1)

	if f.Len() != 3 {
		t.Fatalf("len = %d, want capacity 3", f.Len())
	}
	if f.Find(sign.NewSymbol("t0", sign.Pattern("p"))) != nil {
		t.Error("oldest trace t0 should have been evicted")
	}
	if f.Find(sign.NewSymbol("new", sign.Pattern("p"))) == nil {
		t.Error("newly admitted trace missing")
	}
}

func TestFieldNeverExceedsCapacity(t *testing.T) {
	f := NewField(5)
	for i := 0; i < 50; i++ {
		f.Admit(traceWithStability(fmt.Sprintf("t%d", i), 1.0), 0.0)
		if f.Len() > 5 {
			t.Fatalf("len = %d after %d admissions, exceeds capacity 5", f.Len(), i+1)
		}
	}
	// Survivors are the five most recent.
	for i := 45; i < 50; i++ {
		if f.Find(sign.NewSymbol(fmt.Sprintf("t%d", i), sign.Pattern("p"))) == nil {
			t.Errorf("trace t%d should have survived", i)
		}
	}
}

func TestReinforceClampsToUnitInterval(t *testing.T) {
	f := NewField(4)
	sym := sign.NewSymbol("foo", sign.Pattern("101"))
	tr := NewTrace(sym, 0)
	tr.Stability = 0.5
	f.Admit(tr, 0.1)

	for i := 0; i < 20; i++ {
		f.ReinforceSymbol(sym, 0.1)
	}
	if tr.Stability != 1.0 {
		t.Errorf("stability after heavy reinforcement = %v, want clamp at 1.0", tr.Stability)
	}

	for i := 0; i < 40; i++ {
		f.ReinforceSymbol(sym, -0.1)
	}
	if tr.Stability != 0.0 {
		t.Errorf("stability after heavy weakening = %v, want clamp at 0.0", tr.Stability)
	}
}

func TestReinforceMatchesFullSymbolEquality(t *testing.T) {
	f := NewField(4)
	a := NewTrace(sign.NewSymbol("foo", sign.Pattern("101")), 0)
	a.Stability = 0.5
	b := NewTrace(sign.NewSymbol("foo", sign.Pattern("110")), 0)
	b.Stability = 0.5
	f.Admit(a, 0.1)
	f.Admit(b, 0.1)

	f.ReinforceSymbol(sign.NewSymbol("foo", sign.Pattern("101")), 0.2)

	if math.Abs(a.Stability-0.7) > 1e-12 {
		t.Errorf("matching trace stability = %v, want 0.7", a.Stability)
	}
	if b.Stability != 0.5 {
		t.Errorf("same-token different-pattern trace stability = %v, want untouched 0.5", b.Stability)
	}
}

func TestDecayAllRemovesZeroStability(t *testing.T) {
	f := NewField(4)
	strong := traceWithStability("strong", 1.0)
	weak := traceWithStability("weak", 0.1)
	f.Admit(strong, 0.0)
	f.Admit(weak, 0.0)

	f.DecayAll(0.1)

	if f.Len() != 1 {
		t.Fatalf("len after decay = %d, want 1", f.Len())
	}
	if f.Find(sign.NewSymbol("weak", sign.Pattern("p"))) != nil {
		t.Error("trace decayed to zero should be removed")
	}
	if math.Abs(strong.Stability-0.9) > 1e-12 {
		t.Errorf("surviving stability = %v, want 0.9", strong.Stability)
	}
}

func TestDecayAllPreservesOrder(t *testing.T) {
	f := NewField(8)
	f.Admit(traceWithStability("a", 1.0), 0.0)
	f.Admit(traceWithStability("b", 0.05), 0.0)
	f.Admit(traceWithStability("c", 1.0), 0.0)

	f.DecayAll(0.1)

	traces := f.Traces()
	if len(traces) != 2 {
		t.Fatalf("len = %d, want 2", len(traces))
	}
	if traces[0].Symbol.Token != "a" || traces[1].Symbol.Token != "c" {
		t.Errorf("order after decay = [%s %s], want [a c]",
			traces[0].Symbol.Token, traces[1].Symbol.Token)
	}
}

func TestStabilityInvariantUnderMixedOperations(t *testing.T) {
	f := NewField(4)
	sym := sign.NewSymbol("foo", sign.Pattern("101"))
	f.Admit(NewTrace(sym, 0), 0.1)

	ops := []func(){
		func() { f.ReinforceSymbol(sym, 0.3) },
		func() { f.DecayAll(0.2) },
		func() { f.ReinforceSymbol(sym, -0.7) },
		func() { f.ReinforceSymbol(sym, 0.9) },
		func() { f.DecayAll(0.05) },
	}
	for i, op := range ops {
		op()
		for _, tr := range f.Traces() {
			if tr.Stability < 0 || tr.Stability > 1 {
				t.Fatalf("after op %d: stability %v outside [0,1]", i, tr.Stability)
			}
		}
	}
}
