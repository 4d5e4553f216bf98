package category

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/nvandessel/signloop/internal/sign"
)

func project(o *Object, pattern string, times int) {
	sym := sign.NewSymbol("t", sign.Pattern(pattern))
	for i := 0; i < times; i++ {
		o.Substrate.Project(sym)
	}
}

func TestInterpretVoidYieldsNothing(t *testing.T) {
	if got := New(Void, "v").Interpret(); got != nil {
		t.Errorf("Void interpretation = %v, want nil", got)
	}
}

func TestInterpretParticle(t *testing.T) {
	p := New(Particle, "p1")
	project(p, "101", 3)
	project(p, "110", 2)

	got := p.Interpret()

	want := ParticleInterpretation{ID: "p1", QuantumState: "q2", Energy: 5.0}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("particle interpretation mismatch (-want +got):\n%s", diff)
	}
}

func TestInterpretParticleQuantumStateIsHex(t *testing.T) {
	p := New(Particle, "p1")
	for i := 0; i < 12; i++ {
		project(p, strings.Repeat("1", i+1), 1)
	}

	got := p.Interpret().(ParticleInterpretation)
	if got.QuantumState != "qc" {
		t.Errorf("quantum state for 12 patterns = %q, want qc", got.QuantumState)
	}
}

func TestInterpretAtomFiltersParticleChildren(t *testing.T) {
	a := New(Atom, "a1")
	p1 := New(Particle, "p1")
	project(p1, "101", 2)
	p2 := New(Particle, "p2")
	project(p2, "110", 1)
	a.AddSubobject(p1)
	a.AddSubobject(New(Void, "noise")) // non-particle child is ignored
	a.AddSubobject(p2)

	got := a.Interpret()

	want := AtomInterpretation{
		ID:           "a1",
		AtomicNumber: 2,
		ShellConfig:  "2s2",
		ConstituentParticles: []ParticleInterpretation{
			{ID: "p1", QuantumState: "q1", Energy: 2.0},
			{ID: "p2", QuantumState: "q1", Energy: 1.0},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("atom interpretation mismatch (-want +got):\n%s", diff)
	}
}

func TestInterpretAtomRecomputesChildState(t *testing.T) {
	a := New(Atom, "a1")
	p := New(Particle, "p1")
	project(p, "101", 4)
	a.AddSubobject(p)

	first := a.Interpret().(AtomInterpretation)
	p.Substrate.Decay(0.5)
	second := a.Interpret().(AtomInterpretation)

	if first.ConstituentParticles[0].Energy != 4.0 {
		t.Errorf("first energy = %v, want 4.0", first.ConstituentParticles[0].Energy)
	}
	if second.ConstituentParticles[0].Energy != 2.0 {
		t.Errorf("second energy = %v, want recomputed 2.0 (no caching)", second.ConstituentParticles[0].Energy)
	}
}

func TestInterpretMoleculeBondChain(t *testing.T) {
	m := New(Molecule, "m1")
	for _, id := range []string{"a1", "a2", "a3"} {
		m.AddSubobject(New(Atom, id))
	}
	m.AddSubobject(New(Particle, "stray")) // non-atom child is ignored

	got := m.Interpret().(MoleculeInterpretation)

	if got.Formula != "Moleculem13" {
		t.Errorf("formula = %q, want Moleculem13", got.Formula)
	}
	wantBonds := []string{"a1-a2", "a2-a3"}
	if diff := cmp.Diff(wantBonds, got.Bonds); diff != "" {
		t.Errorf("bonds mismatch (-want +got):\n%s", diff)
	}
	if len(got.ConstituentAtoms) != 3 {
		t.Errorf("constituent atoms = %d, want 3", len(got.ConstituentAtoms))
	}
}

func TestInterpretMoleculeFewAtomsNoBonds(t *testing.T) {
	tests := []struct {
		name  string
		atoms int
	}{
		{"zero atoms", 0},
		{"one atom", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(Molecule, "m")
			for i := 0; i < tt.atoms; i++ {
				m.AddSubobject(New(Atom, "a"))
			}
			got := m.Interpret().(MoleculeInterpretation)
			if len(got.Bonds) != 0 {
				t.Errorf("bonds = %v, want empty under 2 atoms", got.Bonds)
			}
		})
	}
}

func TestInterpretCellFlattensAllChildren(t *testing.T) {
	c := New(Cell, "c1")
	p := New(Particle, "p1")
	project(p, "101", 1)
	c.AddSubobject(p)
	c.AddSubobject(New(Atom, "a1"))
	c.AddSubobject(New(Molecule, "m1"))
	c.AddSubobject(New(Void, "v1")) // Void yields nil and is skipped

	got := c.Interpret().(CellInterpretation)

	if got.Summary != "Cell c1 integrates 3 sub-meanings" {
		t.Errorf("summary = %q", got.Summary)
	}
	if len(got.ContributingMeanings) != 3 {
		t.Fatalf("contributing meanings = %d, want 3", len(got.ContributingMeanings))
	}
	for i, prefix := range []string{"particle p1", "atom a1", "molecule m1"} {
		if !strings.HasPrefix(got.ContributingMeanings[i], prefix) {
			t.Errorf("meaning[%d] = %q, want prefix %q", i, got.ContributingMeanings[i], prefix)
		}
	}
	if diff := cmp.Diff([]string{"homeostasis"}, got.EmergentProperties); diff != "" {
		t.Errorf("emergent properties mismatch (-want +got):\n%s", diff)
	}
}
