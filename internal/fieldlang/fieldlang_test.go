package fieldlang

import (
	"bytes"
	"io"
	"math"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/nvandessel/signloop/internal/logging"
)

func newRNG() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func TestProjectConvergesWithoutNoise(t *testing.T) {
	f := NewField(3)
	interp := &Interpretation{Data: []float64{1, 2, 3}}

	for i := 0; i < 50; i++ {
		Project(f, interp, 0.5, 0, newRNG())
	}

	for i, want := range interp.Data {
		if math.Abs(f.State[i]-want) > 1e-6 {
			t.Errorf("state[%d] = %v, want ≈ %v", i, f.State[i], want)
		}
	}
}

func TestProjectSingleStepBlend(t *testing.T) {
	f := NewField(2)
	f.State = []float64{1, 1}
	interp := &Interpretation{Data: []float64{3, 5}}

	Project(f, interp, 0.25, 0, newRNG())

	want := []float64{0.75*1 + 0.25*3, 0.75*1 + 0.25*5}
	for i := range want {
		if math.Abs(f.State[i]-want[i]) > 1e-12 {
			t.Errorf("state[%d] = %v, want %v", i, f.State[i], want[i])
		}
	}
}

func TestTraceDistance(t *testing.T) {
	f := &Field{State: []float64{0, 3}}
	interp := &Interpretation{Data: []float64{4, 0}}

	if got := TraceDistance(f, interp); math.Abs(got-5) > 1e-12 {
		t.Errorf("distance = %v, want 5", got)
	}
}

func TestCoherence(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
		want float64
	}{
		{"identical", []float64{1, 2}, []float64{1, 2}, 1},
		{"orthogonal", []float64{1, 0}, []float64{0, 1}, 0},
		{"opposite", []float64{1, 0}, []float64{-1, 0}, -1},
		{"zero magnitude", []float64{0, 0}, []float64{1, 1}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Coherence(tt.a, tt.b); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("coherence = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTokenize(t *testing.T) {
	got := Tokenize(`interpretation i = [0.1, 0.2]`)
	want := []string{"interpretation", "i", "=", "[", "0.1", "0.2", "]"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestParseProgram(t *testing.T) {
	src := `
field psi 4
interpretation i = [1, 0, 1, 0]
project psi <- i {alpha: 0.5 noise: 0.1 steps: 10}
trace t = distance(psi, i)
meaning m = compare(t, 0.5)
`
	stmts, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(stmts) != 5 {
		t.Fatalf("statements = %d, want 5", len(stmts))
	}

	proj, ok := stmts[2].(ProjectStmt)
	if !ok {
		t.Fatalf("third statement = %#v, want ProjectStmt", stmts[2])
	}
	want := ProjectStmt{Target: "psi", Interp: "i", Alpha: 0.5, Noise: 0.1, Steps: 10}
	if diff := cmp.Diff(want, proj); diff != "" {
		t.Errorf("project mismatch (-want +got):\n%s", diff)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unknown statement", "conjure x"},
		{"bad field size", "field psi big"},
		{"unterminated interpretation", "interpretation i = [1 2"},
		{"project missing braces", "project psi <- i alpha: 0.5"},
		{"bad interpretation value", "interpretation i = [one]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(tt.src); err == nil {
				t.Errorf("Parse(%q) succeeded, want error", tt.src)
			}
		})
	}
}

// execProgram parses and executes src, returning the executor and output.
func execProgram(t *testing.T, src string) (*Executor, *bytes.Buffer, error) {
	t.Helper()
	stmts, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	var out bytes.Buffer
	e := NewExecutor(logging.NewLogger("info", io.Discard), &out)
	e.SeedRNG(7, 11)
	return e, &out, e.Execute(stmts)
}

func TestExecuteProjectionLowersDistance(t *testing.T) {
	e, out, err := execProgram(t, `
field psi 3
interpretation i = [1, 1, 1]
trace before = distance(psi, i)
project psi <- i {alpha: 0.5 noise: 0 steps: 20}
trace after = distance(psi, i)
meaning m = compare(after, 0.01)
logmeaning m
`)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	before, _ := e.Trace("before")
	after, _ := e.Trace("after")
	if after >= before {
		t.Errorf("projection did not converge: before=%v after=%v", before, after)
	}
	held, ok := e.Meaning("m")
	if !ok || !held {
		t.Errorf("meaning m = %v, %v, want held", held, ok)
	}
	if !strings.Contains(out.String(), "Meaning declared: m") {
		t.Errorf("output missing meaning log: %q", out.String())
	}
}

func TestExecuteNarrateAndLogCoherence(t *testing.T) {
	_, out, err := execProgram(t, `
field psi 2
narratereturn "the" "field" "stirs"
logcoherence psi
expresssymbol fire into psi
modulate fire intensity 0.75
`)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	text := out.String()
	for _, want := range []string{
		"the field stirs",
		"Ψ[psi] = [0.00, 0.00]",
		"Expressed fire into psi",
		"Modulated fire @ 0.75",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
}

func TestExecuteUnknownReferences(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"project unknown field", "interpretation i = [1]\nproject psi <- i {alpha: 0.5 noise: 0 steps: 1}"},
		{"trace unknown interpretation", "field psi 1\ntrace t = distance(psi, ghost)"},
		{"meaning unknown trace", "meaning m = compare(ghost, 0.5)"},
		{"logmeaning unknown", "logmeaning ghost"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execProgram(t, tt.src)
			if err == nil {
				t.Error("expected execution error")
			}
		})
	}
}
