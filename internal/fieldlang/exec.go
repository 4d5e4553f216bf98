package fieldlang

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"strings"

	"github.com/nvandessel/signloop/internal/visualization"
)

// Executor runs field-language programs. It owns the name→field and
// name→interpretation registries plus the computed trace and meaning
// results, and renders human-readable output to its writer.
type Executor struct {
	log *slog.Logger
	out io.Writer
	rng *rand.Rand

	fields   map[string]*Field
	interps  map[string]*Interpretation
	traces   map[string]float64
	meanings map[string]bool
}

// NewExecutor creates an executor writing program output to out.
// logger must be non-nil.
func NewExecutor(logger *slog.Logger, out io.Writer) *Executor {
	return &Executor{
		log:      logger,
		out:      out,
		rng:      rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		fields:   make(map[string]*Field),
		interps:  make(map[string]*Interpretation),
		traces:   make(map[string]float64),
		meanings: make(map[string]bool),
	}
}

// SeedRNG replaces the executor's noise source with a deterministic one.
func (e *Executor) SeedRNG(seed1, seed2 uint64) {
	e.rng = rand.New(rand.NewPCG(seed1, seed2))
}

// Field returns the named field, or nil.
func (e *Executor) Field(name string) *Field { return e.fields[name] }

// Trace returns the named trace result.
func (e *Executor) Trace(name string) (float64, bool) {
	v, ok := e.traces[name]
	return v, ok
}

// Meaning returns whether the named meaning held.
func (e *Executor) Meaning(name string) (bool, bool) {
	v, ok := e.meanings[name]
	return v, ok
}

// Execute runs the program in order. References to undeclared names are
// errors; the engine-core convention of silent no-ops does not apply to
// this surface, where a dangling name is a program bug.
func (e *Executor) Execute(program []Statement) error {
	for _, stmt := range program {
		if err := e.execute(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (e *Executor) execute(stmt Statement) error {
	switch s := stmt.(type) {
	case FieldDecl:
		e.fields[s.Name] = NewField(s.Size)
		e.log.Debug("declared field", "name", s.Name, "size", s.Size)

	case InterpDecl:
		e.interps[s.Name] = &Interpretation{Data: s.Values}
		e.log.Debug("declared interpretation", "name", s.Name, "len", len(s.Values))

	case ProjectStmt:
		field, ok := e.fields[s.Target]
		if !ok {
			return fmt.Errorf("project: unknown field %q", s.Target)
		}
		interp, ok := e.interps[s.Interp]
		if !ok {
			return fmt.Errorf("project: unknown interpretation %q", s.Interp)
		}
		for i := 0; i < s.Steps; i++ {
			Project(field, interp, s.Alpha, s.Noise, e.rng)
		}

	case TraceStmt:
		field, ok := e.fields[s.Field]
		if !ok {
			return fmt.Errorf("trace %s: unknown field %q", s.Name, s.Field)
		}
		interp, ok := e.interps[s.Interp]
		if !ok {
			return fmt.Errorf("trace %s: unknown interpretation %q", s.Name, s.Interp)
		}
		d := TraceDistance(field, interp)
		e.traces[s.Name] = d
		fmt.Fprintf(e.out, "Trace %s = %.4f\n", s.Name, d)

	case MeaningStmt:
		d, ok := e.traces[s.Trace]
		if !ok {
			return fmt.Errorf("meaning %s: unknown trace %q", s.Name, s.Trace)
		}
		held := d < s.Threshold
		e.meanings[s.Name] = held
		fmt.Fprintf(e.out, "Meaning %s ← %s < %g: %t\n", s.Name, s.Trace, s.Threshold, held)

	case NarrateReturn:
		fmt.Fprintln(e.out, strings.Join(s.Tokens, " "))

	case LogCoherence:
		field, ok := e.fields[s.Field]
		if !ok {
			return fmt.Errorf("logcoherence: unknown field %q", s.Field)
		}
		fmt.Fprintf(e.out, "Ψ[%s] = %s\n", s.Field, visualization.FormatVector(field.State))

	case LogMeaning:
		held, ok := e.meanings[s.Name]
		if !ok {
			return fmt.Errorf("logmeaning: unknown meaning %q", s.Name)
		}
		fmt.Fprintf(e.out, "Meaning declared: %s (held: %t)\n", s.Name, held)

	case ExpressSymbol:
		if _, ok := e.fields[s.Field]; !ok {
			return fmt.Errorf("expresssymbol: unknown field %q", s.Field)
		}
		fmt.Fprintf(e.out, "Expressed %s into %s\n", s.Token, s.Field)

	case Modulate:
		fmt.Fprintf(e.out, "Modulated %s @ %.2f\n", s.Token, s.Intensity)
	}
	return nil
}
