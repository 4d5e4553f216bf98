// Package fieldlang implements the statement-oriented expression language:
// a small driver surface for experimenting with continuous projection
// dynamics. Unlike the pattern-keyed substrate of the engine core, this
// language works on fixed-size vector fields with blended (rather than
// additive) projection, plus distance and coherence diagnostics.
package fieldlang

import (
	"math"
	"math/rand/v2"
)

// Field is a fixed-size vector of activation levels.
type Field struct {
	State []float64
}

// NewField creates a zeroed field of the given size.
func NewField(size int) *Field {
	return &Field{State: make([]float64, size)}
}

// Interpretation is a target vector a field can be projected toward.
type Interpretation struct {
	Data []float64
}

// Project blends the interpretation into the field:
//
//	s ← (1-α)·s + α·(i + n)
//
// where n is uniform noise in [-noise, noise] drawn per element. Vectors of
// unequal length blend over the shorter prefix.
func Project(f *Field, interp *Interpretation, alpha, noise float64, rng *rand.Rand) {
	n := min(len(f.State), len(interp.Data))
	for i := 0; i < n; i++ {
		jitter := (rng.Float64()*2 - 1) * noise
		f.State[i] = (1-alpha)*f.State[i] + alpha*(interp.Data[i]+jitter)
	}
}

// TraceDistance returns the Euclidean distance between the field and the
// interpretation, over the shorter prefix.
func TraceDistance(f *Field, interp *Interpretation) float64 {
	n := min(len(f.State), len(interp.Data))
	var sum float64
	for i := 0; i < n; i++ {
		d := f.State[i] - interp.Data[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// Coherence returns the cosine similarity of two vectors, or 0 when either
// has zero magnitude.
func Coherence(a, b []float64) float64 {
	n := min(len(a), len(b))
	var dot, magA, magB float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
	}
	for _, x := range a {
		magA += x * x
	}
	for _, y := range b {
		magB += y * y
	}
	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}
