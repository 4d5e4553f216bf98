// Package sign defines the value types of the sign cycle: Pattern, Symbol,
// and Meaning. A sign is not statically defined; it is whatever an agent
// expresses and stabilizes through repeated express → project → interpret
// cycles, and a Meaning only exists as an interpretive event situated at a
// recursion index τ.
package sign

import "fmt"

// Pattern is an opaque symbolic tag identifying a sign's shape.
// Patterns compare by value and are usable as map keys.
type Pattern string

// Symbol is a token bound to a pattern at a point in time.
type Symbol struct {
	// Token is the sign's surface form (word, name, identifier).
	Token string
	// Pattern is the shape the token is bound to.
	Pattern Pattern
}

// NewSymbol constructs a token/pattern pair.
func NewSymbol(token string, pattern Pattern) Symbol {
	return Symbol{Token: token, Pattern: pattern}
}

// Mutate returns a drifted copy of the symbol: the token gains a trailing
// marker character, the pattern is unchanged. The receiver is not modified.
func (s Symbol) Mutate() Symbol {
	return Symbol{Token: s.Token + "*", Pattern: s.Pattern}
}

// Meaning is an interpretation of a symbol at a recursion index.
// Meanings are created only by successful interpretation and are immutable
// once created.
type Meaning struct {
	// Sign is the symbol that was interpreted.
	Sign Symbol
	// Tau is the recursion index the meaning is situated at.
	Tau uint64
	// Description is derived deterministically from the token and Tau.
	Description string
}

// MeaningOf creates a meaning for a symbol at the given recursion index.
func MeaningOf(sym Symbol, tau uint64) Meaning {
	return Meaning{
		Sign:        sym,
		Tau:         tau,
		Description: fmt.Sprintf("Interpretation of '%s' at τ=%d", sym.Token, tau),
	}
}
