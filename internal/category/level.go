package category

import "strings"

// Level is a recursion level in the category tree: one of an ordered set of
// composition tiers. The names are labels for the tiers, not simulations of
// physics.
type Level int

// Recursion levels, in strictly increasing order.
const (
	Void Level = iota
	Particle
	Atom
	Molecule
	Cell
)

var levelNames = [...]string{"void", "particle", "atom", "molecule", "cell"}

// String returns the lowercase level name, or "unknown" for out-of-range
// values.
func (l Level) String() string {
	if l < Void || l > Cell {
		return "unknown"
	}
	return levelNames[l]
}

// Next returns the level one tier up. Cell is terminal: ok is false and the
// receiver is returned unchanged.
func (l Level) Next() (next Level, ok bool) {
	if l >= Cell {
		return l, false
	}
	return l + 1, true
}

// ParseLevel maps a case-insensitive level name to its Level.
func ParseLevel(s string) (Level, bool) {
	name := strings.ToLower(s)
	for i, n := range levelNames {
		if n == name {
			return Level(i), true
		}
	}
	return Void, false
}
