package category

import "fmt"

// Interpretation is the tagged-variant result of interpreting a category
// object. Exactly one concrete shape exists per non-Void level; Void yields
// nil. Interpretations are recomputed on every call; there is no caching
// layer.
type Interpretation interface {
	fmt.Stringer
	// interpretation marks the closed set of variants.
	interpretation()
}

// ParticleInterpretation is the lowest-tier reading of a node: a quantum
// state tag derived from the number of distinct active patterns, and the
// total activation energy of the node's substrate.
type ParticleInterpretation struct {
	ID           string
	QuantumState string
	Energy       float64
}

func (ParticleInterpretation) interpretation() {}

func (p ParticleInterpretation) String() string {
	return fmt.Sprintf("particle %s {state: %s, energy: %.2f}", p.ID, p.QuantumState, p.Energy)
}

// AtomInterpretation aggregates the Particle-level children of a node.
type AtomInterpretation struct {
	ID                   string
	AtomicNumber         int
	ShellConfig          string
	ConstituentParticles []ParticleInterpretation
}

func (AtomInterpretation) interpretation() {}

func (a AtomInterpretation) String() string {
	return fmt.Sprintf("atom %s {Z: %d, shells: %s, particles: %d}",
		a.ID, a.AtomicNumber, a.ShellConfig, len(a.ConstituentParticles))
}

// MoleculeInterpretation aggregates the Atom-level children of a node and
// links consecutive atoms into a bond chain.
type MoleculeInterpretation struct {
	ID               string
	Formula          string
	Bonds            []string
	ConstituentAtoms []AtomInterpretation
}

func (MoleculeInterpretation) interpretation() {}

func (m MoleculeInterpretation) String() string {
	return fmt.Sprintf("molecule %s {formula: %s, atoms: %d, bonds: %d}",
		m.ID, m.Formula, len(m.ConstituentAtoms), len(m.Bonds))
}

// CellInterpretation is the holistic top-tier reading: every immediate
// child's interpretation, flattened to descriptive strings.
type CellInterpretation struct {
	ID                   string
	Summary              string
	EmergentProperties   []string
	ContributingMeanings []string
}

func (CellInterpretation) interpretation() {}

func (c CellInterpretation) String() string {
	return fmt.Sprintf("cell %s {%s}", c.ID, c.Summary)
}

// Interpret synthesizes the node's level-specific interpretation. Void
// yields nil: the root tier has no reading of its own. The result is
// derived from current substrate and child state on every call.
func (o *Object) Interpret() Interpretation {
	switch o.Level {
	case Particle:
		return o.interpretParticle()
	case Atom:
		return o.interpretAtom()
	case Molecule:
		return o.interpretMolecule()
	case Cell:
		return o.interpretCell()
	default:
		return nil
	}
}

func (o *Object) interpretParticle() ParticleInterpretation {
	return ParticleInterpretation{
		ID:           o.ID,
		QuantumState: fmt.Sprintf("q%x", o.Substrate.ActiveCount()),
		Energy:       o.Substrate.TotalEnergy(),
	}
}

func (o *Object) interpretAtom() AtomInterpretation {
	var particles []ParticleInterpretation
	for _, sub := range o.Subobjects {
		if sub.Level != Particle {
			continue
		}
		particles = append(particles, sub.interpretParticle())
	}
	return AtomInterpretation{
		ID:                   o.ID,
		AtomicNumber:         len(particles),
		ShellConfig:          fmt.Sprintf("%ds2", len(particles)),
		ConstituentParticles: particles,
	}
}

func (o *Object) interpretMolecule() MoleculeInterpretation {
	var atoms []AtomInterpretation
	for _, sub := range o.Subobjects {
		if sub.Level != Atom {
			continue
		}
		atoms = append(atoms, sub.interpretAtom())
	}
	var bonds []string
	for i := 0; i+1 < len(atoms); i++ {
		bonds = append(bonds, atoms[i].ID+"-"+atoms[i+1].ID)
	}
	return MoleculeInterpretation{
		ID:               o.ID,
		Formula:          fmt.Sprintf("Molecule%s%d", o.ID, len(atoms)),
		Bonds:            bonds,
		ConstituentAtoms: atoms,
	}
}

func (o *Object) interpretCell() CellInterpretation {
	var meanings []string
	for _, sub := range o.Subobjects {
		interp := sub.Interpret()
		if interp == nil {
			continue
		}
		meanings = append(meanings, interp.String())
	}
	return CellInterpretation{
		ID:                   o.ID,
		Summary:              fmt.Sprintf("Cell %s integrates %d sub-meanings", o.ID, len(meanings)),
		EmergentProperties:   []string{"homeostasis"},
		ContributingMeanings: meanings,
	}
}
