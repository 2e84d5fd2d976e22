package chemistry

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Geometry describes a molecule: one symbol and one cartesian position per
// atom, plus total charge and spin multiplicity.
type Geometry struct {
	// Symbols are element symbols in atom order.
	Symbols []string

	// Coords are cartesian positions in Angstrom, one [x y z] per atom.
	Coords [][3]float64

	// Charge is the total molecular charge.
	Charge int

	// Multiplicity is the spin multiplicity (2S+1).
	Multiplicity int
}

// Atoms returns the number of atoms.
func (g *Geometry) Atoms() int {
	return len(g.Symbols)
}

// IntegralSet holds the electron integrals a driver produces for one
// molecule in a given basis.
type IntegralSet struct {
	// Orbitals is the number of spatial orbitals.
	Orbitals int

	// Electrons is the number of electrons.
	Electrons int

	// OneBody holds the one-electron integrals h[p][q], symmetric in a
	// spatial-orbital basis.
	OneBody *mat.SymDense

	// TwoBody holds the two-electron integrals flattened in physicist
	// ordering, length Orbitals^4. Nil when the driver supplies only the
	// one-body part.
	TwoBody []float64

	// NuclearRepulsion is the constant nuclear repulsion energy in Hartree.
	NuclearRepulsion float64
}

// Validate checks the internal consistency of the integral set.
func (s *IntegralSet) Validate() error {
	if s.Orbitals <= 0 {
		return fmt.Errorf("integral set: orbital count %d not positive", s.Orbitals)
	}
	if s.Electrons <= 0 {
		return fmt.Errorf("integral set: electron count %d not positive", s.Electrons)
	}
	if s.OneBody == nil {
		return fmt.Errorf("integral set: one-body integrals missing")
	}
	if n := s.OneBody.SymmetricDim(); n != s.Orbitals {
		return fmt.Errorf("integral set: one-body dimension %d, want %d", n, s.Orbitals)
	}
	if s.TwoBody != nil {
		want := s.Orbitals * s.Orbitals * s.Orbitals * s.Orbitals
		if len(s.TwoBody) != want {
			return fmt.Errorf("integral set: two-body length %d, want %d", len(s.TwoBody), want)
		}
	}
	return nil
}

// TwoBodyAt returns the two-electron integral (pq|rs), or zero when the
// two-body part is absent.
func (s *IntegralSet) TwoBodyAt(p, q, r, t int) float64 {
	if s.TwoBody == nil {
		return 0
	}
	n := s.Orbitals
	return s.TwoBody[((p*n+q)*n+r)*n+t]
}

// Problem is what a driver hands to operator construction: either a ready
// integral set, or a geometry left for the runtime's own integral engine.
type Problem struct {
	// Geometry is the molecular geometry, when the driver knows it.
	Geometry *Geometry

	// Integrals is the precomputed integral set, when the driver supplies
	// one.
	Integrals *IntegralSet

	// Source describes where the data came from, for logging.
	Source string
}

// HasIntegrals reports whether the driver supplied a usable integral set.
func (p *Problem) HasIntegrals() bool {
	return p.Integrals != nil
}
