package chemistry

import (
	"strings"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func validSet() *IntegralSet {
	return &IntegralSet{
		Orbitals:  2,
		Electrons: 2,
		OneBody:   mat.NewSymDense(2, []float64{-1.2, 0, 0, -0.4}),
	}
}

func TestIntegralSetValidate(t *testing.T) {
	if err := validSet().Validate(); err != nil {
		t.Fatalf("valid set rejected: %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(*IntegralSet)
		wantMsg string
	}{
		{"zero_orbitals", func(s *IntegralSet) { s.Orbitals = 0 }, "orbital count"},
		{"zero_electrons", func(s *IntegralSet) { s.Electrons = 0 }, "electron count"},
		{"missing_one_body", func(s *IntegralSet) { s.OneBody = nil }, "one-body integrals missing"},
		{"dimension_mismatch", func(s *IntegralSet) { s.Orbitals = 3 }, "one-body dimension"},
		{"short_two_body", func(s *IntegralSet) { s.TwoBody = make([]float64, 4) }, "two-body length"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSet()
			tt.mutate(s)
			err := s.Validate()
			if err == nil {
				t.Fatal("invalid set accepted")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestTwoBodyAt(t *testing.T) {
	s := validSet()
	if got := s.TwoBodyAt(0, 1, 1, 0); got != 0 {
		t.Errorf("absent two-body part yields %v, want 0", got)
	}

	s.TwoBody = make([]float64, 16)
	s.TwoBody[((0*2+1)*2+1)*2+0] = 0.663
	if got := s.TwoBodyAt(0, 1, 1, 0); got != 0.663 {
		t.Errorf("TwoBodyAt(0,1,1,0) = %v, want 0.663", got)
	}
	if got := s.TwoBodyAt(0, 0, 0, 0); got != 0 {
		t.Errorf("TwoBodyAt(0,0,0,0) = %v, want 0", got)
	}
}

func TestProblemHasIntegrals(t *testing.T) {
	p := &Problem{Geometry: &Geometry{Symbols: []string{"H"}}}
	if p.HasIntegrals() {
		t.Error("geometry-only problem claims integrals")
	}
	p.Integrals = validSet()
	if !p.HasIntegrals() {
		t.Error("integral set not detected")
	}
}

func TestGeometryAtoms(t *testing.T) {
	g := &Geometry{Symbols: []string{"Li", "H"}}
	if g.Atoms() != 2 {
		t.Errorf("Atoms() = %d, want 2", g.Atoms())
	}
}
