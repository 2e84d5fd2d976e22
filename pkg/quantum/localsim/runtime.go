// Package localsim is a reference quantum.Runtime. It carries no circuit
// simulator: operators are held as their integral data, and the minimum
// eigenvalue is computed at the independent-particle level by exact
// diagonalization of the one-body Hamiltonian. Correlated or variational
// treatments belong to an external runtime.
package localsim

import (
	"context"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/quantpipe/quantpipe/pkg/chemistry"
	"github.com/quantpipe/quantpipe/pkg/quantum"
)

// Mode selects how expectation values would be estimated. The reference
// runtime only distinguishes the modes for reporting.
type Mode string

const (
	// ModeStatevector computes exact expectations.
	ModeStatevector Mode = "statevector"

	// ModeSampling estimates expectations from measurement shots.
	ModeSampling Mode = "sampling"
)

// Runtime is the reference implementation of quantum.Runtime.
type Runtime struct {
	mode  Mode
	shots int
}

// New creates a reference runtime in the given mode. Shots is only
// meaningful for ModeSampling.
func New(mode Mode, shots int) *Runtime {
	return &Runtime{mode: mode, shots: shots}
}

// Name implements quantum.Runtime.
func (r *Runtime) Name() string {
	return "localsim/" + string(r.mode)
}

// BuildOperator implements quantum.Runtime. The problem must carry a
// precomputed integral set; the reference runtime has no integral engine of
// its own, so geometry-only problems fail with quantum.ErrUnsupported.
func (r *Runtime) BuildOperator(_ context.Context, p *chemistry.Problem, spec quantum.OperatorSpec) (*quantum.Operator, error) {
	if p == nil || !p.HasIntegrals() {
		return nil, fmt.Errorf("building operator from geometry alone: %w", quantum.ErrUnsupported)
	}
	if err := p.Integrals.Validate(); err != nil {
		return nil, err
	}
	switch spec.Mapping {
	case quantum.MappingJordanWigner, quantum.MappingParity, quantum.MappingBravyiKitaev:
	default:
		return nil, fmt.Errorf("unknown qubit mapping %q", spec.Mapping)
	}
	if spec.TwoQubitReduction && spec.Mapping != quantum.MappingParity {
		return nil, fmt.Errorf("two-qubit reduction requires the parity mapping, not %q", spec.Mapping)
	}

	// One qubit per spin orbital, minus the parity reduction.
	qubits := 2 * p.Integrals.Orbitals
	if spec.TwoQubitReduction {
		qubits -= 2
	}
	return &quantum.Operator{Spec: spec, Qubits: qubits, Problem: p}, nil
}

// MinimumEigenvalue implements quantum.Runtime. The one-body Hamiltonian is
// diagonalized exactly and the lowest orbitals are filled by Aufbau
// ordering.
func (r *Runtime) MinimumEigenvalue(ctx context.Context, op *quantum.Operator) (*quantum.EigenResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	set := op.Problem.Integrals

	var eig mat.EigenSym
	if ok := eig.Factorize(set.OneBody, false); !ok {
		return nil, fmt.Errorf("eigendecomposition of one-body Hamiltonian failed")
	}
	levels := eig.Values(nil)
	sort.Float64s(levels)

	electronic := occupy(levels, set.Electrons)
	return &quantum.EigenResult{
		Energy:           electronic + set.NuclearRepulsion,
		Electronic:       electronic,
		NuclearRepulsion: set.NuclearRepulsion,
		Converged:        true,
	}, nil
}

// VariationalMinimize implements quantum.Runtime. The reference runtime
// has no parameterized-circuit evaluator.
func (r *Runtime) VariationalMinimize(context.Context, *quantum.Operator, quantum.VariationalSpec) (*quantum.EigenResult, error) {
	return nil, fmt.Errorf("variational search: %w", quantum.ErrUnsupported)
}

// occupy fills spatial levels with electrons, two per level, and returns
// the summed orbital energies.
func occupy(levels []float64, electrons int) float64 {
	var e float64
	for i := 0; electrons > 0 && i < len(levels); i++ {
		if electrons >= 2 {
			e += 2 * levels[i]
			electrons -= 2
		} else {
			e += levels[i]
			electrons--
		}
	}
	return e
}
