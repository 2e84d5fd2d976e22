package quantum

import (
	"context"
	"errors"

	"github.com/quantpipe/quantpipe/pkg/chemistry"
)

// ErrUnsupported reports a capability the selected runtime does not
// implement. Callers surface it unmodified.
var ErrUnsupported = errors.New("operation not supported by runtime")

// Qubit mappings accepted by operator construction.
const (
	MappingJordanWigner = "jordan_wigner"
	MappingParity       = "parity"
	MappingBravyiKitaev = "bravyi_kitaev"
)

// OperatorSpec selects how a fermionic problem is mapped onto qubits.
type OperatorSpec struct {
	// Mapping is one of the Mapping* constants.
	Mapping string

	// TwoQubitReduction removes two qubits under the parity mapping.
	TwoQubitReduction bool

	// FreezeCore excludes core orbitals from the active space.
	FreezeCore bool
}

// Operator is an opaque handle to a qubit operator held by a runtime.
type Operator struct {
	// Spec records the mapping the operator was built with.
	Spec OperatorSpec

	// Qubits is the qubit count after mapping and reduction.
	Qubits int

	// Problem is the fermionic problem the operator was built from.
	Problem *chemistry.Problem
}

// OptimizerSpec carries classical-optimizer parameters to the runtime.
type OptimizerSpec struct {
	Name          string
	MaxIterations int
	Tolerance     float64

	// Options holds optimizer-specific settings the pipeline does not
	// interpret.
	Options map[string]any
}

// AnsatzSpec carries variational-form parameters to the runtime.
type AnsatzSpec struct {
	Name         string
	Depth        int
	Entanglement string
}

// InitialStateSpec names the state preparation for a variational run.
type InitialStateSpec struct {
	Name string
}

// VariationalSpec bundles everything a variational eigensolver needs
// besides the operator itself.
type VariationalSpec struct {
	Optimizer    OptimizerSpec
	Ansatz       AnsatzSpec
	InitialState InitialStateSpec

	// Shots is the measurement count per expectation estimate; zero means
	// exact statevector expectations.
	Shots int
}

// EigenResult is what eigenvalue computations return.
type EigenResult struct {
	// Energy is the total energy in Hartree, nuclear repulsion included.
	Energy float64

	// Electronic is the electronic part of the energy.
	Electronic float64

	// NuclearRepulsion is the constant nuclear term.
	NuclearRepulsion float64

	// Evaluations counts objective evaluations (zero for direct solvers).
	Evaluations int

	// Converged reports whether an iterative solver met its tolerance.
	Converged bool
}

// Runtime is the narrow interface every quantum backend implements.
type Runtime interface {
	// Name identifies the runtime in logs and results.
	Name() string

	// BuildOperator maps a fermionic problem onto a qubit operator.
	BuildOperator(ctx context.Context, p *chemistry.Problem, spec OperatorSpec) (*Operator, error)

	// MinimumEigenvalue computes the smallest eigenvalue of the operator
	// directly.
	MinimumEigenvalue(ctx context.Context, op *Operator) (*EigenResult, error)

	// VariationalMinimize runs a variational search for the smallest
	// eigenvalue.
	VariationalMinimize(ctx context.Context, op *Operator, spec VariationalSpec) (*EigenResult, error)
}
