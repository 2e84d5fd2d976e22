package pipeline

import (
	"context"

	"github.com/quantpipe/quantpipe/pkg/chemistry"
	"github.com/quantpipe/quantpipe/pkg/input"
	"github.com/quantpipe/quantpipe/pkg/quantum"
)

// Component is the capability every pluggable implementation has: it knows
// its kind and name. Components are constructed per run from their merged,
// validated section parameters and are not reused across runs.
type Component interface {
	// Kind is the component's role.
	Kind() Kind

	// Name is the implementation name, as written in the section's name
	// key.
	Name() string
}

// Driver loads the fermionic problem the pipeline computes on.
type Driver interface {
	Component

	// Load produces the problem from the driver's companion-section
	// parameters.
	Load(ctx context.Context) (*chemistry.Problem, error)
}

// OperatorBuilder turns a loaded problem into a qubit operator through the
// runtime.
type OperatorBuilder interface {
	Component

	// Build maps the problem onto a qubit operator.
	Build(ctx context.Context, rt quantum.Runtime, p *chemistry.Problem) (*quantum.Operator, error)
}

// Algorithm computes a result from the prepared environment. Internals are
// the runtime's responsibility; implementations here are dispatch glue.
type Algorithm interface {
	Component

	// Run executes the algorithm and returns its result mapping.
	Run(ctx context.Context, env *Environment) (Result, error)
}

// Optimizer exposes classical-optimizer parameters to the runtime.
type Optimizer interface {
	Component

	// Spec renders the section parameters as a runtime optimizer spec.
	Spec() quantum.OptimizerSpec
}

// VariationalForm exposes ansatz parameters to the runtime.
type VariationalForm interface {
	Component

	// Spec renders the section parameters as a runtime ansatz spec.
	Spec() quantum.AnsatzSpec
}

// InitialState exposes state-preparation parameters to the runtime.
type InitialState interface {
	Component

	// Spec renders the section parameters as a runtime initial-state spec.
	Spec() quantum.InitialStateSpec
}

// Backend selects and configures the runtime a run executes on.
type Backend interface {
	Component

	// Runtime returns the runtime this backend executes on.
	Runtime() quantum.Runtime
}

// ComponentProvider constructs components by kind and name from merged
// section parameters. The schema registry implements it; registration is
// complete and frozen before the first Construct call.
type ComponentProvider interface {
	// Construct builds the named implementation of a kind. It fails with
	// an unknown-component error when no such implementation is
	// registered.
	Construct(kind Kind, name string, params *input.Section) (Component, error)
}

// Environment is everything the invoker prepares before handing control to
// the algorithm.
type Environment struct {
	// Resolved is the configuration the run was invoked with.
	Resolved *Resolved

	// Runtime is the backend-selected runtime.
	Runtime quantum.Runtime

	// Operator is the qubit operator built for the run, nil when the
	// resolved configuration carries no OPERATOR section.
	Operator *quantum.Operator

	// Problem is the driver-loaded problem.
	Problem *chemistry.Problem

	// Components holds the constructed companion components, keyed by
	// kind.
	Components map[Kind]Component
}

// Companion returns the constructed companion component of a kind.
func (e *Environment) Companion(k Kind) (Component, bool) {
	c, ok := e.Components[k]
	return c, ok
}
