package pipeline

import (
	"github.com/quantpipe/quantpipe/pkg/input"
)

// Kind is a pluggable-component role. Every section except NAME and driver
// companions maps to exactly one kind.
type Kind string

const (
	// KindProblem selects what is being computed.
	KindProblem Kind = "PROBLEM"

	// KindDriver selects the chemistry driver supplying the problem data.
	KindDriver Kind = "DRIVER"

	// KindOperator selects the operator-construction mode.
	KindOperator Kind = "OPERATOR"

	// KindAlgorithm selects the algorithm implementation.
	KindAlgorithm Kind = "ALGORITHM"

	// KindOptimizer selects the classical optimizer.
	KindOptimizer Kind = "OPTIMIZER"

	// KindVariationalForm selects the variational ansatz.
	KindVariationalForm Kind = "VARIATIONAL_FORM"

	// KindInitialState selects the initial state preparation.
	KindInitialState Kind = "INITIAL_STATE"

	// KindBackend selects the execution backend.
	KindBackend Kind = "BACKEND"
)

// SectionName is the canonical section name for the kind.
func (k Kind) SectionName() string {
	return string(k)
}

// KindOf maps a canonical section name to its kind.
func KindOf(section string) (Kind, bool) {
	switch Kind(input.CanonicalName(section)) {
	case KindProblem, KindDriver, KindOperator, KindAlgorithm,
		KindOptimizer, KindVariationalForm, KindInitialState, KindBackend:
		return Kind(input.CanonicalName(section)), true
	}
	return "", false
}

// ResolutionOrder lists the kinds in the order the resolver processes
// them. Later kinds may read values the earlier ones resolved, never the
// reverse.
func ResolutionOrder() []Kind {
	return []Kind{
		KindProblem,
		KindDriver,
		KindOperator,
		KindAlgorithm,
		KindOptimizer,
		KindVariationalForm,
		KindInitialState,
		KindBackend,
	}
}

// Format-level defaults. DRIVER deliberately has none.
const (
	// DefaultProblem is assumed when no PROBLEM section names one.
	DefaultProblem = "energy"

	// DefaultAlgorithm is assumed when no ALGORITHM section names one.
	DefaultAlgorithm = "VQE"
)

// NameKey is the key that selects an implementation within a section.
const NameKey = "name"

// SectionNameFree is the free-form experiment-name section; it carries no
// schema and is never validated.
const SectionNameFree = "NAME"

// Resolved is a fully-defaulted, dependency-completed configuration. It is
// produced atomically by the resolver, checked by the validator and
// consumed once by the invoker.
type Resolved struct {
	// Doc holds every resolved section, user sections included.
	Doc *input.Document

	// Problem is the resolved PROBLEM.name.
	Problem string

	// Algorithm is the resolved ALGORITHM.name.
	Algorithm string

	// Driver is the resolved DRIVER.name.
	Driver string

	// Backend is the resolved BACKEND.name.
	Backend string
}

// Section returns the resolved section for a kind.
func (r *Resolved) Section(k Kind) (*input.Section, bool) {
	return r.Doc.Section(k.SectionName())
}

// ComponentName returns the implementation name a resolved section selects.
func (r *Resolved) ComponentName(k Kind) (string, bool) {
	sec, ok := r.Section(k)
	if !ok {
		return "", false
	}
	v, ok := sec.GetString(NameKey)
	return v, ok
}

// Result is the mapping an invoked algorithm returns. Contents are
// algorithm-specific; common keys are "energy", "electronic_energy",
// "nuclear_repulsion", "algorithm" and "runtime".
type Result map[string]any
