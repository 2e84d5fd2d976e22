package plugins

import (
	"fmt"

	"github.com/quantpipe/quantpipe/pkg/pipeline"
	"github.com/quantpipe/quantpipe/pkg/schema"
)

// RegisterBuiltins installs every builtin implementation and the per-kind
// defaults into reg. The caller freezes the registry once all registration,
// builtin and otherwise, is done.
func RegisterBuiltins(reg *schema.Registry) error {
	regs := []*schema.Registration{
		{Schema: energySchema(), New: newEnergyProblem},

		{Schema: hdf5Schema(), New: newHDF5Driver},
		{Schema: inlineSchema(), New: newInlineDriver},
		{Schema: xyzSchema(), New: newXYZDriver},

		{Schema: hamiltonianSchema(), New: newHamiltonianOperator},

		{Schema: vqeSchema(), New: newVQEAlgorithm},
		{Schema: exactEigensolverSchema(), New: newExactEigensolver},

		{Schema: lbfgsbSchema(), New: newOptimizer("L_BFGS_B", "factr")},
		{Schema: cobylaSchema(), New: newOptimizer("COBYLA", "rhobeg")},
		{Schema: spsaSchema(), New: newOptimizer("SPSA", "save_steps")},

		{Schema: entanglerSchema("RY"), New: newVariationalForm("RY", 3)},
		{Schema: entanglerSchema("RYRZ"), New: newVariationalForm("RYRZ", 3)},
		{Schema: uccsdSchema(), New: newVariationalForm("UCCSD", 1)},

		{Schema: zeroStateSchema(), New: newInitialState("ZERO")},
		{Schema: hartreeFockSchema(), New: newInitialState("HartreeFock")},

		{Schema: statevectorSchema(), New: newStatevectorBackend},
		{Schema: qasmSchema(), New: newQasmBackend},
	}
	for _, r := range regs {
		if err := reg.Register(r); err != nil {
			return fmt.Errorf("builtin registration: %w", err)
		}
	}

	defaults := map[pipeline.Kind]string{
		pipeline.KindProblem:         "energy",
		pipeline.KindOperator:        "hamiltonian",
		pipeline.KindAlgorithm:       "VQE",
		pipeline.KindOptimizer:       "L_BFGS_B",
		pipeline.KindVariationalForm: "RY",
		pipeline.KindInitialState:    "ZERO",
		pipeline.KindBackend:         "local_statevector_simulator",
	}
	for kind, name := range defaults {
		if err := reg.SetDefault(kind, name); err != nil {
			return fmt.Errorf("builtin defaults: %w", err)
		}
	}
	return nil
}
