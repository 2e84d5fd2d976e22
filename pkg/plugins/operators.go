package plugins

import (
	"context"

	"github.com/quantpipe/quantpipe/pkg/chemistry"
	"github.com/quantpipe/quantpipe/pkg/input"
	"github.com/quantpipe/quantpipe/pkg/pipeline"
	"github.com/quantpipe/quantpipe/pkg/quantum"
	"github.com/quantpipe/quantpipe/pkg/schema"
)

// hamiltonianOperator maps the fermionic Hamiltonian onto qubits.
type hamiltonianOperator struct {
	component
	spec quantum.OperatorSpec
}

func hamiltonianSchema() *schema.Schema {
	return schema.NewSchema(pipeline.KindOperator, "hamiltonian", []schema.Option{
		{
			Name:    "qubit_mapping",
			Type:    input.TypeString,
			Default: quantum.MappingParity,
			Allowed: []any{quantum.MappingJordanWigner, quantum.MappingParity, quantum.MappingBravyiKitaev},
		},
		{Name: "two_qubit_reduction", Type: input.TypeBool, Default: true},
		{Name: "freeze_core", Type: input.TypeBool, Default: false},
	})
}

func newHamiltonianOperator(params *input.Section) (pipeline.Component, error) {
	mapping := stringParam(params, "qubit_mapping", quantum.MappingParity)
	spec := quantum.OperatorSpec{
		Mapping:    mapping,
		FreezeCore: boolParam(params, "freeze_core", false),
	}
	// The reduction only exists under the parity mapping.
	if mapping == quantum.MappingParity {
		spec.TwoQubitReduction = boolParam(params, "two_qubit_reduction", true)
	}
	return &hamiltonianOperator{
		component: component{kind: pipeline.KindOperator, name: "hamiltonian"},
		spec:      spec,
	}, nil
}

func (o *hamiltonianOperator) Build(ctx context.Context, rt quantum.Runtime, p *chemistry.Problem) (*quantum.Operator, error) {
	return rt.BuildOperator(ctx, p, o.spec)
}
