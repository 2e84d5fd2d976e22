package plugins

import (
	"context"
	"fmt"

	"github.com/quantpipe/quantpipe/pkg/input"
	"github.com/quantpipe/quantpipe/pkg/pipeline"
	"github.com/quantpipe/quantpipe/pkg/quantum"
	"github.com/quantpipe/quantpipe/pkg/schema"
)

// vqeAlgorithm runs a variational eigensolver. All circuit work happens in
// the runtime; this component assembles the variational spec from its
// companion sections.
type vqeAlgorithm struct {
	component
}

func vqeSchema() *schema.Schema {
	return schema.NewSchema(pipeline.KindAlgorithm, "VQE", []schema.Option{
		{
			Name:    "operator_mode",
			Type:    input.TypeString,
			Default: "matrix",
			Allowed: []any{"matrix", "paulis", "grouped_paulis"},
		},
	},
		pipeline.KindOptimizer,
		pipeline.KindVariationalForm,
		pipeline.KindInitialState,
	)
}

func newVQEAlgorithm(*input.Section) (pipeline.Component, error) {
	return &vqeAlgorithm{
		component: component{kind: pipeline.KindAlgorithm, name: "VQE"},
	}, nil
}

func (a *vqeAlgorithm) Run(ctx context.Context, env *pipeline.Environment) (pipeline.Result, error) {
	if env.Operator == nil {
		return nil, fmt.Errorf("VQE: no operator was built for this run")
	}

	spec := quantum.VariationalSpec{}
	if c, ok := env.Companion(pipeline.KindOptimizer); ok {
		opt, ok := c.(pipeline.Optimizer)
		if !ok {
			return nil, fmt.Errorf("VQE: component %s is not an optimizer", c.Name())
		}
		spec.Optimizer = opt.Spec()
	}
	if c, ok := env.Companion(pipeline.KindVariationalForm); ok {
		vf, ok := c.(pipeline.VariationalForm)
		if !ok {
			return nil, fmt.Errorf("VQE: component %s is not a variational form", c.Name())
		}
		spec.Ansatz = vf.Spec()
	}
	if c, ok := env.Companion(pipeline.KindInitialState); ok {
		is, ok := c.(pipeline.InitialState)
		if !ok {
			return nil, fmt.Errorf("VQE: component %s is not an initial state", c.Name())
		}
		spec.InitialState = is.Spec()
	}
	if sec, ok := env.Resolved.Section(pipeline.KindBackend); ok {
		spec.Shots = intParam(sec, "shots", 0)
	}

	res, err := env.Runtime.VariationalMinimize(ctx, env.Operator, spec)
	if err != nil {
		return nil, err
	}
	return eigenResultMap(res), nil
}

// exactEigensolver diagonalizes the operator directly on the runtime. It
// needs no variational companions.
type exactEigensolver struct {
	component
}

func exactEigensolverSchema() *schema.Schema {
	return schema.NewSchema(pipeline.KindAlgorithm, "ExactEigensolver", []schema.Option{
		{Name: "k", Type: input.TypeInt, Default: int64(1)},
	})
}

func newExactEigensolver(*input.Section) (pipeline.Component, error) {
	return &exactEigensolver{
		component: component{kind: pipeline.KindAlgorithm, name: "ExactEigensolver"},
	}, nil
}

func (a *exactEigensolver) Run(ctx context.Context, env *pipeline.Environment) (pipeline.Result, error) {
	if env.Operator == nil {
		return nil, fmt.Errorf("ExactEigensolver: no operator was built for this run")
	}
	res, err := env.Runtime.MinimumEigenvalue(ctx, env.Operator)
	if err != nil {
		return nil, err
	}
	return eigenResultMap(res), nil
}

func eigenResultMap(res *quantum.EigenResult) pipeline.Result {
	return pipeline.Result{
		"energy":            res.Energy,
		"electronic_energy": res.Electronic,
		"nuclear_repulsion": res.NuclearRepulsion,
		"evaluations":       res.Evaluations,
		"converged":         res.Converged,
	}
}
