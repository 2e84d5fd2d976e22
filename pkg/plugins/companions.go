package plugins

import (
	"github.com/quantpipe/quantpipe/pkg/input"
	"github.com/quantpipe/quantpipe/pkg/pipeline"
	"github.com/quantpipe/quantpipe/pkg/quantum"
	"github.com/quantpipe/quantpipe/pkg/schema"
)

// optimizer is a classical optimizer declaration. Interpretation is the
// runtime's job; parameters the pipeline does not model ride along in
// Options.
type optimizer struct {
	component
	spec quantum.OptimizerSpec
}

func (o *optimizer) Spec() quantum.OptimizerSpec { return o.spec }

func newOptimizer(name string, extraKeys ...string) schema.Factory {
	return func(params *input.Section) (pipeline.Component, error) {
		spec := quantum.OptimizerSpec{
			Name:          name,
			MaxIterations: intParam(params, "maxiter", 1000),
			Tolerance:     floatParam(params, "tol", 1e-6),
		}
		for _, key := range extraKeys {
			if v, ok := params.Get(key); ok {
				if spec.Options == nil {
					spec.Options = make(map[string]any)
				}
				spec.Options[key] = v
			}
		}
		return &optimizer{
			component: component{kind: pipeline.KindOptimizer, name: name},
			spec:      spec,
		}, nil
	}
}

func lbfgsbSchema() *schema.Schema {
	return schema.NewSchema(pipeline.KindOptimizer, "L_BFGS_B", []schema.Option{
		{Name: "maxiter", Type: input.TypeInt, Default: int64(1000)},
		{Name: "tol", Type: input.TypeFloat, Default: 1e-6},
		{Name: "factr", Type: input.TypeFloat, Default: float64(10)},
	})
}

func cobylaSchema() *schema.Schema {
	return schema.NewSchema(pipeline.KindOptimizer, "COBYLA", []schema.Option{
		{Name: "maxiter", Type: input.TypeInt, Default: int64(1000)},
		{Name: "tol", Type: input.TypeFloat, Default: 1e-6},
		{Name: "rhobeg", Type: input.TypeFloat, Default: float64(1)},
	})
}

func spsaSchema() *schema.Schema {
	return schema.NewSchema(pipeline.KindOptimizer, "SPSA", []schema.Option{
		{Name: "maxiter", Type: input.TypeInt, Default: int64(1000)},
		{Name: "tol", Type: input.TypeFloat, Default: 1e-6},
		{Name: "save_steps", Type: input.TypeInt, Default: int64(1)},
	})
}

// variationalForm is an ansatz declaration.
type variationalForm struct {
	component
	spec quantum.AnsatzSpec
}

func (v *variationalForm) Spec() quantum.AnsatzSpec { return v.spec }

func newVariationalForm(name string, defaultDepth int) schema.Factory {
	return func(params *input.Section) (pipeline.Component, error) {
		return &variationalForm{
			component: component{kind: pipeline.KindVariationalForm, name: name},
			spec: quantum.AnsatzSpec{
				Name:         name,
				Depth:        intParam(params, "depth", defaultDepth),
				Entanglement: stringParam(params, "entanglement", "full"),
			},
		}, nil
	}
}

func entanglerSchema(name string) *schema.Schema {
	return schema.NewSchema(pipeline.KindVariationalForm, name, []schema.Option{
		{Name: "depth", Type: input.TypeInt, Default: int64(3)},
		{
			Name:    "entanglement",
			Type:    input.TypeString,
			Default: "full",
			Allowed: []any{"full", "linear"},
		},
	})
}

func uccsdSchema() *schema.Schema {
	return schema.NewSchema(pipeline.KindVariationalForm, "UCCSD", []schema.Option{
		{Name: "depth", Type: input.TypeInt, Default: int64(1)},
	})
}

// initialState is a state-preparation declaration.
type initialState struct {
	component
	spec quantum.InitialStateSpec
}

func (s *initialState) Spec() quantum.InitialStateSpec { return s.spec }

func newInitialState(name string) schema.Factory {
	return func(*input.Section) (pipeline.Component, error) {
		return &initialState{
			component: component{kind: pipeline.KindInitialState, name: name},
			spec:      quantum.InitialStateSpec{Name: name},
		}, nil
	}
}

func zeroStateSchema() *schema.Schema {
	return schema.NewSchema(pipeline.KindInitialState, "ZERO", nil)
}

func hartreeFockSchema() *schema.Schema {
	return schema.NewSchema(pipeline.KindInitialState, "HartreeFock", nil)
}
