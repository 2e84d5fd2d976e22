package plugins

import (
	"github.com/quantpipe/quantpipe/pkg/input"
	"github.com/quantpipe/quantpipe/pkg/pipeline"
	"github.com/quantpipe/quantpipe/pkg/quantum"
	"github.com/quantpipe/quantpipe/pkg/quantum/localsim"
	"github.com/quantpipe/quantpipe/pkg/schema"
)

// localBackend wraps a localsim runtime.
type localBackend struct {
	component
	rt quantum.Runtime
}

func (b *localBackend) Runtime() quantum.Runtime { return b.rt }

func statevectorSchema() *schema.Schema {
	return schema.NewSchema(pipeline.KindBackend, "local_statevector_simulator", []schema.Option{
		{Name: "shots", Type: input.TypeInt, Default: int64(1)},
	})
}

func newStatevectorBackend(params *input.Section) (pipeline.Component, error) {
	return &localBackend{
		component: component{kind: pipeline.KindBackend, name: "local_statevector_simulator"},
		rt:        localsim.New(localsim.ModeStatevector, intParam(params, "shots", 1)),
	}, nil
}

func qasmSchema() *schema.Schema {
	return schema.NewSchema(pipeline.KindBackend, "local_qasm_simulator", []schema.Option{
		{Name: "shots", Type: input.TypeInt, Default: int64(1024)},
	})
}

func newQasmBackend(params *input.Section) (pipeline.Component, error) {
	return &localBackend{
		component: component{kind: pipeline.KindBackend, name: "local_qasm_simulator"},
		rt:        localsim.New(localsim.ModeSampling, intParam(params, "shots", 1024)),
	}, nil
}
