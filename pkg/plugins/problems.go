package plugins

import (
	"github.com/quantpipe/quantpipe/pkg/input"
	"github.com/quantpipe/quantpipe/pkg/pipeline"
	"github.com/quantpipe/quantpipe/pkg/schema"
)

// energyProblem asks for the ground-state energy. Its only effect on
// resolution is pulling an OPERATOR section into the configuration.
type energyProblem struct {
	component
}

func energySchema() *schema.Schema {
	return schema.NewSchema(pipeline.KindProblem, "energy", nil,
		pipeline.KindOperator)
}

func newEnergyProblem(*input.Section) (pipeline.Component, error) {
	return &energyProblem{
		component: component{kind: pipeline.KindProblem, name: "energy"},
	}, nil
}
