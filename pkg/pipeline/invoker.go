package pipeline

import (
	"context"
	"fmt"

	"github.com/quantpipe/quantpipe/pkg/telemetry"
)

// Invoker dispatches a resolved configuration to the selected algorithm.
// It performs no computation itself: components are looked up by name,
// constructed with their merged parameters, and control passes to the
// algorithm's Run entry point.
type Invoker struct {
	provider ComponentProvider
}

// NewInvoker creates an invoker over the given component provider.
func NewInvoker(p ComponentProvider) *Invoker {
	return &Invoker{provider: p}
}

// Invoke runs the algorithm the resolved configuration selects and returns
// its result mapping. The configuration must have passed validation;
// invocation with known-invalid configuration is the caller's bug, not a
// supported path. Errors from the driver or runtime are passed through.
func (iv *Invoker) Invoke(ctx context.Context, res *Resolved) (Result, error) {
	log := telemetry.FromContext(ctx).WithField("algorithm", res.Algorithm)

	env := &Environment{
		Resolved:   res,
		Components: make(map[Kind]Component),
	}

	// Backend first: it owns the runtime everything below talks to.
	backendSec, ok := res.Section(KindBackend)
	if !ok {
		return nil, NewInternalError("resolved configuration has no BACKEND section", nil)
	}
	backendComp, err := iv.provider.Construct(KindBackend, res.Backend, backendSec)
	if err != nil {
		return nil, err
	}
	backend, ok := backendComp.(Backend)
	if !ok {
		return nil, NewInternalError(fmt.Sprintf("component %s is not a backend", res.Backend), nil)
	}
	env.Runtime = backend.Runtime()

	// Driver and its companion section.
	companion, ok := res.Doc.Section(res.Driver)
	if !ok {
		return nil, NewInternalError(fmt.Sprintf("resolved configuration has no %s companion section", res.Driver), nil)
	}
	driverComp, err := iv.provider.Construct(KindDriver, res.Driver, companion)
	if err != nil {
		return nil, err
	}
	driver, ok := driverComp.(Driver)
	if !ok {
		return nil, NewInternalError(fmt.Sprintf("component %s is not a driver", res.Driver), nil)
	}
	log.WithField("driver", res.Driver).Debug("loading problem")
	problem, err := driver.Load(ctx)
	if err != nil {
		return nil, NewExternalError("driver failed", err).WithSection(res.Driver)
	}
	env.Problem = problem

	// Operator, when the problem kind calls for one.
	if opSec, ok := res.Section(KindOperator); ok {
		opName, _ := opSec.GetString(NameKey)
		opComp, err := iv.provider.Construct(KindOperator, opName, opSec)
		if err != nil {
			return nil, err
		}
		builder, ok := opComp.(OperatorBuilder)
		if !ok {
			return nil, NewInternalError(fmt.Sprintf("component %s is not an operator builder", opName), nil)
		}
		operator, err := builder.Build(ctx, env.Runtime, problem)
		if err != nil {
			return nil, NewExternalError("operator construction failed", err).WithSection(KindOperator.SectionName())
		}
		env.Operator = operator
	}

	// Companion components the algorithm may read.
	for _, kind := range []Kind{KindOptimizer, KindVariationalForm, KindInitialState} {
		sec, ok := res.Section(kind)
		if !ok {
			continue
		}
		name, _ := sec.GetString(NameKey)
		comp, err := iv.provider.Construct(kind, name, sec)
		if err != nil {
			return nil, err
		}
		env.Components[kind] = comp
	}

	algSec, ok := res.Section(KindAlgorithm)
	if !ok {
		return nil, NewInternalError("resolved configuration has no ALGORITHM section", nil)
	}
	algComp, err := iv.provider.Construct(KindAlgorithm, res.Algorithm, algSec)
	if err != nil {
		return nil, err
	}
	alg, ok := algComp.(Algorithm)
	if !ok {
		return nil, NewInternalError(fmt.Sprintf("component %s is not an algorithm", res.Algorithm), nil)
	}

	log.WithField("runtime", env.Runtime.Name()).Info("invoking algorithm")
	result, err := alg.Run(ctx, env)
	if err != nil {
		return nil, err
	}
	if result == nil {
		result = Result{}
	}
	result["algorithm"] = res.Algorithm
	result["runtime"] = env.Runtime.Name()
	return result, nil
}
