package resolve

import (
	"fmt"

	"github.com/quantpipe/quantpipe/pkg/input"
	"github.com/quantpipe/quantpipe/pkg/pipeline"
	"github.com/quantpipe/quantpipe/pkg/schema"
)

// Resolver fills a partial user configuration to a complete one using the
// registered schemas. It holds no mutable state; one Resolver may serve
// concurrent Resolve calls once the registry is frozen.
type Resolver struct {
	reg *schema.Registry
}

// New creates a resolver over a registry.
func New(reg *schema.Registry) *Resolver {
	return &Resolver{reg: reg}
}

// Resolve produces a complete configuration from user sections, or fails
// without partial effect. PROBLEM and ALGORITHM names are determined first
// (falling back to energy and VQE when the registry declares no default);
// DRIVER is mandatory and its companion
// section, named after the driver, must be present. Companion kinds an
// implementation requires are synthesized from their kind defaults when
// the user omits them. Unknown extra sections pass through untouched.
func (r *Resolver) Resolve(user *input.Document) (*pipeline.Resolved, error) {
	problem, err := r.componentName(user, pipeline.KindProblem, pipeline.DefaultProblem)
	if err != nil {
		return nil, err
	}
	algorithm, err := r.componentName(user, pipeline.KindAlgorithm, pipeline.DefaultAlgorithm)
	if err != nil {
		return nil, err
	}

	out := input.NewDocument()
	if nameSec, ok := user.Section(pipeline.SectionNameFree); ok {
		out.Add(nameSec.Clone())
	}

	walk := newRequirementWalk(func(kind pipeline.Kind) ([]pipeline.Kind, error) {
		return r.emitKind(out, user, kind, "")
	})

	// PROBLEM gates everything else.
	problemRequires, err := r.emitKind(out, user, pipeline.KindProblem, problem)
	if err != nil {
		return nil, err
	}

	// DRIVER is mandatory and carries no universal default.
	driver, err := r.emitDriver(out, user)
	if err != nil {
		return nil, err
	}
	walk.markDone(pipeline.KindDriver)

	if err := walk.visitRequirements(pipeline.KindProblem, problemRequires); err != nil {
		return nil, err
	}

	algorithmRequires, err := r.emitKind(out, user, pipeline.KindAlgorithm, algorithm)
	if err != nil {
		return nil, err
	}
	if err := walk.visitRequirements(pipeline.KindAlgorithm, algorithmRequires); err != nil {
		return nil, err
	}

	// BACKEND is always resolved, last.
	if !walk.visited[pipeline.KindBackend] {
		if _, err := r.emitKind(out, user, pipeline.KindBackend, ""); err != nil {
			return nil, err
		}
		walk.markDone(pipeline.KindBackend)
	}

	// User sections not pulled in above: known kinds are merged
	// (explicitly referenced per spec), everything else passes through.
	for _, sec := range user.Sections() {
		if _, done := out.Section(sec.Name); done {
			continue
		}
		if kind, ok := pipeline.KindOf(sec.Name); ok {
			if err := walk.visit(kind); err != nil {
				return nil, err
			}
			continue
		}
		out.Add(sec.Clone())
	}

	backend, ok := sectionComponentName(out, pipeline.KindBackend.SectionName())
	if !ok {
		return nil, pipeline.NewResolutionError(pipeline.KindBackend, "no default BACKEND implementation registered")
	}
	return &pipeline.Resolved{
		Doc:       out,
		Problem:   problem,
		Algorithm: algorithm,
		Driver:    driver,
		Backend:   backend,
	}, nil
}

// componentName determines the implementation name a kind resolves to
// before any merging happens. A default registered on the registry takes
// precedence over the built-in fallback name.
func (r *Resolver) componentName(user *input.Document, kind pipeline.Kind, fallback string) (string, error) {
	if sec, ok := user.Section(kind.SectionName()); ok {
		if name, ok := sec.GetString(pipeline.NameKey); ok && name != "" {
			return name, nil
		}
	}
	if name, ok := r.reg.DefaultFor(kind); ok {
		return name, nil
	}
	if fallback != "" {
		return fallback, nil
	}
	return "", pipeline.NewResolutionError(kind, fmt.Sprintf("no %s named and no default registered", kind))
}

// emitKind merges the user section for a kind (or synthesizes one) into
// out and returns the chosen implementation's declared requirements. An
// empty name means: take the user's name key or the kind default.
func (r *Resolver) emitKind(out, user *input.Document, kind pipeline.Kind, name string) ([]pipeline.Kind, error) {
	if name == "" {
		var err error
		name, err = r.componentName(user, kind, "")
		if err != nil {
			return nil, err
		}
	}
	sch, err := r.reg.Lookup(kind, name)
	if err != nil {
		return nil, err
	}
	sec, ok := user.Section(kind.SectionName())
	if !ok {
		sec = input.NewSection(kind.SectionName())
	}
	merged := sch.ApplyDefaults(sec)
	if !out.Add(merged) {
		return nil, pipeline.NewResolutionError(kind, fmt.Sprintf("section %s resolved twice", kind))
	}
	return sch.Requires, nil
}

// emitDriver handles the DRIVER selector section and its companion. The
// companion is named after the driver and is a hard requirement: drivers
// carry no universal default configuration.
func (r *Resolver) emitDriver(out, user *input.Document) (string, error) {
	drvSec, ok := user.Section(pipeline.KindDriver.SectionName())
	if !ok {
		return "", pipeline.NewResolutionError(pipeline.KindDriver,
			"required section DRIVER is missing and drivers have no default")
	}
	driver, ok := drvSec.GetString(pipeline.NameKey)
	if !ok || driver == "" {
		return "", pipeline.NewResolutionError(pipeline.KindDriver, "DRIVER section names no driver")
	}
	sch, err := r.reg.Lookup(pipeline.KindDriver, driver)
	if err != nil {
		return "", err
	}
	out.Add(drvSec.Clone())

	companionName := input.CanonicalName(driver)
	companion, ok := user.Section(companionName)
	if !ok {
		return "", pipeline.NewResolutionError(pipeline.KindDriver,
			fmt.Sprintf("driver %s requires a companion section &%s", driver, companionName)).
			WithSection(companionName)
	}
	out.Add(sch.ApplyOptionDefaults(companion))
	return driver, nil
}

func sectionComponentName(doc *input.Document, section string) (string, bool) {
	sec, ok := doc.Section(section)
	if !ok {
		return "", false
	}
	return sec.GetString(pipeline.NameKey)
}
