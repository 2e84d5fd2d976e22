package resolve

import (
	"strings"

	"github.com/quantpipe/quantpipe/pkg/pipeline"
)

// requirementWalk expands transitive companion requirements depth-first,
// parent before requirements and requirements in declaration order. The
// Requires lists come from plugin schemas, so a cycle among them is
// possible and is reported with the full path.
type requirementWalk struct {
	visited map[pipeline.Kind]bool
	stack   map[pipeline.Kind]bool
	path    []pipeline.Kind

	// visit resolves and emits one kind, returning the requirements its
	// chosen implementation declares.
	emit func(kind pipeline.Kind) ([]pipeline.Kind, error)
}

func newRequirementWalk(emit func(pipeline.Kind) ([]pipeline.Kind, error)) *requirementWalk {
	return &requirementWalk{
		visited: make(map[pipeline.Kind]bool),
		stack:   make(map[pipeline.Kind]bool),
		emit:    emit,
	}
}

// markDone records a kind that was emitted outside the walk so it is not
// synthesized again.
func (w *requirementWalk) markDone(kind pipeline.Kind) {
	w.visited[kind] = true
}

// visit emits kind and then its transitive requirements.
func (w *requirementWalk) visit(kind pipeline.Kind) error {
	if w.stack[kind] {
		return pipeline.NewResolutionError(kind, "requirement cycle: "+w.cyclePath(kind))
	}
	if w.visited[kind] {
		return nil
	}
	w.visited[kind] = true
	w.stack[kind] = true
	w.path = append(w.path, kind)
	defer func() {
		delete(w.stack, kind)
		w.path = w.path[:len(w.path)-1]
	}()

	requires, err := w.emit(kind)
	if err != nil {
		return err
	}
	for _, req := range requires {
		if err := w.visit(req); err != nil {
			return err
		}
	}
	return nil
}

// visitRequirements walks a requirement list without re-emitting the
// parent.
func (w *requirementWalk) visitRequirements(parent pipeline.Kind, requires []pipeline.Kind) error {
	w.visited[parent] = true
	w.stack[parent] = true
	w.path = append(w.path, parent)
	defer func() {
		delete(w.stack, parent)
		w.path = w.path[:len(w.path)-1]
	}()

	for _, req := range requires {
		if err := w.visit(req); err != nil {
			return err
		}
	}
	return nil
}

func (w *requirementWalk) cyclePath(kind pipeline.Kind) string {
	parts := make([]string, 0, len(w.path)+1)
	started := false
	for _, k := range w.path {
		if k == kind {
			started = true
		}
		if started {
			parts = append(parts, string(k))
		}
	}
	parts = append(parts, string(kind))
	return strings.Join(parts, " -> ")
}
