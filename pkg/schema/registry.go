package schema

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/quantpipe/quantpipe/pkg/input"
	"github.com/quantpipe/quantpipe/pkg/pipeline"
)

// Factory constructs a component from its merged section parameters.
type Factory func(params *input.Section) (pipeline.Component, error)

// Registration bundles an implementation's schema with its constructor.
type Registration struct {
	// Schema declares the implementation's options and requirements.
	Schema *Schema

	// New constructs the implementation.
	New Factory
}

// Registry maps (kind, name) pairs to registrations. Names are matched
// case-insensitively; the declared spelling is preserved for display.
type Registry struct {
	mu       sync.RWMutex
	entries  map[pipeline.Kind]map[string]*Registration
	defaults map[pipeline.Kind]string
	frozen   bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		entries:  make(map[pipeline.Kind]map[string]*Registration),
		defaults: make(map[pipeline.Kind]string),
	}
}

func registryKey(name string) string {
	return strings.ToUpper(name)
}

// Register inserts a registration. Registering a duplicate (kind, name)
// pair or registering after Freeze fails.
func (r *Registry) Register(reg *Registration) error {
	if reg == nil || reg.Schema == nil || reg.New == nil {
		return fmt.Errorf("registration requires a schema and a constructor")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return fmt.Errorf("registry is frozen: cannot register %s/%s", reg.Schema.Kind, reg.Schema.Name)
	}
	kind := reg.Schema.Kind
	byName := r.entries[kind]
	if byName == nil {
		byName = make(map[string]*Registration)
		r.entries[kind] = byName
	}
	key := registryKey(reg.Schema.Name)
	if _, dup := byName[key]; dup {
		return fmt.Errorf("duplicate registration of %s implementation %q", kind, reg.Schema.Name)
	}
	byName[key] = reg
	return nil
}

// SetDefault declares the implementation a kind falls back to when the
// user names none. The name must already be registered.
func (r *Registry) SetDefault(kind pipeline.Kind, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return fmt.Errorf("registry is frozen: cannot set %s default", kind)
	}
	if _, ok := r.entries[kind][registryKey(name)]; !ok {
		return fmt.Errorf("cannot default %s to unregistered implementation %q", kind, name)
	}
	r.defaults[kind] = name
	return nil
}

// Freeze ends the registration phase. After Freeze the registry is
// read-only and safe for concurrent use.
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = true
}

// Frozen reports whether registration has ended.
func (r *Registry) Frozen() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frozen
}

// Lookup returns the schema for a (kind, name) pair, or an
// unknown-component error.
func (r *Registry) Lookup(kind pipeline.Kind, name string) (*Schema, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reg, ok := r.entries[kind][registryKey(name)]
	if !ok {
		return nil, pipeline.NewUnknownComponentError(kind, name)
	}
	return reg.Schema, nil
}

// DefaultFor returns the default implementation name for a kind.
func (r *Registry) DefaultFor(kind pipeline.Kind) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	name, ok := r.defaults[kind]
	return name, ok
}

// Names returns the registered implementation names of a kind, sorted.
func (r *Registry) Names(kind pipeline.Kind) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.entries[kind]))
	for _, reg := range r.entries[kind] {
		names = append(names, reg.Schema.Name)
	}
	sort.Strings(names)
	return names
}

// Kinds returns every kind with at least one registration, in resolution
// order.
func (r *Registry) Kinds() []pipeline.Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var kinds []pipeline.Kind
	for _, k := range pipeline.ResolutionOrder() {
		if len(r.entries[k]) > 0 {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// Construct implements pipeline.ComponentProvider.
func (r *Registry) Construct(kind pipeline.Kind, name string, params *input.Section) (pipeline.Component, error) {
	r.mu.RLock()
	reg, ok := r.entries[kind][registryKey(name)]
	r.mu.RUnlock()

	if !ok {
		return nil, pipeline.NewUnknownComponentError(kind, name)
	}
	return reg.New(params)
}
