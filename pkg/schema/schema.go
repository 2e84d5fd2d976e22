package schema

import (
	"fmt"

	"github.com/quantpipe/quantpipe/pkg/input"
	"github.com/quantpipe/quantpipe/pkg/pipeline"
)

// Option describes one valid key of a component's section.
type Option struct {
	// Name is the option key.
	Name string

	// Type is the accepted value type.
	Type input.Type

	// Default is the value merged in when the user omits the key. Nil
	// means no default: absent stays absent.
	Default any

	// Allowed enumerates the permitted values. Empty means unrestricted.
	Allowed []any
}

// Accepts reports whether a parsed value matches the option's type. An
// integer is accepted where a float is expected.
func (o *Option) Accepts(v any) bool {
	t := input.TypeOf(v)
	if t == o.Type {
		return true
	}
	return o.Type == input.TypeFloat && t == input.TypeInt
}

// Allows reports whether a value is within the option's enumeration.
func (o *Option) Allows(v any) bool {
	if len(o.Allowed) == 0 {
		return true
	}
	for _, a := range o.Allowed {
		if a == v {
			return true
		}
	}
	return false
}

// Schema is the declared option set of one component implementation.
// For drivers, the options describe the driver's companion section.
type Schema struct {
	// Kind is the component kind the schema belongs to.
	Kind pipeline.Kind

	// Name is the implementation name.
	Name string

	// Options are the valid keys, in declaration order.
	Options []Option

	// Requires lists companion kinds this implementation needs resolved,
	// in declaration order. Absent companions are synthesized from each
	// kind's default implementation.
	Requires []pipeline.Kind

	byName map[string]*Option
}

// NewSchema builds a schema and indexes its options. Duplicate option
// names are a programming error and panic at registration time.
func NewSchema(kind pipeline.Kind, name string, opts []Option, requires ...pipeline.Kind) *Schema {
	s := &Schema{
		Kind:     kind,
		Name:     name,
		Options:  opts,
		Requires: requires,
		byName:   make(map[string]*Option, len(opts)),
	}
	for i := range s.Options {
		o := &s.Options[i]
		if _, dup := s.byName[o.Name]; dup {
			panic(fmt.Sprintf("schema %s/%s: duplicate option %q", kind, name, o.Name))
		}
		s.byName[o.Name] = o
	}
	return s
}

// Option looks up an option by key.
func (s *Schema) Option(name string) (*Option, bool) {
	o, ok := s.byName[name]
	return o, ok
}

// ApplyDefaults returns a copy of sec with the implementation name and
// every defaulted option the user omitted filled in. User-supplied keys
// always win; keys absent from both the section and the schema are not
// invented.
func (s *Schema) ApplyDefaults(sec *input.Section) *input.Section {
	out := sec.Clone()
	if _, ok := out.Get(pipeline.NameKey); !ok {
		out.Set(pipeline.NameKey, s.Name)
	}
	return s.fillOptions(out)
}

// ApplyOptionDefaults fills omitted defaulted options without injecting a
// name key. Driver companion sections merge this way.
func (s *Schema) ApplyOptionDefaults(sec *input.Section) *input.Section {
	return s.fillOptions(sec.Clone())
}

func (s *Schema) fillOptions(out *input.Section) *input.Section {
	for _, o := range s.Options {
		if o.Default == nil {
			continue
		}
		if _, ok := out.Get(o.Name); !ok {
			out.Set(o.Name, o.Default)
		}
	}
	return out
}
