package input

import (
	"sort"
	"strings"
)

// Type classifies a parsed value.
type Type int

const (
	// TypeString is a bare token that is not numeric or boolean.
	TypeString Type = iota

	// TypeInt is an integer literal.
	TypeInt

	// TypeFloat is a decimal or exponent-form literal.
	TypeFloat

	// TypeBool is a true/false literal (case-insensitive).
	TypeBool

	// TypeList is an ordered sequence of scalar values.
	TypeList
)

// String returns the human-readable name of the type.
func (t Type) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeBool:
		return "bool"
	case TypeList:
		return "list"
	}
	return "unknown"
}

// TypeOf returns the Type of a parsed value. Values produced by the parser
// are one of int64, float64, bool, string or []any.
func TypeOf(v any) Type {
	switch v.(type) {
	case int64:
		return TypeInt
	case float64:
		return TypeFloat
	case bool:
		return TypeBool
	case []any:
		return TypeList
	default:
		return TypeString
	}
}

// Section is a named block of key/value pairs. Key order follows the
// document; setting an existing key overwrites its value in place
// (last write wins) without changing its position.
type Section struct {
	// Name is the canonical (upper-case) section name.
	Name string

	// Line is the input line on which the section opened, zero for
	// synthesized sections.
	Line int

	// Text is the free-form body of the NAME section; empty everywhere
	// else.
	Text string

	keys   []string
	values map[string]any
}

// NewSection creates an empty section with the canonical form of name.
func NewSection(name string) *Section {
	return &Section{
		Name:   CanonicalName(name),
		values: make(map[string]any),
	}
}

// CanonicalName returns the canonical (upper-case, trimmed) form of a
// section name.
func CanonicalName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// Set stores a value under key. An existing key keeps its position.
func (s *Section) Set(key string, v any) {
	if _, ok := s.values[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.values[key] = v
}

// Get returns the value stored under key.
func (s *Section) Get(key string) (any, bool) {
	v, ok := s.values[key]
	return v, ok
}

// GetString returns the value under key rendered as a string.
func (s *Section) GetString(key string) (string, bool) {
	v, ok := s.values[key]
	if !ok {
		return "", false
	}
	return FormatValue(v), true
}

// Keys returns the keys in document order.
func (s *Section) Keys() []string {
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

// Len returns the number of keys in the section.
func (s *Section) Len() int {
	return len(s.keys)
}

// Clone returns a deep copy of the section.
func (s *Section) Clone() *Section {
	c := NewSection(s.Name)
	c.Line = s.Line
	c.Text = s.Text
	for _, k := range s.keys {
		c.Set(k, cloneValue(s.values[k]))
	}
	return c
}

// Equal reports whether two sections have the same name, keys in the same
// order, and equal values.
func (s *Section) Equal(o *Section) bool {
	if s.Name != o.Name || s.Text != o.Text || len(s.keys) != len(o.keys) {
		return false
	}
	for i, k := range s.keys {
		if o.keys[i] != k {
			return false
		}
		if !valueEqual(s.values[k], o.values[k]) {
			return false
		}
	}
	return true
}

func cloneValue(v any) any {
	if list, ok := v.([]any); ok {
		out := make([]any, len(list))
		copy(out, list)
		return out
	}
	return v
}

func valueEqual(a, b any) bool {
	la, aok := a.([]any)
	lb, bok := b.([]any)
	if aok != bok {
		return false
	}
	if !aok {
		return a == b
	}
	if len(la) != len(lb) {
		return false
	}
	for i := range la {
		if la[i] != lb[i] {
			return false
		}
	}
	return true
}

// Document is an ordered collection of uniquely named sections.
type Document struct {
	sections []*Section
	index    map[string]*Section
}

// NewDocument creates an empty document.
func NewDocument() *Document {
	return &Document{index: make(map[string]*Section)}
}

// Add appends a section. Adding a second section with the same canonical
// name replaces nothing and reports false.
func (d *Document) Add(s *Section) bool {
	if _, exists := d.index[s.Name]; exists {
		return false
	}
	d.sections = append(d.sections, s)
	d.index[s.Name] = s
	return true
}

// Section returns the section with the given name (case-insensitive).
func (d *Document) Section(name string) (*Section, bool) {
	s, ok := d.index[CanonicalName(name)]
	return s, ok
}

// Sections returns all sections in document order.
func (d *Document) Sections() []*Section {
	out := make([]*Section, len(d.sections))
	copy(out, d.sections)
	return out
}

// Names returns the canonical section names in document order.
func (d *Document) Names() []string {
	out := make([]string, len(d.sections))
	for i, s := range d.sections {
		out[i] = s.Name
	}
	return out
}

// Len returns the number of sections.
func (d *Document) Len() int {
	return len(d.sections)
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	c := NewDocument()
	for _, s := range d.sections {
		c.Add(s.Clone())
	}
	return c
}

// Equal reports whether two documents contain equal sections. Section order
// is not significant; key order within each section is.
func (d *Document) Equal(o *Document) bool {
	if len(d.sections) != len(o.sections) {
		return false
	}
	names := make([]string, 0, len(d.sections))
	for name := range d.index {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		os, ok := o.index[name]
		if !ok || !d.index[name].Equal(os) {
			return false
		}
	}
	return true
}
