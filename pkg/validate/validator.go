// Package validate checks a resolved configuration against the registered
// schemas. Validation is total: every violation across every section is
// collected in one pass, so the user sees all problems at once.
package validate

import (
	"fmt"

	"github.com/quantpipe/quantpipe/pkg/input"
	"github.com/quantpipe/quantpipe/pkg/pipeline"
	"github.com/quantpipe/quantpipe/pkg/schema"
)

// ValidationError is one violation found in a resolved section.
type ValidationError struct {
	// Section is the canonical section name.
	Section string

	// Key is the offending key, empty for section-level problems.
	Key string

	// Expected describes what the schema accepts.
	Expected string

	// Actual describes what the configuration supplied.
	Actual string

	// Message is the human-readable description.
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("%s.%s: %s", e.Section, e.Key, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Section, e.Message)
}

// Validator checks resolved configurations against a frozen registry.
type Validator struct {
	reg *schema.Registry
}

// New creates a validator over a registry.
func New(reg *schema.Registry) *Validator {
	return &Validator{reg: reg}
}

// Validate returns every violation in the resolved configuration; an empty
// slice means valid. Component sections are checked against the schema of
// the implementation their name key selects; the driver's companion
// section against the driver's schema; the NAME section and unrecognized
// extra sections are never validated.
func (v *Validator) Validate(res *pipeline.Resolved) []ValidationError {
	var errs []ValidationError
	for _, sec := range res.Doc.Sections() {
		switch {
		case sec.Name == pipeline.SectionNameFree:
			continue
		case sec.Name == pipeline.KindDriver.SectionName():
			errs = append(errs, v.checkSelector(sec)...)
		case sec.Name == input.CanonicalName(res.Driver):
			errs = append(errs, v.checkCompanion(sec, res.Driver)...)
		default:
			kind, ok := pipeline.KindOf(sec.Name)
			if !ok {
				// Unknown but harmless extra section.
				continue
			}
			errs = append(errs, v.checkComponent(sec, kind)...)
		}
	}
	return errs
}

// checkSelector validates the DRIVER selector section, which admits only
// the name key.
func (v *Validator) checkSelector(sec *input.Section) []ValidationError {
	var errs []ValidationError
	for _, key := range sec.Keys() {
		if key == pipeline.NameKey {
			continue
		}
		errs = append(errs, ValidationError{
			Section: sec.Name,
			Key:     key,
			Message: fmt.Sprintf("unknown key %q: the DRIVER section only selects a driver by name", key),
		})
	}
	return errs
}

// checkCompanion validates a driver companion section against the driver's
// schema.
func (v *Validator) checkCompanion(sec *input.Section, driver string) []ValidationError {
	sch, err := v.reg.Lookup(pipeline.KindDriver, driver)
	if err != nil {
		return []ValidationError{{
			Section: sec.Name,
			Message: fmt.Sprintf("no registered driver %q to validate against", driver),
		}}
	}
	return v.checkKeys(sec, sch, false)
}

// checkComponent validates a component section against the schema its name
// key selects.
func (v *Validator) checkComponent(sec *input.Section, kind pipeline.Kind) []ValidationError {
	name, ok := sec.GetString(pipeline.NameKey)
	if !ok || name == "" {
		return []ValidationError{{
			Section: sec.Name,
			Key:     pipeline.NameKey,
			Message: "section selects no implementation",
		}}
	}
	sch, err := v.reg.Lookup(kind, name)
	if err != nil {
		return []ValidationError{{
			Section:  sec.Name,
			Key:      pipeline.NameKey,
			Expected: fmt.Sprintf("a registered %s implementation", kind),
			Actual:   name,
			Message:  fmt.Sprintf("unknown %s implementation %q", kind, name),
		}}
	}
	return v.checkKeys(sec, sch, true)
}

// checkKeys reports unknown keys, type mismatches and out-of-enumeration
// values for one section.
func (v *Validator) checkKeys(sec *input.Section, sch *schema.Schema, allowName bool) []ValidationError {
	var errs []ValidationError
	for _, key := range sec.Keys() {
		if allowName && key == pipeline.NameKey {
			continue
		}
		opt, ok := sch.Option(key)
		if !ok {
			errs = append(errs, ValidationError{
				Section: sec.Name,
				Key:     key,
				Message: fmt.Sprintf("unknown key %q for %s %s", key, sch.Kind, sch.Name),
			})
			continue
		}
		val, _ := sec.Get(key)
		if !opt.Accepts(val) {
			errs = append(errs, ValidationError{
				Section:  sec.Name,
				Key:      key,
				Expected: opt.Type.String(),
				Actual:   input.TypeOf(val).String(),
				Message: fmt.Sprintf("type mismatch: expected %s, got %s (%s)",
					opt.Type, input.TypeOf(val), input.FormatValue(val)),
			})
			continue
		}
		if !opt.Allows(val) {
			errs = append(errs, ValidationError{
				Section:  sec.Name,
				Key:      key,
				Expected: allowedList(opt),
				Actual:   input.FormatValue(val),
				Message: fmt.Sprintf("value %s not in allowed set %s",
					input.FormatValue(val), allowedList(opt)),
			})
		}
	}
	return errs
}

func allowedList(opt *schema.Option) string {
	parts := make([]any, len(opt.Allowed))
	copy(parts, opt.Allowed)
	return input.FormatValue(parts)
}
