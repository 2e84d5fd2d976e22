package plugins

import (
	"fmt"

	"github.com/quantpipe/quantpipe/pkg/input"
	"github.com/quantpipe/quantpipe/pkg/pipeline"
)

// component carries the identity every implementation shares.
type component struct {
	kind pipeline.Kind
	name string
}

func (c component) Kind() pipeline.Kind { return c.kind }
func (c component) Name() string        { return c.name }

// Parameter accessors. Sections reaching a constructor have passed
// validation, so types are trusted; fallbacks cover keys with no schema
// default.

func stringParam(sec *input.Section, key, fallback string) string {
	if v, ok := sec.GetString(key); ok {
		return v
	}
	return fallback
}

func intParam(sec *input.Section, key string, fallback int) int {
	if v, ok := sec.Get(key); ok {
		if n, ok := v.(int64); ok {
			return int(n)
		}
	}
	return fallback
}

func floatParam(sec *input.Section, key string, fallback float64) float64 {
	if v, ok := sec.Get(key); ok {
		switch n := v.(type) {
		case float64:
			return n
		case int64:
			return float64(n)
		}
	}
	return fallback
}

func boolParam(sec *input.Section, key string, fallback bool) bool {
	if v, ok := sec.Get(key); ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return fallback
}

// floatSlice reads a list-valued key as floats. Integer elements are
// widened. A missing key returns nil with no error.
func floatSlice(sec *input.Section, key string) ([]float64, error) {
	v, ok := sec.Get(key)
	if !ok {
		return nil, nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("key %s: expected a list, got %s", key, input.TypeOf(v))
	}
	out := make([]float64, 0, len(list))
	for i, e := range list {
		switch n := e.(type) {
		case float64:
			out = append(out, n)
		case int64:
			out = append(out, float64(n))
		default:
			return nil, fmt.Errorf("key %s: element %d is %s, want a number", key, i, input.TypeOf(e))
		}
	}
	return out, nil
}

// stringSlice reads a list-valued key as strings.
func stringSlice(sec *input.Section, key string) ([]string, error) {
	v, ok := sec.Get(key)
	if !ok {
		return nil, nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("key %s: expected a list, got %s", key, input.TypeOf(v))
	}
	out := make([]string, 0, len(list))
	for i, e := range list {
		s, ok := e.(string)
		if !ok {
			return nil, fmt.Errorf("key %s: element %d is %s, want a string", key, i, input.TypeOf(e))
		}
		out = append(out, s)
	}
	return out, nil
}
