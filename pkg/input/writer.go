package input

import (
	"io"
	"strconv"
	"strings"
)

// Write serializes the document to w in the sectioned format. Parsing the
// output yields a Document equal to d.
func Write(w io.Writer, d *Document) error {
	for _, s := range d.Sections() {
		if _, err := io.WriteString(w, "&"+s.Name+"\n"); err != nil {
			return err
		}
		if s.Text != "" {
			if _, err := io.WriteString(w, s.Text+"\n"); err != nil {
				return err
			}
		}
		for _, k := range s.Keys() {
			v, _ := s.Get(k)
			if _, err := io.WriteString(w, "  "+k+"="+FormatValue(v)+"\n"); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "&END\n\n"); err != nil {
			return err
		}
	}
	return nil
}

// String renders the document in the sectioned format.
func (d *Document) String() string {
	var b strings.Builder
	Write(&b, d)
	return b.String()
}

// FormatValue renders a typed value as input-format text.
func FormatValue(v any) string {
	switch t := v.(type) {
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return formatFloat(t)
	case bool:
		return strconv.FormatBool(t)
	case []any:
		parts := make([]string, len(t))
		for i, item := range t {
			parts[i] = FormatValue(item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case string:
		return t
	}
	return ""
}

// formatFloat keeps the rendered text lexically a float so it parses back
// to the same type.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
