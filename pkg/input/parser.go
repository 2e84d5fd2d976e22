package input

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// ParseError reports a malformed input line.
type ParseError struct {
	// Line is the 1-indexed line number of the offending text.
	Line int

	// Text is the offending text.
	Text string

	// Message describes the problem.
	Message string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Message, e.Text)
}

var (
	intPattern   = regexp.MustCompile(`^[+-]?\d+$`)
	floatPattern = regexp.MustCompile(`^[+-]?(\d+\.\d*|\.\d+|\d+)([eE][+-]?\d+)?$`)
)

const endToken = "&END"

// freeTextSection is the one section whose body is literal text.
const freeTextSection = "NAME"

// ParseFile parses the sectioned input file at path.
func ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// ParseString parses sectioned input from a string.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// Parse reads sectioned input from r and returns the parsed Document.
// Section names are case-insensitive; `#` starts a line comment. A section
// may open, carry pairs and close on a single line
// (`&DRIVER name=HDF5 &END`). Duplicate keys within a section follow
// last-write-wins. Malformed lines and duplicate section names fail with a
// *ParseError.
func Parse(r io.Reader) (*Document, error) {
	doc := NewDocument()
	var current *Section

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		rest := strings.TrimSpace(text)

		for rest != "" {
			if strings.HasPrefix(rest, "&") {
				token, remainder := splitToken(rest)
				if strings.EqualFold(token, endToken) {
					if current == nil {
						return nil, &ParseError{Line: line, Text: token, Message: "unmatched &END"}
					}
					if !doc.Add(current) {
						return nil, &ParseError{
							Line:    current.Line,
							Text:    "&" + current.Name,
							Message: "duplicate section name",
						}
					}
					current = nil
				} else {
					name := strings.TrimPrefix(token, "&")
					if name == "" {
						return nil, &ParseError{Line: line, Text: token, Message: "empty section name"}
					}
					if current != nil {
						return nil, &ParseError{
							Line:    line,
							Text:    token,
							Message: fmt.Sprintf("section %s opened before &END of %s", CanonicalName(name), current.Name),
						}
					}
					current = NewSection(name)
					current.Line = line
				}
				rest = remainder
				continue
			}

			if current == nil {
				return nil, &ParseError{Line: line, Text: rest, Message: "content outside any section"}
			}

			// The NAME section body is free text, not key=value pairs.
			if current.Name == freeTextSection {
				text, remainder := splitFreeText(rest)
				if text != "" {
					if current.Text != "" {
						current.Text += "\n"
					}
					current.Text += text
				}
				rest = remainder
				continue
			}

			pair, remainder := splitPair(rest)
			eq := strings.IndexByte(pair, '=')
			if eq < 0 {
				return nil, &ParseError{Line: line, Text: pair, Message: "expected key=value"}
			}
			key := strings.TrimSpace(pair[:eq])
			if key == "" {
				return nil, &ParseError{Line: line, Text: pair, Message: "empty key"}
			}
			current.Set(key, ParseValue(strings.TrimSpace(pair[eq+1:])))
			rest = remainder
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if current != nil {
		return nil, &ParseError{
			Line:    current.Line,
			Text:    "&" + current.Name,
			Message: "section not closed with &END",
		}
	}
	return doc, nil
}

// splitFreeText cuts free text off s up to a trailing &END, which stays in
// rest for the token loop.
func splitFreeText(s string) (text, rest string) {
	if i := indexFold(s, endToken); i >= 0 {
		return strings.TrimSpace(s[:i]), s[i:]
	}
	return strings.TrimSpace(s), ""
}

// indexFold finds the first case-insensitive occurrence of sub in s.
func indexFold(s, sub string) int {
	return strings.Index(strings.ToUpper(s), strings.ToUpper(sub))
}

// splitToken cuts the first whitespace-delimited token off s.
func splitToken(s string) (token, rest string) {
	i := strings.IndexAny(s, " \t")
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimLeft(s[i:], " \t")
}

// splitPair cuts one key=value pair off s. Whitespace around the pair's
// `=` and inside brackets belongs to the pair; once the value has begun, a
// pair ends at whitespace followed by a section token or another pair.
func splitPair(s string) (pair, rest string) {
	depth := 0
	seenEq, valueStarted := false, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != ' ' && c != '\t' && seenEq {
			valueStarted = true
		}
		switch c {
		case '[':
			depth++
		case ']':
			if depth > 0 {
				depth--
			}
		case '=':
			if depth == 0 {
				seenEq = true
			}
		case ' ', '\t':
			if depth > 0 || !seenEq || !valueStarted {
				continue
			}
			next := strings.TrimLeft(s[i:], " \t")
			if strings.HasPrefix(next, "&") || startsNewPair(next) {
				return strings.TrimRight(s[:i], " \t"), next
			}
		}
	}
	return s, ""
}

// startsNewPair reports whether s begins a fresh key=value pair, either as
// a key=value token or as a key followed by a spaced `=`.
func startsNewPair(s string) bool {
	token, rest := splitToken(s)
	if strings.ContainsRune(token, '=') {
		return true
	}
	return strings.HasPrefix(rest, "=")
}

// ParseValue converts raw text to a typed value: int if all digits, float
// on a decimal or exponent pattern, bool for true/false (any case), a list
// for bracketed or comma-separated text, else the string itself.
func ParseValue(raw string) any {
	if strings.HasPrefix(raw, "[") && strings.HasSuffix(raw, "]") && len(raw) >= 2 {
		return parseList(raw[1 : len(raw)-1])
	}
	if containsTopLevelComma(raw) {
		return parseList(raw)
	}
	return parseScalar(raw)
}

func parseList(inner string) []any {
	items := splitTopLevel(inner)
	out := make([]any, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, ParseValue(item))
	}
	return out
}

// splitTopLevel splits on commas that are not inside brackets.
func splitTopLevel(s string) []string {
	var items []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				items = append(items, s[start:i])
				start = i + 1
			}
		}
	}
	return append(items, s[start:])
}

func containsTopLevelComma(s string) bool {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				return true
			}
		}
	}
	return false
}

func parseScalar(raw string) any {
	if intPattern.MatchString(raw) {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return n
		}
	}
	if floatPattern.MatchString(raw) && strings.ContainsAny(raw, ".eE") {
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return f
		}
	}
	if strings.EqualFold(raw, "true") {
		return true
	}
	if strings.EqualFold(raw, "false") {
		return false
	}
	return raw
}
