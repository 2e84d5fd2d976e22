package pipeline

import (
	"errors"
	"fmt"
)

// Class classifies an error by who can act on it.
type Class string

const (
	// ClassConfig marks errors the user fixes by editing the input file.
	ClassConfig Class = "config"

	// ClassInternal marks defects inside the pipeline itself.
	ClassInternal Class = "internal"

	// ClassExternal marks errors passed through from the invoked runtime
	// or driver, unmodified.
	ClassExternal Class = "external"
)

// Error codes.
const (
	CodeParse            = "PARSE_ERROR"
	CodeUnknownComponent = "UNKNOWN_COMPONENT"
	CodeResolution       = "RESOLUTION_ERROR"
	CodeValidation       = "VALIDATION_ERROR"
	CodeInvocation       = "INVOCATION_FAILED"
)

// Error is a classified pipeline error with section context.
type Error struct {
	// Class is the error classification.
	Class Class

	// Code is the error code for programmatic handling.
	Code string

	// Message is the human-readable message.
	Message string

	// Section names the configuration section involved, if any.
	Section string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Section != "" {
		msg = fmt.Sprintf("%s (section=%s)", msg, e.Section)
	}
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, msg, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, msg)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches on class and code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Class == t.Class && e.Code == t.Code
}

// WithSection attaches section context.
func (e *Error) WithSection(section string) *Error {
	e.Section = section
	return e
}

// NewConfigError creates a user-fixable error with the given code.
func NewConfigError(code, message string, err error) *Error {
	return &Error{Class: ClassConfig, Code: code, Message: message, Err: err}
}

// NewInternalError creates an internal pipeline error.
func NewInternalError(message string, err error) *Error {
	return &Error{Class: ClassInternal, Code: CodeInvocation, Message: message, Err: err}
}

// NewExternalError wraps an error from the invoked collaborator without
// reinterpreting it.
func NewExternalError(message string, err error) *Error {
	return &Error{Class: ClassExternal, Code: CodeInvocation, Message: message, Err: err}
}

// NewUnknownComponentError reports a component name with no registered
// schema for its kind.
func NewUnknownComponentError(kind Kind, name string) *Error {
	return &Error{
		Class:   ClassConfig,
		Code:    CodeUnknownComponent,
		Message: fmt.Sprintf("no registered %s implementation named %q", kind, name),
		Section: kind.SectionName(),
	}
}

// NewResolutionError reports a required section or dependency that cannot
// be derived.
func NewResolutionError(kind Kind, message string) *Error {
	return &Error{
		Class:   ClassConfig,
		Code:    CodeResolution,
		Message: message,
		Section: kind.SectionName(),
	}
}

// HasCode reports whether err carries the given pipeline error code.
func HasCode(err error, code string) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// IsUnknownComponent reports whether err is an unknown-component error.
func IsUnknownComponent(err error) bool {
	return HasCode(err, CodeUnknownComponent)
}

// IsResolution reports whether err is a resolution error.
func IsResolution(err error) bool {
	return HasCode(err, CodeResolution)
}
