package catalog

import (
	"errors"
	"strings"
)

// Error is the catalog error domain type.
//
// Errors coming from catalog components should be inspectable ([errors.As])
// as an *Error at some point in the chain. Create an Error at the system
// boundary (opening a package file, reading an archive member, parsing a
// plugin's output) and prefer [fmt.Errorf] with "%w" in intermediate layers.
type Error struct {
	Inner   error
	Kind    ErrorKind
	Op      string
	Message string
}

var (
	_ error                       = (*Error)(nil)
	_ interface{ Is(error) bool } = (*Error)(nil)
	_ interface{ Unwrap() error } = (*Error)(nil)
)

// Error implements error.
func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(" ")
	}
	b.WriteString("[")
	b.WriteString(string(e.Kind))
	b.WriteString("]")
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Inner != nil {
		b.WriteString(": ")
		b.WriteString(e.Inner.Error())
	}
	return b.String()
}

// Is enables [errors.Is] against one of the declared [ErrorKind] values.
func (e *Error) Is(kind error) bool {
	return errors.Is(e.Kind, kind)
}

// Unwrap enables [errors.Unwrap].
func (e *Error) Unwrap() error {
	return e.Inner
}

// ErrorKind classifies errors raised by the catalog pipeline. See spec §7.
type ErrorKind string

func (k ErrorKind) Error() string { return string(k) }

// Declared error kinds, matching the taxonomy in spec §7.
var (
	// ErrUnsupportedFormat means no package opener matched the file's
	// suffix.
	ErrUnsupportedFormat = ErrorKind("unsupported format")
	// ErrPackageParse means the container or its headers were malformed.
	ErrPackageParse = ErrorKind("package parse error")
	// ErrPluginFailed means a plugin returned a hard failure.
	ErrPluginFailed = ErrorKind("plugin failed")
	// ErrPluginNotSupported means a plugin declined to handle the input;
	// callers should treat this the same as "no result", not an error to
	// surface.
	ErrPluginNotSupported = ErrorKind("plugin not supported")
	// ErrIO wraps a file-system error with path context.
	ErrIO = ErrorKind("io error")
	// ErrNetwork is raised by URL probing or appdata-referenced remote
	// resources; it is always caught by callers and never fatal.
	ErrNetwork = ErrorKind("network error")
	// ErrValidation is raised by the appdata plugin when parsed content
	// fails an identity or license check.
	ErrValidation = ErrorKind("validation error")
)

// NewError constructs an *Error, mirroring the common "op: wrap(inner)"
// shape used across the pipeline.
func NewError(op string, kind ErrorKind, msg string, inner error) *Error {
	return &Error{Op: op, Kind: kind, Message: msg, Inner: inner}
}
