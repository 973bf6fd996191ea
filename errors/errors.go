// Package errors defines the error handling used across the naming
// server, the storage servers, and the remote-invocation runtime that
// connects them.
package errors

import (
	"bytes"
	"fmt"
)

// Error is the type that implements the error interface for this
// module. It carries enough structure that a caller can branch on the
// Kind of a failure instead of matching on message text, while still
// rendering a single readable line when printed.
type Error struct {
	// Op is the operation being performed, usually "pkg.Method".
	Op Op
	// Path is the filesystem path the operation was acting on, if any.
	Path string
	// Kind classifies the error for programmatic handling.
	Kind Kind
	// Err is the underlying error that triggered this one, if any.
	Err error
}

// Op describes an operation, usually written as "package.Method".
type Op string

var _ error = (*Error)(nil)

// Kind defines the kind of error this is. The kinds are exactly the
// error kinds named by the error handling design: they are not Go type
// names, they are classification values every package constructs its
// errors with so callers can branch on failure class rather than on
// message text.
type Kind uint8

// The error kinds used throughout the module.
const (
	Other           Kind = iota // Unclassified error.
	RPCFailure                  // Transport, marshaling, or dispatch failure.
	NotFound                    // A path does not exist, or has the wrong kind.
	OutOfBounds                 // Invalid offset/length on read/write.
	IOFailure                   // The host filesystem rejected an operation.
	NullArgument                // A required argument was nil/empty.
	IllegalState                // Duplicate registration, empty registry, double start, etc.
	IllegalArgument             // A malformed path string or path component.
)

func (k Kind) String() string {
	switch k {
	case RPCFailure:
		return "rpc failure"
	case NotFound:
		return "not found"
	case OutOfBounds:
		return "out of bounds"
	case IOFailure:
		return "I/O failure"
	case NullArgument:
		return "null argument"
	case IllegalState:
		return "illegal state"
	case IllegalArgument:
		return "illegal argument"
	case Other:
		return "other error"
	}
	return "unknown error kind"
}

// Str is an error constructed from a literal string, so that a plain
// message can be passed straight to E without a separate fmt.Errorf
// call at every site.
type Str string

func (s Str) Error() string { return string(s) }

// E builds an error value from its arguments. The type of each
// argument determines its meaning; if more than one argument of a
// given type is passed, the last one wins. The recognized types are:
//
//	errors.Op    the operation being performed
//	errors.Kind  the classification of the failure
//	string       the path the operation was acting on
//	error        the underlying error that triggered this one
//
// E returns nil when called with no arguments.
func E(args ...interface{}) error {
	if len(args) == 0 {
		return nil
	}
	e := &Error{}
	for _, arg := range args {
		switch arg := arg.(type) {
		case Op:
			e.Op = arg
		case Kind:
			e.Kind = arg
		case string:
			e.Path = arg
		case error:
			e.Err = arg
		default:
			return fmt.Errorf("errors.E: bad call with argument of type %T: %v", arg, arg)
		}
	}
	return e
}

// pad appends str to the buffer only if the buffer already holds data.
func pad(b *bytes.Buffer, str string) {
	if b.Len() == 0 {
		return
	}
	b.WriteString(str)
}

func (e *Error) Error() string {
	b := new(bytes.Buffer)
	if e.Op != "" {
		b.WriteString(string(e.Op))
	}
	if e.Path != "" {
		pad(b, ": ")
		b.WriteString(e.Path)
	}
	if e.Kind != Other {
		pad(b, ": ")
		b.WriteString(e.Kind.String())
	}
	if e.Err != nil {
		if inner, ok := e.Err.(*Error); ok {
			pad(b, ":\n\t")
			b.WriteString(inner.Error())
		} else {
			pad(b, ": ")
			b.WriteString(e.Err.Error())
		}
	}
	if b.Len() == 0 {
		return "no error"
	}
	return b.String()
}

// Unwrap lets errors.Is/errors.As from the standard library see through
// an *Error to its cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether KindOf(err) is the given Kind.
func Is(kind Kind, err error) bool {
	return KindOf(err) == kind
}

// KindOf extracts the first Kind other than Other found in err's chain
// of *Error values, looking from the outermost inward. If err is nil or
// carries no classified *Error, KindOf returns Other.
func KindOf(err error) Kind {
	e, ok := err.(*Error)
	if !ok {
		return Other
	}
	if e.Kind != Other {
		return e.Kind
	}
	if e.Err != nil {
		return KindOf(e.Err)
	}
	return Other
}

// Match reports whether the Op, Path, and Kind fields set on template
// also appear, with equal values, in err. Zero-valued fields on
// template are ignored. Tests use it to assert that a failure carries
// the expected classification without reconstructing the whole chain.
func Match(template, err error) bool {
	te, ok := template.(*Error)
	if !ok {
		return false
	}
	e, ok := err.(*Error)
	if !ok {
		return false
	}
	if te.Op != "" && te.Op != e.Op {
		return false
	}
	if te.Path != "" && te.Path != e.Path {
		return false
	}
	if te.Kind != Other && te.Kind != e.Kind {
		return false
	}
	if te.Err != nil {
		return Match(te.Err, e.Err)
	}
	return true
}
