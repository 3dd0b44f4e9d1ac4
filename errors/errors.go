// Package errors defines the error taxonomy DTS surfaces to callers: the
// recoverable conditions from a failed registration, construction, or
// plugin operation, plus the fatal InvariantBreach raised when a caller
// violates a contract that correct usage cannot trigger.
package errors

import (
	"fmt"
	"strings"
)

// ErrorCode classifies a recoverable TypeError.
type ErrorCode string

const (
	// NameConflict indicates a descriptor with this name already exists
	// under the specified parent.
	NameConflict ErrorCode = "dts-name-conflict"
	// AbstractConstruction indicates an attempt to construct or
	// copy-construct an abstract type.
	AbstractConstruction ErrorCode = "dts-abstract-construction"
	// UndefinedMethod indicates an operation the payload type does not
	// support, such as copying a non-copyable payload.
	UndefinedMethod ErrorCode = "dts-undefined-method"
	// PayloadConstruction indicates a user-supplied payload constructor
	// failed; the runtime has already fully unwound any partial state
	// by the time this surfaces to the caller.
	PayloadConstruction ErrorCode = "dts-payload-construction"
)

// TypeError reports a recoverable failure tied to a specific type name and,
// where applicable, a resolution path.
type TypeError struct {
	Code     ErrorCode
	TypeName string
	Path     string
	Err      error
}

// Error formats the TypeError for display.
func (e *TypeError) Error() string {
	if e == nil {
		return "type error <nil>"
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.TypeName))
	if e.Path != "" {
		b.WriteString(fmt.Sprintf(" at %s", e.Path))
	}
	if e.Err != nil {
		b.WriteString(": " + e.Err.Error())
	}
	return b.String()
}

// Unwrap exposes the wrapped cause, if any, to errors.Is/errors.As.
func (e *TypeError) Unwrap() error {
	return e.Err
}

// New builds a TypeError with no underlying cause.
func New(code ErrorCode, typeName string) *TypeError {
	return &TypeError{Code: code, TypeName: typeName}
}

// Newf builds a TypeError with a formatted cause.
func Newf(code ErrorCode, typeName, format string, args ...any) *TypeError {
	return &TypeError{Code: code, TypeName: typeName, Err: fmt.Errorf(format, args...)}
}

// WithPath returns a copy of the TypeError annotated with a resolution path.
func (e *TypeError) WithPath(path string) *TypeError {
	cp := *e
	cp.Path = path
	return &cp
}

// InvariantBreach is the fatal condition described in the error handling
// design: an attempted mutation of an immutable (referenced) descriptor, a
// destructor or plugin destructor that failed, or a re-parenting that would
// form a cycle. It is never recovered — correct callers cannot trigger it.
type InvariantBreach struct {
	Reason string
}

// Error formats the InvariantBreach for display, principally so a recovered
// panic still prints something useful in a crash report.
func (e *InvariantBreach) Error() string {
	return "dts: invariant breach: " + e.Reason
}

// PanicInvariant raises an InvariantBreach. There is no release-mode
// stripping in Go, so this is always asserted, matching the stricter of the
// two behaviors the source allows ("asserted in debug, undefined in
// release").
func PanicInvariant(reason string) {
	panic(&InvariantBreach{Reason: reason})
}

// PanicInvariantf raises an InvariantBreach with a formatted reason.
func PanicInvariantf(format string, args ...any) {
	panic(&InvariantBreach{Reason: fmt.Sprintf(format, args...)})
}
