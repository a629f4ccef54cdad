package builder

import (
	"fmt"
	"strings"
)

// FailureKind enumerates diagnosable failure categories.
type FailureKind uint8

const (
	// FailureUnknown is the default kind supplied by top-level callers
	// when a query produced no value and no step recorded anything
	// more specific.
	FailureUnknown FailureKind = iota

	// FailureCouldNotResolveTypeDecl carries the re-encoded symbol of
	// a declaration the directory could not produce.
	FailureCouldNotResolveTypeDecl
)

func (k FailureKind) String() string {
	switch k {
	case FailureCouldNotResolveTypeDecl:
		return "could not resolve type decl"
	default:
		return "unknown failure"
	}
}

// Failure is a diagnosable error surfaced through a Result. Args hold
// contextual payload (encoded names, addresses) in render order.
type Failure struct {
	Kind FailureKind
	Args []string
}

func (f Failure) Error() string {
	if len(f.Args) == 0 {
		return f.Kind.String()
	}
	return fmt.Sprintf("%s: %s", f.Kind, strings.Join(f.Args, ", "))
}

// Result is the discriminated outcome of a public query: a value or a
// Failure, never both.
type Result[T any] struct {
	value   T
	failure *Failure
}

// Success wraps a value.
func Success[T any](v T) Result[T] {
	return Result[T]{value: v}
}

// Failed wraps a failure.
func Failed[T any](f Failure) Result[T] {
	return Result[T]{failure: &f}
}

// Value returns the payload and whether the result succeeded.
func (r Result[T]) Value() (T, bool) {
	return r.value, r.failure == nil
}

// Failure returns the failure, or nil on success.
func (r Result[T]) Failure() *Failure {
	return r.failure
}
