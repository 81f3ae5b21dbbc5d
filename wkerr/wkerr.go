// Package wkerr is the code-generation core's error type: two closed
// categories, both fatal, no partial output (spec.md §7). Grounded on
// the teacher's core.Error/core.Excerpt (core/core.go) and its
// errorkind.ErrorKind closed enum (src/core/errorkind/errorkind.go),
// narrowed from the teacher's many compiler-phase error codes down to
// the two this code-generation core can actually raise.
package wkerr

import "fmt"

// Kind is the closed variant of error categories this core can raise.
type Kind int

const (
	InvalidKind Kind = iota
	// InternalConsistencyViolation fires when the AST handed to the core
	// breaks an invariant the type checker was supposed to guarantee
	// (spec.md §3's "by construction" invariants) — e.g. an IdentExpr
	// whose Variable has no resolved Storage.
	InternalConsistencyViolation
	// UnimplementedFeature fires for a construct the core recognises but
	// deliberately does not lower, per spec.md's stated Non-goals.
	UnimplementedFeature
)

func (k Kind) String() string {
	switch k {
	case InternalConsistencyViolation:
		return "internal consistency violation"
	case UnimplementedFeature:
		return "unimplemented feature"
	}
	return "invalid error kind"
}

// Error is the single error type returned by this module's public
// entry points. Where is free-form location context (a function name,
// a statement kind) rather than core.Error's source-line Excerpt,
// since this core has no source text of its own to point into — the
// upstream front end owns source locations.
type Error struct {
	Kind    Kind
	Where   string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Kind, e.Where, e.Message)
}

func Internal(where, format string, args ...any) *Error {
	return &Error{Kind: InternalConsistencyViolation, Where: where, Message: fmt.Sprintf(format, args...)}
}

func Unimplemented(where, format string, args ...any) *Error {
	return &Error{Kind: UnimplementedFeature, Where: where, Message: fmt.Sprintf(format, args...)}
}
