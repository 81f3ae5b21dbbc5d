// Package driver runs both code-generation backends over a single
// ast.Program and assembles their output into one Result. Grounded on
// the teacher's top-level backend.Generate (backend/backend.go) and
// frontend.All's staged error-propagation shape (frontend/frontend.go).
package driver

import (
	"sync"

	"waccc/arm"
	"waccc/ast"
	"waccc/jvm"
	"waccc/wkerr"
)

// Result bundles everything cmd/waccc needs to write to disk.
type Result struct {
	ARM       string
	JVM       string
	PairClass string // empty unless UsesPairs
	UsesPairs bool
}

// Compile lowers prog with both backends. spec.md §5 permits but does
// not require running them in parallel; they share nothing but the
// immutable ast.Program and their own fresh label counters, so a plain
// sync.WaitGroup is enough — see DESIGN.md for why no additional
// synchronization library earns its place here.
func Compile(prog *ast.Program) (Result, *wkerr.Error) {
	var wg sync.WaitGroup
	wg.Add(2)

	var armOut string
	var armErr *wkerr.Error
	go func() {
		defer wg.Done()
		defer recoverInto(&armErr, "arm.Generate")
		armOut = arm.Generate(prog)
	}()

	var jvmOut string
	var usesPairs bool
	var jvmErr *wkerr.Error
	go func() {
		defer wg.Done()
		defer recoverInto(&jvmErr, "jvm.Generate")
		jvmOut, usesPairs = jvm.Generate(prog)
	}()

	wg.Wait()

	if armErr != nil {
		return Result{}, armErr
	}
	if jvmErr != nil {
		return Result{}, jvmErr
	}

	res := Result{ARM: armOut, JVM: jvmOut, UsesPairs: usesPairs}
	if usesPairs {
		res.PairClass = jvm.PairClassSource
	}
	return res, nil
}

// recoverInto converts a backend panic (spec.md §7: an internal
// consistency violation — the AST broke an invariant the type checker
// was supposed to guarantee) into a *wkerr.Error instead of crashing
// the process.
func recoverInto(out **wkerr.Error, where string) {
	if r := recover(); r != nil {
		*out = wkerr.Internal(where, "%v", r)
	}
}
