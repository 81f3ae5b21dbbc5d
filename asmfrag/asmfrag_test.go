package asmfrag

import (
	"testing"

	"github.com/nalgeon/be"
)

// spec.md §8 property 5: emitting the same string literal (same label,
// same content) twice produces one data entry.
func TestWithDataDedupsByLabel(t *testing.T) {
	f := Empty()
	f = f.WithData("msg_0", `msg_0: .word 5`)
	f = f.WithData("msg_0", `msg_0: .word 5`)
	be.Equal(t, len(f.DataLines()), 1)
}

func TestWithDataConflictPanics(t *testing.T) {
	defer func() {
		r := recover()
		be.True(t, r != nil)
	}()
	f := Empty()
	f = f.WithData("msg_0", "a")
	f.WithData("msg_0", "b")
}

func TestConcatPreservesInsertionOrderAndDedups(t *testing.T) {
	a := Empty().WithData("L0", "L0: .ascii \"a\"")
	a.Code = []string{"MOV r0, #1"}
	b := Empty().WithData("L0", "L0: .ascii \"a\"").WithData("L1", "L1: .ascii \"b\"")
	b.Code = []string{"MOV r1, #2"}

	out := Concat(a, b)
	be.Equal(t, len(out.DataLines()), 2)
	be.Equal(t, out.DataLines()[0].Label, "L0")
	be.Equal(t, out.DataLines()[1].Label, "L1")
	be.Equal(t, len(out.Code), 2)
	be.Equal(t, out.Code[0], "MOV r0, #1")
	be.Equal(t, out.Code[1], "MOV r1, #2")
}

func TestConcatIsAssociative(t *testing.T) {
	a := Code1("a")
	b := Code1("b")
	c := Code1("c")
	left := Concat(Concat(a, b), c)
	right := Concat(a, Concat(b, c))
	be.Equal(t, left.Render(), right.Render())
}
