package ast

import (
	"testing"

	"github.com/nalgeon/be"
)

func TestLiteralWeightIsOne(t *testing.T) {
	be.Equal(t, NewIntLit(1).Weight(), 1)
	be.Equal(t, NewBoolLit(true).Weight(), 1)
	be.Equal(t, NewCharLit('a').Weight(), 1)
	be.Equal(t, NewStrLit("hi").Weight(), 1)
	be.Equal(t, NewNullPairLit().Weight(), 1)
}

func TestIdentWeightIsOne(t *testing.T) {
	v := &Variable{Name: "x", Ty: Int}
	be.Equal(t, NewIdentExpr(v).Weight(), 1)
}

func TestUnaryWeightReusesOperandRegister(t *testing.T) {
	x := NewIntLit(5)
	e := NewUnaryOperExpr(NegUO, x)
	be.Equal(t, e.Weight(), x.Weight())
}

// weight(e) >= 1 for every expression (spec.md §8 property 1).
func TestWeightAlwaysAtLeastOne(t *testing.T) {
	leaf := func() *Expr { return NewIntLit(1) }
	exprs := []*Expr{
		leaf(),
		NewUnaryOperExpr(NegUO, leaf()),
		NewBinaryOperExpr(AddBO, leaf(), leaf()),
		NewBinaryOperExpr(AddBO, NewBinaryOperExpr(MulBO, leaf(), leaf()), leaf()),
	}
	for _, e := range exprs {
		be.True(t, e.Weight() >= 1)
	}
}

// Deeply left/right skewed trees: classic Sethi-Ullman case where
// weight should stay at 2 regardless of depth when one side is always a
// leaf (spec.md §4.2).
func TestSkewedTreeWeightStaysBounded(t *testing.T) {
	e := NewIntLit(1)
	for i := 0; i < 10; i++ {
		e = NewBinaryOperExpr(AddBO, e, NewIntLit(int32(i)))
	}
	be.Equal(t, e.Weight(), 2)
}

// A balanced tree of depth 2 (four leaves) needs 3 registers: each
// BinaryOperExpr(leaf, leaf) is weight 2, and combining two weight-2
// children needs weight 3 (spec.md §4.2 formula).
func TestBalancedTreeWeight(t *testing.T) {
	left := NewBinaryOperExpr(AddBO, NewIntLit(1), NewIntLit(2))
	right := NewBinaryOperExpr(AddBO, NewIntLit(3), NewIntLit(4))
	top := NewBinaryOperExpr(AddBO, left, right)
	be.Equal(t, left.Weight(), 2)
	be.Equal(t, right.Weight(), 2)
	be.Equal(t, top.Weight(), 3)
}

func TestArrayElemWeightBoundedByTwo(t *testing.T) {
	v := &Variable{Name: "a", Ty: NewArray(Int, 3)}
	e := NewArrayElemExpr(v, []*Expr{NewIntLit(0), NewIntLit(1), NewIntLit(2)}, Int)
	be.True(t, e.Weight() <= 2)
}

func TestComparisonAndBoolOpsReturnBool(t *testing.T) {
	i1, i2 := NewIntLit(1), NewIntLit(2)
	be.Equal(t, NewBinaryOperExpr(LtBO, i1, i2).Type(), Bool)
	b1, b2 := NewBoolLit(true), NewBoolLit(false)
	be.Equal(t, NewBinaryOperExpr(AndBO, b1, b2).Type(), Bool)
}

func TestLeqPrintsCorrectly(t *testing.T) {
	// spec.md §9 open question: LeqBO used to print as ">=".
	be.Equal(t, LeBO.String(), "<=")
}

func TestAndOrValidOperandIsBool(t *testing.T) {
	// spec.md §9 open question: BoolBinOp.validReturn used to check IntT.
	be.True(t, AndBO.ValidOperandType(Bool))
	be.True(t, !AndBO.ValidOperandType(Int))
	be.True(t, OrBO.ValidOperandType(Bool))
	be.True(t, !OrBO.ValidOperandType(Int))
}
