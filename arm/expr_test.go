package arm

import (
	"strings"
	"testing"

	"github.com/nalgeon/be"

	"waccc/ast"
	"waccc/symtab"
)

func newCtx() *ExprCtx {
	return NewExprCtx(symtab.NewEnv(), NewStringPool(), NewRegistry(NewStringPool()))
}

func TestGenIntLiteralUsesMov(t *testing.T) {
	c := newCtx()
	f := c.Gen(ast.NewIntLit(5), DefaultRegList())
	be.True(t, strings.Contains(f.Render(), "MOV"))
	be.True(t, strings.Contains(f.Render(), "#5"))
}

func TestGenIntLiteralFallsBackToLiteralPool(t *testing.T) {
	c := newCtx()
	f := c.Gen(ast.NewIntLit(1000003), DefaultRegList())
	be.True(t, strings.Contains(f.Render(), "LDR"))
}

func TestGenBoolLiteral(t *testing.T) {
	c := newCtx()
	f := c.Gen(ast.NewBoolLit(true), DefaultRegList())
	be.True(t, strings.Contains(f.Render(), "#1"))
}

func TestGenStringLiteralInternsAndLoads(t *testing.T) {
	c := newCtx()
	f := c.Gen(ast.NewStrLit("hi"), DefaultRegList())
	be.True(t, strings.Contains(f.Render(), "=msg_0"))
}

func TestGenAddRequiresOverflowHelper(t *testing.T) {
	c := newCtx()
	e := ast.NewBinaryOperExpr(ast.AddBO, ast.NewIntLit(1), ast.NewIntLit(2))
	f := c.Gen(e, DefaultRegList())
	be.True(t, c.Runtime.Requires(PThrowOverflowError))
	be.True(t, strings.Contains(f.Render(), "ADDS"))
	be.True(t, strings.Contains(f.Render(), "BLVS"))
}

func TestGenComparisonUsesConditionalMov(t *testing.T) {
	c := newCtx()
	e := ast.NewBinaryOperExpr(ast.GtBO, ast.NewIntLit(1), ast.NewIntLit(2))
	f := c.Gen(e, DefaultRegList())
	be.True(t, strings.Contains(f.Render(), "CMP"))
	be.True(t, strings.Contains(f.Render(), "MOVGT"))
	be.True(t, strings.Contains(f.Render(), "MOVLE"))
}

func TestGenShortCircuitAndSkipsRHS(t *testing.T) {
	c := newCtx()
	e := ast.NewBinaryOperExpr(ast.AndBO, ast.NewBoolLit(false), ast.NewBoolLit(true))
	f := c.Gen(e, DefaultRegList())
	be.True(t, strings.Contains(f.Render(), "BEQ"))
}

func TestGenDivModRequiresCheckAndCallsAeabi(t *testing.T) {
	c := newCtx()
	e := ast.NewBinaryOperExpr(ast.DivBO, ast.NewIntLit(10), ast.NewIntLit(2))
	f := c.Gen(e, DefaultRegList())
	be.True(t, c.Runtime.Requires(PCheckDivideByZero))
	be.True(t, strings.Contains(f.Render(), "__aeabi_idivmod"))
}

func TestGenNotFlipsLowBit(t *testing.T) {
	c := newCtx()
	e := ast.NewUnaryOperExpr(ast.NotUO, ast.NewBoolLit(true))
	f := c.Gen(e, DefaultRegList())
	be.True(t, strings.Contains(f.Render(), "EOR"))
}

func TestGenIdentLoadsFromStackOffset(t *testing.T) {
	env := symtab.NewEnv()
	scope := env.EnterScope(4)
	v := scope.Declare("x", ast.Int)
	c := NewExprCtx(env, NewStringPool(), NewRegistry(NewStringPool()))
	f := c.Gen(ast.NewIdentExpr(v), DefaultRegList())
	be.True(t, strings.Contains(f.Render(), "LDR"))
	be.True(t, strings.Contains(f.Render(), "[sp]"))
}
