package jvm

import (
	"strings"
	"testing"

	"github.com/nalgeon/be"

	"waccc/ast"
)

func TestGenIntLiteralUsesBipush(t *testing.T) {
	c := NewExprCtx()
	lines := c.Gen(ast.NewIntLit(3))
	be.Equal(t, lines, []string{"\ticonst_3"})
}

func TestGenLargeIntUsesLdc(t *testing.T) {
	c := NewExprCtx()
	lines := c.Gen(ast.NewIntLit(100000))
	be.True(t, strings.Contains(lines[0], "ldc"))
}

func TestGenIdentAssignsStableSlot(t *testing.T) {
	c := NewExprCtx()
	v := &ast.Variable{Name: "x", Ty: ast.Int}
	a := c.Gen(ast.NewIdentExpr(v))
	b := c.Gen(ast.NewIdentExpr(v))
	be.Equal(t, a, b)
	be.Equal(t, c.MaxLocals(), 1)
}

func TestGenAddEmitsIAdd(t *testing.T) {
	c := NewExprCtx()
	e := ast.NewBinaryOperExpr(ast.AddBO, ast.NewIntLit(1), ast.NewIntLit(2))
	lines := c.Gen(e)
	be.Equal(t, lines[len(lines)-1], "\tiadd")
}

func TestGenComparisonBranches(t *testing.T) {
	c := NewExprCtx()
	e := ast.NewBinaryOperExpr(ast.GtBO, ast.NewIntLit(1), ast.NewIntLit(2))
	lines := c.Gen(e)
	be.True(t, strings.Contains(lines[2], "if_icmpgt"))
}

func TestGenShortCircuitAndDupsAndPops(t *testing.T) {
	c := NewExprCtx()
	e := ast.NewBinaryOperExpr(ast.AndBO, ast.NewBoolLit(false), ast.NewBoolLit(true))
	lines := c.Gen(e)
	be.True(t, contains(lines, "\tdup"))
	be.True(t, contains(lines, "\tpop"))
}

func contains(lines []string, want string) bool {
	for _, l := range lines {
		if l == want {
			return true
		}
	}
	return false
}
