package arm

import (
	"strings"
	"testing"

	"github.com/nalgeon/be"

	"waccc/ast"
	"waccc/symtab"
)

func newStmtCtx() (*StmtCtx, *symtab.Env) {
	env := symtab.NewEnv()
	pool := NewStringPool()
	reg := NewRegistry(pool)
	return NewStmtCtx(NewExprCtx(env, pool, reg)), env
}

func TestGenDeclStoresToOffset(t *testing.T) {
	c, env := newStmtCtx()
	scope := env.EnterScope(4)
	v := scope.Declare("x", ast.Int)
	s := ast.NewDecl(v, ast.NewExprRHS(ast.NewIntLit(5)))
	f := c.Gen(s)
	be.True(t, strings.Contains(f.Render(), "STR"))
	be.True(t, strings.Contains(f.Render(), "[sp]"))
}

func TestGenIfNoElse(t *testing.T) {
	c, _ := newStmtCtx()
	s := ast.NewIf(ast.NewBoolLit(true), ast.NewSkip(), nil)
	f := c.Gen(s)
	be.True(t, strings.Contains(f.Render(), "BEQ"))
	be.True(t, strings.Contains(f.Render(), "L0:"))
}

func TestGenIfWithElseHasTwoLabels(t *testing.T) {
	c, _ := newStmtCtx()
	s := ast.NewIf(ast.NewBoolLit(true), ast.NewSkip(), ast.NewSkip())
	f := c.Gen(s)
	be.True(t, strings.Contains(f.Render(), "L0:"))
	be.True(t, strings.Contains(f.Render(), "L1:"))
}

func TestGenWhileChecksAtBottom(t *testing.T) {
	c, _ := newStmtCtx()
	s := ast.NewWhile(ast.NewBoolLit(false), ast.NewSkip())
	f := c.Gen(s)
	lines := f.Code
	be.True(t, lines[0] == Branch(AL, false, "L1").String())
}

func TestGenEmptyBlockEmitsNoCode(t *testing.T) {
	c, env := newStmtCtx()
	scope := env.EnterScope(0)
	_ = scope
	env.ExitScope(scope)

	body := ast.NewBlock(nil)
	f := c.Gen(body)
	be.Equal(t, len(f.Code), 0)
}

func TestGenExitCallsExit(t *testing.T) {
	c, _ := newStmtCtx()
	s := ast.NewExit(ast.NewIntLit(1))
	f := c.Gen(s)
	be.True(t, strings.Contains(f.Render(), "BL\texit"))
}

func TestGenPrintIntDispatchesToPPrintInt(t *testing.T) {
	c, _ := newStmtCtx()
	s := ast.NewPrint(ast.NewIntLit(1), false)
	f := c.Gen(s)
	be.True(t, strings.Contains(f.Render(), "p_print_int"))
	be.True(t, c.Expr.Runtime.Requires(PPrintInt))
}

func TestGenPrintlnRequiresPPrintLn(t *testing.T) {
	c, _ := newStmtCtx()
	s := ast.NewPrint(ast.NewCharLit('a'), true)
	c.Gen(s)
	be.True(t, c.Expr.Runtime.Requires(PPrintLn))
}

func TestGenFreeRequiresPFreePair(t *testing.T) {
	c, _ := newStmtCtx()
	s := ast.NewFree(ast.NewNullPairLit())
	c.Gen(s)
	be.True(t, c.Expr.Runtime.Requires(PFreePair))
}

func TestGenReturnUnwindsShift(t *testing.T) {
	c, env := newStmtCtx()
	scope := env.EnterScope(8)
	_ = scope
	s := ast.NewReturn(ast.NewIntLit(0))
	f := c.Gen(s)
	be.True(t, strings.Contains(f.Render(), "ADD"))
	be.True(t, strings.Contains(f.Render(), "POP"))
}
