package symtab

import (
	"testing"

	"github.com/nalgeon/be"

	"waccc/ast"
)

func TestDeclareAssignsOffsetsInOrder(t *testing.T) {
	env := NewEnv()
	scope := env.EnterScope(12)
	a := scope.Declare("a", ast.Int)
	b := scope.Declare("b", ast.Int)
	c := scope.Declare("c", ast.Int)

	be.Equal(t, a.Store.Offset, 0)
	be.Equal(t, b.Store.Offset, 4)
	be.Equal(t, c.Store.Offset, 8)
}

// spec.md §8 property 2: SUB/ADD sizes must balance on every path.
func TestEnterExitBalance(t *testing.T) {
	env := NewEnv()
	s1 := env.EnterScope(8)
	s2 := env.EnterScope(4)
	be.Equal(t, env.Shift(), 12)

	n2 := env.ExitScope(s2)
	be.Equal(t, n2, 4)
	n1 := env.ExitScope(s1)
	be.Equal(t, n1, 8)
	be.Equal(t, env.Shift(), 0)
}

// A variable declared in an outer scope, used after a nested scope has
// pushed its own region, must resolve to offset + nested-scope size
// (spec.md §4.1's "sp_shift threaded through code emission").
func TestUseOffsetAccountsForNestedShift(t *testing.T) {
	env := NewEnv()
	outer := env.EnterScope(4)
	v := outer.Declare("x", ast.Int)
	be.Equal(t, env.UseOffset(v), 0)

	inner := env.EnterScope(8)
	be.Equal(t, env.UseOffset(v), 8)

	env.ExitScope(inner)
	be.Equal(t, env.UseOffset(v), 0)
}

func TestParamOffsetIgnoresShift(t *testing.T) {
	env := NewEnv()
	p := DeclareParam("arg", ast.Int, 4)
	env.EnterScope(16)
	be.Equal(t, env.UseOffset(p), 4)
}

func TestScopeSizeCountsOnlyDirectDecls(t *testing.T) {
	decl := ast.NewDecl(&ast.Variable{Ty: ast.Int}, ast.NewExprRHS(ast.NewIntLit(1)))
	nested := ast.NewBlock([]*ast.Stmt{
		ast.NewDecl(&ast.Variable{Ty: ast.Int}, ast.NewExprRHS(ast.NewIntLit(1))),
	})
	size := ScopeSize([]*ast.Stmt{decl, nested})
	be.Equal(t, size, 4)
}
