package driver

import (
	"strings"
	"testing"

	"github.com/nalgeon/be"

	"waccc/ast"
)

func TestCompileRunsBothBackends(t *testing.T) {
	prog := &ast.Program{Main: ast.NewBlock([]*ast.Stmt{
		ast.NewPrint(ast.NewStrLit("hi"), true),
	})}
	res, err := Compile(prog)
	be.True(t, err == nil)
	be.True(t, strings.Contains(res.ARM, ".global main"))
	be.True(t, strings.Contains(res.JVM, ".class public WaccProgram"))
	be.Equal(t, res.UsesPairs, false)
	be.Equal(t, res.PairClass, "")
}

func TestCompileReturnsPairClassWhenUsed(t *testing.T) {
	rhs := ast.NewNewPairRHS(ast.NewIntLit(1), ast.NewIntLit(2))
	v := &ast.Variable{Name: "p", Ty: rhs.Ty}
	prog := &ast.Program{Main: ast.NewBlock([]*ast.Stmt{ast.NewDecl(v, rhs)})}
	res, err := Compile(prog)
	be.True(t, err == nil)
	be.True(t, res.UsesPairs)
	be.True(t, strings.Contains(res.PairClass, "wacc/lang/Pair"))
}
