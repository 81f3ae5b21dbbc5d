package jvm

import (
	"strings"
	"testing"

	"github.com/nalgeon/be"

	"waccc/ast"
)

func TestGenerateExitProgram(t *testing.T) {
	prog := &ast.Program{Main: ast.NewBlock([]*ast.Stmt{ast.NewExit(ast.NewIntLit(7))})}
	out, usesPairs := Generate(prog)
	be.True(t, strings.Contains(out, ".class public WaccProgram"))
	be.True(t, strings.Contains(out, "main([Ljava/lang/String;)V"))
	be.True(t, strings.Contains(out, "java/lang/System/exit"))
	be.Equal(t, usesPairs, false)
}

func TestGeneratePrintHelloWorld(t *testing.T) {
	prog := &ast.Program{Main: ast.NewBlock([]*ast.Stmt{
		ast.NewPrint(ast.NewStrLit("hello world"), true),
	})}
	out, _ := Generate(prog)
	be.True(t, strings.Contains(out, "ldc\t\"hello world\""))
	be.True(t, strings.Contains(out, "println(Ljava/lang/String;)V"))
}

func TestGenerateIntDeclarationAndPrint(t *testing.T) {
	v := &ast.Variable{Name: "x", Ty: ast.Int}
	prog := &ast.Program{Main: ast.NewBlock([]*ast.Stmt{
		ast.NewDecl(v, ast.NewExprRHS(ast.NewIntLit(42))),
		ast.NewPrint(ast.NewIdentExpr(v), true),
	})}
	out, _ := Generate(prog)
	be.True(t, strings.Contains(out, "istore"))
	be.True(t, strings.Contains(out, "println(I)V"))
}

func TestGenerateFunctionGetsFPrefixedMethod(t *testing.T) {
	fn := &ast.Func{Name: "fact", RetType: ast.Int, Body: ast.NewBlock([]*ast.Stmt{
		ast.NewReturn(ast.NewIntLit(1)),
	})}
	prog := &ast.Program{Main: ast.NewBlock(nil), Funcs: []*ast.Func{fn}}
	out, _ := Generate(prog)
	be.True(t, strings.Contains(out, "f_fact()I"))
}

func TestGenerateFunctionParamsOccupyLeadingSlots(t *testing.T) {
	p := &ast.Variable{Name: "n", Ty: ast.Int}
	fn := &ast.Func{Name: "id", Params: []*ast.Variable{p}, RetType: ast.Int, Body: ast.NewBlock([]*ast.Stmt{
		ast.NewReturn(ast.NewIdentExpr(p)),
	})}
	prog := &ast.Program{Main: ast.NewBlock(nil), Funcs: []*ast.Func{fn}}
	out, _ := Generate(prog)
	be.True(t, strings.Contains(out, "f_id(I)I"))
	be.True(t, strings.Contains(out, "iload_0"))
}

func TestGenerateDetectsPairUsage(t *testing.T) {
	rhs := ast.NewNewPairRHS(ast.NewIntLit(1), ast.NewIntLit(2))
	v := &ast.Variable{Name: "p", Ty: rhs.Ty}
	prog := &ast.Program{Main: ast.NewBlock([]*ast.Stmt{ast.NewDecl(v, rhs)})}
	_, usesPairs := Generate(prog)
	be.True(t, usesPairs)
}

func TestGenerateMainReservesSlotZeroForArgs(t *testing.T) {
	v := &ast.Variable{Name: "x", Ty: ast.Int}
	prog := &ast.Program{Main: ast.NewBlock([]*ast.Stmt{
		ast.NewDecl(v, ast.NewExprRHS(ast.NewIntLit(1))),
	})}
	out, _ := Generate(prog)
	be.True(t, strings.Contains(out, "istore_1"))
}
