package arm

import (
	"strings"
	"testing"

	"github.com/nalgeon/be"

	"waccc/ast"
)

func TestGenerateExitProgram(t *testing.T) {
	prog := &ast.Program{Main: ast.NewBlock([]*ast.Stmt{ast.NewExit(ast.NewIntLit(7))})}
	out := Generate(prog)
	be.True(t, strings.Contains(out, ".global main"))
	be.True(t, strings.Contains(out, "main:"))
	be.True(t, strings.Contains(out, "PUSH\t{lr}"))
	be.True(t, strings.Contains(out, "BL\texit"))
}

func TestGeneratePrintHelloWorld(t *testing.T) {
	prog := &ast.Program{Main: ast.NewBlock([]*ast.Stmt{
		ast.NewPrint(ast.NewStrLit("hello world"), true),
	})}
	out := Generate(prog)
	be.True(t, strings.Contains(out, ".data"))
	be.True(t, strings.Contains(out, "msg_0"))
	be.True(t, strings.Contains(out, "p_print_string"))
	be.True(t, strings.Contains(out, "p_print_ln"))
}

func TestGenerateIntDeclarationAndPrint(t *testing.T) {
	env := newEnvVar("x", ast.Int)
	prog := &ast.Program{Main: ast.NewBlock([]*ast.Stmt{
		ast.NewDecl(env, ast.NewExprRHS(ast.NewIntLit(42))),
		ast.NewPrint(ast.NewIdentExpr(env), true),
	})}
	out := Generate(prog)
	be.True(t, strings.Contains(out, "p_print_int"))
}

func TestGenerateOverflowOnAdd(t *testing.T) {
	prog := &ast.Program{Main: ast.NewBlock([]*ast.Stmt{
		ast.NewPrint(ast.NewBinaryOperExpr(ast.AddBO, ast.NewIntLit(1), ast.NewIntLit(2)), true),
	})}
	out := Generate(prog)
	be.True(t, strings.Contains(out, "p_throw_overflow_error"))
	be.True(t, strings.Contains(out, "p_throw_runtime_error"))
}

func TestGenerateFunctionGetsFPrefixedLabel(t *testing.T) {
	fn := &ast.Func{Name: "fact", RetType: ast.Int, Body: ast.NewBlock([]*ast.Stmt{
		ast.NewReturn(ast.NewIntLit(1)),
	})}
	prog := &ast.Program{Main: ast.NewBlock(nil), Funcs: []*ast.Func{fn}}
	out := Generate(prog)
	be.True(t, strings.Contains(out, "f_fact:"))
}

func newEnvVar(name string, ty ast.Type) *ast.Variable {
	return &ast.Variable{Name: name, Ty: ty, Store: ast.Storage{Kind: ast.LocalStorage, Offset: 0, DeclShift: 0}}
}
