package arm

import (
	"strings"

	"waccc/asmfrag"
	"waccc/ast"
	"waccc/symtab"
)

// Generate lowers an entire program to GAS-syntax ARM assembly text:
// main's frame, every user function's frame, then the transitive closure
// of runtime helpers any of them required (spec.md §5, §6). Grounded on
// the teacher's top-level Generate in backend/backend.go and the
// prologue/epilogue shape of backend/amd64/amd64.go.
func Generate(prog *ast.Program) string {
	pool := NewStringPool()
	runtime := NewRegistry(pool)

	body := genMain(prog.Main, pool, runtime)
	for _, fn := range prog.Funcs {
		body = asmfrag.Concat(body, genFunc(fn, pool, runtime))
	}
	body = asmfrag.Concat(body, runtime.Fragment())

	var out strings.Builder
	data := pool.Fragment()
	if len(data.DataLines()) > 0 {
		out.WriteString(".data\n\n")
		for _, d := range data.DataLines() {
			out.WriteString(d.Text)
			out.WriteString("\n")
		}
		out.WriteString("\n")
	}
	out.WriteString(".text\n\n.global main\n")
	for _, line := range body.Code {
		out.WriteString(line)
		out.WriteString("\n")
	}
	return out.String()
}

func genMain(main *ast.Stmt, pool *StringPool, runtime *Registry) asmfrag.Fragment {
	env := symtab.NewEnv()
	ctx := NewStmtCtx(NewExprCtx(env, pool, runtime))

	size := symtab.ScopeSize(bodyStmts(main))
	out := asmLines(Label("main"), Push(LR).String())
	if size > 0 {
		out = asmfrag.Concat(out, lit(Sub(AL, false, SP, SP, MustImm8r(int32(size))).String()))
	}

	scope := env.EnterScope(size)
	out = asmfrag.Concat(out, ctx.Gen(main))
	env.ExitScope(scope)

	if size > 0 {
		out = asmfrag.Concat(out, lit(Add(AL, false, SP, SP, MustImm8r(int32(size))).String()))
	}
	out = asmfrag.Concat(out, asmLines(
		Mov(AL, R0, MustImm8r(0)).String(),
		Pop(PC).String(),
	))
	return out
}

// bodyStmts flattens a (possibly Block/Seq-wrapped) statement into the
// direct statement list ScopeSize expects.
func bodyStmts(s *ast.Stmt) []*ast.Stmt {
	switch s.Kind {
	case ast.BlockStmt:
		return s.Stmts
	case ast.SeqStmt:
		return append(bodyStmts(s.First), bodyStmts(s.Second)...)
	default:
		return []*ast.Stmt{s}
	}
}

// genFunc lowers a user function. Parameters were already assigned
// above-frame-pointer offsets by symtab.DeclareParam at construction
// time (spec.md §3); the function's own Return statements perform the
// epilogue, matching WACC's "every path through a function body ends in
// return or exit" well-formedness rule.
func genFunc(fn *ast.Func, pool *StringPool, runtime *Registry) asmfrag.Fragment {
	env := symtab.NewEnv()
	ctx := NewStmtCtx(NewExprCtx(env, pool, runtime))

	label := "f_" + fn.Name
	size := symtab.ScopeSize(bodyStmts(fn.Body))
	out := asmLines(Label(label), Push(LR).String())
	if size > 0 {
		out = asmfrag.Concat(out, lit(Sub(AL, false, SP, SP, MustImm8r(int32(size))).String()))
	}

	scope := env.EnterScope(size)
	out = asmfrag.Concat(out, ctx.Gen(fn.Body))
	env.ExitScope(scope)
	return out
}
