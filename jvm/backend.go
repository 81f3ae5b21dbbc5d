package jvm

import (
	"strings"

	"waccc/ast"
)

// limitStack is a static upper bound on operand-stack depth passed to
// every .limit stack directive. spec.md §9 leaves real stack-depth
// analysis out of scope for this backend; a generous fixed constant is
// safe because the JVM verifier only rejects too-small a declared limit,
// never checks that the true high-water mark is any smaller.
const limitStack = 64

// Generate lowers an entire program to one Jasmin class named WaccProgram
// (spec.md §6: "one .class public WaccProgram").
// Grounded on the teacher's top-level Generate in backend/backend.go,
// generalised to Jasmin's .class/.method text format. The second return
// value reports whether the program uses pairs at all, so callers know
// whether PairClassSource needs writing out alongside this class
// (spec.md §6: "wacc/lang/Pair.j when pairs are used").
func Generate(prog *ast.Program) (string, bool) {
	usesPairs := programUsesPairs(prog)

	var out strings.Builder
	out.WriteString(".class public WaccProgram\n.super java/lang/Object\n\n")
	out.WriteString(".field private static in Ljava/util/Scanner;\n\n")
	out.WriteString(clinit())
	out.WriteString("\n")
	out.WriteString(genMain(prog.Main))
	for _, fn := range prog.Funcs {
		out.WriteString("\n")
		out.WriteString(genFunc(fn))
	}
	return out.String(), usesPairs
}

func clinit() string {
	var b strings.Builder
	b.WriteString(".method static <clinit>()V\n")
	b.WriteString("\t.limit stack 3\n\t.limit locals 0\n")
	b.WriteString("\tnew\tjava/util/Scanner\n\tdup\n")
	b.WriteString("\tgetstatic\tjava/lang/System/in Ljava/io/InputStream;\n")
	b.WriteString("\tinvokespecial\tjava/util/Scanner/<init>(Ljava/io/InputStream;)V\n")
	b.WriteString("\tputstatic\tWaccProgram/in Ljava/util/Scanner;\n")
	b.WriteString("\treturn\n.end method\n")
	return b.String()
}

func genMain(main *ast.Stmt) string {
	ctx := NewExprCtx()
	ctx.nextSlot = 1 // slot 0 holds the String[] args array
	stmt := NewStmtCtx(ctx)
	body := stmt.Gen(main)

	var b strings.Builder
	b.WriteString(".method public static main([Ljava/lang/String;)V\n")
	b.WriteString("\t.limit stack " + itoa(limitStack) + "\n")
	b.WriteString("\t.limit locals " + itoa(ctx.MaxLocals()) + "\n")
	for _, line := range body {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\treturn\n.end method\n")
	return b.String()
}

// genFunc lowers a user function to a static method named f_<name>.
// Parameters are registered in declaration order first so their JVM
// local slots line up with the method descriptor's positional argument
// slots (spec.md §4.5: "category-1 local slots").
func genFunc(fn *ast.Func) string {
	ctx := NewExprCtx()
	var descr string
	for _, p := range fn.Params {
		ctx.SlotFor(p)
		descr += Descriptor(p.Ty)
	}
	stmt := NewStmtCtx(ctx)
	body := stmt.Gen(fn.Body)

	var b strings.Builder
	b.WriteString(".method public static f_" + fn.Name + "(" + descr + ")" + Descriptor(fn.RetType) + "\n")
	b.WriteString("\t.limit stack " + itoa(limitStack) + "\n")
	b.WriteString("\t.limit locals " + itoa(ctx.MaxLocals()) + "\n")
	for _, line := range body {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString(".end method\n")
	return b.String()
}

func programUsesPairs(prog *ast.Program) bool {
	if stmtUsesPairs(prog.Main) {
		return true
	}
	for _, fn := range prog.Funcs {
		if fn.RetType.IsAnyPair() || stmtUsesPairs(fn.Body) {
			return true
		}
		for _, p := range fn.Params {
			if p.Ty.IsAnyPair() {
				return true
			}
		}
	}
	return false
}

func stmtUsesPairs(s *ast.Stmt) bool {
	if s == nil {
		return false
	}
	if s.Var != nil && s.Var.Ty.IsAnyPair() {
		return true
	}
	if s.LHS.Ty.IsAnyPair() || exprUsesPairs(s.LHS.Pair) {
		return true
	}
	if rhsUsesPairs(s.RHS) {
		return true
	}
	if exprUsesPairs(s.Expr) || exprUsesPairs(s.Cond) {
		return true
	}
	for _, a := range s.CallArgs {
		if exprUsesPairs(a) {
			return true
		}
	}
	return stmtUsesPairs(s.Then) || stmtUsesPairs(s.Else) || stmtUsesPairs(s.Body) ||
		stmtUsesPairs(s.First) || stmtUsesPairs(s.Second) || stmtsUsePairs(s.Stmts)
}

func stmtsUsePairs(stmts []*ast.Stmt) bool {
	for _, st := range stmts {
		if stmtUsesPairs(st) {
			return true
		}
	}
	return false
}

func rhsUsesPairs(rhs ast.RHS) bool {
	if rhs.Ty.IsAnyPair() {
		return true
	}
	if exprUsesPairs(rhs.Fst) || exprUsesPairs(rhs.Snd) || exprUsesPairs(rhs.PairExpr) {
		return true
	}
	for _, e := range rhs.Elems {
		if exprUsesPairs(e) {
			return true
		}
	}
	for _, a := range rhs.Args {
		if exprUsesPairs(a) {
			return true
		}
	}
	return false
}

func exprUsesPairs(e *ast.Expr) bool {
	if e == nil {
		return false
	}
	if e.Type().IsAnyPair() {
		return true
	}
	for _, i := range e.Indices {
		if exprUsesPairs(i) {
			return true
		}
	}
	return exprUsesPairs(e.X) || exprUsesPairs(e.Y)
}
