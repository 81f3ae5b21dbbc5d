package jvm

import "waccc/ast"

// StmtCtx lowers statements to Jasmin instruction lines. Control flow
// uses labelled goto/ifeq exactly as spec.md §4.5 describes; there is no
// stack-shift bookkeeping to thread the way arm.StmtCtx has; JVM locals
// are assigned once per Variable for the whole method (category-1 local
// slots).
type StmtCtx struct {
	Expr     *ExprCtx
	labelSeq int
}

func NewStmtCtx(e *ExprCtx) *StmtCtx { return &StmtCtx{Expr: e} }

func (c *StmtCtx) newLabel() string {
	c.labelSeq++
	return "Ls" + itoa(c.labelSeq)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := [10]byte{'0', '1', '2', '3', '4', '5', '6', '7', '8', '9'}
	var buf []byte
	for n > 0 {
		buf = append([]byte{digits[n%10]}, buf...)
		n /= 10
	}
	return string(buf)
}

func (c *StmtCtx) Gen(s *ast.Stmt) []string {
	switch s.Kind {
	case ast.SkipStmt:
		return nil
	case ast.DeclStmt:
		return c.genDecl(s)
	case ast.AssignStmt:
		return c.genAssign(s)
	case ast.ReadStmt:
		return c.genRead(s)
	case ast.FreeStmt:
		return c.genFree(s)
	case ast.ReturnStmt:
		return c.genReturn(s)
	case ast.ExitStmt:
		return c.genExit(s)
	case ast.PrintStmt:
		return c.genPrint(s)
	case ast.IfStmt:
		return c.genIf(s)
	case ast.WhileStmt:
		return c.genWhile(s)
	case ast.BlockStmt:
		var out []string
		for _, st := range s.Stmts {
			out = append(out, c.Gen(st)...)
		}
		return out
	case ast.SeqStmt:
		return append(c.Gen(s.First), c.Gen(s.Second)...)
	case ast.CallStmt:
		return c.genCallStmt(s.CallName, s.CallArgs)
	}
	panic("jvm: StmtCtx.Gen: invalid stmt kind")
}

func (c *StmtCtx) genDecl(s *ast.Stmt) []string {
	out := c.genRHS(s.RHS)
	return append(out, c.storeInto(s.Var))
}

func (c *StmtCtx) storeInto(v *ast.Variable) string {
	slot := c.Expr.SlotFor(v)
	if IsPrimitive(v.Ty) {
		return IStore(slot)
	}
	return AStore(slot)
}

func (c *StmtCtx) genAssign(s *ast.Stmt) []string {
	out := c.genRHS(s.RHS)
	return append(out, c.storeLHS(s.LHS)...)
}

func (c *StmtCtx) storeLHS(lhs ast.LHS) []string {
	switch lhs.Kind {
	case ast.LHSIdent:
		return []string{c.storeInto(lhs.Var)}
	case ast.LHSArrayElem:
		return c.storeArrayElem(lhs)
	case ast.LHSPairFst, ast.LHSPairSnd:
		return c.storePairField(lhs)
	}
	panic("jvm: StmtCtx.storeLHS: invalid LHS kind")
}

// storeArrayElem needs the array ref and index pushed before the value,
// but genAssign has already pushed the value; rotate it underneath via a
// scratch local rather than a swap (the JVM has no 3-deep stack swap).
func (c *StmtCtx) storeArrayElem(lhs ast.LHS) []string {
	scratch := c.Expr.nextSlot
	c.Expr.nextSlot++
	descr := Descriptor(elemTypeChain(lhs.Var.Ty, len(lhs.Indices)))
	storeValue := IStore(scratch)
	loadValue := ILoad(scratch)
	if !IsPrimitive(elemTypeChain(lhs.Var.Ty, len(lhs.Indices))) {
		storeValue = AStore(scratch)
		loadValue = ALoad(scratch)
	}

	out := []string{storeValue}
	out = append(out, c.Expr.genLoad(lhs.Var)...)
	elemTy := lhs.Var.Ty
	for i, indexExpr := range lhs.Indices {
		out = append(out, c.Expr.Gen(indexExpr)...)
		elemTy = elementTypeOf(elemTy)
		if i == len(lhs.Indices)-1 {
			out = append(out, loadValue, ArrayStore(descr))
		} else {
			out = append(out, ArrayLoad(Descriptor(elemTy)))
		}
	}
	return out
}

func elemTypeChain(t ast.Type, depth int) ast.Type {
	for i := 0; i < depth; i++ {
		t = elementTypeOf(t)
	}
	return t
}

func (c *StmtCtx) storePairField(lhs ast.LHS) []string {
	fieldTy := lhs.Ty
	scratch := c.Expr.nextSlot
	c.Expr.nextSlot++
	storeValue, loadValue := IStore(scratch), ILoad(scratch)
	if !IsPrimitive(fieldTy) {
		storeValue, loadValue = AStore(scratch), ALoad(scratch)
	}

	out := []string{storeValue}
	out = append(out, c.Expr.Gen(lhs.Pair)...)
	field := "fst"
	if lhs.Kind == ast.LHSPairSnd {
		field = "snd"
	}
	out = append(out, loadValue)
	if IsPrimitive(fieldTy) {
		out = append(out, ToBoxedInstr(fieldTy))
	}
	out = append(out, PutField("wacc/lang/Pair/"+field+" Ljava/lang/Object;"))
	return out
}

func (c *StmtCtx) genRHS(rhs ast.RHS) []string {
	switch rhs.Kind {
	case ast.RHSExpr:
		return c.Expr.Gen(rhs.Expr)
	case ast.RHSArrayLit:
		return c.genArrayLit(rhs)
	case ast.RHSNewPair:
		return c.genNewPair(rhs)
	case ast.RHSCall:
		return c.genCall(rhs.FuncName, rhs.Args, rhs.Ty)
	case ast.RHSPairElem:
		return c.genPairElem(rhs)
	}
	panic("jvm: StmtCtx.genRHS: invalid RHS kind")
}

func (c *StmtCtx) genArrayLit(rhs ast.RHS) []string {
	elemTy := elementTypeOf(rhs.Ty)
	descr := Descriptor(elemTy)
	out := []string{Bipush(int32(len(rhs.Elems))), NewArray(descr)}
	for i, el := range rhs.Elems {
		out = append(out, "\tdup", Bipush(int32(i)))
		out = append(out, c.Expr.Gen(el)...)
		out = append(out, ArrayStore(descr))
	}
	return out
}

// genNewPair leaves the pair reference itself as the expression's value:
// dup a copy before each field store, since putfield consumes both the
// object reference and the value it writes.
func (c *StmtCtx) genNewPair(rhs ast.RHS) []string {
	out := []string{New("wacc/lang/Pair"), "\tdup", InvokeSpecial("wacc/lang/Pair/<init>()V")}
	out = append(out, "\tdup")
	out = append(out, c.pushBoxed(rhs.Fst)...)
	out = append(out, PutField("wacc/lang/Pair/fst Ljava/lang/Object;"))
	out = append(out, "\tdup")
	out = append(out, c.pushBoxed(rhs.Snd)...)
	out = append(out, PutField("wacc/lang/Pair/snd Ljava/lang/Object;"))
	return out
}

func (c *StmtCtx) pushBoxed(field *ast.Expr) []string {
	out := c.Expr.Gen(field)
	if IsPrimitive(field.Type()) {
		out = append(out, ToBoxedInstr(field.Type()))
	}
	return out
}

func (c *StmtCtx) genPairElem(rhs ast.RHS) []string {
	out := c.Expr.Gen(rhs.PairExpr)
	field := "fst"
	if !rhs.IsFst {
		field = "snd"
	}
	out = append(out, GetField("wacc/lang/Pair/"+field+" Ljava/lang/Object;"))
	if IsPrimitive(rhs.Ty) {
		out = append(out, CheckCast(BoxedClass(rhs.Ty)), ToPrimitiveInstr(rhs.Ty))
	} else {
		out = append(out, CheckCast(jvmClassFor(rhs.Ty)))
	}
	return out
}

func jvmClassFor(t ast.Type) string {
	if t.Kind == ast.StringT {
		return "java/lang/String"
	}
	if t.IsAnyPair() {
		return "wacc/lang/Pair"
	}
	return Descriptor(t)
}

func (c *StmtCtx) genCall(name string, args []*ast.Expr, retTy ast.Type) []string {
	var out []string
	var descr string
	for _, a := range args {
		out = append(out, c.Expr.Gen(a)...)
		descr += Descriptor(a.Type())
	}
	out = append(out, InvokeStatic("WaccProgram/f_"+name+"("+descr+")"+Descriptor(retTy)))
	return out
}

func (c *StmtCtx) genCallStmt(name string, args []*ast.Expr) []string {
	var out []string
	var descr string
	for _, a := range args {
		out = append(out, c.Expr.Gen(a)...)
		descr += Descriptor(a.Type())
	}
	out = append(out, InvokeStatic("WaccProgram/f_"+name+"("+descr+")V"), "\tpop")
	return out
}

func (c *StmtCtx) genRead(s *ast.Stmt) []string {
	out := []string{"\tgetstatic\tWaccProgram/in Ljava/util/Scanner;"}
	var call string
	switch s.LHS.Ty.Kind {
	case ast.CharT:
		call = "invokevirtual java/util/Scanner/next()Ljava/lang/String;"
		out = append(out, call, "\ticonst_0", InvokeVirtual("java/lang/String/charAt(I)C"))
	default:
		out = append(out, InvokeVirtual("java/util/Scanner/nextInt()I"))
	}
	return append(out, c.storeLHS(s.LHS)...)
}

func (c *StmtCtx) genFree(s *ast.Stmt) []string {
	return append(c.Expr.Gen(s.Expr), "\tpop")
}

func (c *StmtCtx) genReturn(s *ast.Stmt) []string {
	out := c.Expr.Gen(s.Expr)
	if IsPrimitive(s.Expr.Type()) {
		return append(out, IReturn())
	}
	return append(out, AReturn())
}

func (c *StmtCtx) genExit(s *ast.Stmt) []string {
	out := c.Expr.Gen(s.Expr)
	return append(out, InvokeStatic("java/lang/System/exit(I)V"), Return())
}

func (c *StmtCtx) genPrint(s *ast.Stmt) []string {
	out := []string{"\tgetstatic\tjava/lang/System/out Ljava/io/PrintStream;"}
	out = append(out, c.Expr.Gen(s.Expr)...)
	method := "print"
	if s.Newline {
		method = "println"
	}
	out = append(out, InvokeVirtual("java/io/PrintStream/"+method+"("+printDescr(s.Expr.Type())+")V"))
	return out
}

func printDescr(t ast.Type) string {
	switch t.Kind {
	case ast.IntT:
		return "I"
	case ast.BoolT:
		return "Z"
	case ast.CharT:
		return "C"
	case ast.StringT:
		return "Ljava/lang/String;"
	default:
		return "Ljava/lang/Object;"
	}
}

func (c *StmtCtx) genIf(s *ast.Stmt) []string {
	cond := c.Expr.Gen(s.Cond)
	if s.Else == nil {
		endLabel := c.newLabel()
		out := append(cond, IfEq(endLabel))
		out = append(out, c.Gen(s.Then)...)
		return append(out, Label(endLabel))
	}
	elseLabel := c.newLabel()
	endLabel := c.newLabel()
	out := append(cond, IfEq(elseLabel))
	out = append(out, c.Gen(s.Then)...)
	out = append(out, Goto(endLabel), Label(elseLabel))
	out = append(out, c.Gen(s.Else)...)
	return append(out, Label(endLabel))
}

func (c *StmtCtx) genWhile(s *ast.Stmt) []string {
	condLabel := c.newLabel()
	bodyLabel := c.newLabel()
	out := []string{Goto(condLabel), Label(bodyLabel)}
	out = append(out, c.Gen(s.Body)...)
	out = append(out, Label(condLabel))
	out = append(out, c.Expr.Gen(s.Cond)...)
	return append(out, IfNe(bodyLabel))
}
