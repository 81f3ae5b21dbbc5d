package arm

import (
	"waccc/asmfrag"
	"waccc/ast"
)

// StmtCtx lowers statements, threading the same ExprCtx used for
// expressions and adding the monotonic L0,L1,... label counter If/While
// need (spec.md §4.3). Grounded on the teacher's per-function statement
// walk in backend/amd64/amd64.go, generalised from its three-address
// statement forms to WACC's Decl/Assign/If/While/Read/Free/Print shapes.
type StmtCtx struct {
	Expr         *ExprCtx
	labelCounter int
}

func NewStmtCtx(e *ExprCtx) *StmtCtx { return &StmtCtx{Expr: e} }

func (c *StmtCtx) newLabel() string {
	label := sprintfLabel("L", c.labelCounter)
	c.labelCounter++
	return label
}

func (c *StmtCtx) Gen(s *ast.Stmt) asmfrag.Fragment {
	switch s.Kind {
	case ast.SkipStmt:
		return asmfrag.Empty()
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
		return c.genBlock(s)
	case ast.SeqStmt:
		return asmfrag.Concat(c.Gen(s.First), c.Gen(s.Second))
	case ast.CallStmt:
		return c.genCall(s.CallName, s.CallArgs, nil)
	}
	panic("arm: StmtCtx.Gen: invalid stmt kind")
}

func (c *StmtCtx) genBlock(s *ast.Stmt) asmfrag.Fragment {
	// ScopeSize/EnterScope/ExitScope live in symtab; StmtCtx only needs
	// the size to emit the matching SUB/ADD pair (spec.md §4.1), which it
	// computes the same way symtab.ScopeSize does: every DeclStmt directly
	// in this block.
	size := 0
	for _, st := range s.Stmts {
		if st.Kind == ast.DeclStmt {
			size += st.Var.Ty.Size()
		}
	}

	scope := c.Expr.Env.EnterScope(size)
	var out asmfrag.Fragment
	if size > 0 {
		out = lit(Sub(AL, false, SP, SP, MustImm8r(int32(size))).String())
	} else {
		out = asmfrag.Empty()
	}
	for _, st := range s.Stmts {
		out = asmfrag.Concat(out, c.Gen(st))
	}
	c.Expr.Env.ExitScope(scope)
	if size > 0 {
		out = asmfrag.Concat(out, lit(Add(AL, false, SP, SP, MustImm8r(int32(size))).String()))
	}
	return out
}

func (c *StmtCtx) genDecl(s *ast.Stmt) asmfrag.Fragment {
	dest := DefaultRegList().Dest()
	out := c.genRHS(s.RHS, DefaultRegList())
	off := c.Expr.Env.UseOffset(s.Var)
	return asmfrag.Concat(out, lit(Str(AL, dest, loadOffset(SP, off)).String()))
}

func (c *StmtCtx) genAssign(s *ast.Stmt) asmfrag.Fragment {
	regs := DefaultRegList()
	out := c.genRHS(s.RHS, regs)
	value := regs.Dest()
	return asmfrag.Concat(out, c.storeLHS(s.LHS, value, regs.Rest()))
}

func (c *StmtCtx) storeLHS(lhs ast.LHS, value Reg, scratch RegList) asmfrag.Fragment {
	switch lhs.Kind {
	case ast.LHSIdent:
		off := c.Expr.Env.UseOffset(lhs.Var)
		return lit(Str(AL, value, loadOffset(SP, off)).String())
	case ast.LHSArrayElem:
		return c.storeArrayElem(lhs, value, scratch)
	case ast.LHSPairFst, ast.LHSPairSnd:
		c.Expr.Runtime.Require(PCheckNullPointer)
		addrReg := scratch.Dest()
		out := c.Expr.Gen(lhs.Pair, RegList{addrReg})
		out = asmfrag.Concat(out, lit(Branch(AL, true, string(PCheckNullPointer)).String()))
		fieldOff := 0
		if lhs.Kind == ast.LHSPairSnd {
			fieldOff = 4
		}
		out = asmfrag.Concat(out, lit(Ldr(AL, addrReg, loadOffset(addrReg, fieldOff)).String()))
		return asmfrag.Concat(out, lit(Str(AL, value, Normal(addrReg)).String()))
	}
	panic("arm: StmtCtx.storeLHS: invalid LHS kind")
}

func (c *StmtCtx) storeArrayElem(lhs ast.LHS, value Reg, scratch RegList) asmfrag.Fragment {
	c.Expr.Runtime.Require(PCheckArrayBounds)
	addrReg := scratch.Dest()
	idxReg := scratch.Next()

	off := c.Expr.Env.UseOffset(lhs.Var)
	out := lit(Ldr(AL, addrReg, loadOffset(SP, off)).String())

	elemTy := lhs.Var.Ty
	for i, indexExpr := range lhs.Indices {
		out = asmfrag.Concat(out, c.Expr.Gen(indexExpr, RegList{idxReg}))
		out = asmfrag.Concat(out, lit(Mov(AL, R0, RegOp2(idxReg)).String()))
		out = asmfrag.Concat(out, lit(Mov(AL, R1, RegOp2(addrReg)).String()))
		out = asmfrag.Concat(out, lit(Branch(AL, true, string(PCheckArrayBounds)).String()))
		elemTy = elementTypeOf(elemTy)
		out = asmfrag.Concat(out, lit(Add(AL, false, addrReg, addrReg, MustImm8r(4)).String()))
		last := i == len(lhs.Indices)-1
		if !last {
			out = asmfrag.Concat(out, asmLines(scaledIndexLines(addrReg, idxReg)...))
			out = asmfrag.Concat(out, lit(Ldr(AL, addrReg, Normal(addrReg)).String()))
			continue
		}
		if elemTy.ElemSize() == 1 {
			out = asmfrag.Concat(out, lit(Add(AL, false, addrReg, addrReg, RegOp2(idxReg)).String()))
			out = asmfrag.Concat(out, lit(StrB(AL, value, Normal(addrReg)).String()))
		} else {
			out = asmfrag.Concat(out, asmLines(scaledIndexLines(addrReg, idxReg)...))
			out = asmfrag.Concat(out, lit(Str(AL, value, Normal(addrReg)).String()))
		}
	}
	return out
}

// genRHS lowers an assign-rhs into regs.Dest().
func (c *StmtCtx) genRHS(rhs ast.RHS, regs RegList) asmfrag.Fragment {
	switch rhs.Kind {
	case ast.RHSExpr:
		return c.Expr.Gen(rhs.Expr, regs)
	case ast.RHSArrayLit:
		return c.genArrayLit(rhs, regs)
	case ast.RHSNewPair:
		return c.genNewPair(rhs, regs)
	case ast.RHSCall:
		return c.genCall(rhs.FuncName, rhs.Args, &regs)
	case ast.RHSPairElem:
		return c.genPairElem(rhs, regs)
	}
	panic("arm: StmtCtx.genRHS: invalid RHS kind")
}

// genArrayLit allocates len(elems)*elemSize+4 bytes on the heap, writes
// the element count in the first word, then each element in turn
// (spec.md's array representation: a length-prefixed heap block).
func (c *StmtCtx) genArrayLit(rhs ast.RHS, regs RegList) asmfrag.Fragment {
	dest := regs.Dest()
	elemTy := elementTypeOf(rhs.Ty)
	elemSize := elemTy.ElemSize()
	total := int32(4 + len(rhs.Elems)*elemSize)

	out := c.genIntLiteralInto(R0, total)
	out = asmfrag.Concat(out, lit(Branch(AL, true, "malloc").String()))
	out = asmfrag.Concat(out, lit(Mov(AL, dest, RegOp2(R0)).String()))

	scratch := regs.Rest()
	elemReg := scratch.Dest()
	countOp, ok := Imm8r(int32(len(rhs.Elems)))
	if !ok {
		out = asmfrag.Concat(out, lit(Ldr(AL, elemReg, LitImm32(int32(len(rhs.Elems)))).String()))
	} else {
		out = asmfrag.Concat(out, lit(Mov(AL, elemReg, countOp).String()))
	}
	out = asmfrag.Concat(out, lit(Str(AL, elemReg, Normal(dest)).String()))

	offset := 4
	for _, el := range rhs.Elems {
		out = asmfrag.Concat(out, c.Expr.Gen(el, scratch))
		if elemSize == 1 {
			out = asmfrag.Concat(out, lit(StrB(AL, scratch.Dest(), loadOffset(dest, offset)).String()))
		} else {
			out = asmfrag.Concat(out, lit(Str(AL, scratch.Dest(), loadOffset(dest, offset)).String()))
		}
		offset += elemSize
	}
	return out
}

func (c *StmtCtx) genIntLiteralInto(dest Reg, v int32) asmfrag.Fragment {
	if op2, ok := Imm8r(v); ok {
		return lit(Mov(AL, dest, op2).String())
	}
	return lit(Ldr(AL, dest, LitImm32(v)).String())
}

// genNewPair allocates an 8-byte pair cell, then a heap cell per field
// holding the field's value (spec.md's pair representation: two pointers
// to singly-boxed fields, so both fields share one representation
// regardless of their size).
func (c *StmtCtx) genNewPair(rhs ast.RHS, regs RegList) asmfrag.Fragment {
	dest := regs.Dest()
	scratch := regs.Rest()

	out := c.genIntLiteralInto(R0, 8)
	out = asmfrag.Concat(out, lit(Branch(AL, true, "malloc").String()))
	out = asmfrag.Concat(out, lit(Mov(AL, dest, RegOp2(R0)).String()))

	out = asmfrag.Concat(out, c.genPairField(rhs.Fst, scratch))
	out = asmfrag.Concat(out, lit(Str(AL, scratch.Dest(), Normal(dest)).String()))

	out = asmfrag.Concat(out, c.genPairField(rhs.Snd, scratch))
	out = asmfrag.Concat(out, lit(Str(AL, scratch.Dest(), loadOffset(dest, 4)).String()))
	return out
}

func (c *StmtCtx) genPairField(field *ast.Expr, scratch RegList) asmfrag.Fragment {
	size := int32(field.Type().Size())
	out := c.genIntLiteralInto(R0, size)
	out = asmfrag.Concat(out, lit(Branch(AL, true, "malloc").String()))
	out = asmfrag.Concat(out, lit(Mov(AL, scratch.Next(), RegOp2(R0)).String()))
	out = asmfrag.Concat(out, c.Expr.Gen(field, RegList{scratch.Dest()}))
	out = asmfrag.Concat(out, lit(Str(AL, scratch.Dest(), Normal(scratch.Next())).String()))
	return asmfrag.Concat(out, lit(Mov(AL, scratch.Dest(), RegOp2(scratch.Next())).String()))
}

func (c *StmtCtx) genPairElem(rhs ast.RHS, regs RegList) asmfrag.Fragment {
	c.Expr.Runtime.Require(PCheckNullPointer)
	dest := regs.Dest()
	out := c.Expr.Gen(rhs.PairExpr, regs)
	out = asmfrag.Concat(out, lit(Branch(AL, true, string(PCheckNullPointer)).String()))
	fieldOff := 0
	if !rhs.IsFst {
		fieldOff = 4
	}
	out = asmfrag.Concat(out, lit(Ldr(AL, dest, loadOffset(dest, fieldOff)).String()))
	return asmfrag.Concat(out, lit(Ldr(AL, dest, Normal(dest)).String()))
}

// genCall evaluates up to four arguments directly into r0-r3 (WACC
// functions are never called with more, per the reference AAPCS-lite
// calling convention) then branches with link. If dest is non-nil the
// return value in r0 is moved into dest.Dest().
func (c *StmtCtx) genCall(name string, args []*ast.Expr, dest *RegList) asmfrag.Fragment {
	out := asmfrag.Empty()
	argRegs := []Reg{R0, R1, R2, R3}
	for i, arg := range args {
		if i >= len(argRegs) {
			break
		}
		out = asmfrag.Concat(out, c.Expr.Gen(arg, RegList{argRegs[i]}))
	}
	out = asmfrag.Concat(out, lit(Branch(AL, true, "f_"+name).String()))
	if dest != nil && dest.Dest() != R0 {
		out = asmfrag.Concat(out, lit(Mov(AL, dest.Dest(), RegOp2(R0)).String()))
	}
	return out
}

func (c *StmtCtx) genRead(s *ast.Stmt) asmfrag.Fragment {
	out := c.addressOf(s.LHS)
	helper := PReadInt
	if s.LHS.Ty.Kind == ast.CharT {
		helper = PReadChar
	}
	c.Expr.Runtime.Require(helper)
	return asmfrag.Concat(out, lit(Branch(AL, true, string(helper)).String()))
}

// addressOf computes the address an LHS location's value lives at, into
// r0, for use by ReadStmt (which writes through a pointer rather than
// producing a value).
func (c *StmtCtx) addressOf(lhs ast.LHS) asmfrag.Fragment {
	switch lhs.Kind {
	case ast.LHSIdent:
		off := c.Expr.Env.UseOffset(lhs.Var)
		if off == 0 {
			return lit(Mov(AL, R0, RegOp2(SP)).String())
		}
		return lit(Add(AL, false, R0, SP, MustImm8r(int32(off))).String())
	case ast.LHSPairFst, ast.LHSPairSnd:
		c.Expr.Runtime.Require(PCheckNullPointer)
		out := c.Expr.Gen(lhs.Pair, RegList{R1})
		out = asmfrag.Concat(out, lit(Mov(AL, R0, RegOp2(R1)).String()))
		out = asmfrag.Concat(out, lit(Branch(AL, true, string(PCheckNullPointer)).String()))
		fieldOff := 0
		if lhs.Kind == ast.LHSPairSnd {
			fieldOff = 4
		}
		return asmfrag.Concat(out, lit(Ldr(AL, R0, loadOffset(R1, fieldOff)).String()))
	case ast.LHSArrayElem:
		return c.addressOfArrayElem(lhs)
	}
	panic("arm: StmtCtx.addressOf: invalid LHS kind")
}

// addressOfArrayElem is storeArrayElem's address-computation half,
// stopped just before the final store, leaving the element's address in
// r0 for ReadStmt's scanf-style helpers.
func (c *StmtCtx) addressOfArrayElem(lhs ast.LHS) asmfrag.Fragment {
	c.Expr.Runtime.Require(PCheckArrayBounds)
	addrReg, idxReg := R1, R2

	off := c.Expr.Env.UseOffset(lhs.Var)
	out := lit(Ldr(AL, addrReg, loadOffset(SP, off)).String())

	elemTy := lhs.Var.Ty
	for i, indexExpr := range lhs.Indices {
		out = asmfrag.Concat(out, c.Expr.Gen(indexExpr, RegList{idxReg}))
		out = asmfrag.Concat(out, lit(Mov(AL, R0, RegOp2(idxReg)).String()))
		out = asmfrag.Concat(out, lit(Mov(AL, R1, RegOp2(addrReg)).String()))
		out = asmfrag.Concat(out, lit(Branch(AL, true, string(PCheckArrayBounds)).String()))
		elemTy = elementTypeOf(elemTy)
		out = asmfrag.Concat(out, lit(Add(AL, false, addrReg, addrReg, MustImm8r(4)).String()))
		if elemTy.ElemSize() == 1 && i == len(lhs.Indices)-1 {
			out = asmfrag.Concat(out, lit(Add(AL, false, addrReg, addrReg, RegOp2(idxReg)).String()))
		} else {
			out = asmfrag.Concat(out, asmLines(scaledIndexLines(addrReg, idxReg)...))
			if i != len(lhs.Indices)-1 {
				out = asmfrag.Concat(out, lit(Ldr(AL, addrReg, Normal(addrReg)).String()))
			}
		}
	}
	return asmfrag.Concat(out, lit(Mov(AL, R0, RegOp2(addrReg)).String()))
}

func (c *StmtCtx) genFree(s *ast.Stmt) asmfrag.Fragment {
	c.Expr.Runtime.Require(PFreePair)
	out := c.Expr.Gen(s.Expr, RegList{R0})
	return asmfrag.Concat(out, lit(Branch(AL, true, string(PFreePair)).String()))
}

func (c *StmtCtx) genReturn(s *ast.Stmt) asmfrag.Fragment {
	out := c.Expr.Gen(s.Expr, RegList{R0})
	shift := c.Expr.Env.Shift()
	if shift > 0 {
		out = asmfrag.Concat(out, lit(Add(AL, false, SP, SP, MustImm8r(int32(shift))).String()))
	}
	return asmfrag.Concat(out, lit(Pop(PC).String()))
}

func (c *StmtCtx) genExit(s *ast.Stmt) asmfrag.Fragment {
	out := c.Expr.Gen(s.Expr, RegList{R0})
	return asmfrag.Concat(out, lit(Branch(AL, true, "exit").String()))
}

func (c *StmtCtx) genPrint(s *ast.Stmt) asmfrag.Fragment {
	regs := DefaultRegList()
	out := c.Expr.Gen(s.Expr, regs)
	out = asmfrag.Concat(out, lit(Mov(AL, R0, RegOp2(regs.Dest())).String()))
	helper := printHelperFor(s.Expr.Type())
	c.Expr.Runtime.Require(helper)
	out = asmfrag.Concat(out, lit(Branch(AL, true, string(helper)).String()))
	if s.Newline {
		c.Expr.Runtime.Require(PPrintLn)
		out = asmfrag.Concat(out, lit(Branch(AL, true, string(PPrintLn)).String()))
	}
	return out
}

func printHelperFor(t ast.Type) Helper {
	switch t.Kind {
	case ast.IntT:
		return PPrintInt
	case ast.BoolT:
		return PPrintBool
	case ast.CharT:
		return PPrintChar
	case ast.StringT:
		return PPrintString
	default:
		return PPrintReference
	}
}

func (c *StmtCtx) genIf(s *ast.Stmt) asmfrag.Fragment {
	regs := DefaultRegList()
	out := c.Expr.Gen(s.Cond, regs)
	out = asmfrag.Concat(out, lit(Cmp(regs.Dest(), MustImm8r(0)).String()))

	if s.Else == nil {
		endLabel := c.newLabel()
		out = asmfrag.Concat(out, lit(Branch(EQ, false, endLabel).String()))
		out = asmfrag.Concat(out, c.Gen(s.Then))
		return asmfrag.Concat(out, lit(Label(endLabel)))
	}

	elseLabel := c.newLabel()
	endLabel := c.newLabel()
	out = asmfrag.Concat(out, lit(Branch(EQ, false, elseLabel).String()))
	out = asmfrag.Concat(out, c.Gen(s.Then))
	out = asmfrag.Concat(out, lit(Branch(AL, false, endLabel).String()))
	out = asmfrag.Concat(out, lit(Label(elseLabel)))
	out = asmfrag.Concat(out, c.Gen(s.Else))
	return asmfrag.Concat(out, lit(Label(endLabel)))
}

// genWhile lowers to a check-at-bottom loop: an unconditional jump to the
// condition, then the body, then the condition and a conditional branch
// back to the body (one branch per iteration instead of two).
func (c *StmtCtx) genWhile(s *ast.Stmt) asmfrag.Fragment {
	bodyLabel := c.newLabel()
	condLabel := c.newLabel()

	out := lit(Branch(AL, false, condLabel).String())
	out = asmfrag.Concat(out, lit(Label(bodyLabel)))
	out = asmfrag.Concat(out, c.Gen(s.Body))
	out = asmfrag.Concat(out, lit(Label(condLabel)))

	regs := DefaultRegList()
	out = asmfrag.Concat(out, c.Expr.Gen(s.Cond, regs))
	out = asmfrag.Concat(out, lit(Cmp(regs.Dest(), MustImm8r(1)).String()))
	return asmfrag.Concat(out, lit(Branch(EQ, false, bodyLabel).String()))
}
