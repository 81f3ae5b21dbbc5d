package arm

import (
	"waccc/asmfrag"
	"waccc/ast"
	"waccc/symtab"
)

// ExprCtx threads the pieces expression lowering needs: the current
// function's stack-frame bookkeeping, the shared string pool, and the
// runtime-helper registry that records which helpers this program ends
// up calling. Grounded on backend/amd64/amd64.go's per-function codegen
// context, generalised from furthest-use register allocation to the
// Sethi-Ullman-weighted tree walk spec.md §4.2 describes.
type ExprCtx struct {
	Env     *symtab.Env
	Strings *StringPool
	Runtime *Registry

	labelCounter int
}

func NewExprCtx(env *symtab.Env, strings *StringPool, runtime *Registry) *ExprCtx {
	return &ExprCtx{Env: env, Strings: strings, Runtime: runtime}
}

func lit(line string) asmfrag.Fragment { return asmfrag.Code1(line) }

// Gen lowers e so that its value ends up in regs.Dest(), using regs.Rest()
// as working space. When e.Weight() exceeds regs.Len() it falls back to
// the one-register stack-machine spill using the reserved Last register
// (spec.md §4.2, §9).
func (c *ExprCtx) Gen(e *ast.Expr, regs RegList) asmfrag.Fragment {
	if e.Weight() > regs.Len() {
		return c.genSpill(e, regs)
	}

	switch e.Kind {
	case ast.IntLit:
		return c.genIntLiteral(regs.Dest(), e.IntVal)
	case ast.BoolLit:
		v := int32(0)
		if e.BoolVal {
			v = 1
		}
		return lit(Mov(AL, regs.Dest(), MustImm8r(v)).String())
	case ast.CharLit:
		return lit(Mov(AL, regs.Dest(), MustImm8r(int32(e.CharVal))).String())
	case ast.StrLit:
		label := c.Strings.Intern(e.StrVal)
		return lit(Ldr(AL, regs.Dest(), LitLabel(label)).String())
	case ast.NullPairLit:
		return lit(Mov(AL, regs.Dest(), MustImm8r(0)).String())
	case ast.IdentExpr:
		off := c.Env.UseOffset(e.Var)
		return lit(Ldr(AL, regs.Dest(), loadOffset(SP, off)).String())
	case ast.ArrayElemExpr:
		return c.genArrayElem(e, regs)
	case ast.UnaryOperExpr:
		return c.genUnary(e, regs)
	case ast.BinaryOperExpr:
		return c.genBinary(e, regs)
	}
	panic("arm: ExprCtx.Gen: invalid expr kind")
}

// genIntLiteral prefers a rotated Operand2 MOV and falls back to the
// literal pool for constants with no 8-bit-rotated encoding (spec.md
// §4.2: "LDR dest, =value for 32-bit constants with no Operand2 form").
func (c *ExprCtx) genIntLiteral(dest Reg, v int32) asmfrag.Fragment {
	if op2, ok := Imm8r(v); ok {
		return lit(Mov(AL, dest, op2).String())
	}
	return lit(Ldr(AL, dest, LitImm32(v)).String())
}

func loadOffset(base Reg, off int) Addr {
	if off == 0 {
		return Normal(base)
	}
	return NormalImm(base, '+', int32(off))
}

// genArrayElem lowers v[i0][i1]... using two registers regardless of the
// number of dimensions chained: dest holds the current array pointer,
// regs.Next() holds the index at each level in turn (spec.md §4.2: weight
// bounded by 2).
func (c *ExprCtx) genArrayElem(e *ast.Expr, regs RegList) asmfrag.Fragment {
	c.Runtime.Require(PCheckArrayBounds)
	dest := regs.Dest()
	idx := regs.Next()

	off := c.Env.UseOffset(e.Var)
	out := lit(Ldr(AL, dest, loadOffset(SP, off)).String())

	elemTy := e.Var.Ty
	for i, indexExpr := range e.Indices {
		out = asmfrag.Concat(out, c.Gen(indexExpr, RegList{idx}))
		out = asmfrag.Concat(out, lit(Mov(AL, R0, RegOp2(idx)).String()))
		out = asmfrag.Concat(out, lit(Mov(AL, R1, RegOp2(dest)).String()))
		out = asmfrag.Concat(out, lit(Branch(AL, true, string(PCheckArrayBounds)).String()))

		elemTy = elementTypeOf(elemTy)
		out = asmfrag.Concat(out, lit(Add(AL, false, dest, dest, MustImm8r(4)).String()))
		if elemTy.ElemSize() == 1 {
			out = asmfrag.Concat(out, lit(Add(AL, false, dest, dest, RegOp2(idx)).String()))
			if i == len(e.Indices)-1 {
				out = asmfrag.Concat(out, lit(LdrSB(AL, dest, Normal(dest)).String()))
			} else {
				out = asmfrag.Concat(out, lit(Ldr(AL, dest, Normal(dest)).String()))
			}
		} else {
			out = asmfrag.Concat(out, asmLines(scaledIndexLines(dest, idx)...))
			out = asmfrag.Concat(out, lit(Ldr(AL, dest, Normal(dest)).String()))
		}
	}
	return out
}

// scaledIndexLines adds a 4-byte-scaled idx into dest. MUL cannot take an
// Operand2 (spec.md §4.2), so the x4 scale is done with repeated adds
// instead of pulling in a second scratch register for a multiply.
func scaledIndexLines(dest, idx Reg) []string {
	line := Add(AL, false, dest, dest, RegOp2(idx)).String()
	return []string{line, line, line, line}
}

func elementTypeOf(t ast.Type) ast.Type {
	if t.Kind == ast.ArrayT {
		if t.Depth > 1 {
			next := *t.Elem
			return ast.NewArray(next, t.Depth-1)
		}
		return *t.Elem
	}
	return t
}

func (c *ExprCtx) genUnary(e *ast.Expr, regs RegList) asmfrag.Fragment {
	out := c.Gen(e.X, regs)
	dest := regs.Dest()
	switch e.Op {
	case ast.NotUO:
		return asmfrag.Concat(out, lit(Eor(AL, dest, dest, MustImm8r(1)).String()))
	case ast.NegUO:
		c.Runtime.Require(PThrowOverflowError)
		out = asmfrag.Concat(out, lit(Rsb(AL, true, dest, dest, MustImm8r(0)).String()))
		return asmfrag.Concat(out, lit(Branch(VS, true, string(PThrowOverflowError)).String()))
	case ast.LenUO:
		return asmfrag.Concat(out, lit(Ldr(AL, dest, Normal(dest)).String()))
	case ast.OrdUO, ast.ChrUO:
		return out // chars and ints share the same 4-byte register representation
	}
	panic("arm: ExprCtx.genUnary: invalid op")
}

func (c *ExprCtx) genBinary(e *ast.Expr, regs RegList) asmfrag.Fragment {
	if e.Op.IsShortCircuit() {
		return c.genShortCircuit(e, regs)
	}

	dest := regs.Dest()
	next := regs.Next()
	rest := regs.Rest()

	var out asmfrag.Fragment
	var lhs, rhs Reg
	if e.X.Weight() >= e.Y.Weight() {
		out = c.Gen(e.X, regs)
		out = asmfrag.Concat(out, c.Gen(e.Y, rest))
		lhs, rhs = dest, next
	} else {
		out = c.Gen(e.Y, regs)
		out = asmfrag.Concat(out, c.Gen(e.X, rest))
		lhs, rhs = next, dest
	}

	switch e.Op {
	case ast.AddBO:
		c.Runtime.Require(PThrowOverflowError)
		out = asmfrag.Concat(out, lit(Add(AL, true, dest, lhs, RegOp2(rhs)).String()))
		out = asmfrag.Concat(out, lit(Branch(VS, true, string(PThrowOverflowError)).String()))
	case ast.SubBO:
		c.Runtime.Require(PThrowOverflowError)
		out = asmfrag.Concat(out, lit(Sub(AL, true, dest, lhs, RegOp2(rhs)).String()))
		out = asmfrag.Concat(out, lit(Branch(VS, true, string(PThrowOverflowError)).String()))
	case ast.MulBO:
		c.Runtime.Require(PThrowOverflowError)
		out = asmfrag.Concat(out, lit(Mul(AL, true, dest, lhs, rhs).String()))
		out = asmfrag.Concat(out, lit(Branch(VS, true, string(PThrowOverflowError)).String()))
	case ast.DivBO:
		c.Runtime.Require(PCheckDivideByZero)
		out = asmfrag.Concat(out, c.genDivMod(dest, lhs, rhs, false))
	case ast.ModBO:
		c.Runtime.Require(PCheckDivideByZero)
		out = asmfrag.Concat(out, c.genDivMod(dest, lhs, rhs, true))
	case ast.AndBO, ast.OrBO:
		panic("arm: ExprCtx.genBinary: short-circuit op reached the eager path")
	default:
		cond := CondForOp(e.Op)
		out = asmfrag.Concat(out, lit(Cmp(lhs, RegOp2(rhs)).String()))
		out = asmfrag.Concat(out, lit(Mov(cond, dest, MustImm8r(1)).String()))
		out = asmfrag.Concat(out, lit(Mov(cond.Negate(), dest, MustImm8r(0)).String()))
	}
	return out
}

// genDivMod calls the __aeabi_idivmod runtime helper (spec.md §4.2:
// "DivBO/ModBO lower to __aeabi_idivmod after a p_check_divide_by_zero
// call"), which returns the quotient in r0 and the remainder in r1.
func (c *ExprCtx) genDivMod(dest, lhs, rhs Reg, mod bool) asmfrag.Fragment {
	out := lit(Mov(AL, R0, RegOp2(lhs)).String())
	out = asmfrag.Concat(out, lit(Mov(AL, R1, RegOp2(rhs)).String()))
	out = asmfrag.Concat(out, lit(Branch(AL, true, string(PCheckDivideByZero)).String()))
	out = asmfrag.Concat(out, lit(Branch(AL, true, "__aeabi_idivmod").String()))
	if mod {
		out = asmfrag.Concat(out, lit(Mov(AL, dest, RegOp2(R1)).String()))
	} else {
		out = asmfrag.Concat(out, lit(Mov(AL, dest, RegOp2(R0)).String()))
	}
	return out
}

// genShortCircuit evaluates e.X, then branches around e.Y entirely when
// e.X already determines the result (spec.md §4.2: "&&/|| never evaluate
// the right operand when the left operand already decides the result").
func (c *ExprCtx) genShortCircuit(e *ast.Expr, regs RegList) asmfrag.Fragment {
	dest := regs.Dest()
	out := c.Gen(e.X, regs)
	out = asmfrag.Concat(out, lit(Cmp(dest, MustImm8r(shortCircuitTrigger(e.Op))).String()))

	skipLabel := c.skipLabel()
	out = asmfrag.Concat(out, lit(Branch(EQ, false, skipLabel).String()))
	out = asmfrag.Concat(out, c.Gen(e.Y, regs))
	out = asmfrag.Concat(out, lit(Label(skipLabel)))
	return out
}

// shortCircuitTrigger is the value of e.X that already decides the whole
// expression: 0 for &&, 1 for ||.
func shortCircuitTrigger(op ast.Op) int32 {
	if op == ast.AndBO {
		return 0
	}
	return 1
}

func (c *ExprCtx) skipLabel() string {
	c.labelCounter++
	return sprintfLabel("Lsc", c.labelCounter)
}

func sprintfLabel(prefix string, n int) string {
	digits := [...]byte{'0', '1', '2', '3', '4', '5', '6', '7', '8', '9'}
	if n == 0 {
		return prefix + "0"
	}
	var buf []byte
	for n > 0 {
		buf = append([]byte{digits[n%10]}, buf...)
		n /= 10
	}
	return prefix + string(buf)
}

// genSpill lowers an expression whose weight exceeds the available
// register count using the classic one-register stack-machine fallback:
// evaluate the left operand into regs.Dest() and push it, evaluate the
// right operand into regs.Dest() and move it to Last, then pop the left
// result back into regs.Dest() and combine the two (spec.md §4.2, §9).
func (c *ExprCtx) genSpill(e *ast.Expr, regs RegList) asmfrag.Fragment {
	if e.Kind != ast.BinaryOperExpr {
		// Non-binary nodes (an array element given a one-register list,
		// or a unary operator over a heavy operand) are generated
		// directly, with Last appended after regs as one more working
		// register.
		return c.Gen(e, append(append(RegList{}, regs...), Last))
	}

	out := c.Gen(e.X, regs)
	out = asmfrag.Concat(out, lit(Push(regs.Dest()).String()))
	out = asmfrag.Concat(out, c.Gen(e.Y, regs))
	out = asmfrag.Concat(out, lit(Mov(AL, Last, RegOp2(regs.Dest())).String()))
	out = asmfrag.Concat(out, lit(Pop(regs.Dest()).String()))

	return asmfrag.Concat(out, c.applyBinaryOp(e.Op, regs.Dest(), regs.Dest(), Last))
}

// applyBinaryOp emits the operator-specific combine step shared between
// the eager Sethi-Ullman path and the spill fallback.
func (c *ExprCtx) applyBinaryOp(op ast.Op, dest, lhs, rhs Reg) asmfrag.Fragment {
	switch op {
	case ast.AddBO:
		c.Runtime.Require(PThrowOverflowError)
		out := lit(Add(AL, true, dest, lhs, RegOp2(rhs)).String())
		return asmfrag.Concat(out, lit(Branch(VS, true, string(PThrowOverflowError)).String()))
	case ast.SubBO:
		c.Runtime.Require(PThrowOverflowError)
		out := lit(Sub(AL, true, dest, lhs, RegOp2(rhs)).String())
		return asmfrag.Concat(out, lit(Branch(VS, true, string(PThrowOverflowError)).String()))
	case ast.MulBO:
		c.Runtime.Require(PThrowOverflowError)
		out := lit(Mul(AL, true, dest, lhs, rhs).String())
		return asmfrag.Concat(out, lit(Branch(VS, true, string(PThrowOverflowError)).String()))
	case ast.DivBO:
		c.Runtime.Require(PCheckDivideByZero)
		return c.genDivMod(dest, lhs, rhs, false)
	case ast.ModBO:
		c.Runtime.Require(PCheckDivideByZero)
		return c.genDivMod(dest, lhs, rhs, true)
	default:
		cond := CondForOp(op)
		out := lit(Cmp(lhs, RegOp2(rhs)).String())
		out = asmfrag.Concat(out, lit(Mov(cond, dest, MustImm8r(1)).String()))
		return asmfrag.Concat(out, lit(Mov(cond.Negate(), dest, MustImm8r(0)).String()))
	}
}
