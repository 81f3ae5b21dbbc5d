package jvm

import (
	"strconv"

	"waccc/ast"
)

// ExprCtx tracks the local-variable slot assigned to each Variable this
// function has seen. JVM locals need no stack-shift arithmetic the way
// ARM's sp-relative offsets do (spec.md §4.5: "category-1 local slots"),
// so a Variable maps to a fixed slot for the whole method.
type ExprCtx struct {
	slots    map[*ast.Variable]int
	nextSlot int
	labelSeq int
}

func NewExprCtx() *ExprCtx {
	return &ExprCtx{slots: map[*ast.Variable]int{}}
}

// SlotFor returns v's local slot, assigning the next free one the first
// time v is seen.
func (c *ExprCtx) SlotFor(v *ast.Variable) int {
	if slot, ok := c.slots[v]; ok {
		return slot
	}
	slot := c.nextSlot
	c.slots[v] = slot
	c.nextSlot++
	return slot
}

// MaxLocals is the local-variable-table size to declare in .limit
// locals, one past the highest slot handed out.
func (c *ExprCtx) MaxLocals() int { return c.nextSlot }

// Gen lowers e via post-order stack construction: operands pushed first,
// operator applied last, matching the JVM's stack-machine evaluation
// order (spec.md §4.5).
func (c *ExprCtx) Gen(e *ast.Expr) []string {
	switch e.Kind {
	case ast.IntLit:
		return []string{Bipush(e.IntVal)}
	case ast.BoolLit:
		v := int32(0)
		if e.BoolVal {
			v = 1
		}
		return []string{Bipush(v)}
	case ast.CharLit:
		return []string{Bipush(int32(e.CharVal))}
	case ast.StrLit:
		return []string{LdcString(e.StrVal)}
	case ast.NullPairLit:
		return []string{"\taconst_null"}
	case ast.IdentExpr:
		return c.genLoad(e.Var)
	case ast.ArrayElemExpr:
		return c.genArrayElem(e)
	case ast.UnaryOperExpr:
		return c.genUnary(e)
	case ast.BinaryOperExpr:
		return c.genBinary(e)
	}
	panic("jvm: ExprCtx.Gen: invalid expr kind")
}

func (c *ExprCtx) genLoad(v *ast.Variable) []string {
	slot := c.SlotFor(v)
	if IsPrimitive(v.Ty) {
		return []string{ILoad(slot)}
	}
	return []string{ALoad(slot)}
}

func (c *ExprCtx) genArrayElem(e *ast.Expr) []string {
	out := c.genLoad(e.Var)
	elemTy := e.Var.Ty
	for _, indexExpr := range e.Indices {
		out = append(out, c.Gen(indexExpr)...)
		elemTy = elementTypeOf(elemTy)
		out = append(out, ArrayLoad(Descriptor(elemTy)))
	}
	return out
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

func (c *ExprCtx) genUnary(e *ast.Expr) []string {
	out := c.Gen(e.X)
	switch e.Op {
	case ast.NotUO:
		return append(out, Bipush(1), IXor())
	case ast.NegUO:
		return append(out, INeg())
	case ast.LenUO:
		return append(out, ArrayLength())
	case ast.OrdUO, ast.ChrUO:
		return out
	}
	panic("jvm: ExprCtx.genUnary: invalid op")
}

func (c *ExprCtx) genBinary(e *ast.Expr) []string {
	if e.Op.IsShortCircuit() {
		return c.genShortCircuit(e)
	}
	out := c.Gen(e.X)
	out = append(out, c.Gen(e.Y)...)
	switch e.Op {
	case ast.AddBO:
		return append(out, IAdd())
	case ast.SubBO:
		return append(out, ISub())
	case ast.MulBO:
		return append(out, IMul())
	case ast.DivBO:
		return append(out, IDiv())
	case ast.ModBO:
		return append(out, IRem())
	default:
		return append(out, c.genComparison(e.Op)...)
	}
}

func (c *ExprCtx) genComparison(op ast.Op) []string {
	trueLabel := c.newLabel()
	endLabel := c.newLabel()
	cmp := comparisonMnemonic(op)
	return []string{
		"\tif_icmp" + cmp + "\t" + trueLabel,
		Bipush(0),
		Goto(endLabel),
		Label(trueLabel),
		Bipush(1),
		Label(endLabel),
	}
}

func comparisonMnemonic(op ast.Op) string {
	switch op {
	case ast.GtBO:
		return "gt"
	case ast.GeBO:
		return "ge"
	case ast.LtBO:
		return "lt"
	case ast.LeBO:
		return "le"
	case ast.EqBO:
		return "eq"
	case ast.NeBO:
		return "ne"
	}
	panic("jvm: comparisonMnemonic: not a comparison operator")
}

// genShortCircuit mirrors the ARM backend's branch-over-the-right-operand
// lowering (spec.md §4.2, generalised here to the stack machine): the
// left operand is duplicated so it can both drive the branch and, on the
// short-circuiting path, remain as the whole expression's result.
func (c *ExprCtx) genShortCircuit(e *ast.Expr) []string {
	skipLabel := c.newLabel()
	out := c.Gen(e.X)
	out = append(out, "\tdup")
	if e.Op == ast.AndBO {
		out = append(out, IfEq(skipLabel))
	} else {
		out = append(out, IfNe(skipLabel))
	}
	out = append(out, "\tpop")
	out = append(out, c.Gen(e.Y)...)
	out = append(out, Label(skipLabel))
	return out
}

func (c *ExprCtx) newLabel() string {
	c.labelSeq++
	return "Lj" + strconv.Itoa(c.labelSeq)
}
