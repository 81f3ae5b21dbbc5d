// Package ast defines the typed WACC abstract syntax tree consumed by the
// code-generation backends. Nodes are constructed by an external front end
// (or, in tests, directly) and are never mutated once built.
package ast

import "strconv"

// Kind is the closed variant of WACC types.
type Kind int

const (
	InvalidT Kind = iota
	IntT
	BoolT
	CharT
	StringT
	ArrayT
	AnyArrayT
	PairT
	AnyPairT
)

// Type is a closed-variant value type: IntT/BoolT/CharT/StringT carry no
// payload, ArrayT carries Elem+Depth, PairT carries Fst+Snd (nil means the
// WACC `null` literal component).
type Type struct {
	Kind Kind
	Elem *Type
	Depth int
	Fst, Snd *Type
}

var (
	Int    = Type{Kind: IntT}
	Bool   = Type{Kind: BoolT}
	Char   = Type{Kind: CharT}
	String = Type{Kind: StringT}
	AnyArray = Type{Kind: AnyArrayT}
	AnyPair  = Type{Kind: AnyPairT}
)

// NewArray builds ArrayT(elem, depth). depth must be >= 1 (invariant,
// spec.md §3); depth < 1 is an internal consistency violation.
func NewArray(elem Type, depth int) Type {
	if depth < 1 {
		panic("ast: NewArray: depth must be >= 1")
	}
	e := elem
	return Type{Kind: ArrayT, Elem: &e, Depth: depth}
}

// NewPair builds PairT(fst, snd). A nested pair component (fst or snd
// itself being PairT) is erased to AnyPairT, matching WACC semantics
// (spec.md §3): pair(pair, int) has type pair(pair, int) where the nested
// pair carries no further element-type information.
func NewPair(fst, snd Type) Type {
	f := erasePair(fst)
	s := erasePair(snd)
	return Type{Kind: PairT, Fst: &f, Snd: &s}
}

func erasePair(t Type) Type {
	if t.Kind == PairT {
		return AnyPair
	}
	return t
}

func (t Type) IsAnyArray() bool { return t.Kind == AnyArrayT || t.Kind == ArrayT }
func (t Type) IsAnyPair() bool  { return t.Kind == AnyPairT || t.Kind == PairT }

// Size is the word size occupied when the type is stored in a stack slot,
// array element, or pair field. spec.md §4.1: every local occupies a
// uniform 4-byte slot; arrays and pairs are 4-byte pointers.
func (t Type) Size() int {
	switch t.Kind {
	case IntT, BoolT, CharT, StringT, ArrayT, AnyArrayT, PairT, AnyPairT:
		return 4
	}
	panic("ast: Type.Size: invalid type")
}

// ElemSize is the per-element storage width used by array codegen: chars
// and bools pack to a single byte, everything else is a word.
func (t Type) ElemSize() int {
	switch t.Kind {
	case CharT, BoolT:
		return 1
	default:
		return 4
	}
}

func (t Type) String() string {
	switch t.Kind {
	case IntT:
		return "int"
	case BoolT:
		return "bool"
	case CharT:
		return "char"
	case StringT:
		return "string"
	case ArrayT:
		s := t.Elem.String()
		for i := 0; i < t.Depth; i++ {
			s += "[]"
		}
		return s
	case AnyArrayT:
		return "any[]"
	case PairT:
		return "pair(" + t.Fst.String() + ", " + t.Snd.String() + ")"
	case AnyPairT:
		return "pair"
	}
	return "invalid(" + strconv.Itoa(int(t.Kind)) + ")"
}

func (t Type) Equal(o Type) bool {
	if t.Kind != o.Kind {
		return false
	}
	switch t.Kind {
	case ArrayT:
		return t.Depth == o.Depth && t.Elem.Equal(*o.Elem)
	case PairT:
		return t.Fst.Equal(*o.Fst) && t.Snd.Equal(*o.Snd)
	}
	return true
}
