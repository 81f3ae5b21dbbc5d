package arm

import "waccc/asmfrag"

// Helper names the runtime-support routines a compiled program may call
// into: bounds/null/zero checks, overflow and generic runtime errors, and
// the print/read primitives (spec.md §5: "a fixed catalogue of named
// helper routines... each helper may itself require other helpers").
type Helper string

const (
	PPrintInt           Helper = "p_print_int"
	PPrintBool          Helper = "p_print_bool"
	PPrintChar          Helper = "p_print_char"
	PPrintString        Helper = "p_print_string"
	PPrintReference     Helper = "p_print_reference"
	PPrintLn            Helper = "p_print_ln"
	PReadInt            Helper = "p_read_int"
	PReadChar           Helper = "p_read_char"
	PThrowOverflowError Helper = "p_throw_overflow_error"
	PThrowRuntimeError  Helper = "p_throw_runtime_error"
	PCheckDivideByZero  Helper = "p_check_divide_by_zero"
	PCheckArrayBounds   Helper = "p_check_array_bounds"
	PCheckNullPointer   Helper = "p_check_null_pointer"
	PFreePair           Helper = "p_free_pair"
)

// helperDeps is the static call graph between helpers; Registry.Require
// walks it to build the transitive closure of a program's helper set
// (spec.md §5, §8 property 4: "requiring a helper also emits every helper
// it transitively calls, exactly once").
var helperDeps = map[Helper][]Helper{
	PThrowOverflowError: {PThrowRuntimeError},
	PThrowRuntimeError:  {PPrintString},
	PCheckDivideByZero:  {PThrowRuntimeError},
	PCheckArrayBounds:   {PThrowRuntimeError},
	PCheckNullPointer:   {PThrowRuntimeError},
	PFreePair:           {PCheckNullPointer},
	PPrintBool:          {PPrintString},
}

// Registry tracks which helpers a compiled program needs and emits their
// bodies, each exactly once, in first-required-after-its-deps order.
// Grounded on backend/regalloc.go's dependency-closure style and the
// asmfrag.Fragment concat/dedup algebra used to merge their bodies.
type Registry struct {
	pool   *StringPool
	needed map[Helper]bool
	order  []Helper
}

func NewRegistry(pool *StringPool) *Registry {
	return &Registry{pool: pool, needed: map[Helper]bool{}}
}

func (r *Registry) Require(h Helper) {
	if r.needed[h] {
		return
	}
	r.needed[h] = true
	for _, dep := range helperDeps[h] {
		r.Require(dep)
	}
	r.order = append(r.order, h)
}

func (r *Registry) Requires(h Helper) bool { return r.needed[h] }

func (r *Registry) Fragment() asmfrag.Fragment {
	out := asmfrag.Empty()
	for _, h := range r.order {
		body, ok := helperBody[h]
		if !ok {
			panic("arm: no body registered for helper " + string(h))
		}
		out = asmfrag.Concat(out, body(r.pool))
	}
	return out
}

type helperFn func(*StringPool) asmfrag.Fragment

var helperBody = map[Helper]helperFn{
	PPrintInt:           bodyPrintInt,
	PPrintBool:          bodyPrintBool,
	PPrintChar:          bodyPrintChar,
	PPrintString:        bodyPrintString,
	PPrintReference:     bodyPrintReference,
	PPrintLn:            bodyPrintLn,
	PReadInt:            bodyReadInt,
	PReadChar:           bodyReadChar,
	PThrowOverflowError: bodyThrowOverflowError,
	PThrowRuntimeError:  bodyThrowRuntimeError,
	PCheckDivideByZero:  bodyCheckDivideByZero,
	PCheckArrayBounds:   bodyCheckArrayBounds,
	PCheckNullPointer:   bodyCheckNullPointer,
	PFreePair:           bodyFreePair,
}

func asmLines(lines ...string) asmfrag.Fragment {
	f := asmfrag.Empty()
	for _, l := range lines {
		f = asmfrag.Concat(f, asmfrag.Code1(l))
	}
	return f
}

func bodyPrintString(pool *StringPool) asmfrag.Fragment {
	fmtLabel := pool.Intern("%.*s")
	return asmfrag.Concat(asmLines(
		Label(string(PPrintString)),
		Ldr(AL, R1, Normal(R0)).String(),
		Add(AL, false, R2, R0, MustImm8r(4)).String(),
	), asmLinesLdrEquals(R0, fmtLabel), asmLines(
		Branch(AL, true, "printf").String(),
		Mov(AL, R0, MustImm8r(0)).String(),
		Branch(AL, true, "fflush").String(),
		Bx(AL, LR).String(),
	))
}

func bodyPrintInt(pool *StringPool) asmfrag.Fragment {
	fmtLabel := pool.Intern("%d")
	return asmfrag.Concat(asmLines(
		Label(string(PPrintInt)),
		Mov(AL, R1, RegOp2(R0)).String(),
	), asmLinesLdrEquals(R0, fmtLabel), asmLines(
		Branch(AL, true, "printf").String(),
		Mov(AL, R0, MustImm8r(0)).String(),
		Branch(AL, true, "fflush").String(),
		Bx(AL, LR).String(),
	))
}

func bodyPrintBool(pool *StringPool) asmfrag.Fragment {
	trueLabel := pool.Intern("true")
	falseLabel := pool.Intern("false")
	body := asmLines(Label(string(PPrintBool)), Cmp(R0, MustImm8r(0)).String())
	body = asmfrag.Concat(body, asmLinesLdrEquals(R0, falseLabel, EQ))
	body = asmfrag.Concat(body, asmLinesLdrEquals(R0, trueLabel, NE))
	return asmfrag.Concat(body, asmLines(
		Branch(AL, true, string(PPrintString)).String(),
		Bx(AL, LR).String(),
	))
}

func bodyPrintChar(_ *StringPool) asmfrag.Fragment {
	return asmLines(
		Label(string(PPrintChar)),
		Branch(AL, true, "putchar").String(),
		Bx(AL, LR).String(),
	)
}

func bodyPrintReference(pool *StringPool) asmfrag.Fragment {
	fmtLabel := pool.Intern("%p")
	return asmfrag.Concat(asmLines(
		Label(string(PPrintReference)),
		Mov(AL, R1, RegOp2(R0)).String(),
	), asmLinesLdrEquals(R0, fmtLabel), asmLines(
		Branch(AL, true, "printf").String(),
		Mov(AL, R0, MustImm8r(0)).String(),
		Branch(AL, true, "fflush").String(),
		Bx(AL, LR).String(),
	))
}

func bodyPrintLn(pool *StringPool) asmfrag.Fragment {
	emptyLabel := pool.Intern("")
	return asmfrag.Concat(asmLines(Label(string(PPrintLn))), asmLinesLdrEquals(R0, emptyLabel), asmLines(
		Branch(AL, true, "puts").String(),
		Mov(AL, R0, MustImm8r(0)).String(),
		Branch(AL, true, "fflush").String(),
		Bx(AL, LR).String(),
	))
}

func bodyReadInt(pool *StringPool) asmfrag.Fragment {
	fmtLabel := pool.Intern("%d")
	return asmfrag.Concat(asmLines(
		Label(string(PReadInt)),
		Mov(AL, R1, RegOp2(R0)).String(),
	), asmLinesLdrEquals(R0, fmtLabel), asmLines(
		Branch(AL, true, "scanf").String(),
		Bx(AL, LR).String(),
	))
}

func bodyReadChar(pool *StringPool) asmfrag.Fragment {
	fmtLabel := pool.Intern(" %c")
	return asmfrag.Concat(asmLines(
		Label(string(PReadChar)),
		Mov(AL, R1, RegOp2(R0)).String(),
	), asmLinesLdrEquals(R0, fmtLabel), asmLines(
		Branch(AL, true, "scanf").String(),
		Bx(AL, LR).String(),
	))
}

func bodyThrowRuntimeError(_ *StringPool) asmfrag.Fragment {
	return asmLines(
		Label(string(PThrowRuntimeError)),
		Branch(AL, true, string(PPrintString)).String(),
		Mov(AL, R0, MustImm8r(255)).String(),
		Branch(AL, true, "exit").String(),
	)
}

func bodyThrowOverflowError(pool *StringPool) asmfrag.Fragment {
	msgLabel := pool.Intern("OverflowError: the result is too small/large to store in a 4-byte signed-integer.\n")
	return asmfrag.Concat(asmLines(Label(string(PThrowOverflowError))), asmLinesLdrEquals(R0, msgLabel), asmLines(
		Branch(AL, true, string(PThrowRuntimeError)).String(),
	))
}

func bodyCheckDivideByZero(pool *StringPool) asmfrag.Fragment {
	msgLabel := pool.Intern("DivideByZeroError: divide or modulo by zero\n")
	body := asmLines(Label(string(PCheckDivideByZero)), Cmp(R1, MustImm8r(0)).String())
	body = asmfrag.Concat(body, asmLinesLdrEquals(R0, msgLabel, EQ))
	return asmfrag.Concat(body, asmLines(
		Branch(EQ, true, string(PThrowRuntimeError)).String(),
		Bx(AL, LR).String(),
	))
}

func bodyCheckArrayBounds(pool *StringPool) asmfrag.Fragment {
	negLabel := pool.Intern("ArrayIndexOutOfBoundsError: negative index\n")
	largeLabel := pool.Intern("ArrayIndexOutOfBoundsError: index too large\n")
	body := asmLines(Label(string(PCheckArrayBounds)), Cmp(R0, MustImm8r(0)).String())
	body = asmfrag.Concat(body, asmLinesLdrEquals(R0, negLabel, LT))
	body = asmfrag.Concat(body, asmLines(
		Branch(LT, true, string(PThrowRuntimeError)).String(),
		Ldr(AL, R1, Normal(R1)).String(),
		Cmp(R0, RegOp2(R1)).String(),
	))
	body = asmfrag.Concat(body, asmLinesLdrEquals(R0, largeLabel, CS))
	return asmfrag.Concat(body, asmLines(
		Branch(CS, true, string(PThrowRuntimeError)).String(),
		Bx(AL, LR).String(),
	))
}

func bodyCheckNullPointer(pool *StringPool) asmfrag.Fragment {
	msgLabel := pool.Intern("NullReferenceError: dereference a null reference\n")
	body := asmLines(Label(string(PCheckNullPointer)), Cmp(R0, MustImm8r(0)).String())
	body = asmfrag.Concat(body, asmLinesLdrEquals(R0, msgLabel, EQ))
	return asmfrag.Concat(body, asmLines(
		Branch(EQ, true, string(PThrowRuntimeError)).String(),
		Bx(AL, LR).String(),
	))
}

func bodyFreePair(_ *StringPool) asmfrag.Fragment {
	return asmLines(
		Label(string(PFreePair)),
		Branch(AL, true, string(PCheckNullPointer)).String(),
		Push(R0).String(),
		Ldr(AL, R0, Normal(R0)).String(),
		Branch(AL, true, "free").String(),
		Ldr(AL, R0, Normal(SP)).String(),
		Ldr(AL, R0, NormalImm(R0, '+', 4)).String(),
		Branch(AL, true, "free").String(),
		Pop(R0).String(),
		Branch(AL, true, "free").String(),
		Bx(AL, LR).String(),
	)
}

// asmLinesLdrEquals renders a single `LDR rd, =label` line, optionally
// conditioned (used for the LDREQ/LDRNE/LDRLT/LDRCS error-path loads).
func asmLinesLdrEquals(rd Reg, label string, cond ...Cond) asmfrag.Fragment {
	c := AL
	if len(cond) > 0 {
		c = cond[0]
	}
	return asmLines(Ldr(c, rd, LitLabel(label)).String())
}
