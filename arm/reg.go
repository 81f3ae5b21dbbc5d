// Package arm is the ARMv6/7 backend: instruction model, addressing
// modes, Sethi–Ullman-weighted expression lowering, statement lowering,
// the runtime-support generator and the data-section string pool. It is
// grounded on the teacher's amd64 backends (backend/amd64/amd64.go,
// src/amd64/amd64.go: text-emitting instruction model with a register
// bank and helper-procedure generators) and on
// backend/regalloc/regalloc.go for the shape of a register-allocation
// pass threaded through a free-register stack, generalised here from
// furthest-use spilling on a linear IR to Sethi–Ullman weights on the
// expression tree spec.md §4.2 describes.
package arm

import "strconv"

// Reg is a general-purpose ARM register, r0-r12, plus the three with
// architectural roles.
type Reg int

const (
	R0 Reg = iota
	R1
	R2
	R3
	R4
	R5
	R6
	R7
	R8
	R9
	R10
	R11 // fp
	R12 // ip
	SP
	LR
	PC
)

func (r Reg) String() string {
	switch r {
	case SP:
		return "sp"
	case LR:
		return "lr"
	case PC:
		return "pc"
	case R11:
		return "fp"
	case R12:
		return "ip"
	}
	return "r" + strconv.Itoa(int(r))
}

// GeneralPurpose is the free-register list available to expression
// codegen, in priority order (spec.md §9: "an ordered immutable
// sequence, not a set, because evaluation order depends on position").
// r0-r3 are caller-saved argument/scratch registers; we keep it to four
// plus Last to match the classic WACC reference compiler's four
// available working registers with one further reserved spill register.
var GeneralPurpose = []Reg{R4, R5, R6, R7}

// Last is the distinguished, reserved spill register used only by the
// one-register stack-machine fallback (spec.md §4.2, §9: "Reg.last (the
// reserved spill register) must be a distinguished constant").
const Last = R12

// RegList is the ordered, immutable free-register list threaded through
// expression codegen: (dest, rest...), dest being the output register.
type RegList []Reg

func (rl RegList) Dest() Reg   { return rl[0] }
func (rl RegList) Next() Reg   { return rl[1] }
func (rl RegList) Rest() RegList { return rl[1:] }
func (rl RegList) Len() int   { return len(rl) }

// DefaultRegList is the full free-register list available at the start
// of lowering an expression, sized to len(GeneralPurpose).
func DefaultRegList() RegList {
	out := make(RegList, len(GeneralPurpose))
	copy(out, GeneralPurpose)
	return out
}
