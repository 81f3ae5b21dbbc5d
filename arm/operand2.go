package arm

import (
	"fmt"
	"math/bits"
)

// Operand2 is an ARM data-processing second operand: either a register
// or an 8-bit value rotated right by an even amount (spec.md §3:
// "Immed_8r(value, rotation) with value in [0,255], rotation in
// {0,2,...,30}").
type Operand2 struct {
	IsImm bool
	Value uint8
	Rot   uint8
	Reg   Reg
}

func RegOp2(r Reg) Operand2 { return Operand2{Reg: r} }

// Imm8r searches for an (value, rotation) pair such that
// ROR(value, rotation) == uint32(n), returning ok=false when n has no
// such encoding (the caller must then fall back to LDR =n via the
// literal pool, spec.md §4.2).
func Imm8r(n int32) (Operand2, bool) {
	u := uint32(n)
	for rot := uint8(0); rot < 32; rot += 2 {
		v := bits.RotateLeft32(u, int(rot))
		if v <= 0xFF {
			return Operand2{IsImm: true, Value: uint8(v), Rot: rot}, true
		}
	}
	return Operand2{}, false
}

// MustImm8r panics if n has no rotated-immediate encoding; used where
// the caller has already guaranteed a small constant (e.g. #0, #1).
func MustImm8r(n int32) Operand2 {
	op, ok := Imm8r(n)
	if !ok {
		panic(fmt.Sprintf("arm: %d has no Operand2 immediate encoding", n))
	}
	return op
}

// Decoded reconstructs the 32-bit value this immediate represents:
// ROR(value, rotation), rotating right by `rotation` bits.
func (o Operand2) Decoded() uint32 {
	return bits.RotateLeft32(uint32(o.Value), -int(o.Rot))
}

func (o Operand2) String() string {
	if o.IsImm {
		return fmt.Sprintf("#%d", o.Decoded())
	}
	return o.Reg.String()
}
