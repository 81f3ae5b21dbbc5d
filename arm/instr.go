package arm

import "strings"

// Instr is one rendered ARM instruction line: mnemonic, optional
// condition suffix, optional S-bit, and a fixed operand list. Modelled on
// the teacher's amd64Instr text-builder (backend/amd64/amd64.go,
// src/amd64/amd64.go), generalised from a two-operand AT&T mnemonic to
// ARM's N-ary GAS operand lists and condition-code suffixes.
type Instr struct {
	Op       string
	Cond     Cond
	S        bool
	Operands []string
}

func (i Instr) String() string {
	mnemonic := i.Op + i.Cond.String()
	if i.S {
		mnemonic += "S"
	}
	if len(i.Operands) == 0 {
		return "\t" + mnemonic
	}
	return "\t" + mnemonic + "\t" + strings.Join(i.Operands, ", ")
}

func reg(r Reg) string { return r.String() }

func Mov(cond Cond, rd Reg, src Operand2) Instr {
	return Instr{Op: "MOV", Cond: cond, Operands: []string{reg(rd), src.String()}}
}

func Mvn(cond Cond, rd Reg, src Operand2) Instr {
	return Instr{Op: "MVN", Cond: cond, Operands: []string{reg(rd), src.String()}}
}

func Add(cond Cond, s bool, rd, rn Reg, op2 Operand2) Instr {
	return Instr{Op: "ADD", Cond: cond, S: s, Operands: []string{reg(rd), reg(rn), op2.String()}}
}

func Sub(cond Cond, s bool, rd, rn Reg, op2 Operand2) Instr {
	return Instr{Op: "SUB", Cond: cond, S: s, Operands: []string{reg(rd), reg(rn), op2.String()}}
}

func Rsb(cond Cond, s bool, rd, rn Reg, op2 Operand2) Instr {
	return Instr{Op: "RSB", Cond: cond, S: s, Operands: []string{reg(rd), reg(rn), op2.String()}}
}

// Mul never supports Operand2 as its third operand on real hardware; the
// multiplicand must be a register (spec.md §4.2: "MUL does not accept an
// Operand2 — both sources must already be in registers").
func Mul(cond Cond, s bool, rd, rm, rs Reg) Instr {
	return Instr{Op: "MUL", Cond: cond, S: s, Operands: []string{reg(rd), reg(rm), reg(rs)}}
}

func And(cond Cond, rd, rn Reg, op2 Operand2) Instr {
	return Instr{Op: "AND", Cond: cond, Operands: []string{reg(rd), reg(rn), op2.String()}}
}

func Orr(cond Cond, rd, rn Reg, op2 Operand2) Instr {
	return Instr{Op: "ORR", Cond: cond, Operands: []string{reg(rd), reg(rn), op2.String()}}
}

func Eor(cond Cond, rd, rn Reg, op2 Operand2) Instr {
	return Instr{Op: "EOR", Cond: cond, Operands: []string{reg(rd), reg(rn), op2.String()}}
}

func Cmp(rn Reg, op2 Operand2) Instr {
	return Instr{Op: "CMP", Operands: []string{reg(rn), op2.String()}}
}

func Ldr(cond Cond, rd Reg, addr Addr) Instr {
	return Instr{Op: "LDR", Cond: cond, Operands: []string{reg(rd), addr.String()}}
}

func LdrB(cond Cond, rd Reg, addr Addr) Instr {
	return Instr{Op: "LDRB", Cond: cond, Operands: []string{reg(rd), addr.String()}}
}

func LdrSB(cond Cond, rd Reg, addr Addr) Instr {
	return Instr{Op: "LDRSB", Cond: cond, Operands: []string{reg(rd), addr.String()}}
}

func Str(cond Cond, rd Reg, addr Addr) Instr {
	return Instr{Op: "STR", Cond: cond, Operands: []string{reg(rd), addr.String()}}
}

func StrB(cond Cond, rd Reg, addr Addr) Instr {
	return Instr{Op: "STRB", Cond: cond, Operands: []string{reg(rd), addr.String()}}
}

func Push(regs ...Reg) Instr {
	return Instr{Op: "PUSH", Operands: []string{regListString(regs)}}
}

func Pop(regs ...Reg) Instr {
	return Instr{Op: "POP", Operands: []string{regListString(regs)}}
}

func regListString(regs []Reg) string {
	names := make([]string, len(regs))
	for i, r := range regs {
		names[i] = reg(r)
	}
	return "{" + strings.Join(names, ", ") + "}"
}

func Branch(cond Cond, link bool, label string) Instr {
	op := "B"
	if link {
		op = "BL"
	}
	return Instr{Op: op, Cond: cond, Operands: []string{label}}
}

func Bx(cond Cond, rm Reg) Instr {
	return Instr{Op: "BX", Cond: cond, Operands: []string{reg(rm)}}
}

func Label(name string) string { return name + ":" }
