package jvm

import (
	"fmt"
	"strconv"
)

// Instr builders render one Jasmin mnemonic line each. Modelled on
// arm/instr.go's constructor-per-opcode shape, retargeted to the JVM's
// stack-machine instruction set instead of ARM's register machine.

func Label(name string) string { return name + ":" }

func Bipush(n int32) string {
	if n >= -1 && n <= 5 {
		return iconstFor(n)
	}
	if n >= -128 && n <= 127 {
		return "\tbipush\t" + strconv.Itoa(int(n))
	}
	if n >= -32768 && n <= 32767 {
		return "\tsipush\t" + strconv.Itoa(int(n))
	}
	return "\tldc\t" + strconv.Itoa(int(n))
}

func iconstFor(n int32) string {
	if n == -1 {
		return "\ticonst_m1"
	}
	return "\ticonst_" + strconv.Itoa(int(n))
}

func LdcString(s string) string { return fmt.Sprintf("\tldc\t%q", s) }

func ILoad(slot int) string { return indexed("iload", slot) }
func ALoad(slot int) string { return indexed("aload", slot) }

func IStore(slot int) string { return indexed("istore", slot) }
func AStore(slot int) string { return indexed("astore", slot) }

func indexed(mnemonic string, slot int) string {
	if slot >= 0 && slot <= 3 {
		return "\t" + mnemonic + "_" + strconv.Itoa(slot)
	}
	return "\t" + mnemonic + "\t" + strconv.Itoa(slot)
}

func Goto(label string) string { return "\tgoto\t" + label }
func IfEq(label string) string { return "\tifeq\t" + label }
func IfNe(label string) string { return "\tifne\t" + label }

func InvokeStatic(sig string) string  { return "\tinvokestatic\t" + sig }
func InvokeVirtual(sig string) string { return "\tinvokevirtual\t" + sig }
func InvokeSpecial(sig string) string { return "\tinvokespecial\t" + sig }

func New(class string) string      { return "\tnew\t" + class }
func Dup() string                  { return "\tdup" }
func Pop() string                  { return "\tpop" }
func CheckCast(class string) string { return "\tcheckcast\t" + class }
func GetField(sig string) string   { return "\tgetfield\t" + sig }
func PutField(sig string) string   { return "\tputfield\t" + sig }

func IReturn() string { return "\tireturn" }
func AReturn() string { return "\tareturn" }
func Return() string  { return "\treturn" }

func NewArray(elemDescr string) string {
	switch elemDescr {
	case "I":
		return "\tnewarray\tint"
	case "Z":
		return "\tnewarray\tboolean"
	case "C":
		return "\tnewarray\tchar"
	default:
		return "\tanewarray\t" + elemDescr
	}
}

func ArrayLength() string { return "\tarraylength" }

func ArrayLoad(elemDescr string) string {
	switch elemDescr {
	case "I":
		return "\tiaload"
	case "Z", "C":
		return "\tbaload"
	default:
		return "\taaload"
	}
}

func ArrayStore(elemDescr string) string {
	switch elemDescr {
	case "I":
		return "\tiastore"
	case "Z", "C":
		return "\tbastore"
	default:
		return "\taastore"
	}
}

func IAdd() string { return "\tiadd" }
func ISub() string { return "\tisub" }
func IMul() string { return "\timul" }
func IDiv() string { return "\tidiv" }
func IRem() string { return "\tirem" }
func INeg() string { return "\tineg" }
func IXor() string { return "\tixor" }
