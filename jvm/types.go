// Package jvm is the JVM (Jasmin-assembly-text) backend: a second, much
// simpler lowering from the same ast.Program, generalised from the
// teacher's x86_64 opcode-enum stub (backend/x86_64/x86_64.go, a second
// ISA sketch alongside the primary amd64 backend) and the closed-enum
// pattern from frontend/enums/*.
package jvm

import "waccc/ast"

// Descriptor returns the JVM type descriptor for t (spec.md §3: "I | Z |
// C | V | [T | Lclassname;").
func Descriptor(t ast.Type) string {
	switch t.Kind {
	case ast.IntT:
		return "I"
	case ast.BoolT:
		return "Z"
	case ast.CharT:
		return "C"
	case ast.StringT:
		return "Ljava/lang/String;"
	case ast.ArrayT:
		d := ""
		for i := 0; i < t.Depth; i++ {
			d += "["
		}
		return d + Descriptor(*t.Elem)
	case ast.AnyArrayT:
		return "[Ljava/lang/Object;"
	case ast.PairT, ast.AnyPairT:
		return "Lwacc/lang/Pair;"
	}
	panic("jvm: Descriptor: invalid type")
}

// IsPrimitive reports whether t's JVM representation is a primitive
// (int/boolean/char) rather than a reference type.
func IsPrimitive(t ast.Type) bool {
	switch t.Kind {
	case ast.IntT, ast.BoolT, ast.CharT:
		return true
	}
	return false
}

// BoxedClass is the java.lang wrapper class used when a primitive value
// must be stored in an Object-typed slot (spec.md §4.5: "to_boxed around
// Object-typed array/pair slots"), i.e. every Pair field.
func BoxedClass(t ast.Type) string {
	switch t.Kind {
	case ast.IntT:
		return "java/lang/Integer"
	case ast.BoolT:
		return "java/lang/Boolean"
	case ast.CharT:
		return "java/lang/Character"
	}
	panic("jvm: BoxedClass: not a primitive type")
}

// ToBoxedInstr returns the invokestatic instruction that boxes the value
// on top of the operand stack from its primitive descriptor to its
// wrapper class (e.g. "invokestatic java/lang/Integer/valueOf(I)Ljava/lang/Integer;").
func ToBoxedInstr(t ast.Type) string {
	cls := BoxedClass(t)
	return "invokestatic " + cls + "/valueOf(" + Descriptor(t) + ")L" + cls + ";"
}

// ToPrimitiveInstr returns the invokevirtual instruction that unboxes an
// Object known to hold t's wrapper class back to the primitive value
// (e.g. "invokevirtual java/lang/Integer/intValue()I").
func ToPrimitiveInstr(t ast.Type) string {
	cls := BoxedClass(t)
	method := map[string]string{
		"java/lang/Integer":   "intValue()I",
		"java/lang/Boolean":   "booleanValue()Z",
		"java/lang/Character": "charValue()C",
	}[cls]
	return "invokevirtual " + cls + "/" + method
}
