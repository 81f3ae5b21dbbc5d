package jvm

import (
	"testing"

	"github.com/nalgeon/be"

	"waccc/ast"
)

func TestDescriptorPrimitives(t *testing.T) {
	be.Equal(t, Descriptor(ast.Int), "I")
	be.Equal(t, Descriptor(ast.Bool), "Z")
	be.Equal(t, Descriptor(ast.Char), "C")
	be.Equal(t, Descriptor(ast.String), "Ljava/lang/String;")
}

func TestDescriptorArrayNesting(t *testing.T) {
	be.Equal(t, Descriptor(ast.NewArray(ast.Int, 1)), "[I")
	be.Equal(t, Descriptor(ast.NewArray(ast.Int, 2)), "[[I")
}

func TestDescriptorPair(t *testing.T) {
	be.Equal(t, Descriptor(ast.NewPair(ast.Int, ast.Bool)), "Lwacc/lang/Pair;")
}

func TestBoxUnboxRoundTrip(t *testing.T) {
	be.Equal(t, ToBoxedInstr(ast.Int), "invokestatic java/lang/Integer/valueOf(I)Ljava/lang/Integer;")
	be.Equal(t, ToPrimitiveInstr(ast.Int), "invokevirtual java/lang/Integer/intValue()I")
}

func TestIsPrimitive(t *testing.T) {
	be.True(t, IsPrimitive(ast.Int))
	be.True(t, !IsPrimitive(ast.String))
}
