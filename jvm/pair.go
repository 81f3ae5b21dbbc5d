package jvm

// PairClassSource is the synthetic wacc/lang/Pair class every program
// using pairs links against, emitted once regardless of how many pair
// types the program declares (spec.md §4.5: "one Pair sibling class").
// Both fields are Object so a single class serves every pair(A, B)
// instantiation; callers box/unbox around field access.
const PairClassSource = `.class public wacc/lang/Pair
.super java/lang/Object

.field public fst Ljava/lang/Object;
.field public snd Ljava/lang/Object;

.method public <init>()V
	aload_0
	invokespecial java/lang/Object/<init>()V
	return
.end method
`
