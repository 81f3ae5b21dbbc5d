package ast

// Func is a user-defined WACC function: fixed argument list, a single
// return type, and a body statement.
type Func struct {
	Name    string
	Params  []*Variable
	RetType Type
	Body    *Stmt
}

// Program is the root of the typed AST handed to the code-generation
// core (spec.md §6: "a Program value delivered by the upstream
// front-end"). Main is the top-level `begin ... end` body.
type Program struct {
	Funcs []*Func
	Main  *Stmt
}
