package driver

import (
	"encoding/json"

	"waccc/ast"
	"waccc/symtab"
	"waccc/wkerr"
)

// DecodeProgram parses the JSON-serialised ast.Program the upstream
// front end hands the core (spec.md §1: "a validated Program value";
// §6 [EXPANDED]: JSON is the wire format cmd/waccc reads). The wire
// shape below is a plain tagged-union tree; converting it re-runs the
// ast package's constructors so Type/Weight are computed the same way
// as when tests build an ast.Program by hand, rather than trusting
// untrusted precomputed fields from the wire.
func DecodeProgram(data []byte) (*ast.Program, *wkerr.Error) {
	var w wireProgram
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, wkerr.Internal("driver.DecodeProgram", "invalid JSON: %v", err)
	}
	d := &decoder{vars: map[string]*ast.Variable{}, env: symtab.NewEnv()}
	return d.program(w), d.err
}

type wireType struct {
	Kind  string    `json:"kind"`
	Elem  *wireType `json:"elem,omitempty"`
	Depth int       `json:"depth,omitempty"`
	Fst   *wireType `json:"fst,omitempty"`
	Snd   *wireType `json:"snd,omitempty"`
}

type wireVariable struct {
	Name string   `json:"name"`
	Ty   wireType `json:"type"`
}

type wireExpr struct {
	Kind       string      `json:"kind"`
	IntVal     int32       `json:"intVal,omitempty"`
	BoolVal    bool        `json:"boolVal,omitempty"`
	CharVal    byte        `json:"charVal,omitempty"`
	StrVal     string      `json:"strVal,omitempty"`
	Var        string      `json:"var,omitempty"`
	Indices    []*wireExpr `json:"indices,omitempty"`
	Op         string      `json:"op,omitempty"`
	X          *wireExpr   `json:"x,omitempty"`
	Y          *wireExpr   `json:"y,omitempty"`
	ResultType *wireType   `json:"resultType,omitempty"`
}

type wireLHS struct {
	Kind    string      `json:"kind"`
	Var     string      `json:"var,omitempty"`
	Indices []*wireExpr `json:"indices,omitempty"`
	Pair    *wireExpr   `json:"pair,omitempty"`
	Ty      *wireType   `json:"type,omitempty"`
}

type wireRHS struct {
	Kind      string      `json:"kind"`
	Expr      *wireExpr   `json:"expr,omitempty"`
	Elems     []*wireExpr `json:"elems,omitempty"`
	ElemType  *wireType   `json:"elemType,omitempty"`
	Fst       *wireExpr   `json:"fst,omitempty"`
	Snd       *wireExpr   `json:"snd,omitempty"`
	FuncName  string      `json:"funcName,omitempty"`
	Args      []*wireExpr `json:"args,omitempty"`
	RetType   *wireType   `json:"retType,omitempty"`
	PairExpr  *wireExpr   `json:"pairExpr,omitempty"`
	IsFst     bool        `json:"isFst,omitempty"`
	FieldType *wireType   `json:"fieldType,omitempty"`
}

type wireStmt struct {
	Kind     string        `json:"kind"`
	Var      *wireVariable `json:"var,omitempty"`
	LHS      *wireLHS      `json:"lhs,omitempty"`
	RHS      *wireRHS      `json:"rhs,omitempty"`
	Expr     *wireExpr     `json:"expr,omitempty"`
	Newline  bool          `json:"newline,omitempty"`
	Cond     *wireExpr     `json:"cond,omitempty"`
	Then     *wireStmt     `json:"then,omitempty"`
	Else     *wireStmt     `json:"else,omitempty"`
	Body     *wireStmt     `json:"body,omitempty"`
	Stmts    []*wireStmt   `json:"stmts,omitempty"`
	CallName string        `json:"callName,omitempty"`
	CallArgs []*wireExpr   `json:"callArgs,omitempty"`
}

type wireFunc struct {
	Name    string         `json:"name"`
	Params  []wireVariable `json:"params"`
	RetType wireType       `json:"retType"`
	Body    wireStmt       `json:"body"`
}

type wireProgram struct {
	Funcs []wireFunc `json:"funcs"`
	Main  wireStmt   `json:"main"`
}

// decoder threads a name->Variable table so every reference to the same
// declared identifier resolves to the same *ast.Variable pointer, which
// both symtab offset assignment and the jvm backend's slot table depend
// on for identity (spec.md §3: "Variable ... construction always
// happens through symtab.Declare"). env and scope mirror the ARM
// backend's own per-block scoping (arm/stmt.go's genBlock): every
// "block" wire node pre-scans its direct decls, enters a scope sized
// for them, and declares each local through it in order, so decoded
// locals land at distinct LocalStorage offsets rather than all
// colliding on the zero-value Store.
type decoder struct {
	vars  map[string]*ast.Variable
	env   *symtab.Env
	scope *symtab.Scope
	err   *wkerr.Error
}

func (d *decoder) fail(where, format string, args ...any) {
	if d.err == nil {
		d.err = wkerr.Internal(where, format, args...)
	}
}

func (d *decoder) program(w wireProgram) *ast.Program {
	prog := &ast.Program{Main: d.stmt(&w.Main)}
	for i := range w.Funcs {
		prog.Funcs = append(prog.Funcs, d.fn(w.Funcs[i]))
	}
	return prog
}

func (d *decoder) fn(w wireFunc) *ast.Func {
	fn := &ast.Func{Name: w.Name, RetType: d.typ(w.RetType)}
	for _, p := range w.Params {
		v := &ast.Variable{Name: p.Name, Ty: d.typ(p.Ty), Store: ast.Storage{Kind: ast.ParamStorage}}
		d.vars[p.Name] = v
		fn.Params = append(fn.Params, v)
	}
	fn.Body = d.stmt(&w.Body)
	return fn
}

func (d *decoder) typ(w wireType) ast.Type {
	switch w.Kind {
	case "int":
		return ast.Int
	case "bool":
		return ast.Bool
	case "char":
		return ast.Char
	case "string":
		return ast.String
	case "array":
		return ast.NewArray(d.typ(*w.Elem), w.Depth)
	case "anyArray":
		return ast.AnyArray
	case "pair":
		return ast.NewPair(d.typ(*w.Fst), d.typ(*w.Snd))
	case "anyPair":
		return ast.AnyPair
	}
	d.fail("driver.decodeType", "unknown type kind %q", w.Kind)
	return ast.Int
}

func (d *decoder) variable(name string) *ast.Variable {
	if v, ok := d.vars[name]; ok {
		return v
	}
	d.fail("driver.decodeExpr", "reference to undeclared variable %q", name)
	return &ast.Variable{Name: name, Ty: ast.Int}
}

func (d *decoder) op(s string) ast.Op {
	m := map[string]ast.Op{
		"!": ast.NotUO, "neg": ast.NegUO, "len": ast.LenUO, "ord": ast.OrdUO, "chr": ast.ChrUO,
		"*": ast.MulBO, "/": ast.DivBO, "%": ast.ModBO, "+": ast.AddBO, "-": ast.SubBO,
		">": ast.GtBO, ">=": ast.GeBO, "<": ast.LtBO, "<=": ast.LeBO,
		"==": ast.EqBO, "!=": ast.NeBO, "&&": ast.AndBO, "||": ast.OrBO,
	}
	if op, ok := m[s]; ok {
		return op
	}
	d.fail("driver.decodeOp", "unknown operator %q", s)
	return ast.InvalidOp
}

func (d *decoder) expr(w *wireExpr) *ast.Expr {
	if w == nil {
		return nil
	}
	switch w.Kind {
	case "intLit":
		return ast.NewIntLit(w.IntVal)
	case "boolLit":
		return ast.NewBoolLit(w.BoolVal)
	case "charLit":
		return ast.NewCharLit(w.CharVal)
	case "strLit":
		return ast.NewStrLit(w.StrVal)
	case "nullPairLit":
		return ast.NewNullPairLit()
	case "ident":
		return ast.NewIdentExpr(d.variable(w.Var))
	case "arrayElem":
		var indices []*ast.Expr
		for _, i := range w.Indices {
			indices = append(indices, d.expr(i))
		}
		rt := ast.Int
		if w.ResultType != nil {
			rt = d.typ(*w.ResultType)
		}
		return ast.NewArrayElemExpr(d.variable(w.Var), indices, rt)
	case "unary":
		return ast.NewUnaryOperExpr(d.op(w.Op), d.expr(w.X))
	case "binary":
		return ast.NewBinaryOperExpr(d.op(w.Op), d.expr(w.X), d.expr(w.Y))
	}
	d.fail("driver.decodeExpr", "unknown expr kind %q", w.Kind)
	return ast.NewIntLit(0)
}

func (d *decoder) lhs(w *wireLHS) ast.LHS {
	switch w.Kind {
	case "ident":
		return ast.NewIdentLHS(d.variable(w.Var))
	case "arrayElem":
		var indices []*ast.Expr
		for _, i := range w.Indices {
			indices = append(indices, d.expr(i))
		}
		return ast.NewArrayElemLHS(d.variable(w.Var), indices, d.typ(*w.Ty))
	case "pairFst":
		return ast.NewPairFstLHS(d.expr(w.Pair), d.typ(*w.Ty))
	case "pairSnd":
		return ast.NewPairSndLHS(d.expr(w.Pair), d.typ(*w.Ty))
	}
	d.fail("driver.decodeLHS", "unknown LHS kind %q", w.Kind)
	return ast.LHS{}
}

func (d *decoder) rhs(w *wireRHS) ast.RHS {
	switch w.Kind {
	case "expr":
		return ast.NewExprRHS(d.expr(w.Expr))
	case "arrayLit":
		var elems []*ast.Expr
		for _, e := range w.Elems {
			elems = append(elems, d.expr(e))
		}
		elemTy := d.typ(*w.ElemType)
		arrTy := ast.NewArray(elemTy, 1)
		if elemTy.Kind == ast.ArrayT {
			arrTy = ast.NewArray(*elemTy.Elem, elemTy.Depth+1)
		}
		return ast.NewArrayLitRHS(elems, arrTy)
	case "newPair":
		return ast.NewNewPairRHS(d.expr(w.Fst), d.expr(w.Snd))
	case "call":
		var args []*ast.Expr
		for _, a := range w.Args {
			args = append(args, d.expr(a))
		}
		return ast.NewCallRHS(w.FuncName, args, d.typ(*w.RetType))
	case "pairElem":
		return ast.NewPairElemRHS(d.expr(w.PairExpr), w.IsFst, d.typ(*w.FieldType))
	}
	d.fail("driver.decodeRHS", "unknown RHS kind %q", w.Kind)
	return ast.RHS{}
}

func (d *decoder) stmt(w *wireStmt) *ast.Stmt {
	if w == nil {
		return nil
	}
	switch w.Kind {
	case "skip":
		return ast.NewSkip()
	case "decl":
		ty := d.typ(w.Var.Ty)
		var v *ast.Variable
		if d.scope != nil {
			v = d.scope.Declare(w.Var.Name, ty)
		} else {
			v = &ast.Variable{Name: w.Var.Name, Ty: ty}
		}
		rhs := d.rhs(w.RHS)
		d.vars[v.Name] = v
		return ast.NewDecl(v, rhs)
	case "assign":
		return ast.NewAssign(d.lhs(w.LHS), d.rhs(w.RHS))
	case "read":
		return ast.NewRead(d.lhs(w.LHS))
	case "free":
		return ast.NewFree(d.expr(w.Expr))
	case "return":
		return ast.NewReturn(d.expr(w.Expr))
	case "exit":
		return ast.NewExit(d.expr(w.Expr))
	case "print":
		return ast.NewPrint(d.expr(w.Expr), w.Newline)
	case "if":
		return ast.NewIf(d.expr(w.Cond), d.stmt(w.Then), d.stmt(w.Else))
	case "while":
		return ast.NewWhile(d.expr(w.Cond), d.stmt(w.Body))
	case "block":
		size := 0
		for _, s := range w.Stmts {
			if s.Kind == "decl" {
				size += d.typ(s.Var.Ty).Size()
			}
		}
		scope := d.env.EnterScope(size)
		prevScope := d.scope
		d.scope = scope
		var stmts []*ast.Stmt
		for _, s := range w.Stmts {
			stmts = append(stmts, d.stmt(s))
		}
		d.scope = prevScope
		d.env.ExitScope(scope)
		return ast.NewBlock(stmts)
	case "call":
		var args []*ast.Expr
		for _, a := range w.CallArgs {
			args = append(args, d.expr(a))
		}
		return ast.NewCall(w.CallName, args)
	}
	d.fail("driver.decodeStmt", "unknown stmt kind %q", w.Kind)
	return ast.NewSkip()
}
