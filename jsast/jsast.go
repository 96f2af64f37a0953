// Copyright © 2024 The ELPS authors

// Package jsast defines the JavaScript intermediate representation produced
// by the translator.  Every construct is a distinct Go type implementing
// Node.  Sequences of nodes are plain slices and their order is execution
// order.
package jsast

import (
	"strings"
)

// Node is an element of the output tree.
type Node interface {
	jsNode()
}

// Require is a namespace dependency recorded by a Namespace declaration.
type Require struct {
	Namespace string
	Alias     string
}

// Namespace declares the compilation unit's namespace.
type Namespace struct {
	Name     Node
	Requires []Require
}

// VarDecl binds Name to the value of Init.
type VarDecl struct {
	Name string
	Init Node
}

// FuncDecl is a named function declaration.  Params hold *Ident or *Rest
// values.
type FuncDecl struct {
	Name   string
	Params []Node
	Body   []Node
}

// FuncExpr is an anonymous function literal.  Name is optional.
type FuncExpr struct {
	Name   string
	Params []Node
	Body   []Node
}

// Assign stores Value in Target.
type Assign struct {
	Target Node
	Value  Node
}

// If is a conditional.  Else may be empty.
type If struct {
	Test Node
	Then []Node
	Else []Node
}

// Compare is a binary comparison using the JavaScript operator Op.
type Compare struct {
	Op    string
	Left  Node
	Right Node
}

// Arith is a binary arithmetic expression using the JavaScript operator Op.
type Arith struct {
	Op    string
	Left  Node
	Right Node
}

// Call invokes Callee with Args.
type Call struct {
	Callee Node
	Args   []Node
}

// Member accesses Property of Object.
type Member struct {
	Object   Node
	Property string
}

// New constructs an instance of Class.
type New struct {
	Class Node
	Args  []Node
}

// Array is an array literal.
type Array struct {
	Elems []Node
}

// Ident references a variable by name.
type Ident struct {
	Name string
}

// String is a string literal.
type String struct {
	Value string
}

// Number is a numeric literal.  Raw holds the source spelling when known.
type Number struct {
	Value float64
	Raw   string
}

// Bool is a boolean literal.
type Bool struct {
	Value bool
}

// Null is the null literal.
type Null struct{}

// Block is a lexical scope.
type Block struct {
	Body []Node
}

// Loop repeats Body until control leaves it.  Slots name the loop variables
// addressed by Slot nodes inside Body, in declaration order.
type Loop struct {
	Slots []string
	Body  []Node
}

// Continue returns control to the top of the innermost Loop.
type Continue struct{}

// Slot references the loop variable at Index of the innermost Loop.
type Slot struct {
	Index int
}

// Rest is a rest parameter.
type Rest struct {
	Param *Ident
}

func (*Namespace) jsNode() {}
func (*VarDecl) jsNode()   {}
func (*FuncDecl) jsNode()  {}
func (*FuncExpr) jsNode()  {}
func (*Assign) jsNode()    {}
func (*If) jsNode()        {}
func (*Compare) jsNode()   {}
func (*Arith) jsNode()     {}
func (*Call) jsNode()      {}
func (*Member) jsNode()    {}
func (*New) jsNode()       {}
func (*Array) jsNode()     {}
func (*Ident) jsNode()     {}
func (*String) jsNode()    {}
func (*Number) jsNode()    {}
func (*Bool) jsNode()      {}
func (*Null) jsNode()      {}
func (*Block) jsNode()     {}
func (*Loop) jsNode()      {}
func (*Continue) jsNode()  {}
func (*Slot) jsNode()      {}
func (*Rest) jsNode()      {}

// IsStatement reports whether n can only appear in statement position.
func IsStatement(n Node) bool {
	switch n.(type) {
	case *Namespace, *VarDecl, *FuncDecl, *If, *Block, *Loop, *Continue:
		return true
	default:
		return false
	}
}

// Path returns the member access chain for a dotted name such as
// "cljs.core.deref".
func Path(dotted string) Node {
	parts := strings.Split(dotted, ".")
	var n Node = &Ident{Name: parts[0]}
	for _, p := range parts[1:] {
		n = &Member{Object: n, Property: p}
	}
	return n
}

// NewIdent returns an identifier reference.
func NewIdent(name string) *Ident {
	return &Ident{Name: name}
}

// NewString returns a string literal.
func NewString(s string) *String {
	return &String{Value: s}
}

// NewNumber returns a numeric literal without source spelling.
func NewNumber(x float64) *Number {
	return &Number{Value: x}
}

// NewBool returns a boolean literal.
func NewBool(b bool) *Bool {
	return &Bool{Value: b}
}

// NewCall returns a call of callee.
func NewCall(callee Node, args ...Node) *Call {
	return &Call{Callee: callee, Args: args}
}

// IIFE wraps body in an immediately invoked function so that a statement
// sequence can be used as an expression.
func IIFE(body []Node) *Call {
	return &Call{Callee: &FuncExpr{Body: body}}
}
