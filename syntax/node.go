// Copyright © 2024 The ELPS authors

// Package syntax defines the tree produced by a reader and consumed by the
// translator.
//
// Composite nodes are binary.  An n-ary sequence of forms is encoded as a
// right-leaning chain of Forms nodes: each Forms node holds one form in Left
// and the remaining siblings in Right (nil at the end of the chain).
//
//	(f a b)  =>  List{Left: f, Right: Forms{a, Forms{b, nil}}}
//	[a b]    =>  Vector{Left: Forms{a, Forms{b, nil}}}
//	@x       =>  Macro{Left: Symbol("@"), Right: x}
//
// Atoms appearing as elements of a composite are boxed in a Leaf node.
package syntax

import (
	"io"
	"strconv"
	"strings"

	"github.com/luthersystems/cljs2js/parser/token"
)

// Kind is the type tag of a Node.
type Kind uint

// Possible Kind values.
const (
	// Invalid (0) is not a valid node kind.
	Invalid Kind = iota
	// Forms is a sequence of forms: Left is a form, Right the rest of the
	// sequence.
	Forms
	// List is a parenthesized form: Left is the head (nil for an empty list)
	// and Right is a Forms chain of arguments.
	List
	// Vector is a bracketed form: Left is a Forms chain of elements.
	Vector
	// Keyword stores its text, including the leading colon, in Str.
	Keyword
	// Symbol stores its name in Str.
	Symbol
	// String stores its unescaped value in Str.
	String
	// Number stores its value in Num and source text in Raw.
	Number
	// Boolean stores its value in Bool.
	Boolean
	// Leaf boxes one atom (Symbol, String, Number, Boolean) in Left.
	Leaf
	// Macro is a reader macro application: Left is the marker symbol and
	// Right the operand.
	Macro
	// KindMax is numerically greater than all valid kinds.
	KindMax
)

var kindStrings = []string{
	Invalid: "invalid",
	Forms:   "forms",
	List:    "list",
	Vector:  "vector",
	Keyword: "keyword",
	Symbol:  "symbol",
	String:  "string",
	Number:  "number",
	Boolean: "boolean",
	Leaf:    "leaf",
	Macro:   "macro",
}

func (k Kind) String() string {
	if k >= KindMax {
		return kindStrings[Invalid]
	}
	return kindStrings[k]
}

// Reader markers recognized in Macro nodes.
const (
	MarkerDeref    = "@"
	MarkerDispatch = "#"
	MarkerDiscard  = "#_"
)

// Node is a node in a syntax tree.
type Node struct {
	Kind   Kind
	Left   *Node
	Right  *Node
	Str    string
	Raw    string
	Num    float64
	Bool   bool
	Source *token.Location

	// Gensym marks a Symbol whose name was allocated by the compiler rather
	// than written in source.
	Gensym bool
}

// Reader parses source text into a single Forms tree.
type Reader interface {
	Read(name string, r io.Reader) (*Node, error)
}

// NewForms builds a Forms chain holding nodes in order.  NewForms returns nil
// when nodes is empty.
func NewForms(nodes ...*Node) *Node {
	var chain *Node
	for i := len(nodes) - 1; i >= 0; i-- {
		chain = &Node{Kind: Forms, Left: nodes[i], Right: chain, Source: nodes[i].Source}
	}
	return chain
}

// NewList returns a list with the given head and arguments.
func NewList(head *Node, args ...*Node) *Node {
	n := &Node{Kind: List, Left: head, Right: NewForms(args...)}
	if head != nil {
		n.Source = head.Source
	}
	return n
}

// NewVector returns a vector holding elems.
func NewVector(elems ...*Node) *Node {
	return &Node{Kind: Vector, Left: NewForms(elems...)}
}

// NewSymbol returns an unboxed symbol.
func NewSymbol(name string) *Node {
	return &Node{Kind: Symbol, Str: name}
}

// NewKeyword returns a keyword; text includes the leading colon.
func NewKeyword(text string) *Node {
	return &Node{Kind: Keyword, Str: text}
}

// NewString returns an unboxed string.
func NewString(s string) *Node {
	return &Node{Kind: String, Str: s}
}

// NewNumber returns an unboxed number.  raw is the source text of the literal.
func NewNumber(x float64, raw string) *Node {
	return &Node{Kind: Number, Num: x, Raw: raw}
}

// NewBoolean returns an unboxed boolean.
func NewBoolean(b bool) *Node {
	return &Node{Kind: Boolean, Bool: b}
}

// NewLeaf boxes atom.
func NewLeaf(atom *Node) *Node {
	return &Node{Kind: Leaf, Left: atom, Source: atom.Source}
}

// NewMacro returns a reader macro application.
func NewMacro(marker string, operand *Node) *Node {
	n := &Node{Kind: Macro, Left: NewSymbol(marker), Right: operand}
	if operand != nil {
		n.Source = operand.Source
	}
	return n
}

// Unbox returns the atom inside a Leaf, or n itself.
func Unbox(n *Node) *Node {
	if n != nil && n.Kind == Leaf {
		return n.Left
	}
	return n
}

// Elements flattens a Forms chain into a slice.
func Elements(chain *Node) []*Node {
	var nodes []*Node
	for ; chain != nil && chain.Kind == Forms; chain = chain.Right {
		nodes = append(nodes, chain.Left)
	}
	return nodes
}

// IsSymbol reports whether n is a (possibly boxed) symbol.
func IsSymbol(n *Node) bool {
	n = Unbox(n)
	return n != nil && n.Kind == Symbol
}

// String renders n in source syntax.
func (n *Node) String() string {
	var b strings.Builder
	n.write(&b)
	return b.String()
}

func (n *Node) write(b *strings.Builder) {
	if n == nil {
		b.WriteString("nil")
		return
	}
	switch n.Kind {
	case Forms:
		for i, c := range Elements(n) {
			if i > 0 {
				b.WriteByte(' ')
			}
			c.write(b)
		}
	case List:
		b.WriteByte('(')
		if n.Left != nil {
			n.Left.write(b)
		}
		if n.Right != nil {
			b.WriteByte(' ')
			n.Right.write(b)
		}
		b.WriteByte(')')
	case Vector:
		b.WriteByte('[')
		if n.Left != nil {
			n.Left.write(b)
		}
		b.WriteByte(']')
	case Keyword, Symbol:
		b.WriteString(n.Str)
	case String:
		b.WriteString(strconv.Quote(n.Str))
	case Number:
		if n.Raw != "" {
			b.WriteString(n.Raw)
		} else {
			b.WriteString(strconv.FormatFloat(n.Num, 'g', -1, 64))
		}
	case Boolean:
		b.WriteString(strconv.FormatBool(n.Bool))
	case Leaf:
		n.Left.write(b)
	case Macro:
		marker := ""
		if n.Left != nil {
			marker = n.Left.Str
		}
		b.WriteString(marker)
		n.Right.write(b)
	default:
		b.WriteString("#<invalid>")
	}
}
