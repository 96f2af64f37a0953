// Copyright © 2024 The ELPS authors

// Package translate lowers syntax trees into the jsast representation of
// JavaScript.
//
// Translation is a single depth-first pass.  Every node translates to an
// ordered sequence of output nodes; forms such as and, or, if-let and loop
// produce several statements.  Where a single expression is required a
// multi-node result is wrapped in an immediately invoked function, relying on
// the printer's implicit return for function bodies.
package translate

import (
	"github.com/golang-collections/collections/stack"
	"github.com/luthersystems/cljs2js/gensym"
	"github.com/luthersystems/cljs2js/jsast"
	"github.com/luthersystems/cljs2js/syntax"
)

// DefaultRuntimeNamespace is the namespace of the runtime support library
// referenced by generated code.
const DefaultRuntimeNamespace = "cljs.core"

// Option configures a Translator.
type Option func(*Translator)

// WithRuntimeNamespace sets the namespace holding runtime functions and
// types such as not, deref, Keyword and PersistentVector.
func WithRuntimeNamespace(ns string) Option {
	return func(t *Translator) {
		t.runtime = ns
	}
}

// WithGenerator sets the generator used for synthetic names and vector
// identities.  By default the process-wide generator is used.
func WithGenerator(g *gensym.Generator) Option {
	return func(t *Translator) {
		t.gen = g
	}
}

// Translator converts syntax trees to jsast sequences.  A Translator is not
// safe for concurrent use.
type Translator struct {
	gen     *gensym.Generator
	runtime string

	// targets holds *recurTarget values.  Barrier entries mark positions
	// from which recur cannot reach the enclosing target.
	targets *stack.Stack

	// top is the scope of top-level definitions, shared by every form the
	// Translator lowers.  env is the innermost scope.
	top *scope
	env *scope
}

// New returns a Translator configured by opts.
func New(opts ...Option) *Translator {
	t := &Translator{
		gen:     gensym.Default(),
		runtime: DefaultRuntimeNamespace,
		targets: stack.New(),
		top:     newScope(nil, &frame{taken: make(map[string]bool)}),
	}
	t.env = t.top
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Translate lowers node and returns the resulting statements in execution
// order.  On error no partial output is returned.
func (t *Translator) Translate(node *syntax.Node) ([]jsast.Node, error) {
	t.targets = stack.New()
	t.env = t.top
	nodes, err := t.translate(node)
	if err != nil {
		return nil, err
	}
	return nodes, nil
}

func (t *Translator) translate(node *syntax.Node) ([]jsast.Node, error) {
	if node == nil {
		return nil, nil
	}
	switch node.Kind {
	case syntax.Forms:
		left, err := t.translate(node.Left)
		if err != nil {
			return nil, err
		}
		right, err := t.translate(node.Right)
		if err != nil {
			return nil, err
		}
		return append(left, right...), nil
	case syntax.Leaf:
		if node.Left == nil {
			return nil, newError(ErrUnknownNodeKind, node, "empty leaf")
		}
		return t.translate(node.Left)
	case syntax.Vector:
		v, err := t.vector(node)
		if err != nil {
			return nil, err
		}
		return []jsast.Node{v}, nil
	case syntax.Keyword:
		return []jsast.Node{t.keyword(node)}, nil
	case syntax.Symbol:
		return []jsast.Node{t.symbol(node)}, nil
	case syntax.String:
		return []jsast.Node{&jsast.String{Value: node.Str}}, nil
	case syntax.Number:
		return []jsast.Node{&jsast.Number{Value: node.Num, Raw: node.Raw}}, nil
	case syntax.Boolean:
		return []jsast.Node{&jsast.Bool{Value: node.Bool}}, nil
	case syntax.Macro:
		return t.macro(node)
	case syntax.List:
		return t.list(node)
	default:
		return nil, newError(ErrUnknownNodeKind, node, "cannot translate node of kind %d", uint(node.Kind))
	}
}

// expr translates node in a position that requires exactly one expression.
// recur cannot cross into an expression.
func (t *Translator) expr(node *syntax.Node) (jsast.Node, error) {
	t.pushBarrier()
	nodes, err := t.translate(node)
	t.popTarget()
	if err != nil {
		return nil, err
	}
	return t.asExpr(nodes), nil
}

func (t *Translator) asExpr(nodes []jsast.Node) jsast.Node {
	switch {
	case len(nodes) == 0:
		return &jsast.Null{}
	case len(nodes) == 1 && !jsast.IsStatement(nodes[0]):
		return nodes[0]
	default:
		return jsast.IIFE(nodes)
	}
}

// exprs translates each of nodes as an expression.  Tagged literals and
// other unsupported reader macros translate to nothing and are dropped.
func (t *Translator) exprs(nodes []*syntax.Node) ([]jsast.Node, error) {
	var out []jsast.Node
	for _, n := range nodes {
		if isElided(n) {
			continue
		}
		x, err := t.expr(n)
		if err != nil {
			return nil, err
		}
		out = append(out, x)
	}
	return out, nil
}

// body translates a sequence of forms in statement position.  Only the last
// form is in tail position.
func (t *Translator) body(forms []*syntax.Node) ([]jsast.Node, error) {
	var out []jsast.Node
	for i, form := range forms {
		last := i == len(forms)-1
		if !last {
			t.pushBarrier()
		}
		seq, err := t.translate(form)
		if !last {
			t.popTarget()
		}
		if err != nil {
			return nil, err
		}
		out = append(out, seq...)
	}
	return out, nil
}

// elements flattens a Forms chain and drops forms discarded with #_.
func elements(chain *syntax.Node) []*syntax.Node {
	var out []*syntax.Node
	for _, n := range syntax.Elements(chain) {
		if isDiscard(n) {
			continue
		}
		out = append(out, n)
	}
	return out
}

func isDiscard(n *syntax.Node) bool {
	return n != nil && n.Kind == syntax.Macro && n.Left != nil && n.Left.Str == syntax.MarkerDiscard
}

// isElided reports whether n is a reader macro that translates to nothing.
func isElided(n *syntax.Node) bool {
	if n == nil || n.Kind != syntax.Macro || n.Left == nil {
		return false
	}
	switch n.Left.Str {
	case syntax.MarkerDeref, syntax.MarkerDispatch:
		return false
	default:
		return true
	}
}

// headSymbol returns the symbol heading list when the head is a boxed
// symbol.
func headSymbol(list *syntax.Node) (*syntax.Node, bool) {
	head := list.Left
	if head == nil || head.Kind != syntax.Leaf || head.Left == nil || head.Left.Kind != syntax.Symbol {
		return nil, false
	}
	return head.Left, true
}

func (t *Translator) list(node *syntax.Node) ([]jsast.Node, error) {
	if node.Left == nil {
		return nil, nil
	}
	args := elements(node.Right)
	head, ok := headSymbol(node)
	if !ok {
		callee, err := t.expr(node.Left)
		if err != nil {
			return nil, err
		}
		argv, err := t.exprs(args)
		if err != nil {
			return nil, err
		}
		return []jsast.Node{&jsast.Call{Callee: callee, Args: argv}}, nil
	}
	if head.Gensym {
		return t.call(node, head, args)
	}
	form := Classify(head.Str)
	switch form {
	case FormNs:
		return t.ns(node, args)
	case FormDef:
		return t.def(node, args)
	case FormDefn:
		return t.defn(node, args)
	case FormFn:
		return t.fn(node, args)
	case FormSet:
		return t.set(node, args)
	case FormIf, FormIfNot:
		return t.ifForm(node, args, form == FormIfNot)
	case FormWhen, FormWhenNot:
		return t.when(node, args, form == FormWhenNot)
	case FormDo:
		return t.body(args)
	case FormCompare:
		return t.binary(node, head.Str, args, compareOp(head.Str))
	case FormEq:
		return t.binary(node, head.Str, args, compareOp("==="))
	case FormNotEq:
		return t.binary(node, head.Str, args, compareOp("!=="))
	case FormArith:
		return t.binary(node, head.Str, args, arithOp(head.Str))
	case FormInc:
		return t.step(node, head.Str, args, "+")
	case FormDec:
		return t.step(node, head.Str, args, "-")
	case FormStr:
		return t.str(node, args)
	case FormMember:
		return t.member(node, head.Str[2:], args)
	case FormMethod:
		return t.method(node, head.Str[1:], args)
	case FormNew:
		return t.newForm(node, args)
	case FormIfLet:
		return t.ifLet(node, args)
	case FormAnd:
		return t.and(node, args)
	case FormOr:
		return t.or(node, args)
	case FormLet:
		return t.let(node, args)
	case FormLoop:
		return t.loop(node, args)
	case FormRecur:
		return t.recur(node, args)
	case FormCall:
		return t.call(node, head, args)
	default:
		return nil, newError(ErrUnknownNodeKind, node, "unhandled form %d", uint(form))
	}
}
