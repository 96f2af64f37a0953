// Copyright © 2024 The ELPS authors

package translate

import (
	"github.com/luthersystems/cljs2js/jsast"
	"github.com/luthersystems/cljs2js/syntax"
)

func (t *Translator) def(node *syntax.Node, args []*syntax.Node) ([]jsast.Node, error) {
	if len(args) == 3 && syntax.Unbox(args[1]).Kind == syntax.String {
		args = []*syntax.Node{args[0], args[2]}
	}
	switch {
	case len(args) == 0:
		return nil, malformed(node, "def requires a name")
	case len(args) == 1:
		return nil, malformed(node, "def of %v requires a value", args[0])
	case len(args) > 2:
		return nil, arity(node, "def expects a name and one value, got %d arguments", len(args))
	}
	name, err := bindingName(node, "def", args[0])
	if err != nil {
		return nil, err
	}
	init, err := t.expr(args[1])
	if err != nil {
		return nil, err
	}
	t.declareName(name)
	return []jsast.Node{&jsast.VarDecl{Name: name, Init: init}}, nil
}

func (t *Translator) set(node *syntax.Node, args []*syntax.Node) ([]jsast.Node, error) {
	if len(args) < 2 {
		return nil, malformed(node, "set! requires a target and a value")
	}
	if len(args) > 2 {
		return nil, arity(node, "set! expects 2 arguments, got %d", len(args))
	}
	target, err := t.expr(args[0])
	if err != nil {
		return nil, err
	}
	value, err := t.expr(args[1])
	if err != nil {
		return nil, err
	}
	return []jsast.Node{&jsast.Assign{Target: target, Value: value}}, nil
}

func (t *Translator) ifForm(node *syntax.Node, args []*syntax.Node, negate bool) ([]jsast.Node, error) {
	name := "if"
	if negate {
		name = "if-not"
	}
	if len(args) < 2 {
		return nil, malformed(node, "%s requires a test and a then branch", name)
	}
	if len(args) > 3 {
		return nil, arity(node, "%s expects at most 3 arguments, got %d", name, len(args))
	}
	test, err := t.test(args[0], negate)
	if err != nil {
		return nil, err
	}
	then, err := t.translate(args[1])
	if err != nil {
		return nil, err
	}
	var els []jsast.Node
	if len(args) == 3 {
		els, err = t.translate(args[2])
		if err != nil {
			return nil, err
		}
	}
	return []jsast.Node{&jsast.If{Test: test, Then: then, Else: els}}, nil
}

func (t *Translator) when(node *syntax.Node, args []*syntax.Node, negate bool) ([]jsast.Node, error) {
	if len(args) == 0 {
		name := "when"
		if negate {
			name = "when-not"
		}
		return nil, malformed(node, "%s requires a test", name)
	}
	test, err := t.test(args[0], negate)
	if err != nil {
		return nil, err
	}
	then, err := t.body(args[1:])
	if err != nil {
		return nil, err
	}
	return []jsast.Node{&jsast.If{Test: test, Then: then}}, nil
}

func (t *Translator) test(node *syntax.Node, negate bool) (jsast.Node, error) {
	test, err := t.expr(node)
	if err != nil {
		return nil, err
	}
	if negate {
		test = jsast.NewCall(t.core("not"), test)
	}
	return test, nil
}

type binaryOp func(left, right jsast.Node) jsast.Node

func compareOp(op string) binaryOp {
	return func(left, right jsast.Node) jsast.Node {
		return &jsast.Compare{Op: op, Left: left, Right: right}
	}
}

func arithOp(op string) binaryOp {
	return func(left, right jsast.Node) jsast.Node {
		return &jsast.Arith{Op: op, Left: left, Right: right}
	}
}

func (t *Translator) binary(node *syntax.Node, name string, args []*syntax.Node, op binaryOp) ([]jsast.Node, error) {
	if len(args) != 2 {
		return nil, arity(node, "%s expects exactly 2 operands, got %d", name, len(args))
	}
	operands, err := t.operands(args)
	if err != nil {
		return nil, err
	}
	return []jsast.Node{op(operands[0], operands[1])}, nil
}

func (t *Translator) step(node *syntax.Node, name string, args []*syntax.Node, op string) ([]jsast.Node, error) {
	if len(args) != 1 {
		return nil, arity(node, "%s expects exactly 1 operand, got %d", name, len(args))
	}
	x, err := t.expr(args[0])
	if err != nil {
		return nil, err
	}
	return []jsast.Node{&jsast.Arith{Op: op, Left: x, Right: &jsast.Number{Value: 1, Raw: "1"}}}, nil
}

// str only supports a single argument, which is coerced by concatenation
// with the empty string.
func (t *Translator) str(node *syntax.Node, args []*syntax.Node) ([]jsast.Node, error) {
	if len(args) != 1 {
		return nil, arity(node, "str expects exactly 1 argument, got %d", len(args))
	}
	x, err := t.expr(args[0])
	if err != nil {
		return nil, err
	}
	return []jsast.Node{&jsast.Arith{Op: "+", Left: jsast.NewString(""), Right: x}}, nil
}

// operands translates every element of args to exactly one expression.
// Unlike exprs it never drops an operand.
func (t *Translator) operands(args []*syntax.Node) ([]jsast.Node, error) {
	out := make([]jsast.Node, len(args))
	for i, arg := range args {
		x, err := t.expr(arg)
		if err != nil {
			return nil, err
		}
		out[i] = x
	}
	return out, nil
}

// ifLet binds the test value to a temporary once and binds the declared
// name to it only inside the then branch.
func (t *Translator) ifLet(node *syntax.Node, args []*syntax.Node) ([]jsast.Node, error) {
	if len(args) < 2 {
		return nil, malformed(node, "if-let requires a binding vector and a then branch")
	}
	if len(args) > 3 {
		return nil, arity(node, "if-let expects at most 3 arguments, got %d", len(args))
	}
	bindings := syntax.Unbox(args[0])
	if bindings.Kind != syntax.Vector {
		return nil, malformed(node, "if-let bindings must be a vector")
	}
	pair := elements(bindings.Left)
	if len(pair) != 2 {
		return nil, malformed(bindings, "if-let requires exactly one binding pair, got %d forms", len(pair))
	}
	name, err := bindingName(node, "if-let", pair[0])
	if err != nil {
		return nil, err
	}
	test, err := t.expr(pair[1])
	if err != nil {
		return nil, err
	}
	tmp := t.gen.Fresh("ifLet")
	t.pushScope()
	bound := t.bind(name, refCounts(node))
	then, err := t.translate(args[1])
	t.popScope()
	if err != nil {
		return nil, err
	}
	then = append([]jsast.Node{&jsast.VarDecl{Name: bound, Init: jsast.NewIdent(tmp)}}, then...)
	var els []jsast.Node
	if len(args) == 3 {
		els, err = t.translate(args[2])
		if err != nil {
			return nil, err
		}
	}
	return []jsast.Node{
		&jsast.VarDecl{Name: tmp, Init: test},
		&jsast.If{Test: jsast.NewIdent(tmp), Then: then, Else: els},
	}, nil
}

func (t *Translator) and(node *syntax.Node, args []*syntax.Node) ([]jsast.Node, error) {
	if len(args) == 0 {
		return []jsast.Node{jsast.NewBool(true)}, nil
	}
	return t.shortCircuit("and", args, true)
}

func (t *Translator) or(node *syntax.Node, args []*syntax.Node) ([]jsast.Node, error) {
	if len(args) == 0 {
		return []jsast.Node{&jsast.Null{}}, nil
	}
	return t.shortCircuit("or", args, false)
}

// shortCircuit binds the first operand to a temporary and nests the
// lowering of the remaining operands in the branch that must evaluate them.
// For conjunction that is the truthy branch; for disjunction the falsy one.
func (t *Translator) shortCircuit(tag string, args []*syntax.Node, conj bool) ([]jsast.Node, error) {
	if len(args) == 1 {
		return t.lastOperand(tag, args[0])
	}
	x, err := t.expr(args[0])
	if err != nil {
		return nil, err
	}
	tmp := t.gen.Fresh(tag)
	decl := &jsast.VarDecl{Name: tmp, Init: x}
	rest, err := t.shortCircuit(tag, args[1:], conj)
	if err != nil {
		return nil, err
	}
	yield := []jsast.Node{jsast.NewIdent(tmp)}
	cond := &jsast.If{Test: jsast.NewIdent(tmp)}
	if conj {
		cond.Then, cond.Else = rest, yield
	} else {
		cond.Then, cond.Else = yield, rest
	}
	return []jsast.Node{decl, cond}, nil
}

// lastOperand translates the final operand of and or or, which is in the
// tail position of the form.  A single value is bound to a temporary like
// the other operands.  Statements, such as those of recur, are kept.
func (t *Translator) lastOperand(tag string, arg *syntax.Node) ([]jsast.Node, error) {
	nodes, err := t.translate(arg)
	if err != nil {
		return nil, err
	}
	if len(nodes) > 1 || len(nodes) == 1 && jsast.IsStatement(nodes[0]) {
		return nodes, nil
	}
	tmp := t.gen.Fresh(tag)
	return []jsast.Node{
		&jsast.VarDecl{Name: tmp, Init: t.asExpr(nodes)},
		jsast.NewIdent(tmp),
	}, nil
}

func (t *Translator) ns(node *syntax.Node, args []*syntax.Node) ([]jsast.Node, error) {
	if len(args) == 0 {
		return nil, malformed(node, "ns requires a name")
	}
	name, err := t.expr(args[0])
	if err != nil {
		return nil, err
	}
	decl := &jsast.Namespace{Name: name}
	for _, clause := range args[1:] {
		reqs, err := requires(clause)
		if err != nil {
			return nil, err
		}
		decl.Requires = append(decl.Requires, reqs...)
	}
	return []jsast.Node{decl}, nil
}

// requires records the libraries named by a (:require ...) clause.  Other
// clauses are ignored.
func requires(clause *syntax.Node) ([]jsast.Require, error) {
	if clause.Kind != syntax.List || clause.Left == nil {
		return nil, malformed(clause, "ns clause must be a list")
	}
	if clause.Left.Kind != syntax.Keyword || clause.Left.Str != ":require" {
		return nil, nil
	}
	var reqs []jsast.Require
	for _, spec := range elements(clause.Right) {
		spec = syntax.Unbox(spec)
		switch spec.Kind {
		case syntax.Symbol:
			reqs = append(reqs, jsast.Require{Namespace: spec.Str})
		case syntax.Vector:
			parts := elements(spec.Left)
			if len(parts) == 0 || !syntax.IsSymbol(parts[0]) {
				return nil, malformed(spec, "require spec must start with a namespace symbol")
			}
			req := jsast.Require{Namespace: syntax.Unbox(parts[0]).Str}
			for i := 1; i+1 < len(parts); i += 2 {
				opt := syntax.Unbox(parts[i])
				if opt.Kind == syntax.Keyword && opt.Str == ":as" {
					alias := syntax.Unbox(parts[i+1])
					if alias.Kind != syntax.Symbol {
						return nil, malformed(spec, ":as requires a symbol")
					}
					req.Alias = alias.Str
				}
			}
			reqs = append(reqs, req)
		default:
			return nil, malformed(spec, "invalid require spec: %v", spec)
		}
	}
	return reqs, nil
}
