// Copyright © 2024 The ELPS authors

package translate

import (
	"github.com/luthersystems/cljs2js/jsast"
	"github.com/luthersystems/cljs2js/syntax"
)

// recurTarget is a loop or function that recur may jump back to.
type recurTarget struct {
	name    string
	slots   int
	barrier bool
	used    bool
}

func (t *Translator) pushTarget(name string, slots int) *recurTarget {
	target := &recurTarget{name: name, slots: slots}
	t.targets.Push(target)
	return target
}

func (t *Translator) pushBarrier() {
	t.targets.Push(&recurTarget{barrier: true})
}

func (t *Translator) popTarget() {
	t.targets.Pop()
}

// bindingName returns the munged name bound by the symbol node.
func bindingName(form *syntax.Node, formName string, node *syntax.Node) (string, error) {
	sym := syntax.Unbox(node)
	if sym == nil || sym.Kind != syntax.Symbol {
		return "", malformed(form, "%s name must be a symbol: %v", formName, node)
	}
	if sym.Gensym {
		return sym.Str, nil
	}
	return Munge(sym.Str), nil
}

type binding struct {
	name  string
	value *syntax.Node
}

// bindingPairs pairs the name at position 2k of the binding vector with the
// value at position 2k+1.
func bindingPairs(form *syntax.Node, formName string, node *syntax.Node) ([]binding, error) {
	vec := syntax.Unbox(node)
	if vec == nil || vec.Kind != syntax.Vector {
		return nil, malformed(form, "%s bindings must be a vector", formName)
	}
	flat := elements(vec.Left)
	if len(flat)%2 != 0 {
		return nil, malformed(vec, "%s bindings require an even number of forms, got %d", formName, len(flat))
	}
	pairs := make([]binding, len(flat)/2)
	for k := range pairs {
		name, err := bindingName(form, formName, flat[2*k])
		if err != nil {
			return nil, err
		}
		pairs[k] = binding{name: name, value: flat[2*k+1]}
	}
	return pairs, nil
}

// bindAll declares pairs in order in the current scope.  Each value sees
// the bindings before it.  It returns the declarations and the JavaScript
// names bound.
func (t *Translator) bindAll(form *syntax.Node, pairs []binding) ([]jsast.Node, []string, error) {
	local := refCounts(form)
	decls := make([]jsast.Node, 0, len(pairs))
	names := make([]string, 0, len(pairs))
	for _, b := range pairs {
		init, err := t.expr(b.value)
		if err != nil {
			return nil, nil, err
		}
		name := t.bind(b.name, local)
		decls = append(decls, &jsast.VarDecl{Name: name, Init: init})
		names = append(names, name)
	}
	return decls, names, nil
}

func (t *Translator) let(node *syntax.Node, args []*syntax.Node) ([]jsast.Node, error) {
	if len(args) == 0 {
		return nil, malformed(node, "let requires a binding vector")
	}
	pairs, err := bindingPairs(node, "let", args[0])
	if err != nil {
		return nil, err
	}
	t.pushScope()
	defer t.popScope()
	decls, _, err := t.bindAll(node, pairs)
	if err != nil {
		return nil, err
	}
	body, err := t.body(args[1:])
	if err != nil {
		return nil, err
	}
	return append(decls, body...), nil
}

// loop declares its bindings in a new block followed by a Loop whose slots
// are the bound names.  The loop variables are addressed by position so
// recur can rebind them from anywhere in the body.
func (t *Translator) loop(node *syntax.Node, args []*syntax.Node) ([]jsast.Node, error) {
	if len(args) == 0 {
		return nil, malformed(node, "loop requires a binding vector")
	}
	pairs, err := bindingPairs(node, "loop", args[0])
	if err != nil {
		return nil, err
	}
	t.pushScope()
	defer t.popScope()
	decls, slots, err := t.bindAll(node, pairs)
	if err != nil {
		return nil, err
	}
	t.pushTarget("loop", len(slots))
	body, err := t.body(args[1:])
	t.popTarget()
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		body = []jsast.Node{&jsast.Null{}}
	}
	loop := &jsast.Loop{Slots: slots, Body: body}
	return []jsast.Node{&jsast.Block{Body: append(decls, loop)}}, nil
}

// recur rebinds the slots of the innermost target and continues it.  With
// more than one argument all values are computed into temporaries before
// any slot is assigned, so every value sees the bindings from before the
// recur.
func (t *Translator) recur(node *syntax.Node, args []*syntax.Node) ([]jsast.Node, error) {
	top, _ := t.targets.Peek().(*recurTarget)
	switch {
	case top == nil:
		return nil, malformed(node, "recur outside of loop or fn")
	case top.barrier:
		return nil, malformed(node, "recur must be in tail position")
	case len(args) != top.slots:
		return nil, arity(node, "recur expects %d arguments for %s, got %d", top.slots, top.name, len(args))
	}
	top.used = true
	values, err := t.operands(args)
	if err != nil {
		return nil, err
	}
	var out []jsast.Node
	if len(values) == 1 {
		out = append(out, &jsast.Assign{Target: &jsast.Slot{Index: 0}, Value: values[0]})
	} else {
		temps := make([]string, len(values))
		for i, v := range values {
			temps[i] = t.gen.Fresh("recur")
			out = append(out, &jsast.VarDecl{Name: temps[i], Init: v})
		}
		for i, tmp := range temps {
			out = append(out, &jsast.Assign{Target: &jsast.Slot{Index: i}, Value: jsast.NewIdent(tmp)})
		}
	}
	return append(out, &jsast.Continue{}), nil
}

// params parses a parameter vector.  A symbol following & is a rest
// parameter.
func params(form *syntax.Node, formName string, node *syntax.Node) ([]jsast.Node, []string, error) {
	vec := syntax.Unbox(node)
	if vec == nil || vec.Kind != syntax.Vector {
		return nil, nil, malformed(form, "%s requires a parameter vector", formName)
	}
	var (
		out   []jsast.Node
		names []string
	)
	elems := elements(vec.Left)
	for i := 0; i < len(elems); i++ {
		if sym := syntax.Unbox(elems[i]); sym.Kind == syntax.Symbol && sym.Str == "&" {
			if i != len(elems)-2 {
				return nil, nil, malformed(vec, "& must be followed by exactly one parameter")
			}
			name, err := bindingName(form, formName, elems[i+1])
			if err != nil {
				return nil, nil, err
			}
			out = append(out, &jsast.Rest{Param: jsast.NewIdent(name)})
			names = append(names, name)
			break
		}
		name, err := bindingName(form, formName, elems[i])
		if err != nil {
			return nil, nil, err
		}
		out = append(out, jsast.NewIdent(name))
		names = append(names, name)
	}
	return out, names, nil
}

// function translates a function body.  A body that recurs is rewritten
// into a loop over the parameters.  self, when not empty, is the name of a
// function expression, visible only in its body.
func (t *Translator) function(name, self string, slots []string, forms []*syntax.Node) ([]jsast.Node, error) {
	t.pushFrame(forms)
	defer t.popScope()
	if self != "" {
		t.declareName(self)
	}
	for _, slot := range slots {
		t.declareName(slot)
	}
	target := t.pushTarget(name, len(slots))
	body, err := t.body(forms)
	t.popTarget()
	if err != nil {
		return nil, err
	}
	if target.used {
		body = []jsast.Node{&jsast.Loop{Slots: slots, Body: body}}
	}
	return body, nil
}

func (t *Translator) defn(node *syntax.Node, args []*syntax.Node) ([]jsast.Node, error) {
	if len(args) < 2 {
		return nil, malformed(node, "defn requires a name and a parameter vector")
	}
	name, err := bindingName(node, "defn", args[0])
	if err != nil {
		return nil, err
	}
	rest := args[1:]
	if syntax.Unbox(rest[0]).Kind == syntax.String && len(rest) > 1 {
		rest = rest[1:]
	}
	ps, slots, err := params(node, "defn", rest[0])
	if err != nil {
		return nil, err
	}
	t.declareName(name)
	body, err := t.function(name, "", slots, rest[1:])
	if err != nil {
		return nil, err
	}
	return []jsast.Node{&jsast.FuncDecl{Name: name, Params: ps, Body: body}}, nil
}

func (t *Translator) fn(node *syntax.Node, args []*syntax.Node) ([]jsast.Node, error) {
	var name string
	if len(args) > 0 && syntax.IsSymbol(args[0]) {
		var err error
		name, err = bindingName(node, "fn", args[0])
		if err != nil {
			return nil, err
		}
		args = args[1:]
	}
	if len(args) == 0 {
		return nil, malformed(node, "fn requires a parameter vector")
	}
	ps, slots, err := params(node, "fn", args[0])
	if err != nil {
		return nil, err
	}
	label := name
	if label == "" {
		label = "fn"
	}
	body, err := t.function(label, name, slots, args[1:])
	if err != nil {
		return nil, err
	}
	return []jsast.Node{&jsast.FuncExpr{Name: name, Params: ps, Body: body}}, nil
}
