// Copyright © 2024 The ELPS authors

package translate

import (
	"strings"

	"github.com/luthersystems/cljs2js/jsast"
	"github.com/luthersystems/cljs2js/syntax"
)

// member lowers (.-prop obj).
func (t *Translator) member(node *syntax.Node, prop string, args []*syntax.Node) ([]jsast.Node, error) {
	if len(args) == 0 {
		return nil, malformed(node, "property access .-%s requires a receiver", prop)
	}
	if len(args) > 1 {
		return nil, arity(node, "property access .-%s expects 1 argument, got %d", prop, len(args))
	}
	obj, err := t.expr(args[0])
	if err != nil {
		return nil, err
	}
	return []jsast.Node{&jsast.Member{Object: obj, Property: prop}}, nil
}

// method lowers (.method obj args...).
func (t *Translator) method(node *syntax.Node, name string, args []*syntax.Node) ([]jsast.Node, error) {
	if len(args) == 0 {
		return nil, malformed(node, "method call .%s requires a receiver", name)
	}
	obj, err := t.expr(args[0])
	if err != nil {
		return nil, err
	}
	argv, err := t.exprs(args[1:])
	if err != nil {
		return nil, err
	}
	callee := &jsast.Member{Object: obj, Property: name}
	return []jsast.Node{&jsast.Call{Callee: callee, Args: argv}}, nil
}

func (t *Translator) newForm(node *syntax.Node, args []*syntax.Node) ([]jsast.Node, error) {
	if len(args) == 0 {
		return nil, malformed(node, "new requires a class")
	}
	class, err := t.expr(args[0])
	if err != nil {
		return nil, err
	}
	argv, err := t.exprs(args[1:])
	if err != nil {
		return nil, err
	}
	return []jsast.Node{&jsast.New{Class: class, Args: argv}}, nil
}

// call lowers an ordinary invocation of the function named by head.  A head
// ending in '.' constructs an instance of the named class.
func (t *Translator) call(node *syntax.Node, head *syntax.Node, args []*syntax.Node) ([]jsast.Node, error) {
	argv, err := t.exprs(args)
	if err != nil {
		return nil, err
	}
	if !head.Gensym && len(head.Str) > 1 && strings.HasSuffix(head.Str, ".") {
		class := t.symbolName(head.Str[:len(head.Str)-1])
		return []jsast.Node{&jsast.New{Class: class, Args: argv}}, nil
	}
	return []jsast.Node{&jsast.Call{Callee: t.symbol(head), Args: argv}}, nil
}

// core returns a reference to name in the runtime namespace.
func (t *Translator) core(name string) jsast.Node {
	return jsast.Path(t.runtime + "." + name)
}
