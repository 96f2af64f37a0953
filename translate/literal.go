// Copyright © 2024 The ELPS authors

package translate

import (
	"strings"

	"github.com/luthersystems/cljs2js/jsast"
	"github.com/luthersystems/cljs2js/syntax"
)

// vectorShift is the branching shift of an empty persistent vector.
const vectorShift = 5

// vector constructs a persistent vector holding the translated elements:
// an empty edit token, the vector identity, the shift, the shared empty root
// node, the element tail and empty metadata.
func (t *Translator) vector(node *syntax.Node) (jsast.Node, error) {
	id := t.gen.NextVectorID()
	elems, err := t.exprs(elements(node.Left))
	if err != nil {
		return nil, err
	}
	return &jsast.New{
		Class: t.core("PersistentVector"),
		Args: []jsast.Node{
			&jsast.Null{},
			jsast.NewNumber(float64(id)),
			jsast.NewNumber(vectorShift),
			t.core("PersistentVector.EMPTY_NODE"),
			&jsast.Array{Elems: elems},
			&jsast.Null{},
		},
	}, nil
}

// keyword constructs an interned keyword.  Namespaced keywords are not
// supported so the namespace slot is always null.
func (t *Translator) keyword(node *syntax.Node) jsast.Node {
	name := strings.TrimPrefix(node.Str, ":")
	return &jsast.New{
		Class: t.core("Keyword"),
		Args: []jsast.Node{
			&jsast.Null{},
			jsast.NewString(name),
			jsast.NewString(name),
		},
	}
}

func (t *Translator) symbol(node *syntax.Node) jsast.Node {
	if node.Gensym {
		return jsast.NewIdent(node.Str)
	}
	return t.symbolName(node.Str)
}

func (t *Translator) symbolName(name string) jsast.Node {
	switch {
	case name == "nil":
		return &jsast.Null{}
	case strings.HasPrefix(name, "js/") && len(name) > 3:
		return jsast.NewIdent(name[3:])
	default:
		return jsast.NewIdent(t.resolveName(Munge(name)))
	}
}
