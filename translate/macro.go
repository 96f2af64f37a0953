// Copyright © 2024 The ELPS authors

package translate

import (
	"sort"
	"strconv"

	"github.com/luthersystems/cljs2js/jsast"
	"github.com/luthersystems/cljs2js/syntax"
)

// RestParam is the name bound to %& in anonymous function shorthand.
const RestParam = "$rest"

func (t *Translator) macro(node *syntax.Node) ([]jsast.Node, error) {
	if node.Left == nil {
		return nil, newError(ErrUnknownNodeKind, node, "macro without marker")
	}
	switch node.Left.Str {
	case syntax.MarkerDeref:
		if node.Right == nil {
			return nil, malformed(node, "@ requires an operand")
		}
		x, err := t.expr(node.Right)
		if err != nil {
			return nil, err
		}
		return []jsast.Node{jsast.NewCall(t.core("deref"), x)}, nil
	case syntax.MarkerDiscard:
		return nil, nil
	case syntax.MarkerDispatch:
		return t.shorthand(node)
	default:
		return nil, nil
	}
}

// placeholders accumulates the placeholder names allocated while resolving
// one #(...) form.
type placeholders struct {
	names map[int]string
	rest  bool
}

// placeholderIndex parses %, %N and %&.  The index of %& is -1.
func placeholderIndex(name string) (int, bool) {
	if len(name) == 0 || name[0] != '%' {
		return 0, false
	}
	switch name {
	case "%":
		return 0, true
	case "%&":
		return -1, true
	}
	n, err := strconv.Atoi(name[1:])
	if err != nil || n < 0 || name[1] == '+' || name[1] == '-' {
		return 0, false
	}
	return n, true
}

// shorthand lowers #(...) into an anonymous function whose parameters
// replace the placeholders of its body.
func (t *Translator) shorthand(node *syntax.Node) ([]jsast.Node, error) {
	body := node.Right
	if body == nil || body.Kind != syntax.List {
		return nil, malformed(node, "# must be followed by a list")
	}
	ps := placeholders{names: make(map[int]string)}
	body, ps, err := t.resolve(body, ps)
	if err != nil {
		return nil, err
	}
	indices := make([]int, 0, len(ps.names))
	for i := range ps.names {
		indices = append(indices, i)
	}
	sort.Ints(indices)
	var params []jsast.Node
	var slots []string
	if len(indices) > 0 {
		lo, hi := 1, indices[len(indices)-1]
		if indices[0] == 0 {
			lo = 0
		}
		for i := lo; i <= hi; i++ {
			name, ok := ps.names[i]
			if !ok {
				name = t.gen.Fresh("p" + strconv.Itoa(i))
			}
			params = append(params, jsast.NewIdent(name))
			slots = append(slots, name)
		}
	}
	if ps.rest {
		params = append(params, &jsast.Rest{Param: jsast.NewIdent(RestParam)})
		slots = append(slots, RestParam)
	}
	out, err := t.function("#()", "", slots, []*syntax.Node{body})
	if err != nil {
		return nil, err
	}
	return []jsast.Node{&jsast.FuncExpr{Params: params, Body: out}}, nil
}

// resolve returns a copy of node with every placeholder symbol replaced by
// its parameter name, allocating names in pre-order of first occurrence.
// The input tree is not modified.
func (t *Translator) resolve(node *syntax.Node, ps placeholders) (*syntax.Node, placeholders, error) {
	if node == nil {
		return nil, ps, nil
	}
	switch node.Kind {
	case syntax.Symbol:
		if node.Gensym {
			return node, ps, nil
		}
		i, ok := placeholderIndex(node.Str)
		if !ok {
			return node, ps, nil
		}
		var name string
		if i < 0 {
			name = RestParam
			ps.rest = true
		} else if name, ok = ps.names[i]; !ok {
			name = t.gen.Fresh("p" + strconv.Itoa(i))
			ps.names[i] = name
		}
		sym := *node
		sym.Str = name
		sym.Gensym = true
		return &sym, ps, nil
	case syntax.Macro:
		if node.Left != nil && node.Left.Str == syntax.MarkerDispatch {
			return nil, ps, malformed(node, "nested #() forms are not allowed")
		}
		fallthrough
	case syntax.Forms, syntax.List, syntax.Leaf, syntax.Vector:
		cp := *node
		var err error
		if node.Kind != syntax.Macro {
			cp.Left, ps, err = t.resolve(node.Left, ps)
			if err != nil {
				return nil, ps, err
			}
		}
		cp.Right, ps, err = t.resolve(node.Right, ps)
		if err != nil {
			return nil, ps, err
		}
		return &cp, ps, nil
	default:
		return node, ps, nil
	}
}
