// Copyright © 2024 The ELPS authors

// Package astutil provides shared traversal helpers for syntax trees.
//
// The binary Forms encoding is an artifact of the reader; these helpers
// present composites as ordinary ordered children.
package astutil

import "github.com/luthersystems/cljs2js/syntax"

// Children returns the logical children of node: list head followed by
// arguments, vector elements, a macro operand, or a boxed atom.  Forms
// chains are flattened.
func Children(node *syntax.Node) []*syntax.Node {
	if node == nil {
		return nil
	}
	switch node.Kind {
	case syntax.Forms:
		return syntax.Elements(node)
	case syntax.List:
		if node.Left == nil {
			return nil
		}
		return append([]*syntax.Node{node.Left}, syntax.Elements(node.Right)...)
	case syntax.Vector:
		return syntax.Elements(node.Left)
	case syntax.Macro:
		if node.Right == nil {
			return nil
		}
		return []*syntax.Node{node.Right}
	case syntax.Leaf:
		return []*syntax.Node{node.Left}
	default:
		return nil
	}
}

// Walk calls fn for every node in the tree, depth-first, skipping Forms and
// Leaf wrappers.  parent is nil for top-level forms.
func Walk(root *syntax.Node, fn func(node *syntax.Node, parent *syntax.Node, depth int)) {
	walkNode(root, nil, 0, fn)
}

func walkNode(node *syntax.Node, parent *syntax.Node, depth int, fn func(*syntax.Node, *syntax.Node, int)) {
	if node == nil {
		return
	}
	switch node.Kind {
	case syntax.Forms:
		for _, c := range syntax.Elements(node) {
			walkNode(c, parent, depth, fn)
		}
		return
	case syntax.Leaf:
		walkNode(node.Left, parent, depth, fn)
		return
	}
	fn(node, parent, depth)
	for _, child := range Children(node) {
		walkNode(child, node, depth+1, fn)
	}
}

// WalkLists calls fn for every non-empty list in the tree.
func WalkLists(root *syntax.Node, fn func(list *syntax.Node, depth int)) {
	Walk(root, func(node *syntax.Node, _ *syntax.Node, depth int) {
		if node.Kind == syntax.List && node.Left != nil {
			fn(node, depth)
		}
	})
}

// HeadSymbol returns the name of the literal symbol heading list, or "".  A
// head counts as a literal symbol only when it is a Leaf around a Symbol.
func HeadSymbol(list *syntax.Node) string {
	if list == nil || list.Kind != syntax.List || list.Left == nil {
		return ""
	}
	head := list.Left
	if head.Kind == syntax.Leaf && head.Left != nil && head.Left.Kind == syntax.Symbol {
		return head.Left.Str
	}
	return ""
}

// Args returns the arguments of list (excluding the head).
func Args(list *syntax.Node) []*syntax.Node {
	if list == nil || list.Kind != syntax.List {
		return nil
	}
	return syntax.Elements(list.Right)
}

// ArgCount returns the number of arguments in list (excluding the head).
func ArgCount(list *syntax.Node) int {
	return len(Args(list))
}

// Defined returns the set of names bound at top level by def and defn.
func Defined(root *syntax.Node) map[string]bool {
	defs := make(map[string]bool)
	for _, form := range syntax.Elements(root) {
		switch HeadSymbol(form) {
		case "def", "defn":
			args := Args(form)
			if len(args) > 0 && syntax.IsSymbol(args[0]) {
				defs[syntax.Unbox(args[0]).Str] = true
			}
		}
	}
	return defs
}
