// Copyright © 2024 The ELPS authors

package jsast

// Children returns the direct child nodes of n in evaluation order.
func Children(n Node) []Node {
	var c []Node
	add := func(xs ...Node) {
		for _, x := range xs {
			if x != nil {
				c = append(c, x)
			}
		}
	}
	switch n := n.(type) {
	case *Namespace:
		add(n.Name)
	case *VarDecl:
		add(n.Init)
	case *FuncDecl:
		add(n.Params...)
		add(n.Body...)
	case *FuncExpr:
		add(n.Params...)
		add(n.Body...)
	case *Assign:
		add(n.Target, n.Value)
	case *If:
		add(n.Test)
		add(n.Then...)
		add(n.Else...)
	case *Compare:
		add(n.Left, n.Right)
	case *Arith:
		add(n.Left, n.Right)
	case *Call:
		add(n.Callee)
		add(n.Args...)
	case *Member:
		add(n.Object)
	case *New:
		add(n.Class)
		add(n.Args...)
	case *Array:
		add(n.Elems...)
	case *Block:
		add(n.Body...)
	case *Loop:
		add(n.Body...)
	case *Rest:
		if n.Param != nil {
			add(n.Param)
		}
	}
	return c
}

// Inspect traverses nodes depth-first in pre-order.  If fn returns false the
// children of the current node are skipped.
func Inspect(nodes []Node, fn func(Node) bool) {
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if fn(n) {
			Inspect(Children(n), fn)
		}
	}
}

// Count returns the number of nodes in the tree for which match returns
// true.
func Count(nodes []Node, match func(Node) bool) int {
	count := 0
	Inspect(nodes, func(n Node) bool {
		if match(n) {
			count++
		}
		return true
	})
	return count
}
