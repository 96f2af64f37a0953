// Copyright © 2024 The ELPS authors

package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindString(t *testing.T) {
	used := make(map[string]bool)
	for k := Kind(0); k < KindMax; k++ {
		s := k.String()
		assert.NotEmpty(t, s)
		assert.False(t, used[s], "kind string used twice: %s", s)
		used[s] = true
	}
	assert.Equal(t, "invalid", KindMax.String())
}

func TestNewFormsChain(t *testing.T) {
	a, b, c := NewSymbol("a"), NewSymbol("b"), NewSymbol("c")
	chain := NewForms(a, b, c)
	assert.Equal(t, Forms, chain.Kind)
	assert.Same(t, a, chain.Left)
	assert.Equal(t, Forms, chain.Right.Kind)
	assert.Same(t, c, chain.Right.Right.Left)
	assert.Nil(t, chain.Right.Right.Right)
	assert.Equal(t, []*Node{a, b, c}, Elements(chain))
	assert.Nil(t, NewForms())
	assert.Nil(t, Elements(nil))
}

func TestNodeString(t *testing.T) {
	tests := []struct {
		node *Node
		out  string
	}{
		{NewList(nil), "()"},
		{NewList(NewLeaf(NewSymbol("f")), NewLeaf(NewNumber(1, "1")), NewLeaf(NewString("x"))), `(f 1 "x")`},
		{NewVector(NewLeaf(NewBoolean(true)), NewKeyword(":k")), "[true :k]"},
		{NewMacro(MarkerDeref, NewLeaf(NewSymbol("a"))), "@a"},
		{NewMacro(MarkerDispatch, NewList(NewLeaf(NewSymbol("f")), NewLeaf(NewSymbol("%")))), "#(f %)"},
		{NewNumber(2.5, ""), "2.5"},
	}
	for i, test := range tests {
		assert.Equal(t, test.out, test.node.String(), "test %d", i)
	}
}

func TestUnbox(t *testing.T) {
	s := NewSymbol("x")
	assert.Same(t, s, Unbox(NewLeaf(s)))
	assert.Same(t, s, Unbox(s))
	assert.True(t, IsSymbol(NewLeaf(s)))
	assert.False(t, IsSymbol(NewString("x")))
	assert.False(t, IsSymbol(nil))
}
