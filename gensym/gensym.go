// Copyright © 2024 The ELPS authors

// Package gensym allocates synthetic identifiers for generated code.
//
// A Generator hands out names of the form tag$n.  The counter is shared by
// all tags and only ever increases, so every name a Generator returns is
// unique for the lifetime of the Generator.  Because '$' is munged out of
// user symbols, generated names never collide with names in source code.
package gensym

import (
	"strconv"
	"sync/atomic"
)

// Separator joins a tag to its counter value.
const Separator = "$"

// Generator is a monotonic name and identity counter.  It is safe for
// concurrent use, although output is only deterministic when calls happen in
// a fixed order.
type Generator struct {
	names   atomic.Int64
	vectors atomic.Int64
}

// New returns a Generator starting from zero.
func New() *Generator {
	return &Generator{}
}

var std = New()

// Default returns the process-wide Generator.
func Default() *Generator {
	return std
}

// Fresh returns a new name derived from tag.
func (g *Generator) Fresh(tag string) string {
	n := g.names.Add(1)
	return tag + Separator + strconv.FormatInt(n, 10)
}

// NextVectorID returns the identity for the next vector literal.  Vector
// identities are counted separately from names.
func (g *Generator) NextVectorID() int {
	return int(g.vectors.Add(1))
}

// IsGenerated reports whether name has the shape of a name returned by
// Fresh.
func IsGenerated(name string) bool {
	for i := len(name) - 1; i >= 0; i-- {
		c := name[i]
		if c == Separator[0] {
			return i > 0 && i < len(name)-1
		}
		if c < '0' || c > '9' {
			return false
		}
	}
	return false
}
