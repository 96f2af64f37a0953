// Copyright © 2024 The ELPS authors

package repl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func suffixes(candidates [][]rune) []string {
	var out []string
	for _, c := range candidates {
		out = append(out, string(c))
	}
	return out
}

func TestSymbolCompleter(t *testing.T) {
	c := newSymbolCompleter()

	// "de" matches def, defn and dec.
	candidates, offset := c.Do([]rune("(de"), 3)
	assert.Equal(t, 2, offset)
	assert.Equal(t, []string{"c", "f", "fn"}, suffixes(candidates))

	// Names defined in the session complete after their definition.
	candidates, _ = c.Do([]rune("(foo"), 4)
	assert.Empty(t, candidates)
	c.define(map[string]bool{"foo-bar": true})
	candidates, offset = c.Do([]rune("[1 (foo"), 7)
	assert.Equal(t, 3, offset)
	assert.Equal(t, []string{"-bar"}, suffixes(candidates))

	candidates, _ = c.Do([]rune("(zzz-nonexistent"), 16)
	assert.Empty(t, candidates)

	candidates, _ = c.Do([]rune("("), 1)
	assert.Empty(t, candidates)
}
