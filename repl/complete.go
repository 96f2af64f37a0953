// Copyright © 2024 The ELPS authors

package repl

import (
	"sort"
	"strings"
	"sync"

	"github.com/luthersystems/cljs2js/translate"
)

// symbolCompleter implements readline.AutoCompleter over the special forms
// and the names defined earlier in the session.
type symbolCompleter struct {
	mu      sync.Mutex
	defined map[string]bool
}

func newSymbolCompleter() *symbolCompleter {
	return &symbolCompleter{defined: make(map[string]bool)}
}

func (c *symbolCompleter) define(names map[string]bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for name := range names {
		c.defined[name] = true
	}
}

func (c *symbolCompleter) Do(line []rune, pos int) ([][]rune, int) {
	// Extract the word being typed (backwards from cursor to a delimiter).
	start := pos
	for start > 0 {
		ch := line[start-1]
		if ch == ' ' || ch == '\t' || ch == '(' || ch == '[' || ch == '\n' {
			break
		}
		start--
	}
	prefix := string(line[start:pos])
	if prefix == "" {
		return nil, 0
	}

	candidates := c.collectSymbols(prefix)
	if len(candidates) == 0 {
		return nil, 0
	}

	// Build completions: each entry is the suffix to append.
	result := make([][]rune, 0, len(candidates))
	for _, sym := range candidates {
		result = append(result, []rune(sym[len(prefix):]))
	}
	return result, len(prefix)
}

func (c *symbolCompleter) collectSymbols(prefix string) []string {
	seen := make(map[string]bool)
	var result []string
	add := func(name string) {
		if strings.HasPrefix(name, prefix) && !seen[name] {
			seen[name] = true
			result = append(result, name)
		}
	}
	for _, doc := range translate.Forms() {
		add(doc.Name)
	}
	c.mu.Lock()
	for name := range c.defined {
		add(name)
	}
	c.mu.Unlock()
	sort.Strings(result)
	return result
}
