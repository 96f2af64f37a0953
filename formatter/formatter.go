// Copyright © 2024 The ELPS authors

// Package formatter prints jsast trees as JavaScript source.
//
// Function bodies have implicit return semantics: the last node of a body is
// printed in tail position, where an expression becomes a return statement
// and conditionals, blocks and loops pass tail position on to their own
// last nodes.
package formatter

import (
	"strings"

	"github.com/luthersystems/cljs2js/jsast"
)

// Config holds printing configuration.
type Config struct {
	IndentSize int    // spaces per indent level (default: 2)
	Semicolons bool   // terminate statements with ';' (default: true)
	Header     string // comment written before the first statement, if any
}

// DefaultConfig returns the default printing configuration.
func DefaultConfig() *Config {
	return &Config{
		IndentSize: 2,
		Semicolons: true,
	}
}

// Format prints nodes as a sequence of top-level statements.  If cfg is nil,
// DefaultConfig() is used.
func Format(nodes []jsast.Node, cfg *Config) ([]byte, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	pr := newPrinter(cfg)
	pr.writeHeader()
	pr.writeTopLevel(nodes)
	if pr.err != nil {
		return nil, pr.err
	}

	result := pr.buf.String()

	// Ensure exactly one trailing newline (if there's any content)
	if len(result) > 0 {
		result = strings.TrimRight(result, "\n") + "\n"
	}

	return []byte(result), nil
}

// FormatExpr prints a single node in expression position without a trailing
// newline.
func FormatExpr(node jsast.Node, cfg *Config) (string, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	pr := newPrinter(cfg)
	pr.writeExprBare(node)
	if pr.err != nil {
		return "", pr.err
	}
	return pr.buf.String(), nil
}
