// Copyright © 2018 The ELPS authors

package parser

import (
	"fmt"

	"github.com/luthersystems/cljs2js/parser/rdparser"
	"github.com/luthersystems/cljs2js/parser/regexparser"
	"github.com/luthersystems/cljs2js/syntax"
)

// Reader names accepted by ReaderNamed.
const (
	ReaderRD     = "rd"
	ReaderParsec = "parsec"
)

// ReaderOption configures the reader returned by NewReader.
type ReaderOption func(*readerConfig)

type readerConfig struct {
	combinator bool
}

// WithCombinator selects the parser-combinator reader instead of the default
// recursive-descent reader.
func WithCombinator() ReaderOption {
	return func(c *readerConfig) {
		c.combinator = true
	}
}

// NewReader returns a new syntax.Reader.
func NewReader(opts ...ReaderOption) syntax.Reader {
	var c readerConfig
	for _, opt := range opts {
		opt(&c)
	}
	if c.combinator {
		return regexparser.NewReader()
	}
	return rdparser.NewReader()
}

// ReaderNamed returns the reader registered under name.  An empty name
// selects the default reader.
func ReaderNamed(name string) (syntax.Reader, error) {
	switch name {
	case "", ReaderRD:
		return NewReader(), nil
	case ReaderParsec:
		return NewReader(WithCombinator()), nil
	default:
		return nil, fmt.Errorf("unknown reader: %q", name)
	}
}
