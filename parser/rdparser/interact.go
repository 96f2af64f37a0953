// Copyright © 2024 The ELPS authors

package rdparser

import (
	"sync"

	"github.com/luthersystems/cljs2js/parser/token"
	"github.com/luthersystems/cljs2js/syntax"
)

// Interactive implements a parser that parses a single form at a time and
// defers to a line reading function when it needs more tokens.
type Interactive struct {
	prompt     string
	promptCont string
	// Read returns the tokens of one line of input.  Read must return at
	// least one token; a token.EOF token ends the session.
	Read func() []*token.Token
	buf  []*token.Token
	mut  sync.RWMutex
	p    *Parser
}

// NewInteractive initializes and returns a new Interactive parser.
func NewInteractive(read func() []*token.Token) *Interactive {
	p := &Interactive{
		Read: read,
	}
	src := NewTokenStreamSource(TokenGenerator(p.read))
	p.p = NewFromSource(src)
	return p
}

// SetPrompts configures the prompts returned by p.Prompt().  The cont string
// is used when the parser is in the middle of a form at the start of a line.
func (p *Interactive) SetPrompts(prompt, cont string) {
	p.prompt = prompt
	p.promptCont = cont
}

// Prompt returns the prompt a line reader should display.
func (p *Interactive) Prompt() string {
	if p.IsParsing() {
		return p.promptCont
	}
	return p.prompt
}

// IsParsing returns true if p is in the middle of parsing a form.  IsParsing
// may be called concurrently or when p is nil.
func (p *Interactive) IsParsing() bool {
	if p == nil {
		return false
	}
	p.mut.RLock()
	defer p.mut.RUnlock()
	return p.p.parsing
}

// read is called with p.mut held by Parse.
func (p *Interactive) read() *token.Token {
	if tok := p.readBuffer(); tok != nil {
		return tok
	}

	p.mut.Unlock()
	defer p.mut.Lock()
	if p.Read == nil {
		panic("nil read func")
	}
	p.buf = p.Read()
	if len(p.buf) == 0 {
		panic("no tokens read")
	}
	return p.readBuffer()
}

func (p *Interactive) readBuffer() *token.Token {
	if len(p.buf) == 0 {
		return nil
	}
	tok := p.buf[0]
	p.buf = p.buf[1:]
	return tok
}

// Parse parses one form from the interactive token stream.  If a parse error
// is encountered any buffered tokens (presumably from the current tty line)
// are discarded so corrected source can be re-read.
func (p *Interactive) Parse() (*syntax.Node, error) {
	p.mut.Lock()
	defer p.mut.Unlock()
	node, err := p.p.Parse()
	if err != nil {
		p.buf = nil
		return nil, err
	}
	return node, nil
}
