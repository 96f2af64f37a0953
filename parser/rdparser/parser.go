// Copyright © 2024 The ELPS authors

package rdparser

import (
	"fmt"
	"io"
	"strconv"

	"github.com/luthersystems/cljs2js/parser/token"
	"github.com/luthersystems/cljs2js/syntax"
)

type reader struct {
}

// NewReader returns a syntax.Reader backed by a recursive-descent Parser.
func NewReader() syntax.Reader {
	return &reader{}
}

// Read implements syntax.Reader.
func (*reader) Read(name string, r io.Reader) (*syntax.Node, error) {
	s := token.NewScanner(name, r)
	p := New(s)
	return p.ParseProgram()
}

// Parser is a recursive-descent reader for Clojure-family source.
type Parser struct {
	parsing bool
	src     *TokenSource
}

// NewFromSource initializes and returns a Parser that reads tokens from src.
func NewFromSource(src *TokenSource) *Parser {
	return &Parser{
		src: src,
	}
}

// New initializes and returns a new Parser that reads tokens from scanner.
func New(scanner *token.Scanner) *Parser {
	return NewFromSource(NewTokenSource(scanner))
}

// Parse reads one top-level form.  Atoms are returned boxed in a Leaf, as
// they would appear inside a Forms chain.  Parse returns io.EOF when no forms
// remain.
func (p *Parser) Parse() (*syntax.Node, error) {
	p.ignoreComments()
	if p.src.IsEOF() {
		return nil, io.EOF
	}
	expr, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	return box(expr), nil
}

// ParseProgram parses every form in the input and returns them as one Forms
// chain.  An empty program returns a nil node.
func (p *Parser) ParseProgram() (*syntax.Node, error) {
	var forms []*syntax.Node
	for {
		form, err := p.Parse()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		forms = append(forms, form)
	}
	return syntax.NewForms(forms...), nil
}

// ParseExpression parses a single unboxed expression.  Unlike Parse,
// ParseExpression requires an expression to be present in the input stream.
func (p *Parser) ParseExpression() (*syntax.Node, error) {
	fn := p.parseExpression()

	// Flag that we are in the middle of an expression so that an Interactive
	// parser can pick the continuation prompt.
	if !p.parsing {
		p.parsing = true
		defer func() { p.parsing = false }()
	}

	return fn(p)
}

func (p *Parser) parseExpression() func(p *Parser) (*syntax.Node, error) {
	p.ignoreComments()
	switch p.PeekType() {
	case token.INT, token.FLOAT:
		return (*Parser).ParseLiteralNumber
	case token.STRING:
		return (*Parser).ParseLiteralString
	case token.SYMBOL:
		return (*Parser).ParseSymbol
	case token.KEYWORD:
		return (*Parser).ParseKeyword
	case token.PAREN_L:
		return (*Parser).ParseList
	case token.BRACE_L:
		return (*Parser).ParseVector
	case token.DEREF, token.DISPATCH, token.DISCARD:
		return (*Parser).ParseMacro
	case token.EOF:
		return func(p *Parser) (*syntax.Node, error) {
			p.ReadToken()
			return nil, p.errorf("unexpected EOF")
		}
	case token.ERROR, token.INVALID:
		return func(p *Parser) (*syntax.Node, error) {
			p.ReadToken()
			return nil, p.errorf("%s", p.TokenText())
		}
	default:
		return func(p *Parser) (*syntax.Node, error) {
			p.ReadToken()
			return nil, p.errorf("unexpected token: %v", p.TokenType())
		}
	}
}

func (p *Parser) ParseLiteralNumber() (*syntax.Node, error) {
	if !p.Accept(token.INT, token.FLOAT) {
		return nil, p.errorf("invalid number literal: %v", p.PeekType())
	}
	text := p.TokenText()
	x, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, p.errorf("invalid number literal: %v", text)
	}
	return p.node(syntax.NewNumber(x, text)), nil
}

func (p *Parser) ParseLiteralString() (*syntax.Node, error) {
	if !p.Accept(token.STRING) {
		return nil, p.errorf("invalid string literal: %v", p.PeekType())
	}
	text := p.TokenText()
	s, err := token.Unquote(text)
	if err != nil {
		return nil, p.errorf("invalid string literal %s: %v", text, err)
	}
	return p.node(syntax.NewString(s)), nil
}

func (p *Parser) ParseSymbol() (*syntax.Node, error) {
	if !p.Accept(token.SYMBOL) {
		return nil, p.errorf("invalid symbol: %v", p.PeekType())
	}
	switch text := p.TokenText(); text {
	case "true", "false":
		return p.node(syntax.NewBoolean(text == "true")), nil
	default:
		return p.node(syntax.NewSymbol(text)), nil
	}
}

func (p *Parser) ParseKeyword() (*syntax.Node, error) {
	if !p.Accept(token.KEYWORD) {
		return nil, p.errorf("invalid keyword: %v", p.PeekType())
	}
	return p.node(syntax.NewKeyword(p.TokenText())), nil
}

func (p *Parser) ParseList() (*syntax.Node, error) {
	if !p.Accept(token.PAREN_L) {
		return nil, p.errorf("invalid list: %v", p.PeekType())
	}
	loc := p.Location()
	elems, err := p.parseElements(token.PAREN_R)
	if err != nil {
		return nil, err
	}
	list := &syntax.Node{Kind: syntax.List, Source: loc}
	if len(elems) > 0 {
		list.Left = elems[0]
		list.Right = syntax.NewForms(elems[1:]...)
	}
	return list, nil
}

func (p *Parser) ParseVector() (*syntax.Node, error) {
	if !p.Accept(token.BRACE_L) {
		return nil, p.errorf("invalid vector: %v", p.PeekType())
	}
	loc := p.Location()
	elems, err := p.parseElements(token.BRACE_R)
	if err != nil {
		return nil, err
	}
	return &syntax.Node{Kind: syntax.Vector, Left: syntax.NewForms(elems...), Source: loc}, nil
}

func (p *Parser) parseElements(closing token.Type) ([]*syntax.Node, error) {
	open := p.src.Token
	var elems []*syntax.Node
	for {
		p.ignoreComments()
		if p.src.IsEOF() {
			p.ReadToken()
			return nil, &token.LocationError{
				Err:    fmt.Errorf("unmatched %s", open.Text),
				Source: open.Source,
			}
		}
		if p.Accept(closing) {
			return elems, nil
		}
		x, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		elems = append(elems, box(x))
	}
}

// ParseMacro parses a reader macro and the form it applies to.  The #(...)
// shorthand must be followed immediately by a list.
func (p *Parser) ParseMacro() (*syntax.Node, error) {
	if !p.Accept(token.DEREF, token.DISPATCH, token.DISCARD) {
		return nil, p.errorf("invalid reader macro: %v", p.PeekType())
	}
	loc := p.Location()
	marker := p.TokenText()
	if marker == syntax.MarkerDispatch && p.PeekType() != token.PAREN_L {
		p.ReadToken()
		return nil, p.errorf("# must be followed by a list")
	}
	operand, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	m := syntax.NewMacro(marker, box(operand))
	m.Left.Source = loc
	m.Source = loc
	return m, nil
}

func (p *Parser) ignoreComments() {
	for p.Accept(token.COMMENT) {
	}
}

func (p *Parser) ReadToken() *token.Token {
	p.src.Scan()
	return p.src.Token
}

func (p *Parser) TokenText() string {
	return p.src.Token.Text
}

func (p *Parser) TokenType() token.Type {
	return p.src.Token.Type
}

func (p *Parser) Location() *token.Location {
	return p.src.Token.Source
}

func (p *Parser) PeekType() token.Type {
	return p.src.Peek().Type
}

func (p *Parser) Accept(typ ...token.Type) bool {
	return p.src.AcceptType(typ...)
}

func (p *Parser) node(n *syntax.Node) *syntax.Node {
	n.Source = p.Location()
	return n
}

func (p *Parser) errorf(format string, v ...interface{}) error {
	return &token.LocationError{
		Err:    fmt.Errorf(format, v...),
		Source: p.Location(),
	}
}

// box wraps atoms in a Leaf so they can appear where a composite is
// structurally expected.
func box(n *syntax.Node) *syntax.Node {
	switch n.Kind {
	case syntax.Symbol, syntax.String, syntax.Number, syntax.Boolean:
		return syntax.NewLeaf(n)
	default:
		return n
	}
}
