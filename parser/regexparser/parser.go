// Copyright © 2018 The ELPS authors

/*
Package regexparser provides a combinator based reader for Clojure-family
source.  It accepts the same language as rdparser and exists mostly as a cross
check of that implementation.

	expr     := <comment> | <term> | <list> | <vector> | <macro>
	list     := '(' <expr>* ')'
	vector   := '[' <expr>* ']'
	macro    := '@' <expr> | '#_' <expr> | '#' <list> | <tag> <expr>
	term     := <string> | <number> | <keyword> | <symbol>
	number   := /[+-]?[0-9]+/ <fraction>? <exponent>?
	keyword  := ':' <symbol>
*/
package regexparser

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/luthersystems/cljs2js/parser/token"
	"github.com/luthersystems/cljs2js/syntax"
	parsec "github.com/prataprc/goparsec"
)

// NewReader returns a syntax.Reader.
func NewReader() syntax.Reader {
	return &parsecReader{}
}

type parsecReader struct{}

func (p *parsecReader) Read(name string, r io.Reader) (*syntax.Node, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return ParseNodes(name, b)
}

const (
	nodeInvalid nodeType = iota
	nodeTerm
	nodeList
	nodeVector
	nodeMacro
)

var nodeTypeStrings = []string{
	nodeInvalid: "INVALID",
	nodeTerm:    "TERM",
	nodeList:    "LIST",
	nodeVector:  "VECTOR",
	nodeMacro:   "MACRO",
}

type nodeType uint

func (t nodeType) String() string {
	if int(t) >= len(nodeTypeStrings) {
		return "INVALID"
	}
	return nodeTypeStrings[t]
}

// ParseNodes parses the program in text and returns it as a Forms chain.  The
// chain is nil when text holds no forms.
func ParseNodes(name string, text []byte) (*syntax.Node, error) {
	b := &builder{file: name, lines: lineStarts(text)}
	s := parsec.NewScanner(text)
	parser := b.parser()
	var forms []*syntax.Node
	root, s := parser(s)
	for root != nil {
		nodes, ok := cleanParsecNodeList([]parsec.ParsecNode{root})
		if !ok {
			return nil, nodes[0].(error)
		}
		for _, n := range nodes {
			// a bare comment leaves nothing behind
			if n, ok := n.(*syntax.Node); ok {
				forms = append(forms, box(n))
			}
		}
		root, s = parser(s)
	}
	_, s = s.SkipWS()
	if !s.Endof() {
		m, _ := s.Match(`.{1,16}`)
		if len(m) > 15 {
			m = append(m[:15:15], []byte("...")...)
		}
		return nil, &token.LocationError{
			Err:    fmt.Errorf("unexpected source text possibly starting: %s", m),
			Source: b.locate(s.GetCursor()),
		}
	}
	return syntax.NewForms(forms...), nil
}

type builder struct {
	file  string
	lines []int
}

func lineStarts(text []byte) []int {
	starts := []int{0}
	for i, c := range text {
		if c == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

func (b *builder) locate(pos int) *token.Location {
	line := sort.SearchInts(b.lines, pos+1) - 1
	if line < 0 {
		line = 0
	}
	return &token.Location{
		File: b.file,
		Pos:  pos,
		Line: line + 1,
		Col:  pos - b.lines[line] + 1,
	}
}

func (b *builder) parser() parsec.Parser {
	openP := parsec.Atom("(", "OPENP")
	closeP := parsec.Atom(")", "CLOSEP")
	openB := parsec.Atom("[", "OPENB")
	closeB := parsec.Atom("]", "CLOSEB")
	deref := parsec.Atom("@", "DEREF")
	discard := parsec.Atom("#_", "DISCARD")
	dispatch := parsec.Atom("#", "DISPATCH")
	comma := parsec.Atom(",", "COMMA")
	tag := parsec.Token(`#\pL(?:\pL|[0-9]|[._\-])*`, "TAG")
	comment := parsec.Token(`;([^\n]*[^\s])?`, "COMMENT")
	str := parsec.Token(`"(?:[^"\\]|\\.)*"`, "STRING")
	decimal := parsec.Token(`[+-]?[0-9]+([.][0-9]+)?([eE][+-]?[0-9]+)?`, "DECIMAL")
	keyword := parsec.Token(`:(?:\pL|[0-9]|[._+\-*/\=<>!&%?$:#])+`, "KEYWORD")
	symbol := parsec.Token(`(?:\pL|[._+\-*/\=<>!&%?$])(?:\pL|[0-9]|[._+\-*/\=<>!&%?$'#:])*`, "SYMBOL")
	term := parsec.OrdChoice(b.nodify(nodeTerm),
		str,
		decimal,
		keyword,
		symbol, // symbol comes last because it swallows anything
	)
	var expr parsec.Parser // forward declaration allows for recursive parsing
	exprList := parsec.Kleene(nil, &expr)
	list := parsec.And(b.nodify(nodeList), openP, exprList, closeP)
	vector := parsec.And(b.nodify(nodeVector), openB, exprList, closeB)
	macro := parsec.OrdChoice(nil,
		parsec.And(b.nodify(nodeMacro), deref, &expr),
		parsec.And(b.nodify(nodeMacro), discard, &expr),
		parsec.And(b.nodify(nodeMacro), tag, &expr),
		parsec.And(b.nodify(nodeMacro), dispatch, list),
	)
	expr = parsec.OrdChoice(nil,
		comment,
		comma,
		term,
		list,
		vector,
		macro,
	)
	return expr
}

func (b *builder) nodify(typ nodeType) parsec.Nodify {
	return func(nodes []parsec.ParsecNode) parsec.ParsecNode {
		return b.newNode(typ, nodes)
	}
}

func (b *builder) newNode(typ nodeType, nodes []parsec.ParsecNode) parsec.ParsecNode {
	nodes, ok := cleanParsecNodeList(nodes)
	if !ok {
		// There is an error in the first position.
		return nodes[0]
	}
	if len(nodes) == 0 {
		return fmt.Errorf("empty %v node", typ)
	}
	first, ok := nodes[0].(*parsec.Terminal)
	if !ok {
		return fmt.Errorf("unexpected %v node: %T", typ, nodes[0])
	}
	switch typ {
	case nodeTerm:
		return b.termNode(first)
	case nodeList, nodeVector:
		// We don't want the terminal nodes for the brackets
		var elems []*syntax.Node
		for _, c := range nodes {
			if c, ok := c.(*syntax.Node); ok {
				elems = append(elems, box(c))
			}
		}
		var n *syntax.Node
		if typ == nodeList {
			n = &syntax.Node{Kind: syntax.List}
			if len(elems) > 0 {
				n.Left = elems[0]
				n.Right = syntax.NewForms(elems[1:]...)
			}
		} else {
			n = syntax.NewVector(elems...)
		}
		n.Source = b.locate(first.Position)
		return n
	case nodeMacro:
		if len(nodes) < 2 {
			return &token.LocationError{
				Err:    fmt.Errorf("reader macro %s is missing its operand", first.Value),
				Source: b.locate(first.Position),
			}
		}
		operand, ok := nodes[1].(*syntax.Node)
		if !ok {
			return fmt.Errorf("unexpected macro operand: %T", nodes[1])
		}
		n := syntax.NewMacro(first.Value, box(operand))
		n.Left.Source = b.locate(first.Position)
		n.Source = n.Left.Source
		return n
	default:
		panic(fmt.Sprintf("unknown nodeType: %s (%d)", typ, typ))
	}
}

func (b *builder) termNode(term *parsec.Terminal) parsec.ParsecNode {
	loc := b.locate(term.Position)
	var n *syntax.Node
	switch term.Name {
	case "STRING":
		s, err := token.Unquote(term.Value)
		if err != nil {
			return &token.LocationError{Err: fmt.Errorf("invalid string literal %s: %v", term.Value, err), Source: loc}
		}
		n = syntax.NewString(s)
	case "DECIMAL":
		x, err := strconv.ParseFloat(term.Value, 64)
		if err != nil {
			return &token.LocationError{Err: fmt.Errorf("invalid number literal: %v", term.Value), Source: loc}
		}
		n = syntax.NewNumber(x, term.Value)
	case "KEYWORD":
		n = syntax.NewKeyword(term.Value)
	case "SYMBOL":
		switch term.Value {
		case "true", "false":
			n = syntax.NewBoolean(term.Value == "true")
		default:
			n = syntax.NewSymbol(term.Value)
		}
	default:
		return &token.LocationError{Err: fmt.Errorf("unexpected terminal: %v", term.Name), Source: loc}
	}
	n.Source = loc
	return n
}

// cleanParsecNodeList flattens nested match results and drops comments and
// commas.  An error anywhere in lis is returned alone with false.
func cleanParsecNodeList(lis []parsec.ParsecNode) ([]parsec.ParsecNode, bool) {
	var nodes []parsec.ParsecNode
	for _, n := range lis {
		switch node := n.(type) {
		case *parsec.Terminal:
			if node.Name == "COMMENT" || node.Name == "COMMA" {
				continue
			}
			nodes = append(nodes, node)
		case error:
			return []parsec.ParsecNode{node}, false
		case []parsec.ParsecNode:
			clean, ok := cleanParsecNodeList(node)
			if !ok {
				return clean, false
			}
			nodes = append(nodes, clean...)
		default:
			nodes = append(nodes, node)
		}
	}
	return nodes, true
}

func box(n *syntax.Node) *syntax.Node {
	switch n.Kind {
	case syntax.Symbol, syntax.String, syntax.Number, syntax.Boolean:
		return syntax.NewLeaf(n)
	}
	return n
}
