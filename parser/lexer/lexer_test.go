// Copyright © 2024 The ELPS authors

package lexer

import (
	"reflect"
	"strings"
	"testing"

	"github.com/luthersystems/cljs2js/parser/token"
	"github.com/stretchr/testify/assert"
)

func TestLexer(t *testing.T) {
	tests := []struct {
		input  string
		tokens []*token.Token
	}{
		{``, []*token.Token{
			testToken(token.EOF, ""),
		}},
		{`abc`, []*token.Token{
			testToken(token.SYMBOL, "abc"),
			testToken(token.EOF, ""),
		}},
		{`not=()[]`, []*token.Token{
			testToken(token.SYMBOL, "not="),
			testToken(token.PAREN_L, "("),
			testToken(token.PAREN_R, ")"),
			testToken(token.BRACE_L, "["),
			testToken(token.BRACE_R, "]"),
			testToken(token.EOF, ""),
		}},
		{`(.-length s) (.push xs 1)`, []*token.Token{
			testToken(token.PAREN_L, "("),
			testToken(token.SYMBOL, ".-length"),
			testToken(token.SYMBOL, "s"),
			testToken(token.PAREN_R, ")"),
			testToken(token.PAREN_L, "("),
			testToken(token.SYMBOL, ".push"),
			testToken(token.SYMBOL, "xs"),
			testToken(token.INT, "1"),
			testToken(token.PAREN_R, ")"),
			testToken(token.EOF, ""),
		}},
		{`10 -5 - 0.1 12e12 12e-12 12.02E+5`, []*token.Token{
			testToken(token.INT, "10"),
			testToken(token.INT, "-5"),
			testToken(token.SYMBOL, "-"),
			testToken(token.FLOAT, "0.1"),
			testToken(token.FLOAT, "12e12"),
			testToken(token.FLOAT, "12e-12"),
			testToken(token.FLOAT, "12.02E+5"),
			testToken(token.EOF, ""),
		}},
		{`:foo :a/b, "abc" ""`, []*token.Token{
			testToken(token.KEYWORD, ":foo"),
			testToken(token.KEYWORD, ":a/b"),
			testToken(token.STRING, `"abc"`),
			testToken(token.STRING, `""`),
			testToken(token.EOF, ""),
		}},
		{`"a\"b" "x\ny"`, []*token.Token{
			testToken(token.STRING, `"a\"b"`),
			testToken(token.STRING, `"x\ny"`),
			testToken(token.EOF, ""),
		}},
		{`@a #(f %1 %&) #_x #js [1]`, []*token.Token{
			testToken(token.DEREF, "@"),
			testToken(token.SYMBOL, "a"),
			testToken(token.DISPATCH, "#"),
			testToken(token.PAREN_L, "("),
			testToken(token.SYMBOL, "f"),
			testToken(token.SYMBOL, "%1"),
			testToken(token.SYMBOL, "%&"),
			testToken(token.PAREN_R, ")"),
			testToken(token.DISCARD, "#_"),
			testToken(token.SYMBOL, "x"),
			testToken(token.DISPATCH, "#js"),
			testToken(token.BRACE_L, "["),
			testToken(token.INT, "1"),
			testToken(token.BRACE_R, "]"),
			testToken(token.EOF, ""),
		}},
		{"a ; comment\nb", []*token.Token{
			testToken(token.SYMBOL, "a"),
			testToken(token.COMMENT, "; comment"),
			testToken(token.SYMBOL, "b"),
			testToken(token.EOF, ""),
		}},
	}
testloop:
	for i, test := range tests {
		lex := New(token.NewScanner("", strings.NewReader(test.input)))
		var tokens []*token.Token
		numToken := 0
		for {
			tok := lex.ReadToken()
			tok.Source = nil
			tokens = append(tokens, tok)
			if tok.Type == token.EOF || tok.Type == token.ERROR {
				break
			}
			numToken++
			if numToken > 100000 {
				t.Errorf("test %d: apparent infinite scanning loop", i)
				continue testloop
			}
		}
		if !reflect.DeepEqual(tokens, test.tokens) {
			t.Errorf("test %d: unexpected tokens for input", i)
			t.Logf("source:\n\t%s", test.input)
			t.Logf("tokens:")
			for _, tok := range tokens {
				t.Logf("\t%v", tok)
			}
		}
	}
}

func TestLexerErrors(t *testing.T) {
	tests := []string{
		`"abc`,
		`{:a 1}`,
		`'x`,
		`#{1 2}`,
		`12abc`,
		`1.`,
		`#`,
	}
	for i, input := range tests {
		lex := New(token.NewScanner("", strings.NewReader(input)))
		var tok *token.Token
		for n := 0; n < 100; n++ {
			tok = lex.ReadToken()
			if tok.Type == token.ERROR || tok.Type == token.EOF {
				break
			}
		}
		assert.Equal(t, token.ERROR, tok.Type, "test %d: %q", i, input)
	}
}

func TestLexerLocation(t *testing.T) {
	lex := New(token.NewScanner("f.cljs", strings.NewReader("(a\n  :b)")))
	var toks []*token.Token
	for {
		tok := lex.ReadToken()
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	assert.Equal(t, "f.cljs:1:1", toks[0].Source.String())
	assert.Equal(t, "f.cljs:1:2", toks[1].Source.String())
	assert.Equal(t, "f.cljs:2:3", toks[2].Source.String())
	assert.Equal(t, "f.cljs:2:5", toks[3].Source.String())
}

func testToken(typ token.Type, text string) *token.Token {
	return &token.Token{
		Type: typ,
		Text: text,
	}
}
