// Copyright © 2024 The ELPS authors

package diagnostic

import (
	"strings"
	"unicode/utf8"

	"github.com/luthersystems/cljs2js/parser/lexer"
	"github.com/luthersystems/cljs2js/parser/token"
)

// formEnd returns the 1-based column of the last character of the form that
// starts at column col of line.  Lists and vectors extend to their closing
// delimiter, reader macros include the form they apply to, and a form left
// open at the end of the line extends to the last token on the line.  When
// no token starts at col the result is col.
func formEnd(line string, col int) int {
	lex := lexer.New(token.NewScanner("", strings.NewReader(line)))
	depth := 0
	end := 0
	for {
		tok := lex.ReadToken()
		switch tok.Type {
		case token.EOF, token.ERROR, token.INVALID:
			if end == 0 {
				return col
			}
			return end
		}
		if end == 0 {
			if tok.Source.Col < col {
				continue
			}
			if tok.Source.Col > col {
				return col
			}
		}
		end = tok.Source.Col + utf8.RuneCountInString(tok.Text) - 1
		switch tok.Type {
		case token.PAREN_L, token.BRACE_L:
			depth++
		case token.PAREN_R, token.BRACE_R:
			depth--
		case token.DEREF, token.DISPATCH, token.DISCARD, token.COMMENT:
			continue
		}
		if depth <= 0 {
			return end
		}
	}
}
