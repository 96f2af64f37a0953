// Copyright © 2024 The ELPS authors

package lexer

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/luthersystems/cljs2js/parser/token"
)

type LexFn func(*Lexer) *token.Token

const (
	miscWordRunes   = "0123456789#:" + miscWordSymbols
	miscWordSymbols = "._+-*/=<>!&%?$'"
)

type Lexer struct {
	scanner *token.Scanner
	lex     LexFn
}

func New(s *token.Scanner) *Lexer {
	lex := &Lexer{
		scanner: s,
		lex:     (*Lexer).readToken,
	}
	return lex
}

// ReadToken returns the next token in the stream.  At the end of input
// ReadToken returns a token with type token.EOF every time it is called.
func (lex *Lexer) ReadToken() *token.Token {
	return lex.lex(lex)
}

func (lex *Lexer) readToken() *token.Token {
	lex.skipWhitespace()
	if !lex.scanner.Accept(func(c rune) bool { return true }) {
		if lex.scanner.EOF() {
			return lex.emit(token.EOF, "")
		}
		err := lex.scanner.Err()
		if err == nil {
			err = lex.scanner.ScanRune()
		}
		return lex.emitError(err)
	}
	switch c := lex.scanner.Rune(); c {
	case '(':
		return lex.emitText(token.PAREN_L)
	case ')':
		return lex.emitText(token.PAREN_R)
	case '[':
		return lex.emitText(token.BRACE_L)
	case ']':
		return lex.emitText(token.BRACE_R)
	case '{', '}':
		return lex.errorf("map literals are not supported")
	case '\'', '`', '~':
		return lex.errorf("quoting with %q is not supported", c)
	case '@':
		return lex.emitText(token.DEREF)
	case ':':
		if lex.scanner.AcceptSeq(isWord) == 0 {
			return lex.errorf("invalid keyword %q", lex.scanner.Text())
		}
		return lex.emitText(token.KEYWORD)
	case ';':
		lex.scanner.AcceptSeq(func(c rune) bool { return c != '\n' })
		return lex.emitText(token.COMMENT)
	case '#':
		return lex.readDispatch()
	case '"':
		return lex.readString()
	case '-', '+':
		if isDigit(lex.peekRune()) {
			return lex.readNumber()
		}
		return lex.readSymbol()
	default:
		if isDigit(c) {
			return lex.readNumber()
		}
		if isWordStart(c) {
			return lex.readSymbol()
		}
		return lex.emit(token.INVALID, fmt.Sprintf("unexpected text starting with %q", c))
	}
}

func (lex *Lexer) readDispatch() *token.Token {
	switch {
	case lex.scanner.AcceptRune('_'):
		return lex.emitText(token.DISCARD)
	case lex.peekRune() == '(':
		return lex.emitText(token.DISPATCH)
	case lex.scanner.Accept(unicode.IsLetter):
		// Tagged literal, #js or #inst.  The tag is part of the marker.
		lex.scanner.AcceptSeq(isWord)
		return lex.emitText(token.DISPATCH)
	default:
		r, ok := lex.scanner.Peek()
		if !ok {
			return lex.errorf("unexpected EOF following #")
		}
		return lex.errorf("invalid dispatch macro character %q", r)
	}
}

func (lex *Lexer) readString() *token.Token {
	for {
		if lex.scanner.AcceptRune('"') {
			return lex.emitText(token.STRING)
		}
		if lex.scanner.AcceptRune('\\') {
			// Escapes are validated by the parser.
			if !lex.scanner.Accept(func(c rune) bool { return true }) {
				return lex.errorf("unterminated string literal")
			}
			continue
		}
		if !lex.scanner.Accept(func(c rune) bool { return true }) {
			if lex.scanner.EOF() {
				return lex.errorf("unterminated string literal")
			}
			return lex.errorf("scan failure: %v", lex.scanner.ScanRune())
		}
	}
}

func (lex *Lexer) emit(typ token.Type, text string) *token.Token {
	tok := &token.Token{
		Type:   typ,
		Text:   text,
		Source: lex.scanner.LocStart(),
	}
	lex.scanner.Ignore()
	return tok
}

func (lex *Lexer) emitText(typ token.Type) *token.Token {
	return lex.scanner.EmitToken(typ)
}

func (lex *Lexer) emitError(err error) *token.Token {
	if err == io.EOF {
		return lex.emit(token.ERROR, "unexpected EOF")
	}
	return lex.emit(token.ERROR, err.Error())
}

func (lex *Lexer) errorf(format string, v ...interface{}) *token.Token {
	return lex.emitError(fmt.Errorf(format, v...))
}

func (lex *Lexer) readSymbol() *token.Token {
	lex.scanner.AcceptSeq(isWord)
	return lex.emitText(token.SYMBOL)
}

func (lex *Lexer) readNumber() *token.Token {
	lex.scanner.AcceptSeqDigit() // the first digit may already be scanned
	switch {
	case lex.scanner.AcceptRune('.'):
		return lex.readFloatFraction()
	case lex.scanner.AcceptAny("eE"):
		return lex.readFloatExponent()
	default:
		return lex.checkNumberEnd(token.INT)
	}
}

func (lex *Lexer) readFloatFraction() *token.Token {
	if lex.scanner.AcceptSeqDigit() == 0 {
		return lex.errorf("invalid floating point literal starting: %v", lex.scanner.Text())
	}
	if lex.scanner.AcceptAny("eE") {
		return lex.readFloatExponent()
	}
	return lex.checkNumberEnd(token.FLOAT)
}

func (lex *Lexer) readFloatExponent() *token.Token {
	lex.scanner.AcceptAny("+-") // optional sign
	if lex.scanner.AcceptSeqDigit() == 0 {
		return lex.errorf("invalid floating point literal starting: %v", lex.scanner.Text())
	}
	return lex.checkNumberEnd(token.FLOAT)
}

func (lex *Lexer) checkNumberEnd(typ token.Type) *token.Token {
	if r, ok := lex.scanner.Peek(); ok && isWord(r) {
		return lex.errorf("invalid number literal character: %q", r)
	}
	return lex.emitText(typ)
}

func (lex *Lexer) skipWhitespace() {
	if lex.scanner.AcceptSeqSpace() > 0 {
		lex.scanner.Ignore()
	}
}

func (lex *Lexer) peekRune() rune {
	r, _ := lex.scanner.Peek()
	return r
}

func isWordStart(c rune) bool {
	return unicode.IsLetter(c) || strings.ContainsRune(miscWordSymbols, c)
}

func isWord(c rune) bool {
	return unicode.IsLetter(c) || strings.ContainsRune(miscWordRunes, c)
}

func isDigit(c rune) bool {
	return '0' <= c && c <= '9'
}
