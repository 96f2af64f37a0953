// Copyright © 2024 The ELPS authors

package token

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Unquote interprets text, the source of a double-quoted string literal, and
// returns the string value it represents.
func Unquote(text string) (string, error) {
	if len(text) < 2 || text[0] != '"' || text[len(text)-1] != '"' {
		return "", fmt.Errorf("not a quoted string")
	}
	s := text[1 : len(text)-1]
	if !strings.ContainsRune(s, '\\') {
		return s, nil
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(s) {
			return "", fmt.Errorf("trailing backslash")
		}
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case '"', '\\', '\'':
			b.WriteByte(s[i])
		case 'u':
			if i+5 > len(s) {
				return "", fmt.Errorf("short unicode escape")
			}
			x, err := strconv.ParseUint(s[i+1:i+5], 16, 32)
			if err != nil {
				return "", fmt.Errorf("invalid unicode escape: %v", err)
			}
			var buf [utf8.UTFMax]byte
			n := utf8.EncodeRune(buf[:], rune(x))
			b.Write(buf[:n])
			i += 4
		default:
			return "", fmt.Errorf("unsupported escape character %q", s[i])
		}
	}
	return b.String(), nil
}
