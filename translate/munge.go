// Copyright © 2024 The ELPS authors

package translate

import (
	"strings"
)

var mungeChars = map[rune]string{
	'-':  "_",
	'?':  "_QMARK_",
	'!':  "_BANG_",
	'*':  "_STAR_",
	'+':  "_PLUS_",
	'>':  "_GT_",
	'<':  "_LT_",
	'=':  "_EQ_",
	'/':  "_SLASH_",
	'\'': "_SINGLEQUOTE_",
	'%':  "_PERCENT_",
	'&':  "_AMPERSAND_",
	'$':  "_DOLLAR_",
	'#':  "_HASH_",
	':':  "_COLON_",
}

var jsReserved = map[string]bool{
	"abstract": true, "arguments": true, "await": true, "boolean": true,
	"break": true, "byte": true, "case": true, "catch": true, "char": true,
	"class": true, "const": true, "continue": true, "debugger": true,
	"default": true, "delete": true, "do": true, "double": true, "else": true,
	"enum": true, "eval": true, "export": true, "extends": true, "false": true,
	"final": true, "finally": true, "float": true, "for": true,
	"function": true, "goto": true, "if": true, "implements": true,
	"import": true, "in": true, "instanceof": true, "int": true,
	"interface": true, "let": true, "long": true, "native": true, "new": true,
	"null": true, "package": true, "private": true, "protected": true,
	"public": true, "return": true, "short": true, "static": true,
	"super": true, "switch": true, "synchronized": true, "this": true,
	"throw": true, "throws": true, "transient": true, "true": true,
	"try": true, "typeof": true, "undefined": true, "var": true, "void": true,
	"volatile": true, "while": true, "with": true, "yield": true,
}

// Munge rewrites a source symbol into a JavaScript identifier path.  Each
// dot separated segment is munged independently and reserved words gain a
// trailing '$'.  A namespace qualifier (ns/name) becomes a path prefix.
func Munge(name string) string {
	if i := strings.IndexByte(name, '/'); i > 0 && i < len(name)-1 {
		name = name[:i] + "." + name[i+1:]
	}
	segments := strings.Split(name, ".")
	for i, seg := range segments {
		segments[i] = mungeSegment(seg)
	}
	return strings.Join(segments, ".")
}

func mungeSegment(seg string) string {
	var b strings.Builder
	for _, c := range seg {
		if s, ok := mungeChars[c]; ok {
			b.WriteString(s)
		} else {
			b.WriteRune(c)
		}
	}
	s := b.String()
	if jsReserved[s] {
		s += "$"
	}
	return s
}
