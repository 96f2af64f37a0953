// Copyright © 2024 The ELPS authors

package lsp

import (
	"strings"

	"github.com/luthersystems/cljs2js/parser/lexer"
	"github.com/luthersystems/cljs2js/parser/token"
	"github.com/luthersystems/cljs2js/translate"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentSignatureHelp handles textDocument/signatureHelp requests.
// It finds the enclosing call at the cursor position, looks up its
// signature, and returns parameter hints.
func (s *Server) textDocumentSignatureHelp(_ *glsp.Context, params *protocol.SignatureHelpParams) (*protocol.SignatureHelp, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	s.ensureAnalysis(doc)

	doc.mu.Lock()
	content := doc.Content
	defs := doc.defs
	doc.mu.Unlock()

	offset := offsetAt(content, int(params.Position.Line), int(params.Position.Character))
	name, argIdx := enclosingCall(content, offset)
	if name == "" {
		return nil, nil
	}

	if def, ok := defs[name]; ok && def.Params != nil {
		return buildSignatureHelp(formatSignature(def), len(def.Name)+1, def.Doc, argIdx), nil
	}
	if fdoc, ok := translate.LookupForm(name); ok {
		return buildSignatureHelp(fdoc.Usage, len(fdoc.Name)+1, fdoc.Summary, argIdx), nil
	}
	return nil, nil
}

// offsetAt converts a 0-based line and column to a byte offset in content.
func offsetAt(content string, line, col int) int {
	offset := 0
	for i := 0; i < line; i++ {
		nl := strings.IndexByte(content[offset:], '\n')
		if nl < 0 {
			return len(content)
		}
		offset += nl + 1
	}
	end := strings.IndexByte(content[offset:], '\n')
	if end < 0 {
		end = len(content) - offset
	}
	if col > end {
		col = end
	}
	return offset + col
}

type callFrame struct {
	list  bool
	head  string
	count int
	skip  int
}

// enclosingCall lexes content up to offset and returns the head symbol of
// the innermost unclosed list together with the 0-based index of the
// argument under the cursor.  Elements count only once they end strictly
// before the cursor, so a cursor touching the end of a word stays on that
// word.  It returns ("", 0) when the cursor is not inside a call.
func enclosingCall(content string, offset int) (string, int) {
	lex := lexer.New(token.NewScanner("", strings.NewReader(content)))
	var stack []*callFrame
	element := func(end int) {
		if len(stack) == 0 {
			return
		}
		top := stack[len(stack)-1]
		if top.skip > 0 {
			top.skip--
			return
		}
		if end < offset {
			top.count++
		}
	}
	for {
		tok := lex.ReadToken()
		if tok.Type == token.EOF || tok.Type == token.ERROR || tok.Source.Pos >= offset {
			break
		}
		end := tok.Source.Pos + len(tok.Text)
		switch tok.Type {
		case token.PAREN_L, token.BRACE_L:
			stack = append(stack, &callFrame{list: tok.Type == token.PAREN_L})
		case token.PAREN_R, token.BRACE_R:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
			element(end)
		case token.DISCARD:
			if len(stack) > 0 {
				stack[len(stack)-1].skip++
			}
		case token.DEREF, token.DISPATCH, token.COMMENT:
		default:
			if len(stack) > 0 {
				top := stack[len(stack)-1]
				if top.list && top.head == "" && top.count == 0 && top.skip == 0 && tok.Type == token.SYMBOL {
					top.head = tok.Text
				}
			}
			element(end)
		}
	}
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i].list && stack[i].head != "" {
			return stack[i].head, stack[i].count - 1
		}
	}
	return "", 0
}

// usageParams splits the parameter part of a usage string into labels,
// keeping bracketed and parenthesized groups together.  The returned spans
// are byte offsets into usage.
func usageParams(usage string, start int) [][2]int {
	var spans [][2]int
	depth := 0
	begin := -1
	inner := strings.TrimSuffix(usage, ")")
	for i := start; i < len(inner); i++ {
		c := inner[i]
		switch {
		case c == '(' || c == '[':
			if depth == 0 && begin < 0 {
				begin = i
			}
			depth++
		case c == ')' || c == ']':
			depth--
		case c == ' ' && depth == 0:
			if begin >= 0 {
				spans = append(spans, [2]int{begin, i})
				begin = -1
			}
		default:
			if begin < 0 {
				begin = i
			}
		}
	}
	if begin >= 0 {
		spans = append(spans, [2]int{begin, len(inner)})
	}
	// A rest marker belongs to the parameter that follows it.
	for i := 0; i < len(spans)-1; i++ {
		if usage[spans[i][0]:spans[i][1]] == "&" {
			spans[i+1][0] = spans[i][0]
			spans = append(spans[:i], spans[i+1:]...)
		}
	}
	return spans
}

// buildSignatureHelp constructs an LSP SignatureHelp from a usage label
// such as "(name a b)" whose parameters begin at offset start.
func buildSignatureHelp(label string, start int, doc string, activeParam int) *protocol.SignatureHelp {
	var params []protocol.ParameterInformation
	for _, span := range usageParams(label, start) {
		params = append(params, protocol.ParameterInformation{
			Label: []protocol.UInteger{safeUint(span[0]), safeUint(span[1])},
		})
	}

	// Clamp active parameter to valid range.
	ap := activeParam
	if len(params) > 0 && ap > len(params)-1 {
		ap = len(params) - 1
	}
	if ap < 0 {
		ap = 0
	}
	active := uint32(ap) // #nosec G115 -- clamped to [0, len(params)-1]

	sigInfo := protocol.SignatureInformation{
		Label:      label,
		Parameters: params,
	}
	if doc != "" {
		sigInfo.Documentation = protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: doc,
		}
	}

	return &protocol.SignatureHelp{
		Signatures:      []protocol.SignatureInformation{sigInfo},
		ActiveSignature: uintPtr(0),
		ActiveParameter: &active,
	}
}

func uintPtr(v uint32) *uint32 {
	return &v
}
