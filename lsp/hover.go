// Copyright © 2024 The ELPS authors

package lsp

import (
	"fmt"
	"strings"

	"github.com/luthersystems/cljs2js/translate"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentHover handles the textDocument/hover request.
func (s *Server) textDocumentHover(_ *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	s.ensureAnalysis(doc)

	doc.mu.Lock()
	word := wordAtPosition(doc.Content, int(params.Position.Line), int(params.Position.Character))
	def := doc.defs[word]
	doc.mu.Unlock()
	if word == "" {
		return nil, nil
	}

	var content string
	if def != nil {
		content = buildHoverContent(def)
	} else if fdoc, ok := translate.LookupForm(word); ok {
		content = buildFormHoverContent(fdoc)
	}
	if content == "" {
		return nil, nil
	}

	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: content,
		},
	}, nil
}

// buildHoverContent builds Markdown hover text for a top-level definition.
func buildHoverContent(def *definition) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "**%s** `%s`", formKindLabel(def.Form), def.Name)
	if def.Params != nil {
		fmt.Fprintf(&sb, "\n\n```clojure\n%s\n```", formatSignature(def))
	}
	if def.Doc != "" {
		fmt.Fprintf(&sb, "\n\n%s", def.Doc)
	}
	if def.Source != nil && def.Source.Line > 0 {
		fmt.Fprintf(&sb, "\n\n*Defined on line %d*", def.Source.Line)
	}
	return sb.String()
}

// buildFormHoverContent builds Markdown hover text for a special form.
func buildFormHoverContent(d translate.FormDoc) string {
	return fmt.Sprintf("**special form** `%s`\n\n```clojure\n%s\n```\n\n%s", d.Name, d.Usage, d.Summary)
}

func formKindLabel(form translate.Form) string {
	switch form {
	case translate.FormDefn:
		return "function"
	case translate.FormNs:
		return "namespace"
	default:
		return "variable"
	}
}
