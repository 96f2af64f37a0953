// Copyright © 2024 The ELPS authors

package lsp

import (
	"sort"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentDocumentSymbol handles the textDocument/documentSymbol request.
// Symbols are the namespace and the names bound by def and defn, in
// source order.
func (s *Server) textDocumentDocumentSymbol(_ *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	s.ensureAnalysis(doc)

	doc.mu.Lock()
	defs := make([]*definition, 0, len(doc.defs))
	for _, def := range doc.defs {
		if def.Source != nil && def.Source.Line > 0 {
			defs = append(defs, def)
		}
	}
	doc.mu.Unlock()
	sort.Slice(defs, func(i, j int) bool { return defs[i].Source.Pos < defs[j].Source.Pos })

	symbols := []protocol.DocumentSymbol{}
	for _, def := range defs {
		r := toLSPRange(def.Source, len(def.Name))
		symbols = append(symbols, protocol.DocumentSymbol{
			Name:           def.Name,
			Detail:         symbolDetail(def),
			Kind:           mapSymbolKind(def.Form),
			Range:          r,
			SelectionRange: r,
		})
	}
	return symbols, nil
}

// symbolDetail builds a short detail string (e.g., function signature).
func symbolDetail(def *definition) *string {
	if def.Params == nil {
		return nil
	}
	s := formatSignature(def)
	return &s
}
