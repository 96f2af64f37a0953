// Copyright © 2024 The ELPS authors

package lsp

import (
	"sort"
	"strings"

	"github.com/luthersystems/cljs2js/translate"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentCompletion handles the textDocument/completion request.  Items
// are the special forms followed by the document's top-level definitions
// whose names start with the word at the cursor.
func (s *Server) textDocumentCompletion(_ *glsp.Context, params *protocol.CompletionParams) (any, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	s.ensureAnalysis(doc)

	doc.mu.Lock()
	defer doc.mu.Unlock()
	prefix := wordAtPosition(doc.Content, int(params.Position.Line), int(params.Position.Character))

	items := []protocol.CompletionItem{}
	for _, d := range translate.Forms() {
		if !strings.HasPrefix(d.Name, prefix) || d.Name == "." || d.Name == ".-" {
			continue
		}
		kind := protocol.CompletionItemKindKeyword
		usage := d.Usage
		items = append(items, protocol.CompletionItem{
			Label:  d.Name,
			Kind:   &kind,
			Detail: &usage,
			Documentation: &protocol.MarkupContent{
				Kind:  protocol.MarkupKindMarkdown,
				Value: d.Summary,
			},
		})
	}

	names := make([]string, 0, len(doc.defs))
	for name, def := range doc.defs {
		if def.Form != translate.FormNs && strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		def := doc.defs[name]
		kind := mapCompletionItemKind(def.Form)
		item := protocol.CompletionItem{
			Label: name,
			Kind:  &kind,
		}
		item.Detail = symbolDetail(def)
		if def.Doc != "" {
			item.Documentation = &protocol.MarkupContent{
				Kind:  protocol.MarkupKindMarkdown,
				Value: def.Doc,
			}
		}
		items = append(items, item)
	}
	return items, nil
}
