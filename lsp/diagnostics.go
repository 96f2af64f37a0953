// Copyright © 2024 The ELPS authors

package lsp

import (
	"errors"
	"strings"
	"time"

	"github.com/luthersystems/cljs2js/diagnostic"
	"github.com/luthersystems/cljs2js/translate"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

const debounceDelay = 300 * time.Millisecond

// textDocumentDidOpen handles the textDocument/didOpen notification.
func (s *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.captureNotify(ctx)
	doc := s.docs.Open(
		params.TextDocument.URI,
		int32(params.TextDocument.Version),
		params.TextDocument.Text,
	)
	s.analyzeAndPublish(doc)
	return nil
}

// textDocumentDidChange handles the textDocument/didChange notification.
func (s *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	s.captureNotify(ctx)
	// With full sync, the last content change is the complete document.
	var content string
	for _, change := range params.ContentChanges {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			content = c.Text
		case protocol.TextDocumentContentChangeEvent:
			content = c.Text
		}
	}

	doc := s.docs.Change(
		params.TextDocument.URI,
		int32(params.TextDocument.Version),
		content,
	)

	// Debounce: delay analysis to avoid thrashing during rapid edits.
	s.debounceMu.Lock()
	if t, ok := s.debounce[doc.URI]; ok {
		t.Stop()
	}
	s.debounce[doc.URI] = time.AfterFunc(debounceDelay, func() {
		defer func() {
			if r := recover(); r != nil {
				s.log.WithField("uri", doc.URI).Errorf("analysis panic: %v", r)
			}
		}()
		d := s.docs.Get(doc.URI)
		if d != nil {
			s.analyzeAndPublish(d)
		}
	})
	s.debounceMu.Unlock()
	return nil
}

// textDocumentDidSave handles the textDocument/didSave notification.
func (s *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	s.captureNotify(ctx)
	// Cancel any pending debounce and publish immediately.
	s.cancelDebounce(params.TextDocument.URI)
	doc := s.docs.Get(params.TextDocument.URI)
	if doc != nil {
		s.analyzeAndPublish(doc)
	}
	return nil
}

// textDocumentDidClose handles the textDocument/didClose notification.
func (s *Server) textDocumentDidClose(_ *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.cancelDebounce(params.TextDocument.URI)

	// Clear diagnostics for the closed file.
	s.sendNotification(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})

	s.docs.Close(params.TextDocument.URI)
	return nil
}

func (s *Server) cancelDebounce(uri string) {
	s.debounceMu.Lock()
	if t, ok := s.debounce[uri]; ok {
		t.Stop()
		delete(s.debounce, uri)
	}
	s.debounceMu.Unlock()
}

// analyzeAndPublish reads and translates a document and publishes the
// resulting diagnostics to the client.
func (s *Server) analyzeAndPublish(doc *Document) {
	s.ensureAnalysis(doc)

	// Snapshot document fields under the lock.
	doc.mu.Lock()
	errs := doc.errors()
	content := doc.Content
	uri := doc.URI
	doc.mu.Unlock()

	diags := []protocol.Diagnostic{}
	for _, err := range errs {
		diags = append(diags, convertError(content, err))
	}
	s.log.WithField("uri", uri).WithField("count", len(diags)).Debug("publish diagnostics")

	s.sendNotification(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diags,
	})
}

// convertError converts a reader or translation error to an LSP Diagnostic.
// The range covers the word at the error location, or a single character
// when the location starts a list.
func convertError(content string, err error) protocol.Diagnostic {
	d := diagnostic.FromError(err)
	out := protocol.Diagnostic{
		Severity: severity(protocol.DiagnosticSeverityError),
		Source:   strPtr("cljs2js"),
		Message:  d.Message,
	}
	var terr *translate.Error
	if errors.As(err, &terr) {
		out.Code = &protocol.IntegerOrString{Value: strings.ReplaceAll(terr.Err.Error(), " ", "-")}
	}
	if len(d.Spans) == 0 {
		return out
	}
	span := d.Spans[0]
	if span.Label != "" {
		out.Message += ": " + span.Label
	}
	line, col := span.Line-1, span.Col-1
	if col < 0 {
		col = 0
	}
	width := len(wordAtPosition(content, line, col))
	if width == 0 {
		width = 1
	}
	start := protocol.Position{Line: safeUint(line), Character: safeUint(col)}
	out.Range = protocol.Range{
		Start: start,
		End:   protocol.Position{Line: start.Line, Character: start.Character + safeUint(width)},
	}
	return out
}

func severity(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity {
	return &s
}

func strPtr(s string) *string {
	return &s
}
