// Copyright © 2024 The ELPS authors

package lsp

import (
	"testing"

	"github.com/luthersystems/cljs2js/parser/token"
	"github.com/luthersystems/cljs2js/translate"
	"github.com/luthersystems/cljs2js/transtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// testServer creates a server that logs through the test.
func testServer(t *testing.T) *Server {
	return New(WithLogger(transtest.NewLogrus(t)))
}

// openDoc opens a document in the test server and returns it.
func openDoc(s *Server, uri, content string) *Document {
	return s.docs.Open(uri, 1, content)
}

// mockContext returns a minimal glsp.Context for testing.
func mockContext() *glsp.Context {
	return &glsp.Context{
		Notify: func(method string, params any) {},
	}
}

// capturingContext returns a context that captures published diagnostics.
func capturingContext() (*glsp.Context, *[]*protocol.PublishDiagnosticsParams) {
	var captured []*protocol.PublishDiagnosticsParams
	ctx := &glsp.Context{
		Notify: func(method string, params any) {
			if method == protocol.ServerTextDocumentPublishDiagnostics {
				captured = append(captured, params.(*protocol.PublishDiagnosticsParams))
			}
		},
	}
	return ctx, &captured
}

// completionLabels extracts labels from a completion result.
func completionLabels(t *testing.T, result any) []string {
	t.Helper()
	require.NotNil(t, result, "completion result should not be nil")
	items, ok := result.([]protocol.CompletionItem)
	require.True(t, ok, "completion result should be []CompletionItem, got %T", result)
	labels := make([]string, len(items))
	for i, item := range items {
		labels[i] = item.Label
	}
	return labels
}

func positionParams(uri string, line, char uint32) protocol.TextDocumentPositionParams {
	return protocol.TextDocumentPositionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
		Position:     protocol.Position{Line: line, Character: char},
	}
}

// --- Position conversion tests ---

func TestPositionConversion(t *testing.T) {
	t.Run("1-based to 0-based", func(t *testing.T) {
		pos := toLSPPosition(&token.Location{File: "test.cljs", Line: 1, Col: 1})
		assert.Equal(t, protocol.UInteger(0), pos.Line)
		assert.Equal(t, protocol.UInteger(0), pos.Character)
	})
	t.Run("multi-digit", func(t *testing.T) {
		pos := toLSPPosition(&token.Location{File: "test.cljs", Line: 5, Col: 10})
		assert.Equal(t, protocol.UInteger(4), pos.Line)
		assert.Equal(t, protocol.UInteger(9), pos.Character)
	})
	t.Run("zero values clamp", func(t *testing.T) {
		pos := toLSPPosition(&token.Location{File: "test.cljs", Line: 0, Col: 0})
		assert.Equal(t, protocol.UInteger(0), pos.Line)
		assert.Equal(t, protocol.UInteger(0), pos.Character)
	})
}

func TestPositionRange(t *testing.T) {
	loc := &token.Location{File: "test.cljs", Line: 3, Col: 5}
	r := toLSPRange(loc, 5)
	assert.Equal(t, protocol.UInteger(2), r.Start.Line)
	assert.Equal(t, protocol.UInteger(4), r.Start.Character)
	assert.Equal(t, protocol.UInteger(2), r.End.Line)
	assert.Equal(t, protocol.UInteger(9), r.End.Character)
}

// --- Word at position tests ---

func TestWordAtPosition(t *testing.T) {
	content := "(defn my-fn [x y]\n  (+ x y))"
	t.Run("middle of word", func(t *testing.T) {
		assert.Equal(t, "defn", wordAtPosition(content, 0, 1))
		assert.Equal(t, "my-fn", wordAtPosition(content, 0, 8))
	})
	t.Run("single char symbol", func(t *testing.T) {
		assert.Equal(t, "+", wordAtPosition(content, 1, 3))
		assert.Equal(t, "x", wordAtPosition(content, 1, 5))
	})
	t.Run("on paren", func(t *testing.T) {
		assert.Equal(t, "", wordAtPosition(content, 0, 0))
	})
	t.Run("end of line", func(t *testing.T) {
		assert.Equal(t, "my-add", wordAtPosition("(my-add", 0, 7))
	})
	t.Run("interop and placeholders", func(t *testing.T) {
		assert.Equal(t, ".-length", wordAtPosition("(.-length s)", 0, 3))
		assert.Equal(t, "%2", wordAtPosition("#(+ % %2)", 0, 7))
	})
	t.Run("out of range", func(t *testing.T) {
		assert.Equal(t, "", wordAtPosition(content, 5, 0))
		assert.Equal(t, "", wordAtPosition(content, 0, 100))
	})
}

func TestOffsetAt(t *testing.T) {
	content := "(def a 1)\n(a b)"
	assert.Equal(t, 0, offsetAt(content, 0, 0))
	assert.Equal(t, 10, offsetAt(content, 1, 0))
	assert.Equal(t, 13, offsetAt(content, 1, 3))
	assert.Equal(t, 15, offsetAt(content, 1, 40), "column clamps to the line end")
	assert.Equal(t, len(content), offsetAt(content, 9, 0))
}

// --- Document tests ---

func TestDocumentStore(t *testing.T) {
	t.Run("Open", func(t *testing.T) {
		store := NewDocumentStore()
		doc := store.Open("file:///test.cljs", 1, "(+ 1 2)")
		require.NotNil(t, doc)
		assert.Equal(t, "(+ 1 2)", doc.Content)
		assert.False(t, doc.analyzed)
	})
	t.Run("Get", func(t *testing.T) {
		store := NewDocumentStore()
		store.Open("file:///test.cljs", 1, "(+ 1 2)")
		got := store.Get("file:///test.cljs")
		require.NotNil(t, got)
		assert.Equal(t, "(+ 1 2)", got.Content)
		assert.Nil(t, store.Get("file:///nonexistent.cljs"))
	})
	t.Run("Change", func(t *testing.T) {
		store := NewDocumentStore()
		doc := store.Open("file:///test.cljs", 1, "(+ 1 2)")
		doc.analyze(translate.DefaultRuntimeNamespace)
		changed := store.Change("file:///test.cljs", 2, "(+ 3 4)")
		assert.Same(t, doc, changed)
		assert.Equal(t, "(+ 3 4)", changed.Content)
		assert.Equal(t, int32(2), changed.Version)
		assert.False(t, changed.analyzed, "analysis should be invalidated on change")
	})
	t.Run("Close", func(t *testing.T) {
		store := NewDocumentStore()
		store.Open("file:///test.cljs", 1, "(+ 1 2)")
		store.Close("file:///test.cljs")
		assert.Nil(t, store.Get("file:///test.cljs"))
		assert.Empty(t, store.All())
	})
}

func TestDocumentAnalyze(t *testing.T) {
	store := NewDocumentStore()
	doc := store.Open("file:///test.cljs", 1, `(ns app.core)
(def limit "Upper bound." 10)
(defn add "Adds." [x & more] (+ x 1))`)
	doc.analyze(translate.DefaultRuntimeNamespace)
	assert.NoError(t, doc.readErr)
	assert.Empty(t, doc.errs)
	assert.Len(t, doc.forms, 3)

	require.Contains(t, doc.defs, "app.core")
	assert.Equal(t, translate.FormNs, doc.defs["app.core"].Form)

	require.Contains(t, doc.defs, "limit")
	limit := doc.defs["limit"]
	assert.Equal(t, translate.FormDef, limit.Form)
	assert.Equal(t, "Upper bound.", limit.Doc)
	assert.Nil(t, limit.Params)
	assert.Equal(t, 2, limit.Source.Line)
	assert.Equal(t, 6, limit.Source.Col)

	require.Contains(t, doc.defs, "add")
	add := doc.defs["add"]
	assert.Equal(t, "Adds.", add.Doc)
	assert.Equal(t, []string{"x", "&", "more"}, add.Params)
	assert.Equal(t, "(add x & more)", formatSignature(add))
}

func TestDocumentFaultTolerantParse(t *testing.T) {
	store := NewDocumentStore()
	// Two valid forms followed by an incomplete one.
	doc := store.Open("file:///test.cljs", 1, "(defn a [] 1)\n(defn b [] 2)\n(incomplete")
	doc.analyze(translate.DefaultRuntimeNamespace)
	assert.Error(t, doc.readErr, "should record the read error")
	assert.Len(t, doc.forms, 2, "should keep the two valid forms")
	assert.Contains(t, doc.defs, "a")
	assert.Contains(t, doc.defs, "b")
}

func TestDocumentTranslateErrorsPerForm(t *testing.T) {
	store := NewDocumentStore()
	doc := store.Open("file:///test.cljs", 1, "(def x)\n(def ok 1)\n(str 1 2)")
	doc.analyze(translate.DefaultRuntimeNamespace)
	require.Len(t, doc.errs, 2)
	assert.ErrorIs(t, doc.errs[0], translate.ErrMalformedSpecialForm)
	assert.ErrorIs(t, doc.errs[1], translate.ErrUnsupportedArity)
	assert.Contains(t, doc.defs, "ok")
}

// --- Diagnostics tests ---

func TestDiagnosticsOnOpen_ValidCode(t *testing.T) {
	s := testServer(t)
	ctx, captured := capturingContext()

	err := s.textDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:        "file:///test.cljs",
			LanguageID: "clojurescript",
			Version:    1,
			Text:       "(defn add [x y] (+ x y))",
		},
	})
	require.NoError(t, err)
	require.Len(t, *captured, 1)
	pub := (*captured)[0]
	assert.Equal(t, "file:///test.cljs", pub.URI)
	assert.NotNil(t, pub.Diagnostics)
	assert.Empty(t, pub.Diagnostics)
}

func TestDiagnosticsOnReadError(t *testing.T) {
	s := testServer(t)
	ctx, captured := capturingContext()

	err := s.textDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:     "file:///test.cljs",
			Version: 1,
			Text:    "(defn broken [x y",
		},
	})
	require.NoError(t, err)
	require.Len(t, *captured, 1)
	pub := (*captured)[0]
	require.Len(t, pub.Diagnostics, 1)
	d := pub.Diagnostics[0]
	assert.Equal(t, protocol.DiagnosticSeverityError, *d.Severity)
	assert.Equal(t, "cljs2js", *d.Source)
	assert.Equal(t, "syntax error: unmatched [", d.Message)
	assert.Equal(t, protocol.UInteger(0), d.Range.Start.Line)
	assert.Equal(t, protocol.UInteger(13), d.Range.Start.Character)
	assert.Equal(t, protocol.UInteger(14), d.Range.End.Character)
}

func TestDiagnosticsTranslationErrors(t *testing.T) {
	s := testServer(t)
	ctx, captured := capturingContext()

	err := s.textDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:     "file:///test.cljs",
			Version: 1,
			Text:    "(def ok 1)\n(def x)\n  (str 1 2)",
		},
	})
	require.NoError(t, err)
	require.Len(t, *captured, 1)
	diags := (*captured)[0].Diagnostics
	require.Len(t, diags, 2)

	assert.Equal(t, "malformed special form: def of x requires a value", diags[0].Message)
	assert.Equal(t, "malformed-special-form", diags[0].Code.Value)
	assert.Equal(t, protocol.UInteger(1), diags[0].Range.Start.Line)
	assert.Equal(t, protocol.UInteger(0), diags[0].Range.Start.Character)

	assert.Equal(t, "unsupported arity: str expects exactly 1 argument, got 2", diags[1].Message)
	assert.Equal(t, "unsupported-arity", diags[1].Code.Value)
	assert.Equal(t, protocol.UInteger(2), diags[1].Range.Start.Line)
	assert.Equal(t, protocol.UInteger(2), diags[1].Range.Start.Character)
}

func TestDiagnosticsOnClose_Cleared(t *testing.T) {
	s := testServer(t)
	openCtx, _ := capturingContext()

	// Open a file with an error to generate diagnostics.
	err := s.textDocumentDidOpen(openCtx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:     "file:///test.cljs",
			Version: 1,
			Text:    "(defn broken",
		},
	})
	require.NoError(t, err)

	// Close should clear diagnostics.
	closeCtx, closeCaptured := capturingContext()
	s.captureNotify(closeCtx)
	err = s.textDocumentDidClose(closeCtx, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: "file:///test.cljs"},
	})
	require.NoError(t, err)
	require.Len(t, *closeCaptured, 1)
	assert.Empty(t, (*closeCaptured)[0].Diagnostics, "close should clear diagnostics")
	assert.Nil(t, s.docs.Get("file:///test.cljs"), "document should be removed from store")
}

func TestDiagnosticsOnSave_Immediate(t *testing.T) {
	s := testServer(t)
	ctx, captured := capturingContext()

	err := s.textDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:     "file:///test.cljs",
			Version: 1,
			Text:    "(+ 1 2)",
		},
	})
	require.NoError(t, err)

	// A change followed by a save publishes without waiting for the debounce.
	err = s.textDocumentDidChange(ctx, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: "file:///test.cljs"},
			Version:                2,
		},
		ContentChanges: []any{
			protocol.TextDocumentContentChangeEventWhole{Text: "(+ 1 2 3)"},
		},
	})
	require.NoError(t, err)

	before := len(*captured)
	err = s.textDocumentDidSave(ctx, &protocol.DidSaveTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: "file:///test.cljs"},
	})
	require.NoError(t, err)
	require.Equal(t, before+1, len(*captured), "save should trigger immediate diagnostics publish")
	diags := (*captured)[before].Diagnostics
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "unsupported arity")
}

// --- Hover tests ---

func TestHoverOnDefn(t *testing.T) {
	s := testServer(t)
	openDoc(s, "file:///test.cljs", "(defn greet \"Say hi.\" [name] (str name))\n(greet 1)")

	result, err := s.textDocumentHover(mockContext(), &protocol.HoverParams{
		TextDocumentPositionParams: positionParams("file:///test.cljs", 1, 2),
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	content, ok := result.Contents.(protocol.MarkupContent)
	require.True(t, ok)
	assert.Contains(t, content.Value, "**function** `greet`")
	assert.Contains(t, content.Value, "(greet name)")
	assert.Contains(t, content.Value, "Say hi.")
	assert.Contains(t, content.Value, "line 1")
}

func TestHoverOnSpecialForm(t *testing.T) {
	s := testServer(t)
	openDoc(s, "file:///test.cljs", "(if-let [x (f)] x 0)\n(>= a b)\n(.-length s)")

	tests := []struct {
		line, char uint32
		contains   []string
	}{
		{0, 2, []string{"`if-let`", "(if-let [name test] then else?)"}},
		{1, 1, []string{"`>=`", "(>= a b)"}},
		{2, 3, []string{"`.-length`", "(.-length obj)"}},
	}
	for _, test := range tests {
		result, err := s.textDocumentHover(mockContext(), &protocol.HoverParams{
			TextDocumentPositionParams: positionParams("file:///test.cljs", test.line, test.char),
		})
		require.NoError(t, err)
		require.NotNil(t, result, "line %d", test.line)
		content := result.Contents.(protocol.MarkupContent)
		for _, want := range test.contains {
			assert.Contains(t, content.Value, want)
		}
	}
}

func TestHoverOnEmpty(t *testing.T) {
	s := testServer(t)
	openDoc(s, "file:///test.cljs", "(foo bar)\n\n")

	result, err := s.textDocumentHover(mockContext(), &protocol.HoverParams{
		TextDocumentPositionParams: positionParams("file:///test.cljs", 1, 0),
	})
	require.NoError(t, err)
	assert.Nil(t, result)

	result, err = s.textDocumentHover(mockContext(), &protocol.HoverParams{
		TextDocumentPositionParams: positionParams("file:///test.cljs", 0, 2),
	})
	require.NoError(t, err)
	assert.Nil(t, result, "unknown symbols have no hover")
}

// --- Definition tests ---

func TestDefinition(t *testing.T) {
	s := testServer(t)
	openDoc(s, "file:///test.cljs", "(def base 10)\n(defn add [x] (+ x base))")

	result, err := s.textDocumentDefinition(mockContext(), &protocol.DefinitionParams{
		TextDocumentPositionParams: positionParams("file:///test.cljs", 1, 21),
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	loc, ok := result.(protocol.Location)
	require.True(t, ok)
	assert.Equal(t, "file:///test.cljs", loc.URI)
	assert.Equal(t, protocol.UInteger(0), loc.Range.Start.Line)
	assert.Equal(t, protocol.UInteger(5), loc.Range.Start.Character)
	assert.Equal(t, protocol.UInteger(9), loc.Range.End.Character)
}

func TestDefinitionOnUndefinedSymbol(t *testing.T) {
	s := testServer(t)
	openDoc(s, "file:///test.cljs", "(when x (js/alert 1))")

	for _, char := range []uint32{2, 7, 10} {
		result, err := s.textDocumentDefinition(mockContext(), &protocol.DefinitionParams{
			TextDocumentPositionParams: positionParams("file:///test.cljs", 0, char),
		})
		require.NoError(t, err)
		assert.Nil(t, result)
	}
}

// --- Symbols tests ---

func TestDocumentSymbols(t *testing.T) {
	s := testServer(t)
	openDoc(s, "file:///test.cljs", "(ns app.core)\n(defn add [x y] (+ x y))\n(def total (add 1 2))")

	result, err := s.textDocumentDocumentSymbol(mockContext(), &protocol.DocumentSymbolParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: "file:///test.cljs"},
	})
	require.NoError(t, err)
	symbols, ok := result.([]protocol.DocumentSymbol)
	require.True(t, ok)
	require.Len(t, symbols, 3)

	assert.Equal(t, "app.core", symbols[0].Name)
	assert.Equal(t, protocol.SymbolKindNamespace, symbols[0].Kind)
	assert.Equal(t, "add", symbols[1].Name)
	assert.Equal(t, protocol.SymbolKindFunction, symbols[1].Kind)
	require.NotNil(t, symbols[1].Detail)
	assert.Equal(t, "(add x y)", *symbols[1].Detail)
	assert.Equal(t, "total", symbols[2].Name)
	assert.Equal(t, protocol.SymbolKindVariable, symbols[2].Kind)
	assert.Nil(t, symbols[2].Detail)
}

func TestDocumentSymbolsEmptyFile(t *testing.T) {
	s := testServer(t)
	openDoc(s, "file:///test.cljs", "")

	result, err := s.textDocumentDocumentSymbol(mockContext(), &protocol.DocumentSymbolParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: "file:///test.cljs"},
	})
	require.NoError(t, err)
	assert.Empty(t, result)
}

// --- Completion tests ---

func TestCompletion(t *testing.T) {
	s := testServer(t)
	openDoc(s, "file:///test.cljs", "(defn default-value [] 0)\n(def delta 1)\n(de")

	result, err := s.textDocumentCompletion(mockContext(), &protocol.CompletionParams{
		TextDocumentPositionParams: positionParams("file:///test.cljs", 2, 3),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"def", "defn", "dec", "default-value", "delta"}, completionLabels(t, result))
}

func TestCompletionEmptyPrefix(t *testing.T) {
	s := testServer(t)
	openDoc(s, "file:///test.cljs", "(ns app.core)\n(def x 1)\n(")

	result, err := s.textDocumentCompletion(mockContext(), &protocol.CompletionParams{
		TextDocumentPositionParams: positionParams("file:///test.cljs", 2, 1),
	})
	require.NoError(t, err)
	labels := completionLabels(t, result)
	assert.Contains(t, labels, "recur")
	assert.Contains(t, labels, "x")
	assert.NotContains(t, labels, "app.core", "namespaces are not completed")
	assert.NotContains(t, labels, ".-")
}

// --- Signature help tests ---

func TestSignatureHelp(t *testing.T) {
	s := testServer(t)
	content := `(defn greet
  "Greet someone."
  [name greeting]
  (str greeting))

(greet "world" "hello")`
	openDoc(s, "file:///test.cljs", content)

	tests := []struct {
		char   uint32
		active uint32
	}{
		{7, 0},  // after "(greet "
		{14, 0}, // touching the end of "world"
		{15, 1}, // after "world" and a space
	}
	for _, test := range tests {
		result, err := s.textDocumentSignatureHelp(mockContext(), &protocol.SignatureHelpParams{
			TextDocumentPositionParams: positionParams("file:///test.cljs", 5, test.char),
		})
		require.NoError(t, err)
		require.NotNil(t, result, "signature help should not be nil for a defined function")
		require.Len(t, result.Signatures, 1)
		sig := result.Signatures[0]
		assert.Equal(t, "(greet name greeting)", sig.Label)
		require.Len(t, sig.Parameters, 2)
		assert.Equal(t, []protocol.UInteger{7, 11}, sig.Parameters[0].Label)
		assert.Equal(t, []protocol.UInteger{12, 20}, sig.Parameters[1].Label)
		assert.Equal(t, test.active, *result.ActiveParameter, "char %d", test.char)
	}
}

func TestSignatureHelpSpecialForm(t *testing.T) {
	s := testServer(t)
	openDoc(s, "file:///test.cljs", "(if-let [x (f)] x 0)")

	result, err := s.textDocumentSignatureHelp(mockContext(), &protocol.SignatureHelpParams{
		TextDocumentPositionParams: positionParams("file:///test.cljs", 0, 16),
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	sig := result.Signatures[0]
	assert.Equal(t, "(if-let [name test] then else?)", sig.Label)
	require.Len(t, sig.Parameters, 3)
	assert.Equal(t, []protocol.UInteger{8, 19}, sig.Parameters[0].Label)
	assert.Equal(t, uint32(1), *result.ActiveParameter)
}

func TestSignatureHelpRestParam(t *testing.T) {
	s := testServer(t)
	openDoc(s, "file:///test.cljs", "(defn log [level & parts] nil)\n(log :info 1 2 3 ")

	result, err := s.textDocumentSignatureHelp(mockContext(), &protocol.SignatureHelpParams{
		TextDocumentPositionParams: positionParams("file:///test.cljs", 1, 17),
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	sig := result.Signatures[0]
	assert.Equal(t, "(log level & parts)", sig.Label)
	require.Len(t, sig.Parameters, 2)
	assert.Equal(t, []protocol.UInteger{11, 18}, sig.Parameters[1].Label)
	assert.Equal(t, uint32(1), *result.ActiveParameter, "clamped to the rest parameter")
}

func TestSignatureHelpOutside(t *testing.T) {
	s := testServer(t)
	content := "(defn add [x y] (+ x y))\n; some comment"
	openDoc(s, "file:///test.cljs", content)

	result, err := s.textDocumentSignatureHelp(mockContext(), &protocol.SignatureHelpParams{
		TextDocumentPositionParams: positionParams("file:///test.cljs", 1, 0),
	})
	require.NoError(t, err)
	assert.Nil(t, result, "signature help outside a call should be nil")
}

func TestSignatureHelpUnknownDocument(t *testing.T) {
	s := testServer(t)
	result, err := s.textDocumentSignatureHelp(mockContext(), &protocol.SignatureHelpParams{
		TextDocumentPositionParams: positionParams("file:///unknown.cljs", 0, 5),
	})
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestEnclosingCall(t *testing.T) {
	tests := []struct {
		content string
		offset  int
		name    string
		argIdx  int
	}{
		{"(add 1 2)", 5, "add", 0},
		{"(add 1 2)", 7, "add", 1},
		{"(add (f x) 2)", 11, "add", 1},
		{"(add (f x) 2)", 8, "f", 0},
		{"(add @x y)", 8, "add", 1},
		{"(add #_ 1 2 3)", 12, "add", 1},
		{"(let [a 1] a)", 8, "let", 0},
		{"(add 1)\n", 8, "", 0},
		{"((f) 1)", 5, "", 0},
		{"(add \"a b\" ", 11, "add", 1},
		{"(add ; (x y\n 1 ", 15, "add", 1},
	}
	for _, test := range tests {
		name, argIdx := enclosingCall(test.content, test.offset)
		assert.Equal(t, test.name, name, "%q at %d", test.content, test.offset)
		if test.name != "" {
			assert.Equal(t, test.argIdx, argIdx, "%q at %d", test.content, test.offset)
		}
	}
}

// --- Lifecycle tests ---

func TestExitHandler(t *testing.T) {
	s := testServer(t)
	var exitCode int
	var exitCalled bool
	s.exitFn = func(code int) {
		exitCode = code
		exitCalled = true
	}

	err := s.exit(mockContext())
	require.NoError(t, err)
	assert.True(t, exitCalled, "exit handler should call exitFn")
	assert.Equal(t, 0, exitCode, "exit should call with code 0")
}

func TestInitializeLifecycle(t *testing.T) {
	s := testServer(t)

	rootURI := "file:///workspace"
	result, err := s.initialize(mockContext(), &protocol.InitializeParams{
		RootURI: &rootURI,
	})
	require.NoError(t, err)
	require.NotNil(t, result)

	initResult, ok := result.(protocol.InitializeResult)
	require.True(t, ok)
	assert.NotNil(t, initResult.ServerInfo)
	assert.Equal(t, serverName, initResult.ServerInfo.Name)
	assert.Equal(t, "/workspace", s.rootPath)
	assert.NotNil(t, initResult.Capabilities.SignatureHelpProvider)
	assert.NotNil(t, initResult.Capabilities.CompletionProvider)

	require.NoError(t, s.shutdown(mockContext()))
}

func TestURIConversion(t *testing.T) {
	assert.Equal(t, "/tmp/a.cljs", uriToPath("file:///tmp/a.cljs"))
	assert.Equal(t, "untitled:1", uriToPath("untitled:1"))
	assert.Equal(t, "file:///tmp/a.cljs", pathToURI("/tmp/a.cljs"))
	assert.Equal(t, "rel/a.cljs", pathToURI("rel/a.cljs"))
}

func TestMapSymbolKind(t *testing.T) {
	assert.Equal(t, protocol.SymbolKindFunction, mapSymbolKind(translate.FormDefn))
	assert.Equal(t, protocol.SymbolKindVariable, mapSymbolKind(translate.FormDef))
	assert.Equal(t, protocol.SymbolKindNamespace, mapSymbolKind(translate.FormNs))
	assert.Equal(t, protocol.CompletionItemKindFunction, mapCompletionItemKind(translate.FormDefn))
	assert.Equal(t, protocol.CompletionItemKindVariable, mapCompletionItemKind(translate.FormDef))
}
