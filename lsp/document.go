// Copyright © 2024 The ELPS authors

package lsp

import (
	"io"
	"strings"
	"sync"

	"github.com/luthersystems/cljs2js/gensym"
	"github.com/luthersystems/cljs2js/parser/rdparser"
	"github.com/luthersystems/cljs2js/parser/token"
	"github.com/luthersystems/cljs2js/syntax"
	"github.com/luthersystems/cljs2js/translate"
)

// Document represents an open text document tracked by the LSP server.
type Document struct {
	mu       sync.Mutex
	URI      string
	Version  int32
	Content  string
	forms    []*syntax.Node
	readErr  error
	errs     []error
	defs     map[string]*definition
	analyzed bool
}

// definition is a name bound at top level by def or defn.
type definition struct {
	Name   string
	Form   translate.Form
	Params []string // nil for def
	Doc    string
	Source *token.Location
}

// parse reads the document content form by form.  Forms preceding a syntax
// error are kept so the rest of the document can still be analyzed.
func (d *Document) parse() {
	d.forms = nil
	d.readErr = nil
	p := rdparser.New(token.NewScanner(uriToPath(d.URI), strings.NewReader(d.Content)))
	for {
		form, err := p.Parse()
		if err == io.EOF {
			return
		}
		if err != nil {
			d.readErr = err
			return
		}
		d.forms = append(d.forms, form)
	}
}

// analyze reads the document, translates each top-level form and records
// the definitions it makes.  Each form is translated independently so one
// error does not hide the others.
func (d *Document) analyze(runtime string) {
	d.parse()
	d.errs = nil
	d.defs = make(map[string]*definition)
	t := translate.New(
		translate.WithGenerator(gensym.New()),
		translate.WithRuntimeNamespace(runtime),
	)
	for _, form := range d.forms {
		if _, err := t.Translate(form); err != nil {
			d.errs = append(d.errs, err)
		}
		if def := defined(form); def != nil {
			d.defs[def.Name] = def
		}
	}
	d.analyzed = true
}

// errors returns the read error followed by the translation errors.
func (d *Document) errors() []error {
	var errs []error
	if d.readErr != nil {
		errs = append(errs, d.readErr)
	}
	return append(errs, d.errs...)
}

// defined returns the definition made by form, or nil.  A namespace
// declaration counts as a definition of the namespace name.
func defined(form *syntax.Node) *definition {
	form = syntax.Unbox(form)
	if form == nil || form.Kind != syntax.List || !syntax.IsSymbol(form.Left) {
		return nil
	}
	kind := translate.Classify(syntax.Unbox(form.Left).Str)
	if kind != translate.FormDef && kind != translate.FormDefn && kind != translate.FormNs {
		return nil
	}
	args := syntax.Elements(form.Right)
	if len(args) == 0 || !syntax.IsSymbol(args[0]) {
		return nil
	}
	name := syntax.Unbox(args[0])
	def := &definition{Name: name.Str, Form: kind, Source: name.Source}
	rest := args[1:]
	if kind == translate.FormNs {
		return def
	}
	if len(rest) > 1 {
		if s := syntax.Unbox(rest[0]); s.Kind == syntax.String {
			def.Doc = s.Str
			rest = rest[1:]
		}
	}
	if kind == translate.FormDefn && len(rest) > 0 {
		if vec := syntax.Unbox(rest[0]); vec.Kind == syntax.Vector {
			def.Params = []string{}
			for _, p := range syntax.Elements(vec.Left) {
				if syntax.IsSymbol(p) {
					def.Params = append(def.Params, syntax.Unbox(p).Str)
				}
			}
		}
	}
	return def
}

// DocumentStore manages open documents with thread-safe access.
type DocumentStore struct {
	mu   sync.RWMutex
	docs map[string]*Document
}

// NewDocumentStore creates an empty document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{docs: make(map[string]*Document)}
}

// Open adds a document to the store.
func (s *DocumentStore) Open(uri string, version int32, content string) *Document {
	doc := &Document{
		URI:     uri,
		Version: version,
		Content: content,
	}
	s.mu.Lock()
	s.docs[uri] = doc
	s.mu.Unlock()
	return doc
}

// Change updates a document's content (full sync).  The document is
// analyzed again on next use.
func (s *DocumentStore) Change(uri string, version int32, content string) *Document {
	s.mu.Lock()
	doc, ok := s.docs[uri]
	if !ok {
		doc = &Document{URI: uri}
		s.docs[uri] = doc
	}
	s.mu.Unlock()

	doc.mu.Lock()
	doc.Version = version
	doc.Content = content
	doc.analyzed = false
	doc.mu.Unlock()
	return doc
}

// Close removes a document from the store.
func (s *DocumentStore) Close(uri string) {
	s.mu.Lock()
	delete(s.docs, uri)
	s.mu.Unlock()
}

// Get retrieves a document by URI. Returns nil if not found.
func (s *DocumentStore) Get(uri string) *Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.docs[uri]
}

// All returns every open document.
func (s *DocumentStore) All() []*Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	docs := make([]*Document, 0, len(s.docs))
	for _, doc := range s.docs {
		docs = append(docs, doc)
	}
	return docs
}
