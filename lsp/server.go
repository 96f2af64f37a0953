// Copyright © 2024 The ELPS authors

// Package lsp implements a Language Server Protocol server for cljs2js
// sources.  It publishes reader and translation errors as diagnostics and
// provides hover, go-to-definition, completion, document symbols and
// signature help for special forms and top-level definitions.
package lsp

import (
	"os"
	"sync"
	"time"

	"github.com/luthersystems/cljs2js/translate"
	"github.com/sirupsen/logrus"
	"github.com/tliron/glsp"
	glspserver "github.com/tliron/glsp/server"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

const serverName = "cljs2js-lsp"

// Server is the cljs2js language server.
type Server struct {
	handler  protocol.Handler
	glspSrv  *glspserver.Server
	docs     *DocumentStore
	rootURI  string
	rootPath string

	runtime string
	log     *logrus.Entry

	// debounce holds the pending analysis timer of each changed document.
	debounceMu sync.Mutex
	debounce   map[string]*time.Timer

	// notify publishes diagnostics outside of a request.  It is taken from
	// the most recent request context.
	notifyMu sync.Mutex
	notify   glsp.NotifyFunc

	exitFn func(int)
}

// Option configures the LSP server.
type Option func(*Server)

// WithRuntimeNamespace sets the runtime namespace documents are translated
// against.
func WithRuntimeNamespace(ns string) Option {
	return func(s *Server) { s.runtime = ns }
}

// WithLogger sets the logger.  The server logs through an entry with the
// field component=lsp.
func WithLogger(logger *logrus.Logger) Option {
	return func(s *Server) { s.log = logger.WithField("component", "lsp") }
}

// New creates a new language server.
func New(opts ...Option) *Server {
	s := &Server{
		docs:     NewDocumentStore(),
		runtime:  translate.DefaultRuntimeNamespace,
		debounce: make(map[string]*time.Timer),
		exitFn:   os.Exit,
	}
	for _, o := range opts {
		o(s)
	}
	if s.log == nil {
		s.log = logrus.StandardLogger().WithField("component", "lsp")
	}

	s.handler = protocol.Handler{
		Initialize:  s.initialize,
		Initialized: s.initialized,
		Shutdown:    s.shutdown,
		Exit:        s.exit,
		SetTrace:    s.setTrace,

		TextDocumentDidOpen:   s.textDocumentDidOpen,
		TextDocumentDidChange: s.textDocumentDidChange,
		TextDocumentDidSave:   s.textDocumentDidSave,
		TextDocumentDidClose:  s.textDocumentDidClose,

		TextDocumentHover:          s.textDocumentHover,
		TextDocumentDefinition:     s.textDocumentDefinition,
		TextDocumentCompletion:     s.textDocumentCompletion,
		TextDocumentDocumentSymbol: s.textDocumentDocumentSymbol,
		TextDocumentSignatureHelp:  s.textDocumentSignatureHelp,
	}

	s.glspSrv = glspserver.NewServer(&s.handler, serverName, false)
	return s
}

// RunStdio starts the server using stdio transport.
func (s *Server) RunStdio() error {
	s.log.Info("serving on stdio")
	return s.glspSrv.RunStdio()
}

// RunTCP starts the server listening on the given address.
func (s *Server) RunTCP(addr string) error {
	s.log.WithField("addr", addr).Info("serving on tcp")
	return s.glspSrv.RunTCP(addr)
}

// serverVersion is reported to clients in the initialize result.
const serverVersion = "0.1.0"

func (s *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	s.captureNotify(ctx)
	switch {
	case params.RootURI != nil:
		s.rootURI = *params.RootURI
		s.rootPath = uriToPath(s.rootURI)
	case params.RootPath != nil:
		s.rootPath = *params.RootPath
		s.rootURI = pathToURI(s.rootPath)
	}
	s.log.WithField("root", s.rootPath).Debug("initialize")

	version := serverVersion
	return protocol.InitializeResult{
		Capabilities: s.capabilities(),
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    serverName,
			Version: &version,
		},
	}, nil
}

// capabilities advertises full document sync.  Completion triggers on an
// opening paren, where a special form or definition name is expected.
// Signature help triggers between arguments.
func (s *Server) capabilities() protocol.ServerCapabilities {
	c := s.handler.CreateServerCapabilities()
	full := protocol.TextDocumentSyncKindFull
	c.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    &full,
		Save:      &protocol.SaveOptions{IncludeText: boolPtr(false)},
	}
	c.CompletionProvider = &protocol.CompletionOptions{
		TriggerCharacters: []string{"("},
	}
	c.SignatureHelpProvider = &protocol.SignatureHelpOptions{
		TriggerCharacters:   []string{" "},
		RetriggerCharacters: []string{" ", ")"},
	}
	return c
}

func (s *Server) initialized(ctx *glsp.Context, _ *protocol.InitializedParams) error {
	s.captureNotify(ctx)
	return nil
}

// shutdown drops pending diagnostics.  Documents stay open until exit.
func (s *Server) shutdown(ctx *glsp.Context) error {
	s.debounceMu.Lock()
	pending := s.debounce
	s.debounce = make(map[string]*time.Timer)
	s.debounceMu.Unlock()
	for uri, t := range pending {
		t.Stop()
		s.log.WithField("uri", uri).Debug("dropped pending analysis")
	}
	s.log.Debug("shutdown")
	return nil
}

func (s *Server) exit(_ *glsp.Context) error {
	s.exitFn(0)
	return nil
}

// setTrace accepts $/setTrace.  Server logging is configured with logrus,
// not by the client.
func (s *Server) setTrace(_ *glsp.Context, _ *protocol.SetTraceParams) error {
	return nil
}

// ensureAnalysis ensures the document has been read and translated since
// its content last changed.
func (s *Server) ensureAnalysis(doc *Document) {
	doc.mu.Lock()
	defer doc.mu.Unlock()
	if doc.analyzed {
		return
	}
	doc.analyze(s.runtime)
}

func (s *Server) captureNotify(ctx *glsp.Context) {
	s.notifyMu.Lock()
	s.notify = ctx.Notify
	s.notifyMu.Unlock()
}

func (s *Server) sendNotification(method string, params any) {
	s.notifyMu.Lock()
	fn := s.notify
	s.notifyMu.Unlock()
	if fn != nil {
		fn(method, params)
	}
}

func boolPtr(b bool) *bool {
	return &b
}
