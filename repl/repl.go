// Copyright © 2024 The ELPS authors

// Package repl implements an interactive loop that translates each form
// entered and prints the resulting JavaScript.
package repl

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ergochat/readline"
	"github.com/luthersystems/cljs2js/astutil"
	"github.com/luthersystems/cljs2js/diagnostic"
	"github.com/luthersystems/cljs2js/formatter"
	"github.com/luthersystems/cljs2js/gensym"
	"github.com/luthersystems/cljs2js/parser/lexer"
	"github.com/luthersystems/cljs2js/parser/rdparser"
	"github.com/luthersystems/cljs2js/parser/token"
	"github.com/luthersystems/cljs2js/syntax"
	"github.com/luthersystems/cljs2js/translate"
	"github.com/muesli/reflow/indent"
)

// SourceName is the file name reported for locations in REPL input.
const SourceName = "stdin"

type config struct {
	stdin   io.ReadCloser
	stderr  io.WriteCloser
	runtime string
	format  *formatter.Config
	color   diagnostic.ColorMode
	indent  uint
	history string
}

func newConfig(opts ...Option) *config {
	config := &config{
		runtime: translate.DefaultRuntimeNamespace,
		format:  formatter.DefaultConfig(),
		indent:  2,
		history: historyPath(),
	}
	for _, opt := range opts {
		opt(config)
	}
	return config
}

type Option func(*config)

// WithStdin allows overriding the input to the REPL.
func WithStdin(stdin io.ReadCloser) Option {
	return func(c *config) {
		c.stdin = stdin
	}
}

// WithStderr allows overriding the output to the REPL.
func WithStderr(stderr io.WriteCloser) Option {
	return func(c *config) {
		c.stderr = stderr
	}
}

// WithRuntimeNamespace sets the namespace of runtime support functions.
func WithRuntimeNamespace(ns string) Option {
	return func(c *config) {
		c.runtime = ns
	}
}

// WithFormatConfig sets the configuration used to print translated forms.
func WithFormatConfig(cfg *formatter.Config) Option {
	return func(c *config) {
		c.format = cfg
	}
}

// WithColor sets the color mode of error output.
func WithColor(mode diagnostic.ColorMode) Option {
	return func(c *config) {
		c.color = mode
	}
}

// WithIndent sets the number of spaces printed JavaScript is indented by.
func WithIndent(n uint) Option {
	return func(c *config) {
		c.indent = n
	}
}

// WithHistoryFile sets the readline history file.  An empty path disables
// history.
func WithHistoryFile(path string) Option {
	return func(c *config) {
		c.history = path
	}
}

// session holds the state shared by all forms entered in one REPL run.
type session struct {
	cfg        *config
	translator *translate.Translator
	completer  *symbolCompleter
	out        io.Writer
	line       []byte
}

func newSession(cfg *config, out io.Writer) *session {
	return &session{
		cfg: cfg,
		translator: translate.New(
			translate.WithGenerator(gensym.New()),
			translate.WithRuntimeNamespace(cfg.runtime),
		),
		completer: newSymbolCompleter(),
		out:       out,
	}
}

// eval translates form and writes the JavaScript it produces.
func (s *session) eval(form *syntax.Node) {
	nodes, err := s.translator.Translate(form)
	if err != nil {
		s.renderError(err)
		return
	}
	s.completer.define(astutil.Defined(syntax.NewForms(form)))
	js, err := formatter.Format(nodes, s.cfg.format)
	if err != nil {
		s.renderError(err)
		return
	}
	if len(js) == 0 {
		return
	}
	fmt.Fprint(s.out, indent.String(string(js), s.cfg.indent)) //nolint:errcheck // best-effort REPL output
}

// RunRepl runs a translation repl.
func RunRepl(prompt string, opts ...Option) {
	Run(prompt, "", opts...)
}

// Run runs a translation repl.  The cont prompt is shown while a form spans
// multiple lines; when empty it is blank padding the width of prompt.
func Run(prompt, cont string, opts ...Option) {
	if cont == "" {
		cont = fmt.Sprintf("%*s", len(prompt), "")
	}
	cfg := newConfig(opts...)
	var out io.Writer = os.Stderr
	if cfg.stderr != nil {
		out = cfg.stderr
	}

	p := rdparser.NewInteractive(nil)
	p.SetPrompts(prompt, cont)
	s := newSession(cfg, out)

	ensureHistoryFilePermissions(cfg.history)
	rlCfg := &readline.Config{
		Stdout:            out,
		Stderr:            out,
		Prompt:            p.Prompt(),
		HistoryFile:       cfg.history,
		HistorySearchFold: true,
		AutoComplete:      s.completer,
	}
	if cfg.stdin != nil {
		rlCfg.Stdin = cfg.stdin
	}
	rl, err := readline.NewEx(rlCfg)
	if err != nil {
		errlnf("Unable to start line editor: %v", err)
		os.Exit(1)
	}
	defer rl.Close() //nolint:errcheck // best-effort cleanup

	p.Read = func() []*token.Token {
		rl.SetPrompt(p.Prompt())
		for {
			line, err := rl.ReadSlice()
			if err == readline.ErrInterrupt {
				continue
			}
			if err != nil {
				return []*token.Token{{
					Type: token.EOF,
					Text: "",
				}}
			}
			line = bytes.TrimSpace(line)
			if len(line) == 0 {
				continue
			}
			tokens := lexLine(line)
			if len(tokens) == 0 {
				continue
			}
			s.line = append(s.line[:0], line...)
			return tokens
		}
	}

	for {
		form, err := p.Parse()
		if err == io.EOF {
			break
		}
		if err != nil {
			s.renderError(err)
			continue
		}
		s.eval(form)
	}
}

// lexLine returns the tokens of one line of input.  Lexing stops after the
// first error token; the parser reports it.
func lexLine(line []byte) []*token.Token {
	var tokens []*token.Token
	lex := lexer.New(token.NewScanner(SourceName, bytes.NewReader(line)))
	for {
		tok := lex.ReadToken()
		if tok.Type == token.EOF {
			return tokens
		}
		tokens = append(tokens, tok)
		if tok.Type == token.ERROR {
			return tokens
		}
	}
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".cljs2js_history")
}

// ensureHistoryFilePermissions creates the history file if needed and
// restricts it to the current user.
func ensureHistoryFilePermissions(path string) {
	if path == "" {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDONLY, 0600) //#nosec G304
	if err != nil {
		return
	}
	_ = f.Close()
	_ = os.Chmod(path, 0600)
}

func errlnf(format string, v ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", v...)
}
