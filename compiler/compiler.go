// Copyright © 2024 The ELPS authors

// Package compiler connects the reader, the translator and the printer.
// Top-level forms are translated one at a time in source order so that each
// form gets its own log entry and trace span while sharing one name
// generator.
package compiler

import (
	"context"
	"fmt"
	"io"

	"github.com/luthersystems/cljs2js/formatter"
	"github.com/luthersystems/cljs2js/gensym"
	"github.com/luthersystems/cljs2js/jsast"
	"github.com/luthersystems/cljs2js/parser"
	"github.com/luthersystems/cljs2js/parser/token"
	"github.com/luthersystems/cljs2js/syntax"
	"github.com/luthersystems/cljs2js/translate"
	"github.com/sirupsen/logrus"
)

// Option configures a Compiler.
type Option func(*Compiler)

// WithReader sets the reader used to parse source text.
func WithReader(r syntax.Reader) Option {
	return func(c *Compiler) {
		c.reader = r
	}
}

// WithLogger sets the logger.  Compiler logs through an entry with the field
// component=compiler.
func WithLogger(logger *logrus.Logger) Option {
	return func(c *Compiler) {
		c.log = logger.WithField("component", "compiler")
	}
}

// WithFormatConfig sets the printer configuration.
func WithFormatConfig(cfg *formatter.Config) Option {
	return func(c *Compiler) {
		c.format = cfg
	}
}

// WithRuntimeNamespace sets the namespace of runtime support functions.
func WithRuntimeNamespace(ns string) Option {
	return func(c *Compiler) {
		c.runtime = ns
	}
}

// WithTracer sets the tracer receiving compilation spans.
func WithTracer(tracer Tracer) Option {
	return func(c *Compiler) {
		c.tracer = tracer
	}
}

// Compiler translates source files to JavaScript.  A Compiler may be used by
// multiple goroutines; each compilation uses its own name generator.
type Compiler struct {
	reader  syntax.Reader
	format  *formatter.Config
	runtime string
	tracer  Tracer
	log     *logrus.Entry
}

// New returns a Compiler configured by opts.
func New(opts ...Option) *Compiler {
	c := &Compiler{
		reader:  parser.NewReader(),
		format:  formatter.DefaultConfig(),
		runtime: translate.DefaultRuntimeNamespace,
		tracer:  NewOpenTelemetryTracer(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logrus.StandardLogger().WithField("component", "compiler")
	}
	return c
}

// Compile reads the source named name from r and returns the JavaScript it
// translates to.
func Compile(ctx context.Context, name string, r io.Reader) ([]byte, error) {
	return New().Compile(ctx, name, r)
}

// Compile reads the source named name from r and returns the JavaScript it
// translates to.
func (c *Compiler) Compile(ctx context.Context, name string, r io.Reader) ([]byte, error) {
	nodes, err := c.Translate(ctx, name, r)
	if err != nil {
		return nil, err
	}
	out, err := formatter.Format(nodes, c.format)
	if err != nil {
		c.log.WithField("file", name).WithError(err).Error("print failed")
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}

// Translate reads the source named name from r and returns the translated
// statements of every top-level form in order.
func (c *Compiler) Translate(ctx context.Context, name string, r io.Reader) (nodes []jsast.Node, err error) {
	ctx, end := c.tracer.Start(ctx, name, &token.Location{File: name})
	defer func() { end(err) }()

	log := c.log.WithField("file", name)
	program, err := c.reader.Read(name, r)
	if err != nil {
		log.WithError(err).Error("read failed")
		return nil, err
	}
	t := translate.New(
		translate.WithGenerator(gensym.New()),
		translate.WithRuntimeNamespace(c.runtime),
	)
	forms := syntax.Elements(program)
	for _, form := range forms {
		out, err := c.translateForm(ctx, log, t, form)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, out...)
	}
	log.WithField("forms", len(forms)).Debug("translated")
	return nodes, nil
}

// Check reads the source named name from r and translates every top-level
// form, returning one error for each form that fails.  Unlike Translate it
// does not stop at the first failing form.  A read error is returned as err.
func (c *Compiler) Check(ctx context.Context, name string, r io.Reader) (errs []error, err error) {
	ctx, end := c.tracer.Start(ctx, name, &token.Location{File: name})
	defer func() { end(err) }()

	log := c.log.WithField("file", name)
	program, err := c.reader.Read(name, r)
	if err != nil {
		log.WithError(err).Error("read failed")
		return nil, err
	}
	t := translate.New(
		translate.WithGenerator(gensym.New()),
		translate.WithRuntimeNamespace(c.runtime),
	)
	for _, form := range syntax.Elements(program) {
		if _, err := c.translateForm(ctx, log, t, form); err != nil {
			errs = append(errs, err)
		}
	}
	log.WithField("errors", len(errs)).Debug("checked")
	return errs, nil
}

func (c *Compiler) translateForm(ctx context.Context, log *logrus.Entry, t *translate.Translator, form *syntax.Node) (nodes []jsast.Node, err error) {
	_, end := c.tracer.Start(ctx, FormLabel(form), form.Source)
	defer func() { end(err) }()

	if form.Source != nil {
		log = log.WithField("line", form.Source.Line)
	}
	nodes, err = t.Translate(form)
	if err != nil {
		log.WithError(err).Error("translate failed")
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"form":  FormLabel(form),
		"nodes": jsast.Count(nodes, func(jsast.Node) bool { return true }),
	}).Debug("form")
	return nodes, nil
}

// FormLabel names a top-level form for logs and spans: the head symbol and,
// for definitions, the defined name.
func FormLabel(form *syntax.Node) string {
	form = syntax.Unbox(form)
	if form == nil {
		return "nil"
	}
	if form.Kind != syntax.List {
		return form.Kind.String()
	}
	head := syntax.Unbox(form.Left)
	if head == nil || head.Kind != syntax.Symbol {
		return "call"
	}
	switch translate.Classify(head.Str) {
	case translate.FormNs, translate.FormDef, translate.FormDefn:
		args := syntax.Elements(form.Right)
		if len(args) > 0 && syntax.IsSymbol(args[0]) {
			return head.Str + " " + syntax.Unbox(args[0]).Str
		}
	}
	return head.Str
}
