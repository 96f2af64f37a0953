// Copyright © 2024 The ELPS authors

// Package diagnostic renders reader and translation errors as Rust-style
// annotated source snippets.
package diagnostic

import (
	"errors"

	"github.com/luthersystems/cljs2js/parser/token"
	"github.com/luthersystems/cljs2js/translate"
)

// Severity indicates the severity level of a diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityNote
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityNote:
		return "note"
	default:
		return "unknown"
	}
}

// Span identifies a region of source code to highlight in the diagnostic.
type Span struct {
	File   string // path for reading source; display name if unreadable
	Line   int    // 1-based line number
	Col    int    // 1-based start column
	EndCol int    // 1-based end column (0 = auto-detect from source)
	Label  string // text shown under the underline
}

// Diagnostic represents a single error, warning, or note with optional
// source annotations and trailing notes.
type Diagnostic struct {
	Severity Severity
	Message  string
	Spans    []Span
	Notes    []string // "= note:" lines
}

// FromError converts an error returned by a reader or the translator into
// a Diagnostic.  Errors without a source location produce a Diagnostic with
// no spans.
func FromError(err error) Diagnostic {
	var terr *translate.Error
	if errors.As(err, &terr) {
		d := Diagnostic{
			Severity: SeverityError,
			Message:  terr.Err.Error(),
		}
		if span, ok := spanAt(terr.Source); ok {
			span.Label = terr.Message
			d.Spans = append(d.Spans, span)
		} else {
			d.Message = terr.Err.Error() + ": " + terr.Message
		}
		return d
	}
	var lerr *token.LocationError
	if errors.As(err, &lerr) {
		d := Diagnostic{
			Severity: SeverityError,
			Message:  "syntax error: " + lerr.Err.Error(),
		}
		if span, ok := spanAt(lerr.Source); ok {
			d.Spans = append(d.Spans, span)
		}
		return d
	}
	return Diagnostic{
		Severity: SeverityError,
		Message:  err.Error(),
	}
}

func spanAt(loc *token.Location) (Span, bool) {
	if loc == nil || loc.Line <= 0 {
		return Span{}, false
	}
	file := loc.Path
	if file == "" {
		file = loc.File
	}
	return Span{File: file, Line: loc.Line, Col: loc.Col}, true
}
