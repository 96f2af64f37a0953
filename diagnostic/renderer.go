// Copyright © 2024 The ELPS authors

package diagnostic

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// tabWidth is the number of columns a tab occupies in rendered snippets.
const tabWidth = 4

// Renderer formats diagnostics as Rust-style annotated source snippets.
type Renderer struct {
	// Color controls ANSI color output. Default is ColorAuto.
	Color ColorMode

	// Sources holds the text of sources that do not exist as files, such as
	// expressions given on the command line.  It is consulted before
	// SourceReader.
	Sources map[string][]byte

	// SourceReader reads source file contents. If nil, os.ReadFile is used.
	SourceReader func(string) ([]byte, error)
}

// RenderError converts err with FromError and renders it to w.
func (r *Renderer) RenderError(w io.Writer, err error) error {
	return r.Render(w, FromError(err))
}

// Render writes a single diagnostic to w.
func (r *Renderer) Render(w io.Writer, d Diagnostic) error {
	p := choosePalette(r.Color, fileFromWriter(w))
	var b strings.Builder
	writeHeader(&b, d, p)
	for _, span := range d.Spans {
		r.writeSpan(&b, span, p)
	}
	for _, note := range d.Notes {
		fmt.Fprintf(&b, "   %s=%s note: %s\n", p.boldCyan, p.reset, note)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// RenderAll writes all diagnostics to w separated by blank lines.
func (r *Renderer) RenderAll(w io.Writer, diags []Diagnostic) error {
	for i, d := range diags {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if err := r.Render(w, d); err != nil {
			return err
		}
	}
	return nil
}

func writeHeader(b *strings.Builder, d Diagnostic, p palette) {
	color := p.boldRed
	switch d.Severity {
	case SeverityWarning:
		color = p.yellow
	case SeverityNote:
		color = p.boldCyan
	}
	fmt.Fprintf(b, "%s%s%s%s: %s%s%s\n", color, p.bold, d.Severity, p.reset, p.bold, d.Message, p.reset)
}

// writeSpan writes the location of span followed, when the source line can
// be found, by the line and an underline beneath the highlighted form.
func (r *Renderer) writeSpan(b *strings.Builder, span Span, p palette) {
	fmt.Fprintf(b, "  %s-->%s %s\n", p.boldBlue, p.reset, span.location())

	source, ok := r.sourceLine(span.File, span.Line)
	if !ok {
		fmt.Fprintf(b, "   %s|%s\n", p.boldBlue, p.reset)
		return
	}

	num := strconv.Itoa(span.Line)
	blank := strings.Repeat(" ", len(num))
	gutter := func(label string) string {
		return " " + p.boldBlue + label + " |" + p.reset
	}

	col := span.Col
	if col < 1 {
		col = 1
	}
	end := span.EndCol
	if end <= 0 {
		end = formEnd(source, col)
	}
	if end < col {
		end = col
	}

	b.WriteString(gutter(blank) + "\n")
	b.WriteString(gutter(num) + "  " + expandTabs(source) + "\n")
	b.WriteString(gutter(blank) + "  ")
	b.WriteString(strings.Repeat(" ", displayWidth(source, col-1)))
	b.WriteString(p.boldRed + strings.Repeat("^", end-col+1) + p.reset)
	if span.Label != "" {
		b.WriteString(" " + p.boldRed + span.Label + p.reset)
	}
	b.WriteString("\n" + gutter(blank) + "\n")
}

func (span Span) location() string {
	switch {
	case span.Line <= 0:
		return span.File
	case span.Col <= 0:
		return fmt.Sprintf("%s:%d", span.File, span.Line)
	default:
		return fmt.Sprintf("%s:%d:%d", span.File, span.Line, span.Col)
	}
}

// sourceLine returns the text of the 1-based line of file.  In-memory
// sources take precedence over the file system.
func (r *Renderer) sourceLine(file string, line int) (string, bool) {
	if line <= 0 || file == "" {
		return "", false
	}
	data, ok := r.Sources[file]
	if !ok {
		read := r.SourceReader
		if read == nil {
			read = os.ReadFile
		}
		var err error
		data, err = read(file)
		if err != nil {
			return "", false
		}
	}
	lines := bufio.NewScanner(bytes.NewReader(data))
	for n := 1; lines.Scan(); n++ {
		if n == line {
			return lines.Text(), true
		}
	}
	return "", false
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}

// displayWidth returns the number of columns the first n runes of s occupy
// once tabs are expanded.
func displayWidth(s string, n int) int {
	w := 0
	for _, ch := range s {
		if n == 0 {
			break
		}
		n--
		if ch == '\t' {
			w += tabWidth
		} else {
			w++
		}
	}
	return w
}

// fileFromWriter returns the *os.File behind w, if any, for terminal
// detection.
func fileFromWriter(w io.Writer) *os.File {
	if f, ok := w.(*os.File); ok {
		return f
	}
	return nil
}
