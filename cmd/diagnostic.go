// Copyright © 2024 The ELPS authors

package cmd

import (
	"io"

	"github.com/luthersystems/cljs2js/diagnostic"
)

// reporter renders errors as annotated diagnostics.  Sources holds the text
// of every input so snippets never re-read a file or stdin.
type reporter struct {
	w        io.Writer
	renderer *diagnostic.Renderer
	count    int
}

func newReporter(w io.Writer) (*reporter, error) {
	mode, err := colorMode()
	if err != nil {
		return nil, err
	}
	return &reporter{
		w: w,
		renderer: &diagnostic.Renderer{
			Color:   mode,
			Sources: make(map[string][]byte),
		},
	}, nil
}

// source records the text of the input called name.
func (r *reporter) source(name string, src []byte) {
	r.renderer.Sources[name] = src
}

// report renders err with an optional trailing note.
func (r *reporter) report(err error, notes ...string) {
	d := diagnostic.FromError(err)
	d.Notes = append(d.Notes, notes...)
	_ = r.renderer.Render(r.w, d)
	r.count++
}

// err returns errReported when anything was reported.
func (r *reporter) err() error {
	if r.count > 0 {
		return errReported
	}
	return nil
}
