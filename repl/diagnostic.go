// Copyright © 2024 The ELPS authors

package repl

import (
	"errors"

	"github.com/luthersystems/cljs2js/diagnostic"
	"github.com/luthersystems/cljs2js/translate"
)

// renderError renders err with the diagnostic renderer.  Locations in REPL
// input refer to the most recent line read, which is shown as the source
// snippet.
func (s *session) renderError(err error) {
	d := diagnostic.FromError(err)
	if errors.Is(err, translate.ErrMalformedSpecialForm) || errors.Is(err, translate.ErrUnsupportedArity) {
		d.Notes = append(d.Notes, "run `cljs2js doc` to see the usage of each special form")
	}
	r := &diagnostic.Renderer{
		Color:   s.cfg.color,
		Sources: map[string][]byte{SourceName: s.line},
	}
	_ = r.Render(s.out, d)
}
