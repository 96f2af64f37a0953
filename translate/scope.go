// Copyright © 2024 The ELPS authors

package translate

import (
	"github.com/luthersystems/cljs2js/astutil"
	"github.com/luthersystems/cljs2js/syntax"
)

// frame is the body of one generated JavaScript function.  Every var
// declared anywhere in the body shares the function-wide namespace, so
// names are tracked per frame rather than per block.
type frame struct {
	// taken holds the JavaScript names declared in the function and the
	// free names it references.
	taken map[string]bool
	// refs counts the symbols occurring anywhere in the function's source.
	refs map[string]int
}

// scope is one lexical level of source bindings.  names maps a source name
// (munged) to the JavaScript name it is bound to.
type scope struct {
	parent *scope
	fn     *frame
	names  map[string]string
}

func newScope(parent *scope, fn *frame) *scope {
	return &scope{parent: parent, fn: fn, names: make(map[string]string)}
}

// lookup returns the JavaScript name bound to name in s or an enclosing
// scope.
func (s *scope) lookup(name string) (string, bool) {
	for ; s != nil; s = s.parent {
		if js, ok := s.names[name]; ok {
			return js, true
		}
	}
	return "", false
}

// visible reports whether a var called name declared in the current
// function could capture a reference to some other binding of name.
func (s *scope) visible(name string) bool {
	for ; s != nil; s = s.parent {
		if s.fn.taken[name] {
			return true
		}
		if _, ok := s.names[name]; ok {
			return true
		}
	}
	return false
}

func (t *Translator) pushScope() {
	t.env = newScope(t.env, t.env.fn)
}

// pushFrame enters a generated function whose source body is forms.
func (t *Translator) pushFrame(forms []*syntax.Node) {
	t.env = newScope(t.env, &frame{
		taken: make(map[string]bool),
		refs:  refCounts(forms...),
	})
}

func (t *Translator) popScope() {
	t.env = t.env.parent
}

// declareName binds name to itself in the current scope.  It is used for
// parameters and definitions, whose JavaScript declarations introduce a
// new function scope or are global.
func (t *Translator) declareName(name string) {
	t.env.fn.taken[name] = true
	t.env.names[name] = name
}

// bind introduces a local binding of name in the current scope and returns
// the JavaScript name to declare.  The binding is renamed apart when a var
// of the same name would capture another binding: when name is already
// visible, or when the function refers to name outside of form, whose
// symbol counts are local.
func (t *Translator) bind(name string, local map[string]int) string {
	js := name
	if t.env.visible(name) || t.env.fn.refs[name] > local[name] {
		js = t.gen.Fresh(name)
	}
	t.env.fn.taken[js] = true
	t.env.names[name] = js
	return js
}

// resolveName returns the JavaScript name a reference to name denotes.  Free
// names are recorded so that later bindings in the function do not capture
// them.
func (t *Translator) resolveName(name string) string {
	if js, ok := t.env.lookup(name); ok {
		return js
	}
	t.env.fn.taken[name] = true
	return name
}

// refCounts counts the occurrences of each munged symbol in forms.
func refCounts(forms ...*syntax.Node) map[string]int {
	refs := make(map[string]int)
	for _, form := range forms {
		astutil.Walk(form, func(n, _ *syntax.Node, _ int) {
			if n.Kind == syntax.Symbol && !n.Gensym {
				refs[Munge(n.Str)]++
			}
		})
	}
	return refs
}
