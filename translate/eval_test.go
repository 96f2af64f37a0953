// Copyright © 2024 The ELPS authors

package translate

import (
	"fmt"

	"github.com/luthersystems/cljs2js/jsast"
)

// maxIterations bounds every loop run by the evaluator.  A translated loop
// that never reaches a return or a continue falls off the end of its body
// and repeats, which the evaluator reports instead of hanging.
const maxIterations = 10000

// evaluator executes translated trees the way the formatter prints them
// as JavaScript.  Variables are function scoped and hoisted, a loop body
// that ends without returning runs again, and statements in tail position
// return their value.  It supports the subset of jsast the translator
// emits for arithmetic, comparisons, control flow and functions.
type evaluator struct {
	builtins map[string]func(args []interface{}) interface{}
	loops    [][]string
}

// activation holds the vars of one function call.  Blocks do not
// introduce activations.
type activation struct {
	vars   map[string]interface{}
	parent *activation
}

func newActivation(parent *activation) *activation {
	return &activation{vars: make(map[string]interface{}), parent: parent}
}

func (a *activation) lookup(name string) (interface{}, bool) {
	for ; a != nil; a = a.parent {
		if v, ok := a.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

func (a *activation) assign(name string, v interface{}) {
	for c := a; c != nil; c = c.parent {
		if _, ok := c.vars[name]; ok {
			c.vars[name] = v
			return
		}
	}
	a.vars[name] = v
}

// hoist declares every var of body in a before any statement runs.
// Declarations inside nested functions belong to those functions.
func (e *evaluator) hoist(body []jsast.Node, a *activation) {
	jsast.Inspect(body, func(n jsast.Node) bool {
		switch n := n.(type) {
		case *jsast.VarDecl:
			a.vars[n.Name] = nil
		case *jsast.FuncDecl:
			a.vars[n.Name] = &closure{params: n.Params, body: n.Body, env: a}
			return false
		case *jsast.FuncExpr:
			return false
		}
		return true
	})
}

type closure struct {
	params []jsast.Node
	body   []jsast.Node
	env    *activation
}

type control int

const (
	ctlNone control = iota
	ctlContinue
	ctlReturn
)

// empty is the completion value of a statement that produces none, such
// as a declaration.
type empty struct{}

func truthy(v interface{}) bool {
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	case float64:
		return v != 0
	case string:
		return v != ""
	default:
		return true
	}
}

// run executes top-level statements and returns the completion value of
// the program.
func (e *evaluator) run(nodes []jsast.Node) interface{} {
	env := newActivation(nil)
	e.hoist(nodes, env)
	v, ctl := e.seq(nodes, env, false)
	if ctl != ctlNone {
		panic(fmt.Sprintf("unexpected control transfer %d at top level", ctl))
	}
	if _, ok := v.(empty); ok {
		return nil
	}
	return v
}

// seq executes nodes in order.  Only the last node may be in tail
// position.  The returned value is a return value when ctl is ctlReturn
// and a completion value otherwise.
func (e *evaluator) seq(nodes []jsast.Node, env *activation, tail bool) (interface{}, control) {
	var last interface{} = empty{}
	for i, n := range nodes {
		v, ctl := e.stmt(n, env, tail && i == len(nodes)-1)
		if ctl != ctlNone {
			return v, ctl
		}
		if _, ok := v.(empty); !ok {
			last = v
		}
	}
	return last, ctlNone
}

// exit ends a tail statement that has no value of its own.
func exit(tail bool) (interface{}, control) {
	if tail {
		return nil, ctlReturn
	}
	return empty{}, ctlNone
}

func (e *evaluator) stmt(n jsast.Node, env *activation, tail bool) (interface{}, control) {
	switch n := n.(type) {
	case *jsast.VarDecl:
		env.vars[n.Name] = e.expr(n.Init, env)
		return exit(tail)
	case *jsast.FuncDecl:
		env.vars[n.Name] = &closure{params: n.Params, body: n.Body, env: env}
		return exit(tail)
	case *jsast.Namespace:
		return exit(tail)
	case *jsast.If:
		branch := n.Else
		if truthy(e.expr(n.Test, env)) {
			branch = n.Then
		}
		if len(branch) == 0 {
			if tail {
				return nil, ctlReturn
			}
			return nil, ctlNone
		}
		v, ctl := e.seq(branch, env, tail)
		if _, ok := v.(empty); ok && ctl == ctlNone {
			return nil, ctlNone
		}
		return v, ctl
	case *jsast.Block:
		if len(n.Body) == 0 {
			return exit(tail)
		}
		return e.seq(n.Body, env, tail)
	case *jsast.Loop:
		if !tail {
			// Printed inside its own function.
			return e.apply(&closure{body: []jsast.Node{n}, env: env}, nil), ctlNone
		}
		return e.loop(n, env), ctlReturn
	case *jsast.Continue:
		return nil, ctlContinue
	default:
		v := e.expr(n, env)
		if tail {
			return v, ctlReturn
		}
		return v, ctlNone
	}
}

func (e *evaluator) loop(n *jsast.Loop, env *activation) interface{} {
	e.loops = append(e.loops, n.Slots)
	defer func() { e.loops = e.loops[:len(e.loops)-1] }()
	body := n.Body
	if len(body) == 0 {
		body = []jsast.Node{&jsast.Null{}}
	}
	for i := 0; i < maxIterations; i++ {
		v, ctl := e.seq(body, env, true)
		if ctl == ctlReturn {
			return v
		}
	}
	panic(fmt.Sprintf("loop over %v did not terminate", n.Slots))
}

func (e *evaluator) expr(n jsast.Node, env *activation) interface{} {
	switch n := n.(type) {
	case *jsast.Number:
		return n.Value
	case *jsast.String:
		return n.Value
	case *jsast.Bool:
		return n.Value
	case *jsast.Null:
		return nil
	case *jsast.Ident:
		v, ok := env.lookup(n.Name)
		if !ok {
			panic(fmt.Sprintf("undefined variable %s", n.Name))
		}
		return v
	case *jsast.Slot:
		slots := e.loops[len(e.loops)-1]
		v, _ := env.lookup(slots[n.Index])
		return v
	case *jsast.Assign:
		v := e.expr(n.Value, env)
		switch target := n.Target.(type) {
		case *jsast.Slot:
			env.assign(e.loops[len(e.loops)-1][target.Index], v)
		case *jsast.Ident:
			env.assign(target.Name, v)
		default:
			panic(fmt.Sprintf("unsupported assignment target %T", target))
		}
		return v
	case *jsast.Compare:
		l, r := e.expr(n.Left, env), e.expr(n.Right, env)
		switch n.Op {
		case "===", "==":
			return l == r
		case "!==":
			return l != r
		}
		a, b := l.(float64), r.(float64)
		switch n.Op {
		case "<":
			return a < b
		case ">":
			return a > b
		case "<=":
			return a <= b
		case ">=":
			return a >= b
		}
	case *jsast.Arith:
		l, r := e.expr(n.Left, env), e.expr(n.Right, env)
		if s, ok := l.(string); ok && n.Op == "+" {
			return s + fmt.Sprint(r)
		}
		a, b := l.(float64), r.(float64)
		switch n.Op {
		case "+":
			return a + b
		case "-":
			return a - b
		case "*":
			return a * b
		case "/":
			return a / b
		}
	case *jsast.FuncExpr:
		return &closure{params: n.Params, body: n.Body, env: env}
	case *jsast.Call:
		args := make([]interface{}, len(n.Args))
		for i, arg := range n.Args {
			args[i] = e.expr(arg, env)
		}
		if fn, ok := e.builtin(n.Callee, env); ok {
			return fn(args)
		}
		fn, ok := e.expr(n.Callee, env).(*closure)
		if !ok {
			panic(fmt.Sprintf("not a function: %#v", n.Callee))
		}
		return e.apply(fn, args)
	}
	if jsast.IsStatement(n) {
		return e.apply(&closure{body: []jsast.Node{n}, env: env}, nil)
	}
	panic(fmt.Sprintf("cannot evaluate %T", n))
}

// builtin returns the builtin named by callee unless a variable shadows
// the root of its name.
func (e *evaluator) builtin(callee jsast.Node, env *activation) (func([]interface{}) interface{}, bool) {
	name, root := pathName(callee)
	if name == "" {
		return nil, false
	}
	if _, shadowed := env.lookup(root); shadowed {
		return nil, false
	}
	fn, ok := e.builtins[name]
	return fn, ok
}

func (e *evaluator) apply(fn *closure, args []interface{}) interface{} {
	env := newActivation(fn.env)
	for i, p := range fn.params {
		switch p := p.(type) {
		case *jsast.Ident:
			if i < len(args) {
				env.vars[p.Name] = args[i]
			} else {
				env.vars[p.Name] = nil
			}
		case *jsast.Rest:
			var rest []interface{}
			if i < len(args) {
				rest = args[i:]
			}
			env.vars[p.Param.Name] = rest
		}
	}
	e.hoistParams(fn, env)
	saved := e.loops
	e.loops = nil
	v, ctl := e.seq(fn.body, env, true)
	e.loops = saved
	switch ctl {
	case ctlReturn:
		return v
	case ctlContinue:
		panic("continue outside of a loop")
	}
	return nil
}

// hoistParams hoists the body of fn without resetting parameters, which a
// redeclaring var leaves untouched.
func (e *evaluator) hoistParams(fn *closure, env *activation) {
	params := make(map[string]interface{}, len(env.vars))
	for k, v := range env.vars {
		params[k] = v
	}
	e.hoist(fn.body, env)
	for k, v := range params {
		env.vars[k] = v
	}
}

// pathName returns the dotted name of an identifier or member chain and
// the identifier at its root.
func pathName(n jsast.Node) (name, root string) {
	switch n := n.(type) {
	case *jsast.Ident:
		return n.Name, n.Name
	case *jsast.Member:
		obj, root := pathName(n.Object)
		if obj == "" {
			return "", ""
		}
		return obj + "." + n.Property, root
	}
	return "", ""
}
