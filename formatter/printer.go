// Copyright © 2024 The ELPS authors

package formatter

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/luthersystems/cljs2js/jsast"
)

type printer struct {
	buf   bytes.Buffer
	cfg   *Config
	col   int  // current column (0-indexed)
	atBOL bool // at beginning of line (nothing written on current line)
	level int  // current indent level
	loops [][]string
	err   error
}

func newPrinter(cfg *Config) *printer {
	return &printer{
		cfg:   cfg,
		atBOL: true,
	}
}

func (p *printer) errorf(format string, v ...interface{}) {
	if p.err == nil {
		p.err = fmt.Errorf(format, v...)
	}
}

func (p *printer) writeHeader() {
	if p.cfg.Header == "" {
		return
	}
	for _, line := range strings.Split(p.cfg.Header, "\n") {
		p.writeString(strings.TrimRight("// "+line, " "))
		p.newline()
	}
}

// writeTopLevel writes a sequence of top-level statements.  The top level is
// not a function body so nothing is in tail position.
func (p *printer) writeTopLevel(nodes []jsast.Node) {
	p.writeStmts(nodes, false)
}

func (p *printer) writeStmts(nodes []jsast.Node, tail bool) {
	for i, n := range nodes {
		p.writeStmt(n, tail && i == len(nodes)-1)
	}
}

// writeStmt writes n as a statement followed by a newline.
func (p *printer) writeStmt(n jsast.Node, tail bool) {
	p.writeIndent()
	switch n := n.(type) {
	case *jsast.Namespace:
		p.writeNamespace(n)
		p.writeTailNull(tail)
	case *jsast.VarDecl:
		p.writeString("var " + n.Name)
		if n.Init != nil {
			p.writeString(" = ")
			p.writeExprBare(n.Init)
		}
		p.endStmt()
		p.writeTailNull(tail)
	case *jsast.FuncDecl:
		p.writeFunction(n.Name, n.Params, n.Body)
		p.newline()
		p.writeTailNull(tail)
	case *jsast.If:
		p.writeIf(n, tail)
		p.newline()
	case *jsast.Block:
		p.writeString("{")
		p.writeBody(tailBody(n.Body, tail), tail)
		p.writeString("}")
		p.newline()
	case *jsast.Loop:
		if tail {
			p.writeLoop(n)
			p.newline()
			return
		}
		// A loop whose value is discarded still returns from its last
		// node, so it runs inside its own function.
		p.writeString("(function () {")
		p.newline()
		p.level++
		p.writeIndent()
		p.writeLoop(n)
		p.newline()
		p.level--
		p.writeIndent()
		p.writeString("})()")
		p.endStmt()
	case *jsast.Continue:
		p.writeString("continue")
		p.endStmt()
	default:
		if tail {
			p.writeString("return ")
			p.writeExprBare(n)
		} else if _, ok := n.(*jsast.FuncExpr); ok {
			p.writeString("(")
			p.writeExpr(n)
			p.writeString(")")
		} else {
			p.writeExprBare(n)
		}
		p.endStmt()
	}
}

func (p *printer) writeNamespace(n *jsast.Namespace) {
	p.writeString("goog.provide(")
	p.writeNamespaceName(n.Name)
	p.writeString(")")
	p.endStmt()
	for _, req := range n.Requires {
		p.writeIndent()
		p.writeString("goog.require(" + quote(req.Namespace) + ")")
		p.endStmt()
		if req.Alias != "" {
			p.writeIndent()
			p.writeString("var " + req.Alias + " = " + req.Namespace)
			p.endStmt()
		}
	}
}

func (p *printer) writeNamespaceName(name jsast.Node) {
	switch name := name.(type) {
	case *jsast.Ident:
		p.writeString(quote(name.Name))
	case *jsast.String:
		p.writeString(quote(name.Value))
	default:
		p.writeExpr(name)
	}
}

// writeTailNull ends a tail position whose last statement has no value.
// Inside a loop, falling off the end of the body would repeat it.
func (p *printer) writeTailNull(tail bool) {
	if !tail {
		return
	}
	p.writeIndent()
	p.writeString("return null")
	p.endStmt()
}

// tailBody returns nodes, or a lone null when an empty body is in tail
// position and must still exit.
func tailBody(nodes []jsast.Node, tail bool) []jsast.Node {
	if tail && len(nodes) == 0 {
		return []jsast.Node{&jsast.Null{}}
	}
	return nodes
}

func (p *printer) writeIf(n *jsast.If, tail bool) {
	p.writeString("if (")
	p.writeExprBare(n.Test)
	p.writeString(") {")
	p.writeBody(tailBody(n.Then, tail), tail)
	p.writeString("}")
	switch {
	case len(n.Else) == 0 && !tail:
	case len(n.Else) == 1 && isIf(n.Else[0]):
		p.writeString(" else ")
		p.writeIf(n.Else[0].(*jsast.If), tail)
	default:
		p.writeString(" else {")
		p.writeBody(tailBody(n.Else, tail), tail)
		p.writeString("}")
	}
}

func isIf(n jsast.Node) bool {
	_, ok := n.(*jsast.If)
	return ok
}

func (p *printer) writeLoop(n *jsast.Loop) {
	p.loops = append(p.loops, n.Slots)
	p.writeString("while (true) {")
	p.writeBody(tailBody(n.Body, true), true)
	p.writeString("}")
	p.loops = p.loops[:len(p.loops)-1]
}

// writeBody writes statements between braces.  The opening brace has been
// written; the closing brace is left for the caller.
func (p *printer) writeBody(nodes []jsast.Node, tail bool) {
	if len(nodes) == 0 {
		return
	}
	p.newline()
	p.level++
	p.writeStmts(nodes, tail)
	p.level--
	p.writeIndent()
}

func (p *printer) writeFunction(name string, params []jsast.Node, body []jsast.Node) {
	p.writeString("function ")
	if name != "" {
		p.writeString(name)
	}
	p.writeString("(")
	for i, param := range params {
		if i > 0 {
			p.writeString(", ")
		}
		p.writeExpr(param)
	}
	p.writeString(") {")
	// Loops do not extend into nested functions.
	saved := p.loops
	p.loops = nil
	p.writeBody(body, true)
	p.loops = saved
	p.writeString("}")
}

// writeExpr writes n in expression position.
func (p *printer) writeExpr(n jsast.Node) {
	switch n := n.(type) {
	case nil:
		p.errorf("missing expression")
	case *jsast.Ident:
		p.writeString(n.Name)
	case *jsast.String:
		p.writeString(quote(n.Value))
	case *jsast.Number:
		p.writeNumber(n)
	case *jsast.Bool:
		p.writeString(strconv.FormatBool(n.Value))
	case *jsast.Null:
		p.writeString("null")
	case *jsast.Compare:
		p.writeBinary(n.Op, n.Left, n.Right)
	case *jsast.Arith:
		p.writeBinary(n.Op, n.Left, n.Right)
	case *jsast.Assign:
		p.writeExpr(n.Target)
		p.writeString(" = ")
		p.writeExprBare(n.Value)
	case *jsast.Call:
		p.writeOperand(n.Callee)
		p.writeArgs(n.Args)
	case *jsast.Member:
		p.writeOperand(n.Object)
		if isIdentifier(n.Property) {
			p.writeString("." + n.Property)
		} else {
			p.writeString("[" + quote(n.Property) + "]")
		}
	case *jsast.New:
		p.writeString("new ")
		switch n.Class.(type) {
		case *jsast.Ident, *jsast.Member:
			p.writeExpr(n.Class)
		default:
			p.writeString("(")
			p.writeExpr(n.Class)
			p.writeString(")")
		}
		p.writeArgs(n.Args)
	case *jsast.Array:
		p.writeString("[")
		for i, x := range n.Elems {
			if i > 0 {
				p.writeString(", ")
			}
			p.writeExprBare(x)
		}
		p.writeString("]")
	case *jsast.FuncExpr:
		p.writeFunction(n.Name, n.Params, n.Body)
	case *jsast.Slot:
		if len(p.loops) == 0 {
			p.errorf("loop slot %d referenced outside of a loop", n.Index)
			return
		}
		slots := p.loops[len(p.loops)-1]
		if n.Index < 0 || n.Index >= len(slots) {
			p.errorf("loop slot %d out of range for %d loop variables", n.Index, len(slots))
			return
		}
		p.writeString(slots[n.Index])
	case *jsast.Rest:
		p.writeString("...")
		p.writeExpr(n.Param)
	default:
		if jsast.IsStatement(n) {
			p.writeExpr(jsast.IIFE([]jsast.Node{n}))
			return
		}
		p.errorf("cannot print node of type %T", n)
	}
}

// writeExprBare writes n without the parentheses surrounding a binary
// expression.  It is used where the surrounding syntax already delimits n.
func (p *printer) writeExprBare(n jsast.Node) {
	switch n := n.(type) {
	case *jsast.Compare:
		p.writeExpr(n.Left)
		p.writeString(" " + n.Op + " ")
		p.writeExpr(n.Right)
	case *jsast.Arith:
		p.writeExpr(n.Left)
		p.writeString(" " + n.Op + " ")
		p.writeExpr(n.Right)
	default:
		p.writeExpr(n)
	}
}

func (p *printer) writeBinary(op string, left, right jsast.Node) {
	p.writeString("(")
	p.writeExpr(left)
	p.writeString(" " + op + " ")
	p.writeExpr(right)
	p.writeString(")")
}

// writeOperand writes the object of a member access or the callee of a call,
// adding parentheses where the operand would otherwise bind incorrectly.
func (p *printer) writeOperand(n jsast.Node) {
	switch n.(type) {
	case *jsast.FuncExpr, *jsast.Number, *jsast.New, *jsast.Assign:
		p.writeString("(")
		p.writeExpr(n)
		p.writeString(")")
	default:
		p.writeExpr(n)
	}
}

func (p *printer) writeArgs(args []jsast.Node) {
	p.writeString("(")
	for i, arg := range args {
		if i > 0 {
			p.writeString(", ")
		}
		p.writeExprBare(arg)
	}
	p.writeString(")")
}

// writeNumber writes a number, using original text if available.
func (p *printer) writeNumber(n *jsast.Number) {
	if n.Raw != "" {
		p.writeString(n.Raw)
		return
	}
	p.writeString(strconv.FormatFloat(n.Value, 'g', -1, 64))
}

func (p *printer) endStmt() {
	if p.cfg.Semicolons {
		p.writeString(";")
	}
	p.newline()
}

// writeIndent writes spaces to reach the current indent level.
func (p *printer) writeIndent() {
	if !p.atBOL {
		return
	}
	col := p.level * p.cfg.IndentSize
	for i := 0; i < col; i++ {
		p.buf.WriteByte(' ')
	}
	p.col = col
	p.atBOL = false
}

// writeString writes a string, updating column tracking.
func (p *printer) writeString(s string) {
	if p.atBOL && s != "" {
		p.atBOL = false
	}
	p.buf.WriteString(s)
	if idx := strings.LastIndex(s, "\n"); idx >= 0 {
		p.col = len(s) - idx - 1
	} else {
		p.col += len(s)
	}
}

// newline writes a newline and marks beginning of line.
func (p *printer) newline() {
	p.buf.WriteByte('\n')
	p.col = 0
	p.atBOL = true
}

// quote returns s as a double-quoted JavaScript string literal.
func quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, c := range s {
		switch c {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\u2028', '\u2029', utf8.RuneError:
			fmt.Fprintf(&b, `\u%04x`, c)
		default:
			if c < 0x20 || c == 0x7f {
				fmt.Fprintf(&b, `\u%04x`, c)
			} else {
				b.WriteRune(c)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		switch {
		case c == '_' || c == '$' || unicode.IsLetter(c):
		case i > 0 && unicode.IsDigit(c):
		default:
			return false
		}
	}
	return true
}
