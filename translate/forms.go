// Copyright © 2024 The ELPS authors

package translate

import "strings"

// Form identifies how a list with a literal symbol head is lowered.
type Form uint

// Possible Form values.  FormCall is the fallback for ordinary calls.
const (
	FormCall Form = iota
	FormNs
	FormDef
	FormDefn
	FormFn
	FormSet
	FormIf
	FormIfNot
	FormWhen
	FormWhenNot
	FormDo
	FormCompare
	FormEq
	FormNotEq
	FormArith
	FormInc
	FormDec
	FormStr
	FormMember
	FormMethod
	FormNew
	FormIfLet
	FormAnd
	FormOr
	FormLet
	FormLoop
	FormRecur
	FormMax
)

var formNames = map[string]Form{
	"ns":       FormNs,
	"def":      FormDef,
	"defn":     FormDefn,
	"fn":       FormFn,
	"set!":     FormSet,
	"if":       FormIf,
	"if-not":   FormIfNot,
	"when":     FormWhen,
	"when-not": FormWhenNot,
	"do":       FormDo,
	"<":        FormCompare,
	">":        FormCompare,
	"<=":       FormCompare,
	">=":       FormCompare,
	"==":       FormCompare,
	"=":        FormEq,
	"not=":     FormNotEq,
	"+":        FormArith,
	"-":        FormArith,
	"*":        FormArith,
	"/":        FormArith,
	"inc":      FormInc,
	"dec":      FormDec,
	"str":      FormStr,
	"new":      FormNew,
	"if-let":   FormIfLet,
	"and":      FormAnd,
	"or":       FormOr,
	"let":      FormLet,
	"loop":     FormLoop,
	"recur":    FormRecur,
}

// Classify returns the Form a list headed by the symbol name lowers as.
func Classify(name string) Form {
	if f, ok := formNames[name]; ok {
		return f
	}
	switch {
	case strings.HasPrefix(name, ".-") && len(name) > 2:
		return FormMember
	case strings.HasPrefix(name, ".") && len(name) > 1 && !strings.HasPrefix(name, ".."):
		return FormMethod
	}
	return FormCall
}

// FormDoc documents a special form.
type FormDoc struct {
	Name    string
	Usage   string
	Summary string
}

// Forms returns documentation for every special form in a stable order.
func Forms() []FormDoc {
	return formDocs
}

// LookupForm returns the documentation for the special form called name.
// Operators and interop forms share one entry per family; for those the
// returned usage is rewritten to mention name.
func LookupForm(name string) (FormDoc, bool) {
	if doc, ok := lookupForm(name); ok {
		return doc, true
	}
	var family string
	switch Classify(name) {
	case FormCompare:
		family = "<"
	case FormArith:
		family = "+"
	case FormMember:
		family = ".-"
	case FormMethod:
		family = "."
	default:
		return FormDoc{}, false
	}
	doc, ok := lookupForm(family)
	if !ok {
		return FormDoc{}, false
	}
	doc.Name = name
	if i := strings.IndexByte(doc.Usage, ' '); i >= 0 {
		doc.Usage = "(" + name + doc.Usage[i:]
	}
	return doc, true
}

func lookupForm(name string) (FormDoc, bool) {
	for _, doc := range formDocs {
		if doc.Name == name {
			return doc, true
		}
	}
	return FormDoc{}, false
}

var formDocs = []FormDoc{
	{"ns", "(ns name (:require [lib :as alias] ...))",
		"Declares the namespace of the file and records the namespaces it requires."},
	{"def", "(def name doc? value)",
		"Binds name to value with a var declaration."},
	{"defn", "(defn name doc? [params] body...)",
		"Declares a named function. A body that calls recur is rewritten into a loop."},
	{"fn", "(fn name? [params] body...)",
		"Creates an anonymous function. A rest parameter follows &."},
	{"set!", "(set! target value)",
		"Assigns value to a variable or property."},
	{"if", "(if test then else?)",
		"Evaluates then when test is truthy, otherwise else."},
	{"if-not", "(if-not test then else?)",
		"Like if with the test negated through the runtime not function."},
	{"when", "(when test body...)",
		"Evaluates body when test is truthy."},
	{"when-not", "(when-not test body...)",
		"Evaluates body when test is falsy."},
	{"do", "(do body...)",
		"Evaluates body forms in order without introducing a scope."},
	{"<", "(< a b)",
		"Binary comparison. The operators < > <= >= == take exactly two operands."},
	{"=", "(= a b)",
		"Strict equality of exactly two operands."},
	{"not=", "(not= a b)",
		"Strict inequality of exactly two operands."},
	{"+", "(+ a b)",
		"Binary arithmetic. The operators + - * / take exactly two operands."},
	{"inc", "(inc x)",
		"Adds one to x."},
	{"dec", "(dec x)",
		"Subtracts one from x."},
	{"str", "(str x)",
		"Converts x to a string. Only one argument is supported."},
	{".-", "(.-prop obj)",
		"Reads property prop of obj."},
	{".", "(.method obj args...)",
		"Calls method on obj."},
	{"new", "(new Class args...)",
		"Constructs an instance of Class. (Class. args...) is equivalent."},
	{"if-let", "(if-let [name test] then else?)",
		"Evaluates test once and binds it to name within then when truthy."},
	{"and", "(and x...)",
		"Short-circuit conjunction yielding the first falsy operand or the last operand."},
	{"or", "(or x...)",
		"Short-circuit disjunction yielding the first truthy operand or the last operand."},
	{"let", "(let [name value ...] body...)",
		"Binds each name to its value in order, then evaluates body."},
	{"loop", "(loop [name value ...] body...)",
		"Like let, but body may call recur to rebind the names and repeat."},
	{"recur", "(recur args...)",
		"Rebinds the variables of the enclosing loop or function and jumps back to its start. Must be in tail position."},
}
