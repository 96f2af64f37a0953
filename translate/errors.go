// Copyright © 2024 The ELPS authors

package translate

import (
	"errors"
	"fmt"

	"github.com/luthersystems/cljs2js/parser/token"
	"github.com/luthersystems/cljs2js/syntax"
)

// Error categories.  Every error returned by a Translator wraps exactly one
// of these and can be tested with errors.Is.
var (
	// ErrUnknownNodeKind means the input tree contains a node kind outside
	// the closed set produced by readers.
	ErrUnknownNodeKind = errors.New("unknown node kind")
	// ErrMalformedSpecialForm means a special form is missing a required
	// part or has a part of the wrong shape.
	ErrMalformedSpecialForm = errors.New("malformed special form")
	// ErrUnsupportedArity means a form was given an operand count it does
	// not support.
	ErrUnsupportedArity = errors.New("unsupported arity")
)

// Error is a translation failure tied to the offending node.
type Error struct {
	Err     error
	Message string
	Source  *token.Location
}

func (err *Error) Error() string {
	if err.Source == nil {
		return fmt.Sprintf("%v: %s", err.Err, err.Message)
	}
	return fmt.Sprintf("%v: %v: %s", err.Source, err.Err, err.Message)
}

func (err *Error) Unwrap() error {
	return err.Err
}

func newError(kind error, node *syntax.Node, format string, v ...interface{}) *Error {
	err := &Error{
		Err:     kind,
		Message: fmt.Sprintf(format, v...),
	}
	if node != nil {
		err.Source = node.Source
	}
	return err
}

func malformed(node *syntax.Node, format string, v ...interface{}) *Error {
	return newError(ErrMalformedSpecialForm, node, format, v...)
}

func arity(node *syntax.Node, format string, v ...interface{}) *Error {
	return newError(ErrUnsupportedArity, node, format, v...)
}
