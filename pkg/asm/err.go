package asm

import (
	"errors"

	"github.com/EringiShimeji/c-compiler-edu/pkg/translate"
)

var f = translate.From

var (
	ErrUnknownMnemonic  = errors.New(f("unknown mnemonic"))
	ErrUnknownDirective = errors.New(f("unknown directive"))
	ErrBadOperandCount  = errors.New(f("wrong number of operands"))
	ErrBadOperand       = errors.New(f("invalid operand"))
	ErrBadLabel         = errors.New(f("invalid label"))
	ErrDuplicateLabel   = errors.New(f("label duplicated"))
)

// ErrBadExpression marks an immediate that is neither a number nor a
// constant expression.
type ErrBadExpression string

func (err ErrBadExpression) Error() string {
	return f("'%v' is not a constant expression", string(err))
}

func (err ErrBadExpression) Is(target error) (ok bool) {
	_, ok = target.(ErrBadExpression)
	return
}

// SyntaxError ties an assembly error to the listing line that caused it.
type SyntaxError struct {
	LineNo int
	Line   string
	Err    error
}

func (err SyntaxError) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err SyntaxError) Unwrap() error {
	return err.Err
}
