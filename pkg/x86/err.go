package x86

import (
	"errors"

	"github.com/EringiShimeji/c-compiler-edu/pkg/translate"
)

var f = translate.From

var (
	// Machine faults
	ErrStackOverflow  = errors.New(f("stack overflow"))
	ErrStackUnderflow = errors.New(f("stack underflow"))
	ErrDivideByZero   = errors.New(f("division by zero"))
	ErrDivideOverflow = errors.New(f("quotient out of range"))
	ErrRanOffEnd      = errors.New(f("program ended without ret"))
	ErrStepLimit      = errors.New(f("step limit exceeded"))

	// Decode faults
	ErrBadOperand = errors.New(f("invalid operand"))
	ErrUnknownOp  = errors.New(f("unknown instruction"))
)

// Fault reports where execution stopped and why. PC is the index of the
// faulting instruction, not the next one.
type Fault struct {
	PC  int
	Ins Instruction
	Err error
}

func (e Fault) Error() string {
	if e.Ins.Op == OpInvalid {
		return f("fault at instruction %d: %v", e.PC, e.Err)
	}
	return f("fault at instruction %d: %s: %v", e.PC, e.Ins, e.Err)
}

func (e Fault) Unwrap() error {
	return e.Err
}
