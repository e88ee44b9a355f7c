package compiler

import (
	"errors"
	"strings"

	"github.com/EringiShimeji/c-compiler-edu/pkg/translate"
)

var f = translate.From

var (
	// Parser errors
	ErrExpectedPrimary = errors.New(f("expected a number or '('"))
	ErrUnclosedParen   = errors.New(f("unclosed '('"))
	ErrTrailingInput   = errors.New(f("unexpected input after expression"))
)

// ErrUnexpectedChar is a rune the scanner cannot start a token with.
type ErrUnexpectedChar rune

func (err ErrUnexpectedChar) Error() string {
	return f("unexpected character: %c", rune(err))
}

func (err ErrUnexpectedChar) Is(target error) (ok bool) {
	_, ok = target.(ErrUnexpectedChar)
	return
}

// ErrNumberRange is a numeric literal that does not fit in an int64.
type ErrNumberRange string

func (err ErrNumberRange) Error() string {
	return f("number out of range: %s", string(err))
}

func (err ErrNumberRange) Is(target error) (ok bool) {
	_, ok = target.(ErrNumberRange)
	return
}

// LexError reports the source offset at which scanning failed.
type LexError struct {
	Src string
	Pos int
	Err error
}

func (err LexError) Error() string {
	return errorAt(err.Src, err.Pos, err.Err)
}

func (err LexError) Unwrap() error {
	return err.Err
}

// ParseError reports the token at which parsing failed.
type ParseError struct {
	Src string
	Tok Token
	Err error
}

func (err ParseError) Error() string {
	return errorAt(err.Src, err.Tok.Pos, err.Err)
}

func (err ParseError) Unwrap() error {
	return err.Err
}

// errorAt renders the source with a caret under the offending column:
//
//	12 + 34 +
//	         ^ expected a number or '('
func errorAt(src string, pos int, err error) string {
	if n := len([]rune(src)); pos > n {
		pos = n
	}
	return src + "\n" + strings.Repeat(" ", pos) + "^ " + err.Error()
}
