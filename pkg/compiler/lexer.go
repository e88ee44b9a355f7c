package compiler

import (
	"strconv"
	"unicode"
)

// Lexer holds all mutable state for a single scanning pass over src.
type Lexer struct {
	src []rune
	pos int // index of the next rune to consume
}

func newLexer(src string) *Lexer {
	return &Lexer{src: []rune(src), pos: 0}
}

// peek returns the rune at the current position without advancing.
func (l *Lexer) peek() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

// advance consumes one rune and returns it.
func (l *Lexer) advance() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	r := l.src[l.pos]
	l.pos++
	return r
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.src) && unicode.IsSpace(l.peek()) {
		l.advance()
	}
}

// errAt wraps err with the scanned source and the offset of the failure.
func (l *Lexer) errAt(pos int, err error) error {
	return LexError{Src: string(l.src), Pos: pos, Err: err}
}

// scanNumber collects a run of decimal digits. The first digit must still
// be at l.peek(). Literals that overflow an int64 are rejected here so
// that later stages never see them.
func (l *Lexer) scanNumber() (Token, error) {
	start := l.pos
	for l.pos < len(l.src) && unicode.IsDigit(l.peek()) {
		l.advance()
	}
	lexeme := string(l.src[start:l.pos])
	if _, err := strconv.ParseInt(lexeme, 10, 64); err != nil {
		return Token{}, l.errAt(start, ErrNumberRange(lexeme))
	}
	return Token{Type: NUMBER, Lexeme: lexeme, Pos: start}, nil
}

// nextToken skips whitespace and returns the next Token.
func (l *Lexer) nextToken() (Token, error) {
	l.skipWhitespace()
	if l.pos >= len(l.src) {
		return Token{Type: EOF, Lexeme: "", Pos: l.pos}, nil
	}

	ch := l.peek()
	pos := l.pos

	if unicode.IsDigit(ch) {
		return l.scanNumber()
	}

	l.advance() // consume the character before the switch
	switch ch {
	case '(':
		return Token{LPAREN, "(", pos}, nil
	case ')':
		return Token{RPAREN, ")", pos}, nil
	case '+':
		return Token{PLUS, "+", pos}, nil
	case '-':
		return Token{MINUS, "-", pos}, nil
	case '*':
		return Token{STAR, "*", pos}, nil
	case '/':
		return Token{SLASH, "/", pos}, nil
	case '=':
		if l.peek() == '=' { // lookahead: a lone '=' is not an operator here
			l.advance()
			return Token{EQUALS, "==", pos}, nil
		}
		return Token{}, l.errAt(pos, ErrUnexpectedChar(ch))
	case '!':
		if l.peek() == '=' {
			l.advance()
			return Token{NOT_EQ, "!=", pos}, nil
		}
		return Token{}, l.errAt(pos, ErrUnexpectedChar(ch))
	case '<':
		if l.peek() == '=' {
			l.advance()
			return Token{LESS_EQ, "<=", pos}, nil
		}
		return Token{LESS, "<", pos}, nil
	case '>':
		if l.peek() == '=' {
			l.advance()
			return Token{GREATER_EQ, ">=", pos}, nil
		}
		return Token{GREATER, ">", pos}, nil
	default:
		return Token{}, l.errAt(pos, ErrUnexpectedChar(ch))
	}
}

// Lex tokenises src and returns all tokens including the final EOF token.
// It returns a non-nil error on the first illegal character.
func Lex(src string) ([]Token, error) {
	l := newLexer(src)
	var tokens []Token
	for {
		tok, err := l.nextToken()
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			return tokens, nil
		}
	}
}
