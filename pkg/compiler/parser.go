package compiler

import "strconv"

// Parser consumes the flat token slice produced by the Lexer and builds an AST.
//
// Grammar:
//
//	expression     = equality
//	equality       = relational (("==" | "!=") relational)*
//	relational     = additive (("<" | "<=" | ">" | ">=") additive)*
//	additive       = multiplicative (("+" | "-") multiplicative)*
//	multiplicative = unary (("*" | "/") unary)*
//	unary          = ("+" | "-")? primary
//	primary        = NUMBER | "(" expression ")"
//
// All binary operators are left-associative.
type Parser struct {
	tokens []Token
	pos    int
	src    string
}

func NewParser(tokens []Token, rawSource string) *Parser {
	return &Parser{tokens: tokens, src: rawSource}
}

// peek returns the current token without consuming it.
func (p *Parser) peek() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: EOF, Pos: len([]rune(p.src))}
	}
	return p.tokens[p.pos]
}

// advance consumes and returns the current token.
func (p *Parser) advance() Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

// expect consumes the current token if it matches tt, otherwise it
// returns a ParseError wrapping reason.
func (p *Parser) expect(tt TokenType, reason error) (Token, error) {
	tok := p.advance()
	if tok.Type != tt {
		return tok, ParseError{Src: p.src, Tok: tok, Err: reason}
	}
	return tok, nil
}

// Parse builds the AST for a single expression and verifies that the
// whole input was consumed.
func Parse(tokens []Token, rawSource string) (Expr, error) {
	p := NewParser(tokens, rawSource)
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.Type != EOF {
		return nil, ParseError{Src: p.src, Tok: tok, Err: ErrTrailingInput}
	}
	return expr, nil
}

// parseExpression is the entry point for expression parsing.
func (p *Parser) parseExpression() (Expr, error) {
	return p.parseEquality()
}

// parseEquality handles == and !=
func (p *Parser) parseEquality() (Expr, error) {
	expr, err := p.parseRelational()
	if err != nil {
		return nil, err
	}
	for p.peek().Type == EQUALS || p.peek().Type == NOT_EQ {
		op := p.advance().Type
		right, err := p.parseRelational()
		if err != nil {
			return nil, err
		}
		expr = &BinaryExpr{Op: op, Left: expr, Right: right}
	}
	return expr, nil
}

// parseRelational handles <, <=, > and >=. Greater-than forms are stored
// with swapped operands ("a > b" becomes "b < a") so that code generation
// only needs setl and setle.
func (p *Parser) parseRelational() (Expr, error) {
	expr, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for {
		switch p.peek().Type {
		case LESS, LESS_EQ:
			op := p.advance().Type
			right, err := p.parseAdditive()
			if err != nil {
				return nil, err
			}
			expr = &BinaryExpr{Op: op, Left: expr, Right: right}
		case GREATER:
			p.advance()
			right, err := p.parseAdditive()
			if err != nil {
				return nil, err
			}
			expr = &BinaryExpr{Op: LESS, Left: right, Right: expr}
		case GREATER_EQ:
			p.advance()
			right, err := p.parseAdditive()
			if err != nil {
				return nil, err
			}
			expr = &BinaryExpr{Op: LESS_EQ, Left: right, Right: expr}
		default:
			return expr, nil
		}
	}
}

// parseAdditive handles + and -
func (p *Parser) parseAdditive() (Expr, error) {
	expr, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.peek().Type == PLUS || p.peek().Type == MINUS {
		op := p.advance().Type
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		expr = &BinaryExpr{Op: op, Left: expr, Right: right}
	}
	return expr, nil
}

// parseMultiplicative handles * and /
func (p *Parser) parseMultiplicative() (Expr, error) {
	expr, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.peek().Type == STAR || p.peek().Type == SLASH {
		op := p.advance().Type
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		expr = &BinaryExpr{Op: op, Left: expr, Right: right}
	}
	return expr, nil
}

// parseUnary handles an optional sign before a primary. "-x" is rewritten
// as "0 - x" so that code generation only deals with binary operators.
func (p *Parser) parseUnary() (Expr, error) {
	switch p.peek().Type {
	case PLUS:
		p.advance()
		return p.parsePrimary()
	case MINUS:
		p.advance()
		right, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		return &BinaryExpr{Op: MINUS, Left: &Literal{Value: 0}, Right: right}, nil
	}
	return p.parsePrimary()
}

// parsePrimary handles NUMBER and parenthesised sub-expressions.
func (p *Parser) parsePrimary() (Expr, error) {
	tok := p.advance()
	switch tok.Type {
	case NUMBER:
		v, err := strconv.ParseInt(tok.Lexeme, 10, 64)
		if err != nil {
			return nil, ParseError{Src: p.src, Tok: tok, Err: ErrNumberRange(tok.Lexeme)}
		}
		return &Literal{Value: v}, nil
	case LPAREN:
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(RPAREN, ErrUnclosedParen); err != nil {
			return nil, err
		}
		return expr, nil
	default:
		return nil, ParseError{Src: p.src, Tok: tok, Err: ErrExpectedPrimary}
	}
}
