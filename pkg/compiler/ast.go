package compiler

import "fmt"

//  Expression nodes

// Expr is implemented by every node that produces a value.
// genExpr always leaves the result on top of the machine stack.
type Expr interface {
	exprNode()
	String() string
}

// Literal is an integer constant.
//
//	5 + 20
//	^         Literal{Value: 5}
type Literal struct {
	Value int64
}

func (*Literal) exprNode()        {}
func (l *Literal) String() string { return fmt.Sprintf("%d", l.Value) }

// BinaryExpr represents a binary operation: Left Op Right.
//
//	5 + 20
//	^ ^ ^^
//	| | |
//	| | Right
//	| Op
//	Left
//
// Unary minus never appears as its own node: the parser rewrites "-x"
// as BinaryExpr{MINUS, Literal{0}, x}.
type BinaryExpr struct {
	Op    TokenType
	Left  Expr
	Right Expr
}

func (*BinaryExpr) exprNode() {}
func (b *BinaryExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left, b.Op, b.Right)
}
