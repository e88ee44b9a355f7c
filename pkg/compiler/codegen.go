package compiler

import (
	"fmt"
	"strings"
)

// CodeGen walks an AST and emits x86-64 assembly source text.
//
// Expressions compile to stack-machine form: literals are pushed, every
// binary operator pops its two operands into rdi and rax, computes into
// rax, and pushes the result back. The epilogue pops the final value into
// rax so the process exit status is the value of the expression.
type CodeGen struct {
	out strings.Builder
}

func newCodeGen() *CodeGen {
	return &CodeGen{}
}

func (cg *CodeGen) line(format string, args ...any) {
	fmt.Fprintf(&cg.out, format+"\n", args...)
}

// genExpr emits code that leaves the value of expr on top of the stack.
func (cg *CodeGen) genExpr(expr Expr) error {
	switch e := expr.(type) {
	case *Literal:
		cg.line("  push %d", e.Value)
		return nil

	case *BinaryExpr:
		if err := cg.genExpr(e.Left); err != nil {
			return err
		}
		if err := cg.genExpr(e.Right); err != nil {
			return err
		}
		cg.line("  pop rdi")
		cg.line("  pop rax")
		switch e.Op {
		case PLUS:
			cg.line("  add rax, rdi")
		case MINUS:
			cg.line("  sub rax, rdi")
		case STAR:
			cg.line("  imul rax, rdi")
		case SLASH:
			// idiv divides the 128-bit value rdx:rax, so cqo must
			// sign-extend rax into rdx first. A zero divisor is left
			// to fault at run time.
			cg.line("  cqo")
			cg.line("  idiv rdi")
		case EQUALS:
			cg.line("  cmp rax, rdi")
			cg.line("  sete al")
			cg.line("  movzb rax, al")
		case NOT_EQ:
			cg.line("  cmp rax, rdi")
			cg.line("  setne al")
			cg.line("  movzb rax, al")
		case LESS:
			cg.line("  cmp rax, rdi")
			cg.line("  setl al")
			cg.line("  movzb rax, al")
		case LESS_EQ:
			cg.line("  cmp rax, rdi")
			cg.line("  setle al")
			cg.line("  movzb rax, al")
		default:
			return fmt.Errorf("cannot generate code for operator %s", e.Op)
		}
		cg.line("  push rax")
		return nil

	default:
		return fmt.Errorf("cannot generate code for %T", expr)
	}
}

// Generate compiles expr to a complete assembly listing with a main
// entry point. On error no assembly is returned.
func Generate(expr Expr) (string, error) {
	cg := newCodeGen()
	cg.line(".intel_syntax noprefix")
	cg.line(".globl main")
	cg.line("main:")
	if err := cg.genExpr(expr); err != nil {
		return "", err
	}
	cg.line("  pop rax")
	cg.line("  ret")
	return cg.out.String(), nil
}
