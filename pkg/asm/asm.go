// Package asm assembles Intel-syntax listings limited to the instruction
// subset pkg/x86 executes. It replaces the assemble-and-link step an
// external toolchain would perform, so compiled expressions can run
// in-process.
package asm

import (
	"strconv"
	"strings"
	"unicode"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/EringiShimeji/c-compiler-edu/pkg/x86"
)

var zeroOperandOps = map[string]x86.Op{
	"cqo": x86.OpCqo,
	"nop": x86.OpNop,
	"ret": x86.OpRet,
}

var oneRegisterOps = map[string]x86.Op{
	"pop":  x86.OpPop,
	"neg":  x86.OpNeg,
	"idiv": x86.OpIdiv,
}

var setccOps = map[string]x86.Op{
	"sete":  x86.OpSete,
	"setne": x86.OpSetne,
	"setl":  x86.OpSetl,
	"setle": x86.OpSetle,
	"setg":  x86.OpSetg,
	"setge": x86.OpSetge,
}

var twoOperandOps = map[string]x86.Op{
	"mov":  x86.OpMov,
	"add":  x86.OpAdd,
	"sub":  x86.OpSub,
	"imul": x86.OpImul,
	"cmp":  x86.OpCmp,
}

// Directives gcc-style listings carry that do not change what executes.
var knownDirectives = map[string]bool{
	".intel_syntax": true,
	".globl":        true,
	".global":       true,
	".text":         true,
	".p2align":      true,
}

// Program is an assembled listing.
type Program struct {
	Instructions []x86.Instruction
	Labels       map[string]int

	// SourceLines holds, for each instruction, the 1-based line of the
	// listing it was assembled from.
	SourceLines []int
}

// Entry returns the instruction index execution starts at: the main label
// when the listing defines one, otherwise 0.
func (p *Program) Entry() int {
	if at, ok := p.Labels["main"]; ok {
		return at
	}
	return 0
}

// Line returns the listing line the instruction at index came from, or 0
// if the index is out of range.
func (p *Program) Line(index int) int {
	if index < 0 || index >= len(p.SourceLines) {
		return 0
	}
	return p.SourceLines[index]
}

type Assembler struct {
	labels map[string]int
}

type parsedLine struct {
	lineNo   int
	labels   []string
	mnemonic string
	operands []string
}

func NewAssembler() *Assembler {
	return &Assembler{
		labels: make(map[string]int),
	}
}

func Assemble(code string) (*Program, error) {
	return NewAssembler().Assemble(code)
}

func (a *Assembler) Assemble(code string) (*Program, error) {
	lines := strings.Split(code, "\n")

	if err := a.pass1(lines); err != nil {
		return nil, err
	}

	return a.pass2(lines)
}

// pass1 records the instruction index of every label.
func (a *Assembler) pass1(lines []string) error {
	index := 0

	for i, raw := range lines {
		lineNo := i + 1
		p, err := parseLine(raw, lineNo)
		if err != nil {
			return err
		}

		for _, lbl := range p.labels {
			if _, exists := a.labels[lbl]; exists {
				return SyntaxError{lineNo, strings.TrimSpace(raw), ErrDuplicateLabel}
			}
			a.labels[lbl] = index
		}

		if p.mnemonic == "" || strings.HasPrefix(p.mnemonic, ".") {
			continue
		}
		index++
	}

	return nil
}

func (a *Assembler) pass2(lines []string) (*Program, error) {
	prog := &Program{Labels: a.labels}

	for i, raw := range lines {
		lineNo := i + 1
		p, err := parseLine(raw, lineNo)
		if err != nil {
			return nil, err
		}

		if p.mnemonic == "" {
			continue
		}

		if strings.HasPrefix(p.mnemonic, ".") {
			if !knownDirectives[p.mnemonic] {
				return nil, SyntaxError{lineNo, strings.TrimSpace(raw), ErrUnknownDirective}
			}
			continue
		}

		ins, err := a.encode(p)
		if err != nil {
			return nil, SyntaxError{lineNo, strings.TrimSpace(raw), err}
		}
		prog.Instructions = append(prog.Instructions, ins)
		prog.SourceLines = append(prog.SourceLines, lineNo)
	}

	return prog, nil
}

func (a *Assembler) encode(p parsedLine) (x86.Instruction, error) {
	if op, ok := zeroOperandOps[p.mnemonic]; ok {
		if len(p.operands) != 0 {
			return x86.Instruction{}, ErrBadOperandCount
		}
		return x86.Instruction{Op: op}, nil
	}

	if op, ok := setccOps[p.mnemonic]; ok {
		if len(p.operands) != 1 {
			return x86.Instruction{}, ErrBadOperandCount
		}
		if !strings.EqualFold(p.operands[0], "al") {
			return x86.Instruction{}, ErrBadOperand
		}
		return x86.Instruction{Op: op, A: x86.AL}, nil
	}

	if op, ok := oneRegisterOps[p.mnemonic]; ok {
		if len(p.operands) != 1 {
			return x86.Instruction{}, ErrBadOperandCount
		}
		reg, err := parseRegister(p.operands[0])
		if err != nil {
			return x86.Instruction{}, err
		}
		return x86.Instruction{Op: op, A: reg}, nil
	}

	if p.mnemonic == "push" {
		if len(p.operands) != 1 {
			return x86.Instruction{}, ErrBadOperandCount
		}
		src, err := a.parseOperand(p.operands[0])
		if err != nil {
			return x86.Instruction{}, err
		}
		return x86.Instruction{Op: x86.OpPush, A: src}, nil
	}

	if op, ok := twoOperandOps[p.mnemonic]; ok {
		if len(p.operands) != 2 {
			return x86.Instruction{}, ErrBadOperandCount
		}
		dst, err := parseRegister(p.operands[0])
		if err != nil {
			return x86.Instruction{}, err
		}
		src, err := a.parseOperand(p.operands[1])
		if err != nil {
			return x86.Instruction{}, err
		}
		return x86.Instruction{Op: op, A: dst, B: src}, nil
	}

	if p.mnemonic == "movzb" || p.mnemonic == "movzx" {
		if len(p.operands) != 2 {
			return x86.Instruction{}, ErrBadOperandCount
		}
		dst, err := parseRegister(p.operands[0])
		if err != nil {
			return x86.Instruction{}, err
		}
		if !strings.EqualFold(p.operands[1], "al") {
			return x86.Instruction{}, ErrBadOperand
		}
		return x86.Instruction{Op: x86.OpMovzb, A: dst, B: x86.AL}, nil
	}

	return x86.Instruction{}, ErrUnknownMnemonic
}

func parseLine(raw string, lineNo int) (parsedLine, error) {
	p := parsedLine{lineNo: lineNo}

	line := strings.TrimSpace(stripComments(raw))
	if line == "" {
		return p, nil
	}

	for {
		colon := strings.IndexByte(line, ':')
		if colon <= 0 {
			break
		}

		beforeColon := strings.TrimSpace(line[:colon])
		if strings.ContainsAny(beforeColon, " \t") {
			break
		}

		if !isIdentifier(beforeColon) {
			return p, SyntaxError{lineNo, strings.TrimSpace(raw), ErrBadLabel}
		}

		p.labels = append(p.labels, beforeColon)
		line = strings.TrimSpace(line[colon+1:])
		if line == "" {
			return p, nil
		}
	}

	mnemonic := line
	rest := ""
	if sp := strings.IndexAny(line, " \t"); sp != -1 {
		mnemonic = line[:sp]
		rest = strings.TrimSpace(line[sp+1:])
	}
	p.mnemonic = strings.ToLower(mnemonic)

	if rest != "" {
		for _, op := range strings.Split(rest, ",") {
			p.operands = append(p.operands, strings.TrimSpace(op))
		}
	}

	return p, nil
}

func stripComments(line string) string {
	hash := strings.Index(line, "#")
	semicolon := strings.Index(line, ";")

	cut := -1
	if hash >= 0 {
		cut = hash
	}
	if semicolon >= 0 && (cut == -1 || semicolon < cut) {
		cut = semicolon
	}
	if cut >= 0 {
		return line[:cut]
	}
	return line
}

func parseRegister(token string) (x86.Operand, error) {
	reg, ok := x86.RegisterNamed(token)
	if !ok {
		return x86.Operand{}, ErrBadOperand
	}
	return x86.Reg(reg), nil
}

func (a *Assembler) parseOperand(token string) (x86.Operand, error) {
	if reg, ok := x86.RegisterNamed(token); ok {
		return x86.Reg(reg), nil
	}
	value, err := a.parseImmediate(token)
	if err != nil {
		return x86.Operand{}, err
	}
	return x86.Imm(value), nil
}

// parseImmediate accepts plain integers in any strconv base-0 notation and
// falls back to evaluating the token as a constant expression, the way GNU
// as accepts expressions in operand position.
func (a *Assembler) parseImmediate(token string) (int64, error) {
	if value, err := strconv.ParseInt(token, 0, 64); err == nil {
		return value, nil
	}
	return evalImmediate(token)
}

func evalImmediate(expr string) (int64, error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "imm", prog, nil)
	if err != nil {
		return 0, ErrBadExpression(expr)
	}
	rc, ok := dict["rc"]
	if !ok {
		return 0, ErrBadExpression(expr)
	}
	rcInt, ok := rc.(starlark.Int)
	if !ok {
		return 0, ErrBadExpression(expr)
	}
	value, ok := rcInt.Int64()
	if !ok {
		return 0, ErrBadExpression(expr)
	}
	return value, nil
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}

	for i, r := range s {
		if i == 0 {
			if !unicode.IsLetter(r) && r != '_' && r != '.' {
				return false
			}
			continue
		}

		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '.' {
			return false
		}
	}

	return true
}
