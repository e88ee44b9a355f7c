package x86

import (
	"fmt"
	"strconv"
	"strings"
)

// Register names a 64-bit general purpose register.
type Register int

const (
	RAX Register = iota
	RBX
	RCX
	RDX
	RSI
	RDI
	RBP
	RSP
)

var registerNames = [...]string{
	RAX: "rax",
	RBX: "rbx",
	RCX: "rcx",
	RDX: "rdx",
	RSI: "rsi",
	RDI: "rdi",
	RBP: "rbp",
	RSP: "rsp",
}

func (r Register) String() string {
	if r < 0 || int(r) >= len(registerNames) {
		return fmt.Sprintf("Register(%d)", int(r))
	}
	return registerNames[r]
}

// RegisterNamed resolves a lower- or upper-case register name.
func RegisterNamed(name string) (Register, bool) {
	name = strings.ToLower(name)
	for i, n := range registerNames {
		if n == name {
			return Register(i), true
		}
	}
	return 0, false
}

// Op identifies an instruction.
type Op int

const (
	OpInvalid Op = iota
	OpPush
	OpPop
	OpMov
	OpAdd
	OpSub
	OpImul
	OpNeg
	OpCqo
	OpIdiv
	OpCmp
	OpSete
	OpSetne
	OpSetl
	OpSetle
	OpSetg
	OpSetge
	OpMovzb
	OpNop
	OpRet // ends execution; the subset has no call
)

var opNames = [...]string{
	OpInvalid: "invalid",
	OpPush:    "push",
	OpPop:     "pop",
	OpMov:     "mov",
	OpAdd:     "add",
	OpSub:     "sub",
	OpImul:    "imul",
	OpNeg:     "neg",
	OpCqo:     "cqo",
	OpIdiv:    "idiv",
	OpCmp:     "cmp",
	OpSete:    "sete",
	OpSetne:   "setne",
	OpSetl:    "setl",
	OpSetle:   "setle",
	OpSetg:    "setg",
	OpSetge:   "setge",
	OpMovzb:   "movzb",
	OpNop:     "nop",
	OpRet:     "ret",
}

func (op Op) String() string {
	if op < 0 || int(op) >= len(opNames) {
		return fmt.Sprintf("Op(%d)", int(op))
	}
	return opNames[op]
}

// OperandKind distinguishes the operand forms the subset knows about.
type OperandKind int

const (
	NoOperand OperandKind = iota
	RegOperand
	ByteRegOperand
	ImmOperand
)

// Operand is a register, the byte register al, or an immediate.
type Operand struct {
	Kind OperandKind
	Reg  Register
	Imm  int64
}

// Reg builds a register operand.
func Reg(r Register) Operand {
	return Operand{Kind: RegOperand, Reg: r}
}

// Imm builds an immediate operand.
func Imm(v int64) Operand {
	return Operand{Kind: ImmOperand, Imm: v}
}

// AL is the low byte of rax, the only byte register the subset uses.
var AL = Operand{Kind: ByteRegOperand, Reg: RAX}

func (o Operand) String() string {
	switch o.Kind {
	case RegOperand:
		return o.Reg.String()
	case ByteRegOperand:
		return "al"
	case ImmOperand:
		return strconv.FormatInt(o.Imm, 10)
	}
	return ""
}

// Instruction is one decoded instruction. A is the first operand as
// written (the destination for two-operand forms), B the second.
type Instruction struct {
	Op Op
	A  Operand
	B  Operand
}

func (ins Instruction) String() string {
	switch {
	case ins.B.Kind != NoOperand:
		return fmt.Sprintf("%s %s, %s", ins.Op, ins.A, ins.B)
	case ins.A.Kind != NoOperand:
		return fmt.Sprintf("%s %s", ins.Op, ins.A)
	default:
		return ins.Op.String()
	}
}
