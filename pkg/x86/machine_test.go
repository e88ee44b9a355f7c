package x86

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func ins(op Op, operands ...Operand) Instruction {
	instruction := Instruction{Op: op}
	if len(operands) > 0 {
		instruction.A = operands[0]
	}
	if len(operands) > 1 {
		instruction.B = operands[1]
	}
	return instruction
}

func run(prog []Instruction) (*Machine, error) {
	m := NewMachine(prog, 0)
	err := m.Run(len(prog) + 8)
	return m, err
}

func TestArithmetic(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name   string
		prog   []Instruction
		status int
	}){
		{"add", []Instruction{
			ins(OpPush, Imm(2)),
			ins(OpPush, Imm(3)),
			ins(OpPop, Reg(RDI)),
			ins(OpPop, Reg(RAX)),
			ins(OpAdd, Reg(RAX), Reg(RDI)),
			ins(OpPush, Reg(RAX)),
			ins(OpPop, Reg(RAX)),
			ins(OpRet),
		}, 5},
		{"sub", []Instruction{
			ins(OpPush, Imm(20)),
			ins(OpPush, Imm(9)),
			ins(OpPop, Reg(RDI)),
			ins(OpPop, Reg(RAX)),
			ins(OpSub, Reg(RAX), Reg(RDI)),
			ins(OpPush, Reg(RAX)),
			ins(OpPop, Reg(RAX)),
			ins(OpRet),
		}, 11},
		{"imul", []Instruction{
			ins(OpPush, Imm(6)),
			ins(OpPush, Imm(7)),
			ins(OpPop, Reg(RDI)),
			ins(OpPop, Reg(RAX)),
			ins(OpImul, Reg(RAX), Reg(RDI)),
			ins(OpPush, Reg(RAX)),
			ins(OpPop, Reg(RAX)),
			ins(OpRet),
		}, 42},
		{"idiv", []Instruction{
			ins(OpPush, Imm(8)),
			ins(OpPush, Imm(2)),
			ins(OpPop, Reg(RDI)),
			ins(OpPop, Reg(RAX)),
			ins(OpCqo),
			ins(OpIdiv, Reg(RDI)),
			ins(OpPush, Reg(RAX)),
			ins(OpPop, Reg(RAX)),
			ins(OpRet),
		}, 4},
		{"neg", []Instruction{
			ins(OpMov, Reg(RAX), Imm(3)),
			ins(OpNeg, Reg(RAX)),
			ins(OpRet),
		}, 253},
	}

	for _, entry := range table {
		m, err := run(entry.prog)
		assert.NoError(err, entry.name)
		assert.Equal(entry.status, m.ExitStatus(), entry.name)
		assert.Empty(m.Stack, entry.name)
	}
}

// idiv follows x86 semantics: the quotient is truncated toward zero, so
// -3/2 is -1, not the floored -2.
func TestIdivTruncatesTowardZero(t *testing.T) {
	assert := assert.New(t)

	m, err := run([]Instruction{
		ins(OpMov, Reg(RAX), Imm(-3)),
		ins(OpMov, Reg(RDI), Imm(2)),
		ins(OpCqo),
		ins(OpIdiv, Reg(RDI)),
		ins(OpRet),
	})
	assert.NoError(err)
	assert.Equal(int64(-1), m.Regs[RAX])
	assert.Equal(int64(-1), m.Regs[RDX])
	assert.Equal(255, m.ExitStatus())
}

func TestCompare(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name string
		a, b int64
		op   Op
		want int64
	}){
		{"eq_true", 2, 2, OpSete, 1},
		{"eq_false", 2, 3, OpSete, 0},
		{"ne_true", 2, 3, OpSetne, 1},
		{"lt_true", -5, 3, OpSetl, 1},
		{"lt_false", 3, 3, OpSetl, 0},
		{"le_equal", 3, 3, OpSetle, 1},
		{"gt_true", 4, 3, OpSetg, 1},
		{"ge_false", 2, 3, OpSetge, 0},
		// a-b overflows int64; setl must honor OF, not just SF.
		{"lt_overflow", math.MinInt64 + 2, 5, OpSetl, 1},
	}

	for _, entry := range table {
		m, err := run([]Instruction{
			ins(OpMov, Reg(RAX), Imm(entry.a)),
			ins(OpMov, Reg(RDI), Imm(entry.b)),
			ins(OpCmp, Reg(RAX), Reg(RDI)),
			ins(entry.op, AL),
			ins(OpMovzb, Reg(RAX), AL),
			ins(OpRet),
		})
		assert.NoError(err, entry.name)
		assert.Equal(entry.want, m.Regs[RAX], entry.name)
	}
}

func TestSetccTouchesOnlyLowByte(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine([]Instruction{
		ins(OpSete, AL),
		ins(OpRet),
	}, 0)
	m.Regs[RAX] = 0x1122334455667700
	m.ZF = true

	assert.NoError(m.Run(4))
	assert.Equal(int64(0x1122334455667701), m.Regs[RAX])
}

func TestDivideFaults(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name string
		prog []Instruction
		want error
	}){
		{"by_zero", []Instruction{
			ins(OpMov, Reg(RAX), Imm(1)),
			ins(OpMov, Reg(RDI), Imm(0)),
			ins(OpCqo),
			ins(OpIdiv, Reg(RDI)),
			ins(OpRet),
		}, ErrDivideByZero},
		{"min_by_minus_one", []Instruction{
			ins(OpMov, Reg(RAX), Imm(math.MinInt64)),
			ins(OpMov, Reg(RDI), Imm(-1)),
			ins(OpCqo),
			ins(OpIdiv, Reg(RDI)),
			ins(OpRet),
		}, ErrDivideOverflow},
		{"missing_cqo", []Instruction{
			ins(OpMov, Reg(RAX), Imm(-8)),
			ins(OpMov, Reg(RDX), Imm(7)),
			ins(OpMov, Reg(RDI), Imm(2)),
			ins(OpIdiv, Reg(RDI)),
			ins(OpRet),
		}, ErrDivideOverflow},
	}

	for _, entry := range table {
		m, err := run(entry.prog)
		assert.ErrorIs(err, entry.want, entry.name)
		assert.True(m.Halted, entry.name)

		var fault Fault
		assert.True(errors.As(err, &fault), entry.name)
		assert.Equal(OpIdiv, fault.Ins.Op, entry.name)
		assert.Contains(fault.Error(), "idiv rdi", entry.name)
	}
}

func TestStackFaults(t *testing.T) {
	assert := assert.New(t)

	_, err := run([]Instruction{
		ins(OpPop, Reg(RAX)),
		ins(OpRet),
	})
	assert.ErrorIs(err, ErrStackUnderflow)

	m := NewMachine([]Instruction{
		ins(OpPush, Imm(1)),
		ins(OpRet),
	}, 0)
	m.Stack = make([]int64, StackDepth)
	assert.ErrorIs(m.Run(4), ErrStackOverflow)
}

func TestRunGuards(t *testing.T) {
	assert := assert.New(t)

	_, err := run([]Instruction{ins(OpNop)})
	assert.ErrorIs(err, ErrRanOffEnd)

	m := NewMachine([]Instruction{
		ins(OpNop),
		ins(OpNop),
		ins(OpNop),
		ins(OpRet),
	}, 0)
	assert.ErrorIs(m.Run(2), ErrStepLimit)
}

func TestExitStatusMasksToByte(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		rax    int64
		status int
	}){
		{0, 0},
		{42, 42},
		{255, 255},
		{256, 0},
		{300, 44},
		{-1, 255},
		{-3, 253},
	}

	for _, entry := range table {
		m := NewMachine(nil, 0)
		m.Regs[RAX] = entry.rax
		assert.Equal(entry.status, m.ExitStatus())
	}
}
