// Package x86 executes the subset of x86-64 the compiler emits: push/pop,
// register moves, signed arithmetic, cqo/idiv, cmp with setcc, and ret.
// Values are int64 throughout; the hardware stack is modelled as a bounded
// slice of them.
package x86

import "math"

// StackDepth bounds the value stack. Expression evaluation pushes one slot
// per pending operand, so this allows parenthesis nesting a few thousand deep.
const StackDepth = 4096

type Machine struct {
	Regs [8]int64

	ZF bool
	SF bool
	OF bool

	PC    int
	Code  []Instruction
	Stack []int64

	Halted bool
}

// NewMachine prepares a machine that starts executing Code[entry].
func NewMachine(code []Instruction, entry int) *Machine {
	return &Machine{
		Code:  code,
		PC:    entry,
		Stack: make([]int64, 0, 64),
	}
}

// ExitStatus returns the low byte of rax, the value a wait(2) caller would
// observe after main returned rax.
func (m *Machine) ExitStatus() int {
	return int(uint8(m.Regs[RAX]))
}

func (m *Machine) push(v int64) error {
	if len(m.Stack) >= StackDepth {
		return ErrStackOverflow
	}
	m.Stack = append(m.Stack, v)
	return nil
}

func (m *Machine) pop() (int64, error) {
	if len(m.Stack) == 0 {
		return 0, ErrStackUnderflow
	}
	v := m.Stack[len(m.Stack)-1]
	m.Stack = m.Stack[:len(m.Stack)-1]
	return v, nil
}

func (m *Machine) readOperand(o Operand) (int64, error) {
	switch o.Kind {
	case RegOperand:
		return m.Regs[o.Reg], nil
	case ByteRegOperand:
		return int64(uint8(m.Regs[o.Reg])), nil
	case ImmOperand:
		return o.Imm, nil
	}
	return 0, ErrBadOperand
}

func (m *Machine) writeOperand(o Operand, v int64) error {
	switch o.Kind {
	case RegOperand:
		m.Regs[o.Reg] = v
		return nil
	case ByteRegOperand:
		m.Regs[o.Reg] = (m.Regs[o.Reg] &^ 0xFF) | (v & 0xFF)
		return nil
	}
	return ErrBadOperand
}

func (m *Machine) setByte(o Operand, cond bool) error {
	if o.Kind != ByteRegOperand {
		return ErrBadOperand
	}
	var v int64
	if cond {
		v = 1
	}
	return m.writeOperand(o, v)
}

func (m *Machine) updateFlags(result int64) {
	m.ZF = result == 0
	m.SF = result < 0
}

func (m *Machine) fault(ins Instruction, err error) error {
	m.Halted = true
	return Fault{PC: m.PC - 1, Ins: ins, Err: err}
}

// Step executes a single instruction. A non-nil error is always a Fault and
// leaves the machine halted.
func (m *Machine) Step() error {
	if m.Halted {
		return nil
	}

	if m.PC < 0 || m.PC >= len(m.Code) {
		m.Halted = true
		return Fault{PC: m.PC, Err: ErrRanOffEnd}
	}

	ins := m.Code[m.PC]
	m.PC++

	switch ins.Op {
	case OpNop:
		// No operation.

	case OpRet:
		m.Halted = true

	case OpPush:
		v, err := m.readOperand(ins.A)
		if err != nil {
			return m.fault(ins, err)
		}
		if err := m.push(v); err != nil {
			return m.fault(ins, err)
		}

	case OpPop:
		v, err := m.pop()
		if err != nil {
			return m.fault(ins, err)
		}
		if err := m.writeOperand(ins.A, v); err != nil {
			return m.fault(ins, err)
		}

	case OpMov:
		v, err := m.readOperand(ins.B)
		if err != nil {
			return m.fault(ins, err)
		}
		if err := m.writeOperand(ins.A, v); err != nil {
			return m.fault(ins, err)
		}

	case OpAdd:
		a, b, err := m.readPair(ins)
		if err != nil {
			return m.fault(ins, err)
		}
		result := a + b
		m.OF = (a < 0) == (b < 0) && (result < 0) != (a < 0)
		if err := m.writeOperand(ins.A, result); err != nil {
			return m.fault(ins, err)
		}
		m.updateFlags(result)

	case OpSub:
		a, b, err := m.readPair(ins)
		if err != nil {
			return m.fault(ins, err)
		}
		result := a - b
		m.OF = (a < 0) != (b < 0) && (result < 0) != (a < 0)
		if err := m.writeOperand(ins.A, result); err != nil {
			return m.fault(ins, err)
		}
		m.updateFlags(result)

	case OpImul:
		a, b, err := m.readPair(ins)
		if err != nil {
			return m.fault(ins, err)
		}
		result := a * b
		m.OF = a != 0 && result/a != b
		if err := m.writeOperand(ins.A, result); err != nil {
			return m.fault(ins, err)
		}
		m.updateFlags(result)

	case OpNeg:
		v, err := m.readOperand(ins.A)
		if err != nil {
			return m.fault(ins, err)
		}
		result := -v
		m.OF = v == math.MinInt64
		if err := m.writeOperand(ins.A, result); err != nil {
			return m.fault(ins, err)
		}
		m.updateFlags(result)

	case OpCqo:
		m.Regs[RDX] = m.Regs[RAX] >> 63

	case OpIdiv:
		divisor, err := m.readOperand(ins.A)
		if err != nil {
			return m.fault(ins, err)
		}
		if divisor == 0 {
			return m.fault(ins, ErrDivideByZero)
		}
		// The dividend is rdx:rax; run cqo first so rdx holds the sign
		// extension, otherwise the quotient cannot fit in 64 bits.
		if m.Regs[RDX] != m.Regs[RAX]>>63 {
			return m.fault(ins, ErrDivideOverflow)
		}
		if m.Regs[RAX] == math.MinInt64 && divisor == -1 {
			return m.fault(ins, ErrDivideOverflow)
		}
		quotient := m.Regs[RAX] / divisor
		remainder := m.Regs[RAX] % divisor
		m.Regs[RAX] = quotient
		m.Regs[RDX] = remainder

	case OpCmp:
		a, b, err := m.readPair(ins)
		if err != nil {
			return m.fault(ins, err)
		}
		result := a - b
		m.OF = (a < 0) != (b < 0) && (result < 0) != (a < 0)
		m.updateFlags(result)

	case OpSete:
		if err := m.setByte(ins.A, m.ZF); err != nil {
			return m.fault(ins, err)
		}

	case OpSetne:
		if err := m.setByte(ins.A, !m.ZF); err != nil {
			return m.fault(ins, err)
		}

	case OpSetl:
		if err := m.setByte(ins.A, m.SF != m.OF); err != nil {
			return m.fault(ins, err)
		}

	case OpSetle:
		if err := m.setByte(ins.A, m.ZF || m.SF != m.OF); err != nil {
			return m.fault(ins, err)
		}

	case OpSetg:
		if err := m.setByte(ins.A, !m.ZF && m.SF == m.OF); err != nil {
			return m.fault(ins, err)
		}

	case OpSetge:
		if err := m.setByte(ins.A, m.SF == m.OF); err != nil {
			return m.fault(ins, err)
		}

	case OpMovzb:
		if ins.A.Kind != RegOperand || ins.B.Kind != ByteRegOperand {
			return m.fault(ins, ErrBadOperand)
		}
		m.Regs[ins.A.Reg] = int64(uint8(m.Regs[ins.B.Reg]))

	default:
		return m.fault(ins, ErrUnknownOp)
	}

	return nil
}

func (m *Machine) readPair(ins Instruction) (int64, int64, error) {
	a, err := m.readOperand(ins.A)
	if err != nil {
		return 0, 0, err
	}
	b, err := m.readOperand(ins.B)
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

// Run steps the machine until it halts or the step budget runs out. The
// subset has no branches, so the budget is a guard against malformed input
// rather than against loops.
func (m *Machine) Run(maxSteps int) error {
	for i := 0; i < maxSteps; i++ {
		if m.Halted {
			return nil
		}
		if err := m.Step(); err != nil {
			return err
		}
	}
	if m.Halted {
		return nil
	}
	return ErrStepLimit
}
