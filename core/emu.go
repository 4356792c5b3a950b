package core

import (
	"context"
	"log/slog"

	"github.com/sarchlab/stackvm/instr"
)

type instEmulator struct {
	logger *slog.Logger
}

// RunInst executes one instruction against state. It returns done when the
// instruction terminates the program, with the returned value in ret.
func (i instEmulator) RunInst(
	inst instr.Instruction,
	prog *Program,
	state *coreState,
) (ret instr.Number, done bool, err error) {
	i.trace(inst, state)

	switch inst := inst.(type) {
	case instr.Load:
		state.push(inst.Value)
		state.advance()
	case instr.Write:
		err = i.runWrite(inst, state)
	case instr.Read:
		err = i.runRead(inst, state)
	case instr.Goto:
		err = i.runGoto(inst, prog, state)
	case instr.Bare:
		return i.runBare(instr.Opcode(inst), state)
	default:
		err = i.invalid(inst, state)
	}

	return 0, false, err
}

func (i instEmulator) runWrite(inst instr.Write, state *coreState) error {
	v, err := i.pop(instr.OpWrite, state)
	if err != nil {
		return err
	}

	state.bind(inst.Name, v)
	state.advance()

	return nil
}

func (i instEmulator) runRead(inst instr.Read, state *coreState) error {
	v, ok := state.lookup(inst.Name)
	if !ok {
		return &RuntimeError{
			Instruction: state.PC + 1,
			Op:          instr.OpRead,
			Fault:       FaultUndefinedVariable,
			Name:        inst.Name,
		}
	}

	state.push(v)
	state.advance()

	return nil
}

// runGoto resolves the label before popping the condition, so a missing
// label is reported even on an empty stack.
func (i instEmulator) runGoto(inst instr.Goto, prog *Program, state *coreState) error {
	target, ok := prog.Label(inst.Label)
	if !ok {
		return &LinkError{Label: inst.Label}
	}

	cond, err := i.pop(instr.OpGoto, state)
	if err != nil {
		return err
	}

	if cond == 0 {
		state.advance()
		return nil
	}

	state.jump(target)

	return nil
}

func (i instEmulator) runBare(
	op instr.Opcode,
	state *coreState,
) (ret instr.Number, done bool, err error) {
	switch op {
	case instr.OpReturn:
		v, err := i.pop(op, state)
		if err != nil {
			return 0, false, err
		}
		return v, true, nil
	case instr.OpPop:
		if _, err := i.pop(op, state); err != nil {
			return 0, false, err
		}
	case instr.OpDup:
		v, err := i.pop(op, state)
		if err != nil {
			return 0, false, err
		}
		state.push(v)
		state.push(v)
	default:
		if err := i.runBinary(op, state); err != nil {
			return 0, false, err
		}
	}

	state.advance()

	return 0, false, nil
}

// runBinary pops a, then b, and pushes a OP b.
func (i instEmulator) runBinary(op instr.Opcode, state *coreState) error {
	switch op {
	case instr.OpAdd, instr.OpMultiply, instr.OpGreater, instr.OpLess, instr.OpEqual:
	default:
		return i.invalid(instr.Bare(op), state)
	}

	a, err := i.pop(op, state)
	if err != nil {
		return err
	}

	b, err := i.pop(op, state)
	if err != nil {
		return err
	}

	var res instr.Number
	switch op {
	case instr.OpAdd:
		res = a + b
	case instr.OpMultiply:
		res = a * b
	case instr.OpGreater:
		res = boolToNumber(a > b)
	case instr.OpLess:
		res = boolToNumber(a < b)
	case instr.OpEqual:
		res = boolToNumber(a == b)
	}

	state.push(res)

	return nil
}

// invalid reports an instruction the emulator cannot execute. Programs
// built through Assemble or NewProgram never contain one.
func (i instEmulator) invalid(inst instr.Instruction, state *coreState) error {
	var op instr.Opcode
	if inst != nil {
		op = inst.Opcode()
	}

	return &RuntimeError{
		Instruction: state.PC + 1,
		Op:          op,
		Fault:       FaultInvalidInstruction,
	}
}

func (i instEmulator) pop(op instr.Opcode, state *coreState) (instr.Number, error) {
	v, ok := state.pop()
	if !ok {
		return 0, &RuntimeError{
			Instruction: state.PC + 1,
			Op:          op,
			Fault:       FaultStackUnderflow,
		}
	}

	return v, nil
}

func (i instEmulator) trace(inst instr.Instruction, state *coreState) {
	if inst == nil || i.logger == nil || !i.logger.Enabled(context.Background(), LevelTrace) {
		return
	}

	i.logger.Log(context.Background(), LevelTrace, "Inst",
		"PC", state.PC+1,
		"Inst", inst.String(),
		"Depth", len(state.Stack),
	)
}

func boolToNumber(b bool) instr.Number {
	if b {
		return 1
	}
	return 0
}
