// Package instr defines the closed instruction set of the stack machine and
// the per-opcode constructors that validate arity and argument shape.
package instr

import (
	"errors"
	"fmt"
	"strconv"
)

// Number is the only value type of the machine. Arithmetic wraps.
type Number uint16

// Instruction is a validated instruction. The set of implementations is
// closed: Load, Write, Read, Goto and Bare.
type Instruction interface {
	Opcode() Opcode
	String() string

	sealed()
}

// Load pushes an immediate value.
type Load struct {
	Value Number
}

// Write pops the top of the stack into a variable.
type Write struct {
	Name string
}

// Read pushes the value of a variable.
type Read struct {
	Name string
}

// Goto jumps to a label when the popped value is non-zero.
type Goto struct {
	Label string
}

// Bare is an instruction without operands, such as ADD or RETURN_VALUE.
type Bare Opcode

func (Load) Opcode() Opcode { return OpLoad }
func (Write) Opcode() Opcode { return OpWrite }
func (Read) Opcode() Opcode { return OpRead }
func (Goto) Opcode() Opcode { return OpGoto }
func (b Bare) Opcode() Opcode { return Opcode(b) }

func (i Load) String() string { return fmt.Sprintf("%s %d", OpLoad.Mnemonic(), i.Value) }
func (i Write) String() string { return OpWrite.Mnemonic() + " " + i.Name }
func (i Read) String() string { return OpRead.Mnemonic() + " " + i.Name }
func (i Goto) String() string { return OpGoto.Mnemonic() + " " + i.Label }
func (b Bare) String() string { return Opcode(b).Mnemonic() }

func (Load) sealed() {}
func (Write) sealed() {}
func (Read) sealed() {}
func (Goto) sealed() {}
func (Bare) sealed() {}

// New builds the instruction named by mnemonic from its raw argument tokens.
func New(mnemonic string, args []string) (Instruction, error) {
	op, ok := Lookup(mnemonic)
	if !ok {
		return nil, &UnknownInstructionError{Mnemonic: mnemonic}
	}

	info := op.Info()
	if len(args) != info.Arity {
		return nil, &ArityError{Op: op, Want: info.Arity, Got: len(args)}
	}

	switch info.Shape {
	case ShapeNone:
		return Bare(op), nil
	case ShapeNumber:
		return newLoad(args[0])
	case ShapeVariable:
		return newVariableInst(op, args[0])
	case ShapeLabel:
		return newGoto(args[0])
	}

	panic(fmt.Sprintf("opcode %d has no argument shape", op))
}

// MustNew is like New but panics on error. It is meant for tests and
// hand-built programs.
func MustNew(mnemonic string, args ...string) Instruction {
	inst, err := New(mnemonic, args)
	if err != nil {
		panic(err)
	}

	return inst
}

// ErrNilInstruction is returned by Validate for a nil instruction.
var ErrNilInstruction = errors.New("missing instruction")

// Validate checks an instruction that was built directly rather than
// through New, such as Bare(OpLoad) or a Write with a malformed name.
func Validate(inst Instruction) error {
	switch inst := inst.(type) {
	case nil:
		return ErrNilInstruction
	case Write:
		return validateVarName(OpWrite, inst.Name)
	case Read:
		return validateVarName(OpRead, inst.Name)
	case Goto:
		if !IsLabelName(inst.Label) {
			return &ArgumentError{Op: OpGoto, Token: inst.Label, Reason: "invalid label name"}
		}
	case Bare:
		op := Opcode(inst)
		if op >= numOpcodes {
			return &UnknownInstructionError{Mnemonic: op.Mnemonic()}
		}
		if info := op.Info(); info.Shape != ShapeNone {
			return &ArityError{Op: op, Want: info.Arity, Got: 0}
		}
	}

	return nil
}

func validateVarName(op Opcode, name string) error {
	if !IsVarName(name) {
		return &ArgumentError{Op: op, Token: name, Reason: "invalid variable name"}
	}
	return nil
}

func newLoad(token string) (Instruction, error) {
	v, err := strconv.ParseUint(token, 10, 16)
	if err != nil {
		reason := "invalid number"
		if errors.Is(err, strconv.ErrRange) {
			reason = "number out of range"
		}

		return nil, &ArgumentError{Op: OpLoad, Token: token, Reason: reason}
	}

	return Load{Value: Number(v)}, nil
}

func newVariableInst(op Opcode, token string) (Instruction, error) {
	if err := validateVarName(op, token); err != nil {
		return nil, err
	}

	if op == OpWrite {
		return Write{Name: token}, nil
	}

	return Read{Name: token}, nil
}

func newGoto(token string) (Instruction, error) {
	if !IsLabelName(token) {
		return nil, &ArgumentError{Op: OpGoto, Token: token, Reason: "invalid label name"}
	}

	return Goto{Label: token}, nil
}
