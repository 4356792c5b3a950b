package instr

import "fmt"

// ArityError reports an instruction with the wrong number of arguments.
type ArityError struct {
	Op   Opcode
	Want int
	Got  int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("Error creating %s instruction: expected %d argument, got %d",
		e.Op.Info().Name, e.Want, e.Got)
}

// ArgumentError reports an argument that does not match the grammar of
// its opcode.
type ArgumentError struct {
	Op     Opcode
	Token  string
	Reason string
}

func (e *ArgumentError) Error() string {
	switch e.Op.Info().Shape {
	case ShapeVariable:
		return "Invalid variable name " + e.Token
	case ShapeLabel:
		return "Invalid label name: " + e.Token
	}

	return fmt.Sprintf("Error creating %s instruction: %s %q",
		e.Op.Info().Name, e.Reason, e.Token)
}

// UnknownInstructionError reports a mnemonic outside the instruction set.
type UnknownInstructionError struct {
	Mnemonic string
}

func (e *UnknownInstructionError) Error() string {
	return "Unknown instruction: " + e.Mnemonic
}
