package core

import (
	"errors"
	"fmt"

	"github.com/sarchlab/stackvm/instr"
)

// ErrorKind classifies the errors produced while loading, assembling and
// running a program.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindIO
	KindParse
	KindRuntime
	KindLink
)

func (k ErrorKind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindParse:
		return "parse"
	case KindRuntime:
		return "runtime"
	case KindLink:
		return "link"
	}
	return "none"
}

// ErrEmptyProgram is returned when assembly produces no instructions.
var ErrEmptyProgram = errors.New("Empty program")

// IOError reports a source that cannot be opened or read. Line is zero
// when the file could not be opened at all.
type IOError struct {
	Path string
	Line int
	Err  error
}

func (e *IOError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("Unable to open file: %v", e.Err)
	}
	return fmt.Sprintf("Error reading line #%d: %v", e.Line, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// ParseError reports a source line that cannot be assembled. Line is
// 1-based, or zero for whole-program failures such as ErrEmptyProgram.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line == 0 {
		return e.Err.Error()
	}
	return fmt.Sprintf("Unable to parse line #%d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// DuplicateLabelError reports a label declared twice.
type DuplicateLabelError struct {
	Label string
}

func (e *DuplicateLabelError) Error() string {
	return "duplicated label: " + e.Label
}

// RuntimeFault is the reason an instruction failed.
type RuntimeFault int

const (
	FaultStackUnderflow RuntimeFault = iota
	FaultUndefinedVariable
	FaultInvalidInstruction
)

// RuntimeError reports an instruction that failed during execution.
// Instruction is the 1-based index of the failing instruction.
type RuntimeError struct {
	Instruction int
	Op          instr.Opcode
	Fault       RuntimeFault
	Name        string
}

func (e *RuntimeError) Error() string {
	switch e.Fault {
	case FaultUndefinedVariable:
		return fmt.Sprintf(
			"Runtime error: unable to get variable: doesn't exist, instruction#%d",
			e.Instruction)
	case FaultInvalidInstruction:
		return fmt.Sprintf(
			"Runtime error: unable to process instruction #%d: invalid instruction",
			e.Instruction)
	default:
		return fmt.Sprintf(
			"Runtime error: unable to process instruction #%d: no value on stack",
			e.Instruction)
	}
}

// LinkError reports a GOTO whose label is not declared in the program.
type LinkError struct {
	Label string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("Label with name: %s doesn't exist", e.Label)
}

// KindOf returns the kind of err, looking through wrapped errors.
func KindOf(err error) ErrorKind {
	var (
		ioErr    *IOError
		parseErr *ParseError
		runErr   *RuntimeError
		linkErr  *LinkError
	)

	switch {
	case err == nil:
		return KindNone
	case errors.As(err, &ioErr):
		return KindIO
	case errors.As(err, &parseErr):
		return KindParse
	case errors.As(err, &runErr):
		return KindRuntime
	case errors.As(err, &linkErr):
		return KindLink
	}

	return KindNone
}
