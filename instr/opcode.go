package instr

import (
	"fmt"
	"regexp"
)

// Opcode identifies the operation of an instruction.
type Opcode uint8

const (
	OpLoad Opcode = iota
	OpWrite
	OpRead
	OpAdd
	OpMultiply
	OpGreater
	OpLess
	OpEqual
	OpDup
	OpPop
	OpGoto
	OpReturn

	numOpcodes
)

// Shape is the kind of argument an opcode takes.
type Shape uint8

const (
	ShapeNone Shape = iota
	ShapeNumber
	ShapeVariable
	ShapeLabel
)

// OpcodeInfo is the static description of an opcode.
type OpcodeInfo struct {
	Mnemonic string // Source spelling
	Name     string // Lower-case name used in diagnostics
	Arity    int
	Shape    Shape
	Pops     int
	Pushes   int
}

var opcodeTable = [numOpcodes]OpcodeInfo{
	OpLoad:     {"LOAD_VAL", "load", 1, ShapeNumber, 0, 1},
	OpWrite:    {"WRITE_VAR", "write", 1, ShapeVariable, 1, 0},
	OpRead:     {"READ_VAR", "read", 1, ShapeVariable, 0, 1},
	OpAdd:      {"ADD", "add", 0, ShapeNone, 2, 1},
	OpMultiply: {"MULTIPLY", "multiply", 0, ShapeNone, 2, 1},
	OpGreater:  {"GREATER", "greater", 0, ShapeNone, 2, 1},
	OpLess:     {"LESS", "less", 0, ShapeNone, 2, 1},
	OpEqual:    {"EQUAL", "equal", 0, ShapeNone, 2, 1},
	OpDup:      {"DUP", "dup", 0, ShapeNone, 1, 2},
	OpPop:      {"POP", "pop", 0, ShapeNone, 1, 0},
	OpGoto:     {"GOTO", "goto", 1, ShapeLabel, 1, 0},
	OpReturn:   {"RETURN_VALUE", "return", 0, ShapeNone, 1, 0},
}

var mnemonics = func() map[string]Opcode {
	m := make(map[string]Opcode, numOpcodes)
	for op := Opcode(0); op < numOpcodes; op++ {
		m[opcodeTable[op].Mnemonic] = op
	}
	return m
}()

var (
	varNameRE   = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)
	labelNameRE = regexp.MustCompile(`^\.[a-zA-Z0-9_][a-zA-Z0-9_]*$`)
)

// Lookup returns the opcode spelled by mnemonic. Mnemonics are
// case-sensitive.
func Lookup(mnemonic string) (Opcode, bool) {
	op, ok := mnemonics[mnemonic]
	return op, ok
}

// Info returns the metadata of op.
func (op Opcode) Info() OpcodeInfo {
	if op >= numOpcodes {
		return OpcodeInfo{
			Mnemonic: fmt.Sprintf("UNKNOWN(%d)", uint8(op)),
			Name:     "unknown",
		}
	}

	return opcodeTable[op]
}

// Mnemonic returns the source spelling of op.
func (op Opcode) Mnemonic() string {
	return op.Info().Mnemonic
}

func (op Opcode) String() string {
	return op.Mnemonic()
}

// AllOpcodes lists every opcode in declaration order.
func AllOpcodes() []Opcode {
	ops := make([]Opcode, 0, numOpcodes)
	for op := Opcode(0); op < numOpcodes; op++ {
		ops = append(ops, op)
	}
	return ops
}

// IsVarName reports whether s is a valid variable name.
func IsVarName(s string) bool {
	return varNameRE.MatchString(s)
}

// IsLabelName reports whether s is a valid label name, including the
// leading dot.
func IsLabelName(s string) bool {
	return labelNameRE.MatchString(s)
}
