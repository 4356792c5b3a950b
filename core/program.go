package core

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sarchlab/stackvm/instr"
)

// MaxInstructions is the largest program the machine can address.
const MaxInstructions = 1 << 16

// Program is an assembled instruction sequence with its label table. A
// Program is immutable and may be shared by any number of executions.
type Program struct {
	insts  []instr.Instruction
	labels map[string]instr.Number
}

// NewProgram builds a program from hand-built instructions. Every
// instruction and label is checked the way Assemble checks source text.
func NewProgram(insts []instr.Instruction, labels map[string]instr.Number) (*Program, error) {
	if len(insts) == 0 {
		return nil, &ParseError{Err: ErrEmptyProgram}
	}
	if len(insts) > MaxInstructions {
		return nil, &ParseError{Err: fmt.Errorf(
			"program exceeds %d instructions", MaxInstructions)}
	}

	for i, inst := range insts {
		if err := instr.Validate(inst); err != nil {
			return nil, &ParseError{Err: fmt.Errorf("instruction #%d: %w", i+1, err)}
		}
	}

	for name, idx := range labels {
		if !instr.IsLabelName(name) {
			return nil, &ParseError{Err: fmt.Errorf("Invalid label name: %s", name)}
		}
		if int(idx) > len(insts) {
			return nil, &ParseError{Err: fmt.Errorf(
				"label %s points past the end of the program", name)}
		}
	}

	p := &Program{
		insts:  make([]instr.Instruction, len(insts)),
		labels: make(map[string]instr.Number, len(labels)),
	}
	copy(p.insts, insts)
	for name, idx := range labels {
		p.labels[name] = idx
	}

	return p, nil
}

// Len returns the number of instructions.
func (p *Program) Len() int {
	return len(p.insts)
}

// Instruction returns the instruction at index i.
func (p *Program) Instruction(i int) (instr.Instruction, bool) {
	if i < 0 || i >= len(p.insts) {
		return nil, false
	}
	return p.insts[i], true
}

// Instructions returns a copy of the instruction sequence.
func (p *Program) Instructions() []instr.Instruction {
	out := make([]instr.Instruction, len(p.insts))
	copy(out, p.insts)
	return out
}

// Label resolves a label to the index of the instruction that follows its
// declaration.
func (p *Program) Label(name string) (instr.Number, bool) {
	idx, ok := p.labels[name]
	return idx, ok
}

// Labels returns a copy of the label table.
func (p *Program) Labels() map[string]instr.Number {
	out := make(map[string]instr.Number, len(p.labels))
	for name, idx := range p.labels {
		out[name] = idx
	}
	return out
}

// LabelsAt returns the labels pointing at index i, sorted by name.
func (p *Program) LabelsAt(i int) []string {
	var names []string
	for name, idx := range p.labels {
		if int(idx) == i {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// String renders the program back to source form. Labels pointing past
// the last instruction are emitted at the end.
func (p *Program) String() string {
	var b strings.Builder
	for i := 0; i <= len(p.insts); i++ {
		for _, name := range p.LabelsAt(i) {
			b.WriteString(name)
			b.WriteByte('\n')
		}
		if i < len(p.insts) {
			b.WriteString(p.insts[i].String())
			b.WriteByte('\n')
		}
	}
	return b.String()
}
