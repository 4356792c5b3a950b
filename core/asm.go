package core

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sarchlab/stackvm/instr"
)

// maxLineLen bounds a single source line read by Parse.
const maxLineLen = 1 << 20

// LoadProgramFile reads and assembles the source file at path. The file
// is closed before assembly starts.
func LoadProgramFile(path string) (*Program, error) {
	lines, err := ReadLines(path)
	if err != nil {
		return nil, err
	}

	return Assemble(lines)
}

// ReadLines reads all lines of the file at path.
func ReadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}
	defer f.Close()

	lines, err := readLines(f)
	if err != nil {
		if ioErr, ok := err.(*IOError); ok {
			ioErr.Path = path
		}
		return nil, err
	}

	return lines, nil
}

// Parse reads source text from r and assembles it.
func Parse(r io.Reader) (*Program, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}

	return Assemble(lines)
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxLineLen)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	if err := scanner.Err(); err != nil {
		return nil, &IOError{Line: len(lines) + 1, Err: err}
	}

	return lines, nil
}

// Assemble turns source lines into a Program. Each line is blank, a label
// declaration, or one instruction. GOTO targets are only checked against
// the label grammar here; they are resolved when the GOTO executes.
func Assemble(lines []string) (*Program, error) {
	p := &Program{
		labels: make(map[string]instr.Number),
	}

	for index, line := range lines {
		lineNo := index + 1

		tokens := strings.Fields(line)
		if len(tokens) == 0 {
			continue
		}

		if instr.IsLabelName(tokens[0]) {
			if err := p.declareLabel(tokens[0]); err != nil {
				return nil, &ParseError{Line: lineNo, Err: err}
			}
			continue
		}

		inst, err := instr.New(tokens[0], tokens[1:])
		if err != nil {
			return nil, &ParseError{Line: lineNo, Err: err}
		}

		if len(p.insts) == MaxInstructions {
			return nil, &ParseError{
				Line: lineNo,
				Err:  fmt.Errorf("program exceeds %d instructions", MaxInstructions),
			}
		}

		p.insts = append(p.insts, inst)
	}

	if len(p.insts) == 0 {
		return nil, &ParseError{Err: ErrEmptyProgram}
	}

	return p, nil
}

func (p *Program) declareLabel(name string) error {
	if _, exists := p.labels[name]; exists {
		return &DuplicateLabelError{Label: name}
	}

	if len(p.insts) > int(^instr.Number(0)) {
		return fmt.Errorf("label %s is beyond the last addressable instruction", name)
	}

	p.labels[name] = instr.Number(len(p.insts))

	return nil
}
