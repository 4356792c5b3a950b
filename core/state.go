package core

import (
	"sort"

	"github.com/sarchlab/stackvm/instr"
)

// coreState is the mutable substrate of one execution. Only the emulator
// changes it.
type coreState struct {
	PC    int
	Stack []instr.Number
	Vars  map[string]instr.Number
}

func newCoreState() coreState {
	return coreState{
		Stack: make([]instr.Number, 0, 16),
		Vars:  make(map[string]instr.Number),
	}
}

func (s *coreState) push(v instr.Number) {
	s.Stack = append(s.Stack, v)
}

// pop returns false when the stack is empty.
func (s *coreState) pop() (instr.Number, bool) {
	n := len(s.Stack)
	if n == 0 {
		return 0, false
	}

	v := s.Stack[n-1]
	s.Stack = s.Stack[:n-1]

	return v, true
}

func (s *coreState) lookup(name string) (instr.Number, bool) {
	v, ok := s.Vars[name]
	return v, ok
}

func (s *coreState) bind(name string, v instr.Number) {
	s.Vars[name] = v
}

func (s *coreState) advance() {
	s.PC++
}

func (s *coreState) jump(target instr.Number) {
	s.PC = int(target)
}

// Snapshot is a copy of an execution's state at one point in time.
type Snapshot struct {
	PC    int
	Steps uint64
	Stack []instr.Number
	Vars  map[string]instr.Number
}

func (s *coreState) snapshot(steps uint64) Snapshot {
	snap := Snapshot{
		PC:    s.PC,
		Steps: steps,
		Stack: make([]instr.Number, len(s.Stack)),
		Vars:  make(map[string]instr.Number, len(s.Vars)),
	}
	copy(snap.Stack, s.Stack)
	for k, v := range s.Vars {
		snap.Vars[k] = v
	}

	return snap
}

// VarNames returns the bound variable names in sorted order.
func (s Snapshot) VarNames() []string {
	names := make([]string, 0, len(s.Vars))
	for name := range s.Vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
