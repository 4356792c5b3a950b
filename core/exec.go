package core

import (
	"fmt"
	"log/slog"

	"github.com/sarchlab/stackvm/instr"
)

// Status is the position of an execution in its state machine.
type Status int

const (
	Running Status = iota
	Returned
	Failed
)

func (s Status) String() string {
	switch s {
	case Running:
		return "running"
	case Returned:
		return "returned"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Result is the outcome of a successful execution. HasValue is false when
// the program ran past its last instruction without RETURN_VALUE.
type Result struct {
	Value    instr.Number
	HasValue bool
}

func (r Result) String() string {
	if !r.HasValue {
		return "<none>"
	}
	return fmt.Sprintf("%d", r.Value)
}

// Option configures an Execution.
type Option func(*Execution)

// WithLogger sets the logger that receives per-instruction trace records.
func WithLogger(logger *slog.Logger) Option {
	return func(x *Execution) {
		x.emu.logger = logger
	}
}

// Execution is a single run of a Program over a fresh state. It is not
// safe for concurrent use; the Program it runs may be shared.
type Execution struct {
	prog   *Program
	state  coreState
	emu    instEmulator
	status Status
	steps  uint64
	result Result
	err    error
}

// NewExecution prepares prog for execution from instruction 0.
func NewExecution(prog *Program, opts ...Option) *Execution {
	x := &Execution{
		prog:  prog,
		state: newCoreState(),
	}

	for _, opt := range opts {
		opt(x)
	}

	return x
}

// Run executes the program to completion. A program that loops forever
// makes Run loop forever.
func Run(prog *Program, opts ...Option) (Result, error) {
	return NewExecution(prog, opts...).Run()
}

// Run steps until the execution terminates.
func (x *Execution) Run() (Result, error) {
	for {
		done, err := x.Step()
		if err != nil {
			return Result{}, err
		}
		if done {
			return x.result, nil
		}
	}
}

// Step executes one instruction. It reports done once the execution has
// returned, failed, or run past the last instruction. Stepping a finished
// execution does nothing.
func (x *Execution) Step() (done bool, err error) {
	if x.status != Running {
		return true, x.err
	}

	inst, ok := x.prog.Instruction(x.state.PC)
	if !ok {
		x.status = Returned
		return true, nil
	}

	x.steps++

	v, returned, err := x.emu.RunInst(inst, x.prog, &x.state)
	if err != nil {
		x.status = Failed
		x.err = err
		return true, err
	}

	if returned {
		x.status = Returned
		x.result = Result{Value: v, HasValue: true}
		return true, nil
	}

	return false, nil
}

// Status returns the current status.
func (x *Execution) Status() Status {
	return x.status
}

// Result returns the result of a returned execution.
func (x *Execution) Result() Result {
	return x.result
}

// Err returns the error of a failed execution.
func (x *Execution) Err() error {
	return x.err
}

// Steps returns the number of instructions executed so far.
func (x *Execution) Steps() uint64 {
	return x.steps
}

// Snapshot copies the current state.
func (x *Execution) Snapshot() Snapshot {
	return x.state.snapshot(x.steps)
}
