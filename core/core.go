package core

import (
	"log/slog"

	"github.com/sarchlab/akita/v4/sim"
)

// HookPosInstRetired marks the completion of one instruction. The hook
// item is the Snapshot taken right after the instruction.
var HookPosInstRetired = &sim.HookPos{Name: "Inst Retired"}

// Core runs an Execution in simulated time, one instruction per cycle.
type Core struct {
	*sim.TickingComponent

	logger *slog.Logger
	exec   *Execution

	finishTime sim.VTimeInSec
}

// MapProgram sets the program that the core needs to run and schedules
// its first cycle on the next clock edge. Any previous execution is
// discarded.
func (c *Core) MapProgram(prog *Program) {
	c.exec = NewExecution(prog, WithLogger(c.logger))
	c.finishTime = 0
	c.TickLater()
}

// Tick runs the program for one cycle.
func (c *Core) Tick() (madeProgress bool) {
	if c.exec == nil || c.exec.Status() != Running {
		return false
	}

	done, err := c.exec.Step()

	if c.NumHooks() > 0 {
		c.InvokeHook(sim.HookCtx{
			Domain: c,
			Pos:    HookPosInstRetired,
			Item:   c.exec.Snapshot(),
		})
	}

	if done {
		c.finishTime = c.Engine.CurrentTime()
		c.logFinish(err)
		return false
	}

	return true
}

func (c *Core) logFinish(err error) {
	if c.logger == nil {
		return
	}

	if err != nil {
		c.logger.Debug("CoreFailed",
			"Core", c.Name(),
			"Time", float64(c.finishTime),
			"Steps", c.exec.Steps(),
			"Error", err.Error(),
		)
		return
	}

	c.logger.Debug("CoreReturned",
		"Core", c.Name(),
		"Time", float64(c.finishTime),
		"Steps", c.exec.Steps(),
		"Result", c.exec.Result().String(),
	)
}

// Mapped reports whether a program has been mapped.
func (c *Core) Mapped() bool {
	return c.exec != nil
}

// Done reports whether the mapped execution has terminated.
func (c *Core) Done() bool {
	return c.exec != nil && c.exec.Status() != Running
}

// Result returns the result of the mapped execution.
func (c *Core) Result() Result {
	if c.exec == nil {
		return Result{}
	}
	return c.exec.Result()
}

// Err returns the error of the mapped execution, if it failed.
func (c *Core) Err() error {
	if c.exec == nil {
		return nil
	}
	return c.exec.Err()
}

// Cycles returns the number of instructions executed.
func (c *Core) Cycles() uint64 {
	if c.exec == nil {
		return 0
	}
	return c.exec.Steps()
}

// FinishTime returns the simulated time at which the execution ended.
func (c *Core) FinishTime() sim.VTimeInSec {
	return c.finishTime
}

// Snapshot copies the state of the mapped execution.
func (c *Core) Snapshot() Snapshot {
	if c.exec == nil {
		s := newCoreState()
		return s.snapshot(0)
	}
	return c.exec.Snapshot()
}
