// Package api defines the driver API for running stack programs in
// simulated time.
package api

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/stackvm/core"
)

// ErrNoProgram is returned by Run when no program has been mapped.
var ErrNoProgram = errors.New("no program mapped")

// Driver provides the interface to control a simulated core.
type Driver interface {
	// MapProgram maps the provided program to the core. A previously mapped
	// program is discarded.
	MapProgram(prog *core.Program)

	// Run runs the engine until the core stops and returns the outcome of
	// the mapped program.
	Run() (core.Result, error)

	// Cycles returns the number of instructions the core has executed.
	Cycles() uint64

	// SimTime returns the simulated time at which the program finished.
	SimTime() sim.VTimeInSec

	// Snapshot copies the state of the core.
	Snapshot() core.Snapshot
}

type driverImpl struct {
	engine engine
	core   machine
	logger *slog.Logger
}

// MapProgram dispatches a program to the core.
func (d *driverImpl) MapProgram(prog *core.Program) {
	d.core.MapProgram(prog)
}

// Run runs the engine to completion.
func (d *driverImpl) Run() (core.Result, error) {
	if !d.core.Mapped() {
		return core.Result{}, ErrNoProgram
	}

	if err := d.engine.Run(); err != nil {
		return core.Result{}, fmt.Errorf("engine failed: %w", err)
	}

	if err := d.core.Err(); err != nil {
		return core.Result{}, err
	}

	result := d.core.Result()
	if d.logger != nil {
		d.logger.Info("ProgramFinished",
			"Result", result.String(),
			"Cycles", d.core.Cycles(),
			"SimTime", float64(d.core.FinishTime()),
		)
	}

	return result, nil
}

func (d *driverImpl) Cycles() uint64 {
	return d.core.Cycles()
}

func (d *driverImpl) SimTime() sim.VTimeInSec {
	return d.core.FinishTime()
}

func (d *driverImpl) Snapshot() core.Snapshot {
	return d.core.Snapshot()
}
