package api

import (
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/stackvm/core"
)

// engine is the part of sim.Engine that the driver uses.
type engine interface {
	Run() error
}

// machine is the part of core.Core that the driver uses.
type machine interface {
	MapProgram(prog *core.Program)
	Mapped() bool
	Result() core.Result
	Err() error
	Cycles() uint64
	FinishTime() sim.VTimeInSec
	Snapshot() core.Snapshot
}
