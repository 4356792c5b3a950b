package core

import (
	"log/slog"

	"github.com/sarchlab/akita/v4/sim"
)

// Builder can create new cores.
type Builder struct {
	engine sim.Engine
	freq   sim.Freq
	logger *slog.Logger
}

// NewBuilder returns a builder running cores at 1 GHz.
func NewBuilder() Builder {
	return Builder{
		freq: 1 * sim.GHz,
	}
}

// WithEngine sets the engine.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithFreq sets the frequency of the core.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	if freq <= 0 {
		panic("frequency must be positive")
	}
	b.freq = freq
	return b
}

// WithLogger sets the logger used for traces and lifecycle records.
func (b Builder) WithLogger(logger *slog.Logger) Builder {
	b.logger = logger
	return b
}

// Build creates a core.
func (b Builder) Build(name string) *Core {
	if b.engine == nil {
		panic("core builder needs an engine")
	}

	c := &Core{
		logger: b.logger,
	}
	c.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, c)

	return c
}
