package api

import (
	"log/slog"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/stackvm/core"
)

// DriverBuilder creates a new instance of Driver.
type DriverBuilder struct {
	engine sim.Engine
	freq   sim.Freq
	logger *slog.Logger
}

// WithEngine sets the engine. A serial engine is created when none is set.
func (b DriverBuilder) WithEngine(engine sim.Engine) DriverBuilder {
	b.engine = engine
	return b
}

// WithFreq sets the frequency of the core. The default is 1 GHz.
func (b DriverBuilder) WithFreq(freq sim.Freq) DriverBuilder {
	b.freq = freq
	return b
}

// WithLogger sets the logger handed to the core.
func (b DriverBuilder) WithLogger(logger *slog.Logger) DriverBuilder {
	b.logger = logger
	return b
}

// Build creates a driver together with the core it controls.
func (b DriverBuilder) Build(name string) Driver {
	if b.engine == nil {
		b.engine = sim.NewSerialEngine()
	}

	if b.freq == 0 {
		b.freq = 1 * sim.GHz
	}

	c := core.NewBuilder().
		WithEngine(b.engine).
		WithFreq(b.freq).
		WithLogger(b.logger).
		Build(name + ".Core")

	return &driverImpl{
		engine: b.engine,
		core:   c,
		logger: b.logger,
	}
}
