package programs_test

import (
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/stackvm/api"
	"github.com/sarchlab/stackvm/core"
	"github.com/sarchlab/stackvm/instr"
	valgen "github.com/sarchlab/stackvm/util"
)

func load(name string) *core.Program {
	prog, err := core.LoadProgramFile(filepath.Join("testdata", name))
	Expect(err).NotTo(HaveOccurred())
	return prog
}

func simulate(prog *core.Program) (core.Result, uint64, error) {
	driver := api.DriverBuilder{}.
		WithEngine(sim.NewSerialEngine()).
		WithFreq(1 * sim.GHz).
		Build("Driver")

	driver.MapProgram(prog)
	result, err := driver.Run()

	return result, driver.Cycles(), err
}

var _ = Describe("Programs", func() {
	DescribeTable("returning programs",
		func(name string, want core.Result) {
			prog := load(name)

			x := core.NewExecution(prog)
			result, err := x.Run()
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(Equal(want))

			simResult, cycles, err := simulate(prog)
			Expect(err).NotTo(HaveOccurred())
			Expect(simResult).To(Equal(result))
			Expect(cycles).To(Equal(x.Steps()))
		},
		Entry("arithmetic", "arithmetic.svm", core.Result{Value: 210, HasValue: true}),
		Entry("nested loops", "nested_loops.svm", core.Result{Value: 110, HasValue: true}),
		Entry("countdown", "countdown.svm", core.Result{Value: 15, HasValue: true}),
		Entry("wraparound", "wraparound.svm", core.Result{Value: 0, HasValue: true}),
		Entry("forward jump", "forward_jump.svm", core.Result{Value: 7, HasValue: true}),
		Entry("no return", "no_return.svm", core.Result{}),
	)

	DescribeTable("failing programs",
		func(name string, kind core.ErrorKind, msg string) {
			prog := load(name)

			_, err := core.Run(prog)
			Expect(core.KindOf(err)).To(Equal(kind))
			Expect(err).To(MatchError(msg))

			_, _, simErr := simulate(prog)
			Expect(simErr).To(MatchError(msg))
		},
		Entry("underflow", "underflow.svm",
			core.KindRuntime, "Runtime error: unable to process instruction #4: no value on stack"),
		Entry("missing label", "missing_label.svm",
			core.KindLink, "Label with name: .gone doesn't exist"),
		Entry("undefined variable", "undefined_variable.svm",
			core.KindRuntime, "Runtime error: unable to get variable: doesn't exist, instruction#3"),
	)

	It("should give the same result for every assembly of a source", func() {
		first := load("nested_loops.svm")
		second := load("nested_loops.svm")

		Expect(second.Instructions()).To(Equal(first.Instructions()))
		Expect(second.Labels()).To(Equal(first.Labels()))

		a, err := core.Run(first)
		Expect(err).NotTo(HaveOccurred())
		b, err := core.Run(second)
		Expect(err).NotTo(HaveOccurred())
		Expect(b.Value).To(Equal(a.Value))
		Expect(a.Value).To(Equal(instr.Number(110)))
	})
})

var _ = Describe("Generated programs", func() {
	DescribeTable("folds",
		func(seed uint64, n int, op instr.Opcode) {
			src, want := valgen.FoldProgram(valgen.MakeRandomGen(seed), n, op)
			prog, err := core.Parse(strings.NewReader(src))
			Expect(err).NotTo(HaveOccurred())

			result, err := core.Run(prog)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Value).To(Equal(want))

			simResult, cycles, err := simulate(prog)
			Expect(err).NotTo(HaveOccurred())
			Expect(simResult).To(Equal(result))
			Expect(cycles).To(Equal(uint64(2*n)))
		},
		Entry("short sum", uint64(1), 3, instr.OpAdd),
		Entry("long sum", uint64(2), 500, instr.OpAdd),
		Entry("long product", uint64(3), 200, instr.OpMultiply),
	)

	DescribeTable("counting loops",
		func(limit instr.Number) {
			prog, err := core.Parse(strings.NewReader(valgen.CountingLoop(limit)))
			Expect(err).NotTo(HaveOccurred())

			result, err := core.Run(prog)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Value).To(Equal(limit))

			simResult, _, err := simulate(prog)
			Expect(err).NotTo(HaveOccurred())
			Expect(simResult).To(Equal(result))
		},
		Entry(nil, instr.Number(0)),
		Entry(nil, instr.Number(1)),
		Entry(nil, instr.Number(10)),
		Entry(nil, instr.Number(1000)),
	)
})
