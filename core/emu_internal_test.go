package core

import (
	"errors"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/stackvm/instr"
)

var _ = Describe("InstEmulator", func() {
	var (
		ie   instEmulator
		s    coreState
		prog *Program
	)

	BeforeEach(func() {
		ie = instEmulator{}
		s = newCoreState()

		var err error
		prog, err = Assemble([]string{"POP", ".here", "POP", ".end"})
		Expect(err).NotTo(HaveOccurred())
	})

	run := func(inst instr.Instruction) (instr.Number, bool, error) {
		return ie.RunInst(inst, prog, &s)
	}

	underflowAt := func(n int) string {
		return fmt.Sprintf(
			"Runtime error: unable to process instruction #%d: no value on stack", n)
	}

	Context("when running LOAD_VAL", func() {
		It("should push the immediate", func() {
			_, done, err := run(instr.Load{Value: 42})

			Expect(err).NotTo(HaveOccurred())
			Expect(done).To(BeFalse())
			Expect(s.Stack).To(Equal([]instr.Number{42}))
			Expect(s.PC).To(Equal(1))
		})
	})

	Context("when running WRITE_VAR and READ_VAR", func() {
		It("should move values between the stack and variables", func() {
			s.push(7)

			_, _, err := run(instr.Write{Name: "x"})
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Stack).To(BeEmpty())
			Expect(s.Vars).To(HaveKeyWithValue("x", instr.Number(7)))

			_, _, err = run(instr.Read{Name: "x"})
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Stack).To(Equal([]instr.Number{7}))
			Expect(s.PC).To(Equal(2))
		})

		It("should overwrite a bound variable", func() {
			s.bind("x", 1)
			s.push(2)

			_, _, err := run(instr.Write{Name: "x"})
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Vars["x"]).To(Equal(instr.Number(2)))
		})

		It("should fail to write from an empty stack", func() {
			s.PC = 4

			_, _, err := run(instr.Write{Name: "x"})
			Expect(err).To(MatchError(underflowAt(5)))
			Expect(s.PC).To(Equal(4))
		})

		It("should fail to read an unbound variable", func() {
			s.PC = 2

			_, _, err := run(instr.Read{Name: "y"})

			var runErr *RuntimeError
			Expect(errors.As(err, &runErr)).To(BeTrue())
			Expect(runErr.Fault).To(Equal(FaultUndefinedVariable))
			Expect(runErr.Instruction).To(Equal(3))
			Expect(runErr.Name).To(Equal("y"))
		})
	})

	Context("when running arithmetic", func() {
		It("should add", func() {
			s.push(3)
			s.push(4)

			_, _, err := run(instr.Bare(instr.OpAdd))
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Stack).To(Equal([]instr.Number{7}))
		})

		It("should wrap on overflow", func() {
			s.push(65535)
			s.push(2)
			_, _, err := run(instr.Bare(instr.OpAdd))
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Stack).To(Equal([]instr.Number{1}))

			s.push(256)
			s.push(256)
			_, _, err = run(instr.Bare(instr.OpMultiply))
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Stack).To(Equal([]instr.Number{1, 0}))
		})

		It("should report underflow with one operand", func() {
			s.push(1)
			s.PC = 1

			_, _, err := run(instr.Bare(instr.OpMultiply))
			Expect(err).To(MatchError(underflowAt(2)))
		})
	})

	Context("when comparing", func() {
		BeforeEach(func() {
			s.push(10)
			s.push(20)
		})

		It("should compute top > second", func() {
			_, _, err := run(instr.Bare(instr.OpGreater))
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Stack).To(Equal([]instr.Number{1}))
		})

		It("should compute top < second", func() {
			_, _, err := run(instr.Bare(instr.OpLess))
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Stack).To(Equal([]instr.Number{0}))
		})

		It("should compute equality", func() {
			_, _, err := run(instr.Bare(instr.OpEqual))
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Stack).To(Equal([]instr.Number{0}))
		})
	})

	Context("when running DUP and POP", func() {
		It("should duplicate the top", func() {
			s.push(5)
			_, _, err := run(instr.Bare(instr.OpDup))
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Stack).To(Equal([]instr.Number{5, 5}))
		})

		It("should discard the top", func() {
			s.push(5)
			s.push(6)
			_, _, err := run(instr.Bare(instr.OpPop))
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Stack).To(Equal([]instr.Number{5}))
		})

		It("should fail on an empty stack", func() {
			_, _, err := run(instr.Bare(instr.OpDup))
			Expect(err).To(MatchError(underflowAt(1)))
		})
	})

	Context("when running GOTO", func() {
		It("should jump on a non-zero condition", func() {
			s.push(3)

			_, _, err := run(instr.Goto{Label: ".end"})
			Expect(err).NotTo(HaveOccurred())
			Expect(s.PC).To(Equal(2))
			Expect(s.Stack).To(BeEmpty())
		})

		It("should fall through on zero", func() {
			s.push(0)

			_, _, err := run(instr.Goto{Label: ".here"})
			Expect(err).NotTo(HaveOccurred())
			Expect(s.PC).To(Equal(1))
		})

		It("should report a missing label before checking the stack", func() {
			_, _, err := run(instr.Goto{Label: ".nowhere"})

			var linkErr *LinkError
			Expect(errors.As(err, &linkErr)).To(BeTrue())
			Expect(err).To(MatchError("Label with name: .nowhere doesn't exist"))
		})

		It("should fail without a condition", func() {
			_, _, err := run(instr.Goto{Label: ".here"})
			Expect(err).To(MatchError(underflowAt(1)))
		})
	})

	Context("when running RETURN_VALUE", func() {
		It("should return the top of the stack", func() {
			s.push(1)
			s.push(9)

			v, done, err := run(instr.Bare(instr.OpReturn))
			Expect(err).NotTo(HaveOccurred())
			Expect(done).To(BeTrue())
			Expect(v).To(Equal(instr.Number(9)))
			Expect(s.PC).To(Equal(0))
		})

		It("should fail on an empty stack", func() {
			_, done, err := run(instr.Bare(instr.OpReturn))
			Expect(done).To(BeFalse())
			Expect(err).To(MatchError(underflowAt(1)))
		})
	})

	DescribeTable("stack underflow on every popping opcode",
		func(inst instr.Instruction, operands int) {
			for v := 0; v < operands; v++ {
				s.push(instr.Number(v + 1))
			}
			s.PC = 2

			_, done, err := run(inst)

			var runErr *RuntimeError
			Expect(errors.As(err, &runErr)).To(BeTrue())
			Expect(runErr.Fault).To(Equal(FaultStackUnderflow))
			Expect(runErr.Op).To(Equal(inst.Opcode()))
			Expect(err).To(MatchError(underflowAt(3)))
			Expect(done).To(BeFalse())
			Expect(s.PC).To(Equal(2))
			Expect(s.Stack).To(BeEmpty())
		},
		Entry("WRITE_VAR", instr.Write{Name: "x"}, 0),
		Entry("ADD on empty", instr.Bare(instr.OpAdd), 0),
		Entry("ADD on one", instr.Bare(instr.OpAdd), 1),
		Entry("MULTIPLY on empty", instr.Bare(instr.OpMultiply), 0),
		Entry("MULTIPLY on one", instr.Bare(instr.OpMultiply), 1),
		Entry("GREATER on empty", instr.Bare(instr.OpGreater), 0),
		Entry("GREATER on one", instr.Bare(instr.OpGreater), 1),
		Entry("LESS on empty", instr.Bare(instr.OpLess), 0),
		Entry("LESS on one", instr.Bare(instr.OpLess), 1),
		Entry("EQUAL on empty", instr.Bare(instr.OpEqual), 0),
		Entry("EQUAL on one", instr.Bare(instr.OpEqual), 1),
		Entry("DUP", instr.Bare(instr.OpDup), 0),
		Entry("POP", instr.Bare(instr.OpPop), 0),
		Entry("GOTO", instr.Goto{Label: ".here"}, 0),
		Entry("RETURN_VALUE", instr.Bare(instr.OpReturn), 0),
	)

	It("should cover every opcode that pops", func() {
		popping := 0
		for _, op := range instr.AllOpcodes() {
			if op.Info().Pops > 0 {
				popping++
			}
		}
		Expect(popping).To(Equal(10))
	})

	Context("when given an instruction it cannot execute", func() {
		It("should fail on a nil instruction", func() {
			s.PC = 1

			_, done, err := run(nil)

			var runErr *RuntimeError
			Expect(errors.As(err, &runErr)).To(BeTrue())
			Expect(runErr.Fault).To(Equal(FaultInvalidInstruction))
			Expect(err).To(MatchError(
				"Runtime error: unable to process instruction #2: invalid instruction"))
			Expect(done).To(BeFalse())
			Expect(s.PC).To(Equal(1))
		})

		It("should fail on a bare opcode that takes an argument", func() {
			s.push(1)
			s.push(2)

			_, _, err := run(instr.Bare(instr.OpLoad))

			var runErr *RuntimeError
			Expect(errors.As(err, &runErr)).To(BeTrue())
			Expect(runErr.Fault).To(Equal(FaultInvalidInstruction))
			Expect(runErr.Op).To(Equal(instr.OpLoad))
			Expect(s.Stack).To(Equal([]instr.Number{1, 2}))
		})
	})
})
