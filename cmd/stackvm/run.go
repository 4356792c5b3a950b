package main

import (
	"errors"
	"fmt"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/spf13/cobra"

	"github.com/sarchlab/stackvm/api"
	"github.com/sarchlab/stackvm/core"
	"github.com/sarchlab/stackvm/verify"
)

var (
	programFile string
	runLint     bool
	simulate    bool
	freqGHz     float64
	dumpState   bool
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Assemble a program and print its result",
	Long: `Run assembles the program and executes it from the first
instruction. The returned value is printed on standard output, or
<none> when the program ends without RETURN_VALUE.

With --simulate the program runs on a core in simulated time, one
instruction per cycle, and the cycle count is logged. --dump-state
prints the final stack and variables on standard error in either mode.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := programPath(args)
		if err != nil {
			return err
		}
		return runProgram(cmd, path)
	},
}

func init() {
	flags := runCmd.Flags()
	flags.StringVarP(&programFile, "file", "f", "", "program file")
	flags.BoolVar(&runLint, "lint", false, "print lint issues before running")
	flags.BoolVar(&simulate, "simulate", false, "run in simulated time")
	flags.Float64Var(&freqGHz, "freq", 1, "core frequency in GHz for --simulate")
	flags.BoolVar(&dumpState, "dump-state", false, "print the final state")

	rootCmd.AddCommand(runCmd)
}

func programPath(args []string) (string, error) {
	switch {
	case len(args) == 1 && programFile != "":
		return "", errors.New("give the program either as an argument or with --file")
	case len(args) == 1:
		return args[0], nil
	case programFile != "":
		return programFile, nil
	}
	return "", errors.New("File must be specified")
}

func runProgram(cmd *cobra.Command, path string) error {
	prog, err := core.LoadProgramFile(path)
	if err != nil {
		return err
	}

	if settings.Lint {
		for _, issue := range verify.RunLint(prog) {
			logger.Warn("Lint", "Type", string(issue.Type), "Message", issue.Message)
		}
	}

	var result core.Result

	if settings.Simulate {
		var snap core.Snapshot
		result, snap, err = simulateProgram(prog)
		if settings.DumpState {
			core.WriteSnapshot(cmd.ErrOrStderr(), snap)
		}
	} else {
		x := core.NewExecution(prog, core.WithLogger(logger))
		result, err = x.Run()
		if settings.DumpState {
			core.WriteSnapshot(cmd.ErrOrStderr(), x.Snapshot())
		}
	}

	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), result)

	return nil
}

func simulateProgram(prog *core.Program) (core.Result, core.Snapshot, error) {
	driver := api.DriverBuilder{}.
		WithEngine(sim.NewSerialEngine()).
		WithFreq(sim.Freq(settings.FreqGHz) * sim.GHz).
		WithLogger(logger).
		Build("StackVM")

	driver.MapProgram(prog)
	result, err := driver.Run()

	logger.Info("Simulation",
		"Cycles", driver.Cycles(),
		"SimTime", float64(driver.SimTime()),
	)

	return result, driver.Snapshot(), err
}

// exitCode maps an error to the process exit status: 2 for input that
// could not be read or assembled, 3 for a program that failed at run time.
func exitCode(err error) int {
	switch core.KindOf(err) {
	case core.KindIO, core.KindParse:
		return 2
	case core.KindRuntime, core.KindLink:
		return 3
	}
	return 1
}
