package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sarchlab/stackvm/core"
	"github.com/sarchlab/stackvm/verify"
)

var (
	reportSteps uint64
	strict      bool
)

var lintCmd = &cobra.Command{
	Use:   "lint file",
	Short: "Check a program and print a verification report",
	Long: `Lint assembles the program, runs the static checks (LINK, STACK,
VAR, DEAD, LABEL) and, unless --steps is 0, executes it for at most
--steps instructions. The report is printed on standard output.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prog, err := core.LoadProgramFile(args[0])
		if err != nil {
			return err
		}

		report := verify.GenerateReport(prog, reportSteps)
		report.WriteReport(cmd.OutOrStdout())

		if strict && !report.OK() {
			return fmt.Errorf("%s: %d lint issue(s)", args[0], len(report.Issues))
		}

		return nil
	},
}

func init() {
	lintCmd.Flags().Uint64Var(&reportSteps, "steps", verify.DefaultMaxSteps,
		"instruction limit for the verification run, 0 to skip it")
	lintCmd.Flags().BoolVar(&strict, "strict", false,
		"fail when the report has issues or the run fails")

	rootCmd.AddCommand(lintCmd)
}
