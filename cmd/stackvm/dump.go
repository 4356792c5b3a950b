package main

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/sarchlab/stackvm/core"
)

var listing bool

var dumpCmd = &cobra.Command{
	Use:   "dump file",
	Short: "Print the assembled program",
	Long: `Dump assembles the program and prints its instructions with their
1-based numbers and the labels bound to each position. With --listing
the output is plain source that assembles to the same program.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prog, err := core.LoadProgramFile(args[0])
		if err != nil {
			return err
		}

		if listing {
			fmt.Fprintln(cmd.OutOrStdout(), prog.String())
			return nil
		}

		writeProgramTable(cmd, prog)

		return nil
	},
}

func init() {
	dumpCmd.Flags().BoolVar(&listing, "listing", false, "print source instead of a table")

	rootCmd.AddCommand(dumpCmd)
}

func writeProgramTable(cmd *cobra.Command, prog *core.Program) {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetTitle("Program")
	t.AppendHeader(table.Row{"#", "Labels", "Instruction", "Pops", "Pushes"})

	for i, inst := range prog.Instructions() {
		info := inst.Opcode().Info()
		t.AppendRow(table.Row{
			i + 1,
			strings.Join(prog.LabelsAt(i), " "),
			inst.String(),
			info.Pops,
			info.Pushes,
		})
	}

	if trailing := prog.LabelsAt(prog.Len()); len(trailing) > 0 {
		t.AppendRow(table.Row{"", strings.Join(trailing, " "), "", "", ""})
	}

	t.AppendFooter(table.Row{"", "", fmt.Sprintf("%d instructions", prog.Len()), "", ""})
	t.Render()
}
