package core

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/jedib0t/go-pretty/v6/table"
)

// LevelTrace is the slog level of per-instruction records. It sits below
// Debug so tracing stays off unless asked for.
const LevelTrace slog.Level = slog.LevelDebug - 4

// WriteSnapshot renders the stack and the variables of snap as tables.
func WriteSnapshot(w io.Writer, snap Snapshot) {
	fmt.Fprintf(w, "==============State@PC %d (%d steps)==============\n",
		snap.PC+1, snap.Steps)

	stackTable := table.NewWriter()
	stackTable.SetOutputMirror(w)
	stackTable.SetTitle("Operand Stack")
	stackTable.AppendHeader(table.Row{"Depth", "Value"})
	for i := len(snap.Stack) - 1; i >= 0; i-- {
		stackTable.AppendRow(table.Row{len(snap.Stack) - 1 - i, snap.Stack[i]})
	}
	if len(snap.Stack) == 0 {
		stackTable.AppendRow(table.Row{"-", "(empty)"})
	}
	stackTable.Render()

	varTable := table.NewWriter()
	varTable.SetOutputMirror(w)
	varTable.SetTitle("Variables")
	varTable.AppendHeader(table.Row{"Name", "Value"})
	for _, name := range snap.VarNames() {
		varTable.AppendRow(table.Row{name, snap.Vars[name]})
	}
	if len(snap.Vars) == 0 {
		varTable.AppendRow(table.Row{"-", "(none)"})
	}
	varTable.Render()
}

// LogState writes snap as a single debug record.
func LogState(logger *slog.Logger, snap Snapshot) {
	logger.Debug("StateCheckpoint",
		"PC", snap.PC+1,
		"Steps", snap.Steps,
		"Stack", snap.Stack,
		"Vars", snap.Vars,
	)
}
