package verify

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/sarchlab/stackvm/core"
)

// DefaultMaxSteps is the step limit used for report runs when the caller
// has no better bound.
const DefaultMaxSteps = 1 << 24

// ErrStepLimit is recorded when a report run does not terminate within its
// step limit.
var ErrStepLimit = errors.New("step limit reached")

// Report is the outcome of linting and, optionally, running a program.
type Report struct {
	Program *core.Program
	Issues  []Issue

	Ran    bool
	Steps  uint64
	Result core.Result
	RunErr error
}

// GenerateReport lints p and runs it for at most maxSteps instructions. A
// maxSteps of zero skips the run.
func GenerateReport(p *core.Program, maxSteps uint64) *Report {
	r := &Report{
		Program: p,
		Issues:  RunLint(p),
	}

	if maxSteps == 0 {
		return r
	}

	r.Ran = true

	x := core.NewExecution(p)
	for x.Status() == core.Running {
		// Stepping past the last instruction executes nothing, so it does
		// not count against the limit.
		if x.Steps() >= maxSteps && !pastEnd(p, x) {
			r.RunErr = fmt.Errorf("%w after %d instructions", ErrStepLimit, x.Steps())
			break
		}
		_, _ = x.Step()
	}

	r.Steps = x.Steps()
	r.Result = x.Result()
	if x.Err() != nil {
		r.RunErr = x.Err()
	}

	return r
}

func pastEnd(p *core.Program, x *core.Execution) bool {
	_, ok := p.Instruction(x.Snapshot().PC)
	return !ok
}

// Count returns the number of issues of type t.
func (r *Report) Count(t IssueType) int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Type == t {
			n++
		}
	}
	return n
}

// OK reports whether the program has no issues and, if it was run,
// returned.
func (r *Report) OK() bool {
	return len(r.Issues) == 0 && r.RunErr == nil
}

// WriteReport writes a formatted report to a writer.
func (r *Report) WriteReport(w io.Writer) {
	separator := strings.Repeat("=", 60)

	fmt.Fprintln(w, separator)
	fmt.Fprintln(w, "PROGRAM VERIFICATION REPORT")
	fmt.Fprintln(w, separator)
	fmt.Fprintf(w, "%d instructions, %d labels\n\n",
		r.Program.Len(), len(r.Program.Labels()))

	summary := table.NewWriter()
	summary.SetOutputMirror(w)
	summary.SetTitle("Lint Summary")
	summary.AppendHeader(table.Row{"Check", "Issues"})
	for _, t := range IssueTypes {
		summary.AppendRow(table.Row{string(t), r.Count(t)})
	}
	summary.AppendFooter(table.Row{"Total", len(r.Issues)})
	summary.Render()

	if len(r.Issues) > 0 {
		fmt.Fprintln(w)

		details := table.NewWriter()
		details.SetOutputMirror(w)
		details.SetTitle("Issues")
		details.AppendHeader(table.Row{"Type", "Inst", "Message"})
		for _, issue := range r.Issues {
			inst := "-"
			if issue.Instruction > 0 {
				inst = fmt.Sprintf("#%d", issue.Instruction)
			}
			details.AppendRow(table.Row{string(issue.Type), inst, issue.Message})
		}
		details.Render()
	}

	if !r.Ran {
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, separator)
	fmt.Fprintln(w, "EXECUTION")
	fmt.Fprintln(w, separator)
	fmt.Fprintf(w, "Steps: %d\n", r.Steps)

	if r.RunErr != nil {
		fmt.Fprintf(w, "Status: FAILED: %v\n", r.RunErr)
		return
	}
	fmt.Fprintf(w, "Status: RETURNED %s\n", r.Result)
}
