// Package verify provides static checks and run reports for stack
// programs.
//
// Lint never rejects a program. The assembler accepts anything that is
// well-formed line by line, and label resolution is deferred to execution,
// so every finding here is advisory:
//
//   - LINK: a GOTO names a label that is not declared. Reaching it fails.
//   - STACK: an instruction that underflows on every path reaching it.
//   - VAR: a READ_VAR of a variable that no WRITE_VAR ever binds.
//   - DEAD: instructions that no path from instruction #1 reaches.
//   - LABEL: a declared label that no GOTO targets.
//
// Instruction numbers in issues are 1-based, as in runtime errors.
//
// # Usage Example
//
//	prog, err := core.LoadProgramFile("loop.svm")
//	if err != nil {
//		return err
//	}
//	report := verify.GenerateReport(prog, verify.DefaultMaxSteps)
//	report.WriteReport(os.Stdout)
package verify

// IssueType classifies a lint finding.
type IssueType string

// Issue types reported by RunLint.
const (
	IssueLink  IssueType = "LINK"
	IssueStack IssueType = "STACK"
	IssueVar   IssueType = "VAR"
	IssueDead  IssueType = "DEAD"
	IssueLabel IssueType = "LABEL"
)

// IssueTypes lists every issue type in report order.
var IssueTypes = []IssueType{
	IssueLink, IssueStack, IssueVar, IssueDead, IssueLabel,
}

// Issue is one lint finding.
type Issue struct {
	Type        IssueType
	Instruction int    // 1-based; 0 when the issue is not tied to one
	Label       string // set for LINK and LABEL issues
	Message     string
	Details     map[string]interface{}
}
