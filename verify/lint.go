package verify

import (
	"fmt"
	"sort"

	"github.com/sarchlab/stackvm/core"
	"github.com/sarchlab/stackvm/instr"
)

// depthCap bounds the tracked stack depth. Any depth at or above the cap
// is treated as unbounded.
const depthCap = 64

const unreached = -1

// RunLint performs static checks on a program and returns the issues
// found, ordered by type and then by position.
func RunLint(p *core.Program) []Issue {
	var issues []Issue

	succ := successors(p)
	depth := maxEntryDepths(p, succ)

	issues = append(issues, checkLinks(p)...)
	issues = append(issues, checkStack(p, depth)...)
	issues = append(issues, checkVars(p)...)
	issues = append(issues, checkDead(depth)...)
	issues = append(issues, checkLabels(p)...)

	return issues
}

// successors returns, for each instruction, the instructions control may
// pass to. An index equal to p.Len() means the program ends there.
func successors(p *core.Program) [][]int {
	succ := make([][]int, p.Len())

	for i, inst := range p.Instructions() {
		switch inst := inst.(type) {
		case instr.Goto:
			target, ok := p.Label(inst.Label)
			if !ok {
				// Label resolution fails before the condition is read.
				continue
			}
			succ[i] = []int{i + 1, int(target)}
		case instr.Bare:
			if inst.Opcode() == instr.OpReturn {
				continue
			}
			succ[i] = []int{i + 1}
		default:
			succ[i] = []int{i + 1}
		}
	}

	return succ
}

// maxEntryDepths computes, for each instruction, the largest stack depth
// on entry over all paths from instruction 0. Unreached instructions get
// unreached. Paths that underflow do not continue.
func maxEntryDepths(p *core.Program, succ [][]int) []int {
	depth := make([]int, p.Len())
	for i := range depth {
		depth[i] = unreached
	}

	depth[0] = 0
	worklist := []int{0}

	for len(worklist) > 0 {
		i := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]

		inst, _ := p.Instruction(i)
		info := inst.Opcode().Info()

		d := depth[i]
		if d < info.Pops {
			continue
		}

		out := depthCap
		if d < depthCap {
			out = min(d-info.Pops+info.Pushes, depthCap)
		}

		for _, next := range succ[i] {
			if next >= p.Len() || depth[next] >= out {
				continue
			}
			depth[next] = out
			worklist = append(worklist, next)
		}
	}

	return depth
}

func checkLinks(p *core.Program) []Issue {
	var issues []Issue

	for i, inst := range p.Instructions() {
		g, ok := inst.(instr.Goto)
		if !ok {
			continue
		}

		if _, declared := p.Label(g.Label); declared {
			continue
		}

		issues = append(issues, Issue{
			Type:        IssueLink,
			Instruction: i + 1,
			Label:       g.Label,
			Message: fmt.Sprintf(
				"instruction #%d jumps to undeclared label %s", i+1, g.Label),
		})
	}

	return issues
}

func checkStack(p *core.Program, depth []int) []Issue {
	var issues []Issue

	for i, inst := range p.Instructions() {
		info := inst.Opcode().Info()
		if depth[i] == unreached || depth[i] >= info.Pops {
			continue
		}

		issues = append(issues, Issue{
			Type:        IssueStack,
			Instruction: i + 1,
			Message: fmt.Sprintf(
				"instruction #%d (%s) always underflows: needs %d value(s), at most %d on the stack",
				i+1, info.Mnemonic, info.Pops, depth[i]),
			Details: map[string]interface{}{
				"needs":     info.Pops,
				"max_depth": depth[i],
			},
		})
	}

	return issues
}

func checkVars(p *core.Program) []Issue {
	written := make(map[string]bool)
	for _, inst := range p.Instructions() {
		if w, ok := inst.(instr.Write); ok {
			written[w.Name] = true
		}
	}

	var issues []Issue

	for i, inst := range p.Instructions() {
		r, ok := inst.(instr.Read)
		if !ok || written[r.Name] {
			continue
		}

		issues = append(issues, Issue{
			Type:        IssueVar,
			Instruction: i + 1,
			Message: fmt.Sprintf(
				"instruction #%d reads %s, which is never written", i+1, r.Name),
			Details: map[string]interface{}{"variable": r.Name},
		})
	}

	return issues
}

func checkDead(depth []int) []Issue {
	var issues []Issue

	start := -1
	flush := func(end int) {
		if start < 0 {
			return
		}

		msg := fmt.Sprintf("instruction #%d is unreachable", start+1)
		if end > start {
			msg = fmt.Sprintf("instructions #%d-#%d are unreachable", start+1, end+1)
		}

		issues = append(issues, Issue{
			Type:        IssueDead,
			Instruction: start + 1,
			Message:     msg,
			Details:     map[string]interface{}{"count": end - start + 1},
		})
		start = -1
	}

	for i := range depth {
		if depth[i] != unreached {
			flush(i - 1)
			continue
		}
		if start < 0 {
			start = i
		}
	}
	flush(len(depth) - 1)

	return issues
}

func checkLabels(p *core.Program) []Issue {
	targeted := make(map[string]bool)
	for _, inst := range p.Instructions() {
		if g, ok := inst.(instr.Goto); ok {
			targeted[g.Label] = true
		}
	}

	labels := p.Labels()
	names := make([]string, 0, len(labels))
	for name := range labels {
		if !targeted[name] {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	issues := make([]Issue, 0, len(names))
	for _, name := range names {
		issues = append(issues, Issue{
			Type:        IssueLabel,
			Instruction: int(labels[name]) + 1,
			Label:       name,
			Message:     fmt.Sprintf("label %s is never targeted", name),
		})
	}

	return issues
}
