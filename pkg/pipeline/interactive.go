// pkg/pipeline/interactive.go
package pipeline

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/tidytable/tidytable/pkg/execute"
	"github.com/tidytable/tidytable/pkg/model"
)

// runInteractive walks the issues in detection order, one synchronous prompt
// at a time. A fix, once applied, is immediately visible to later decisions:
// an issue whose column was dropped earlier is skipped, not errored. Invalid
// input skips the issue.
func (p *Pipeline) runInteractive(executor *execute.Executor, issues []model.Issue, fixes []model.Fix, opts Options) []model.Fix {
	in := bufio.NewScanner(opts.In)
	out := opts.Out

	byIssue := make(map[string][]model.Fix)
	for _, f := range fixes {
		key := f.IssueCode + "\x00" + f.Column
		byIssue[key] = append(byIssue[key], f)
	}

	var selected []model.Fix
	for i, issue := range issues {
		candidates := byIssue[issue.Code+"\x00"+issue.Column]
		if len(candidates) == 0 {
			continue
		}
		if !columnStillPresent(executor, issue) {
			fmt.Fprintf(out, "\nSkipping issue %d (%s): column '%s' no longer exists.\n",
				i+1, issue.Code, issue.Column)
			continue
		}

		fmt.Fprintf(out, "\nIssue %d/%d [%s] %s in '%s'\n  %s\n",
			i+1, len(issues), issue.SeverityStr, issue.Code, issue.Column, issue.Description)
		if len(issue.Examples) > 0 {
			fmt.Fprintf(out, "  examples: %s\n", strings.Join(issue.Examples, ", "))
		}
		fmt.Fprint(out, "Fix this issue? [y/n]: ")
		if !readYes(in) {
			continue
		}

		for j, f := range candidates {
			tag := ""
			if f.Recommended {
				tag = " (recommended)"
			}
			fmt.Fprintf(out, "  %d. %s%s\n     %s\n     impact: %s | risk: %s\n",
				j+1, f.Label, tag, f.Description, f.Impact, f.Risk)
		}
		fmt.Fprintf(out, "Choose a fix [1-%d]: ", len(candidates))
		choice, ok := readChoice(in, len(candidates))
		if !ok {
			fmt.Fprintln(out, "Invalid choice, skipping.")
			continue
		}

		fix := candidates[choice-1]
		executor.Apply([]model.Fix{fix})
		selected = append(selected, fix)
		fmt.Fprintf(out, "Applied: %s\n", fix.Label)
	}
	return selected
}

func columnStillPresent(executor *execute.Executor, issue model.Issue) bool {
	ds := executor.Dataset()
	if strings.Contains(issue.Column, "/") {
		for _, name := range strings.SplitN(issue.Column, "/", 2) {
			if ds.Column(name) == nil {
				return false
			}
		}
		return true
	}
	return ds.Column(issue.Column) != nil
}

func readYes(in *bufio.Scanner) bool {
	if !in.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(in.Text()))
	return answer == "y" || answer == "yes"
}

func readChoice(in *bufio.Scanner, max int) (int, bool) {
	if !in.Scan() {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(in.Text()))
	if err != nil || n < 1 || n > max {
		return 0, false
	}
	return n, true
}
