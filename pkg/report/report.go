// pkg/report/report.go
package report

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/tidytable/tidytable/pkg/model"
)

// Renderer writes human-readable summaries of a cleaning run. Styling is
// disabled automatically when the destination is not a terminal.
type Renderer struct {
	out     io.Writer
	color   bool
	title   lipgloss.Style
	header  lipgloss.Style
	good    lipgloss.Style
	bad     lipgloss.Style
	subtle  lipgloss.Style
	keyline lipgloss.Style
}

// NewRenderer builds a renderer for the given writer.
func NewRenderer(out io.Writer) *Renderer {
	color := false
	if f, ok := out.(*os.File); ok {
		color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	r := &Renderer{out: out, color: color}
	if color {
		r.title = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
		r.header = lipgloss.NewStyle().Bold(true).Underline(true)
		r.good = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
		r.bad = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
		r.subtle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
		r.keyline = lipgloss.NewStyle().Bold(true)
	} else {
		plain := lipgloss.NewStyle()
		r.title, r.header, r.good, r.bad, r.subtle, r.keyline = plain, plain, plain, plain, plain, plain
	}
	return r
}

// Issues prints the detected issue list grouped in detection order.
func (r *Renderer) Issues(issues []model.Issue) {
	fmt.Fprintln(r.out, r.title.Render("Detected issues"))
	if len(issues) == 0 {
		fmt.Fprintln(r.out, r.good.Render("  No issues found."))
		return
	}
	for i, issue := range issues {
		sev := issue.SeverityStr
		line := fmt.Sprintf("  %d. [%s] %s in '%s': %s", i+1, sev, issue.Code, issue.Column, issue.Description)
		switch issue.Severity {
		case model.SeverityHigh:
			fmt.Fprintln(r.out, r.bad.Render(line))
		case model.SeverityMedium:
			fmt.Fprintln(r.out, line)
		default:
			fmt.Fprintln(r.out, r.subtle.Render(line))
		}
		if len(issue.Examples) > 0 {
			fmt.Fprintln(r.out, r.subtle.Render("     examples: "+strings.Join(issue.Examples, ", ")))
		}
	}
}

// Impact prints the before/after comparison, per-column completeness deltas,
// the applied-fix list and the quality score line.
func (r *Renderer) Impact(report model.ImpactReport) {
	fmt.Fprintln(r.out, r.title.Render("Cleaning impact"))

	fmt.Fprintln(r.out, r.header.Render("  Before / After"))
	r.pair("Rows", report.Before.Rows, report.After.Rows)
	r.pair("Columns", report.Before.Columns, report.After.Columns)
	r.pair("Missing values", report.Before.MissingValues, report.After.MissingValues)
	r.pair("Duplicate rows", report.Before.DuplicateRows, report.After.DuplicateRows)
	fmt.Fprintf(r.out, "    %s %.1f%% -> %.1f%%\n",
		r.keyline.Render("Completeness:"), report.Before.Completeness, report.After.Completeness)

	fmt.Fprintln(r.out, r.header.Render("  Column completeness"))
	names := make([]string, 0, len(report.After.ColumnCompleteness))
	for name := range report.After.ColumnCompleteness {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		after := report.After.ColumnCompleteness[name]
		before, existed := report.Before.ColumnCompleteness[name]
		if !existed {
			before = 0
		}
		line := fmt.Sprintf("    %-20s %.1f%% -> %.1f%%", name, before, after)
		if after > before {
			fmt.Fprintln(r.out, r.good.Render(line))
		} else {
			fmt.Fprintln(r.out, line)
		}
	}

	fmt.Fprintln(r.out, r.header.Render("  Fixes applied"))
	if len(report.ExecutionLog) == 0 {
		fmt.Fprintln(r.out, r.subtle.Render("    none"))
	}
	for _, entry := range report.ExecutionLog {
		fmt.Fprintf(r.out, "    %s: %s (%s)\n", entry.Column, entry.FixApplied, entry.ValuesChanged)
	}

	gain := report.Improvements.QualityScoreGain
	scoreLine := fmt.Sprintf("  Quality score: %.1f -> %.1f (%+.1f)",
		report.Before.QualityScore, report.After.QualityScore, gain)
	if gain >= 0 {
		fmt.Fprintln(r.out, r.good.Render(scoreLine))
	} else {
		fmt.Fprintln(r.out, r.bad.Render(scoreLine))
	}
}

func (r *Renderer) pair(label string, before, after int) {
	fmt.Fprintf(r.out, "    %s %d -> %d\n", r.keyline.Render(label+":"), before, after)
}
