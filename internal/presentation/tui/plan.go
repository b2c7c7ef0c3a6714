package tui

import (
	"fmt"
	"strings"
)

// PlanRow is one line of a composition plan.
type PlanRow struct {
	Position int
	Name     string
	Included bool
	Reason   string
}

// PlanMarkdown renders a composition plan for the given platform label.
func PlanMarkdown(platform string, rows []PlanRow) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Bootstrap plan: %s\n\n", platform)
	b.WriteString("| # | Plugin | Registered | Condition |\n")
	b.WriteString("|---|--------|------------|-----------|\n")
	for _, r := range rows {
		mark := "no"
		if r.Included {
			mark = "yes"
		}
		fmt.Fprintf(&b, "| %d | `%s` | %s | %s |\n", r.Position, r.Name, mark, r.Reason)
	}
	return b.String()
}

// DeclaredMarkdown renders the declared plugin table, without evaluating it.
func DeclaredMarkdown(rows []PlanRow) string {
	var b strings.Builder
	b.WriteString("# Declared plugins\n\n")
	b.WriteString("| # | Plugin | Condition |\n")
	b.WriteString("|---|--------|-----------|\n")
	for _, r := range rows {
		fmt.Fprintf(&b, "| %d | `%s` | %s |\n", r.Position, r.Name, r.Reason)
	}
	return b.String()
}
