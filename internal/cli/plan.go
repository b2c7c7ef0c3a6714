// Package cli holds the logic behind the appshell commands that do not run
// the application.
package cli

import (
	"fmt"
	"io"

	"github.com/aretw0/appshell/internal/presentation/graph"
	"github.com/aretw0/appshell/internal/presentation/tui"
	"github.com/aretw0/appshell/pkg/bootstrap"
	"github.com/aretw0/appshell/pkg/platform"
)

// PlanRows evaluates entries against cls without registering anything.
func PlanRows(cls platform.Classification, entries []bootstrap.Entry) []tui.PlanRow {
	included := make(map[string]bool)
	for _, e := range bootstrap.Plan(cls, entries) {
		included[e.Plugin.Name()] = true
	}

	rows := make([]tui.PlanRow, 0, len(entries))
	for i, e := range entries {
		name := e.Plugin.Name()
		rows = append(rows, tui.PlanRow{
			Position: i,
			Name:     name,
			Included: included[name],
			Reason:   e.Describe(),
		})
	}
	return rows
}

// WritePlan prints the plugins a bootstrap would attempt for cls.
func WritePlan(w io.Writer, cls platform.Classification, entries []bootstrap.Entry) error {
	md := tui.PlanMarkdown(cls.String(), PlanRows(cls, entries))
	return render(w, md)
}

// WritePlanMermaid prints the plan as a Mermaid flowchart.
func WritePlanMermaid(w io.Writer, cls platform.Classification, entries []bootstrap.Entry) error {
	_, err := io.WriteString(w, graph.GenerateMermaid(PlanRows(cls, entries)))
	return err
}

// WriteDeclared prints the declared plugin table.
func WriteDeclared(w io.Writer, entries []bootstrap.Entry) error {
	rows := make([]tui.PlanRow, 0, len(entries))
	for i, e := range entries {
		rows = append(rows, tui.PlanRow{Position: i, Name: e.Plugin.Name(), Reason: e.Describe()})
	}
	return render(w, tui.DeclaredMarkdown(rows))
}

func render(w io.Writer, md string) error {
	out, err := tui.RendererFor(w)(md)
	if err != nil {
		return fmt.Errorf("rendering markdown: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}
