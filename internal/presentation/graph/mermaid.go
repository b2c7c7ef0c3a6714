package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/appshell/internal/presentation/tui"
)

// GenerateMermaid produces a Mermaid flowchart of a bootstrap plan.
// Registered plugins are chained in declaration order from the start node to
// the run loop; skipped plugins hang off the chain with a dotted edge
// labelled with their condition.
// - Start: ((Circle))
// - Plugin: [Rectangle]
// - Run loop: [[Subroutine]]
func GenerateMermaid(rows []tui.PlanRow) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	sb.WriteString("    start((\"bootstrap\"))\n")

	prev := "start"
	var skipped []string
	for _, r := range rows {
		safeID := sanitizeMermaidID(r.Name)
		sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", safeID, r.Name))

		// Escape double quotes in condition for Mermaid label
		condition := strings.ReplaceAll(r.Reason, "\"", "'")
		if r.Included {
			sb.WriteString(fmt.Sprintf("    %s -- \"%s\" --> %s\n", prev, condition, safeID))
			prev = safeID
			continue
		}
		sb.WriteString(fmt.Sprintf("    %s -. \"%s\" .-> %s\n", prev, condition, safeID))
		skipped = append(skipped, safeID)
	}
	sb.WriteString("    run[[\"run loop\"]]\n")
	sb.WriteString(fmt.Sprintf("    %s --> run\n", prev))

	if len(skipped) > 0 {
		sb.WriteString("\n    %% Skipped plugins\n")
		sb.WriteString("    classDef skipped fill:#eeeeee,stroke:#9e9e9e,stroke-dasharray:4,color:#000;\n")
		for _, id := range skipped {
			sb.WriteString(fmt.Sprintf("    class %s skipped;\n", id))
		}
	}
	return sb.String()
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}
