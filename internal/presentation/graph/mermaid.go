package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/waterjug/pkg/domain"
)

// GenerateMermaid produces a Mermaid flowchart of a solution path.
// States are nodes and actions are edge labels:
// - Start (0, 0): ((Circle))
// - Intermediate: [Rectangle]
// - Goal: {{Hexagon}}, styled as current
// An unsolvable response yields the start node annotated with its message.
func GenerateMermaid(resp *domain.Response) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	start := domain.State{}
	startID := stateID(start)
	sb.WriteString(fmt.Sprintf("    %s((\"%s\"))\n", startID, start))

	if resp == nil || !resp.IsSolvable {
		if resp != nil && resp.Message != "" {
			sb.WriteString(fmt.Sprintf("    %s -.- unsolvable[\"%s\"]\n", startID, escape(resp.Message)))
		}
		return sb.String()
	}

	prev := startID
	visited := map[string]bool{startID: true}
	for _, step := range resp.Solution {
		id := stateID(step.State())
		if !visited[id] {
			visited[id] = true
			opener, closer := "[", "]"
			if step.Terminal() {
				opener, closer = "{{", "}}"
			}
			sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", id, opener, step.State(), closer))
		}
		sb.WriteString(fmt.Sprintf("    %s -- \"%d. %s\" --> %s\n", prev, step.Step, escape(string(step.Action)), id))
		prev = id
	}

	sb.WriteString("\n    %% Overlay Styles\n")
	// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
	sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
	sb.WriteString(fmt.Sprintf("    class %s current;\n", prev))

	return sb.String()
}

// stateID turns (x, y) into a Mermaid-safe identifier.
func stateID(s domain.State) string {
	return fmt.Sprintf("s%d_%d", s.X, s.Y)
}

func escape(label string) string {
	return strings.ReplaceAll(label, "\"", "'")
}
