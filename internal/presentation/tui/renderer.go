package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/waterjug/pkg/domain"
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
// It detects light or dark terminal backgrounds automatically.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return func(markdown string) (string, error) {
			return markdown, nil
		}
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// SolutionMarkdown formats a solve response as a markdown document with a step table.
func SolutionMarkdown(req domain.Request, resp *domain.Response) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Jugs X=%d, Y=%d, target Z=%d\n\n", req.XCapacity, req.YCapacity, req.ZAmountWanted)

	if !resp.IsSolvable {
		fmt.Fprintf(&b, "**%s**\n", resp.Message)
		return b.String()
	}

	b.WriteString("| Step | Bucket X | Bucket Y | Action | Status |\n")
	b.WriteString("|---:|---:|---:|---|---|\n")
	for _, s := range resp.Solution {
		fmt.Fprintf(&b, "| %d | %d | %d | %s | %s |\n", s.Step, s.BucketX, s.BucketY, s.Action, s.Status)
	}
	fmt.Fprintf(&b, "\nSolved in **%d** step(s).\n", resp.TotalSteps)
	return b.String()
}

// SolutionText formats a solve response as plain aligned text, for pipes and logs.
func SolutionText(resp *domain.Response) string {
	if !resp.IsSolvable {
		return resp.Message + "\n"
	}

	var b strings.Builder
	for _, s := range resp.Solution {
		fmt.Fprintf(&b, "%3d  X=%-4d Y=%-4d %s", s.Step, s.BucketX, s.BucketY, s.Action)
		if s.Terminal() {
			fmt.Fprintf(&b, " (%s)", s.Status)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
