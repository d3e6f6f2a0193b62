package tui

import (
	"strings"
	"testing"

	"github.com/aretw0/waterjug/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var solved = &domain.Response{
	Solution: []domain.SolutionStep{
		{Step: 1, BucketX: 2, BucketY: 0, Action: domain.ActionFillX},
		{Step: 2, BucketX: 0, BucketY: 2, Action: domain.ActionTransferXY, Status: domain.StatusSolved},
	},
	IsSolvable: true,
	TotalSteps: 2,
}

func TestSolutionMarkdown(t *testing.T) {
	md := SolutionMarkdown(domain.Request{XCapacity: 2, YCapacity: 10, ZAmountWanted: 2}, solved)

	assert.Contains(t, md, "# Jugs X=2, Y=10, target Z=2")
	assert.Contains(t, md, "| 1 | 2 | 0 | Fill bucket X |  |")
	assert.Contains(t, md, "| 2 | 0 | 2 | Transfer from bucket X to Y | Solved |")
	assert.Contains(t, md, "Solved in **2** step(s).")
}

func TestSolutionMarkdown_Unsolvable(t *testing.T) {
	md := SolutionMarkdown(domain.Request{XCapacity: 2, YCapacity: 6, ZAmountWanted: 5},
		&domain.Response{Message: domain.MsgNoSolution})

	assert.Contains(t, md, "**No solution possible**")
	assert.NotContains(t, md, "| Step |")
}

func TestSolutionText(t *testing.T) {
	lines := strings.Split(strings.TrimSpace(SolutionText(solved)), "\n")

	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Fill bucket X")
	assert.NotContains(t, lines[0], "Solved")
	assert.True(t, strings.HasSuffix(lines[1], "(Solved)"))
}

func TestNewRenderer(t *testing.T) {
	render := NewRenderer()

	out, err := render(SolutionMarkdown(domain.Request{XCapacity: 2, YCapacity: 10, ZAmountWanted: 2}, solved))
	require.NoError(t, err)
	assert.Contains(t, out, "Jugs")
}
