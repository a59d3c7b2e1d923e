package formatter

import (
	"strings"
	"testing"

	"github.com/Synchronicityai-org/tinywins/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestRenderProgress(t *testing.T) {
	tests := []struct {
		name  string
		pct   int
		width int
	}{
		{"0%", 0, 10},
		{"50%", 50, 10},
		{"100%", 100, 10},
		{"over 100 clamps", 150, 10},
		{"negative clamps", -5, 10},
		{"tiny width clamps to 2", 50, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RenderProgress(tt.pct, tt.width)
			assert.Contains(t, got, "[")
			assert.Contains(t, got, "%")
		})
	}

	assert.Contains(t, RenderProgress(0, 4), strings.Repeat(emptyBlock, 4))
	assert.Contains(t, RenderProgress(100, 4), strings.Repeat(filledBlock, 4))
	assert.Contains(t, RenderProgress(67, 10), " 67%")
}

func TestRenderMilestoneNode(t *testing.T) {
	node := domain.MilestoneNode{
		Milestone: domain.Milestone{
			Title:    "First words",
			Overview: "Single words used meaningfully",
			Status:   domain.StatusInProgress,
		},
		Tasks: []domain.Task{
			{Title: "Says mama", Status: domain.StatusCompleted},
			{Title: "Says ball", Status: domain.StatusNotStarted},
		},
		Progress: 50,
	}

	out := RenderMilestoneNode(node, false)
	assert.Contains(t, out, "First words")
	assert.Contains(t, out, "Single words used meaningfully")
	assert.Contains(t, out, "Says mama")
	assert.Contains(t, out, "Says ball")
	assert.Contains(t, out, " 50%")
}

func TestRenderMilestoneNode_Feedback(t *testing.T) {
	node := domain.MilestoneNode{
		Milestone: domain.Milestone{
			Title:          "Social play",
			Status:         domain.StatusInProgress,
			ParentFeedback: "Great progress!",
			Sentiment:      domain.SentimentLove,
		},
	}

	hidden := RenderMilestoneNode(node, false)
	assert.NotContains(t, hidden, "Great progress!")

	shown := RenderMilestoneNode(node, true)
	assert.Contains(t, shown, "Great progress!")
	assert.Contains(t, shown, domain.SentimentLove.Icon())
}

func TestRenderMilestoneNode_EmptyTasks(t *testing.T) {
	node := domain.MilestoneNode{
		Milestone: domain.Milestone{Title: "New goal", Status: domain.StatusNotStarted},
	}
	out := RenderMilestoneNode(node, false)
	assert.Contains(t, out, "no tasks yet")
	assert.Contains(t, out, "  0%")
}

func TestRenderMilestoneTree_Empty(t *testing.T) {
	out := RenderMilestoneTree(nil, false)
	assert.Contains(t, out, "No milestones yet")
}

func TestSentimentBadge(t *testing.T) {
	assert.Empty(t, SentimentBadge(domain.SentimentNone))
	for _, s := range []domain.Sentiment{
		domain.SentimentLove,
		domain.SentimentPositive,
		domain.SentimentNeutral,
		domain.SentimentNegative,
	} {
		badge := SentimentBadge(s)
		assert.Contains(t, badge, s.Icon())
		assert.Contains(t, badge, s.Label())
	}
}

func TestRenderTable(t *testing.T) {
	out := RenderTable(
		[]string{"NAME", "AGE"},
		[][]string{{"Milo", "4"}, {"Ada", "6"}},
	)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 4)
	assert.Contains(t, lines[0], "NAME")
	assert.Contains(t, lines[2], "Milo")

	assert.Empty(t, RenderTable(nil, nil))
}
