package formatter

import (
	"fmt"
	"strings"

	"github.com/Synchronicityai-org/tinywins/internal/domain"
)

const progressBarWidth = 12

// TaskGlyph marks a task's status in the tree listing.
func TaskGlyph(status domain.MilestoneStatus) string {
	switch status {
	case domain.StatusCompleted:
		return StyleGreen.Render("[x]")
	case domain.StatusInProgress:
		return StyleYellow.Render("[~]")
	case domain.StatusArchived:
		return StyleDim.Render("[-]")
	default:
		return StyleDim.Render("[ ]")
	}
}

// RenderMilestoneNode renders one milestone with its tasks as an
// indented block.
func RenderMilestoneNode(node domain.MilestoneNode, showFeedback bool) string {
	var b strings.Builder

	m := node.Milestone
	fmt.Fprintf(&b, "%s  %s  %s\n",
		Bold(m.Title),
		RenderProgress(node.Progress, progressBarWidth),
		StatusIndicator(m.Status))
	if m.Overview != "" {
		fmt.Fprintf(&b, "  %s\n", Dim(m.Overview))
	}
	if showFeedback && m.HasFeedback() {
		fmt.Fprintf(&b, "  %s %s\n", SentimentBadge(m.Sentiment), m.ParentFeedback)
	}

	for _, t := range node.Tasks {
		fmt.Fprintf(&b, "  %s %s", TaskGlyph(t.Status), t.Title)
		if showFeedback && t.HasFeedback() {
			fmt.Fprintf(&b, "  %s", SentimentBadge(t.Sentiment))
		}
		b.WriteString("\n")
	}
	if len(node.Tasks) == 0 {
		fmt.Fprintf(&b, "  %s\n", Dim("no tasks yet"))
	}

	return b.String()
}

// RenderMilestoneTree renders the full tree, one milestone block per
// node with a blank line between blocks.
func RenderMilestoneTree(nodes []domain.MilestoneNode, showFeedback bool) string {
	if len(nodes) == 0 {
		return Dim("No milestones yet. Create one with: tinywins milestone add")
	}
	blocks := make([]string, 0, len(nodes))
	for _, node := range nodes {
		blocks = append(blocks, RenderMilestoneNode(node, showFeedback))
	}
	return strings.Join(blocks, "\n")
}
