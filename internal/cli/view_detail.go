package cli

import (
	"strings"
	"time"

	"github.com/Synchronicityai-org/tinywins/internal/cli/formatter"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// detailView is a read-only pane showing every field of the selected
// milestone or task.
type detailView struct {
	titleStr string
	fields   [][2]string
}

func newDetailView(row *treeRow) *detailView {
	v := &detailView{}
	if row.task != nil {
		t := row.task
		v.titleStr = t.Title
		v.fields = [][2]string{
			{"Kind", "Task"},
			{"ID", t.ID},
			{"Milestone", t.MilestoneID},
			{"Status", string(t.Status)},
			{"Description", t.Description},
			{"Strategies", t.Strategies},
			{"Feedback", t.ParentFeedback},
			{"Sentiment", sentimentLine(t.HasFeedback(), formatter.SentimentBadge(t.Sentiment))},
			{"Feedback at", timeLine(t.FeedbackAt)},
			{"Created", t.CreatedAt.Format("2006-01-02 15:04")},
			{"Updated", t.UpdatedAt.Format("2006-01-02 15:04")},
		}
		return v
	}

	m := row.milestone
	v.titleStr = m.Title
	v.fields = [][2]string{
		{"Kind", "Milestone"},
		{"ID", m.ID},
		{"Status", string(m.Status)},
		{"Overview", m.Overview},
		{"Feedback", m.ParentFeedback},
		{"Sentiment", sentimentLine(m.HasFeedback(), formatter.SentimentBadge(m.Sentiment))},
		{"Feedback at", timeLine(m.FeedbackAt)},
		{"Created", m.CreatedAt.Format("2006-01-02 15:04")},
		{"Updated", m.UpdatedAt.Format("2006-01-02 15:04")},
	}
	return v
}

func sentimentLine(has bool, badge string) string {
	if !has {
		return ""
	}
	return badge
}

func timeLine(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02 15:04")
}

func (v *detailView) ID() ViewID    { return ViewDetail }
func (v *detailView) Title() string { return "Details" }

func (v *detailView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	}
}

func (v *detailView) Init() tea.Cmd { return nil }

func (v *detailView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return v, nil
}

func (v *detailView) View() string {
	var b strings.Builder
	b.WriteString("\n  " + formatter.Bold(v.titleStr) + "\n\n")
	for _, f := range v.fields {
		if f[1] == "" {
			continue
		}
		b.WriteString("  " + formatter.Dim(f[0]+":") + " " + f[1] + "\n")
	}
	return b.String()
}
