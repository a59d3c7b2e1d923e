package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/Synchronicityai-org/tinywins/internal/cli/formatter"
	"github.com/Synchronicityai-org/tinywins/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// treeLoadedMsg signals that the milestone tree has been loaded.
// gen guards against stale loads racing a refresh.
type treeLoadedMsg struct {
	gen   int
	nodes []domain.MilestoneNode
	err   error
}

// treeRow is one selectable line in the flattened tree.
type treeRow struct {
	milestone *domain.Milestone
	task      *domain.Task
	progress  int
}

// milestoneTreeView shows a kid's milestones with their tasks inline.
// Milestones expand and collapse; tasks appear under expanded ones.
type milestoneTreeView struct {
	state   *SharedState
	loading bool
	err     error
	gen     int

	nodes    []domain.MilestoneNode
	expanded map[string]bool
	rows     []treeRow
	cursor   int
}

func newMilestoneTreeView(state *SharedState) *milestoneTreeView {
	return &milestoneTreeView{
		state:    state,
		loading:  true,
		expanded: make(map[string]bool),
	}
}

func (v *milestoneTreeView) ID() ViewID    { return ViewMilestoneTree }
func (v *milestoneTreeView) Title() string { return "Milestones" }

func (v *milestoneTreeView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "expand")),
		key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "advance status")),
		key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "feedback")),
		key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new milestone")),
		key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add task")),
		key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "details")),
		key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	}
}

func (v *milestoneTreeView) Init() tea.Cmd {
	return v.loadData()
}

func (v *milestoneTreeView) loadData() tea.Cmd {
	v.gen++
	gen := v.gen
	app := v.state.App
	kidID := v.state.ActiveProfileID
	return func() tea.Msg {
		nodes, err := app.Milestones.Tree(context.Background(), kidID)
		return treeLoadedMsg{gen: gen, nodes: nodes, err: err}
	}
}

// rebuildRows flattens nodes into selectable rows, honoring expansion.
func (v *milestoneTreeView) rebuildRows() {
	v.rows = v.rows[:0]
	for i := range v.nodes {
		node := &v.nodes[i]
		v.rows = append(v.rows, treeRow{milestone: &node.Milestone, progress: node.Progress})
		if !v.expanded[node.Milestone.ID] {
			continue
		}
		for j := range node.Tasks {
			v.rows = append(v.rows, treeRow{task: &node.Tasks[j]})
		}
	}
	if v.cursor >= len(v.rows) {
		v.cursor = max(0, len(v.rows)-1)
	}
}

// nextStatus advances a task through the usual progression.
func nextStatus(s domain.MilestoneStatus) domain.MilestoneStatus {
	switch s {
	case domain.StatusNotStarted:
		return domain.StatusInProgress
	case domain.StatusInProgress:
		return domain.StatusCompleted
	default:
		return domain.StatusNotStarted
	}
}

func (v *milestoneTreeView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case treeLoadedMsg:
		if msg.gen != v.gen {
			// A newer load is in flight; discard this one.
			return v, nil
		}
		v.loading = false
		if msg.err != nil {
			v.err = msg.err
			return v, nil
		}
		v.nodes = msg.nodes
		v.rebuildRows()
		return v, nil

	case refreshViewMsg:
		v.loading = true
		v.err = nil
		return v, v.loadData()

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if v.cursor > 0 {
				v.cursor--
			}
		case "down", "j":
			if v.cursor < len(v.rows)-1 {
				v.cursor++
			}
		case "enter", " ":
			if row := v.selectedRow(); row != nil && row.milestone != nil {
				v.expanded[row.milestone.ID] = !v.expanded[row.milestone.ID]
				v.rebuildRows()
			}
		case "s":
			if row := v.selectedRow(); row != nil && row.task != nil {
				taskID := row.task.ID
				status := nextStatus(row.task.Status)
				app := v.state.App
				gen := v.gen
				return v, func() tea.Msg {
					if err := app.Milestones.SetTaskStatus(context.Background(), taskID, status); err != nil {
						return treeLoadedMsg{gen: gen, err: err}
					}
					return refreshViewMsg{}
				}
			}
		case "f":
			if row := v.selectedRow(); row != nil {
				return v, pushView(newFeedbackFormView(v.state, row))
			}
		case "n":
			return v, pushView(newMilestoneFormView(v.state))
		case "a":
			if m := v.selectedMilestone(); m != nil {
				return v, pushView(newTaskFormView(v.state, m))
			}
		case "d":
			if row := v.selectedRow(); row != nil {
				return v, pushView(newDetailView(row))
			}
		case "r":
			v.loading = true
			v.err = nil
			return v, v.loadData()
		}
	}

	return v, nil
}

// selectedMilestone resolves the milestone under the cursor, following
// a task row up to its parent.
func (v *milestoneTreeView) selectedMilestone() *domain.Milestone {
	row := v.selectedRow()
	if row == nil {
		return nil
	}
	if row.milestone != nil {
		return row.milestone
	}
	for i := range v.nodes {
		if v.nodes[i].Milestone.ID == row.task.MilestoneID {
			return &v.nodes[i].Milestone
		}
	}
	return nil
}

func (v *milestoneTreeView) selectedRow() *treeRow {
	if v.cursor < 0 || v.cursor >= len(v.rows) {
		return nil
	}
	return &v.rows[v.cursor]
}

func (v *milestoneTreeView) View() string {
	if v.loading {
		return "\n  " + formatter.Dim("Loading...")
	}
	if v.err != nil {
		return "\n  " + formatter.StyleRed.Render("Error: "+v.err.Error())
	}
	if len(v.rows) == 0 {
		return "\n  " + formatter.Dim("No milestones yet. Create one with: tinywins milestone add")
	}

	var b strings.Builder
	b.WriteString("\n")
	for i, row := range v.rows {
		marker := "  "
		if i == v.cursor {
			marker = formatter.StyleHeader.Render("› ")
		}

		if row.milestone != nil {
			m := row.milestone
			arrow := "▸"
			if v.expanded[m.ID] {
				arrow = "▾"
			}
			line := fmt.Sprintf("%s %s  %s %s",
				formatter.Dim(arrow),
				formatter.Bold(m.Title),
				formatter.RenderProgress(row.progress, 12),
				formatter.StatusIndicator(m.Status))
			if m.HasFeedback() {
				line += "  " + formatter.SentimentBadge(m.Sentiment)
			}
			b.WriteString("  " + marker + line + "\n")
			continue
		}

		t := row.task
		line := fmt.Sprintf("%s %s", formatter.TaskGlyph(t.Status), t.Title)
		if t.HasFeedback() {
			line += "  " + formatter.SentimentBadge(t.Sentiment)
		}
		b.WriteString("      " + marker + line + "\n")
	}
	return b.String()
}
