package cli

import (
	"context"

	"github.com/Synchronicityai-org/tinywins/internal/cli/formatter"
	"github.com/Synchronicityai-org/tinywins/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// taskFormView wraps a huh form that creates a task under an existing
// milestone.
type taskFormView struct {
	state *SharedState
	form  *huh.Form

	milestoneID    string
	milestoneTitle string

	title       string
	description string
}

func newTaskFormView(state *SharedState, m *domain.Milestone) *taskFormView {
	v := &taskFormView{
		state:          state,
		milestoneID:    m.ID,
		milestoneTitle: m.Title,
	}

	v.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Placeholder("e.g. Name three animals").
				Value(&v.title).
				Validate(requireText("title")),
			huh.NewInput().
				Title("Description").
				Placeholder("How to practice it").
				Value(&v.description),
		),
	).WithTheme(tinywinsHuhTheme()).WithShowHelp(false)

	return v
}

func (v *taskFormView) ID() ViewID    { return ViewForm }
func (v *taskFormView) Title() string { return "New Task" }

func (v *taskFormView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

func (v *taskFormView) Init() tea.Cmd {
	return v.form.Init()
}

func (v *taskFormView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return v, func() tea.Msg { return formCompleteMsg{} }
	}

	form, cmd := v.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		v.form = f
	}

	if v.form.State == huh.StateCompleted {
		return v, func() tea.Msg {
			return formCompleteMsg{nextCmd: v.saveCmd()}
		}
	}

	return v, cmd
}

func (v *taskFormView) saveCmd() tea.Cmd {
	app := v.state.App
	t := &domain.Task{
		MilestoneID:  v.milestoneID,
		KidProfileID: v.state.ActiveProfileID,
		Title:        v.title,
		Description:  v.description,
	}
	return func() tea.Msg {
		_ = app.Milestones.CreateTask(context.Background(), t)
		return refreshViewMsg{}
	}
}

func (v *taskFormView) View() string {
	return "\n  " + formatter.Bold("Add a task under "+v.milestoneTitle) + "\n\n" + v.form.View()
}
