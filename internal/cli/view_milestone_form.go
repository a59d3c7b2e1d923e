package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/Synchronicityai-org/tinywins/internal/cli/formatter"
	"github.com/Synchronicityai-org/tinywins/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// requireText rejects blank input on required form fields.
func requireText(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

// milestoneFormView wraps a huh form that creates a milestone for the
// active profile.
type milestoneFormView struct {
	state *SharedState
	form  *huh.Form

	title    string
	overview string
}

func newMilestoneFormView(state *SharedState) *milestoneFormView {
	v := &milestoneFormView{state: state}

	v.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Placeholder("e.g. Uses 10 words").
				Value(&v.title).
				Validate(requireText("title")),
			huh.NewInput().
				Title("Overview").
				Placeholder("What does success look like?").
				Value(&v.overview),
		),
	).WithTheme(tinywinsHuhTheme()).WithShowHelp(false)

	return v
}

func (v *milestoneFormView) ID() ViewID    { return ViewForm }
func (v *milestoneFormView) Title() string { return "New Milestone" }

func (v *milestoneFormView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

func (v *milestoneFormView) Init() tea.Cmd {
	return v.form.Init()
}

func (v *milestoneFormView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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

func (v *milestoneFormView) saveCmd() tea.Cmd {
	app := v.state.App
	m := &domain.Milestone{
		KidProfileID: v.state.ActiveProfileID,
		Title:        v.title,
		Overview:     v.overview,
	}
	return func() tea.Msg {
		_ = app.Milestones.CreateMilestone(context.Background(), m)
		return refreshViewMsg{}
	}
}

func (v *milestoneFormView) View() string {
	return "\n  " + formatter.Bold("Add a milestone for "+v.state.ActiveProfileName) + "\n\n" + v.form.View()
}
