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

// dashboardLoadedMsg signals that the kid profile list has been loaded.
type dashboardLoadedMsg struct {
	profiles []*domain.KidProfile
	err      error
}

// dashboardView is the home screen of the TUI. It lists the parent's
// kid profiles; selecting one opens the milestone tree.
type dashboardView struct {
	state   *SharedState
	loading bool
	err     error

	profiles []*domain.KidProfile
	cursor   int
}

func newDashboardView(state *SharedState) *dashboardView {
	return &dashboardView{
		state:   state,
		loading: true,
	}
}

func (v *dashboardView) ID() ViewID    { return ViewDashboard }
func (v *dashboardView) Title() string { return "Dashboard" }

func (v *dashboardView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	}
}

func (v *dashboardView) Init() tea.Cmd {
	return v.loadData()
}

func (v *dashboardView) loadData() tea.Cmd {
	app := v.state.App
	parentID := v.state.ParentID
	return func() tea.Msg {
		profiles, err := app.Profiles.ListByParent(context.Background(), parentID)
		return dashboardLoadedMsg{profiles: profiles, err: err}
	}
}

func (v *dashboardView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardLoadedMsg:
		v.loading = false
		if msg.err != nil {
			v.err = msg.err
			return v, nil
		}
		v.profiles = msg.profiles
		if v.cursor >= len(v.profiles) {
			v.cursor = max(0, len(v.profiles)-1)
		}
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
			if v.cursor < len(v.profiles)-1 {
				v.cursor++
			}
		case "enter":
			if v.cursor < len(v.profiles) {
				v.state.SetActiveProfileFrom(v.profiles[v.cursor])
				return v, pushView(newMilestoneTreeView(v.state))
			}
		case "r":
			v.loading = true
			v.err = nil
			return v, v.loadData()
		}
	}

	return v, nil
}

func (v *dashboardView) View() string {
	if v.loading {
		return "\n  " + formatter.Dim("Loading...")
	}
	if v.err != nil {
		return "\n  " + formatter.StyleRed.Render("Error: "+v.err.Error())
	}
	if len(v.profiles) == 0 {
		return "\n  " + formatter.Dim("No profiles yet. Create one with: tinywins profile add")
	}

	var b strings.Builder
	b.WriteString("\n")
	for i, p := range v.profiles {
		marker := "  "
		line := p.Name
		if p.AgeYears > 0 {
			line += formatter.Dim(fmt.Sprintf("  (age %d)", p.AgeYears))
		}
		if i == v.cursor {
			marker = formatter.StyleHeader.Render("› ")
			line = formatter.Bold(p.Name)
			if p.AgeYears > 0 {
				line += formatter.Dim(fmt.Sprintf("  (age %d)", p.AgeYears))
			}
		}
		b.WriteString("  " + marker + line + "\n")
	}
	return b.String()
}
