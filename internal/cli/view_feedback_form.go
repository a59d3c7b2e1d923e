package cli

import (
	"context"

	"github.com/Synchronicityai-org/tinywins/internal/cli/formatter"
	"github.com/Synchronicityai-org/tinywins/internal/domain"
	"github.com/Synchronicityai-org/tinywins/internal/service"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// tinywinsHuhTheme returns a custom huh theme using the existing Gruvbox palette.
func tinywinsHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// feedbackFormView wraps a huh form that collects a sentiment and a
// note for the selected milestone or task, then submits the draft.
type feedbackFormView struct {
	state *SharedState
	form  *huh.Form

	entityID string
	isTask   bool
	titleStr string

	sentiment string
	text      string
}

func newFeedbackFormView(state *SharedState, row *treeRow) *feedbackFormView {
	v := &feedbackFormView{state: state}
	if row.task != nil {
		v.entityID = row.task.ID
		v.isTask = true
		v.titleStr = row.task.Title
		v.sentiment = string(row.task.Sentiment)
		v.text = row.task.ParentFeedback
	} else {
		v.entityID = row.milestone.ID
		v.titleStr = row.milestone.Title
		v.sentiment = string(row.milestone.Sentiment)
		v.text = row.milestone.ParentFeedback
	}
	if v.sentiment == "" {
		v.sentiment = string(domain.SentimentPositive)
	}

	v.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("How is this working?").
				Options(
					huh.NewOption(domain.SentimentLove.Icon()+" "+domain.SentimentLove.Label(), string(domain.SentimentLove)),
					huh.NewOption(domain.SentimentPositive.Icon()+" "+domain.SentimentPositive.Label(), string(domain.SentimentPositive)),
					huh.NewOption(domain.SentimentNeutral.Icon()+" "+domain.SentimentNeutral.Label(), string(domain.SentimentNeutral)),
					huh.NewOption(domain.SentimentNegative.Icon()+" "+domain.SentimentNegative.Label(), string(domain.SentimentNegative)),
				).
				Value(&v.sentiment),
			huh.NewInput().
				Title("Notes").
				Placeholder("What did you observe?").
				Value(&v.text),
		),
	).WithTheme(tinywinsHuhTheme()).WithShowHelp(false)

	return v
}

func (v *feedbackFormView) ID() ViewID    { return ViewForm }
func (v *feedbackFormView) Title() string { return "Feedback" }

func (v *feedbackFormView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

func (v *feedbackFormView) Init() tea.Cmd {
	return v.form.Init()
}

func (v *feedbackFormView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Escape cancels without submitting.
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return v, func() tea.Msg { return formCompleteMsg{} }
	}

	form, cmd := v.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		v.form = f
	}

	if v.form.State == huh.StateCompleted {
		return v, func() tea.Msg {
			return formCompleteMsg{nextCmd: v.submitCmd()}
		}
	}

	return v, cmd
}

func (v *feedbackFormView) submitCmd() tea.Cmd {
	app := v.state.App
	entityID := v.entityID
	isTask := v.isTask
	draft := service.Draft{
		Text:      v.text,
		Sentiment: domain.Sentiment(v.sentiment),
	}
	return func() tea.Msg {
		ctx := context.Background()
		app.Feedback.SetDraft(entityID, draft)
		if isTask {
			_ = app.Feedback.SubmitTask(ctx, entityID)
		} else {
			_ = app.Feedback.SubmitMilestone(ctx, entityID)
		}
		return refreshViewMsg{}
	}
}

func (v *feedbackFormView) View() string {
	return "\n  " + formatter.Bold(v.titleStr) + "\n\n" + v.form.View()
}
