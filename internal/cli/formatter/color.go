package formatter

import (
	"fmt"
	"strings"

	"github.com/Synchronicityai-org/tinywins/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// StatusColor returns the lipgloss style for a milestone or task status.
func StatusColor(status domain.MilestoneStatus) lipgloss.Style {
	switch status {
	case domain.StatusCompleted:
		return StyleGreen
	case domain.StatusInProgress:
		return StyleYellow
	case domain.StatusArchived:
		return StyleDim
	default:
		return StyleBlue
	}
}

// StatusIndicator returns a colored status marker such as "● IN PROGRESS".
func StatusIndicator(status domain.MilestoneStatus) string {
	label := strings.ReplaceAll(string(status), "_", " ")
	return StatusColor(status).Render("● " + label)
}

// SentimentBadge renders a sentiment glyph with its label, colored to
// match the rating; an empty string for no rating.
func SentimentBadge(s domain.Sentiment) string {
	if s == domain.SentimentNone {
		return ""
	}
	text := s.Icon() + " " + s.Label()
	switch s {
	case domain.SentimentLove:
		return StylePurple.Render(text)
	case domain.SentimentPositive:
		return StyleGreen.Render(text)
	case domain.SentimentNeutral:
		return StyleYellow.Render(text)
	default:
		return StyleRed.Render(text)
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
