package cli

import (
	"errors"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

func newDashboardCmd(app *App) *cobra.Command {
	var parentID string

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Interactive milestone dashboard",
		Long: `Open a full-screen dashboard: pick a kid profile, browse the
milestone tree, advance task statuses and record feedback.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) {
				return errors.New("dashboard needs an interactive terminal")
			}
			p := tea.NewProgram(newAppModel(app, parentID), tea.WithAltScreen())
			_, err := p.Run()
			return err
		},
	}

	cmd.Flags().StringVar(&parentID, "parent", "", "Parent user ID")
	_ = cmd.MarkFlagRequired("parent")

	return cmd
}
