package cli

import (
	"github.com/Synchronicityai-org/tinywins/internal/backend"
	"github.com/Synchronicityai-org/tinywins/internal/service"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// App holds references to all service interfaces used by CLI commands.
// Auth is nil in local mode; the auth commands report that instead of
// failing obscurely.
type App struct {
	Profiles    service.ProfileService
	Milestones  service.MilestoneService
	Feedback    service.FeedbackService
	Teams       service.TeamService
	Assessments service.AssessmentService
	Blog        service.BlogService

	Auth *backend.Client
	Log  *zap.Logger
}

// NewRootCmd creates the top-level "tinywins" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	if app.Log == nil {
		app.Log = zap.NewNop()
	}

	root := &cobra.Command{
		Use:   "tinywins",
		Short: "Track a child's developmental milestones, one tiny win at a time",
	}

	root.AddCommand(
		newProfileCmd(app),
		newMilestoneCmd(app),
		newTaskCmd(app),
		newFeedbackCmd(app),
		newTeamCmd(app),
		newAssessCmd(app),
		newBlogCmd(app),
		newAuthCmd(app),
		newExportCmd(app),
		newDashboardCmd(app),
	)

	return root
}
