package cli

import (
	"context"
	"fmt"

	"github.com/Synchronicityai-org/tinywins/internal/cli/formatter"
	"github.com/Synchronicityai-org/tinywins/internal/domain"
	"github.com/Synchronicityai-org/tinywins/internal/service"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// sentimentValue is a pflag.Value that validates sentiment names as
// they are parsed instead of failing later in the service.
type sentimentValue domain.Sentiment

var _ pflag.Value = (*sentimentValue)(nil)

func (s *sentimentValue) String() string { return string(*s) }
func (s *sentimentValue) Type() string   { return "sentiment" }

func (s *sentimentValue) Set(raw string) error {
	parsed, err := domain.ParseSentiment(raw)
	if err != nil {
		return fmt.Errorf("invalid sentiment %q (use love, positive, neutral or negative)", raw)
	}
	*s = sentimentValue(parsed)
	return nil
}

func newFeedbackCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feedback",
		Short: "Draft and submit parent feedback on milestones and tasks",
	}

	cmd.AddCommand(
		newFeedbackDraftCmd(app),
		newFeedbackShowCmd(app),
		newFeedbackSubmitCmd(app),
		newFeedbackClearCmd(app),
	)

	return cmd
}

func newFeedbackDraftCmd(app *App) *cobra.Command {
	var text string
	var sentiment sentimentValue

	cmd := &cobra.Command{
		Use:   "draft <entity-id>",
		Short: "Stage feedback text and a sentiment for a milestone or task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Feedback.SetDraft(args[0], service.Draft{Text: text, Sentiment: domain.Sentiment(sentiment)})
			fmt.Println("Draft saved. Submit it with: tinywins feedback submit")
			return nil
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "Feedback text")
	cmd.Flags().Var(&sentiment, "sentiment", "One of: love, positive, neutral, negative")
	_ = cmd.MarkFlagRequired("text")

	return cmd
}

func newFeedbackShowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <entity-id>",
		Short: "Show the pending draft for an entity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, ok := app.Feedback.Draft(args[0])
			if !ok {
				fmt.Println("No draft for this entity.")
				return nil
			}
			fmt.Println(formatter.SentimentBadge(d.Sentiment))
			fmt.Println(d.Text)
			return nil
		},
	}

	return cmd
}

func newFeedbackSubmitCmd(app *App) *cobra.Command {
	var isTask bool

	cmd := &cobra.Command{
		Use:   "submit <entity-id>",
		Short: "Persist the pending draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			var err error
			if isTask {
				err = app.Feedback.SubmitTask(ctx, args[0])
			} else {
				err = app.Feedback.SubmitMilestone(ctx, args[0])
			}
			if err != nil {
				return err
			}
			fmt.Println("Feedback submitted.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&isTask, "task", false, "The entity is a task rather than a milestone")

	return cmd
}

func newFeedbackClearCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear <entity-id>",
		Short: "Discard the pending draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Feedback.ClearDraft(args[0])
			fmt.Println("Draft discarded.")
			return nil
		},
	}

	return cmd
}
