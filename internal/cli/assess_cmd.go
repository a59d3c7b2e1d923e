package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Synchronicityai-org/tinywins/internal/cli/formatter"
	"github.com/Synchronicityai-org/tinywins/internal/domain"
	"github.com/spf13/cobra"
)

func newAssessCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assess",
		Short: "Run developmental assessments",
	}

	cmd.AddCommand(
		newAssessQuestionsCmd(app),
		newAssessSubmitCmd(app),
		newAssessHistoryCmd(app),
	)

	return cmd
}

func newAssessQuestionsCmd(app *App) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "questions",
		Short: "List question-bank entries, optionally by category",
		RunE: func(cmd *cobra.Command, args []string) error {
			questions, err := app.Assessments.Questions(context.Background(), domain.QuestionCategory(strings.ToUpper(category)))
			if err != nil {
				return err
			}
			if len(questions) == 0 {
				fmt.Println("No questions.")
				return nil
			}
			rows := make([][]string, 0, len(questions))
			for _, q := range questions {
				rows = append(rows, []string{q.ID, string(q.Category), q.Text})
			}
			fmt.Println(formatter.RenderTable([]string{"ID", "CATEGORY", "QUESTION"}, rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Filter: communication, motor, social, cognitive or daily_living")

	return cmd
}

func newAssessSubmitCmd(app *App) *cobra.Command {
	var kidID string
	var answerFlags []string

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a set of answers as one assessment",
		Long:  "Answers are given as repeated --answer question-id=free text flags.",
		RunE: func(cmd *cobra.Command, args []string) error {
			answers := make(map[string]string, len(answerFlags))
			for _, raw := range answerFlags {
				qid, text, ok := strings.Cut(raw, "=")
				if !ok {
					return fmt.Errorf("malformed answer %q, expected question-id=text", raw)
				}
				answers[qid] = text
			}
			a, err := app.Assessments.Submit(context.Background(), kidID, answers)
			if err != nil {
				return err
			}
			fmt.Printf("Recorded %d responses at %s.\n", len(a.Responses), a.AskedAt.Format(time.RFC3339))
			return nil
		},
	}

	cmd.Flags().StringVar(&kidID, "kid", "", "Kid profile ID")
	cmd.Flags().StringArrayVar(&answerFlags, "answer", nil, "question-id=text (repeatable)")
	_ = cmd.MarkFlagRequired("kid")

	return cmd
}

func newAssessHistoryCmd(app *App) *cobra.Command {
	var kidID string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past assessments, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			history, err := app.Assessments.History(context.Background(), kidID)
			if err != nil {
				return err
			}
			if len(history) == 0 {
				fmt.Println("No assessments yet.")
				return nil
			}
			for _, a := range history {
				fmt.Println(formatter.Header(a.AskedAt.Format("2006-01-02 15:04")))
				for _, r := range a.Responses {
					fmt.Printf("  %s: %s\n", r.QuestionID, r.Answer)
				}
				fmt.Println()
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&kidID, "kid", "", "Kid profile ID")
	_ = cmd.MarkFlagRequired("kid")

	return cmd
}
