package cli

import (
	"context"
	"fmt"

	"github.com/Synchronicityai-org/tinywins/internal/cli/formatter"
	"github.com/Synchronicityai-org/tinywins/internal/domain"
	"github.com/spf13/cobra"
)

func newMilestoneCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "milestone",
		Short: "Manage milestones",
	}

	cmd.AddCommand(
		newMilestoneAddCmd(app),
		newMilestoneTreeCmd(app),
		newMilestoneRemoveCmd(app),
	)

	return cmd
}

func newMilestoneAddCmd(app *App) *cobra.Command {
	var kidID, title, overview string
	var taskTitles []string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a milestone, optionally with its tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			m := &domain.Milestone{
				KidProfileID: kidID,
				Title:        title,
				Overview:     overview,
			}

			if len(taskTitles) == 0 {
				if err := app.Milestones.CreateMilestone(context.Background(), m); err != nil {
					return err
				}
				fmt.Printf("Created milestone %q (%s)\n", m.Title, m.ID)
				return nil
			}

			tasks := make([]*domain.Task, 0, len(taskTitles))
			for _, tt := range taskTitles {
				tasks = append(tasks, &domain.Task{Title: tt, KidProfileID: kidID})
			}
			if err := app.Milestones.CreateMilestoneWithTasks(context.Background(), m, tasks); err != nil {
				return err
			}
			fmt.Printf("Created milestone %q with %d tasks (%s)\n", m.Title, len(tasks), m.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&kidID, "kid", "", "Kid profile ID")
	cmd.Flags().StringVar(&title, "title", "", "Milestone title")
	cmd.Flags().StringVar(&overview, "overview", "", "Short overview")
	cmd.Flags().StringArrayVar(&taskTitles, "task", nil, "Task title (repeatable)")
	_ = cmd.MarkFlagRequired("kid")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func newMilestoneTreeCmd(app *App) *cobra.Command {
	var kidID string
	var feedback bool

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Show every milestone with its tasks and progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			nodes, err := app.Milestones.Tree(context.Background(), kidID)
			if err != nil {
				return err
			}
			fmt.Println(formatter.RenderMilestoneTree(nodes, feedback))
			return nil
		},
	}

	cmd.Flags().StringVar(&kidID, "kid", "", "Kid profile ID")
	cmd.Flags().BoolVar(&feedback, "feedback", false, "Include parent feedback")
	_ = cmd.MarkFlagRequired("kid")

	return cmd
}

func newMilestoneRemoveCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <milestone-id>",
		Short: "Delete a milestone and its tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Milestones.DeleteMilestone(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Println("Milestone removed.")
			return nil
		},
	}

	return cmd
}
