package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/Synchronicityai-org/tinywins/internal/domain"
	"github.com/spf13/cobra"
)

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage milestone tasks",
	}

	cmd.AddCommand(
		newTaskAddCmd(app),
		newTaskStatusCmd(app),
		newTaskRemoveCmd(app),
	)

	return cmd
}

func newTaskAddCmd(app *App) *cobra.Command {
	var milestoneID, kidID, title, description string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a task to a milestone",
		RunE: func(cmd *cobra.Command, args []string) error {
			t := &domain.Task{
				MilestoneID:  milestoneID,
				KidProfileID: kidID,
				Title:        title,
				Description:  description,
			}
			if err := app.Milestones.CreateTask(context.Background(), t); err != nil {
				return err
			}
			fmt.Printf("Created task %q (%s)\n", t.Title, t.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&milestoneID, "milestone", "", "Parent milestone ID")
	cmd.Flags().StringVar(&kidID, "kid", "", "Kid profile ID")
	cmd.Flags().StringVar(&title, "title", "", "Task title")
	cmd.Flags().StringVar(&description, "description", "", "Task description")
	_ = cmd.MarkFlagRequired("milestone")
	_ = cmd.MarkFlagRequired("kid")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func newTaskStatusCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status <task-id> <status>",
		Short: "Set a task's status",
		Long:  "Valid statuses: NOT_STARTED, IN_PROGRESS, COMPLETED, ARCHIVED.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status := strings.ToUpper(args[1])
			if !domain.ValidMilestoneStatuses[status] {
				return fmt.Errorf("invalid status %q", args[1])
			}
			if err := app.Milestones.SetTaskStatus(context.Background(), args[0], domain.MilestoneStatus(status)); err != nil {
				return err
			}
			fmt.Printf("Task marked %s.\n", status)
			return nil
		},
	}

	return cmd
}

func newTaskRemoveCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <task-id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Milestones.DeleteTask(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Println("Task removed.")
			return nil
		},
	}

	return cmd
}
