package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/Synchronicityai-org/tinywins/internal/cli/formatter"
	"github.com/Synchronicityai-org/tinywins/internal/domain"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newProfileCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage kid profiles",
	}

	cmd.AddCommand(
		newProfileAddCmd(app),
		newProfileListCmd(app),
		newProfileShowCmd(app),
		newProfileRemoveCmd(app),
	)

	return cmd
}

func newProfileAddCmd(app *App) *cobra.Command {
	var name, dob, parentID string
	var diagnosis bool

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a kid profile with its care team",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := &domain.KidProfile{
				Name:         name,
				HasDiagnosis: diagnosis,
			}
			if dob != "" {
				d, err := time.Parse("2006-01-02", dob)
				if err != nil {
					return fmt.Errorf("invalid date of birth %q: %w", dob, err)
				}
				p.DOB = &d
			}

			parent := &domain.User{ID: parentID, Role: domain.RoleParent}
			if err := app.Profiles.Register(context.Background(), p, parent); err != nil {
				return err
			}

			fmt.Printf("Created profile %s (%s) with team %q\n", p.Name, p.ID, p.Name+"'s Team")
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Child's name")
	cmd.Flags().StringVar(&dob, "dob", "", "Date of birth (YYYY-MM-DD)")
	cmd.Flags().StringVar(&parentID, "parent", "", "Owning parent's user ID")
	cmd.Flags().BoolVar(&diagnosis, "diagnosis", false, "The child has a formal diagnosis")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("parent")

	return cmd
}

func newProfileListCmd(app *App) *cobra.Command {
	var parentID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List kid profiles for a parent",
		RunE: func(cmd *cobra.Command, args []string) error {
			profiles, err := app.Profiles.ListByParent(context.Background(), parentID)
			if err != nil {
				return err
			}
			if len(profiles) == 0 {
				fmt.Println("No profiles found.")
				return nil
			}

			rows := make([][]string, 0, len(profiles))
			for _, p := range profiles {
				rows = append(rows, []string{
					p.ID,
					p.Name,
					fmt.Sprintf("%d", p.AgeYears),
					fmt.Sprintf("%t", p.HasDiagnosis),
				})
			}
			fmt.Println(formatter.RenderTable([]string{"ID", "NAME", "AGE", "DIAGNOSIS"}, rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&parentID, "parent", "", "Parent's user ID")
	_ = cmd.MarkFlagRequired("parent")

	return cmd
}

func newProfileShowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <profile-id>",
		Short: "Show one kid profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.Profiles.GetByID(context.Background(), args[0])
			if err != nil {
				return err
			}

			fmt.Println(formatter.Header(p.Name))
			if p.DOB != nil {
				fmt.Printf("Born      %s (%d years)\n", p.DOB.Format("2006-01-02"), p.AgeYears)
			}
			fmt.Printf("Parent    %s\n", p.ParentID)
			fmt.Printf("Team      %s\n", p.TeamID)
			fmt.Printf("Diagnosis %t\n", p.HasDiagnosis)
			return nil
		},
	}

	return cmd
}

func newProfileRemoveCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <profile-id>",
		Short: "Delete a kid profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := uuid.Parse(args[0]); err != nil {
				return fmt.Errorf("invalid profile id %q", args[0])
			}
			if err := app.Profiles.Delete(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Println("Profile removed.")
			return nil
		},
	}

	return cmd
}
