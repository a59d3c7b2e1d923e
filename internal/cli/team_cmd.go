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

func newTeamCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "team",
		Short: "Manage care teams and access requests",
	}

	cmd.AddCommand(
		newTeamShowCmd(app),
		newTeamRosterCmd(app),
		newTeamInviteCmd(app),
		newTeamRequestCmd(app),
		newTeamRequestsCmd(app),
		newTeamApproveCmd(app),
		newTeamRejectCmd(app),
	)

	return cmd
}

func parseRole(raw string) (domain.MemberRole, error) {
	role := domain.MemberRole(strings.ToUpper(raw))
	switch role {
	case domain.RoleParent, domain.RoleCaregiver, domain.RoleTherapist, domain.RoleEducator, domain.RoleCoordinator:
		return role, nil
	}
	return "", fmt.Errorf("invalid role %q (use parent, caregiver, therapist, educator or coordinator)", raw)
}

func newTeamShowCmd(app *App) *cobra.Command {
	var kidID string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the team attached to a kid profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			team, err := app.Teams.GetByKid(context.Background(), kidID)
			if err != nil {
				return err
			}
			fmt.Println(formatter.Header(team.Name))
			fmt.Printf("ID:      %s\n", team.ID)
			fmt.Printf("Kid:     %s\n", team.KidProfileID)
			fmt.Printf("Created: %s\n", team.CreatedAt.Format(time.RFC3339))
			return nil
		},
	}

	cmd.Flags().StringVar(&kidID, "kid", "", "Kid profile ID")
	_ = cmd.MarkFlagRequired("kid")

	return cmd
}

func newTeamRosterCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roster <team-id>",
		Short: "List team members with their resolved user records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := app.Teams.Roster(context.Background(), args[0])
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Println("No members.")
				return nil
			}
			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{
					e.User.Name,
					e.User.Email,
					string(e.Member.Role),
					string(e.Member.Status),
				})
			}
			fmt.Println(formatter.RenderTable([]string{"NAME", "EMAIL", "ROLE", "STATUS"}, rows))
			return nil
		},
	}

	return cmd
}

func newTeamInviteCmd(app *App) *cobra.Command {
	var userID, roleFlag, invitedBy string

	cmd := &cobra.Command{
		Use:   "invite <team-id>",
		Short: "Invite a user onto a team",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			role, err := parseRole(roleFlag)
			if err != nil {
				return err
			}
			member, err := app.Teams.Invite(context.Background(), args[0], userID, role, invitedBy)
			if err != nil {
				return err
			}
			fmt.Printf("Invited user %s as %s (membership %s, status %s)\n",
				member.UserID, member.Role, member.ID, member.Status)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "User ID to invite")
	cmd.Flags().StringVar(&roleFlag, "role", string(domain.RoleCaregiver), "Member role")
	cmd.Flags().StringVar(&invitedBy, "by", "", "Inviting user ID")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func newTeamRequestCmd(app *App) *cobra.Command {
	var userID, message string

	cmd := &cobra.Command{
		Use:   "request <team-id>",
		Short: "Ask to join a team",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := app.Teams.RequestAccess(context.Background(), args[0], userID, message)
			if err != nil {
				return err
			}
			fmt.Printf("Access request %s is %s.\n", req.ID, req.Status)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "Requesting user ID")
	cmd.Flags().StringVar(&message, "message", "", "Message to the team owner")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func newTeamRequestsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "requests <team-id>",
		Short: "List pending access requests",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reqs, err := app.Teams.PendingRequests(context.Background(), args[0])
			if err != nil {
				return err
			}
			if len(reqs) == 0 {
				fmt.Println("No pending requests.")
				return nil
			}
			rows := make([][]string, 0, len(reqs))
			for _, r := range reqs {
				rows = append(rows, []string{
					r.ID,
					r.UserID,
					r.Message,
					r.CreatedAt.Format("2006-01-02"),
				})
			}
			fmt.Println(formatter.RenderTable([]string{"REQUEST", "USER", "MESSAGE", "ASKED"}, rows))
			return nil
		},
	}

	return cmd
}

func newTeamApproveCmd(app *App) *cobra.Command {
	var roleFlag, decidedBy string

	cmd := &cobra.Command{
		Use:   "approve <request-id>",
		Short: "Approve an access request, creating an active membership",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			role, err := parseRole(roleFlag)
			if err != nil {
				return err
			}
			member, err := app.Teams.Approve(context.Background(), args[0], role, decidedBy)
			if err != nil {
				return err
			}
			fmt.Printf("Approved. User %s joined team %s as %s.\n", member.UserID, member.TeamID, member.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&roleFlag, "role", string(domain.RoleCaregiver), "Role to grant")
	cmd.Flags().StringVar(&decidedBy, "by", "", "Deciding user ID")

	return cmd
}

func newTeamRejectCmd(app *App) *cobra.Command {
	var decidedBy string

	cmd := &cobra.Command{
		Use:   "reject <request-id>",
		Short: "Reject an access request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Teams.Reject(context.Background(), args[0], decidedBy); err != nil {
				return err
			}
			fmt.Println("Request rejected.")
			return nil
		},
	}

	cmd.Flags().StringVar(&decidedBy, "by", "", "Deciding user ID")

	return cmd
}
