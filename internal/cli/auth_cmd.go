package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var errLocalMode = errors.New("auth commands need a remote backend; set TINYWINS_MODE=remote")

func newAuthCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Sign in and out of the remote backend",
	}

	cmd.AddCommand(
		newAuthSignupCmd(app),
		newAuthLoginCmd(app),
		newAuthLogoutCmd(app),
		newAuthWhoamiCmd(app),
	)

	return cmd
}

func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func newAuthSignupCmd(app *App) *cobra.Command {
	var email, name string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Register a new account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Auth == nil {
				return errLocalMode
			}
			password, err := readPassword("Password: ")
			if err != nil {
				return err
			}
			user, err := app.Auth.SignUp(context.Background(), email, password, name)
			if err != nil {
				return err
			}
			fmt.Printf("Registered %s (%s). Sign in with: tinywins auth login\n", user.Email, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func newAuthLoginCmd(app *App) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and hold a session for this process",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Auth == nil {
				return errLocalMode
			}
			password, err := readPassword("Password: ")
			if err != nil {
				return err
			}
			sess, err := app.Auth.SignIn(context.Background(), email, password)
			if err != nil {
				return err
			}
			if sess.ExpiresAt.IsZero() {
				fmt.Println("Signed in.")
			} else {
				fmt.Printf("Signed in. Session expires %s.\n", sess.ExpiresAt.Format(time.RFC3339))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func newAuthLogoutCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Sign out",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Auth == nil {
				return errLocalMode
			}
			if err := app.Auth.SignOut(context.Background()); err != nil {
				return err
			}
			fmt.Println("Signed out.")
			return nil
		},
	}

	return cmd
}

func newAuthWhoamiCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Auth == nil {
				return errLocalMode
			}
			user, err := app.Auth.CurrentUser(context.Background())
			if err != nil {
				return err
			}
			fmt.Printf("%s <%s> (%s)\n", user.Name, user.Email, user.Role)
			return nil
		},
	}

	return cmd
}
