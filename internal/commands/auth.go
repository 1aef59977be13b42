package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/feelog/internal/db"
)

var (
	authEmail    string
	authName     string
	authPassword string
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and log in",
	Long: `Create an account on the journal server and log in with it.
Missing values are asked for interactively.`,
	Args: cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
		p := newPrompter(cmd)
		email, err := valueOrPrompt(p, authEmail, "Email", false)
		if err != nil {
			return err
		}
		name, err := valueOrPrompt(p, authName, "Name", false)
		if err != nil {
			return err
		}
		password, err := valueOrPrompt(p, authPassword, "Password", true)
		if err != nil {
			return err
		}
		if err := checkCredentials(email, password); err != nil {
			return err
		}
		if strings.TrimSpace(name) == "" {
			return errors.New("name is required")
		}

		if err := a.client.Register(ctx, email, name, password); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Account created for %s\n", email)

		auth, err := a.client.Login(ctx, email, password)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "👋 Welcome, %s!\n", auth.User.Name)
		printDraftHint(cmd.OutOrStdout(), a.drafts)
		return nil
	}),
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the journal server",
	Args:  cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
		p := newPrompter(cmd)
		email, err := valueOrPrompt(p, authEmail, "Email", false)
		if err != nil {
			return err
		}
		password, err := valueOrPrompt(p, authPassword, "Password", true)
		if err != nil {
			return err
		}
		if err := checkCredentials(email, password); err != nil {
			return err
		}

		auth, err := a.client.Login(ctx, email, password)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "👋 Logged in as %s <%s>\n", auth.User.Name, auth.User.Email)
		printDraftHint(cmd.OutOrStdout(), a.drafts)
		return nil
	}),
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	Args:  cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
		if !a.session.IsAuthenticated() {
			fmt.Fprintln(cmd.OutOrStdout(), "You are not logged in.")
			return nil
		}
		a.client.Logout()
		fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
		return nil
	}),
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in account",
	Args:  cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
		if err := a.requireLogin(); err != nil {
			return err
		}

		user, err := a.client.Me(ctx)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Name:   %s\n", user.Name)
		fmt.Fprintf(out, "Email:  %s\n", user.Email)
		if user.Role != "" {
			fmt.Fprintf(out, "Role:   %s\n", user.Role)
		}
		fmt.Fprintf(out, "Server: %s\n", a.client.BaseURL())
		if exp, ok := a.session.ExpiresAt(); ok {
			fmt.Fprintf(out, "Token:  valid until %s\n", exp.Local().Format(time.DateTime))
		}
		return nil
	}),
}

func valueOrPrompt(p *prompter, value, label string, secret bool) (string, error) {
	if value != "" {
		return value, nil
	}
	return p.ask(label, secret)
}

func checkCredentials(email, password string) error {
	if !strings.Contains(email, "@") {
		return errors.New("a valid email is required")
	}
	if password == "" {
		return errors.New("password is required")
	}
	return nil
}

func printDraftHint(out io.Writer, drafts *db.Drafts) {
	count, err := drafts.Count()
	if err != nil || count == 0 {
		return
	}
	fmt.Fprintf(out, "📝 You have %d local draft(s). Run 'feelog push' to upload them.\n", count)
}

func init() {
	for _, cmd := range []*cobra.Command{registerCmd, loginCmd} {
		cmd.Flags().StringVar(&authEmail, "email", "", "Account email")
		cmd.Flags().StringVar(&authPassword, "password", "", "Account password (prompted when omitted)")
	}
	registerCmd.Flags().StringVar(&authName, "name", "", "Display name")
}
