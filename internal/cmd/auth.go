package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/courtdesk/internal/errors"
	"github.com/felixgeelhaar/courtdesk/internal/portal"
	"github.com/felixgeelhaar/courtdesk/internal/session"
	"github.com/felixgeelhaar/courtdesk/internal/tui"
	"github.com/felixgeelhaar/courtdesk/internal/ux"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and start a session",
	Long: `Sign in against the backend and persist the session.

Without --email or --password the missing values are prompted for when
running in a terminal.

Example:
  courtdesk login --email advocate@example.com`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the current session",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	Long: `Show the signed-in user and role. With --claims the bearer token's
claims are decoded as well; the signature is not verified.`,
	Args: cobra.NoArgs,
	RunE: runWhoami,
}

var (
	loginEmail    string
	loginPassword string
	whoamiClaims  bool
)

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "account password")

	whoamiCmd.Flags().BoolVar(&whoamiClaims, "claims", false, "include the token claims")

	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	creds := tui.Credentials{Email: loginEmail, Password: loginPassword}
	if creds.Email == "" || creds.Password == "" {
		if !tui.ShouldPrompt() {
			return errors.New(errors.ErrCodeSessionNoToken, "email and password are required").
				WithSuggestion("Pass --email and --password when not running in a terminal")
		}
		var err error
		if creds, err = tui.PromptLogin(creds); err != nil {
			return err
		}
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	view, err := a.portal.Login(cmd.Context(), creds.Email, creds.Password)
	if err != nil {
		printToasts(cmd.ErrOrStderr(), view)
		return err
	}
	printToasts(cmd.OutOrStdout(), view)

	u := view.User
	fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (%s)\n", u.DisplayName(), u.Role.Label())
	fmt.Fprintf(cmd.OutOrStdout(), "Home: %s\n", view.Path)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if !a.store.IsAuthenticated() {
		fmt.Fprintln(cmd.OutOrStdout(), "Not signed in")
		return nil
	}
	view, err := a.portal.Logout(cmd.Context())
	if err != nil {
		return err
	}
	printToasts(cmd.OutOrStdout(), view)
	return nil
}

type whoamiOutput struct {
	User   *session.User   `json:"user" yaml:"user"`
	Portal string          `json:"portal" yaml:"portal"`
	Home   string          `json:"home" yaml:"home"`
	Claims *session.Claims `json:"claims,omitempty" yaml:"claims,omitempty"`
}

func runWhoami(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	u, err := a.requireSession()
	if err != nil {
		return err
	}

	out := whoamiOutput{User: u, Portal: u.Role.Label(), Home: u.Role.Home()}
	if whoamiClaims {
		claims, err := session.TokenClaims(a.store.Token())
		if err != nil {
			return err
		}
		out.Claims = &claims
	}

	return render(cmd, out)
}

func (o whoamiOutput) RenderText(w io.Writer) error {
	fmt.Fprintf(w, "%s <%s>\n", o.User.DisplayName(), o.User.Email)
	fmt.Fprintf(w, "Portal: %s (%s)\n", o.Portal, o.Home)
	if o.Claims != nil {
		fmt.Fprintf(w, "Subject: %s\n", o.Claims.Subject)
		if !o.Claims.ExpiresAt.IsZero() {
			fmt.Fprintf(w, "Expires: %s\n", o.Claims.ExpiresAt.Format("2006-01-02 15:04:05 MST"))
		}
	}
	return nil
}

// printToasts writes the toasts a portal call produced.
func printToasts(w io.Writer, v portal.View) {
	for _, t := range v.Toasts {
		switch {
		case t.Title != "" && t.Message != "":
			fmt.Fprintf(w, "[%s] %s: %s\n", t.Severity, t.Title, t.Message)
		case t.Title != "":
			fmt.Fprintf(w, "[%s] %s\n", t.Severity, t.Title)
		default:
			fmt.Fprintf(w, "[%s] %s\n", t.Severity, t.Message)
		}
	}
}

// render writes a command result in the format chosen with --output.
func render(cmd *cobra.Command, data any) error {
	f, err := ux.NewFormatter(outputFormat, &ux.FormatterOptions{Writer: cmd.OutOrStdout()})
	if err != nil {
		return err
	}
	return f.Format(data)
}
