package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/courtdesk/internal/api"
	"github.com/felixgeelhaar/courtdesk/internal/session"
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and sign in",
	Long: `Create an account and start a session with it.

Public users may pass --citizen-id, advocates --bar-council-id,
--specialization and --experience, and court staff --court-name.`,
	Example: `  courtdesk register --name "Meera Iyer" --email meera@example.com \
    --password s3cret --role advocate --bar-council-id D/123/2015`,
	Args: cobra.NoArgs,
	RunE: runRegister,
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show your profile as the backend has it",
	Args:  cobra.NoArgs,
	RunE:  runProfile,
}

var profileUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Change your profile",
	Args:  cobra.NoArgs,
	RunE:  runProfileUpdate,
}

var passwordCmd = &cobra.Command{
	Use:   "password",
	Short: "Change your password",
	Args:  cobra.NoArgs,
	RunE:  runPassword,
}

var (
	registration    api.RegisterRequest
	profileChanges  api.ProfileUpdate
	currentPassword string
	newPassword     string
)

func init() {
	f := registerCmd.Flags()
	f.StringVar(&registration.Name, "name", "", "full name")
	f.StringVar(&registration.Email, "email", "", "account email")
	f.StringVar(&registration.Password, "password", "", "account password")
	f.StringVar(&registration.Role, "role", "public", "public, advocate or court")
	f.StringVar(&registration.Phone, "phone", "", "phone number")
	f.StringVar(&registration.CitizenID, "citizen-id", "", "citizen id (public)")
	f.StringVar(&registration.BarCouncilID, "bar-council-id", "", "bar council enrolment (advocate)")
	f.StringVar(&registration.Specialization, "specialization", "", "practice area (advocate)")
	f.StringVar(&registration.Experience, "experience", "", "years of practice (advocate)")
	f.StringVar(&registration.CourtName, "court-name", "", "court (court staff)")
	for _, name := range []string{"name", "email", "password"} {
		_ = registerCmd.MarkFlagRequired(name)
	}

	f = profileUpdateCmd.Flags()
	f.StringVar(&profileChanges.Name, "name", "", "full name")
	f.StringVar(&profileChanges.Phone, "phone", "", "phone number")
	f.StringVar(&profileChanges.Avatar, "avatar", "", "avatar URL")
	f.StringVar(&profileChanges.Specialization, "specialization", "", "practice area")
	f.StringVar(&profileChanges.Experience, "experience", "", "years of practice")
	f.StringVar(&profileChanges.CourtName, "court-name", "", "court")

	passwordCmd.Flags().StringVar(&currentPassword, "current", "", "current password")
	passwordCmd.Flags().StringVar(&newPassword, "new", "", "new password")
	_ = passwordCmd.MarkFlagRequired("current")
	_ = passwordCmd.MarkFlagRequired("new")

	profileCmd.AddCommand(profileUpdateCmd)
	rootCmd.AddCommand(registerCmd, profileCmd, passwordCmd)
}

func runRegister(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	view, err := a.portal.Register(cmd.Context(), registration)
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

func runProfile(cmd *cobra.Command, args []string) error {
	return withSession(cmd, func(ctx context.Context, a *app) error {
		u, err := a.client.Profile(ctx)
		if err != nil {
			return err
		}
		return render(cmd, profileOutput{*u})
	})
}

func runProfileUpdate(cmd *cobra.Command, args []string) error {
	if profileChanges == (api.ProfileUpdate{}) {
		return fmt.Errorf("invalid argument: nothing to update")
	}
	return withSession(cmd, func(ctx context.Context, a *app) error {
		u, err := a.client.UpdateProfile(ctx, profileChanges)
		if err != nil {
			return err
		}
		return render(cmd, profileOutput{*u})
	})
}

func runPassword(cmd *cobra.Command, args []string) error {
	if currentPassword == newPassword {
		return fmt.Errorf("invalid argument: the new password must differ from the current one")
	}
	return withSession(cmd, func(ctx context.Context, a *app) error {
		if err := a.client.ChangePassword(ctx, currentPassword, newPassword); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Password changed")
		return nil
	})
}

type profileOutput struct {
	session.User `yaml:",inline"`
}

func (o profileOutput) RenderText(w io.Writer) error {
	u := o.User
	fmt.Fprintf(w, "%s <%s>\n", u.DisplayName(), u.Email)
	fmt.Fprintf(w, "Role: %s\n", u.Role.Label())
	for _, row := range []struct{ label, value string }{
		{"Phone", u.Phone},
		{"Citizen ID", u.CitizenID},
		{"Bar council ID", u.BarCouncilID},
		{"Specialization", u.Specialization},
		{"Experience", u.Experience},
		{"Court", u.CourtName},
	} {
		if row.value != "" {
			fmt.Fprintf(w, "%s: %s\n", row.label, row.value)
		}
	}
	return nil
}
