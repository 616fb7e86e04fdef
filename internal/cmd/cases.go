package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/courtdesk/internal/api"
	"github.com/felixgeelhaar/courtdesk/internal/tui"
)

var casesCmd = &cobra.Command{
	Use:   "cases",
	Short: "Browse cases visible to the signed-in user",
}

var casesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cases",
	Args:  cobra.NoArgs,
	RunE:  runCasesList,
}

var casesGetCmd = &cobra.Command{
	Use:   "get <case>",
	Short: "Show one case with its hearings and timeline",
	Long: `Show one case. The case may be given by its id as printed by
'cases list' (CASE-2024-001), its database id (1) or its case number
(CIV-2024-1842).`,
	Args: cobra.ExactArgs(1),
	RunE: runCasesGet,
}

var casesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "File a new case",
	Example: `  courtdesk cases create --number CIV-2024-1901 --title "Rao v. Shah" \
    --type Civil --petitioner "Anil Rao" --respondent "Kiran Shah"`,
	Args: cobra.NoArgs,
	RunE: runCasesCreate,
}

var casesQRCmd = &cobra.Command{
	Use:   "qr <case-number>",
	Short: "Look up a case by the number printed in its QR code",
	Args:  cobra.ExactArgs(1),
	RunE:  runCasesQR,
}

var casesUpdateCmd = &cobra.Command{
	Use:   "update <case>",
	Short: "Change a case's status, priority, judge or court room",
	Args:  cobra.ExactArgs(1),
	RunE:  runCasesUpdate,
}

var casesSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search cases by number, title or party",
	Args:  cobra.ExactArgs(1),
	RunE:  runCasesSearch,
}

var casesDeleteCmd = &cobra.Command{
	Use:   "delete <case>",
	Short: "Delete a case (court only)",
	Args:  cobra.ExactArgs(1),
	RunE:  runCasesDelete,
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show the dashboard counters for the signed-in role",
	Args:  cobra.NoArgs,
	RunE:  runDashboard,
}

var (
	casesStatus   string
	casesType     string
	casesPriority string
	casesYes      bool
	caseUpdate    api.CaseInput
	caseNew       api.CaseInput
)

func init() {
	casesListCmd.Flags().StringVar(&casesStatus, "status", "", "filter by status")
	casesListCmd.Flags().StringVar(&casesType, "type", "", "filter by case type")
	casesListCmd.Flags().StringVar(&casesPriority, "priority", "", "filter by priority")
	casesDeleteCmd.Flags().BoolVarP(&casesYes, "yes", "y", false, "skip the confirmation prompt")

	f := casesUpdateCmd.Flags()
	f.StringVar(&caseUpdate.Title, "title", "", "new title")
	f.StringVar(&caseUpdate.Status, "status", "", "new status")
	f.StringVar(&caseUpdate.Priority, "priority", "", "new priority")
	f.StringVar(&caseUpdate.Judge, "judge", "", "presiding judge")
	f.StringVar(&caseUpdate.CourtRoom, "court-room", "", "court room name")

	f = casesCreateCmd.Flags()
	f.StringVar(&caseNew.CaseNumber, "number", "", "case number")
	f.StringVar(&caseNew.Title, "title", "", "case title")
	f.StringVar(&caseNew.CaseType, "type", "", "case type")
	f.StringVar(&caseNew.Description, "description", "", "short description")
	f.StringVar(&caseNew.Priority, "priority", "medium", "low, medium or high")
	f.StringVar(&caseNew.Petitioner, "petitioner", "", "petitioner name")
	f.StringVar(&caseNew.Respondent, "respondent", "", "respondent name")
	f.Int64Var(&caseNew.AdvocateID, "advocate-id", 0, "advocate representing the petitioner")
	for _, name := range []string{"number", "title", "type"} {
		_ = casesCreateCmd.MarkFlagRequired(name)
	}

	casesCmd.AddCommand(casesListCmd, casesGetCmd, casesSearchCmd, casesQRCmd, casesCreateCmd, casesUpdateCmd, casesDeleteCmd)
	rootCmd.AddCommand(casesCmd, dashboardCmd)
}

// signedIn opens the app and fails unless a session is active.
func signedIn(cmd *cobra.Command) (*app, error) {
	a, err := openApp(cmd)
	if err != nil {
		return nil, err
	}
	if _, err := a.requireSession(); err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

// afterCall prints whatever toasts a failed call left, such as the session
// expiry notice after a 401.
func afterCall(cmd *cobra.Command, a *app, err error) error {
	if err != nil {
		printToasts(cmd.ErrOrStderr(), a.portal.Current())
	}
	return err
}

// withSession runs fn against a signed-in app.
func withSession(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	a, err := signedIn(cmd)
	if err != nil {
		return err
	}
	defer a.Close()
	return afterCall(cmd, a, fn(cmd.Context(), a))
}

// parseRef turns a bare number or a display id such as TASK-007 into the
// database id the backend routes take.
func parseRef(prefix, ref string) (int64, error) {
	id, ok := api.ParseID(prefix, ref)
	if !ok {
		return 0, fmt.Errorf("invalid argument %q: expected a number or an id like %s-001", ref, prefix)
	}
	return id, nil
}

// resolveCase turns a case id, display id or case number into the database
// id. Case numbers are resolved through the QR lookup.
func resolveCase(ctx context.Context, a *app, ref string) (int64, error) {
	if id, ok := api.ParseID(api.CasePrefix, ref); ok {
		return id, nil
	}
	if looksLikeCaseID(ref) {
		return 0, fmt.Errorf("invalid argument %q: case id must be a positive number", ref)
	}
	c, err := a.client.QRLookup(ctx, ref)
	if err != nil {
		return 0, err
	}
	id, ok := c.DatabaseID()
	if !ok {
		return 0, fmt.Errorf("case %s has no usable id (%q)", ref, c.ID)
	}
	return id, nil
}

func looksLikeCaseID(ref string) bool {
	head, _, _ := strings.Cut(strings.TrimSpace(ref), "-")
	return strings.EqualFold(head, api.CasePrefix) || strings.TrimLeft(ref, "-0123456789") == ""
}

func runCasesList(cmd *cobra.Command, args []string) error {
	return withSession(cmd, func(ctx context.Context, a *app) error {
		cases, err := a.client.ListCases(ctx, api.CaseFilter{
			Status:   casesStatus,
			Type:     casesType,
			Priority: casesPriority,
		})
		if err != nil {
			return err
		}
		return render(cmd, caseList(cases))
	})
}

func runCasesSearch(cmd *cobra.Command, args []string) error {
	return withSession(cmd, func(ctx context.Context, a *app) error {
		cases, err := a.client.SearchCases(ctx, args[0])
		if err != nil {
			return err
		}
		return render(cmd, caseList(cases))
	})
}

func runCasesGet(cmd *cobra.Command, args []string) error {
	return withSession(cmd, func(ctx context.Context, a *app) error {
		id, err := resolveCase(ctx, a, args[0])
		if err != nil {
			return err
		}
		c, err := a.client.GetCase(ctx, id)
		if err != nil {
			return err
		}
		return render(cmd, caseDetail{*c})
	})
}

func runCasesQR(cmd *cobra.Command, args []string) error {
	return withSession(cmd, func(ctx context.Context, a *app) error {
		c, err := a.client.QRLookup(ctx, args[0])
		if err != nil {
			return err
		}
		return render(cmd, caseDetail{*c})
	})
}

func runCasesCreate(cmd *cobra.Command, args []string) error {
	return withSession(cmd, func(ctx context.Context, a *app) error {
		c, err := a.client.CreateCase(ctx, caseNew)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Filed %s (%s)\n", c.ID, c.CaseNumber)
		return nil
	})
}

func runCasesUpdate(cmd *cobra.Command, args []string) error {
	if caseUpdate == (api.CaseInput{}) {
		return fmt.Errorf("invalid argument: nothing to update, pass at least one of --title, --status, --priority, --judge, --court-room")
	}
	return withSession(cmd, func(ctx context.Context, a *app) error {
		id, err := resolveCase(ctx, a, args[0])
		if err != nil {
			return err
		}
		c, err := a.client.UpdateCase(ctx, id, caseUpdate)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Updated %s (%s)\n", c.ID, c.Status)
		return nil
	})
}

// caseDetail is one case with its hearings and timeline.
type caseDetail struct {
	api.Case `yaml:",inline"`
}

func (d caseDetail) RenderText(w io.Writer) error {
	c := d.Case
	fmt.Fprintf(w, "%s  %s\n", c.CaseNumber, c.Title)
	fmt.Fprintf(w, "Status: %s  Priority: %s  Type: %s\n", c.Status, c.Priority, c.CaseType)
	fmt.Fprintf(w, "Parties: %s v. %s\n", c.Petitioner, c.Respondent)
	if c.Judge != "" {
		fmt.Fprintf(w, "Judge: %s  Court room: %s\n", c.Judge, c.CourtRoom)
	}
	if c.Advocate != nil {
		fmt.Fprintf(w, "Advocate: %s\n", c.Advocate.Name)
	}
	if len(c.Hearings) > 0 {
		fmt.Fprintln(w, "\nHearings:")
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, h := range c.Hearings {
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", h.Date, h.StartTime, h.Type, h.Status)
		}
		_ = tw.Flush()
	}
	if len(c.Timeline) > 0 {
		fmt.Fprintln(w, "\nTimeline:")
		for _, e := range c.Timeline {
			fmt.Fprintf(w, "  %s  %s  %s\n", e.Date, e.Event, e.Description)
		}
	}
	return nil
}

func runCasesDelete(cmd *cobra.Command, args []string) error {
	ref := args[0]
	if !casesYes {
		if !tui.ShouldPrompt() {
			return fmt.Errorf("refusing to delete case %s without --yes", ref)
		}
		ok, err := tui.PromptForConfirmation(fmt.Sprintf("Delete case %s?", ref), false)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "Aborted")
			return nil
		}
	}

	return withSession(cmd, func(ctx context.Context, a *app) error {
		id, err := resolveCase(ctx, a, ref)
		if err != nil {
			return err
		}
		if err := a.client.DeleteCase(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted case %s\n", ref)
		return nil
	})
}

func runDashboard(cmd *cobra.Command, args []string) error {
	return withSession(cmd, func(ctx context.Context, a *app) error {
		stats, err := a.client.Dashboard(ctx)
		if err != nil {
			return err
		}
		return render(cmd, dashboardOutput{*stats})
	})
}

// dashboardOutput shows only the counters the role's dashboard carries.
type dashboardOutput struct {
	api.DashboardStats `yaml:",inline"`
}

func (d dashboardOutput) RenderText(w io.Writer) error {
	stats := d.DashboardStats
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, row := range []struct {
		label string
		value int
	}{
		{"Total cases", stats.TotalCases},
		{"Pending cases", stats.PendingCases},
		{"Closed cases", stats.ClosedCases},
		{"Dismissed cases", stats.DismissedCases},
		{"Active cases", stats.ActiveCases},
		{"Advocates", stats.AdvocatesCount},
		{"Today's hearings", stats.TodayHearings},
		{"Pending tasks", stats.PendingTasks},
		{"Evidence", stats.EvidenceCount},
		{"Documents", stats.Documents},
	} {
		if row.value != 0 {
			fmt.Fprintf(tw, "%s\t%d\n", row.label, row.value)
		}
	}
	if h := stats.NextHearing; h != nil {
		fmt.Fprintf(tw, "Next hearing\t%s %s\n", h.Date, h.Type)
	}
	return tw.Flush()
}

// caseList is a table of cases.
type caseList []api.Case

func (cases caseList) RenderText(w io.Writer) error {
	if len(cases) == 0 {
		_, err := fmt.Fprintln(w, "No cases found")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNUMBER\tTITLE\tSTATUS\tPRIORITY\tNEXT HEARING")
	for _, c := range cases {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", c.ID, c.CaseNumber, c.Title, c.Status, c.Priority, c.NextHearing)
	}
	return tw.Flush()
}
