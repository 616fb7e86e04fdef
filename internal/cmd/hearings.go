package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/courtdesk/internal/api"
)

var hearingsCmd = &cobra.Command{
	Use:   "hearings",
	Short: "List and schedule hearings",
}

var hearingsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List hearings, optionally for one case",
	Args:  cobra.NoArgs,
	RunE:  runHearingsList,
}

var hearingsCalendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Show hearings as calendar events",
	Args:  cobra.NoArgs,
	RunE:  runHearingsCalendar,
}

var hearingsScheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Schedule a hearing for a case",
	Example: `  courtdesk hearings schedule --case CASE-2024-001 --date 2024-07-01 \
    --type Arguments --start 2024-07-01T10:30:00 --location "Court Room 3"`,
	Args: cobra.NoArgs,
	RunE: runHearingsSchedule,
}

var hearingsUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Reschedule a hearing or change its status",
	Args:  cobra.ExactArgs(1),
	RunE:  runHearingsUpdate,
}

var hearingsCancelCmd = &cobra.Command{
	Use:   "cancel <id>",
	Short: "Delete a hearing",
	Args:  cobra.ExactArgs(1),
	RunE:  runHearingsCancel,
}

var (
	hearingsCase  string
	hearingInput  api.HearingInput
	hearingCaseID string
)

func init() {
	hearingsListCmd.Flags().StringVar(&hearingsCase, "case", "", "only hearings of this case")

	for _, c := range []*cobra.Command{hearingsScheduleCmd, hearingsUpdateCmd} {
		f := c.Flags()
		f.StringVar(&hearingInput.Date, "date", "", "hearing date (YYYY-MM-DD)")
		f.StringVar(&hearingInput.Type, "type", "", "hearing type")
		f.StringVar(&hearingInput.StartTime, "start", "", "start time (ISO 8601)")
		f.StringVar(&hearingInput.EndTime, "end", "", "end time (ISO 8601)")
		f.StringVar(&hearingInput.Location, "location", "", "court room")
		f.StringVar(&hearingInput.Notes, "notes", "", "notes")
	}
	hearingsScheduleCmd.Flags().StringVar(&hearingCaseID, "case", "", "case to schedule the hearing for")
	_ = hearingsScheduleCmd.MarkFlagRequired("case")
	_ = hearingsScheduleCmd.MarkFlagRequired("date")
	hearingsUpdateCmd.Flags().StringVar(&hearingInput.Status, "status", "", "scheduled, completed, adjourned or cancelled")

	hearingsCmd.AddCommand(hearingsListCmd, hearingsCalendarCmd, hearingsScheduleCmd, hearingsUpdateCmd, hearingsCancelCmd)
	rootCmd.AddCommand(hearingsCmd)
}

// parseNumber parses the plain numeric ids of hearings, contacts and
// courtrooms.
func parseNumber(what, ref string) (int64, error) {
	id, err := strconv.ParseInt(ref, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid argument %q: %s id must be a positive number", ref, what)
	}
	return id, nil
}

// optionalCase resolves ref when it is set.
func optionalCase(ctx context.Context, a *app, ref string) (int64, error) {
	if ref == "" {
		return 0, nil
	}
	return resolveCase(ctx, a, ref)
}

func runHearingsList(cmd *cobra.Command, args []string) error {
	return withSession(cmd, func(ctx context.Context, a *app) error {
		caseID, err := optionalCase(ctx, a, hearingsCase)
		if err != nil {
			return err
		}
		hearings, err := a.client.ListHearings(ctx, caseID)
		if err != nil {
			return err
		}
		return render(cmd, hearingList(hearings))
	})
}

func runHearingsCalendar(cmd *cobra.Command, args []string) error {
	return withSession(cmd, func(ctx context.Context, a *app) error {
		events, err := a.client.Calendar(ctx)
		if err != nil {
			return err
		}
		return render(cmd, calendar(events))
	})
}

func runHearingsSchedule(cmd *cobra.Command, args []string) error {
	return withSession(cmd, func(ctx context.Context, a *app) error {
		caseID, err := resolveCase(ctx, a, hearingCaseID)
		if err != nil {
			return err
		}
		in := hearingInput
		in.CaseID = caseID
		h, err := a.client.CreateHearing(ctx, in)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Scheduled hearing %d on %s\n", h.ID, h.Date)
		return nil
	})
}

func runHearingsUpdate(cmd *cobra.Command, args []string) error {
	id, err := parseNumber("hearing", args[0])
	if err != nil {
		return err
	}
	return withSession(cmd, func(ctx context.Context, a *app) error {
		h, err := a.client.UpdateHearing(ctx, id, hearingInput)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Updated hearing %d: %s %s\n", h.ID, h.Date, h.Status)
		return nil
	})
}

func runHearingsCancel(cmd *cobra.Command, args []string) error {
	id, err := parseNumber("hearing", args[0])
	if err != nil {
		return err
	}
	return withSession(cmd, func(ctx context.Context, a *app) error {
		if err := a.client.DeleteHearing(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Cancelled hearing %d\n", id)
		return nil
	})
}

type hearingList []api.Hearing

func (hs hearingList) RenderText(w io.Writer) error {
	if len(hs) == 0 {
		_, err := fmt.Fprintln(w, "No hearings found")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCASE\tDATE\tSTART\tTYPE\tSTATUS\tLOCATION")
	for _, h := range hs {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\t%s\t%s\n", h.ID, h.CaseID, h.Date, h.StartTime, h.Type, h.Status, h.Location)
	}
	return tw.Flush()
}

type calendar []api.CalendarEvent

func (events calendar) RenderText(w io.Writer) error {
	if len(events) == 0 {
		_, err := fmt.Fprintln(w, "Nothing scheduled")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, e := range events {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Start, e.Title, e.Type, e.Location)
	}
	return tw.Flush()
}
