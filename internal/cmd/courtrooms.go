package cmd

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/courtdesk/internal/api"
)

var courtroomsCmd = &cobra.Command{
	Use:   "courtrooms",
	Short: "Show and update live court room status",
}

var courtroomsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List court rooms",
	Args:  cobra.NoArgs,
	RunE:  runCourtroomsList,
}

var courtroomsUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Change what a court room is hearing (court only)",
	Args:  cobra.ExactArgs(1),
	RunE:  runCourtroomsUpdate,
}

var (
	courtroomsStatus string
	courtroomUpdate  api.CourtroomUpdate
)

func init() {
	courtroomsListCmd.Flags().StringVar(&courtroomsStatus, "status", "", "in-session, recess or available")

	f := courtroomsUpdateCmd.Flags()
	f.StringVar(&courtroomUpdate.Status, "status", "", "in-session, recess or available")
	f.StringVar(&courtroomUpdate.Judge, "judge", "", "presiding judge")
	f.StringVar(&courtroomUpdate.CurrentCase, "case", "", "case number being heard")
	f.StringVar(&courtroomUpdate.CaseTitle, "case-title", "", "title of the case being heard")
	f.StringVar(&courtroomUpdate.StartTime, "start", "", "session start time")
	f.StringVar(&courtroomUpdate.Type, "type", "", "hearing type")

	courtroomsCmd.AddCommand(courtroomsListCmd, courtroomsUpdateCmd)
	rootCmd.AddCommand(courtroomsCmd)
}

func runCourtroomsList(cmd *cobra.Command, args []string) error {
	return withSession(cmd, func(ctx context.Context, a *app) error {
		rooms, err := a.client.ListCourtrooms(ctx, courtroomsStatus)
		if err != nil {
			return err
		}
		return render(cmd, courtroomList(rooms))
	})
}

func runCourtroomsUpdate(cmd *cobra.Command, args []string) error {
	id, err := parseNumber("court room", args[0])
	if err != nil {
		return err
	}
	if courtroomUpdate == (api.CourtroomUpdate{}) {
		return fmt.Errorf("invalid argument: nothing to update, pass at least one of --status, --judge, --case, --case-title, --start, --type")
	}
	return withSession(cmd, func(ctx context.Context, a *app) error {
		room, err := a.client.UpdateCourtroom(ctx, id, courtroomUpdate)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s is %s\n", room.Name, room.Status)
		return nil
	})
}

type courtroomList []api.Courtroom

func (rooms courtroomList) RenderText(w io.Writer) error {
	if len(rooms) == 0 {
		_, err := fmt.Fprintln(w, "No court rooms")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSTATUS\tJUDGE\tCASE\tSINCE")
	for _, r := range rooms {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", r.ID, r.Name, r.Status, r.Judge, r.CurrentCase, r.StartTime)
	}
	return tw.Flush()
}
