package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/courtdesk/internal/api"
)

var notesCmd = &cobra.Command{
	Use:   "notes",
	Short: "Keep private notes on cases",
}

var notesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes, most recently edited first",
	Args:  cobra.NoArgs,
	RunE:  runNotesList,
}

var notesAddCmd = &cobra.Command{
	Use:   "add <text>",
	Short: "Add a note to a case",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runNotesAdd,
}

var notesEditCmd = &cobra.Command{
	Use:   "edit <note> <text>",
	Short: "Replace a note's text",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runNotesEdit,
}

var notesDeleteCmd = &cobra.Command{
	Use:   "delete <note>",
	Short: "Delete a note",
	Args:  cobra.ExactArgs(1),
	RunE:  runNotesDelete,
}

var notesCase string

func init() {
	notesListCmd.Flags().StringVar(&notesCase, "case", "", "only notes of this case")
	notesAddCmd.Flags().StringVar(&notesCase, "case", "", "case the note belongs to")
	_ = notesAddCmd.MarkFlagRequired("case")

	notesCmd.AddCommand(notesListCmd, notesAddCmd, notesEditCmd, notesDeleteCmd)
	rootCmd.AddCommand(notesCmd)
}

func runNotesList(cmd *cobra.Command, args []string) error {
	return withSession(cmd, func(ctx context.Context, a *app) error {
		caseID, err := optionalCase(ctx, a, notesCase)
		if err != nil {
			return err
		}
		notes, err := a.client.ListNotes(ctx, caseID)
		if err != nil {
			return err
		}
		return render(cmd, noteList(notes))
	})
}

func runNotesAdd(cmd *cobra.Command, args []string) error {
	return withSession(cmd, func(ctx context.Context, a *app) error {
		caseID, err := resolveCase(ctx, a, notesCase)
		if err != nil {
			return err
		}
		n, err := a.client.CreateNote(ctx, api.NoteInput{CaseID: caseID, Content: strings.Join(args, " ")})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added %s\n", n.ID)
		return nil
	})
}

func runNotesEdit(cmd *cobra.Command, args []string) error {
	id, err := parseRef(api.NotePrefix, args[0])
	if err != nil {
		return err
	}
	return withSession(cmd, func(ctx context.Context, a *app) error {
		n, err := a.client.UpdateNote(ctx, id, strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", n.ID)
		return nil
	})
}

func runNotesDelete(cmd *cobra.Command, args []string) error {
	id, err := parseRef(api.NotePrefix, args[0])
	if err != nil {
		return err
	}
	return withSession(cmd, func(ctx context.Context, a *app) error {
		if err := a.client.DeleteNote(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted note %s\n", args[0])
		return nil
	})
}

type noteList []api.Note

func (notes noteList) RenderText(w io.Writer) error {
	if len(notes) == 0 {
		_, err := fmt.Fprintln(w, "No notes")
		return err
	}
	for i, n := range notes {
		if i > 0 {
			fmt.Fprintln(w)
		}
		stamp := n.UpdatedAt
		if stamp == "" {
			stamp = n.CreatedAt
		}
		fmt.Fprintf(w, "%s  case %d  %s\n", n.ID, n.CaseID, stamp)
		fmt.Fprintf(w, "  %s\n", n.Content)
	}
	return nil
}
