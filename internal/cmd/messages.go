package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/courtdesk/internal/api"
)

var messagesCmd = &cobra.Command{
	Use:   "messages",
	Short: "Read and send direct messages",
}

var messagesContactsCmd = &cobra.Command{
	Use:   "contacts",
	Short: "List conversation partners",
	Args:  cobra.NoArgs,
	RunE:  runMessagesContacts,
}

var messagesShowCmd = &cobra.Command{
	Use:   "show <contact-id>",
	Short: "Show the conversation with a contact",
	Args:  cobra.ExactArgs(1),
	RunE:  runMessagesShow,
}

var messagesSendCmd = &cobra.Command{
	Use:   "send <contact-id> <text>",
	Short: "Send a message",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runMessagesSend,
}

func init() {
	messagesCmd.AddCommand(messagesContactsCmd, messagesShowCmd, messagesSendCmd)
	rootCmd.AddCommand(messagesCmd)
}

func runMessagesContacts(cmd *cobra.Command, args []string) error {
	return withSession(cmd, func(ctx context.Context, a *app) error {
		contacts, err := a.client.Contacts(ctx)
		if err != nil {
			return err
		}
		return render(cmd, contactList(contacts))
	})
}

func runMessagesShow(cmd *cobra.Command, args []string) error {
	id, err := parseNumber("contact", args[0])
	if err != nil {
		return err
	}
	return withSession(cmd, func(ctx context.Context, a *app) error {
		msgs, err := a.client.Conversation(ctx, id)
		if err != nil {
			return err
		}
		return render(cmd, conversation(msgs))
	})
}

func runMessagesSend(cmd *cobra.Command, args []string) error {
	id, err := parseNumber("contact", args[0])
	if err != nil {
		return err
	}
	return withSession(cmd, func(ctx context.Context, a *app) error {
		if _, err := a.client.SendMessage(ctx, id, strings.Join(args[1:], " ")); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Message sent")
		return nil
	})
}

type contactList []api.Contact

func (contacts contactList) RenderText(w io.Writer) error {
	if len(contacts) == 0 {
		_, err := fmt.Fprintln(w, "No conversations yet")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tROLE\tUNREAD\tLAST")
	for _, c := range contacts {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n", c.ID, c.Name, c.Role, c.Unread, c.LastMsg)
	}
	return tw.Flush()
}

type conversation []api.Message

func (msgs conversation) RenderText(w io.Writer) error {
	for _, m := range msgs {
		who := "them"
		if m.From == "me" {
			who = "me"
		}
		fmt.Fprintf(w, "%-5s %s  %s\n", who+":", m.Time, m.Text)
	}
	return nil
}
