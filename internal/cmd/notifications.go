package cmd

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/courtdesk/internal/api"
)

var notificationsCmd = &cobra.Command{
	Use:     "notifications",
	Aliases: []string{"notifs"},
	Short:   "Read and clear your notification feed",
}

var notificationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List notifications",
	Args:  cobra.NoArgs,
	RunE:  runNotificationsList,
}

var notificationsReadCmd = &cobra.Command{
	Use:   "read <notification>",
	Short: "Mark a notification as read",
	Args:  cobra.ExactArgs(1),
	RunE:  runNotificationsRead,
}

var notificationsDeleteCmd = &cobra.Command{
	Use:   "delete <notification>",
	Short: "Delete a notification",
	Args:  cobra.ExactArgs(1),
	RunE:  runNotificationsDelete,
}

var notificationsEmailCmd = &cobra.Command{
	Use:   "email",
	Short: "Send a notification email through the backend",
	Args:  cobra.NoArgs,
	RunE:  runNotificationsEmail,
}

var (
	notificationsUnread bool
	email               api.Email
)

func init() {
	notificationsListCmd.Flags().BoolVar(&notificationsUnread, "unread", false, "only unread notifications")

	f := notificationsEmailCmd.Flags()
	f.StringVar(&email.To, "to", "", "recipient address")
	f.StringVar(&email.Subject, "subject", "", "subject line")
	f.StringVar(&email.Body, "body", "", "message body")
	_ = notificationsEmailCmd.MarkFlagRequired("to")
	_ = notificationsEmailCmd.MarkFlagRequired("subject")

	notificationsCmd.AddCommand(notificationsListCmd, notificationsReadCmd, notificationsDeleteCmd, notificationsEmailCmd)
	rootCmd.AddCommand(notificationsCmd)
}

func runNotificationsList(cmd *cobra.Command, args []string) error {
	return withSession(cmd, func(ctx context.Context, a *app) error {
		notifs, err := a.client.ListNotifications(ctx)
		if err != nil {
			return err
		}
		if notificationsUnread {
			unread := notifs[:0]
			for _, n := range notifs {
				if !n.Read {
					unread = append(unread, n)
				}
			}
			notifs = unread
		}
		return render(cmd, notificationList(notifs))
	})
}

func runNotificationsRead(cmd *cobra.Command, args []string) error {
	id, err := parseRef(api.NotificationPrefix, args[0])
	if err != nil {
		return err
	}
	return withSession(cmd, func(ctx context.Context, a *app) error {
		if err := a.client.MarkNotificationRead(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Marked %s as read\n", args[0])
		return nil
	})
}

func runNotificationsDelete(cmd *cobra.Command, args []string) error {
	id, err := parseRef(api.NotificationPrefix, args[0])
	if err != nil {
		return err
	}
	return withSession(cmd, func(ctx context.Context, a *app) error {
		if err := a.client.DeleteNotification(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted notification %s\n", args[0])
		return nil
	})
}

func runNotificationsEmail(cmd *cobra.Command, args []string) error {
	return withSession(cmd, func(ctx context.Context, a *app) error {
		if err := a.client.SendEmail(ctx, email); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Email sent to %s\n", email.To)
		return nil
	})
}

type notificationList []api.Notification

func (notifs notificationList) RenderText(w io.Writer) error {
	if len(notifs) == 0 {
		_, err := fmt.Fprintln(w, "No notifications")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, n := range notifs {
		mark := " "
		if !n.Read {
			mark = "•"
		}
		fmt.Fprintf(tw, "%s %s\t%s\t%s\t%s\n", mark, n.ID, n.Priority, n.Title, n.Time)
	}
	return tw.Flush()
}
