package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/livesboard/livesboard/internal/domain"
	"github.com/livesboard/livesboard/internal/service"
)

func newNotificationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notifications",
		Aliases: []string{"notify"},
		Short:   "Notification and help request commands",
	}

	cmd.AddCommand(newNotificationsSendCmd())
	cmd.AddCommand(newNotificationsListCmd())
	cmd.AddCommand(newNotificationsReadCmd())
	cmd.AddCommand(newNotificationsReadAllCmd())
	cmd.AddCommand(newNotificationsDeleteCmd())
	cmd.AddCommand(newNotificationsBroadcastCmd())
	cmd.AddCommand(newNotificationsSentCmd())

	return cmd
}

// targetAndType resolves the --to flag into a target player id and the
// matching message type.
func targetAndType(to string) (*int64, domain.HelpRequestType, error) {
	if to == "" {
		return nil, domain.HelpRequestGeneral, nil
	}
	id, err := strconv.ParseInt(to, 10, 64)
	if err != nil {
		return nil, "", err
	}
	return &id, domain.HelpRequestSpecific, nil
}

func newNotificationsSendCmd() *cobra.Command {
	var message, to string

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send a help request",
		RunE: func(cmd *cobra.Command, args []string) error {
			target, typ, err := targetAndType(to)
			if err != nil {
				return err
			}

			req, err := svc.notifications.SendHelpRequest(cmd.Context(), message, typ, target)
			if err != nil {
				return err
			}
			out.Print(*req)
			return nil
		},
	}

	cmd.Flags().StringVar(&message, "message", "", "Message text (required)")
	cmd.Flags().StringVar(&to, "to", "", "Target player id; omit to broadcast")
	_ = cmd.MarkFlagRequired("message")

	return cmd
}

func newNotificationsListCmd() *cobra.Command {
	var limit int
	var unread bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show your inbound notifications",
		RunE: func(cmd *cobra.Command, args []string) error {
			notifications, err := svc.notifications.GetMyNotifications(cmd.Context(), service.NotificationOptions{
				Limit:      limit,
				UnreadOnly: unread,
			})
			if err != nil {
				return err
			}
			out.Print(notifications)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum notifications to show")
	cmd.Flags().BoolVar(&unread, "unread", false, "Only unread notifications")

	return cmd
}

func newNotificationsReadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "read <id>",
		Short: "Mark a notification as read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return err
			}
			if err := svc.notifications.MarkNotificationRead(cmd.Context(), id); err != nil {
				return err
			}
			out.PrintMessage("Marked as read")
			return nil
		},
	}
}

func newNotificationsReadAllCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "read-all",
		Short: "Mark all notifications as read",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := svc.notifications.MarkAllNotificationsRead(cmd.Context()); err != nil {
				return err
			}
			out.PrintMessage("All marked as read")
			return nil
		},
	}
}

func newNotificationsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a notification",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return err
			}
			if err := svc.notifications.DeleteNotification(cmd.Context(), id); err != nil {
				return err
			}
			out.PrintMessage("Deleted")
			return nil
		},
	}
}

func newNotificationsBroadcastCmd() *cobra.Command {
	var message, to string

	cmd := &cobra.Command{
		Use:   "broadcast",
		Short: "Send an admin message, broadcast or directed (admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			target, typ, err := targetAndType(to)
			if err != nil {
				return err
			}

			req, err := svc.notifications.SendGlobalNotification(cmd.Context(), message, typ, target)
			if err != nil {
				return err
			}
			out.Print(*req)
			return nil
		},
	}

	cmd.Flags().StringVar(&message, "message", "", "Message text (required)")
	cmd.Flags().StringVar(&to, "to", "", "Target player id; omit to broadcast")
	_ = cmd.MarkFlagRequired("message")

	return cmd
}

func newNotificationsSentCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "sent",
		Short: "Show messages you have sent (admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			sent, err := svc.notifications.GetAdminSentNotifications(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out.Print(sent)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum messages to show")

	return cmd
}
