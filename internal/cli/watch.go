package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/livesboard/livesboard/internal/backend"
	"github.com/livesboard/livesboard/internal/domain"
	"github.com/livesboard/livesboard/internal/notify"
)

func newWatchCmd() *cobra.Command {
	var desktop bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream live changes from the backend",
		Long: `watch subscribes to player, life event, notification, and profile
changes and prints them as they happen. With --desktop, incoming admin
messages additionally pop up as desktop notifications.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			logger := slog.Default()

			var bridge *notify.Bridge
			if desktop {
				platform := notify.NewDesktopPlatform()
				bridge = notify.NewBridge(platform, cfg.NotificationIcon, logger)
				if bridge.RequestPermission() != notify.PermissionGranted {
					logger.Warn("desktop notifications unavailable")
					bridge = nil
				}
			}

			var myID *uuid.UUID
			if user, err := svc.auth.CurrentUser(ctx); err == nil && user != nil {
				myID = &user.ID
			}

			playerSub, err := svc.directory.SubscribeToPlayers(ctx, func(c backend.Change) {
				printChange("players", c)
			})
			if err != nil {
				return err
			}
			defer playerSub.Close()

			eventSub, err := svc.lives.SubscribeToLifeEvents(ctx, func(c backend.Change) {
				printChange("life_events", c)
			})
			if err != nil {
				return err
			}
			defer eventSub.Close()

			helpSub, err := svc.notifications.SubscribeToHelpRequests(ctx, func(c backend.Change) {
				printChange("help_requests", c)
				if bridge == nil {
					return
				}
				var req domain.HelpRequest
				if err := json.Unmarshal(c.Record, &req); err != nil {
					return
				}
				if myID != nil && req.SenderID == *myID {
					return
				}
				bridge.ShowAdminMessage(string(req.Type), req.Message)
			})
			if err != nil {
				return err
			}
			defer helpSub.Close()

			statusSub, err := svc.notifications.SubscribeToStatusChanges(ctx, func(c backend.Change) {
				printChange("profiles", c)
			})
			if err != nil {
				return err
			}
			defer statusSub.Close()

			fmt.Println("Watching for changes, Ctrl-C to stop")
			<-ctx.Done()
			return nil
		},
	}

	cmd.Flags().BoolVar(&desktop, "desktop", false, "Show desktop notifications for admin messages")

	return cmd
}

func printChange(table string, c backend.Change) {
	record := c.Record
	if len(record) == 0 {
		record = c.Old
	}
	fmt.Printf("%s %s %s\n", table, c.Type, string(record))
}
