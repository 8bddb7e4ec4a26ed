package cli

import (
	"strconv"

	"github.com/spf13/cobra"
)

func newEventsCmd() *cobra.Command {
	var limit int
	var playerID string

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Show the life event history",
		RunE: func(cmd *cobra.Command, args []string) error {
			if playerID != "" {
				id, err := strconv.ParseInt(playerID, 10, 64)
				if err != nil {
					return err
				}
				events, err := svc.lives.GetLifeEventsForPlayer(cmd.Context(), id, limit)
				if err != nil {
					return err
				}
				out.Print(events)
				return nil
			}

			events, err := svc.lives.GetLifeEvents(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out.Print(events)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum events to show")
	cmd.Flags().StringVar(&playerID, "player", "", "Only events for this player id")

	return cmd
}
