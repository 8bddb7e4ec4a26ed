package cli

import (
	"github.com/spf13/cobra"
)

func newLeaderboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the public lives leaderboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			players := svc.directory.GetPlayers(cmd.Context())
			out.Print(players)
			return nil
		},
	}
}
