package cli

import (
	"encoding/json"
	"strconv"

	"github.com/spf13/cobra"
)

func newLivesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lives",
		Short: "Life management commands (admin)",
	}

	cmd.AddCommand(newLivesRemoveCmd())
	cmd.AddCommand(newLivesResetCmd())
	cmd.AddCommand(newLivesResetAllCmd())

	return cmd
}

// printRPCResult shows the raw procedure result so whatever the backend
// reports (updated counts, denials) reaches the admin verbatim.
func printRPCResult(result json.RawMessage) {
	if len(result) == 0 {
		out.PrintMessage("OK")
		return
	}
	var decoded any
	if err := json.Unmarshal(result, &decoded); err != nil {
		out.PrintMessage(string(result))
		return
	}
	out.Print(decoded)
}

func newLivesRemoveCmd() *cobra.Command {
	var amount int
	var reason string

	cmd := &cobra.Command{
		Use:   "remove <playerID>",
		Short: "Deduct lives from a player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return err
			}

			result, err := svc.lives.RemoveLives(cmd.Context(), id, amount, reason)
			if err != nil {
				return err
			}
			printRPCResult(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&amount, "amount", 1, "Number of lives to deduct")
	cmd.Flags().StringVar(&reason, "reason", "", "Reason recorded in the event log")

	return cmd
}

func newLivesResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset <playerID>",
		Short: "Restore a player to full lives",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return err
			}

			result, err := svc.lives.ResetLives(cmd.Context(), id)
			if err != nil {
				return err
			}
			printRPCResult(result)
			return nil
		},
	}
}

func newLivesResetAllCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset-all",
		Short: "Restore every player to full lives",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := svc.lives.ResetAllLives(cmd.Context())
			if err != nil {
				return err
			}
			printRPCResult(result)
			return nil
		},
	}
}
