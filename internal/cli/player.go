package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/livesboard/livesboard/internal/service"
)

func newPlayerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "player",
		Short: "Player commands",
	}

	cmd.AddCommand(newPlayerMeCmd())
	cmd.AddCommand(newPlayerUpsertCmd())
	cmd.AddCommand(newPlayerImageCmd())
	cmd.AddCommand(newPlayerShowCmd())
	cmd.AddCommand(newPlayerCreateCmd())
	cmd.AddCommand(newPlayerDeleteCmd())

	return cmd
}

func newPlayerMeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show your linked player",
		RunE: func(cmd *cobra.Command, args []string) error {
			player, err := svc.players.GetMyPlayer(cmd.Context())
			if err != nil {
				return err
			}
			if player == nil {
				out.PrintMessage("No linked player")
				return nil
			}
			out.Print(*player)
			return nil
		},
	}
}

func newPlayerUpsertCmd() *cobra.Command {
	var first, last, imagePath string

	cmd := &cobra.Command{
		Use:   "upsert",
		Short: "Create or update your linked player",
		RunE: func(cmd *cobra.Command, args []string) error {
			input := service.UpsertPlayerInput{
				FirstName: first,
				LastName:  last,
			}
			if imagePath != "" {
				img, err := readImage(imagePath)
				if err != nil {
					return err
				}
				input.Image = &img
			}

			player, err := svc.players.UpsertMyPlayer(cmd.Context(), input)
			if err != nil {
				return err
			}
			out.Print(*player)
			return nil
		},
	}

	cmd.Flags().StringVar(&first, "first", "", "First name")
	cmd.Flags().StringVar(&last, "last", "", "Last name")
	cmd.Flags().StringVar(&imagePath, "image", "", "Image file to upload")

	return cmd
}

func newPlayerImageCmd() *cobra.Command {
	var label string

	cmd := &cobra.Command{
		Use:   "image <file>",
		Short: "Upload a new player image, replacing the current one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			img, err := readImage(args[0])
			if err != nil {
				return err
			}

			player, err := svc.images.ReplaceMyPlayerImage(cmd.Context(), label, img)
			if err != nil {
				return err
			}
			out.Print(*player)
			return nil
		},
	}

	cmd.Flags().StringVar(&label, "label", "", "File label for the stored object")

	return cmd
}

func newPlayerShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a player by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return err
			}
			player := svc.directory.GetPlayerByID(cmd.Context(), id)
			if player == nil {
				out.PrintMessage("Player not found")
				return nil
			}
			out.Print(*player)
			return nil
		},
	}
}

func newPlayerCreateCmd() *cobra.Command {
	var nickname, imagePath string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add a player to the roster (admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			var img *service.ImageUpload
			if imagePath != "" {
				loaded, err := readImage(imagePath)
				if err != nil {
					return err
				}
				img = &loaded
			}

			player, err := svc.directory.CreatePlayer(cmd.Context(), nickname, img)
			if err != nil {
				return err
			}
			out.Print(*player)
			return nil
		},
	}

	cmd.Flags().StringVar(&nickname, "nickname", "", "Player nickname (required)")
	cmd.Flags().StringVar(&imagePath, "image", "", "Image file to upload")
	_ = cmd.MarkFlagRequired("nickname")

	return cmd
}

func newPlayerDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a player from the roster (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return err
			}
			if err := svc.directory.DeletePlayer(cmd.Context(), id); err != nil {
				return err
			}
			out.PrintMessage("Player deleted")
			return nil
		},
	}
}
