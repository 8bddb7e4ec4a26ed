package cli

import (
	"github.com/spf13/cobra"

	"github.com/livesboard/livesboard/internal/domain"
)

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Profile commands",
	}

	cmd.AddCommand(newProfileShowCmd())
	cmd.AddCommand(newProfileUpdateCmd())
	cmd.AddCommand(newProfileAvatarCmd())
	cmd.AddCommand(newProfileVIPCmd())

	return cmd
}

func newProfileShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show your profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := svc.profiles.GetMyProfile(cmd.Context())
			if err != nil {
				return err
			}
			if profile == nil {
				out.PrintMessage("Not signed in")
				return nil
			}
			out.Print(*profile)
			return nil
		},
	}
}

func newProfileUpdateCmd() *cobra.Command {
	var name, status, avatarURL string

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update your profile fields",
		RunE: func(cmd *cobra.Command, args []string) error {
			updates := domain.ProfileUpdate{}
			if cmd.Flags().Changed("name") {
				updates.DisplayName = &name
			}
			if cmd.Flags().Changed("status") {
				updates.Status = &status
			}
			if cmd.Flags().Changed("avatar-url") {
				updates.AvatarURL = &avatarURL
			}

			profile, err := svc.profiles.UpdateMyProfile(cmd.Context(), updates)
			if err != nil {
				return err
			}
			out.Print(*profile)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&status, "status", "", "Status message; pass an empty string to clear")
	cmd.Flags().StringVar(&avatarURL, "avatar-url", "", "Avatar URL")

	return cmd
}

func newProfileAvatarCmd() *cobra.Command {
	var label string

	cmd := &cobra.Command{
		Use:   "avatar <file>",
		Short: "Upload a new avatar, replacing the current one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			img, err := readImage(args[0])
			if err != nil {
				return err
			}

			profile, err := svc.images.ReplaceMyProfileAvatar(cmd.Context(), label, img)
			if err != nil {
				return err
			}
			out.Print(*profile)
			return nil
		},
	}

	cmd.Flags().StringVar(&label, "label", "", "File label for the stored object")

	return cmd
}

func newProfileVIPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "vip",
		Short: "Show the public VIP profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			vip, err := svc.profiles.GetVIPProfile(cmd.Context())
			if err != nil {
				return err
			}
			if vip == nil {
				out.PrintMessage("No VIP profile")
				return nil
			}
			out.Print(*vip)
			return nil
		},
	}
}
