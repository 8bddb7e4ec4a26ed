package cli

import (
	"github.com/spf13/cobra"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authentication commands",
	}

	cmd.AddCommand(newAuthLoginCmd())
	cmd.AddCommand(newAuthLoginURLCmd())
	cmd.AddCommand(newAuthLogoutCmd())
	cmd.AddCommand(newAuthWhoamiCmd())

	return cmd
}

func newAuthLoginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with email and password",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := svc.auth.SignInWithPassword(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			out.Print(*session)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email (required)")
	cmd.Flags().StringVar(&password, "password", "", "Account password (required)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newAuthLoginURLCmd() *cobra.Command {
	var provider, redirect string

	cmd := &cobra.Command{
		Use:   "login-url",
		Short: "Print the OAuth sign-in URL to open in a browser",
		RunE: func(cmd *cobra.Command, args []string) error {
			if provider == "" {
				provider = cfg.OAuthProvider
			}
			if redirect == "" {
				redirect = cfg.OAuthRedirectURL
			}
			out.PrintMessage(svc.auth.OAuthSignInURL(provider, redirect))
			return nil
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "", "OAuth provider")
	cmd.Flags().StringVar(&redirect, "redirect", "", "Redirect URL after sign-in")

	return cmd
}

func newAuthLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and discard the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := svc.auth.SignOut(cmd.Context()); err != nil {
				return err
			}
			out.PrintMessage("Signed out")
			return nil
		},
	}
}

func newAuthWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the authenticated user",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := svc.auth.CurrentUser(cmd.Context())
			if err != nil {
				return err
			}
			if user == nil {
				out.PrintMessage("Not signed in")
				return nil
			}
			out.Print(*user)
			return nil
		},
	}
}
