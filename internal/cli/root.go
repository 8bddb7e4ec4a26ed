// Package cli implements the livesboard command line interface.
package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/livesboard/livesboard/internal/backend"
	"github.com/livesboard/livesboard/internal/backend/rest"
	"github.com/livesboard/livesboard/internal/infra"
	"github.com/livesboard/livesboard/internal/service"
	"github.com/livesboard/livesboard/internal/session"
)

var (
	cfg    *infra.Config
	client *rest.Client
	svc    *services
	out    *Output

	outputFormat string
)

// services bundles the application services built in PersistentPreRunE.
type services struct {
	auth          *service.AuthService
	profiles      *service.ProfileService
	images        *service.ImageService
	directory     *service.DirectoryService
	players       *service.PlayerService
	lives         *service.LivesService
	notifications *service.NotificationService
	bootstrap     *session.Bootstrapper
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "livesboard",
		Short: "CLI for the lives leaderboard",
		Long: `livesboard tracks player lives for a community game.

It shows the public leaderboard, manages your player and profile, and gives
admins life deduction, resets, and broadcast messages. All state lives in the
remote backend; sign in with "livesboard auth login".`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger := slog.Default()

			var err error
			cfg, err = infra.LoadConfig()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				logger.Warn("backend not configured", "error", err)
			}

			client = rest.New(cfg.BackendURL, cfg.AnonKey, logger)
			restoreSession(client, cfg, logger)

			be := backend.Client{
				Auth:     client,
				DB:       client,
				RPC:      client,
				Storage:  client,
				Realtime: client,
			}

			images := service.NewImageService(be.Auth, be.DB, be.Storage, cfg.ImageBucket, logger)
			svc = &services{
				auth:          service.NewAuthService(be.Auth, logger),
				profiles:      service.NewProfileService(be.Auth, be.DB, be.RPC, logger),
				images:        images,
				directory:     service.NewDirectoryService(be.DB, be.Realtime, images, logger),
				players:       service.NewPlayerService(be.Auth, be.DB, images, logger),
				lives:         service.NewLivesService(be.DB, be.RPC, be.Realtime, logger),
				notifications: service.NewNotificationService(be.Auth, be.DB, be.Realtime, logger),
				bootstrap:     session.NewBootstrapper(be.Auth, logger),
			}
			svc.bootstrap.Initialize(cmd.Context())

			out = NewOutput(outputFormat)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			persistSession(cmd.Context(), client, cfg, slog.Default())
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "text", "Output format: text, json")

	rootCmd.AddCommand(newLeaderboardCmd())
	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newProfileCmd())
	rootCmd.AddCommand(newPlayerCmd())
	rootCmd.AddCommand(newLivesCmd())
	rootCmd.AddCommand(newEventsCmd())
	rootCmd.AddCommand(newNotificationsCmd())
	rootCmd.AddCommand(newWatchCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
