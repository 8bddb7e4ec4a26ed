package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/livesboard/livesboard/internal/backend"
	"github.com/livesboard/livesboard/internal/domain"
)

// PlayerService handles the player row linked to the authenticated identity.
type PlayerService struct {
	auth   backend.Auth
	db     backend.Database
	images *ImageService
	logger *slog.Logger
}

// NewPlayerService creates a new PlayerService.
func NewPlayerService(auth backend.Auth, db backend.Database, images *ImageService, logger *slog.Logger) *PlayerService {
	return &PlayerService{auth: auth, db: db, images: images, logger: logger}
}

// GetMyPlayer returns the player linked to the authenticated identity, or
// nil when no session or no linked row exists.
func (s *PlayerService) GetMyPlayer(ctx context.Context) (*domain.Player, error) {
	user, err := s.auth.User(ctx)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}
	return linkedPlayer(ctx, s.db, user.ID)
}

// UpsertPlayerInput holds the self-service player fields. Lives are absent
// on purpose: only the admin procedures touch them.
type UpsertPlayerInput struct {
	FirstName string
	LastName  string
	Image     *ImageUpload
}

// myPlayerInsert is the row shape for a first-time self-registration.
type myPlayerInsert struct {
	UserID    uuid.UUID `json:"user_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Nickname  string    `json:"nickname"`
	ImageURL  *string   `json:"image_url"`
}

// myPlayerPatch is the row shape for updating an existing linked player.
type myPlayerPatch struct {
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Nickname  string  `json:"nickname"`
	ImageURL  *string `json:"image_url"`
}

// UpsertMyPlayer creates the authenticated identity's player row if absent,
// otherwise updates its name fields. Never writes lives or max_lives.
func (s *PlayerService) UpsertMyPlayer(ctx context.Context, input UpsertPlayerInput) (*domain.Player, error) {
	user, err := s.auth.User(ctx)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNoSession()
	}

	firstName := strings.TrimSpace(input.FirstName)
	lastName := strings.TrimSpace(input.LastName)
	display := strings.TrimSpace(firstName + " " + lastName)

	nickname := display
	if nickname == "" {
		nickname = user.Email
	}
	if nickname == "" {
		nickname = "Jugador"
	}

	current, err := linkedPlayer(ctx, s.db, user.ID)
	if err != nil {
		return nil, err
	}

	var imageURL *string
	if current != nil {
		imageURL = current.ImageURL
	}
	if input.Image != nil {
		label := display
		if label == "" {
			label = user.Email
		}
		if label == "" {
			label = "player"
		}
		url, err := s.images.UploadUserPlayerImage(ctx, user.ID, label, *input.Image)
		if err != nil {
			return nil, err
		}
		imageURL = &url
	}

	var player domain.Player
	if current == nil {
		record := myPlayerInsert{
			UserID:    user.ID,
			FirstName: firstName,
			LastName:  lastName,
			Nickname:  nickname,
			ImageURL:  imageURL,
		}
		if err := s.db.Insert(ctx, "players", record, &player); err != nil {
			return nil, fmt.Errorf("create my player: %w", err)
		}
		return &player, nil
	}

	patch := myPlayerPatch{
		FirstName: firstName,
		LastName:  lastName,
		Nickname:  nickname,
		ImageURL:  imageURL,
	}
	if err := s.db.Update(ctx, "players", patch, backend.From("players").Eq("id", current.ID), &player); err != nil {
		return nil, fmt.Errorf("update my player: %w", err)
	}
	return &player, nil
}
