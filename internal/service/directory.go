package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/livesboard/livesboard/internal/backend"
	"github.com/livesboard/livesboard/internal/domain"
)

// DirectoryService serves the public player directory: the leaderboard read,
// roster management and the players change feed.
type DirectoryService struct {
	db       backend.Database
	realtime backend.Realtime
	images   *ImageService
	logger   *slog.Logger
}

// NewDirectoryService creates a new DirectoryService.
func NewDirectoryService(db backend.Database, realtime backend.Realtime, images *ImageService, logger *slog.Logger) *DirectoryService {
	return &DirectoryService{db: db, realtime: realtime, images: images, logger: logger}
}

// GetPlayers returns all players ordered for the leaderboard: lives
// ascending so players closest to elimination surface first, ties broken
// alphabetically. Each linked profile's status is merged in as a secondary
// lookup. Backend errors degrade to an empty list so the leaderboard shows
// nothing rather than crashing.
func (s *DirectoryService) GetPlayers(ctx context.Context) []domain.Player {
	q := backend.From("players").
		OrderBy("lives", false).
		OrderBy("last_name", true).
		OrderBy("first_name", true).
		OrderBy("nickname", false)

	var players []domain.Player
	if err := s.db.Select(ctx, q, &players); err != nil {
		s.logger.Error("fetch players", "error", err)
		return []domain.Player{}
	}

	userIDs := make([]uuid.UUID, 0, len(players))
	for _, p := range players {
		if p.UserID != nil {
			userIDs = append(userIDs, *p.UserID)
		}
	}
	statuses := profileStatuses(ctx, s.db, userIDs)
	for i := range players {
		if players[i].UserID != nil {
			if status, ok := statuses[*players[i].UserID]; ok {
				players[i].Status = status
			}
		}
	}

	SortPlayers(players)
	return players
}

// SortPlayers orders players by lives ascending, then last name, first name
// (nil names last) and nickname. The ordering is applied locally so it holds
// regardless of what the transport returned.
func SortPlayers(players []domain.Player) {
	slices.SortStableFunc(players, func(a, b domain.Player) int {
		if a.Lives != b.Lives {
			if a.Lives < b.Lives {
				return -1
			}
			return 1
		}
		if c := compareNullableName(a.LastName, b.LastName); c != 0 {
			return c
		}
		if c := compareNullableName(a.FirstName, b.FirstName); c != 0 {
			return c
		}
		return strings.Compare(a.Nickname, b.Nickname)
	})
}

// compareNullableName orders non-nil before nil, then lexically.
func compareNullableName(a, b *string) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	default:
		return strings.Compare(*a, *b)
	}
}

// GetPlayerByID returns one player, or nil on any failure. Public read.
func (s *DirectoryService) GetPlayerByID(ctx context.Context, id int64) *domain.Player {
	player, err := selectOne[domain.Player](ctx, s.db, backend.From("players").Eq("id", id))
	if err != nil {
		s.logger.Error("fetch player", "id", id, "error", err)
		return nil
	}
	return player
}

// playerInsert is the roster-creation row shape.
type playerInsert struct {
	Nickname string  `json:"nickname"`
	Lives    int     `json:"lives"`
	MaxLives int     `json:"max_lives"`
	ImageURL *string `json:"image_url"`
}

// CreatePlayer adds a player to the roster with a full set of lives. The
// image upload is best-effort: a failed upload logs and the player is
// created without one.
func (s *DirectoryService) CreatePlayer(ctx context.Context, nickname string, img *ImageUpload) (*domain.Player, error) {
	if strings.TrimSpace(nickname) == "" {
		return nil, domain.ErrValidation("nickname is required")
	}

	var imageURL *string
	if img != nil {
		url, err := s.images.UploadPlayerImage(ctx, nickname, *img)
		if err != nil {
			s.logger.Error("upload player image", "error", err)
		} else {
			imageURL = &url
		}
	}

	record := playerInsert{
		Nickname: nickname,
		Lives:    domain.DefaultMaxLives,
		MaxLives: domain.DefaultMaxLives,
		ImageURL: imageURL,
	}

	var player domain.Player
	if err := s.db.Insert(ctx, "players", record, &player); err != nil {
		return nil, fmt.Errorf("create player: %w", err)
	}
	return &player, nil
}

// DeletePlayer removes a player from the roster.
func (s *DirectoryService) DeletePlayer(ctx context.Context, id int64) error {
	if err := s.db.Delete(ctx, "players", backend.From("players").Eq("id", id)); err != nil {
		return fmt.Errorf("delete player: %w", err)
	}
	return nil
}

// SubscribeToPlayers opens a change feed on the players table, relaying
// every event to fn untouched.
func (s *DirectoryService) SubscribeToPlayers(ctx context.Context, fn func(backend.Change)) (backend.Subscription, error) {
	return s.realtime.Subscribe(ctx, "players", backend.ChangeAll, fn)
}
