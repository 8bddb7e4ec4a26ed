package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/livesboard/livesboard/internal/backend"
	"github.com/livesboard/livesboard/internal/domain"
)

const (
	defaultLifeEventLimit       = 100
	defaultPlayerLifeEventLimit = 250
)

// LivesService delegates life manipulation to the named server-side
// procedures and reads the life-event audit trail. All bounds-checking and
// event logging happens server-side; parameters pass through opaquely.
type LivesService struct {
	db       backend.Database
	rpc      backend.RPC
	realtime backend.Realtime
	logger   *slog.Logger
}

// NewLivesService creates a new LivesService.
func NewLivesService(db backend.Database, rpc backend.RPC, realtime backend.Realtime, logger *slog.Logger) *LivesService {
	return &LivesService{db: db, rpc: rpc, realtime: realtime, logger: logger}
}

// RemoveLives deducts lives from a player, returning the procedure's result
// verbatim.
func (s *LivesService) RemoveLives(ctx context.Context, playerID int64, amount int, reason string) (json.RawMessage, error) {
	params := map[string]any{
		"p_player_id": playerID,
		"p_amount":    amount,
		"p_reason":    reason,
	}
	var result json.RawMessage
	if err := s.rpc.Call(ctx, "admin_remove_lives", params, &result); err != nil {
		return nil, fmt.Errorf("remove lives: %w", err)
	}
	return result, nil
}

// ResetLives restores one player's lives to their maximum.
func (s *LivesService) ResetLives(ctx context.Context, playerID int64) (json.RawMessage, error) {
	params := map[string]any{"p_player_id": playerID}
	var result json.RawMessage
	if err := s.rpc.Call(ctx, "admin_reset_lives", params, &result); err != nil {
		return nil, fmt.Errorf("reset lives: %w", err)
	}
	return result, nil
}

// ResetAllLives restores every player's lives to their maximum.
func (s *LivesService) ResetAllLives(ctx context.Context) (json.RawMessage, error) {
	var result json.RawMessage
	if err := s.rpc.Call(ctx, "admin_reset_lives_all", nil, &result); err != nil {
		return nil, fmt.Errorf("reset all lives: %w", err)
	}
	return result, nil
}

// GetLifeEvents returns the newest life events with the joined player
// nickname, newest first.
func (s *LivesService) GetLifeEvents(ctx context.Context, limit int) ([]domain.LifeEvent, error) {
	if limit <= 0 {
		limit = defaultLifeEventLimit
	}
	q := backend.From("life_events").
		Select("*,player:players(nickname)").
		OrderByDesc("created_at").
		Limit(limit)

	var events []domain.LifeEvent
	if err := s.db.Select(ctx, q, &events); err != nil {
		return nil, fmt.Errorf("fetch life events: %w", err)
	}
	return events, nil
}

// GetLifeEventsForPlayer returns one player's life events, newest first.
func (s *LivesService) GetLifeEventsForPlayer(ctx context.Context, playerID int64, limit int) ([]domain.LifeEvent, error) {
	if limit <= 0 {
		limit = defaultPlayerLifeEventLimit
	}
	q := backend.From("life_events").
		Eq("player_id", playerID).
		OrderByDesc("created_at").
		Limit(limit)

	var events []domain.LifeEvent
	if err := s.db.Select(ctx, q, &events); err != nil {
		return nil, fmt.Errorf("fetch life events for player: %w", err)
	}
	return events, nil
}

// SubscribeToLifeEvents opens a change feed for newly recorded life events.
func (s *LivesService) SubscribeToLifeEvents(ctx context.Context, fn func(backend.Change)) (backend.Subscription, error) {
	return s.realtime.Subscribe(ctx, "life_events", backend.ChangeInsert, fn)
}
