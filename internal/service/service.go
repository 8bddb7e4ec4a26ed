// Package service implements the backend access layer: stateless operations
// grouped by concern, each performing one backend call and normalizing its
// result and error shape for the presentation layer.
package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/livesboard/livesboard/internal/backend"
	"github.com/livesboard/livesboard/internal/domain"
)

// selectOne runs q capped to one row and returns it, or nil when no row
// matched.
func selectOne[T any](ctx context.Context, db backend.Database, q backend.Query) (*T, error) {
	var rows []T
	if err := db.Select(ctx, q.Limit(1), &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// linkedPlayer returns the player row linked to an auth identity, or nil.
func linkedPlayer(ctx context.Context, db backend.Database, userID uuid.UUID) (*domain.Player, error) {
	return selectOne[domain.Player](ctx, db, backend.From("players").Eq("user_id", userID))
}

// profileStatuses fetches the status field of the given profiles as a
// secondary lookup. Best-effort: a failed lookup yields no statuses rather
// than failing the surrounding read.
func profileStatuses(ctx context.Context, db backend.Database, ids []uuid.UUID) map[uuid.UUID]string {
	if len(ids) == 0 {
		return nil
	}

	values := make([]string, 0, len(ids))
	for _, id := range ids {
		values = append(values, id.String())
	}

	var profiles []struct {
		ID     uuid.UUID `json:"id"`
		Status string    `json:"status"`
	}
	if err := db.Select(ctx, backend.From("profiles").Select("id,status").In("id", values), &profiles); err != nil {
		return nil
	}

	statuses := make(map[uuid.UUID]string, len(profiles))
	for _, p := range profiles {
		if p.Status != "" {
			statuses[p.ID] = p.Status
		}
	}
	return statuses
}
