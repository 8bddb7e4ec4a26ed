package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/livesboard/livesboard/internal/backend"
	"github.com/livesboard/livesboard/internal/domain"
)

func strPtr(s string) *string { return &s }

func newDirectoryService(db *fakeDB, realtime *fakeRealtime) *DirectoryService {
	images := newImageService(&fakeAuth{}, db, &fakeStorage{})
	return NewDirectoryService(db, realtime, images, testLogger())
}

func TestSortPlayers_LivesThenNames(t *testing.T) {
	players := []domain.Player{
		{Nickname: "Zeta", Lives: 3, LastName: strPtr("Alvarez"), FirstName: strPtr("Ana")},
		{Nickname: "Alpha", Lives: 1, LastName: strPtr("Zapata"), FirstName: strPtr("Zoe")},
		{Nickname: "Beta", Lives: 3, LastName: strPtr("Alvarez"), FirstName: strPtr("Ana")},
		{Nickname: "Gamma", Lives: 1, LastName: strPtr("Alvarez"), FirstName: strPtr("Bruno")},
	}

	SortPlayers(players)

	// Fewest lives first; ties break on last name, first name, nickname.
	assert.Equal(t, "Gamma", players[0].Nickname)
	assert.Equal(t, "Alpha", players[1].Nickname)
	assert.Equal(t, "Beta", players[2].Nickname)
	assert.Equal(t, "Zeta", players[3].Nickname)
}

func TestSortPlayers_NilNamesLast(t *testing.T) {
	players := []domain.Player{
		{Nickname: "NoName", Lives: 2},
		{Nickname: "Named", Lives: 2, LastName: strPtr("Zapata")},
	}

	SortPlayers(players)

	assert.Equal(t, "Named", players[0].Nickname)
	assert.Equal(t, "NoName", players[1].Nickname)
}

func TestGetPlayers_ErrorYieldsEmptyList(t *testing.T) {
	db := &fakeDB{
		selectFn: func(q backend.Query, dest any) error {
			return errors.New("backend down")
		},
	}
	svc := newDirectoryService(db, &fakeRealtime{})

	players := svc.GetPlayers(context.Background())
	require.NotNil(t, players)
	assert.Empty(t, players)
}

func TestGetPlayers_MergesProfileStatus(t *testing.T) {
	uid := uuid.New()
	db := &fakeDB{}
	db.selectFn = func(q backend.Query, dest any) error {
		switch q.Table {
		case "players":
			fill(t, dest, []domain.Player{
				{ID: 1, Nickname: "Linked", Lives: 2, UserID: &uid},
				{ID: 2, Nickname: "Roster", Lives: 5},
			})
		case "profiles":
			fill(t, dest, []map[string]any{{"id": uid.String(), "status": "en racha"}})
		}
		return nil
	}
	svc := newDirectoryService(db, &fakeRealtime{})

	players := svc.GetPlayers(context.Background())
	require.Len(t, players, 2)
	assert.Equal(t, "en racha", players[0].Status)
	assert.Empty(t, players[1].Status)
}

func TestGetPlayers_StatusLookupFailureTolerated(t *testing.T) {
	uid := uuid.New()
	db := &fakeDB{}
	db.selectFn = func(q backend.Query, dest any) error {
		if q.Table == "profiles" {
			return errors.New("backend down")
		}
		fill(t, dest, []domain.Player{{ID: 1, Nickname: "Linked", Lives: 2, UserID: &uid}})
		return nil
	}
	svc := newDirectoryService(db, &fakeRealtime{})

	players := svc.GetPlayers(context.Background())
	require.Len(t, players, 1)
	assert.Empty(t, players[0].Status)
}

func TestCreatePlayer_RequiresNickname(t *testing.T) {
	svc := newDirectoryService(&fakeDB{}, &fakeRealtime{})

	_, err := svc.CreatePlayer(context.Background(), "   ", nil)
	var appErr *domain.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

func TestCreatePlayer_FullLives(t *testing.T) {
	db := &fakeDB{
		insertFn: func(table string, record, dest any) error {
			fill(t, dest, domain.Player{ID: 7, Nickname: "Nuevo", Lives: 12, MaxLives: 12})
			return nil
		},
	}
	svc := newDirectoryService(db, &fakeRealtime{})

	player, err := svc.CreatePlayer(context.Background(), "Nuevo", nil)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultMaxLives, player.Lives)

	insert := db.lastCall("insert")
	require.NotNil(t, insert)
	row, ok := insert.record.(playerInsert)
	require.True(t, ok)
	assert.Equal(t, domain.DefaultMaxLives, row.Lives)
	assert.Equal(t, domain.DefaultMaxLives, row.MaxLives)
}

func TestCreatePlayer_ImageFailureBestEffort(t *testing.T) {
	db := &fakeDB{}
	storage := &fakeStorage{uploadErr: errors.New("storage down")}
	images := newImageService(&fakeAuth{}, db, storage)
	svc := NewDirectoryService(db, &fakeRealtime{}, images, testLogger())

	player, err := svc.CreatePlayer(context.Background(), "Nuevo", &ImageUpload{Data: []byte("x")})
	require.NoError(t, err)
	require.NotNil(t, player)

	insert := db.lastCall("insert")
	require.NotNil(t, insert)
	row := insert.record.(playerInsert)
	assert.Nil(t, row.ImageURL)
}

func TestSubscribeToPlayers_AllEvents(t *testing.T) {
	realtime := &fakeRealtime{}
	svc := newDirectoryService(&fakeDB{}, realtime)

	sub, err := svc.SubscribeToPlayers(context.Background(), func(backend.Change) {})
	require.NoError(t, err)
	require.NotNil(t, sub)
	assert.Equal(t, "players", realtime.table)
	assert.Equal(t, backend.ChangeAll, realtime.event)
}
