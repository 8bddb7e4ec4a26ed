package domain

import (
	"time"

	"github.com/google/uuid"
)

// DefaultMaxLives is the life count assigned to newly created players.
const DefaultMaxLives = 12

// Player represents a players row. Lives are bounded in [0, MaxLives] by
// server-side logic; this layer never writes them outside of roster creation.
type Player struct {
	ID        int64      `json:"id"`
	UserID    *uuid.UUID `json:"user_id"`
	FirstName *string    `json:"first_name"`
	LastName  *string    `json:"last_name"`
	Nickname  string     `json:"nickname"`
	Lives     int        `json:"lives"`
	MaxLives  int        `json:"max_lives"`
	ImageURL  *string    `json:"image_url"`
	// Status is copied in from the linked profile at read time, never stored
	// on the players table.
	Status    string    `json:"status,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Eliminated reports whether the player has run out of lives.
func (p *Player) Eliminated() bool { return p.Lives <= 0 }

// DisplayName returns the best human-readable name for the player.
func (p *Player) DisplayName() string {
	if p.Nickname != "" {
		return p.Nickname
	}
	name := ""
	if p.FirstName != nil {
		name = *p.FirstName
	}
	if p.LastName != nil {
		if name != "" {
			name += " "
		}
		name += *p.LastName
	}
	return name
}

// LifeEvent is one append-only audit record of a life-count change.
type LifeEvent struct {
	ID        int64     `json:"id"`
	PlayerID  int64     `json:"player_id"`
	Amount    int       `json:"amount"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
	// Player carries the joined nickname on history reads.
	Player *PlayerRef `json:"player,omitempty"`
}

// PlayerRef is the embedded player resource on joined reads.
type PlayerRef struct {
	Nickname string `json:"nickname"`
}
