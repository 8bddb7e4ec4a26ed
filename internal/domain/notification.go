package domain

import (
	"time"

	"github.com/google/uuid"
)

// HelpRequestType distinguishes broadcast messages from directed ones.
type HelpRequestType string

const (
	// HelpRequestGeneral broadcasts to every player.
	HelpRequestGeneral HelpRequestType = "general"
	// HelpRequestSpecific targets a single player.
	HelpRequestSpecific HelpRequestType = "specific"
)

// HelpRequest is a help_requests row, doubling as a generic notification.
type HelpRequest struct {
	ID             int64           `json:"id"`
	SenderID       uuid.UUID       `json:"sender_id"`
	SenderPlayerID *int64          `json:"sender_player_id"`
	TargetPlayerID *int64          `json:"target_player_id"`
	Type           HelpRequestType `json:"type"`
	Message        string          `json:"message"`
	Read           bool            `json:"read"`
	CreatedAt      time.Time       `json:"created_at"`

	// Sender is embedded on inbound notification reads, Target on admin
	// sent-history reads.
	Sender *NotificationPlayer `json:"sender,omitempty"`
	Target *NotificationPlayer `json:"target,omitempty"`
}

// NotificationPlayer is the embedded player resource on notification reads.
type NotificationPlayer struct {
	ID        int64      `json:"id"`
	Nickname  string     `json:"nickname"`
	FirstName *string    `json:"first_name"`
	LastName  *string    `json:"last_name"`
	ImageURL  *string    `json:"image_url"`
	UserID    *uuid.UUID `json:"user_id,omitempty"`
	Status    string     `json:"status,omitempty"`
}
