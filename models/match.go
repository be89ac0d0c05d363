package models

import "time"

type MatchStatus string

const (
	MatchStatusWaiting            MatchStatus = "waiting"
	MatchStatusInProgress         MatchStatus = "in_progress"
	MatchStatusAwaitingValidation MatchStatus = "awaiting_validation"
	MatchStatusValidated          MatchStatus = "validated"
	MatchStatusCancelled          MatchStatus = "cancelled"
)

type WinnerType string

const (
	WinnerTypeUser WinnerType = "user"
	WinnerTypeTeam WinnerType = "team"
)

// Match is created by matchmaking and moved to awaiting_validation when a
// result claim comes in. Only the settlement coordinator may transition it to
// validated, and it does so exactly once.
type Match struct {
	ID       string      `gorm:"primaryKey;type:uuid" json:"id"`
	GameMode string      `gorm:"type:varchar(16);default:'casual';check:game_mode IN ('casual','ranked','tournament')" json:"game_mode"`
	Status   MatchStatus `gorm:"type:varchar(24);index;not null" json:"status"`

	// Result metadata, written together with the validated transition
	WinnerID    *string     `json:"winner_id,omitempty"`
	WinnerType  *WinnerType `gorm:"type:varchar(8)" json:"winner_type,omitempty"`
	ValidatedBy *string     `json:"validated_by,omitempty"`
	ValidatedAt *time.Time  `json:"validated_at,omitempty"`
	Notes       string      `json:"notes,omitempty"`

	StartedAt           *time.Time `json:"started_at,omitempty"`
	ExpectedDurationSec int        `gorm:"default:900" json:"expected_duration_sec"`

	Participants []MatchParticipant `gorm:"foreignKey:MatchID" json:"participants,omitempty"`

	Timestamps
}

// MatchParticipant links a user to a side of a match. Team is the label a
// team-type winner id resolves against when settlement expands winners.
type MatchParticipant struct {
	ID      string `gorm:"primaryKey;type:uuid" json:"id"`
	MatchID string `gorm:"index;not null" json:"match_id"`
	UserID  string `gorm:"index;not null" json:"user_id"`
	Team    string `gorm:"type:varchar(64);index" json:"team,omitempty"`

	Timestamps
}
