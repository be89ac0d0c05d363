package models

import "time"

type BetStatus string

const (
	BetStatusActive    BetStatus = "active"
	BetStatusWon       BetStatus = "won"
	BetStatusLost      BetStatus = "lost"
	BetStatusCashout   BetStatus = "cashout"
	BetStatusCancelled BetStatus = "cancelled"
)

// Terminal reports whether the status is a final state. Once a bet reaches a
// terminal status it never changes again.
func (s BetStatus) Terminal() bool {
	switch s {
	case BetStatusWon, BetStatusLost, BetStatusCashout, BetStatusCancelled:
		return true
	}
	return false
}

// Bet is a user's stake on a match outcome. Created active while the match is
// waiting; finalized exactly once, either by a user action (cashout/cancel)
// or by match settlement.
type Bet struct {
	ID           string    `gorm:"primaryKey;type:uuid" json:"id"`
	MatchID      string    `gorm:"index;not null" json:"match_id"`
	UserID       string    `gorm:"index;not null" json:"user_id"`
	Amount       float64   `gorm:"not null;check:amount > 0" json:"amount"`
	Odd          float64   `gorm:"not null" json:"odd"`
	PotentialWin float64   `gorm:"not null" json:"potential_win"`
	Status       BetStatus `gorm:"type:varchar(16);index;not null;default:'active'" json:"status"`

	// Set once, at the same instant as the terminal transition
	CashoutAmount *float64   `json:"cashout_amount,omitempty"`
	SettledAt     *time.Time `json:"settled_at,omitempty"`

	Timestamps
}
