package models

import "time"

type TransactionType string

const (
	TransactionTypePayout  TransactionType = "payout"
	TransactionTypeCashout TransactionType = "cashout"
	TransactionTypeRefund  TransactionType = "refund"
	TransactionTypeFee     TransactionType = "fee"
)

type TransactionStatus string

const (
	TransactionStatusCompleted TransactionStatus = "completed"
)

// PlatformAccountID is the reserved ledger account that platform fee revenue
// is booked against. It has no wallet balance row.
const PlatformAccountID = "platform"

// Transaction is an append-only ledger entry. Rows are never updated or
// deleted; every wallet movement is committed together with exactly one of
// these in the same database transaction.
type Transaction struct {
	ID        string            `gorm:"primaryKey;type:uuid" json:"id"`
	UserID    string            `gorm:"index;not null" json:"user_id"`
	Type      TransactionType   `gorm:"type:varchar(16);index;not null" json:"type"`
	Amount    float64           `gorm:"not null" json:"amount"`
	Status    TransactionStatus `gorm:"type:varchar(16);not null" json:"status"`
	Reference string            `gorm:"index;not null" json:"reference"` // matchId or betId
	CreatedAt time.Time         `gorm:"autoCreateTime" json:"created_at"`
}
