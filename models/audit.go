package models

import "time"

// AuditLog is an append-only record of privileged actions. Settlement writes
// one entry per validated match, inside the same transaction as the payouts,
// capturing the inputs and the computed distribution.
type AuditLog struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	Action    string    `gorm:"type:varchar(48);index;not null" json:"action"`
	ActorID   string    `gorm:"index;not null" json:"actor_id"`
	Reference string    `gorm:"index;not null" json:"reference"`
	Payload   string    `gorm:"type:text" json:"payload"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
