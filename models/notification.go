package models

import "time"

type NotificationStatus string

const (
	NotificationStatusPending NotificationStatus = "pending"
	NotificationStatusSent    NotificationStatus = "sent"
	NotificationStatusFailed  NotificationStatus = "failed"
)

// Notification is an outbox row for the external dispatcher. Delivery is
// best-effort and happens after the financial transaction has committed; a
// delivery failure never reverses or blocks committed financial state.
type Notification struct {
	ID       string             `gorm:"primaryKey;type:uuid" json:"id"`
	UserID   string             `gorm:"index;not null" json:"user_id"`
	Type     string             `gorm:"type:varchar(32);not null" json:"type"`
	Title    string             `json:"title"`
	Message  string             `json:"message"`
	Data     string             `gorm:"type:text" json:"data,omitempty"`
	Status   NotificationStatus `gorm:"type:varchar(16);index;not null;default:'pending'" json:"status"`
	Attempts int                `gorm:"default:0" json:"attempts"`
	SentAt   *time.Time         `json:"sent_at,omitempty"`

	Timestamps
}
