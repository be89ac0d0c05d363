package services

import (
	"encoding/json"
	"log"

	"github.com/ViniDeiro/rpx-sub004/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notifier queues outbox rows for the external dispatcher. Enqueue is
// best-effort: a failure is logged and swallowed, it never propagates into a
// financial result. Delivery itself is the notification worker's job.
type Notifier struct {
	DB *gorm.DB
}

func NewNotifier(db *gorm.DB) *Notifier {
	return &Notifier{DB: db}
}

func (n *Notifier) Enqueue(userID, notifType, title, message string, data map[string]interface{}) {
	payload := ""
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			log.Printf("⚠️ dropping notification data for %s: %v", userID, err)
		} else {
			payload = string(raw)
		}
	}

	note := models.Notification{
		ID:      uuid.NewString(),
		UserID:  userID,
		Type:    notifType,
		Title:   title,
		Message: message,
		Data:    payload,
		Status:  models.NotificationStatusPending,
	}
	if err := n.DB.Create(&note).Error; err != nil {
		log.Printf("⚠️ failed to queue %s notification for %s: %v", notifType, userID, err)
	}
}
