package workers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/ViniDeiro/rpx-sub004/models"
	"gorm.io/gorm"
)

const maxDeliveryAttempts = 5

// NotificationClient delivers queued outbox rows to the external dispatcher.
// Delivery is best-effort: failures mark the row for retry and are only
// logged, they never touch financial state.
type NotificationClient struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
	DB         *gorm.DB
}

func NewNotificationClient(db *gorm.DB) *NotificationClient {
	baseURL := os.Getenv("NOTIFY_SERVICE_URL")
	if baseURL == "" {
		log.Fatal("NOTIFY_SERVICE_URL environment variable is required")
	}
	token := os.Getenv("WAGER_SERVICE_TOKEN")
	if token == "" {
		log.Fatal("WAGER_SERVICE_TOKEN environment variable is required for notification dispatch")
	}

	return &NotificationClient{
		BaseURL: baseURL,
		Token:   token,
		DB:      db,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *NotificationClient) deliver(ctx context.Context, note models.Notification) error {
	body, err := json.Marshal(map[string]interface{}{
		"user_id": note.UserID,
		"type":    note.Type,
		"title":   note.Title,
		"message": note.Message,
		"data":    note.Data,
	})
	if err != nil {
		return fmt.Errorf("failed to encode notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL+"/api/v1/notifications/dispatch", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Service-Token", c.Token)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call notification service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("notification service returned status %d: %s", resp.StatusCode, string(detail))
	}
	return nil
}

// PollNotifications drains pending outbox rows on a fixed interval. Rows that
// exhaust their attempts are marked failed and left for inspection.
func PollNotifications(ctx context.Context, client *NotificationClient, pollInterval time.Duration) {
	log.Println("Starting notification dispatch polling...")

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Notification polling stopped.")
			return
		case <-ticker.C:
			var pending []models.Notification
			err := client.DB.
				Where("status = ? AND attempts < ?", models.NotificationStatusPending, maxDeliveryAttempts).
				Order("created_at ASC").
				Limit(50).
				Find(&pending).Error
			if err != nil {
				log.Printf("❌ Error loading pending notifications: %v", err)
				continue
			}
			if len(pending) == 0 {
				continue
			}

			sent := 0
			for _, note := range pending {
				if err := client.deliver(ctx, note); err != nil {
					log.Printf("⚠️ Delivery failed for notification %s (attempt %d): %v", note.ID, note.Attempts+1, err)
					updates := map[string]interface{}{"attempts": note.Attempts + 1}
					if note.Attempts+1 >= maxDeliveryAttempts {
						updates["status"] = models.NotificationStatusFailed
					}
					if dbErr := client.DB.Model(&models.Notification{}).Where("id = ?", note.ID).Updates(updates).Error; dbErr != nil {
						log.Printf("❌ Failed to record delivery attempt for %s: %v", note.ID, dbErr)
					}
					continue
				}

				now := time.Now()
				if dbErr := client.DB.Model(&models.Notification{}).Where("id = ?", note.ID).Updates(map[string]interface{}{
					"status":   models.NotificationStatusSent,
					"attempts": note.Attempts + 1,
					"sent_at":  now,
				}).Error; dbErr != nil {
					log.Printf("❌ Failed to mark notification %s as sent: %v", note.ID, dbErr)
					continue
				}
				sent++
			}
			if sent > 0 {
				log.Printf("📨 Dispatched %d notification(s).", sent)
			}
		}
	}
}
