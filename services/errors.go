package services

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"
)

// Failure taxonomy for the settlement engine. Services wrap these with
// context via %w; handlers translate them to transport codes. Only
// ErrTransientStore is ever retried, and only as a whole operation.
var (
	ErrValidation        = errors.New("validation failed")
	ErrUnauthorized      = errors.New("not authorized")
	ErrNotFound          = errors.New("not found")
	ErrInvalidState      = errors.New("bet state does not allow this action")
	ErrInvalidMatchState = errors.New("match state does not allow this action")
	ErrTransientStore    = errors.New("store conflict, safe to retry in full")
	ErrConservation      = errors.New("conservation violation")
)

const maxCommitAttempts = 3

// runInTx executes fn as one all-or-nothing transaction and retries it from
// scratch on transient commit failures. Because nothing survives a rollback,
// the whole unit is always safe to re-run.
func runInTx(db *gorm.DB, fn func(tx *gorm.DB) error) error {
	var err error
	for attempt := 1; attempt <= maxCommitAttempts; attempt++ {
		err = classifyStoreErr(db.Transaction(fn))
		if err == nil || !errors.Is(err, ErrTransientStore) {
			return err
		}
		log.Printf("⚠️ transient store failure (attempt %d/%d): %v", attempt, maxCommitAttempts, err)
	}
	return err
}

// classifyStoreErr maps driver-level conflicts onto ErrTransientStore.
// Postgres serialization failures (40001) and deadlocks (40P01) roll back
// cleanly, as does SQLite's busy lock in tests.
func classifyStoreErr(err error) error {
	if err == nil {
		return err
	}
	msg := err.Error()
	if strings.Contains(msg, "40001") ||
		strings.Contains(msg, "40P01") ||
		strings.Contains(msg, "deadlock detected") ||
		strings.Contains(msg, "database is locked") {
		return fmt.Errorf("%w: %v", ErrTransientStore, err)
	}
	return err
}
