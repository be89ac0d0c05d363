package services

import (
	"fmt"
	"time"

	"github.com/ViniDeiro/rpx-sub004/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WalletLedger applies balance movements against player accounts. A credit is
// a single atomic increment committed together with exactly one ledger
// Transaction row in the caller's unit of work — never independently, so a
// rollback takes both with it.
type WalletLedger struct{}

// Credit increases the user's balance by amount and appends the matching
// Transaction. A zero amount appends the ledger row without touching the
// balance (a winning bet whose floored share is zero still gets its entry).
func (WalletLedger) Credit(tx *gorm.DB, userID string, amount float64, txnType models.TransactionType, reference string) error {
	if amount < 0 {
		return fmt.Errorf("%w: wallet credit must not be negative", ErrValidation)
	}
	if amount > 0 {
		res := tx.Model(&models.PlayerAccount{}).
			Where("id = ?", userID).
			Update("balance", gorm.Expr("balance + ?", amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: player account %s", ErrNotFound, userID)
		}
	}
	entry := models.Transaction{
		ID:        uuid.NewString(),
		UserID:    userID,
		Type:      txnType,
		Amount:    amount,
		Status:    models.TransactionStatusCompleted,
		Reference: reference,
		CreatedAt: time.Now(),
	}
	return tx.Create(&entry).Error
}

// RecordRevenue books platform income (fee, retained pool) as a ledger entry
// against the reserved platform account. No wallet row is touched.
func (WalletLedger) RecordRevenue(tx *gorm.DB, amount float64, reference string) error {
	entry := models.Transaction{
		ID:        uuid.NewString(),
		UserID:    models.PlatformAccountID,
		Type:      models.TransactionTypeFee,
		Amount:    amount,
		Status:    models.TransactionStatusCompleted,
		Reference: reference,
		CreatedAt: time.Now(),
	}
	return tx.Create(&entry).Error
}
