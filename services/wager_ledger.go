package services

import (
	"fmt"
	"time"

	"github.com/ViniDeiro/rpx-sub004/models"
	"gorm.io/gorm"
)

// WagerLedger owns bet records and enforces the one-way state machine:
// active → {won, lost, cashout, cancelled}, all terminal. The compare-and-set
// on status = 'active' is the serialization point — a cashout racing a
// settlement on the same bet loses cleanly with ErrInvalidState and moves no
// money.
type WagerLedger struct {
	wallet WalletLedger
}

// Transition finalizes an active bet inside the caller's transaction. When
// credit carries a transaction type, exactly one wallet increment and one
// ledger Transaction are committed with the status write; a lost bet passes
// an empty type and moves nothing. Re-invoking on a terminal bet always
// fails and never re-applies money.
func (l WagerLedger) Transition(tx *gorm.DB, bet *models.Bet, target models.BetStatus, credit float64, txnType models.TransactionType) error {
	if !target.Terminal() {
		return fmt.Errorf("%w: %q is not a terminal bet status", ErrValidation, target)
	}
	now := time.Now()
	updates := map[string]interface{}{
		"status":     target,
		"settled_at": now,
	}
	if target == models.BetStatusCashout {
		updates["cashout_amount"] = credit
	}

	res := tx.Model(&models.Bet{}).
		Where("id = ? AND status = ?", bet.ID, models.BetStatusActive).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: bet %s is already finalized", ErrInvalidState, bet.ID)
	}

	bet.Status = target
	bet.SettledAt = &now
	if target == models.BetStatusCashout {
		c := credit
		bet.CashoutAmount = &c
	}

	if txnType == "" {
		return nil
	}
	return l.wallet.Credit(tx, bet.UserID, credit, txnType, bet.ID)
}

// ActiveBetsForMatch loads every bet still open on the match, for settlement.
func (WagerLedger) ActiveBetsForMatch(tx *gorm.DB, matchID string) ([]models.Bet, error) {
	var bets []models.Bet
	err := tx.Where("match_id = ? AND status = ?", matchID, models.BetStatusActive).
		Order("created_at ASC").
		Find(&bets).Error
	return bets, err
}
