package services

import (
	"fmt"
	"math"
	"time"

	"github.com/ViniDeiro/rpx-sub004/models"
	"gorm.io/gorm"
)

// Cashout percentage bounds. The payout fraction grows with match progress
// but never leaves this window.
const (
	cashoutFloorPct = 0.70
	cashoutCeilPct  = 0.95
)

// CashoutPercentage maps match progress in [0,1] to the fraction of the
// potential win paid on early cashout. Monotonically non-decreasing, bounded
// to [0.70, 0.95].
func CashoutPercentage(progress float64) float64 {
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}
	return cashoutFloorPct + (cashoutCeilPct-cashoutFloorPct)*progress
}

// matchProgress estimates how far along a running match is from its start
// time and expected duration.
func matchProgress(match models.Match, now time.Time) float64 {
	if match.StartedAt == nil || match.ExpectedDurationSec <= 0 {
		return 0
	}
	elapsed := now.Sub(*match.StartedAt).Seconds()
	progress := elapsed / float64(match.ExpectedDurationSec)
	if progress < 0 {
		return 0
	}
	if progress > 1 {
		return 1
	}
	return progress
}

// BetService orchestrates pre-settlement user actions against the wager
// ledger and wallet. It shares the ledger's transition contract, so a cashout
// or cancel racing a settlement on the same bet cannot double-pay.
type BetService struct {
	DB       *gorm.DB
	Notifier *Notifier
	ledger   WagerLedger
}

func NewBetService(db *gorm.DB, notifier *Notifier) *BetService {
	return &BetService{DB: db, Notifier: notifier}
}

// GetBet returns a bet to its owner (or an admin).
func (s *BetService) GetBet(betID, callerID string, isAdmin bool) (*models.Bet, error) {
	bet, err := s.loadBet(betID)
	if err != nil {
		return nil, err
	}
	if bet.UserID != callerID && !isAdmin {
		return nil, fmt.Errorf("%w: bet %s does not belong to caller", ErrUnauthorized, betID)
	}
	return bet, nil
}

// Cashout settles a single active bet early at a discount while its match is
// in progress. The credited amount, the status write and the ledger entry
// commit atomically.
func (s *BetService) Cashout(betID, callerID string) (*models.Bet, error) {
	bet, match, err := s.loadBetWithMatch(betID, callerID)
	if err != nil {
		return nil, err
	}
	if bet.Status != models.BetStatusActive {
		return nil, fmt.Errorf("%w: bet %s is %s", ErrInvalidState, betID, bet.Status)
	}
	if match.Status != models.MatchStatusInProgress {
		return nil, fmt.Errorf("%w: cashout requires an in-progress match, match %s is %s", ErrInvalidMatchState, match.ID, match.Status)
	}

	pct := CashoutPercentage(matchProgress(*match, time.Now()))
	amount := math.Floor(bet.PotentialWin*pct*100) / 100

	err = runInTx(s.DB, func(tx *gorm.DB) error {
		return s.ledger.Transition(tx, bet, models.BetStatusCashout, amount, models.TransactionTypeCashout)
	})
	if err != nil {
		return nil, err
	}

	s.Notifier.Enqueue(bet.UserID, "bet_cashout", "Cashout complete",
		fmt.Sprintf("You cashed out %.2f (%.0f%% of potential win)", amount, pct*100),
		map[string]interface{}{"bet_id": bet.ID, "match_id": bet.MatchID, "amount": amount})
	return bet, nil
}

// Cancel refunds an active bet in full. Only allowed while the match is still
// waiting — once play has started the stake is committed.
func (s *BetService) Cancel(betID, callerID string) (*models.Bet, error) {
	bet, match, err := s.loadBetWithMatch(betID, callerID)
	if err != nil {
		return nil, err
	}
	if bet.Status != models.BetStatusActive {
		return nil, fmt.Errorf("%w: bet %s is %s", ErrInvalidState, betID, bet.Status)
	}
	if match.Status != models.MatchStatusWaiting {
		return nil, fmt.Errorf("%w: cancel requires a waiting match, match %s is %s", ErrInvalidMatchState, match.ID, match.Status)
	}

	err = runInTx(s.DB, func(tx *gorm.DB) error {
		return s.ledger.Transition(tx, bet, models.BetStatusCancelled, bet.Amount, models.TransactionTypeRefund)
	})
	if err != nil {
		return nil, err
	}

	s.Notifier.Enqueue(bet.UserID, "bet_cancelled", "Bet cancelled",
		fmt.Sprintf("Your stake of %.2f was refunded", bet.Amount),
		map[string]interface{}{"bet_id": bet.ID, "match_id": bet.MatchID, "amount": bet.Amount})
	return bet, nil
}

// TransactionHistory returns the user's ledger entries, newest first.
func (s *BetService) TransactionHistory(userID string, limit int) ([]models.Transaction, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	var entries []models.Transaction
	err := s.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

func (s *BetService) loadBet(betID string) (*models.Bet, error) {
	var bet models.Bet
	if err := s.DB.Where("id = ?", betID).First(&bet).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: bet %s", ErrNotFound, betID)
		}
		return nil, err
	}
	return &bet, nil
}

func (s *BetService) loadBetWithMatch(betID, callerID string) (*models.Bet, *models.Match, error) {
	bet, err := s.loadBet(betID)
	if err != nil {
		return nil, nil, err
	}
	if bet.UserID != callerID {
		return nil, nil, fmt.Errorf("%w: bet %s does not belong to caller", ErrUnauthorized, betID)
	}
	var match models.Match
	if err := s.DB.Where("id = ?", bet.MatchID).First(&match).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil, fmt.Errorf("%w: match %s", ErrNotFound, bet.MatchID)
		}
		return nil, nil, err
	}
	return bet, &match, nil
}
