package services

import (
	"fmt"
	"math"

	"github.com/ViniDeiro/rpx-sub004/models"
)

// PayoutShare is one winning bet's cut of the prize pool.
type PayoutShare struct {
	UserID    string  `json:"user_id"`
	BetID     string  `json:"bet_id"`
	WinAmount float64 `json:"win_amount"`
}

// PayoutDistribution is the full computed distribution for one match.
// Invariant: sum(Shares.WinAmount) + PlatformFee + Remainder == TotalPool.
type PayoutDistribution struct {
	TotalPool   float64       `json:"total_pool"`
	PlatformFee float64       `json:"platform_fee"`
	PrizePool   float64       `json:"prize_pool"`
	Remainder   float64       `json:"remainder"`
	Shares      []PayoutShare `json:"shares"`
}

// DistributePool computes proportional winnings from the set of bets active
// at settlement time. Pure function, no I/O.
//
// Each winning bet receives floor(prizePool * amount/totalWinningStake):
// rounding is always down, so payouts can never exceed the prize pool. The
// bounded remainder stays with the platform and is reported explicitly, never
// dropped. A winner with zero backing stake yields zero payouts and the whole
// prize pool is retained as revenue — deliberate policy, not an error.
func DistributePool(bets []models.Bet, winners map[string]bool, feeRate float64) (PayoutDistribution, error) {
	var d PayoutDistribution
	if feeRate < 0 || feeRate >= 1 {
		return d, fmt.Errorf("%w: fee rate %.2f out of range [0,1)", ErrValidation, feeRate)
	}

	for _, b := range bets {
		d.TotalPool += b.Amount
	}
	d.PlatformFee = d.TotalPool * feeRate
	d.PrizePool = d.TotalPool - d.PlatformFee

	var winningStake float64
	for _, b := range bets {
		if winners[b.UserID] {
			winningStake += b.Amount
		}
	}
	if winningStake == 0 {
		d.Remainder = d.PrizePool
		return d, nil
	}

	var paid float64
	for _, b := range bets {
		if !winners[b.UserID] {
			continue
		}
		win := math.Floor(d.PrizePool * (b.Amount / winningStake))
		d.Shares = append(d.Shares, PayoutShare{UserID: b.UserID, BetID: b.ID, WinAmount: win})
		paid += win
	}
	if paid > d.PrizePool {
		return d, fmt.Errorf("%w: computed payouts %.2f exceed prize pool %.2f", ErrConservation, paid, d.PrizePool)
	}
	d.Remainder = d.PrizePool - paid
	return d, nil
}
