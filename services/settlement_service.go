package services

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/ViniDeiro/rpx-sub004/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PaymentResult is one bet's settlement outcome.
type PaymentResult struct {
	UserID string           `json:"user_id"`
	BetID  string           `json:"bet_id"`
	Status models.BetStatus `json:"status"`
	Amount float64          `json:"amount"`
}

// SettlementResult is returned to the validating admin after commit.
type SettlementResult struct {
	MatchID        string          `json:"match_id"`
	PaymentResults []PaymentResult `json:"payment_results"`
	RankUpdates    []RankUpdate    `json:"rank_updates"`
	PlatformFee    float64         `json:"platform_fee"`
	PrizePool      float64         `json:"prize_pool"`
	Remainder      float64         `json:"remainder"`
}

// SettlementService coordinates full match resolution: it validates the
// outcome claim, runs the payout distribution, applies every bet transition
// and wallet credit as one atomic unit, and fires rank and notification side
// effects after commit.
type SettlementService struct {
	DB       *gorm.DB
	FeeRate  float64
	Ranks    *RankService
	Notifier *Notifier
	ledger   WagerLedger
	wallet   WalletLedger
}

func NewSettlementService(db *gorm.DB, feeRate float64, ranks *RankService, notifier *Notifier) *SettlementService {
	return &SettlementService{DB: db, FeeRate: feeRate, Ranks: ranks, Notifier: notifier}
}

// ValidateMatch finalizes a match outcome exactly once. The compare-and-set
// on match status (must be awaiting_validation) guards against double
// settlement: once the status has moved, any retry fails with
// ErrInvalidMatchState and never re-pays. Any failure inside the atomic unit
// rolls back in full, leaving the match awaiting_validation and the whole
// operation safe to retry from scratch.
func (s *SettlementService) ValidateMatch(matchID, winnerID string, winnerType models.WinnerType, validatorID, notes string) (*SettlementResult, error) {
	if winnerID == "" {
		return nil, fmt.Errorf("%w: winner id is required", ErrValidation)
	}
	if winnerType != models.WinnerTypeUser && winnerType != models.WinnerTypeTeam {
		return nil, fmt.Errorf("%w: unknown winner type %q", ErrValidation, winnerType)
	}

	var match models.Match
	if err := s.DB.Preload("Participants").Where("id = ?", matchID).First(&match).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: match %s", ErrNotFound, matchID)
		}
		return nil, err
	}
	if match.Status != models.MatchStatusAwaitingValidation {
		return nil, fmt.Errorf("%w: match %s is %s, expected awaiting_validation", ErrInvalidMatchState, matchID, match.Status)
	}

	winnerUserIDs, err := resolveWinners(match, winnerID, winnerType)
	if err != nil {
		return nil, err
	}

	result := &SettlementResult{MatchID: matchID}
	losers := map[string]bool{}

	err = runInTx(s.DB, func(tx *gorm.DB) error {
		result.PaymentResults = nil
		losers = map[string]bool{}

		// Serialization point: the losing concurrent caller sees zero rows.
		now := time.Now()
		res := tx.Model(&models.Match{}).
			Where("id = ? AND status = ?", matchID, models.MatchStatusAwaitingValidation).
			Updates(map[string]interface{}{
				"status":       models.MatchStatusValidated,
				"winner_id":    winnerID,
				"winner_type":  winnerType,
				"validated_by": validatorID,
				"validated_at": now,
				"notes":        notes,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: match %s already settled", ErrInvalidMatchState, matchID)
		}

		bets, err := s.ledger.ActiveBetsForMatch(tx, matchID)
		if err != nil {
			return err
		}

		dist, err := DistributePool(bets, winnerUserIDs, s.FeeRate)
		if err != nil {
			return err
		}
		result.PlatformFee = dist.PlatformFee
		result.PrizePool = dist.PrizePool
		result.Remainder = dist.Remainder

		winByBet := make(map[string]float64, len(dist.Shares))
		for _, share := range dist.Shares {
			winByBet[share.BetID] = share.WinAmount
		}

		for i := range bets {
			bet := &bets[i]
			if winnerUserIDs[bet.UserID] {
				win := winByBet[bet.ID]
				if err := s.ledger.Transition(tx, bet, models.BetStatusWon, win, models.TransactionTypePayout); err != nil {
					return err
				}
				result.PaymentResults = append(result.PaymentResults, PaymentResult{
					UserID: bet.UserID, BetID: bet.ID, Status: models.BetStatusWon, Amount: win,
				})
			} else {
				if err := s.ledger.Transition(tx, bet, models.BetStatusLost, 0, ""); err != nil {
					return err
				}
				losers[bet.UserID] = true
				result.PaymentResults = append(result.PaymentResults, PaymentResult{
					UserID: bet.UserID, BetID: bet.ID, Status: models.BetStatusLost, Amount: 0,
				})
			}
		}

		if dist.PlatformFee > 0 {
			if err := s.wallet.RecordRevenue(tx, dist.PlatformFee, matchID); err != nil {
				return err
			}
		}

		return s.writeAudit(tx, match, winnerID, winnerType, validatorID, notes, dist)
	})
	if err != nil {
		return nil, err
	}

	// Side effects only after the financial transaction has committed.
	result.RankUpdates = s.applySideEffects(match, winnerUserIDs, losers, result)

	log.Printf("✅ Match %s settled: %d bets, fee=%.2f, pool=%.2f, remainder=%.2f",
		matchID, len(result.PaymentResults), result.PlatformFee, result.PrizePool, result.Remainder)
	return result, nil
}

// resolveWinners expands the claimed winner into user ids. A team winner
// resolves to its member ids; an empty expansion rejects the claim.
func resolveWinners(match models.Match, winnerID string, winnerType models.WinnerType) (map[string]bool, error) {
	winners := map[string]bool{}
	switch winnerType {
	case models.WinnerTypeUser:
		for _, p := range match.Participants {
			if p.UserID == winnerID {
				winners[winnerID] = true
			}
		}
	case models.WinnerTypeTeam:
		for _, p := range match.Participants {
			if p.Team == winnerID {
				winners[p.UserID] = true
			}
		}
	}
	if len(winners) == 0 {
		return nil, fmt.Errorf("%w: winner %s (%s) resolves to no match participants", ErrValidation, winnerID, winnerType)
	}
	return winners, nil
}

func (s *SettlementService) writeAudit(tx *gorm.DB, match models.Match, winnerID string, winnerType models.WinnerType, validatorID, notes string, dist PayoutDistribution) error {
	payload, err := json.Marshal(map[string]interface{}{
		"winner_id":    winnerID,
		"winner_type":  winnerType,
		"notes":        notes,
		"game_mode":    match.GameMode,
		"distribution": dist,
	})
	if err != nil {
		return err
	}
	entry := models.AuditLog{
		ID:        uuid.NewString(),
		Action:    "match_validated",
		ActorID:   validatorID,
		Reference: match.ID,
		Payload:   string(payload),
	}
	return tx.Create(&entry).Error
}

// applySideEffects updates rank standings and queues notifications. These are
// fire-and-forget: a failure here is logged and never reverses the committed
// financial state.
func (s *SettlementService) applySideEffects(match models.Match, winners, losers map[string]bool, result *SettlementResult) []RankUpdate {
	points := PointsForMode(match.GameMode)
	var updates []RankUpdate

	winAmounts := map[string]float64{}
	for _, pr := range result.PaymentResults {
		if pr.Status == models.BetStatusWon {
			winAmounts[pr.UserID] += pr.Amount
		}
	}

	for userID := range winners {
		if update, err := s.Ranks.ApplyResult(userID, points.Win); err != nil {
			log.Printf("⚠️ rank update failed for winner %s on match %s: %v", userID, match.ID, err)
		} else {
			updates = append(updates, *update)
		}
		s.Notifier.Enqueue(userID, "bet_won", "You won!",
			fmt.Sprintf("Your bet paid out %.2f", winAmounts[userID]),
			map[string]interface{}{"match_id": match.ID, "amount": winAmounts[userID]})
	}
	for userID := range losers {
		if update, err := s.Ranks.ApplyResult(userID, points.Loss); err != nil {
			log.Printf("⚠️ rank update failed for loser %s on match %s: %v", userID, match.ID, err)
		} else {
			updates = append(updates, *update)
		}
		s.Notifier.Enqueue(userID, "bet_lost", "Match settled",
			"Your bet did not win this time",
			map[string]interface{}{"match_id": match.ID})
	}
	return updates
}
