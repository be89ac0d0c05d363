package services

import (
	"fmt"
	"log"
	"time"

	"github.com/ViniDeiro/rpx-sub004/models"
	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// TierThreshold maps a minimum rank-points value to a tier name. The table is
// ascending; a player holds the highest tier whose threshold they meet.
type TierThreshold struct {
	Name      string
	MinPoints int64
}

var TierTable = []TierThreshold{
	{"Novice", 0},
	{"Bronze I", 100},
	{"Bronze II", 200},
	{"Bronze III", 350},
	{"Silver I", 500},
	{"Silver II", 700},
	{"Silver III", 900},
	{"Gold I", 1000},
	{"Gold II", 1300},
	{"Gold III", 1600},
	{"Platinum I", 2000},
	{"Platinum II", 2500},
	{"Platinum III", 3000},
	{"Diamond I", 3600},
	{"Diamond II", 4300},
	{"Diamond III", 5000},
}

// The two top tiers are position-based: they come from leaderboard standing,
// not points, and are assigned by the periodic refresh job.
const (
	TierLegend     = "Legend"
	TierChallenger = "Challenger"

	challengerSlots = 1
	legendSlots     = 9
)

// RankPointsDelta holds the fixed points awarded per outcome. Values are
// looked up by game mode, never computed.
type RankPointsDelta struct {
	Win  int64
	Loss int64
}

var pointsByMode = map[string]RankPointsDelta{
	"casual":     {Win: 25, Loss: -10},
	"ranked":     {Win: 75, Loss: -30},
	"tournament": {Win: 150, Loss: -50},
}

// PointsForMode returns the per-outcome points table for a game mode,
// defaulting to casual for unknown modes.
func PointsForMode(mode string) RankPointsDelta {
	if d, ok := pointsByMode[mode]; ok {
		return d
	}
	return pointsByMode["casual"]
}

// TierForPoints resolves the threshold tier for a points total.
func TierForPoints(points int64) string {
	tier := TierTable[0].Name
	for _, t := range TierTable {
		if points >= t.MinPoints {
			tier = t.Name
		}
	}
	return tier
}

// positional reports whether a tier is leaderboard-assigned rather than
// threshold-derived.
func positional(tier string) bool {
	return tier == TierLegend || tier == TierChallenger
}

// RankUpdate describes the outcome of applying a result to a player.
type RankUpdate struct {
	UserID      string `json:"user_id"`
	OldTier     string `json:"old_tier"`
	NewTier     string `json:"new_tier"`
	RankPoints  int64  `json:"rank_points"`
	TierChanged bool   `json:"tier_changed"`
}

type RankService struct {
	DB       *gorm.DB
	Notifier *Notifier
}

func NewRankService(db *gorm.DB, notifier *Notifier) *RankService {
	return &RankService{DB: db, Notifier: notifier}
}

// ApplyResult adds pointsDelta to the player's counter, flooring at zero —
// losses never drive points negative — and recomputes the threshold tier.
// A rank-change notification fires iff the tier name differs. Runs in its own
// transaction: rank standing is a post-settlement side effect, not part of
// the financial unit of work.
func (s *RankService) ApplyResult(userID string, pointsDelta int64) (*RankUpdate, error) {
	var update *RankUpdate
	err := runInTx(s.DB, func(tx *gorm.DB) error {
		var acct models.PlayerAccount
		if err := tx.Where("id = ?", userID).First(&acct).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("%w: player account %s", ErrNotFound, userID)
			}
			return err
		}

		newPoints := acct.RankPoints + pointsDelta
		if newPoints < 0 {
			newPoints = 0
		}
		newTier := TierForPoints(newPoints)
		// A positional tier is only re-evaluated by the leaderboard job; points
		// alone never demote out of it.
		if positional(acct.CurrentTier) {
			newTier = acct.CurrentTier
		}

		update = &RankUpdate{
			UserID:      userID,
			OldTier:     acct.CurrentTier,
			NewTier:     newTier,
			RankPoints:  newPoints,
			TierChanged: newTier != acct.CurrentTier,
		}

		return tx.Model(&acct).Updates(map[string]interface{}{
			"rank_points":  newPoints,
			"current_tier": newTier,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	if update.TierChanged {
		s.Notifier.Enqueue(userID, "rank_change", "Rank updated",
			fmt.Sprintf("You reached %s", update.NewTier),
			map[string]interface{}{"old_tier": update.OldTier, "new_tier": update.NewTier, "rank_points": update.RankPoints})
	}
	return update, nil
}

// Leaderboard returns the top accounts by rank points.
func (s *RankService) Leaderboard(limit int) ([]models.PlayerAccount, error) {
	if limit < 1 || limit > 100 {
		limit = 50
	}
	var accounts []models.PlayerAccount
	err := s.DB.Order("rank_points DESC").Limit(limit).Find(&accounts).Error
	return accounts, err
}

// RefreshTopTiers reassigns the position-based tiers from the current
// leaderboard: slot 1 is Challenger, the next nine are Legend, provided the
// player at least holds Diamond III points. Everyone previously positional
// who fell out reverts to their threshold tier.
func (s *RankService) RefreshTopTiers() error {
	diamondFloor := TierTable[len(TierTable)-1].MinPoints

	type tierChange struct {
		userID  string
		oldTier string
		newTier string
	}
	var changes []tierChange

	err := runInTx(s.DB, func(tx *gorm.DB) error {
		var top []models.PlayerAccount
		if err := tx.Where("rank_points >= ?", diamondFloor).
			Order("rank_points DESC").
			Limit(challengerSlots + legendSlots).
			Find(&top).Error; err != nil {
			return err
		}

		assigned := make(map[string]string, len(top))
		for i, acct := range top {
			if i < challengerSlots {
				assigned[acct.ID] = TierChallenger
			} else {
				assigned[acct.ID] = TierLegend
			}
		}

		// Demote anyone holding a positional tier they no longer earn.
		var holders []models.PlayerAccount
		if err := tx.Where("current_tier IN ?", []string{TierLegend, TierChallenger}).
			Find(&holders).Error; err != nil {
			return err
		}
		for _, acct := range holders {
			if assigned[acct.ID] == acct.CurrentTier {
				continue
			}
			newTier := assigned[acct.ID]
			if newTier == "" {
				newTier = TierForPoints(acct.RankPoints)
			}
			if err := tx.Model(&acct).Update("current_tier", newTier).Error; err != nil {
				return err
			}
		}
		for _, acct := range top {
			if acct.CurrentTier == assigned[acct.ID] {
				continue
			}
			if err := tx.Model(&acct).Update("current_tier", assigned[acct.ID]).Error; err != nil {
				return err
			}
			changes = append(changes, tierChange{acct.ID, acct.CurrentTier, assigned[acct.ID]})
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, ch := range changes {
		s.Notifier.Enqueue(ch.userID, "rank_change", "Rank updated",
			fmt.Sprintf("You reached %s", ch.newTier),
			map[string]interface{}{"old_tier": ch.oldTier, "new_tier": ch.newTier})
	}
	return nil
}

// StartTierRefreshScheduler runs RefreshTopTiers periodically.
func (s *RankService) StartTierRefreshScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(5*time.Minute),
		gocron.NewTask(func() {
			if err := s.RefreshTopTiers(); err != nil {
				log.Printf("[Scheduler] top tier refresh failed: %v", err)
			}
		}),
	)
}
