package services

import (
	"path/filepath"
	"testing"

	"github.com/ViniDeiro/rpx-sub004/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "wager.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Match{},
		&models.MatchParticipant{},
		&models.Bet{},
		&models.Transaction{},
		&models.PlayerAccount{},
		&models.AuditLog{},
		&models.Notification{},
	))
	return db
}

func seedAccount(t *testing.T, db *gorm.DB, username string, balance float64, points int64) models.PlayerAccount {
	t.Helper()
	acct := models.PlayerAccount{
		ID:          uuid.NewString(),
		Username:    username,
		Balance:     balance,
		RankPoints:  points,
		CurrentTier: TierForPoints(points),
	}
	require.NoError(t, db.Create(&acct).Error)
	return acct
}

// seedMatch creates a match with one participant row per entry in teams,
// keyed by user id.
func seedMatch(t *testing.T, db *gorm.DB, status models.MatchStatus, mode string, teams map[string]string) models.Match {
	t.Helper()
	match := models.Match{
		ID:                  uuid.NewString(),
		GameMode:            mode,
		Status:              status,
		ExpectedDurationSec: 900,
	}
	require.NoError(t, db.Create(&match).Error)
	for userID, team := range teams {
		p := models.MatchParticipant{
			ID:      uuid.NewString(),
			MatchID: match.ID,
			UserID:  userID,
			Team:    team,
		}
		require.NoError(t, db.Create(&p).Error)
	}
	return match
}

func seedBet(t *testing.T, db *gorm.DB, matchID, userID string, amount, odd float64) models.Bet {
	t.Helper()
	bet := models.Bet{
		ID:           uuid.NewString(),
		MatchID:      matchID,
		UserID:       userID,
		Amount:       amount,
		Odd:          odd,
		PotentialWin: amount * odd,
		Status:       models.BetStatusActive,
	}
	require.NoError(t, db.Create(&bet).Error)
	return bet
}

func accountBalance(t *testing.T, db *gorm.DB, userID string) float64 {
	t.Helper()
	var acct models.PlayerAccount
	require.NoError(t, db.Where("id = ?", userID).First(&acct).Error)
	return acct.Balance
}

func transactionsFor(t *testing.T, db *gorm.DB, userID string) []models.Transaction {
	t.Helper()
	var entries []models.Transaction
	require.NoError(t, db.Where("user_id = ?", userID).Order("created_at ASC").Find(&entries).Error)
	return entries
}
