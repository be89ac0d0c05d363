package services

import (
	"fmt"
	"testing"

	"github.com/ViniDeiro/rpx-sub004/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTierForPoints(t *testing.T) {
	cases := []struct {
		points int64
		tier   string
	}{
		{0, "Novice"},
		{99, "Novice"},
		{100, "Bronze I"},
		{349, "Bronze II"},
		{350, "Bronze III"},
		{500, "Silver I"},
		{999, "Silver III"},
		{1000, "Gold I"},
		{1599, "Gold II"},
		{3599, "Platinum III"},
		{4999, "Diamond II"},
		{5000, "Diamond III"},
		{99999, "Diamond III"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.tier, TierForPoints(tc.points), "points %d", tc.points)
	}
}

func TestPointsForMode(t *testing.T) {
	assert.Equal(t, RankPointsDelta{Win: 25, Loss: -10}, PointsForMode("casual"))
	assert.Equal(t, RankPointsDelta{Win: 75, Loss: -30}, PointsForMode("ranked"))
	assert.Equal(t, RankPointsDelta{Win: 150, Loss: -50}, PointsForMode("tournament"))
	// unknown modes fall back to casual scoring
	assert.Equal(t, PointsForMode("casual"), PointsForMode("arcade"))
}

func TestApplyResultPromotesAcrossThreshold(t *testing.T) {
	db := newTestDB(t)
	svc := NewRankService(db, NewNotifier(db))

	acct := seedAccount(t, db, "climber", 0, 950) // Silver III

	update, err := svc.ApplyResult(acct.ID, 75)
	require.NoError(t, err)

	assert.Equal(t, int64(1025), update.RankPoints)
	assert.Equal(t, "Silver III", update.OldTier)
	assert.Equal(t, "Gold I", update.NewTier)
	assert.True(t, update.TierChanged)

	var reloaded models.PlayerAccount
	require.NoError(t, db.Where("id = ?", acct.ID).First(&reloaded).Error)
	assert.Equal(t, int64(1025), reloaded.RankPoints)
	assert.Equal(t, "Gold I", reloaded.CurrentTier)

	// promotion queues a rank change notification
	var notes []models.Notification
	require.NoError(t, db.Where("user_id = ?", acct.ID).Find(&notes).Error)
	require.Len(t, notes, 1)
	assert.Equal(t, "rank_change", notes[0].Type)
}

func TestApplyResultNoTierChangeNoNotification(t *testing.T) {
	db := newTestDB(t)
	svc := NewRankService(db, NewNotifier(db))

	acct := seedAccount(t, db, "steady", 0, 500) // Silver I

	update, err := svc.ApplyResult(acct.ID, 25)
	require.NoError(t, err)
	assert.Equal(t, int64(525), update.RankPoints)
	assert.False(t, update.TierChanged)

	var notes []models.Notification
	require.NoError(t, db.Where("user_id = ?", acct.ID).Find(&notes).Error)
	assert.Empty(t, notes)
}

func TestApplyResultFloorsAtZero(t *testing.T) {
	db := newTestDB(t)
	svc := NewRankService(db, NewNotifier(db))

	acct := seedAccount(t, db, "rookie", 0, 5)

	update, err := svc.ApplyResult(acct.ID, -30)
	require.NoError(t, err)
	assert.Equal(t, int64(0), update.RankPoints)
	assert.Equal(t, "Novice", update.NewTier)
}

func TestApplyResultUnknownAccount(t *testing.T) {
	db := newTestDB(t)
	svc := NewRankService(db, NewNotifier(db))

	_, err := svc.ApplyResult("7c6b5a49-0000-4000-8000-000000000000", 25)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestApplyResultKeepsPositionalTier(t *testing.T) {
	db := newTestDB(t)
	svc := NewRankService(db, NewNotifier(db))

	acct := seedAccount(t, db, "top-dog", 0, 6000)
	require.NoError(t, db.Model(&models.PlayerAccount{}).Where("id = ?", acct.ID).
		Update("current_tier", TierChallenger).Error)

	// losing points does not demote out of a leaderboard tier
	update, err := svc.ApplyResult(acct.ID, -50)
	require.NoError(t, err)
	assert.Equal(t, TierChallenger, update.NewTier)
	assert.False(t, update.TierChanged)
}

func TestRefreshTopTiers(t *testing.T) {
	db := newTestDB(t)
	svc := NewRankService(db, NewNotifier(db))

	// twelve players above the Diamond III floor, descending by points
	var ids []string
	for i := 0; i < 12; i++ {
		acct := seedAccount(t, db, fmt.Sprintf("elite-%02d", i), 0, int64(8000-i*100))
		ids = append(ids, acct.ID)
	}
	below := seedAccount(t, db, "almost", 0, 4900) // Diamond II, ineligible

	require.NoError(t, svc.RefreshTopTiers())

	tierOf := func(id string) string {
		var acct models.PlayerAccount
		require.NoError(t, db.Where("id = ?", id).First(&acct).Error)
		return acct.CurrentTier
	}

	assert.Equal(t, TierChallenger, tierOf(ids[0]))
	for i := 1; i < 10; i++ {
		assert.Equal(t, TierLegend, tierOf(ids[i]), "rank %d", i+1)
	}
	// slots 11-12 stay on their threshold tier
	assert.Equal(t, "Diamond III", tierOf(ids[10]))
	assert.Equal(t, "Diamond III", tierOf(ids[11]))
	assert.Equal(t, "Diamond II", tierOf(below.ID))

	// running it again is a no-op
	require.NoError(t, svc.RefreshTopTiers())
	assert.Equal(t, TierChallenger, tierOf(ids[0]))
	assert.Equal(t, TierLegend, tierOf(ids[5]))
}

func TestRefreshTopTiersDemotesFallenHolders(t *testing.T) {
	db := newTestDB(t)
	svc := NewRankService(db, NewNotifier(db))

	// a previous Challenger who dropped below the floor
	fallen := seedAccount(t, db, "fallen", 0, 2600)
	require.NoError(t, db.Model(&models.PlayerAccount{}).Where("id = ?", fallen.ID).
		Update("current_tier", TierChallenger).Error)
	current := seedAccount(t, db, "current", 0, 7000)

	require.NoError(t, svc.RefreshTopTiers())

	var f, c models.PlayerAccount
	require.NoError(t, db.Where("id = ?", fallen.ID).First(&f).Error)
	require.NoError(t, db.Where("id = ?", current.ID).First(&c).Error)
	assert.Equal(t, "Platinum II", f.CurrentTier) // back to threshold tier
	assert.Equal(t, TierChallenger, c.CurrentTier)
}

func TestLeaderboardOrdering(t *testing.T) {
	db := newTestDB(t)
	svc := NewRankService(db, NewNotifier(db))

	seedAccount(t, db, "third", 0, 100)
	seedAccount(t, db, "first", 0, 900)
	seedAccount(t, db, "second", 0, 400)

	accounts, err := svc.Leaderboard(2)
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "first", accounts[0].Username)
	assert.Equal(t, "second", accounts[1].Username)
}
