package services

import (
	"testing"

	"github.com/ViniDeiro/rpx-sub004/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func poolBet(id, userID string, amount float64) models.Bet {
	return models.Bet{ID: id, UserID: userID, Amount: amount, Status: models.BetStatusActive}
}

func TestDistributePoolWorkedExample(t *testing.T) {
	bets := []models.Bet{
		poolBet("bet-a", "user1", 100),
		poolBet("bet-b", "user2", 50),
	}

	dist, err := DistributePool(bets, map[string]bool{"user1": true}, 0.10)
	require.NoError(t, err)

	assert.InDelta(t, 150.0, dist.TotalPool, 1e-9)
	assert.InDelta(t, 15.0, dist.PlatformFee, 1e-9)
	assert.InDelta(t, 135.0, dist.PrizePool, 1e-9)
	assert.InDelta(t, 0.0, dist.Remainder, 1e-9)

	require.Len(t, dist.Shares, 1)
	assert.Equal(t, "user1", dist.Shares[0].UserID)
	assert.Equal(t, "bet-a", dist.Shares[0].BetID)
	assert.InDelta(t, 135.0, dist.Shares[0].WinAmount, 1e-9)
}

func TestDistributePoolConservation(t *testing.T) {
	cases := []struct {
		name    string
		amounts map[string]float64
		winners map[string]bool
	}{
		{"single winner", map[string]float64{"u1": 100, "u2": 50}, map[string]bool{"u1": true}},
		{"split winners", map[string]float64{"u1": 100, "u2": 55}, map[string]bool{"u1": true, "u2": true}},
		{"uneven stakes", map[string]float64{"u1": 33, "u2": 67, "u3": 101}, map[string]bool{"u1": true, "u3": true}},
		{"everyone wins", map[string]float64{"u1": 7, "u2": 13, "u3": 29}, map[string]bool{"u1": true, "u2": true, "u3": true}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var bets []models.Bet
			for userID, amount := range tc.amounts {
				bets = append(bets, poolBet("bet-"+userID, userID, amount))
			}

			dist, err := DistributePool(bets, tc.winners, 0.10)
			require.NoError(t, err)

			var paid float64
			for _, share := range dist.Shares {
				paid += share.WinAmount
			}

			// Σ payouts + fee == total − remainder, remainder bounded by the
			// number of winning bets
			assert.InDelta(t, dist.TotalPool-dist.Remainder, paid+dist.PlatformFee, 1e-6)
			assert.GreaterOrEqual(t, dist.Remainder, 0.0)
			assert.Less(t, dist.Remainder, float64(len(dist.Shares)))
			assert.LessOrEqual(t, paid, dist.PrizePool)
		})
	}
}

func TestDistributePoolFloorsTowardPlatform(t *testing.T) {
	bets := []models.Bet{
		poolBet("bet-a", "u1", 100),
		poolBet("bet-b", "u2", 55),
	}

	dist, err := DistributePool(bets, map[string]bool{"u1": true, "u2": true}, 0.10)
	require.NoError(t, err)

	// prize pool 139.5: shares floor to 90 and 49, the 0.5 stays with the house
	assert.InDelta(t, 139.5, dist.PrizePool, 1e-9)
	require.Len(t, dist.Shares, 2)
	var paid float64
	for _, share := range dist.Shares {
		assert.Equal(t, share.WinAmount, float64(int64(share.WinAmount)))
		paid += share.WinAmount
	}
	assert.InDelta(t, 139.0, paid, 1e-9)
	assert.InDelta(t, 0.5, dist.Remainder, 1e-9)
}

func TestDistributePoolNoBackers(t *testing.T) {
	bets := []models.Bet{
		poolBet("bet-a", "u1", 100),
		poolBet("bet-b", "u2", 50),
	}

	// winner placed no bet: zero payouts, the whole prize pool is retained
	dist, err := DistributePool(bets, map[string]bool{"u3": true}, 0.10)
	require.NoError(t, err)

	assert.Empty(t, dist.Shares)
	assert.InDelta(t, 135.0, dist.PrizePool, 1e-9)
	assert.InDelta(t, 135.0, dist.Remainder, 1e-9)
}

func TestDistributePoolEmptyBetSet(t *testing.T) {
	dist, err := DistributePool(nil, map[string]bool{"u1": true}, 0.10)
	require.NoError(t, err)
	assert.Zero(t, dist.TotalPool)
	assert.Empty(t, dist.Shares)
}

func TestDistributePoolRejectsBadFeeRate(t *testing.T) {
	_, err := DistributePool(nil, nil, -0.1)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = DistributePool(nil, nil, 1.0)
	assert.ErrorIs(t, err, ErrValidation)
}
