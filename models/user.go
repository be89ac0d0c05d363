package models

// PlayerAccount holds the wallet balance and rank standing for one user.
// Balance is mutated only through atomic increments issued by the wallet
// ledger; rank_points is the persisted truth for tier derivation. Tier is
// denormalized for reads and recomputed on every points change, with the two
// position-based top tiers overlaid by the leaderboard refresh job.
type PlayerAccount struct {
	ID          string  `gorm:"primaryKey;type:uuid" json:"id"`
	Username    string  `gorm:"index;not null" json:"username"`
	Balance     float64 `gorm:"not null;default:0" json:"balance"`
	RankPoints  int64   `gorm:"not null;default:0;check:rank_points >= 0" json:"rank_points"`
	CurrentTier string  `gorm:"type:varchar(24);default:'Novice'" json:"current_tier"`

	Timestamps
}
