package models

import (
	"time"

	"gorm.io/gorm"
)

// Wallet holds both sub-ledgers for one account: coins (cash-convertible)
// and tokens (giveaway-only). Balances are mutated only inside row-locked
// transactions; never written from request payloads.
type Wallet struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"uniqueIndex;not null" json:"user_id"`

	CoinBalance  int64 `gorm:"not null;default:0" json:"coin_balance"`
	CoinPending  int64 `gorm:"not null;default:0" json:"coin_pending"` // reserved by pending withdrawals
	CoinLifetime int64 `gorm:"not null;default:0" json:"coin_lifetime"`

	TokenBalance  int64 `gorm:"not null;default:0" json:"token_balance"`
	TokenLifetime int64 `gorm:"not null;default:0" json:"token_lifetime"`

	SpinsLeft       int    `gorm:"not null;default:0" json:"spins_left"`
	AdsWatchedToday int    `gorm:"not null;default:0" json:"ads_watched_today"`
	AdsDay          string `gorm:"size:10" json:"-"` // UTC day the ad counter belongs to
	LastCheckinDay  string `gorm:"size:10" json:"-"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Wallet) TableName() string { return "wallets" }

// RolloverAdDay lazily resets the ad counter when the stored day is stale.
// There is no scheduler; every cap check calls this under the row lock.
func (w *Wallet) RolloverAdDay(today string) {
	if w.AdsDay != today {
		w.AdsDay = today
		w.AdsWatchedToday = 0
	}
}

func (w *Wallet) CheckinClaimed(today string) bool {
	return w.LastCheckinDay == today
}
