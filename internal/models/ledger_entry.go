package models

import (
	"time"

	"gorm.io/gorm"
)

// LedgerEntry is the append-only history record behind every balance change.
// Balance itself is a materialized aggregate on the wallet row; history is
// for display and audit, never summed in the hot path. Entries are immutable
// except the pending->paid transition on withdrawal entries.
type LedgerEntry struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	Currency  string         `gorm:"size:8;not null;index" json:"currency"` // coin | token
	Delta     int64          `gorm:"not null" json:"delta"`                 // positive = credit, negative = debit
	Source    string         `gorm:"size:24;not null;index" json:"source"`
	Status    string         `gorm:"size:12;not null;default:'completed'" json:"status"`
	Reference string         `gorm:"size:128" json:"reference"` // e.g. withdrawal_42, gift uuid, placement id
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (LedgerEntry) TableName() string { return "ledger_entries" }
