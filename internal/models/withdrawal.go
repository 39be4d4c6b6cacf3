package models

import (
	"time"

	"gorm.io/gorm"
)

type Withdrawal struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	UserID         uint           `gorm:"not null;index" json:"user_id"`
	Coins          int64          `gorm:"not null" json:"coins"`      // reserved at creation, not approval
	USDCents       int64          `gorm:"not null" json:"usd_cents"`
	PaymentMethod  string         `gorm:"size:10;not null" json:"payment_method"` // paypal | upi
	PaymentAddress string         `gorm:"size:255;not null" json:"payment_address"`
	Status         string         `gorm:"size:12;not null;index" json:"status"` // pending | paid
	SecretCode     string         `gorm:"size:64;not null" json:"-"`            // bearer secret, returned once at creation
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	PaidAt         *time.Time     `json:"paid_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Withdrawal) TableName() string { return "withdrawals" }
