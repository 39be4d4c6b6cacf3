package models

import "time"

// OTPCredential is the one live login code per email. Upserted on request,
// deleted on successful verification or observed expiry. Only the bcrypt
// hash is stored.
type OTPCredential struct {
	Email       string    `gorm:"primaryKey;size:255" json:"email"`
	OTPHash     string    `gorm:"size:255;not null" json:"-"`
	Expiry      int64     `gorm:"not null" json:"expiry"` // unix milliseconds
	PhoneNumber string    `gorm:"size:20" json:"phone_number"`
	IsSignup    bool      `gorm:"not null;default:false" json:"is_signup"`
	CreatedAt   time.Time `json:"created_at"`
}

func (OTPCredential) TableName() string { return "otps" }

func (o *OTPCredential) ExpiredAt(t time.Time) bool {
	return t.UnixMilli() > o.Expiry
}
