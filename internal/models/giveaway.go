package models

import (
	"time"

	"gorm.io/gorm"
)

type Giveaway struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Title           string         `gorm:"size:128;not null" json:"title"`
	Prize           string         `gorm:"size:128" json:"prize"`
	TicketTokenCost int64          `gorm:"not null" json:"ticket_token_cost"`
	Status          string         `gorm:"size:12;not null;index" json:"status"` // active | closed | drawn
	EndsAt          *time.Time     `json:"ends_at"`
	WinnerUserID    *uint          `json:"winner_user_id"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Giveaway) TableName() string { return "giveaways" }

// Open reports whether tickets can still be bought.
func (g *Giveaway) Open(now time.Time) bool {
	if g.Status != "active" {
		return false
	}
	return g.EndsAt == nil || now.Before(*g.EndsAt)
}

// GiveawayTicket accumulates one user's tickets for one giveaway.
type GiveawayTicket struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	UserID             uint      `gorm:"not null;uniqueIndex:idx_user_giveaway" json:"user_id"`
	GiveawayID         uint      `gorm:"not null;uniqueIndex:idx_user_giveaway" json:"giveaway_id"`
	TicketsPurchased   int64     `gorm:"not null;default:0" json:"tickets_purchased"`
	TokenCostPerTicket int64     `gorm:"not null" json:"token_cost_per_ticket"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`

	User     User     `gorm:"foreignKey:UserID" json:"-"`
	Giveaway Giveaway `gorm:"foreignKey:GiveawayID" json:"giveaway,omitempty"`
}

func (GiveawayTicket) TableName() string { return "giveaway_tickets" }
