package repository

import (
	"earnrewardzz/internal/domain"
	"earnrewardzz/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GiveawayRepository struct {
	db *gorm.DB
}

func NewGiveawayRepository(db *gorm.DB) *GiveawayRepository {
	return &GiveawayRepository{db: db}
}

func (r *GiveawayRepository) Create(g *models.Giveaway) error {
	return r.db.Create(g).Error
}

func (r *GiveawayRepository) GetByID(id uint) (*models.Giveaway, error) {
	var g models.Giveaway
	err := r.db.First(&g, id).Error
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *GiveawayRepository) ListActive() ([]models.Giveaway, error) {
	var list []models.Giveaway
	err := r.db.Where("status = ?", domain.GiveawayStatusActive).
		Order("created_at DESC").Find(&list).Error
	return list, err
}

func (r *GiveawayRepository) ListWinners(limit int) ([]models.Giveaway, error) {
	var list []models.Giveaway
	err := r.db.Where("status = ? AND winner_user_id IS NOT NULL", domain.GiveawayStatusDrawn).
		Order("updated_at DESC").Limit(limit).Find(&list).Error
	return list, err
}

func (r *GiveawayRepository) UpdateStatus(id uint, status string) error {
	return r.db.Model(&models.Giveaway{}).Where("id = ?", id).
		Update("status", status).Error
}

// AddTicketsTx upserts the (user, giveaway) ticket row, incrementing the
// count, inside the caller's purchase transaction.
func (r *GiveawayRepository) AddTicketsTx(tx *gorm.DB, userID, giveawayID uint, count, costPerTicket int64) error {
	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "giveaway_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"tickets_purchased": gorm.Expr("tickets_purchased + ?", count),
		}),
	}).Create(&models.GiveawayTicket{
		UserID:             userID,
		GiveawayID:         giveawayID,
		TicketsPurchased:   count,
		TokenCostPerTicket: costPerTicket,
	}).Error
}

// TicketsByGiveaway returns every holder's ticket row for one giveaway.
func (r *GiveawayRepository) TicketsByGiveaway(giveawayID uint) ([]models.GiveawayTicket, error) {
	var list []models.GiveawayTicket
	err := r.db.Where("giveaway_id = ?", giveawayID).Find(&list).Error
	return list, err
}

// SetWinner finalizes the giveaway with its drawn winner.
func (r *GiveawayRepository) SetWinner(id, winnerUserID uint) error {
	return r.db.Model(&models.Giveaway{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"winner_user_id": winnerUserID,
			"status":         domain.GiveawayStatusDrawn,
		}).Error
}

func (r *GiveawayRepository) TicketsByUser(userID uint) ([]models.GiveawayTicket, error) {
	var list []models.GiveawayTicket
	err := r.db.Where("user_id = ?", userID).
		Preload("Giveaway").
		Order("created_at DESC").Find(&list).Error
	return list, err
}

func (r *GiveawayRepository) TicketCount(userID, giveawayID uint) (int64, error) {
	var t models.GiveawayTicket
	err := r.db.Where("user_id = ? AND giveaway_id = ?", userID, giveawayID).First(&t).Error
	if err == gorm.ErrRecordNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return t.TicketsPurchased, nil
}
