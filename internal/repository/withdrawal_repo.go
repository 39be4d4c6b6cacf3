package repository

import (
	"earnrewardzz/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WithdrawalRepository struct {
	db *gorm.DB
}

func NewWithdrawalRepository(db *gorm.DB) *WithdrawalRepository {
	return &WithdrawalRepository{db: db}
}

// CreateTx inserts the payout record inside the caller's ledger transaction
// so the reservation debit and the record are one atomic unit.
func (r *WithdrawalRepository) CreateTx(tx *gorm.DB, w *models.Withdrawal) error {
	return tx.Create(w).Error
}

func (r *WithdrawalRepository) GetByID(id uint) (*models.Withdrawal, error) {
	var w models.Withdrawal
	err := r.db.First(&w, id).Error
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// LockByID selects a withdrawal FOR UPDATE inside the caller's transaction.
func (r *WithdrawalRepository) LockByID(tx *gorm.DB, id uint) (*models.Withdrawal, error) {
	var w models.Withdrawal
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&w, id).Error
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *WithdrawalRepository) ListByUser(userID uint, limit, offset int) ([]models.Withdrawal, error) {
	var list []models.Withdrawal
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&list).Error
	return list, err
}

func (r *WithdrawalRepository) ListByStatus(status string, limit, offset int) ([]models.Withdrawal, error) {
	q := r.db.Order("created_at ASC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var list []models.Withdrawal
	err := q.Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}
