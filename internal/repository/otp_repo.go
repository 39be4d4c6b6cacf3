package repository

import (
	"earnrewardzz/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OTPRepository struct {
	db *gorm.DB
}

func NewOTPRepository(db *gorm.DB) *OTPRepository {
	return &OTPRepository{db: db}
}

// Upsert replaces any prior unconsumed code for the email, keeping at most
// one live credential per address.
func (r *OTPRepository) Upsert(cred *models.OTPCredential) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		UpdateAll: true,
	}).Create(cred).Error
}

func (r *OTPRepository) GetByEmail(email string) (*models.OTPCredential, error) {
	var cred models.OTPCredential
	err := r.db.Where("email = ?", email).First(&cred).Error
	if err != nil {
		return nil, err
	}
	return &cred, nil
}

func (r *OTPRepository) Delete(email string) error {
	return r.db.Where("email = ?", email).Delete(&models.OTPCredential{}).Error
}
