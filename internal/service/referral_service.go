package service

import (
	"context"
	"errors"
	"strings"

	"earnrewardzz/config"
	"earnrewardzz/internal/domain"
	"earnrewardzz/internal/metrics"
	"earnrewardzz/internal/models"
	"earnrewardzz/internal/repository"
	"earnrewardzz/pkg/logger"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// ReferralService handles code issuance and the one-shot redemption that
// pays both sides of the relationship.
type ReferralService struct {
	cfg          *config.RewardsConfig
	referralRepo *repository.ReferralRepository
	walletRepo   *repository.WalletRepository
	log          *logger.Logger
	metrics      *metrics.Metrics
}

func NewReferralService(
	cfg *config.RewardsConfig,
	referralRepo *repository.ReferralRepository,
	walletRepo *repository.WalletRepository,
	log *logger.Logger,
	m *metrics.Metrics,
) *ReferralService {
	return &ReferralService{
		cfg:          cfg,
		referralRepo: referralRepo,
		walletRepo:   walletRepo,
		log:          log,
		metrics:      m,
	}
}

func (s *ReferralService) Code(userID uint) (*models.ReferralCode, error) {
	return s.referralRepo.GetOrCreateCode(userID)
}

func (s *ReferralService) List(userID uint, limit, offset int) ([]models.Referral, error) {
	return s.referralRepo.ListByReferrerID(userID, limit, offset)
}

// Redeemed reports whether the user has already used someone's code.
func (s *ReferralService) Redeemed(userID uint) (bool, error) {
	_, err := s.referralRepo.GetByReferredUserID(userID)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, err
}

// Redeem pays the fixed bonus to both referrer and referred and records the
// completed relationship, all in one two-wallet transaction. Self-referral
// and double redemption are rejected; the unique index on referred_user_id
// backstops the pre-check under races.
func (s *ReferralService) Redeem(ctx context.Context, userID uint, code string) error {
	code = strings.TrimSpace(strings.ToUpper(code))
	if code == "" {
		return domain.E(domain.KindValidation, "referral code is required")
	}
	rc, err := s.referralRepo.GetByCode(code)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.E(domain.KindNotFound, "referral code not found")
	}
	if err != nil {
		return err
	}
	if rc.UserID == userID {
		return domain.E(domain.KindValidation, "cannot redeem your own referral code")
	}
	if done, err := s.Redeemed(userID); err != nil {
		return err
	} else if done {
		return domain.E(domain.KindAlreadyClaimed, "referral code already redeemed")
	}

	bonus := s.cfg.ReferralBonusTokens
	err = s.walletRepo.WithWalletPair(ctx, rc.UserID, userID, func(tx *gorm.DB, referrer, referred *models.Wallet) error {
		if err := s.referralRepo.CreateTx(tx, &models.Referral{
			ReferrerID:     rc.UserID,
			ReferredUserID: userID,
			Code:           code,
			Status:         domain.ReferralStatusCompleted,
		}); err != nil {
			var me *mysql.MySQLError
			if errors.As(err, &me) && me.Number == 1062 {
				return domain.E(domain.KindAlreadyClaimed, "referral code already redeemed")
			}
			return err
		}
		if err := repository.ApplyCredit(referrer, domain.CurrencyToken, bonus); err != nil {
			return err
		}
		if err := repository.ApplyCredit(referred, domain.CurrencyToken, bonus); err != nil {
			return err
		}
		if err := tx.Save(referrer).Error; err != nil {
			return err
		}
		if err := tx.Save(referred).Error; err != nil {
			return err
		}
		if err := repository.AppendEntry(tx, rc.UserID, domain.CurrencyToken, bonus,
			domain.SourceReferralBonus, domain.EntryStatusCompleted, code); err != nil {
			return err
		}
		return repository.AppendEntry(tx, userID, domain.CurrencyToken, bonus,
			domain.SourceReferralBonus, domain.EntryStatusCompleted, code)
	})
	if err != nil {
		return err
	}
	s.metrics.RewardsIssued.WithLabelValues(domain.SourceReferralBonus, domain.CurrencyToken).Add(2)
	return nil
}
