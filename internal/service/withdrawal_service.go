package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"earnrewardzz/config"
	"earnrewardzz/internal/domain"
	"earnrewardzz/internal/metrics"
	"earnrewardzz/internal/models"
	"earnrewardzz/internal/repository"
	"earnrewardzz/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Payment addresses for both paypal and upi are email-shaped (user@bank for
// UPI handles).
var addressPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+$`)

// WithdrawalService validates payout requests, reserves coins at creation
// time, and handles the pending->paid settlement plus gift transfers.
type WithdrawalService struct {
	cfg            *config.RewardsConfig
	userRepo       *repository.UserRepository
	walletRepo     *repository.WalletRepository
	withdrawalRepo *repository.WithdrawalRepository
	log            *logger.Logger
	metrics        *metrics.Metrics
}

func NewWithdrawalService(
	cfg *config.RewardsConfig,
	userRepo *repository.UserRepository,
	walletRepo *repository.WalletRepository,
	withdrawalRepo *repository.WithdrawalRepository,
	log *logger.Logger,
	m *metrics.Metrics,
) *WithdrawalService {
	return &WithdrawalService{
		cfg:            cfg,
		userRepo:       userRepo,
		walletRepo:     walletRepo,
		withdrawalRepo: withdrawalRepo,
		log:            log,
		metrics:        m,
	}
}

// coinsRequired converts USD cents to coins, rounding up so partial cents
// never undercharge.
func coinsRequired(usdCents, coinsPerUSD int64) int64 {
	return (usdCents*coinsPerUSD + 99) / 100
}

func validateAddress(method, address string) error {
	switch method {
	case domain.PaymentMethodPaypal, domain.PaymentMethodUPI:
	default:
		return domain.E(domain.KindValidation, "payment method must be paypal or upi")
	}
	if !addressPattern.MatchString(address) {
		return domain.E(domain.KindInvalidAddress, fmt.Sprintf("invalid %s address", method))
	}
	return nil
}

// newSecretCode returns the human-shareable verification token handed to the
// client exactly once.
func newSecretCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10])
}

// Request reserves the coins and records the payout in one transaction. The
// secret code on the returned record is not retrievable again.
func (s *WithdrawalService) Request(ctx context.Context, userID uint, usdCents int64, address, method string) (*models.Withdrawal, error) {
	if usdCents < s.cfg.MinWithdrawUSDCents {
		return nil, domain.E(domain.KindMinimumAmount,
			fmt.Sprintf("minimum withdrawal is $%.2f", float64(s.cfg.MinWithdrawUSDCents)/100))
	}
	// The cap keeps usdCents * CoinsPerUSD far from int64 wraparound; an
	// overflowed product would turn the reservation debit into a credit.
	if usdCents > s.cfg.MaxWithdrawUSDCents {
		return nil, domain.E(domain.KindValidation,
			fmt.Sprintf("maximum withdrawal is $%.2f", float64(s.cfg.MaxWithdrawUSDCents)/100))
	}
	if err := validateAddress(method, address); err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if !user.PhoneLocked {
		return nil, domain.E(domain.KindValidation, "verify your phone number before withdrawing")
	}

	coins := coinsRequired(usdCents, s.cfg.CoinsPerUSD)
	wd := &models.Withdrawal{
		UserID:         userID,
		Coins:          coins,
		USDCents:       usdCents,
		PaymentMethod:  method,
		PaymentAddress: address,
		Status:         domain.WithdrawalStatusPending,
		SecretCode:     newSecretCode(),
	}
	err = s.walletRepo.WithWallet(ctx, userID, func(tx *gorm.DB, w *models.Wallet) error {
		if err := repository.ApplyDebit(w, domain.CurrencyCoin, coins); err != nil {
			return err
		}
		w.CoinPending += coins
		if err := tx.Save(w).Error; err != nil {
			return err
		}
		if err := s.withdrawalRepo.CreateTx(tx, wd); err != nil {
			return err
		}
		return repository.AppendEntry(tx, userID, domain.CurrencyCoin, -coins,
			domain.SourceWithdrawal, domain.EntryStatusPending, withdrawalRef(wd.ID))
	})
	if err != nil {
		return nil, err
	}
	s.metrics.Withdrawals.WithLabelValues(domain.WithdrawalStatusPending).Inc()
	return wd, nil
}

func withdrawalRef(id uint) string {
	return fmt.Sprintf("withdrawal_%d", id)
}

// MarkPaid settles a pending payout. Marking an already-paid request again is
// a no-op, so operational retries are safe.
func (s *WithdrawalService) MarkPaid(ctx context.Context, id uint) error {
	existing, err := s.withdrawalRepo.GetByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.E(domain.KindNotFound, "withdrawal not found")
	}
	if err != nil {
		return err
	}
	err = s.walletRepo.WithWallet(ctx, existing.UserID, func(tx *gorm.DB, w *models.Wallet) error {
		wd, err := s.withdrawalRepo.LockByID(tx, id)
		if err != nil {
			return err
		}
		if wd.Status == domain.WithdrawalStatusPaid {
			return nil
		}
		now := time.Now()
		wd.Status = domain.WithdrawalStatusPaid
		wd.PaidAt = &now
		if err := tx.Save(wd).Error; err != nil {
			return err
		}
		w.CoinPending -= wd.Coins
		if w.CoinPending < 0 {
			w.CoinPending = 0
		}
		if err := tx.Save(w).Error; err != nil {
			return err
		}
		return tx.Model(&models.LedgerEntry{}).
			Where("reference = ? AND source = ?", withdrawalRef(wd.ID), domain.SourceWithdrawal).
			Update("status", domain.EntryStatusPaid).Error
	})
	if err != nil {
		return err
	}
	s.metrics.Withdrawals.WithLabelValues(domain.WithdrawalStatusPaid).Inc()
	return nil
}

// Gift moves coins between two accounts in one all-or-nothing transaction,
// locking both wallets in id order.
func (s *WithdrawalService) Gift(ctx context.Context, senderID uint, recipientEmail string, amount int64) error {
	if amount <= 0 {
		return domain.E(domain.KindValidation, "gift amount must be positive")
	}
	recipient, err := s.userRepo.GetByEmail(recipientEmail)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.E(domain.KindRecipientNotFound, "no account with that email")
	}
	if err != nil {
		return err
	}
	if recipient.ID == senderID {
		return domain.E(domain.KindValidation, "cannot gift coins to yourself")
	}
	ref := uuid.NewString()
	err = s.walletRepo.WithWalletPair(ctx, senderID, recipient.ID, func(tx *gorm.DB, sender, rcpt *models.Wallet) error {
		if err := repository.ApplyDebit(sender, domain.CurrencyCoin, amount); err != nil {
			return err
		}
		if err := repository.ApplyCredit(rcpt, domain.CurrencyCoin, amount); err != nil {
			return err
		}
		if err := tx.Save(sender).Error; err != nil {
			return err
		}
		if err := tx.Save(rcpt).Error; err != nil {
			return err
		}
		if err := repository.AppendEntry(tx, senderID, domain.CurrencyCoin, -amount,
			domain.SourceGiftSent, domain.EntryStatusCompleted, ref); err != nil {
			return err
		}
		return repository.AppendEntry(tx, recipient.ID, domain.CurrencyCoin, amount,
			domain.SourceGiftReceived, domain.EntryStatusCompleted, ref)
	})
	if err != nil {
		return err
	}
	s.metrics.Gifts.Inc()
	return nil
}

func (s *WithdrawalService) ListByUser(userID uint, limit, offset int) ([]models.Withdrawal, error) {
	return s.withdrawalRepo.ListByUser(userID, limit, offset)
}

func (s *WithdrawalService) ListByStatus(status string, limit, offset int) ([]models.Withdrawal, error) {
	return s.withdrawalRepo.ListByStatus(status, limit, offset)
}
