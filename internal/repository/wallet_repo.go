package repository

import (
	"context"
	"time"

	"earnrewardzz/internal/domain"
	"earnrewardzz/internal/models"

	"gorm.io/gorm"
)

// WalletRepository is the account ledger: the only writer of balances, and
// the writer of the history rows that mirror every mutation.
type WalletRepository struct {
	db        *gorm.DB
	txTimeout time.Duration
}

func NewWalletRepository(db *gorm.DB, txTimeout time.Duration) *WalletRepository {
	return &WalletRepository{db: db, txTimeout: txTimeout}
}

func (r *WalletRepository) GetOrCreate(userID uint) (*models.Wallet, error) {
	var w models.Wallet
	err := r.db.Where("user_id = ?", userID).First(&w).Error
	if err == nil {
		return &w, nil
	}
	w = models.Wallet{UserID: userID}
	if err := r.db.Create(&w).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

// WithWallet runs fn against the row-locked wallet inside a bounded
// transaction. Reward policy that must read counters under the lock (ad cap,
// check-in day, spin count) goes through here.
func (r *WalletRepository) WithWallet(ctx context.Context, userID uint, fn func(tx *gorm.DB, w *models.Wallet) error) error {
	return transact(ctx, r.db, r.txTimeout, func(tx *gorm.DB) error {
		w, err := lockWallet(tx, userID)
		if err != nil {
			return err
		}
		return fn(tx, w)
	})
}

// WithWalletPair locks two wallets in a consistent global order for
// two-account operations (gifts, referral bonuses).
func (r *WalletRepository) WithWalletPair(ctx context.Context, aID, bID uint, fn func(tx *gorm.DB, wa, wb *models.Wallet) error) error {
	return transact(ctx, r.db, r.txTimeout, func(tx *gorm.DB) error {
		wa, wb, err := lockWalletPair(tx, aID, bID)
		if err != nil {
			return err
		}
		return fn(tx, wa, wb)
	})
}

// Credit atomically increments balance and lifetime and appends a completed
// ledger entry. Amount must be positive.
func (r *WalletRepository) Credit(ctx context.Context, userID uint, currency string, amount int64, source, reference string) (*models.Wallet, error) {
	if amount <= 0 {
		return nil, domain.E(domain.KindValidation, "credit amount must be positive")
	}
	var out *models.Wallet
	err := r.WithWallet(ctx, userID, func(tx *gorm.DB, w *models.Wallet) error {
		if err := ApplyCredit(w, currency, amount); err != nil {
			return err
		}
		if err := tx.Save(w).Error; err != nil {
			return err
		}
		if err := AppendEntry(tx, userID, currency, amount, source, domain.EntryStatusCompleted, reference); err != nil {
			return err
		}
		out = w
		return nil
	})
	return out, err
}

// Debit atomically decrements balance after an under-lock sufficiency check
// and appends a negative-delta entry. The check and decrement are one unit;
// there is no read-then-write window.
func (r *WalletRepository) Debit(ctx context.Context, userID uint, currency string, amount int64, source, reference string) (*models.Wallet, error) {
	if amount <= 0 {
		return nil, domain.E(domain.KindValidation, "debit amount must be positive")
	}
	var out *models.Wallet
	err := r.WithWallet(ctx, userID, func(tx *gorm.DB, w *models.Wallet) error {
		if err := ApplyDebit(w, currency, amount); err != nil {
			return err
		}
		if err := tx.Save(w).Error; err != nil {
			return err
		}
		if err := AppendEntry(tx, userID, currency, -amount, source, domain.EntryStatusCompleted, reference); err != nil {
			return err
		}
		out = w
		return nil
	})
	return out, err
}

// History returns ledger entries newest-first. Source is optional.
func (r *WalletRepository) History(userID uint, currency, source string, limit, offset int) ([]models.LedgerEntry, error) {
	q := r.db.Where("user_id = ? AND currency = ?", userID, currency)
	if source != "" {
		q = q.Where("source = ?", source)
	}
	var entries []models.LedgerEntry
	err := q.Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&entries).Error
	return entries, err
}

// ApplyCredit mutates the in-memory wallet for one currency. Caller holds the
// row lock and persists afterwards. Non-positive amounts are rejected here,
// not only at the entry points, so an overflowed computation upstream can
// never reach the balance.
func ApplyCredit(w *models.Wallet, currency string, amount int64) error {
	if amount <= 0 {
		return domain.E(domain.KindValidation, "credit amount must be positive")
	}
	if currency == domain.CurrencyToken {
		w.TokenBalance += amount
		w.TokenLifetime += amount
		return nil
	}
	w.CoinBalance += amount
	w.CoinLifetime += amount
	return nil
}

// ApplyDebit checks sufficiency and decrements, or fails without mutating.
// A negative amount would pass the sufficiency check and grow the balance, so
// it is rejected before any comparison.
func ApplyDebit(w *models.Wallet, currency string, amount int64) error {
	if amount <= 0 {
		return domain.E(domain.KindValidation, "debit amount must be positive")
	}
	if currency == domain.CurrencyToken {
		if w.TokenBalance < amount {
			return domain.E(domain.KindInsufficientTokens, "insufficient token balance").
				With("balance", w.TokenBalance)
		}
		w.TokenBalance -= amount
		return nil
	}
	if w.CoinBalance < amount {
		return domain.E(domain.KindInsufficientBalance, "insufficient coin balance").
			With("balance", w.CoinBalance)
	}
	w.CoinBalance -= amount
	return nil
}

// AppendEntry writes one immutable history row inside the caller's
// transaction.
func AppendEntry(tx *gorm.DB, userID uint, currency string, delta int64, source, status, reference string) error {
	return tx.Create(&models.LedgerEntry{
		UserID:    userID,
		Currency:  currency,
		Delta:     delta,
		Source:    source,
		Status:    status,
		Reference: reference,
	}).Error
}
