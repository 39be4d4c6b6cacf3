package repository

import (
	"context"
	"errors"
	"time"

	"earnrewardzz/internal/domain"
	"earnrewardzz/internal/models"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	mysqlErrLockWaitTimeout = 1205
	mysqlErrDeadlock        = 1213
)

// transact runs fn in a transaction bounded by timeout. Lock-wait timeouts,
// deadlocks and deadline expiry come back as the transient kind so callers
// know to retry; business errors pass through untouched.
func transact(ctx context.Context, db *gorm.DB, timeout time.Duration, fn func(tx *gorm.DB) error) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return classifyTxError(db.WithContext(ctx).Transaction(fn))
}

func classifyTxError(err error) error {
	if err == nil {
		return nil
	}
	var de *domain.Error
	if errors.As(err, &de) {
		return de
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) && (me.Number == mysqlErrLockWaitTimeout || me.Number == mysqlErrDeadlock) {
		return domain.E(domain.KindTransient, "ledger busy, retry shortly")
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.E(domain.KindTransient, "ledger busy, retry shortly")
	}
	return err
}

// lockWallet selects one wallet FOR UPDATE, creating the row first if the
// account has never held a balance.
func lockWallet(tx *gorm.DB, userID uint) (*models.Wallet, error) {
	var w models.Wallet
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).First(&w).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		w = models.Wallet{UserID: userID}
		if err := tx.Create(&w).Error; err != nil {
			return nil, err
		}
		return &w, nil
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// lockWalletPair locks two wallets in ascending user-id order so two
// concurrent opposite-direction transfers cannot deadlock.
func lockWalletPair(tx *gorm.DB, aID, bID uint) (*models.Wallet, *models.Wallet, error) {
	first, second := aID, bID
	if first > second {
		first, second = second, first
	}
	wFirst, err := lockWallet(tx, first)
	if err != nil {
		return nil, nil, err
	}
	wSecond, err := lockWallet(tx, second)
	if err != nil {
		return nil, nil, err
	}
	if first == aID {
		return wFirst, wSecond, nil
	}
	return wSecond, wFirst, nil
}
