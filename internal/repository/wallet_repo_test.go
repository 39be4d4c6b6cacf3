package repository

import (
	"context"
	"testing"
	"time"

	"earnrewardzz/internal/domain"
	"earnrewardzz/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gdb, err := gorm.Open(gormmysql.New(gormmysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return gdb, mock
}

func walletRows(userID uint, coinBalance, tokenBalance int64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id",
		"coin_balance", "coin_pending", "coin_lifetime",
		"token_balance", "token_lifetime",
		"spins_left", "ads_watched_today", "ads_day", "last_checkin_day",
		"created_at", "updated_at",
	}).AddRow(1, userID, coinBalance, 0, coinBalance, tokenBalance, tokenBalance,
		0, 0, "", "", time.Now(), time.Now())
}

func TestWalletRepositoryCredit(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewWalletRepository(gdb, time.Second)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `wallets` (.+)FOR UPDATE").
		WillReturnRows(walletRows(7, 10, 0))
	mock.ExpectExec("UPDATE `wallets` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO `ledger_entries`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	w, err := repo.Credit(context.Background(), 7, domain.CurrencyCoin, 5, domain.SourceAdReward, "placement-1")
	require.NoError(t, err)
	assert.Equal(t, int64(15), w.CoinBalance)
	assert.Equal(t, int64(15), w.CoinLifetime)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletRepositoryCreditRejectsNonPositive(t *testing.T) {
	gdb, _ := newMockDB(t)
	repo := NewWalletRepository(gdb, time.Second)

	_, err := repo.Credit(context.Background(), 7, domain.CurrencyCoin, 0, domain.SourceAdReward, "")
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestWalletRepositoryDebitInsufficient(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewWalletRepository(gdb, time.Second)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `wallets` (.+)FOR UPDATE").
		WillReturnRows(walletRows(7, 3, 0))
	mock.ExpectRollback()

	_, err := repo.Debit(context.Background(), 7, domain.CurrencyCoin, 10, domain.SourceGiftSent, "")
	require.Error(t, err)
	assert.Equal(t, domain.KindInsufficientBalance, domain.KindOf(err))

	var de *domain.Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, int64(3), de.Details["balance"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletRepositoryDebitTokens(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewWalletRepository(gdb, time.Second)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `wallets` (.+)FOR UPDATE").
		WillReturnRows(walletRows(9, 0, 200))
	mock.ExpectExec("UPDATE `wallets` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO `ledger_entries`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	w, err := repo.Debit(context.Background(), 9, domain.CurrencyToken, 50, domain.SourceTicketPurchase, "giveaway_1")
	require.NoError(t, err)
	assert.Equal(t, int64(150), w.TokenBalance)
	assert.Equal(t, int64(200), w.TokenLifetime, "lifetime is credit-only")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletRepositoryGetOrCreateCreates(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewWalletRepository(gdb, time.Second)

	mock.ExpectQuery("SELECT (.+) FROM `wallets`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec("INSERT INTO `wallets`").
		WillReturnResult(sqlmock.NewResult(3, 1))

	w, err := repo.GetOrCreate(11)
	require.NoError(t, err)
	assert.Equal(t, uint(11), w.UserID)
	assert.Zero(t, w.CoinBalance)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func walletWith(coins, tokens int64) *models.Wallet {
	return &models.Wallet{
		CoinBalance:   coins,
		CoinLifetime:  coins,
		TokenBalance:  tokens,
		TokenLifetime: tokens,
	}
}

func TestApplyCreditAndDebit(t *testing.T) {
	w := walletWith(100, 40)

	require.NoError(t, ApplyCredit(w, domain.CurrencyCoin, 10))
	assert.Equal(t, int64(110), w.CoinBalance)
	assert.Equal(t, int64(110), w.CoinLifetime)

	require.NoError(t, ApplyCredit(w, domain.CurrencyToken, 5))
	assert.Equal(t, int64(45), w.TokenBalance)

	require.NoError(t, ApplyDebit(w, domain.CurrencyCoin, 110))
	assert.Zero(t, w.CoinBalance)
	assert.Equal(t, int64(110), w.CoinLifetime, "debits never reduce lifetime")

	err := ApplyDebit(w, domain.CurrencyToken, 100)
	assert.Equal(t, domain.KindInsufficientTokens, domain.KindOf(err))
	assert.Equal(t, int64(45), w.TokenBalance, "failed debit must not mutate")
}

func TestApplyRejectsNonPositiveAmounts(t *testing.T) {
	t.Run("negative debit never passes the sufficiency check", func(t *testing.T) {
		// A wrapped-negative amount compared against the balance would
		// "succeed" and grow the balance by the subtraction.
		w := walletWith(100, 0)
		err := ApplyDebit(w, domain.CurrencyCoin, -87571940244990196)
		assert.Equal(t, domain.KindValidation, domain.KindOf(err))
		assert.Equal(t, int64(100), w.CoinBalance, "balance must be untouched")
		assert.Equal(t, int64(100), w.CoinLifetime)
	})

	t.Run("zero debit", func(t *testing.T) {
		w := walletWith(100, 0)
		err := ApplyDebit(w, domain.CurrencyToken, 0)
		assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	})

	t.Run("negative credit", func(t *testing.T) {
		w := walletWith(100, 40)
		err := ApplyCredit(w, domain.CurrencyCoin, -1)
		assert.Equal(t, domain.KindValidation, domain.KindOf(err))
		assert.Equal(t, int64(100), w.CoinBalance)

		err = ApplyCredit(w, domain.CurrencyToken, 0)
		assert.Equal(t, domain.KindValidation, domain.KindOf(err))
		assert.Equal(t, int64(40), w.TokenBalance)
	})
}
