package service

import (
	"context"
	"regexp"
	"testing"

	"earnrewardzz/config"
	"earnrewardzz/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestCoinsRequired(t *testing.T) {
	cases := []struct {
		usdCents    int64
		coinsPerUSD int64
		want        int64
	}{
		{100, 500, 500},   // $1 at the standard rate
		{250, 500, 1250},  // $2.50
		{1, 500, 5},       // one cent still charges
		{50, 333, 167},    // 166.5 rounds up
		{100, 1000, 1000}, // alternate rate
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, coinsRequired(tc.usdCents, tc.coinsPerUSD),
			"%d cents at %d coins/USD", tc.usdCents, tc.coinsPerUSD)
	}
}

func TestValidateAddress(t *testing.T) {
	t.Run("valid paypal", func(t *testing.T) {
		assert.NoError(t, validateAddress(domain.PaymentMethodPaypal, "user@example.com"))
	})

	t.Run("valid upi handle", func(t *testing.T) {
		assert.NoError(t, validateAddress(domain.PaymentMethodUPI, "name@okaxis"))
	})

	t.Run("unknown method", func(t *testing.T) {
		err := validateAddress("venmo", "user@example.com")
		assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	})

	t.Run("malformed address", func(t *testing.T) {
		err := validateAddress(domain.PaymentMethodPaypal, "not-an-address")
		assert.Equal(t, domain.KindInvalidAddress, domain.KindOf(err))
	})

	t.Run("address with spaces", func(t *testing.T) {
		err := validateAddress(domain.PaymentMethodUPI, "na me@okaxis")
		assert.Equal(t, domain.KindInvalidAddress, domain.KindOf(err))
	})
}

func TestRequestBoundsUSDAmount(t *testing.T) {
	svc := &WithdrawalService{cfg: &config.RewardsConfig{
		MinWithdrawUSDCents: 100,
		MaxWithdrawUSDCents: 100000,
		CoinsPerUSD:         500,
	}}

	t.Run("below minimum", func(t *testing.T) {
		_, err := svc.Request(context.Background(), 1, 50, "a@b.com", domain.PaymentMethodPaypal)
		assert.Equal(t, domain.KindMinimumAmount, domain.KindOf(err))
	})

	t.Run("above maximum", func(t *testing.T) {
		_, err := svc.Request(context.Background(), 1, 100001, "a@b.com", domain.PaymentMethodPaypal)
		assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	})

	t.Run("wraparound-sized amount is rejected before conversion", func(t *testing.T) {
		// 5e18 cents times 500 coins wraps int64 negative; the cap must stop
		// it before coinsRequired runs.
		_, err := svc.Request(context.Background(), 1, 5_000_000_000_000_000_000, "a@b.com", domain.PaymentMethodPaypal)
		assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	})

	t.Run("conversion at the cap stays positive", func(t *testing.T) {
		assert.Equal(t, int64(500000), coinsRequired(100000, 500))
	})
}

func TestNewSecretCode(t *testing.T) {
	pattern := regexp.MustCompile(`^[0-9A-F]{10}$`)
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		code := newSecretCode()
		assert.Regexp(t, pattern, code)
		assert.False(t, seen[code], "duplicate code %s", code)
		seen[code] = true
	}
}

func TestWithdrawalRef(t *testing.T) {
	assert.Equal(t, "withdrawal_17", withdrawalRef(17))
}
