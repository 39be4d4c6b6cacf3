package domain

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	t.Run("typed error", func(t *testing.T) {
		err := E(KindDailyLimit, "daily ad limit reached")
		assert.Equal(t, KindDailyLimit, KindOf(err))
	})

	t.Run("wrapped typed error", func(t *testing.T) {
		err := fmt.Errorf("earn ad: %w", E(KindNoSpins, "no spins available"))
		assert.Equal(t, KindNoSpins, KindOf(err))
	})

	t.Run("plain error is internal", func(t *testing.T) {
		assert.Equal(t, KindInternal, KindOf(fmt.Errorf("boom")))
	})
}

func TestWithDetails(t *testing.T) {
	err := E(KindInsufficientBalance, "insufficient coin balance").
		With("balance", int64(42)).
		With("required", int64(500))
	assert.Equal(t, int64(42), err.Details["balance"])
	assert.Equal(t, int64(500), err.Details["required"])
	assert.Equal(t, "insufficient coin balance", err.Error())
}

func TestRetryable(t *testing.T) {
	assert.True(t, Retryable(E(KindTransient, "ledger busy")))
	assert.False(t, Retryable(E(KindValidation, "bad input")))
	assert.False(t, Retryable(fmt.Errorf("boom")))
}

func TestHTTPStatus(t *testing.T) {
	cases := map[ErrorKind]int{
		KindValidation:          http.StatusBadRequest,
		KindInsufficientBalance: http.StatusBadRequest,
		KindInsufficientTokens:  http.StatusBadRequest,
		KindDailyLimit:          http.StatusTooManyRequests,
		KindAlreadyClaimed:      http.StatusTooManyRequests,
		KindNotFound:            http.StatusNotFound,
		KindRecipientNotFound:   http.StatusNotFound,
		KindExpired:             http.StatusGone,
		KindInvalidCredential:   http.StatusForbidden,
		KindForbidden:           http.StatusForbidden,
		KindUnauthenticated:     http.StatusUnauthorized,
		KindTransient:           http.StatusServiceUnavailable,
		KindInternal:            http.StatusInternalServerError,
	}
	for kind, want := range cases {
		assert.Equal(t, want, HTTPStatus(kind), "kind %s", kind)
	}
}
