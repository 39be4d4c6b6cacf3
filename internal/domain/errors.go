package domain

import (
	"errors"
	"net/http"
)

type ErrorKind string

const (
	KindValidation          ErrorKind = "validation"
	KindInsufficientBalance ErrorKind = "insufficient_balance"
	KindInsufficientTokens  ErrorKind = "insufficient_tokens"
	KindDailyLimit          ErrorKind = "daily_limit_exceeded"
	KindAlreadyClaimed      ErrorKind = "already_claimed"
	KindNotFound            ErrorKind = "not_found"
	KindExpired             ErrorKind = "expired"
	KindInvalidCredential   ErrorKind = "invalid_credential"
	KindNoSpins             ErrorKind = "no_spins_available"
	KindMinimumAmount       ErrorKind = "minimum_amount"
	KindInvalidAddress      ErrorKind = "invalid_address"
	KindRecipientNotFound   ErrorKind = "recipient_not_found"
	KindGiveawayClosed      ErrorKind = "giveaway_closed"
	KindUnauthenticated     ErrorKind = "unauthenticated"
	KindForbidden           ErrorKind = "forbidden"
	KindTransient           ErrorKind = "transient"
	KindInternal            ErrorKind = "internal"
)

// Error is the structured error every service operation returns. Kind is the
// machine-readable tag, Details carries UX payload (current balance, reset
// time) for kinds where that is safe to disclose.
type Error struct {
	Kind    ErrorKind
	Message string
	Details map[string]interface{}
}

func (e *Error) Error() string { return e.Message }

func E(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// With attaches a detail value and returns the error for chaining.
func (e *Error) With(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = map[string]interface{}{}
	}
	e.Details[key] = value
	return e
}

// Kind extracts the kind tag from any error. Unknown errors are internal.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Retryable reports whether the caller should retry with backoff.
func Retryable(err error) bool {
	return KindOf(err) == KindTransient
}

// HTTPStatus maps an error kind to its response status.
func HTTPStatus(kind ErrorKind) int {
	switch kind {
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden, KindInvalidCredential:
		return http.StatusForbidden
	case KindNotFound, KindRecipientNotFound:
		return http.StatusNotFound
	case KindExpired:
		return http.StatusGone
	case KindDailyLimit, KindAlreadyClaimed:
		return http.StatusTooManyRequests
	case KindTransient:
		return http.StatusServiceUnavailable
	case KindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}
