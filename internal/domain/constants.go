package domain

import "time"

const (
	CurrencyCoin  = "coin"
	CurrencyToken = "token"
)

// Ledger entry sources.
const (
	SourceAdReward       = "ad_reward"
	SourceDailyBonus     = "daily_bonus"
	SourceReferralBonus  = "referral_bonus"
	SourceSpin           = "spin"
	SourceWithdrawal     = "withdrawal"
	SourceGiftSent       = "gift_sent"
	SourceGiftReceived   = "gift_received"
	SourceTicketPurchase = "ticket_purchase"
)

const (
	EntryStatusCompleted = "completed"
	EntryStatusPending   = "pending"
	EntryStatusPaid      = "paid"
)

const (
	WithdrawalStatusPending = "pending"
	WithdrawalStatusPaid    = "paid"
)

const (
	PaymentMethodPaypal = "paypal"
	PaymentMethodUPI    = "upi"
)

const (
	ReferralStatusPending   = "pending"
	ReferralStatusCompleted = "completed"
)

const (
	GiveawayStatusActive = "active"
	GiveawayStatusClosed = "closed"
	GiveawayStatusDrawn  = "drawn"
)

// Ad SDK callback events.
const (
	AdEventCompleted = "completed"
	AdEventSkipped   = "skipped"
	AdEventFailed    = "failed"
)

// EarnableTokenSources lists the sources the tokens.earn endpoint accepts.
// Spin and referral payouts are credited server-side, never via that path.
var EarnableTokenSources = map[string]bool{
	SourceDailyBonus: true,
}

// UTCDay returns the UTC calendar day used for all daily counters.
// The server day is the single authority; client-local midnight is cosmetic.
func UTCDay(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
