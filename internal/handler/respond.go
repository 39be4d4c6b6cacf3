package handler

import (
	"errors"
	"time"

	"earnrewardzz/internal/domain"
	"earnrewardzz/internal/metrics"
	"earnrewardzz/internal/models"
	"earnrewardzz/pkg/logger"

	"github.com/gin-gonic/gin"
)

// fail writes the structured error response. Typed errors map by kind;
// anything else is logged and surfaced as an opaque internal failure.
func fail(c *gin.Context, log *logger.Logger, m *metrics.Metrics, err error) {
	var e *domain.Error
	if !errors.As(err, &e) {
		log.Errorf("[%s] internal error: %v", c.FullPath(), err)
		e = domain.E(domain.KindInternal, "something went wrong")
	}
	m.Errors.WithLabelValues(string(e.Kind)).Inc()
	body := gin.H{"error": e.Message, "kind": string(e.Kind)}
	for k, v := range e.Details {
		body[k] = v
	}
	c.JSON(domain.HTTPStatus(e.Kind), body)
}

func failValidation(c *gin.Context, log *logger.Logger, m *metrics.Metrics, msg string) {
	fail(c, log, m, domain.E(domain.KindValidation, msg))
}

// walletJSON renders both sub-ledgers. Daily counters are presented against
// the current UTC day so a stale row never shows yesterday's usage.
func walletJSON(w *models.Wallet, now time.Time) gin.H {
	today := domain.UTCDay(now)
	adsToday := w.AdsWatchedToday
	if w.AdsDay != today {
		adsToday = 0
	}
	return gin.H{
		"coins": gin.H{
			"balance":         w.CoinBalance,
			"pending":         w.CoinPending,
			"lifetime":        w.CoinLifetime,
			"adsWatchedToday": adsToday,
		},
		"tokens": gin.H{
			"balance":         w.TokenBalance,
			"lifetime":        w.TokenLifetime,
			"spins_left":      w.SpinsLeft,
			"spins_remaining": w.SpinsLeft,
		},
		"daily_claimed": w.CheckinClaimed(today),
	}
}
