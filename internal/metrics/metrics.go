package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics stores Prometheus collectors used across the service.
type Metrics struct {
	OTPRequests     *prometheus.CounterVec
	RewardsIssued   *prometheus.CounterVec
	Spins           *prometheus.CounterVec
	Withdrawals     *prometheus.CounterVec
	Gifts           prometheus.Counter
	TicketPurchases prometheus.Counter
	Errors          *prometheus.CounterVec
}

var (
	regOnce         sync.Once
	metricsInstance *Metrics
)

// Registry builds and registers the metrics singleton with optional namespace.
func Registry(namespace string) *Metrics {
	regOnce.Do(func() {
		metricsInstance = &Metrics{
			OTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "otp_requests_total",
				Help:      "Total OTP requests by outcome.",
			}, []string{"outcome"}),
			RewardsIssued: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rewards_issued_total",
				Help:      "Total reward credits by source and currency.",
			}, []string{"source", "currency"}),
			Spins: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "spins_total",
				Help:      "Total wheel spins by outcome segment.",
			}, []string{"outcome"}),
			Withdrawals: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "withdrawals_total",
				Help:      "Total withdrawal state changes.",
			}, []string{"status"}),
			Gifts: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "gifts_total",
				Help:      "Total coin gift transfers.",
			}),
			TicketPurchases: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ticket_purchases_total",
				Help:      "Total giveaway ticket purchases.",
			}),
			Errors: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "errors_total",
				Help:      "Total errors grouped by kind.",
			}, []string{"kind"}),
		}

		prometheus.MustRegister(
			metricsInstance.OTPRequests,
			metricsInstance.RewardsIssued,
			metricsInstance.Spins,
			metricsInstance.Withdrawals,
			metricsInstance.Gifts,
			metricsInstance.TicketPurchases,
			metricsInstance.Errors,
		)
	})
	return metricsInstance
}
