package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		paymentSessionsTotal,
		paymentVerifyDuration,
	)
}

var (
	// outcome: initiated|init_failed|verified|verification_failed|cancelled
	paymentSessionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_sessions_total",
			Help: "Payment session outcomes by gateway.",
		},
		[]string{"gateway", "outcome"},
	)

	// result: ok|fail
	paymentVerifyDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "payment_verify_duration_seconds",
			Help:    "Duration of server-side payment verification in seconds.",
			Buckets: []float64{0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"result"},
	)
)

func IncPaymentSession(gateway, outcome string) {
	paymentSessionsTotal.WithLabelValues(gateway, outcome).Inc()
}

func ObservePaymentVerify(result string, seconds float64) {
	paymentVerifyDuration.WithLabelValues(result).Observe(seconds)
}
