package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		bannerEventsTotal,
		heartbeatTotal,
	)
}

var (
	// event: shown|dismissed|joined
	bannerEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "banner_events_total",
			Help: "Promotional banner lifecycle events.",
		},
		[]string{"event"},
	)

	// result: ok|error
	heartbeatTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_heartbeat_total",
			Help: "Session-tracking heartbeat pings by result.",
		},
		[]string{"result"},
	)
)

func IncBannerEvent(event string) {
	bannerEventsTotal.WithLabelValues(event).Inc()
}

func IncHeartbeat(result string) {
	heartbeatTotal.WithLabelValues(result).Inc()
}
