package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		entitlementRefreshTotal,
		entitlementTier,
		cacheRequestsTotal,
	)
}

var (
	// result: ok|fail_closed
	entitlementRefreshTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "entitlement_refresh_total",
			Help: "Count of entitlement refreshes by result. fail_closed means the fetch failed and the store fell back to free/inactive.",
		},
		[]string{"result"},
	)

	entitlementTier = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "entitlement_current",
			Help: "Current entitlement of this session, 1 for the held tier/status pair.",
		},
		[]string{"tier", "status"},
	)

	// entity: subscription; result: hit|miss
	cacheRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_requests_total",
			Help: "Read-through cache lookups by entity and result.",
		},
		[]string{"entity", "result"},
	)
)

func IncEntitlementRefresh(result string) {
	entitlementRefreshTotal.WithLabelValues(result).Inc()
}

// SetEntitlementTier marks the held tier/status pair; previous pairs are reset.
func SetEntitlementTier(tier, status string) {
	entitlementTier.Reset()
	entitlementTier.WithLabelValues(tier, status).Set(1)
}

func IncCacheRequest(entity, result string) {
	cacheRequestsTotal.WithLabelValues(entity, result).Inc()
}
