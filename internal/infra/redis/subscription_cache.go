package redis

import (
	"context"
	"encoding/json"
	"time"

	"wellness-entitlements/internal/domain/model"
	"wellness-entitlements/internal/domain/ports/adapter"
	"wellness-entitlements/internal/infra/metrics"
)

const subscriptionKey = "entitlement:subscription:me"

var _ adapter.SubscriptionAPI = (*subscriptionCacheDecorator)(nil)

// subscriptionCacheDecorator is a read-through TTL cache over the remote
// subscription API. It only shortcuts successful fetches: a remote failure is
// passed through untouched so the store's fail-closed path still applies, and
// every write operation invalidates the cached record.
type subscriptionCacheDecorator struct {
	inner adapter.SubscriptionAPI
	cache RedisClient
	ttl   time.Duration
}

func NewSubscriptionCacheDecorator(inner adapter.SubscriptionAPI, cache RedisClient, ttl time.Duration) adapter.SubscriptionAPI {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &subscriptionCacheDecorator{inner: inner, cache: cache, ttl: ttl}
}

func (d *subscriptionCacheDecorator) FetchSubscription(ctx context.Context) (model.SubscriptionRecord, error) {
	val, err := d.cache.Get(ctx, subscriptionKey)
	if err == nil {
		var rec model.SubscriptionRecord
		if json.Unmarshal([]byte(val), &rec) == nil {
			metrics.IncCacheRequest("subscription", "hit")
			return rec.Normalize(), nil
		}
	}
	// Cache trouble is not fetch trouble; a miss and a broken cache both fall
	// through to the API.
	metrics.IncCacheRequest("subscription", "miss")
	rec, err := d.inner.FetchSubscription(ctx)
	if err != nil {
		return model.SubscriptionRecord{}, err
	}
	if bytes, err := json.Marshal(rec); err == nil {
		_ = d.cache.Set(ctx, subscriptionKey, bytes, d.ttl)
	}
	return rec, nil
}

func (d *subscriptionCacheDecorator) InitializePayment(ctx context.Context, gateway model.PaymentGatewayID, tier model.Tier, amount int64, reference string) (adapter.PaymentInit, error) {
	return d.inner.InitializePayment(ctx, gateway, tier, amount, reference)
}

// VerifyPayment invalidates the cached record: a successful verification
// changes the authoritative subscription.
func (d *subscriptionCacheDecorator) VerifyPayment(ctx context.Context, gateway model.PaymentGatewayID, reference string) (model.SubscriptionRecord, error) {
	rec, err := d.inner.VerifyPayment(ctx, gateway, reference)
	if err != nil {
		return model.SubscriptionRecord{}, err
	}
	_ = d.cache.Del(ctx, subscriptionKey)
	return rec, nil
}

func (d *subscriptionCacheDecorator) CancelSubscription(ctx context.Context) error {
	if err := d.inner.CancelSubscription(ctx); err != nil {
		return err
	}
	_ = d.cache.Del(ctx, subscriptionKey)
	return nil
}
