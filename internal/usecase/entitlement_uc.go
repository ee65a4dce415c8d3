// File: internal/usecase/entitlement_uc.go
package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"wellness-entitlements/internal/domain"
	"wellness-entitlements/internal/domain/model"
	"wellness-entitlements/internal/domain/ports/adapter"
	"wellness-entitlements/internal/infra/metrics"
)

// Compile-time check
var _ EntitlementUseCase = (*entitlementUC)(nil)

// EntitlementUseCase is the single source of truth for the current user's
// SubscriptionRecord and the only component permitted to write it.
type EntitlementUseCase interface {
	// Refresh fetches the authoritative record. It never returns an error:
	// on any fetch failure the store fails closed to free/inactive.
	Refresh(ctx context.Context) model.SubscriptionRecord
	// Record returns a snapshot of the stored record.
	Record() model.SubscriptionRecord

	IsPremiumActive() bool
	IsProActive() bool
	// HasPremiumAccess is true for premium or pro (pro implies premium).
	HasPremiumAccess() bool
	HasProAccess() bool

	// CheckFeatureAccess reports whether the user's effective tier may use
	// the feature. Free users only "have" features absent from every gated
	// set; paid tiers have exactly their own set.
	CheckFeatureAccess(id model.FeatureID) bool

	// ApplyVerifiedUpgrade replaces the record wholesale. Callers must have
	// verified the change server-side first.
	ApplyVerifiedUpgrade(rec model.SubscriptionRecord)

	// Cancel requests remote cancellation, then marks the local record
	// cancelled with auto-renew off. Tier and period end are retained:
	// access persists until the paid period ends.
	Cancel(ctx context.Context) error
}

type entitlementUC struct {
	api adapter.SubscriptionAPI
	log *zerolog.Logger
	now func() time.Time

	mu     sync.RWMutex
	record model.SubscriptionRecord
}

// NewEntitlementUseCase starts with the free/inactive default until the first
// refresh succeeds.
func NewEntitlementUseCase(api adapter.SubscriptionAPI, logger *zerolog.Logger) *entitlementUC {
	entLog := logger.With().Str("component", "EntitlementStore").Logger()
	return &entitlementUC{
		api:    api,
		log:    &entLog,
		now:    time.Now,
		record: model.DefaultSubscriptionRecord(),
	}
}

func (u *entitlementUC) Refresh(ctx context.Context) model.SubscriptionRecord {
	rec, err := u.api.FetchSubscription(ctx)
	switch {
	case err == nil:
		rec = rec.Normalize()
		metrics.IncEntitlementRefresh("ok")
	case errors.Is(err, domain.ErrNotFound):
		// No remote record is the same as an explicit free tier.
		rec = model.DefaultSubscriptionRecord()
		metrics.IncEntitlementRefresh("ok")
	default:
		// Fail closed: deny premium access rather than surface an error.
		u.log.Warn().Err(err).Msg("subscription fetch failed; falling back to free/inactive")
		rec = model.DefaultSubscriptionRecord()
		metrics.IncEntitlementRefresh("fail_closed")
	}

	u.mu.Lock()
	u.record = rec
	u.mu.Unlock()
	metrics.SetEntitlementTier(string(rec.Tier), string(rec.Status))
	return rec
}

func (u *entitlementUC) Record() model.SubscriptionRecord {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.record
}

func (u *entitlementUC) IsPremiumActive() bool {
	return u.Record().PremiumActiveAt(u.now())
}

func (u *entitlementUC) IsProActive() bool {
	return u.Record().ProActiveAt(u.now())
}

func (u *entitlementUC) HasPremiumAccess() bool {
	return u.IsPremiumActive() || u.IsProActive()
}

func (u *entitlementUC) HasProAccess() bool {
	return u.IsProActive()
}

func (u *entitlementUC) CheckFeatureAccess(id model.FeatureID) bool {
	tier := u.Record().EffectiveTierAt(u.now())
	switch tier {
	case model.TierPremium:
		return model.PremiumFeatures.Contains(id)
	case model.TierPro:
		return model.ProFeatures.Contains(id)
	default:
		return !model.IsGated(id)
	}
}

func (u *entitlementUC) ApplyVerifiedUpgrade(rec model.SubscriptionRecord) {
	rec = rec.Normalize()
	u.mu.Lock()
	u.record = rec
	u.mu.Unlock()
	u.log.Info().Str("tier", string(rec.Tier)).Str("status", string(rec.Status)).Msg("verified entitlement change applied")
	metrics.SetEntitlementTier(string(rec.Tier), string(rec.Status))
}

func (u *entitlementUC) Cancel(ctx context.Context) error {
	// Remote first: local state stays untouched if the gateway call fails.
	if err := u.api.CancelSubscription(ctx); err != nil {
		u.log.Error().Err(err).Msg("remote cancellation failed")
		return err
	}

	u.mu.Lock()
	u.record.Status = model.SubscriptionStatusCancelled
	u.record.AutoRenew = false
	rec := u.record
	u.mu.Unlock()

	u.log.Info().Str("tier", string(rec.Tier)).Msg("subscription cancelled; access retained until period end")
	metrics.SetEntitlementTier(string(rec.Tier), string(rec.Status))
	return nil
}
