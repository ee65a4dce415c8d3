package model

import "time"

type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusInactive  SubscriptionStatus = "inactive"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"
)

// SubscriptionRecord is the authoritative entitlement state for one user.
// The remote subscription API owns it; locally it is only ever replaced
// wholesale, never field-patched.
type SubscriptionRecord struct {
	Tier             Tier               `json:"tier"`
	Status           SubscriptionStatus `json:"status"`
	StartedAt        *time.Time         `json:"startedAt,omitempty"`
	CurrentPeriodEnd *time.Time         `json:"currentPeriodEnd,omitempty"`
	AutoRenew        bool               `json:"autoRenew"`
}

// DefaultSubscriptionRecord is the normalized "no subscription" state.
// "No remote record" and "explicit free tier" both collapse into it.
func DefaultSubscriptionRecord() SubscriptionRecord {
	return SubscriptionRecord{Tier: TierFree, Status: SubscriptionStatusInactive}
}

// Normalize maps unknown tiers or statuses to the free/inactive default so a
// malformed remote payload can never widen entitlement.
func (r SubscriptionRecord) Normalize() SubscriptionRecord {
	if _, err := ParseTier(string(r.Tier)); err != nil {
		return DefaultSubscriptionRecord()
	}
	switch r.Status {
	case SubscriptionStatusActive, SubscriptionStatusInactive,
		SubscriptionStatusCancelled, SubscriptionStatusExpired:
		return r
	}
	return DefaultSubscriptionRecord()
}

// AccessibleAt reports whether the record grants its tier's entitlement at the
// given instant. Active always grants. Cancelled keeps granting until the paid
// period ends: cancellation is a downgrade at period end, not revocation.
func (r SubscriptionRecord) AccessibleAt(now time.Time) bool {
	switch r.Status {
	case SubscriptionStatusActive:
		return true
	case SubscriptionStatusCancelled:
		return r.CurrentPeriodEnd != nil && now.Before(*r.CurrentPeriodEnd)
	}
	return false
}

// EffectiveTierAt is the tier the record actually entitles the user to at the
// given instant; a paid tier without effective access behaves as free.
func (r SubscriptionRecord) EffectiveTierAt(now time.Time) Tier {
	if r.AccessibleAt(now) {
		return r.Tier
	}
	return TierFree
}

// PremiumActiveAt reports a currently entitled premium subscription.
func (r SubscriptionRecord) PremiumActiveAt(now time.Time) bool {
	return r.Tier == TierPremium && r.AccessibleAt(now)
}

// ProActiveAt reports a currently entitled pro subscription.
func (r SubscriptionRecord) ProActiveAt(now time.Time) bool {
	return r.Tier == TierPro && r.AccessibleAt(now)
}
