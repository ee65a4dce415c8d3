package web

import (
	"context"
	"time"

	"wellness-entitlements/internal/domain/model"
	"wellness-entitlements/internal/domain/ports/adapter"
	"wellness-entitlements/internal/usecase"
)

// mockEntitlements is a canned EntitlementUseCase for handler tests.
type mockEntitlements struct {
	record       model.SubscriptionRecord
	refreshCalls int
	cancelErr    error
}

var _ usecase.EntitlementUseCase = (*mockEntitlements)(nil)

func (m *mockEntitlements) Refresh(ctx context.Context) model.SubscriptionRecord {
	m.refreshCalls++
	return m.record
}

func (m *mockEntitlements) Record() model.SubscriptionRecord { return m.record }

func (m *mockEntitlements) IsPremiumActive() bool { return m.record.PremiumActiveAt(time.Now()) }
func (m *mockEntitlements) IsProActive() bool     { return m.record.ProActiveAt(time.Now()) }
func (m *mockEntitlements) HasPremiumAccess() bool {
	return m.IsPremiumActive() || m.IsProActive()
}
func (m *mockEntitlements) HasProAccess() bool { return m.IsProActive() }

func (m *mockEntitlements) CheckFeatureAccess(id model.FeatureID) bool {
	switch m.record.EffectiveTierAt(time.Now()) {
	case model.TierPremium:
		return model.PremiumFeatures.Contains(id)
	case model.TierPro:
		return model.ProFeatures.Contains(id)
	default:
		return !model.IsGated(id)
	}
}

func (m *mockEntitlements) ApplyVerifiedUpgrade(rec model.SubscriptionRecord) { m.record = rec }

func (m *mockEntitlements) Cancel(ctx context.Context) error {
	if m.cancelErr != nil {
		return m.cancelErr
	}
	m.record.Status = model.SubscriptionStatusCancelled
	m.record.AutoRenew = false
	return nil
}

// mockPayments is a canned PaymentUseCase.
type mockPayments struct {
	session     *model.PaymentSession
	init        adapter.PaymentInit
	initiateErr error
	completeErr error
	abandonErr  error
}

var _ usecase.PaymentUseCase = (*mockPayments)(nil)

func (m *mockPayments) Initiate(ctx context.Context, tier model.Tier, gateway model.PaymentGatewayID) (*model.PaymentSession, adapter.PaymentInit, error) {
	if m.initiateErr != nil {
		return nil, adapter.PaymentInit{}, m.initiateErr
	}
	m.session = &model.PaymentSession{
		Tier:      tier,
		Gateway:   gateway,
		Reference: "premium_TESTREF",
		State:     model.SessionInitiated,
		CreatedAt: time.Now(),
	}
	return m.session, m.init, nil
}

func (m *mockPayments) Complete(ctx context.Context, reference string) (*model.PaymentSession, error) {
	if m.completeErr != nil {
		return m.session, m.completeErr
	}
	m.session.State = model.SessionVerified
	return m.session, nil
}

func (m *mockPayments) Abandon(reference string) (*model.PaymentSession, error) {
	if m.abandonErr != nil {
		return nil, m.abandonErr
	}
	m.session.State = model.SessionCancelled
	return m.session, nil
}

func (m *mockPayments) Session() *model.PaymentSession { return m.session }

// mockBridge is a canned ChallengeBridge.
type mockBridge struct {
	banner     *model.PremiumChallenge
	joinResult adapter.JoinResult
	joinErr    error
	dismissErr error
}

var _ usecase.ChallengeBridge = (*mockBridge)(nil)

func (m *mockBridge) LoadBanners(ctx context.Context) error { return nil }
func (m *mockBridge) RotateTick()                           {}

func (m *mockBridge) CurrentBanner() *model.PremiumChallenge { return m.banner }

func (m *mockBridge) DismissBanner() error {
	if m.dismissErr != nil {
		return m.dismissErr
	}
	m.banner = nil
	return nil
}

func (m *mockBridge) JoinChallenge(ctx context.Context, id string) (adapter.JoinResult, error) {
	if m.joinErr != nil {
		return adapter.JoinResult{}, m.joinErr
	}
	return m.joinResult, nil
}

func (m *mockBridge) JoinCurrentBanner(ctx context.Context) (adapter.JoinResult, error) {
	return m.JoinChallenge(ctx, "current")
}

func (m *mockBridge) Heartbeat(ctx context.Context) error { return nil }
func (m *mockBridge) SessionID() string                   { return "sess-test" }
