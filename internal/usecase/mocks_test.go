// File: internal/usecase/mocks_test.go
package usecase

import (
	"context"
	"sync"
	"time"

	"wellness-entitlements/internal/domain/model"
	"wellness-entitlements/internal/domain/ports/adapter"

	"github.com/rs/zerolog"
)

func testLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// fakeSubscriptionAPI is a small in-memory implementation used by unit tests.
type fakeSubscriptionAPI struct {
	mu sync.Mutex

	record   model.SubscriptionRecord
	fetchErr error

	initResult adapter.PaymentInit
	initErr    error

	verifyRecord model.SubscriptionRecord
	verifyErr    error
	verifyDelay  time.Duration

	cancelErr error

	fetchCalls  int
	initCalls   int
	verifyCalls int
	cancelCalls int
}

func newFakeSubscriptionAPI() *fakeSubscriptionAPI {
	return &fakeSubscriptionAPI{record: model.DefaultSubscriptionRecord()}
}

func (f *fakeSubscriptionAPI) FetchSubscription(ctx context.Context) (model.SubscriptionRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchCalls++
	if f.fetchErr != nil {
		return model.SubscriptionRecord{}, f.fetchErr
	}
	return f.record, nil
}

func (f *fakeSubscriptionAPI) InitializePayment(ctx context.Context, gateway model.PaymentGatewayID, tier model.Tier, amount int64, reference string) (adapter.PaymentInit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.initCalls++
	if f.initErr != nil {
		return adapter.PaymentInit{}, f.initErr
	}
	res := f.initResult
	if res.Reference == "" {
		res.Reference = reference
	}
	return res, nil
}

func (f *fakeSubscriptionAPI) VerifyPayment(ctx context.Context, gateway model.PaymentGatewayID, reference string) (model.SubscriptionRecord, error) {
	f.mu.Lock()
	delay := f.verifyDelay
	f.verifyCalls++
	f.mu.Unlock()
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return model.SubscriptionRecord{}, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.verifyErr != nil {
		return model.SubscriptionRecord{}, f.verifyErr
	}
	return f.verifyRecord, nil
}

func (f *fakeSubscriptionAPI) CancelSubscription(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelCalls++
	return f.cancelErr
}

// fakeChallengeAPI stubs the remote challenge service.
type fakeChallengeAPI struct {
	mu sync.Mutex

	banners    []model.PremiumChallenge
	bannersErr error

	joinResult adapter.JoinResult
	joinErr    error
	joinedIDs  []string

	trackErr   error
	trackCalls int
}

func newFakeChallengeAPI() *fakeChallengeAPI {
	return &fakeChallengeAPI{joinResult: adapter.JoinResult{Joined: true}}
}

func (f *fakeChallengeAPI) PremiumBanners(ctx context.Context) ([]model.PremiumChallenge, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.bannersErr != nil {
		return nil, f.bannersErr
	}
	out := make([]model.PremiumChallenge, len(f.banners))
	copy(out, f.banners)
	return out, nil
}

func (f *fakeChallengeAPI) JoinChallenge(ctx context.Context, challengeID string) (adapter.JoinResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.joinErr != nil {
		return adapter.JoinResult{}, f.joinErr
	}
	f.joinedIDs = append(f.joinedIDs, challengeID)
	return f.joinResult, nil
}

func (f *fakeChallengeAPI) TrackSession(ctx context.Context, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trackCalls++
	return f.trackErr
}

// helpers

func timePtr(t time.Time) *time.Time { return &t }

func premiumChallenge(id string) model.PremiumChallenge {
	return model.PremiumChallenge{
		ID:                 id,
		Type:               "water_intake",
		Goal:               "2L daily",
		DurationDays:       30,
		IsPremiumChallenge: true,
	}
}
