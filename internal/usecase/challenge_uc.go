// File: internal/usecase/challenge_uc.go
package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"wellness-entitlements/internal/domain"
	"wellness-entitlements/internal/domain/model"
	"wellness-entitlements/internal/domain/ports/adapter"
	"wellness-entitlements/internal/infra/metrics"
)

const (
	// No banner is shown for the first minute of a session.
	bannerSessionGrace = 60 * time.Second
	// Minimum gap between two banner impressions.
	bannerCooldown = 5 * time.Minute
)

// Compile-time check
var _ ChallengeBridge = (*challengeBridge)(nil)

// ChallengeBridge grants entitlement side effects when the user joins a
// premium challenge and decides, on a timer, when to surface a promotional
// banner to non-participants.
type ChallengeBridge interface {
	// LoadBanners fetches the promotional banner pool.
	LoadBanners(ctx context.Context) error

	// RotateTick is the periodic rotation evaluation. It suppresses banners
	// during the session grace window and the post-impression cooldown, and
	// otherwise advances cyclically through the available pool.
	RotateTick()

	// CurrentBanner returns the banner being shown, or nil.
	CurrentBanner() *model.PremiumChallenge

	// DismissBanner hides the current banner. The banner stays in the pool
	// and may reappear on a later rotation.
	DismissBanner() error

	// JoinChallenge enrolls the user. The joined challenge leaves the banner
	// pool unconditionally, and a granted upgrade forces an immediate
	// entitlement refresh so the new tier is visible right away.
	JoinChallenge(ctx context.Context, challengeID string) (adapter.JoinResult, error)

	// JoinCurrentBanner joins whichever challenge is currently promoted.
	JoinCurrentBanner(ctx context.Context) (adapter.JoinResult, error)

	// Heartbeat pings the engagement-analytics endpoint. Failures are
	// reported to the caller but never touch rotation or entitlement state.
	Heartbeat(ctx context.Context) error

	// SessionID identifies this engine session for analytics.
	SessionID() string
}

type challengeBridge struct {
	api          adapter.ChallengeAPI
	entitlements EntitlementUseCase
	log          *zerolog.Logger
	now          func() time.Time
	sessionID    string

	mu        sync.Mutex
	state     model.BannerRotationState
	lastIndex int // index of the banner shown last, -1 before the first
}

func NewChallengeBridge(api adapter.ChallengeAPI, entitlements EntitlementUseCase, logger *zerolog.Logger) *challengeBridge {
	bridgeLog := logger.With().Str("component", "ChallengeBridge").Logger()
	b := &challengeBridge{
		api:          api,
		entitlements: entitlements,
		log:          &bridgeLog,
		now:          time.Now,
		sessionID:    uuid.NewString(),
		lastIndex:    -1,
	}
	b.state.SessionStartedAt = b.now()
	return b
}

func (b *challengeBridge) SessionID() string { return b.sessionID }

func (b *challengeBridge) LoadBanners(ctx context.Context) error {
	banners, err := b.api.PremiumBanners(ctx)
	if err != nil {
		b.log.Warn().Err(err).Msg("banner catalog fetch failed")
		return err
	}
	// Only designated premium challenges are promotion targets.
	pool := banners[:0:0]
	for _, c := range banners {
		if c.IsPremiumChallenge {
			pool = append(pool, c)
		}
	}

	b.mu.Lock()
	b.state.AvailableBanners = pool
	b.lastIndex = -1
	b.mu.Unlock()
	b.log.Info().Int("count", len(pool)).Msg("banner pool loaded")
	return nil
}

func (b *challengeBridge) RotateTick() {
	now := b.now()

	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.state.AvailableBanners) == 0 {
		return
	}
	if now.Sub(b.state.SessionStartedAt) < bannerSessionGrace {
		return
	}
	if !b.state.LastShownAt.IsZero() && now.Sub(b.state.LastShownAt) < bannerCooldown {
		return
	}

	// Advance past the last shown banner, wrapping around. With a single
	// banner in the pool it simply shows again.
	next := (b.lastIndex + 1) % len(b.state.AvailableBanners)
	banner := b.state.AvailableBanners[next]
	b.lastIndex = next
	b.state.CurrentBanner = &banner
	b.state.LastShownAt = now
	b.log.Debug().Str("challenge_id", banner.ID).Msg("banner rotated in")
	metrics.IncBannerEvent("shown")
}

func (b *challengeBridge) CurrentBanner() *model.PremiumChallenge {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state.CurrentBanner == nil {
		return nil
	}
	banner := *b.state.CurrentBanner
	return &banner
}

func (b *challengeBridge) DismissBanner() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state.CurrentBanner == nil {
		return domain.ErrNoCurrentBanner
	}
	b.state.CurrentBanner = nil
	metrics.IncBannerEvent("dismissed")
	return nil
}

func (b *challengeBridge) JoinChallenge(ctx context.Context, challengeID string) (adapter.JoinResult, error) {
	if challengeID == "" {
		return adapter.JoinResult{}, domain.ErrInvalidArgument
	}
	res, err := b.api.JoinChallenge(ctx, challengeID)
	if err != nil {
		b.log.Error().Err(err).Str("challenge_id", challengeID).Msg("challenge join failed")
		return adapter.JoinResult{}, err
	}

	// A joined challenge is no longer a valid promotion target: drop it from
	// the pool and clear the slot even if a different banner is showing.
	b.mu.Lock()
	kept := b.state.AvailableBanners[:0:0]
	for _, c := range b.state.AvailableBanners {
		if c.ID != challengeID {
			kept = append(kept, c)
		}
	}
	b.state.AvailableBanners = kept
	b.state.CurrentBanner = nil
	b.lastIndex = -1
	b.mu.Unlock()
	metrics.IncBannerEvent("joined")

	if res.Granted {
		// Refresh now rather than waiting for the next natural cycle, so
		// there is no stale-entitlement window after the grant.
		rec := b.entitlements.Refresh(ctx)
		b.log.Info().
			Str("challenge_id", challengeID).
			Str("tier", string(rec.Tier)).
			Msg("premium granted by challenge join")
	} else {
		b.log.Info().Str("challenge_id", challengeID).Msg("challenge joined, no entitlement change")
	}
	return res, nil
}

func (b *challengeBridge) JoinCurrentBanner(ctx context.Context) (adapter.JoinResult, error) {
	b.mu.Lock()
	banner := b.state.CurrentBanner
	b.mu.Unlock()
	if banner == nil {
		return adapter.JoinResult{}, domain.ErrNoCurrentBanner
	}
	return b.JoinChallenge(ctx, banner.ID)
}

func (b *challengeBridge) Heartbeat(ctx context.Context) error {
	if err := b.api.TrackSession(ctx, b.sessionID); err != nil {
		metrics.IncHeartbeat("error")
		return err
	}
	metrics.IncHeartbeat("ok")
	return nil
}
