package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"wellness-entitlements/internal/usecase"
)

// SessionTimers owns the two periodic jobs of an engine session: the banner
// rotation check and the analytics heartbeat. The two are intentionally
// separate tickers so a heartbeat outage can never suppress or break the
// promotional flow. Both handles live and die with the session: Stop must be
// called on teardown so no tick outlives the user identity that started it.
type SessionTimers struct {
	rotator   *Ticker
	heartbeat *Ticker
}

func NewSessionTimers(bridge usecase.ChallengeBridge, rotateEvery, heartbeatEvery time.Duration, logger *zerolog.Logger) *SessionTimers {
	hbLog := logger.With().Str("component", "Heartbeat").Logger()
	return &SessionTimers{
		rotator: NewTicker("banner-rotation", rotateEvery, func(ctx context.Context) {
			bridge.RotateTick()
		}, logger),
		heartbeat: NewTicker("session-heartbeat", heartbeatEvery, func(ctx context.Context) {
			if err := bridge.Heartbeat(ctx); err != nil {
				// Analytics only; log and move on.
				hbLog.Warn().Err(err).Msg("session heartbeat failed")
			}
		}, logger),
	}
}

func (s *SessionTimers) Start(ctx context.Context) {
	s.rotator.Start(ctx)
	s.heartbeat.Start(ctx)
}

func (s *SessionTimers) Stop() {
	s.rotator.Stop()
	s.heartbeat.Stop()
}
