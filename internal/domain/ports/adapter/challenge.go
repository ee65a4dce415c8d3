package adapter

import (
	"context"

	"wellness-entitlements/internal/domain/model"
)

// JoinResult is the structured outcome of joining a challenge. Granted is an
// explicit flag from the API contract, not a substring match on a message.
type JoinResult struct {
	Joined  bool   `json:"joined"`
	Granted bool   `json:"granted"` // joining unlocked a premium upgrade
	Message string `json:"message,omitempty"`
}

// ChallengeAPI is the port for the remote challenge service.
type ChallengeAPI interface {
	// PremiumBanners lists challenges eligible for promotional banners.
	PremiumBanners(ctx context.Context) ([]model.PremiumChallenge, error)

	// JoinChallenge enrolls the caller; the server decides whether joining
	// grants an entitlement upgrade.
	JoinChallenge(ctx context.Context, challengeID string) (JoinResult, error)

	// TrackSession pings the engagement-analytics heartbeat endpoint.
	TrackSession(ctx context.Context, sessionID string) error
}
