package model

import "time"

// PremiumChallenge is a read-only projection of a community challenge whose
// joining may grant a premium upgrade as an incentive.
type PremiumChallenge struct {
	ID                 string    `json:"id"`
	Type               string    `json:"type"`
	Goal               string    `json:"goal"`
	DurationDays       int       `json:"duration"`
	StartDate          time.Time `json:"startDate"`
	EndDate            time.Time `json:"endDate"`
	ParticipantCount   int       `json:"participantCount"`
	IsPremiumChallenge bool      `json:"isPremiumChallenge"`
}

// BannerRotationState tracks which promotional banner is showing and when one
// was last shown. Owned exclusively by the challenge bridge.
type BannerRotationState struct {
	AvailableBanners []PremiumChallenge
	CurrentBanner    *PremiumChallenge
	LastShownAt      time.Time
	SessionStartedAt time.Time
}
