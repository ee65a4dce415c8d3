package model

import "wellness-entitlements/internal/domain"

// Tier is the purchasable entitlement level of a user.
type Tier string

const (
	TierFree    Tier = "free"
	TierPremium Tier = "premium"
	TierPro     Tier = "pro"
)

// ParseTier validates a wire-format tier string.
func ParseTier(s string) (Tier, error) {
	switch Tier(s) {
	case TierFree, TierPremium, TierPro:
		return Tier(s), nil
	}
	return "", domain.ErrUnknownTier
}

// FeatureID names a gated product feature.
type FeatureID string

const (
	FeatureAIMealAnalysis    FeatureID = "ai_meal_analysis"
	FeatureProgressInsights  FeatureID = "progress_photo_insights"
	FeatureUnlimitedJournal  FeatureID = "unlimited_journal_history"
	FeatureCustomMealPlans   FeatureID = "custom_meal_plans"
	FeatureAdFreeExperience  FeatureID = "ad_free_experience"
	FeatureCoachChat         FeatureID = "personal_coach_chat"
	FeatureDataExport        FeatureID = "data_export"
	FeatureAdvancedAnalytics FeatureID = "advanced_analytics"
	FeaturePrioritySupport   FeatureID = "priority_support"
)

// FeatureSet is a membership set of feature ids.
type FeatureSet map[FeatureID]struct{}

func newFeatureSet(ids ...FeatureID) FeatureSet {
	s := make(FeatureSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Contains reports set membership.
func (s FeatureSet) Contains(id FeatureID) bool {
	_, ok := s[id]
	return ok
}

var premiumFeatureIDs = []FeatureID{
	FeatureAIMealAnalysis,
	FeatureProgressInsights,
	FeatureUnlimitedJournal,
	FeatureCustomMealPlans,
	FeatureAdFreeExperience,
}

var proOnlyFeatureIDs = []FeatureID{
	FeatureCoachChat,
	FeatureDataExport,
	FeatureAdvancedAnalytics,
	FeaturePrioritySupport,
}

var (
	// PremiumFeatures is everything a premium subscription unlocks.
	PremiumFeatures = newFeatureSet(premiumFeatureIDs...)
	// ProFeatures is the premium set plus pro-exclusive entries. Pro is built
	// from the premium slice so a feature added to premium is unlocked for pro
	// without a second edit.
	ProFeatures = newFeatureSet(append(append([]FeatureID{}, premiumFeatureIDs...), proOnlyFeatureIDs...)...)
)

// FeaturesFor returns the gated feature set a tier unlocks. Free unlocks no
// gated features. The result must be treated as read-only.
func FeaturesFor(t Tier) FeatureSet {
	switch t {
	case TierPremium:
		return PremiumFeatures
	case TierPro:
		return ProFeatures
	default:
		return nil
	}
}

// IsGated reports whether a feature belongs to any paid tier.
func IsGated(id FeatureID) bool {
	return ProFeatures.Contains(id) || PremiumFeatures.Contains(id)
}
