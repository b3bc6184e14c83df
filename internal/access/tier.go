// Package access decides which tier-gated content a membership tier may see.
package access

import (
	"fitness-membership-backend/internal/models"
)

// Gated is content annotated with a required tier and a premium flag
type Gated interface {
	GatingTier() models.MembershipTier
	PremiumOnly() bool
}

// AccessibleTiers returns every tier ranked at or below userTier, in ascending order.
// FREE is always included.
func AccessibleTiers(userTier models.MembershipTier) ([]models.MembershipTier, error) {
	userRank, err := userTier.Rank()
	if err != nil {
		return nil, err
	}

	tiers := make([]models.MembershipTier, 0, userRank+1)
	for _, tier := range models.AllTiers() {
		rank, _ := tier.Rank()
		if rank <= userRank {
			tiers = append(tiers, tier)
		}
	}
	return tiers, nil
}

// CanAccessTier reports whether a user at userTier may see content requiring required
func CanAccessTier(userTier, required models.MembershipTier) (bool, error) {
	userRank, err := userTier.Rank()
	if err != nil {
		return false, err
	}
	requiredRank, err := required.Rank()
	if err != nil {
		return false, err
	}
	return requiredRank <= userRank, nil
}

// IsAccessible applies both gating rules: the required tier must be within reach,
// and premium content is closed to FREE members.
func IsAccessible(content Gated, userTier models.MembershipTier) (bool, error) {
	ok, err := CanAccessTier(userTier, content.GatingTier())
	if err != nil || !ok {
		return false, err
	}
	if content.PremiumOnly() && userTier == models.TierFree {
		return false, nil
	}
	return true, nil
}

// FilterAccessible returns the items userTier may see, keeping their input order.
// The input slice is not modified.
func FilterAccessible[T Gated](userTier models.MembershipTier, items []T) ([]T, error) {
	if _, err := userTier.Rank(); err != nil {
		return nil, err
	}

	visible := make([]T, 0, len(items))
	for _, item := range items {
		ok, err := IsAccessible(item, userTier)
		if err != nil {
			return nil, err
		}
		if ok {
			visible = append(visible, item)
		}
	}
	return visible, nil
}
