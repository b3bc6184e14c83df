package models

import (
	"errors"
	"fmt"
	"strings"
)

// MembershipTier is the membership level that gates workouts and exercises
type MembershipTier string

const (
	TierFree    MembershipTier = "FREE"
	TierBasic   MembershipTier = "BASIC"
	TierPremium MembershipTier = "PREMIUM"
	TierVIP     MembershipTier = "VIP"
)

// ErrInvalidTier is returned for a tier value outside the ranked set
var ErrInvalidTier = errors.New("invalid membership tier")

// tierRanks fixes the ordering used for every access comparison
var tierRanks = map[MembershipTier]int{
	TierFree:    0,
	TierBasic:   1,
	TierPremium: 2,
	TierVIP:     3,
}

// AllTiers returns every tier in ascending rank order
func AllTiers() []MembershipTier {
	return []MembershipTier{TierFree, TierBasic, TierPremium, TierVIP}
}

// Rank returns the numeric access level of the tier
func (t MembershipTier) Rank() (int, error) {
	rank, ok := tierRanks[t]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTier, string(t))
	}
	return rank, nil
}

// IsValid reports whether the tier is one of the ranked tiers
func (t MembershipTier) IsValid() bool {
	_, ok := tierRanks[t]
	return ok
}

// ParseMembershipTier converts user input (case-insensitive) into a tier
func ParseMembershipTier(s string) (MembershipTier, error) {
	tier := MembershipTier(strings.ToUpper(strings.TrimSpace(s)))
	if !tier.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidTier, s)
	}
	return tier, nil
}
