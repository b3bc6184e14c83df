package service

import (
	"context"
	"testing"
	"time"

	"fitness-membership-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUser(t *testing.T, env *testEnv, email string) uint {
	t.Helper()
	resp, err := env.authService().Register(context.Background(), registerInput(email))
	require.NoError(t, err)
	return resp.User.ID
}

func TestCreateMembership_Defaults(t *testing.T) {
	env := newTestEnv(t)
	svc := env.membershipService()
	ctx := context.Background()
	userID := seedUser(t, env, "member@example.com")

	start := time.Now().UTC()
	m, err := svc.CreateMembership(ctx, userID, CreateMembershipInput{
		Tier:      models.TierPremium,
		StartDate: start,
		EndDate:   start.AddDate(0, 1, 0),
		Amount:    199.99,
	})
	require.NoError(t, err)
	assert.Equal(t, models.MembershipActive, m.Status)
	assert.Equal(t, "LSL", m.Currency)
	assert.True(t, m.AutoRenew)

	noRenew := false
	m, err = svc.CreateMembership(ctx, userID, CreateMembershipInput{
		Tier:      models.TierBasic,
		StartDate: start,
		EndDate:   start.AddDate(0, 1, 0),
		Amount:    50,
		AutoRenew: &noRenew,
		Currency:  "ZAR",
	})
	require.NoError(t, err)

	stored, err := svc.GetMembership(ctx, m.ID)
	require.NoError(t, err)
	assert.False(t, stored.AutoRenew)
	assert.Equal(t, "ZAR", stored.Currency)
}

func TestCreateMembership_Validation(t *testing.T) {
	env := newTestEnv(t)
	svc := env.membershipService()
	ctx := context.Background()
	userID := seedUser(t, env, "invalid@example.com")

	start := time.Now().UTC()
	cases := map[string]CreateMembershipInput{
		"missing tier":   {StartDate: start, EndDate: start.Add(time.Hour), Amount: 1},
		"unknown tier":   {Tier: "GOLD", StartDate: start, EndDate: start.Add(time.Hour), Amount: 1},
		"end before":     {Tier: models.TierBasic, StartDate: start, EndDate: start.Add(-time.Hour), Amount: 1},
		"zero amount":    {Tier: models.TierBasic, StartDate: start, EndDate: start.Add(time.Hour)},
		"missing period": {Tier: models.TierBasic, Amount: 1},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.CreateMembership(ctx, userID, in)
			var verr *ValidationError
			assert.ErrorAs(t, err, &verr)
		})
	}
}

func TestCurrentTier(t *testing.T) {
	env := newTestEnv(t)
	svc := env.membershipService()
	ctx := context.Background()
	userID := seedUser(t, env, "tier@example.com")

	tier, err := svc.CurrentTier(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, models.TierFree, tier)

	_, err = svc.GetActiveMembership(ctx, userID)
	var nf *NotFoundError
	assert.ErrorAs(t, err, &nf)

	now := time.Now().UTC()
	// Already ended, so it grants nothing.
	_, err = svc.CreateMembership(ctx, userID, CreateMembershipInput{
		Tier: models.TierVIP, StartDate: now.AddDate(0, -2, 0), EndDate: now.AddDate(0, -1, 0), Amount: 10,
	})
	require.NoError(t, err)

	tier, err = svc.CurrentTier(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, models.TierFree, tier)

	m, err := svc.CreateMembership(ctx, userID, CreateMembershipInput{
		Tier: models.TierPremium, StartDate: now, EndDate: now.AddDate(0, 1, 0), Amount: 10,
	})
	require.NoError(t, err)

	tier, err = svc.CurrentTier(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, models.TierPremium, tier)

	active, err := svc.GetActiveMembership(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, m.ID, active.ID)

	list, err := svc.ListUserMemberships(ctx, userID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, m.ID, list[0].ID)
}

func TestCancelMembership(t *testing.T) {
	env := newTestEnv(t)
	svc := env.membershipService()
	ctx := context.Background()
	owner := seedUser(t, env, "owner@example.com")
	other := seedUser(t, env, "other@example.com")

	now := time.Now().UTC()
	m, err := svc.CreateMembership(ctx, owner, CreateMembershipInput{
		Tier: models.TierBasic, StartDate: now, EndDate: now.AddDate(0, 1, 0), Amount: 10,
	})
	require.NoError(t, err)

	_, err = svc.CancelMembership(ctx, m.ID, other)
	var forbidden *ForbiddenError
	assert.ErrorAs(t, err, &forbidden)

	cancelled, err := svc.CancelMembership(ctx, m.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, models.MembershipCancelled, cancelled.Status)
	assert.False(t, cancelled.AutoRenew)

	tier, err := svc.CurrentTier(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, models.TierFree, tier)

	_, err = svc.CancelMembership(ctx, 999, owner)
	var nf *NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestUpdateMembershipStatus(t *testing.T) {
	env := newTestEnv(t)
	svc := env.membershipService()
	ctx := context.Background()
	userID := seedUser(t, env, "status@example.com")

	now := time.Now().UTC()
	m, err := svc.CreateMembership(ctx, userID, CreateMembershipInput{
		Tier: models.TierVIP, StartDate: now, EndDate: now.AddDate(1, 0, 0), Amount: 10,
	})
	require.NoError(t, err)

	_, err = svc.UpdateMembershipStatus(ctx, m.ID, "PAUSED", userID)
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	updated, err := svc.UpdateMembershipStatus(ctx, m.ID, models.MembershipExpired, userID)
	require.NoError(t, err)
	assert.Equal(t, models.MembershipExpired, updated.Status)

	_, err = svc.UpdateMembershipStatus(ctx, 999, models.MembershipActive, userID)
	var nf *NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestCreateMembership_PricedFromPlan(t *testing.T) {
	env := newTestEnv(t)
	svc := env.membershipService().WithPlans(env.planService())
	ctx := context.Background()
	userID := seedUser(t, env, "plans@example.com")
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	// Without a plan for the tier, the amount is still required.
	_, err := svc.CreateMembership(ctx, userID, CreateMembershipInput{
		Tier: models.TierPremium, StartDate: start, EndDate: start.AddDate(0, 1, 0),
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "amount must be greater than 0", verr.Message)

	_, err = env.planService().CreatePlan(ctx, CreatePlanInput{
		Name: "Premium", Tier: models.TierPremium, MonthlyPrice: 150, Currency: "ZAR",
	}, adminID)
	require.NoError(t, err)

	m, err := svc.CreateMembership(ctx, userID, CreateMembershipInput{
		Tier: models.TierPremium, StartDate: start, EndDate: start.AddDate(0, 2, 10),
	})
	require.NoError(t, err)
	assert.Equal(t, 450.0, m.Amount)
	assert.Equal(t, "ZAR", m.Currency)

	m, err = svc.CreateMembership(ctx, userID, CreateMembershipInput{
		Tier: models.TierPremium, StartDate: start, EndDate: start.AddDate(0, 1, 0), Amount: 99,
	})
	require.NoError(t, err)
	assert.Equal(t, 99.0, m.Amount)
	assert.Equal(t, "LSL", m.Currency)
}
