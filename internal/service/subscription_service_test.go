package service

import (
	"context"
	"testing"
	"time"

	"fitness-membership-backend/internal/models"
	"fitness-membership-backend/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSubscription_Period(t *testing.T) {
	env := newTestEnv(t)
	svc := env.subscriptionService()
	ctx := context.Background()
	userID := seedUser(t, env, "sub@example.com")

	fixed := time.Date(2026, 1, 31, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	sub, err := svc.CreateSubscription(ctx, userID, CreateSubscriptionInput{
		Tier: models.TierBasic, BillingCycle: models.BillingQuarterly, Amount: 120,
	})
	require.NoError(t, err)
	assert.Equal(t, models.MembershipActive, sub.Status)
	assert.Equal(t, "LSL", sub.Currency)
	assert.True(t, sub.CurrentPeriodStart.Equal(fixed))
	assert.True(t, sub.CurrentPeriodEnd.Equal(fixed.AddDate(0, 3, 0)))
	assert.False(t, sub.CancelAtPeriodEnd)
}

func TestCreateSubscription_Validation(t *testing.T) {
	env := newTestEnv(t)
	svc := env.subscriptionService()
	userID := seedUser(t, env, "subval@example.com")

	cases := map[string]CreateSubscriptionInput{
		"missing tier":      {BillingCycle: models.BillingMonthly, Amount: 10},
		"unknown tier":      {Tier: "GOLD", BillingCycle: models.BillingMonthly, Amount: 10},
		"unknown cycle":     {Tier: models.TierBasic, BillingCycle: "weekly", Amount: 10},
		"negative amount":   {Tier: models.TierBasic, BillingCycle: models.BillingMonthly, Amount: -5},
		"no amount or plan": {Tier: models.TierBasic, BillingCycle: models.BillingMonthly},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.CreateSubscription(context.Background(), userID, in)
			var verr *ValidationError
			assert.ErrorAs(t, err, &verr)
		})
	}
}

func TestCreateSubscription_SameTierIsConflict(t *testing.T) {
	env := newTestEnv(t)
	svc := env.subscriptionService()
	ctx := context.Background()
	userID := seedUser(t, env, "same@example.com")

	first, err := svc.CreateSubscription(ctx, userID, CreateSubscriptionInput{
		Tier: models.TierPremium, BillingCycle: models.BillingMonthly, Amount: 150,
	})
	require.NoError(t, err)

	_, err = svc.CreateSubscription(ctx, userID, CreateSubscriptionInput{
		Tier: models.TierPremium, BillingCycle: models.BillingYearly, Amount: 1500,
	})
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)

	active, err := svc.GetActiveSubscription(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, active.ID)

	list, err := svc.ListUserSubscriptions(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCreateSubscription_UpgradeCancelsCurrent(t *testing.T) {
	env := newTestEnv(t)
	svc := env.subscriptionService()
	ctx := context.Background()
	userID := seedUser(t, env, "upgrade@example.com")

	basic, err := svc.CreateSubscription(ctx, userID, CreateSubscriptionInput{
		Tier: models.TierBasic, BillingCycle: models.BillingMonthly, Amount: 50,
	})
	require.NoError(t, err)

	vip, err := svc.CreateSubscription(ctx, userID, CreateSubscriptionInput{
		Tier: models.TierVIP, BillingCycle: models.BillingMonthly, Amount: 400,
	})
	require.NoError(t, err)

	old, err := svc.GetSubscription(ctx, basic.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MembershipCancelled, old.Status)
	assert.NotNil(t, old.CanceledAt)

	active, err := svc.GetActiveSubscription(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, vip.ID, active.ID)
	assert.Equal(t, models.TierVIP, active.Tier)

	// Other users are untouched by the upgrade.
	otherID := seedUser(t, env, "bystander@example.com")
	_, err = svc.CreateSubscription(ctx, otherID, CreateSubscriptionInput{
		Tier: models.TierBasic, BillingCycle: models.BillingMonthly, Amount: 50,
	})
	require.NoError(t, err)
}

func TestCreateSubscription_PricedFromPlan(t *testing.T) {
	env := newTestEnv(t)
	svc := env.subscriptionService()
	ctx := context.Background()
	userID := seedUser(t, env, "priced@example.com")

	_, err := env.planService().CreatePlan(ctx, CreatePlanInput{
		Name: "Premium", Tier: models.TierPremium, MonthlyPrice: 150, YearlyPrice: floatPtr(1500), Currency: "ZAR",
	}, adminID)
	require.NoError(t, err)

	sub, err := svc.CreateSubscription(ctx, userID, CreateSubscriptionInput{
		Tier: models.TierPremium, BillingCycle: models.BillingYearly,
	})
	require.NoError(t, err)
	assert.Equal(t, 1500.0, sub.Amount)
	assert.Equal(t, "ZAR", sub.Currency)

	other := seedUser(t, env, "quarterly@example.com")
	sub, err = svc.CreateSubscription(ctx, other, CreateSubscriptionInput{
		Tier: models.TierPremium, BillingCycle: models.BillingQuarterly,
	})
	require.NoError(t, err)
	assert.Equal(t, 450.0, sub.Amount)
}

func TestCancelSubscription(t *testing.T) {
	env := newTestEnv(t)
	svc := env.subscriptionService()
	ctx := context.Background()
	owner := seedUser(t, env, "subowner@example.com")
	other := seedUser(t, env, "subother@example.com")

	sub, err := svc.CreateSubscription(ctx, owner, CreateSubscriptionInput{
		Tier: models.TierBasic, BillingCycle: models.BillingMonthly, Amount: 50,
	})
	require.NoError(t, err)

	_, err = svc.CancelSubscription(ctx, sub.ID, other)
	var forbidden *ForbiddenError
	assert.ErrorAs(t, err, &forbidden)

	cancelled, err := svc.CancelSubscription(ctx, sub.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, models.MembershipCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CanceledAt)

	_, err = svc.CancelSubscription(ctx, sub.ID, owner)
	var conflict *ConflictError
	assert.ErrorAs(t, err, &conflict)

	_, err = svc.GetActiveSubscription(ctx, owner)
	var nf *NotFoundError
	assert.ErrorAs(t, err, &nf)

	// With nothing active, the same tier can be bought again.
	_, err = svc.CreateSubscription(ctx, owner, CreateSubscriptionInput{
		Tier: models.TierBasic, BillingCycle: models.BillingMonthly, Amount: 50,
	})
	require.NoError(t, err)
}

func TestUpdateSubscription(t *testing.T) {
	env := newTestEnv(t)
	svc := env.subscriptionService()
	ctx := context.Background()
	userID := seedUser(t, env, "subupdate@example.com")

	sub, err := svc.CreateSubscription(ctx, userID, CreateSubscriptionInput{
		Tier: models.TierBasic, BillingCycle: models.BillingMonthly, Amount: 50,
	})
	require.NoError(t, err)

	var verr *ValidationError
	_, err = svc.UpdateSubscription(ctx, sub.ID, UpdateSubscriptionInput{Amount: floatPtr(0)}, userID)
	assert.ErrorAs(t, err, &verr)
	badCycle := models.BillingCycle("daily")
	_, err = svc.UpdateSubscription(ctx, sub.ID, UpdateSubscriptionInput{BillingCycle: &badCycle}, userID)
	assert.ErrorAs(t, err, &verr)
	past := sub.CurrentPeriodStart.Add(-time.Hour)
	_, err = svc.UpdateSubscription(ctx, sub.ID, UpdateSubscriptionInput{CurrentPeriodEnd: &past}, userID)
	assert.ErrorAs(t, err, &verr)

	status := models.MembershipCancelled
	atEnd := true
	updated, err := svc.UpdateSubscription(ctx, sub.ID, UpdateSubscriptionInput{
		Amount:            floatPtr(75),
		Status:            &status,
		CancelAtPeriodEnd: &atEnd,
	}, userID)
	require.NoError(t, err)
	assert.Equal(t, 75.0, updated.Amount)
	assert.Equal(t, models.MembershipCancelled, updated.Status)
	assert.NotNil(t, updated.CanceledAt)
	assert.True(t, updated.CancelAtPeriodEnd)

	_, err = svc.UpdateSubscription(ctx, 999, UpdateSubscriptionInput{}, userID)
	var nf *NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestWorkerService_ExpiresSubscriptions(t *testing.T) {
	env := newTestEnv(t)
	svc := env.subscriptionService()
	ctx := context.Background()
	userID := seedUser(t, env, "subworker@example.com")

	svc.now = func() time.Time { return time.Now().UTC().AddDate(0, -2, 0) }
	ended, err := svc.CreateSubscription(ctx, userID, CreateSubscriptionInput{
		Tier: models.TierBasic, BillingCycle: models.BillingMonthly, Amount: 50,
	})
	require.NoError(t, err)

	worker := NewWorkerService(env.memberships, time.Hour, logger.Discard()).WithSubscriptions(env.subscriptions)
	assert.Equal(t, int64(1), worker.RunOnce(ctx))
	assert.Equal(t, int64(0), worker.RunOnce(ctx))

	got, err := svc.GetSubscription(ctx, ended.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MembershipExpired, got.Status)
}
