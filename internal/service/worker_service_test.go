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

func TestWorkerService_RunOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := seedUser(t, env, "worker@example.com")
	svc := env.membershipService()

	now := time.Now().UTC()
	ended, err := svc.CreateMembership(ctx, userID, CreateMembershipInput{
		Tier: models.TierBasic, StartDate: now.AddDate(0, -2, 0), EndDate: now.AddDate(0, 0, -1), Amount: 10,
	})
	require.NoError(t, err)
	current, err := svc.CreateMembership(ctx, userID, CreateMembershipInput{
		Tier: models.TierVIP, StartDate: now, EndDate: now.AddDate(0, 1, 0), Amount: 10,
	})
	require.NoError(t, err)

	worker := NewWorkerService(env.memberships, time.Hour, logger.Discard())
	assert.Equal(t, int64(1), worker.RunOnce(ctx))
	assert.Equal(t, int64(0), worker.RunOnce(ctx))

	got, err := svc.GetMembership(ctx, ended.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MembershipExpired, got.Status)

	got, err = svc.GetMembership(ctx, current.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MembershipActive, got.Status)
}

func TestWorkerService_StopsOnCancel(t *testing.T) {
	env := newTestEnv(t)
	worker := NewWorkerService(env.memberships, time.Millisecond, logger.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		worker.Start(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop after cancel")
	}
}
