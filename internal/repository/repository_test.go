package repository

import (
	"context"
	"testing"
	"time"

	"fitness-membership-backend/internal/models"
	"fitness-membership-backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUser(t *testing.T, repo *UserRepository, email string) *models.User {
	t.Helper()
	user := &models.User{Email: email, PasswordHash: "x", FirstName: "F", LastName: "L", Role: models.RoleClient}
	require.NoError(t, repo.CreateUser(context.Background(), user))
	return user
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	repo := NewUserRepo(testutil.NewTestDB(t))
	newUser(t, repo, "same@example.com")

	err := repo.CreateUser(context.Background(), &models.User{
		Email: "same@example.com", PasswordHash: "x", FirstName: "F", LastName: "L", Role: models.RoleClient,
	})
	assert.ErrorIs(t, err, ErrDuplicate)

	_, err = repo.FindUserByEmail(context.Background(), "SAME@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepository_RotateRefreshTokenHash(t *testing.T) {
	repo := NewUserRepo(testutil.NewTestDB(t))
	ctx := context.Background()
	user := newUser(t, repo, "rotate@example.com")

	first := "aaaa"
	require.NoError(t, repo.SetRefreshTokenHash(ctx, user.ID, &first))

	ok, err := repo.RotateRefreshTokenHash(ctx, user.ID, "aaaa", "bbbb")
	require.NoError(t, err)
	assert.True(t, ok)

	// The old value no longer matches.
	ok, err = repo.RotateRefreshTokenHash(ctx, user.ID, "aaaa", "cccc")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.SetRefreshTokenHash(ctx, user.ID, nil))
	ok, err = repo.RotateRefreshTokenHash(ctx, user.ID, "bbbb", "dddd")
	require.NoError(t, err)
	assert.False(t, ok)

	stored, err := repo.FindUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.RefreshTokenHash)
}

func TestWorkoutRepository_Filters(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewWorkoutRepo(db)
	ctx := context.Background()

	for _, w := range []models.Workout{
		{Title: "Alpha", Type: models.WorkoutCardio, Duration: 10, RequiredTier: models.TierFree},
		{Title: "Bravo", Type: models.WorkoutYoga, Duration: 40, RequiredTier: models.TierBasic, IsPremium: true},
		{Title: "Charlie", Type: models.WorkoutCardio, Duration: 25, RequiredTier: models.TierVIP},
	} {
		w := w
		require.NoError(t, repo.CreateWorkout(ctx, &w, nil))
	}

	got, err := repo.ListWorkouts(ctx, WorkoutFilter{Type: models.WorkoutCardio})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Alpha", got[0].Title)

	got, err = repo.ListWorkouts(ctx, WorkoutFilter{RequiredTiers: []models.MembershipTier{models.TierFree, models.TierBasic}})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	premium := true
	got, err = repo.ListWorkouts(ctx, WorkoutFilter{IsPremium: &premium})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Bravo", got[0].Title)

	got, err = repo.ListWorkouts(ctx, WorkoutFilter{DurationMin: 20, DurationMax: 30})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Charlie", got[0].Title)

	counts, err := repo.CountByTier(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[models.TierVIP])
	assert.Equal(t, int64(0), counts[models.TierPremium])

	assert.ErrorIs(t, repo.DeleteWorkout(ctx, 999), ErrNotFound)
	assert.ErrorIs(t, repo.RemoveExercise(ctx, 1, 999), ErrNotFound)
}

func TestMembershipRepository_ActiveAndExpire(t *testing.T) {
	db := testutil.NewTestDB(t)
	users := NewUserRepo(db)
	repo := NewMembershipRepo(db)
	ctx := context.Background()
	user := newUser(t, users, "m@example.com")

	now := time.Now().UTC()
	ended := &models.Membership{UserID: user.ID, Tier: models.TierVIP, Status: models.MembershipActive,
		StartDate: now.AddDate(0, -2, 0), EndDate: now.AddDate(0, 0, -1), Amount: 1, Currency: "LSL"}
	current := &models.Membership{UserID: user.ID, Tier: models.TierBasic, Status: models.MembershipActive,
		StartDate: now, EndDate: now.AddDate(0, 1, 0), Amount: 1, Currency: "LSL"}
	require.NoError(t, repo.CreateMembership(ctx, ended))
	require.NoError(t, repo.CreateMembership(ctx, current))

	active, err := repo.GetActiveMembershipByUserID(ctx, user.ID, now)
	require.NoError(t, err)
	assert.Equal(t, current.ID, active.ID)

	n, err := repo.ExpireEndedMemberships(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := repo.GetMembershipByID(ctx, ended.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MembershipExpired, got.Status)

	_, err = repo.GetActiveMembershipByUserID(ctx, 999, now)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSearch_TreatsWildcardsLiterally(t *testing.T) {
	db := testutil.NewTestDB(t)
	workouts := NewWorkoutRepo(db)
	exercises := NewExerciseRepo(db)
	ctx := context.Background()

	for _, title := range []string{"100% Effort", "1000 Reps", "Core_Burn", "Core Burn"} {
		w := models.Workout{Title: title, Type: models.WorkoutStrength, Duration: 10, RequiredTier: models.TierFree}
		require.NoError(t, workouts.CreateWorkout(ctx, &w, nil))
	}

	got, err := workouts.ListWorkouts(ctx, WorkoutFilter{Search: "100%"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "100% Effort", got[0].Title)

	got, err = workouts.ListWorkouts(ctx, WorkoutFilter{Search: "core_"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Core_Burn", got[0].Title)

	got, err = workouts.ListWorkouts(ctx, WorkoutFilter{Search: "core"})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	require.NoError(t, exercises.CreateExercise(ctx, &models.Exercise{Name: "Plank!_hold", Difficulty: models.DifficultyBeginner, RequiredTier: models.TierFree}))
	require.NoError(t, exercises.CreateExercise(ctx, &models.Exercise{Name: "Plank hold", Difficulty: models.DifficultyBeginner, RequiredTier: models.TierFree}))

	found, err := exercises.ListExercises(ctx, ExerciseFilter{Search: "plank!_"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Plank!_hold", found[0].Name)
}
