package service

import (
	"testing"
	"time"

	"fitness-membership-backend/internal/repository"
	"fitness-membership-backend/internal/testutil"
	"fitness-membership-backend/pkg/logger"
	"fitness-membership-backend/pkg/utils"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type testEnv struct {
	db            *gorm.DB
	users         *repository.UserRepository
	audit         *repository.AuditRepository
	workouts      *repository.WorkoutRepository
	exercises     *repository.ExerciseRepository
	memberships   *repository.MembershipRepository
	plans         *repository.PlanRepository
	subscriptions *repository.SubscriptionRepository
	progress      *repository.ProgressRepository
	tokens        *utils.TokenManager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.NewTestDB(t)
	tokens, err := utils.NewTokenManager("test-access-secret", "test-refresh-secret", 15*time.Minute, 7*24*time.Hour)
	require.NoError(t, err)

	return &testEnv{
		db:            db,
		users:         repository.NewUserRepo(db),
		audit:         repository.NewAuditRepo(db),
		workouts:      repository.NewWorkoutRepo(db),
		exercises:     repository.NewExerciseRepo(db),
		memberships:   repository.NewMembershipRepo(db),
		plans:         repository.NewPlanRepo(db),
		subscriptions: repository.NewSubscriptionRepo(db),
		progress:      repository.NewProgressRepo(db),
		tokens:        tokens,
	}
}

func (e *testEnv) authService() *AuthService {
	return NewAuthService(e.users, e.audit, e.tokens, logger.Discard()).WithPasswordCost(bcrypt.MinCost)
}

func (e *testEnv) workoutService() *WorkoutService {
	return NewWorkoutService(e.workouts, e.exercises, e.audit, logger.Discard())
}

func (e *testEnv) exerciseService() *ExerciseService {
	return NewExerciseService(e.exercises, e.audit, logger.Discard())
}

func (e *testEnv) membershipService() *MembershipService {
	return NewMembershipService(e.memberships, e.audit, logger.Discard())
}

func (e *testEnv) planService() *PlanService {
	return NewPlanService(e.plans, e.audit, logger.Discard())
}

func (e *testEnv) subscriptionService() *SubscriptionService {
	return NewSubscriptionService(e.subscriptions, e.audit, logger.Discard()).WithPlans(e.planService())
}

func (e *testEnv) progressService() *ProgressService {
	return NewProgressService(e.progress, e.workouts, e.exercises, logger.Discard())
}

func (e *testEnv) accountService() *AccountService {
	return NewAccountService(e.users, e.audit, e.audit, logger.Discard())
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }
