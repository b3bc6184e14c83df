package service

import (
	"context"
	"time"

	"fitness-membership-backend/internal/models"
	"fitness-membership-backend/internal/repository"
)

// UserStore is the persistence the session manager needs
type UserStore interface {
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByID(ctx context.Context, id uint) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
	SetRefreshTokenHash(ctx context.Context, userID uint, hash *string) error
	RotateRefreshTokenHash(ctx context.Context, userID uint, expected, next string) (bool, error)
}

type AuditStore interface {
	CreateAuditLog(ctx context.Context, userID *uint, action string, details string) error
}

type WorkoutStore interface {
	CreateWorkout(ctx context.Context, workout *models.Workout, items []models.WorkoutExercise) error
	GetWorkoutByID(ctx context.Context, id uint) (*models.Workout, error)
	ListWorkouts(ctx context.Context, filter repository.WorkoutFilter) ([]models.Workout, error)
	UpdateWorkout(ctx context.Context, workout *models.Workout) error
	DeleteWorkout(ctx context.Context, id uint) error
	AddExercise(ctx context.Context, item *models.WorkoutExercise) error
	RemoveExercise(ctx context.Context, workoutID, exerciseID uint) error
	CountByTier(ctx context.Context) (map[models.MembershipTier]int64, error)
}

type ExerciseStore interface {
	CreateExercise(ctx context.Context, exercise *models.Exercise) error
	GetExerciseByID(ctx context.Context, id uint) (*models.Exercise, error)
	ListExercises(ctx context.Context, filter repository.ExerciseFilter) ([]models.Exercise, error)
	UpdateExercise(ctx context.Context, exercise *models.Exercise) error
	DeleteExercise(ctx context.Context, id uint) error
}

type MembershipStore interface {
	CreateMembership(ctx context.Context, membership *models.Membership) error
	GetMembershipByID(ctx context.Context, id uint) (*models.Membership, error)
	GetMembershipsByUserID(ctx context.Context, userID uint) ([]models.Membership, error)
	GetActiveMembershipByUserID(ctx context.Context, userID uint, now time.Time) (*models.Membership, error)
	UpdateMembership(ctx context.Context, membership *models.Membership) error
}

type PlanStore interface {
	CreatePlan(ctx context.Context, plan *models.MembershipPlan) error
	GetPlanByID(ctx context.Context, id uint) (*models.MembershipPlan, error)
	GetPlanByTier(ctx context.Context, tier models.MembershipTier) (*models.MembershipPlan, error)
	ListPlans(ctx context.Context, activeOnly bool) ([]models.MembershipPlan, error)
	UpdatePlan(ctx context.Context, plan *models.MembershipPlan) error
	DeletePlan(ctx context.Context, id uint) error
}

// PlanPricer supplies the active plan of a tier when a purchase omits the amount
type PlanPricer interface {
	ActivePlanForTier(ctx context.Context, tier models.MembershipTier) (*models.MembershipPlan, error)
}

type SubscriptionStore interface {
	CreateSubscription(ctx context.Context, sub *models.Subscription) error
	ReplaceSubscription(ctx context.Context, current, next *models.Subscription, at time.Time) error
	GetSubscriptionByID(ctx context.Context, id uint) (*models.Subscription, error)
	GetSubscriptionsByUserID(ctx context.Context, userID uint) ([]models.Subscription, error)
	GetActiveSubscriptionByUserID(ctx context.Context, userID uint, now time.Time) (*models.Subscription, error)
	UpdateSubscription(ctx context.Context, sub *models.Subscription) error
}

type ProgressStore interface {
	CreateProgress(ctx context.Context, progress *models.UserProgress) error
	GetProgressByID(ctx context.Context, id uint) (*models.UserProgress, error)
	ListProgress(ctx context.Context, filter repository.ProgressFilter) ([]models.UserProgress, error)
	ListCompletedWorkouts(ctx context.Context, userID uint) ([]models.UserProgress, error)
	UpdateProgress(ctx context.Context, progress *models.UserProgress) error
	DeleteProgress(ctx context.Context, id uint) error
	Stats(ctx context.Context, userID uint) (*models.ProgressStats, error)
}

// AccountStore is what account administration needs on top of the session store
type AccountStore interface {
	FindUserByID(ctx context.Context, id uint) (*models.User, error)
	DeleteUser(ctx context.Context, id uint) error
}

type AuditReader interface {
	ListByUser(ctx context.Context, userID uint) ([]models.AuditLog, error)
}
