package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fitness-membership-backend/internal/access"
	"fitness-membership-backend/internal/models"
	"fitness-membership-backend/internal/repository"

	"github.com/sirupsen/logrus"
)

const (
	todayWorkoutLimit    = 3
	trendingWorkoutLimit = 6
	trendingMinDuration  = 5
	trendingMaxDuration  = 30
)

// dailyWorkoutTypes picks the recommended workout type for each weekday, Sunday first
var dailyWorkoutTypes = [7]models.WorkoutType{
	models.WorkoutCardio,
	models.WorkoutStrength,
	models.WorkoutHIIT,
	models.WorkoutYoga,
	models.WorkoutStrength,
	models.WorkoutCardio,
	models.WorkoutFlexibility,
}

type WorkoutService struct {
	workoutRepo  WorkoutStore
	exerciseRepo ExerciseStore
	auditRepo    AuditStore
	log          logrus.FieldLogger
}

func NewWorkoutService(workoutRepo WorkoutStore, exerciseRepo ExerciseStore, auditRepo AuditStore, log logrus.FieldLogger) *WorkoutService {
	return &WorkoutService{
		workoutRepo:  workoutRepo,
		exerciseRepo: exerciseRepo,
		auditRepo:    auditRepo,
		log:          log.WithField("component", "workouts"),
	}
}

// WorkoutExerciseInput places an exercise inside a workout
type WorkoutExerciseInput struct {
	ExerciseID uint
	Order      int
	Sets       *int
	Reps       *int
	Duration   *int
}

type CreateWorkoutInput struct {
	Title         string
	Description   string
	Type          models.WorkoutType
	Duration      int
	TotalCalories int
	Image         string
	RequiredTier  models.MembershipTier
	IsPremium     bool
	Exercises     []WorkoutExerciseInput
}

// UpdateWorkoutInput holds optional changes; nil fields are left as they are
type UpdateWorkoutInput struct {
	Title         *string
	Description   *string
	Type          *models.WorkoutType
	Duration      *int
	TotalCalories *int
	Image         *string
	RequiredTier  *models.MembershipTier
	IsPremium     *bool
}

// MembershipInfo summarizes how much of the workout catalogue a tier unlocks
type MembershipInfo struct {
	CurrentTier        models.MembershipTier           `json:"current_tier"`
	WorkoutAccess      map[models.MembershipTier]int64 `json:"workout_access"`
	TotalWorkouts      int64                           `json:"total_workouts"`
	AccessibleWorkouts int64                           `json:"accessible_workouts"`
}

// CreateWorkout validates and stores a workout with its optional exercise slots
func (s *WorkoutService) CreateWorkout(ctx context.Context, in CreateWorkoutInput, actorID uint) (*models.Workout, error) {
	if in.Title == "" || in.Type == "" {
		return nil, invalid("title, type, duration, and total calories are required")
	}
	if !in.Type.IsValid() {
		return nil, invalid("invalid workout type")
	}
	if in.RequiredTier == "" {
		in.RequiredTier = models.TierFree
	}
	if !in.RequiredTier.IsValid() {
		return nil, invalid("invalid required tier")
	}
	if in.Duration <= 0 {
		return nil, invalid("duration must be greater than 0")
	}
	if in.TotalCalories < 0 {
		return nil, invalid("total calories cannot be negative")
	}

	items := make([]models.WorkoutExercise, 0, len(in.Exercises))
	for _, ex := range in.Exercises {
		if ex.Order < 0 {
			return nil, invalid("order must be a positive number")
		}
		if _, err := s.exerciseRepo.GetExerciseByID(ctx, ex.ExerciseID); err != nil {
			return nil, notFoundOr(err, "exercise")
		}
		items = append(items, models.WorkoutExercise{
			ExerciseID: ex.ExerciseID,
			Order:      ex.Order,
			Sets:       ex.Sets,
			Reps:       ex.Reps,
			Duration:   ex.Duration,
		})
	}

	workout := &models.Workout{
		Title:         in.Title,
		Description:   in.Description,
		Type:          in.Type,
		Duration:      in.Duration,
		TotalCalories: in.TotalCalories,
		Image:         in.Image,
		RequiredTier:  in.RequiredTier,
		IsPremium:     in.IsPremium,
	}
	if err := s.workoutRepo.CreateWorkout(ctx, workout, items); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, &ConflictError{Message: "exercise listed twice in workout"}
		}
		return nil, fmt.Errorf("failed to create workout: %w", err)
	}

	recordAudit(ctx, s.auditRepo, s.log, actorID, "workout_create",
		fmt.Sprintf("Created workout: %s (ID: %d, tier: %s)", workout.Title, workout.ID, workout.RequiredTier))

	return s.GetWorkout(ctx, workout.ID)
}

// GetWorkout retrieves a workout with its ordered exercises
func (s *WorkoutService) GetWorkout(ctx context.Context, id uint) (*models.Workout, error) {
	workout, err := s.workoutRepo.GetWorkoutByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "workout")
	}
	return workout, nil
}

// ListWorkouts returns the catalogue narrowed by filter
func (s *WorkoutService) ListWorkouts(ctx context.Context, filter repository.WorkoutFilter) ([]models.Workout, error) {
	return s.workoutRepo.ListWorkouts(ctx, filter)
}

// UpdateWorkout applies the non-nil fields of in
func (s *WorkoutService) UpdateWorkout(ctx context.Context, id uint, in UpdateWorkoutInput, actorID uint) (*models.Workout, error) {
	workout, err := s.workoutRepo.GetWorkoutByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "workout")
	}

	if in.Type != nil && !in.Type.IsValid() {
		return nil, invalid("invalid workout type")
	}
	if in.RequiredTier != nil && !in.RequiredTier.IsValid() {
		return nil, invalid("invalid required tier")
	}
	if in.Duration != nil && *in.Duration <= 0 {
		return nil, invalid("duration must be greater than 0")
	}
	if in.TotalCalories != nil && *in.TotalCalories < 0 {
		return nil, invalid("total calories cannot be negative")
	}

	if in.Title != nil {
		if *in.Title == "" {
			return nil, invalid("title cannot be empty")
		}
		workout.Title = *in.Title
	}
	if in.Description != nil {
		workout.Description = *in.Description
	}
	if in.Type != nil {
		workout.Type = *in.Type
	}
	if in.Duration != nil {
		workout.Duration = *in.Duration
	}
	if in.TotalCalories != nil {
		workout.TotalCalories = *in.TotalCalories
	}
	if in.Image != nil {
		workout.Image = *in.Image
	}
	if in.RequiredTier != nil {
		workout.RequiredTier = *in.RequiredTier
	}
	if in.IsPremium != nil {
		workout.IsPremium = *in.IsPremium
	}

	if err := s.workoutRepo.UpdateWorkout(ctx, workout); err != nil {
		return nil, fmt.Errorf("failed to update workout: %w", err)
	}

	recordAudit(ctx, s.auditRepo, s.log, actorID, "workout_update",
		fmt.Sprintf("Updated workout: %s (ID: %d)", workout.Title, workout.ID))
	return workout, nil
}

// DeleteWorkout removes a workout and its exercise slots
func (s *WorkoutService) DeleteWorkout(ctx context.Context, id uint, actorID uint) error {
	if err := s.workoutRepo.DeleteWorkout(ctx, id); err != nil {
		return notFoundOr(err, "workout")
	}

	recordAudit(ctx, s.auditRepo, s.log, actorID, "workout_delete", fmt.Sprintf("Deleted workout ID: %d", id))
	return nil
}

// AddExerciseToWorkout appends an exercise slot to an existing workout
func (s *WorkoutService) AddExerciseToWorkout(ctx context.Context, workoutID uint, in WorkoutExerciseInput) (*models.WorkoutExercise, error) {
	if in.Order < 0 {
		return nil, invalid("order must be a positive number")
	}
	if _, err := s.workoutRepo.GetWorkoutByID(ctx, workoutID); err != nil {
		return nil, notFoundOr(err, "workout")
	}
	exercise, err := s.exerciseRepo.GetExerciseByID(ctx, in.ExerciseID)
	if err != nil {
		return nil, notFoundOr(err, "exercise")
	}

	item := &models.WorkoutExercise{
		WorkoutID:  workoutID,
		ExerciseID: in.ExerciseID,
		Order:      in.Order,
		Sets:       in.Sets,
		Reps:       in.Reps,
		Duration:   in.Duration,
	}
	if err := s.workoutRepo.AddExercise(ctx, item); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, &ConflictError{Message: "exercise is already part of this workout"}
		}
		return nil, fmt.Errorf("failed to add exercise to workout: %w", err)
	}
	item.Exercise = exercise
	return item, nil
}

// RemoveExerciseFromWorkout drops an exercise slot from a workout
func (s *WorkoutService) RemoveExerciseFromWorkout(ctx context.Context, workoutID, exerciseID uint, actorID uint) error {
	if err := s.workoutRepo.RemoveExercise(ctx, workoutID, exerciseID); err != nil {
		return notFoundOr(err, "workout exercise")
	}

	recordAudit(ctx, s.auditRepo, s.log, actorID, "workout_update",
		fmt.Sprintf("Removed exercise %d from workout %d", exerciseID, workoutID))
	return nil
}

// ListAvailable returns every workout the tier may open
func (s *WorkoutService) ListAvailable(ctx context.Context, userTier models.MembershipTier) ([]models.Workout, error) {
	return s.listAccessible(ctx, userTier, repository.WorkoutFilter{})
}

// ListByTier returns the workouts that require requested, minus those userTier cannot open
func (s *WorkoutService) ListByTier(ctx context.Context, requested, userTier models.MembershipTier) ([]models.Workout, error) {
	if !requested.IsValid() {
		return nil, invalid("invalid tier")
	}

	workouts, err := s.workoutRepo.ListWorkouts(ctx, repository.WorkoutFilter{
		RequiredTiers: []models.MembershipTier{requested},
	})
	if err != nil {
		return nil, err
	}
	return access.FilterAccessible(userTier, workouts)
}

// Today recommends up to three accessible workouts of the weekday's type
func (s *WorkoutService) Today(ctx context.Context, userTier models.MembershipTier, weekday time.Weekday) ([]models.Workout, error) {
	workouts, err := s.listAccessible(ctx, userTier, repository.WorkoutFilter{
		Type: dailyWorkoutTypes[weekday],
	})
	if err != nil {
		return nil, err
	}
	if len(workouts) > todayWorkoutLimit {
		workouts = workouts[:todayWorkoutLimit]
	}
	return workouts, nil
}

// Trending returns short, non-premium workouts
func (s *WorkoutService) Trending(ctx context.Context) ([]models.Workout, error) {
	notPremium := false
	workouts, err := s.workoutRepo.ListWorkouts(ctx, repository.WorkoutFilter{
		IsPremium:   &notPremium,
		DurationMin: trendingMinDuration,
		DurationMax: trendingMaxDuration,
	})
	if err != nil {
		return nil, err
	}
	if len(workouts) > trendingWorkoutLimit {
		workouts = workouts[:trendingWorkoutLimit]
	}
	return workouts, nil
}

// MembershipInfo counts workouts per required tier and how many userTier reaches
func (s *WorkoutService) MembershipInfo(ctx context.Context, userTier models.MembershipTier) (*MembershipInfo, error) {
	tiers, err := access.AccessibleTiers(userTier)
	if err != nil {
		return nil, invalid("invalid tier")
	}

	counts, err := s.workoutRepo.CountByTier(ctx)
	if err != nil {
		return nil, err
	}

	info := &MembershipInfo{
		CurrentTier:   userTier,
		WorkoutAccess: make(map[models.MembershipTier]int64, len(models.AllTiers())),
	}
	for _, tier := range models.AllTiers() {
		info.WorkoutAccess[tier] = counts[tier]
		info.TotalWorkouts += counts[tier]
	}
	for _, tier := range tiers {
		info.AccessibleWorkouts += counts[tier]
	}
	return info, nil
}

// listAccessible narrows the query to reachable tiers in SQL and then applies
// the full gating rule, which also hides premium workouts from FREE members.
func (s *WorkoutService) listAccessible(ctx context.Context, userTier models.MembershipTier, filter repository.WorkoutFilter) ([]models.Workout, error) {
	tiers, err := access.AccessibleTiers(userTier)
	if err != nil {
		return nil, invalid("invalid tier")
	}
	filter.RequiredTiers = tiers

	workouts, err := s.workoutRepo.ListWorkouts(ctx, filter)
	if err != nil {
		return nil, err
	}
	return access.FilterAccessible(userTier, workouts)
}
