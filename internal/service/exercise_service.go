package service

import (
	"context"
	"fmt"

	"fitness-membership-backend/internal/access"
	"fitness-membership-backend/internal/models"
	"fitness-membership-backend/internal/repository"

	"github.com/sirupsen/logrus"
)

type ExerciseService struct {
	exerciseRepo ExerciseStore
	auditRepo    AuditStore
	log          logrus.FieldLogger
}

func NewExerciseService(exerciseRepo ExerciseStore, auditRepo AuditStore, log logrus.FieldLogger) *ExerciseService {
	return &ExerciseService{
		exerciseRepo: exerciseRepo,
		auditRepo:    auditRepo,
		log:          log.WithField("component", "exercises"),
	}
}

type CreateExerciseInput struct {
	Name         string
	Description  string
	Difficulty   models.ExerciseDifficulty
	Duration     int
	Calories     int
	Image        string
	VideoURL     string
	Instructions string
	RequiredTier models.MembershipTier
	IsPremium    bool
}

// UpdateExerciseInput holds optional changes; nil fields are left as they are
type UpdateExerciseInput struct {
	Name         *string
	Description  *string
	Difficulty   *models.ExerciseDifficulty
	Duration     *int
	Calories     *int
	Image        *string
	VideoURL     *string
	Instructions *string
	RequiredTier *models.MembershipTier
	IsPremium    *bool
}

func (s *ExerciseService) CreateExercise(ctx context.Context, in CreateExerciseInput, actorID uint) (*models.Exercise, error) {
	if in.Name == "" || in.Difficulty == "" {
		return nil, invalid("name, difficulty, duration, and calories are required")
	}
	if !in.Difficulty.IsValid() {
		return nil, invalid("invalid difficulty level")
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
	if in.Calories < 0 {
		return nil, invalid("calories cannot be negative")
	}

	exercise := &models.Exercise{
		Name:         in.Name,
		Description:  in.Description,
		Difficulty:   in.Difficulty,
		Duration:     in.Duration,
		Calories:     in.Calories,
		Image:        in.Image,
		VideoURL:     in.VideoURL,
		Instructions: in.Instructions,
		RequiredTier: in.RequiredTier,
		IsPremium:    in.IsPremium,
	}
	if err := s.exerciseRepo.CreateExercise(ctx, exercise); err != nil {
		return nil, fmt.Errorf("failed to create exercise: %w", err)
	}

	recordAudit(ctx, s.auditRepo, s.log, actorID, "exercise_create",
		fmt.Sprintf("Created exercise: %s (ID: %d, tier: %s)", exercise.Name, exercise.ID, exercise.RequiredTier))
	return exercise, nil
}

func (s *ExerciseService) GetExercise(ctx context.Context, id uint) (*models.Exercise, error) {
	exercise, err := s.exerciseRepo.GetExerciseByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "exercise")
	}
	return exercise, nil
}

func (s *ExerciseService) ListExercises(ctx context.Context, filter repository.ExerciseFilter) ([]models.Exercise, error) {
	return s.exerciseRepo.ListExercises(ctx, filter)
}

func (s *ExerciseService) UpdateExercise(ctx context.Context, id uint, in UpdateExerciseInput, actorID uint) (*models.Exercise, error) {
	exercise, err := s.exerciseRepo.GetExerciseByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "exercise")
	}

	if in.Difficulty != nil && !in.Difficulty.IsValid() {
		return nil, invalid("invalid difficulty level")
	}
	if in.RequiredTier != nil && !in.RequiredTier.IsValid() {
		return nil, invalid("invalid required tier")
	}
	if in.Duration != nil && *in.Duration <= 0 {
		return nil, invalid("duration must be greater than 0")
	}
	if in.Calories != nil && *in.Calories < 0 {
		return nil, invalid("calories cannot be negative")
	}

	if in.Name != nil {
		if *in.Name == "" {
			return nil, invalid("name cannot be empty")
		}
		exercise.Name = *in.Name
	}
	if in.Description != nil {
		exercise.Description = *in.Description
	}
	if in.Difficulty != nil {
		exercise.Difficulty = *in.Difficulty
	}
	if in.Duration != nil {
		exercise.Duration = *in.Duration
	}
	if in.Calories != nil {
		exercise.Calories = *in.Calories
	}
	if in.Image != nil {
		exercise.Image = *in.Image
	}
	if in.VideoURL != nil {
		exercise.VideoURL = *in.VideoURL
	}
	if in.Instructions != nil {
		exercise.Instructions = *in.Instructions
	}
	if in.RequiredTier != nil {
		exercise.RequiredTier = *in.RequiredTier
	}
	if in.IsPremium != nil {
		exercise.IsPremium = *in.IsPremium
	}

	if err := s.exerciseRepo.UpdateExercise(ctx, exercise); err != nil {
		return nil, fmt.Errorf("failed to update exercise: %w", err)
	}

	recordAudit(ctx, s.auditRepo, s.log, actorID, "exercise_update",
		fmt.Sprintf("Updated exercise: %s (ID: %d)", exercise.Name, exercise.ID))
	return exercise, nil
}

func (s *ExerciseService) DeleteExercise(ctx context.Context, id uint, actorID uint) error {
	if err := s.exerciseRepo.DeleteExercise(ctx, id); err != nil {
		return notFoundOr(err, "exercise")
	}

	recordAudit(ctx, s.auditRepo, s.log, actorID, "exercise_delete", fmt.Sprintf("Deleted exercise ID: %d", id))
	return nil
}

// ListByTier returns the exercises that require requested, minus those userTier cannot open
func (s *ExerciseService) ListByTier(ctx context.Context, requested, userTier models.MembershipTier) ([]models.Exercise, error) {
	if !requested.IsValid() {
		return nil, invalid("invalid tier")
	}

	exercises, err := s.exerciseRepo.ListExercises(ctx, repository.ExerciseFilter{
		RequiredTiers: []models.MembershipTier{requested},
	})
	if err != nil {
		return nil, err
	}
	return access.FilterAccessible(userTier, exercises)
}
