package service

import (
	"context"
	"fmt"
	"time"

	"fitness-membership-backend/internal/models"
	"fitness-membership-backend/internal/repository"

	"github.com/sirupsen/logrus"
)

type ProgressService struct {
	progressRepo ProgressStore
	workoutRepo  WorkoutStore
	exerciseRepo ExerciseStore
	log          logrus.FieldLogger
	now          func() time.Time
}

func NewProgressService(progressRepo ProgressStore, workoutRepo WorkoutStore, exerciseRepo ExerciseStore, log logrus.FieldLogger) *ProgressService {
	return &ProgressService{
		progressRepo: progressRepo,
		workoutRepo:  workoutRepo,
		exerciseRepo: exerciseRepo,
		log:          log.WithField("component", "progress"),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

type CreateProgressInput struct {
	WorkoutID      uint
	ExerciseID     *uint
	Completed      bool
	Progress       *float64
	Duration       *int
	CaloriesBurned *int
}

// UpdateProgressInput holds optional changes; nil fields are left as they are
type UpdateProgressInput struct {
	Completed      *bool
	Progress       *float64
	Duration       *int
	CaloriesBurned *int
}

func validateMeasurements(progress *float64, duration, calories *int) error {
	if progress != nil && (*progress < 0 || *progress > 100) {
		return invalid("progress must be between 0 and 100")
	}
	if duration != nil && *duration <= 0 {
		return invalid("duration must be greater than 0")
	}
	if calories != nil && *calories < 0 {
		return invalid("calories burned cannot be negative")
	}
	return nil
}

// RecordProgress stores a session of userID on a workout or one of its exercises
func (s *ProgressService) RecordProgress(ctx context.Context, userID uint, in CreateProgressInput) (*models.UserProgress, error) {
	if in.WorkoutID == 0 {
		return nil, invalid("workout ID is required")
	}
	if err := validateMeasurements(in.Progress, in.Duration, in.CaloriesBurned); err != nil {
		return nil, err
	}

	if _, err := s.workoutRepo.GetWorkoutByID(ctx, in.WorkoutID); err != nil {
		return nil, notFoundOr(err, "workout")
	}
	if in.ExerciseID != nil {
		if _, err := s.exerciseRepo.GetExerciseByID(ctx, *in.ExerciseID); err != nil {
			return nil, notFoundOr(err, "exercise")
		}
	}

	now := s.now()
	record := &models.UserProgress{
		UserID:         userID,
		WorkoutID:      in.WorkoutID,
		ExerciseID:     in.ExerciseID,
		Completed:      in.Completed,
		Progress:       in.Progress,
		Duration:       in.Duration,
		CaloriesBurned: in.CaloriesBurned,
		StartedAt:      &now,
	}
	if in.Completed {
		record.CompletedAt = &now
	}

	if err := s.progressRepo.CreateProgress(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to record progress: %w", err)
	}

	s.log.WithFields(logrus.Fields{"user_id": userID, "workout_id": in.WorkoutID}).Debug("progress recorded")
	return record, nil
}

// ListProgress returns the caller's records; filter.UserID is always replaced by userID
func (s *ProgressService) ListProgress(ctx context.Context, userID uint, filter repository.ProgressFilter) ([]models.UserProgress, error) {
	filter.UserID = userID
	return s.progressRepo.ListProgress(ctx, filter)
}

func (s *ProgressService) CompletedWorkouts(ctx context.Context, userID uint) ([]models.UserProgress, error) {
	return s.progressRepo.ListCompletedWorkouts(ctx, userID)
}

func (s *ProgressService) Stats(ctx context.Context, userID uint) (*models.ProgressStats, error) {
	return s.progressRepo.Stats(ctx, userID)
}

// UpdateProgress changes a record owned by userID. Marking it completed stamps
// the completion time; un-marking clears it.
func (s *ProgressService) UpdateProgress(ctx context.Context, id, userID uint, in UpdateProgressInput) (*models.UserProgress, error) {
	if err := validateMeasurements(in.Progress, in.Duration, in.CaloriesBurned); err != nil {
		return nil, err
	}

	record, err := s.owned(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if in.Completed != nil && *in.Completed != record.Completed {
		record.Completed = *in.Completed
		if record.Completed {
			now := s.now()
			record.CompletedAt = &now
		} else {
			record.CompletedAt = nil
		}
	}
	if in.Progress != nil {
		record.Progress = in.Progress
	}
	if in.Duration != nil {
		record.Duration = in.Duration
	}
	if in.CaloriesBurned != nil {
		record.CaloriesBurned = in.CaloriesBurned
	}

	if err := s.progressRepo.UpdateProgress(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to update progress: %w", err)
	}
	return record, nil
}

func (s *ProgressService) DeleteProgress(ctx context.Context, id, userID uint) error {
	if _, err := s.owned(ctx, id, userID); err != nil {
		return err
	}
	if err := s.progressRepo.DeleteProgress(ctx, id); err != nil {
		return notFoundOr(err, "progress record")
	}
	return nil
}

func (s *ProgressService) owned(ctx context.Context, id, userID uint) (*models.UserProgress, error) {
	record, err := s.progressRepo.GetProgressByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "progress record")
	}
	if record.UserID != userID {
		return nil, &ForbiddenError{Message: "you can only change your own progress"}
	}
	return record, nil
}
