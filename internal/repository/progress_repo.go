package repository

import (
	"context"
	"time"

	"fitness-membership-backend/internal/models"

	"gorm.io/gorm"
)

// ProgressFilter narrows a user's progress listing. Zero values mean "any".
type ProgressFilter struct {
	UserID     uint
	WorkoutID  uint
	ExerciseID uint
	Completed  *bool
	From       time.Time
	To         time.Time
}

type ProgressRepository struct {
	db *gorm.DB
}

func NewProgressRepo(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

func (r *ProgressRepository) CreateProgress(ctx context.Context, progress *models.UserProgress) error {
	return translate(r.db.WithContext(ctx).Create(progress).Error)
}

func (r *ProgressRepository) GetProgressByID(ctx context.Context, id uint) (*models.UserProgress, error) {
	var progress models.UserProgress
	if err := r.db.WithContext(ctx).First(&progress, id).Error; err != nil {
		return nil, translate(err)
	}
	return &progress, nil
}

// ListProgress returns matching records newest first, with their workout and exercise
func (r *ProgressRepository) ListProgress(ctx context.Context, filter ProgressFilter) ([]models.UserProgress, error) {
	query := r.db.WithContext(ctx).
		Preload("Workout").
		Preload("Exercise").
		Where("user_id = ?", filter.UserID)

	if filter.WorkoutID != 0 {
		query = query.Where("workout_id = ?", filter.WorkoutID)
	}
	if filter.ExerciseID != 0 {
		query = query.Where("exercise_id = ?", filter.ExerciseID)
	}
	if filter.Completed != nil {
		query = query.Where("completed = ?", *filter.Completed)
	}
	if !filter.From.IsZero() {
		query = query.Where("created_at >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		query = query.Where("created_at <= ?", filter.To)
	}

	var records []models.UserProgress
	err := query.Order("created_at DESC, id DESC").Find(&records).Error
	return records, err
}

// ListCompletedWorkouts returns whole-workout completions, most recent first
func (r *ProgressRepository) ListCompletedWorkouts(ctx context.Context, userID uint) ([]models.UserProgress, error) {
	var records []models.UserProgress
	err := r.db.WithContext(ctx).
		Preload("Workout").
		Where("user_id = ? AND completed = ? AND exercise_id IS NULL", userID, true).
		Order("completed_at DESC, id DESC").
		Find(&records).Error
	return records, err
}

func (r *ProgressRepository) UpdateProgress(ctx context.Context, progress *models.UserProgress) error {
	return translate(r.db.WithContext(ctx).Omit("User", "Workout", "Exercise").Save(progress).Error)
}

func (r *ProgressRepository) DeleteProgress(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.UserProgress{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Stats aggregates a user's records. Workout counts only include whole-workout
// records; duration, calories and average progress include every record.
func (r *ProgressRepository) Stats(ctx context.Context, userID uint) (*models.ProgressStats, error) {
	db := r.db.WithContext(ctx).Model(&models.UserProgress{})
	stats := &models.ProgressStats{}

	if err := db.Session(&gorm.Session{}).
		Where("user_id = ? AND exercise_id IS NULL", userID).
		Count(&stats.TotalWorkouts).Error; err != nil {
		return nil, err
	}
	if err := db.Session(&gorm.Session{}).
		Where("user_id = ? AND exercise_id IS NULL AND completed = ?", userID, true).
		Count(&stats.CompletedWorkouts).Error; err != nil {
		return nil, err
	}

	var totals struct {
		Duration int64
		Calories int64
	}
	if err := db.Session(&gorm.Session{}).
		Select("COALESCE(SUM(duration), 0) AS duration, COALESCE(SUM(calories_burned), 0) AS calories").
		Where("user_id = ?", userID).
		Scan(&totals).Error; err != nil {
		return nil, err
	}

	var average struct {
		Progress float64
	}
	if err := db.Session(&gorm.Session{}).
		Select("COALESCE(AVG(progress), 0) AS progress").
		Where("user_id = ? AND progress IS NOT NULL", userID).
		Scan(&average).Error; err != nil {
		return nil, err
	}

	stats.TotalDuration = totals.Duration
	stats.TotalCalories = totals.Calories
	stats.AverageProgress = average.Progress
	if stats.TotalWorkouts > 0 {
		stats.CompletionRate = float64(stats.CompletedWorkouts) / float64(stats.TotalWorkouts) * 100
	}
	return stats, nil
}
