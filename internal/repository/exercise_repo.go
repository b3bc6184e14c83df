package repository

import (
	"context"

	"fitness-membership-backend/internal/models"

	"gorm.io/gorm"
)

// ExerciseFilter narrows an exercise listing. Zero values mean "any".
type ExerciseFilter struct {
	Difficulty    models.ExerciseDifficulty
	RequiredTiers []models.MembershipTier
	DurationMin   int
	DurationMax   int
	Search        string
}

type ExerciseRepository struct {
	db *gorm.DB
}

func NewExerciseRepo(db *gorm.DB) *ExerciseRepository {
	return &ExerciseRepository{db: db}
}

// CreateExercise creates a new exercise
func (r *ExerciseRepository) CreateExercise(ctx context.Context, exercise *models.Exercise) error {
	return translate(r.db.WithContext(ctx).Create(exercise).Error)
}

// GetExerciseByID retrieves an exercise by ID
func (r *ExerciseRepository) GetExerciseByID(ctx context.Context, id uint) (*models.Exercise, error) {
	var exercise models.Exercise
	if err := r.db.WithContext(ctx).First(&exercise, id).Error; err != nil {
		return nil, translate(err)
	}
	return &exercise, nil
}

// ListExercises returns exercises matching the filter ordered by name
func (r *ExerciseRepository) ListExercises(ctx context.Context, filter ExerciseFilter) ([]models.Exercise, error) {
	query := r.db.WithContext(ctx).Model(&models.Exercise{})

	if filter.Difficulty != "" {
		query = query.Where("difficulty = ?", filter.Difficulty)
	}
	if len(filter.RequiredTiers) > 0 {
		query = query.Where("required_tier IN ?", filter.RequiredTiers)
	}
	if filter.DurationMin > 0 {
		query = query.Where("duration >= ?", filter.DurationMin)
	}
	if filter.DurationMax > 0 {
		query = query.Where("duration <= ?", filter.DurationMax)
	}
	if filter.Search != "" {
		pattern := containsPattern(filter.Search)
		query = query.Where("LOWER(name) LIKE ? ESCAPE '!' OR LOWER(description) LIKE ? ESCAPE '!'", pattern, pattern)
	}

	var exercises []models.Exercise
	err := query.Order("name ASC, id ASC").Find(&exercises).Error
	return exercises, err
}

// UpdateExercise saves every column of an existing exercise
func (r *ExerciseRepository) UpdateExercise(ctx context.Context, exercise *models.Exercise) error {
	return translate(r.db.WithContext(ctx).Save(exercise).Error)
}

// DeleteExercise removes an exercise and any workout slots pointing at it
func (r *ExerciseRepository) DeleteExercise(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("exercise_id = ?", id).Delete(&models.WorkoutExercise{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Exercise{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
