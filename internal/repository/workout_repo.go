package repository

import (
	"context"

	"fitness-membership-backend/internal/models"

	"gorm.io/gorm"
)

// WorkoutFilter narrows a workout listing. Zero values mean "any".
type WorkoutFilter struct {
	Type          models.WorkoutType
	RequiredTiers []models.MembershipTier
	IsPremium     *bool
	DurationMin   int
	DurationMax   int
	Search        string
}

type WorkoutRepository struct {
	db *gorm.DB
}

func NewWorkoutRepo(db *gorm.DB) *WorkoutRepository {
	return &WorkoutRepository{db: db}
}

// CreateWorkout inserts a workout and its exercise slots in one transaction
func (r *WorkoutRepository) CreateWorkout(ctx context.Context, workout *models.Workout, items []models.WorkoutExercise) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("WorkoutExercises").Create(workout).Error; err != nil {
			return translate(err)
		}
		for i := range items {
			items[i].WorkoutID = workout.ID
			if err := tx.Create(&items[i]).Error; err != nil {
				return translate(err)
			}
		}
		return nil
	})
}

// GetWorkoutByID retrieves a workout with its exercises in slot order
func (r *WorkoutRepository) GetWorkoutByID(ctx context.Context, id uint) (*models.Workout, error) {
	var workout models.Workout
	err := r.db.WithContext(ctx).
		Preload("WorkoutExercises", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("WorkoutExercises.Exercise").
		First(&workout, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &workout, nil
}

// ListWorkouts returns workouts matching the filter ordered by title
func (r *WorkoutRepository) ListWorkouts(ctx context.Context, filter WorkoutFilter) ([]models.Workout, error) {
	query := r.db.WithContext(ctx).Model(&models.Workout{})

	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if len(filter.RequiredTiers) > 0 {
		query = query.Where("required_tier IN ?", filter.RequiredTiers)
	}
	if filter.IsPremium != nil {
		query = query.Where("is_premium = ?", *filter.IsPremium)
	}
	if filter.DurationMin > 0 {
		query = query.Where("duration >= ?", filter.DurationMin)
	}
	if filter.DurationMax > 0 {
		query = query.Where("duration <= ?", filter.DurationMax)
	}
	if filter.Search != "" {
		pattern := containsPattern(filter.Search)
		query = query.Where("LOWER(title) LIKE ? ESCAPE '!' OR LOWER(description) LIKE ? ESCAPE '!'", pattern, pattern)
	}

	var workouts []models.Workout
	err := query.Order("title ASC, id ASC").Find(&workouts).Error
	return workouts, err
}

// UpdateWorkout saves every column of an existing workout
func (r *WorkoutRepository) UpdateWorkout(ctx context.Context, workout *models.Workout) error {
	return translate(r.db.WithContext(ctx).Omit("WorkoutExercises").Save(workout).Error)
}

// DeleteWorkout removes a workout together with its exercise slots
func (r *WorkoutRepository) DeleteWorkout(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("workout_id = ?", id).Delete(&models.WorkoutExercise{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Workout{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// AddExercise places an exercise in a workout; the pair is unique
func (r *WorkoutRepository) AddExercise(ctx context.Context, item *models.WorkoutExercise) error {
	return translate(r.db.WithContext(ctx).Create(item).Error)
}

// RemoveExercise drops an exercise from a workout
func (r *WorkoutRepository) RemoveExercise(ctx context.Context, workoutID, exerciseID uint) error {
	result := r.db.WithContext(ctx).
		Where("workout_id = ? AND exercise_id = ?", workoutID, exerciseID).
		Delete(&models.WorkoutExercise{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountByTier returns the number of workouts per required tier
func (r *WorkoutRepository) CountByTier(ctx context.Context) (map[models.MembershipTier]int64, error) {
	var rows []struct {
		RequiredTier models.MembershipTier
		Count        int64
	}
	err := r.db.WithContext(ctx).Model(&models.Workout{}).
		Select("required_tier, COUNT(*) AS count").
		Group("required_tier").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[models.MembershipTier]int64, len(rows))
	for _, row := range rows {
		counts[row.RequiredTier] = row.Count
	}
	return counts, nil
}
