package models

import "time"

type WorkoutType string

const (
	WorkoutCardio      WorkoutType = "CARDIO"
	WorkoutStrength    WorkoutType = "STRENGTH"
	WorkoutHIIT        WorkoutType = "HIIT"
	WorkoutYoga        WorkoutType = "YOGA"
	WorkoutFlexibility WorkoutType = "FLEXIBILITY"
)

// IsValid reports whether the workout type is known
func (t WorkoutType) IsValid() bool {
	switch t {
	case WorkoutCardio, WorkoutStrength, WorkoutHIIT, WorkoutYoga, WorkoutFlexibility:
		return true
	}
	return false
}

// Workout represents the workouts table
type Workout struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Title         string         `gorm:"size:200;not null;index" json:"title"`
	Description   string         `gorm:"type:text" json:"description,omitempty"`
	Type          WorkoutType    `gorm:"size:20;not null;index" json:"type"`
	Duration      int            `gorm:"not null" json:"duration"`
	TotalCalories int            `gorm:"not null" json:"total_calories"`
	Image         string         `gorm:"size:500" json:"image,omitempty"`
	RequiredTier  MembershipTier `gorm:"size:20;not null;default:'FREE';index" json:"required_tier"`
	IsPremium     bool           `gorm:"not null;default:false" json:"is_premium"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`

	// Relationships
	WorkoutExercises []WorkoutExercise `gorm:"foreignKey:WorkoutID;constraint:OnDelete:CASCADE" json:"workout_exercises,omitempty"`
}

// TableName specifies the table name for Workout model
func (Workout) TableName() string {
	return "workouts"
}

func (w Workout) GatingTier() MembershipTier { return w.RequiredTier }
func (w Workout) PremiumOnly() bool          { return w.IsPremium }

// WorkoutExercise places an exercise at a position inside a workout
type WorkoutExercise struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	WorkoutID  uint      `gorm:"not null;uniqueIndex:idx_workout_exercise" json:"workout_id"`
	ExerciseID uint      `gorm:"not null;uniqueIndex:idx_workout_exercise" json:"exercise_id"`
	Order      int       `gorm:"column:position;not null" json:"order"`
	Sets       *int      `json:"sets,omitempty"`
	Reps       *int      `json:"reps,omitempty"`
	Duration   *int      `json:"duration,omitempty"`
	CreatedAt  time.Time `json:"created_at"`

	Exercise *Exercise `gorm:"foreignKey:ExerciseID" json:"exercise,omitempty"`
}

// TableName specifies the table name for WorkoutExercise model
func (WorkoutExercise) TableName() string {
	return "workout_exercises"
}
