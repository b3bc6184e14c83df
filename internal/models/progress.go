package models

import "time"

// UserProgress records one session on a workout, or on a single exercise of it
// when ExerciseID is set.
type UserProgress struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	UserID         uint       `gorm:"not null;index" json:"user_id"`
	WorkoutID      uint       `gorm:"not null;index" json:"workout_id"`
	ExerciseID     *uint      `gorm:"index" json:"exercise_id,omitempty"`
	Completed      bool       `gorm:"not null" json:"completed"`
	Progress       *float64   `json:"progress,omitempty"`
	Duration       *int       `json:"duration,omitempty"`
	CaloriesBurned *int       `json:"calories_burned,omitempty"`
	StartedAt      *time.Time `json:"started_at,omitempty"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	User     *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Workout  *Workout  `gorm:"foreignKey:WorkoutID;constraint:OnDelete:CASCADE" json:"workout,omitempty"`
	Exercise *Exercise `gorm:"foreignKey:ExerciseID;constraint:OnDelete:CASCADE" json:"exercise,omitempty"`
}

// TableName specifies the table name for UserProgress model
func (UserProgress) TableName() string {
	return "user_progress"
}

// ProgressStats summarises a user's tracked sessions
type ProgressStats struct {
	TotalWorkouts     int64   `json:"total_workouts"`
	CompletedWorkouts int64   `json:"completed_workouts"`
	CompletionRate    float64 `json:"completion_rate"`
	TotalDuration     int64   `json:"total_duration"`
	TotalCalories     int64   `json:"total_calories"`
	AverageProgress   float64 `json:"average_progress"`
}
