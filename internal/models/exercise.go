package models

import "time"

type ExerciseDifficulty string

const (
	DifficultyBeginner     ExerciseDifficulty = "BEGINNER"
	DifficultyIntermediate ExerciseDifficulty = "INTERMEDIATE"
	DifficultyAdvanced     ExerciseDifficulty = "ADVANCED"
)

// IsValid reports whether the difficulty is known
func (d ExerciseDifficulty) IsValid() bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	}
	return false
}

// Exercise represents the exercises table
type Exercise struct {
	ID           uint               `gorm:"primaryKey" json:"id"`
	Name         string             `gorm:"size:200;not null;index" json:"name"`
	Description  string             `gorm:"type:text" json:"description,omitempty"`
	Difficulty   ExerciseDifficulty `gorm:"size:20;not null" json:"difficulty"`
	Duration     int                `gorm:"not null" json:"duration"`
	Calories     int                `gorm:"not null" json:"calories"`
	Image        string             `gorm:"size:500" json:"image,omitempty"`
	VideoURL     string             `gorm:"size:500" json:"video_url,omitempty"`
	Instructions string             `gorm:"type:text" json:"instructions,omitempty"`
	RequiredTier MembershipTier     `gorm:"size:20;not null;default:'FREE';index" json:"required_tier"`
	IsPremium    bool               `gorm:"not null;default:false" json:"is_premium"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

// TableName specifies the table name for Exercise model
func (Exercise) TableName() string {
	return "exercises"
}

func (e Exercise) GatingTier() MembershipTier { return e.RequiredTier }
func (e Exercise) PremiumOnly() bool          { return e.IsPremium }
