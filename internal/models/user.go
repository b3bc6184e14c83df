package models

import "time"

// Role controls which management endpoints a user may call
type Role string

const (
	RoleClient  Role = "CLIENT"
	RoleTrainer Role = "TRAINER"
	RoleAdmin   Role = "ADMIN"
)

// IsValid reports whether the role is known
func (r Role) IsValid() bool {
	switch r {
	case RoleClient, RoleTrainer, RoleAdmin:
		return true
	}
	return false
}

// User represents the users table
type User struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	Email        string  `gorm:"uniqueIndex;not null;size:255" json:"email"`
	PasswordHash string  `gorm:"not null;size:255" json:"-"`
	FirstName    string  `gorm:"size:100;not null" json:"first_name"`
	LastName     string  `gorm:"size:100;not null" json:"last_name"`
	Role         Role    `gorm:"size:20;not null;default:'CLIENT'" json:"role"`
	Phone        *string `gorm:"size:30" json:"phone,omitempty"`
	Avatar       *string `gorm:"size:500" json:"avatar,omitempty"`

	// SHA-256 of the only refresh token currently accepted for this user.
	// NULL after logout.
	RefreshTokenHash *string `gorm:"size:64" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}
