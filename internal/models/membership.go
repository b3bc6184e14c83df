package models

import "time"

type MembershipStatus string

const (
	MembershipActive    MembershipStatus = "ACTIVE"
	MembershipExpired   MembershipStatus = "EXPIRED"
	MembershipCancelled MembershipStatus = "CANCELLED"
	MembershipPending   MembershipStatus = "PENDING"
)

// IsValid reports whether the status is known
func (s MembershipStatus) IsValid() bool {
	switch s {
	case MembershipActive, MembershipExpired, MembershipCancelled, MembershipPending:
		return true
	}
	return false
}

// Membership represents a paid period at a given tier
type Membership struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	UserID    uint             `gorm:"not null;index" json:"user_id"`
	Tier      MembershipTier   `gorm:"size:20;not null" json:"tier"`
	Status    MembershipStatus `gorm:"size:20;not null;default:'ACTIVE';index" json:"status"`
	StartDate time.Time        `gorm:"not null" json:"start_date"`
	EndDate   time.Time        `gorm:"not null" json:"end_date"`
	AutoRenew bool             `gorm:"not null" json:"auto_renew"`
	Amount    float64          `gorm:"not null" json:"amount"`
	Currency  string           `gorm:"size:3;not null;default:'LSL'" json:"currency"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
}

// TableName specifies the table name for Membership model
func (Membership) TableName() string {
	return "memberships"
}
