package models

import "time"

// Subscription is a recurring billing agreement for a tier
type Subscription struct {
	ID                 uint             `gorm:"primaryKey" json:"id"`
	UserID             uint             `gorm:"not null;index" json:"user_id"`
	Tier               MembershipTier   `gorm:"size:20;not null" json:"tier"`
	Status             MembershipStatus `gorm:"size:20;not null;default:'ACTIVE';index" json:"status"`
	BillingCycle       BillingCycle     `gorm:"size:20;not null" json:"billing_cycle"`
	Amount             float64          `gorm:"not null" json:"amount"`
	Currency           string           `gorm:"size:3;not null;default:'LSL'" json:"currency"`
	CurrentPeriodStart time.Time        `gorm:"not null" json:"current_period_start"`
	CurrentPeriodEnd   time.Time        `gorm:"not null" json:"current_period_end"`
	CancelAtPeriodEnd  bool             `gorm:"not null" json:"cancel_at_period_end"`
	CanceledAt         *time.Time       `json:"canceled_at,omitempty"`
	PaymentMethod      string           `gorm:"size:30" json:"payment_method,omitempty"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
}

// TableName specifies the table name for Subscription model
func (Subscription) TableName() string {
	return "subscriptions"
}
