package models

import "time"

type BillingCycle string

const (
	BillingMonthly   BillingCycle = "monthly"
	BillingQuarterly BillingCycle = "quarterly"
	BillingYearly    BillingCycle = "yearly"
)

// Months returns the length of one billing period, or 0 for an unknown cycle
func (b BillingCycle) Months() int {
	switch b {
	case BillingMonthly:
		return 1
	case BillingQuarterly:
		return 3
	case BillingYearly:
		return 12
	}
	return 0
}

func (b BillingCycle) IsValid() bool { return b.Months() > 0 }

// MembershipPlan is the priced offer for one tier. There is at most one plan per tier.
type MembershipPlan struct {
	ID                  uint           `gorm:"primaryKey" json:"id"`
	Name                string         `gorm:"size:100;not null" json:"name"`
	Tier                MembershipTier `gorm:"size:20;not null;uniqueIndex" json:"tier"`
	Description         string         `gorm:"type:text" json:"description,omitempty"`
	MonthlyPrice        float64        `gorm:"not null" json:"monthly_price"`
	QuarterlyPrice      *float64       `json:"quarterly_price,omitempty"`
	YearlyPrice         *float64       `json:"yearly_price,omitempty"`
	Currency            string         `gorm:"size:3;not null;default:'LSL'" json:"currency"`
	Features            []string       `gorm:"type:text;serializer:json" json:"features"`
	MaxWorkouts         *int           `json:"max_workouts,omitempty"`
	MaxVideos           *int           `json:"max_videos,omitempty"`
	HasPersonalTraining bool           `gorm:"not null" json:"has_personal_training"`
	HasNutritionPlan    bool           `gorm:"not null" json:"has_nutrition_plan"`
	IsActive            bool           `gorm:"not null;index" json:"is_active"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
}

// TableName specifies the table name for MembershipPlan model
func (MembershipPlan) TableName() string {
	return "membership_plans"
}

// PriceFor returns the price of one period of cycle. Quarterly and yearly
// fall back to whole months at the monthly price when no discount is set.
func (p MembershipPlan) PriceFor(cycle BillingCycle) float64 {
	switch cycle {
	case BillingQuarterly:
		if p.QuarterlyPrice != nil {
			return *p.QuarterlyPrice
		}
	case BillingYearly:
		if p.YearlyPrice != nil {
			return *p.YearlyPrice
		}
	}
	return p.MonthlyPrice * float64(cycle.Months())
}
