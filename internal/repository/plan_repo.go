package repository

import (
	"context"

	"fitness-membership-backend/internal/models"

	"gorm.io/gorm"
)

type PlanRepository struct {
	db *gorm.DB
}

func NewPlanRepo(db *gorm.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

// CreatePlan inserts a plan; a second plan for the same tier is ErrDuplicate
func (r *PlanRepository) CreatePlan(ctx context.Context, plan *models.MembershipPlan) error {
	return translate(r.db.WithContext(ctx).Create(plan).Error)
}

func (r *PlanRepository) GetPlanByID(ctx context.Context, id uint) (*models.MembershipPlan, error) {
	var plan models.MembershipPlan
	if err := r.db.WithContext(ctx).First(&plan, id).Error; err != nil {
		return nil, translate(err)
	}
	return &plan, nil
}

func (r *PlanRepository) GetPlanByTier(ctx context.Context, tier models.MembershipTier) (*models.MembershipPlan, error) {
	var plan models.MembershipPlan
	if err := r.db.WithContext(ctx).Where("tier = ?", tier).First(&plan).Error; err != nil {
		return nil, translate(err)
	}
	return &plan, nil
}

// ListPlans returns plans cheapest first; activeOnly hides retired plans
func (r *PlanRepository) ListPlans(ctx context.Context, activeOnly bool) ([]models.MembershipPlan, error) {
	query := r.db.WithContext(ctx).Model(&models.MembershipPlan{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var plans []models.MembershipPlan
	err := query.Order("monthly_price ASC, id ASC").Find(&plans).Error
	return plans, err
}

func (r *PlanRepository) UpdatePlan(ctx context.Context, plan *models.MembershipPlan) error {
	return translate(r.db.WithContext(ctx).Save(plan).Error)
}

func (r *PlanRepository) DeletePlan(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.MembershipPlan{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
