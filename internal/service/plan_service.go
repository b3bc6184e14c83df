package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fitness-membership-backend/internal/models"
	"fitness-membership-backend/internal/repository"

	"github.com/sirupsen/logrus"
)

type PlanService struct {
	planRepo  PlanStore
	auditRepo AuditStore
	log       logrus.FieldLogger
}

func NewPlanService(planRepo PlanStore, auditRepo AuditStore, log logrus.FieldLogger) *PlanService {
	return &PlanService{
		planRepo:  planRepo,
		auditRepo: auditRepo,
		log:       log.WithField("component", "plans"),
	}
}

type CreatePlanInput struct {
	Name                string
	Tier                models.MembershipTier
	Description         string
	MonthlyPrice        float64
	QuarterlyPrice      *float64
	YearlyPrice         *float64
	Currency            string
	Features            []string
	MaxWorkouts         *int
	MaxVideos           *int
	HasPersonalTraining bool
	HasNutritionPlan    bool
	IsActive            *bool
}

// UpdatePlanInput holds optional changes; nil fields are left as they are.
// The tier of a plan never changes.
type UpdatePlanInput struct {
	Name                *string
	Description         *string
	MonthlyPrice        *float64
	QuarterlyPrice      *float64
	YearlyPrice         *float64
	Currency            *string
	Features            []string
	MaxWorkouts         *int
	MaxVideos           *int
	HasPersonalTraining *bool
	HasNutritionPlan    *bool
	IsActive            *bool
}

func (s *PlanService) CreatePlan(ctx context.Context, in CreatePlanInput, actorID uint) (*models.MembershipPlan, error) {
	if strings.TrimSpace(in.Name) == "" || in.Tier == "" {
		return nil, invalid("name, tier, and monthly price are required")
	}
	if !in.Tier.IsValid() {
		return nil, invalid("invalid tier")
	}
	if in.MonthlyPrice <= 0 {
		return nil, invalid("monthly price must be greater than 0")
	}
	if err := validateOptionalPrices(in.QuarterlyPrice, in.YearlyPrice); err != nil {
		return nil, err
	}

	_, err := s.planRepo.GetPlanByTier(ctx, in.Tier)
	switch {
	case err == nil:
		return nil, &ConflictError{Message: fmt.Sprintf("a plan with tier %s already exists", in.Tier)}
	case !errors.Is(err, repository.ErrNotFound):
		return nil, fmt.Errorf("failed to look up plan: %w", err)
	}

	plan := &models.MembershipPlan{
		Name:                strings.TrimSpace(in.Name),
		Tier:                in.Tier,
		Description:         in.Description,
		MonthlyPrice:        in.MonthlyPrice,
		QuarterlyPrice:      in.QuarterlyPrice,
		YearlyPrice:         in.YearlyPrice,
		Currency:            in.Currency,
		Features:            in.Features,
		MaxWorkouts:         in.MaxWorkouts,
		MaxVideos:           in.MaxVideos,
		HasPersonalTraining: in.HasPersonalTraining,
		HasNutritionPlan:    in.HasNutritionPlan,
		IsActive:            true,
	}
	if plan.Currency == "" {
		plan.Currency = defaultCurrency
	}
	if plan.Features == nil {
		plan.Features = []string{}
	}
	if in.IsActive != nil {
		plan.IsActive = *in.IsActive
	}

	if err := s.planRepo.CreatePlan(ctx, plan); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, &ConflictError{Message: fmt.Sprintf("a plan with tier %s already exists", in.Tier)}
		}
		return nil, fmt.Errorf("failed to create plan: %w", err)
	}

	recordAudit(ctx, s.auditRepo, s.log, actorID, "plan_create", fmt.Sprintf("Created %s plan ID: %d", plan.Tier, plan.ID))
	return plan, nil
}

// ListPlans returns active plans, or every plan when includeInactive is set
func (s *PlanService) ListPlans(ctx context.Context, includeInactive bool) ([]models.MembershipPlan, error) {
	return s.planRepo.ListPlans(ctx, !includeInactive)
}

func (s *PlanService) GetPlan(ctx context.Context, id uint) (*models.MembershipPlan, error) {
	plan, err := s.planRepo.GetPlanByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "membership plan")
	}
	return plan, nil
}

// ActivePlanForTier returns the plan currently sold for tier
func (s *PlanService) ActivePlanForTier(ctx context.Context, tier models.MembershipTier) (*models.MembershipPlan, error) {
	plan, err := s.planRepo.GetPlanByTier(ctx, tier)
	if err != nil {
		return nil, notFoundOr(err, "membership plan")
	}
	if !plan.IsActive {
		return nil, &NotFoundError{Resource: "membership plan"}
	}
	return plan, nil
}

func (s *PlanService) UpdatePlan(ctx context.Context, id uint, in UpdatePlanInput, actorID uint) (*models.MembershipPlan, error) {
	plan, err := s.planRepo.GetPlanByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "membership plan")
	}

	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, invalid("name cannot be empty")
		}
		plan.Name = strings.TrimSpace(*in.Name)
	}
	if in.MonthlyPrice != nil {
		if *in.MonthlyPrice <= 0 {
			return nil, invalid("monthly price must be greater than 0")
		}
		plan.MonthlyPrice = *in.MonthlyPrice
	}
	if err := validateOptionalPrices(in.QuarterlyPrice, in.YearlyPrice); err != nil {
		return nil, err
	}
	if in.QuarterlyPrice != nil {
		plan.QuarterlyPrice = in.QuarterlyPrice
	}
	if in.YearlyPrice != nil {
		plan.YearlyPrice = in.YearlyPrice
	}
	if in.Description != nil {
		plan.Description = *in.Description
	}
	if in.Currency != nil && *in.Currency != "" {
		plan.Currency = *in.Currency
	}
	if in.Features != nil {
		plan.Features = in.Features
	}
	if in.MaxWorkouts != nil {
		plan.MaxWorkouts = in.MaxWorkouts
	}
	if in.MaxVideos != nil {
		plan.MaxVideos = in.MaxVideos
	}
	if in.HasPersonalTraining != nil {
		plan.HasPersonalTraining = *in.HasPersonalTraining
	}
	if in.HasNutritionPlan != nil {
		plan.HasNutritionPlan = *in.HasNutritionPlan
	}
	if in.IsActive != nil {
		plan.IsActive = *in.IsActive
	}

	if err := s.planRepo.UpdatePlan(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to update plan: %w", err)
	}

	recordAudit(ctx, s.auditRepo, s.log, actorID, "plan_update", fmt.Sprintf("Updated plan ID: %d", id))
	return plan, nil
}

func (s *PlanService) DeletePlan(ctx context.Context, id uint, actorID uint) error {
	if err := s.planRepo.DeletePlan(ctx, id); err != nil {
		return notFoundOr(err, "membership plan")
	}
	recordAudit(ctx, s.auditRepo, s.log, actorID, "plan_delete", fmt.Sprintf("Deleted plan ID: %d", id))
	return nil
}

func validateOptionalPrices(quarterly, yearly *float64) error {
	if quarterly != nil && *quarterly <= 0 {
		return invalid("quarterly price must be greater than 0")
	}
	if yearly != nil && *yearly <= 0 {
		return invalid("yearly price must be greater than 0")
	}
	return nil
}
