package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fitness-membership-backend/internal/models"
	"fitness-membership-backend/internal/repository"

	"github.com/sirupsen/logrus"
)

type SubscriptionService struct {
	subscriptionRepo SubscriptionStore
	auditRepo        AuditStore
	plans            PlanPricer
	log              logrus.FieldLogger
	now              func() time.Time
}

func NewSubscriptionService(subscriptionRepo SubscriptionStore, auditRepo AuditStore, log logrus.FieldLogger) *SubscriptionService {
	return &SubscriptionService{
		subscriptionRepo: subscriptionRepo,
		auditRepo:        auditRepo,
		log:              log.WithField("component", "subscriptions"),
		now:              func() time.Time { return time.Now().UTC() },
	}
}

// WithPlans prices subscriptions created without an amount from the tier's active plan
func (s *SubscriptionService) WithPlans(plans PlanPricer) *SubscriptionService {
	s.plans = plans
	return s
}

// CreateSubscriptionInput describes a new subscription. The first period starts now.
type CreateSubscriptionInput struct {
	Tier          models.MembershipTier
	BillingCycle  models.BillingCycle
	Amount        float64
	Currency      string
	PaymentMethod string
}

// UpdateSubscriptionInput holds optional changes; nil fields are left as they are
type UpdateSubscriptionInput struct {
	Tier              *models.MembershipTier
	Status            *models.MembershipStatus
	BillingCycle      *models.BillingCycle
	Amount            *float64
	Currency          *string
	CurrentPeriodEnd  *time.Time
	CancelAtPeriodEnd *bool
	PaymentMethod     *string
}

// CreateSubscription starts a subscription for userID. An active subscription
// at the same tier is a conflict; one at another tier is cancelled and replaced.
func (s *SubscriptionService) CreateSubscription(ctx context.Context, userID uint, in CreateSubscriptionInput) (*models.Subscription, error) {
	if in.Tier == "" || in.BillingCycle == "" {
		return nil, invalid("tier, billing cycle, and amount are required")
	}
	if !in.Tier.IsValid() {
		return nil, invalid("invalid tier")
	}
	if !in.BillingCycle.IsValid() {
		return nil, invalid("invalid billing cycle")
	}
	if in.Amount == 0 && s.plans != nil {
		plan, err := s.plans.ActivePlanForTier(ctx, in.Tier)
		switch {
		case err == nil:
			in.Amount = plan.PriceFor(in.BillingCycle)
			if in.Currency == "" {
				in.Currency = plan.Currency
			}
		case !isNotFound(err):
			return nil, fmt.Errorf("failed to price subscription: %w", err)
		}
	}
	if in.Amount <= 0 {
		return nil, invalid("amount must be greater than 0")
	}

	now := s.now()
	sub := &models.Subscription{
		UserID:             userID,
		Tier:               in.Tier,
		Status:             models.MembershipActive,
		BillingCycle:       in.BillingCycle,
		Amount:             in.Amount,
		Currency:           in.Currency,
		CurrentPeriodStart: now,
		CurrentPeriodEnd:   now.AddDate(0, in.BillingCycle.Months(), 0),
		PaymentMethod:      in.PaymentMethod,
	}
	if sub.Currency == "" {
		sub.Currency = defaultCurrency
	}

	current, err := s.subscriptionRepo.GetActiveSubscriptionByUserID(ctx, userID, now)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		if err := s.subscriptionRepo.CreateSubscription(ctx, sub); err != nil {
			return nil, fmt.Errorf("failed to create subscription: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("failed to look up active subscription: %w", err)
	case current.Tier == in.Tier:
		return nil, &ConflictError{Message: "user already has an active subscription for this tier"}
	default:
		if err := s.subscriptionRepo.ReplaceSubscription(ctx, current, sub, now); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, &ConflictError{Message: "active subscription changed, try again"}
			}
			return nil, fmt.Errorf("failed to replace subscription: %w", err)
		}
		recordAudit(ctx, s.auditRepo, s.log, userID, "subscription_cancel",
			fmt.Sprintf("Cancelled subscription ID %d for %s upgrade", current.ID, in.Tier))
	}

	recordAudit(ctx, s.auditRepo, s.log, userID, "subscription_create",
		fmt.Sprintf("Created %s %s subscription ID: %d", sub.BillingCycle, sub.Tier, sub.ID))
	return sub, nil
}

func (s *SubscriptionService) ListUserSubscriptions(ctx context.Context, userID uint) ([]models.Subscription, error) {
	return s.subscriptionRepo.GetSubscriptionsByUserID(ctx, userID)
}

func (s *SubscriptionService) GetActiveSubscription(ctx context.Context, userID uint) (*models.Subscription, error) {
	sub, err := s.subscriptionRepo.GetActiveSubscriptionByUserID(ctx, userID, s.now())
	if err != nil {
		return nil, notFoundOr(err, "active subscription")
	}
	return sub, nil
}

func (s *SubscriptionService) GetSubscription(ctx context.Context, id uint) (*models.Subscription, error) {
	sub, err := s.subscriptionRepo.GetSubscriptionByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "subscription")
	}
	return sub, nil
}

// CancelSubscription ends an ACTIVE subscription owned by userID immediately
func (s *SubscriptionService) CancelSubscription(ctx context.Context, id uint, userID uint) (*models.Subscription, error) {
	sub, err := s.subscriptionRepo.GetSubscriptionByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "subscription")
	}
	if sub.UserID != userID {
		return nil, &ForbiddenError{Message: "you can only cancel your own subscription"}
	}
	if sub.Status != models.MembershipActive {
		return nil, &ConflictError{Message: "subscription is not active"}
	}

	canceledAt := s.now()
	sub.Status = models.MembershipCancelled
	sub.CanceledAt = &canceledAt
	if err := s.subscriptionRepo.UpdateSubscription(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to cancel subscription: %w", err)
	}

	recordAudit(ctx, s.auditRepo, s.log, userID, "subscription_cancel", fmt.Sprintf("Cancelled subscription ID: %d", id))
	return sub, nil
}

// UpdateSubscription applies an admin change to any subscription
func (s *SubscriptionService) UpdateSubscription(ctx context.Context, id uint, in UpdateSubscriptionInput, actorID uint) (*models.Subscription, error) {
	if in.Amount != nil && *in.Amount <= 0 {
		return nil, invalid("amount must be greater than 0")
	}
	if in.Tier != nil && !in.Tier.IsValid() {
		return nil, invalid("invalid tier")
	}
	if in.Status != nil && !in.Status.IsValid() {
		return nil, invalid("invalid subscription status")
	}
	if in.BillingCycle != nil && !in.BillingCycle.IsValid() {
		return nil, invalid("invalid billing cycle")
	}

	sub, err := s.subscriptionRepo.GetSubscriptionByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "subscription")
	}

	if in.CurrentPeriodEnd != nil {
		if !in.CurrentPeriodEnd.After(sub.CurrentPeriodStart) {
			return nil, invalid("period end must be after period start")
		}
		sub.CurrentPeriodEnd = in.CurrentPeriodEnd.UTC()
	}
	if in.Tier != nil {
		sub.Tier = *in.Tier
	}
	if in.Status != nil {
		if *in.Status == models.MembershipCancelled && sub.Status != models.MembershipCancelled {
			canceledAt := s.now()
			sub.CanceledAt = &canceledAt
		}
		sub.Status = *in.Status
	}
	if in.BillingCycle != nil {
		sub.BillingCycle = *in.BillingCycle
	}
	if in.Amount != nil {
		sub.Amount = *in.Amount
	}
	if in.Currency != nil && *in.Currency != "" {
		sub.Currency = *in.Currency
	}
	if in.CancelAtPeriodEnd != nil {
		sub.CancelAtPeriodEnd = *in.CancelAtPeriodEnd
	}
	if in.PaymentMethod != nil {
		sub.PaymentMethod = *in.PaymentMethod
	}

	if err := s.subscriptionRepo.UpdateSubscription(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to update subscription: %w", err)
	}

	recordAudit(ctx, s.auditRepo, s.log, actorID, "subscription_update", fmt.Sprintf("Updated subscription ID: %d", id))
	return sub, nil
}
