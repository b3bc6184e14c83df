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

const defaultCurrency = "LSL"

type MembershipService struct {
	membershipRepo MembershipStore
	auditRepo      AuditStore
	plans          PlanPricer
	log            logrus.FieldLogger
	now            func() time.Time
}

func NewMembershipService(membershipRepo MembershipStore, auditRepo AuditStore, log logrus.FieldLogger) *MembershipService {
	return &MembershipService{
		membershipRepo: membershipRepo,
		auditRepo:      auditRepo,
		log:            log.WithField("component", "memberships"),
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// WithPlans prices memberships created without an amount from the tier's active plan
func (s *MembershipService) WithPlans(plans PlanPricer) *MembershipService {
	s.plans = plans
	return s
}

// CreateMembershipInput describes a purchase. A zero Amount is priced from
// the tier's plan at the monthly rate for every month the period touches.
type CreateMembershipInput struct {
	Tier      models.MembershipTier
	StartDate time.Time
	EndDate   time.Time
	AutoRenew *bool
	Amount    float64
	Currency  string
}

// CreateMembership opens a membership for userID
func (s *MembershipService) CreateMembership(ctx context.Context, userID uint, in CreateMembershipInput) (*models.Membership, error) {
	if in.Tier == "" || in.StartDate.IsZero() || in.EndDate.IsZero() {
		return nil, invalid("tier, start date, end date, and amount are required")
	}
	if !in.Tier.IsValid() {
		return nil, invalid("invalid tier")
	}
	if !in.EndDate.After(in.StartDate) {
		return nil, invalid("end date must be after start date")
	}
	if in.Amount == 0 && s.plans != nil {
		plan, err := s.plans.ActivePlanForTier(ctx, in.Tier)
		switch {
		case err == nil:
			in.Amount = plan.MonthlyPrice * float64(monthsCovering(in.StartDate, in.EndDate))
			if in.Currency == "" {
				in.Currency = plan.Currency
			}
		case !isNotFound(err):
			return nil, fmt.Errorf("failed to price membership: %w", err)
		}
	}
	if in.Amount <= 0 {
		return nil, invalid("amount must be greater than 0")
	}

	membership := &models.Membership{
		UserID:    userID,
		Tier:      in.Tier,
		Status:    models.MembershipActive,
		StartDate: in.StartDate.UTC(),
		EndDate:   in.EndDate.UTC(),
		AutoRenew: true,
		Amount:    in.Amount,
		Currency:  in.Currency,
	}
	if in.AutoRenew != nil {
		membership.AutoRenew = *in.AutoRenew
	}
	if membership.Currency == "" {
		membership.Currency = defaultCurrency
	}

	if err := s.membershipRepo.CreateMembership(ctx, membership); err != nil {
		return nil, fmt.Errorf("failed to create membership: %w", err)
	}

	recordAudit(ctx, s.auditRepo, s.log, userID, "membership_create",
		fmt.Sprintf("Created %s membership ID: %d", membership.Tier, membership.ID))
	return membership, nil
}

func (s *MembershipService) ListUserMemberships(ctx context.Context, userID uint) ([]models.Membership, error) {
	return s.membershipRepo.GetMembershipsByUserID(ctx, userID)
}

func (s *MembershipService) GetMembership(ctx context.Context, id uint) (*models.Membership, error) {
	membership, err := s.membershipRepo.GetMembershipByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "membership")
	}
	return membership, nil
}

// GetActiveMembership returns the membership currently granting userID its tier
func (s *MembershipService) GetActiveMembership(ctx context.Context, userID uint) (*models.Membership, error) {
	membership, err := s.membershipRepo.GetActiveMembershipByUserID(ctx, userID, s.now())
	if err != nil {
		return nil, notFoundOr(err, "active membership")
	}
	return membership, nil
}

// CurrentTier resolves the tier userID holds right now; without an active membership it is FREE
func (s *MembershipService) CurrentTier(ctx context.Context, userID uint) (models.MembershipTier, error) {
	membership, err := s.membershipRepo.GetActiveMembershipByUserID(ctx, userID, s.now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.TierFree, nil
		}
		return "", err
	}
	if !membership.Tier.IsValid() {
		return "", fmt.Errorf("membership %d: %w", membership.ID, models.ErrInvalidTier)
	}
	return membership.Tier, nil
}

// CancelMembership stops a membership owned by userID and turns off auto renewal
func (s *MembershipService) CancelMembership(ctx context.Context, id uint, userID uint) (*models.Membership, error) {
	membership, err := s.membershipRepo.GetMembershipByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "membership")
	}
	if membership.UserID != userID {
		return nil, &ForbiddenError{Message: "you can only cancel your own membership"}
	}

	membership.Status = models.MembershipCancelled
	membership.AutoRenew = false
	if err := s.membershipRepo.UpdateMembership(ctx, membership); err != nil {
		return nil, fmt.Errorf("failed to cancel membership: %w", err)
	}

	recordAudit(ctx, s.auditRepo, s.log, userID, "membership_cancel", fmt.Sprintf("Cancelled membership ID: %d", id))
	return membership, nil
}

// UpdateMembershipStatus sets the status of any membership (admin only)
func (s *MembershipService) UpdateMembershipStatus(ctx context.Context, id uint, status models.MembershipStatus, actorID uint) (*models.Membership, error) {
	if !status.IsValid() {
		return nil, invalid("invalid membership status")
	}

	membership, err := s.membershipRepo.GetMembershipByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "membership")
	}

	membership.Status = status
	if err := s.membershipRepo.UpdateMembership(ctx, membership); err != nil {
		return nil, fmt.Errorf("failed to update membership: %w", err)
	}

	recordAudit(ctx, s.auditRepo, s.log, actorID, "membership_status",
		fmt.Sprintf("Set membership ID %d to %s", id, status))
	return membership, nil
}
