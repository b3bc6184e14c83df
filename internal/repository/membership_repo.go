package repository

import (
	"context"
	"time"

	"fitness-membership-backend/internal/models"

	"gorm.io/gorm"
)

type MembershipRepository struct {
	db *gorm.DB
}

func NewMembershipRepo(db *gorm.DB) *MembershipRepository {
	return &MembershipRepository{db: db}
}

// CreateMembership creates a new membership
func (r *MembershipRepository) CreateMembership(ctx context.Context, membership *models.Membership) error {
	return translate(r.db.WithContext(ctx).Create(membership).Error)
}

// GetMembershipByID retrieves a membership by ID
func (r *MembershipRepository) GetMembershipByID(ctx context.Context, id uint) (*models.Membership, error) {
	var membership models.Membership
	if err := r.db.WithContext(ctx).First(&membership, id).Error; err != nil {
		return nil, translate(err)
	}
	return &membership, nil
}

// GetMembershipsByUserID lists a user's memberships, newest first
func (r *MembershipRepository) GetMembershipsByUserID(ctx context.Context, userID uint) ([]models.Membership, error) {
	var memberships []models.Membership
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&memberships).Error
	return memberships, err
}

// GetActiveMembershipByUserID returns the newest ACTIVE membership that has not ended at now
func (r *MembershipRepository) GetActiveMembershipByUserID(ctx context.Context, userID uint, now time.Time) (*models.Membership, error) {
	var membership models.Membership
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ? AND end_date >= ?", userID, models.MembershipActive, now).
		Order("created_at DESC, id DESC").
		First(&membership).Error
	if err != nil {
		return nil, translate(err)
	}
	return &membership, nil
}

// UpdateMembership saves every column of an existing membership
func (r *MembershipRepository) UpdateMembership(ctx context.Context, membership *models.Membership) error {
	return translate(r.db.WithContext(ctx).Omit("User").Save(membership).Error)
}

// ExpireEndedMemberships moves ACTIVE memberships whose end date is before now to EXPIRED
func (r *MembershipRepository) ExpireEndedMemberships(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Membership{}).
		Where("status = ? AND end_date < ?", models.MembershipActive, now).
		Update("status", models.MembershipExpired)
	return result.RowsAffected, result.Error
}
