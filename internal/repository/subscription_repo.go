package repository

import (
	"context"
	"time"

	"fitness-membership-backend/internal/models"

	"gorm.io/gorm"
)

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepo(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) CreateSubscription(ctx context.Context, sub *models.Subscription) error {
	return translate(r.db.WithContext(ctx).Create(sub).Error)
}

// ReplaceSubscription cancels current and creates next in one transaction.
// It fails with ErrNotFound when current is no longer ACTIVE.
func (r *SubscriptionRepository) ReplaceSubscription(ctx context.Context, current *models.Subscription, next *models.Subscription, at time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Subscription{}).
			Where("id = ? AND status = ?", current.ID, models.MembershipActive).
			Updates(map[string]interface{}{
				"status":      models.MembershipCancelled,
				"canceled_at": at,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return translate(tx.Create(next).Error)
	})
}

func (r *SubscriptionRepository) GetSubscriptionByID(ctx context.Context, id uint) (*models.Subscription, error) {
	var sub models.Subscription
	if err := r.db.WithContext(ctx).First(&sub, id).Error; err != nil {
		return nil, translate(err)
	}
	return &sub, nil
}

// GetSubscriptionsByUserID lists a user's subscriptions, newest first
func (r *SubscriptionRepository) GetSubscriptionsByUserID(ctx context.Context, userID uint) ([]models.Subscription, error) {
	var subs []models.Subscription
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&subs).Error
	return subs, err
}

// GetActiveSubscriptionByUserID returns the newest ACTIVE subscription whose period has not ended at now
func (r *SubscriptionRepository) GetActiveSubscriptionByUserID(ctx context.Context, userID uint, now time.Time) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ? AND current_period_end >= ?", userID, models.MembershipActive, now).
		Order("created_at DESC, id DESC").
		First(&sub).Error
	if err != nil {
		return nil, translate(err)
	}
	return &sub, nil
}

func (r *SubscriptionRepository) UpdateSubscription(ctx context.Context, sub *models.Subscription) error {
	return translate(r.db.WithContext(ctx).Omit("User").Save(sub).Error)
}

// ExpireEndedSubscriptions moves ACTIVE subscriptions whose period ended before now to EXPIRED
func (r *SubscriptionRepository) ExpireEndedSubscriptions(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("status = ? AND current_period_end < ?", models.MembershipActive, now).
		Update("status", models.MembershipExpired)
	return result.RowsAffected, result.Error
}
