package service

import (
	"context"
	"fmt"

	"fitness-membership-backend/internal/models"

	"github.com/sirupsen/logrus"
)

// AccountService covers admin operations on user accounts
type AccountService struct {
	userRepo  AccountStore
	auditRepo AuditStore
	auditLogs AuditReader
	log       logrus.FieldLogger
}

func NewAccountService(userRepo AccountStore, auditRepo AuditStore, auditLogs AuditReader, log logrus.FieldLogger) *AccountService {
	return &AccountService{
		userRepo:  userRepo,
		auditRepo: auditRepo,
		auditLogs: auditLogs,
		log:       log.WithField("component", "accounts"),
	}
}

// AuditTrail lists the audit entries recorded for userID, newest first
func (s *AccountService) AuditTrail(ctx context.Context, userID uint) ([]models.AuditLog, error) {
	if _, err := s.userRepo.FindUserByID(ctx, userID); err != nil {
		return nil, notFoundOr(err, "user")
	}
	return s.auditLogs.ListByUser(ctx, userID)
}

// DeleteAccount removes a user with their memberships, subscriptions and progress.
// Their session ends with them; admins cannot delete themselves.
func (s *AccountService) DeleteAccount(ctx context.Context, userID, actorID uint) error {
	if userID == actorID {
		return &ForbiddenError{Message: "you cannot delete your own account"}
	}
	if err := s.userRepo.DeleteUser(ctx, userID); err != nil {
		return notFoundOr(err, "user")
	}

	recordAudit(ctx, s.auditRepo, s.log, actorID, "user_delete", fmt.Sprintf("Deleted user ID: %d", userID))
	s.log.WithFields(logrus.Fields{"user_id": userID, "actor_id": actorID}).Info("user deleted")
	return nil
}
