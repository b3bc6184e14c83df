package service

import (
	"context"
	"errors"
	"time"

	"fitness-membership-backend/internal/repository"

	"github.com/sirupsen/logrus"
)

// notFoundOr turns a repository miss into a NotFoundError and passes other errors through
func notFoundOr(err error, resource string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return &NotFoundError{Resource: resource}
	}
	return err
}

// recordAudit writes an audit entry; a failed write is logged, never returned
func recordAudit(ctx context.Context, store AuditStore, log logrus.FieldLogger, actorID uint, action, details string) {
	if err := store.CreateAuditLog(ctx, &actorID, action, details); err != nil {
		log.WithError(err).WithField("action", action).Warn("failed to write audit log")
	}
}

func isNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// monthsCovering counts the calendar months from start needed to reach end, at least one
func monthsCovering(start, end time.Time) int {
	n := 1
	for start.AddDate(0, n, 0).Before(end) {
		n++
	}
	return n
}
