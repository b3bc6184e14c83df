package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// MembershipExpirer closes memberships whose paid period has ended
type MembershipExpirer interface {
	ExpireEndedMemberships(ctx context.Context, now time.Time) (int64, error)
}

// SubscriptionExpirer closes subscriptions whose current period has ended
type SubscriptionExpirer interface {
	ExpireEndedSubscriptions(ctx context.Context, now time.Time) (int64, error)
}

// WorkerService periodically expires ended memberships and subscriptions so
// listings show their real status
type WorkerService struct {
	memberships   MembershipExpirer
	subscriptions SubscriptionExpirer
	interval      time.Duration
	log         logrus.FieldLogger
	now         func() time.Time
}

func NewWorkerService(memberships MembershipExpirer, interval time.Duration, log logrus.FieldLogger) *WorkerService {
	return &WorkerService{
		memberships: memberships,
		interval:    interval,
		log:         log.WithField("component", "worker"),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// WithSubscriptions adds subscriptions to every sweep
func (w *WorkerService) WithSubscriptions(subscriptions SubscriptionExpirer) *WorkerService {
	w.subscriptions = subscriptions
	return w
}

// Start runs one sweep immediately and then one per interval until ctx is cancelled
func (w *WorkerService) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.log.WithField("interval", w.interval.String()).Info("expiry worker started")
	w.RunOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			w.log.Info("expiry worker stopped")
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single sweep and reports how many memberships and
// subscriptions expired
func (w *WorkerService) RunOnce(ctx context.Context) int64 {
	now := w.now()

	expired, err := w.memberships.ExpireEndedMemberships(ctx, now)
	if err != nil {
		w.logSweepError(ctx, err, "memberships")
		expired = 0
	} else if expired > 0 {
		w.log.WithField("count", expired).Info("expired ended memberships")
	}

	if w.subscriptions == nil {
		return expired
	}
	ended, err := w.subscriptions.ExpireEndedSubscriptions(ctx, now)
	if err != nil {
		w.logSweepError(ctx, err, "subscriptions")
		return expired
	}
	if ended > 0 {
		w.log.WithField("count", ended).Info("expired ended subscriptions")
	}
	return expired + ended
}

func (w *WorkerService) logSweepError(ctx context.Context, err error, what string) {
	if ctx.Err() == nil {
		w.log.WithError(err).Errorf("failed to expire %s", what)
	}
}
