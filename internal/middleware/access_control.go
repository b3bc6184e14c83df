package middleware

import (
	"context"
	"net/http"

	"fitness-membership-backend/internal/models"
	"fitness-membership-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// TierSource looks up the membership tier a user currently holds
type TierSource interface {
	CurrentTier(ctx context.Context, userID uint) (models.MembershipTier, error)
}

// TierResolver puts the caller's membership tier on the request for tier-gated routes
type TierResolver struct {
	source TierSource
	log    logrus.FieldLogger
}

func NewTierResolver(source TierSource, log logrus.FieldLogger) *TierResolver {
	return &TierResolver{source: source, log: log}
}

// Middleware must run after AuthMiddleware
func (m *TierResolver) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := UserIDFrom(c)
		if !ok {
			utils.ErrorResponse(c, http.StatusUnauthorized, "User not authenticated")
			return
		}

		tier, err := m.source.CurrentTier(c.Request.Context(), userID)
		if err != nil {
			m.log.WithError(err).WithField("user_id", userID).Error("failed to resolve membership tier")
			utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to verify membership")
			return
		}

		c.Set(ContextTier, tier)
		c.Next()
	}
}
