package middleware

import (
	"net/http"
	"strings"

	"fitness-membership-backend/internal/models"
	"fitness-membership-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Keys under which request identity is stored on the gin context
const (
	ContextUserID = "userID"
	ContextEmail  = "email"
	ContextRole   = "role"
	ContextTier   = "membershipTier"
)

// AuthMiddleware validates the JWT access token from the Authorization header
func AuthMiddleware(tokens *utils.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Authorization header required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid authorization format. Use: Bearer <token>")
			return
		}

		claims, err := tokens.ValidateAccessToken(parts[1])
		if err != nil {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextRole, models.Role(claims.Role))

		c.Next()
	}
}

// RequireRole lets the request through only when the authenticated role is one of roles
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := RoleFrom(c)
		if !ok {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
			return
		}

		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		utils.ErrorResponse(c, http.StatusForbidden, "Insufficient permissions")
	}
}

// UserIDFrom returns the authenticated user id set by AuthMiddleware
func UserIDFrom(c *gin.Context) (uint, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

func RoleFrom(c *gin.Context) (models.Role, bool) {
	v, ok := c.Get(ContextRole)
	if !ok {
		return "", false
	}
	role, ok := v.(models.Role)
	return role, ok
}

// TierFrom returns the membership tier set by TierResolver.Middleware
func TierFrom(c *gin.Context) (models.MembershipTier, bool) {
	v, ok := c.Get(ContextTier)
	if !ok {
		return "", false
	}
	tier, ok := v.(models.MembershipTier)
	return tier, ok
}
