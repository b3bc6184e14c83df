package handler

import (
	"errors"
	"net/http"

	"fitness-membership-backend/internal/models"
	"fitness-membership-backend/internal/service"
	"fitness-membership-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// respondError maps a service error onto the response envelope. Anything
// unrecognised is logged and answered with a generic 500.
func respondError(c *gin.Context, log logrus.FieldLogger, err error) {
	var (
		validationErr *service.ValidationError
		authErr       *service.AuthenticationError
		conflictErr   *service.ConflictError
		notFoundErr   *service.NotFoundError
		forbiddenErr  *service.ForbiddenError
	)

	switch {
	case errors.As(err, &validationErr):
		utils.ErrorResponse(c, http.StatusBadRequest, validationErr.Message)
	case errors.Is(err, models.ErrInvalidTier):
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid membership tier")
	case errors.As(err, &authErr):
		utils.ErrorResponse(c, http.StatusUnauthorized, authErr.Message)
	case errors.As(err, &forbiddenErr):
		utils.ErrorResponse(c, http.StatusForbidden, forbiddenErr.Message)
	case errors.As(err, &notFoundErr):
		utils.ErrorResponse(c, http.StatusNotFound, notFoundErr.Error())
	case errors.As(err, &conflictErr):
		utils.ErrorResponse(c, http.StatusConflict, conflictErr.Message)
	default:
		log.WithError(err).WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.FullPath(),
		}).Error("request failed")
		utils.ErrorResponse(c, http.StatusInternalServerError, "Internal server error")
	}
}
