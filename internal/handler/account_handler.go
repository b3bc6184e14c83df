package handler

import (
	"net/http"

	"fitness-membership-backend/internal/middleware"
	"fitness-membership-backend/internal/service"
	"fitness-membership-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AccountHandler serves admin account management
type AccountHandler struct {
	accountService *service.AccountService
	log            logrus.FieldLogger
}

func NewAccountHandler(accountService *service.AccountService, log logrus.FieldLogger) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		log:            log,
	}
}

// AuditTrail handles GET /admin/users/:id/audit-logs
func (h *AccountHandler) AuditTrail(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid user ID")
		return
	}

	logs, err := h.accountService.AuditTrail(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"audit_logs": logs, "count": len(logs)})
}

// Delete handles DELETE /admin/users/:id
func (h *AccountHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid user ID")
		return
	}
	actorID, _ := middleware.UserIDFrom(c)

	if err := h.accountService.DeleteAccount(c.Request.Context(), id, actorID); err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.MessageResponse(c, "User deleted successfully")
}
