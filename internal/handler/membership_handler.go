package handler

import (
	"net/http"
	"time"

	"fitness-membership-backend/internal/middleware"
	"fitness-membership-backend/internal/models"
	"fitness-membership-backend/internal/service"
	"fitness-membership-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type MembershipHandler struct {
	membershipService *service.MembershipService
	log               logrus.FieldLogger
}

func NewMembershipHandler(membershipService *service.MembershipService, log logrus.FieldLogger) *MembershipHandler {
	return &MembershipHandler{
		membershipService: membershipService,
		log:               log,
	}
}

// CreateMembershipRequest omits amount to take the price from the tier's plan
type CreateMembershipRequest struct {
	Tier      models.MembershipTier `json:"tier" binding:"required,tier"`
	StartDate time.Time             `json:"start_date" binding:"required"`
	EndDate   time.Time             `json:"end_date" binding:"required"`
	AutoRenew *bool                 `json:"auto_renew"`
	Amount    float64               `json:"amount" binding:"omitempty,gt=0"`
	Currency  string                `json:"currency" binding:"omitempty,len=3"`
}

type UpdateMembershipStatusRequest struct {
	Status models.MembershipStatus `json:"status" binding:"required,oneof=ACTIVE EXPIRED CANCELLED PENDING"`
}

// ListMine handles GET /membership/my-memberships
func (h *MembershipHandler) ListMine(c *gin.Context) {
	userID, ok := middleware.UserIDFrom(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	memberships, err := h.membershipService.ListUserMemberships(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"memberships": memberships, "count": len(memberships)})
}

// GetActive handles GET /membership/active
func (h *MembershipHandler) GetActive(c *gin.Context) {
	userID, ok := middleware.UserIDFrom(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	membership, err := h.membershipService.GetActiveMembership(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.SuccessResponse(c, membership)
}

func (h *MembershipHandler) Create(c *gin.Context) {
	userID, ok := middleware.UserIDFrom(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req CreateMembershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, bindingMessage(err))
		return
	}

	membership, err := h.membershipService.CreateMembership(c.Request.Context(), userID, service.CreateMembershipInput{
		Tier:      req.Tier,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		AutoRenew: req.AutoRenew,
		Amount:    req.Amount,
		Currency:  req.Currency,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.CreatedResponse(c, membership)
}

// Cancel handles PATCH /membership/:id/cancel
func (h *MembershipHandler) Cancel(c *gin.Context) {
	userID, ok := middleware.UserIDFrom(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Not authenticated")
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid membership ID")
		return
	}

	membership, err := h.membershipService.CancelMembership(c.Request.Context(), id, userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.SuccessResponse(c, membership)
}

// Get handles GET /membership/:id (admin)
func (h *MembershipHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid membership ID")
		return
	}

	membership, err := h.membershipService.GetMembership(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.SuccessResponse(c, membership)
}

// UpdateStatus handles PATCH /membership/:id/status (admin)
func (h *MembershipHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid membership ID")
		return
	}

	var req UpdateMembershipStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, bindingMessage(err))
		return
	}
	actorID, _ := middleware.UserIDFrom(c)

	membership, err := h.membershipService.UpdateMembershipStatus(c.Request.Context(), id, req.Status, actorID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.SuccessResponse(c, membership)
}
