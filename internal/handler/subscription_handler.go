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

type SubscriptionHandler struct {
	subscriptionService *service.SubscriptionService
	log                 logrus.FieldLogger
}

func NewSubscriptionHandler(subscriptionService *service.SubscriptionService, log logrus.FieldLogger) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptionService: subscriptionService,
		log:                 log,
	}
}

// CreateSubscriptionRequest omits amount to take the price from the tier's plan
type CreateSubscriptionRequest struct {
	Tier          models.MembershipTier `json:"tier" binding:"required,tier"`
	BillingCycle  models.BillingCycle   `json:"billing_cycle" binding:"required,oneof=monthly quarterly yearly"`
	Amount        float64               `json:"amount" binding:"omitempty,gt=0"`
	Currency      string                `json:"currency" binding:"omitempty,len=3"`
	PaymentMethod string                `json:"payment_method" binding:"omitempty,max=30"`
}

type UpdateSubscriptionRequest struct {
	Tier              *models.MembershipTier   `json:"tier" binding:"omitempty,tier"`
	Status            *models.MembershipStatus `json:"status" binding:"omitempty,oneof=ACTIVE EXPIRED CANCELLED PENDING"`
	BillingCycle      *models.BillingCycle     `json:"billing_cycle" binding:"omitempty,oneof=monthly quarterly yearly"`
	Amount            *float64                 `json:"amount" binding:"omitempty,gt=0"`
	Currency          *string                  `json:"currency" binding:"omitempty,len=3"`
	CurrentPeriodEnd  *time.Time               `json:"current_period_end"`
	CancelAtPeriodEnd *bool                    `json:"cancel_at_period_end"`
	PaymentMethod     *string                  `json:"payment_method" binding:"omitempty,max=30"`
}

// ListMine handles GET /subscriptions/my-subscriptions
func (h *SubscriptionHandler) ListMine(c *gin.Context) {
	userID, ok := middleware.UserIDFrom(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	subs, err := h.subscriptionService.ListUserSubscriptions(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"subscriptions": subs, "count": len(subs)})
}

// GetActive handles GET /subscriptions/active
func (h *SubscriptionHandler) GetActive(c *gin.Context) {
	userID, ok := middleware.UserIDFrom(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	sub, err := h.subscriptionService.GetActiveSubscription(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.SuccessResponse(c, sub)
}

func (h *SubscriptionHandler) Create(c *gin.Context) {
	userID, ok := middleware.UserIDFrom(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req CreateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, bindingMessage(err))
		return
	}

	sub, err := h.subscriptionService.CreateSubscription(c.Request.Context(), userID, service.CreateSubscriptionInput{
		Tier:          req.Tier,
		BillingCycle:  req.BillingCycle,
		Amount:        req.Amount,
		Currency:      req.Currency,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.CreatedResponse(c, sub)
}

// Cancel handles PATCH /subscriptions/:id/cancel
func (h *SubscriptionHandler) Cancel(c *gin.Context) {
	userID, ok := middleware.UserIDFrom(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Not authenticated")
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid subscription ID")
		return
	}

	sub, err := h.subscriptionService.CancelSubscription(c.Request.Context(), id, userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.SuccessResponse(c, sub)
}

// Get handles GET /subscriptions/:id (admin)
func (h *SubscriptionHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid subscription ID")
		return
	}

	sub, err := h.subscriptionService.GetSubscription(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.SuccessResponse(c, sub)
}

// Update handles PUT /subscriptions/:id (admin)
func (h *SubscriptionHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid subscription ID")
		return
	}

	var req UpdateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, bindingMessage(err))
		return
	}
	actorID, _ := middleware.UserIDFrom(c)

	sub, err := h.subscriptionService.UpdateSubscription(c.Request.Context(), id, service.UpdateSubscriptionInput{
		Tier:              req.Tier,
		Status:            req.Status,
		BillingCycle:      req.BillingCycle,
		Amount:            req.Amount,
		Currency:          req.Currency,
		CurrentPeriodEnd:  req.CurrentPeriodEnd,
		CancelAtPeriodEnd: req.CancelAtPeriodEnd,
		PaymentMethod:     req.PaymentMethod,
	}, actorID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.SuccessResponse(c, sub)
}
