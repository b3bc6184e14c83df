package handler

import (
	"net/http"

	"fitness-membership-backend/internal/middleware"
	"fitness-membership-backend/internal/models"
	"fitness-membership-backend/internal/service"
	"fitness-membership-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type PlanHandler struct {
	planService *service.PlanService
	log         logrus.FieldLogger
}

func NewPlanHandler(planService *service.PlanService, log logrus.FieldLogger) *PlanHandler {
	return &PlanHandler{
		planService: planService,
		log:         log,
	}
}

type CreatePlanRequest struct {
	Name                string                `json:"name" binding:"required"`
	Tier                models.MembershipTier `json:"tier" binding:"required,tier"`
	Description         string                `json:"description"`
	MonthlyPrice        float64               `json:"monthly_price" binding:"required,gt=0"`
	QuarterlyPrice      *float64              `json:"quarterly_price" binding:"omitempty,gt=0"`
	YearlyPrice         *float64              `json:"yearly_price" binding:"omitempty,gt=0"`
	Currency            string                `json:"currency" binding:"omitempty,len=3"`
	Features            []string              `json:"features"`
	MaxWorkouts         *int                  `json:"max_workouts" binding:"omitempty,gte=0"`
	MaxVideos           *int                  `json:"max_videos" binding:"omitempty,gte=0"`
	HasPersonalTraining bool                  `json:"has_personal_training"`
	HasNutritionPlan    bool                  `json:"has_nutrition_plan"`
	IsActive            *bool                 `json:"is_active"`
}

type UpdatePlanRequest struct {
	Name                *string  `json:"name"`
	Description         *string  `json:"description"`
	MonthlyPrice        *float64 `json:"monthly_price" binding:"omitempty,gt=0"`
	QuarterlyPrice      *float64 `json:"quarterly_price" binding:"omitempty,gt=0"`
	YearlyPrice         *float64 `json:"yearly_price" binding:"omitempty,gt=0"`
	Currency            *string  `json:"currency" binding:"omitempty,len=3"`
	Features            []string `json:"features"`
	MaxWorkouts         *int     `json:"max_workouts" binding:"omitempty,gte=0"`
	MaxVideos           *int     `json:"max_videos" binding:"omitempty,gte=0"`
	HasPersonalTraining *bool    `json:"has_personal_training"`
	HasNutritionPlan    *bool    `json:"has_nutrition_plan"`
	IsActive            *bool    `json:"is_active"`
}

// ListActive handles GET /membership-plans
func (h *PlanHandler) ListActive(c *gin.Context) {
	h.list(c, false)
}

// ListAll handles GET /membership-plans/all (admin), retired plans included
func (h *PlanHandler) ListAll(c *gin.Context) {
	h.list(c, true)
}

func (h *PlanHandler) list(c *gin.Context, includeInactive bool) {
	plans, err := h.planService.ListPlans(c.Request.Context(), includeInactive)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"plans": plans, "count": len(plans)})
}

func (h *PlanHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid plan ID")
		return
	}

	plan, err := h.planService.GetPlan(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.SuccessResponse(c, plan)
}

func (h *PlanHandler) Create(c *gin.Context) {
	var req CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, bindingMessage(err))
		return
	}
	actorID, _ := middleware.UserIDFrom(c)

	plan, err := h.planService.CreatePlan(c.Request.Context(), service.CreatePlanInput{
		Name:                req.Name,
		Tier:                req.Tier,
		Description:         req.Description,
		MonthlyPrice:        req.MonthlyPrice,
		QuarterlyPrice:      req.QuarterlyPrice,
		YearlyPrice:         req.YearlyPrice,
		Currency:            req.Currency,
		Features:            req.Features,
		MaxWorkouts:         req.MaxWorkouts,
		MaxVideos:           req.MaxVideos,
		HasPersonalTraining: req.HasPersonalTraining,
		HasNutritionPlan:    req.HasNutritionPlan,
		IsActive:            req.IsActive,
	}, actorID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.CreatedResponse(c, plan)
}

func (h *PlanHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid plan ID")
		return
	}

	var req UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, bindingMessage(err))
		return
	}
	actorID, _ := middleware.UserIDFrom(c)

	plan, err := h.planService.UpdatePlan(c.Request.Context(), id, service.UpdatePlanInput{
		Name:                req.Name,
		Description:         req.Description,
		MonthlyPrice:        req.MonthlyPrice,
		QuarterlyPrice:      req.QuarterlyPrice,
		YearlyPrice:         req.YearlyPrice,
		Currency:            req.Currency,
		Features:            req.Features,
		MaxWorkouts:         req.MaxWorkouts,
		MaxVideos:           req.MaxVideos,
		HasPersonalTraining: req.HasPersonalTraining,
		HasNutritionPlan:    req.HasNutritionPlan,
		IsActive:            req.IsActive,
	}, actorID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.SuccessResponse(c, plan)
}

func (h *PlanHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid plan ID")
		return
	}
	actorID, _ := middleware.UserIDFrom(c)

	if err := h.planService.DeletePlan(c.Request.Context(), id, actorID); err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.MessageResponse(c, "Membership plan deleted successfully")
}
