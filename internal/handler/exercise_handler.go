package handler

import (
	"net/http"

	"fitness-membership-backend/internal/middleware"
	"fitness-membership-backend/internal/models"
	"fitness-membership-backend/internal/repository"
	"fitness-membership-backend/internal/service"
	"fitness-membership-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type ExerciseHandler struct {
	exerciseService *service.ExerciseService
	log             logrus.FieldLogger
}

func NewExerciseHandler(exerciseService *service.ExerciseService, log logrus.FieldLogger) *ExerciseHandler {
	return &ExerciseHandler{
		exerciseService: exerciseService,
		log:             log,
	}
}

type CreateExerciseRequest struct {
	Name         string                    `json:"name" binding:"required"`
	Description  string                    `json:"description"`
	Difficulty   models.ExerciseDifficulty `json:"difficulty" binding:"required"`
	Duration     int                       `json:"duration" binding:"required,gt=0"`
	Calories     int                       `json:"calories" binding:"gte=0"`
	Image        string                    `json:"image"`
	VideoURL     string                    `json:"video_url"`
	Instructions string                    `json:"instructions"`
	RequiredTier models.MembershipTier     `json:"required_tier" binding:"omitempty,tier"`
	IsPremium    bool                      `json:"is_premium"`
}

type UpdateExerciseRequest struct {
	Name         *string                    `json:"name"`
	Description  *string                    `json:"description"`
	Difficulty   *models.ExerciseDifficulty `json:"difficulty"`
	Duration     *int                       `json:"duration"`
	Calories     *int                       `json:"calories"`
	Image        *string                    `json:"image"`
	VideoURL     *string                    `json:"video_url"`
	Instructions *string                    `json:"instructions"`
	RequiredTier *models.MembershipTier     `json:"required_tier" binding:"omitempty,tier"`
	IsPremium    *bool                      `json:"is_premium"`
}

type ExerciseQuery struct {
	Difficulty   string `form:"difficulty"`
	RequiredTier string `form:"requiredTier"`
	DurationMin  int    `form:"durationMin"`
	DurationMax  int    `form:"durationMax"`
	Search       string `form:"search"`
}

func (q ExerciseQuery) filter() repository.ExerciseFilter {
	f := repository.ExerciseFilter{
		DurationMin: q.DurationMin,
		DurationMax: q.DurationMax,
		Search:      q.Search,
	}
	if d := models.ExerciseDifficulty(q.Difficulty); d.IsValid() {
		f.Difficulty = d
	}
	if tier := models.MembershipTier(q.RequiredTier); tier.IsValid() {
		f.RequiredTiers = []models.MembershipTier{tier}
	}
	return f
}

func (h *ExerciseHandler) ListExercises(c *gin.Context) {
	var q ExerciseQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	exercises, err := h.exerciseService.ListExercises(c.Request.Context(), q.filter())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"exercises": exercises, "count": len(exercises)})
}

func (h *ExerciseHandler) GetExercise(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid exercise ID")
		return
	}

	exercise, err := h.exerciseService.GetExercise(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.SuccessResponse(c, exercise)
}

func (h *ExerciseHandler) CreateExercise(c *gin.Context) {
	var req CreateExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, bindingMessage(err))
		return
	}
	actorID, _ := middleware.UserIDFrom(c)

	exercise, err := h.exerciseService.CreateExercise(c.Request.Context(), service.CreateExerciseInput{
		Name:         req.Name,
		Description:  req.Description,
		Difficulty:   req.Difficulty,
		Duration:     req.Duration,
		Calories:     req.Calories,
		Image:        req.Image,
		VideoURL:     req.VideoURL,
		Instructions: req.Instructions,
		RequiredTier: req.RequiredTier,
		IsPremium:    req.IsPremium,
	}, actorID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.CreatedResponse(c, exercise)
}

func (h *ExerciseHandler) UpdateExercise(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid exercise ID")
		return
	}

	var req UpdateExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, bindingMessage(err))
		return
	}
	actorID, _ := middleware.UserIDFrom(c)

	exercise, err := h.exerciseService.UpdateExercise(c.Request.Context(), id, service.UpdateExerciseInput{
		Name:         req.Name,
		Description:  req.Description,
		Difficulty:   req.Difficulty,
		Duration:     req.Duration,
		Calories:     req.Calories,
		Image:        req.Image,
		VideoURL:     req.VideoURL,
		Instructions: req.Instructions,
		RequiredTier: req.RequiredTier,
		IsPremium:    req.IsPremium,
	}, actorID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.SuccessResponse(c, exercise)
}

func (h *ExerciseHandler) DeleteExercise(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid exercise ID")
		return
	}
	actorID, _ := middleware.UserIDFrom(c)

	if err := h.exerciseService.DeleteExercise(c.Request.Context(), id, actorID); err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.MessageResponse(c, "Exercise deleted successfully")
}

// ListByTier handles GET /exercises/tier/:tier
func (h *ExerciseHandler) ListByTier(c *gin.Context) {
	requested, err := models.ParseMembershipTier(c.Param("tier"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid membership tier")
		return
	}
	userTier, ok := middleware.TierFrom(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	exercises, err := h.exerciseService.ListByTier(c.Request.Context(), requested, userTier)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"exercises": exercises, "count": len(exercises)})
}
