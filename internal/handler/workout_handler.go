package handler

import (
	"net/http"
	"time"

	"fitness-membership-backend/internal/middleware"
	"fitness-membership-backend/internal/models"
	"fitness-membership-backend/internal/repository"
	"fitness-membership-backend/internal/service"
	"fitness-membership-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type WorkoutHandler struct {
	workoutService *service.WorkoutService
	log            logrus.FieldLogger
	now            func() time.Time
}

func NewWorkoutHandler(workoutService *service.WorkoutService, log logrus.FieldLogger) *WorkoutHandler {
	return &WorkoutHandler{
		workoutService: workoutService,
		log:            log,
		now:            time.Now,
	}
}

type WorkoutExerciseRequest struct {
	ExerciseID uint `json:"exercise_id" binding:"required"`
	Order      int  `json:"order" binding:"gte=0"`
	Sets       *int `json:"sets" binding:"omitempty,gt=0"`
	Reps       *int `json:"reps" binding:"omitempty,gt=0"`
	Duration   *int `json:"duration" binding:"omitempty,gt=0"`
}

type CreateWorkoutRequest struct {
	Title         string                   `json:"title" binding:"required"`
	Description   string                   `json:"description"`
	Type          models.WorkoutType       `json:"type" binding:"required"`
	Duration      int                      `json:"duration" binding:"required,gt=0"`
	TotalCalories int                      `json:"total_calories" binding:"gte=0"`
	Image         string                   `json:"image"`
	RequiredTier  models.MembershipTier    `json:"required_tier" binding:"omitempty,tier"`
	IsPremium     bool                     `json:"is_premium"`
	Exercises     []WorkoutExerciseRequest `json:"exercises" binding:"omitempty,dive"`
}

type UpdateWorkoutRequest struct {
	Title         *string                `json:"title"`
	Description   *string                `json:"description"`
	Type          *models.WorkoutType    `json:"type"`
	Duration      *int                   `json:"duration"`
	TotalCalories *int                   `json:"total_calories"`
	Image         *string                `json:"image"`
	RequiredTier  *models.MembershipTier `json:"required_tier" binding:"omitempty,tier"`
	IsPremium     *bool                  `json:"is_premium"`
}

type AddExerciseRequest struct {
	Order    int  `json:"order" binding:"gte=0"`
	Sets     *int `json:"sets" binding:"omitempty,gt=0"`
	Reps     *int `json:"reps" binding:"omitempty,gt=0"`
	Duration *int `json:"duration" binding:"omitempty,gt=0"`
}

// WorkoutQuery holds the listing filters; unknown type or tier values are ignored
type WorkoutQuery struct {
	Type         string `form:"type"`
	RequiredTier string `form:"requiredTier"`
	IsPremium    *bool  `form:"isPremium"`
	DurationMin  int    `form:"durationMin"`
	DurationMax  int    `form:"durationMax"`
	Search       string `form:"search"`
}

func (q WorkoutQuery) filter() repository.WorkoutFilter {
	f := repository.WorkoutFilter{
		IsPremium:   q.IsPremium,
		DurationMin: q.DurationMin,
		DurationMax: q.DurationMax,
		Search:      q.Search,
	}
	if t := models.WorkoutType(q.Type); t.IsValid() {
		f.Type = t
	}
	if tier := models.MembershipTier(q.RequiredTier); tier.IsValid() {
		f.RequiredTiers = []models.MembershipTier{tier}
	}
	return f
}

// ListWorkouts handles GET /workouts
func (h *WorkoutHandler) ListWorkouts(c *gin.Context) {
	var q WorkoutQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	workouts, err := h.workoutService.ListWorkouts(c.Request.Context(), q.filter())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"workouts": workouts, "count": len(workouts)})
}

// GetWorkout handles GET /workouts/:id
func (h *WorkoutHandler) GetWorkout(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid workout ID")
		return
	}

	workout, err := h.workoutService.GetWorkout(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.SuccessResponse(c, workout)
}

func (h *WorkoutHandler) CreateWorkout(c *gin.Context) {
	var req CreateWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, bindingMessage(err))
		return
	}
	actorID, _ := middleware.UserIDFrom(c)

	in := service.CreateWorkoutInput{
		Title:         req.Title,
		Description:   req.Description,
		Type:          req.Type,
		Duration:      req.Duration,
		TotalCalories: req.TotalCalories,
		Image:         req.Image,
		RequiredTier:  req.RequiredTier,
		IsPremium:     req.IsPremium,
	}
	for _, ex := range req.Exercises {
		in.Exercises = append(in.Exercises, service.WorkoutExerciseInput{
			ExerciseID: ex.ExerciseID,
			Order:      ex.Order,
			Sets:       ex.Sets,
			Reps:       ex.Reps,
			Duration:   ex.Duration,
		})
	}

	workout, err := h.workoutService.CreateWorkout(c.Request.Context(), in, actorID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.CreatedResponse(c, workout)
}

func (h *WorkoutHandler) UpdateWorkout(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid workout ID")
		return
	}

	var req UpdateWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, bindingMessage(err))
		return
	}
	actorID, _ := middleware.UserIDFrom(c)

	workout, err := h.workoutService.UpdateWorkout(c.Request.Context(), id, service.UpdateWorkoutInput{
		Title:         req.Title,
		Description:   req.Description,
		Type:          req.Type,
		Duration:      req.Duration,
		TotalCalories: req.TotalCalories,
		Image:         req.Image,
		RequiredTier:  req.RequiredTier,
		IsPremium:     req.IsPremium,
	}, actorID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.SuccessResponse(c, workout)
}

func (h *WorkoutHandler) DeleteWorkout(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid workout ID")
		return
	}
	actorID, _ := middleware.UserIDFrom(c)

	if err := h.workoutService.DeleteWorkout(c.Request.Context(), id, actorID); err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.MessageResponse(c, "Workout deleted successfully")
}

// AddExercise handles POST /workouts/:id/exercises/:exerciseId
func (h *WorkoutHandler) AddExercise(c *gin.Context) {
	workoutID, ok := parseID(c, "id")
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid workout ID")
		return
	}
	exerciseID, ok := parseID(c, "exerciseId")
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid exercise ID")
		return
	}

	var req AddExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, bindingMessage(err))
		return
	}

	item, err := h.workoutService.AddExerciseToWorkout(c.Request.Context(), workoutID, service.WorkoutExerciseInput{
		ExerciseID: exerciseID,
		Order:      req.Order,
		Sets:       req.Sets,
		Reps:       req.Reps,
		Duration:   req.Duration,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.CreatedResponse(c, item)
}

// RemoveExercise handles DELETE /workouts/:id/exercises/:exerciseId
func (h *WorkoutHandler) RemoveExercise(c *gin.Context) {
	workoutID, ok := parseID(c, "id")
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid workout ID")
		return
	}
	exerciseID, ok := parseID(c, "exerciseId")
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid exercise ID")
		return
	}
	actorID, _ := middleware.UserIDFrom(c)

	if err := h.workoutService.RemoveExerciseFromWorkout(c.Request.Context(), workoutID, exerciseID, actorID); err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.MessageResponse(c, "Exercise removed from workout")
}

// ListByTier handles GET /workouts/tier/:tier
func (h *WorkoutHandler) ListByTier(c *gin.Context) {
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

	workouts, err := h.workoutService.ListByTier(c.Request.Context(), requested, userTier)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"workouts": workouts, "count": len(workouts)})
}

// ListAvailable handles GET /workouts/available
func (h *WorkoutHandler) ListAvailable(c *gin.Context) {
	userTier, ok := middleware.TierFrom(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	workouts, err := h.workoutService.ListAvailable(c.Request.Context(), userTier)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"workouts": workouts, "count": len(workouts), "tier": userTier})
}

// Today handles GET /workouts/today
func (h *WorkoutHandler) Today(c *gin.Context) {
	userTier, ok := middleware.TierFrom(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	workouts, err := h.workoutService.Today(c.Request.Context(), userTier, h.now().Weekday())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"workouts": workouts, "count": len(workouts)})
}

// Trending handles GET /workouts/trending
func (h *WorkoutHandler) Trending(c *gin.Context) {
	workouts, err := h.workoutService.Trending(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"workouts": workouts, "count": len(workouts)})
}

// MembershipInfo handles GET /workouts/membership-info
func (h *WorkoutHandler) MembershipInfo(c *gin.Context) {
	userTier, ok := middleware.TierFrom(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	info, err := h.workoutService.MembershipInfo(c.Request.Context(), userTier)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.SuccessResponse(c, info)
}
