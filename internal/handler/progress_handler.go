package handler

import (
	"net/http"
	"strconv"
	"time"

	"fitness-membership-backend/internal/middleware"
	"fitness-membership-backend/internal/repository"
	"fitness-membership-backend/internal/service"
	"fitness-membership-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type ProgressHandler struct {
	progressService *service.ProgressService
	log             logrus.FieldLogger
}

func NewProgressHandler(progressService *service.ProgressService, log logrus.FieldLogger) *ProgressHandler {
	return &ProgressHandler{
		progressService: progressService,
		log:             log,
	}
}

type CreateProgressRequest struct {
	WorkoutID      uint     `json:"workout_id" binding:"required"`
	ExerciseID     *uint    `json:"exercise_id"`
	Completed      bool     `json:"completed"`
	Progress       *float64 `json:"progress"`
	Duration       *int     `json:"duration"`
	CaloriesBurned *int     `json:"calories_burned"`
}

type UpdateProgressRequest struct {
	Completed      *bool    `json:"completed"`
	Progress       *float64 `json:"progress"`
	Duration       *int     `json:"duration"`
	CaloriesBurned *int     `json:"calories_burned"`
}

// ProgressQuery mirrors the listing filters; values that do not parse are ignored
type ProgressQuery struct {
	WorkoutID  string `form:"workoutId"`
	ExerciseID string `form:"exerciseId"`
	Completed  string `form:"completed"`
	DateFrom   string `form:"dateFrom"`
	DateTo     string `form:"dateTo"`
}

func (q ProgressQuery) filter() repository.ProgressFilter {
	var f repository.ProgressFilter
	if id, err := strconv.ParseUint(q.WorkoutID, 10, 32); err == nil {
		f.WorkoutID = uint(id)
	}
	if id, err := strconv.ParseUint(q.ExerciseID, 10, 32); err == nil {
		f.ExerciseID = uint(id)
	}
	if completed, err := strconv.ParseBool(q.Completed); err == nil {
		f.Completed = &completed
	}
	if from, _, ok := parseDay(q.DateFrom); ok {
		f.From = from
	}
	if to, dateOnly, ok := parseDay(q.DateTo); ok {
		if dateOnly {
			// A bare date includes the whole day.
			to = to.Add(24*time.Hour - time.Nanosecond)
		}
		f.To = to
	}
	return f
}

// parseDay accepts RFC 3339 timestamps and bare YYYY-MM-DD dates
func parseDay(s string) (time.Time, bool, bool) {
	if s == "" {
		return time.Time{}, false, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), false, true
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, true, true
	}
	return time.Time{}, false, false
}

// List handles GET /progress
func (h *ProgressHandler) List(c *gin.Context) {
	userID, ok := middleware.UserIDFrom(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var q ProgressQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	records, err := h.progressService.ListProgress(c.Request.Context(), userID, q.filter())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"progress": records, "count": len(records)})
}

// Stats handles GET /progress/stats
func (h *ProgressHandler) Stats(c *gin.Context) {
	userID, ok := middleware.UserIDFrom(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	stats, err := h.progressService.Stats(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.SuccessResponse(c, stats)
}

// Completed handles GET /progress/completed
func (h *ProgressHandler) Completed(c *gin.Context) {
	userID, ok := middleware.UserIDFrom(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	records, err := h.progressService.CompletedWorkouts(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"workouts": records, "count": len(records)})
}

func (h *ProgressHandler) Create(c *gin.Context) {
	userID, ok := middleware.UserIDFrom(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req CreateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, bindingMessage(err))
		return
	}

	record, err := h.progressService.RecordProgress(c.Request.Context(), userID, service.CreateProgressInput{
		WorkoutID:      req.WorkoutID,
		ExerciseID:     req.ExerciseID,
		Completed:      req.Completed,
		Progress:       req.Progress,
		Duration:       req.Duration,
		CaloriesBurned: req.CaloriesBurned,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.CreatedResponse(c, record)
}

func (h *ProgressHandler) Update(c *gin.Context) {
	userID, ok := middleware.UserIDFrom(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Not authenticated")
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid progress ID")
		return
	}

	var req UpdateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, bindingMessage(err))
		return
	}

	record, err := h.progressService.UpdateProgress(c.Request.Context(), id, userID, service.UpdateProgressInput{
		Completed:      req.Completed,
		Progress:       req.Progress,
		Duration:       req.Duration,
		CaloriesBurned: req.CaloriesBurned,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.SuccessResponse(c, record)
}

func (h *ProgressHandler) Delete(c *gin.Context) {
	userID, ok := middleware.UserIDFrom(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Not authenticated")
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid progress ID")
		return
	}

	if err := h.progressService.DeleteProgress(c.Request.Context(), id, userID); err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.MessageResponse(c, "Progress record deleted successfully")
}
