package handler

import (
	"context"
	"net/http"

	"fitness-membership-backend/internal/config"
	"fitness-membership-backend/internal/metrics"
	"fitness-membership-backend/internal/middleware"
	"fitness-membership-backend/internal/models"
	"fitness-membership-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Router collects everything needed to serve the API
type Router struct {
	CORS          config.CORSConfig
	Log           logrus.FieldLogger
	Tokens        *utils.TokenManager
	Metrics       *metrics.Metrics
	RateLimiter   *middleware.RateLimiter
	Tiers         *middleware.TierResolver
	Auth          *AuthHandler
	Workouts      *WorkoutHandler
	Exercises     *ExerciseHandler
	Memberships   *MembershipHandler
	Plans         *PlanHandler
	Subscriptions *SubscriptionHandler
	Progress      *ProgressHandler
	Accounts      *AccountHandler
	// Ping reports database reachability for /health; nil skips the check
	Ping func(ctx context.Context) error
}

// Engine builds the gin engine with every route registered
func (r *Router) Engine() *gin.Engine {
	RegisterValidations()

	e := gin.New()
	e.Use(gin.Recovery())
	e.Use(middleware.RequestLogger(r.Log))
	e.Use(r.Metrics.Middleware())
	e.Use(middleware.CORS(r.CORS))

	e.GET("/health", r.health)
	e.GET("/metrics", gin.WrapH(r.Metrics.Handler()))

	authenticated := middleware.AuthMiddleware(r.Tokens)
	withTier := r.Tiers.Middleware()
	staff := middleware.RequireRole(models.RoleAdmin, models.RoleTrainer)
	admin := middleware.RequireRole(models.RoleAdmin)

	api := e.Group("/api")

	auth := api.Group("/auth")
	{
		limited := r.RateLimiter.Middleware()
		auth.POST("/register", limited, r.Auth.Register)
		auth.POST("/login", limited, r.Auth.Login)
		auth.POST("/refresh-token", limited, r.Auth.Refresh)
		auth.GET("/me", authenticated, r.Auth.Me)
		auth.POST("/logout", authenticated, r.Auth.Logout)
	}

	workouts := api.Group("/workouts")
	{
		workouts.GET("", r.Workouts.ListWorkouts)
		workouts.GET("/trending", r.Workouts.Trending)
		workouts.GET("/:id", r.Workouts.GetWorkout)

		workouts.GET("/tier/:tier", authenticated, withTier, r.Workouts.ListByTier)
		workouts.GET("/available", authenticated, withTier, r.Workouts.ListAvailable)
		workouts.GET("/today", authenticated, withTier, r.Workouts.Today)
		workouts.GET("/membership-info", authenticated, withTier, r.Workouts.MembershipInfo)

		workouts.POST("", authenticated, staff, r.Workouts.CreateWorkout)
		workouts.PUT("/:id", authenticated, staff, r.Workouts.UpdateWorkout)
		workouts.DELETE("/:id", authenticated, staff, r.Workouts.DeleteWorkout)
		workouts.POST("/:id/exercises/:exerciseId", authenticated, staff, r.Workouts.AddExercise)
		workouts.DELETE("/:id/exercises/:exerciseId", authenticated, staff, r.Workouts.RemoveExercise)
	}

	exercises := api.Group("/exercises")
	{
		exercises.GET("", r.Exercises.ListExercises)
		exercises.GET("/:id", r.Exercises.GetExercise)

		exercises.GET("/tier/:tier", authenticated, withTier, r.Exercises.ListByTier)

		exercises.POST("", authenticated, staff, r.Exercises.CreateExercise)
		exercises.PUT("/:id", authenticated, staff, r.Exercises.UpdateExercise)
		exercises.DELETE("/:id", authenticated, staff, r.Exercises.DeleteExercise)
	}

	membership := api.Group("/membership", authenticated)
	{
		membership.GET("/my-memberships", r.Memberships.ListMine)
		membership.GET("/active", r.Memberships.GetActive)
		membership.POST("", r.Memberships.Create)
		membership.PATCH("/:id/cancel", r.Memberships.Cancel)

		membership.GET("/:id", admin, r.Memberships.Get)
		membership.PATCH("/:id/status", admin, r.Memberships.UpdateStatus)
	}

	plans := api.Group("/membership-plans")
	{
		plans.GET("", r.Plans.ListActive)
		plans.GET("/all", authenticated, admin, r.Plans.ListAll)
		plans.GET("/:id", r.Plans.Get)

		plans.POST("", authenticated, admin, r.Plans.Create)
		plans.PUT("/:id", authenticated, admin, r.Plans.Update)
		plans.DELETE("/:id", authenticated, admin, r.Plans.Delete)
	}

	subscriptions := api.Group("/subscriptions", authenticated)
	{
		subscriptions.GET("/my-subscriptions", r.Subscriptions.ListMine)
		subscriptions.GET("/active", r.Subscriptions.GetActive)
		subscriptions.POST("", r.Subscriptions.Create)
		subscriptions.PATCH("/:id/cancel", r.Subscriptions.Cancel)

		subscriptions.GET("/:id", admin, r.Subscriptions.Get)
		subscriptions.PUT("/:id", admin, r.Subscriptions.Update)
	}

	progress := api.Group("/progress", authenticated)
	{
		progress.GET("", r.Progress.List)
		progress.GET("/stats", r.Progress.Stats)
		progress.GET("/completed", r.Progress.Completed)
		progress.POST("", r.Progress.Create)
		progress.PUT("/:id", r.Progress.Update)
		progress.DELETE("/:id", r.Progress.Delete)
	}

	users := api.Group("/admin/users", authenticated, admin)
	{
		users.GET("/:id/audit-logs", r.Accounts.AuditTrail)
		users.DELETE("/:id", r.Accounts.Delete)
	}

	return e
}

func (r *Router) health(c *gin.Context) {
	if r.Ping != nil {
		if err := r.Ping(c.Request.Context()); err != nil {
			r.Log.WithError(err).Error("health check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"success": false,
				"error":   "database unavailable",
			})
			return
		}
	}
	utils.SuccessResponse(c, gin.H{
		"status":  "healthy",
		"service": "fitness-membership-backend",
	})
}
