package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fitness-membership-backend/internal/config"
	"fitness-membership-backend/internal/database"
	"fitness-membership-backend/internal/handler"
	"fitness-membership-backend/internal/metrics"
	"fitness-membership-backend/internal/middleware"
	"fitness-membership-backend/internal/repository"
	"fitness-membership-backend/internal/service"
	"fitness-membership-backend/pkg/logger"
	"fitness-membership-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	// 1. Load configuration; missing secrets stop the process here
	cfg := config.LoadConfig()
	log := logger.New(cfg.Server.GinMode)
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}
	log.Info("configuration loaded")

	// 2. Token manager
	tokens, err := utils.NewTokenManager(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	if err != nil {
		log.WithError(err).Fatal("failed to initialise token manager")
	}

	// 3. Database
	db, err := database.Connect(cfg)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	if err := database.Migrate(db); err != nil {
		log.WithError(err).Fatal("failed to migrate database")
	}
	log.WithField("driver", cfg.Database.Driver).Info("database ready")

	// 4. Repositories
	userRepo := repository.NewUserRepo(db)
	auditRepo := repository.NewAuditRepo(db)
	workoutRepo := repository.NewWorkoutRepo(db)
	exerciseRepo := repository.NewExerciseRepo(db)
	membershipRepo := repository.NewMembershipRepo(db)
	planRepo := repository.NewPlanRepo(db)
	subscriptionRepo := repository.NewSubscriptionRepo(db)
	progressRepo := repository.NewProgressRepo(db)

	// 5. Services
	authService := service.NewAuthService(userRepo, auditRepo, tokens, log)
	workoutService := service.NewWorkoutService(workoutRepo, exerciseRepo, auditRepo, log)
	exerciseService := service.NewExerciseService(exerciseRepo, auditRepo, log)
	planService := service.NewPlanService(planRepo, auditRepo, log)
	membershipService := service.NewMembershipService(membershipRepo, auditRepo, log).WithPlans(planService)
	subscriptionService := service.NewSubscriptionService(subscriptionRepo, auditRepo, log).WithPlans(planService)
	progressService := service.NewProgressService(progressRepo, workoutRepo, exerciseRepo, log)
	accountService := service.NewAccountService(userRepo, auditRepo, auditRepo, log)
	workerService := service.NewWorkerService(membershipRepo, cfg.Worker.MembershipExpiryInterval, log).
		WithSubscriptions(subscriptionRepo)

	// 6. Background work
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go workerService.Start(ctx)

	m := metrics.New()
	limiter := middleware.NewRateLimiter(cfg.RateLimit, log).OnReject(m.RecordRateLimited)
	limiter.StartCleanup(10*time.Minute, ctx.Done())

	// 7. Router
	gin.SetMode(cfg.Server.GinMode)
	router := &handler.Router{
		CORS:          cfg.CORS,
		Log:           log,
		Tokens:        tokens,
		Metrics:       m,
		RateLimiter:   limiter,
		Tiers:         middleware.NewTierResolver(membershipService, log),
		Auth:          handler.NewAuthHandler(authService, m, log, cfg.JWT.RefreshTokenExpiry, cfg.Server.GinMode == gin.ReleaseMode),
		Workouts:      handler.NewWorkoutHandler(workoutService, log),
		Exercises:     handler.NewExerciseHandler(exerciseService, log),
		Memberships:   handler.NewMembershipHandler(membershipService, log),
		Plans:         handler.NewPlanHandler(planService, log),
		Subscriptions: handler.NewSubscriptionHandler(subscriptionService, log),
		Progress:      handler.NewProgressHandler(progressService, log),
		Accounts:      handler.NewAccountHandler(accountService, log),
		Ping: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 8. Serve until interrupted
	go func() {
		log.WithField("port", cfg.Server.Port).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server forced to shutdown")
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.WithFields(logrus.Fields{"service": "fitness-membership-backend"}).Info("server exited")
}
