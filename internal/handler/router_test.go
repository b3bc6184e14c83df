package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fitness-membership-backend/internal/config"
	"fitness-membership-backend/internal/metrics"
	"fitness-membership-backend/internal/middleware"
	"fitness-membership-backend/internal/models"
	"fitness-membership-backend/internal/repository"
	"fitness-membership-backend/internal/service"
	"fitness-membership-backend/internal/testutil"
	"fitness-membership-backend/pkg/logger"
	"fitness-membership-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	engine  *gin.Engine
	db      *gorm.DB
	tokens  *utils.TokenManager
	metrics *metrics.Metrics
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db := testutil.NewTestDB(t)
	log := logger.Discard()
	tokens, err := utils.NewTokenManager("handler-access", "handler-refresh", 15*time.Minute, 7*24*time.Hour)
	require.NoError(t, err)
	m := metrics.New()

	userRepo := repository.NewUserRepo(db)
	auditRepo := repository.NewAuditRepo(db)
	workoutRepo := repository.NewWorkoutRepo(db)
	exerciseRepo := repository.NewExerciseRepo(db)
	membershipRepo := repository.NewMembershipRepo(db)
	planRepo := repository.NewPlanRepo(db)
	subscriptionRepo := repository.NewSubscriptionRepo(db)
	progressRepo := repository.NewProgressRepo(db)

	authService := service.NewAuthService(userRepo, auditRepo, tokens, log).WithPasswordCost(bcrypt.MinCost)
	workoutService := service.NewWorkoutService(workoutRepo, exerciseRepo, auditRepo, log)
	exerciseService := service.NewExerciseService(exerciseRepo, auditRepo, log)
	planService := service.NewPlanService(planRepo, auditRepo, log)
	membershipService := service.NewMembershipService(membershipRepo, auditRepo, log).WithPlans(planService)
	subscriptionService := service.NewSubscriptionService(subscriptionRepo, auditRepo, log).WithPlans(planService)
	progressService := service.NewProgressService(progressRepo, workoutRepo, exerciseRepo, log)
	accountService := service.NewAccountService(userRepo, auditRepo, auditRepo, log)

	router := &Router{
		CORS:          config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
		Log:           log,
		Tokens:        tokens,
		Metrics:       m,
		RateLimiter:   middleware.NewRateLimiter(config.RateLimitConfig{AuthRequestsPerSecond: 1000, AuthBurst: 1000}, log),
		Tiers:         middleware.NewTierResolver(membershipService, log),
		Auth:          NewAuthHandler(authService, m, log, tokens.RefreshTokenExpiry(), false),
		Workouts:      NewWorkoutHandler(workoutService, log),
		Exercises:     NewExerciseHandler(exerciseService, log),
		Memberships:   NewMembershipHandler(membershipService, log),
		Plans:         NewPlanHandler(planService, log),
		Subscriptions: NewSubscriptionHandler(subscriptionService, log),
		Progress:      NewProgressHandler(progressService, log),
		Accounts:      NewAccountHandler(accountService, log),
	}

	return &testServer{engine: router.Engine(), db: db, tokens: tokens, metrics: m}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
}

func (s *testServer) request(t *testing.T, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w.Code, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

// register signs up a user and returns its tokens
func (s *testServer) register(t *testing.T, email string, role models.Role) service.AuthResponse {
	t.Helper()
	code, env := s.request(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"email":      email,
		"password":   "s3cret-pass",
		"first_name": "Thabo",
		"last_name":  "Nkosi",
		"role":       role,
	})
	require.Equal(t, http.StatusCreated, code, env.Error)
	return decode[service.AuthResponse](t, env.Data)
}
