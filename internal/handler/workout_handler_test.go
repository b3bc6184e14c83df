package handler

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"fitness-membership-backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type workoutList struct {
	Workouts []models.Workout `json:"workouts"`
	Count    int              `json:"count"`
}

func (s *testServer) createWorkout(t *testing.T, token, title string, tier models.MembershipTier, premium bool) models.Workout {
	t.Helper()
	code, env := s.request(t, http.MethodPost, "/api/workouts", token, gin.H{
		"title":          title,
		"type":           models.WorkoutCardio,
		"duration":       20,
		"total_calories": 150,
		"required_tier":  tier,
		"is_premium":     premium,
	})
	require.Equal(t, http.StatusCreated, code, env.Error)
	return decode[models.Workout](t, env.Data)
}

func (s *testServer) grantMembership(t *testing.T, token string, tier models.MembershipTier) {
	t.Helper()
	now := time.Now().UTC()
	code, env := s.request(t, http.MethodPost, "/api/membership", token, gin.H{
		"tier":       tier,
		"start_date": now.Add(-time.Hour),
		"end_date":   now.AddDate(0, 1, 0),
		"amount":     99.5,
	})
	require.Equal(t, http.StatusCreated, code, env.Error)
}

func TestWorkouts_StaffOnlyWrites(t *testing.T) {
	s := newTestServer(t)
	client := s.register(t, "client@example.com", models.RoleClient)
	trainer := s.register(t, "trainer@example.com", models.RoleTrainer)

	code, _ := s.request(t, http.MethodPost, "/api/workouts", client.AccessToken, gin.H{
		"title": "Nope", "type": "CARDIO", "duration": 10,
	})
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = s.request(t, http.MethodPost, "/api/workouts", "", gin.H{
		"title": "Nope", "type": "CARDIO", "duration": 10,
	})
	assert.Equal(t, http.StatusUnauthorized, code)

	w := s.createWorkout(t, trainer.AccessToken, "Sprint", models.TierFree, false)

	code, env := s.request(t, http.MethodPut, fmt.Sprintf("/api/workouts/%d", w.ID), trainer.AccessToken, gin.H{"title": "Sprints"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Sprints", decode[models.Workout](t, env.Data).Title)

	code, _ = s.request(t, http.MethodDelete, fmt.Sprintf("/api/workouts/%d", w.ID), trainer.AccessToken, nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = s.request(t, http.MethodGet, fmt.Sprintf("/api/workouts/%d", w.ID), "", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestWorkouts_CreateValidation(t *testing.T) {
	s := newTestServer(t)
	admin := s.register(t, "admin@example.com", models.RoleAdmin)

	code, env := s.request(t, http.MethodPost, "/api/workouts", admin.AccessToken, gin.H{
		"title": "Bad", "type": "CARDIO", "duration": 10, "required_tier": "GOLD",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, env.Error, "tier")

	code, _ = s.request(t, http.MethodPost, "/api/workouts", admin.AccessToken, gin.H{
		"title": "Bad", "type": "DANCE", "duration": 10,
	})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = s.request(t, http.MethodPost, "/api/workouts", admin.AccessToken, gin.H{
		"title": "Bad", "type": "CARDIO", "duration": 0,
	})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestWorkouts_TierGating(t *testing.T) {
	s := newTestServer(t)
	admin := s.register(t, "admin@example.com", models.RoleAdmin)
	s.createWorkout(t, admin.AccessToken, "A Free", models.TierFree, false)
	s.createWorkout(t, admin.AccessToken, "B Free Premium", models.TierFree, true)
	s.createWorkout(t, admin.AccessToken, "C Basic", models.TierBasic, false)
	s.createWorkout(t, admin.AccessToken, "D VIP", models.TierVIP, false)

	member := s.register(t, "member@example.com", models.RoleClient)

	// No membership yet: FREE, premium content hidden.
	code, env := s.request(t, http.MethodGet, "/api/workouts/available", member.AccessToken, nil)
	require.Equal(t, http.StatusOK, code)
	list := decode[workoutList](t, env.Data)
	require.Len(t, list.Workouts, 1)
	assert.Equal(t, "A Free", list.Workouts[0].Title)

	s.grantMembership(t, member.AccessToken, models.TierBasic)

	code, env = s.request(t, http.MethodGet, "/api/workouts/available", member.AccessToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 3, decode[workoutList](t, env.Data).Count)

	code, env = s.request(t, http.MethodGet, "/api/workouts/tier/vip", member.AccessToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 0, decode[workoutList](t, env.Data).Count)

	code, _ = s.request(t, http.MethodGet, "/api/workouts/tier/GOLD", member.AccessToken, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, env = s.request(t, http.MethodGet, "/api/workouts/membership-info", member.AccessToken, nil)
	require.Equal(t, http.StatusOK, code)
	info := decode[struct {
		CurrentTier        models.MembershipTier `json:"current_tier"`
		TotalWorkouts      int64                 `json:"total_workouts"`
		AccessibleWorkouts int64                 `json:"accessible_workouts"`
	}](t, env.Data)
	assert.Equal(t, models.TierBasic, info.CurrentTier)
	assert.Equal(t, int64(4), info.TotalWorkouts)
	assert.Equal(t, int64(3), info.AccessibleWorkouts)

	code, _ = s.request(t, http.MethodGet, "/api/workouts/available", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestWorkouts_PublicListing(t *testing.T) {
	s := newTestServer(t)
	admin := s.register(t, "admin@example.com", models.RoleAdmin)
	s.createWorkout(t, admin.AccessToken, "Morning Run", models.TierFree, false)
	s.createWorkout(t, admin.AccessToken, "Premium Run", models.TierPremium, true)

	code, env := s.request(t, http.MethodGet, "/api/workouts?search=run&isPremium=false", "", nil)
	require.Equal(t, http.StatusOK, code)
	list := decode[workoutList](t, env.Data)
	require.Len(t, list.Workouts, 1)
	assert.Equal(t, "Morning Run", list.Workouts[0].Title)

	code, env = s.request(t, http.MethodGet, "/api/workouts/trending", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1, decode[workoutList](t, env.Data).Count)

	code, _ = s.request(t, http.MethodGet, "/api/workouts/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestWorkouts_AddExercise(t *testing.T) {
	s := newTestServer(t)
	admin := s.register(t, "admin@example.com", models.RoleAdmin)
	w := s.createWorkout(t, admin.AccessToken, "Circuit", models.TierFree, false)

	code, env := s.request(t, http.MethodPost, "/api/exercises", admin.AccessToken, gin.H{
		"name": "Jumping Jack", "difficulty": "BEGINNER", "duration": 2, "calories": 20,
	})
	require.Equal(t, http.StatusCreated, code, env.Error)
	ex := decode[models.Exercise](t, env.Data)

	path := fmt.Sprintf("/api/workouts/%d/exercises/%d", w.ID, ex.ID)
	code, _ = s.request(t, http.MethodPost, path, admin.AccessToken, gin.H{"order": 1, "reps": 30})
	require.Equal(t, http.StatusCreated, code)

	code, _ = s.request(t, http.MethodPost, path, admin.AccessToken, gin.H{"order": 2})
	assert.Equal(t, http.StatusConflict, code)

	code, env = s.request(t, http.MethodGet, fmt.Sprintf("/api/workouts/%d", w.ID), "", nil)
	require.Equal(t, http.StatusOK, code)
	got := decode[models.Workout](t, env.Data)
	require.Len(t, got.WorkoutExercises, 1)
	assert.Equal(t, "Jumping Jack", got.WorkoutExercises[0].Exercise.Name)

	code, _ = s.request(t, http.MethodDelete, path, admin.AccessToken, nil)
	require.Equal(t, http.StatusOK, code)
	code, _ = s.request(t, http.MethodDelete, path, admin.AccessToken, nil)
	assert.Equal(t, http.StatusNotFound, code)
}
