package handler

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fitness-membership-backend/internal/metrics"
	"fitness-membership-backend/internal/models"
	"fitness-membership-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authCount(t *testing.T, m *metrics.Metrics, operation, outcome string) int {
	t.Helper()
	families, err := m.Registry().Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() != "fitness_auth_events_total" {
			continue
		}
		for _, metric := range f.GetMetric() {
			labels := map[string]string{}
			for _, l := range metric.GetLabel() {
				labels[l.GetName()] = l.GetValue()
			}
			if labels["operation"] == operation && labels["outcome"] == outcome {
				return int(metric.GetCounter().GetValue())
			}
		}
	}
	return 0
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t)

	reg := s.register(t, "flow@example.com", "")
	assert.Equal(t, models.RoleClient, reg.User.Role)

	code, env := s.request(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "flow@example.com", "password": "s3cret-pass",
	})
	require.Equal(t, http.StatusOK, code)
	login := decode[service.AuthResponse](t, env.Data)

	code, env = s.request(t, http.MethodPost, "/api/auth/refresh-token", "", gin.H{"refresh_token": login.RefreshToken})
	require.Equal(t, http.StatusOK, code)
	pair := decode[service.TokenPair](t, env.Data)

	code, env = s.request(t, http.MethodGet, "/api/auth/me", pair.AccessToken, nil)
	require.Equal(t, http.StatusOK, code)
	me := decode[service.UserResponse](t, env.Data)
	assert.Equal(t, reg.User.ID, me.ID)

	code, _ = s.request(t, http.MethodPost, "/api/auth/logout", pair.AccessToken, nil)
	require.Equal(t, http.StatusOK, code)

	code, env = s.request(t, http.MethodPost, "/api/auth/refresh-token", "", gin.H{"refresh_token": pair.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "invalid refresh token", env.Error)

	assert.Equal(t, 1, authCount(t, s.metrics, "register", metrics.OutcomeSuccess))
	assert.Equal(t, 1, authCount(t, s.metrics, "refresh", metrics.OutcomeSuccess))
	assert.Equal(t, 1, authCount(t, s.metrics, "refresh", metrics.OutcomeFailure))
}

func TestRegister_Errors(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "taken@example.com", "")

	code, env := s.request(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"email": "taken@example.com", "password": "s3cret-pass", "first_name": "A", "last_name": "B",
	})
	assert.Equal(t, http.StatusConflict, code)
	assert.False(t, env.Success)

	code, env = s.request(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"email": "not-an-email", "password": "s3cret-pass", "first_name": "A", "last_name": "B",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, env.Error, "email")

	code, _ = s.request(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"email": "x@example.com", "password": "s3cret-pass", "first_name": "A", "last_name": "B", "role": "ROOT",
	})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestLogin_GenericFailure(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "generic@example.com", "")

	code, wrongPassword := s.request(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "generic@example.com", "password": "nope",
	})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, unknownUser := s.request(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "ghost@example.com", "password": "nope",
	})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, wrongPassword.Error, unknownUser.Error)

	code, _ = s.request(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": "generic@example.com"})
	assert.Equal(t, http.StatusBadRequest, code)

	assert.Equal(t, 2, authCount(t, s.metrics, "login", metrics.OutcomeFailure))
}

func TestRefresh_MissingToken(t *testing.T) {
	s := newTestServer(t)

	code, env := s.request(t, http.MethodPost, "/api/auth/refresh-token", "", gin.H{})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Refresh token is required", env.Error)
}

func TestRefresh_CookieWithEmptyBody(t *testing.T) {
	s := newTestServer(t)
	reg := s.register(t, "cookie@example.com", "")

	refreshWithCookie := func(body io.Reader, token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh-token", body)
		req.Header.Set("Content-Type", "application/json")
		req.AddCookie(&http.Cookie{Name: "refresh_token", Value: token})
		w := httptest.NewRecorder()
		s.engine.ServeHTTP(w, req)
		return w
	}

	// A reader of unknown length leaves ContentLength at -1, as with chunked uploads.
	chunked := io.NopCloser(strings.NewReader(""))
	w := refreshWithCookie(chunked, reg.RefreshToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var rotated string
	for _, c := range w.Result().Cookies() {
		if c.Name == "refresh_token" {
			rotated = c.Value
		}
	}
	require.NotEmpty(t, rotated)
	assert.NotEqual(t, reg.RefreshToken, rotated)

	w = refreshWithCookie(http.NoBody, rotated)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = refreshWithCookie(strings.NewReader("{not json"), rotated)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMe_RequiresToken(t *testing.T) {
	s := newTestServer(t)

	code, _ := s.request(t, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	reg := s.register(t, "refresh-as-access@example.com", "")
	code, _ = s.request(t, http.MethodGet, "/api/auth/me", reg.RefreshToken, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestHealthAndMetricsEndpoints(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "metrics@example.com", "")

	code, env := s.request(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)

	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `fitness_auth_events_total{operation="register",outcome="success"} 1`)
	assert.Contains(t, w.Body.String(), `fitness_http_requests_total{method="POST",path="/api/auth/register",status="201"} 1`)
}
