package handler

import (
	"errors"
	"io"
	"net/http"
	"time"

	"fitness-membership-backend/internal/middleware"
	"fitness-membership-backend/internal/models"
	"fitness-membership-backend/internal/service"
	"fitness-membership-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const refreshCookieName = "refresh_token"

// AuthRecorder counts auth outcomes
type AuthRecorder interface {
	RecordAuth(operation string, err error)
}

type AuthHandler struct {
	authService  *service.AuthService
	metrics      AuthRecorder
	log          logrus.FieldLogger
	cookieMaxAge time.Duration
	secureCookie bool
}

func NewAuthHandler(authService *service.AuthService, metrics AuthRecorder, log logrus.FieldLogger, cookieMaxAge time.Duration, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		metrics:      metrics,
		log:          log,
		cookieMaxAge: cookieMaxAge,
		secureCookie: secureCookie,
	}
}

type RegisterRequest struct {
	Email     string      `json:"email" binding:"required,email"`
	Password  string      `json:"password" binding:"required,min=6"`
	FirstName string      `json:"first_name" binding:"required"`
	LastName  string      `json:"last_name" binding:"required"`
	Role      models.Role `json:"role" binding:"omitempty,oneof=CLIENT TRAINER ADMIN"`
	Phone     string      `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Register handles user registration
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, bindingMessage(err))
		return
	}

	response, err := h.authService.Register(c.Request.Context(), service.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
		Phone:     req.Phone,
	})
	h.metrics.RecordAuth("register", err)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	h.setRefreshCookie(c, response.RefreshToken)
	utils.CreatedResponse(c, response)
}

// Login handles user authentication
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Email and password are required")
		return
	}

	response, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	h.metrics.RecordAuth("login", err)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	h.setRefreshCookie(c, response.RefreshToken)
	utils.SuccessResponse(c, response)
}

// Refresh exchanges a refresh token from the body or cookie for a new pair
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	// An empty body, chunked or not, decodes to io.EOF and falls back to the cookie.
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.RefreshToken == "" {
		if cookie, err := c.Cookie(refreshCookieName); err == nil {
			req.RefreshToken = cookie
		}
	}
	if req.RefreshToken == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "Refresh token is required")
		return
	}

	pair, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	h.metrics.RecordAuth("refresh", err)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	h.setRefreshCookie(c, pair.RefreshToken)
	utils.SuccessResponse(c, pair)
}

// Me returns the profile behind the access token
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := middleware.UserIDFrom(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	user, err := h.authService.GetCurrentUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	utils.SuccessResponse(c, user)
}

// Logout revokes the caller's refresh token
func (h *AuthHandler) Logout(c *gin.Context) {
	userID, ok := middleware.UserIDFrom(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	err := h.authService.Logout(c.Request.Context(), userID)
	h.metrics.RecordAuth("logout", err)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.SetCookie(refreshCookieName, "", -1, "/", "", h.secureCookie, true)
	utils.MessageResponse(c, "Logged out successfully")
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(refreshCookieName, token, int(h.cookieMaxAge.Seconds()), "/", "", h.secureCookie, true)
}
