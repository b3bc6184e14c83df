package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"sync"

	"fitness-membership-backend/internal/models"
	"fitness-membership-backend/internal/repository"
	"fitness-membership-backend/pkg/utils"

	"github.com/sirupsen/logrus"
)

type AuthService struct {
	userRepo     UserStore
	auditRepo    AuditStore
	tokens       *utils.TokenManager
	log          logrus.FieldLogger
	passwordCost int

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(userRepo UserStore, auditRepo AuditStore, tokens *utils.TokenManager, log logrus.FieldLogger) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		auditRepo:    auditRepo,
		tokens:       tokens,
		log:          log.WithField("component", "auth"),
		passwordCost: utils.BcryptCost,
	}
}

// WithPasswordCost overrides the bcrypt cost for newly hashed passwords
func (s *AuthService) WithPasswordCost(cost int) *AuthService {
	s.passwordCost = cost
	return s
}

// RegisterInput carries the fields accepted at sign-up
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      models.Role
	Phone     string
}

// AuthResponse is returned by register and login
type AuthResponse struct {
	User         UserResponse `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
}

// TokenPair is returned by refresh
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type UserResponse struct {
	ID        uint        `json:"id"`
	Email     string      `json:"email"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Role      models.Role `json:"role"`
	Phone     *string     `json:"phone,omitempty"`
	Avatar    *string     `json:"avatar,omitempty"`
}

func newUserResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      user.Role,
		Phone:     user.Phone,
		Avatar:    user.Avatar,
	}
}

// Register creates an account and opens its first session
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResponse, error) {
	if in.Email == "" || in.Password == "" || in.FirstName == "" || in.LastName == "" {
		return nil, invalid("email, password, first name, and last name are required")
	}
	if in.Role == "" {
		in.Role = models.RoleClient
	}
	if !in.Role.IsValid() {
		return nil, invalid("invalid role %q", in.Role)
	}

	// Email is matched as an exact string, the same way it is stored.
	_, err := s.userRepo.FindUserByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return nil, &ConflictError{Message: "user already exists with this email"}
	case !errors.Is(err, repository.ErrNotFound):
		return nil, fmt.Errorf("failed to look up email: %w", err)
	}

	passwordHash, err := utils.HashPassword(in.Password, s.passwordCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        in.Email,
		PasswordHash: passwordHash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Role:         in.Role,
	}
	if phone := strings.TrimSpace(in.Phone); phone != "" {
		user.Phone = &phone
	}

	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, &ConflictError{Message: "user already exists with this email"}
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	pair, err := s.issueSession(ctx, user)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, user.ID, "user_registration", fmt.Sprintf("User %s registered", user.Email))
	s.log.WithFields(logrus.Fields{"user_id": user.ID, "role": user.Role}).Info("user registered")

	return &AuthResponse{
		User:         newUserResponse(user),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

// Login verifies credentials and replaces any previous session of the user
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	if email == "" || password == "" {
		return nil, invalid("email and password are required")
	}

	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("failed to look up user: %w", err)
		}
		// Spend the same bcrypt time as a real check so timing does not reveal unknown emails.
		utils.ComparePassword(s.dummyPasswordHash(), password)
		s.log.Info("login rejected")
		return nil, ErrInvalidCredentials
	}

	if !utils.ComparePassword(user.PasswordHash, password) {
		s.log.WithField("user_id", user.ID).Info("login rejected")
		return nil, ErrInvalidCredentials
	}

	pair, err := s.issueSession(ctx, user)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, user.ID, "user_login", fmt.Sprintf("User %s logged in", user.Email))
	s.log.WithField("user_id", user.ID).Info("user logged in")

	return &AuthResponse{
		User:         newUserResponse(user),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

// Refresh exchanges the current refresh token for a new pair. The presented token
// must be the one stored for the user; it stops working once this call succeeds.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if refreshToken == "" {
		return nil, ErrInvalidRefreshToken
	}

	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		s.log.WithError(err).Debug("refresh token failed verification")
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.userRepo.FindUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	presented := utils.HashRefreshToken(refreshToken)
	if user.RefreshTokenHash == nil ||
		subtle.ConstantTimeCompare([]byte(*user.RefreshTokenHash), []byte(presented)) != 1 {
		s.log.WithField("user_id", user.ID).Warn("refresh token does not match the current session")
		return nil, ErrInvalidRefreshToken
	}

	pair, err := s.generatePair(user)
	if err != nil {
		return nil, err
	}

	rotated, err := s.userRepo.RotateRefreshTokenHash(ctx, user.ID, presented, utils.HashRefreshToken(pair.RefreshToken))
	if err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}
	if !rotated {
		// A concurrent refresh or logout got there first.
		return nil, ErrInvalidRefreshToken
	}

	s.log.WithField("user_id", user.ID).Debug("session refreshed")
	return pair, nil
}

// Logout clears the stored refresh token so it can no longer be exchanged
func (s *AuthService) Logout(ctx context.Context, userID uint) error {
	if _, err := s.userRepo.FindUserByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &NotFoundError{Resource: "user"}
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	if err := s.userRepo.SetRefreshTokenHash(ctx, userID, nil); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}

	s.audit(ctx, userID, "user_logout", "Refresh token revoked")
	s.log.WithField("user_id", userID).Info("user logged out")
	return nil
}

// GetCurrentUser resolves the identity of a verified access token to the stored profile
func (s *AuthService) GetCurrentUser(ctx context.Context, userID uint) (*UserResponse, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Resource: "user"}
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	resp := newUserResponse(user)
	return &resp, nil
}

// issueSession signs a new pair and makes its refresh token the only valid one
func (s *AuthService) issueSession(ctx context.Context, user *models.User) (*TokenPair, error) {
	pair, err := s.generatePair(user)
	if err != nil {
		return nil, err
	}

	hash := utils.HashRefreshToken(pair.RefreshToken)
	if err := s.userRepo.SetRefreshTokenHash(ctx, user.ID, &hash); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}
	user.RefreshTokenHash = &hash
	return pair, nil
}

func (s *AuthService) generatePair(user *models.User) (*TokenPair, error) {
	accessToken, err := s.tokens.GenerateAccessToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.tokens.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *AuthService) dummyPasswordHash() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = utils.HashPassword("not-a-real-password", s.passwordCost)
	})
	return s.dummyHash
}

func (s *AuthService) audit(ctx context.Context, userID uint, action, details string) {
	recordAudit(ctx, s.auditRepo, s.log, userID, action, details)
}
