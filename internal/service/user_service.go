package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/officekit/toolbox-api/internal/auth"
	"github.com/officekit/toolbox-api/internal/domain"
	"github.com/officekit/toolbox-api/internal/mapper"
	"github.com/officekit/toolbox-api/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ErrUserContextRequired is returned when user context is not available
var ErrUserContextRequired = errors.New("user context required")

// ErrEmailTaken is returned when registering an email that already exists
var ErrEmailTaken = errors.New("email is already registered")

// ErrInvalidCredentials is returned when login credentials don't match
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrUserInactive is returned when a deactivated user tries to log in
var ErrUserInactive = errors.New("user account is deactivated")

// ErrUserNotFound is returned when a user is not found
var ErrUserNotFound = errors.New("user not found")

// UserService handles registration, login, and the current-user lookup
type UserService struct {
	userRepo *repository.UserRepository
	tokens   *auth.TokenManager
	logger   *zap.Logger
}

// NewUserService creates a new UserService instance
func NewUserService(
	userRepo *repository.UserRepository,
	tokens *auth.TokenManager,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepo: userRepo,
		tokens:   tokens,
		logger:   logger,
	}
}

// Register creates a new user account and issues a token for it
func (s *UserService) Register(ctx context.Context, req *domain.RegisterRequest) (*domain.TokenResponse, error) {
	exists, err := s.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Email:        req.Email,
		DisplayName:  req.DisplayName,
		PasswordHash: string(hash),
		Roles:        []string{string(domain.RoleMember)},
		IsActive:     true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user registered",
		zap.String("userID", user.ID.String()),
		zap.String("email", user.Email),
	)

	return s.issueToken(user)
}

// Login verifies credentials and issues a token
func (s *UserService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.TokenResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn("failed login attempt", zap.String("email", req.Email))
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrUserInactive
	}

	s.logger.Info("user logged in",
		zap.String("userID", user.ID.String()),
		zap.String("email", user.Email),
	)

	return s.issueToken(user)
}

// GetCurrentUser returns the profile of the authenticated user
func (s *UserService) GetCurrentUser(ctx context.Context) (*domain.UserDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUserContextRequired
	}

	user, err := s.userRepo.GetByID(ctx, userCtx.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	dto := mapper.ToUserDTO(user)
	return &dto, nil
}

func (s *UserService) issueToken(user *domain.User) (*domain.TokenResponse, error) {
	token, expiresAt, err := s.tokens.IssueToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &domain.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(time.Until(expiresAt).Seconds()),
		User:        mapper.ToUserDTO(user),
	}, nil
}
