package service_test

import (
	"context"
	"testing"

	"github.com/officekit/toolbox-api/internal/auth"
	"github.com/officekit/toolbox-api/internal/config"
	"github.com/officekit/toolbox-api/internal/domain"
	"github.com/officekit/toolbox-api/internal/repository"
	"github.com/officekit/toolbox-api/internal/service"
	"github.com/officekit/toolbox-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func createUserService(t *testing.T, db *gorm.DB) *service.UserService {
	tokens, err := auth.NewTokenManager(&config.AuthConfig{
		JWTSecret:       "test-signing-secret-for-unit-tests",
		Issuer:          "toolbox-api",
		TokenTTLMinutes: 60,
	})
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(db)
	return service.NewUserService(userRepo, tokens, zap.NewNop())
}

func registerRequest(email string) *domain.RegisterRequest {
	return &domain.RegisterRequest{
		Email:       email,
		DisplayName: "Test User",
		Password:    "correct-horse-battery",
	}
}

func TestUserService_Register(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createUserService(t, db)

	t.Run("registers and issues a token", func(t *testing.T) {
		resp, err := svc.Register(context.Background(), registerRequest("new@example.com"))

		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
		assert.Equal(t, "Bearer", resp.TokenType)
		assert.Greater(t, resp.ExpiresIn, int64(0))
		assert.Equal(t, "new@example.com", resp.User.Email)
		assert.Contains(t, resp.User.Roles, string(domain.RoleMember))
	})

	t.Run("stores a hash, not the password", func(t *testing.T) {
		var user domain.User
		require.NoError(t, db.First(&user, "email = ?", "new@example.com").Error)
		assert.NotEqual(t, "correct-horse-battery", user.PasswordHash)
		assert.NotEmpty(t, user.PasswordHash)
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		_, err := svc.Register(context.Background(), registerRequest("new@example.com"))
		assert.ErrorIs(t, err, service.ErrEmailTaken)
	})
}

func TestUserService_Login(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createUserService(t, db)

	_, err := svc.Register(context.Background(), registerRequest("login@example.com"))
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		resp, err := svc.Login(context.Background(), &domain.LoginRequest{
			Email:    "login@example.com",
			Password: "correct-horse-battery",
		})

		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
		assert.Equal(t, "login@example.com", resp.User.Email)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(context.Background(), &domain.LoginRequest{
			Email:    "login@example.com",
			Password: "wrong-password",
		})
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(context.Background(), &domain.LoginRequest{
			Email:    "nobody@example.com",
			Password: "whatever",
		})
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	})

	t.Run("deactivated account", func(t *testing.T) {
		require.NoError(t, db.Model(&domain.User{}).
			Where("email = ?", "login@example.com").
			Update("is_active", false).Error)

		_, err := svc.Login(context.Background(), &domain.LoginRequest{
			Email:    "login@example.com",
			Password: "correct-horse-battery",
		})
		assert.ErrorIs(t, err, service.ErrUserInactive)
	})
}

func TestUserService_GetCurrentUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createUserService(t, db)

	user := testutil.CreateTestUser(t, db, "me@example.com")

	t.Run("returns the user from context", func(t *testing.T) {
		dto, err := svc.GetCurrentUser(memberContext(user.ID))

		require.NoError(t, err)
		assert.Equal(t, user.ID, dto.ID)
		assert.Equal(t, "me@example.com", dto.Email)
	})

	t.Run("requires a user context", func(t *testing.T) {
		_, err := svc.GetCurrentUser(context.Background())
		assert.ErrorIs(t, err, service.ErrUserContextRequired)
	})
}
