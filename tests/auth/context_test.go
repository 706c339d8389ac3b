package auth_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/officekit/toolbox-api/internal/auth"
	"github.com/officekit/toolbox-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserContext_RoundTrip(t *testing.T) {
	userCtx := &auth.UserContext{
		UserID:      uuid.New(),
		DisplayName: "Test User",
		Email:       "user@example.com",
		Roles:       []domain.UserRoleType{domain.RoleMember},
	}

	ctx := auth.WithUserContext(context.Background(), userCtx)

	got, ok := auth.FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, userCtx, got)
}

func TestUserContext_MissingFromContext(t *testing.T) {
	_, ok := auth.FromContext(context.Background())
	assert.False(t, ok)
}

func TestUserContext_HasRole(t *testing.T) {
	userCtx := &auth.UserContext{
		Roles: []domain.UserRoleType{domain.RoleMember},
	}

	assert.True(t, userCtx.HasRole(domain.RoleMember))
	assert.False(t, userCtx.HasRole(domain.RoleAdmin))
}

func TestUserContext_HasAnyRole(t *testing.T) {
	userCtx := &auth.UserContext{
		Roles: []domain.UserRoleType{domain.RoleMember},
	}

	assert.True(t, userCtx.HasAnyRole(domain.RoleAdmin, domain.RoleMember))
	assert.False(t, userCtx.HasAnyRole(domain.RoleAdmin, domain.RoleAPIService))
}

func TestUserContext_IsAdmin(t *testing.T) {
	member := &auth.UserContext{Roles: []domain.UserRoleType{domain.RoleMember}}
	assert.False(t, member.IsAdmin())

	admin := &auth.UserContext{Roles: []domain.UserRoleType{domain.RoleAdmin}}
	assert.True(t, admin.IsAdmin())

	system := &auth.UserContext{Roles: []domain.UserRoleType{domain.RoleAPIService}}
	assert.True(t, system.IsAdmin())
}
