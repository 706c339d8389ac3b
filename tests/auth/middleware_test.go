package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/officekit/toolbox-api/internal/auth"
	"github.com/officekit/toolbox-api/internal/config"
	"github.com/officekit/toolbox-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testAPIKey = "test-api-key-value"

func testMiddleware(t *testing.T) (*auth.Middleware, *auth.TokenManager) {
	tokens, err := auth.NewTokenManager(testAuthConfig())
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.ApiKey.Value = testAPIKey

	return auth.NewMiddleware(cfg, tokens, zap.NewNop()), tokens
}

// captureHandler records whether it was reached and what user context it saw
func captureHandler(reached *bool, userCtx **auth.UserContext) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*reached = true
		if uc, ok := auth.FromContext(r.Context()); ok {
			*userCtx = uc
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticate_WithAPIKey(t *testing.T) {
	mw, _ := testMiddleware(t)

	var reached bool
	var userCtx *auth.UserContext
	handler := mw.Authenticate(captureHandler(&reached, &userCtx))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tools", nil)
	req.Header.Set("x-api-key", testAPIKey)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, reached)
	require.NotNil(t, userCtx)
	assert.True(t, userCtx.HasRole(domain.RoleAPIService))
	assert.True(t, userCtx.IsAdmin())
}

func TestAuthenticate_WithInvalidAPIKey(t *testing.T) {
	mw, _ := testMiddleware(t)

	var reached bool
	var userCtx *auth.UserContext
	handler := mw.Authenticate(captureHandler(&reached, &userCtx))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tools", nil)
	req.Header.Set("x-api-key", "wrong-key")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, reached)
}

func TestAuthenticate_WithBearerToken(t *testing.T) {
	mw, tokens := testMiddleware(t)

	user := testUser()
	tokenString, _, err := tokens.IssueToken(user)
	require.NoError(t, err)

	var reached bool
	var userCtx *auth.UserContext
	handler := mw.Authenticate(captureHandler(&reached, &userCtx))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tools", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, userCtx)
	assert.Equal(t, user.ID, userCtx.UserID)
}

func TestAuthenticate_MissingCredentials(t *testing.T) {
	mw, _ := testMiddleware(t)

	var reached bool
	var userCtx *auth.UserContext
	handler := mw.Authenticate(captureHandler(&reached, &userCtx))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tools", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, reached)
}

func TestAuthenticate_MalformedAuthorizationHeader(t *testing.T) {
	mw, _ := testMiddleware(t)

	var reached bool
	var userCtx *auth.UserContext
	handler := mw.Authenticate(captureHandler(&reached, &userCtx))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tools", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, reached)
}

func TestOptionalAuthenticate_AnonymousPassesThrough(t *testing.T) {
	mw, _ := testMiddleware(t)

	var reached bool
	var userCtx *auth.UserContext
	handler := mw.OptionalAuthenticate(captureHandler(&reached, &userCtx))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/tools/bmi", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, reached)
	assert.Nil(t, userCtx)
}

func TestOptionalAuthenticate_AttributesSignedInUser(t *testing.T) {
	mw, tokens := testMiddleware(t)

	user := testUser()
	tokenString, _, err := tokens.IssueToken(user)
	require.NoError(t, err)

	var reached bool
	var userCtx *auth.UserContext
	handler := mw.OptionalAuthenticate(captureHandler(&reached, &userCtx))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/tools/bmi", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, userCtx)
	assert.Equal(t, user.ID, userCtx.UserID)
}

func TestOptionalAuthenticate_InvalidTokenContinuesAnonymously(t *testing.T) {
	mw, _ := testMiddleware(t)

	var reached bool
	var userCtx *auth.UserContext
	handler := mw.OptionalAuthenticate(captureHandler(&reached, &userCtx))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/tools/bmi", nil)
	req.Header.Set("Authorization", "Bearer not-a-valid-token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, reached)
	assert.Nil(t, userCtx)
}

func TestRequireAdmin(t *testing.T) {
	mw, tokens := testMiddleware(t)

	var reached bool
	var userCtx *auth.UserContext
	handler := mw.Authenticate(mw.RequireAdmin(captureHandler(&reached, &userCtx)))

	t.Run("member is rejected", func(t *testing.T) {
		reached = false
		tokenString, _, err := tokens.IssueToken(testUser())
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/tools", nil)
		req.Header.Set("Authorization", "Bearer "+tokenString)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.False(t, reached)
	})

	t.Run("admin is allowed", func(t *testing.T) {
		reached = false
		admin := testUser()
		admin.Roles = []string{string(domain.RoleAdmin)}
		tokenString, _, err := tokens.IssueToken(admin)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/tools", nil)
		req.Header.Set("Authorization", "Bearer "+tokenString)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, reached)
	})

	t.Run("api key acts as admin", func(t *testing.T) {
		reached = false
		req := httptest.NewRequest(http.MethodPost, "/api/v1/tools", nil)
		req.Header.Set("x-api-key", testAPIKey)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, reached)
	})
}
