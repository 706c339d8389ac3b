package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/officekit/toolbox-api/internal/config"
	"github.com/officekit/toolbox-api/internal/domain"
)

// Claims are the custom JWT claims carried by issued access tokens
type Claims struct {
	DisplayName string   `json:"name"`
	Email       string   `json:"email"`
	Roles       []string `json:"roles"`
	jwt.RegisteredClaims
}

// TokenManager issues and validates HMAC-signed access tokens
type TokenManager struct {
	secret   []byte
	issuer   string
	tokenTTL time.Duration
}

// NewTokenManager creates a token manager from auth configuration
func NewTokenManager(cfg *config.AuthConfig) (*TokenManager, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("jwt secret is not configured")
	}
	return &TokenManager{
		secret:   []byte(cfg.JWTSecret),
		issuer:   cfg.Issuer,
		tokenTTL: cfg.TokenTTL(),
	}, nil
}

// IssueToken creates a signed access token for the given user
func (t *TokenManager) IssueToken(user *domain.User) (string, time.Time, error) {
	now := time.Now().UTC()
	expiresAt := now.Add(t.tokenTTL)

	claims := Claims{
		DisplayName: user.DisplayName,
		Email:       user.Email,
		Roles:       user.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// ValidateToken parses and verifies a token, returning the user context
func (t *TokenManager) ValidateToken(tokenString string) (*UserContext, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	},
		jwt.WithIssuer(t.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("token is not valid")
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("invalid subject claim: %w", err)
	}

	roles := make([]domain.UserRoleType, 0, len(claims.Roles))
	for _, r := range claims.Roles {
		roles = append(roles, domain.UserRoleType(r))
	}

	return &UserContext{
		UserID:      userID,
		DisplayName: claims.DisplayName,
		Email:       claims.Email,
		Roles:       roles,
	}, nil
}
