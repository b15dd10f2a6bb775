package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jolix/portal-api/internal/config"
	"github.com/jolix/portal-api/internal/domain"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// PortalClaims are the claims carried by a portal token
type PortalClaims struct {
	WorkspaceID string `json:"wid"`
	ClientID    string `json:"cid"`
	Email       string `json:"email"`
	Name        string `json:"name,omitempty"`
	Role        string `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager issues and validates portal tokens. Tokens are HS256
// signed with the workspace-independent portal secret; scoping lives
// in the claims, not the key.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	issuer string
}

// NewTokenManager creates a token manager from auth configuration
func NewTokenManager(cfg *config.AuthConfig) *TokenManager {
	return &TokenManager{
		secret: []byte(cfg.JWTSecret),
		ttl:    cfg.TokenTTLDuration(),
		issuer: cfg.Issuer,
	}
}

// Issue creates a signed portal token for the given viewer
func (m *TokenManager) Issue(viewer *ViewerContext) (string, time.Time, error) {
	if len(m.secret) == 0 {
		return "", time.Time{}, errors.New("portal token secret not configured")
	}
	now := time.Now().UTC()
	expiresAt := now.Add(m.ttl)
	claims := PortalClaims{
		WorkspaceID: viewer.WorkspaceID.String(),
		ClientID:    viewer.ClientID.String(),
		Email:       viewer.Email,
		Name:        viewer.DisplayName,
		Role:        string(viewer.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   viewer.ClientID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign portal token: %w", err)
	}
	return signed, expiresAt, nil
}

// Validate parses a portal token and returns the viewer it encodes
func (m *TokenManager) Validate(tokenString string) (*ViewerContext, error) {
	claims := &PortalClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithIssuer(m.issuer), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	workspaceID, err := uuid.Parse(claims.WorkspaceID)
	if err != nil {
		return nil, fmt.Errorf("%w: bad workspace claim", ErrInvalidToken)
	}
	clientID, err := uuid.Parse(claims.ClientID)
	if err != nil {
		return nil, fmt.Errorf("%w: bad client claim", ErrInvalidToken)
	}
	role := domain.ViewerRole(claims.Role)
	if !role.IsValid() {
		return nil, fmt.Errorf("%w: bad role claim", ErrInvalidToken)
	}

	return &ViewerContext{
		WorkspaceID: workspaceID,
		ClientID:    clientID,
		Email:       claims.Email,
		DisplayName: claims.Name,
		Role:        role,
	}, nil
}
