package auth

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/jolix/portal-api/internal/config"
	"go.uber.org/zap"
)

// Middleware handles authentication for HTTP requests
type Middleware struct {
	tokens *TokenManager
	apiKey string
	logger *zap.Logger
}

// NewMiddleware creates a new authentication middleware
func NewMiddleware(cfg *config.Config, logger *zap.Logger) *Middleware {
	return &Middleware{
		tokens: NewTokenManager(&cfg.Auth),
		apiKey: cfg.ApiKey.Value,
		logger: logger,
	}
}

// Tokens exposes the token manager for the token-issuing handler
func (m *Middleware) Tokens() *TokenManager {
	return m.tokens
}

// Authenticate requires a valid portal bearer token and stores the
// viewer context on the request.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Unauthorized: missing authorization header", http.StatusUnauthorized)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			http.Error(w, "Unauthorized: invalid authorization header format", http.StatusUnauthorized)
			return
		}

		viewer, err := m.tokens.Validate(parts[1])
		if err != nil {
			m.logger.Warn("token validation failed",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("remote_addr", r.RemoteAddr),
				zap.Error(err),
			)
			http.Error(w, "Unauthorized: "+err.Error(), http.StatusUnauthorized)
			return
		}

		m.logger.Info("request authenticated",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("workspace_id", viewer.WorkspaceID.String()),
			zap.String("client_id", viewer.ClientID.String()),
			zap.String("role", string(viewer.Role)),
			zap.Duration("auth_duration", time.Since(start)),
		)

		ctx := WithViewerContext(r.Context(), viewer)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAgency allows only agency-side viewers through. Must run
// after Authenticate.
func (m *Middleware) RequireAgency(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		viewer, ok := FromContext(r.Context())
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		if !viewer.IsAgency() {
			m.logger.Warn("agency-only route denied",
				zap.String("path", r.URL.Path),
				zap.String("client_id", viewer.ClientID.String()),
				zap.String("role", string(viewer.Role)),
			)
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAPIKey guards the token-issuing endpoint with the admin API
// key. Token issuance is how agency backends mint portal sessions, so
// it must never be open.
func (m *Middleware) RequireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKey := r.Header.Get("x-api-key")
		if apiKey == "" || !m.validateAPIKey(apiKey) {
			m.logger.Warn("invalid API key attempt",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("remote_addr", r.RemoteAddr),
			)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// validateAPIKey performs a constant-time comparison of the API key
func (m *Middleware) validateAPIKey(provided string) bool {
	if m.apiKey == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(provided), []byte(m.apiKey)) == 1
}
