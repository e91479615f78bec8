// Package middleware provides HTTP middleware for authentication and authorization.
package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/jonathan/resume-optimizer/internal/logger"
)

// ContextKey is a typed key for context values to avoid collisions.
type ContextKey string

const (
	userIDKey    ContextKey = "userID"
	sessionIDKey ContextKey = "sessionID"
)

// ErrUnauthenticated is returned by GetUserID when the request carries no identity.
var ErrUnauthenticated = errors.New("user ID not found in request context")

// Claims exposes the identity carried by a validated token.
type Claims interface {
	GetUserID() uuid.UUID
	GetSessionID() uuid.UUID
}

// TokenValidator validates bearer tokens.
type TokenValidator interface {
	ValidateToken(tokenString string) (Claims, error)
}

// SessionChecker reports whether a login session is still active for the user.
// Logging out deactivates the session, which revokes tokens issued for it.
type SessionChecker interface {
	SessionActive(ctx context.Context, sessionID, userID uuid.UUID) (bool, error)
}

// AuthMiddleware rejects requests without a valid bearer token for an active session and
// stores the user and session IDs in the request context.
func AuthMiddleware(tokens TokenValidator, sessions SessionChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, ok := authenticate(w, r, tokens, sessions)
			if !ok {
				return
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth is AuthMiddleware for endpoints that also serve anonymous callers.
// A request without an Authorization header passes through unchanged; a request with a bad
// token is still rejected.
func OptionalAuth(tokens TokenValidator, sessions SessionChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") == "" {
				next.ServeHTTP(w, r)
				return
			}
			ctx, ok := authenticate(w, r, tokens, sessions)
			if !ok {
				return
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func authenticate(w http.ResponseWriter, r *http.Request, tokens TokenValidator, sessions SessionChecker) (context.Context, bool) {
	tokenString, ok := bearerToken(r.Header.Get("Authorization"))
	if !ok {
		unauthorized(w, "authentication required")
		return nil, false
	}

	claims, err := tokens.ValidateToken(tokenString)
	if err != nil {
		unauthorized(w, "invalid or expired token")
		return nil, false
	}

	userID, sessionID := claims.GetUserID(), claims.GetSessionID()
	if sessions != nil {
		active, err := sessions.SessionActive(r.Context(), sessionID, userID)
		if err != nil {
			logger.Ctx(r.Context()).Error().Err(err).Msg("session lookup failed")
			writeError(w, http.StatusInternalServerError, "internal server error")
			return nil, false
		}
		if !active {
			unauthorized(w, "session expired")
			return nil, false
		}
	}

	return WithIdentity(r.Context(), userID, sessionID), true
}

// bearerToken extracts the token from a "Bearer <token>" header, case-insensitively.
func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="api"`)
	writeError(w, http.StatusUnauthorized, message)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "error": message})
}

// WithIdentity returns ctx carrying the authenticated user and session.
func WithIdentity(ctx context.Context, userID, sessionID uuid.UUID) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, sessionIDKey, sessionID)
}

// GetUserID extracts the authenticated user ID from the request context.
func GetUserID(r *http.Request) (uuid.UUID, error) {
	userID, ok := r.Context().Value(userIDKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, ErrUnauthenticated
	}
	return userID, nil
}

// GetSessionID returns the session ID of an authenticated request, or uuid.Nil.
func GetSessionID(r *http.Request) uuid.UUID {
	sessionID, _ := r.Context().Value(sessionIDKey).(uuid.UUID)
	return sessionID
}

// UserIDKey returns the context key for user ID (for testing purposes).
func UserIDKey() ContextKey {
	return userIDKey
}
