package auth

import (
	"context"
	"log"
	"net/http"
	"strings"
)

type contextKey string

const (
	// UserEmailKey is the context key holding the authenticated user's email.
	UserEmailKey contextKey = "user_email"
	// SessionTokenKey is the context key holding the raw session token.
	SessionTokenKey contextKey = "session_token"
)

// TokenValidator resolves a bearer token to the signed-in user's email.
// The session store implements this.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (string, error)
}

// RequireAuth checks for a valid bearer token in the Authorization header,
// resolves it through the validator, and stores both the user's email and the
// token in the request context for downstream handlers. Returns 401 if
// authentication fails.
func RequireAuth(validator TokenValidator, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := BearerToken(r)
		if !ok {
			log.Println("Auth: Missing or malformed Authorization header")
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		email, err := validator.ValidateToken(r.Context(), token)
		if err != nil {
			log.Printf("Auth: Token validation failed: %v", err)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), UserEmailKey, email)
		ctx = context.WithValue(ctx, SessionTokenKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header. The Bearer scheme is matched case-insensitively per RFC 7235, and
// strings.Fields tolerates extra whitespace.
func BearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}

	fields := strings.Fields(authHeader)
	if len(fields) < 2 || !strings.EqualFold(fields[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(strings.Join(fields[1:], " "))
	if token == "" {
		return "", false
	}
	return token, true
}

// GetUserEmailFromContext returns the authenticated email from the context.
func GetUserEmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(UserEmailKey).(string)
	return email, ok
}

// GetSessionTokenFromContext returns the session token from the context.
func GetSessionTokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(SessionTokenKey).(string)
	return token, ok
}
