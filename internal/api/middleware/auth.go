package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// contextKey is the private type for context values set by this middleware
type contextKey string

const subjectKey contextKey = "auth_subject"

// Subject is the authenticated caller, as asserted by the external auth
// service in the token's claims. Display name and avatar ride along so
// reply snapshots never need an extra directory lookup.
type Subject struct {
	UserID      string
	Username    string
	DisplayName string
	AvatarURL   string
}

// AuthMiddleware validates Bearer JWTs issued by the external auth service.
// Tokens are HMAC-signed with a secret shared with that service; this core
// only ever consumes them.
type AuthMiddleware struct {
	secret []byte
}

// NewAuthMiddleware creates the auth middleware with the shared HMAC secret
func NewAuthMiddleware(secret string) *AuthMiddleware {
	return &AuthMiddleware{secret: []byte(secret)}
}

// RequireAuth ensures the request carries a valid token.
// If not, returns 401. If valid, injects the Subject into the context.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeAuthError(w, "Missing Authorization header")
			return
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			writeAuthError(w, "Invalid Authorization header format. Expected: Bearer <token>")
			return
		}
		tokenStr := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

		subject, err := m.parseToken(tokenStr)
		if err != nil {
			log.Printf("[AUTH_FAILURE] ip=%s method=%s path=%s error=%v",
				r.RemoteAddr, r.Method, r.URL.Path, err)
			writeAuthError(w, "Invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), subjectKey, subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// parseToken verifies the signature and extracts the subject claims
func (m *AuthMiddleware) parseToken(tokenStr string) (*Subject, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("could not parse token claims")
	}

	userID, ok := claims["sub"].(string)
	if !ok || userID == "" {
		return nil, errors.New("missing sub claim")
	}
	username, ok := claims["username"].(string)
	if !ok || username == "" {
		return nil, errors.New("missing username claim")
	}

	// Display name and avatar are optional profile claims
	displayName, _ := claims["displayName"].(string)
	avatarURL, _ := claims["avatar"].(string)

	return &Subject{
		UserID:      userID,
		Username:    username,
		DisplayName: displayName,
		AvatarURL:   avatarURL,
	}, nil
}

// GetSubject retrieves the authenticated subject from the request context.
// Returns nil when the request did not pass through RequireAuth.
func GetSubject(r *http.Request) *Subject {
	subject, _ := r.Context().Value(subjectKey).(*Subject)
	return subject
}

// WithSubject returns a context carrying the subject. Used by tests to
// simulate the middleware.
func WithSubject(ctx context.Context, subject *Subject) context.Context {
	return context.WithValue(ctx, subjectKey, subject)
}

func writeAuthError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	if err := json.NewEncoder(w).Encode(map[string]string{
		"error":   "AuthRequired",
		"message": message,
	}); err != nil {
		log.Printf("Failed to encode auth error response: %v", err)
	}
}
