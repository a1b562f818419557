package middleware

import (
	"context"
	"net/http"
	"strings"

	"surq/internal/service"
)

type contextKey string

const (
	UserIDKey contextKey = "userId"
	EmailKey  contextKey = "email"
)

// AuthMiddleware provides JWT authentication middleware.
type AuthMiddleware struct {
	authSvc *service.AuthService
	isAdmin func(email string) bool
}

// NewAuthMiddleware creates a new auth middleware. isAdmin resolves
// allowlist membership for the admin routes.
func NewAuthMiddleware(authSvc *service.AuthService, isAdmin func(email string) bool) *AuthMiddleware {
	return &AuthMiddleware{authSvc: authSvc, isAdmin: isAdmin}
}

// RequireUser validates the user JWT from the Authorization header and puts
// the verified (user_id, email) pair on the request context.
func (m *AuthMiddleware) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearerToken(r)
		if token == "" {
			http.Error(w, `{"error":"missing authorization header"}`, http.StatusUnauthorized)
			return
		}

		claims, err := m.authSvc.ValidateToken(token)
		if err != nil {
			http.Error(w, `{"error":"invalid or expired token"}`, http.StatusUnauthorized)
			return
		}

		ctx := r.Context()
		ctx = context.WithValue(ctx, UserIDKey, claims.UserID)
		ctx = context.WithValue(ctx, EmailKey, claims.Email)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin runs after RequireUser and rejects callers whose email is not
// on the allowlist. Admin status is an authorization decision, never a data
// field.
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		email := GetEmail(r.Context())
		if email == "" || m.isAdmin == nil || !m.isAdmin(email) {
			http.Error(w, `{"error":"admin access required"}`, http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetUserID extracts the user id from context.
func GetUserID(ctx context.Context) string {
	if v := ctx.Value(UserIDKey); v != nil {
		return v.(string)
	}
	return ""
}

// GetEmail extracts the verified email from context.
func GetEmail(ctx context.Context) string {
	if v := ctx.Value(EmailKey); v != nil {
		return v.(string)
	}
	return ""
}

// GetIdentity returns the verified caller identity from context.
func GetIdentity(ctx context.Context) service.Identity {
	return service.Identity{UserID: GetUserID(ctx), Email: GetEmail(ctx)}
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}
