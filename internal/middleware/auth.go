package middleware

import (
	"context"
	"net/http"

	"campus-canteen/internal/logger"
	"campus-canteen/internal/models"
)

type contextKey string

const (
	PrincipalContextKey contextKey = "principal"
	UserContextKey      contextKey = "user"
)

// UserLoader resolves the user id stored in the session
type UserLoader interface {
	GetUser(ctx context.Context, id int) (*models.User, error)
}

// AuthMiddleware provides authentication functionality
type AuthMiddleware struct {
	users    UserLoader
	sessions *SessionManager
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(users UserLoader, sessions *SessionManager) *AuthMiddleware {
	return &AuthMiddleware{users: users, sessions: sessions}
}

// LoadPrincipal puts the session's user and principal in the request context.
// A session pointing at a vanished user is logged out.
func (m *AuthMiddleware) LoadPrincipal(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := m.sessions.UserID(r)
		if userID == 0 {
			next.ServeHTTP(w, r)
			return
		}

		user, err := m.users.GetUser(r.Context(), userID)
		if err != nil {
			if models.IsNotFound(err) {
				_ = m.sessions.Logout(w, r)
			} else {
				logger.FromContext(r.Context()).Error("failed to load session user", "user_id", userID, "error", err)
			}
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, user)
		ctx = context.WithValue(ctx, PrincipalContextKey, user.Principal())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuth redirects anonymous callers to the login page
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !models.CanUseShop(GetPrincipal(r.Context())) {
			if IsHTMXRequest(r) {
				w.Header().Set("HX-Redirect", "/login")
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin answers 403 to anyone who cannot administer. Anonymous
// callers are sent to the login page first.
func RequireAdmin(next http.Handler) http.Handler {
	return RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !models.CanAdminister(GetPrincipal(r.Context())) {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	}))
}

// GetPrincipal returns the authenticated principal, nil when anonymous
func GetPrincipal(ctx context.Context) *models.Principal {
	p, _ := ctx.Value(PrincipalContextKey).(*models.Principal)
	return p
}

// GetUserFromContext returns the session user as loaded for this request
func GetUserFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(UserContextKey).(*models.User)
	return user
}

// SetUserContext stores user and its principal (used by tests).
func SetUserContext(ctx context.Context, user *models.User) context.Context {
	ctx = context.WithValue(ctx, UserContextKey, user)
	return context.WithValue(ctx, PrincipalContextKey, user.Principal())
}

// IsHTMXRequest checks if the request is from HTMX
func IsHTMXRequest(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
