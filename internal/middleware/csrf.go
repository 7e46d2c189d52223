package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"

	"campus-canteen/internal/logger"
	"campus-canteen/internal/utils"
)

const csrfContextKey contextKey = "csrf_token"

// CSRFMiddleware keeps a per-session token and checks it on state-changing requests
type CSRFMiddleware struct {
	sessions *SessionManager
}

func NewCSRFMiddleware(sessions *SessionManager) *CSRFMiddleware {
	return &CSRFMiddleware{sessions: sessions}
}

func (m *CSRFMiddleware) token(w http.ResponseWriter, r *http.Request) (string, error) {
	session := m.sessions.get(r)
	if token, ok := session.Values[keyCSRFToken].(string); ok && token != "" {
		return token, nil
	}

	token, err := utils.GenerateSecureToken(32)
	if err != nil {
		return "", err
	}
	session.Values[keyCSRFToken] = token
	return token, session.Save(r, w)
}

// Protect ensures the session has a token, exposes it to templates and rejects
// unsafe requests whose csrf_token field or X-CSRF-Token header does not match.
func (m *CSRFMiddleware) Protect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := m.token(w, r)
		if err != nil {
			logger.FromContext(r.Context()).Error("failed to issue csrf token", "error", err)
			http.Error(w, "Session error", http.StatusInternalServerError)
			return
		}

		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
		default:
			requestToken := r.Header.Get("X-CSRF-Token")
			if requestToken == "" {
				requestToken = r.FormValue("csrf_token")
			}
			if subtle.ConstantTimeCompare([]byte(requestToken), []byte(token)) != 1 {
				logger.FromContext(r.Context()).Warn("csrf token mismatch", "path", r.URL.Path)
				http.Error(w, "CSRF token mismatch", http.StatusForbidden)
				return
			}
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), csrfContextKey, token)))
	})
}

// CSRFToken returns the token for forms rendered in this request
func CSRFToken(ctx context.Context) string {
	token, _ := ctx.Value(csrfContextKey).(string)
	return token
}
