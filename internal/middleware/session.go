package middleware

import (
	"encoding/json"
	"net/http"

	"campus-canteen/internal/models"

	"github.com/gorilla/sessions"
)

const SessionName = "session"

const (
	keyUserID    = "user_id"
	keyCart      = "cart"
	keyCSRFToken = "csrf_token"
)

// Flash categories, rendered as alert styles.
const (
	FlashSuccess = "success"
	FlashDanger  = "danger"
	FlashInfo    = "info"
)

var flashCategories = []string{FlashSuccess, FlashDanger, FlashInfo}

// Flash is a one-shot message shown on the next rendered page
type Flash struct {
	Category string
	Message  string
}

// NewCookieStore creates the signed cookie store holding the session
func NewCookieStore(secret string, maxAge int, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// SessionManager reads and writes the values kept in the session cookie
type SessionManager struct {
	store sessions.Store
}

func NewSessionManager(store sessions.Store) *SessionManager {
	return &SessionManager{store: store}
}

// get never fails: a cookie that no longer decodes yields a fresh session.
func (m *SessionManager) get(r *http.Request) *sessions.Session {
	session, err := m.store.Get(r, SessionName)
	if err != nil && session == nil {
		session = sessions.NewSession(m.store, SessionName)
	}
	return session
}

// UserID returns the logged in user id, 0 when anonymous.
func (m *SessionManager) UserID(r *http.Request) int {
	switch v := m.get(r).Values[keyUserID].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

// Login binds the session to userID.
func (m *SessionManager) Login(w http.ResponseWriter, r *http.Request, userID int) error {
	session := m.get(r)
	session.Values[keyUserID] = userID
	return session.Save(r, w)
}

// Logout forgets the user and the cart. The CSRF token is rotated.
func (m *SessionManager) Logout(w http.ResponseWriter, r *http.Request) error {
	session := m.get(r)
	delete(session.Values, keyUserID)
	delete(session.Values, keyCart)
	delete(session.Values, keyCSRFToken)
	return session.Save(r, w)
}

// Cart decodes the session cart. A missing or corrupt value is an empty cart.
func (m *SessionManager) Cart(r *http.Request) *models.Cart {
	cart := models.NewCart()
	raw, ok := m.get(r).Values[keyCart].(string)
	if !ok || raw == "" {
		return cart
	}
	if err := json.Unmarshal([]byte(raw), cart); err != nil || cart.Items == nil {
		return models.NewCart()
	}
	return cart
}

// SaveCart writes the cart back as a JSON string.
func (m *SessionManager) SaveCart(w http.ResponseWriter, r *http.Request, cart *models.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	session := m.get(r)
	session.Values[keyCart] = string(data)
	return session.Save(r, w)
}

// Flash queues a message for the next page.
func (m *SessionManager) Flash(w http.ResponseWriter, r *http.Request, category, message string) error {
	session := m.get(r)
	session.AddFlash(message, category)
	return session.Save(r, w)
}

// Flashes pops every queued message.
func (m *SessionManager) Flashes(w http.ResponseWriter, r *http.Request) []Flash {
	session := m.get(r)
	var out []Flash
	for _, category := range flashCategories {
		for _, v := range session.Flashes(category) {
			if msg, ok := v.(string); ok {
				out = append(out, Flash{Category: category, Message: msg})
			}
		}
	}
	if len(out) > 0 {
		_ = session.Save(r, w)
	}
	return out
}

// SecureHeaders adds security headers to responses
func SecureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		if r.TLS != nil {
			w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		next.ServeHTTP(w, r)
	})
}
