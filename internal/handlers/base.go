package handlers

import (
	"net/http"
	"strconv"

	"campus-canteen/internal/logger"
	"campus-canteen/internal/middleware"
	"campus-canteen/internal/models"
	"campus-canteen/web/templates/pages"

	"github.com/go-chi/chi/v5"
)

// Base carries what every page handler needs
type Base struct {
	sessions *middleware.SessionManager
}

func NewBase(sessions *middleware.SessionManager) *Base {
	return &Base{sessions: sessions}
}

func (b *Base) flash(w http.ResponseWriter, r *http.Request, category, message string) {
	if err := b.sessions.Flash(w, r, category, message); err != nil {
		logger.FromContext(r.Context()).Warn("failed to save flash", "error", err)
	}
}

// redirect answers HTMX with HX-Redirect and everyone else with 303.
func (b *Base) redirect(w http.ResponseWriter, r *http.Request, url string) {
	if middleware.IsHTMXRequest(r) {
		w.Header().Set("HX-Redirect", url)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, url, http.StatusSeeOther)
}

func (b *Base) serverError(w http.ResponseWriter, r *http.Request, err error) {
	logger.FromContext(r.Context()).Error("request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"error", err,
	)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

func (b *Base) forbidden(w http.ResponseWriter, r *http.Request) {
	b.render(w, r, http.StatusForbidden, pages.Error(b.chrome(w, r, "Forbidden"), "You do not have access to this page."))
}

func (b *Base) notFound(w http.ResponseWriter, r *http.Request, message string) {
	b.render(w, r, http.StatusNotFound, pages.Error(b.chrome(w, r, "Not found"), message))
}

// saveCart persists cart; a failure is logged and the request carries on.
func (b *Base) saveCart(w http.ResponseWriter, r *http.Request, cart *models.Cart) {
	if err := b.sessions.SaveCart(w, r, cart); err != nil {
		logger.FromContext(r.Context()).Error("failed to save cart", "error", err)
	}
}

// idParam returns the {id} route parameter, 0 when it is not a positive integer.
func idParam(r *http.Request) int {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 0 {
		return 0
	}
	return id
}
