package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"campus-canteen/internal/middleware"
	"campus-canteen/internal/models"
	"campus-canteen/web/templates/pages"

	"github.com/a-h/templ"
)

// chrome collects the layout data for r: user, flashes, CSRF token and cart size.
// It pops the flashes, so call it before anything is written to w.
func (b *Base) chrome(w http.ResponseWriter, r *http.Request, title string) pages.Page {
	ctx := r.Context()
	p := pages.Page{
		Title:     title,
		User:      middleware.GetUserFromContext(ctx),
		Principal: middleware.GetPrincipal(ctx),
		CSRFToken: middleware.CSRFToken(ctx),
	}
	if models.CanUseShop(p.Principal) {
		p.CartCount = b.sessions.Cart(r).Count()
	}
	p.Flashes = b.sessions.Flashes(w, r)
	return p
}

// render writes component with status. The component is rendered into a
// buffer first so a failure never leaves a half written response.
func (b *Base) render(w http.ResponseWriter, r *http.Request, status int, component templ.Component) {
	var buf bytes.Buffer
	if err := component.Render(r.Context(), &buf); err != nil {
		b.serverError(w, r, fmt.Errorf("failed to render page: %w", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (b *Base) page(w http.ResponseWriter, r *http.Request, component templ.Component) {
	b.render(w, r, http.StatusOK, component)
}
