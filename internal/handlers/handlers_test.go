package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"campus-canteen/internal/middleware"
	"campus-canteen/internal/models"
	"campus-canteen/internal/services"
	"campus-canteen/web/templates/pages"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/assert"
)

func newTestBase() *Base {
	return NewBase(middleware.NewSessionManager(sessions.NewCookieStore([]byte("test-secret"))))
}

func TestBase_PageCarriesChrome(t *testing.T) {
	base := newTestBase()
	customer := &models.User{ID: 2, Name: "Pooja", Email: "pooja@example.com", Wallet: 100}

	req := httptest.NewRequest(http.MethodGet, "/menu", nil)
	req = req.WithContext(middleware.SetUserContext(req.Context(), customer))
	rec := httptest.NewRecorder()

	base.page(rec, req, pages.Menu(base.chrome(rec, req, "Menu"), []*models.Product{
		{ID: 1, Name: "Samosa", Price: 20, Available: true},
	}))

	body := rec.Body.String()
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, body, "<title>Menu - Campus Canteen</title>")
	assert.Contains(t, body, "Wallet: Rs.100.00")
	assert.Contains(t, body, "Logout (Pooja)")
	assert.Contains(t, body, `href="/add_to_cart/1"`)
}

type failingComponent struct{}

func (failingComponent) Render(ctx context.Context, w io.Writer) error {
	_, _ = io.WriteString(w, "<h1>half")
	return errors.New("boom")
}

func TestBase_RenderFailureIsServerError(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestBase().render(rec, httptest.NewRequest(http.MethodGet, "/menu", nil), http.StatusOK, failingComponent{})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "half")
}

func TestBase_NotFound(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestBase().notFound(rec, httptest.NewRequest(http.MethodGet, "/add_to_cart/99", nil), "Product not found")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Product not found")
}

func TestRedirect(t *testing.T) {
	base := &Base{}

	rec := httptest.NewRecorder()
	base.redirect(rec, httptest.NewRequest(http.MethodGet, "/cart", nil), "/menu")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/menu", rec.Header().Get("Location"))

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set("HX-Request", "true")
	rec = httptest.NewRecorder()
	base.redirect(rec, req, "/menu")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "/menu", rec.Header().Get("HX-Redirect"))
}

func TestIDParam(t *testing.T) {
	tests := []struct {
		path string
		want int
	}{
		{"/add_to_cart/7", 7},
		{"/add_to_cart/abc", 0},
		{"/add_to_cart/-3", 0},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			var got int
			r := chi.NewRouter()
			r.Get("/add_to_cart/{id}", func(w http.ResponseWriter, r *http.Request) {
				got = idParam(r)
			})
			r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.want, got)
		})
	}
}

type stubPinger struct{ err error }

func (p stubPinger) PingContext(ctx context.Context) error { return p.err }

func TestAPIHandler_Health(t *testing.T) {
	rec := httptest.NewRecorder()
	NewAPIHandler(nil, stubPinger{}).Health(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "campus-canteen")

	rec = httptest.NewRecorder()
	NewAPIHandler(nil, stubPinger{err: errors.New("connection refused")}).Health(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestAdminHandler_ForbiddenForCustomers(t *testing.T) {
	h := NewAdminHandler(newTestBase(), services.NewCatalogService(nil), services.NewWalletService(nil, nil), services.NewOrderService(nil), services.NewAuditService(nil))

	customer := &models.User{ID: 2, Name: "Pooja", Email: "pooja@example.com"}
	for name, handler := range map[string]http.HandlerFunc{
		"menu":     h.Menu,
		"recharge": h.RechargePage,
		"orders":   h.Orders,
		"audit":    h.Audit,
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin/"+name, nil)
			req = req.WithContext(middleware.SetUserContext(req.Context(), customer))
			rec := httptest.NewRecorder()

			handler(rec, req)

			assert.Equal(t, http.StatusForbidden, rec.Code)
		})
	}
}
