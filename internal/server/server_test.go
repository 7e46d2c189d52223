package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"campus-canteen/internal/database"
	"campus-canteen/internal/metrics"
	"campus-canteen/internal/middleware"
	"campus-canteen/internal/models"
	"campus-canteen/internal/repositories"
	"campus-canteen/internal/services"
	"campus-canteen/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fastHash = &utils.PasswordHashConfig{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

var csrfField = regexp.MustCompile(`name="csrf_token" value="([^"]+)"`)

type testApp struct {
	t        *testing.T
	srv      *httptest.Server
	db       *database.DB
	metrics  *metrics.Metrics
	payments *services.MockPaymentService

	admin    *models.User
	customer *models.User
	products map[string]*models.Product
}

func newTestApp(t *testing.T, customize func(*Options)) *testApp {
	t.Helper()

	db, err := database.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	app := &testApp{
		t:        t,
		db:       db,
		metrics:  metrics.New(),
		payments: services.NewMockPaymentService(),
		products: map[string]*models.Product{},
	}

	var handler http.Handler
	app.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handler.ServeHTTP(w, r)
	}))
	t.Cleanup(app.srv.Close)

	opts := Options{
		DB:           db.DB,
		SessionStore: middleware.NewCookieStore("test-secret-test-secret-test-sec", 3600, false),
		Payments:     app.payments,
		Metrics:      app.metrics,
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		BaseURL:      app.srv.URL,
		HashConfig:   fastHash,
	}
	if customize != nil {
		customize(&opts)
	}
	handler, err = New(opts)
	require.NoError(t, err)

	app.admin = app.createUser("Admin", "admin@canteen.test", "admin123", true, 0)
	app.customer = app.createUser("Pooja", "pooja@canteen.test", "user123", false, 100)
	for _, p := range []struct {
		name  string
		price float64
	}{{"Samosa", 20}, {"Fried Rice", 60}, {"Tea", 10}} {
		product, err := repositories.NewProductRepository(db.DB).Create(context.Background(), &models.ProductCreateRequest{Name: p.name, Price: p.price})
		require.NoError(t, err)
		app.products[p.name] = product
	}
	return app
}

func (a *testApp) createUser(name, email, password string, admin bool, wallet float64) *models.User {
	a.t.Helper()
	hash, err := utils.HashPasswordWith(fastHash, password)
	require.NoError(a.t, err)
	users := repositories.NewUserRepository(a.db.DB)
	user, err := users.Create(context.Background(), &models.UserCreateRequest{
		Name: name, Email: email, Password: hash, Wallet: wallet,
	})
	require.NoError(a.t, err)
	if admin {
		require.NoError(a.t, users.SetAdmin(context.Background(), user.ID, true))
		user.IsAdmin = true
	}
	return user
}

func (a *testApp) wallet(userID int) float64 {
	a.t.Helper()
	user, err := repositories.NewUserRepository(a.db.DB).GetByID(context.Background(), userID)
	require.NoError(a.t, err)
	return user.Wallet
}

func (a *testApp) orders(userID int) []*models.Order {
	a.t.Helper()
	orders, err := repositories.NewOrderRepository(a.db.DB).ListByUser(context.Background(), userID)
	require.NoError(a.t, err)
	return orders
}

// browser keeps cookies and never follows redirects on its own
type browser struct {
	app    *testApp
	client *http.Client
}

func (a *testApp) browser() *browser {
	jar, err := cookiejar.New(nil)
	require.NoError(a.t, err)
	return &browser{app: a, client: &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}}
}

func (b *browser) url(path string) string {
	if strings.HasPrefix(path, "http") {
		return path
	}
	return b.app.srv.URL + path
}

func (b *browser) get(path string) (*http.Response, string) {
	b.app.t.Helper()
	resp, err := b.client.Get(b.url(path))
	require.NoError(b.app.t, err)
	return resp, readBody(b.app.t, resp)
}

// post submits form with the session's CSRF token
func (b *browser) post(path string, form url.Values) (*http.Response, string) {
	b.app.t.Helper()
	if form == nil {
		form = url.Values{}
	}
	form.Set("csrf_token", b.csrf())
	resp, err := b.client.PostForm(b.url(path), form)
	require.NoError(b.app.t, err)
	return resp, readBody(b.app.t, resp)
}

func (b *browser) csrf() string {
	b.app.t.Helper()
	_, body := b.get("/feedback")
	m := csrfField.FindStringSubmatch(body)
	require.Len(b.app.t, m, 2, "csrf token not rendered")
	return m[1]
}

// follow asserts resp redirects to location and loads it
func (b *browser) follow(resp *http.Response, location string) (*http.Response, string) {
	b.app.t.Helper()
	require.Equal(b.app.t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(b.app.t, location, resp.Header.Get("Location"))
	return b.get(location)
}

func (b *browser) login(email, password string) {
	b.app.t.Helper()
	resp, _ := b.post("/login", url.Values{"email": {email}, "password": {password}})
	require.Equal(b.app.t, http.StatusSeeOther, resp.StatusCode)
	require.NotEqual(b.app.t, "/login", resp.Header.Get("Location"))
}

func (b *browser) add(p *models.Product, times int) {
	b.app.t.Helper()
	for i := 0; i < times; i++ {
		resp, _ := b.get("/add_to_cart/" + strconv.Itoa(p.ID))
		require.Equal(b.app.t, "/menu", resp.Header.Get("Location"))
	}
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(data)
}

func TestHomeRedirectsByRole(t *testing.T) {
	app := newTestApp(t, nil)

	anon := app.browser()
	resp, _ := anon.get("/")
	assert.Equal(t, "/login", resp.Header.Get("Location"))
	resp, _ = anon.get("/menu")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	customer := app.browser()
	customer.login("pooja@canteen.test", "user123")
	resp, _ = customer.get("/")
	assert.Equal(t, "/menu", resp.Header.Get("Location"))

	admin := app.browser()
	admin.login("admin@canteen.test", "admin123")
	resp, _ = admin.get("/")
	assert.Equal(t, "/admin/menu", resp.Header.Get("Location"))
}

func TestRegisterLoginLogout(t *testing.T) {
	app := newTestApp(t, nil)
	b := app.browser()

	form := url.Values{"name": {"Ravi"}, "email": {"Ravi@Canteen.test"}, "password": {"secret1"}}
	resp, _ := b.post("/register", form)
	_, body := b.follow(resp, "/login")
	assert.Contains(t, body, "Registration successful. Please login.")

	resp, _ = b.post("/register", form)
	_, body = b.follow(resp, "/register")
	assert.Contains(t, body, "Email already registered.")

	resp, _ = b.post("/login", url.Values{"email": {"ravi@canteen.test"}, "password": {"wrong"}})
	_, body = b.follow(resp, "/login")
	assert.Contains(t, body, "Invalid email or password.")

	resp, _ = b.post("/login", url.Values{"email": {"ravi@canteen.test"}, "password": {"secret1"}})
	_, body = b.follow(resp, "/menu")
	assert.Contains(t, body, "Logged in successfully.")
	assert.Contains(t, body, "Samosa")
	assert.Contains(t, body, "Wallet: Rs.0.00")

	resp, _ = b.get("/logout")
	_, body = b.follow(resp, "/login")
	assert.Contains(t, body, "Logged out.")

	resp, _ = b.get("/orders")
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestWalletCheckout(t *testing.T) {
	app := newTestApp(t, nil)
	b := app.browser()
	b.login("pooja@canteen.test", "user123")

	b.add(app.products["Samosa"], 2)
	b.add(app.products["Tea"], 1)

	resp, body := b.get("/cart")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Rs.50.00")

	resp, _ = b.post("/checkout", nil)
	_, body = b.follow(resp, "/orders")
	assert.Contains(t, body, "Order placed successfully")
	assert.Contains(t, body, "wallet")

	assert.InDelta(t, 50.0, app.wallet(app.customer.ID), 0.001)
	orders := app.orders(app.customer.ID)
	require.Len(t, orders, 1)
	assert.InDelta(t, 50.0, orders[0].TotalAmount, 0.001)
	assert.Equal(t, models.OrderPaid, orders[0].Status)

	resp, body = b.get("/cart")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Your cart is empty")
	assert.Contains(t, body, "Total: Rs.0.00")
}

func TestWalletCheckoutInsufficientFunds(t *testing.T) {
	app := newTestApp(t, nil)
	b := app.browser()
	b.login("pooja@canteen.test", "user123")

	b.add(app.products["Fried Rice"], 2)

	resp, _ := b.post("/checkout", nil)
	_, body := b.follow(resp, "/cart")
	assert.Contains(t, body, "Insufficient wallet balance. Please recharge.")
	assert.Contains(t, body, "Fried Rice")
	assert.Contains(t, body, "Rs.120.00")

	assert.InDelta(t, 100.0, app.wallet(app.customer.ID), 0.001)
	assert.Empty(t, app.orders(app.customer.ID))
}

func TestCardCheckout(t *testing.T) {
	app := newTestApp(t, nil)
	b := app.browser()
	b.login("pooja@canteen.test", "user123")

	b.add(app.products["Fried Rice"], 1)

	resp, _ := b.post("/stripe_checkout", nil)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	success := resp.Header.Get("Location")
	assert.Equal(t, app.srv.URL+"/payment_success", success)

	sessions := app.payments.Sessions()
	require.Len(t, sessions, 1)
	assert.Equal(t, int64(6000), sessions[0].TotalMinor())
	assert.Equal(t, app.srv.URL+"/cart", sessions[0].CancelURL)

	resp, _ = b.get(success)
	_, body := b.follow(resp, "/orders")
	assert.Contains(t, body, "Payment successful! Order placed.")

	orders := app.orders(app.customer.ID)
	require.Len(t, orders, 1)
	assert.Equal(t, models.PaymentCard, orders[0].PaymentMethod)
	assert.InDelta(t, 100.0, app.wallet(app.customer.ID), 0.001, "card orders leave the wallet alone")

	resp, _ = b.get(success)
	assert.Equal(t, "/menu", resp.Header.Get("Location"), "empty cart callback creates nothing")
	assert.Len(t, app.orders(app.customer.ID), 1)
}

func TestCardCheckoutWithSignedState(t *testing.T) {
	app := newTestApp(t, func(o *Options) {
		o.CallbackState = services.NewCallbackState("callback-secret", time.Hour)
	})
	b := app.browser()
	b.login("pooja@canteen.test", "user123")
	b.add(app.products["Tea"], 1)

	resp, _ := b.get("/payment_success")
	_, body := b.follow(resp, "/cart")
	assert.Contains(t, body, "Payment could not be verified.")
	assert.Empty(t, app.orders(app.customer.ID))

	resp, _ = b.post("/stripe_checkout", nil)
	success := resp.Header.Get("Location")
	assert.Contains(t, success, "/payment_success?state=")

	resp, _ = b.get(success)
	b.follow(resp, "/orders")
	assert.Len(t, app.orders(app.customer.ID), 1)
}

func TestAdminCatalogAndRecharge(t *testing.T) {
	app := newTestApp(t, nil)

	customer := app.browser()
	customer.login("pooja@canteen.test", "user123")
	resp, _ := customer.get("/admin/menu")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	admin := app.browser()
	admin.login("admin@canteen.test", "admin123")

	resp, _ = admin.post("/admin/menu", url.Values{"name": {"Idli"}, "price": {"abc"}, "description": {"steamed"}})
	_, body := admin.follow(resp, "/admin/menu")
	assert.Contains(t, body, "Product added.")
	assert.Contains(t, body, "Idli")

	tea := app.products["Tea"]
	resp, _ = admin.get("/admin/toggle_product/" + strconv.Itoa(tea.ID))
	_, body = admin.follow(resp, "/admin/menu")
	assert.Contains(t, body, "Deactivated Tea")

	_, body = customer.get("/menu")
	assert.NotContains(t, body, "Tea")
	resp, _ = customer.get("/add_to_cart/" + strconv.Itoa(tea.ID))
	_, body = customer.follow(resp, "/menu")
	assert.Contains(t, body, "This product is not available.")

	resp, body = customer.get("/add_to_cart/9999")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, "Product not found")
	_, body = customer.get("/cart")
	assert.Contains(t, body, "Your cart is empty")

	resp, _ = admin.get("/admin/toggle_product/" + strconv.Itoa(tea.ID))
	_, body = admin.follow(resp, "/admin/menu")
	assert.Contains(t, body, "Activated Tea")

	resp, body = admin.get("/admin/toggle_product/9999")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, "Product not found")
	resp, _ = admin.get("/admin/delete_product/9999")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = admin.post("/admin/recharge", url.Values{"user_id": {strconv.Itoa(app.customer.ID)}, "amount": {"50"}})
	_, body = admin.follow(resp, "/admin/recharge")
	assert.Contains(t, body, "Recharged Rs.50.00 to Pooja")
	assert.InDelta(t, 150.0, app.wallet(app.customer.ID), 0.001)

	resp, _ = admin.post("/admin/recharge", url.Values{"user_id": {"9999"}, "amount": {"50"}})
	_, body = admin.follow(resp, "/admin/recharge")
	assert.Contains(t, body, "User not found")

	resp, body = admin.get("/admin/audit")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "wallet_recharge")
	assert.Contains(t, body, "product_toggle")
	assert.Contains(t, body, "product_create")
	assert.Contains(t, body, "admin@canteen.test")

	resp, _ = customer.get("/admin/audit")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestDeletedProductKeepsOrderHistory(t *testing.T) {
	app := newTestApp(t, nil)

	customer := app.browser()
	customer.login("pooja@canteen.test", "user123")
	customer.add(app.products["Samosa"], 1)
	resp, _ := customer.post("/checkout", nil)
	customer.follow(resp, "/orders")

	admin := app.browser()
	admin.login("admin@canteen.test", "admin123")
	resp, _ = admin.get("/admin/delete_product/" + strconv.Itoa(app.products["Samosa"].ID))
	_, body := admin.follow(resp, "/admin/menu")
	assert.Contains(t, body, "Product deleted successfully")

	_, body = customer.get("/orders")
	assert.Contains(t, body, "Samosa")
	assert.Contains(t, body, "Rs.20.00")

	_, body = admin.get("/admin/orders")
	assert.Contains(t, body, "pooja@canteen.test")
}

func TestSupport(t *testing.T) {
	app := newTestApp(t, nil)

	anon := app.browser()
	resp, _ := anon.post("/feedback", url.Values{"message": {"Great chai"}})
	_, body := anon.follow(resp, "/feedback")
	assert.Contains(t, body, "Feedback sent.")

	b := app.browser()
	b.login("pooja@canteen.test", "user123")
	resp, _ = b.post("/tickets", url.Values{"subject": {"Cold food"}, "category": {"Spaceship"}, "message": {"Samosa was cold"}})
	_, body = b.follow(resp, "/tickets")
	assert.Contains(t, body, "Ticket submitted.")
	assert.Contains(t, body, "Cold food")
	assert.Contains(t, body, "<td>Other</td>")
}

func TestCSRFRequiredOnPost(t *testing.T) {
	app := newTestApp(t, nil)
	b := app.browser()
	b.login("pooja@canteen.test", "user123")
	b.add(app.products["Tea"], 1)

	resp, err := b.client.PostForm(b.url("/checkout"), url.Values{})
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.InDelta(t, 100.0, app.wallet(app.customer.ID), 0.001)
}

func TestLoginRateLimit(t *testing.T) {
	limiter := middleware.NewRateLimiter(2, time.Minute)
	t.Cleanup(limiter.Stop)
	app := newTestApp(t, func(o *Options) { o.LoginLimiter = limiter })
	b := app.browser()

	form := url.Values{"email": {"pooja@canteen.test"}, "password": {"nope"}}
	for i := 0; i < 2; i++ {
		resp, _ := b.post("/login", form)
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	}
	resp, _ := b.post("/login", form)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestAPIAndOperationalEndpoints(t *testing.T) {
	app := newTestApp(t, nil)
	b := app.browser()

	resp, body := b.get("/api/menu")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	var envelope map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &envelope))
	assert.Contains(t, body, "Fried Rice")

	resp, body = b.get("/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "healthy")

	resp, _ = b.get("/static/css/app.css")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = b.get("/no-such-page")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	_, body = b.get("/metrics")
	assert.Contains(t, body, "canteen_http_requests_total")
	assert.Contains(t, body, `route="/api/menu"`)
}
