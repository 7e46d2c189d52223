// Package server wires repositories, services and handlers into the HTTP router.
package server

import (
	"database/sql"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"

	"campus-canteen/internal/events"
	"campus-canteen/internal/handlers"
	"campus-canteen/internal/logger"
	"campus-canteen/internal/metrics"
	"campus-canteen/internal/middleware"
	"campus-canteen/internal/repositories"
	"campus-canteen/internal/services"
	"campus-canteen/internal/utils"
	"campus-canteen/web"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
)

// Options are the collaborators the router is built from. Zero values get
// development defaults.
type Options struct {
	DB           *sql.DB
	SessionStore sessions.Store
	Payments     services.PaymentService
	Publisher    events.Publisher
	Metrics      *metrics.Metrics
	Logger       *slog.Logger
	LoginLimiter *middleware.RateLimiter

	BaseURL       string
	Currency      string
	CallbackState *services.CallbackState

	// HashConfig overrides the argon2 parameters (tests use a cheap one).
	HashConfig *utils.PasswordHashConfig
}

// New builds the application handler
func New(opts Options) (http.Handler, error) {
	if opts.DB == nil {
		return nil, fmt.Errorf("server: database is required")
	}
	if opts.SessionStore == nil {
		return nil, fmt.Errorf("server: session store is required")
	}
	if opts.Payments == nil {
		opts.Payments = services.NewMockPaymentService()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.New()
	}
	if opts.Logger == nil {
		opts.Logger = logger.L()
	}

	static, err := fs.Sub(web.Static, "static")
	if err != nil {
		return nil, fmt.Errorf("failed to open static assets: %w", err)
	}

	// Initialize repositories
	userRepo := repositories.NewUserRepository(opts.DB)
	productRepo := repositories.NewProductRepository(opts.DB)
	orderRepo := repositories.NewOrderRepository(opts.DB)
	ticketRepo := repositories.NewTicketRepository(opts.DB)
	feedbackRepo := repositories.NewFeedbackRepository(opts.DB)
	auditRepo := repositories.NewAuditLogRepository(opts.DB)

	// Initialize services
	authService := services.NewAuthService(userRepo)
	if opts.HashConfig != nil {
		authService.SetHashConfig(opts.HashConfig)
	}
	cartService := services.NewCartService(productRepo)
	catalogService := services.NewCatalogService(productRepo)
	orderService := services.NewOrderService(orderRepo)
	walletService := services.NewWalletService(userRepo, opts.Metrics)
	supportService := services.NewSupportService(ticketRepo, feedbackRepo)
	auditService := services.NewAuditService(auditRepo)
	checkoutService := services.NewCheckoutService(cartService, orderRepo, opts.Payments, opts.Publisher, opts.Metrics, services.CheckoutConfig{
		BaseURL:  opts.BaseURL,
		Currency: opts.Currency,
		State:    opts.CallbackState,
	})

	// Initialize handlers
	sessionManager := middleware.NewSessionManager(opts.SessionStore)
	base := handlers.NewBase(sessionManager)
	authHandler := handlers.NewAuthHandler(base, authService)
	shopHandler := handlers.NewShopHandler(base, catalogService, cartService, orderService)
	checkoutHandler := handlers.NewCheckoutHandler(base, checkoutService)
	supportHandler := handlers.NewSupportHandler(base, supportService)
	adminHandler := handlers.NewAdminHandler(base, catalogService, walletService, orderService, auditService)
	apiHandler := handlers.NewAPIHandler(catalogService, opts.DB)

	authMiddleware := middleware.NewAuthMiddleware(authService, sessionManager)
	csrfMiddleware := middleware.NewCSRFMiddleware(sessionManager)

	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(opts.Logger))
	r.Use(middleware.ErrorHandlingMiddleware)
	r.Use(opts.Metrics.Middleware)
	r.Use(middleware.SecureHeaders)

	r.NotFound(middleware.NotFoundHandler().ServeHTTP)

	// Machine endpoints carry no session
	r.Get("/healthz", apiHandler.Health)
	r.Get("/api/menu", apiHandler.Menu)
	r.Handle("/metrics", opts.Metrics.Handler())
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.LoadPrincipal)
		r.Use(csrfMiddleware.Protect)

		r.Get("/", authHandler.Home)
		r.Get("/login", authHandler.LoginPage)
		if opts.LoginLimiter != nil {
			r.With(middleware.RateLimitLogin(opts.LoginLimiter)).Post("/login", authHandler.Login)
		} else {
			r.Post("/login", authHandler.Login)
		}
		r.Get("/register", authHandler.RegisterPage)
		r.Post("/register", authHandler.Register)
		r.Get("/feedback", supportHandler.FeedbackPage)
		r.Post("/feedback", supportHandler.Feedback)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			r.Get("/logout", authHandler.Logout)
			r.Get("/menu", shopHandler.Menu)
			r.Get("/add_to_cart/{id}", shopHandler.AddToCart)
			r.Get("/cart", shopHandler.Cart)
			r.Get("/remove_from_cart/{id}", shopHandler.RemoveFromCart)
			r.Get("/orders", shopHandler.Orders)
			r.Post("/checkout", checkoutHandler.Wallet)
			r.Post("/stripe_checkout", checkoutHandler.Card)
			r.Get("/payment_success", checkoutHandler.PaymentSuccess)
			r.Get("/tickets", supportHandler.Tickets)
			r.Post("/tickets", supportHandler.CreateTicket)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAdmin)

			r.Get("/menu", adminHandler.Menu)
			r.Post("/menu", adminHandler.CreateProduct)
			r.Get("/recharge", adminHandler.RechargePage)
			r.Post("/recharge", adminHandler.Recharge)
			r.Get("/orders", adminHandler.Orders)
			r.Get("/toggle_product/{id}", adminHandler.ToggleProduct)
			r.Get("/delete_product/{id}", adminHandler.DeleteProduct)
			r.Get("/audit", adminHandler.Audit)
		})
	})

	return r, nil
}
