package handlers

import (
	"errors"
	"net/http"

	"campus-canteen/internal/logger"
	"campus-canteen/internal/middleware"
	"campus-canteen/internal/models"
	"campus-canteen/internal/services"
	"campus-canteen/web/templates/pages"
)

// AuthHandler handles login, registration and logout
type AuthHandler struct {
	*Base
	auth *services.AuthService
}

func NewAuthHandler(base *Base, auth *services.AuthService) *AuthHandler {
	return &AuthHandler{Base: base, auth: auth}
}

// Home sends the caller to the landing page for their role
func (h *AuthHandler) Home(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, models.HomePath(middleware.GetPrincipal(r.Context())), http.StatusSeeOther)
}

func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.page(w, r, pages.Login(h.chrome(w, r, "Login")))
}

// Login authenticates the form credentials and binds the session
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	req := &services.LoginRequest{
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
	}

	user, err := h.auth.Login(r.Context(), req)
	if err != nil {
		var ve *models.ValidationError
		if errors.Is(err, services.ErrInvalidCredentials) || errors.As(err, &ve) {
			h.flash(w, r, middleware.FlashDanger, "Invalid email or password.")
			h.redirect(w, r, "/login")
			return
		}
		h.serverError(w, r, err)
		return
	}

	if err := h.sessions.Login(w, r, user.ID); err != nil {
		h.serverError(w, r, err)
		return
	}

	logger.FromContext(r.Context()).Info("user logged in", "user_id", user.ID, "admin", user.IsAdmin)
	h.flash(w, r, middleware.FlashSuccess, "Logged in successfully.")
	h.redirect(w, r, models.HomePath(user.Principal()))
}

func (h *AuthHandler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	h.page(w, r, pages.Register(h.chrome(w, r, "Register")))
}

// Register creates a customer account with an empty wallet
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	req := &services.RegisterRequest{
		Name:     r.FormValue("name"),
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
	}

	_, err := h.auth.Register(r.Context(), req)
	if err != nil {
		var ve *models.ValidationError
		switch {
		case errors.Is(err, models.ErrDuplicateEntry):
			h.flash(w, r, middleware.FlashDanger, "Email already registered.")
		case errors.As(err, &ve):
			h.flash(w, r, middleware.FlashDanger, ve.Message)
		default:
			h.serverError(w, r, err)
			return
		}
		h.redirect(w, r, "/register")
		return
	}

	h.flash(w, r, middleware.FlashSuccess, "Registration successful. Please login.")
	h.redirect(w, r, "/login")
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(w, r); err != nil {
		h.serverError(w, r, err)
		return
	}
	h.flash(w, r, middleware.FlashInfo, "Logged out.")
	h.redirect(w, r, "/login")
}
