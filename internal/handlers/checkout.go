package handlers

import (
	"errors"
	"net/http"

	"campus-canteen/internal/logger"
	"campus-canteen/internal/middleware"
	"campus-canteen/internal/models"
	"campus-canteen/internal/services"
)

// CheckoutHandler turns the session cart into an order
type CheckoutHandler struct {
	*Base
	checkout *services.CheckoutService
}

func NewCheckoutHandler(base *Base, checkout *services.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{Base: base, checkout: checkout}
}

// Wallet pays for the cart from the caller's wallet balance
func (h *CheckoutHandler) Wallet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cart := h.sessions.Cart(r)

	_, err := h.checkout.WalletCheckout(ctx, middleware.GetPrincipal(ctx), cart)
	switch {
	case err == nil:
	case errors.Is(err, models.ErrEmptyCart):
		h.flash(w, r, middleware.FlashInfo, "Your cart is empty")
		h.redirect(w, r, "/menu")
		return
	case errors.Is(err, models.ErrInsufficientFunds):
		h.flash(w, r, middleware.FlashDanger, "Insufficient wallet balance. Please recharge.")
		h.redirect(w, r, "/cart")
		return
	default:
		h.serverError(w, r, err)
		return
	}

	h.saveCart(w, r, cart)
	h.flash(w, r, middleware.FlashSuccess, "Order placed successfully")
	h.redirect(w, r, "/orders")
}

// Card starts a hosted checkout and sends the browser to the provider
func (h *CheckoutHandler) Card(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	session, err := h.checkout.StartCardCheckout(ctx, middleware.GetPrincipal(ctx), h.sessions.Cart(r))
	switch {
	case err == nil:
	case errors.Is(err, models.ErrEmptyCart):
		h.flash(w, r, middleware.FlashInfo, "Your cart is empty")
		h.redirect(w, r, "/menu")
		return
	case errors.Is(err, services.ErrPaymentProvider):
		logger.FromContext(ctx).Error("card checkout failed", "error", err)
		h.flash(w, r, middleware.FlashDanger, "Payment could not be started. Please try again.")
		h.redirect(w, r, "/cart")
		return
	default:
		h.serverError(w, r, err)
		return
	}

	h.redirect(w, r, session.URL)
}

// PaymentSuccess is the provider's return URL. It records a paid card order
// for whatever the cart holds now.
func (h *CheckoutHandler) PaymentSuccess(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cart := h.sessions.Cart(r)

	_, err := h.checkout.CompleteCardCheckout(ctx, middleware.GetPrincipal(ctx), cart, r.URL.Query().Get("state"))
	switch {
	case err == nil:
	case errors.Is(err, models.ErrEmptyCart):
		h.redirect(w, r, "/menu")
		return
	case errors.Is(err, services.ErrInvalidCallbackState):
		logger.FromContext(ctx).Warn("rejected payment callback", "error", err)
		h.flash(w, r, middleware.FlashDanger, "Payment could not be verified.")
		h.redirect(w, r, "/cart")
		return
	default:
		h.serverError(w, r, err)
		return
	}

	h.saveCart(w, r, cart)
	h.flash(w, r, middleware.FlashSuccess, "Payment successful! Order placed.")
	h.redirect(w, r, "/orders")
}
