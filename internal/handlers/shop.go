package handlers

import (
	"errors"
	"net/http"

	"campus-canteen/internal/middleware"
	"campus-canteen/internal/models"
	"campus-canteen/internal/services"
	"campus-canteen/web/templates/pages"
)

// ShopHandler serves the customer side: menu, cart and order history
type ShopHandler struct {
	*Base
	catalog *services.CatalogService
	carts   *services.CartService
	orders  *services.OrderService
}

func NewShopHandler(base *Base, catalog *services.CatalogService, carts *services.CartService, orders *services.OrderService) *ShopHandler {
	return &ShopHandler{Base: base, catalog: catalog, carts: carts, orders: orders}
}

func (h *ShopHandler) Menu(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.Menu(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.page(w, r, pages.Menu(h.chrome(w, r, "Menu"), products))
}

// AddToCart puts one unit of {id} in the session cart
func (h *ShopHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	cart := h.sessions.Cart(r)

	product, err := h.carts.Add(r.Context(), cart, idParam(r))
	switch {
	case err == nil:
	case models.IsNotFound(err):
		h.notFound(w, r, "Product not found")
		return
	case errors.Is(err, models.ErrProductUnavailable):
		h.flash(w, r, middleware.FlashDanger, "This product is not available.")
		h.redirect(w, r, "/menu")
		return
	default:
		h.serverError(w, r, err)
		return
	}

	h.saveCart(w, r, cart)
	h.flash(w, r, middleware.FlashSuccess, "Added "+product.Name+" to cart")
	h.redirect(w, r, "/menu")
}

// Cart shows the cart priced against the current catalog
func (h *ShopHandler) Cart(w http.ResponseWriter, r *http.Request) {
	view, err := h.carts.View(r.Context(), h.sessions.Cart(r))
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.page(w, r, pages.Cart(h.chrome(w, r, "Cart"), view))
}

func (h *ShopHandler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	cart := h.sessions.Cart(r)
	h.carts.Remove(cart, idParam(r))
	h.saveCart(w, r, cart)
	h.flash(w, r, middleware.FlashInfo, "Item removed from cart")
	h.redirect(w, r, "/cart")
}

// Orders lists the caller's own orders, newest first
func (h *ShopHandler) Orders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.History(r.Context(), middleware.GetPrincipal(r.Context()))
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.page(w, r, pages.Orders(h.chrome(w, r, "My orders"), orders))
}
