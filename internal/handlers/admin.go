package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"campus-canteen/internal/logger"
	"campus-canteen/internal/middleware"
	"campus-canteen/internal/models"
	"campus-canteen/internal/services"
	"campus-canteen/web/templates/pages"

	"github.com/AMFarhan21/fres"
)

// AdminHandler serves the catalog, wallet and order screens for admins
type AdminHandler struct {
	*Base
	catalog *services.CatalogService
	wallet  *services.WalletService
	orders  *services.OrderService
	audit   *services.AuditService
}

func NewAdminHandler(base *Base, catalog *services.CatalogService, wallet *services.WalletService, orders *services.OrderService, audit *services.AuditService) *AdminHandler {
	return &AdminHandler{Base: base, catalog: catalog, wallet: wallet, orders: orders, audit: audit}
}

// record appends to the audit trail. The action already happened, so a
// failure here is only logged.
func (h *AdminHandler) record(r *http.Request, entry services.AuditEntry) {
	meta := services.RequestMeta{
		IPAddress: middleware.ClientIP(r),
		UserAgent: r.UserAgent(),
	}
	if err := h.audit.Record(r.Context(), middleware.GetPrincipal(r.Context()), entry, meta); err != nil {
		logger.FromContext(r.Context()).Error("failed to record audit entry", "action", entry.Action, "error", err)
	}
}

// fail answers the errors shared by every admin action. It reports whether
// err was handled.
func (h *AdminHandler) fail(w http.ResponseWriter, r *http.Request, err error, back string) bool {
	var ve *models.ValidationError
	switch {
	case err == nil:
		return false
	case errors.Is(err, models.ErrForbidden):
		h.forbidden(w, r)
	case errors.Is(err, models.ErrUserNotFound):
		h.flash(w, r, middleware.FlashDanger, "User not found")
		h.redirect(w, r, back)
	case errors.Is(err, models.ErrProductNotFound):
		h.notFound(w, r, "Product not found")
	case errors.As(err, &ve):
		h.flash(w, r, middleware.FlashDanger, ve.Message)
		h.redirect(w, r, back)
	default:
		h.serverError(w, r, err)
	}
	return true
}

// Menu lists every product, hidden ones included
func (h *AdminHandler) Menu(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.AllProducts(r.Context(), middleware.GetPrincipal(r.Context()))
	if h.fail(w, r, err, "/admin/menu") {
		return
	}
	h.page(w, r, pages.AdminMenu(h.chrome(w, r, "Products"), products))
}

func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	form := &services.ProductForm{
		Name:        r.FormValue("name"),
		Price:       r.FormValue("price"),
		Description: r.FormValue("description"),
		Image:       r.FormValue("image"),
	}

	product, err := h.catalog.CreateProduct(r.Context(), middleware.GetPrincipal(r.Context()), form)
	if h.fail(w, r, err, "/admin/menu") {
		return
	}
	h.record(r, services.AuditEntry{
		Action:     models.AuditActionProductCreate,
		TargetType: models.AuditTargetProduct,
		TargetID:   product.ID,
		Details:    map[string]any{"name": product.Name, "price": product.Price},
	})
	h.flash(w, r, middleware.FlashSuccess, "Product added.")
	h.redirect(w, r, "/admin/menu")
}

// ToggleProduct flips {id} between available and hidden
func (h *AdminHandler) ToggleProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalog.ToggleAvailability(r.Context(), middleware.GetPrincipal(r.Context()), idParam(r))
	if h.fail(w, r, err, "/admin/menu") {
		return
	}

	state := "Deactivated"
	if product.Available {
		state = "Activated"
	}
	h.record(r, services.AuditEntry{
		Action:     models.AuditActionProductToggle,
		TargetType: models.AuditTargetProduct,
		TargetID:   product.ID,
		Details:    map[string]any{"available": product.Available},
	})
	h.flash(w, r, middleware.FlashSuccess, state+" "+product.Name)
	h.redirect(w, r, "/admin/menu")
}

// DeleteProduct removes {id}. Past orders keep their item snapshots.
func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	err := h.catalog.DeleteProduct(r.Context(), middleware.GetPrincipal(r.Context()), id)
	if h.fail(w, r, err, "/admin/menu") {
		return
	}
	h.record(r, services.AuditEntry{
		Action:     models.AuditActionProductDelete,
		TargetType: models.AuditTargetProduct,
		TargetID:   id,
	})
	h.flash(w, r, middleware.FlashSuccess, "Product deleted successfully")
	h.redirect(w, r, "/admin/menu")
}

func (h *AdminHandler) RechargePage(w http.ResponseWriter, r *http.Request) {
	users, err := h.wallet.Users(r.Context(), middleware.GetPrincipal(r.Context()))
	if h.fail(w, r, err, "/admin/menu") {
		return
	}
	h.page(w, r, pages.AdminRecharge(h.chrome(w, r, "Recharge"), users))
}

// Recharge credits the selected user's wallet
func (h *AdminHandler) Recharge(w http.ResponseWriter, r *http.Request) {
	userID, _ := strconv.Atoi(strings.TrimSpace(r.FormValue("user_id")))

	user, amount, err := h.wallet.Recharge(r.Context(), middleware.GetPrincipal(r.Context()), userID, r.FormValue("amount"))
	if h.fail(w, r, err, "/admin/recharge") {
		return
	}
	h.record(r, services.AuditEntry{
		Action:     models.AuditActionWalletRecharge,
		TargetType: models.AuditTargetUser,
		TargetID:   user.ID,
		Details:    map[string]any{"amount": amount, "balance": user.Wallet},
	})
	h.flash(w, r, middleware.FlashSuccess, fmt.Sprintf("Recharged Rs.%.2f to %s", amount, user.Name))
	h.redirect(w, r, "/admin/recharge")
}

// Orders lists every order with its customer
func (h *AdminHandler) Orders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.AllOrders(r.Context(), middleware.GetPrincipal(r.Context()))
	if h.fail(w, r, err, "/admin/menu") {
		return
	}
	h.page(w, r, pages.Orders(h.chrome(w, r, "All orders"), orders))
}

// Audit returns the latest admin actions as JSON
func (h *AdminHandler) Audit(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	logs, err := h.audit.Recent(r.Context(), middleware.GetPrincipal(r.Context()), limit)
	if err != nil {
		if errors.Is(err, models.ErrForbidden) {
			h.forbidden(w, r)
			return
		}
		h.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, fres.Response.StatusOK(logs))
}
