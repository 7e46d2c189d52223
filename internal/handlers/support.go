package handlers

import (
	"errors"
	"net/http"

	"campus-canteen/internal/middleware"
	"campus-canteen/internal/models"
	"campus-canteen/internal/services"
	"campus-canteen/web/templates/pages"
)

// SupportHandler handles tickets and feedback
type SupportHandler struct {
	*Base
	support *services.SupportService
}

func NewSupportHandler(base *Base, support *services.SupportService) *SupportHandler {
	return &SupportHandler{Base: base, support: support}
}

func (h *SupportHandler) Tickets(w http.ResponseWriter, r *http.Request) {
	tickets, err := h.support.ListTickets(r.Context(), middleware.GetPrincipal(r.Context()))
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.page(w, r, pages.Tickets(h.chrome(w, r, "Support"), models.TicketCategories, tickets))
}

func (h *SupportHandler) CreateTicket(w http.ResponseWriter, r *http.Request) {
	req := &services.TicketRequest{
		Subject:  r.FormValue("subject"),
		Category: r.FormValue("category"),
		Message:  r.FormValue("message"),
	}

	_, err := h.support.CreateTicket(r.Context(), middleware.GetPrincipal(r.Context()), req)
	if err != nil {
		var ve *models.ValidationError
		if !errors.As(err, &ve) {
			h.serverError(w, r, err)
			return
		}
		h.flash(w, r, middleware.FlashDanger, ve.Message)
		h.redirect(w, r, "/tickets")
		return
	}

	h.flash(w, r, middleware.FlashSuccess, "Ticket submitted.")
	h.redirect(w, r, "/tickets")
}

func (h *SupportHandler) FeedbackPage(w http.ResponseWriter, r *http.Request) {
	h.page(w, r, pages.Feedback(h.chrome(w, r, "Feedback")))
}

// Feedback accepts a message from anyone, logged in or not
func (h *SupportHandler) Feedback(w http.ResponseWriter, r *http.Request) {
	req := &services.FeedbackRequest{
		Name:    r.FormValue("name"),
		Email:   r.FormValue("email"),
		Message: r.FormValue("message"),
	}

	_, err := h.support.SubmitFeedback(r.Context(), req)
	if err != nil {
		var ve *models.ValidationError
		if !errors.As(err, &ve) {
			h.serverError(w, r, err)
			return
		}
		h.flash(w, r, middleware.FlashDanger, ve.Message)
		h.redirect(w, r, "/feedback")
		return
	}

	h.flash(w, r, middleware.FlashSuccess, "Feedback sent.")
	h.redirect(w, r, "/feedback")
}
