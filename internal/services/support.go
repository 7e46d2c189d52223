package services

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"campus-canteen/internal/models"
)

// TicketRequest is the support ticket form
type TicketRequest struct {
	Subject  string `form:"subject" validate:"required,max=200"`
	Category string `form:"category" validate:"max=50"`
	Message  string `form:"message" validate:"required,max=5000"`
}

// FeedbackRequest is the feedback form. Name and email are optional.
type FeedbackRequest struct {
	Name    string `form:"name" validate:"max=100"`
	Email   string `form:"email" validate:"omitempty,email,max=255"`
	Message string `form:"message" validate:"required,max=5000"`
}

// SupportService files tickets and collects feedback
type SupportService struct {
	tickets  TicketRepository
	feedback FeedbackRepository
}

func NewSupportService(tickets TicketRepository, feedback FeedbackRepository) *SupportService {
	return &SupportService{tickets: tickets, feedback: feedback}
}

// CreateTicket opens a ticket for the principal. Unknown categories become "Other".
func (s *SupportService) CreateTicket(ctx context.Context, p *models.Principal, req *TicketRequest) (*models.Ticket, error) {
	if !models.CanUseShop(p) {
		return nil, models.ErrUnauthorized
	}

	req.Subject = strings.TrimSpace(req.Subject)
	req.Message = strings.TrimSpace(req.Message)
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	category := strings.TrimSpace(req.Category)
	if !slices.Contains(models.TicketCategories, category) {
		category = "Other"
	}

	userID := p.UserID
	ticket, err := s.tickets.Create(ctx, &models.Ticket{
		UserID:   &userID,
		Subject:  req.Subject,
		Category: category,
		Message:  req.Message,
		Status:   models.TicketOpen,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create ticket: %w", err)
	}
	return ticket, nil
}

// ListTickets returns the principal's tickets, newest first
func (s *SupportService) ListTickets(ctx context.Context, p *models.Principal) ([]*models.Ticket, error) {
	if !models.CanUseShop(p) {
		return nil, models.ErrUnauthorized
	}
	return s.tickets.ListByUser(ctx, p.UserID)
}

// SubmitFeedback stores a feedback message. No login is needed.
func (s *SupportService) SubmitFeedback(ctx context.Context, req *FeedbackRequest) (*models.Feedback, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Message = strings.TrimSpace(req.Message)
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	fb, err := s.feedback.Create(ctx, &models.Feedback{
		UserName: req.Name,
		Email:    req.Email,
		Message:  req.Message,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save feedback: %w", err)
	}
	return fb, nil
}
