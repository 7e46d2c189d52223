package services

import (
	"context"
	"testing"

	"campus-canteen/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupportService_Tickets(t *testing.T) {
	tickets := &fakeTickets{}
	svc := NewSupportService(tickets, &fakeFeedback{})
	ctx := context.Background()

	ticket, err := svc.CreateTicket(ctx, customer, &TicketRequest{Subject: " Cold tea ", Category: "Food Quality", Message: "It was cold"})
	require.NoError(t, err)
	assert.Equal(t, "Cold tea", ticket.Subject)
	assert.Equal(t, "Food Quality", ticket.Category)
	assert.Equal(t, models.TicketOpen, ticket.Status)
	require.NotNil(t, ticket.UserID)
	assert.Equal(t, customer.UserID, *ticket.UserID)

	ticket, err = svc.CreateTicket(ctx, customer, &TicketRequest{Subject: "Refund", Category: "whatever", Message: "please"})
	require.NoError(t, err)
	assert.Equal(t, "Other", ticket.Category)

	_, err = svc.CreateTicket(ctx, customer, &TicketRequest{Subject: "No body"})
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "message", verr.Field)

	_, err = svc.CreateTicket(ctx, nil, &TicketRequest{Subject: "x", Message: "y"})
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	list, err := svc.ListTickets(ctx, customer)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Refund", list[0].Subject)
}

func TestSupportService_Feedback(t *testing.T) {
	feedback := &fakeFeedback{}
	svc := NewSupportService(&fakeTickets{}, feedback)
	ctx := context.Background()

	fb, err := svc.SubmitFeedback(ctx, &FeedbackRequest{Message: "Great samosas"})
	require.NoError(t, err)
	assert.Equal(t, "Great samosas", fb.Message)

	_, err = svc.SubmitFeedback(ctx, &FeedbackRequest{Email: "not-an-email", Message: "hi"})
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = svc.SubmitFeedback(ctx, &FeedbackRequest{Name: "Pooja", Message: "   "})
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	assert.Len(t, feedback.items, 1)
}
