package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"campus-canteen/internal/models"
)

// TicketRepository stores support tickets
type TicketRepository struct {
	db *sql.DB
}

func NewTicketRepository(db *sql.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

// Create stores a new open ticket
func (r *TicketRepository) Create(ctx context.Context, t *models.Ticket) (*models.Ticket, error) {
	status := t.Status
	if status == "" {
		status = models.TicketOpen
	}

	var userID sql.NullInt64
	if t.UserID != nil {
		userID = sql.NullInt64{Int64: int64(*t.UserID), Valid: true}
	}

	created := &models.Ticket{}
	var uid sql.NullInt64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO tickets (user_id, subject, category, message, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, user_id, subject, category, message, status, created_at`,
		userID, t.Subject, t.Category, t.Message, status, time.Now().UTC(),
	).Scan(&created.ID, &uid, &created.Subject, &created.Category, &created.Message, &created.Status, scanTime{&created.CreatedAt})
	if err != nil {
		return nil, fmt.Errorf("failed to create ticket: %w", err)
	}
	if uid.Valid {
		id := int(uid.Int64)
		created.UserID = &id
	}
	return created, nil
}

// ListByUser returns the user's tickets, newest first
func (r *TicketRepository) ListByUser(ctx context.Context, userID int) ([]*models.Ticket, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, subject, category, message, status, created_at
		FROM tickets
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	defer rows.Close()

	tickets := []*models.Ticket{}
	for rows.Next() {
		t := &models.Ticket{}
		var uid sql.NullInt64
		if err := rows.Scan(&t.ID, &uid, &t.Subject, &t.Category, &t.Message, &t.Status, scanTime{&t.CreatedAt}); err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		if uid.Valid {
			id := int(uid.Int64)
			t.UserID = &id
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

// FeedbackRepository stores feedback messages
type FeedbackRepository struct {
	db *sql.DB
}

func NewFeedbackRepository(db *sql.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

// Create stores a feedback message
func (r *FeedbackRepository) Create(ctx context.Context, f *models.Feedback) (*models.Feedback, error) {
	created := &models.Feedback{}
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO feedback (user_name, email, message, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_name, email, message, created_at`,
		f.UserName, f.Email, f.Message, time.Now().UTC(),
	).Scan(&created.ID, &created.UserName, &created.Email, &created.Message, scanTime{&created.CreatedAt})
	if err != nil {
		return nil, fmt.Errorf("failed to create feedback: %w", err)
	}
	return created, nil
}
