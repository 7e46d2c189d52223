package models

import "time"

type TicketStatus string

const (
	TicketOpen   TicketStatus = "open"
	TicketClosed TicketStatus = "closed"
)

// Ticket is a support request filed by a user
type Ticket struct {
	ID        int          `json:"id" db:"id"`
	UserID    *int         `json:"user_id,omitempty" db:"user_id"`
	Subject   string       `json:"subject" db:"subject"`
	Category  string       `json:"category" db:"category"`
	Message   string       `json:"message" db:"message"`
	Status    TicketStatus `json:"status" db:"status"`
	CreatedAt time.Time    `json:"created_at" db:"created_at"`
}

// Feedback is an anonymous or signed comment
type Feedback struct {
	ID        int       `json:"id" db:"id"`
	UserName  string    `json:"user_name" db:"user_name"`
	Email     string    `json:"email" db:"email"`
	Message   string    `json:"message" db:"message"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// TicketCategories are offered on the ticket form.
var TicketCategories = []string{"Order", "Payment", "Wallet", "Food Quality", "Other"}
