package services

import (
	"context"

	"campus-canteen/internal/models"
)

// UserRepository interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, req *models.UserCreateRequest) (*models.User, error)
	GetByID(ctx context.Context, id int) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	Credit(ctx context.Context, id int, amount float64) (*models.User, error)
}

// ProductRepository interface for catalog data operations
type ProductRepository interface {
	Create(ctx context.Context, req *models.ProductCreateRequest) (*models.Product, error)
	GetByID(ctx context.Context, id int) (*models.Product, error)
	GetByIDs(ctx context.Context, ids []int) (map[int]*models.Product, error)
	ListAvailable(ctx context.Context) ([]*models.Product, error)
	ListAll(ctx context.Context) ([]*models.Product, error)
	ToggleAvailability(ctx context.Context, id int) (*models.Product, error)
	Delete(ctx context.Context, id int) error
}

// OrderRepository interface for the order ledger
type OrderRepository interface {
	PlaceWalletOrder(ctx context.Context, req *models.OrderCreateRequest) (*models.Order, error)
	Create(ctx context.Context, req *models.OrderCreateRequest) (*models.Order, error)
	ListByUser(ctx context.Context, userID int) ([]*models.Order, error)
	ListAll(ctx context.Context) ([]*models.Order, error)
}

type TicketRepository interface {
	Create(ctx context.Context, t *models.Ticket) (*models.Ticket, error)
	ListByUser(ctx context.Context, userID int) ([]*models.Ticket, error)
}

type FeedbackRepository interface {
	Create(ctx context.Context, f *models.Feedback) (*models.Feedback, error)
}
