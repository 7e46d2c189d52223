package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"campus-canteen/internal/database"
	"campus-canteen/internal/models"
)

// OrderRepository handles order and order item persistence
type OrderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// PlaceWalletOrder debits the user's wallet and records the order with its
// items in a single transaction. The debit only applies while the balance
// covers the total, so a concurrent spend fails with ErrInsufficientFunds.
func (r *OrderRepository) PlaceWalletOrder(ctx context.Context, req *models.OrderCreateRequest) (*models.Order, error) {
	req.PaymentMethod = models.PaymentWallet
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	total := req.Total()
	var order *models.Order

	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			`UPDATE users SET wallet = wallet - $1 WHERE id = $2 AND wallet >= $3`,
			total, req.UserID, total,
		)
		if err != nil {
			return fmt.Errorf("failed to debit wallet: %w", err)
		}

		if n, _ := result.RowsAffected(); n == 0 {
			var exists int
			err := tx.QueryRowContext(ctx, `SELECT 1 FROM users WHERE id = $1`, req.UserID).Scan(&exists)
			if errors.Is(err, sql.ErrNoRows) {
				return models.ErrUserNotFound
			}
			if err != nil {
				return fmt.Errorf("failed to check user: %w", err)
			}
			return models.ErrInsufficientFunds
		}

		order, err = insertOrder(ctx, tx, req, total)
		return err
	})
	if err != nil {
		return nil, err
	}

	return order, nil
}

// Create records an order settled outside the wallet, with its items, in one transaction.
func (r *OrderRepository) Create(ctx context.Context, req *models.OrderCreateRequest) (*models.Order, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var order *models.Order
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		var err error
		order, err = insertOrder(ctx, tx, req, req.Total())
		return err
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func insertOrder(ctx context.Context, tx *sql.Tx, req *models.OrderCreateRequest, total float64) (*models.Order, error) {
	status := req.Status
	if status == "" {
		status = models.OrderCreated
	}

	order := &models.Order{}
	err := tx.QueryRowContext(ctx, `
		INSERT INTO orders (user_id, total_amount, status, payment_method, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, total_amount, status, payment_method, created_at`,
		req.UserID, total, status, req.PaymentMethod, time.Now().UTC(),
	).Scan(
		&order.ID,
		&order.UserID,
		&order.TotalAmount,
		&order.Status,
		&order.PaymentMethod,
		scanTime{&order.CreatedAt},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	for _, item := range req.Items {
		productID := item.ProductID
		orderItem := models.OrderItem{}
		var pid sql.NullInt64
		err := tx.QueryRowContext(ctx, `
			INSERT INTO order_items (order_id, product_id, product_name, quantity, price)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, order_id, product_id, product_name, quantity, price`,
			order.ID, productID, item.ProductName, item.Quantity, item.Price,
		).Scan(
			&orderItem.ID,
			&orderItem.OrderID,
			&pid,
			&orderItem.ProductName,
			&orderItem.Quantity,
			&orderItem.Price,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create order item: %w", err)
		}
		if pid.Valid {
			id := int(pid.Int64)
			orderItem.ProductID = &id
		}
		order.Items = append(order.Items, orderItem)
	}

	return order, nil
}

// GetByID retrieves an order with its items
func (r *OrderRepository) GetByID(ctx context.Context, id int) (*models.Order, error) {
	order := &models.Order{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, total_amount, status, payment_method, created_at
		FROM orders WHERE id = $1`, id,
	).Scan(&order.ID, &order.UserID, &order.TotalAmount, &order.Status, &order.PaymentMethod, scanTime{&order.CreatedAt})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if err := r.attachItems(ctx, []*models.Order{order}); err != nil {
		return nil, err
	}
	return order, nil
}

// ListByUser returns the user's orders, newest first, with items
func (r *OrderRepository) ListByUser(ctx context.Context, userID int) ([]*models.Order, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, total_amount, status, payment_method, created_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := []*models.Order{}
	for rows.Next() {
		order := &models.Order{}
		if err := rows.Scan(&order.ID, &order.UserID, &order.TotalAmount, &order.Status, &order.PaymentMethod, scanTime{&order.CreatedAt}); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// ListAll returns every order, newest first, joined with the customer
func (r *OrderRepository) ListAll(ctx context.Context) ([]*models.Order, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT o.id, o.user_id, o.total_amount, o.status, o.payment_method, o.created_at,
		       u.name, u.email
		FROM orders o
		JOIN users u ON u.id = o.user_id
		ORDER BY o.created_at DESC, o.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := []*models.Order{}
	for rows.Next() {
		order := &models.Order{}
		if err := rows.Scan(
			&order.ID, &order.UserID, &order.TotalAmount, &order.Status, &order.PaymentMethod, scanTime{&order.CreatedAt},
			&order.CustomerName, &order.CustomerEmail,
		); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// attachItems loads the items for orders with one query.
func (r *OrderRepository) attachItems(ctx context.Context, orders []*models.Order) error {
	if len(orders) == 0 {
		return nil
	}

	byID := make(map[int]*models.Order, len(orders))
	placeholders := make([]string, len(orders))
	args := make([]any, len(orders))
	for i, o := range orders {
		byID[o.ID] = o
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = o.ID
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, product_id, product_name, quantity, price
		FROM order_items
		WHERE order_id IN (`+strings.Join(placeholders, ", ")+`)
		ORDER BY order_id, id`, args...)
	if err != nil {
		return fmt.Errorf("failed to load order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.OrderItem
		var pid sql.NullInt64
		if err := rows.Scan(&item.ID, &item.OrderID, &pid, &item.ProductName, &item.Quantity, &item.Price); err != nil {
			return fmt.Errorf("failed to scan order item: %w", err)
		}
		if pid.Valid {
			id := int(pid.Int64)
			item.ProductID = &id
		}
		if o, ok := byID[item.OrderID]; ok {
			o.Items = append(o.Items, item)
		}
	}
	return rows.Err()
}
