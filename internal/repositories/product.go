package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"campus-canteen/internal/models"
)

// ProductRepository handles catalog data operations
type ProductRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

const productColumns = `id, name, description, price, image, available, created_at`

func scanProduct(row interface{ Scan(...any) error }) (*models.Product, error) {
	p := &models.Product{}
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Image, &p.Available, scanTime{&p.CreatedAt}); err != nil {
		return nil, err
	}
	return p, nil
}

// Create adds a new, available product
func (r *ProductRepository) Create(ctx context.Context, req *models.ProductCreateRequest) (*models.Product, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO products (name, description, price, image, available, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + productColumns

	product, err := scanProduct(r.db.QueryRowContext(ctx, query,
		strings.TrimSpace(req.Name),
		req.Description,
		req.Price,
		req.Image,
		true,
		time.Now().UTC(),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return product, nil
}

// GetByID retrieves a product by ID
func (r *ProductRepository) GetByID(ctx context.Context, id int) (*models.Product, error) {
	product, err := scanProduct(r.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return product, nil
}

// GetByIDs returns the products that still exist, keyed by id.
func (r *ProductRepository) GetByIDs(ctx context.Context, ids []int) (map[int]*models.Product, error) {
	result := make(map[int]*models.Product, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE id IN (` + strings.Join(placeholders, ", ") + `)`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get products: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		result[product.ID] = product
	}
	return result, rows.Err()
}

// ListAvailable returns the menu: available products ordered by id
func (r *ProductRepository) ListAvailable(ctx context.Context) ([]*models.Product, error) {
	return r.list(ctx, `SELECT `+productColumns+` FROM products WHERE available = TRUE ORDER BY id`)
}

// ListAll returns every product ordered by id
func (r *ProductRepository) ListAll(ctx context.Context) ([]*models.Product, error) {
	return r.list(ctx, `SELECT `+productColumns+` FROM products ORDER BY id`)
}

func (r *ProductRepository) list(ctx context.Context, query string) ([]*models.Product, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*models.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

// ToggleAvailability flips the available flag and returns the product.
func (r *ProductRepository) ToggleAvailability(ctx context.Context, id int) (*models.Product, error) {
	query := `UPDATE products SET available = NOT available WHERE id = $1 RETURNING ` + productColumns

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to toggle product: %w", err)
	}
	return product, nil
}

// Delete removes the product. Order items keep their name and price snapshot.
func (r *ProductRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return models.ErrProductNotFound
	}
	return nil
}

// Count returns the number of products.
func (r *ProductRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return n, nil
}
