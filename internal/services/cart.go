package services

import (
	"context"
	"fmt"

	"campus-canteen/internal/models"
)

// CartService resolves session carts against the live catalog
type CartService struct {
	products ProductRepository
}

func NewCartService(products ProductRepository) *CartService {
	return &CartService{products: products}
}

// Add puts one unit of productID in the cart. Missing or unavailable
// products leave the cart untouched.
func (s *CartService) Add(ctx context.Context, cart *models.Cart, productID int) (*models.Product, error) {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.Available {
		return product, fmt.Errorf("%s: %w", product.Name, models.ErrProductUnavailable)
	}

	cart.Add(product.ID, 1)
	return product, nil
}

// Remove drops the product from the cart whatever its quantity.
func (s *CartService) Remove(cart *models.Cart, productID int) {
	cart.Remove(productID)
}

// View prices the cart. Products deleted since they were added are skipped.
func (s *CartService) View(ctx context.Context, cart *models.Cart) (*models.CartView, error) {
	if cart.IsEmpty() {
		return &models.CartView{Lines: []models.CartLine{}}, nil
	}

	catalog, err := s.products.GetByIDs(ctx, cart.ProductIDs())
	if err != nil {
		return nil, fmt.Errorf("failed to resolve cart: %w", err)
	}
	return cart.Resolve(catalog), nil
}
