package services

import (
	"context"
	"fmt"
	"math"
	"strings"

	"campus-canteen/internal/logger"
	"campus-canteen/internal/models"

	"github.com/shopspring/decimal"
)

// ProductForm is the admin "add product" form as submitted
type ProductForm struct {
	Name        string `form:"name" validate:"required,max=100"`
	Price       string `form:"price"`
	Description string `form:"description" validate:"max=1000"`
	Image       string `form:"image" validate:"max=255"`
}

// CatalogService serves the menu and the admin product screens
type CatalogService struct {
	products ProductRepository
}

func NewCatalogService(products ProductRepository) *CatalogService {
	return &CatalogService{products: products}
}

// ParseAmount reads a decimal form value. Blank, malformed or out of range
// input is 0.
func ParseAmount(raw string) float64 {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	f, _ := d.Float64()
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0
	}
	return f
}

// Menu lists the products customers can order, by id
func (s *CatalogService) Menu(ctx context.Context) ([]*models.Product, error) {
	return s.products.ListAvailable(ctx)
}

// AllProducts lists every product, available or not
func (s *CatalogService) AllProducts(ctx context.Context, p *models.Principal) ([]*models.Product, error) {
	if !models.CanAdminister(p) {
		return nil, models.ErrForbidden
	}
	return s.products.ListAll(ctx)
}

// CreateProduct adds an available product. The price is parsed permissively.
func (s *CatalogService) CreateProduct(ctx context.Context, p *models.Principal, form *ProductForm) (*models.Product, error) {
	if !models.CanAdminister(p) {
		return nil, models.ErrForbidden
	}

	form.Name = strings.TrimSpace(form.Name)
	if err := validateStruct(form); err != nil {
		return nil, err
	}

	req := &models.ProductCreateRequest{
		Name:        form.Name,
		Description: strings.TrimSpace(form.Description),
		Price:       ParseAmount(form.Price),
		Image:       strings.TrimSpace(form.Image),
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	product, err := s.products.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	logger.FromContext(ctx).Info("product created", "product_id", product.ID, "name", product.Name, "price", product.Price, "admin_id", p.UserID)
	return product, nil
}

// ToggleAvailability flips whether the product shows on the menu
func (s *CatalogService) ToggleAvailability(ctx context.Context, p *models.Principal, productID int) (*models.Product, error) {
	if !models.CanAdminister(p) {
		return nil, models.ErrForbidden
	}
	return s.products.ToggleAvailability(ctx, productID)
}

// DeleteProduct removes a product. Past orders keep their item snapshots.
func (s *CatalogService) DeleteProduct(ctx context.Context, p *models.Principal, productID int) error {
	if !models.CanAdminister(p) {
		return models.ErrForbidden
	}
	if err := s.products.Delete(ctx, productID); err != nil {
		return err
	}
	logger.FromContext(ctx).Info("product deleted", "product_id", productID, "admin_id", p.UserID)
	return nil
}
