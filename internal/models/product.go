package models

import (
	"strings"
	"time"
)

// Product is a menu item
type Product struct {
	ID          int       `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Price       float64   `json:"price" db:"price"`
	Image       string    `json:"image,omitempty" db:"image"`
	Available   bool      `json:"available" db:"available"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// ProductCreateRequest carries an admin's new product. Price is already parsed.
type ProductCreateRequest struct {
	Name        string
	Description string
	Price       float64
	Image       string
}

func (req *ProductCreateRequest) Validate() error {
	if strings.TrimSpace(req.Name) == "" {
		return NewValidationError("name", "product name is required")
	}
	if req.Price < 0 {
		return NewValidationError("price", "price cannot be negative")
	}
	return nil
}
