package models

import (
	"regexp"
	"strings"
	"time"
)

// User represents a canteen customer or administrator
type User struct {
	ID           int       `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	IsAdmin      bool      `json:"is_admin" db:"is_admin"`
	Wallet       float64   `json:"wallet" db:"wallet"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// UserCreateRequest represents the data needed to create a new user.
// Password holds the hash by the time it reaches the repository.
type UserCreateRequest struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	IsAdmin  bool    `json:"is_admin"`
	Wallet   float64 `json:"wallet"`
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Validate validates user creation data
func (req *UserCreateRequest) Validate() error {
	if strings.TrimSpace(req.Name) == "" {
		return NewValidationError("name", "name is required")
	}
	if !emailRegex.MatchString(req.Email) {
		return NewValidationError("email", "invalid email format")
	}
	if req.Password == "" {
		return NewValidationError("password", "password is required")
	}
	if req.Wallet < 0 {
		return NewValidationError("wallet", "wallet cannot be negative")
	}
	return nil
}

// CanAfford reports whether the wallet covers amount.
func (u *User) CanAfford(amount float64) bool {
	return u.Wallet >= amount
}

// Principal returns the authenticated identity for this user.
func (u *User) Principal() *Principal {
	return &Principal{
		UserID:  u.ID,
		Name:    u.Name,
		Email:   u.Email,
		IsAdmin: u.IsAdmin,
	}
}
