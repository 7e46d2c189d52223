package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"campus-canteen/internal/models"
	"campus-canteen/internal/utils"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

// AuthService handles registration and login
type AuthService struct {
	users      UserRepository
	hashConfig *utils.PasswordHashConfig
}

// NewAuthService creates a new authentication service
func NewAuthService(users UserRepository) *AuthService {
	return &AuthService{
		users:      users,
		hashConfig: utils.DefaultPasswordHashConfig(),
	}
}

// SetHashConfig overrides the argon2id parameters used for new passwords.
func (s *AuthService) SetHashConfig(config *utils.PasswordHashConfig) {
	s.hashConfig = config
}

// RegisterRequest represents a registration form
type RegisterRequest struct {
	Name     string `form:"name" validate:"required,max=100"`
	Email    string `form:"email" validate:"required,email,max=255"`
	Password string `form:"password" validate:"required,min=6,max=128"`
}

// LoginRequest represents a login form
type LoginRequest struct {
	Email    string `form:"email" validate:"required"`
	Password string `form:"password" validate:"required"`
}

// Register creates a customer account with an empty wallet
func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*models.User, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("email %s: %w", req.Email, models.ErrDuplicateEntry)
	} else if !errors.Is(err, models.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := utils.HashPasswordWith(s.hashConfig, req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.users.Create(ctx, &models.UserCreateRequest{
		Name:     req.Name,
		Email:    req.Email,
		Password: hash,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Login returns the user whose credentials match, or ErrInvalidCredentials
func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*models.User, error) {
	if err := validateStruct(req); err != nil {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	valid, err := utils.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !valid {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// GetUser loads the user behind a session
func (s *AuthService) GetUser(ctx context.Context, id int) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}
