package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	"campus-canteen/internal/config"
	"campus-canteen/internal/database"
	"campus-canteen/internal/models"
	"campus-canteen/internal/repositories"
	"campus-canteen/internal/utils"
)

func main() {
	var (
		email    = flag.String("email", "", "Admin email (required)")
		name     = flag.String("name", "Admin", "Display name for a new account")
		password = flag.String("password", "", "Password for a new account")
	)
	flag.Parse()

	if *email == "" {
		log.Fatal("-email is required")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize database connection
	db, err := database.NewConnection(database.ConfigFrom(cfg.Database))
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	ctx := context.Background()
	userRepo := repositories.NewUserRepository(db.DB)
	normalized := strings.ToLower(strings.TrimSpace(*email))

	// Promote an existing account
	existing, err := userRepo.GetByEmail(ctx, normalized)
	if err == nil {
		if err := userRepo.SetAdmin(ctx, existing.ID, true); err != nil {
			log.Fatal("Failed to promote user:", err)
		}
		fmt.Printf("User %s (id %d) is now an admin\n", existing.Email, existing.ID)
		return
	}
	if !models.IsNotFound(err) {
		log.Fatal("Failed to look up user:", err)
	}

	if *password == "" {
		log.Fatal("-password is required to create a new admin")
	}

	passwordHash, err := utils.HashPassword(*password)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	user, err := userRepo.Create(ctx, &models.UserCreateRequest{
		Name:     *name,
		Email:    normalized,
		Password: passwordHash,
	})
	if err != nil {
		log.Fatal("Failed to create admin user:", err)
	}
	if err := userRepo.SetAdmin(ctx, user.ID, true); err != nil {
		log.Fatal("Failed to grant admin:", err)
	}

	fmt.Printf("Admin user created successfully!\n")
	fmt.Printf("Email: %s\n", user.Email)
	fmt.Printf("ID: %d\n", user.ID)
}
