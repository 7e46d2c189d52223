package main

import (
	"context"
	"fmt"
	"log"

	"campus-canteen/internal/config"
	"campus-canteen/internal/database"
	"campus-canteen/internal/models"
	"campus-canteen/internal/repositories"
	"campus-canteen/internal/utils"
)

type seedUser struct {
	Name     string
	Email    string
	Password string
	IsAdmin  bool
	Wallet   float64
}

var seedUsers = []seedUser{
	{Name: "Admin", Email: "admin@example.com", Password: "admin123", IsAdmin: true},
	{Name: "Pooja", Email: "pooja@example.com", Password: "user123", Wallet: 100},
}

var seedProducts = []models.ProductCreateRequest{
	{Name: "Samosa", Description: "Crispy potato samosa", Price: 20},
	{Name: "Fried Rice", Description: "Veg fried rice", Price: 60},
	{Name: "Tea", Description: "Masala chai", Price: 10},
}

// seed creates the demo accounts and menu. Existing users are left alone and
// products are only added to an empty catalog, so running it twice is harmless.
func seed(ctx context.Context, users *repositories.UserRepository, products *repositories.ProductRepository, hash *utils.PasswordHashConfig) error {
	for _, u := range seedUsers {
		if _, err := users.GetByEmail(ctx, u.Email); err == nil {
			fmt.Printf("User %s already exists\n", u.Email)
			continue
		} else if !models.IsNotFound(err) {
			return err
		}

		passwordHash, err := utils.HashPasswordWith(hash, u.Password)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		created, err := users.Create(ctx, &models.UserCreateRequest{
			Name:     u.Name,
			Email:    u.Email,
			Password: passwordHash,
			Wallet:   u.Wallet,
		})
		if err != nil {
			return err
		}
		if u.IsAdmin {
			if err := users.SetAdmin(ctx, created.ID, true); err != nil {
				return err
			}
		}
		fmt.Printf("Created user %s (id %d)\n", created.Email, created.ID)
	}

	count, err := products.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		fmt.Printf("Catalog already has %d products\n", count)
		return nil
	}
	for i := range seedProducts {
		product, err := products.Create(ctx, &seedProducts[i])
		if err != nil {
			return err
		}
		fmt.Printf("Created product %s (Rs.%.2f)\n", product.Name, product.Price)
	}
	return nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	db, err := database.NewConnection(database.ConfigFrom(cfg.Database))
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	err = seed(context.Background(),
		repositories.NewUserRepository(db.DB),
		repositories.NewProductRepository(db.DB),
		utils.DefaultPasswordHashConfig(),
	)
	if err != nil {
		log.Fatal("Seeding failed:", err)
	}
	fmt.Println("Seeding complete.")
}
