package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"campus-canteen/internal/config"
	"campus-canteen/internal/database"
)

func main() {
	var (
		statusFlag = flag.Bool("status", false, "Show migration status")
		upFlag     = flag.Bool("up", false, "Run pending migrations")
		downFlag   = flag.Bool("down", false, "Roll back the most recent migration")
	)
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
	db, err := database.NewConnection(database.ConfigFrom(cfg.Database))
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	migrator := database.NewMigrator(db)

	switch {
	case *statusFlag:
		migrations, err := migrator.Status()
		if err != nil {
			log.Fatalf("Failed to get migration status: %v", err)
		}
		for _, m := range migrations {
			state := "pending"
			if m.Applied {
				state = "applied"
			}
			fmt.Printf("%06d  %-40s %s\n", m.Version, m.Name, state)
		}
	case *upFlag:
		if err := migrator.Up(); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		fmt.Println("All migrations completed successfully!")
	case *downFlag:
		if err := migrator.Down(); err != nil {
			log.Fatalf("Failed to roll back migration: %v", err)
		}
		fmt.Println("Rolled back the most recent migration.")
	default:
		fmt.Println("Usage:")
		fmt.Println("  go run ./cmd/migrate -status   # Show migration status")
		fmt.Println("  go run ./cmd/migrate -up       # Run pending migrations")
		fmt.Println("  go run ./cmd/migrate -down     # Roll back the most recent migration")
		os.Exit(1)
	}
}
