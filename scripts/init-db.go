package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"slices"
	"time"

	"canteen_manager/internal/auth"
	"canteen_manager/internal/config"
	"canteen_manager/internal/database"
	"canteen_manager/internal/migrations"
	"canteen_manager/internal/repository"
	"canteen_manager/internal/services"
	"canteen_manager/pkg/logging"
)

func main() {
	reset := flag.Bool("reset", false, "drop all tables before migrating")
	demo := flag.Bool("demo", false, "create a demo canteen with a small menu")
	flag.Parse()

	fmt.Println("Initializing database...")

	cfg := config.Load()
	logging.SetupWithLevel(logging.ParseLevel(cfg.LogLevel))

	db, err := database.Initialize(cfg.DatabaseURL, cfg.DBLogLevel)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer database.Close(db)

	if *reset {
		fmt.Println("Dropping existing tables...")
		tables := database.Models()
		slices.Reverse(tables)
		if err := db.Migrator().DropTable(tables...); err != nil {
			log.Fatal("Failed to drop tables:", err)
		}
	}

	ctx := context.Background()
	store := repository.NewStore(db)
	users := services.NewUserService(store, auth.NewMemorySessionStore(), auth.NewJWTManager(cfg.JWTSecret, time.Hour), nil)

	err = migrations.RunMigrations(ctx, db, users, migrations.SeedOptions{
		AdminEmail:    cfg.AdminEmail,
		AdminPassword: cfg.AdminPassword,
		DemoCanteen:   *demo,
	})
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}

	fmt.Println("Database initialization completed successfully!")
	if cfg.AdminPassword != "" {
		fmt.Println("Admin email:", cfg.AdminEmail)
	}
}
