// Package migrations prepares a fresh database: schema, the bootstrap admin and
// optional demo data.
package migrations

import (
	"context"
	"fmt"
	"log/slog"

	"canteen_manager/internal/database"
	"canteen_manager/internal/models"
	"canteen_manager/internal/repository"
	"canteen_manager/internal/services"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SeedOptions struct {
	AdminEmail    string
	AdminPassword string
	DemoCanteen   bool
}

// RunMigrations migrates the schema and seeds default data.
func RunMigrations(ctx context.Context, db *gorm.DB, users services.UserService, opts SeedOptions) error {
	slog.Info("running database migrations")
	if err := database.AutoMigrate(db); err != nil {
		return err
	}
	return Seed(ctx, repository.NewStore(db), users, opts)
}

// Seed creates the admin account and, when asked, a demo canteen. Existing rows
// are left alone so it is safe to run on every start.
func Seed(ctx context.Context, store repository.Store, users services.UserService, opts SeedOptions) error {
	if err := SeedAdmin(ctx, users, opts.AdminEmail, opts.AdminPassword); err != nil {
		return err
	}
	if opts.DemoCanteen {
		if err := SeedDemoCanteen(ctx, store); err != nil {
			return err
		}
	}
	return nil
}

func SeedAdmin(ctx context.Context, users services.UserService, email, password string) error {
	if password == "" {
		slog.Warn("ADMIN_PASSWORD not set, skipping admin seed", "email", email)
		return nil
	}
	admin, created, err := users.EnsureAdmin(ctx, email, password)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if !created {
		slog.Info("admin account already exists", "user_id", admin.ID)
	}
	return nil
}

// SeedDemoCanteen adds one canteen with a small menu when no canteen exists yet.
func SeedDemoCanteen(ctx context.Context, store repository.Store) error {
	existing, err := store.Canteens().List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		slog.Info("canteens already present, skipping demo data", "count", len(existing))
		return nil
	}

	return store.WithinTx(ctx, func(tx repository.Store) error {
		canteen := &models.Canteen{
			Name:         "Main Canteen",
			Location:     "Ground floor, Block A",
			Description:  "Demo canteen",
			OpeningHours: "08:00-20:00",
		}
		if err := tx.Canteens().Create(ctx, canteen); err != nil {
			return fmt.Errorf("seed canteen: %w", err)
		}

		menu := []models.MenuItem{
			{Name: "Veg Thali", Price: decimal.RequireFromString("120.00"), Category: models.CategoryVeg},
			{Name: "Chicken Biryani", Price: decimal.RequireFromString("180.00"), Category: models.CategoryNonVeg},
			{Name: "Samosa", Price: decimal.RequireFromString("20.00"), Category: models.CategorySnacks},
			{Name: "Masala Chai", Price: decimal.RequireFromString("15.00"), Category: models.CategoryBeverages},
		}
		for i := range menu {
			menu[i].CanteenID = canteen.ID
			menu[i].IsAvailable = true
			if err := tx.MenuItems().Create(ctx, &menu[i]); err != nil {
				return fmt.Errorf("seed menu item %s: %w", menu[i].Name, err)
			}
		}
		slog.Info("demo canteen created", "canteen_id", canteen.ID, "menu_items", len(menu))
		return nil
	})
}
