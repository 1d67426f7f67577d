package database

import (
	"fmt"
	"time"

	"catalog/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Connect opens a GORM connection for the configured driver. SQLite is the
// default and is used for development and tests; PostgreSQL is the
// production target.
func Connect(driver, dsn string) (*gorm.DB, error) {
	switch driver {
	case "postgres":
		db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		return db, nil
	case "sqlite", "":
		db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to sqlite: %w", err)
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %q", driver)
	}
}

// Migrate creates or updates the products table, including the non-unique
// indexes on category, brand and is_active.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Product{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// Seed inserts the three baseline catalog products used for demos and
// tests. It is idempotent: rows are matched on their fixed IDs and never
// overwritten, so re-running it against a provisioned store is a no-op.
func Seed(db *gorm.DB) error {
	now := time.Now().UTC()
	products := []models.Product{
		{
			ID:            1,
			Name:          "iPhone 15 Pro",
			Description:   "Latest iPhone with advanced features",
			Price:         999.99,
			StockQuantity: 50,
			Category:      "Electronics",
			Brand:         "Apple",
			ImageURL:      "https://example.com/iphone15pro.jpg",
			IsActive:      true,
			CreatedAt:     now,
			UpdatedAt:     now,
		},
		{
			ID:            2,
			Name:          "Samsung Galaxy S24",
			Description:   "Premium Android smartphone",
			Price:         799.99,
			StockQuantity: 30,
			Category:      "Electronics",
			Brand:         "Samsung",
			ImageURL:      "https://example.com/galaxys24.jpg",
			IsActive:      true,
			CreatedAt:     now,
			UpdatedAt:     now,
		},
		{
			ID:            3,
			Name:          "MacBook Pro 16\"",
			Description:   "Professional laptop for developers",
			Price:         2499.99,
			StockQuantity: 20,
			Category:      "Computers",
			Brand:         "Apple",
			ImageURL:      "https://example.com/macbookpro16.jpg",
			IsActive:      true,
			CreatedAt:     now,
			UpdatedAt:     now,
		},
	}

	for i := range products {
		err := db.Where("id = ?", products[i].ID).FirstOrCreate(&products[i]).Error
		if err != nil {
			return fmt.Errorf("failed to seed product %d: %w", products[i].ID, err)
		}
	}
	return nil
}
