package repositories

import (
	"catalog/internal/models"
)

// ProductRepository defines the interface for product data access.
// Lookup methods never return soft-deleted rows and report absence as a nil
// result, not as an error; errors are reserved for store failures.
type ProductRepository interface {
	GetAll() ([]models.Product, error)
	GetByID(id int) (*models.Product, error)
	GetByCategory(category string) ([]models.Product, error)
	GetByBrand(brand string) ([]models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id int) (bool, error)
	Exists(id int) (bool, error)
}
