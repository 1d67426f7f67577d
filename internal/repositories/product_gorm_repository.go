package repositories

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"catalog/internal/models"

	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
// It owns the active-only read convention and timestamp stamping; category
// and brand filters use an explicit case-fold (LOWER on both sides) rather
// than relying on database collation, so behavior is identical on SQLite
// and PostgreSQL.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// GetAll retrieves all active products ordered by name ascending.
func (r *GORMProductRepository) GetAll() ([]models.Product, error) {
	var products []models.Product
	err := r.db.
		Where("is_active = ?", true).
		Order("name asc").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a single active product by its ID. A missing or
// soft-deleted row yields (nil, nil).
func (r *GORMProductRepository) GetByID(id int) (*models.Product, error) {
	var product models.Product
	err := r.db.First(&product, "id = ? AND is_active = ?", id, true).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get product by ID %d: %w", id, err)
	}
	return &product, nil
}

// GetByCategory retrieves active products whose category matches the
// argument case-insensitively, ordered by name.
func (r *GORMProductRepository) GetByCategory(category string) ([]models.Product, error) {
	var products []models.Product
	err := r.db.
		Where("LOWER(category) = ? AND is_active = ?", strings.ToLower(category), true).
		Order("name asc").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get products by category %q: %w", category, err)
	}
	return products, nil
}

// GetByBrand retrieves active products whose brand matches the argument
// case-insensitively, ordered by name.
func (r *GORMProductRepository) GetByBrand(brand string) ([]models.Product, error) {
	var products []models.Product
	err := r.db.
		Where("LOWER(brand) = ? AND is_active = ?", strings.ToLower(brand), true).
		Order("name asc").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get products by brand %q: %w", brand, err)
	}
	return products, nil
}

// Create stamps both timestamps and inserts the product. The store-assigned
// ID is written back into the argument.
func (r *GORMProductRepository) Create(product *models.Product) error {
	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now

	if err := r.db.Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update refreshes UpdatedAt and persists a full replacement of the row
// identified by product.ID. Callers are expected to have confirmed the row
// exists; a zero RowsAffected is still surfaced as an error.
func (r *GORMProductRepository) Update(product *models.Product) error {
	product.UpdatedAt = time.Now().UTC()

	res := r.db.Save(product) // Save writes all fields, including zero values
	if res.Error != nil {
		return fmt.Errorf("failed to update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %d not found for update", product.ID)
	}
	return nil
}

// Delete soft-deletes the row with the given ID: the row is looked up
// regardless of its current active state, flagged inactive and re-stamped.
// The boolean reports whether a row existed; deleting an already-inactive
// row therefore still returns true.
func (r *GORMProductRepository) Delete(id int) (bool, error) {
	var product models.Product
	err := r.db.First(&product, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to load product %d for deletion: %w", id, err)
	}

	product.IsActive = false
	product.UpdatedAt = time.Now().UTC()

	if err := r.db.Save(&product).Error; err != nil {
		return false, fmt.Errorf("failed to soft-delete product %d: %w", id, err)
	}
	return true, nil
}

// Exists reports whether a row with the given ID exists and is active.
func (r *GORMProductRepository) Exists(id int) (bool, error) {
	var count int64
	err := r.db.Model(&models.Product{}).
		Where("id = ? AND is_active = ?", id, true).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check existence of product %d: %w", id, err)
	}
	return count > 0, nil
}
