package repositories

import (
	"sort"
	"strings"
	"sync"
	"time"

	"catalog/internal/models"
)

// MockProductRepository is an in-memory implementation of ProductRepository.
// It honors the same contract as the GORM repository: active-only reads,
// name ordering, case-insensitive category/brand filters and soft deletes.
type MockProductRepository struct {
	products map[int]models.Product
	nextID   int
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[int]models.Product),
		nextID:   1,
	}
}

// GetAll returns all active products ordered by name.
func (r *MockProductRepository) GetAll() ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collect(func(p models.Product) bool { return true }), nil
}

// GetByID returns the active product with the given ID, or nil.
func (r *MockProductRepository) GetByID(id int) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok || !product.IsActive {
		return nil, nil
	}
	return &product, nil
}

// GetByCategory returns active products matching the category, ignoring case.
func (r *MockProductRepository) GetByCategory(category string) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collect(func(p models.Product) bool {
		return strings.EqualFold(p.Category, category)
	}), nil
}

// GetByBrand returns active products matching the brand, ignoring case.
func (r *MockProductRepository) GetByBrand(brand string) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collect(func(p models.Product) bool {
		return strings.EqualFold(p.Brand, brand)
	}), nil
}

// Create assigns an ID if missing, stamps both timestamps and stores the
// product.
func (r *MockProductRepository) Create(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == 0 {
		product.ID = r.nextID
	}
	if product.ID >= r.nextID {
		r.nextID = product.ID + 1
	}

	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now

	r.products[product.ID] = *product
	return nil
}

// Update refreshes UpdatedAt and replaces the stored row. Missing rows are a
// no-op, matching the repository contract that the caller confirms existence.
func (r *MockProductRepository) Update(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[product.ID]; !ok {
		return nil
	}
	product.UpdatedAt = time.Now().UTC()
	r.products[product.ID] = *product
	return nil
}

// Delete flags the row inactive and re-stamps UpdatedAt. The boolean reports
// row existence, not a state change.
func (r *MockProductRepository) Delete(id int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return false, nil
	}
	product.IsActive = false
	product.UpdatedAt = time.Now().UTC()
	r.products[id] = product
	return true, nil
}

// Exists reports whether an active row with the given ID exists.
func (r *MockProductRepository) Exists(id int) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	return ok && product.IsActive, nil
}

// collect gathers the active products satisfying match, sorted by name.
// Callers must hold at least a read lock.
func (r *MockProductRepository) collect(match func(models.Product) bool) []models.Product {
	productList := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		if p.IsActive && match(p) {
			productList = append(productList, p)
		}
	}
	sort.Slice(productList, func(i, j int) bool {
		return productList[i].Name < productList[j].Name
	})
	return productList
}
