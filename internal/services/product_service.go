package services

import (
	"encoding/json"
	"log"
	"strings"

	"catalog/internal/models"
	"catalog/internal/repositories"
	"catalog/pkg/rabbitmq"
)

// ProductService handles business logic related to the product catalog.
// It is the only component aware of transfer-object shapes: repository
// entities are mapped to DTOs at this boundary, and the derived read filters
// (search, price range, low stock) are computed here over the full active
// set rather than pushed to the store.
type ProductService struct {
	repo     repositories.ProductRepository
	mqClient *rabbitmq.Client // optional; nil disables event publication
}

// NewProductService creates a new ProductService. mqClient may be nil.
func NewProductService(repo repositories.ProductRepository, mqClient *rabbitmq.Client) *ProductService {
	return &ProductService{
		repo:     repo,
		mqClient: mqClient,
	}
}

// GetAllProducts retrieves all active products, ordered by name.
func (s *ProductService) GetAllProducts() ([]models.ProductDTO, error) {
	products, err := s.repo.GetAll()
	if err != nil {
		return nil, err
	}
	return mapToDTOs(products), nil
}

// GetProductByID retrieves a single product by its ID. A missing or
// soft-deleted product yields (nil, nil).
func (s *ProductService) GetProductByID(id int) (*models.ProductDTO, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	dto := mapToDTO(*product)
	return &dto, nil
}

// GetProductsByCategory retrieves active products in the given category,
// matched case-insensitively.
func (s *ProductService) GetProductsByCategory(category string) ([]models.ProductDTO, error) {
	products, err := s.repo.GetByCategory(category)
	if err != nil {
		return nil, err
	}
	return mapToDTOs(products), nil
}

// GetProductsByBrand retrieves active products of the given brand, matched
// case-insensitively.
func (s *ProductService) GetProductsByBrand(brand string) ([]models.ProductDTO, error) {
	products, err := s.repo.GetByBrand(brand)
	if err != nil {
		return nil, err
	}
	return mapToDTOs(products), nil
}

// CreateProduct maps the input to a new entity and persists it. The store
// assigns ID and timestamps. IsActive defaults to true when omitted.
func (s *ProductService) CreateProduct(input models.CreateProductInput) (*models.ProductDTO, error) {
	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	product := models.Product{
		Name:          input.Name,
		Description:   input.Description,
		Price:         input.Price,
		StockQuantity: input.StockQuantity,
		Category:      input.Category,
		Brand:         input.Brand,
		ImageURL:      input.ImageURL,
		IsActive:      isActive,
	}

	if err := s.repo.Create(&product); err != nil {
		return nil, err
	}

	dto := mapToDTO(product)
	s.publishEvent("product.created", dto)
	return &dto, nil
}

// UpdateProduct loads the existing product and overwrites every mutable
// field from the input. This is a full replace, not a merge. A missing
// product yields (nil, nil) and no mutation is attempted.
func (s *ProductService) UpdateProduct(id int, input models.UpdateProductInput) (*models.ProductDTO, error) {
	existing, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}

	existing.Name = input.Name
	existing.Description = input.Description
	existing.Price = input.Price
	existing.StockQuantity = input.StockQuantity
	existing.Category = input.Category
	existing.Brand = input.Brand
	existing.ImageURL = input.ImageURL
	existing.IsActive = input.IsActive

	if err := s.repo.Update(existing); err != nil {
		return nil, err
	}

	dto := mapToDTO(*existing)
	s.publishEvent("product.updated", dto)
	return &dto, nil
}

// DeleteProduct soft-deletes the product with the given ID and reports
// whether a row was found.
func (s *ProductService) DeleteProduct(id int) (bool, error) {
	found, err := s.repo.Delete(id)
	if err != nil {
		return false, err
	}
	if found {
		s.publishEvent("product.deleted", map[string]interface{}{"id": id})
	}
	return found, nil
}

// SearchProducts returns active products whose name or description contains
// the term, ignoring case. A blank term is a caller error.
func (s *ProductService) SearchProducts(term string) ([]models.ProductDTO, error) {
	if strings.TrimSpace(term) == "" {
		return nil, &ValidationError{Message: "search term cannot be empty"}
	}

	all, err := s.GetAllProducts()
	if err != nil {
		return nil, err
	}

	lowered := strings.ToLower(term)
	matched := make([]models.ProductDTO, 0)
	for _, p := range all {
		if strings.Contains(strings.ToLower(p.Name), lowered) ||
			strings.Contains(strings.ToLower(p.Description), lowered) {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

// GetProductsByPriceRange returns active products whose price falls within
// the inclusive [min, max] bounds. Either bound may be nil. Negative bounds
// and min > max are caller errors.
func (s *ProductService) GetProductsByPriceRange(min, max *float64) ([]models.ProductDTO, error) {
	if min != nil && *min < 0 {
		return nil, &ValidationError{Message: "minimum price cannot be negative"}
	}
	if max != nil && *max < 0 {
		return nil, &ValidationError{Message: "maximum price cannot be negative"}
	}
	if min != nil && max != nil && *min > *max {
		return nil, &ValidationError{Message: "minimum price cannot be greater than maximum price"}
	}

	all, err := s.GetAllProducts()
	if err != nil {
		return nil, err
	}

	matched := make([]models.ProductDTO, 0)
	for _, p := range all {
		if min != nil && p.Price < *min {
			continue
		}
		if max != nil && p.Price > *max {
			continue
		}
		matched = append(matched, p)
	}
	return matched, nil
}

// GetLowStockProducts returns active products with a stock quantity at or
// below the threshold. A negative threshold is a caller error.
func (s *ProductService) GetLowStockProducts(threshold int) ([]models.ProductDTO, error) {
	if threshold < 0 {
		return nil, &ValidationError{Message: "threshold cannot be negative"}
	}

	all, err := s.GetAllProducts()
	if err != nil {
		return nil, err
	}

	matched := make([]models.ProductDTO, 0)
	for _, p := range all {
		if p.StockQuantity <= threshold {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

// publishEvent sends a catalog change event to RabbitMQ. Publication is
// best-effort: failures are logged, never surfaced to the caller.
func (s *ProductService) publishEvent(eventType string, payload interface{}) {
	if s.mqClient == nil {
		log.Println("RabbitMQ client is not initialized. Skipping message publication.")
		return
	}

	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", eventType, err)
		return
	}
	if err := s.mqClient.Publish(eventType, body); err != nil {
		log.Printf("Warning: Failed to publish %s event: %v", eventType, err)
	}
}

func mapToDTO(product models.Product) models.ProductDTO {
	return models.ProductDTO{
		ID:            product.ID,
		Name:          product.Name,
		Description:   product.Description,
		Price:         product.Price,
		StockQuantity: product.StockQuantity,
		Category:      product.Category,
		Brand:         product.Brand,
		ImageURL:      product.ImageURL,
		IsActive:      product.IsActive,
		CreatedAt:     product.CreatedAt,
		UpdatedAt:     product.UpdatedAt,
	}
}

func mapToDTOs(products []models.Product) []models.ProductDTO {
	dtos := make([]models.ProductDTO, 0, len(products))
	for _, p := range products {
		dtos = append(dtos, mapToDTO(p))
	}
	return dtos
}
