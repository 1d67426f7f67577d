package models

import "time"

// Product represents a catalog item persisted in the products table.
// Soft deletes are modeled with the IsActive flag: inactive rows stay in the
// table for audit/history but are excluded from every repository read path.
// CreatedAt and UpdatedAt are stamped by the repository, so GORM's automatic
// timestamp tracking is disabled on both.
type Product struct {
	ID            int       `json:"id" gorm:"primaryKey;autoIncrement"`
	Name          string    `json:"name" gorm:"size:100;not null"`
	Description   string    `json:"description" gorm:"size:500"`
	Price         float64   `json:"price" gorm:"type:decimal(18,2);not null"`
	StockQuantity int       `json:"stockQuantity" gorm:"not null"`
	Category      string    `json:"category" gorm:"size:50;index"`
	Brand         string    `json:"brand" gorm:"size:50;index"`
	ImageURL      string    `json:"imageUrl" gorm:"size:200"`
	IsActive      bool      `json:"isActive" gorm:"not null;index"`
	CreatedAt     time.Time `json:"createdAt" gorm:"not null;autoCreateTime:false"`
	UpdatedAt     time.Time `json:"updatedAt" gorm:"not null;autoUpdateTime:false"`
}

// ProductDTO is the transfer representation the catalog service hands to the
// HTTP layer. It mirrors every persisted field of Product.
type ProductDTO struct {
	ID            int       `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Price         float64   `json:"price"`
	StockQuantity int       `json:"stockQuantity"`
	Category      string    `json:"category"`
	Brand         string    `json:"brand"`
	ImageURL      string    `json:"imageUrl"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// CreateProductInput carries the caller-settable fields for a new product.
// ID, CreatedAt and UpdatedAt are assigned by the store. IsActive defaults
// to true when the caller omits it.
type CreateProductInput struct {
	Name          string  `json:"name" validate:"required,max=100"`
	Description   string  `json:"description" validate:"max=500"`
	Price         float64 `json:"price" validate:"gte=0"`
	StockQuantity int     `json:"stockQuantity" validate:"gte=0"`
	Category      string  `json:"category" validate:"max=50"`
	Brand         string  `json:"brand" validate:"max=50"`
	ImageURL      string  `json:"imageUrl" validate:"max=200"`
	IsActive      *bool   `json:"isActive"`
}

// UpdateProductInput replaces every mutable field of an existing product.
// This is a full replace, not a merge: a field the caller omits is written
// as its zero value.
type UpdateProductInput struct {
	Name          string  `json:"name" validate:"required,max=100"`
	Description   string  `json:"description" validate:"max=500"`
	Price         float64 `json:"price" validate:"gte=0"`
	StockQuantity int     `json:"stockQuantity" validate:"gte=0"`
	Category      string  `json:"category" validate:"max=50"`
	Brand         string  `json:"brand" validate:"max=50"`
	ImageURL      string  `json:"imageUrl" validate:"max=200"`
	IsActive      bool    `json:"isActive"`
}
