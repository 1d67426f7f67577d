package handlers

import (
	"fmt"
	"log"
	"net/url"
	"strconv"
	"strings"

	"catalog/internal/models"
	"catalog/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for the product catalog.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
// The literal routes must come before "/:id" so they are not captured as IDs.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetAllProducts)
	productRoutes.Get("/price-range", h.HandleGetProductsByPriceRange)
	productRoutes.Get("/low-stock", h.HandleGetLowStockProducts)
	productRoutes.Get("/search/:term", h.HandleSearchProducts)
	productRoutes.Get("/category/:category", h.HandleGetProductsByCategory)
	productRoutes.Get("/brand/:brand", h.HandleGetProductsByBrand)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Put("/:id", h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
}

// HandleGetAllProducts retrieves all active products, ordered by name.
func (h *ProductHandler) HandleGetAllProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts()
	if err != nil {
		log.Printf("Error getting all products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Could not retrieve products",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    products,
		"count":   len(products),
	})
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	id, ok := parseProductID(c)
	if !ok {
		return invalidIDResponse(c)
	}

	product, err := h.service.GetProductByID(id)
	if err != nil {
		log.Printf("Error getting product by ID %d: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Could not retrieve product",
			"error":   err.Error(),
		})
	}
	if product == nil {
		return productNotFoundResponse(c, id)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    product,
	})
}

// HandleGetProductsByCategory retrieves active products in a category.
func (h *ProductHandler) HandleGetProductsByCategory(c *fiber.Ctx) error {
	category := pathParam(c, "category")
	if strings.TrimSpace(category) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Category cannot be empty",
		})
	}

	products, err := h.service.GetProductsByCategory(category)
	if err != nil {
		log.Printf("Error getting products by category %q: %v", category, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Could not retrieve products by category",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"success":  true,
		"data":     products,
		"count":    len(products),
		"category": category,
	})
}

// HandleGetProductsByBrand retrieves active products of a brand.
func (h *ProductHandler) HandleGetProductsByBrand(c *fiber.Ctx) error {
	brand := pathParam(c, "brand")
	if strings.TrimSpace(brand) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Brand cannot be empty",
		})
	}

	products, err := h.service.GetProductsByBrand(brand)
	if err != nil {
		log.Printf("Error getting products by brand %q: %v", brand, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Could not retrieve products by brand",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    products,
		"count":   len(products),
		"brand":   brand,
	})
}

// HandleCreateProduct creates a new product.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var input models.CreateProductInput
	if err := c.BodyParser(&input); err != nil {
		log.Printf("Error parsing create product request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if errs := h.validateInput(input); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Validation failed",
			"errors":  errs,
		})
	}

	product, err := h.service.CreateProduct(input)
	if err != nil {
		log.Printf("Error creating product: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Could not create product",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    product,
		"message": "Product created successfully",
	})
}

// HandleUpdateProduct replaces every mutable field of an existing product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id, ok := parseProductID(c)
	if !ok {
		return invalidIDResponse(c)
	}

	var input models.UpdateProductInput
	if err := c.BodyParser(&input); err != nil {
		log.Printf("Error parsing update product request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if errs := h.validateInput(input); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Validation failed",
			"errors":  errs,
		})
	}

	product, err := h.service.UpdateProduct(id, input)
	if err != nil {
		log.Printf("Error updating product %d: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Could not update product",
			"error":   err.Error(),
		})
	}
	if product == nil {
		return productNotFoundResponse(c, id)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    product,
		"message": "Product updated successfully",
	})
}

// HandleDeleteProduct soft-deletes a product.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id, ok := parseProductID(c)
	if !ok {
		return invalidIDResponse(c)
	}

	deleted, err := h.service.DeleteProduct(id)
	if err != nil {
		log.Printf("Error deleting product %d: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Could not delete product",
			"error":   err.Error(),
		})
	}
	if !deleted {
		return productNotFoundResponse(c, id)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Product deleted successfully",
	})
}

// HandleSearchProducts matches the term against name and description,
// ignoring case.
func (h *ProductHandler) HandleSearchProducts(c *fiber.Ctx) error {
	term := pathParam(c, "term")

	products, err := h.service.SearchProducts(term)
	if err != nil {
		if services.IsValidationError(err) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Search term cannot be empty",
			})
		}
		log.Printf("Error searching products for %q: %v", term, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Could not search products",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"success":    true,
		"data":       products,
		"count":      len(products),
		"searchTerm": term,
	})
}

// HandleGetProductsByPriceRange filters products by inclusive, optional
// min/max price bounds.
func (h *ProductHandler) HandleGetProductsByPriceRange(c *fiber.Ctx) error {
	min, ok := parseOptionalPrice(c, "min")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid minimum price",
		})
	}
	max, ok := parseOptionalPrice(c, "max")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid maximum price",
		})
	}

	products, err := h.service.GetProductsByPriceRange(min, max)
	if err != nil {
		if services.IsValidationError(err) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": err.Error(),
			})
		}
		log.Printf("Error filtering products by price: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Could not filter products by price",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"success":    true,
		"data":       products,
		"count":      len(products),
		"priceRange": fiber.Map{"min": min, "max": max},
	})
}

// HandleGetLowStockProducts lists products with stock at or below the
// threshold.
func (h *ProductHandler) HandleGetLowStockProducts(c *fiber.Ctx) error {
	threshold := 0
	if raw := c.Query("threshold"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Invalid threshold",
			})
		}
		threshold = parsed
	}

	products, err := h.service.GetLowStockProducts(threshold)
	if err != nil {
		if services.IsValidationError(err) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": err.Error(),
			})
		}
		log.Printf("Error retrieving low stock products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Could not retrieve low stock products",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"success":   true,
		"data":      products,
		"count":     len(products),
		"threshold": threshold,
	})
}

// validateInput runs struct validation and returns a field → message map,
// or nil when the input is valid.
func (h *ProductHandler) validateInput(input interface{}) map[string]string {
	if err := h.validate.Struct(input); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return errorMessages
	}
	return nil
}

// pathParam reads a path parameter, undoing percent-encoding. Fiber leaves
// params escaped unless UnescapePath is enabled app-wide.
func pathParam(c *fiber.Ctx, name string) string {
	raw := c.Params(name)
	if unescaped, err := url.PathUnescape(raw); err == nil {
		return unescaped
	}
	return raw
}

// parseProductID reads the :id path parameter. IDs must be positive
// integers.
func parseProductID(c *fiber.Ctx) (int, bool) {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// parseOptionalPrice reads an optional decimal query parameter. The second
// return value is false when the parameter is present but unparseable.
func parseOptionalPrice(c *fiber.Ctx, name string) (*float64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, false
	}
	return &value, true
}

func invalidIDResponse(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"message": "Product ID must be greater than 0",
	})
}

func productNotFoundResponse(c *fiber.Ctx, id int) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"success": false,
		"message": fmt.Sprintf("Product with ID %d not found", id),
	})
}
