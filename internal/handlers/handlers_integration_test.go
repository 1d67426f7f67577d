package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"catalog/internal/database"
	"catalog/internal/handlers"
	"catalog/internal/models"
	"catalog/internal/repositories"
	"catalog/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// envelope mirrors the JSON response shape of the product handlers.
type envelope struct {
	Success bool              `json:"success"`
	Data    json.RawMessage   `json:"data"`
	Count   int               `json:"count"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

// setupApp builds a Fiber app over a fresh in-memory SQLite database seeded
// with the three baseline products. Events are disabled (nil MQ client).
func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	if err := database.Seed(db); err != nil {
		t.Fatalf("failed to seed test database: %v", err)
	}

	productRepo := repositories.NewGORMProductRepository(db)
	productService := services.NewProductService(productRepo, nil)
	productHandler := handlers.NewProductHandler(productService)

	app := fiber.New()
	apiV1 := app.Group("/api/v1")
	productHandler.RegisterRoutes(apiV1)
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":    "healthy",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"service":   "catalog",
			"version":   "1.0.0",
		})
	})
	return app
}

func doRequest(t *testing.T, app *fiber.App, method, path string, body interface{}) (*http.Response, envelope) {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(payload)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, 5000)
	if err != nil {
		t.Fatalf("request %s %s failed: %v", method, path, err)
	}

	var env envelope
	if decodeErr := json.NewDecoder(resp.Body).Decode(&env); decodeErr != nil {
		// Some endpoints (health) use a different shape; callers that care
		// decode the body themselves.
		env = envelope{}
	}
	resp.Body.Close()
	return resp, env
}

func decodeProducts(t *testing.T, data json.RawMessage) []models.ProductDTO {
	t.Helper()
	var products []models.ProductDTO
	if err := json.Unmarshal(data, &products); err != nil {
		t.Fatalf("failed to decode products: %v", err)
	}
	return products
}

func decodeProduct(t *testing.T, data json.RawMessage) models.ProductDTO {
	t.Helper()
	var product models.ProductDTO
	if err := json.Unmarshal(data, &product); err != nil {
		t.Fatalf("failed to decode product: %v", err)
	}
	return product
}

func TestHealthEndpoint(t *testing.T) {
	app := setupApp(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, err := app.Test(req, 5000)
	assert.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var health map[string]string
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, "healthy", health["status"])
	assert.Equal(t, "catalog", health["service"])
}

func TestGetAllProducts(t *testing.T) {
	app := setupApp(t)

	resp, env := doRequest(t, app, http.MethodGet, "/api/v1/products", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, env.Success)
	assert.Equal(t, 3, env.Count)
	assert.Len(t, decodeProducts(t, env.Data), 3)
}

func TestGetProductByID(t *testing.T) {
	app := setupApp(t)

	resp, env := doRequest(t, app, http.MethodGet, "/api/v1/products/1", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	product := decodeProduct(t, env.Data)
	assert.Equal(t, 1, product.ID)
	assert.Equal(t, "iPhone 15 Pro", product.Name)

	resp, env = doRequest(t, app, http.MethodGet, "/api/v1/products/999", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.False(t, env.Success)

	resp, _ = doRequest(t, app, http.MethodGet, "/api/v1/products/0", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doRequest(t, app, http.MethodGet, "/api/v1/products/abc", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetProductsByCategoryCaseInsensitive(t *testing.T) {
	app := setupApp(t)

	resp, lower := doRequest(t, app, http.MethodGet, "/api/v1/products/category/electronics", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 2, lower.Count)

	resp, upper := doRequest(t, app, http.MethodGet, "/api/v1/products/category/ELECTRONICS", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 2, upper.Count)
	assert.Equal(t, decodeProducts(t, lower.Data), decodeProducts(t, upper.Data))
}

func TestGetProductsByBrand(t *testing.T) {
	app := setupApp(t)

	resp, env := doRequest(t, app, http.MethodGet, "/api/v1/products/brand/apple", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 2, env.Count)
}

func TestCreateProduct(t *testing.T) {
	app := setupApp(t)

	input := models.CreateProductInput{
		Name:          "AirPods Pro",
		Description:   "Wireless earbuds",
		Price:         249.99,
		StockQuantity: 100,
		Category:      "Electronics",
		Brand:         "Apple",
		ImageURL:      "https://example.com/airpods.jpg",
	}

	resp, env := doRequest(t, app, http.MethodPost, "/api/v1/products", input)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.True(t, env.Success)
	created := decodeProduct(t, env.Data)
	assert.NotZero(t, created.ID)
	assert.True(t, created.IsActive, "IsActive defaults to true")
	assert.False(t, created.CreatedAt.IsZero())

	// The created product is immediately readable.
	resp, env = doRequest(t, app, http.MethodGet, fmt.Sprintf("/api/v1/products/%d", created.ID), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "AirPods Pro", decodeProduct(t, env.Data).Name)
}

func TestCreateProductValidation(t *testing.T) {
	app := setupApp(t)

	// Missing name and negative price.
	input := map[string]interface{}{"price": -5.0, "stockQuantity": 3}
	resp, env := doRequest(t, app, http.MethodPost, "/api/v1/products", input)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.False(t, env.Success)
	assert.Contains(t, env.Errors, "Name")
	assert.Contains(t, env.Errors, "Price")
}

func TestUpdateProduct(t *testing.T) {
	app := setupApp(t)

	input := models.UpdateProductInput{
		Name:          "iPhone 15 Pro Max",
		Description:   "Bigger screen",
		Price:         1199.99,
		StockQuantity: 40,
		Category:      "Electronics",
		Brand:         "Apple",
		ImageURL:      "https://example.com/iphone15promax.jpg",
		IsActive:      true,
	}

	resp, env := doRequest(t, app, http.MethodPut, "/api/v1/products/1", input)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decodeProduct(t, env.Data)
	assert.Equal(t, "iPhone 15 Pro Max", updated.Name)
	assert.Equal(t, 1199.99, updated.Price)

	resp, _ = doRequest(t, app, http.MethodPut, "/api/v1/products/999", input)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteProduct(t *testing.T) {
	app := setupApp(t)

	resp, env := doRequest(t, app, http.MethodDelete, "/api/v1/products/2", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, env.Success)

	// Soft-deleted products disappear from reads.
	resp, _ = doRequest(t, app, http.MethodGet, "/api/v1/products/2", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, env = doRequest(t, app, http.MethodGet, "/api/v1/products", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 2, env.Count)

	resp, _ = doRequest(t, app, http.MethodDelete, "/api/v1/products/999", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSearchProducts(t *testing.T) {
	app := setupApp(t)

	resp, env := doRequest(t, app, http.MethodGet, "/api/v1/products/search/iphone", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, env.Count)

	// Description matches count too.
	resp, env = doRequest(t, app, http.MethodGet, "/api/v1/products/search/smartphone", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, env.Count)

	resp, _ = doRequest(t, app, http.MethodGet, "/api/v1/products/search/%20", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPriceRange(t *testing.T) {
	app := setupApp(t)

	// Seed prices: 999.99, 799.99, 2499.99.
	resp, env := doRequest(t, app, http.MethodGet, "/api/v1/products/price-range?min=800&max=1000", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	if assert.Equal(t, 1, env.Count) {
		assert.Equal(t, 999.99, decodeProducts(t, env.Data)[0].Price)
	}

	resp, env = doRequest(t, app, http.MethodGet, "/api/v1/products/price-range?min=800", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 2, env.Count)

	resp, env = doRequest(t, app, http.MethodGet, "/api/v1/products/price-range", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 3, env.Count)

	resp, _ = doRequest(t, app, http.MethodGet, "/api/v1/products/price-range?min=10&max=5", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp, _ = doRequest(t, app, http.MethodGet, "/api/v1/products/price-range?min=-1", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp, _ = doRequest(t, app, http.MethodGet, "/api/v1/products/price-range?min=abc", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLowStock(t *testing.T) {
	app := setupApp(t)

	// Seed stocks: 50, 30, 20.
	resp, env := doRequest(t, app, http.MethodGet, "/api/v1/products/low-stock?threshold=30", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 2, env.Count)

	resp, env = doRequest(t, app, http.MethodGet, "/api/v1/products/low-stock?threshold=0", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 0, env.Count)

	resp, _ = doRequest(t, app, http.MethodGet, "/api/v1/products/low-stock?threshold=-1", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp, _ = doRequest(t, app, http.MethodGet, "/api/v1/products/low-stock?threshold=abc", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
