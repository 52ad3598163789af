package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/wangari/restaurant-api/config"
	"github.com/wangari/restaurant-api/models"
	"github.com/wangari/restaurant-api/tests/testutil"
)

// TestHealthCheck is a unit test for the healthCheck handler function
func TestHealthCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	healthCheck(c)

	assert.Equal(t, http.StatusOK, w.Code, "Expected status code 200")

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err, "Response should be valid JSON")

	assert.Equal(t, true, response["success"], "Expected success to be true")
	assert.Equal(t, "Wangari Restaurant API is running", response["message"], "Expected correct message")
}

// testRouterConfig returns a config suitable for exercising setupRouter
// without real Auth0 or database credentials
func testRouterConfig() *config.Config {
	return &config.Config{
		GoEnv:          "test",
		Auth0Domain:    "test.auth0.com",
		Auth0Audience:  "https://api.test.com",
		AllowedOrigins: "*",
	}
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func setupRouterTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.LoyaltyAward{},
		&models.ActivityLog{},
	))
	config.SetDB(db)
	return db
}

// TestSetupRouter_HealthEndpoint tests /api/v1/health with full routing
func TestSetupRouter_HealthEndpoint(t *testing.T) {
	testutil.MustSetTestEnvironment(t)
	gin.SetMode(gin.TestMode)

	router := setupRouter(testRouterConfig())

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, true, response["success"])
}

// TestSetupRouter_APIV1Prefix tests that endpoints require the /api/v1 prefix
func TestSetupRouter_APIV1Prefix(t *testing.T) {
	testutil.MustSetTestEnvironment(t)
	gin.SetMode(gin.TestMode)

	router := setupRouter(testRouterConfig())

	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code, "Endpoint should require /api/v1 prefix")

	req, _ = http.NewRequest(http.MethodGet, "/api/v1/health", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

// TestSetupRouter_PublicCatalog tests that the public product listing is
// reachable without a token
func TestSetupRouter_PublicCatalog(t *testing.T) {
	testutil.MustSetTestEnvironment(t)
	gin.SetMode(gin.TestMode)

	db := setupRouterTestDB(t)
	category := models.Category{Name: "Mains", IsActive: true}
	require.NoError(t, db.Create(&category).Error)

	router := setupRouter(testRouterConfig())

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/products", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, true, response["success"])
	assert.Contains(t, response, "pagination")
}

// TestSetupRouter_GuestCheckout tests that POST /orders accepts anonymous
// requests through the optional-token chain
func TestSetupRouter_GuestCheckout(t *testing.T) {
	testutil.MustSetTestEnvironment(t)
	gin.SetMode(gin.TestMode)

	db := setupRouterTestDB(t)
	category := models.Category{Name: "Mains", IsActive: true}
	require.NoError(t, db.Create(&category).Error)
	product := models.Product{
		Name:          "Burger",
		Price:         mustDecimal(t, "10.00"),
		PricingType:   models.PricingFixed,
		ProductType:   models.ProductFood,
		StockQuantity: mustDecimal(t, "20"),
		CategoryID:    category.ID,
		IsActive:      true,
		Show:          true,
	}
	require.NoError(t, db.Create(&product).Error)

	router := setupRouter(testRouterConfig())

	body, _ := json.Marshal(map[string]interface{}{
		"customer_name": "Walk In Guest",
		"items": []map[string]interface{}{
			{"product_id": product.ID, "quantity": 1},
		},
	})
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/orders", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.Order{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

// TestSetupRouter_ProtectedRoutesRejectAnonymous tests that the JWT
// middleware guards the authenticated and admin groups
func TestSetupRouter_ProtectedRoutesRejectAnonymous(t *testing.T) {
	testutil.MustSetTestEnvironment(t)
	gin.SetMode(gin.TestMode)

	setupRouterTestDB(t)
	router := setupRouter(testRouterConfig())

	for _, path := range []string{
		"/api/v1/users/me",
		"/api/v1/cart",
		"/api/v1/loyalty/summary",
		"/api/v1/admin/orders",
		"/api/v1/admin/activity",
	} {
		req, _ := http.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "path %s should require a token", path)
	}
}

// TestSetupRouter_CORSHeaders tests that CORS is configured on the router
func TestSetupRouter_CORSHeaders(t *testing.T) {
	testutil.MustSetTestEnvironment(t)
	gin.SetMode(gin.TestMode)

	router := setupRouter(testRouterConfig())

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.Header.Set("Origin", "https://wangari.restaurant")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
