package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/wangari/restaurant-api/config"
	"github.com/wangari/restaurant-api/controllers"
	"github.com/wangari/restaurant-api/middleware"
	"github.com/wangari/restaurant-api/models"
	"github.com/wangari/restaurant-api/tests/testutil"
)

// OrderIntegrationTestSuite defines the test suite for order integration tests
type OrderIntegrationTestSuite struct {
	suite.Suite
	db *gorm.DB
}

// SetupSuite runs once before all tests
func (suite *OrderIntegrationTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	testutil.MustSetTestEnvironment(suite.T())
}

// SetupTest runs before each test
func (suite *OrderIntegrationTestSuite) SetupTest() {
	testutil.RequireTestEnvironment(suite.T())

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.NoError(err)
	suite.db = db

	err = db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.LoyaltyAward{},
		&models.ActivityLog{},
	)
	suite.NoError(err)

	config.SetDB(db)
}

// TearDownTest runs after each test
func (suite *OrderIntegrationTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	if err == nil {
		sqlDB.Close()
	}
}

// mockAuthMiddleware creates a middleware that simulates authentication
func (suite *OrderIntegrationTestSuite) mockAuthMiddleware(auth0ID, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", auth0ID)
		c.Set("access_token", "mock-token")

		customClaims := &middleware.CustomClaims{
			Role: role,
		}
		mockClaims := &validator.ValidatedClaims{
			CustomClaims: customClaims,
		}
		c.Set("validated_claims", mockClaims)

		c.Next()
	}
}

func (suite *OrderIntegrationTestSuite) seedProduct(name, price, stock string) models.Product {
	category := models.Category{Name: "Mains", IsActive: true}
	suite.NoError(suite.db.Create(&category).Error)

	product := models.Product{
		Name:          name,
		Price:         decimal.RequireFromString(price),
		PricingType:   models.PricingFixed,
		ProductType:   models.ProductFood,
		StockQuantity: decimal.RequireFromString(stock),
		CategoryID:    category.ID,
		IsActive:      true,
		Show:          true,
	}
	suite.NoError(suite.db.Create(&product).Error)
	return product
}

func (suite *OrderIntegrationTestSuite) seedUser(auth0ID, name string, role models.Role) models.User {
	user := models.User{
		Auth0ID: auth0ID,
		Name:    name,
		Email:   fmt.Sprintf("%s@example.com", name),
		Role:    role,
	}
	suite.NoError(suite.db.Create(&user).Error)
	return user
}

// TestGuestOrderWorkflow_CreateThroughCompletion tests the full order
// lifecycle: a guest places an order and staff walks it through every
// preparation stage
func (suite *OrderIntegrationTestSuite) TestGuestOrderWorkflow_CreateThroughCompletion() {
	product := suite.seedProduct("Nyama Choma Platter", "25.00", "10")
	chef := suite.seedUser("auth0|chef", "Kitchen Chef", models.RoleChef)

	router := gin.New()
	v1 := router.Group("/api/v1")
	{
		v1.POST("/orders", controllers.CreateOrder)
		v1.PUT("/admin/orders/:id/status",
			suite.mockAuthMiddleware(chef.Auth0ID, "chef"),
			middleware.RequireCapability(models.CapManageOrders),
			controllers.UpdateOrderStatus,
		)
	}

	// Step 1: Guest places the order
	createBody := map[string]interface{}{
		"customer_name": "Guest Diner",
		"items": []map[string]interface{}{
			{"product_id": product.ID, "quantity": 2},
		},
	}
	createJSON, _ := json.Marshal(createBody)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", bytes.NewBuffer(createJSON))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var createResponse map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &createResponse)
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), createResponse["success"].(bool))

	orderData := createResponse["data"].(map[string]interface{})
	orderID := int(orderData["id"].(float64))
	assert.Equal(suite.T(), models.OrderPending, orderData["status"])

	// Stock was reserved
	var reloaded models.Product
	suite.NoError(suite.db.First(&reloaded, product.ID).Error)
	assert.True(suite.T(), reloaded.StockQuantity.Equal(decimal.RequireFromString("8")))

	// Step 2: Staff advances the order through every stage
	for _, status := range []string{
		models.OrderConfirmed,
		models.OrderPreparing,
		models.OrderReady,
		models.OrderCompleted,
	} {
		statusJSON, _ := json.Marshal(map[string]interface{}{"status": status})

		w = httptest.NewRecorder()
		req = httptest.NewRequest(http.MethodPut,
			fmt.Sprintf("/api/v1/admin/orders/%d/status", orderID),
			bytes.NewBuffer(statusJSON))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(suite.T(), http.StatusOK, w.Code, "transition to %s should succeed", status)

		var updatedOrder models.Order
		suite.NoError(suite.db.First(&updatedOrder, orderID).Error)
		assert.Equal(suite.T(), status, updatedOrder.Status)
	}

	// ReadyAt was stamped along the way
	var finalOrder models.Order
	suite.NoError(suite.db.First(&finalOrder, orderID).Error)
	assert.NotNil(suite.T(), finalOrder.ReadyAt)

	// Guest orders never earn loyalty points
	var awards int64
	suite.NoError(suite.db.Model(&models.LoyaltyAward{}).Count(&awards).Error)
	assert.Equal(suite.T(), int64(0), awards)
}

// TestRegisteredOrderWorkflow_LoyaltyAwardOnCompletion tests that a
// registered customer's qualifying order earns exactly one point when it
// completes, and only once
func (suite *OrderIntegrationTestSuite) TestRegisteredOrderWorkflow_LoyaltyAwardOnCompletion() {
	product := suite.seedProduct("Family Feast", "750.00", "10")
	customer := suite.seedUser("auth0|regular", "Regular Customer", models.RoleCustomer)
	owner := suite.seedUser("auth0|owner", "Shop Owner", models.RoleOwner)

	router := gin.New()
	v1 := router.Group("/api/v1")
	{
		v1.POST("/orders",
			suite.mockAuthMiddleware(customer.Auth0ID, "customer"),
			middleware.OptionalProfile(),
			controllers.CreateOrder,
		)
		v1.PUT("/admin/orders/:id/status",
			suite.mockAuthMiddleware(owner.Auth0ID, "owner"),
			middleware.RequireCapability(models.CapManageOrders),
			controllers.UpdateOrderStatus,
		)
	}

	// Place a qualifying order
	createJSON, _ := json.Marshal(map[string]interface{}{
		"items": []map[string]interface{}{
			{"product_id": product.ID, "quantity": 1},
		},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", bytes.NewBuffer(createJSON))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var createResponse map[string]interface{}
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &createResponse))
	orderData := createResponse["data"].(map[string]interface{})
	orderID := int(orderData["id"].(float64))

	// Customer details were defaulted from the profile
	assert.Equal(suite.T(), "Regular Customer", orderData["customer_name"])

	// Walk to completion
	for _, status := range []string{
		models.OrderConfirmed,
		models.OrderPreparing,
		models.OrderReady,
		models.OrderCompleted,
	} {
		statusJSON, _ := json.Marshal(map[string]interface{}{"status": status})
		w = httptest.NewRecorder()
		req = httptest.NewRequest(http.MethodPut,
			fmt.Sprintf("/api/v1/admin/orders/%d/status", orderID),
			bytes.NewBuffer(statusJSON))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)
		assert.Equal(suite.T(), http.StatusOK, w.Code)
	}

	// Exactly one point, one award row
	var updatedCustomer models.User
	suite.NoError(suite.db.First(&updatedCustomer, customer.ID).Error)
	assert.Equal(suite.T(), 1, updatedCustomer.LoyaltyPoints)

	var awards int64
	suite.NoError(suite.db.Model(&models.LoyaltyAward{}).Count(&awards).Error)
	assert.Equal(suite.T(), int64(1), awards)
}

// TestOrderWorkflow_IllegalTransitionLeavesOrderUntouched tests that a
// skipped stage is rejected and the order stays where it was
func (suite *OrderIntegrationTestSuite) TestOrderWorkflow_IllegalTransitionLeavesOrderUntouched() {
	product := suite.seedProduct("Burger", "10.00", "10")
	chef := suite.seedUser("auth0|chef", "Kitchen Chef", models.RoleChef)

	router := gin.New()
	v1 := router.Group("/api/v1")
	{
		v1.POST("/orders", controllers.CreateOrder)
		v1.PUT("/admin/orders/:id/status",
			suite.mockAuthMiddleware(chef.Auth0ID, "chef"),
			middleware.RequireCapability(models.CapManageOrders),
			controllers.UpdateOrderStatus,
		)
	}

	createJSON, _ := json.Marshal(map[string]interface{}{
		"customer_name": "Guest Diner",
		"items": []map[string]interface{}{
			{"product_id": product.ID, "quantity": 1},
		},
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", bytes.NewBuffer(createJSON))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var createResponse map[string]interface{}
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &createResponse))
	orderID := int(createResponse["data"].(map[string]interface{})["id"].(float64))

	// pending cannot jump straight to completed
	statusJSON, _ := json.Marshal(map[string]interface{}{"status": models.OrderCompleted})
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPut,
		fmt.Sprintf("/api/v1/admin/orders/%d/status", orderID),
		bytes.NewBuffer(statusJSON))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusConflict, w.Code)

	var response map[string]interface{}
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &response))
	errorData := response["error"].(map[string]interface{})
	assert.Equal(suite.T(), "INVALID_TRANSITION", errorData["code"])

	var unchanged models.Order
	suite.NoError(suite.db.First(&unchanged, orderID).Error)
	assert.Equal(suite.T(), models.OrderPending, unchanged.Status)
}

// TestOrderWorkflow_OversellRejectedAtomically tests that a too-large order
// is rejected whole and no stock is consumed
func (suite *OrderIntegrationTestSuite) TestOrderWorkflow_OversellRejectedAtomically() {
	product := suite.seedProduct("Burger", "10.00", "3")

	router := gin.New()
	router.POST("/api/v1/orders", controllers.CreateOrder)

	createJSON, _ := json.Marshal(map[string]interface{}{
		"customer_name": "Guest Diner",
		"items": []map[string]interface{}{
			{"product_id": product.ID, "quantity": 5},
		},
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", bytes.NewBuffer(createJSON))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusConflict, w.Code)

	var response map[string]interface{}
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &response))
	errorData := response["error"].(map[string]interface{})
	assert.Equal(suite.T(), "INSUFFICIENT_STOCK", errorData["code"])

	var reloaded models.Product
	suite.NoError(suite.db.First(&reloaded, product.ID).Error)
	assert.True(suite.T(), reloaded.StockQuantity.Equal(decimal.RequireFromString("3")))

	var orders int64
	suite.NoError(suite.db.Model(&models.Order{}).Count(&orders).Error)
	assert.Equal(suite.T(), int64(0), orders)
}

// TestOrderIntegrationSuite runs the test suite
func TestOrderIntegrationSuite(t *testing.T) {
	suite.Run(t, new(OrderIntegrationTestSuite))
}
