package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/wangari/restaurant-api/config"
	"github.com/wangari/restaurant-api/middleware"
	"github.com/wangari/restaurant-api/models"
	"github.com/wangari/restaurant-api/services"
)

// CreateOrderRequest represents the request body for placing an order.
// Guests must supply customer details; registered users default to their
// profile. When items is empty an authenticated user checks out their cart.
type CreateOrderRequest struct {
	CustomerName      string                      `json:"customer_name"`
	CustomerPhone     string                      `json:"customer_phone"`
	CustomerEmail     string                      `json:"customer_email" binding:"omitempty,email"`
	FulfillmentMethod string                      `json:"fulfillment_method" binding:"omitempty,oneof=pickup delivery"`
	DeliveryAddress   string                      `json:"delivery_address"`
	Notes             string                      `json:"notes"`
	Items             []services.OrderItemRequest `json:"items" binding:"omitempty,dive"`
}

// respondOrderError maps the order service's typed errors onto the API
// error envelope
func respondOrderError(c *gin.Context, err error) {
	var emptyErr *services.EmptyOrderError
	var notFoundErr *services.ProductNotFoundError
	var stockErr *services.InsufficientStockError
	var lineErr *services.InvalidLineItemError

	switch {
	case errors.As(err, &emptyErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "EMPTY_ORDER",
				"message": emptyErr.Error(),
			},
		})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PRODUCT_NOT_FOUND",
				"message": notFoundErr.Error(),
			},
		})
	case errors.As(err, &stockErr):
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INSUFFICIENT_STOCK",
				"message": stockErr.Error(),
			},
		})
	case errors.As(err, &lineErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ITEM",
				"message": lineErr.Error(),
			},
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_FAILED",
				"message": "Failed to create order",
			},
		})
	}
}

// cartItemsToOrderItems converts a loaded cart into order line requests
func cartItemsToOrderItems(cart *models.Cart) []services.OrderItemRequest {
	items := make([]services.OrderItemRequest, 0, len(cart.Items))
	for i := range cart.Items {
		ci := cart.Items[i]
		items = append(items, services.OrderItemRequest{
			ProductID:           ci.ProductID,
			Quantity:            ci.Quantity,
			WeightKg:            ci.WeightKg,
			SpecialInstructions: ci.SpecialInstructions,
		})
	}
	return items
}

// CreateOrder handles POST /api/v1/orders - places an online order. Guests
// check out with explicit items and contact details; registered users may
// omit items to check out their cart, which is cleared on success.
func CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	db := config.GetDB()

	// Authenticated shoppers have a profile loaded by OptionalProfile;
	// guests do not
	user, _ := middleware.GetCurrentUser(c)

	input := services.CreateOrderInput{
		User:              user,
		CustomerName:      req.CustomerName,
		CustomerPhone:     req.CustomerPhone,
		CustomerEmail:     req.CustomerEmail,
		OrderType:         models.OrderOnline,
		FulfillmentMethod: req.FulfillmentMethod,
		DeliveryAddress:   req.DeliveryAddress,
		Notes:             req.Notes,
		Items:             req.Items,
	}

	// Registered users default contact details from their profile
	if user != nil {
		if input.CustomerName == "" {
			input.CustomerName = user.Name
		}
		if input.CustomerEmail == "" {
			input.CustomerEmail = user.Email
		}
		if input.CustomerPhone == "" {
			input.CustomerPhone = user.PhoneNumber
		}
	}

	if input.CustomerName == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "customer_name is required",
			},
		})
		return
	}

	if req.FulfillmentMethod == models.FulfillmentDelivery && req.DeliveryAddress == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "delivery_address is required for delivery orders",
			},
		})
		return
	}

	// Cart checkout: no explicit items, registered user
	fromCart := false
	var cart *models.Cart
	if len(input.Items) == 0 && user != nil {
		var loaded models.Cart
		err := db.Preload("Items").Where("user_id = ?", user.ID).First(&loaded).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to load cart",
				},
			})
			return
		}
		if err == nil && len(loaded.Items) > 0 {
			cart = &loaded
			input.Items = cartItemsToOrderItems(cart)
			fromCart = true
		}
	}

	order, err := services.NewOrderService(db).CreateOrder(input)
	if err != nil {
		respondOrderError(c, err)
		return
	}

	// The cart's job is done once its items became an order
	if fromCart {
		if err := db.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			// Order already placed; a stale cart is recoverable
			services.LogActivity(db, order.UserID, models.ActionUpdate, "Cart",
				fmt.Sprintf("%d", cart.ID),
				fmt.Sprintf("Failed to clear cart after order %s: %v", order.OrderNumber, err),
				"", "", c.ClientIP())
		}
	}

	services.LogActivity(db, order.UserID, models.ActionCreate, "Order",
		fmt.Sprintf("%d", order.ID),
		fmt.Sprintf("Order %s placed (%s %s, total %s)",
			order.OrderNumber, order.OrderType, order.FulfillmentMethod,
			order.TotalAmount.StringFixed(2)),
		"", order.Status, c.ClientIP())

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    order,
	})
}

// ListMyOrders handles GET /api/v1/orders - the current user's order history
func ListMyOrders(c *gin.Context) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
		return
	}

	db := config.GetDB()

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	query := db.Model(&models.Order{}).Where("user_id = ?", user.ID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to count orders",
			},
		})
		return
	}

	var orders []models.Order
	if err := query.Preload("Items").
		Order("created_at desc").
		Offset((page - 1) * limit).Limit(limit).
		Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch orders",
			},
		})
		return
	}

	totalPages := (total + int64(limit) - 1) / int64(limit)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
		"pagination": gin.H{
			"page":       page,
			"limit":      limit,
			"total":      total,
			"totalPages": totalPages,
		},
	})
}

// GetOrder handles GET /api/v1/orders/:id - order detail, visible to the
// owner and to staff who manage orders
func GetOrder(c *gin.Context) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
		return
	}

	db := config.GetDB()
	var order models.Order
	if err := db.Preload("Items").First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_NOT_FOUND",
				"message": "Order not found",
			},
		})
		return
	}

	isOwner := order.UserID != nil && *order.UserID == user.ID
	if !isOwner && !user.Role.Can(models.CapManageOrders) {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "Insufficient permissions to access this resource",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"order":       order,
			"final_total": order.FinalTotal(),
		},
	})
}
