package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/wangari/restaurant-api/config"
	"github.com/wangari/restaurant-api/middleware"
	"github.com/wangari/restaurant-api/models"
	"github.com/wangari/restaurant-api/services"
)

// UpdateOrderStatusRequest represents the request body for moving an order
// through the preparation pipeline
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// PhysicalSaleRequest represents the request body for recording a walk-in
// sale at the counter
type PhysicalSaleRequest struct {
	TableNumber  string                      `json:"table_number" binding:"required"`
	CustomerName string                      `json:"customer_name"`
	Notes        string                      `json:"notes"`
	Items        []services.OrderItemRequest `json:"items" binding:"required,dive"`
}

// AdminListOrders handles GET /api/v1/admin/orders - staff order listing
// with filters and pagination
func AdminListOrders(c *gin.Context) {
	db := config.GetDB()

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	query := db.Model(&models.Order{})
	if status := c.Query("status"); status != "" {
		if !models.ValidOrderStatus(status) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_STATUS",
					"message": fmt.Sprintf("Unknown order status: %s", status),
				},
			})
			return
		}
		query = query.Where("status = ?", status)
	}
	if orderType := c.Query("order_type"); orderType != "" {
		query = query.Where("order_type = ?", orderType)
	}
	if fulfillment := c.Query("fulfillment_method"); fulfillment != "" {
		query = query.Where("fulfillment_method = ?", fulfillment)
	}
	if from := c.Query("from"); from != "" {
		query = query.Where("created_at >= ?", from)
	}
	if to := c.Query("to"); to != "" {
		query = query.Where("created_at <= ?", to)
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("order_number LIKE ? OR customer_name LIKE ?", "%"+search+"%", "%"+search+"%")
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

// UpdateOrderStatus handles PUT /api/v1/admin/orders/:id/status - moves an
// order along the allowed status graph. Reaching ready stamps ReadyAt;
// reaching completed triggers the loyalty award check.
func UpdateOrderStatus(c *gin.Context) {
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

	var req UpdateOrderStatusRequest
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

	if !models.ValidOrderStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_STATUS",
				"message": fmt.Sprintf("Unknown order status: %s", req.Status),
			},
		})
		return
	}

	db := config.GetDB()
	var order models.Order
	if err := db.First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_NOT_FOUND",
				"message": "Order not found",
			},
		})
		return
	}

	oldStatus := order.Status
	if !models.CanTransitionOrderStatus(oldStatus, req.Status) {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_TRANSITION",
				"message": fmt.Sprintf("Cannot change order status from %s to %s", oldStatus, req.Status),
			},
		})
		return
	}

	updates := map[string]interface{}{"status": req.Status}
	if req.Status == models.OrderReady && order.ReadyAt == nil {
		now := time.Now()
		updates["ready_at"] = &now
	}

	if err := db.Model(&order).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update order status",
			},
		})
		return
	}
	order.Status = req.Status

	services.LogActivity(db, &user.ID, models.ActionOrderStatus, "Order",
		fmt.Sprintf("%d", order.ID),
		fmt.Sprintf("Order %s status changed", order.OrderNumber),
		oldStatus, req.Status, c.ClientIP())

	// Completion is the loyalty trigger. The award is idempotent, so a
	// failure here can be retried without risk of double-counting;
	// status change itself must not fail.
	pointsAwarded := false
	if req.Status == models.OrderCompleted {
		awarded, err := services.NewLoyaltyService(db).ProcessOrderLoyaltyPoints(&order)
		if err != nil {
			services.LogActivity(db, &user.ID, models.ActionLoyaltyAwarded, "Order",
				fmt.Sprintf("%d", order.ID),
				fmt.Sprintf("Loyalty award failed for order %s: %v", order.OrderNumber, err),
				"", "", c.ClientIP())
		}
		pointsAwarded = awarded
	}

	if err := db.Preload("Items").First(&order, order.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch updated order",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"order":                  order,
			"loyalty_points_awarded": pointsAwarded,
		},
	})
}

// VerifyPaymentRequest represents the optional request body for payment
// verification. Omitting the body (or verified) marks the payment verified;
// verified=false clears a previous verification.
type VerifyPaymentRequest struct {
	Verified *bool `json:"verified"`
}

// VerifyOrderPayment handles POST /api/v1/admin/orders/:id/verify-payment -
// marks the payment as verified by the current staff member, or clears the
// verification when the body carries verified=false
func VerifyOrderPayment(c *gin.Context) {
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

	verified := true
	if c.Request.ContentLength > 0 {
		var req VerifyPaymentRequest
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
		if req.Verified != nil {
			verified = *req.Verified
		}
	}

	db := config.GetDB()
	var order models.Order
	if err := db.First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_NOT_FOUND",
				"message": "Order not found",
			},
		})
		return
	}

	if order.PaymentVerified == verified {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    order,
		})
		return
	}

	var updates map[string]interface{}
	if verified {
		now := time.Now()
		updates = map[string]interface{}{
			"payment_verified":       true,
			"payment_verified_by_id": user.ID,
			"payment_verified_at":    &now,
		}
	} else {
		updates = map[string]interface{}{
			"payment_verified":       false,
			"payment_verified_by_id": nil,
			"payment_verified_at":    nil,
		}
	}
	if err := db.Model(&order).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update payment verification",
			},
		})
		return
	}

	description := fmt.Sprintf("Payment verified for order %s", order.OrderNumber)
	if !verified {
		description = fmt.Sprintf("Payment verification cleared for order %s", order.OrderNumber)
	}
	services.LogActivity(db, &user.ID, models.ActionUpdate, "Order",
		fmt.Sprintf("%d", order.ID), description,
		fmt.Sprintf("%t", !verified), fmt.Sprintf("%t", verified), c.ClientIP())

	if err := db.First(&order, order.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch updated order",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// CreatePhysicalSale handles POST /api/v1/admin/orders/physical - records a
// walk-in sale. The customer name defaults to "Table {n} - {operator}".
// Physical sales are paid at the counter, so they complete immediately.
func CreatePhysicalSale(c *gin.Context) {
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

	var req PhysicalSaleRequest
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

	customerName := req.CustomerName
	if customerName == "" {
		customerName = fmt.Sprintf("Table %s - %s", req.TableNumber, user.Name)
	}

	db := config.GetDB()
	input := services.CreateOrderInput{
		CustomerName:      customerName,
		CustomerEmail:     user.Email,
		CustomerPhone:     "N/A",
		OrderType:         models.OrderOffline,
		FulfillmentMethod: models.FulfillmentPickup,
		TableNumber:       req.TableNumber,
		Notes:             req.Notes,
		Items:             req.Items,
	}

	order, err := services.NewOrderService(db).CreateOrder(input)
	if err != nil {
		respondOrderError(c, err)
		return
	}

	// Counter sales are settled on the spot
	now := time.Now()
	updates := map[string]interface{}{
		"status":                 models.OrderCompleted,
		"payment_verified":       true,
		"payment_verified_by_id": user.ID,
		"payment_verified_at":    &now,
	}
	if err := db.Model(order).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to finalize physical sale",
			},
		})
		return
	}
	order.Status = models.OrderCompleted
	order.PaymentVerified = true

	services.LogActivity(db, &user.ID, models.ActionPhysicalSale, "Order",
		fmt.Sprintf("%d", order.ID),
		fmt.Sprintf("Physical sale %s recorded at table %s (%s %s, total %s)",
			order.OrderNumber, req.TableNumber, order.OrderType, order.FulfillmentMethod,
			order.TotalAmount.StringFixed(2)),
		"", models.OrderCompleted, c.ClientIP())

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    order,
	})
}

// TodayOrders handles GET /api/v1/admin/orders/today - all orders placed
// since local midnight
func TodayOrders(c *gin.Context) {
	db := config.GetDB()

	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var orders []models.Order
	if err := db.Preload("Items").
		Where("created_at >= ?", startOfDay).
		Order("created_at desc").
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

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
	})
}

// OrderStats handles GET /api/v1/admin/orders/stats - counts per status and
// revenue totals for completed orders
func OrderStats(c *gin.Context) {
	db := config.GetDB()

	type statusCount struct {
		Status string `json:"status"`
		Count  int64  `json:"count"`
	}
	var counts []statusCount
	if err := db.Model(&models.Order{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&counts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to compute order stats",
			},
		})
		return
	}

	var completed []models.Order
	if err := db.Where("status = ?", models.OrderCompleted).Find(&completed).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to compute order stats",
			},
		})
		return
	}

	// Sum in decimal space rather than SQL so the arithmetic is exact on
	// every backend
	revenue := decimal.Zero
	deliveryFees := decimal.Zero
	for i := range completed {
		revenue = revenue.Add(completed[i].TotalAmount)
		deliveryFees = deliveryFees.Add(completed[i].DeliveryFee)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"by_status":        counts,
			"completed_count":  len(completed),
			"revenue":          revenue,
			"delivery_fees":    deliveryFees,
			"revenue_with_fee": revenue.Add(deliveryFees),
		},
	})
}
