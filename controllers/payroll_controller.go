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

// CreateWorkerPaymentRequest represents the request body for recording a
// payroll disbursement
type CreateWorkerPaymentRequest struct {
	WorkerID    uint            `json:"worker_id" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	PaymentDate string          `json:"payment_date"` // YYYY-MM-DD, defaults to today
	PaymentType string          `json:"payment_type"`
	Notes       string          `json:"notes"`
}

// CreateWorkerPayment handles POST /api/v1/admin/payroll - records a
// payment to a staff member
func CreateWorkerPayment(c *gin.Context) {
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

	var req CreateWorkerPaymentRequest
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

	if !req.Amount.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Amount must be a positive value",
			},
		})
		return
	}

	paymentType := req.PaymentType
	if paymentType == "" {
		paymentType = models.PaymentSalary
	}
	if !models.ValidPaymentType(paymentType) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_PAYMENT_TYPE",
				"message": fmt.Sprintf("Unknown payment type: %s", paymentType),
			},
		})
		return
	}

	paymentDate := time.Now()
	if req.PaymentDate != "" {
		parsed, err := time.Parse("2006-01-02", req.PaymentDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "payment_date must be in YYYY-MM-DD format",
				},
			})
			return
		}
		paymentDate = parsed
	}

	db := config.GetDB()

	// Payments go to staff only
	var worker models.User
	if err := db.First(&worker, req.WorkerID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "WORKER_NOT_FOUND",
				"message": "Worker not found",
			},
		})
		return
	}
	if !worker.Role.IsStaff() {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_A_WORKER",
				"message": "Payments can only be recorded for staff members",
			},
		})
		return
	}

	payment := models.WorkerPayment{
		WorkerID:    worker.ID,
		Amount:      req.Amount,
		PaymentDate: paymentDate,
		PaymentType: paymentType,
		Notes:       req.Notes,
		PaidByID:    user.ID,
	}
	if err := db.Create(&payment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to record payment",
			},
		})
		return
	}

	services.LogActivity(db, &user.ID, models.ActionCreate, "WorkerPayment",
		fmt.Sprintf("%d", payment.ID),
		fmt.Sprintf("Recorded %s payment of %s to %s", paymentType, req.Amount.StringFixed(2), worker.Name),
		"", "", c.ClientIP())

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    payment,
	})
}

// ListWorkerPayments handles GET /api/v1/admin/payroll - payment history
// with filters and the total paid over the filtered set
func ListWorkerPayments(c *gin.Context) {
	db := config.GetDB()

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	query := db.Model(&models.WorkerPayment{})
	if workerID := c.Query("worker_id"); workerID != "" {
		query = query.Where("worker_id = ?", workerID)
	}
	if paymentType := c.Query("payment_type"); paymentType != "" {
		query = query.Where("payment_type = ?", paymentType)
	}
	if from := c.Query("from"); from != "" {
		query = query.Where("payment_date >= ?", from)
	}
	if to := c.Query("to"); to != "" {
		query = query.Where("payment_date <= ?", to)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to count payments",
			},
		})
		return
	}

	var payments []models.WorkerPayment
	if err := query.Preload("Worker").Preload("PaidBy").
		Order("payment_date desc").
		Offset((page - 1) * limit).Limit(limit).
		Find(&payments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch payments",
			},
		})
		return
	}

	totalPaid := decimal.Zero
	for i := range payments {
		totalPaid = totalPaid.Add(payments[i].Amount)
	}

	totalPages := (total + int64(limit) - 1) / int64(limit)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"payments":   payments,
			"total_paid": totalPaid,
		},
		"pagination": gin.H{
			"page":       page,
			"limit":      limit,
			"total":      total,
			"totalPages": totalPages,
		},
	})
}
