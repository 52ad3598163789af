package controllers

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wangari/restaurant-api/config"
	"github.com/wangari/restaurant-api/middleware"
	"github.com/wangari/restaurant-api/models"
	"github.com/wangari/restaurant-api/services"
	"github.com/wangari/restaurant-api/utils"
)

// UploadProductImage handles POST /api/v1/admin/products/:id/image - stores
// a PNG product photo in S3 and links it to the product. Replacing an image
// deletes the old object.
func UploadProductImage(c *gin.Context) {
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
	var product models.Product
	if err := db.First(&product, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PRODUCT_NOT_FOUND",
				"message": "Product not found",
			},
		})
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_FILE",
				"message": "No image file provided",
			},
		})
		return
	}

	if err := utils.ValidateImageFile(fileHeader); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_FILE",
				"message": err.Error(),
			},
		})
		return
	}

	s3Service := services.GetS3Service()
	if s3Service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "STORAGE_UNAVAILABLE",
				"message": "File storage is not configured",
			},
		})
		return
	}

	s3Key, err := s3Service.UploadFile(fileHeader, "products")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPLOAD_FAILED",
				"message": "Failed to store image",
			},
		})
		return
	}

	oldKey := product.ImageS3Key
	if err := db.Model(&product).UpdateColumn("image_s3_key", s3Key).Error; err != nil {
		// The upload succeeded but the link failed; remove the orphan
		if delErr := s3Service.DeleteFile(s3Key); delErr != nil {
			log.Printf("failed to remove orphaned upload %s: %v", s3Key, delErr)
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to link image to product",
			},
		})
		return
	}

	if oldKey != nil && *oldKey != "" {
		if err := s3Service.DeleteFile(*oldKey); err != nil {
			log.Printf("failed to delete replaced image %s: %v", *oldKey, err)
		}
	}

	services.LogActivity(db, &user.ID, models.ActionUpdate, "Product",
		fmt.Sprintf("%d", product.ID),
		fmt.Sprintf("Uploaded image for product %s", product.Name),
		"", s3Key, c.ClientIP())

	product.ImageS3Key = &s3Key
	attachImageURL(&product)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    product,
	})
}

// UploadPaymentConfirmation handles POST /api/v1/orders/:id/payment-confirmation
// - attaches a payment screenshot to an order. Allowed for the order's
// owner or for staff who manage orders.
func UploadPaymentConfirmation(c *gin.Context) {
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

	fileHeader, err := c.FormFile("confirmation")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_FILE",
				"message": "No confirmation file provided",
			},
		})
		return
	}

	if err := utils.ValidateImageFile(fileHeader); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_FILE",
				"message": err.Error(),
			},
		})
		return
	}

	s3Service := services.GetS3Service()
	if s3Service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "STORAGE_UNAVAILABLE",
				"message": "File storage is not configured",
			},
		})
		return
	}

	s3Key, err := s3Service.UploadFile(fileHeader, "payment-confirmations")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPLOAD_FAILED",
				"message": "Failed to store confirmation",
			},
		})
		return
	}

	if err := db.Model(&order).UpdateColumn("payment_confirmation_s3_key", s3Key).Error; err != nil {
		if delErr := s3Service.DeleteFile(s3Key); delErr != nil {
			log.Printf("failed to remove orphaned upload %s: %v", s3Key, delErr)
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to link confirmation to order",
			},
		})
		return
	}

	services.LogActivity(db, &user.ID, models.ActionUpdate, "Order",
		fmt.Sprintf("%d", order.ID),
		fmt.Sprintf("Payment confirmation uploaded for order %s", order.OrderNumber),
		"", s3Key, c.ClientIP())

	order.PaymentConfirmationS3Key = &s3Key

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}
