package controllers

import (
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/wangari/restaurant-api/config"
	"github.com/wangari/restaurant-api/middleware"
	"github.com/wangari/restaurant-api/models"
	"github.com/wangari/restaurant-api/services"
)

// CreateProductRequest represents the request body for creating a product
type CreateProductRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	PricingType string          `json:"pricing_type" binding:"omitempty,oneof=fixed per_kg"`
	ProductType string          `json:"product_type" binding:"omitempty,oneof=food drink dessert"`
	CategoryID  uint            `json:"category_id" binding:"required"`
	IsActive    *bool           `json:"is_active"`
	Show        *bool           `json:"show"`
	IsSpicy     *bool           `json:"is_spicy"`
}

// UpdateProductRequest represents the request body for updating a product
type UpdateProductRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	PricingType *string          `json:"pricing_type" binding:"omitempty,oneof=fixed per_kg"`
	ProductType *string          `json:"product_type" binding:"omitempty,oneof=food drink dessert"`
	CategoryID  *uint            `json:"category_id"`
	IsActive    *bool            `json:"is_active"`
	Show        *bool            `json:"show"`
	IsSpicy     *bool            `json:"is_spicy"`
}

// UpdateStockRequest represents the request body for adjusting product stock
type UpdateStockRequest struct {
	Operation string          `json:"operation" binding:"required,oneof=add reduce"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Reason    string          `json:"reason"`
}

// attachImageURL fills the transient ImageURL field with a presigned URL
// when the product has an image and the S3 service is available
func attachImageURL(product *models.Product) {
	if product.ImageS3Key == nil || *product.ImageS3Key == "" {
		return
	}
	s3Service := services.GetS3Service()
	if s3Service == nil {
		return
	}
	url, err := s3Service.GetPresignedURL(*product.ImageS3Key)
	if err != nil {
		log.Printf("failed to presign image URL for product %d: %v", product.ID, err)
		return
	}
	product.ImageURL = &url
}

// ListProducts handles GET /api/v1/products - public menu listing with
// filters and pagination. Only visible active products are returned.
func ListProducts(c *gin.Context) {
	db := config.GetDB()

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	query := db.Model(&models.Product{}).
		Where("is_active = ? AND show = ?", true, true).
		Preload("Category")

	if categoryID := c.Query("category_id"); categoryID != "" {
		query = query.Where("category_id = ?", categoryID)
	}
	if productType := c.Query("product_type"); productType != "" {
		query = query.Where("product_type = ?", productType)
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to count products",
			},
		})
		return
	}

	var products []models.Product
	if err := query.Order("name asc").Offset((page - 1) * limit).Limit(limit).Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch products",
			},
		})
		return
	}

	for i := range products {
		attachImageURL(&products[i])
	}

	totalPages := (total + int64(limit) - 1) / int64(limit)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    products,
		"pagination": gin.H{
			"page":       page,
			"limit":      limit,
			"total":      total,
			"totalPages": totalPages,
		},
	})
}

// GetProduct handles GET /api/v1/products/:id - public product detail
func GetProduct(c *gin.Context) {
	db := config.GetDB()

	var product models.Product
	if err := db.Preload("Category").First(&product, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PRODUCT_NOT_FOUND",
				"message": "Product not found",
			},
		})
		return
	}

	attachImageURL(&product)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    product,
	})
}

// AdminListProducts handles GET /api/v1/admin/products - staff listing that
// includes hidden and inactive products
func AdminListProducts(c *gin.Context) {
	db := config.GetDB()

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	query := db.Model(&models.Product{}).Preload("Category")
	if categoryID := c.Query("category_id"); categoryID != "" {
		query = query.Where("category_id = ?", categoryID)
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to count products",
			},
		})
		return
	}

	var products []models.Product
	if err := query.Order("name asc").Offset((page - 1) * limit).Limit(limit).Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch products",
			},
		})
		return
	}

	for i := range products {
		attachImageURL(&products[i])
	}

	totalPages := (total + int64(limit) - 1) / int64(limit)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    products,
		"pagination": gin.H{
			"page":       page,
			"limit":      limit,
			"total":      total,
			"totalPages": totalPages,
		},
	})
}

// CreateProduct handles POST /api/v1/admin/products
func CreateProduct(c *gin.Context) {
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

	var req CreateProductRequest
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

	if !req.Price.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Price must be a positive value",
			},
		})
		return
	}

	db := config.GetDB()

	// Category must exist
	var category models.Category
	if err := db.First(&category, req.CategoryID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CATEGORY_NOT_FOUND",
				"message": "Category not found",
			},
		})
		return
	}

	pricingType := req.PricingType
	if pricingType == "" {
		pricingType = models.PricingFixed
	}
	productType := req.ProductType
	if productType == "" {
		productType = models.ProductFood
	}

	// Weight-based pricing is only meaningful for food
	if pricingType == models.PricingPerKg && productType != models.ProductFood {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Only food products can be priced per kilogram",
			},
		})
		return
	}

	product := models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		PricingType: pricingType,
		ProductType: productType,
		CategoryID:  req.CategoryID,
		IsActive:    true,
		Show:        true,
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
	if req.Show != nil {
		product.Show = *req.Show
	}
	if req.IsSpicy != nil {
		product.IsSpicy = *req.IsSpicy
	}

	if err := db.Create(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create product",
			},
		})
		return
	}

	services.LogActivity(db, &user.ID, models.ActionCreate, "Product",
		fmt.Sprintf("%d", product.ID),
		fmt.Sprintf("Created product %s", product.Name),
		"", product.Name, c.ClientIP())

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    product,
	})
}

// UpdateProduct handles PUT /api/v1/admin/products/:id
func UpdateProduct(c *gin.Context) {
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

	var req UpdateProductRequest
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

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		if !req.Price.IsPositive() {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "Price must be a positive value",
				},
			})
			return
		}
		updates["price"] = *req.Price
	}
	if req.PricingType != nil {
		updates["pricing_type"] = *req.PricingType
	}
	if req.ProductType != nil {
		updates["product_type"] = *req.ProductType
	}
	if req.CategoryID != nil {
		var category models.Category
		if err := db.First(&category, *req.CategoryID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "CATEGORY_NOT_FOUND",
					"message": "Category not found",
				},
			})
			return
		}
		updates["category_id"] = *req.CategoryID
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.Show != nil {
		updates["show"] = *req.Show
	}
	if req.IsSpicy != nil {
		updates["is_spicy"] = *req.IsSpicy
	}

	// Validate the resulting pricing/type combination
	pricingType := product.PricingType
	if req.PricingType != nil {
		pricingType = *req.PricingType
	}
	productType := product.ProductType
	if req.ProductType != nil {
		productType = *req.ProductType
	}
	if pricingType == models.PricingPerKg && productType != models.ProductFood {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Only food products can be priced per kilogram",
			},
		})
		return
	}

	if len(updates) > 0 {
		if err := db.Model(&product).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to update product",
				},
			})
			return
		}

		services.LogActivity(db, &user.ID, models.ActionUpdate, "Product",
			fmt.Sprintf("%d", product.ID),
			fmt.Sprintf("Updated product %s", product.Name),
			"", "", c.ClientIP())
	}

	if err := db.Preload("Category").First(&product, product.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch updated product",
			},
		})
		return
	}
	attachImageURL(&product)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    product,
	})
}

// DeleteProduct handles DELETE /api/v1/admin/products/:id - soft delete
func DeleteProduct(c *gin.Context) {
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

	if err := db.Delete(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete product",
			},
		})
		return
	}

	services.LogActivity(db, &user.ID, models.ActionDelete, "Product",
		fmt.Sprintf("%d", product.ID),
		fmt.Sprintf("Deleted product %s", product.Name),
		product.Name, "", c.ClientIP())

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"message": "Product deleted successfully",
		},
	})
}

// UpdateProductStock handles POST /api/v1/admin/products/:id/stock - adds or
// reduces stock. Reductions are guarded so stock can never go below zero.
func UpdateProductStock(c *gin.Context) {
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

	var req UpdateStockRequest
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

	oldStock := product.StockQuantity
	var action string

	switch req.Operation {
	case "add":
		action = models.ActionStockAdd
		if err := db.Model(&product).
			UpdateColumn("stock_quantity", gorm.Expr("stock_quantity + ?", req.Amount)).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to update stock",
				},
			})
			return
		}
	case "reduce":
		action = models.ActionStockReduce
		// Guard and decrement in one statement so stock never goes negative
		res := db.Model(&models.Product{}).
			Where("id = ? AND stock_quantity >= ?", product.ID, req.Amount).
			UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", req.Amount))
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to update stock",
				},
			})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INSUFFICIENT_STOCK",
					"message": fmt.Sprintf("Cannot reduce stock below zero. Available: %s, Requested: %s",
						product.StockQuantity.String(), req.Amount.String()),
				},
			})
			return
		}
	}

	if err := db.First(&product, product.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch updated product",
			},
		})
		return
	}

	description := fmt.Sprintf("Stock %s for %s: %s", req.Operation, product.Name, req.Amount.String())
	if req.Reason != "" {
		description = fmt.Sprintf("%s (%s)", description, req.Reason)
	}
	services.LogActivity(db, &user.ID, action, "Product",
		fmt.Sprintf("%d", product.ID), description,
		oldStock.String(), product.StockQuantity.String(), c.ClientIP())

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    product,
	})
}

// LowStockProducts handles GET /api/v1/admin/products/low-stock - products
// at or below the given stock threshold (default 5)
func LowStockProducts(c *gin.Context) {
	db := config.GetDB()

	threshold := c.DefaultQuery("threshold", "5")
	if _, err := strconv.ParseFloat(threshold, 64); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Threshold must be a number",
			},
		})
		return
	}

	var products []models.Product
	if err := db.Where("is_active = ? AND stock_quantity <= ?", true, threshold).
		Order("stock_quantity asc").
		Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch products",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    products,
	})
}
