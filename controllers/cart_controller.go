package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/wangari/restaurant-api/config"
	"github.com/wangari/restaurant-api/middleware"
	"github.com/wangari/restaurant-api/models"
)

// AddToCartRequest represents the request body for adding a product to the
// cart
type AddToCartRequest struct {
	ProductID           uint             `json:"product_id" binding:"required"`
	Quantity            int              `json:"quantity" binding:"required,gt=0"`
	WeightKg            *decimal.Decimal `json:"weight_kg,omitempty"`
	SpecialInstructions string           `json:"special_instructions"`
}

// UpdateCartItemRequest represents the request body for updating a cart item
type UpdateCartItemRequest struct {
	Quantity            int              `json:"quantity" binding:"required,gt=0"`
	WeightKg            *decimal.Decimal `json:"weight_kg,omitempty"`
	SpecialInstructions string           `json:"special_instructions"`
}

// getOrCreateCart returns the user's cart, creating an empty one on first use
func getOrCreateCart(db *gorm.DB, userID uint) (*models.Cart, error) {
	var cart models.Cart
	err := db.Where("user_id = ?", userID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cart = models.Cart{UserID: userID}
		if err := db.Create(&cart).Error; err != nil {
			return nil, err
		}
		return &cart, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// cartResponse loads the cart with items and products and renders the
// envelope payload with advisory totals
func cartResponse(db *gorm.DB, cartID uint) (gin.H, error) {
	var cart models.Cart
	if err := db.Preload("Items.Product").First(&cart, cartID).Error; err != nil {
		return nil, err
	}
	return gin.H{
		"cart":           cart,
		"total_price":    cart.TotalPrice(),
		"total_quantity": cart.TotalQuantity(),
	}, nil
}

// validateCartWeight enforces the same weight rules the checkout applies:
// weight-based products require a positive weight, others must not have one
func validateCartWeight(product *models.Product, weightKg *decimal.Decimal) (code, message string) {
	if product.IsWeightBased() {
		if weightKg == nil {
			return "VALIDATION_ERROR", "weight_kg is required for weight-based products"
		}
		if !weightKg.IsPositive() {
			return "VALIDATION_ERROR", "weight_kg must be a positive value"
		}
		return "", ""
	}
	if weightKg != nil {
		return "VALIDATION_ERROR", "weight_kg is only allowed for weight-based products"
	}
	return "", ""
}

// GetCart handles GET /api/v1/cart - returns the current user's cart
func GetCart(c *gin.Context) {
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
	cart, err := getOrCreateCart(db, user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load cart",
			},
		})
		return
	}

	payload, err := cartResponse(db, cart.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load cart",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    payload,
	})
}

// AddToCart handles POST /api/v1/cart/items - adds a product to the cart.
// Adding a product already in the cart merges quantities.
func AddToCart(c *gin.Context) {
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

	var req AddToCartRequest
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
	if err := db.Where("is_active = ?", true).First(&product, req.ProductID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PRODUCT_NOT_FOUND",
				"message": "Product not found",
			},
		})
		return
	}

	if code, message := validateCartWeight(&product, req.WeightKg); code != "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    code,
				"message": message,
			},
		})
		return
	}

	cart, err := getOrCreateCart(db, user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load cart",
			},
		})
		return
	}

	// Merge into an existing line for the same product if there is one
	var existing models.CartItem
	err = db.Where("cart_id = ? AND product_id = ?", cart.ID, product.ID).First(&existing).Error
	switch {
	case err == nil:
		existing.Quantity += req.Quantity
		if product.IsWeightBased() && req.WeightKg != nil {
			if existing.WeightKg != nil {
				merged := existing.WeightKg.Add(*req.WeightKg)
				existing.WeightKg = &merged
			} else {
				existing.WeightKg = req.WeightKg
			}
		}
		if req.SpecialInstructions != "" {
			existing.SpecialInstructions = req.SpecialInstructions
		}
		if err := db.Save(&existing).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to update cart item",
				},
			})
			return
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		item := models.CartItem{
			CartID:              cart.ID,
			ProductID:           product.ID,
			Quantity:            req.Quantity,
			SpecialInstructions: req.SpecialInstructions,
		}
		if product.IsWeightBased() {
			item.WeightKg = req.WeightKg
		}
		if err := db.Create(&item).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to add item to cart",
				},
			})
			return
		}
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load cart",
			},
		})
		return
	}

	payload, err := cartResponse(db, cart.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load cart",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    payload,
	})
}

// UpdateCartItem handles PUT /api/v1/cart/items/:id
func UpdateCartItem(c *gin.Context) {
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

	var req UpdateCartItemRequest
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
	cart, err := getOrCreateCart(db, user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load cart",
			},
		})
		return
	}

	var item models.CartItem
	if err := db.Preload("Product").
		Where("cart_id = ?", cart.ID).
		First(&item, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CART_ITEM_NOT_FOUND",
				"message": "Cart item not found",
			},
		})
		return
	}

	if item.Product != nil {
		if code, message := validateCartWeight(item.Product, req.WeightKg); code != "" {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    code,
					"message": message,
				},
			})
			return
		}
	}

	item.Quantity = req.Quantity
	item.WeightKg = req.WeightKg
	item.SpecialInstructions = req.SpecialInstructions
	if err := db.Save(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update cart item",
			},
		})
		return
	}

	payload, err := cartResponse(db, cart.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load cart",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    payload,
	})
}

// RemoveFromCart handles DELETE /api/v1/cart/items/:id
func RemoveFromCart(c *gin.Context) {
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
	cart, err := getOrCreateCart(db, user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load cart",
			},
		})
		return
	}

	var item models.CartItem
	if err := db.Where("cart_id = ?", cart.ID).First(&item, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CART_ITEM_NOT_FOUND",
				"message": "Cart item not found",
			},
		})
		return
	}

	if err := db.Delete(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to remove cart item",
			},
		})
		return
	}

	payload, err := cartResponse(db, cart.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load cart",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    payload,
	})
}

// ClearCart handles DELETE /api/v1/cart - removes every item from the cart
func ClearCart(c *gin.Context) {
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
	cart, err := getOrCreateCart(db, user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load cart",
			},
		})
		return
	}

	if err := db.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to clear cart",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"message": "Cart cleared",
		},
	})
}
