package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wangari/restaurant-api/config"
	"github.com/wangari/restaurant-api/middleware"
	"github.com/wangari/restaurant-api/models"
	"github.com/wangari/restaurant-api/services"
)

// GetLoyaltySummary handles GET /api/v1/loyalty/summary - returns the
// current user's points, tier, and qualifying order count
func GetLoyaltySummary(c *gin.Context) {
	auth0ID, err := middleware.GetUserID(c)
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
	var user models.User
	if err := db.Where("auth0_id = ?", auth0ID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "USER_NOT_FOUND",
				"message": "User profile not found. Please create a profile first.",
			},
		})
		return
	}

	summary, err := services.NewLoyaltyService(db).GetUserLoyaltySummary(&user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load loyalty summary",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    summary,
	})
}
