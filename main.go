package main

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/wangari/restaurant-api/config"
	"github.com/wangari/restaurant-api/controllers"
	"github.com/wangari/restaurant-api/middleware"
	"github.com/wangari/restaurant-api/models"
	"github.com/wangari/restaurant-api/services"
)

func main() {
	log.Println("Starting Wangari Restaurant API server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	db := config.GetDB()
	if err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.LoyaltyAward{},
		&models.ActivityLog{},
		&models.Review{},
		&models.SiteReview{},
		&models.ContactSubmission{},
		&models.WorkerPayment{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	if cfg.AWSS3Bucket != "" {
		if _, err := services.InitS3Service(); err != nil {
			log.Fatalf("Failed to initialize S3 service: %v", err)
		}
		log.Println("S3 service initialized")
	} else {
		log.Println("AWS_S3_BUCKET not set, file uploads disabled")
	}

	router := setupRouter(cfg)

	port := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupRouter builds the Gin engine with CORS and all API routes
func setupRouter(cfg *config.Config) *gin.Engine {
	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	if cfg.AllowedOrigins == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = strings.Split(cfg.AllowedOrigins, ",")
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/database/status", databaseStatus)

		// Public catalog and community surfaces
		v1.GET("/products", controllers.ListProducts)
		v1.GET("/products/:id", controllers.GetProduct)
		v1.GET("/products/:id/reviews", controllers.ListProductReviews)
		v1.GET("/categories", controllers.ListCategories)
		v1.GET("/site-reviews", controllers.ListSiteReviews)
		v1.POST("/contact", controllers.CreateContactSubmission)

		// Guest checkout works without a token; a valid token links the
		// order to the account
		optional := v1.Group("")
		optional.Use(middleware.OptionalToken(cfg), middleware.OptionalProfile())
		{
			optional.POST("/orders", controllers.CreateOrder)
			optional.POST("/site-reviews", controllers.CreateSiteReview)
		}

		// Authenticated routes
		authed := v1.Group("")
		authed.Use(middleware.EnsureValidToken(cfg))
		{
			authed.POST("/users", controllers.CreateUser)
			authed.GET("/users/me", controllers.GetMyProfile)
			authed.PUT("/users/me", controllers.UpdateMyProfile)

			profile := authed.Group("")
			profile.Use(middleware.RequireProfile())
			{
				profile.GET("/orders", controllers.ListMyOrders)
				profile.GET("/orders/:id", controllers.GetOrder)
				profile.POST("/orders/:id/payment-confirmation", controllers.UploadPaymentConfirmation)
				profile.GET("/loyalty/summary", controllers.GetLoyaltySummary)
				profile.POST("/products/:id/reviews", controllers.CreateProductReview)

				profile.GET("/cart", controllers.GetCart)
				profile.DELETE("/cart", controllers.ClearCart)
				profile.POST("/cart/items", controllers.AddToCart)
				profile.PUT("/cart/items/:id", controllers.UpdateCartItem)
				profile.DELETE("/cart/items/:id", controllers.RemoveFromCart)
			}
		}

		// Staff routes, gated per capability
		admin := v1.Group("/admin")
		admin.Use(middleware.EnsureValidToken(cfg))
		{
			products := admin.Group("")
			products.Use(middleware.RequireCapability(models.CapManageProducts))
			{
				products.GET("/products", controllers.AdminListProducts)
				products.POST("/products", controllers.CreateProduct)
				products.PUT("/products/:id", controllers.UpdateProduct)
				products.POST("/products/:id/image", controllers.UploadProductImage)
				products.POST("/categories", controllers.CreateCategory)
				products.PUT("/categories/:id", controllers.UpdateCategory)
			}

			deletes := admin.Group("")
			deletes.Use(middleware.RequireCapability(models.CapDeleteRecords))
			{
				deletes.DELETE("/products/:id", controllers.DeleteProduct)
				deletes.DELETE("/categories/:id", controllers.DeleteCategory)
			}

			stock := admin.Group("")
			stock.Use(middleware.RequireCapability(models.CapAdjustStock))
			{
				stock.POST("/products/:id/stock", controllers.UpdateProductStock)
				stock.GET("/products/low-stock", controllers.LowStockProducts)
			}

			orders := admin.Group("")
			orders.Use(middleware.RequireCapability(models.CapManageOrders))
			{
				orders.GET("/orders", controllers.AdminListOrders)
				orders.GET("/orders/today", controllers.TodayOrders)
				orders.GET("/orders/stats", controllers.OrderStats)
				orders.PUT("/orders/:id/status", controllers.UpdateOrderStatus)
				orders.POST("/orders/:id/verify-payment", controllers.VerifyOrderPayment)
			}

			sales := admin.Group("")
			sales.Use(middleware.RequireCapability(models.CapPhysicalSales))
			{
				sales.POST("/orders/physical", controllers.CreatePhysicalSale)
			}

			reviews := admin.Group("")
			reviews.Use(middleware.RequireCapability(models.CapModerateReviews))
			{
				reviews.GET("/site-reviews", controllers.AdminListSiteReviews)
				reviews.PUT("/site-reviews/:id", controllers.ModerateSiteReview)
			}

			contacts := admin.Group("")
			contacts.Use(middleware.RequireCapability(models.CapManageContacts))
			{
				contacts.GET("/contacts", controllers.AdminListContacts)
				contacts.PUT("/contacts/:id", controllers.AdminUpdateContact)
			}

			payroll := admin.Group("")
			payroll.Use(middleware.RequireCapability(models.CapManagePayroll))
			{
				payroll.GET("/payroll", controllers.ListWorkerPayments)
				payroll.POST("/payroll", controllers.CreateWorkerPayment)
			}

			activity := admin.Group("")
			activity.Use(middleware.RequireCapability(models.CapViewActivity))
			{
				activity.GET("/activity", controllers.ListActivityLogs)
			}
		}
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Wangari Restaurant API is running",
	})
}

// databaseStatus checks database connectivity and returns table information
func databaseStatus(c *gin.Context) {
	db := config.GetDB()

	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	var tables []string
	if err := db.Raw("SELECT tablename FROM pg_tables WHERE schemaname = 'public'").Scan(&tables).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_QUERY_ERROR",
				"message": "Failed to query tables",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"tables":  tables,
	})
}
