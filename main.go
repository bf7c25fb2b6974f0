package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/freshpress/laundry-orders-api/config"
	"github.com/freshpress/laundry-orders-api/controllers"
	"github.com/freshpress/laundry-orders-api/services"
)

func main() {
	// Basic logging
	log.Println("Starting Laundry Orders API server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Apply schema migrations and seed the reference catalog
	db := config.GetDB()
	if err := config.MigrateDatabase(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	if err := services.SeedReferenceData(db); err != nil {
		log.Fatalf("Failed to seed reference data: %v", err)
	}
	log.Println("Database migration completed successfully")

	// Wire up services
	catalog := services.InitCatalogService(db)
	pricing := services.InitPricingService(catalog)
	customers := services.InitCustomerService(db)
	services.InitOrderService(db, catalog, pricing, customers)
	services.InitReportService(db)
	services.InitNotificationService(cfg)

	// Initialize Gin router
	router := setupRouter()

	// Start server
	port := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupRouter builds the router with CORS and all API routes
func setupRouter() *gin.Engine {
	router := gin.Default()
	router.Use(cors.Default())

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Health check endpoint
		v1.GET("/health", healthCheck)

		// Database status endpoint
		v1.GET("/database/status", databaseStatus)

		// Reference catalog
		v1.GET("/service-types", controllers.ListServiceTypes)
		v1.GET("/garment-types", controllers.ListGarmentTypes)

		// Customers
		v1.POST("/customers/resolve", controllers.ResolveCustomer)
		v1.GET("/customers", controllers.ListCustomers)
		v1.GET("/customers/:id", controllers.GetCustomer)

		// Orders
		v1.POST("/orders", controllers.CreateOrder)
		v1.GET("/orders", controllers.ListOrders)
		v1.GET("/orders/:id", controllers.GetOrder)
		v1.PATCH("/orders/:id", controllers.UpdateOrder)
		v1.DELETE("/orders/:id", controllers.DeleteOrder)
		v1.PUT("/orders/:id/status", controllers.UpdateOrderStatus)

		// Reporting
		v1.GET("/statistics", controllers.GetStatistics)
		v1.GET("/reports/daily-revenue", controllers.GetDailyRevenue)
		v1.GET("/reports/popular-items", controllers.GetPopularItems)
		v1.GET("/reports/sales", controllers.GetSalesReport)
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Laundry Orders API is running",
	})
}

// databaseStatus checks database connectivity and returns table information
func databaseStatus(c *gin.Context) {
	db := config.GetDB()

	// Get the underlying SQL database to check connection
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

	// Ping the database to verify connection
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

	// Get list of tables
	tables, err := db.Migrator().GetTables()
	if err != nil {
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
