package main

import (
	"log"
	"time"

	"go-pos-terminal/internal/checkout"
	"go-pos-terminal/internal/config"
	"go-pos-terminal/internal/database"
	"go-pos-terminal/internal/handlers"
	"go-pos-terminal/internal/metrics"
	"go-pos-terminal/internal/middleware"
	"go-pos-terminal/internal/realtime"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found")
	}
	config.Load()

	database.Connect()

	store := database.NewStore(database.DB)
	checkoutSvc := checkout.NewService(store, store, config.TaxRate, config.AppConfig.Store.Name)
	m := metrics.New()
	handlers.Hub = realtime.NewHub()

	r := gin.Default()
	r.Use(middleware.Metrics(m))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173"}, // terminal + admin SPA dev server
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "online"}) })
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	r.POST("/login", handlers.Login)
	r.Static("/uploads", "./uploads")

	// Terminals subscribe here for catalog changes
	r.GET("/ws/products", func(c *gin.Context) {
		handlers.Hub.Serve(c.Writer, c.Request)
	})

	// Store identity + tax rate for the terminal boot screen
	r.GET("/api/system/status", handlers.GetStoreStatus)

	// Only opens if we explicitly allow it in .env
	if config.AppConfig.Server.AllowRegistration {
		r.POST("/register", handlers.Register)
		log.Println("WARNING: Registration route is OPEN. Disable this in production!")
	} else {
		log.Println("Registration route is disabled.")
	}

	// --- PROTECTED ROUTES ---
	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware())
	{
		// CASHIER + ADMIN
		api.GET("/products", handlers.GetProducts)
		api.GET("/products/scan/:barcode", handlers.ScanProduct)
		api.POST("/checkout", handlers.ProcessCheckout(checkoutSvc, m))

		// ADMIN ONLY
		admin := api.Group("/")
		admin.Use(middleware.RequireRole("admin"))
		{
			admin.POST("/ask", handlers.AskAI)

			admin.POST("/upload", handlers.UploadImage)
			admin.POST("/products", handlers.AddProduct)
			admin.PUT("/products/:id", handlers.UpdateProduct)
			admin.DELETE("/products/:id", handlers.DeleteProduct)

			admin.POST("/cashiers", handlers.CreateCashier)
			admin.GET("/cashiers", handlers.ListCashiers)
			admin.DELETE("/cashiers/:id", handlers.SoftDeleteCashier)
			admin.POST("/cashiers/:id/restore", handlers.RestoreCashier)
			admin.DELETE("/cashiers/:id/purge", handlers.HardDeleteCashier)

			admin.GET("/reports", handlers.GetSalesReport)
			admin.GET("/reports/range", handlers.GetSalesReportRange)
			admin.GET("/reports/export", handlers.ExportTransactionsExcel)
		}
	}

	// --- DEPLOYMENT: Serve the built SPA ---
	r.Static("/assets", "./web/assets")
	r.StaticFile("/vite.svg", "./web/vite.svg")

	// SPA catch-all: refreshing on "/dashboard" should still serve index.html
	r.NoRoute(func(c *gin.Context) {
		c.File("./web/index.html")
	})

	log.Println("Server starting on " + config.AppConfig.Server.BaseURL)
	if err := r.Run(":" + config.AppConfig.Server.Port); err != nil {
		log.Fatal("Server failed to start:", err)
	}
}
