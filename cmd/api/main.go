package main

import (
	"log"
	"os"
	"time"

	_ "github.com/Eugene261/IN-N-OUT-SHOP-sub000/api/swagger" // swagger docs
	"github.com/Eugene261/IN-N-OUT-SHOP-sub000/internal/attribution"
	"github.com/Eugene261/IN-N-OUT-SHOP-sub000/internal/database"
	"github.com/Eugene261/IN-N-OUT-SHOP-sub000/internal/handler"
	"github.com/Eugene261/IN-N-OUT-SHOP-sub000/internal/middleware"
	"github.com/Eugene261/IN-N-OUT-SHOP-sub000/internal/repository"
	"github.com/Eugene261/IN-N-OUT-SHOP-sub000/internal/service"
	"github.com/Eugene261/IN-N-OUT-SHOP-sub000/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Marketplace Attribution API
// @version         1.0
// @description     Multi-vendor order attribution, shipping apportionment and revenue reporting.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	dbHost := envOr("DB_HOST", "localhost")
	dbPort := envOr("DB_PORT", "5432")
	dbUser := envOr("DB_USER", "postgres")
	dbPassword := envOr("DB_PASSWORD", "postgres")
	dbName := envOr("DB_NAME", "postgres")
	dbSslMode := envOr("DB_SSLMODE", "disable")

	dsn := "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode

	db, err := database.NewConnection(dsn)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Connected to PostgreSQL successfully.")

	cfg := loadAttributionConfig()

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	orderRepo := repository.NewOrderRepository(db)
	productRepo := repository.NewProductRepository(db)
	sellerRepo := repository.NewSellerRepository(db)
	txManager := repository.NewTransactionManager(db)

	reportService := service.NewReportService(orderRepo, productRepo, cfg, reportTimeout())
	orderService := service.NewOrderService(orderRepo, productRepo, txManager, cfg, wsHub)
	authService := service.NewAuthService(sellerRepo, middleware.GetJWTSecret(), 24*time.Hour)

	// Initialize Handlers
	reportHandler := handler.NewReportHandler(reportService)
	orderHandler := handler.NewOrderHandler(orderService)
	authHandler := handler.NewAuthHandler(authService)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:5174"} // Frontend URL
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint for seller dashboards
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// Register API Routes
	authHandler.RegisterRoutes(router.Group(""))
	orderHandler.RegisterRoutes(router.Group(""))
	reportHandler.RegisterRoutes(router.Group(""))

	port := envOr("PORT", "8080")

	log.Printf("Server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// loadAttributionConfig starts from the production constants and applies env
// overrides. Bad override values fall back to the defaults with a warning.
func loadAttributionConfig() attribution.Config {
	cfg := attribution.DefaultConfig()

	if v := os.Getenv("COMMISSION_RATE"); v != "" {
		if rate, err := decimal.NewFromString(v); err == nil && !rate.IsNegative() {
			cfg.CommissionRate = rate
		} else {
			log.Printf("WARNING: ignoring invalid COMMISSION_RATE %q", v)
		}
	}
	if v := os.Getenv("LOCAL_REGION"); v != "" {
		cfg.LocalRegion = v
	}
	if v := os.Getenv("LOCAL_SHIPPING_FEE"); v != "" {
		if fee, err := decimal.NewFromString(v); err == nil && !fee.IsNegative() {
			cfg.LocalShippingFee = fee
		} else {
			log.Printf("WARNING: ignoring invalid LOCAL_SHIPPING_FEE %q", v)
		}
	}
	if v := os.Getenv("DEFAULT_SHIPPING_FEE"); v != "" {
		if fee, err := decimal.NewFromString(v); err == nil && !fee.IsNegative() {
			cfg.DefaultShippingFee = fee
		} else {
			log.Printf("WARNING: ignoring invalid DEFAULT_SHIPPING_FEE %q", v)
		}
	}
	return cfg
}

func reportTimeout() time.Duration {
	if v := os.Getenv("REPORT_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
		log.Printf("WARNING: ignoring invalid REPORT_TIMEOUT %q", v)
	}
	return 30 * time.Second
}
