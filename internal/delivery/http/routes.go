package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/labelcheck/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, logger *slog.Logger) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware(logger))
	router.Use(LoggerMiddleware(logger))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	if cfg.RateLimit.PerIP > 0 {
		v1.Use(RateLimitMiddleware(NewIPRateLimiter(cfg.RateLimit.PerIP)))
	}
	{
		compare := v1.Group("/compare")
		{
			compare.POST("/verbage", handler.CompareVerbage)
			compare.POST("/ingredients", handler.CompareIngredients)
		}

		products := v1.Group("/products")
		{
			products.GET("", handler.ListProducts)
			products.POST("/search-by-ingredients", handler.SearchByIngredients)
		}

		scan := v1.Group("/scan")
		{
			scan.POST("/verbage", handler.ScanVerbage)
			scan.POST("/ingredients", handler.ScanIngredients)
			scan.POST("/barcode-data", handler.ScanBarcodeData)
		}

		v1.GET("/scans", handler.ListScans)
		v1.GET("/scans/:id", handler.GetScan)
	}

	return router
}
