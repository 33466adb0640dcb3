package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/facilpersianas/blindquote/internal/api/handlers"
	"github.com/facilpersianas/blindquote/internal/config"
	"github.com/facilpersianas/blindquote/internal/metrics"
)

// Dependencies are the services behind the HTTP handlers
type Dependencies struct {
	Catalog handlers.FamilyCatalog
	Pricer  handlers.Pricer
	Orders  handlers.DraftSubmitter
}

// NewRouter creates and configures the Gin router
func NewRouter(cfg *config.Config, deps Dependencies, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(customRecovery(logger))
	router.Use(loggingMiddleware(logger))
	router.Use(metrics.PrometheusMiddleware())

	// Root: friendly response so GET / returns 200 instead of 404
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "Blind Quote API",
			"endpoints": []string{
				"GET /health",
				"GET /metrics",
				"GET /v1/catalog/families",
				"GET /v1/catalog/families/options?title=",
				"POST /v1/catalog/refresh",
				"GET /v1/quotes/sellers",
				"POST /v1/quotes/items",
				"POST /v1/quotes/items/select-family",
				"POST /v1/quotes/price",
				"POST /v1/quotes/submit",
			},
		})
	})

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes
	v1 := router.Group("/v1")
	{
		catalog := v1.Group("/catalog")
		{
			catalog.GET("/families", handlers.HandleListFamilies(deps.Catalog, logger))
			catalog.GET("/families/options", handlers.HandleFamilyOptions(deps.Catalog, cfg.Pricing.CordSideLabels, logger))
			catalog.POST("/refresh", handlers.HandleRefreshCatalog(deps.Catalog, logger))
		}

		quotes := v1.Group("/quotes")
		{
			quotes.GET("/sellers", handlers.HandleListSellers(cfg.Sellers))
			quotes.POST("/items", handlers.HandleNewItem())
			quotes.POST("/items/select-family", handlers.HandleSelectFamily(deps.Catalog, logger))
			quotes.POST("/price", handlers.HandlePriceQuote(deps.Pricer, logger))
			quotes.POST("/submit", handlers.HandleSubmitQuote(deps.Orders, cfg.Sellers, logger))
		}
	}

	return router
}

// customRecovery is a custom recovery middleware that logs panics
func customRecovery(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error("Panic recovered",
			zap.Any("error", recovered),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal server error",
			"details": fmt.Sprintf("%v", recovered),
		})
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
