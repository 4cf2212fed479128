package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/SAMUELWEB11/ProyectoITPshop/internal/api/handlers"
	"github.com/SAMUELWEB11/ProyectoITPshop/internal/api/middleware"
	"github.com/SAMUELWEB11/ProyectoITPshop/internal/cartstore"
	"github.com/SAMUELWEB11/ProyectoITPshop/internal/catalog"
	"github.com/SAMUELWEB11/ProyectoITPshop/internal/checkout"
	"github.com/SAMUELWEB11/ProyectoITPshop/internal/config"
	"github.com/SAMUELWEB11/ProyectoITPshop/internal/erp"
	"github.com/SAMUELWEB11/ProyectoITPshop/internal/repository"
)

// Deps carries everything the router wires into handlers. Records is nil when
// no database is configured; the order-history route is then not mounted.
type Deps struct {
	ERP       *erp.Client
	Catalog   *catalog.Service
	Carts     cartstore.Store
	Submitter *checkout.Submitter
	Records   repository.OrderRecords
}

// NewRouter builds the gin engine with all storefront routes mounted.
func NewRouter(cfg *config.Config, deps Deps, logger *zap.Logger) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(loggingMiddleware(logger))
	router.Use(customRecovery(logger))

	// Wrong method on a known path is a 405, not a silent 404.
	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{
			"error":   "Method Not Allowed",
			"message": "This endpoint does not support " + c.Request.Method + " requests.",
		})
	})

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "itpshop-api",
			"status":  "running",
		})
	})
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	})

	// ERP proxy endpoints. Credentials never leave the server; handlers
	// answer 500 per request when the credential pair is absent.
	router.GET("/items", handlers.HandleGetItems(deps.Catalog, logger))
	router.POST("/create-customer", handlers.HandleCreateCustomer(deps.ERP, logger))
	router.POST("/create-sales-order", handlers.HandleCreateSalesOrder(deps.ERP, logger))

	v1 := router.Group("/v1")
	v1.Use(middleware.SessionMiddleware())
	{
		cart := v1.Group("/cart")
		{
			cart.GET("", handlers.HandleGetCart(deps.Carts, logger))
			cart.POST("/items", handlers.HandleAddItem(deps.Carts, logger))
			cart.PATCH("/items/:code", handlers.HandleSetQuantity(deps.Carts, logger))
			cart.DELETE("/items/:code", handlers.HandleRemoveItem(deps.Carts, logger))
			cart.DELETE("", handlers.HandleClearCart(deps.Carts, logger))
		}

		v1.POST("/checkout", handlers.HandleCheckout(deps.Submitter, logger))
		v1.GET("/checkout", handlers.HandleCheckoutState(deps.Submitter, logger))

		if deps.Records != nil {
			v1.GET("/orders", handlers.HandleListOrders(deps.Records, logger))
		}
	}

	return router
}

func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

func customRecovery(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error("Panic recovered",
			zap.Any("error", recovered),
			zap.String("path", c.Request.URL.Path),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal Server Error",
			"message": "An unexpected error occurred.",
		})
	})
}
