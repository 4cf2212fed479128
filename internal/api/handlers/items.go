package handlers

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/SAMUELWEB11/ProyectoITPshop/internal/catalog"
	"github.com/SAMUELWEB11/ProyectoITPshop/pkg/errors"
)

// HandleGetItems serves the product list from the catalog service.
func HandleGetItems(catalogSvc *catalog.Service, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := catalogSvc.Products(c.Request.Context())
		if err != nil {
			respondError(c, logger, err, "Failed to fetch items from ERP")
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": items})
	}
}

// respondError maps the failure taxonomy onto the proxy error contract:
// configuration 500, validation 400, upstream rejection proxied with its own
// status, network 503, timeout 504.
func respondError(c *gin.Context, logger *zap.Logger, err error, msg string) {
	var (
		validation *errors.ErrValidation
		configErr  *errors.ErrConfiguration
		upstream   *errors.ErrUpstreamRejection
	)
	switch {
	case stderrors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad Request",
			"message": validation.Error(),
		})
	case stderrors.As(err, &configErr):
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Server Configuration Error",
		})
	case stderrors.As(err, &upstream):
		c.JSON(upstream.Status, gin.H{
			"error":   msg,
			"details": upstream.Detail,
		})
	default:
		status := http.StatusServiceUnavailable
		if errors.CategoryOf(err) == errors.CategoryTimeout {
			status = http.StatusGatewayTimeout
		}
		logger.Warn("Upstream request failed", zap.Error(err))
		c.JSON(status, gin.H{
			"error":   msg,
			"details": err.Error(),
		})
	}
}
