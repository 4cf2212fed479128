package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/SAMUELWEB11/ProyectoITPshop/internal/api/middleware"
	"github.com/SAMUELWEB11/ProyectoITPshop/internal/domain"
	"github.com/SAMUELWEB11/ProyectoITPshop/internal/repository"
)

// HandleListOrders returns the session's checkout history from the
// order-record mirror, newest first. Only mounted when a database is wired.
func HandleListOrders(records repository.OrderRecords, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := 20
		if raw := c.Query("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 {
				c.JSON(http.StatusBadRequest, gin.H{
					"error":   "Bad Request",
					"message": "limit must be a positive integer.",
				})
				return
			}
			limit = n
		}

		sessionID := middleware.GetSessionID(c)
		orders, err := records.ListBySession(c.Request.Context(), sessionID, limit)
		if err != nil {
			logger.Error("Failed to list order records", zap.Error(err), zap.String("session_id", sessionID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		if orders == nil {
			orders = []*domain.OrderRecord{}
		}
		c.JSON(http.StatusOK, gin.H{"orders": orders})
	}
}
