package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/SAMUELWEB11/ProyectoITPshop/internal/domain"
	"github.com/SAMUELWEB11/ProyectoITPshop/internal/erp"
)

// HandleCreateSalesOrder is the raw proxy endpoint: it accepts a bare Sales
// Order document, validates the required fields and relays it to the ERP.
// The checkout flow (/v1/checkout) is the storefront path; this endpoint
// exists for callers that already build their own order documents.
func HandleCreateSalesOrder(erpClient *erp.Client, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req domain.OrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Bad Request",
				"message": "Malformed Sales Order payload.",
			})
			return
		}
		if req.Customer == "" || len(req.Items) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Bad Request",
				"message": "Missing required fields (customer or items) in payload.",
			})
			return
		}

		doc, err := erpClient.CreateSalesOrder(c.Request.Context(), req)
		if err != nil {
			respondError(c, logger, err, "Failed to create Sales Order in ERP")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":     "Sales Order created successfully",
			"sales_order": doc,
		})
	}
}
