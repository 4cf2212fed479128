package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/SAMUELWEB11/ProyectoITPshop/internal/erp"
)

// CreateCustomerRequest is the customer creation payload.
type CreateCustomerRequest struct {
	CustomerName string `json:"customer_name" binding:"required"`
	CustomerType string `json:"customer_type"`
	EmailID      string `json:"email_id"`
}

// HandleCreateCustomer forwards a Customer document to the ERP with the
// server-held credentials attached.
func HandleCreateCustomer(erpClient *erp.Client, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateCustomerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Bad Request",
				"message": "Missing customer data (customer_name) in request body.",
			})
			return
		}

		created, err := erpClient.CreateCustomer(c.Request.Context(), erp.CustomerDoc{
			CustomerName: req.CustomerName,
			CustomerType: req.CustomerType,
			EmailID:      req.EmailID,
		})
		if err != nil {
			respondError(c, logger, err, "Failed to create Customer in ERP")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":  "Customer created successfully",
			"customer": created,
		})
	}
}
