package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/SAMUELWEB11/ProyectoITPshop/internal/api/middleware"
	"github.com/SAMUELWEB11/ProyectoITPshop/internal/checkout"
	"github.com/SAMUELWEB11/ProyectoITPshop/pkg/errors"
)

// CheckoutRequest optionally names the ERP customer; when absent the
// configured default customer is used.
type CheckoutRequest struct {
	Customer string `json:"customer"`
}

// HandleCheckout drives the submitter for the session's cart. The submitter
// always resolves to a result; the HTTP status follows the result category.
func HandleCheckout(submitter *checkout.Submitter, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CheckoutRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{
					"error":   "Bad Request",
					"message": "Malformed checkout payload.",
				})
				return
			}
		}

		sessionID := middleware.GetSessionID(c)
		result := submitter.Submit(c.Request.Context(), sessionID, req.Customer)

		if result.Success {
			c.JSON(http.StatusOK, gin.H{
				"message":    "Sales Order created successfully",
				"order_name": result.OrderName,
				"result":     result,
			})
			return
		}

		c.JSON(checkoutStatus(result.Category), gin.H{
			"error":   "Checkout failed",
			"details": result.ErrorDetail,
			"result":  result,
		})
	}
}

// HandleCheckoutState reports the session's checkout phase so a client can
// poll while a submission is in flight.
func HandleCheckoutState(submitter *checkout.Submitter, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := middleware.GetSessionID(c)
		c.JSON(http.StatusOK, gin.H{"state": submitter.State(sessionID)})
	}
}

func checkoutStatus(category string) int {
	switch errors.Category(category) {
	case errors.CategoryValidation:
		return http.StatusBadRequest
	case errors.CategoryConfiguration:
		return http.StatusInternalServerError
	case errors.CategoryUpstream:
		return http.StatusBadGateway
	case errors.CategoryTimeout:
		return http.StatusGatewayTimeout
	case errors.CategoryNetwork:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
