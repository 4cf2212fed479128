package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/SAMUELWEB11/ProyectoITPshop/internal/api/middleware"
	"github.com/SAMUELWEB11/ProyectoITPshop/internal/cartstore"
	"github.com/SAMUELWEB11/ProyectoITPshop/internal/domain"
)

// AddItemRequest is the add-to-cart payload.
type AddItemRequest struct {
	Code      string  `json:"code" binding:"required"`
	Name      string  `json:"name" binding:"required"`
	UnitPrice float64 `json:"unit_price" binding:"min=0"`
	Quantity  int     `json:"quantity"`
	ImageURL  string  `json:"image_url"`
}

// SetQuantityRequest overwrites a line quantity; zero or below removes it.
type SetQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

func cartResponse(cart domain.Cart) gin.H {
	return gin.H{
		"cart":         cart,
		"total_items":  domain.TotalItems(cart),
		"total_amount": domain.Round2(domain.Total(cart)),
	}
}

// HandleGetCart returns the session's cart with derived totals.
func HandleGetCart(store cartstore.Store, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := middleware.GetSessionID(c)
		cart, err := store.Get(c.Request.Context(), sessionID)
		if err != nil {
			logger.Error("Failed to load cart", zap.Error(err), zap.String("session_id", sessionID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.JSON(http.StatusOK, cartResponse(cart))
	}
}

// HandleAddItem adds (or merges) a line into the session's cart.
func HandleAddItem(store cartstore.Store, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AddItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Bad Request",
				"message": err.Error(),
			})
			return
		}

		sessionID := middleware.GetSessionID(c)
		cart, err := store.Write(c.Request.Context(), sessionID, domain.LineItem{
			Code:      req.Code,
			Name:      req.Name,
			UnitPrice: req.UnitPrice,
			ImageURL:  req.ImageURL,
		}, req.Quantity)
		if err != nil {
			logger.Error("Failed to add cart item", zap.Error(err), zap.String("session_id", sessionID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.JSON(http.StatusOK, cartResponse(cart))
	}
}

// HandleSetQuantity overwrites the quantity of one line.
func HandleSetQuantity(store cartstore.Store, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SetQuantityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Bad Request",
				"message": "Missing quantity in request body.",
			})
			return
		}

		sessionID := middleware.GetSessionID(c)
		cart, err := store.SetQuantity(c.Request.Context(), sessionID, c.Param("code"), *req.Quantity)
		if err != nil {
			logger.Error("Failed to update cart item", zap.Error(err), zap.String("session_id", sessionID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.JSON(http.StatusOK, cartResponse(cart))
	}
}

// HandleRemoveItem removes one line from the session's cart.
func HandleRemoveItem(store cartstore.Store, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := middleware.GetSessionID(c)
		cart, err := store.Delete(c.Request.Context(), sessionID, c.Param("code"))
		if err != nil {
			logger.Error("Failed to remove cart item", zap.Error(err), zap.String("session_id", sessionID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.JSON(http.StatusOK, cartResponse(cart))
	}
}

// HandleClearCart resets the session's cart.
func HandleClearCart(store cartstore.Store, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := middleware.GetSessionID(c)
		if err := store.Clear(c.Request.Context(), sessionID); err != nil {
			logger.Error("Failed to clear cart", zap.Error(err), zap.String("session_id", sessionID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.JSON(http.StatusOK, cartResponse(domain.Cart{SessionID: sessionID}))
	}
}
