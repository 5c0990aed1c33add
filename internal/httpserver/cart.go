package httpserver

import (
	"errors"
	"math"
	"net/http"

	"herbstore/internal/cart"
	"herbstore/internal/domain"

	"github.com/gin-gonic/gin"
)

type cartView struct {
	Items        []domain.LineItem `json:"items"`
	Subtotal     float64           `json:"subtotal"`
	ItemCount    int               `json:"itemCount"`
	Savings      float64           `json:"savings"`
	Total        float64           `json:"total"`
	Notification cart.Notification `json:"notification"`
	Error        string            `json:"error,omitempty"`
}

// cartPayload renders the cart. It is the consuming layer's circuit
// breaker: a non-finite subtotal or total means persisted state slipped
// past validation, so the cart is cleared and the reset surfaced.
func cartPayload(store *cart.Store) cartView {
	subtotal := store.Subtotal()
	total := store.Total()
	if !finiteAggregates(subtotal, total) {
		store.Clear()
		return cartView{
			Items:        store.Items(),
			Subtotal:     store.Subtotal(),
			ItemCount:    store.ItemCount(),
			Savings:      store.Savings(),
			Total:        store.Total(),
			Notification: store.Notification(),
			Error:        "cart_reset",
		}
	}
	return cartView{
		Items:        store.Items(),
		Subtotal:     subtotal,
		ItemCount:    store.ItemCount(),
		Savings:      store.Savings(),
		Total:        total,
		Notification: store.Notification(),
	}
}

func finiteAggregates(subtotal, total float64) bool {
	if math.IsNaN(subtotal) || math.IsInf(subtotal, 0) {
		return false
	}
	return !math.IsNaN(total) && !math.IsInf(total, 0)
}

func getCartHandler(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, cartPayload(sess.Cart))
}

type addItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Size      string `json:"size" binding:"required"`
	Quantity  int    `json:"quantity"`
}

func addCartItemHandler(products CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := mustSession(c)
		if !ok {
			return
		}
		var req addItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "productId and size required"})
			return
		}
		if req.Quantity == 0 {
			req.Quantity = 1
		}
		p, err := products.Get(c.Request.Context(), req.ProductID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "catalog unavailable"})
			return
		}
		variant := p.VariantBySize(req.Size)
		if variant == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown size"})
			return
		}
		sess.Cart.AddItem(*p, variant, req.Quantity)
		c.JSON(http.StatusOK, cartPayload(sess.Cart))
	}
}

type updateItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Size      string `json:"size" binding:"required"`
	Quantity  *int   `json:"quantity" binding:"required"`
}

func updateCartItemHandler(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "productId, size and quantity required"})
		return
	}
	sess.Cart.UpdateQuantity(req.ProductID, req.Size, *req.Quantity)
	c.JSON(http.StatusOK, cartPayload(sess.Cart))
}

func removeCartItemHandler(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	sess.Cart.RemoveItem(c.Param("productId"), c.Param("size"))
	c.JSON(http.StatusOK, cartPayload(sess.Cart))
}

func clearCartHandler(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	sess.Cart.Clear()
	c.JSON(http.StatusOK, cartPayload(sess.Cart))
}
