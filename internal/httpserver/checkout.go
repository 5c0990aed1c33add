package httpserver

import (
	"net/http"
	"time"

	"herbstore/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type checkoutResponse struct {
	Reference string            `json:"reference"`
	Items     []domain.LineItem `json:"items"`
	Subtotal  float64           `json:"subtotal"`
	ItemCount int               `json:"itemCount"`
	Savings   float64           `json:"savings"`
	Total     float64           `json:"total"`
	CreatedAt time.Time         `json:"createdAt"`
}

// checkoutHandler snapshots the cart as an order summary for the external
// payment flow and clears it. Pricing here is a client-side convenience
// total, not an authoritative charge amount.
func checkoutHandler(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	items := sess.Cart.Items()
	if len(items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cart is empty"})
		return
	}
	resp := checkoutResponse{
		Reference: uuid.NewString(),
		Items:     items,
		Subtotal:  sess.Cart.Subtotal(),
		ItemCount: sess.Cart.ItemCount(),
		Savings:   sess.Cart.Savings(),
		Total:     sess.Cart.Total(),
		CreatedAt: time.Now().UTC(),
	}
	if !finiteAggregates(resp.Subtotal, resp.Total) {
		sess.Cart.Clear()
		c.JSON(http.StatusConflict, gin.H{"error": "cart_reset"})
		return
	}
	sess.Cart.Clear()
	c.JSON(http.StatusOK, resp)
}
