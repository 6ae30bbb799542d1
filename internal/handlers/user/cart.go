package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"greencart_back_end/internal/middleware"
)

func primitiveID(hex string) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(hex)
}

// GetCart returns the buyer's cart as a productID → quantity map.
//
// GET /api/cart
func (h *Handler) GetCart(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserID)

	cart, err := h.Carts.Get(c.Request.Context(), userID)
	if err != nil {
		fail(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "cartItems": cart})
}

// UpdateCart replaces the buyer's stored cart. The cart is client-owned
// state; pricing never trusts it.
//
// POST /api/cart/update
func (h *Handler) UpdateCart(c *gin.Context) {
	var req struct {
		CartItems map[string]int `json:"cartItems"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.CartItems == nil {
		fail(c, "Invalid data")
		return
	}

	userID := c.GetString(middleware.CtxUserID)
	if err := h.Carts.Set(c.Request.Context(), userID, req.CartItems); err != nil {
		fail(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Cart Updated"})
}
