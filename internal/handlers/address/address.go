// Package address manages the buyer's address book.
package address

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"greencart_back_end/internal/middleware"
	"greencart_back_end/internal/models"
	"greencart_back_end/internal/store"
)

type Handler struct {
	Addresses *store.AddressStore
}

func fail(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{"success": false, "message": message})
}

// Add stores a shipping address for the authenticated buyer.
//
// POST /api/address/add
func (h *Handler) Add(c *gin.Context) {
	var req struct {
		Address models.Address `json:"address"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Address.Street == "" {
		fail(c, "Invalid data")
		return
	}

	userID, err := primitive.ObjectIDFromHex(c.GetString(middleware.CtxUserID))
	if err != nil {
		fail(c, "Not Authorized")
		return
	}

	req.Address.UserID = userID
	if err := h.Addresses.Create(c.Request.Context(), &req.Address); err != nil {
		fail(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Address added successfully"})
}

// Get lists the buyer's addresses.
//
// GET /api/address/get
func (h *Handler) Get(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.GetString(middleware.CtxUserID))
	if err != nil {
		fail(c, "Not Authorized")
		return
	}

	addresses, err := h.Addresses.ListForUser(c.Request.Context(), userID)
	if err != nil {
		fail(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "addresses": addresses})
}
