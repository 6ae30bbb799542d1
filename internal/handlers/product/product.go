// Package product serves storefront catalog reads. Prices shown here are
// informational: order pricing always re-reads the catalog server-side.
package product

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"greencart_back_end/internal/store"
)

type Handler struct {
	Catalog *store.CatalogStore
}

func fail(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{"success": false, "message": message})
}

// List returns the whole catalog.
//
// GET /api/product/list
func (h *Handler) List(c *gin.Context) {
	products, err := h.Catalog.List(c.Request.Context())
	if err != nil {
		fail(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "products": products})
}

// Get returns one product by id.
//
// GET /api/product/id/:id
func (h *Handler) Get(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		fail(c, "Invalid product id")
		return
	}

	product, err := h.Catalog.FindByID(c.Request.Context(), id)
	if err != nil {
		fail(c, "Product not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "product": product})
}
