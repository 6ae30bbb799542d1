// Package seller serves the seller console session.
package seller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"greencart_back_end/internal/middleware"
	"greencart_back_end/internal/store"
)

type Handler struct {
	Sellers   *store.SellerStore
	JWTSecret string
}

func fail(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{"success": false, "message": message})
}

// Login verifies seller credentials and opens a seller session.
//
// POST /api/seller/login
func (h *Handler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		fail(c, "Email and password are required")
		return
	}

	seller, err := h.Sellers.FindByEmail(c.Request.Context(), req.Email)
	if err != nil {
		fail(c, "Invalid Credentials")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(seller.Password), []byte(req.Password)) != nil {
		fail(c, "Invalid Credentials")
		return
	}

	token, err := middleware.IssueToken(h.JWTSecret, jwt.MapClaims{
		"id":    seller.ID.Hex(),
		"email": seller.Email,
	})
	if err != nil {
		fail(c, err.Error())
		return
	}

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.SellerCookie, token, middleware.CookieMaxAge(), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged In"})
}

// IsAuth confirms a live seller session.
//
// GET /api/seller/is-auth
func (h *Handler) IsAuth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Logout clears the seller session cookie.
//
// GET /api/seller/logout
func (h *Handler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.SellerCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged Out"})
}
