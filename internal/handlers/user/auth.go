// Package user serves buyer accounts: registration, login and the cart.
package user

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"greencart_back_end/internal/middleware"
	"greencart_back_end/internal/models"
	"greencart_back_end/internal/store"
)

type Handler struct {
	Users     *store.UserStore
	Carts     *store.CartStore
	JWTSecret string
}

func fail(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{"success": false, "message": message})
}

func (h *Handler) setSession(c *gin.Context, userID string) error {
	token, err := middleware.IssueToken(h.JWTSecret, jwt.MapClaims{"id": userID})
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.UserCookie, token, middleware.CookieMaxAge(), "/", "", false, true)
	return nil
}

// Register creates a buyer account and opens a session.
//
// POST /api/user/register
func (h *Handler) Register(c *gin.Context) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" || req.Email == "" || req.Password == "" {
		fail(c, "Missing Details")
		return
	}

	if _, err := h.Users.FindByEmail(c.Request.Context(), req.Email); err == nil {
		fail(c, "User already exists")
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		fail(c, err.Error())
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		fail(c, err.Error())
		return
	}

	user := &models.User{Name: req.Name, Email: req.Email, Password: string(hashed)}
	if err := h.Users.Create(c.Request.Context(), user); err != nil {
		fail(c, err.Error())
		return
	}

	if err := h.setSession(c, user.ID.Hex()); err != nil {
		fail(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": gin.H{"email": user.Email, "name": user.Name}})
}

// Login verifies credentials and opens a session.
//
// POST /api/user/login
func (h *Handler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		fail(c, "Email and password are required")
		return
	}

	user, err := h.Users.FindByEmail(c.Request.Context(), req.Email)
	if err != nil {
		fail(c, "Invalid email or password")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		fail(c, "Invalid email or password")
		return
	}

	if err := h.setSession(c, user.ID.Hex()); err != nil {
		fail(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": gin.H{"email": user.Email, "name": user.Name}})
}

// IsAuth returns the authenticated buyer with their cart.
//
// GET /api/user/is-auth
func (h *Handler) IsAuth(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserID)
	oid, err := primitiveID(userID)
	if err != nil {
		fail(c, "Not Authorized")
		return
	}

	user, err := h.Users.FindByID(c.Request.Context(), oid)
	if err != nil {
		fail(c, "Not Authorized")
		return
	}

	cart, err := h.Carts.Get(c.Request.Context(), userID)
	if err != nil {
		cart = map[string]int{}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": gin.H{
		"email":     user.Email,
		"name":      user.Name,
		"cartItems": cart,
	}})
}

// Logout clears the session cookie.
//
// GET /api/user/logout
func (h *Handler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.UserCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged Out"})
}
