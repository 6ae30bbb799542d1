// Package middleware guards routes with the cookie sessions issued at
// login: one cookie per audience (buyer, seller, admin).
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Context keys populated by the guards.
const (
	CtxUserID   = "userID"
	CtxSellerID = "sellerID"
)

func notAuthorized(c *gin.Context) {
	// Business failures ride a 200 envelope; callers check the flag.
	c.JSON(http.StatusOK, gin.H{"success": false, "message": "Not Authorized"})
	c.Abort()
}

// AuthUser requires a valid buyer session and injects the buyer id.
func AuthUser(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Cookie(UserCookie)
		if err != nil {
			notAuthorized(c)
			return
		}

		claims, err := parseToken(secret, cookie)
		if err != nil {
			notAuthorized(c)
			return
		}

		id, ok := claims["id"].(string)
		if !ok || id == "" {
			notAuthorized(c)
			return
		}

		c.Set(CtxUserID, id)
		c.Next()
	}
}

// AuthSeller requires a valid seller session and injects the seller id.
func AuthSeller(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Cookie(SellerCookie)
		if err != nil {
			notAuthorized(c)
			return
		}

		claims, err := parseToken(secret, cookie)
		if err != nil {
			notAuthorized(c)
			return
		}

		id, ok := claims["id"].(string)
		if !ok || id == "" {
			notAuthorized(c)
			return
		}

		c.Set(CtxSellerID, id)
		c.Next()
	}
}

// AuthAdmin requires the admin session: a token whose email claim matches
// the configured admin credential.
func AuthAdmin(secret, adminEmail string) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Cookie(AdminCookie)
		if err != nil {
			notAuthorized(c)
			return
		}

		claims, err := parseToken(secret, cookie)
		if err != nil {
			notAuthorized(c)
			return
		}

		if email, ok := claims["email"].(string); !ok || email != adminEmail {
			notAuthorized(c)
			return
		}

		c.Next()
	}
}
