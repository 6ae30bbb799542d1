package middleware

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenTTL = 7 * 24 * time.Hour

// Session cookie names per audience.
const (
	UserCookie   = "token"
	SellerCookie = "sellerToken"
	AdminCookie  = "adminToken"
)

// IssueToken signs a session token with the given claims.
func IssueToken(secret string, claims jwt.MapClaims) (string, error) {
	claims["exp"] = time.Now().Add(tokenTTL).Unix()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// CookieMaxAge matches the token lifetime, in seconds.
func CookieMaxAge() int {
	return int(tokenTTL.Seconds())
}

func parseToken(secret, tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}
