package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test_secret"

func newRouter(guard gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", guard, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"userID":  c.GetString(CtxUserID),
		})
	})
	return r
}

func doRequest(t *testing.T, r *gin.Engine, cookie *http.Cookie) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestAuthUserAcceptsValidSession(t *testing.T) {
	token, err := IssueToken(testSecret, jwt.MapClaims{"id": "665f1c2ab7e4a21f3c9d0e22"})
	require.NoError(t, err)

	code, body := doRequest(t, newRouter(AuthUser(testSecret)), &http.Cookie{Name: UserCookie, Value: token})

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "665f1c2ab7e4a21f3c9d0e22", body["userID"])
}

func TestAuthUserRejectsMissingCookie(t *testing.T) {
	code, body := doRequest(t, newRouter(AuthUser(testSecret)), nil)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Not Authorized", body["message"])
}

func TestAuthUserRejectsForgedToken(t *testing.T) {
	forged, err := IssueToken("other_secret", jwt.MapClaims{"id": "665f1c2ab7e4a21f3c9d0e22"})
	require.NoError(t, err)

	_, body := doRequest(t, newRouter(AuthUser(testSecret)), &http.Cookie{Name: UserCookie, Value: forged})

	assert.Equal(t, false, body["success"])
}

func TestAuthAdminChecksConfiguredEmail(t *testing.T) {
	good, err := IssueToken(testSecret, jwt.MapClaims{"email": "admin@greencart.dev"})
	require.NoError(t, err)
	bad, err := IssueToken(testSecret, jwt.MapClaims{"email": "mallory@example.com"})
	require.NoError(t, err)

	guard := AuthAdmin(testSecret, "admin@greencart.dev")

	_, body := doRequest(t, newRouter(guard), &http.Cookie{Name: AdminCookie, Value: good})
	assert.Equal(t, true, body["success"])

	_, body = doRequest(t, newRouter(guard), &http.Cookie{Name: AdminCookie, Value: bad})
	assert.Equal(t, false, body["success"])
}
