// Package admin serves the oversight console: a single configured
// credential and read-only listings across every collection.
package admin

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"greencart_back_end/internal/config"
	"greencart_back_end/internal/middleware"
	"greencart_back_end/internal/models"
	"greencart_back_end/internal/store"
)

type Handler struct {
	Cfg       *config.Config
	Users     *store.UserStore
	Sellers   *store.SellerStore
	Catalog   *store.CatalogStore
	Orders    *store.OrderStore
	Addresses *store.AddressStore
}

func respond(c *gin.Context, status int, success bool, message string, data gin.H) {
	body := gin.H{"success": success, "message": message}
	for k, v := range data {
		body[k] = v
	}
	c.JSON(status, body)
}

// Login compares against the configured admin credential and opens the
// admin session. The only non-webhook endpoint that reports failure with a
// real status code, as the original console expects 401 here.
//
// POST /api/admin/login
func (h *Handler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusUnauthorized, false, "Invalid Admin Credentials", nil)
		return
	}

	if req.Email != h.Cfg.AdminEmail || req.Password != h.Cfg.AdminPassword {
		respond(c, http.StatusUnauthorized, false, "Invalid Admin Credentials", nil)
		return
	}

	token, err := middleware.IssueToken(h.Cfg.JWTSecret, jwt.MapClaims{"email": req.Email})
	if err != nil {
		respond(c, http.StatusInternalServerError, false, "Server Error", nil)
		return
	}

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.AdminCookie, token, middleware.CookieMaxAge(), "/", "", false, true)
	respond(c, http.StatusOK, true, "Admin Logged In Successfully", nil)
}

// Logout clears the admin session cookie.
//
// GET /api/admin/logout
func (h *Handler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.AdminCookie, "", -1, "/", "", false, true)
	respond(c, http.StatusOK, true, "Admin Logged Out Successfully", nil)
}

// Check confirms a live admin session.
//
// GET /api/admin/check
func (h *Handler) Check(c *gin.Context) {
	respond(c, http.StatusOK, true, "Admin Authorized", nil)
}

// GetAllUsers lists every buyer account.
//
// GET /api/admin/users
func (h *Handler) GetAllUsers(c *gin.Context) {
	users, err := h.Users.List(c.Request.Context())
	if err != nil {
		respond(c, http.StatusInternalServerError, false, "Failed to Fetch Users", nil)
		return
	}
	respond(c, http.StatusOK, true, "All Users Fetched", gin.H{"users": users})
}

// GetAllSellers lists every seller account.
//
// GET /api/admin/sellers
func (h *Handler) GetAllSellers(c *gin.Context) {
	sellers, err := h.Sellers.List(c.Request.Context())
	if err != nil {
		respond(c, http.StatusInternalServerError, false, "Failed to Fetch Sellers", nil)
		return
	}
	respond(c, http.StatusOK, true, "All Sellers Fetched", gin.H{"sellers": sellers})
}

// GetAllProducts lists the catalog with seller names attached.
//
// GET /api/admin/products
func (h *Handler) GetAllProducts(c *gin.Context) {
	products, err := h.Catalog.List(c.Request.Context())
	if err != nil {
		respond(c, http.StatusInternalServerError, false, "Failed to Fetch Products", nil)
		return
	}

	sellers, err := h.Sellers.List(c.Request.Context())
	if err != nil {
		respond(c, http.StatusInternalServerError, false, "Failed to Fetch Products", nil)
		return
	}
	names := make(map[primitive.ObjectID]string, len(sellers))
	for _, s := range sellers {
		names[s.ID] = s.Name
	}

	type productRow struct {
		ID         primitive.ObjectID `json:"_id"`
		Name       string             `json:"name"`
		Category   string             `json:"category"`
		Price      float64            `json:"price"`
		OfferPrice float64            `json:"offerPrice"`
		InStock    bool               `json:"inStock"`
		SellerName string             `json:"sellerName"`
	}
	rows := make([]productRow, 0, len(products))
	for _, p := range products {
		rows = append(rows, productRow{
			ID: p.ID, Name: p.Name, Category: p.Category,
			Price: p.Price, OfferPrice: p.OfferPrice, InStock: p.InStock,
			SellerName: names[p.SellerID],
		})
	}
	respond(c, http.StatusOK, true, "All Products Fetched", gin.H{"products": rows})
}

// GetAllOrders lists every order with its shipping address flattened to a
// single line.
//
// GET /api/admin/orders
func (h *Handler) GetAllOrders(c *gin.Context) {
	orders, err := h.Orders.ListAll(c.Request.Context())
	if err != nil {
		respond(c, http.StatusInternalServerError, false, "Failed to Fetch Orders", nil)
		return
	}

	type orderRow struct {
		ID            primitive.ObjectID `json:"_id"`
		UserID        primitive.ObjectID `json:"userId"`
		Amount        float64            `json:"amount"`
		Cart          []models.OrderItem `json:"cart"`
		PaymentMethod string             `json:"paymentMethod"`
		ShippingInfo  gin.H              `json:"shippingInfo"`
		OrderStatus   string             `json:"orderStatus"`
		CreatedAt     time.Time          `json:"createdAt"`
	}
	rows := make([]orderRow, 0, len(orders))
	for _, o := range orders {
		row := orderRow{
			ID: o.ID, UserID: o.UserID, Amount: o.Amount,
			Cart: o.Items, PaymentMethod: o.PaymentType,
			OrderStatus: o.OrderStatus, CreatedAt: o.CreatedAt,
		}
		if o.ShippingAddress != nil {
			row.ShippingInfo = gin.H{"address": o.ShippingAddress.Line()}
		}
		rows = append(rows, row)
	}
	respond(c, http.StatusOK, true, "All Orders Fetched", gin.H{"orders": rows})
}

// GetAllAddresses merges buyer address books and seller contact addresses.
//
// GET /api/admin/addresses
func (h *Handler) GetAllAddresses(c *gin.Context) {
	users, err := h.Users.List(c.Request.Context())
	if err != nil {
		respond(c, http.StatusInternalServerError, false, "Failed to Fetch Addresses", nil)
		return
	}
	sellers, err := h.Sellers.List(c.Request.Context())
	if err != nil {
		respond(c, http.StatusInternalServerError, false, "Failed to Fetch Addresses", nil)
		return
	}
	addresses, err := h.Addresses.List(c.Request.Context())
	if err != nil {
		respond(c, http.StatusInternalServerError, false, "Failed to Fetch Addresses", nil)
		return
	}

	byUser := make(map[primitive.ObjectID]string, len(addresses))
	for i := range addresses {
		if _, ok := byUser[addresses[i].UserID]; !ok {
			byUser[addresses[i].UserID] = addresses[i].Line()
		}
	}

	type row struct {
		ID      primitive.ObjectID `json:"id"`
		Role    string             `json:"role"`
		Name    string             `json:"name"`
		Email   string             `json:"email"`
		Address string             `json:"address,omitempty"`
	}
	rows := make([]row, 0, len(users)+len(sellers))
	for _, u := range users {
		rows = append(rows, row{ID: u.ID, Role: "User", Name: u.Name, Email: u.Email, Address: byUser[u.ID]})
	}
	for _, s := range sellers {
		rows = append(rows, row{ID: s.ID, Role: "Seller", Name: s.Name, Email: s.Email, Address: s.Address})
	}
	respond(c, http.StatusOK, true, "All Addresses Fetched", gin.H{"addresses": rows})
}
