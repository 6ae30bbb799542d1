package routes

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"greencart_back_end/internal/config"
	addresshandler "greencart_back_end/internal/handlers/address"
	adminhandler "greencart_back_end/internal/handlers/admin"
	orderhandler "greencart_back_end/internal/handlers/order"
	producthandler "greencart_back_end/internal/handlers/product"
	sellerhandler "greencart_back_end/internal/handlers/seller"
	userhandler "greencart_back_end/internal/handlers/user"
	"greencart_back_end/internal/middleware"
)

type Deps struct {
	Cfg     *config.Config
	Order   *orderhandler.Handler
	User    *userhandler.Handler
	Seller  *sellerhandler.Handler
	Admin   *adminhandler.Handler
	Address *addresshandler.Handler
	Product *producthandler.Handler
}

// Register mounts the full HTTP surface. The payment webhook is the only
// unauthenticated mutation: it carries its own signature.
func Register(r *gin.Engine, d Deps) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{d.Cfg.FrontendOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
	}))

	authUser := middleware.AuthUser(d.Cfg.JWTSecret)
	authSeller := middleware.AuthSeller(d.Cfg.JWTSecret)
	authAdmin := middleware.AuthAdmin(d.Cfg.JWTSecret, d.Cfg.AdminEmail)

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "✅ API is Working")
	})

	api := r.Group("/api")

	user := api.Group("/user")
	{
		user.POST("/register", d.User.Register)
		user.POST("/login", d.User.Login)
		user.GET("/is-auth", authUser, d.User.IsAuth)
		user.GET("/logout", authUser, d.User.Logout)
	}

	seller := api.Group("/seller")
	{
		seller.POST("/login", d.Seller.Login)
		seller.GET("/is-auth", authSeller, d.Seller.IsAuth)
		seller.GET("/logout", authSeller, d.Seller.Logout)
	}

	product := api.Group("/product")
	{
		product.GET("/list", d.Product.List)
		product.GET("/id/:id", d.Product.Get)
	}

	cart := api.Group("/cart", authUser)
	{
		cart.GET("", d.User.GetCart)
		cart.POST("/update", d.User.UpdateCart)
	}

	address := api.Group("/address", authUser)
	{
		address.POST("/add", d.Address.Add)
		address.GET("/get", d.Address.Get)
	}

	order := api.Group("/order")
	{
		order.POST("/cod", authUser, d.Order.PlaceOrderCOD)
		order.POST("/razorpay", authUser, d.Order.PlaceOrderRazorpay)
		order.POST("/razorpay/webhook", d.Order.RazorpayWebhook)
		order.GET("/user", authUser, d.Order.GetUserOrders)
		order.GET("/seller", authSeller, d.Order.GetSellerOrders)
		order.PUT("/update-status", authSeller, d.Order.UpdateOrderStatus)
	}

	admin := api.Group("/admin")
	{
		admin.POST("/login", d.Admin.Login)
		admin.GET("/logout", authAdmin, d.Admin.Logout)
		admin.GET("/check", authAdmin, d.Admin.Check)
		admin.GET("/users", authAdmin, d.Admin.GetAllUsers)
		admin.GET("/sellers", authAdmin, d.Admin.GetAllSellers)
		admin.GET("/products", authAdmin, d.Admin.GetAllProducts)
		admin.GET("/orders", authAdmin, d.Admin.GetAllOrders)
		admin.GET("/addresses", authAdmin, d.Admin.GetAllAddresses)
	}
}
