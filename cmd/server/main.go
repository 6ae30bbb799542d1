package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"

	"greencart_back_end/internal/config"
	"greencart_back_end/internal/database"
	addresshandler "greencart_back_end/internal/handlers/address"
	adminhandler "greencart_back_end/internal/handlers/admin"
	orderhandler "greencart_back_end/internal/handlers/order"
	producthandler "greencart_back_end/internal/handlers/product"
	sellerhandler "greencart_back_end/internal/handlers/seller"
	userhandler "greencart_back_end/internal/handlers/user"
	"greencart_back_end/internal/notify"
	"greencart_back_end/internal/payment"
	"greencart_back_end/internal/routes"
	"greencart_back_end/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Config: %v", err)
	}

	ctx := context.Background()
	db, err := database.ConnectMongo(ctx, cfg)
	if err != nil {
		log.Fatalf("❌ MongoDB: %v", err)
	}
	rdb, err := database.ConnectRedis(ctx, cfg)
	if err != nil {
		log.Fatalf("❌ Redis: %v", err)
	}

	orders := store.NewOrderStore(db)
	catalog := store.NewCatalogStore(db)
	users := store.NewUserStore(db)
	sellers := store.NewSellerStore(db)
	addresses := store.NewAddressStore(db)
	carts := store.NewCartStore(rdb)
	events := store.NewEventLedger(rdb)

	gateway := payment.NewGateway(cfg.RazorpayKeyID, cfg.RazorpayKeySecret, cfg.Currency)
	log.Println("✅ Razorpay gateway initialised")

	dispatcher := notify.NewDispatcher(notify.NewSMTPMailer(cfg), 64)
	defer dispatcher.Close()

	r := gin.Default()
	routes.Register(r, routes.Deps{
		Cfg: cfg,
		Order: &orderhandler.Handler{
			Orders:        orders,
			Catalog:       catalog,
			Users:         users,
			Carts:         carts,
			Gateway:       gateway,
			Events:        events,
			Notify:        dispatcher,
			WebhookSecret: cfg.RazorpayWebhookSecret,
		},
		User:    &userhandler.Handler{Users: users, Carts: carts, JWTSecret: cfg.JWTSecret},
		Seller:  &sellerhandler.Handler{Sellers: sellers, JWTSecret: cfg.JWTSecret},
		Admin:   &adminhandler.Handler{Cfg: cfg, Users: users, Sellers: sellers, Catalog: catalog, Orders: orders, Addresses: addresses},
		Address: &addresshandler.Handler{Addresses: addresses},
		Product: &producthandler.Handler{Catalog: catalog},
	})

	log.Println("🚀 GreenCart server listening on port", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Server: %v", err)
	}
}
