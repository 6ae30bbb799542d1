package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config carries everything the server needs from the environment.
// It is loaded once in main and passed down explicitly; handlers never
// read the environment themselves.
type Config struct {
	Port           string
	FrontendOrigin string

	MongoURI string
	MongoDB  string

	RedisAddr     string
	RedisPassword string

	JWTSecret string

	// Single shared admin credential, compared at login.
	AdminEmail    string
	AdminPassword string

	RazorpayKeyID         string
	RazorpayKeySecret     string
	RazorpayWebhookSecret string
	Currency              string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPSender   string
}

// Load reads .env if present, then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found — falling back to system environment")
	} else {
		log.Println("✅ .env file loaded")
	}

	cfg := &Config{
		Port:                  getenv("PORT", "4000"),
		FrontendOrigin:        getenv("FRONTEND_ORIGIN", "http://localhost:5173"),
		MongoURI:              getenv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDB:               getenv("MONGODB_DATABASE", "greencart"),
		RedisAddr:             getenv("REDIS_HOST", "localhost:6379"),
		RedisPassword:         os.Getenv("REDIS_PASSWORD"),
		JWTSecret:             os.Getenv("JWT_SECRET"),
		AdminEmail:            os.Getenv("ADMIN_EMAIL"),
		AdminPassword:         os.Getenv("ADMIN_PASSWORD"),
		RazorpayKeyID:         os.Getenv("RAZORPAY_KEY_ID"),
		RazorpayKeySecret:     os.Getenv("RAZORPAY_KEY_SECRET"),
		RazorpayWebhookSecret: os.Getenv("RAZORPAY_WEBHOOK_SECRET"),
		Currency:              getenv("CURRENCY", "INR"),
		SMTPHost:              os.Getenv("SMTP_HOST"),
		SMTPPort:              getenvInt("SMTP_PORT", 587),
		SMTPUsername:          os.Getenv("SMTP_USERNAME"),
		SMTPPassword:          os.Getenv("SMTP_PASSWORD"),
		SMTPSender:            getenv("SMTP_SENDER", "noreply@greencart.dev"),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.RazorpayWebhookSecret == "" {
		log.Println("⚠️  RAZORPAY_WEBHOOK_SECRET not set — webhook verification will reject everything")
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("⚠️  Invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}
