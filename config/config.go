package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	OAuth      OAuthConfig
	Cloudinary CloudinaryConfig
	Stripe     StripeConfig
	Resend     ResendConfig
	Twilio     TwilioConfig
	Admin      AdminConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// Origin of the web app, used for CORS and checkout redirect URLs.
	AppBaseURL string
	// Requests allowed per client IP per minute.
	RateLimitPerMin int
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
	Issuer        string
}

type OAuthConfig struct {
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
}

type ResendConfig struct {
	APIKey      string
	FromAddress string
}

type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	FromNumber string
}

type AdminConfig struct {
	// Seed admin account created at boot when no admin exists.
	Email    string
	Password string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[config] .env not loaded: %v", err)
	}
	return &Config{
		Server: ServerConfig{
			Port:         env("PORT", "8080"),
			Env:          env("APP_ENV", "development"),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			AppBaseURL:      env("APP_BASE_URL", "http://localhost:3000"),
			RateLimitPerMin: envInt("RATE_LIMIT_PER_MINUTE", 100),
		},
		Database: DatabaseConfig{
			DSN:             env("DATABASE_URL", "host=localhost user=avatar password=avatar dbname=avatar port=5432 sslmode=disable TimeZone=Europe/Warsaw"),
			MaxIdleConns:    envInt("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    envInt("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: time.Hour,
		},
		JWT: JWTConfig{
			AccessSecret:  env("JWT_ACCESS_SECRET", "change-me-in-production"),
			RefreshSecret: env("JWT_REFRESH_SECRET", "change-me-refresh"),
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 168 * time.Hour,
			Issuer:        "avatarapp",
		},
		OAuth: OAuthConfig{
			GoogleClientID:     env("GOOGLE_CLIENT_ID", ""),
			GoogleClientSecret: env("GOOGLE_CLIENT_SECRET", ""),
			GoogleRedirectURL:  env("GOOGLE_REDIRECT_URL", ""),
		},
		Cloudinary: CloudinaryConfig{
			CloudName: env("CLOUDINARY_CLOUD_NAME", ""),
			APIKey:    env("CLOUDINARY_API_KEY", ""),
			APISecret: env("CLOUDINARY_API_SECRET", ""),
		},
		Stripe: StripeConfig{
			SecretKey:     env("STRIPE_SECRET_KEY", ""),
			WebhookSecret: env("STRIPE_WEBHOOK_SECRET", ""),
		},
		Resend: ResendConfig{
			APIKey:      env("RESEND_API_KEY", ""),
			FromAddress: env("RESEND_FROM", "Avatar <no-reply@avatarapp.pl>"),
		},
		Twilio: TwilioConfig{
			AccountSID: env("TWILIO_ACCOUNT_SID", ""),
			AuthToken:  env("TWILIO_AUTH_TOKEN", ""),
			FromNumber: env("TWILIO_FROM_NUMBER", ""),
		},
		Admin: AdminConfig{
			Email:    env("ADMIN_EMAIL", "admin@avatarapp.pl"),
			Password: env("ADMIN_PASSWORD", ""),
		},
	}
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
