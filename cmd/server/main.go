package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"avatarapp/config"
	"avatarapp/internal/database"
	"avatarapp/internal/router"
	"avatarapp/pkg/billing"
	"avatarapp/pkg/cloudinary"
	"avatarapp/pkg/mailer"
	"avatarapp/pkg/sms"
)

func main() {
	cfg := config.Load()
	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	database.SeedAdmin(db, &cfg.Admin)

	deps := router.Deps{}
	if cfg.Stripe.SecretKey != "" {
		deps.Billing = billing.NewClient(cfg.Stripe.SecretKey, cfg.Stripe.WebhookSecret)
	} else {
		log.Printf("[stripe] payments disabled: set STRIPE_SECRET_KEY to enable")
	}
	deps.Mail = mailer.NewClient(cfg.Resend.APIKey, cfg.Resend.FromAddress)
	if deps.Mail == nil {
		log.Printf("[mail] email disabled: set RESEND_API_KEY to enable")
	}
	deps.SMS = sms.NewClient(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, cfg.Twilio.FromNumber)
	if deps.SMS == nil {
		log.Printf("[sms] sms disabled: set TWILIO_ACCOUNT_SID / TWILIO_AUTH_TOKEN to enable")
	}
	if cfg.Cloudinary.CloudName != "" {
		cloud, err := cloudinary.NewClientFromParams(cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret)
		if err != nil {
			log.Fatalf("cloudinary: %v", err)
		}
		deps.Cloud = cloud
	} else {
		log.Printf("[cloudinary] uploads disabled: set CLOUDINARY_CLOUD_NAME to enable")
	}

	engine := router.Setup(cfg, db, deps)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		log.Printf("server listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("server shutdown:", err)
	}
	log.Println("server stopped")
}
