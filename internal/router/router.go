package router

import (
	"net/http"
	"time"

	"avatarapp/config"
	"avatarapp/internal/handler"
	"avatarapp/internal/middleware"
	"avatarapp/internal/repository"
	"avatarapp/internal/service"
	"avatarapp/internal/ws"
	"avatarapp/pkg/billing"
	"avatarapp/pkg/cloudinary"
	"avatarapp/pkg/mailer"
	"avatarapp/pkg/sms"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Deps carries the external clients the router wires into handlers. Any of
// them may be nil; the owning handler then answers 503 for its routes.
type Deps struct {
	Billing *billing.Client
	Mail    *mailer.Client
	SMS     *sms.Client
	Cloud   cloudinary.Client
}

func Setup(cfg *config.Config, db *gorm.DB, deps Deps) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RateLimit(middleware.NewRateLimiter(cfg.Server.RateLimitPerMin, time.Minute)))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.Server.AppBaseURL, "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	referralRepo := repository.NewReferralRepository(db)
	patientRepo := repository.NewPatientRepository(db)
	personRepo := repository.NewPersonProfileRepository(db)
	interviewRepo := repository.NewInterviewRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)
	adminRepo := repository.NewAdminRepository(db)

	feedHub := ws.NewHub()

	// Services
	authSvc := service.NewAuthService(cfg, userRepo)
	referralSvc := service.NewReferralService(userRepo, profileRepo, referralRepo)
	flowSvc := service.NewFlowService(patientRepo, personRepo, interviewRepo)
	notifSvc := service.NewNotificationService(notificationRepo, feedHub)
	outreachSvc := service.NewOutreachService(patientRepo, userRepo, profileRepo, authSvc, deps.Mail, deps.SMS)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc, referralSvc, notifSvc, auditRepo)
	googleOAuthHandler := handler.NewGoogleOAuthHandler(cfg, authSvc, referralSvc, notifSvc, auditRepo)
	referralHandler := handler.NewReferralHandler(referralSvc, profileRepo, referralRepo)
	flowHandler := handler.NewFlowHandler(flowSvc)
	profileHandler := handler.NewProfileHandler(userRepo, profileRepo, patientRepo, personRepo)
	interviewHandler := handler.NewInterviewHandler(interviewRepo, personRepo, patientRepo, profileRepo, notifSvc)
	messageHandler := handler.NewMessageHandler(profileRepo, notifSvc)
	paymentHandler := handler.NewPaymentHandler(deps.Billing, paymentRepo, userRepo, cfg)
	stripeWebhookHandler := handler.NewStripeWebhookHandler(deps.Billing, paymentRepo, patientRepo, referralSvc, auditRepo)
	adminHandler := handler.NewAdminHandler(adminRepo, patientRepo, referralRepo, notificationRepo, auditRepo, outreachSvc)
	uploadHandler := handler.NewUploadHandler(deps.Cloud, profileRepo)

	authMw := middleware.AuthRequired(&cfg.JWT)
	adminMw := middleware.AdminRequired()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().Format(time.RFC3339)})
	})

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/logout", authMw, authHandler.Logout)
			authGroup.PATCH("/change-password", authMw, authHandler.ChangePassword)
			authGroup.POST("/refresh", authHandler.Refresh)
			authGroup.GET("/google", googleOAuthHandler.Redirect)
			authGroup.GET("/google/callback", googleOAuthHandler.Callback)
			authGroup.POST("/google/token", googleOAuthHandler.Token)
		}

		// Referral edge functions keep their historical paths. post-signup is
		// unauthenticated: it runs as a fire-and-forget step of the signup
		// flow and must never block it.
		functions := api.Group("/functions")
		{
			functions.POST("/post-signup", referralHandler.PostSignup)
			functions.POST("/repair-referral", authMw, referralHandler.Repair)
		}

		api.GET("/packages", paymentHandler.ListPackages)

		me := api.Group("/me")
		me.Use(authMw)
		{
			me.GET("/profile", profileHandler.Me)
			me.PATCH("/profile", profileHandler.Update)
			me.POST("/avatar", uploadHandler.UploadAvatar)
			me.GET("/flow-status", flowHandler.Status)
			me.GET("/referrals", referralHandler.MyReferrals)
			me.GET("/payments", paymentHandler.History)
			me.GET("/profiles", profileHandler.ListPersonProfiles)
			me.POST("/profiles", profileHandler.CreatePersonProfile)
			me.PUT("/profiles/:id/primary", profileHandler.SetPrimaryPersonProfile)
			me.GET("/profiles/:id/interview", interviewHandler.Latest)
			me.PUT("/profiles/:id/interview/draft", interviewHandler.SaveDraft)
			me.POST("/profiles/:id/interview/submit", interviewHandler.Submit)
			me.POST("/questions", messageHandler.AskQuestion)
			me.POST("/support-tickets", messageHandler.OpenSupportTicket)
		}

		api.POST("/payments/checkout", authMw, paymentHandler.Checkout)
		api.POST("/webhooks/stripe", stripeWebhookHandler.Handle)

		admin := api.Group("/admin")
		admin.Use(authMw, adminMw)
		{
			admin.GET("/dashboard", adminHandler.Dashboard)
			admin.GET("/patients", adminHandler.ListPatients)
			admin.GET("/patients/export", adminHandler.ExportPatientsCSV)
			admin.POST("/outreach/sms", adminHandler.SendSMS)
			admin.POST("/outreach/email", adminHandler.SendEmail)
			admin.POST("/grants", adminHandler.GrantAccess)
			admin.GET("/notifications", adminHandler.ListNotifications)
			admin.PUT("/notifications/:id/read", adminHandler.MarkNotificationRead)
			admin.GET("/referrals", adminHandler.ListReferrals)
		}
	}

	r.GET("/ws/admin-feed", ws.UpgradeAdminFeed(&cfg.JWT, feedHub))

	return r
}
