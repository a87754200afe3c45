package router

import (
	"time"

	"medicore/config"
	"medicore/internal/domain"
	"medicore/internal/handler"
	"medicore/internal/middleware"
	"medicore/internal/repository"
	"medicore/internal/service"
	"medicore/internal/ws"
	"medicore/pkg/cloudinary"
	"medicore/pkg/insurance"
	"medicore/pkg/notify"
	"medicore/pkg/payment"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Setup wires repositories, services and handlers onto the HTTP surface.
// The PaymentService is returned so main can drive the maintenance sweep.
func Setup(cfg *config.Config, db *gorm.DB, cloud cloudinary.Client) (*gin.Engine, *service.PaymentService) {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	// Skip gin.Logger() to reduce log noise; use gin.Default() if you need request logging
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(100, 60*time.Second)))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	patientRepo := repository.NewPatientRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	controlNumberRepo := repository.NewControlNumberRepository(db)
	claimRepo := repository.NewClaimRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	hub := ws.NewHub()

	// Provider adapters: real gateways when configured, deterministic
	// stubs otherwise so development deployments work end to end.
	callbackURL := cfg.MobileMoney.WebhookBaseURL + "/api/v1/webhooks/payments"
	providers := map[string]payment.Provider{}
	if cfg.MobileMoney.BaseURL != "" {
		providers["mobile_money"] = payment.NewMobileMoneyProvider(
			cfg.MobileMoney.BaseURL, cfg.MobileMoney.Email, cfg.MobileMoney.Password, cfg.Payment.WebhookSecret)
	} else {
		providers["mobile_money"] = &payment.StubProvider{ProviderName: "mobile_money"}
	}
	var issuer service.NumberIssuer
	if cfg.Bank.BaseURL != "" {
		bank := payment.NewBankProvider(cfg.Bank.BaseURL, cfg.Bank.APIKey, cfg.Payment.WebhookSecret)
		providers["bank"] = bank
		issuer = bank
	} else {
		providers["bank"] = &payment.StubProvider{ProviderName: "bank"}
	}

	var gateway service.ClaimGateway
	if cfg.Insurance.BaseURL != "" && cfg.Insurance.TokenURL != "" {
		gateway = insurance.NewClient(cfg.Insurance.BaseURL, cfg.Insurance.TokenURL,
			cfg.Insurance.ClientID, cfg.Insurance.ClientSecret)
	}
	var channel notify.Channel
	if cfg.SMS.BaseURL != "" {
		channel = notify.NewSMSGateway(cfg.SMS.BaseURL, cfg.SMS.APIKey, cfg.SMS.SenderID)
	}

	// Services
	authSvc := service.NewAuthService(cfg, userRepo)
	notifSvc := service.NewNotificationService(notificationRepo, userRepo, hub)
	paymentSvc := service.NewPaymentService(&cfg.Payment,
		invoiceRepo, paymentRepo, controlNumberRepo, claimRepo, patientRepo, auditRepo,
		providers, issuer, gateway, notifSvc, channel, cloud, callbackURL)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	patientHandler := handler.NewPatientHandler(patientRepo)
	billingHandler := handler.NewBillingHandler(invoiceRepo, patientRepo, paymentSvc, &cfg.Payment)
	paymentHandler := handler.NewPaymentHandler(paymentSvc)
	controlNumberHandler := handler.NewControlNumberHandler(paymentSvc)
	claimHandler := handler.NewClaimHandler(paymentSvc)
	notificationHandler := handler.NewNotificationHandler(notifSvc, userRepo)
	inventoryHandler := handler.NewInventoryHandler(inventoryRepo, notifSvc)
	webhookHandler := handler.NewPaymentWebhookHandler(cfg, paymentSvc,
		providers["mobile_money"], providers["bank"])
	jobsHandler := handler.NewJobsHandler(paymentSvc)

	authMw := middleware.AuthRequired(&cfg.JWT)
	adminMw := middleware.AdminRequired(&cfg.Admin)
	staff := middleware.RequireRole(domain.RoleAdmin, domain.RoleManager, domain.RoleDoctor, domain.RoleLabTechnician)
	billing := middleware.RequireRole(domain.RoleAdmin, domain.RoleManager)

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
			authGroup.POST("/staff", authMw, adminMw, authHandler.CreateStaff)
		}

		patients := api.Group("/patients")
		patients.Use(authMw, staff)
		{
			patients.POST("", patientHandler.Create)
			patients.GET("", patientHandler.List)
			patients.GET("/:id", patientHandler.Get)
			patients.PATCH("/:id", patientHandler.Update)
		}

		invoices := api.Group("/invoices")
		invoices.Use(authMw, billing)
		{
			invoices.POST("", billingHandler.Create)
			invoices.GET("", billingHandler.List)
			invoices.GET("/:id", billingHandler.Get)
			invoices.POST("/:id/void", billingHandler.Void)
			invoices.POST("/:id/mark-paid", adminMw, billingHandler.MarkPaid)
		}
		api.GET("/reports/overdue", authMw, billing, billingHandler.OverdueReport)

		api.POST("/payments/initiate", authMw, paymentHandler.Initiate)
		api.GET("/payments/status/:reference", authMw, paymentHandler.Status)

		controlNumbers := api.Group("/control-numbers")
		controlNumbers.Use(authMw, billing)
		{
			controlNumbers.POST("", controlNumberHandler.Generate)
			controlNumbers.POST("/:id/cancel", controlNumberHandler.Cancel)
			controlNumbers.POST("/:id/reissue", controlNumberHandler.Reissue)
		}

		claims := api.Group("/insurance-claims")
		claims.Use(authMw, billing)
		{
			claims.POST("", claimHandler.Submit)
			claims.POST("/:id/documents", claimHandler.AttachDocument)
		}

		notifications := api.Group("/notifications")
		notifications.Use(authMw)
		{
			notifications.POST("", notificationHandler.Create)
			notifications.GET("", notificationHandler.List)
			notifications.PUT("/:id/read", notificationHandler.MarkRead)
		}

		inventory := api.Group("/inventory")
		inventory.Use(authMw, staff)
		{
			inventory.POST("", inventoryHandler.Create)
			inventory.GET("", inventoryHandler.List)
			inventory.POST("/:id/adjust", inventoryHandler.Adjust)
		}

		api.POST("/webhooks/payments", webhookHandler.Handle)
		api.POST("/jobs/overdue", authMw, adminMw, jobsHandler.RunOverdueSweep)
	}

	r.GET("/ws/events", ws.UpgradeEventsWS(&cfg.JWT, hub))

	return r, paymentSvc
}
