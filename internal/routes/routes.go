// Package routes defines the API routing configuration.
// It wires repositories, services, and handlers together and groups
// routes by functionality with the appropriate middleware.
package routes

import (
	"context"
	"log"

	"agromart/internal/config"
	"agromart/internal/gateway/paystack"
	"agromart/internal/handlers"
	"agromart/internal/middleware"
	"agromart/internal/models"
	"agromart/internal/repositories"
	"agromart/internal/services/auth"
	"agromart/internal/services/community"
	"agromart/internal/services/kyc"
	"agromart/internal/services/notification"
	"agromart/internal/services/order"
	"agromart/internal/services/payment"
	"agromart/internal/services/product"
	"agromart/internal/services/rfq"
	"agromart/internal/services/user"
	"agromart/internal/services/wallet"
	"agromart/internal/storage"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SetupRoutes configures all application routes and returns the order
// service so the caller can hand it to the background scheduler.
func SetupRoutes(app *fiber.App, db *gorm.DB) order.Service {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db, repositories.CacheService)
	walletRepo := repositories.NewWalletRepository(db, repositories.CacheService)
	ledgerRepo := repositories.NewLedgerRepository(db)
	productRepo := repositories.NewProductRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	kycRepo := repositories.NewKYCRepository(db)
	communityRepo := repositories.NewCommunityRepository(db)
	rfqRepo := repositories.NewRFQRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)

	// Payment gateway client
	paystackSecret := config.GetEnv("PAYSTACK_SECRET_KEY", "")
	if paystackSecret == "" {
		log.Println("Warning: PAYSTACK_SECRET_KEY is not set, gateway calls will fail")
	}
	gateway := paystack.NewClient(config.GetEnv("PAYSTACK_BASE_URL", paystack.DefaultBaseURL), paystackSecret)

	// Initialize services in dependency order
	walletService := wallet.NewService(walletRepo, ledgerRepo)
	notificationService := notification.NewService(notificationRepo)
	authService := auth.NewService(userRepo)
	userService := user.NewService(userRepo, walletService)
	productService := product.NewService(productRepo, userRepo, repositories.CacheService)
	orderService := order.NewService(
		orderRepo,
		productRepo,
		userRepo,
		ledgerRepo,
		walletService,
		gateway,
		notificationService,
		order.Config{
			PlatformFeeRate:     config.GetFloatEnv("PLATFORM_FEE_RATE", 0.05),
			AgentCommissionRate: config.GetFloatEnv("AGENT_COMMISSION_RATE", 0.02),
		},
	)
	paymentService := payment.NewService(
		userRepo,
		walletRepo,
		ledgerRepo,
		orderRepo,
		rfqRepo,
		walletService,
		gateway,
		notificationService,
		payment.Config{
			PreferredDVABank: config.GetEnv("PAYSTACK_DVA_BANK", "wema-bank"),
		},
	)
	kycService := kyc.NewService(kycRepo, userRepo, notificationService)
	communityService := community.NewService(communityRepo)
	rfqService := rfq.NewService(rfqRepo, userRepo, walletService, gateway, rfq.Config{
		ListingFee: config.GetFloatEnv("RFQ_LISTING_FEE", 500),
	})

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService, walletService)
	walletHandler := handlers.NewWalletHandler(walletService, paymentService)
	productHandler := handlers.NewProductHandler(productService)
	orderHandler := handlers.NewOrderHandler(orderService)
	kycHandler := handlers.NewKYCHandler(kycService)
	communityHandler := handlers.NewCommunityHandler(communityService)
	rfqHandler := handlers.NewRFQHandler(rfqService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	agentHandler := handlers.NewAgentHandler(userRepo, orderRepo, ledgerRepo)
	adminHandler := handlers.NewAdminHandler(userRepo, orderRepo, ledgerRepo, kycService, orderService)
	webhookHandler := handlers.NewPaystackWebhookHandler(paymentService, paystackSecret)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Welcome to AgroMart API",
			"version": "1.0.0",
			"docs":    "/api",
		})
	})
	app.Get("/health", handlers.HealthCheck)

	api := app.Group("/api")

	// Public endpoints (no auth required)
	api.Post("/auth/register", userHandler.Register)
	api.Post("/auth/login", authHandler.Login)
	api.Post("/auth/refresh", authHandler.RefreshToken)
	api.Post("/paystack/webhook", webhookHandler.Handle)

	// Marketplace browsing is public
	api.Get("/products", productHandler.List)
	api.Get("/products/:id", productHandler.Get)

	authMiddleware := middleware.NewAuthMiddleware(authService)
	protected := api.Use(authMiddleware.Handler)

	// Account
	protected.Post("/auth/logout", authHandler.Logout)
	protected.Post("/auth/change-password", authHandler.ChangePassword)
	protected.Get("/users/me", userHandler.GetProfile)
	protected.Put("/users/me", userHandler.UpdateProfile)
	protected.Post("/users/attach-agent", userHandler.AttachAgent)

	// KYC
	protected.Post("/kyc", kycHandler.Submit)
	protected.Get("/kyc", kycHandler.Status)

	// Wallet
	walletGroup := protected.Group("/wallet")
	walletGroup.Get("/", middleware.HasPermission(models.PermissionWalletRead), walletHandler.GetWallet)
	walletGroup.Get("/history", middleware.HasPermission(models.PermissionWalletRead), walletHandler.History)
	walletGroup.Post("/topup", middleware.HasPermission(models.PermissionWalletWrite), walletHandler.Topup)
	walletGroup.Post("/withdraw", middleware.HasPermission(models.PermissionWalletWrite), walletHandler.Withdraw)
	walletGroup.Post("/bank-details", middleware.HasPermission(models.PermissionWalletWrite), walletHandler.SubmitBankDetails)
	walletGroup.Post("/virtual-account", middleware.HasPermission(models.PermissionWalletWrite), walletHandler.RequestDVA)

	// Listings (writes require a seller-capable account, enforced in the service)
	protected.Post("/products", middleware.HasPermission(models.PermissionProductWrite), productHandler.Create)
	protected.Put("/products/:id", middleware.HasPermission(models.PermissionProductWrite), productHandler.Update)
	protected.Delete("/products/:id", middleware.HasPermission(models.PermissionProductWrite), productHandler.Delete)

	// Orders
	orderGroup := protected.Group("/orders")
	orderGroup.Post("/", middleware.HasPermission(models.PermissionOrderWrite), orderHandler.Checkout)
	orderGroup.Get("/", middleware.HasPermission(models.PermissionOrderRead), orderHandler.ListMine)
	orderGroup.Get("/:id", middleware.HasPermission(models.PermissionOrderRead), orderHandler.Get)
	orderGroup.Post("/:id/deliver", middleware.HasPermission(models.PermissionOrderWrite), orderHandler.MarkDelivered)
	orderGroup.Post("/:id/confirm", middleware.HasPermission(models.PermissionOrderWrite), orderHandler.ConfirmReceipt)
	orderGroup.Post("/:id/cancel", middleware.HasPermission(models.PermissionOrderWrite), orderHandler.Cancel)

	// Requests for quotation
	rfqGroup := protected.Group("/rfq")
	rfqGroup.Post("/", rfqHandler.Create)
	rfqGroup.Get("/", rfqHandler.ListOpen)
	rfqGroup.Get("/mine", rfqHandler.ListMine)
	rfqGroup.Get("/:id", rfqHandler.Get)
	rfqGroup.Post("/:id/close", rfqHandler.Close)
	rfqGroup.Post("/:id/quotes", rfqHandler.SubmitQuote)
	rfqGroup.Get("/:id/quotes", rfqHandler.ListQuotes)

	// Communities
	communityGroup := protected.Group("/communities")
	communityGroup.Post("/", middleware.HasPermission(models.PermissionCommunityWrite), communityHandler.Create)
	communityGroup.Get("/", communityHandler.List)
	communityGroup.Get("/:id", communityHandler.Get)
	communityGroup.Post("/:id/join", communityHandler.Join)
	communityGroup.Post("/:id/leave", communityHandler.Leave)
	communityGroup.Post("/:id/posts", middleware.HasPermission(models.PermissionCommunityWrite), communityHandler.CreatePost)
	communityGroup.Get("/:id/posts", communityHandler.Feed)
	postGroup := protected.Group("/posts")
	postGroup.Delete("/:postID", communityHandler.DeletePost)
	postGroup.Post("/:postID/comments", middleware.HasPermission(models.PermissionCommunityWrite), communityHandler.Comment)
	postGroup.Get("/:postID/comments", communityHandler.ListComments)
	postGroup.Post("/:postID/like", communityHandler.Like)
	postGroup.Delete("/:postID/like", communityHandler.Unlike)

	// Notifications
	protected.Get("/notifications", notificationHandler.List)
	protected.Post("/notifications/:id/read", notificationHandler.MarkRead)
	protected.Post("/notifications/read-all", notificationHandler.MarkAllRead)

	// Object storage presigning, only when R2 credentials are configured
	if accountID := config.GetEnv("R2_ACCOUNT_ID", ""); accountID == "" {
		log.Println("Object storage disabled: R2_ACCOUNT_ID is not set")
	} else if store, err := storage.New(context.Background(), storage.Config{
		AccountID:       accountID,
		AccessKeyID:     config.GetEnv("R2_ACCESS_KEY_ID", ""),
		SecretAccessKey: config.GetEnv("R2_SECRET_ACCESS_KEY", ""),
		Bucket:          config.GetEnv("R2_BUCKET", "agromart-media"),
	}); err != nil {
		log.Printf("Object storage disabled: %v", err)
	} else {
		uploadHandler := handlers.NewUploadHandler(store)
		protected.Post("/upload/presign", uploadHandler.PresignUpload)
		protected.Get("/upload/presign-download", uploadHandler.PresignDownload)
	}

	// Agent portal
	agentGroup := protected.Group("/agent")
	agentGroup.Get("/farmers", agentHandler.ListFarmers)
	agentGroup.Get("/orders", agentHandler.ListOrders)
	agentGroup.Get("/commissions", agentHandler.Commissions)

	// Back office
	admin := api.Group("/admin", authMiddleware.Handler, middleware.AdminOnly)
	admin.Get("/users", adminHandler.ListUsers)
	admin.Get("/orders", adminHandler.ListOrders)
	admin.Get("/transactions", adminHandler.ListTransactions)
	admin.Get("/kyc", adminHandler.KYCQueue)
	admin.Post("/kyc/:id/review", adminHandler.ReviewKYC)
	admin.Post("/orders/:id/halt", adminHandler.HaltOrder)
	admin.Post("/orders/:id/release", adminHandler.ReleaseOrder)
	admin.Post("/orders/:id/retry-payout", adminHandler.RetryPayout)
	admin.Get("/stats", adminHandler.Stats)

	return orderService
}
