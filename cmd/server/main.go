package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	cartapp "github.com/mercato/backend/internal/application/cart"
	catalogapp "github.com/mercato/backend/internal/application/catalog"
	identityapp "github.com/mercato/backend/internal/application/identity"
	orderapp "github.com/mercato/backend/internal/application/order"
	paymentapp "github.com/mercato/backend/internal/application/payment"
	sellerapp "github.com/mercato/backend/internal/application/seller"
	"github.com/mercato/backend/internal/domain/identity"
	"github.com/mercato/backend/internal/domain/shared"
	"github.com/mercato/backend/internal/domain/shared/valueobject"
	"github.com/mercato/backend/internal/infrastructure/auth"
	"github.com/mercato/backend/internal/infrastructure/cache"
	"github.com/mercato/backend/internal/infrastructure/config"
	"github.com/mercato/backend/internal/infrastructure/event"
	"github.com/mercato/backend/internal/infrastructure/gateway"
	"github.com/mercato/backend/internal/infrastructure/logger"
	"github.com/mercato/backend/internal/infrastructure/persistence"
	"github.com/mercato/backend/internal/infrastructure/scheduler"
	"github.com/mercato/backend/internal/infrastructure/storage"
	"github.com/mercato/backend/internal/infrastructure/telemetry"
	"github.com/mercato/backend/internal/interfaces/http/handler"
	"github.com/mercato/backend/internal/interfaces/http/middleware"
	"github.com/mercato/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	_ "github.com/mercato/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			Mercato Marketplace API
//	@version		1.0
//	@description	Multi-vendor marketplace backend with escrow-based payments
//	@termsOfService	http://swagger.io/terms/

//	@contact.name	API Support
//	@contact.url	https://github.com/mercato/backend

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting Mercato backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize OpenTelemetry tracing and metrics. Both providers are
	// no-ops when telemetry is disabled.
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Warn("Tracer provider shutdown failed", zap.Error(err))
		}
	}()

	meterProvider, err := telemetry.NewMeterProvider(context.Background(), telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := meterProvider.Shutdown(shutdownCtx); err != nil {
			log.Warn("Meter provider shutdown failed", zap.Error(err))
		}
	}()

	// Bridge zap logs to the OTLP collector alongside stdout
	loggerProvider, err := telemetry.NewLoggerProvider(context.Background(), telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := loggerProvider.Shutdown(shutdownCtx); err != nil {
			log.Warn("Logger provider shutdown failed", zap.Error(err))
		}
	}()
	if loggerProvider.IsEnabled() {
		otelCore := telemetry.NewZapOTELCore(telemetry.ZapBridgeConfig{
			ServiceName:    cfg.Telemetry.ServiceName,
			LoggerProvider: loggerProvider,
			Level:          zapcore.InfoLevel,
		})
		log = log.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
			return zapcore.NewTee(core, otelCore)
		}))
	}

	// Continuous profiling via Pyroscope (no-op when disabled)
	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:             cfg.Telemetry.ProfilerEnabled,
		ServerAddress:       cfg.Telemetry.ProfilerAddress,
		ApplicationName:     cfg.Telemetry.ServiceName,
		ProfileCPU:          true,
		ProfileAllocObjects: true,
		ProfileAllocSpace:   true,
		ProfileInuseObjects: true,
		ProfileInuseSpace:   true,
		ProfileGoroutines:   true,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize profiler", zap.Error(err))
	}
	defer func() {
		if err := profiler.Stop(); err != nil {
			log.Warn("Profiler shutdown failed", zap.Error(err))
		}
	}()

	// Create GORM logger backed by zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database", zap.Error(err))
		}
	}()

	// Register otelgorm query tracing when enabled
	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
			Enabled:         true,
			LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
			SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		}, log)
		if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
			log.Warn("Failed to register database tracing", zap.Error(err))
		}
	}

	// Initialize repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	cartRepo := persistence.NewGormCartRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	returnRepo := persistence.NewGormReturnRequestRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	refundRepo := persistence.NewGormRefundRepository(db.DB)
	escrowRepo := persistence.NewGormEscrowRepository(db.DB)
	commissionRuleRepo := persistence.NewGormCommissionRuleRepository(db.DB)
	commissionRecordRepo := persistence.NewGormCommissionRecordRepository(db.DB)
	settlementRepo := persistence.NewGormSettlementRepository(db.DB)
	payoutRepo := persistence.NewGormPayoutRepository(db.DB)
	profileRepo := persistence.NewGormSellerProfileRepository(db.DB)
	kycRepo := persistence.NewGormKYCSubmissionRepository(db.DB)

	// JWT service and token blacklist. Redis backs the blacklist in
	// normal operation; an in-memory fallback keeps logout working when
	// Redis is unreachable (tokens revive on restart).
	jwtService := auth.NewJWTService(cfg.JWT)

	var tokenBlacklist auth.TokenBlacklist
	redisBlacklist, err := auth.NewRedisTokenBlacklist(auth.RedisTokenBlacklistConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn("Redis token blacklist unavailable, using in-memory fallback", zap.Error(err))
		tokenBlacklist = auth.NewInMemoryTokenBlacklist()
	} else {
		tokenBlacklist = redisBlacklist
	}

	// Payment gateway client (charges, refunds, payout transfers)
	paymentGateway, err := gateway.NewHTTPGateway(&cfg.Gateway, log)
	if err != nil {
		log.Fatal("Failed to initialize payment gateway client", zap.Error(err))
	}

	// S3-compatible object storage for KYC documents
	documentStore, err := storage.NewS3ObjectStorage(&cfg.Storage)
	if err != nil {
		log.Fatal("Failed to initialize object storage", zap.Error(err))
	}

	shippingFee, err := valueobject.NewMoney(
		decimal.NewFromFloat(cfg.Marketplace.ShippingFee),
		valueobject.Currency(cfg.Marketplace.Currency),
	)
	if err != nil {
		log.Fatal("Invalid shipping fee configuration", zap.Error(err))
	}

	// Initialize application services
	authService := identityapp.NewAuthService(userRepo, jwtService, tokenBlacklist, log)
	userService := identityapp.NewUserService(userRepo, log)
	categoryService := catalogapp.NewCategoryService(categoryRepo, log)
	productService := catalogapp.NewProductService(productRepo, categoryRepo, profileRepo, log)
	cartService := cartapp.NewCartService(cartRepo, productRepo, log)
	orderService := orderapp.NewOrderService(orderRepo, cartRepo, productRepo, paymentRepo, shippingFee, log)
	returnService := orderapp.NewReturnService(returnRepo, orderRepo, log)
	paymentService := paymentapp.NewPaymentService(
		paymentRepo, orderRepo, productRepo, escrowRepo,
		commissionRecordRepo, commissionRuleRepo, paymentGateway, log,
	)
	refundService := paymentapp.NewRefundService(
		refundRepo, paymentRepo, escrowRepo, commissionRecordRepo,
		returnRepo, paymentGateway, log,
	)
	commissionService := paymentapp.NewCommissionService(commissionRuleRepo, log)
	settlementService := paymentapp.NewSettlementService(settlementRepo, escrowRepo, log)
	payoutService := paymentapp.NewPayoutService(payoutRepo, escrowRepo, profileRepo, paymentGateway, log)
	onboardingService := sellerapp.NewOnboardingService(profileRepo, kycRepo, log)
	kycService := sellerapp.NewKYCService(kycRepo, profileRepo, documentStore, log)

	// Initialize event bus and cross-context handlers:
	// payment captured -> order transitions to PAID
	// order completed -> escrow released to the seller
	// return received -> refund initiated against the payment
	// seller approved -> user role promoted to SELLER
	// seller suspended -> active listings deactivated
	eventBus := event.NewInMemoryEventBus(log)

	paymentCapturedHandler := orderapp.NewPaymentCapturedHandler(orderRepo, log)
	orderCompletedHandler := paymentapp.NewOrderCompletedHandler(escrowRepo, log)
	returnReceivedHandler := paymentapp.NewReturnReceivedHandler(refundService, log)
	sellerApprovedHandler := identityapp.NewSellerApprovedHandler(userService, log)
	sellerSuspendedHandler := catalogapp.NewSellerSuspendedHandler(productRepo, log)
	paymentCapturedHandler.SetEventPublisher(eventBus)
	orderCompletedHandler.SetEventPublisher(eventBus)

	// Handlers are wrapped with idempotency so redelivered events are
	// acknowledged without reapplying their effects. Redis backs the
	// dedup store, with in-memory fallback for development.
	idempotencyStore, err := cache.NewIdempotencyStoreFactory(
		cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(true),
	).CreateStore()
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}

	wrappedHandlers := event.WrapHandlersWithIdempotency(
		[]shared.EventHandler{
			paymentCapturedHandler, orderCompletedHandler, returnReceivedHandler,
			sellerApprovedHandler, sellerSuspendedHandler,
		},
		idempotencyStore,
		log,
	)
	for _, h := range wrappedHandlers {
		eventBus.Subscribe(h)
	}

	// Start event bus
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Failed to stop event bus", zap.Error(err))
		}
	}()

	// Inject event bus into services that publish events
	authService.SetEventPublisher(eventBus)
	userService.SetEventPublisher(eventBus)
	productService.SetEventPublisher(eventBus)
	orderService.SetEventPublisher(eventBus)
	returnService.SetEventPublisher(eventBus)
	paymentService.SetEventPublisher(eventBus)
	refundService.SetEventPublisher(eventBus)
	settlementService.SetEventPublisher(eventBus)
	payoutService.SetEventPublisher(eventBus)
	onboardingService.SetEventPublisher(eventBus)
	kycService.SetEventPublisher(eventBus)

	// Background jobs: payout dispatch, refund gateway pushes, delivered
	// order auto-completion, and monthly settlement generation
	if cfg.Scheduler.Enabled {
		sched := scheduler.New(scheduler.Config{
			Enabled:           cfg.Scheduler.Enabled,
			MaxConcurrentJobs: cfg.Scheduler.MaxConcurrentJobs,
			JobTimeout:        cfg.Scheduler.JobTimeout,
		}, log)

		sched.Every(cfg.Scheduler.PayoutInterval, scheduler.NewPayoutDispatchJob(payoutService, cfg.Scheduler.PayoutBatchLimit))
		sched.Every(cfg.Scheduler.RefundInterval, scheduler.NewRefundProcessingJob(refundService, cfg.Scheduler.RefundBatchLimit))
		sched.Every(cfg.Scheduler.AutoCompleteInterval, scheduler.NewOrderAutoCompleteJob(orderService, cfg.Scheduler.AutoCompleteLimit))
		if err := sched.Cron(cfg.Scheduler.SettlementCron, scheduler.NewSettlementGenerationJob(settlementService)); err != nil {
			log.Fatal("Invalid settlement cron schedule", zap.Error(err))
		}

		if err := sched.Start(context.Background()); err != nil {
			log.Fatal("Failed to start scheduler", zap.Error(err))
		}
		defer func() {
			if err := sched.Stop(context.Background()); err != nil {
				log.Error("Failed to stop scheduler", zap.Error(err))
			}
		}()
		log.Info("Scheduler started",
			zap.Duration("payout_interval", cfg.Scheduler.PayoutInterval),
			zap.String("settlement_cron", cfg.Scheduler.SettlementCron),
		)
	}

	// Business metrics (held escrow per seller, pending refunds)
	if cfg.Telemetry.Enabled {
		businessMetrics, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
			Meter:          meterProvider.Meter("mercato.business"),
			Logger:         log,
			EscrowProvider: persistence.NewEscrowMetricsProvider(db.DB),
		})
		if err != nil {
			log.Warn("Failed to initialize business metrics", zap.Error(err))
		} else {
			businessMetrics.StartPeriodicCollection(context.Background(), 5*time.Minute)
			defer businessMetrics.Stop()
		}
	}

	// Initialize HTTP handlers
	authHandler := handler.NewAuthHandler(authService, userService)
	userHandler := handler.NewUserHandler(userService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	productHandler := handler.NewProductHandler(productService)
	cartHandler := handler.NewCartHandler(cartService)
	orderHandler := handler.NewOrderHandler(orderService)
	returnHandler := handler.NewReturnHandler(returnService)
	paymentHandler := handler.NewPaymentHandler(paymentService, refundService)
	webhookHandler := handler.NewWebhookHandler(paymentService)
	commissionHandler := handler.NewCommissionHandler(commissionService)
	settlementHandler := handler.NewSettlementHandler(settlementService)
	payoutHandler := handler.NewPayoutHandler(payoutService)
	sellerHandler := handler.NewSellerHandler(onboardingService)
	kycHandler := handler.NewKYCHandler(kycService)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	// 6. BodyLimit - Limit request body size
	// 7. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Rate limiting (if enabled)
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// HTTP request tracing and metrics
	if cfg.Telemetry.Enabled {
		engine.Use(middleware.Tracing())
		engine.Use(middleware.HTTPMetricsWithMeter(meterProvider.Meter("mercato.http"), true))
	}
	if cfg.Telemetry.ProfilerEnabled {
		engine.Use(middleware.Profiling())
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	// Swagger documentation endpoint
	if cfg.Swagger.Enabled {
		swaggerGuard := middleware.SwaggerProtection(middleware.SwaggerConfig{
			Enabled:     cfg.Swagger.Enabled,
			RequireAuth: cfg.Swagger.RequireAuth,
			AllowedIPs:  cfg.Swagger.AllowedIPs,
		}, middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
			JWTService:     jwtService,
			TokenBlacklist: tokenBlacklist,
			Logger:         log,
		}))
		engine.GET("/swagger/*any", swaggerGuard, ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Payment gateway webhook endpoint (no authentication; HMAC verified
	// by the handler)
	engine.POST("/api/v1/webhooks/gateway", webhookHandler.HandleGateway)

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Apply JWT authentication middleware to API routes
	// Configure skip paths for public endpoints
	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: tokenBlacklist,
		SkipPaths: []string{
			"/api/v1/auth/register",
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
			"/api/v1/ping",
			"/api/v1/system/ping",
			"/api/v1/system/info",
		},
		SkipPathPrefixes: []string{
			"/api/v1/catalog",
			"/api/v1/stores",
			"/api/v1/webhooks",
		},
		Logger: log,
	}
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	// Stricter rate limit for credential endpoints
	authLimit := func(c *gin.Context) { c.Next() }
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		authLimit = middleware.RateLimit(authLimiter)
	}

	// Auth routes (register/login/refresh are public via skip paths)
	authRoutes := router.NewDomainGroup("auth", "/auth")
	authRoutes.POST("/register", authLimit, authHandler.Register)
	authRoutes.POST("/login", authLimit, authHandler.Login)
	authRoutes.POST("/refresh", authLimit, authHandler.RefreshToken)
	authRoutes.POST("/logout", authHandler.Logout)
	authRoutes.GET("/me", authHandler.GetCurrentUser)
	authRoutes.PUT("/password", authHandler.ChangePassword)

	// Public catalog browsing
	catalogRoutes := router.NewDomainGroup("catalog", "/catalog")
	catalogRoutes.GET("/products", productHandler.ListActive)
	catalogRoutes.GET("/products/:id", productHandler.GetByID)
	catalogRoutes.GET("/categories", categoryHandler.List)
	catalogRoutes.GET("/categories/:id", categoryHandler.GetByID)

	// Public storefront pages
	storeRoutes := router.NewDomainGroup("stores", "/stores")
	storeRoutes.GET("/:slug", sellerHandler.GetStore)

	// Buyer profile
	userRoutes := router.NewDomainGroup("users", "/users")
	userRoutes.PUT("/me", userHandler.UpdateProfile)

	// Cart routes
	cartRoutes := router.NewDomainGroup("cart", "/cart")
	cartRoutes.GET("", cartHandler.Get)
	cartRoutes.DELETE("", cartHandler.Clear)
	cartRoutes.POST("/items", cartHandler.AddItem)
	cartRoutes.PUT("/items/:id", cartHandler.UpdateItem)
	cartRoutes.DELETE("/items/:id", cartHandler.RemoveItem)

	// Buyer order routes
	orderRoutes := router.NewDomainGroup("orders", "/orders")
	orderRoutes.POST("/checkout", orderHandler.Checkout)
	orderRoutes.GET("", orderHandler.ListMine)
	orderRoutes.GET("/:id", orderHandler.GetByID)
	orderRoutes.POST("/:id/cancel", orderHandler.Cancel)
	orderRoutes.POST("/:id/confirm-delivery", orderHandler.ConfirmDelivery)
	orderRoutes.POST("/:id/complete", orderHandler.Complete)
	orderRoutes.GET("/:id/payments", paymentHandler.ListOrderPayments)

	// Return request routes (buyer side)
	returnRoutes := router.NewDomainGroup("returns", "/returns")
	returnRoutes.POST("", returnHandler.Request)
	returnRoutes.GET("", returnHandler.ListMine)
	returnRoutes.GET("/:id", returnHandler.GetByID)
	returnRoutes.POST("/:id/ship-back", returnHandler.MarkShippedBack)
	returnRoutes.POST("/:id/messages", returnHandler.PostMessage)

	// Payment routes (buyer side)
	paymentRoutes := router.NewDomainGroup("payments", "/payments")
	paymentRoutes.POST("/charge", paymentHandler.StartCharge)
	paymentRoutes.GET("/:id", paymentHandler.GetByID)
	paymentRoutes.GET("/:id/refunds", paymentHandler.ListPaymentRefunds)

	refundRoutes := router.NewDomainGroup("refunds", "/refunds")
	refundRoutes.GET("/:id", paymentHandler.GetRefund)

	// Seller routes. Onboarding and KYC are reachable by any
	// authenticated user since applicants hold the BUYER role until
	// approval; store management requires the SELLER role.
	sellerRoutes := router.NewDomainGroup("seller", "/seller")
	sellerRoutes.POST("/profile", sellerHandler.Apply)
	sellerRoutes.GET("/profile", sellerHandler.GetMyProfile)
	sellerRoutes.PUT("/profile", sellerHandler.UpdateStore)
	sellerRoutes.PUT("/profile/bank-account", sellerHandler.UpdateBankAccount)
	sellerRoutes.POST("/kyc/documents", kycHandler.Submit)
	sellerRoutes.GET("/kyc/documents", kycHandler.ListMine)
	sellerRoutes.POST("/kyc/documents/:id/resubmit", kycHandler.Resubmit)

	sellingRoutes := sellerRoutes.Group("selling", "")
	sellingRoutes.Use(middleware.RequireRole(identity.RoleSeller.String(), identity.RoleAdmin.String()))
	sellingRoutes.POST("/products", productHandler.Create)
	sellingRoutes.GET("/products", productHandler.ListMine)
	sellingRoutes.PUT("/products/:id", productHandler.Update)
	sellingRoutes.PUT("/products/:id/price", productHandler.ChangePrice)
	sellingRoutes.POST("/products/:id/stock", productHandler.AdjustStock)
	sellingRoutes.POST("/products/:id/submit", productHandler.SubmitForReview)
	sellingRoutes.POST("/products/:id/archive", productHandler.Archive)
	sellingRoutes.GET("/orders", orderHandler.ListSellerOrders)
	sellingRoutes.POST("/orders/:id/items/:item_id/ship", orderHandler.ShipLine)
	sellingRoutes.GET("/returns", returnHandler.ListSellerReturns)
	sellingRoutes.POST("/returns/:id/approve", returnHandler.Approve)
	sellingRoutes.POST("/returns/:id/reject", returnHandler.Reject)
	sellingRoutes.POST("/returns/:id/confirm-received", returnHandler.ConfirmReceived)
	sellingRoutes.GET("/escrow", paymentHandler.ListMyEscrow)
	sellingRoutes.GET("/settlements", settlementHandler.ListMine)
	sellingRoutes.GET("/settlements/:id", settlementHandler.GetByID)
	sellingRoutes.GET("/payouts", payoutHandler.ListMine)
	sellingRoutes.GET("/payouts/:id", payoutHandler.GetByID)

	// Admin routes
	adminRoutes := router.NewDomainGroup("admin", "/admin")
	adminRoutes.Use(middleware.RequireRole(identity.RoleAdmin.String()))
	adminRoutes.GET("/users", userHandler.List)
	adminRoutes.GET("/users/:id", userHandler.GetByID)
	adminRoutes.POST("/users/:id/promote", userHandler.PromoteToSeller)
	adminRoutes.POST("/users/:id/suspend", userHandler.Suspend)
	adminRoutes.POST("/users/:id/reactivate", userHandler.Reactivate)
	adminRoutes.DELETE("/users/:id", userHandler.Delete)
	adminRoutes.POST("/categories", categoryHandler.Create)
	adminRoutes.PUT("/categories/:id", categoryHandler.Update)
	adminRoutes.POST("/categories/:id/activate", categoryHandler.Activate)
	adminRoutes.POST("/categories/:id/deactivate", categoryHandler.Deactivate)
	adminRoutes.DELETE("/categories/:id", categoryHandler.Delete)
	adminRoutes.GET("/products/review", productHandler.ListReviewQueue)
	adminRoutes.POST("/products/:id/approve", productHandler.Approve)
	adminRoutes.POST("/products/:id/reject", productHandler.Reject)
	adminRoutes.GET("/sellers", sellerHandler.List)
	adminRoutes.GET("/sellers/pending", sellerHandler.ListPending)
	adminRoutes.GET("/sellers/:id", sellerHandler.GetProfile)
	adminRoutes.POST("/sellers/:id/approve", sellerHandler.Approve)
	adminRoutes.POST("/sellers/:id/suspend", sellerHandler.Suspend)
	adminRoutes.POST("/sellers/:id/reinstate", sellerHandler.Reinstate)
	adminRoutes.GET("/kyc/review-queue", kycHandler.ReviewQueue)
	adminRoutes.POST("/kyc/documents/:id/claim", kycHandler.Claim)
	adminRoutes.POST("/kyc/documents/:id/approve", kycHandler.Approve)
	adminRoutes.POST("/kyc/documents/:id/reject", kycHandler.Reject)
	adminRoutes.GET("/kyc/documents/:id/url", kycHandler.DocumentURL)
	adminRoutes.POST("/commission-rules", commissionHandler.Create)
	adminRoutes.GET("/commission-rules", commissionHandler.List)
	adminRoutes.GET("/commission-rules/:id", commissionHandler.GetByID)
	adminRoutes.POST("/commission-rules/:id/disable", commissionHandler.Disable)
	adminRoutes.POST("/commission-rules/:id/expire", commissionHandler.Expire)
	adminRoutes.POST("/settlements/generate", settlementHandler.Generate)
	adminRoutes.GET("/settlements", settlementHandler.List)
	adminRoutes.POST("/settlements/:id/finalize", settlementHandler.Finalize)
	adminRoutes.POST("/settlements/:id/pay", settlementHandler.MarkPaid)
	adminRoutes.GET("/orders/:id/escrow", paymentHandler.ListOrderEscrow)
	adminRoutes.POST("/payouts/batches", payoutHandler.ScheduleBatch)
	adminRoutes.GET("/payouts/batches/:id", payoutHandler.ListBatch)
	adminRoutes.POST("/returns/:id/close", returnHandler.Close)

	// Register all domain groups
	r.Register(authRoutes).
		Register(catalogRoutes).
		Register(storeRoutes).
		Register(userRoutes).
		Register(cartRoutes).
		Register(orderRoutes).
		Register(returnRoutes).
		Register(paymentRoutes).
		Register(refundRoutes).
		Register(sellerRoutes).
		Register(adminRoutes)

	// Register system routes with swagger-documented handlers
	systemHandler := handler.NewSystemHandler()
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)
	r.Register(systemRoutes)

	// Setup routes
	r.Setup()

	// Also keep a simple ping at root API level for basic health checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
