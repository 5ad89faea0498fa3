package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	billingapp "github.com/spicedepot/backend/internal/application/billing"
	catalogapp "github.com/spicedepot/backend/internal/application/catalog"
	inventoryapp "github.com/spicedepot/backend/internal/application/inventory"
	"github.com/spicedepot/backend/internal/domain/shared"
	"github.com/spicedepot/backend/internal/infrastructure/cache"
	"github.com/spicedepot/backend/internal/infrastructure/config"
	"github.com/spicedepot/backend/internal/infrastructure/logger"
	"github.com/spicedepot/backend/internal/infrastructure/persistence"
	"github.com/spicedepot/backend/internal/infrastructure/storage"
	"github.com/spicedepot/backend/internal/interfaces/http/dto"
	"github.com/spicedepot/backend/internal/interfaces/http/handler"
	"github.com/spicedepot/backend/internal/interfaces/http/middleware"
	"github.com/spicedepot/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting spice depot backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	if err := db.AutoMigrate(); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}
	log.Info("Database connected")

	// Cache-backed components, with in-memory fallback when Redis is off
	cacheFactory := cache.NewFactory(cfg.Redis, log)
	defer func() {
		if err := cacheFactory.Close(); err != nil {
			log.Error("Error closing Redis client", zap.Error(err))
		}
	}()
	idempotencyStore := cacheFactory.IdempotencyStore()
	priceCache := cacheFactory.PriceCache()

	// Receipt storage: S3-compatible when a bucket is configured, local disk
	// otherwise
	var receiptStorage billingapp.ObjectStorage
	if cfg.Storage.Bucket != "" {
		s3Storage, err := storage.NewS3ReceiptStorage(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize receipt storage", zap.Error(err))
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := s3Storage.EnsureBucket(ctx); err != nil {
			log.Fatal("Failed to ensure storage bucket", zap.Error(err))
		}
		cancel()
		receiptStorage = s3Storage
		log.Info("Using S3 receipt storage", zap.String("bucket", cfg.Storage.Bucket))
	} else {
		localStorage, err := storage.NewLocalReceiptStorage(cfg.Storage.LocalDir)
		if err != nil {
			log.Fatal("Failed to initialize local receipt storage", zap.Error(err))
		}
		receiptStorage = localStorage
		log.Info("Using local receipt storage", zap.String("dir", cfg.Storage.LocalDir))
	}

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	batchRepo := persistence.NewGormBatchRepository(db.DB)
	distributionRepo := persistence.NewGormDistributionRepository(db.DB)
	reminderRepo := persistence.NewGormReminderRepository(db.DB)

	// Application services
	productService := catalogapp.NewProductService(productRepo, batchRepo, priceCache, log)
	batchService := inventoryapp.NewBatchService(batchRepo, productRepo, log)
	distributionService := billingapp.NewDistributionService(distributionRepo, reminderRepo, productRepo, batchRepo, idempotencyStore, log)
	distributionService.SetIdempotencyConfig(shared.IdempotencyConfig{
		TTL:     cfg.Billing.IdempotencyTTL,
		Enabled: true,
	})
	receiptService := billingapp.NewReceiptService(receiptStorage, distributionRepo, log)
	receiptService.SetUploadTimeout(cfg.Uploads.UploadTimeout)
	reminderService := billingapp.NewReminderService(reminderRepo, distributionRepo, log)

	// HTTP handlers
	productHandler := handler.NewProductHandler(productService)
	inventoryHandler := handler.NewInventoryHandler(batchService)
	distributionHandler := handler.NewDistributionHandler(distributionService)
	receiptHandler := handler.NewReceiptHandler(receiptService, cfg.Uploads.MaxFileSize)
	reminderHandler := handler.NewReminderHandler(reminderService)
	systemHandler := handler.NewSystemHandler(db, cfg.App.Name)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := dto.RegisterValidations(); err != nil {
		log.Fatal("Failed to register request validations", zap.Error(err))
	}

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Liveness endpoint outside API versioning
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(productHandler).
		Register(inventoryHandler).
		Register(distributionHandler).
		Register(receiptHandler).
		Register(reminderHandler).
		Register(systemHandler)
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

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
