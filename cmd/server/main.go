package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	billingapp "github.com/finvoice/backend/internal/application/billing"
	financeapp "github.com/finvoice/backend/internal/application/finance"
	identityapp "github.com/finvoice/backend/internal/application/identity"
	partnerapp "github.com/finvoice/backend/internal/application/partner"
	reportapp "github.com/finvoice/backend/internal/application/report"
	"github.com/finvoice/backend/internal/domain/shared"
	"github.com/finvoice/backend/internal/infrastructure/auth"
	"github.com/finvoice/backend/internal/infrastructure/cache"
	"github.com/finvoice/backend/internal/infrastructure/config"
	"github.com/finvoice/backend/internal/infrastructure/logger"
	"github.com/finvoice/backend/internal/infrastructure/persistence"
	"github.com/finvoice/backend/internal/infrastructure/printing"
	"github.com/finvoice/backend/internal/infrastructure/storage"
	"github.com/finvoice/backend/internal/interfaces/http/handler"
	"github.com/finvoice/backend/internal/interfaces/http/middleware"
	"github.com/finvoice/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// version is set at build time via -ldflags
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: cfg.Log.TimeFormat,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync(log) }()

	log.Info("Starting finvoice server",
		zap.String("version", version),
		zap.String("environment", cfg.App.Environment))

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(200*time.Millisecond))
	db, err := persistence.NewDatabaseWithLogger(cfg.Database, gormLog)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() { _ = db.Close() }()

	// Repositories
	companyRepo := persistence.NewGormCompanyRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	tokenRepo := persistence.NewGormAPITokenRepository(db.DB)
	clientRepo := persistence.NewGormClientRepository(db.DB)
	vendorRepo := persistence.NewGormVendorRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	accountRepo := persistence.NewGormAccountRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	expenseRepo := persistence.NewGormExpenseRepository(db.DB)
	incomeRepo := persistence.NewGormIncomeRepository(db.DB)
	recurringRepo := persistence.NewGormRecurringRepository(db.DB)
	reportRepo := persistence.NewGormReportRepository(db.DB)
	txManager := persistence.NewGormTxManager(db.DB)

	// Session blacklist and idempotency store: Redis when configured,
	// in-process fallback for single-node deployments.
	var blacklist auth.TokenBlacklist
	var idemStore shared.IdempotencyStore
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		blacklist = cache.NewRedisTokenBlacklist(redisClient)
		idemStore = cache.NewRedisIdempotencyStoreWithClient(redisClient, "finvoice:idem:")
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	} else {
		blacklist = cache.NewInMemoryTokenBlacklist()
		idemStore = cache.NewInMemoryIdempotencyStore()
		log.Warn("Redis disabled, using in-process blacklist and idempotency store")
	}
	defer func() { _ = idemStore.Close() }()

	// Object storage is optional; logo endpoints report it disabled when absent
	var objectStorage identityapp.ObjectStorage
	if cfg.Storage.AccessKey != "" && cfg.Storage.SecretKey != "" {
		s3store, err := storage.NewS3ObjectStorage(&cfg.Storage,
			storage.WithLogger(log),
			storage.WithPresignExpiry(cfg.Storage.PresignExpiry))
		if err != nil {
			return fmt.Errorf("init object storage: %w", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := s3store.EnsureBucket(ctx); err != nil {
			cancel()
			return fmt.Errorf("ensure storage bucket: %w", err)
		}
		cancel()
		objectStorage = s3store
		log.Info("Object storage ready", zap.String("bucket", cfg.Storage.Bucket))
	} else {
		log.Warn("Object storage not configured, logo endpoints disabled")
	}

	// PDF renderer is optional; the invoice PDF endpoint reports it
	// disabled when absent.
	var renderer printing.PDFRenderer
	if cfg.Printing.Enabled {
		chromeRenderer, err := printing.NewChromedpRenderer(&printing.ChromedpConfig{
			DefaultTimeout: cfg.Printing.Timeout,
			RemoteURL:      cfg.Printing.ChromeRemoteURL,
			NoSandbox:      cfg.Printing.NoSandbox,
			Logger:         log,
		})
		if err != nil {
			return fmt.Errorf("init pdf renderer: %w", err)
		}
		defer func() { _ = chromeRenderer.Close() }()
		renderer = chromeRenderer
	} else {
		log.Warn("Printing disabled, invoice PDF endpoint unavailable")
	}

	jwtService := auth.NewJWTService(auth.JWTConfig{
		AccessSecret:  cfg.JWT.AccessSecret,
		RefreshSecret: cfg.JWT.RefreshSecret,
		AccessTTL:     cfg.JWT.AccessTTL,
		RefreshTTL:    cfg.JWT.RefreshTTL,
		Issuer:        cfg.JWT.Issuer,
	})

	// Application services
	authService := identityapp.NewAuthService(userRepo, companyRepo, jwtService, blacklist,
		txManager, identityapp.AuthServiceConfig{SignupEnabled: cfg.App.SignupEnabled}, log)
	userService := identityapp.NewUserService(userRepo, log)
	tokenService := identityapp.NewTokenService(tokenRepo, userRepo, log)
	companyService := identityapp.NewCompanyService(companyRepo, objectStorage,
		cfg.Storage.LogoKeyPrefix, cfg.Storage.PresignExpiry, log)
	clientService := partnerapp.NewClientService(clientRepo, log)
	vendorService := partnerapp.NewVendorService(vendorRepo, log)
	invoiceService := billingapp.NewInvoiceService(invoiceRepo, clientRepo, accountRepo,
		incomeRepo, companyRepo, txManager, renderer, objectStorage, log)
	accountService := financeapp.NewAccountService(accountRepo, log)
	categoryService := financeapp.NewCategoryService(categoryRepo, log)
	ledgerService := financeapp.NewLedgerService(expenseRepo, incomeRepo, accountRepo,
		categoryRepo, txManager, log)
	recurringService := financeapp.NewRecurringService(recurringRepo, expenseRepo, incomeRepo,
		accountRepo, txManager, idemStore, shared.DefaultIdempotencyConfig(), log)
	reportService := reportapp.NewService(reportRepo, log)

	guard := identityapp.NewGuard(nil)

	// HTTP engine and middleware chain
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()
	engine := gin.New()
	engine.Use(
		logger.Recovery(log),
		middleware.RequestID(),
		logger.GinMiddleware(log),
		middleware.CORS(cfg.HTTP.CORSOrigins),
		middleware.Secure(),
		middleware.Authenticate(middleware.AuthConfig{
			JWTService: jwtService,
			Blacklist:  blacklist,
			Tokens:     tokenService,
			SkipPaths:  router.PublicPaths(),
			Logger:     log,
		}),
	)

	r := router.New(router.Handlers{
		System:    handler.NewSystemHandler(db, version),
		Auth:      handler.NewAuthHandler(authService),
		User:      handler.NewUserHandler(userService),
		Company:   handler.NewCompanyHandler(companyService),
		Token:     handler.NewTokenHandler(tokenService),
		Client:    handler.NewClientHandler(clientService),
		Vendor:    handler.NewVendorHandler(vendorService),
		Invoice:   handler.NewInvoiceHandler(invoiceService),
		Finance:   handler.NewFinanceHandler(accountService, categoryService),
		Ledger:    handler.NewLedgerHandler(ledgerService),
		Recurring: handler.NewRecurringHandler(recurringService),
		Report:    handler.NewReportHandler(reportService),
	}, guard)
	r.Setup(engine)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case sig := <-quit:
		log.Info("Shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
