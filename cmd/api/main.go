package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-backoffice/internal/application/service"
	"github.com/sangkips/pos-backoffice/internal/config"
	"github.com/sangkips/pos-backoffice/internal/domain/repository"
	"github.com/sangkips/pos-backoffice/internal/infrastructure/cache"
	"github.com/sangkips/pos-backoffice/internal/infrastructure/database"
	"github.com/sangkips/pos-backoffice/internal/infrastructure/pdf"
	infraRepo "github.com/sangkips/pos-backoffice/internal/infrastructure/repository"
	"github.com/sangkips/pos-backoffice/internal/presentation/http/handler"
	"github.com/sangkips/pos-backoffice/internal/presentation/http/middleware"
	"github.com/sangkips/pos-backoffice/internal/presentation/http/routes"
	"github.com/sangkips/pos-backoffice/pkg/logger"
	"github.com/sangkips/pos-backoffice/pkg/utils"
	"github.com/sangkips/pos-backoffice/pkg/validation"
)

func main() {
	cfg := config.Load()

	appLog := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := validation.RegisterWithGin(); err != nil {
		appLog.Fatal().Err(err).Msg("failed to register validators")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgresDB(&cfg.Database, cfg.App.Debug)
	if err != nil {
		appLog.Fatal().Err(err).Msg("failed to connect to database")
	}

	if err := database.AutoMigrate(db); err != nil {
		appLog.Fatal().Err(err).Msg("failed to run migrations")
	}

	if err := database.SeedDefaultData(db, cfg.Seed); err != nil {
		appLog.Warn().Err(err).Msg("failed to seed default data")
	}

	rdb, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		appLog.Fatal().Err(err).Msg("failed to connect to redis")
	}
	if rdb != nil {
		defer rdb.Close()
	}
	reportCache := cache.New(rdb, cfg.App.Name+":")
	locker := cache.NewLocker(rdb, cfg.App.Name+":lock:")

	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)
	loc := cfg.App.Location()

	// Repositories
	userRepo := infraRepo.NewUserRepository(db)
	tenantRepo := infraRepo.NewTenantRepository(db)
	productRepo := infraRepo.NewProductRepository(db)
	categoryRepo := infraRepo.NewCategoryRepository(db)
	orderRepo := infraRepo.NewOrderRepository(db)
	customerRepo := infraRepo.NewCustomerRepository(db)
	employeeRepo := infraRepo.NewEmployeeRepository(db)
	attendanceRepo := infraRepo.NewAttendanceRepository(db)
	settingsRepo := infraRepo.NewInvoiceSettingRepository(db)
	printerRepo := infraRepo.NewPrinterConfigRepository(db)
	reportRepo := infraRepo.NewReportRepository(db)
	idempotencyRepo := infraRepo.NewIdempotencyRepository(db)

	// Services
	authService := service.NewAuthService(userRepo, tenantRepo, jwtManager)
	userService := service.NewUserService(userRepo)
	productService := service.NewProductService(productRepo, categoryRepo, locker, service.ImportOptions{
		MaxRows: cfg.Import.MaxRows,
		LockTTL: 2 * time.Minute,
	})
	categoryService := service.NewCategoryService(categoryRepo)
	orderService := service.NewOrderService(orderRepo, productRepo, customerRepo, employeeRepo, settingsRepo)
	customerService := service.NewCustomerService(customerRepo)
	employeeService := service.NewEmployeeService(employeeRepo, attendanceRepo)
	invoiceService := service.NewInvoiceService(settingsRepo, tenantRepo, orderRepo, pdf.NewInvoiceRenderer())
	printerService := service.NewPrinterService(printerRepo, invoiceService)
	reportService := service.NewReportService(reportRepo, reportCache, service.ReportOptions{
		Location:     loc,
		CacheTTL:     cfg.Report.CacheTTL,
		SlowAfter:    cfg.Report.SlowAfter,
		MaxRangeDays: cfg.Report.MaxRangeDays,
	})

	handlers := &routes.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		User:     handler.NewUserHandler(userService),
		Product:  handler.NewProductHandler(productService, cfg.Import.MaxUploadBytes),
		Category: handler.NewCategoryHandler(categoryService),
		Order:    handler.NewOrderHandler(orderService, loc),
		Customer: handler.NewCustomerHandler(customerService),
		Employee: handler.NewEmployeeHandler(employeeService, loc),
		Invoice:  handler.NewInvoiceHandler(invoiceService),
		Printer:  handler.NewPrinterHandler(printerService),
		Report:   handler.NewReportHandler(reportService),
	}

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfigFrom(cfg.RateLimit))
	defer rateLimiter.Close()

	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		Logger:          appLog,
		TenantRepo:      tenantRepo,
		IdempotencyRepo: idempotencyRepo,
		RateLimiter:     rateLimiter,
	})

	go sweepIdempotencyKeys(ctx, idempotencyRepo, appLog)

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLog.Info().Str("port", port).Str("env", cfg.App.Env).Msgf("starting %s", cfg.App.Name)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()
	appLog.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// sweepIdempotencyKeys deletes expired replay records once an hour.
func sweepIdempotencyKeys(ctx context.Context, repo repository.IdempotencyRepository, l *logger.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if err := repo.DeleteExpired(ctx, now); err != nil {
				l.Warn().Err(err).Msg("failed to delete expired idempotency keys")
			}
		}
	}
}
